package driver

// DefaultMaxSteps bounds the number of resolutions in one playout.
const DefaultMaxSteps = 5000

// QuotaEnforcer counts resolutions in one playout and enforces a maximum.
//
// A battle with a turn limit is finite, but a tree whose steps keep
// producing decisions without advancing the battle is not; the quota
// guarantees every playout terminates.
type QuotaEnforcer struct {
	maxSteps int
	current  int
}

// NewQuotaEnforcer creates a new quota enforcer with the given limit.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	return &QuotaEnforcer{maxSteps: maxSteps}
}

// Check increments the step counter and validates against the limit.
// Returns a QUOTA_EXCEEDED RuntimeError once the limit is passed.
func (q *QuotaEnforcer) Check(playoutID string) error {
	q.current++
	if q.current > q.maxSteps {
		return NewQuotaError(playoutID, q.current, q.maxSteps)
	}
	return nil
}

// Reset resets the step counter to 0.
func (q *QuotaEnforcer) Reset() {
	q.current = 0
}

// Current returns the current step count.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSteps returns the maximum steps limit.
func (q *QuotaEnforcer) MaxSteps() int {
	return q.maxSteps
}
