package engine

// Continuation resumes a suspended computation once a branch is resolved.
//
// A continuation is affine: Resume may be called at most once. A second call
// panics with a *ContractError (ErrCodeContinuationConsumed). Continuations
// of different options of the same node are independent of each other.
type Continuation[S any, P Player] struct {
	fn func(S) Node[S, P]
}

func newContinuation[S any, P Player](fn func(S) Node[S, P]) *Continuation[S, P] {
	return &Continuation[S, P]{fn: fn}
}

// Resume consumes the continuation and returns the next node.
// Panics if the continuation was already resumed or discarded.
func (c *Continuation[S, P]) Resume(state S) Node[S, P] {
	n, err := c.TryResume(state)
	if err != nil {
		panic(err)
	}
	return n
}

// TryResume is like Resume but returns a *ContractError instead of panicking.
func (c *Continuation[S, P]) TryResume(state S) (Node[S, P], error) {
	if c == nil || c.fn == nil {
		return Node[S, P]{}, newConsumedError()
	}
	fn := c.fn
	c.fn = nil
	return fn(state), nil
}

// Discard drops the continuation without invoking it.
// Dropping has no side effects.
func (c *Continuation[S, P]) Discard() {
	if c != nil {
		c.fn = nil
	}
}

// Consumed reports whether the continuation can no longer be resumed.
func (c *Continuation[S, P]) Consumed() bool {
	return c == nil || c.fn == nil
}

// then wraps the continuation so that f runs after whatever node it yields.
func (c *Continuation[S, P]) then(f Step[S, P]) *Continuation[S, P] {
	return newContinuation(func(s S) Node[S, P] {
		return c.Resume(s).Then(f)
	})
}
