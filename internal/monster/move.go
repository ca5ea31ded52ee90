package monster

import "fmt"

// Category decides which attack and defense stats a move uses.
type Category int

const (
	Physical Category = iota
	Special
	Status
)

func (c Category) String() string {
	switch c {
	case Physical:
		return "physical"
	case Special:
		return "special"
	case Status:
		return "status"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory accepts "physical", "special" or "status".
func ParseCategory(s string) (Category, error) {
	switch s {
	case "physical":
		return Physical, nil
	case "special":
		return Special, nil
	case "status":
		return Status, nil
	default:
		return 0, fmt.Errorf("unknown move category %q", s)
	}
}

// Move is a move definition. Accuracy is a percentage; 100 never misses.
type Move struct {
	Name     string
	Type     Type
	Category Category
	Power    int
	Accuracy int
}

func (m Move) String() string { return m.Name }

// AlwaysHits reports whether the move skips the accuracy roll.
func (m Move) AlwaysHits() bool { return m.Accuracy >= 100 }
