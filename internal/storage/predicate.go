package storage

import "strings"

type PredicateKind int

const (
	PredicateNone PredicateKind = iota
	PredicateCategory
	PredicateTitle
)

// Predicate narrows the dashboard listing. The zero value matches every task.
type Predicate struct {
	Kind  PredicateKind
	Value string
}

func NoFilter() Predicate { return Predicate{} }

func CategoryEquals(tag string) Predicate {
	return Predicate{Kind: PredicateCategory, Value: tag}
}

func TitleContains(substr string) Predicate {
	return Predicate{Kind: PredicateTitle, Value: substr}
}

// clause returns a fixed SQL fragment to append to a WHERE clause and the
// values bound to its placeholders.
func (p Predicate) clause() (string, []any) {
	switch p.Kind {
	case PredicateCategory:
		return ` AND category = ?`, []any{p.Value}
	case PredicateTitle:
		return ` AND title LIKE ? ESCAPE '\'`, []any{"%" + escapeLike(p.Value) + "%"}
	default:
		return "", nil
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
