package docstore

import (
	"reflect"
	"time"
)

// Predicate is a single filter condition applied to a record during FindAll
// and Paginate. The concrete variants form a small closed set; evaluation
// is a plain interpreter over them, with no shape-sniffing of filter maps.
type Predicate interface {
	Matches(r Record) bool
}

// Equals matches records whose field equals the given value. Numeric values
// compare by magnitude regardless of Go type, because JSON round-trips turn
// every number into float64. A record missing the field never matches.
type Equals struct {
	Field string
	Value any
}

func (p Equals) Matches(r Record) bool {
	v, ok := r[p.Field]
	if !ok {
		return false
	}
	return looseEqual(v, p.Value)
}

// After matches records whose field holds an RFC 3339 timestamp strictly
// later than Threshold. Missing, non-string or unparsable values never
// match. Used for expiry-window checks such as password-reset tokens.
type After struct {
	Field     string
	Threshold time.Time
}

func (p After) Matches(r Record) bool {
	raw, ok := r[p.Field].(string)
	if !ok {
		return false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return t.After(p.Threshold)
}

// Filter is the conjunction of its predicates. A nil or empty filter
// matches every record.
type Filter []Predicate

func (f Filter) Matches(r Record) bool {
	for _, p := range f {
		if !p.Matches(r) {
			return false
		}
	}
	return true
}

func looseEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
