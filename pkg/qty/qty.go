package qty

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Uom is a unit of measure. A terminal unit has no Nested value; a
// packaging unit nests the Qty that one unit of it contains (a box
// nests "24 rolls", which in turn nests "500 g").
type Uom struct {
	ID     uuid.UUID
	Nested *Qty
}

// equal compares two units structurally, including the full nested Qty
// (number and unit), matching the derived equality a Rust enum variant
// would get.
func (u Uom) equal(o Uom) bool {
	if u.ID != o.ID {
		return false
	}
	if (u.Nested == nil) != (o.Nested == nil) {
		return false
	}
	if u.Nested == nil {
		return true
	}
	return u.Nested.Equal(*o.Nested)
}

// Qty is a count paired with a unit of measure that may itself describe
// a packaging level.
type Qty struct {
	Number decimal.Decimal
	Unit   Uom
}

// New builds a Qty whose unit is terminal (no packaging nested inside).
func New(number decimal.Decimal, unit uuid.UUID) Qty {
	return Qty{Number: number, Unit: Uom{ID: unit}}
}

// NewNested builds a Qty whose unit packages the given inner Qty, e.g.
// NewNested(3, boxID, NewNested(24, rollID, New(500, gramID))) for
// "3 boxes of 24 rolls of 500 g".
func NewNested(number decimal.Decimal, unit uuid.UUID, inner Qty) Qty {
	return Qty{Number: number, Unit: Uom{ID: unit, Nested: &inner}}
}

// Equal reports whether two quantities describe the identical tree:
// same number at every level, same unit id at every level.
func (q Qty) Equal(o Qty) bool {
	return q.Number.Equal(o.Number) && q.Unit.equal(o.Unit)
}

// IsZero reports whether the root count is zero.
func (q Qty) IsZero() bool {
	return q.Number.IsZero()
}

// Neg returns q with its root count negated.
func (q Qty) Neg() Qty {
	n := q
	n.Number = q.Number.Neg()
	return n
}

// Add combines q and r into one Qty when their unit trees match exactly,
// or returns both terms unmerged otherwise — callers accept the two-term
// result or propagate it further.
func (q Qty) Add(r Qty) []Qty {
	if q.Unit.equal(r.Unit) {
		sum := q
		sum.Number = q.Number.Add(r.Number)
		return []Qty{sum}
	}
	return []Qty{q, r}
}

// term is one level of a Qty's depth decomposition: a number paired
// with the unit id at that level. index 0 is the deepest (most nested,
// terminal) level; the last index is the Qty's own root level.
type term struct {
	Number decimal.Decimal
	Unit   uuid.UUID
}

// depth flattens q's nested unit chain, terminal level first.
func (q Qty) depth() []term {
	levels := []term{{q.Number, q.Unit.ID}}
	cur := q
	for cur.Unit.Nested != nil {
		cur = *cur.Unit.Nested
		levels = append(levels, term{cur.Number, cur.Unit.ID})
	}
	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}
	return levels
}

// fromTerms rebuilds a Qty from its deepest-first depth decomposition.
func fromTerms(terms []term) Qty {
	n := len(terms)
	root := Qty{Number: terms[n-1].Number, Unit: Uom{ID: terms[n-1].Unit}}
	head := &root
	for i := n - 2; i >= 0; i-- {
		nested := Qty{Number: terms[i].Number, Unit: Uom{ID: terms[i].Unit}}
		head.Unit.Nested = &nested
		head = head.Unit.Nested
	}
	return root
}

// matchPrefix walks left and right in lockstep from their deepest level,
// comparing the full term at every level except the last one each side
// has in common, where only the unit id must agree (the numbers there
// are exactly what Sub is trying to reconcile). It reports the index of
// the last level compared and whether the two sides are compatible at
// all — incompatible sides cannot be simplified against one another.
func matchPrefix(left, right []term) (index int, ok bool) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		l, r := left[i], right[i]
		if index+1 < len(left) && index+1 < len(right) {
			if !l.Number.Equal(r.Number) || l.Unit != r.Unit {
				return 0, false
			}
			index++
		} else {
			if l.Unit != r.Unit {
				return 0, false
			}
		}
	}
	return index, true
}

// simplify collapses terms down to index+1 levels by repeatedly folding
// the root-most level's number into the level below it.
func simplify(terms []term, index int) []term {
	out := append([]term(nil), terms...)
	for len(out) > index+1 {
		last := len(out) - 1
		popped := out[last]
		out = out[:last]
		prev := out[len(out)-1]
		out[len(out)-1] = term{popped.Number.Mul(prev.Number), prev.Unit}
	}
	return out
}

// Sub subtracts r from q. When the two share an identical unit tree (or
// can be brought to a common granularity by flattening the deeper side),
// it returns a single remainder term, or a divisible quotient term plus
// an irreducible remainder term when the subtraction does not divide
// evenly. When the two sides share no common structure at all, it
// returns the two operands as-is (q and -r), leaving the caller to
// accept a two-term, unmerged result.
func (q Qty) Sub(r Qty) ([]Qty, error) {
	left := q.depth()
	right := r.depth()

	index, ok := matchPrefix(left, right)
	if !ok {
		return []Qty{q, r.Neg()}, nil
	}

	full := append([]term(nil), left...)

	if len(left) > index+1 {
		left = simplify(left, index)
	} else if len(right) > index+1 {
		right = simplify(right, index)
	}

	if len(left) != len(right) {
		return nil, nil
	}

	return subtract(full, left, right)
}

func subtract(full, left, right []term) ([]Qty, error) {
	if len(left) == 0 || len(right) == 0 {
		return nil, errors.New("qty: subtract requires at least one level")
	}

	last := len(left) - 1
	number := left[last].Number.Sub(right[last].Number)
	if number.IsZero() {
		return nil, nil
	}

	left = append([]term(nil), left...)
	left[last] = term{number, left[last].Unit}

	return convert(left, full), nil
}

// convert re-expresses the shorter, collapsed term chain from at the
// granularity of the longer chain into, splitting any level that does
// not divide evenly into an exact quotient term and an irreducible
// remainder term.
func convert(from, into []term) []Qty {
	if len(from) >= len(into) {
		return []Qty{fromTerms(from)}
	}

	from = append([]term(nil), from...)
	start := len(from) - 1
	if start < 0 || from[start].Unit != into[start].Unit {
		return nil
	}

	var result []Qty
	for index := start; index < len(into); index++ {
		if index >= len(from) {
			break
		}
		fromNumber := from[index].Number
		fromUnit := from[index].Unit
		intoNumber := into[index].Number

		switch {
		case fromNumber.Equal(intoNumber):
			if index+1 < len(into) {
				from = append(from, term{decimal.NewFromInt(1), into[index+1].Unit})
			}
		case fromNumber.GreaterThan(intoNumber):
			div := fromNumber.Div(intoNumber).Truncate(0)
			rem := fromNumber.Mod(intoNumber)
			if rem.GreaterThan(decimal.Zero) {
				tmp := append([]term(nil), from...)
				tmp[index] = term{rem, fromUnit}
				result = append(result, fromTerms(tmp))
				from[index] = term{fromNumber.Sub(rem).Div(div), fromUnit}
			} else {
				from[index] = term{fromNumber.Div(div), fromUnit}
			}
			if index+1 < len(into) {
				from = append(from, term{div, into[index+1].Unit})
			}
		}
	}

	result = append(result, fromTerms(from))
	return result
}
