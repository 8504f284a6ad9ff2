// Package cp wraps the gokanlogic finite-domain engine behind the constraint
// vocabulary the scheduling models need: integer variables over [lb, ub],
// interval variables whose end is structurally tied to start + size,
// disjunctive (no-overlap) resource constraints, reified booleans and a
// minimization objective. The engine's 1-based bitset domains and its
// {1=false, 2=true} boolean encoding never leak out of this package: every
// value crossing the boundary is shifted by one.
package cp

import (
	"fmt"

	"github.com/gitrdm/gokanlogic/pkg/minikanren"
	"github.com/samber/lo"
)

// IntVar is an integer decision variable over the inclusive range [lb, ub].
type IntVar struct {
	fd *minikanren.FDVariable
	lb int
	ub int
}

// Min returns the lower bound the variable was declared with.
func (v *IntVar) Min() int { return v.lb }

// Max returns the upper bound the variable was declared with.
func (v *IntVar) Max() int { return v.ub }

// BoolVar is a boolean decision variable (an indicator).
type BoolVar struct {
	fd *minikanren.FDVariable
}

// IntervalVar represents a half-open time interval [Start, End) whose length
// is fixed at construction: End = Start + Size holds in every solution
// because the linking constraint is posted when the interval is created,
// never as a separately forgettable step. Size is -1 when the interval was
// built with a variable size (SizeVar is set instead).
type IntervalVar struct {
	Start   *IntVar
	End     *IntVar
	Size    int
	SizeVar *IntVar
}

// Model accumulates variables and constraints of one problem instance. A
// model is built once, solved once (or enumerated once) and discarded; it is
// not safe for concurrent mutation.
type Model struct {
	inner     *minikanren.Model
	objective *IntVar
}

func NewModel() *Model {
	return &Model{inner: minikanren.NewModel()}
}

// NewIntVar creates an integer variable with domain [lb, ub]. Bounds must
// satisfy 0 <= lb <= ub; scheduling time points are never negative.
func (m *Model) NewIntVar(lb, ub int, name string) (*IntVar, error) {
	if lb < 0 || ub < lb {
		return nil, fmt.Errorf("cp: invalid bounds [%d, %d] for %q", lb, ub, name)
	}
	values := make([]int, 0, ub-lb+1)
	for v := lb; v <= ub; v++ {
		values = append(values, v+1)
	}
	domain := minikanren.NewBitSetDomainFromValues(ub+1, values)
	var fd *minikanren.FDVariable
	if name != "" {
		fd = m.inner.NewVariableWithName(domain, name)
	} else {
		fd = m.inner.NewVariable(domain)
	}
	return &IntVar{fd: fd, lb: lb, ub: ub}, nil
}

// NewBoolVar creates an indicator variable.
func (m *Model) NewBoolVar(name string) *BoolVar {
	domain := minikanren.NewBitSetDomain(2)
	var fd *minikanren.FDVariable
	if name != "" {
		fd = m.inner.NewVariableWithName(domain, name)
	} else {
		fd = m.inner.NewVariable(domain)
	}
	return &BoolVar{fd: fd}
}

// NewIntervalVar creates an interval of fixed size and posts End = Start +
// size as part of construction, so the three fields form a single linked
// unit. A zero size is legal and yields an empty [s, s) interval.
func (m *Model) NewIntervalVar(start *IntVar, size int, end *IntVar) (*IntervalVar, error) {
	if size < 0 {
		return nil, fmt.Errorf("cp: negative interval size %d", size)
	}
	link, err := minikanren.NewArithmetic(start.fd, end.fd, size)
	if err != nil {
		return nil, err
	}
	m.inner.AddConstraint(link)
	return &IntervalVar{Start: start, End: end, Size: size}, nil
}

// NewFlexibleIntervalVar creates an interval whose size is itself a decision
// variable: End = Start + size in every solution. Used by the batch model
// where the transfer duration depends on the chosen option.
func (m *Model) NewFlexibleIntervalVar(start, size, end *IntVar) (*IntervalVar, error) {
	// The engine's LinearSum works on raw (shifted) values:
	// raw(start) + raw(size) = raw(end) + 1, bridged through an
	// auxiliary total variable.
	rawMin := start.lb + size.lb + 2
	rawMax := start.ub + size.ub + 2
	values := make([]int, 0, rawMax-rawMin+1)
	for v := rawMin; v <= rawMax; v++ {
		values = append(values, v)
	}
	total := m.inner.NewVariable(minikanren.NewBitSetDomainFromValues(rawMax, values))

	sum, err := minikanren.NewLinearSum([]*minikanren.FDVariable{start.fd, size.fd}, []int{1, 1}, total)
	if err != nil {
		return nil, err
	}
	m.inner.AddConstraint(sum)

	bridge, err := minikanren.NewArithmetic(end.fd, total, 1)
	if err != nil {
		return nil, err
	}
	m.inner.AddConstraint(bridge)

	return &IntervalVar{Start: start, End: end, Size: -1, SizeVar: size}, nil
}

// AddNoOverlap posts one disjunctive constraint over the whole set of
// intervals: no two of them may occupy the same time point. Zero-size
// intervals occupy no time and are skipped; an empty or singleton set needs
// no constraint and is not an error.
func (m *Model) AddNoOverlap(intervals []*IntervalVar) error {
	timed := lo.Filter(intervals, func(iv *IntervalVar, _ int) bool {
		return iv.Size > 0
	})
	if len(timed) < 2 {
		return nil
	}
	starts := make([]*minikanren.FDVariable, len(timed))
	sizes := make([]int, len(timed))
	for i, iv := range timed {
		starts[i] = iv.Start.fd
		sizes[i] = iv.Size
	}
	disjunctive, err := minikanren.NewNoOverlap(starts, sizes)
	if err != nil {
		return err
	}
	m.inner.AddConstraint(disjunctive)
	return nil
}

// AddNoOverlap2D posts a pairwise exclusion over rectangles spanned by a
// time interval and a second-dimension interval: for every pair at least one
// of the four "completely before/after" relations must hold. Unlike the
// engine's Diffn this works directly on the end variables, so intervals with
// variable sizes are supported.
func (m *Model) AddNoOverlap2D(xs, ys []*IntervalVar) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("cp: mismatched rectangle dimensions (%d vs %d)", len(xs), len(ys))
	}
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			disjuncts := [][2]*IntVar{
				{xs[i].End, xs[j].Start},
				{xs[j].End, xs[i].Start},
				{ys[i].End, ys[j].Start},
				{ys[j].End, ys[i].Start},
			}
			indicators := make([]*BoolVar, 0, len(disjuncts))
			for _, pair := range disjuncts {
				b := m.NewBoolVar("")
				if err := m.AddLessOrEqualReified(pair[0], pair[1], b); err != nil {
					return err
				}
				indicators = append(indicators, b)
			}
			if err := m.AddAtLeastOne(indicators); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddLessOrEqual posts x <= y.
func (m *Model) AddLessOrEqual(x, y *IntVar) error {
	c, err := minikanren.NewInequality(x.fd, y.fd, minikanren.LessEqual)
	if err != nil {
		return err
	}
	m.inner.AddConstraint(c)
	return nil
}

// AddEquality posts x == y.
func (m *Model) AddEquality(x, y *IntVar) error {
	c, err := minikanren.NewArithmetic(x.fd, y.fd, 0)
	if err != nil {
		return err
	}
	m.inner.AddConstraint(c)
	return nil
}

// AddMaxEquality posts target == max(vars).
func (m *Model) AddMaxEquality(target *IntVar, vars []*IntVar) error {
	if len(vars) == 0 {
		return fmt.Errorf("cp: max over empty set")
	}
	fds := lo.Map(vars, func(v *IntVar, _ int) *minikanren.FDVariable { return v.fd })
	c, err := minikanren.NewMax(fds, target.fd)
	if err != nil {
		return err
	}
	m.inner.AddConstraint(c)
	return nil
}

// AddExactlyOne posts that exactly one of the indicators is true.
func (m *Model) AddExactlyOne(indicators []*BoolVar) error {
	return m.addBoolCount(indicators, 1, 1)
}

// AddAtLeastOne posts that at least one of the indicators is true.
func (m *Model) AddAtLeastOne(indicators []*BoolVar) error {
	return m.addBoolCount(indicators, 1, len(indicators))
}

func (m *Model) addBoolCount(indicators []*BoolVar, minTrue, maxTrue int) error {
	if len(indicators) == 0 {
		return fmt.Errorf("cp: boolean count over empty set")
	}
	// The engine's BoolSum total encodes count+1.
	values := make([]int, 0, maxTrue-minTrue+1)
	for c := minTrue; c <= maxTrue; c++ {
		values = append(values, c+1)
	}
	total := m.inner.NewVariable(minikanren.NewBitSetDomainFromValues(len(indicators)+1, values))
	fds := lo.Map(indicators, func(b *BoolVar, _ int) *minikanren.FDVariable { return b.fd })
	c, err := minikanren.NewBoolSum(fds, total)
	if err != nil {
		return err
	}
	m.inner.AddConstraint(c)
	return nil
}

// AddEqualityReified ties the indicator to x == value: the indicator is true
// in a solution if and only if x takes that value.
func (m *Model) AddEqualityReified(x *IntVar, value int, indicator *BoolVar) error {
	if value < x.lb || value > x.ub {
		return fmt.Errorf("cp: reified value %d outside [%d, %d]", value, x.lb, x.ub)
	}
	// The constant must share x's domain capacity: the engine's bitset
	// intersection treats domains of different sizes as disjoint.
	constant := m.inner.NewVariable(minikanren.NewBitSetDomainFromValues(x.ub+1, []int{value + 1}))
	c, err := minikanren.NewEqualityReified(x.fd, constant, indicator.fd)
	if err != nil {
		return err
	}
	m.inner.AddConstraint(c)
	return nil
}

// AddLessOrEqualReified ties the indicator to x <= y.
func (m *Model) AddLessOrEqualReified(x, y *IntVar, indicator *BoolVar) error {
	ineq, err := minikanren.NewInequality(x.fd, y.fd, minikanren.LessEqual)
	if err != nil {
		return err
	}
	c, err := minikanren.NewReifiedConstraint(ineq, indicator.fd)
	if err != nil {
		return err
	}
	m.inner.AddConstraint(c)
	return nil
}

// AddElement posts target == table[index], with index counting from zero.
// This is the conditional-constraint workhorse: once an option index is
// decided, the dependent variable is pinned to that option's table entry.
func (m *Model) AddElement(index *IntVar, table []int, target *IntVar) error {
	if len(table) == 0 {
		return fmt.Errorf("cp: element over empty table")
	}
	shifted := lo.Map(table, func(v int, _ int) int { return v + 1 })
	c, err := minikanren.NewElementValues(index.fd, shifted, target.fd)
	if err != nil {
		return err
	}
	m.inner.AddConstraint(c)
	return nil
}

// Minimize declares the objective. At most one objective per model.
func (m *Model) Minimize(objective *IntVar) {
	m.objective = objective
}
