package automaton

import "liveiron/internal/grid"

// Rule computes a cell's next state. Both the cell and its neighbours carry
// states read from the frozen prior-generation snapshot, so a rule is a pure
// function of one generation.
type Rule[S grid.State] interface {
	Name() string
	Next(cell grid.Cell[S], neighbours []grid.Cell[S]) S
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc[S grid.State] struct {
	RuleName string
	Fn       func(cell grid.Cell[S], neighbours []grid.Cell[S]) S
}

func (r RuleFunc[S]) Name() string {
	return r.RuleName
}

func (r RuleFunc[S]) Next(cell grid.Cell[S], neighbours []grid.Cell[S]) S {
	return r.Fn(cell, neighbours)
}
