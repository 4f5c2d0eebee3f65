// Package parser turns Makefile text into a list of statements.
package parser

import (
	"fmt"

	"github.com/donaldgifford/mkparse/internal/expr"
)

// Loc is a source location.
type Loc struct {
	Filename string
	Line     int // 1-indexed.
}

func (l Loc) String() string {
	return fmt.Sprintf("%s:%d", l.Filename, l.Line)
}

// Node is a parsed Makefile statement: *Rule, *Assign, *Include, *If or
// *Command.
type Node interface {
	Location() Loc
	node()
}

// AssignOp is the operator of a variable assignment.
type AssignOp int

const (
	// OpEq is a recursively expanded assignment (=).
	OpEq AssignOp = iota
	// OpColonEq is a simply expanded assignment (:=).
	OpColonEq
	// OpPlusEq appends to a variable (+=).
	OpPlusEq
	// OpQuestionEq assigns only if the variable is undefined (?=).
	OpQuestionEq
)

func (op AssignOp) String() string {
	switch op {
	case OpColonEq:
		return ":="
	case OpPlusEq:
		return "+="
	case OpQuestionEq:
		return "?="
	}
	return "="
}

// AssignDirective qualifies an assignment. Only DirectiveNone is
// produced by the parser today.
type AssignDirective int

const (
	DirectiveNone AssignDirective = iota
	DirectiveOverride
	DirectiveExport
)

func (d AssignDirective) String() string {
	switch d {
	case DirectiveOverride:
		return "override"
	case DirectiveExport:
		return "export"
	}
	return "none"
}

// CondOp is the operator of a conditional.
type CondOp int

const (
	CondIfdef CondOp = iota
	CondIfndef
)

func (op CondOp) String() string {
	if op == CondIfndef {
		return "ifndef"
	}
	return "ifdef"
}

// Rule is a target line: "targets: prerequisites", optionally followed by
// "; recipe" or a rule-local "= value".
type Rule struct {
	Loc       Loc
	Expr      expr.Value
	Term      byte       // 0, '=' or ';'.
	AfterTerm expr.Value // nil when Term is 0.
}

// Assign is a variable assignment. define blocks are assignments too.
type Assign struct {
	Loc       Loc
	LHS       expr.Value
	RHS       expr.Value
	Op        AssignOp
	Directive AssignDirective
}

// Include is an include, -include or sinclude directive.
type Include struct {
	Loc         Loc
	Expr        expr.Value
	ShouldExist bool // false for -include and sinclude.
}

// If is an ifdef or ifndef block.
type If struct {
	Loc   Loc
	Op    CondOp
	LHS   expr.Value
	True  []Node
	False []Node
}

// Command is a recipe line belonging to the preceding rule.
type Command struct {
	Loc  Loc
	Expr expr.Value
}

func (n *Rule) Location() Loc    { return n.Loc }
func (n *Assign) Location() Loc  { return n.Loc }
func (n *Include) Location() Loc { return n.Loc }
func (n *If) Location() Loc      { return n.Loc }
func (n *Command) Location() Loc { return n.Loc }

func (*Rule) node()    {}
func (*Assign) node()  {}
func (*Include) node() {}
func (*If) node()      {}
func (*Command) node() {}

// Walk calls fn for every node in nodes in source order, descending into
// both branches of conditionals. It stops early when fn returns false.
func Walk(nodes []Node, fn func(Node) bool) bool {
	for _, n := range nodes {
		if !fn(n) {
			return false
		}
		if st, ok := n.(*If); ok {
			if !Walk(st.True, fn) || !Walk(st.False, fn) {
				return false
			}
		}
	}
	return true
}
