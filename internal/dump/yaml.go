package dump

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/mkparse/internal/expr"
	"github.com/donaldgifford/mkparse/internal/parser"
)

// Stmt is the YAML form of a statement.
type Stmt struct {
	Kind  string `yaml:"kind"`
	File  string `yaml:"file,omitempty"`
	Line  int    `yaml:"line"`
	Expr  string `yaml:"expr,omitempty"`
	Term  string `yaml:"term,omitempty"`
	After string `yaml:"after,omitempty"`

	LHS       string `yaml:"lhs,omitempty"`
	Op        string `yaml:"op,omitempty"`
	RHS       string `yaml:"rhs,omitempty"`
	Directive string `yaml:"directive,omitempty"`

	ShouldExist *bool `yaml:"should_exist,omitempty"`

	True  []Stmt `yaml:"true,omitempty"`
	False []Stmt `yaml:"false,omitempty"`
}

// Stmts converts nodes to their YAML form.
func Stmts(nodes []parser.Node) []Stmt {
	out := make([]Stmt, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toStmt(n))
	}
	return out
}

func toStmt(n parser.Node) Stmt {
	loc := n.Location()
	s := Stmt{File: loc.Filename, Line: loc.Line}

	switch n := n.(type) {
	case *parser.Rule:
		s.Kind = "rule"
		s.Expr = text(n.Expr)
		if n.Term != 0 {
			s.Term = string(n.Term)
			s.After = text(n.AfterTerm)
		}
	case *parser.Command:
		s.Kind = "command"
		s.Expr = text(n.Expr)
	case *parser.Assign:
		s.Kind = "assign"
		s.LHS = text(n.LHS)
		s.Op = n.Op.String()
		s.RHS = text(n.RHS)
		if n.Directive != parser.DirectiveNone {
			s.Directive = n.Directive.String()
		}
	case *parser.Include:
		s.Kind = "include"
		s.Expr = text(n.Expr)
		shouldExist := n.ShouldExist
		s.ShouldExist = &shouldExist
	case *parser.If:
		s.Kind = n.Op.String()
		s.Expr = text(n.LHS)
		s.True = Stmts(n.True)
		s.False = Stmts(n.False)
	default:
		panic(fmt.Sprintf("dump: unknown node %T", n))
	}
	return s
}

// YAML renders nodes as a YAML sequence.
func YAML(nodes []parser.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Stmts(nodes)); err != nil {
		return nil, fmt.Errorf("encoding statements: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding statements: %w", err)
	}
	return buf.Bytes(), nil
}

func text(v expr.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
