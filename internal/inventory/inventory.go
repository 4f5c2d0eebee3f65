// Package inventory summarizes what a parsed Makefile declares.
package inventory

import (
	"fmt"
	"io"
	"strings"

	"github.com/ahrtr/gocontainer/set"

	"github.com/donaldgifford/mkparse/internal/expr"
	"github.com/donaldgifford/mkparse/internal/parser"
)

// Inventory counts statements and lists the names a Makefile declares.
// Only names without variable references are listed.
type Inventory struct {
	Rules        int
	Commands     int
	Assignments  int
	Conditionals int

	Targets   []string // In first-seen order.
	Variables []string // In first-seen order.
	Includes  []string
}

// Collect walks nodes, including both branches of every conditional.
func Collect(nodes []parser.Node) *Inventory {
	inv := &Inventory{}
	targets := set.New()
	variables := set.New()

	parser.Walk(nodes, func(n parser.Node) bool {
		switch n := n.(type) {
		case *parser.Rule:
			inv.Rules++
			for _, t := range ruleTargets(n) {
				if !targets.Contains(t) {
					targets.Add(t)
					inv.Targets = append(inv.Targets, t)
				}
			}
		case *parser.Command:
			inv.Commands++
		case *parser.Assign:
			inv.Assignments++
			if name, ok := expr.IsLiteral(n.LHS); ok && !variables.Contains(name) {
				variables.Add(name)
				inv.Variables = append(inv.Variables, name)
			}
		case *parser.Include:
			if s, ok := expr.IsLiteral(n.Expr); ok {
				inv.Includes = append(inv.Includes, strings.Fields(s)...)
			}
		case *parser.If:
			inv.Conditionals++
		}
		return true
	})
	return inv
}

// ruleTargets returns the literal targets of a "targets: prereqs" rule.
func ruleTargets(r *parser.Rule) []string {
	s, ok := expr.IsLiteral(r.Expr)
	if !ok {
		return nil
	}
	colon := strings.IndexByte(s, ':')
	if colon < 0 {
		return nil
	}
	return strings.Fields(s[:colon])
}

// WriteTo writes a human-readable summary.
func (inv *Inventory) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "rules: %d\n", inv.Rules)
	fmt.Fprintf(&b, "commands: %d\n", inv.Commands)
	fmt.Fprintf(&b, "assignments: %d\n", inv.Assignments)
	fmt.Fprintf(&b, "conditionals: %d\n", inv.Conditionals)
	writeList(&b, "targets", inv.Targets)
	writeList(&b, "variables", inv.Variables)
	writeList(&b, "includes", inv.Includes)

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func writeList(b *strings.Builder, name string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", name, strings.Join(items, " "))
}
