// Package dump renders parsed Makefile statements as text or YAML.
package dump

import (
	"fmt"
	"strings"

	"github.com/donaldgifford/mkparse/internal/expr"
	"github.com/donaldgifford/mkparse/internal/parser"
)

// Options controls rendering.
type Options struct {
	// Structure prints expressions in their serialized form, showing
	// literals and variable references, instead of as Makefile text.
	Structure bool
}

// Text renders nodes one statement per line, prefixed with the line
// number. Conditional branches are indented by two spaces per level.
//
//	1: ifdef "DEBUG"
//	  2: assign "CFLAGS" = "-g"
//	else
//	  4: assign "CFLAGS" = "-O2"
//	endif
func Text(nodes []parser.Node, opts *Options) string {
	if opts == nil {
		opts = &Options{}
	}
	var b strings.Builder
	writeNodes(&b, nodes, opts, 0)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []parser.Node, opts *Options, depth int) {
	for _, n := range nodes {
		writeNode(b, n, opts, depth)
	}
}

func writeNode(b *strings.Builder, n parser.Node, opts *Options, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%d: ", indent, n.Location().Line)

	switch n := n.(type) {
	case *parser.Rule:
		fmt.Fprintf(b, "rule %s", quote(n.Expr, opts))
		if n.Term != 0 {
			fmt.Fprintf(b, " %c %s", n.Term, quote(n.AfterTerm, opts))
		}

	case *parser.Command:
		fmt.Fprintf(b, "command %s", quote(n.Expr, opts))

	case *parser.Assign:
		fmt.Fprintf(b, "assign %s %s %s", quote(n.LHS, opts), n.Op, quote(n.RHS, opts))
		if n.Directive != parser.DirectiveNone {
			fmt.Fprintf(b, " (%s)", n.Directive)
		}

	case *parser.Include:
		keyword := "include"
		if !n.ShouldExist {
			keyword = "-include"
		}
		fmt.Fprintf(b, "%s %s", keyword, quote(n.Expr, opts))

	case *parser.If:
		fmt.Fprintf(b, "%s %s\n", n.Op, quote(n.LHS, opts))
		writeNodes(b, n.True, opts, depth+1)
		if len(n.False) > 0 {
			b.WriteString(indent)
			b.WriteString("else\n")
			writeNodes(b, n.False, opts, depth+1)
		}
		b.WriteString(indent)
		b.WriteString("endif")
	}

	b.WriteByte('\n')
}

func quote(v expr.Value, opts *Options) string {
	if v == nil {
		return `""`
	}
	if opts.Structure {
		return v.Serialize()
	}
	return fmt.Sprintf("%q", v.String())
}
