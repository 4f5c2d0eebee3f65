// Package expr provides the default expression parser used by the
// Makefile parser. It splits text into literals and variable references
// without evaluating anything.
package expr

import (
	"strings"
)

// Value is an unevaluated Makefile expression.
type Value interface {
	// String returns the expression as Makefile text.
	String() string
	// Serialize returns a debug form that shows the expression structure.
	Serialize() string
}

// Literal is text without any variable reference.
type Literal string

func (l Literal) String() string { return string(l) }

// Serialize quotes the literal.
func (l Literal) Serialize() string { return "'" + string(l) + "'" }

// VarRef is a $(NAME), ${NAME} or $X reference. The name may itself
// contain references.
type VarRef struct {
	Name  Value
	Paren byte // '(' or '{', 0 for single-character references.
}

func (v *VarRef) String() string {
	switch v.Paren {
	case '(':
		return "$(" + v.Name.String() + ")"
	case '{':
		return "${" + v.Name.String() + "}"
	}
	return "$" + v.Name.String()
}

// Serialize renders the reference as $(name) with the name serialized.
func (v *VarRef) Serialize() string {
	return "$(" + v.Name.Serialize() + ")"
}

// Expr is a sequence of values.
type Expr []Value

func (e Expr) String() string {
	var b strings.Builder
	for _, v := range e {
		b.WriteString(v.String())
	}
	return b.String()
}

// Serialize joins the serialized parts with commas.
func (e Expr) Serialize() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Serialize()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// IsLiteral reports whether v contains no variable reference, and returns
// its text.
func IsLiteral(v Value) (string, bool) {
	switch v := v.(type) {
	case Literal:
		return string(v), true
	case Expr:
		if len(v) == 0 {
			return "", true
		}
	}
	return "", false
}
