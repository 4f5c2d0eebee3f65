package expr

import "strings"

// Parser is the default expression parser. The zero value is ready to use.
type Parser struct{}

// ParseExpr parses s. When isCommand is set the text is a recipe and
// backslash-newline sequences are kept for the shell.
func (Parser) ParseExpr(s string, isCommand bool) Value {
	return Parse(s, isCommand)
}

// Parse splits s into literals and variable references.
func Parse(s string, isCommand bool) Value {
	if !isCommand {
		s = joinContinuations(s)
	}
	seq, _, _ := parseSeq(s, 0, 0)
	return compact(seq)
}

// joinContinuations replaces every backslash-newline, together with the
// blanks around it, by a single space. Newlines preceded by an even
// number of backslashes are kept.
func joinContinuations(s string) string {
	if strings.IndexByte(s, '\n') < 0 {
		return s
	}

	var b strings.Builder
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		head := strings.TrimSuffix(s[:i], "\r")
		if trailingBackslashes(head)%2 == 0 {
			b.WriteString(s[:i+1])
			s = s[i+1:]
			continue
		}
		b.WriteString(strings.TrimRight(head[:len(head)-1], " \t"))
		b.WriteByte(' ')
		s = strings.TrimLeft(s[i+1:], " \t")
	}
}

func trailingBackslashes(s string) int {
	n := 0
	for n < len(s) && s[len(s)-1-n] == '\\' {
		n++
	}
	return n
}

// parseSeq parses from i until term (or the end of s when term is 0).
// It returns the index of term and whether term was found.
func parseSeq(s string, i int, term byte) (Expr, int, bool) {
	var out Expr
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, Literal(lit.String()))
			lit.Reset()
		}
	}

	open := openOf(term)
	depth := 0
	for i < len(s) {
		c := s[i]
		if term != 0 {
			switch c {
			case term:
				if depth == 0 {
					flush()
					return out, i, true
				}
				depth--
			case open:
				depth++
			}
		}

		if c != '$' || i+1 >= len(s) {
			lit.WriteByte(c)
			i++
			continue
		}

		switch n := s[i+1]; n {
		case '$':
			lit.WriteString("$$")
			i += 2
		case '(', '{':
			name, j, ok := parseSeq(s, i+2, closeOf(n))
			if !ok {
				// Unterminated: keep the rest verbatim.
				lit.WriteString(s[i:])
				i = len(s)
				continue
			}
			flush()
			out = append(out, &VarRef{Name: compact(name), Paren: n})
			i = j + 1
		default:
			flush()
			out = append(out, &VarRef{Name: Literal(s[i+1 : i+2])})
			i += 2
		}
	}
	flush()
	return out, i, term == 0
}

func compact(e Expr) Value {
	switch len(e) {
	case 0:
		return Literal("")
	case 1:
		return e[0]
	}
	return e
}

func openOf(term byte) byte {
	switch term {
	case ')':
		return '('
	case '}':
		return '{'
	}
	return 0
}

func closeOf(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ')'
}
