package parser

// findEndOfLine returns the end offset of the logical line starting at
// start and the number of newlines consumed, including the terminating
// one. A newline preceded by an odd number of backslashes continues the
// line. Carriage returns are skipped without affecting the backslash
// count.
func findEndOfLine(buf string, start int) (end, lfCount int) {
	prevBackslash := false
	for end = start; end < len(buf); end++ {
		switch c := buf[end]; c {
		case '\\':
			prevBackslash = !prevBackslash
		case '\n':
			lfCount++
			if !prevBackslash {
				return end, lfCount
			}
			prevBackslash = false
		case '\r':
		default:
			prevBackslash = false
		}
	}
	return end, lfCount
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func trimLeftSpace(s string) string {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return s[i:]
}

func trimRightSpace(s string) string {
	i := len(s)
	for i > 0 && isSpace(s[i-1]) {
		i--
	}
	return s[:i]
}

func trimSpace(s string) string {
	return trimRightSpace(trimLeftSpace(s))
}
