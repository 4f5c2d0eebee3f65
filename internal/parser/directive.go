package parser

import "sync"

// directive identifies a directive keyword.
type directive int

const (
	dirInclude directive = iota
	dirDefine
	dirIfdef
	dirElse
	dirEndif
)

var (
	directiveOnce sync.Once
	directives    map[string]directive
	// elseIfDirectives may follow "else" on the same line.
	elseIfDirectives map[string]directive

	shortestDirectiveLen int
	longestDirectiveLen  int
)

// Init builds the directive table. It is safe to call more than once and
// from several goroutines; Parse calls it as well.
func Init() {
	directiveOnce.Do(func() {
		directives = map[string]directive{
			"include":  dirInclude,
			"-include": dirInclude,
			"sinclude": dirInclude,
			"define":   dirDefine,
			"ifdef":    dirIfdef,
			"ifndef":   dirIfdef,
			"else":     dirElse,
			"endif":    dirEndif,
		}
		elseIfDirectives = map[string]directive{
			"ifdef":  dirIfdef,
			"ifndef": dirIfdef,
		}

		shortestDirectiveLen = 9999
		longestDirectiveLen = 0
		for keyword := range directives {
			shortestDirectiveLen = min(shortestDirectiveLen, len(keyword))
			longestDirectiveLen = max(longestDirectiveLen, len(keyword))
		}
	})
}

// matchDirective reports whether line starts with a keyword of table
// followed by whitespace or the end of the line. Only a prefix of
// longestDirectiveLen+1 bytes is inspected.
func matchDirective(line string, table map[string]directive) (keyword, rest string, d directive, ok bool) {
	if len(line) < shortestDirectiveLen {
		return "", "", 0, false
	}

	prefix := line[:min(len(line), longestDirectiveLen+1)]
	end := -1
	for i := 0; i < len(prefix); i++ {
		if prefix[i] == ' ' || prefix[i] == '\t' {
			end = i
			break
		}
	}
	if end < 0 {
		if len(line) > longestDirectiveLen {
			return "", "", 0, false
		}
		end = len(line)
	}

	keyword = line[:end]
	d, ok = table[keyword]
	if !ok {
		return "", "", 0, false
	}
	return keyword, trimLeftSpace(line[end:]), d, true
}
