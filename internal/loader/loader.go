// Package loader reads Makefiles from disk and optionally follows their
// include directives.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ahrtr/gocontainer/set"
	"github.com/edwingeng/deque"
	"github.com/tliron/commonlog"

	"github.com/donaldgifford/mkparse/internal/expr"
	"github.com/donaldgifford/mkparse/internal/parser"
)

var log = commonlog.GetLogger("mkparse.loader")

// Load reads path into a Makefile ready to be parsed.
func Load(path string) (*parser.Makefile, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &parser.Makefile{Filename: path, Buf: buf}, nil
}

// VisitFunc is called once per parsed file with the parse error, if any.
// Returning an error stops the walk.
type VisitFunc func(mk *parser.Makefile, parseErr error) error

// Walker parses a set of Makefiles.
type Walker struct {
	// Follow enqueues the files named by top-level include directives
	// whose operand has no variable reference. Relative paths are
	// resolved against the including file's directory.
	Follow bool
	// Options is passed to parser.Parse.
	Options *parser.Options
}

type pending struct {
	path      string
	mustExist bool
	from      parser.Loc
}

// Walk parses roots and, with Follow set, the files they include,
// breadth-first. Each file is visited at most once.
func (w *Walker) Walk(roots []string, fn VisitFunc) error {
	queue := deque.NewDeque()
	seen := set.New()
	enqueue := func(p pending) {
		key := filepath.Clean(p.path)
		if seen.Contains(key) {
			return
		}
		seen.Add(key)
		queue.PushBack(p)
	}

	for _, root := range roots {
		enqueue(pending{path: root, mustExist: true})
	}

	for !queue.Empty() {
		p := queue.PopFront().(pending)

		mk, err := Load(p.path)
		if err != nil {
			if !p.mustExist && errors.Is(err, fs.ErrNotExist) {
				log.Debugf("%s: skipping missing optional include %s", p.from, p.path)
				continue
			}
			if p.from.Filename != "" {
				return fmt.Errorf("%s: %w", p.from, err)
			}
			return err
		}

		parseErr := parser.Parse(mk, w.Options)
		if err := fn(mk, parseErr); err != nil {
			return err
		}
		if parseErr != nil || !w.Follow {
			continue
		}

		for _, inc := range includes(mk) {
			enqueue(inc)
		}
	}
	return nil
}

// includes lists the literal include targets of mk's top-level
// statements.
func includes(mk *parser.Makefile) []pending {
	dir := filepath.Dir(mk.Filename)

	var out []pending
	for _, n := range mk.Stmts {
		inc, ok := n.(*parser.Include)
		if !ok {
			continue
		}
		s, ok := expr.IsLiteral(inc.Expr)
		if !ok {
			log.Debugf("%s: not following computed include %s", inc.Loc, inc.Expr)
			continue
		}
		for _, name := range strings.Fields(s) {
			if !filepath.IsAbs(name) {
				name = filepath.Join(dir, name)
			}
			out = append(out, pending{path: name, mustExist: inc.ShouldExist, from: inc.Loc})
		}
	}
	return out
}
