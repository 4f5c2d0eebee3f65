package parser

import (
	"fmt"
	"strings"

	"github.com/donaldgifford/mkparse/internal/expr"
)

// ExprParser turns a span of Makefile text into an expression. isCommand
// is set for recipe text.
type ExprParser interface {
	ParseExpr(s string, isCommand bool) expr.Value
}

// Options configures a parse. A nil *Options uses expr.Parser and
// LogSink.
type Options struct {
	Expr ExprParser
	Sink ErrorSink
}

// Makefile is a loaded buffer and the statements parsed from it.
type Makefile struct {
	Filename string
	Buf      []byte
	Stmts    []Node
}

// Parse parses mk.Buf and appends the statements to mk.Stmts. The first
// error is reported to the sink, stops the parse and is returned as an
// *Error; statements parsed before it are kept.
func Parse(mk *Makefile, opts *Options) error {
	p := newParser(string(mk.Buf), Loc{Filename: mk.Filename}, opts)
	p.stmts = mk.Stmts
	p.parse()
	mk.Stmts = p.stmts
	return p.result()
}

// ParseString parses src as the contents of filename.
func ParseString(filename, src string) ([]Node, error) {
	mk := &Makefile{Filename: filename, Buf: []byte(src)}
	err := Parse(mk, nil)
	return mk.Stmts, err
}

// ParseFixed parses buf as if all of it were located at loc, e.g. text
// extracted from a single line of another file.
func ParseFixed(buf string, loc Loc, opts *Options) ([]Node, error) {
	p := newParser(buf, loc, opts)
	p.fixedLineno = true
	p.parse()
	return p.stmts, p.result()
}

// parserState tracks whether a tab-indented line is a recipe command.
type parserState int

const (
	stateNotAfterRule parserState = iota
	stateAfterRule
	// stateMaybeAfterRule follows a rule-like line without a literal ':',
	// which may still turn out to be a rule after expansion.
	stateMaybeAfterRule
)

// ifState is an open ifdef/ifndef block.
type ifState struct {
	node    *If
	inElse  bool
	numNest int // Frames opened by the same "else ifdef" chain share one endif.
}

type parser struct {
	buf   string
	l     int // Start of the current logical line.
	state parserState
	stmts []Node

	inDefine    bool
	defineName  string
	defineStart int // -1 until the first body line.
	defineLoc   Loc

	numIfNest int
	ifStack   []ifState

	loc         Loc
	nextLine    int
	fixedLineno bool

	exprs ExprParser
	sink  ErrorSink
	err   *Error
}

func newParser(buf string, loc Loc, opts *Options) *parser {
	Init()

	p := &parser{
		buf:      buf,
		loc:      loc,
		nextLine: 1,
		exprs:    expr.Parser{},
		sink:     LogSink{},
	}
	if opts != nil {
		if opts.Expr != nil {
			p.exprs = opts.Expr
		}
		if opts.Sink != nil {
			p.sink = opts.Sink
		}
	}
	return p
}

func (p *parser) result() error {
	if p.err != nil {
		return p.err
	}
	return nil
}

func (p *parser) parse() {
	for p.l < len(p.buf) {
		e, lfCount := findEndOfLine(p.buf, p.l)
		if !p.fixedLineno {
			p.loc.Line = p.nextLine
			p.nextLine += lfCount
		}

		p.parseLine(p.buf[p.l:e])
		if p.err != nil {
			return
		}
		if e == len(p.buf) {
			break
		}
		p.l = e + 1
	}
	p.checkEOF()
}

func (p *parser) checkEOF() {
	if p.inDefine {
		p.errorAt(p.defineLoc, "*** missing `endef', unfinished `define'.")
		return
	}
	if len(p.ifStack) > 0 {
		p.errorf("*** missing `endif'.")
	}
}

func (p *parser) errorf(format string, args ...any) {
	p.errorAt(p.loc, fmt.Sprintf(format, args...))
}

func (p *parser) errorAt(loc Loc, msg string) {
	if p.err != nil {
		return
	}
	p.err = &Error{Loc: loc, Msg: msg}
	p.sink.Report(loc, msg)
}

// emit appends n to the innermost open branch, or to the top level.
func (p *parser) emit(n Node) {
	if len(p.ifStack) == 0 {
		p.stmts = append(p.stmts, n)
		return
	}
	st := &p.ifStack[len(p.ifStack)-1]
	if st.inElse {
		st.node.False = append(st.node.False, n)
	} else {
		st.node.True = append(st.node.True, n)
	}
}

func (p *parser) parseLine(line string) {
	line = strings.TrimSuffix(line, "\r")

	if p.inDefine {
		p.parseInsideDefine(line)
		return
	}

	if line == "" {
		return
	}

	if line[0] == '\t' && p.state != stateNotAfterRule {
		p.emit(&Command{
			Loc:  p.loc,
			Expr: p.exprs.ParseExpr(line[1:], true),
		})
		return
	}

	line = trimLeftSpace(line)
	if line == "" || line[0] == '#' {
		return
	}

	if p.handleDirective(line, directives) {
		return
	}

	sep := strings.IndexAny(line, "=:")
	switch {
	case sep < 0:
		p.parseRule(line, sep)
	case line[sep] == '=':
		p.parseAssign(line, sep)
	case sep+1 < len(line) && line[sep+1] == '=':
		p.parseAssign(line, sep+1)
	case line[sep] == ':':
		p.parseRule(line, sep)
	default:
		panic(fmt.Sprintf("parser: unexpected separator %q in %q", line[sep], line))
	}
}

// parseRule builds a rule. sep is the index of the first ':' or -1.
func (p *parser) parseRule(line string, sep int) {
	isRule := strings.IndexByte(line, ':') >= 0
	ast := &Rule{Loc: p.loc}

	if found := strings.IndexAny(line[sep+1:], "=;"); found >= 0 {
		found += sep + 1
		ast.Term = line[found]
		ast.AfterTerm = p.exprs.ParseExpr(trimLeftSpace(line[found+1:]), ast.Term == ';')
		ast.Expr = p.exprs.ParseExpr(trimSpace(line[:found]), false)
	} else {
		ast.Expr = p.exprs.ParseExpr(trimSpace(line), false)
	}
	p.emit(ast)

	if isRule {
		p.state = stateAfterRule
	} else {
		p.state = stateMaybeAfterRule
	}
}

// parseAssign builds an assignment. sep is the index of the '='.
func (p *parser) parseAssign(line string, sep int) {
	op := OpEq
	lhsEnd := sep
	if sep > 0 {
		switch line[sep-1] {
		case ':':
			lhsEnd--
			op = OpColonEq
		case '+':
			lhsEnd--
			op = OpPlusEq
		case '?':
			lhsEnd--
			op = OpQuestionEq
		}
	}

	lhs := trimSpace(line[:lhsEnd])
	if lhs == "" {
		p.errorf("*** empty variable name ***")
		return
	}

	p.emit(&Assign{
		Loc:       p.loc,
		LHS:       p.exprs.ParseExpr(lhs, false),
		RHS:       p.exprs.ParseExpr(trimSpace(line[sep+1:]), false),
		Op:        op,
		Directive: DirectiveNone,
	})
	p.state = stateNotAfterRule
}

// handleDirective runs the directive line starts with, if any.
func (p *parser) handleDirective(line string, table map[string]directive) bool {
	keyword, rest, d, ok := matchDirective(line, table)
	if !ok {
		return false
	}

	switch d {
	case dirInclude:
		p.parseInclude(rest, keyword)
	case dirDefine:
		p.parseDefine(rest)
	case dirIfdef:
		p.parseIfdef(rest, keyword)
	case dirElse:
		p.parseElse(rest)
	case dirEndif:
		p.parseEndif()
	}
	return true
}

func (p *parser) parseInclude(rest, keyword string) {
	p.emit(&Include{
		Loc:         p.loc,
		Expr:        p.exprs.ParseExpr(rest, false),
		ShouldExist: keyword[0] == 'i',
	})
}

func (p *parser) parseDefine(rest string) {
	name := trimRightSpace(rest)
	if name == "" {
		p.errorf("*** empty variable name.")
		return
	}
	p.inDefine = true
	p.defineName = name
	p.defineStart = -1
	p.defineLoc = p.loc
}

func (p *parser) parseInsideDefine(line string) {
	if trimSpace(line) != "endef" {
		if p.defineStart < 0 {
			p.defineStart = p.l
		}
		return
	}

	var rhs string
	if p.defineStart >= 0 {
		rhs = trimRightSpace(p.buf[p.defineStart:p.l])
	}
	p.emit(&Assign{
		Loc:       p.defineLoc,
		LHS:       p.exprs.ParseExpr(p.defineName, false),
		RHS:       p.exprs.ParseExpr(rhs, false),
		Op:        OpEq,
		Directive: DirectiveNone,
	})
	p.inDefine = false
	p.defineName = ""
}

func (p *parser) parseIfdef(rest, keyword string) {
	ast := &If{
		Loc: p.loc,
		Op:  CondIfdef,
		LHS: p.exprs.ParseExpr(rest, false),
	}
	if keyword[2] == 'n' {
		ast.Op = CondIfndef
	}
	p.emit(ast)

	p.ifStack = append(p.ifStack, ifState{
		node:    ast,
		numNest: p.numIfNest,
	})
}

func (p *parser) parseElse(rest string) {
	if !p.checkIfStack("else") {
		return
	}
	st := &p.ifStack[len(p.ifStack)-1]
	if st.inElse {
		p.errorf("*** only one `else' per conditional.")
		return
	}
	st.inElse = true

	if rest == "" || rest[0] == '#' {
		return
	}

	p.numIfNest = st.numNest + 1
	if !p.handleDirective(rest, elseIfDirectives) {
		log.Warningf("%s: extraneous text after `else' directive", p.loc)
	}
	p.numIfNest = 0
}

func (p *parser) parseEndif() {
	if !p.checkIfStack("endif") {
		return
	}
	top := p.ifStack[len(p.ifStack)-1]
	n := max(len(p.ifStack)-(top.numNest+1), 0)
	clear(p.ifStack[n:])
	p.ifStack = p.ifStack[:n]
}

func (p *parser) checkIfStack(keyword string) bool {
	if len(p.ifStack) == 0 {
		p.errorf("*** extraneous `%s'.", keyword)
		return false
	}
	return true
}
