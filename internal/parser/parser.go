// Package parser turns a internal/lexer token stream into an
// *ast.Module via recursive descent with precedence climbing for
// expressions. Favors small per-construct parse* methods and a single
// forward cursor over the token stream.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/lexer"
	"github.com/cwbudde/go-pysb/internal/token"
)

type Parser struct {
	toks []token.Token
	pos  int
}

// Parse tokenizes and parses src into a module.
func Parse(src string) (*ast.Module, error) {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("SyntaxError: %w", err)
	}
	p := &Parser{toks: toks}
	return p.parseModule()
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peek(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }
func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, fmt.Errorf("SyntaxError: unexpected token %q at %s", p.cur().Literal, p.cur().Pos)
	}
	return p.advance(), nil
}

func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) parseModule() (*ast.Module, error) {
	mod := &ast.Module{}
	p.skipNewlines()
	for !p.at(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, stmt)
		p.skipNewlines()
	}
	return mod, nil
}

// parseBlock parses an indented suite after a ':' — either a single-line
// suite ("if x: y") or a NEWLINE INDENT stmt* DEDENT block.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	if !p.at(token.NEWLINE) {
		return p.parseSimpleStmtLine()
	}
	p.advance()
	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.at(token.DEDENT) && !p.at(token.EOF) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
		p.skipNewlines()
	}
	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseSimpleStmtLine parses one or more ';'-separated simple statements
// up to a NEWLINE, used both at top level and for single-line suites.
func (p *Parser) parseSimpleStmtLine() ([]ast.Stmt, error) {
	var out []ast.Stmt
	for {
		s, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if p.at(token.SEMICOLON) {
			p.advance()
			if p.at(token.NEWLINE) || p.at(token.EOF) {
				break
			}
			continue
		}
		break
	}
	if p.at(token.NEWLINE) {
		p.advance()
	}
	return out, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.cur().Kind {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.TRY:
		return p.parseTry()
	case token.WITH:
		return p.parseWith()
	case token.DEF:
		return p.parseFunctionDef(nil)
	case token.CLASS:
		return p.parseClassDef(nil)
	case token.AT:
		return p.parseDecorated()
	default:
		stmts, err := p.parseSimpleStmtLine()
		if err != nil {
			return nil, err
		}
		if len(stmts) == 1 {
			return stmts[0], nil
		}
		pos := token.Position{}
		if len(stmts) > 0 {
			pos = stmts[0].Pos()
		}
		return &ast.StmtSeq{Stmts: stmts, P: pos}, nil
	}
}

func (p *Parser) parseDecorated() (ast.Stmt, error) {
	var decorators []ast.Expr
	for p.at(token.AT) {
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, expr)
		if _, err := p.expect(token.NEWLINE); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	if p.at(token.DEF) {
		return p.parseFunctionDef(decorators)
	}
	if p.at(token.CLASS) {
		return p.parseClassDef(decorators)
	}
	return nil, fmt.Errorf("SyntaxError: expected function or class definition after decorator at %s", p.cur().Pos)
}

func (p *Parser) parseSimpleStmt() (ast.Stmt, error) {
	pos := p.cur().Pos
	switch p.cur().Kind {
	case token.PASS:
		p.advance()
		return &ast.Pass{P: pos}, nil
	case token.BREAK:
		p.advance()
		return &ast.Break{P: pos}, nil
	case token.CONTINUE:
		p.advance()
		return &ast.Continue{P: pos}, nil
	case token.RETURN:
		p.advance()
		if p.at(token.NEWLINE) || p.at(token.SEMICOLON) || p.at(token.EOF) {
			return &ast.Return{P: pos}, nil
		}
		v, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: v, P: pos}, nil
	case token.RAISE:
		return p.parseRaise()
	case token.GLOBAL:
		return p.parseGlobal()
	case token.NONLOCAL:
		return p.parseNonlocal()
	case token.IMPORT:
		return p.parseImport()
	case token.FROM:
		return p.parseImportFrom()
	case token.DEL:
		return p.parseDel()
	case token.ASSERT:
		return p.parseAssert()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseGlobal() (ast.Stmt, error) {
	pos := p.advance().Pos
	names, err := p.parseNameList()
	if err != nil {
		return nil, err
	}
	return &ast.Global{Names: names, P: pos}, nil
}

func (p *Parser) parseNonlocal() (ast.Stmt, error) {
	pos := p.advance().Pos
	names, err := p.parseNameList()
	if err != nil {
		return nil, err
	}
	return &ast.Nonlocal{Names: names, P: pos}, nil
}

func (p *Parser) parseNameList() ([]string, error) {
	var names []string
	for {
		t, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, t.Literal)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *Parser) parseDel() (ast.Stmt, error) {
	pos := p.advance().Pos
	var targets []ast.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		targets = append(targets, e)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return &ast.Del{Targets: targets, P: pos}, nil
}

func (p *Parser) parseAssert() (ast.Stmt, error) {
	pos := p.advance().Pos
	start := p.pos
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	source := tokensToSource(p.toks[start:p.pos])
	var msg ast.Expr
	if p.at(token.COMMA) {
		p.advance()
		msg, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Assert{Test: test, Msg: msg, Source: source, P: pos}, nil
}

// tokensToSource reconstructs an approximation of the original source text
// for a token span, used only for the assert-failure diagnostic (§4.3/§8:
// "the message must contain only the failing condition's source text").
func tokensToSource(toks []token.Token) string {
	out := ""
	for i, t := range toks {
		if i > 0 {
			out += " "
		}
		out += t.Literal
	}
	return out
}

func (p *Parser) parseRaise() (ast.Stmt, error) {
	pos := p.advance().Pos
	if p.at(token.NEWLINE) || p.at(token.SEMICOLON) || p.at(token.EOF) {
		return &ast.Raise{P: pos}, nil
	}
	exc, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var cause ast.Expr
	if p.at(token.FROM) {
		p.advance()
		cause, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Raise{Exc: exc, Cause: cause, P: pos}, nil
}

func (p *Parser) parseImport() (ast.Stmt, error) {
	pos := p.advance().Pos
	var names []ast.Alias
	for {
		a, err := p.parseDottedAlias()
		if err != nil {
			return nil, err
		}
		names = append(names, a)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return &ast.Import{Names: names, P: pos}, nil
}

func (p *Parser) parseDottedAlias() (ast.Alias, error) {
	name, err := p.parseDottedName()
	if err != nil {
		return ast.Alias{}, err
	}
	as := ""
	if p.at(token.AS) {
		p.advance()
		t, err := p.expect(token.IDENT)
		if err != nil {
			return ast.Alias{}, err
		}
		as = t.Literal
	}
	return ast.Alias{Name: name, AsName: as}, nil
}

func (p *Parser) parseDottedName() (string, error) {
	t, err := p.expect(token.IDENT)
	if err != nil {
		return "", err
	}
	name := t.Literal
	for p.at(token.DOT) {
		p.advance()
		t, err := p.expect(token.IDENT)
		if err != nil {
			return "", err
		}
		name += "." + t.Literal
	}
	return name, nil
}

func (p *Parser) parseImportFrom() (ast.Stmt, error) {
	pos := p.advance().Pos
	module, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IMPORT); err != nil {
		return nil, err
	}
	var names []ast.Alias
	paren := false
	if p.at(token.LPAREN) {
		paren = true
		p.advance()
	}
	for {
		t, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		as := ""
		if p.at(token.AS) {
			p.advance()
			at, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			as = at.Literal
		}
		names = append(names, ast.Alias{Name: t.Literal, AsName: as})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if paren {
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	return &ast.ImportFrom{Module: module, Names: names, P: pos}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	pos := p.advance().Pos
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []ast.Stmt
	if p.at(token.ELIF) {
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		orelse = []ast.Stmt{nested}
	} else if p.at(token.ELSE) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Test: test, Body: body, Orelse: orelse, P: pos}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	pos := p.advance().Pos
	test, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []ast.Stmt
	if p.at(token.ELSE) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.While{Test: test, Body: body, Orelse: orelse, P: pos}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	pos := p.advance().Pos
	target, err := p.parseTargetList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []ast.Stmt
	if p.at(token.ELSE) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.For{Target: target, Iter: iter, Body: body, Orelse: orelse, P: pos}, nil
}

func (p *Parser) parseTry() (ast.Stmt, error) {
	pos := p.advance().Pos
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var handlers []*ast.ExceptHandler
	for p.at(token.EXCEPT) {
		hpos := p.advance().Pos
		var typ ast.Expr
		name := ""
		if !p.at(token.COLON) {
			typ, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.at(token.AS) {
				p.advance()
				t, err := p.expect(token.IDENT)
				if err != nil {
					return nil, err
				}
				name = t.Literal
			}
		}
		hbody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, &ast.ExceptHandler{Type: typ, Name: name, Body: hbody, P: hpos})
	}
	var orelse, finally []ast.Stmt
	if p.at(token.ELSE) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	if p.at(token.FINALLY) {
		p.advance()
		finally, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Try{Body: body, Handlers: handlers, Orelse: orelse, Finally: finally, P: pos}, nil
}

func (p *Parser) parseWith() (ast.Stmt, error) {
	pos := p.advance().Pos
	var items []ast.WithItem
	for {
		ctx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		var name ast.Expr
		if p.at(token.AS) {
			p.advance()
			name, err = p.parseTarget()
			if err != nil {
				return nil, err
			}
		}
		items = append(items, ast.WithItem{Context: ctx, Name: name})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.With{Items: items, Body: body, P: pos}, nil
}

func (p *Parser) parseParams() (*ast.Params, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	params := &ast.Params{}
	seenStar := false
	for !p.at(token.RPAREN) {
		if p.at(token.STAR) {
			p.advance()
			if p.at(token.COMMA) || p.at(token.RPAREN) {
				seenStar = true
			} else {
				t, err := p.expect(token.IDENT)
				if err != nil {
					return nil, err
				}
				params.VarArg = t.Literal
				seenStar = true
			}
		} else if p.at(token.DOUBLESTAR) {
			p.advance()
			t, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			params.VarKwArg = t.Literal
		} else {
			t, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			var def ast.Expr
			if p.at(token.ASSIGN) {
				p.advance()
				def, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
			pr := ast.Param{Name: t.Literal, Default: def}
			if seenStar {
				params.KwOnly = append(params.KwOnly, pr)
			} else {
				params.Positional = append(params.Positional, pr)
			}
		}
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseFunctionDef(decorators []ast.Expr) (ast.Stmt, error) {
	pos := p.advance().Pos
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if p.at(token.ARROW) {
		p.advance()
		if _, err := p.parseExpr(); err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDef{
		Name: name.Literal, Params: params, Body: body, Decorators: decorators,
		IsGenerator: containsYield(body), P: pos,
	}, nil
}

func containsYield(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if stmtContainsYield(s) {
			return true
		}
	}
	return false
}

func stmtContainsYield(s ast.Stmt) bool {
	switch t := s.(type) {
	case *ast.ExprStmt:
		return exprContainsYield(t.Value)
	case *ast.Assign:
		return exprContainsYield(t.Value)
	case *ast.AugAssign:
		return exprContainsYield(t.Value)
	case *ast.Return:
		return t.Value != nil && exprContainsYield(t.Value)
	case *ast.If:
		return containsYield(t.Body) || containsYield(t.Orelse)
	case *ast.While:
		return containsYield(t.Body) || containsYield(t.Orelse)
	case *ast.For:
		return containsYield(t.Body) || containsYield(t.Orelse)
	case *ast.Try:
		if containsYield(t.Body) || containsYield(t.Orelse) || containsYield(t.Finally) {
			return true
		}
		for _, h := range t.Handlers {
			if containsYield(h.Body) {
				return true
			}
		}
		return false
	case *ast.With:
		return containsYield(t.Body)
	case *ast.StmtSeq:
		return containsYield(t.Stmts)
	}
	return false
}

func exprContainsYield(e ast.Expr) bool {
	_, ok := e.(*ast.YieldExpr)
	return ok
}

func (p *Parser) parseClassDef(decorators []ast.Expr) (ast.Stmt, error) {
	pos := p.advance().Pos
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var base ast.Expr
	if p.at(token.LPAREN) {
		p.advance()
		if !p.at(token.RPAREN) {
			base, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ClassDef{Name: name.Literal, Base: base, Body: body, Decorators: decorators, P: pos}, nil
}

// parseExprOrAssignStmt handles a bare expression statement, a (possibly
// chained) assignment, destructuring assignment, or an augmented
// assignment.
func (p *Parser) parseExprOrAssignStmt() (ast.Stmt, error) {
	pos := p.cur().Pos
	first, err := p.parseTargetOrExprList()
	if err != nil {
		return nil, err
	}
	if isAugAssignOp(p.cur().Kind) {
		op := map[token.Kind]token.Kind{
			token.PLUSEQ: token.PLUS, token.MINUSEQ: token.MINUS, token.STAREQ: token.STAR,
			token.SLASHEQ: token.SLASH, token.DOUBLESLASHEQ: token.DOUBLESLASH,
			token.PERCENTEQ: token.PERCENT, token.DOUBLESTAREQ: token.DOUBLESTAR,
			token.AMPEQ: token.AMP, token.PIPEEQ: token.PIPE, token.CARETEQ: token.CARET,
			token.LSHIFTEQ: token.LSHIFT, token.RSHIFTEQ: token.RSHIFT,
		}[p.advance().Kind]
		value, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.AugAssign{Target: first, Op: op, Value: value, P: pos}, nil
	}
	if p.at(token.ASSIGN) {
		targets := []ast.Expr{first}
		var value ast.Expr
		for p.at(token.ASSIGN) {
			p.advance()
			next, err := p.parseTargetOrExprList()
			if err != nil {
				return nil, err
			}
			value = next
			if p.at(token.ASSIGN) {
				targets = append(targets, next)
			}
		}
		return &ast.Assign{Targets: targets, Value: value, P: pos}, nil
	}
	return &ast.ExprStmt{Value: first, P: pos}, nil
}

func isAugAssignOp(k token.Kind) bool {
	switch k {
	case token.PLUSEQ, token.MINUSEQ, token.STAREQ, token.SLASHEQ, token.DOUBLESLASHEQ,
		token.PERCENTEQ, token.DOUBLESTAREQ, token.AMPEQ, token.PIPEEQ, token.CARETEQ,
		token.LSHIFTEQ, token.RSHIFTEQ:
		return true
	}
	return false
}

// parseTargetOrExprList parses a comma-separated list (tupling if more than
// one element or a trailing comma is present) of either targets or general
// expressions — the two grammars coincide until an '=' disambiguates, so a
// single production serves both roles.
func (p *Parser) parseTargetOrExprList() (ast.Expr, error) {
	pos := p.cur().Pos
	first, err := p.parseStarOrExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(token.COMMA) {
		return first, nil
	}
	elts := []ast.Expr{first}
	trailing := false
	for p.at(token.COMMA) {
		p.advance()
		if p.at(token.ASSIGN) || p.at(token.NEWLINE) || p.at(token.EOF) || p.at(token.SEMICOLON) || p.at(token.COLON) {
			trailing = true
			break
		}
		next, err := p.parseStarOrExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	_ = trailing
	return &ast.TupleExpr{Elts: elts, P: pos}, nil
}

func (p *Parser) parseStarOrExpr() (ast.Expr, error) {
	if p.at(token.STAR) {
		pos := p.advance().Pos
		e, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Starred{Value: e, P: pos}, nil
	}
	return p.parseExpr()
}

func (p *Parser) parseTargetList() (ast.Expr, error) {
	return p.parseTargetOrExprList()
}

func (p *Parser) parseTarget() (ast.Expr, error) {
	return p.parseOrExpr()
}

// parseExprList parses a comma-separated expression list, producing a
// TupleExpr when more than one element is present (the literal-tuple
// grammar `a, b, c`).
func (p *Parser) parseExprList() (ast.Expr, error) {
	pos := p.cur().Pos
	first, err := p.parseStarOrExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(token.COMMA) {
		return first, nil
	}
	elts := []ast.Expr{first}
	for p.at(token.COMMA) {
		p.advance()
		if p.at(token.NEWLINE) || p.at(token.EOF) || p.at(token.SEMICOLON) {
			break
		}
		next, err := p.parseStarOrExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	return &ast.TupleExpr{Elts: elts, P: pos}, nil
}
