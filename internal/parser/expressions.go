package parser

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-pysb/internal/ast"
	"github.com/cwbudde/go-pysb/internal/lexer"
	"github.com/cwbudde/go-pysb/internal/token"
)

// parseExpr is the top-level expression entry point: yield, lambda, or the
// ternary conditional, in that precedence order.
func (p *Parser) parseExpr() (ast.Expr, error) {
	if p.at(token.YIELD) {
		return p.parseYield()
	}
	if p.at(token.LAMBDA) {
		return p.parseLambda()
	}
	return p.parseTernary()
}

func (p *Parser) parseYield() (ast.Expr, error) {
	pos := p.advance().Pos
	if p.atExprEnd() {
		return &ast.YieldExpr{P: pos}, nil
	}
	v, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	return &ast.YieldExpr{Value: v, P: pos}, nil
}

func (p *Parser) atExprEnd() bool {
	switch p.cur().Kind {
	case token.NEWLINE, token.EOF, token.SEMICOLON, token.RPAREN, token.RBRACKET,
		token.RBRACE, token.COMMA, token.COLON:
		return true
	}
	return false
}

func (p *Parser) parseLambda() (ast.Expr, error) {
	pos := p.advance().Pos
	params := &ast.Params{}
	seenStar := false
	for !p.at(token.COLON) {
		if p.at(token.STAR) {
			p.advance()
			t, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			params.VarArg = t.Literal
			seenStar = true
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
				def, err = p.parseTernary()
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
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Params: params, Body: body, P: pos}, nil
}

func (p *Parser) parseTernary() (ast.Expr, error) {
	body, err := p.parseOrExpr()
	if err != nil {
		return nil, err
	}
	if p.at(token.IF) {
		pos := p.advance().Pos
		test, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ELSE); err != nil {
			return nil, err
		}
		orelse, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.IfExp{Body: body, Test: test, Orelse: orelse, P: pos}, nil
	}
	return body, nil
}

func (p *Parser) parseOrExpr() (ast.Expr, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(token.OR) {
		return left, nil
	}
	pos := p.cur().Pos
	values := []ast.Expr{left}
	for p.at(token.OR) {
		p.advance()
		next, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		values = append(values, next)
	}
	return &ast.BoolOp{Op: token.OR, Values: values, P: pos}, nil
}

func (p *Parser) parseAndExpr() (ast.Expr, error) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(token.AND) {
		return left, nil
	}
	pos := p.cur().Pos
	values := []ast.Expr{left}
	for p.at(token.AND) {
		p.advance()
		next, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		values = append(values, next)
	}
	return &ast.BoolOp{Op: token.AND, Values: values, P: pos}, nil
}

func (p *Parser) parseNotExpr() (ast.Expr, error) {
	if p.at(token.NOT) {
		pos := p.advance().Pos
		operand, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: token.NOT, Operand: operand, P: pos}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	var ops []token.Kind
	var comps []ast.Expr
	for {
		op, ok, err := p.tryCompareOp()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		next, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		comps = append(comps, next)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return &ast.Compare{Left: left, Ops: ops, Comps: comps, P: left.Pos()}, nil
}

func (p *Parser) tryCompareOp() (token.Kind, bool, error) {
	switch p.cur().Kind {
	case token.LT, token.LTE, token.GT, token.GTE, token.EQ, token.NOTEQ:
		return p.advance().Kind, true, nil
	case token.IN:
		p.advance()
		return token.IN, true, nil
	case token.IS:
		p.advance()
		if p.at(token.NOT) {
			p.advance()
			return token.ISNOT, true, nil
		}
		return token.IS, true, nil
	case token.NOT:
		if p.peek(1).Kind == token.IN {
			p.advance()
			p.advance()
			return token.NOTIN, true, nil
		}
		return 0, false, nil
	}
	return 0, false, nil
}

var bitOrOps = map[token.Kind]bool{token.PIPE: true}
var bitXorOps = map[token.Kind]bool{token.CARET: true}
var bitAndOps = map[token.Kind]bool{token.AMP: true}
var shiftOps = map[token.Kind]bool{token.LSHIFT: true, token.RSHIFT: true}
var addOps = map[token.Kind]bool{token.PLUS: true, token.MINUS: true}
var mulOps = map[token.Kind]bool{token.STAR: true, token.SLASH: true, token.DOUBLESLASH: true, token.PERCENT: true, token.AT: true}

func (p *Parser) parseBinaryLevel(next func() (ast.Expr, error), ops map[token.Kind]bool) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for ops[p.cur().Kind] {
		pos := p.cur().Pos
		op := p.advance().Kind
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Left: left, Op: op, Right: right, P: pos}
	}
	return left, nil
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.parseBinaryLevel(p.parseBitXor, bitOrOps)
}
func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.parseBinaryLevel(p.parseBitAnd, bitXorOps)
}
func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.parseBinaryLevel(p.parseShift, bitAndOps)
}
func (p *Parser) parseShift() (ast.Expr, error) {
	return p.parseBinaryLevel(p.parseAdd, shiftOps)
}
func (p *Parser) parseAdd() (ast.Expr, error) {
	return p.parseBinaryLevel(p.parseMul, addOps)
}
func (p *Parser) parseMul() (ast.Expr, error) {
	return p.parseBinaryLevel(p.parseUnary, mulOps)
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.cur().Kind {
	case token.PLUS, token.MINUS, token.TILDE:
		pos := p.cur().Pos
		op := p.advance().Kind
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: op, Operand: operand, P: pos}, nil
	}
	return p.parsePower()
}

// parsePower handles right-associative `**`, binding tighter than unary on
// its left operand but allowing a unary-signed exponent on the right
// (`2 ** -1`), matching the host language's grammar.
func (p *Parser) parsePower() (ast.Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.at(token.DOUBLESTAR) {
		pos := p.advance().Pos
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Left: left, Op: token.DOUBLESTAR, Right: right, P: pos}, nil
	}
	return left, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case token.DOT:
			pos := p.advance().Pos
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			e = &ast.Attribute{Value: e, Attr: name.Literal, P: pos}
		case token.LPAREN:
			e, err = p.parseCall(e)
			if err != nil {
				return nil, err
			}
		case token.LBRACKET:
			pos := p.advance().Pos
			idx, err := p.parseSubscriptIndex()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			e = &ast.Subscript{Value: e, Index: idx, P: pos}
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseSubscriptIndex() (ast.Expr, error) {
	var lower, upper, step ast.Expr
	var err error
	isSlice := false
	if !p.at(token.COLON) {
		lower, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if p.at(token.COLON) {
		isSlice = true
		p.advance()
		if !p.at(token.COLON) && !p.at(token.RBRACKET) {
			upper, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		if p.at(token.COLON) {
			p.advance()
			if !p.at(token.RBRACKET) {
				step, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if isSlice {
		return &ast.Slice{Lower: lower, Upper: upper, Step: step}, nil
	}
	return lower, nil
}

func (p *Parser) parseCall(fn ast.Expr) (ast.Expr, error) {
	pos := p.advance().Pos // consumed LPAREN
	call := &ast.Call{Func: fn, P: pos}
	for !p.at(token.RPAREN) {
		if p.at(token.DOUBLESTAR) {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Keywords = append(call.Keywords, ast.Keyword{Ident: "", Value: v})
		} else if p.at(token.STAR) {
			p.advance()
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, &ast.Starred{Value: v, P: pos})
		} else if p.at(token.IDENT) && p.peek(1).Kind == token.ASSIGN {
			name := p.advance().Literal
			p.advance() // '='
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Keywords = append(call.Keywords, ast.Keyword{Ident: name, Value: v})
		} else {
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.at(token.FOR) {
				gens, err := p.parseComprehensionClauses()
				if err != nil {
					return nil, err
				}
				v = &ast.GeneratorExp{Elt: v, Generators: gens, P: pos}
			}
			call.Args = append(call.Args, v)
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
	return call, nil
}

func (p *Parser) parseComprehensionClauses() ([]ast.Comprehension, error) {
	var gens []ast.Comprehension
	for p.at(token.FOR) {
		p.advance()
		target, err := p.parseTargetList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.IN); err != nil {
			return nil, err
		}
		iter, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		var ifs []ast.Expr
		for p.at(token.IF) {
			p.advance()
			c, err := p.parseOrExpr()
			if err != nil {
				return nil, err
			}
			ifs = append(ifs, c)
		}
		gens = append(gens, ast.Comprehension{Target: target, Iter: iter, Ifs: ifs})
	}
	return gens, nil
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	t := p.cur()
	switch t.Kind {
	case token.INT:
		p.advance()
		return &ast.Num{Literal: t.Literal, IsFloat: false, P: t.Pos}, nil
	case token.FLOAT:
		p.advance()
		return &ast.Num{Literal: t.Literal, IsFloat: true, P: t.Pos}, nil
	case token.STRING:
		p.advance()
		return p.maybeConcatString(&ast.Str{Value: t.Literal, P: t.Pos})
	case token.FSTRING:
		p.advance()
		return p.parseFStringLiteral(t)
	case token.BYTES:
		p.advance()
		return &ast.Bytes{Value: []byte(t.Literal), P: t.Pos}, nil
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, P: t.Pos}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, P: t.Pos}, nil
	case token.NONE:
		p.advance()
		return &ast.NoneLit{P: t.Pos}, nil
	case token.IDENT:
		p.advance()
		return &ast.Name{Ident: t.Literal, P: t.Pos}, nil
	case token.LPAREN:
		return p.parseParenForm()
	case token.LBRACKET:
		return p.parseListForm()
	case token.LBRACE:
		return p.parseBraceForm()
	}
	return nil, fmt.Errorf("SyntaxError: unexpected token %q at %s", t.Literal, t.Pos)
}

// maybeConcatString implements Python's adjacent string-literal
// concatenation: "a" "b" parses as a single Str node.
func (p *Parser) maybeConcatString(first *ast.Str) (ast.Expr, error) {
	for p.at(token.STRING) {
		next := p.advance()
		first.Value += next.Literal
	}
	return first, nil
}

func (p *Parser) parseParenForm() (ast.Expr, error) {
	pos := p.advance().Pos
	if p.at(token.RPAREN) {
		p.advance()
		return &ast.TupleExpr{P: pos}, nil
	}
	first, err := p.parseStarOrExpr()
	if err != nil {
		return nil, err
	}
	if p.at(token.FOR) {
		gens, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.GeneratorExp{Elt: first, Generators: gens, P: pos}, nil
	}
	if p.at(token.COMMA) {
		elts := []ast.Expr{first}
		for p.at(token.COMMA) {
			p.advance()
			if p.at(token.RPAREN) {
				break
			}
			next, err := p.parseStarOrExpr()
			if err != nil {
				return nil, err
			}
			elts = append(elts, next)
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.TupleExpr{Elts: elts, P: pos}, nil
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return first, nil
}

func (p *Parser) parseListForm() (ast.Expr, error) {
	pos := p.advance().Pos
	if p.at(token.RBRACKET) {
		p.advance()
		return &ast.ListExpr{P: pos}, nil
	}
	first, err := p.parseStarOrExpr()
	if err != nil {
		return nil, err
	}
	if p.at(token.FOR) {
		gens, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.ListComp{Elt: first, Generators: gens, P: pos}, nil
	}
	elts := []ast.Expr{first}
	for p.at(token.COMMA) {
		p.advance()
		if p.at(token.RBRACKET) {
			break
		}
		next, err := p.parseStarOrExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListExpr{Elts: elts, P: pos}, nil
}

func (p *Parser) parseBraceForm() (ast.Expr, error) {
	pos := p.advance().Pos
	if p.at(token.RBRACE) {
		p.advance()
		return &ast.DictExpr{P: pos}, nil
	}
	if p.at(token.DOUBLESTAR) {
		return p.parseDictBody(pos, nil, nil)
	}
	firstKey, err := p.parseStarOrExpr()
	if err != nil {
		return nil, err
	}
	if p.at(token.COLON) {
		p.advance()
		firstVal, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.at(token.FOR) {
			gens, err := p.parseComprehensionClauses()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACE); err != nil {
				return nil, err
			}
			return &ast.DictComp{Key: firstKey, Value: firstVal, Generators: gens, P: pos}, nil
		}
		return p.parseDictBody(pos, []ast.Expr{firstKey}, []ast.Expr{firstVal})
	}
	if p.at(token.FOR) {
		gens, err := p.parseComprehensionClauses()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return &ast.SetComp{Elt: firstKey, Generators: gens, P: pos}, nil
	}
	elts := []ast.Expr{firstKey}
	for p.at(token.COMMA) {
		p.advance()
		if p.at(token.RBRACE) {
			break
		}
		next, err := p.parseStarOrExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, next)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.SetExpr{Elts: elts, P: pos}, nil
}

func (p *Parser) parseDictBody(pos token.Position, keys, vals []ast.Expr) (ast.Expr, error) {
	for p.at(token.COMMA) {
		p.advance()
		if p.at(token.RBRACE) {
			break
		}
		if p.at(token.DOUBLESTAR) {
			p.advance()
			v, err := p.parseOrExpr()
			if err != nil {
				return nil, err
			}
			keys = append(keys, nil)
			vals = append(vals, v)
			continue
		}
		k, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		vals = append(vals, v)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.DictExpr{Keys: keys, Values: vals, P: pos}, nil
}

// parseFStringLiteral splits an f-string's literal body into
// FStringPart literal/expression segments, recursively lexing and parsing
// each `{...}` replacement field's expression and optional `:spec`.
func (p *Parser) parseFStringLiteral(t token.Token) (ast.Expr, error) {
	parts, err := splitFString(t.Literal, t.Pos)
	if err != nil {
		return nil, err
	}
	return &ast.FString{Parts: parts, P: t.Pos}, nil
}

func splitFString(raw string, pos token.Position) ([]ast.FStringPart, error) {
	var parts []ast.FStringPart
	var lit strings.Builder
	runes := []rune(raw)
	i := 0
	for i < len(runes) {
		r := runes[i]
		if r == '{' && i+1 < len(runes) && runes[i+1] == '{' {
			lit.WriteRune('{')
			i += 2
			continue
		}
		if r == '}' && i+1 < len(runes) && runes[i+1] == '}' {
			lit.WriteRune('}')
			i += 2
			continue
		}
		if r == '{' {
			if lit.Len() > 0 {
				parts = append(parts, ast.FStringPart{Literal: lit.String()})
				lit.Reset()
			}
			depth := 1
			start := i + 1
			j := start
			for j < len(runes) && depth > 0 {
				if runes[j] == '{' {
					depth++
				} else if runes[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			if depth != 0 {
				return nil, fmt.Errorf("SyntaxError: unterminated replacement field in f-string at %s", pos)
			}
			field := string(runes[start:j])
			exprSrc, spec := splitFormatSpec(field)
			sub := &Parser{}
			toks, err := lexFieldExpr(exprSrc)
			if err != nil {
				return nil, err
			}
			sub.toks = toks
			expr, err := sub.parseExprList()
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.FStringPart{Expr: expr, Spec: spec})
			i = j + 1
			continue
		}
		lit.WriteRune(r)
		i++
	}
	if lit.Len() > 0 {
		parts = append(parts, ast.FStringPart{Literal: lit.String()})
	}
	return parts, nil
}

// splitFormatSpec separates "expr" from "expr:spec", respecting bracket
// nesting so a dict/slice inside the expression isn't mistaken for a spec
// separator.
func splitFormatSpec(field string) (string, string) {
	depth := 0
	for i, r := range field {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ':':
			if depth == 0 {
				return field[:i], field[i+1:]
			}
		}
	}
	return field, ""
}

func lexFieldExpr(src string) ([]token.Token, error) {
	return lexer.New(src).Tokenize()
}
