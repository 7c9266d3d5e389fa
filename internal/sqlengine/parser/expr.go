package parser

import (
	"myco/internal/sqlengine/ast"
	"myco/internal/sqlengine/token"
)

// parseExpr parses an or_expr: the grammar's top-level expression rule.
func (p *Parser) parseExpr() ast.Expr {
	left := p.parseAndExpr()
	for p.curIs(token.OR) {
		p.next()
		right := p.parseAndExpr()
		left = ast.Or{Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAndExpr() ast.Expr {
	left := p.parseCmpExpr()
	for p.curIs(token.AND) {
		p.next()
		right := p.parseCmpExpr()
		left = ast.And{Left: left, Right: right}
	}
	return left
}

// parseCmpExpr parses "primary [cmp_tail]". cmp_tail's NOT-prefixed
// forms (BETWEEN/IN/LIKE/REGEXP) are recognised here since NOT can
// precede any of them even though a bare "NOT primary" is also a valid
// primary in its own right (grammar ambiguity resolved by trying the
// cmp_tail keywords first).
func (p *Parser) parseCmpExpr() ast.Expr {
	left := p.parsePrimary()

	negate := false
	if p.curIs(token.NOT) && isCmpTailNotForm(p.peek.Type) {
		negate = true
		p.next()
	}

	switch p.cur.Type {
	case token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE:
		op := compareOpFor(p.cur.Type)
		p.next()
		right := p.parsePrimary()
		return ast.Compare{Op: op, Left: left, Right: right}
	case token.BETWEEN:
		p.next()
		lo := p.parsePrimary()
		p.expect(token.AND)
		hi := p.parsePrimary()
		return ast.Between{Negate: negate, Operand: left, Low: lo, High: hi}
	case token.IN:
		p.next()
		p.expect(token.LPAREN)
		if p.curIs(token.SELECT) {
			sub := p.parseSelectExpr()
			p.expect(token.RPAREN)
			return ast.InSubquery{Negate: negate, Operand: left, Sub: sub}
		}
		var values []ast.Expr
		if !p.curIs(token.RPAREN) {
			values = append(values, p.parsePrimary())
			for p.curIs(token.COMMA) {
				p.next()
				values = append(values, p.parsePrimary())
			}
		}
		p.expect(token.RPAREN)
		return ast.InList{Negate: negate, Operand: left, Values: values}
	case token.LIKE:
		p.next()
		pattern := p.parsePrimary()
		return ast.Like{Negate: negate, Operand: left, Pattern: pattern}
	case token.REGEXP:
		p.next()
		pattern := p.parsePrimary()
		return ast.Regexp{Negate: negate, Operand: left, Pattern: pattern}
	case token.IS:
		p.next()
		isNegate := false
		if p.curIs(token.NOT) {
			isNegate = true
			p.next()
		}
		p.expect(token.NULL)
		return ast.IsNull{Negate: isNegate, Operand: left}
	default:
		return left
	}
}

func isCmpTailNotForm(t token.Type) bool {
	switch t {
	case token.BETWEEN, token.IN, token.LIKE, token.REGEXP:
		return true
	default:
		return false
	}
}

func compareOpFor(t token.Type) ast.CompareOp {
	switch t {
	case token.EQ:
		return ast.OpEQ
	case token.NEQ:
		return ast.OpNEQ
	case token.LT:
		return ast.OpLT
	case token.LTE:
		return ast.OpLTE
	case token.GT:
		return ast.OpGT
	case token.GTE:
		return ast.OpGTE
	default:
		return ast.OpEQ
	}
}

// parsePrimary parses "(" expr ")" | "NOT" primary | "EXISTS" "("
// select_expr ")" | func_call | ident | literal.
func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Type {
	case token.LPAREN:
		p.next()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	case token.NOT:
		p.next()
		return ast.Not{Operand: p.parsePrimary()}
	case token.EXISTS:
		p.next()
		p.expect(token.LPAREN)
		sub := p.parseSelectExpr()
		p.expect(token.RPAREN)
		return ast.Exists{Sub: sub}
	case token.STAR:
		p.next()
		return ast.Star{}
	case token.NULL:
		p.next()
		return ast.Literal{IsNull: true}
	case token.STRING:
		lit := p.cur.Literal
		p.next()
		return ast.Literal{Text: lit}
	case token.INT, token.FLOAT:
		lit := p.cur.Literal
		p.next()
		return ast.Literal{Text: lit}
	case token.IDENT:
		if p.peekIs(token.LPAREN) {
			call := p.parseFuncCall()
			return ast.FuncCallExpr{Call: call}
		}
		name := p.cur.Literal
		p.next()
		if p.curIs(token.DOT) {
			p.next()
			name = name + "." + p.cur.Literal
			p.expect(token.IDENT)
		}
		return ast.Ident{Name: name}
	default:
		p.fail("unexpected token %q in expression", p.cur.Literal)
		return ast.Literal{IsNull: true}
	}
}
