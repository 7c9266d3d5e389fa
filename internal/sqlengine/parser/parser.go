// Package parser implements a recursive-descent parser for the
// SQL-subset grammar (spec.md §4.8), following the curToken/peekToken,
// one-token-lookahead idiom of the retrieval pack's standalone SQL
// parsers, generalized from precedence-climbing expression parsing to
// this grammar's fixed or_expr/and_expr/cmp_expr precedence levels.
package parser

import (
	"fmt"
	"strconv"

	"myco/internal/mycoerr"
	"myco/internal/sqlengine/ast"
	"myco/internal/sqlengine/lexer"
	"myco/internal/sqlengine/token"
)

// Parser holds parse state over a token stream with one token of
// lookahead.
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token
	err  error
}

// New creates a Parser over l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Parse parses text as a full statement ([with_clause] select_expr).
func Parse(text string) (*ast.Statement, error) {
	p := New(lexer.New(text))
	stmt := p.parseStatement()
	if p.err != nil {
		return nil, mycoerr.Wrap(mycoerr.KindParse, "sqlengine: invalid query", p.err)
	}
	if p.cur.Type != token.EOF && p.cur.Type != token.SEMI {
		return nil, mycoerr.New(mycoerr.KindParse, fmt.Sprintf("sqlengine: invalid query: unexpected trailing input %q", p.cur.Literal))
	}
	return stmt, nil
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

// expect advances past cur if it matches t, else records a parse error
// and returns false.
func (p *Parser) expect(t token.Type) bool {
	if p.err != nil {
		return false
	}
	if !p.curIs(t) {
		p.fail("expected token %v, got %q", t, p.cur.Literal)
		return false
	}
	p.next()
	return true
}

func (p *Parser) parseStatement() *ast.Statement {
	stmt := &ast.Statement{}
	if p.curIs(token.WITH) {
		stmt.CTEs = p.parseWithClause()
	}
	stmt.Select = p.parseSelectExpr()
	return stmt
}

func (p *Parser) parseWithClause() []ast.CTE {
	p.next() // consume WITH
	var ctes []ast.CTE
	for {
		if p.err != nil {
			return ctes
		}
		name := p.cur.Literal
		if !p.expect(token.IDENT) {
			return ctes
		}
		if !p.expect(token.AS) {
			return ctes
		}
		if !p.expect(token.LPAREN) {
			return ctes
		}
		sel := p.parseSelectExpr()
		if !p.expect(token.RPAREN) {
			return ctes
		}
		ctes = append(ctes, ast.CTE{Name: name, Select: sel})
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		return ctes
	}
}

func (p *Parser) parseSelectExpr() ast.SelectExpr {
	expr := ast.SelectExpr{Core: p.parseSelectCore()}
	for p.curIs(token.UNION) {
		p.next()
		all := false
		if p.curIs(token.ALL) {
			all = true
			p.next()
		}
		expr.Parts = append(expr.Parts, ast.UnionPart{All: all, Core: p.parseSelectCore()})
	}
	return expr
}

func (p *Parser) parseSelectCore() ast.SelectCore {
	core := ast.SelectCore{Limit: -1, Offset: 0}
	if !p.expect(token.SELECT) {
		return core
	}
	if p.curIs(token.DISTINCT) {
		core.Distinct = true
		p.next()
	}
	core.Items = p.parseSelectList()

	if !p.expect(token.FROM) {
		return core
	}
	core.From = p.parseFromClause()

	for p.isJoinStart() {
		core.Joins = append(core.Joins, p.parseJoin())
	}

	if p.curIs(token.WHERE) {
		p.next()
		core.Where = p.parseExpr()
	}

	if p.curIs(token.GROUP) {
		p.next()
		if !p.expect(token.BY) {
			return core
		}
		core.GroupBy = p.parseColList()
		if p.curIs(token.HAVING) {
			p.next()
			core.Having = p.parseExpr()
		}
	}

	if p.curIs(token.ORDER) {
		p.next()
		if !p.expect(token.BY) {
			return core
		}
		core.OrderBy = p.parseOrderList()
	}

	if p.curIs(token.LIMIT) {
		p.next()
		core.Limit = p.parseIntLiteral()
	}
	if p.curIs(token.OFFSET) {
		p.next()
		core.Offset = p.parseIntLiteral()
	}

	return core
}

func (p *Parser) parseIntLiteral() int {
	lit := p.cur.Literal
	if !p.expect(token.INT) {
		return 0
	}
	n, err := strconv.Atoi(lit)
	if err != nil {
		p.fail("invalid integer literal %q", lit)
		return 0
	}
	return n
}

func (p *Parser) parseSelectList() []ast.SelectItem {
	var items []ast.SelectItem
	if p.curIs(token.STAR) {
		p.next()
		items = append(items, ast.SelectItem{Star: true})
		for p.curIs(token.COMMA) {
			p.next()
			items = append(items, p.parseSelectItem())
		}
		return items
	}
	items = append(items, p.parseSelectItem())
	for p.curIs(token.COMMA) {
		p.next()
		items = append(items, p.parseSelectItem())
	}
	return items
}

func (p *Parser) parseSelectItem() ast.SelectItem {
	if p.curIs(token.STAR) {
		p.next()
		item := ast.SelectItem{Star: true}
		return p.parseOptionalAlias(item)
	}

	if p.curIs(token.IDENT) && p.peekIs(token.LPAREN) {
		call := p.parseFuncCall()
		item := ast.SelectItem{Func: &call}
		return p.parseOptionalAlias(item)
	}

	expr := p.parseExpr()
	item := ast.SelectItem{Expr: expr}
	return p.parseOptionalAlias(item)
}

func (p *Parser) parseOptionalAlias(item ast.SelectItem) ast.SelectItem {
	if p.curIs(token.AS) {
		p.next()
		item.Alias = p.cur.Literal
		p.expect(token.IDENT)
		return item
	}
	if p.curIs(token.IDENT) {
		item.Alias = p.cur.Literal
		p.next()
	}
	return item
}

func (p *Parser) parseFuncCall() ast.FuncCall {
	name := p.cur.Literal
	p.expect(token.IDENT)
	p.expect(token.LPAREN)
	call := ast.FuncCall{Name: name}
	if p.curIs(token.STAR) {
		call.Star = true
		p.next()
	} else if !p.curIs(token.RPAREN) {
		call.Args = append(call.Args, p.parseExpr())
		for p.curIs(token.COMMA) {
			p.next()
			call.Args = append(call.Args, p.parseExpr())
		}
	}
	p.expect(token.RPAREN)
	return call
}

func (p *Parser) parseFromClause() ast.FromClause {
	if p.curIs(token.LPAREN) {
		p.next()
		sub := p.parseSelectExpr()
		p.expect(token.RPAREN)
		fc := ast.FromClause{Sub: &sub}
		if p.curIs(token.IDENT) {
			fc.Alias = p.cur.Literal
			p.next()
		}
		return fc
	}
	name := p.cur.Literal
	p.expect(token.IDENT)
	fc := ast.FromClause{Table: name}
	if p.curIs(token.IDENT) {
		fc.Alias = p.cur.Literal
		p.next()
	}
	return fc
}

func (p *Parser) isJoinStart() bool {
	switch p.cur.Type {
	case token.JOIN, token.LEFT, token.RIGHT, token.INNER, token.CROSS:
		return true
	default:
		return false
	}
}

func (p *Parser) parseJoin() ast.Join {
	kind := ast.InnerJoin
	switch p.cur.Type {
	case token.LEFT:
		kind = ast.LeftJoin
		p.next()
	case token.RIGHT:
		kind = ast.RightJoin
		p.next()
	case token.INNER:
		kind = ast.InnerJoin
		p.next()
	case token.CROSS:
		kind = ast.CrossJoin
		p.next()
	}
	p.expect(token.JOIN)
	name := p.cur.Literal
	p.expect(token.IDENT)
	j := ast.Join{Kind: kind, Table: name}
	if p.curIs(token.IDENT) {
		j.Alias = p.cur.Literal
		p.next()
	}
	if kind != ast.CrossJoin && p.curIs(token.ON) {
		p.next()
		j.LeftCol = p.parseQualifiedIdent()
		p.expect(token.EQ)
		j.RightCol = p.parseQualifiedIdent()
		j.HasOn = true
	}
	return j
}

func (p *Parser) parseQualifiedIdent() string {
	name := p.cur.Literal
	p.expect(token.IDENT)
	if p.curIs(token.DOT) {
		p.next()
		name = name + "." + p.cur.Literal
		p.expect(token.IDENT)
	}
	return name
}

func (p *Parser) parseColList() []string {
	cols := []string{p.parseQualifiedIdent()}
	for p.curIs(token.COMMA) {
		p.next()
		cols = append(cols, p.parseQualifiedIdent())
	}
	return cols
}

func (p *Parser) parseOrderList() []ast.OrderKey {
	keys := []ast.OrderKey{p.parseOrderKey()}
	for p.curIs(token.COMMA) {
		p.next()
		keys = append(keys, p.parseOrderKey())
	}
	return keys
}

func (p *Parser) parseOrderKey() ast.OrderKey {
	var key ast.OrderKey
	if p.curIs(token.INT) {
		n, _ := strconv.Atoi(p.cur.Literal)
		key.Pos = n
		p.next()
	} else {
		key.Name = p.parseQualifiedIdent()
	}
	switch p.cur.Type {
	case token.ASC:
		p.next()
	case token.DESC:
		key.Desc = true
		p.next()
	}
	return key
}
