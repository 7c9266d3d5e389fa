package ast

// Expr is implemented by every expression-tree node variant. It carries
// no behaviour itself — evaluation lives in internal/sqlengine/exec,
// which type-switches over the concrete variants below.
type Expr interface {
	exprNode()
}

// Literal is a literal value: a string, int, float, or NULL.
type Literal struct {
	IsNull bool
	Text   string // original text, for string/int/float literals
}

// Ident is a column reference, e.g. "name" or "t.name".
type Ident struct {
	Name string
}

// Star represents "*" where it can appear inside an expression context
// (only valid as a COUNT(*) argument — see FuncCallExpr).
type Star struct{}

// FuncCallExpr wraps a function call used as an expression (mirrors
// ast.FuncCall but satisfies Expr so it can appear inside WHERE/HAVING).
type FuncCallExpr struct {
	Call FuncCall
}

// And is a conjunction of two expressions.
type And struct {
	Left, Right Expr
}

// Or is a disjunction of two expressions.
type Or struct {
	Left, Right Expr
}

// Not negates an expression.
type Not struct {
	Operand Expr
}

// CompareOp enumerates the comparison operators.
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNEQ
	OpLT
	OpLTE
	OpGT
	OpGTE
)

// Compare is a binary comparison between two expressions.
type Compare struct {
	Op          CompareOp
	Left, Right Expr
}

// Between is a "[NOT] BETWEEN lo AND hi" predicate.
type Between struct {
	Negate    bool
	Operand   Expr
	Low, High Expr
}

// InList is a "[NOT] IN (v1, v2, ...)" predicate over a literal list.
type InList struct {
	Negate  bool
	Operand Expr
	Values  []Expr
}

// InSubquery is a "[NOT] IN (select_expr)" predicate.
type InSubquery struct {
	Negate  bool
	Operand Expr
	Sub     SelectExpr
}

// Like is a "[NOT] LIKE pattern" predicate (pattern wildcards: % and _).
type Like struct {
	Negate  bool
	Operand Expr
	Pattern Expr
}

// Regexp is a "[NOT] REGEXP pattern" predicate.
type Regexp struct {
	Negate  bool
	Operand Expr
	Pattern Expr
}

// Exists is an "EXISTS (select_expr)" predicate.
type Exists struct {
	Sub SelectExpr
}

// IsNull is an "IS [NOT] NULL" predicate.
type IsNull struct {
	Negate  bool
	Operand Expr
}

func (Literal) exprNode()      {}
func (Ident) exprNode()        {}
func (Star) exprNode()         {}
func (FuncCallExpr) exprNode() {}
func (And) exprNode()          {}
func (Or) exprNode()           {}
func (Not) exprNode()          {}
func (Compare) exprNode()      {}
func (Between) exprNode()      {}
func (InList) exprNode()       {}
func (InSubquery) exprNode()   {}
func (Like) exprNode()         {}
func (Regexp) exprNode()       {}
func (Exists) exprNode()       {}
func (IsNull) exprNode()       {}
