// Package token defines the lexical tokens of the SQL-subset grammar
// (spec.md §4.8), in the same const-iota-plus-keyword-table idiom as
// the retrieval pack's standalone SQL tokenizers.
package token

// Type identifies the lexical class of a Token.
type Type int

const (
	ILLEGAL Type = iota
	EOF

	IDENT  // column_name, table_name, alias
	INT    // 123
	FLOAT  // 123.45
	STRING // 'literal' or "literal"

	EQ     // =
	NEQ    // != or <>
	LT     // <
	LTE    // <=
	GT     // >
	GTE    // >=
	STAR   // *
	COMMA  // ,
	LPAREN // (
	RPAREN // )
	DOT    // .
	SEMI   // ;

	keywordBeg
	WITH
	AS
	SELECT
	DISTINCT
	FROM
	JOIN
	LEFT
	RIGHT
	INNER
	CROSS
	ON
	WHERE
	GROUP
	BY
	HAVING
	ORDER
	ASC
	DESC
	LIMIT
	OFFSET
	UNION
	ALL
	AND
	OR
	NOT
	BETWEEN
	IN
	LIKE
	REGEXP
	IS
	NULL
	EXISTS
	keywordEnd
)

var keywords = map[string]Type{
	"WITH":     WITH,
	"AS":       AS,
	"SELECT":   SELECT,
	"DISTINCT": DISTINCT,
	"FROM":     FROM,
	"JOIN":     JOIN,
	"LEFT":     LEFT,
	"RIGHT":    RIGHT,
	"INNER":    INNER,
	"CROSS":    CROSS,
	"ON":       ON,
	"WHERE":    WHERE,
	"GROUP":    GROUP,
	"BY":       BY,
	"HAVING":   HAVING,
	"ORDER":    ORDER,
	"ASC":      ASC,
	"DESC":     DESC,
	"LIMIT":    LIMIT,
	"OFFSET":   OFFSET,
	"UNION":    UNION,
	"ALL":      ALL,
	"AND":      AND,
	"OR":       OR,
	"NOT":      NOT,
	"BETWEEN":  BETWEEN,
	"IN":       IN,
	"LIKE":     LIKE,
	"REGEXP":   REGEXP,
	"IS":       IS,
	"NULL":     NULL,
	"EXISTS":   EXISTS,
}

// LookupIdent reports the keyword Type for an upper-cased identifier, or
// IDENT if it isn't a keyword.
func LookupIdent(upper string) Type {
	if t, ok := keywords[upper]; ok {
		return t
	}
	return IDENT
}

// IsKeyword reports whether t is one of the reserved words above.
func (t Type) IsKeyword() bool {
	return t > keywordBeg && t < keywordEnd
}

// Token is one lexical token: its type, literal text, and source
// position (1-based line/column, for error messages).
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
}
