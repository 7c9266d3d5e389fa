package exec

import (
	"regexp"
	"strings"

	"myco/internal/mycoerr"
	"myco/internal/sqlengine/ast"
)

// compileLikePattern translates a SQL LIKE pattern ("%" any run, "_" any
// single char, "\X" literal X) into an anchored, case-insensitive
// regexp — MySQL's LIKE compares case-insensitively under the default
// collation, and the original simulator's like_match lowercases both
// sides before comparing.
func compileLikePattern(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("(?i)^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		case '\\':
			if i+1 < len(runes) {
				i++
				sb.WriteString(regexp.QuoteMeta(string(runes[i])))
			}
		default:
			sb.WriteString(regexp.QuoteMeta(string(runes[i])))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

func (ctx *Context) evalLike(v ast.Like, row *Row) (Cell, error) {
	c, err := ctx.eval(v.Operand, row)
	if err != nil {
		return Cell{}, err
	}
	p, err := ctx.eval(v.Pattern, row)
	if err != nil {
		return Cell{}, err
	}
	if c.IsNull || p.IsNull {
		return boolCell(v.Negate), nil
	}
	re, err := compileLikePattern(p.Text)
	if err != nil {
		return Cell{}, mycoerr.Wrap(mycoerr.KindParse, "sqlengine: invalid LIKE pattern", err)
	}
	return boolCell(re.MatchString(c.Text) != v.Negate), nil
}

func (ctx *Context) evalRegexp(v ast.Regexp, row *Row) (Cell, error) {
	c, err := ctx.eval(v.Operand, row)
	if err != nil {
		return Cell{}, err
	}
	p, err := ctx.eval(v.Pattern, row)
	if err != nil {
		return Cell{}, err
	}
	if c.IsNull || p.IsNull {
		return boolCell(v.Negate), nil
	}
	// REGEXP matches case-insensitively, same as the original simulator's
	// std::regex_constants::icase.
	re, err := regexp.Compile("(?i)" + p.Text)
	if err != nil {
		return Cell{}, mycoerr.Wrap(mycoerr.KindParse, "sqlengine: invalid REGEXP pattern", err)
	}
	return boolCell(re.MatchString(c.Text) != v.Negate), nil
}
