package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Parse parses a filter expression.
//
// Grammar, applied in order to the trimmed input:
//  1. A fully parenthesized expression is unwrapped.
//  2. The first top-level "||", then the first top-level "&&", splits the
//     input into two operands ("top-level" = outside parentheses and
//     quotes). So || binds looser than &&.
//  3. A leading "!" or "not " negates the rest.
//  4. field.contains(arg), field.startsWith(arg), field.endsWith(arg) and
//     field.matches(regex) build predicates.
//  5. field OP literal builds a comparison; operators are tried in the
//     order == != >= <= > < and the first unquoted occurrence is used.
//  6. A bare field name is a truthiness check.
//
// Errors are *SyntaxError values wrapping ErrUnknownField, ErrInvalidRegex
// or ErrUnparsableExpression.
func Parse(text string) (Expr, error) {
	expr := strings.TrimSpace(text)

	if len(expr) >= 2 && expr[0] == '(' && expr[len(expr)-1] == ')' {
		if inner := expr[1 : len(expr)-1]; balanced(inner) {
			return Parse(inner)
		}
	}

	if i := indexTopLevel(expr, "||"); i >= 0 {
		left, right, err := parseOperands(expr, i)
		if err != nil {
			return nil, err
		}
		return &Or{Left: left, Right: right}, nil
	}

	if i := indexTopLevel(expr, "&&"); i >= 0 {
		left, right, err := parseOperands(expr, i)
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil
	}

	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		inner, err := Parse(rest)
		if err != nil {
			return nil, err
		}
		return &Not{Expr: inner}, nil
	}
	if len(expr) >= 4 && strings.EqualFold(expr[:4], "not ") {
		inner, err := Parse(expr[4:])
		if err != nil {
			return nil, err
		}
		return &Not{Expr: inner}, nil
	}

	return parseTerm(expr)
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

// parseOperands parses the two sides of a two-byte logical operator at i.
func parseOperands(expr string, i int) (Expr, Expr, error) {
	left, err := Parse(expr[:i])
	if err != nil {
		return nil, nil, err
	}
	right, err := Parse(expr[i+2:])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

var stringMethods = []struct {
	name string
	op   StringOp
}{
	{"contains(", OpContains},
	{"startsWith(", OpStartsWith},
	{"endsWith(", OpEndsWith},
}

const matchesMethod = "matches("

func parseTerm(expr string) (Expr, error) {
	if e, ok, err := parseMethodCall(expr); ok || err != nil {
		return e, err
	}

	for _, op := range compareOps {
		sym := op.String()
		i := indexUnquoted(expr, sym)
		if i < 0 {
			continue
		}
		field, err := ParseField(strings.TrimSpace(expr[:i]))
		if err != nil {
			return nil, err
		}
		return &Comparison{
			Op:    op,
			Field: field,
			Value: ParseValue(expr[i+len(sym):]),
		}, nil
	}

	if field, err := ParseField(expr); err == nil {
		return &BoolCheck{Field: field}, nil
	}

	return nil, &SyntaxError{
		Err:     ErrUnparsableExpression,
		Expr:    expr,
		Message: fmt.Sprintf("Unable to parse expression: %s", expr),
	}
}

// parseMethodCall recognizes field.method(arg). Each unquoted '.' is tried
// from the left; the first whose suffix has a method-call shape decides the
// field prefix, so request.header("X").contains("y") resolves the header.
func parseMethodCall(expr string) (Expr, bool, error) {
	if !strings.HasSuffix(expr, ")") {
		return nil, false, nil
	}

	for dot := indexUnquoted(expr, "."); dot >= 0; dot = nextUnquoted(expr, ".", dot+1) {
		prefix, rest := expr[:dot], expr[dot+1:]

		for _, m := range stringMethods {
			if arg, ok := methodArg(rest, m.name); ok {
				field, err := ParseField(prefix)
				if err != nil {
					return nil, false, err
				}
				return &StringMatch{Op: m.op, Field: field, Arg: unquote(arg)}, true, nil
			}
		}

		if arg, ok := methodArg(rest, matchesMethod); ok {
			re, err := compileRegexArg(arg)
			if err != nil {
				return nil, false, err
			}
			field, err := ParseField(prefix)
			if err != nil {
				return nil, false, err
			}
			return &RegexMatch{Field: field, Pattern: re}, true, nil
		}
	}
	return nil, false, nil
}

func methodArg(rest, name string) (string, bool) {
	if !strings.HasPrefix(rest, name) || !strings.HasSuffix(rest, ")") {
		return "", false
	}
	return rest[len(name) : len(rest)-1], true
}

// compileRegexArg compiles a matches() argument. /re/i is case-insensitive,
// /re/ is taken as is, and anything else (quoted or bare) is the pattern.
func compileRegexArg(arg string) (*regexp.Regexp, error) {
	s := strings.TrimSpace(arg)

	var pattern string
	switch {
	case len(s) >= 3 && s[0] == '/' && strings.HasSuffix(s, "/i"):
		pattern = "(?i)" + s[1:len(s)-2]
	case len(s) >= 2 && s[0] == '/' && s[len(s)-1] == '/':
		pattern = s[1 : len(s)-1]
	default:
		pattern = unquote(s)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &SyntaxError{
			Err:     ErrInvalidRegex,
			Expr:    arg,
			Message: fmt.Sprintf("Invalid regex %q", pattern),
			Cause:   err,
		}
	}
	return re, nil
}

// balanced reports whether parentheses in s never close more than they
// open and end at depth zero.
func balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// scanner walks s tracking quoted regions and parenthesis depth. A quote
// closes on the same quote character unless preceded by a backslash.
type scanner struct {
	s       string
	inQuote bool
	quote   byte
	depth   int
}

// step consumes s[i] and reports whether it lies outside any quote.
func (sc *scanner) step(i int) bool {
	c := sc.s[i]
	if sc.inQuote {
		if c == sc.quote && (i == 0 || sc.s[i-1] != '\\') {
			sc.inQuote = false
		}
		return false
	}
	switch c {
	case '"', '\'':
		sc.inQuote = true
		sc.quote = c
		return false
	case '(':
		sc.depth++
		return false
	case ')':
		sc.depth--
		return false
	}
	return true
}

// indexTopLevel returns the first index of pattern outside quotes and at
// parenthesis depth zero, or -1.
func indexTopLevel(s, pattern string) int {
	sc := scanner{s: s}
	for i := 0; i < len(s); i++ {
		if sc.step(i) && sc.depth == 0 && strings.HasPrefix(s[i:], pattern) {
			return i
		}
	}
	return -1
}

// indexUnquoted returns the first index of pattern outside quotes, or -1.
func indexUnquoted(s, pattern string) int {
	return nextUnquoted(s, pattern, 0)
}

// nextUnquoted is indexUnquoted starting at from. Quote state is tracked
// from the start of s.
func nextUnquoted(s, pattern string, from int) int {
	sc := scanner{s: s}
	for i := 0; i < len(s); i++ {
		if sc.step(i) && i >= from && strings.HasPrefix(s[i:], pattern) {
			return i
		}
	}
	return -1
}
