package filter

import (
	"regexp"
	"strings"
)

// Expr is a parsed filter expression.
//
// This is a sealed interface - only types in this package implement it.
// Evaluate switches over the concrete node types exhaustively.
//
// Node types:
//   - Comparison: field OP literal
//   - StringMatch: field.contains / startsWith / endsWith (arg)
//   - RegexMatch: field.matches(regex)
//   - And, Or, Not: logical combinators
//   - BoolCheck: truthiness of a single field
//
// A parsed tree is immutable and safe to evaluate from many goroutines.
// String returns text that parses back to an equivalent tree, except when a
// string literal ends in a backslash or holds both quote characters:
// literals carry no escapes, and the scanner reads a backslash as escaping
// the next character.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
	String() string
}

// CompareOp is a binary comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpGe
	OpLe
	OpGt
	OpLt
)

// compareOps is in parse priority order: the first operator found in an
// expression wins, so two-character operators precede their prefixes.
var compareOps = []CompareOp{OpEq, OpNe, OpGe, OpLe, OpGt, OpLt}

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	}
	return "?"
}

// StringOp is a substring predicate method.
type StringOp int

const (
	OpContains StringOp = iota
	OpStartsWith
	OpEndsWith
)

func (op StringOp) String() string {
	switch op {
	case OpContains:
		return "contains"
	case OpStartsWith:
		return "startsWith"
	case OpEndsWith:
		return "endsWith"
	}
	return "?"
}

// Comparison compares a field's value with a literal.
type Comparison struct {
	Op    CompareOp
	Field Field
	Value Value
}

func (*Comparison) exprNode() {}

func (c *Comparison) String() string {
	return c.Field.String() + " " + c.Op.String() + " " + literal(c.Value)
}

// StringMatch tests the stringified field value against Arg.
type StringMatch struct {
	Op    StringOp
	Field Field
	Arg   string
}

func (*StringMatch) exprNode() {}

func (m *StringMatch) String() string {
	return m.Field.String() + "." + m.Op.String() + "(" + quote(m.Arg) + ")"
}

// RegexMatch tests the stringified field value against a regular expression.
type RegexMatch struct {
	Field   Field
	Pattern *regexp.Regexp
}

func (*RegexMatch) exprNode() {}

func (m *RegexMatch) String() string {
	return m.Field.String() + ".matches(/" + m.Pattern.String() + "/)"
}

// And is true when both sides are true.
type And struct {
	Left, Right Expr
}

func (*And) exprNode() {}

func (a *And) String() string {
	return "(" + a.Left.String() + " && " + a.Right.String() + ")"
}

// Or is true when either side is true.
type Or struct {
	Left, Right Expr
}

func (*Or) exprNode() {}

func (o *Or) String() string {
	return "(" + o.Left.String() + " || " + o.Right.String() + ")"
}

// Not negates its operand.
type Not struct {
	Expr Expr
}

func (*Not) exprNode() {}

func (n *Not) String() string {
	return "!" + n.Expr.String()
}

// BoolCheck is true when the field is present and truthy.
type BoolCheck struct {
	Field Field
}

func (*BoolCheck) exprNode() {}

func (b *BoolCheck) String() string {
	return b.Field.String()
}

func literal(v Value) string {
	if s, ok := v.(String); ok {
		return quote(string(s))
	}
	return v.String()
}

// quote wraps s in double quotes, or single quotes when s contains a
// double quote. Quoted literals carry no escapes.
func quote(s string) string {
	if strings.Contains(s, `"`) {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}
