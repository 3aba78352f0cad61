package filter

import (
	"strings"

	"github.com/roach88/harq/internal/har"
)

// Evaluate reports whether e matches expr.
//
// Evaluation never fails. An absent field makes every comparison false
// except !=, which is true; string and regex predicates on an absent field
// are false, as is a BoolCheck.
func Evaluate(expr Expr, e *har.Entry) bool {
	switch x := expr.(type) {
	case *Comparison:
		v, ok := x.Field.Value(e)
		if !ok {
			return x.Op == OpNe
		}
		return compare(x.Op, v, x.Value)

	case *StringMatch:
		v, ok := x.Field.Value(e)
		if !ok {
			return false
		}
		s := v.String()
		switch x.Op {
		case OpContains:
			return strings.Contains(s, x.Arg)
		case OpStartsWith:
			return strings.HasPrefix(s, x.Arg)
		case OpEndsWith:
			return strings.HasSuffix(s, x.Arg)
		}
		return false

	case *RegexMatch:
		v, ok := x.Field.Value(e)
		return ok && x.Pattern.MatchString(v.String())

	case *And:
		return Evaluate(x.Left, e) && Evaluate(x.Right, e)

	case *Or:
		return Evaluate(x.Left, e) || Evaluate(x.Right, e)

	case *Not:
		return !Evaluate(x.Expr, e)

	case *BoolCheck:
		v, ok := x.Field.Value(e)
		return ok && Truthy(v)
	}
	return false
}

func compare(op CompareOp, a, b Value) bool {
	switch op {
	case OpEq:
		return Equal(a, b)
	case OpNe:
		return !Equal(a, b)
	case OpGt:
		return Greater(a, b)
	case OpGe:
		return GreaterOrEqual(a, b)
	case OpLt:
		return Less(a, b)
	case OpLe:
		return LessOrEqual(a, b)
	}
	return false
}

// Value extracts f from e. The boolean is false when the field is absent.
func (f Field) Value(e *har.Entry) (Value, bool) {
	req, resp := &e.Request, &e.Response

	switch f.Kind {
	case FieldMethod:
		return String(req.Method), true
	case FieldURL:
		return String(req.URL), true
	case FieldHost, FieldDomain:
		return String(urlHost(req.URL)), true
	case FieldPath:
		return String(urlPath(req.URL)), true
	case FieldScheme:
		return String(urlScheme(req.URL)), true
	case FieldQuery:
		q, ok := urlQuery(req.URL)
		return optionalString(q, ok)
	case FieldStatus:
		return Number(resp.Status), true
	case FieldStatusText:
		return String(resp.StatusText), true
	case FieldTime:
		return Number(e.Time), true
	case FieldStartedDateTime:
		return String(e.StartedDateTime), true
	case FieldServerIPAddress:
		if e.ServerIPAddress == nil {
			return nil, false
		}
		return String(*e.ServerIPAddress), true

	case FieldRequestHTTPVersion:
		return String(req.HTTPVersion), true
	case FieldRequestHeadersSize:
		return Number(req.HeadersSize), true
	case FieldRequestBodySize:
		return Number(req.BodySize), true

	case FieldResponseHTTPVersion:
		return String(resp.HTTPVersion), true
	case FieldResponseHeadersSize:
		return Number(resp.HeadersSize), true
	case FieldResponseBodySize:
		return Number(resp.BodySize), true
	case FieldContentType:
		return optionalString(e.ContentType())
	case FieldContentSize:
		return Number(resp.Content.Size), true

	case FieldTimingBlocked:
		return optionalNumber(e.Timings.Blocked)
	case FieldTimingDNS:
		return optionalNumber(e.Timings.DNS)
	case FieldTimingConnect:
		return optionalNumber(e.Timings.Connect)
	case FieldTimingSSL:
		return optionalNumber(e.Timings.SSL)
	case FieldTimingSend:
		return optionalNumber(e.Timings.Send)
	case FieldTimingWait:
		return optionalNumber(e.Timings.Wait)
	case FieldTimingReceive:
		return optionalNumber(e.Timings.Receive)

	case FieldRequestHeader:
		return optionalString(e.RequestHeader(f.Header))
	case FieldResponseHeader:
		return optionalString(e.ResponseHeader(f.Header))

	case FieldGQLOperationName:
		return graphQLField(e, "operationName")
	case FieldGQLOperationType:
		return graphQLOperationType(e)
	case FieldGQLQuery:
		return graphQLField(e, "query")
	case FieldIsGraphQL:
		return Bool(isGraphQL(e)), true
	}
	return nil, false
}

func optionalString(s string, ok bool) (Value, bool) {
	if !ok {
		return nil, false
	}
	return String(s), true
}

func optionalNumber(n *float64) (Value, bool) {
	if n == nil {
		return nil, false
	}
	return Number(*n), true
}
