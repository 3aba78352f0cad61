// Package filter implements the harq filter expression language.
//
// An expression is parsed once into an immutable tree (Expr) and then
// evaluated against any number of HAR entries:
//
//	f, err := filter.Compile(`status >= 400 && url.contains("/api/")`)
//	if err != nil {
//	    return err
//	}
//	for _, m := range f.Select(doc.Log.Entries) {
//	    fmt.Println(m.Index, m.Entry.Request.URL)
//	}
//
// Parsing fails fast with a *SyntaxError. Evaluation is total: missing
// fields and type mismatches resolve to false (or true for !=), never to an
// error. The examples below all parse:
//
//	status == 200
//	method != "GET" && !isGraphQL
//	host.endsWith(".example.com") || path.startsWith('/v2')
//	response.header("Cache-Control").contains("no-store")
//	url.matches(/users\/\d+/i)
//	not (timings.wait > 500)
//	gql.type == "mutation"
package filter
