package filter

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/harq/internal/har"
)

func matches(t *testing.T, expr string, e *har.Entry) bool {
	t.Helper()
	parsed, err := Parse(expr)
	require.NoError(t, err, "parse %q", expr)
	return Evaluate(parsed, e)
}

func TestEvaluateStatusEquality(t *testing.T) {
	for _, code := range []int{100, 200, 204, 301, 404, 500, 599} {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			e := newEntry(withStatus(code))
			assert.True(t, matches(t, "status == "+strconv.Itoa(code), e))
			assert.False(t, matches(t, "status == "+strconv.Itoa(code+1), e))
		})
	}
}

func TestEvaluateStatusBoundary(t *testing.T) {
	assert.False(t, matches(t, "status >= 400", newEntry(withStatus(399))))
	assert.True(t, matches(t, "status >= 400", newEntry(withStatus(400))))
	assert.True(t, matches(t, "status >= 400", newEntry(withStatus(500))))
}

func TestEvaluateAbsence(t *testing.T) {
	e := newEntry(withURL("https://example.com/"))
	e.ServerIPAddress = nil
	e.Timings.SSL = nil

	absent := []string{
		"query",
		"serverIpAddress",
		"timings.ssl",
		`request.header("Authorization")`,
		"gql.operation",
	}
	literals := []string{`""`, "0", "x", "true", `"anything"`}

	for _, f := range absent {
		for _, lit := range literals {
			t.Run(f+" "+lit, func(t *testing.T) {
				assert.True(t, matches(t, f+" != "+lit, e))
				assert.False(t, matches(t, f+" == "+lit, e))
				assert.False(t, matches(t, f+" > "+lit, e))
				assert.False(t, matches(t, f+" >= "+lit, e))
				assert.False(t, matches(t, f+" < "+lit, e))
				assert.False(t, matches(t, f+" <= "+lit, e))
				assert.False(t, matches(t, f+".contains("+lit+")", e))
				assert.False(t, matches(t, f+".matches(/.*/)", e))
			})
		}
		t.Run(f+" bool", func(t *testing.T) {
			assert.False(t, matches(t, f, e))
		})
	}
}

func TestEvaluateHeaderPresence(t *testing.T) {
	without := newEntry()
	with := newEntry(withRequestHeader("authorization", "Bearer abc"))
	empty := newEntry(withRequestHeader("Authorization", ""))

	t.Run("not equal empty", func(t *testing.T) {
		expr := `request.header("Authorization") != ""`
		assert.True(t, matches(t, expr, with))
		assert.False(t, matches(t, expr, empty))
		// An absent header is "not equal" to every literal.
		assert.True(t, matches(t, expr, without))
	})

	t.Run("truthiness", func(t *testing.T) {
		expr := `request.header("Authorization")`
		assert.True(t, matches(t, expr, with))
		assert.False(t, matches(t, expr, empty))
		assert.False(t, matches(t, expr, without))
	})

	t.Run("first match wins", func(t *testing.T) {
		assert.True(t, matches(t, `request.header("x-trace") == "first"`, newEntry()))
	})
}

func TestEvaluateDeMorgan(t *testing.T) {
	left := MustParse(`!(status == 200 && method == "GET")`)
	right := MustParse(`!status == 200 || !method == "GET"`)

	for _, status := range []int{200, 404} {
		for _, method := range []string{"GET", "POST"} {
			e := newEntry(withStatus(status), withMethod(method))
			assert.Equal(t, Evaluate(left, e), Evaluate(right, e), "status=%d method=%s", status, method)
		}
	}
}

func TestEvaluateStringPredicates(t *testing.T) {
	e := newEntry()

	tests := []struct {
		expr string
		want bool
	}{
		{`url.contains("/v1/")`, true},
		{`url.contains("/v2/")`, false},
		{`url.contains("")`, true},
		{`host.endsWith(".example.com")`, true},
		{`path.startsWith("/v1")`, true},
		{`path.startsWith("/V1")`, false},
		{`status.startsWith("2")`, true},
		{`time.contains(".5")`, true},
		{`isGraphQL.contains("false")`, true},
		{`method.matches(/get/i)`, true},
		{`method.matches(/get/)`, false},
		{`url.matches("users\?id=\d+$")`, true},
		{`url.matches(v1|v2)`, true},
		{`status.matches(^2\d\d$)`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(t, tt.expr, e))
		})
	}
}

func TestEvaluateComparisons(t *testing.T) {
	e := newEntry()

	tests := []struct {
		expr string
		want bool
	}{
		{`method == "GET"`, true},
		{`method == GET`, true},
		{`method == "get"`, false},
		{`status == "200"`, true},
		{`status != 200`, false},
		{`time > 150`, true},
		{`time < 150.5`, false},
		{`time <= 150.5`, true},
		{`timings.wait >= 100`, true},
		{`contentSize > 1000 && response.bodySize < 1000`, true},
		{`statusText > "A"`, true},
		{`scheme == "https"`, true},
		{`query == "id=1"`, true},
		{`isGraphQL == false`, true},
		{`isGraphQL != true`, true},
		{`method > 1`, false},
		{`method <= 1`, false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(t, tt.expr, e))
		})
	}
}

func TestEvaluateLogical(t *testing.T) {
	e := newEntry()

	assert.True(t, matches(t, `status == 200 && method == "GET"`, e))
	assert.False(t, matches(t, `status == 200 && method == "POST"`, e))
	assert.True(t, matches(t, `status == 404 || method == "GET"`, e))
	assert.False(t, matches(t, `status == 404 || method == "POST"`, e))
	assert.True(t, matches(t, `!(status == 404)`, e))
	assert.True(t, matches(t, `not method == "POST"`, e))
	assert.True(t, matches(t, `(status == 404 || status == 200) && !isGraphQL`, e))
}

func TestEvaluateBoolCheck(t *testing.T) {
	e := newEntry()

	assert.True(t, matches(t, "status", e))
	assert.True(t, matches(t, "method", e))
	assert.False(t, matches(t, "request.bodySize", e))
	assert.False(t, matches(t, "isGraphQL", e))
	assert.True(t, matches(t, "isGraphQL", graphQLEntry(`{"query":"{ me }"}`)))
}

func TestFilterSelect(t *testing.T) {
	entries := []har.Entry{
		*newEntry(withStatus(200)),
		*newEntry(withStatus(404)),
		*newEntry(withStatus(500)),
		*newEntry(withStatus(201)),
	}

	f, err := Compile("status >= 400")
	require.NoError(t, err)

	got := f.Select(entries)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 2, got[1].Index)
	assert.Same(t, &entries[1], got[0].Entry)

	kept := Entries(got)
	require.Len(t, kept, 2)
	assert.Equal(t, 404, kept[0].Response.Status)
	assert.Equal(t, 500, kept[1].Response.Status)
}

func TestNilFilterMatchesAll(t *testing.T) {
	var f *Filter
	assert.True(t, f.Match(newEntry()))
	assert.Len(t, f.Select([]har.Entry{*newEntry(), *newEntry()}), 2)
}

func TestCompileError(t *testing.T) {
	f, err := Compile("nope ==")
	require.Error(t, err)
	assert.Nil(t, f)
	assert.True(t, IsUnknownField(err))
}
