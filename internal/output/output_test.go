package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/harq/internal/har"
)

func ptr[T any](v T) *T { return &v }

func assertGolden(t *testing.T, name string, got []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, got)
}

func fixture() *har.HAR {
	return &har.HAR{Log: har.Log{
		Version: "1.2",
		Creator: har.Creator{Name: "WebInspector", Version: "537.36"},
		Browser: &har.Creator{Name: "Chrome", Version: "120.0"},
		Pages:   []har.Page{{ID: "page_1", Title: "Example"}},
		Entries: []har.Entry{
			{
				StartedDateTime: "2024-01-15T10:30:00.000Z",
				Time:            150.2,
				Request:         har.Request{Method: "GET", URL: "https://api.example.com/v1/users?id=1"},
				Response: har.Response{
					Status:   200,
					BodySize: 27,
					Content:  har.Content{MimeType: ptr("application/json")},
				},
				Timings: har.Timings{DNS: ptr(10.0), Wait: ptr(100.0), Receive: ptr(40.2)},
			},
			{
				StartedDateTime: "2024-01-15T10:30:00.200Z",
				Time:            820,
				Request:         har.Request{Method: "POST", URL: "https://api.example.com/graphql"},
				Response: har.Response{
					Status:   500,
					BodySize: 2048,
					Content:  har.Content{MimeType: ptr("text/plain")},
				},
				Timings: har.Timings{DNS: ptr(-1.0), Wait: ptr(800.0), Receive: ptr(20.0)},
			},
			{
				StartedDateTime: "2024-01-15T10:30:01.000Z",
				Time:            35,
				Request:         har.Request{Method: "GET", URL: "https://cdn.example.com/assets/images/logo-with-a-very-long-name.png"},
				Response: har.Response{
					Status:   304,
					BodySize: -1,
					Headers:  []har.Header{{Name: "Content-Type", Value: "image/png"}},
				},
				Timings: har.Timings{Wait: ptr(30.0), Receive: ptr(5.0)},
			},
		},
	}}
}

func TestSummariesTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, 40)

	require.NoError(t, p.Summaries(SummarizeAll(fixture().Log.Entries), false))
	assertGolden(t, "summaries_table", buf.Bytes())
}

func TestTableWidths(t *testing.T) {
	tests := []struct {
		name    string
		colored bool
	}{
		{"plain", false},
		{"colored", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(&buf, tt.colored, 0)
			rows := []Summary{
				{Index: 1, Method: "GET", Status: 200, TimeMS: 12, BodySize: 10, URL: "https://例え.jp/日本語"},
				{Index: 2, Method: "POST", Status: 500, TimeMS: 900, BodySize: 2048, URL: "https://example.com/abc"},
			}
			require.NoError(t, p.Summaries(rows, false))

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			require.Len(t, lines, 6)
			want := lipgloss.Width(lines[0])
			for _, line := range lines[1:] {
				assert.Equal(t, want, lipgloss.Width(line), line)
				assert.True(t, strings.HasSuffix(line, "│") || strings.HasSuffix(line, "┤") || strings.HasSuffix(line, "╯"), line)
			}
			assert.Contains(t, buf.String(), "https://例え.jp/日本語")
		})
	}
}

func TestSummariesLong(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, 40)

	require.NoError(t, p.Summaries(SummarizeAll(fixture().Log.Entries), true))
	assertGolden(t, "summaries_long", buf.Bytes())
}

func TestSummariesCompact(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, 40)

	require.NoError(t, p.Compact(SummarizeAll(fixture().Log.Entries)))
	assertGolden(t, "summaries_compact", buf.Bytes())
}

func TestSummariesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false, 60).Summaries(nil, false))
	assert.Equal(t, "No entries found.\n", buf.String())
}

func TestSummariesColor(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, 60)

	require.NoError(t, p.Summaries(SummarizeAll(fixture().Log.Entries), false))
	out := buf.String()
	assert.Contains(t, out, "\x1b[32m200   \x1b[0m", "2xx green, padded inside the color")
	assert.Contains(t, out, "\x1b[31;1m500   \x1b[0m", "5xx bold red")
	assert.Contains(t, out, "\x1b[36m304   \x1b[0m", "3xx cyan")
}

func TestInfoText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, 60)

	require.NoError(t, p.Info(BuildInfo(fixture())))
	assertGolden(t, "info_text", buf.Bytes())
}

func TestBuildInfoClients(t *testing.T) {
	doc := fixture()
	ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	for i := range doc.Log.Entries {
		doc.Log.Entries[i].Request.Headers = []har.Header{{Name: "User-Agent", Value: ua}}
	}

	info := BuildInfo(doc)
	require.Len(t, info.Clients, 1)
	assert.True(t, strings.HasPrefix(info.Clients[0].Name, "Chrome 120"), info.Clients[0].Name)
	assert.Equal(t, 3, info.Clients[0].Count)
}

func TestInfoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, BuildInfo(fixture())))

	out := buf.String()
	assert.Contains(t, out, `"entries_count": 3`)
	assert.Contains(t, out, `"status_codes": {`)
	assert.Contains(t, out, `"200": 1`)
	assert.NotContains(t, out, "pages\":", "page titles are text-only")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, map[string]any{"entries_count": 3, "version": "1.2"}))
	assert.Equal(t, "entries_count: 3\nversion: \"1.2\"\n", buf.String())
}

func TestWriteJSONKeepsHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]string{"url": "https://x.io/?a=1&b=<2>"}))
	assert.Equal(t, "{\n  \"url\": \"https://x.io/?a=1&b=<2>\"\n}\n", buf.String())
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "-", FormatTime(-1))
	assert.Equal(t, "0ms", FormatTime(0))
	assert.Equal(t, "999ms", FormatTime(999.4))
	assert.Equal(t, "1.50s", FormatTime(1500))
	assert.Equal(t, "2.00m", FormatTime(120000))
	assert.Equal(t, "-", FormatOptionalTime(nil))

	assert.Equal(t, "-", FormatBytes(-1))
	assert.Equal(t, "512B", FormatBytes(512))
	assert.Equal(t, "1.5KB", FormatBytes(1536))
	assert.Equal(t, "2.0MB", FormatBytes(2*1024*1024))

	assert.Equal(t, "12,345", FormatCount(12345))
	assert.Equal(t, "7", FormatCount(7))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "äöü...", Truncate("äöüßéèçàù", 6))
	assert.Equal(t, "unchanged", Truncate("unchanged", 0))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON", FormatTable, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml", FormatTable, FormatJSON)
	assert.ErrorContains(t, err, "must be one of table, json")
}

func TestColorMode(t *testing.T) {
	m, err := ParseColorMode("Always")
	require.NoError(t, err)
	assert.True(t, m.Enabled(&bytes.Buffer{}))

	m, err = ParseColorMode("never")
	require.NoError(t, err)
	assert.False(t, m.Enabled(os.Stdout))

	assert.False(t, ColorAuto.Enabled(&bytes.Buffer{}), "non-file writers are never terminals")

	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestDetail(t *testing.T) {
	e := fixture().Log.Entries[0]
	e.Request.Headers = []har.Header{{Name: "Accept", Value: "application/json"}}
	e.Response.Content.Text = ptr(`{"users":[{"id":1}]}`)
	e.ServerIPAddress = ptr("10.0.0.1")

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false, 60).Detail(1, &e, true))

	out := buf.String()
	assert.Contains(t, out, ">>> Entry #1")
	assert.Contains(t, out, "  GET https://api.example.com/v1/users?id=1")
	assert.Contains(t, out, "    Accept: application/json")
	assert.Contains(t, out, "      \"users\": [")
	assert.Contains(t, out, "  blocked: - | dns: 10ms | connect: - | ssl: -")
	assert.Contains(t, out, "Server IP: 10.0.0.1")
	assert.NotContains(t, out, "\x1b[")
}

func TestHeaders(t *testing.T) {
	headers := []har.Header{
		{Name: "Accept", Value: "*/*"},
		{Name: "Set-Cookie", Value: "a=1"},
		{Name: "set-cookie", Value: "b=2"},
	}

	var buf bytes.Buffer
	p := NewPrinter(&buf, false, 60)
	require.NoError(t, p.Headers("Response Headers", headers, "SET-COOKIE"))
	assert.Equal(t, "Response Headers\n  Set-Cookie: a=1\n  set-cookie: b=2\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Headers("Request Headers", nil, ""))
	assert.Equal(t, "Request Headers\n  (none)\n", buf.String())
}

func TestTimings(t *testing.T) {
	doc := fixture()
	rows := make([]TimingRow, len(doc.Log.Entries))
	for i := range doc.Log.Entries {
		rows[i] = TimingRow{Index: i + 1, Entry: &doc.Log.Entries[i]}
	}

	t.Run("sort by wait descending", func(t *testing.T) {
		sorted := append([]TimingRow(nil), rows...)
		SortTimings(sorted, PhaseWait, false)
		assert.Equal(t, []int{2, 1, 3}, indices(sorted))
	})

	t.Run("sort by dns ascending puts missing first", func(t *testing.T) {
		sorted := append([]TimingRow(nil), rows...)
		SortTimings(sorted, PhaseDNS, true)
		assert.Equal(t, []int{2, 3, 1}, indices(sorted))
	})

	t.Run("summary", func(t *testing.T) {
		s := SummarizeTimings(rows)
		assert.Equal(t, 3, s.Requests)
		require.NotNil(t, s.Slowest)
		assert.Equal(t, 2, s.Slowest.Index)

		byPhase := make(map[Phase]PhaseStats)
		for _, ps := range s.Phases {
			byPhase[ps.Phase] = ps
		}
		assert.NotContains(t, byPhase, PhaseSSL)
		assert.Equal(t, 1, byPhase[PhaseDNS].Count, "negative phases are skipped")
		assert.Equal(t, 30.0, byPhase[PhaseWait].Min)
		assert.Equal(t, 800.0, byPhase[PhaseWait].Max)
		assert.Equal(t, 800.0, byPhase[PhaseWait].P95)
		assert.InDelta(t, 310.0, byPhase[PhaseWait].Avg, 1e-9)
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, false, 60).Timings(rows))
		out := buf.String()
		assert.Contains(t, out, "cdn.example.com")
		assert.Contains(t, out, strings.Repeat("█", 20))
	})

	t.Run("summary text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, false, 60).TimingSummary(SummarizeTimings(rows)))
		out := buf.String()
		assert.Contains(t, out, "Slowest request: #2 820ms (api.example.com)")
		assert.Contains(t, out, "│ wait    │")
	})
}

func TestParsePhase(t *testing.T) {
	p, err := ParsePhase("total")
	require.NoError(t, err)
	assert.Equal(t, PhaseTime, p)

	p, err = ParsePhase("Wait")
	require.NoError(t, err)
	assert.Equal(t, PhaseWait, p)

	_, err = ParsePhase("latency")
	assert.Error(t, err)
}

func indices(rows []TimingRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Index
	}
	return out
}

func TestFilterHeaders(t *testing.T) {
	headers := []har.Header{
		{Name: "Content-Type", Value: "text/html"},
		{Name: "X-Content-Type-Options", Value: "nosniff"},
		{Name: "Accept", Value: "*/*"},
	}

	assert.Len(t, FilterHeaders(headers, ""), 3)
	assert.Equal(t, []har.Header{headers[0], headers[1]}, FilterHeaders(headers, "content-type"))
	assert.Empty(t, FilterHeaders(headers, "cookie"))
}

func TestTimingRecords(t *testing.T) {
	doc := fixture()
	recs := TimingRecords([]TimingRow{{Index: 2, Entry: &doc.Log.Entries[1]}})
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].Index)
	assert.Equal(t, 820.0, recs[0].TotalMS)
	require.NotNil(t, recs[0].DNSMS)
	assert.Equal(t, -1.0, *recs[0].DNSMS)
	assert.Nil(t, recs[0].SSLMS)
}
