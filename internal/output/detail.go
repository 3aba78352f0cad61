package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/roach88/harq/internal/har"
)

const (
	requestPreviewBytes  = 500
	responsePreviewBytes = 1000
	previewLines         = 30
)

// Detail writes the full human-readable view of one entry. index is 1-based.
func (p *Printer) Detail(index int, e *har.Entry, showBody bool) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	cyan := p.Paint(color.FgCyan)
	dim := p.Paint(color.Faint)

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%s Entry #%d\n", p.Label(">>>"), index)
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "\n%s\n", p.Label("REQUEST"))
	fmt.Fprintf(&b, "  %s %s %s\n", paint(p.MethodColor(e.Request.Method), e.Request.Method), e.Request.URL, dim.Sprint(e.Request.HTTPVersion))
	if len(e.Request.Headers) > 0 {
		fmt.Fprintf(&b, "\n  %s:\n", p.Label("Headers"))
		for _, h := range e.Request.Headers {
			fmt.Fprintf(&b, "    %s: %s\n", cyan.Sprint(h.Name), h.Value)
		}
	}
	if pd := e.Request.PostData; pd != nil {
		fmt.Fprintf(&b, "\n  %s: %s\n", p.Label("Content-Type"), pd.MimeType)
		if showBody && pd.Text != nil {
			fmt.Fprintf(&b, "  %s:\n", p.Label("Body"))
			writePreview(&b, *pd.Text, requestPreviewBytes)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", p.Label("RESPONSE"))
	status := fmt.Sprint(e.Response.Status)
	fmt.Fprintf(&b, "  %s %s %s\n", paint(p.StatusColor(e.Response.Status), status), e.Response.StatusText, dim.Sprint(e.Response.HTTPVersion))
	if len(e.Response.Headers) > 0 {
		fmt.Fprintf(&b, "\n  %s:\n", p.Label("Headers"))
		for _, h := range e.Response.Headers {
			fmt.Fprintf(&b, "    %s: %s\n", cyan.Sprint(h.Name), h.Value)
		}
	}
	if showBody {
		if text, ok := e.TextContent(); ok {
			fmt.Fprintf(&b, "\n  %s:\n", p.Label("Body"))
			writePreview(&b, text, responsePreviewBytes)
		}
	}

	t := e.Timings
	fmt.Fprintf(&b, "\n%s\n", p.Label("TIMING"))
	fmt.Fprintf(&b, "  Total: %s\n", p.Paint(color.FgYellow).Sprint(FormatTime(e.Time)))
	fmt.Fprintf(&b, "  blocked: %s | dns: %s | connect: %s | ssl: %s\n",
		FormatOptionalTime(t.Blocked), FormatOptionalTime(t.DNS), FormatOptionalTime(t.Connect), FormatOptionalTime(t.SSL))
	fmt.Fprintf(&b, "  send: %s | wait: %s | receive: %s\n",
		FormatOptionalTime(t.Send), FormatOptionalTime(t.Wait), FormatOptionalTime(t.Receive))

	if e.ServerIPAddress != nil {
		fmt.Fprintf(&b, "\n%s: %s\n", p.Label("Server IP"), *e.ServerIPAddress)
	}
	fmt.Fprintf(&b, "%s: %s\n\n", p.Label("Started"), e.StartedDateTime)

	_, err := io.WriteString(p.W, b.String())
	return err
}

// FilterHeaders keeps the headers whose name contains name, ignoring
// case. An empty name keeps everything.
func FilterHeaders(headers []har.Header, name string) []har.Header {
	out := make([]har.Header, 0, len(headers))
	needle := strings.ToLower(name)
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h.Name), needle) {
			out = append(out, h)
		}
	}
	return out
}

// Headers writes a header list under title, keeping only names that
// contain name.
func (p *Printer) Headers(title string, headers []har.Header, name string) error {
	var b strings.Builder
	cyan := p.Paint(color.FgCyan)

	fmt.Fprintf(&b, "%s\n", p.Label(title))
	kept := FilterHeaders(headers, name)
	for _, h := range kept {
		fmt.Fprintf(&b, "  %s: %s\n", cyan.Sprint(h.Name), h.Value)
	}
	if len(kept) == 0 {
		fmt.Fprintln(&b, "  (none)")
	}

	_, err := io.WriteString(p.W, b.String())
	return err
}

// writePreview writes at most limit bytes of text, pretty-printing JSON
// and capping the number of lines.
func writePreview(b *strings.Builder, text string, limit int) {
	preview := text
	if len(text) > limit {
		preview = fmt.Sprintf("%s... (%d bytes total)", truncateBytes(text, limit), len(text))
	}

	var pretty bytes.Buffer
	if json.Valid([]byte(preview)) && json.Indent(&pretty, []byte(preview), "", "  ") == nil {
		preview = pretty.String()
	}

	for i, line := range strings.Split(strings.TrimRight(preview, "\n"), "\n") {
		if i == previewLines {
			break
		}
		fmt.Fprintf(b, "    %s\n", line)
	}
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}
