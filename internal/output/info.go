package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mileusna/useragent"

	"github.com/roach88/harq/internal/har"
)

const (
	infoPageLimit = 5
	infoTopLimit  = 5
)

// CreatorInfo names the tool or browser that produced a log.
type CreatorInfo struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Count is a label with its number of occurrences.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// TimeStats summarizes entry times in milliseconds.
type TimeStats struct {
	Total float64 `json:"total_ms" yaml:"total_ms"`
	Avg   float64 `json:"avg_ms" yaml:"avg_ms"`
	Min   float64 `json:"min_ms" yaml:"min_ms"`
	Max   float64 `json:"max_ms" yaml:"max_ms"`
}

// Info is the overview printed by the info command.
type Info struct {
	Version      string         `json:"version" yaml:"version"`
	Creator      CreatorInfo    `json:"creator" yaml:"creator"`
	Browser      *CreatorInfo   `json:"browser" yaml:"browser"`
	PagesCount   int            `json:"pages_count" yaml:"pages_count"`
	Pages        []string       `json:"-" yaml:"-"`
	EntriesCount int            `json:"entries_count" yaml:"entries_count"`
	TotalSize    int64          `json:"total_size" yaml:"total_size"`
	Methods      map[string]int `json:"methods" yaml:"methods"`
	StatusCodes  map[int]int    `json:"status_codes" yaml:"status_codes"`
	ContentTypes []Count        `json:"content_types" yaml:"content_types"`
	Hosts        []Count        `json:"hosts" yaml:"hosts"`
	Clients      []Count        `json:"clients" yaml:"clients"`
	Timing       *TimeStats     `json:"timing,omitempty" yaml:"timing,omitempty"`
}

// BuildInfo computes the overview of doc.
func BuildInfo(doc *har.HAR) Info {
	log := doc.Log
	info := Info{
		Version:      log.Version,
		Creator:      CreatorInfo{Name: log.Creator.Name, Version: log.Creator.Version},
		PagesCount:   len(log.Pages),
		EntriesCount: len(log.Entries),
		Methods:      make(map[string]int),
		StatusCodes:  make(map[int]int),
	}
	if log.Browser != nil {
		info.Browser = &CreatorInfo{Name: log.Browser.Name, Version: log.Browser.Version}
	}
	for _, p := range log.Pages {
		info.Pages = append(info.Pages, fmt.Sprintf("%s (%s)", p.Title, p.ID))
	}

	types := make(map[string]int)
	hosts := make(map[string]int)
	clients := make(map[string]int)
	var times []float64

	for i := range log.Entries {
		e := &log.Entries[i]
		info.Methods[e.Request.Method]++
		info.StatusCodes[e.Response.Status]++
		if e.Response.BodySize > 0 {
			info.TotalSize += e.Response.BodySize
		}
		if ct, ok := e.ContentType(); ok && ct != "" {
			mime, _, _ := strings.Cut(ct, ";")
			types[strings.TrimSpace(mime)]++
		}
		hosts[urlHost(e.Request.URL)]++
		if ua, ok := e.RequestHeader("user-agent"); ok {
			clients[clientName(ua)]++
		}
		times = append(times, e.Time)
	}

	info.ContentTypes = topCounts(types, infoTopLimit)
	info.Hosts = topCounts(hosts, infoTopLimit)
	info.Clients = topCounts(clients, infoTopLimit)

	if len(times) > 0 {
		ts := TimeStats{Min: math.Inf(1), Max: math.Inf(-1)}
		for _, t := range times {
			ts.Total += t
			ts.Min = math.Min(ts.Min, t)
			ts.Max = math.Max(ts.Max, t)
		}
		ts.Avg = ts.Total / float64(len(times))
		info.Timing = &ts
	}
	return info
}

// clientName reduces a User-Agent header to "Name Version (OS)".
func clientName(header string) string {
	ua := useragent.Parse(header)
	if ua.Name == "" {
		return Truncate(header, 40)
	}

	name := ua.Name
	if major, _, _ := strings.Cut(ua.Version, "."); major != "" {
		name += " " + major
	}
	if ua.OS != "" {
		name += " (" + ua.OS + ")"
	}
	return name
}

// topCounts returns the n most frequent names, ties broken by name.
func topCounts(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for name, c := range m {
		out = append(out, Count{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Info writes the overview as text.
func (p *Printer) Info(info Info) error {
	var b strings.Builder

	fmt.Fprintln(&b, p.Label("HAR File Information"))
	fmt.Fprintln(&b, strings.Repeat("─", 40))
	fmt.Fprintf(&b, "%s: %s\n", p.Label("Version"), info.Version)
	fmt.Fprintf(&b, "%s: %s v%s\n", p.Label("Creator"), info.Creator.Name, info.Creator.Version)
	if info.Browser != nil {
		fmt.Fprintf(&b, "%s: %s v%s\n", p.Label("Browser"), info.Browser.Name, info.Browser.Version)
	}
	if info.PagesCount > 0 {
		fmt.Fprintf(&b, "%s: %d\n", p.Label("Pages"), info.PagesCount)
		for i, page := range info.Pages {
			if i == infoPageLimit {
				fmt.Fprintf(&b, "  ... and %d more\n", len(info.Pages)-infoPageLimit)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", page)
		}
	}
	fmt.Fprintf(&b, "%s: %s\n", p.Label("Entries"), FormatCount(info.EntriesCount))
	fmt.Fprintf(&b, "%s: %s\n", p.Label("Total size"), FormatBytes(info.TotalSize))

	if len(info.Methods) > 0 {
		fmt.Fprintf(&b, "%s:\n", p.Label("Methods"))
		for _, c := range topCounts(info.Methods, len(info.Methods)) {
			fmt.Fprintf(&b, "  %s: %s\n", c.Name, FormatCount(c.Count))
		}
	}

	if len(info.StatusCodes) > 0 {
		fmt.Fprintf(&b, "%s:\n", p.Label("Status Codes"))
		codes := make([]int, 0, len(info.StatusCodes))
		for code := range info.StatusCodes {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			fmt.Fprintf(&b, "  %s: %s\n", paint(p.StatusColor(code), strconv.Itoa(code)), FormatCount(info.StatusCodes[code]))
		}
	}

	writeCounts(&b, p.Label("Content Types"), info.ContentTypes)
	writeCounts(&b, p.Label("Hosts"), info.Hosts)
	writeCounts(&b, p.Label("Clients"), info.Clients)

	if ts := info.Timing; ts != nil {
		fmt.Fprintf(&b, "%s:\n", p.Label("Timing"))
		fmt.Fprintf(&b, "  Total: %s\n", FormatTime(ts.Total))
		fmt.Fprintf(&b, "  Average: %s\n", FormatTime(ts.Avg))
		fmt.Fprintf(&b, "  Min: %s, Max: %s\n", FormatTime(ts.Min), p.Paint(color.FgYellow).Sprint(FormatTime(ts.Max)))
	}

	_, err := io.WriteString(p.W, b.String())
	return err
}

func writeCounts(b *strings.Builder, label string, counts []Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, c := range counts {
		fmt.Fprintf(b, "  %s: %s\n", c.Name, FormatCount(c.Count))
	}
}
