package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/roach88/harq/internal/har"
)

// Phase names a timing phase. "time" is the entry total.
type Phase string

const (
	PhaseTime    Phase = "time"
	PhaseBlocked Phase = "blocked"
	PhaseDNS     Phase = "dns"
	PhaseConnect Phase = "connect"
	PhaseSSL     Phase = "ssl"
	PhaseSend    Phase = "send"
	PhaseWait    Phase = "wait"
	PhaseReceive Phase = "receive"
)

// Phases lists the timing phases in request order.
var Phases = []Phase{PhaseBlocked, PhaseDNS, PhaseConnect, PhaseSSL, PhaseSend, PhaseWait, PhaseReceive}

// ParsePhase validates a --sort value. "total" is accepted for "time".
func ParsePhase(s string) (Phase, error) {
	p := Phase(strings.ToLower(s))
	if p == "total" || p == PhaseTime {
		return PhaseTime, nil
	}
	for _, known := range Phases {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid sort field %q: must be time or one of %v", s, Phases)
}

// PhaseValue returns the value of phase for e. Absent and negative
// (not applicable) phases report false.
func PhaseValue(e *har.Entry, phase Phase) (float64, bool) {
	var v *float64
	switch phase {
	case PhaseTime:
		return e.Time, e.Time >= 0
	case PhaseBlocked:
		v = e.Timings.Blocked
	case PhaseDNS:
		v = e.Timings.DNS
	case PhaseConnect:
		v = e.Timings.Connect
	case PhaseSSL:
		v = e.Timings.SSL
	case PhaseSend:
		v = e.Timings.Send
	case PhaseWait:
		v = e.Timings.Wait
	case PhaseReceive:
		v = e.Timings.Receive
	}
	if v == nil || *v < 0 {
		return 0, false
	}
	return *v, true
}

// TimingRow is one entry in the timing table. Index is 1-based.
type TimingRow struct {
	Index int
	Entry *har.Entry
}

// SortTimings orders rows by phase, slowest first unless ascending. Rows
// without the phase sort as -1. The sort is stable.
func SortTimings(rows []TimingRow, phase Phase, ascending bool) {
	key := func(r TimingRow) float64 {
		if v, ok := PhaseValue(r.Entry, phase); ok {
			return v
		}
		return -1
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return key(rows[i]) < key(rows[j])
		}
		return key(rows[i]) > key(rows[j])
	})
}

// TimingRecord is the JSON form of one timing row. Phases are reported as
// recorded, including -1 for not applicable.
type TimingRecord struct {
	Index     int      `json:"index" yaml:"index"`
	URL       string   `json:"url" yaml:"url"`
	TotalMS   float64  `json:"total_ms" yaml:"total_ms"`
	BlockedMS *float64 `json:"blocked_ms" yaml:"blocked_ms"`
	DNSMS     *float64 `json:"dns_ms" yaml:"dns_ms"`
	ConnectMS *float64 `json:"connect_ms" yaml:"connect_ms"`
	SSLMS     *float64 `json:"ssl_ms" yaml:"ssl_ms"`
	SendMS    *float64 `json:"send_ms" yaml:"send_ms"`
	WaitMS    *float64 `json:"wait_ms" yaml:"wait_ms"`
	ReceiveMS *float64 `json:"receive_ms" yaml:"receive_ms"`
}

// TimingRecords converts rows for JSON output.
func TimingRecords(rows []TimingRow) []TimingRecord {
	out := make([]TimingRecord, len(rows))
	for i, r := range rows {
		t := r.Entry.Timings
		out[i] = TimingRecord{
			Index:     r.Index,
			URL:       r.Entry.Request.URL,
			TotalMS:   r.Entry.Time,
			BlockedMS: t.Blocked,
			DNSMS:     t.DNS,
			ConnectMS: t.Connect,
			SSLMS:     t.SSL,
			SendMS:    t.Send,
			WaitMS:    t.Wait,
			ReceiveMS: t.Receive,
		}
	}
	return out
}

const (
	barWidth     = 20
	hostColWidth = 30
)

// Timings writes the per-entry phase table with a bar proportional to the
// slowest entry shown.
func (p *Printer) Timings(rows []TimingRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.W, "No entries found.")
		return err
	}

	slowest := 0.0
	for _, r := range rows {
		slowest = math.Max(slowest, r.Entry.Time)
	}

	t := &Table{
		Header: []string{"#", "Host", "Total", "Blocked", "DNS", "Connect", "SSL", "Send", "Wait", "Receive", ""},
		Right:  map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true, 9: true},
	}
	bar := p.Paint(color.FgYellow)
	for _, r := range rows {
		e := r.Entry
		cells := []Cell{
			{Text: strconv.Itoa(r.Index)},
			{Text: Truncate(urlHost(e.Request.URL), hostColWidth)},
			{Text: FormatTime(e.Time)},
		}
		for _, phase := range Phases {
			cells = append(cells, Cell{Text: formatPhase(e, phase)})
		}
		cells = append(cells, Cell{Text: timingBar(e.Time, slowest), Paint: bar})
		t.AddRow(cells...)
	}
	return t.Render(p.W)
}

func formatPhase(e *har.Entry, phase Phase) string {
	if v, ok := PhaseValue(e, phase); ok {
		return FormatTime(v)
	}
	return "-"
}

func timingBar(ms, slowest float64) string {
	if slowest <= 0 || ms <= 0 {
		return ""
	}
	n := int(math.Round(ms / slowest * barWidth))
	return strings.Repeat("█", max(n, 1))
}

// PhaseStats aggregates one phase over the entries that report it.
type PhaseStats struct {
	Phase Phase   `json:"phase" yaml:"phase"`
	Count int     `json:"count" yaml:"count"`
	Min   float64 `json:"min" yaml:"min"`
	Avg   float64 `json:"avg" yaml:"avg"`
	Max   float64 `json:"max" yaml:"max"`
	P95   float64 `json:"p95" yaml:"p95"`
	Total float64 `json:"total" yaml:"total"`
}

// TimingSummary is the aggregate view printed by timing --stats.
type TimingSummary struct {
	Requests int          `json:"requests" yaml:"requests"`
	Slowest  *TimingRow   `json:"-" yaml:"-"`
	Phases   []PhaseStats `json:"phases" yaml:"phases"`
}

// SummarizeTimings computes min/avg/max/p95 for the total time and every
// phase. Phases that no entry reports are omitted.
func SummarizeTimings(rows []TimingRow) TimingSummary {
	s := TimingSummary{Requests: len(rows)}
	for i := range rows {
		if s.Slowest == nil || rows[i].Entry.Time > s.Slowest.Entry.Time {
			s.Slowest = &rows[i]
		}
	}

	for _, phase := range append([]Phase{PhaseTime}, Phases...) {
		var values []float64
		for _, r := range rows {
			if v, ok := PhaseValue(r.Entry, phase); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		s.Phases = append(s.Phases, phaseStats(phase, values))
	}
	return s
}

func phaseStats(phase Phase, values []float64) PhaseStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	total := 0.0
	for _, v := range sorted {
		total += v
	}
	return PhaseStats{
		Phase: phase,
		Count: len(sorted),
		Min:   sorted[0],
		Avg:   total / float64(len(sorted)),
		Max:   sorted[len(sorted)-1],
		P95:   percentile(sorted, 95),
		Total: total,
	}
}

// percentile uses the nearest-rank method on sorted values.
func percentile(sorted []float64, pct float64) float64 {
	rank := int(math.Ceil(pct / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// TimingSummary writes the aggregate view.
func (p *Printer) TimingSummary(s TimingSummary) error {
	if s.Requests == 0 {
		_, err := fmt.Fprintln(p.W, "No entries.")
		return err
	}

	var b strings.Builder
	fmt.Fprintln(&b, p.Label("Timing Statistics"))
	fmt.Fprintln(&b, strings.Repeat("─", 40))
	fmt.Fprintf(&b, "%s: %s\n", p.Label("Total requests"), FormatCount(s.Requests))
	if s.Slowest != nil {
		fmt.Fprintf(&b, "%s: #%d %s (%s)\n", p.Label("Slowest request"), s.Slowest.Index,
			p.Paint(color.FgYellow).Sprint(FormatTime(s.Slowest.Entry.Time)), urlHost(s.Slowest.Entry.Request.URL))
	}
	if _, err := io.WriteString(p.W, b.String()+"\n"); err != nil {
		return err
	}

	t := &Table{
		Header: []string{"Phase", "Count", "Min", "Avg", "Max", "P95"},
		Right:  map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
	}
	for _, ps := range s.Phases {
		t.AddRow(
			Cell{Text: string(ps.Phase)},
			Cell{Text: FormatCount(ps.Count)},
			Cell{Text: FormatTime(ps.Min)},
			Cell{Text: FormatTime(ps.Avg)},
			Cell{Text: FormatTime(ps.Max)},
			Cell{Text: FormatTime(ps.P95)},
		)
	}
	return t.Render(p.W)
}

// urlHost returns the authority of a URL, port included.
func urlHost(rawURL string) string {
	rest := rawURL
	if r, ok := strings.CutPrefix(rest, "https://"); ok {
		rest = r
	} else if r, ok := strings.CutPrefix(rest, "http://"); ok {
		rest = r
	}
	host, _, _ := strings.Cut(rest, "/")
	return host
}
