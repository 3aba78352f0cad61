package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
)

// Cell is one table cell. Paint, when set, colors the cell text.
type Cell struct {
	Text  string
	Paint *color.Color
}

func (c Cell) render() string {
	if c.Paint != nil {
		return c.Paint.Sprint(c.Text)
	}
	return c.Text
}

// Table is a rounded box table. Column widths are measured in display
// cells with escape sequences ignored, so colored and wide text line up.
type Table struct {
	Header []string
	Rows   [][]Cell
	// Right lists columns that are right-aligned.
	Right map[int]bool
}

// AddRow appends a row of cells.
func (t *Table) AddRow(cells ...Cell) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	cell := lipgloss.NewStyle().Padding(0, 1)
	right := cell.Align(lipgloss.Right)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(t.Header...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if t.Right[col] {
				return right
			}
			return cell
		})
	for _, r := range t.Rows {
		texts := make([]string, len(t.Header))
		for i := range texts {
			if i < len(r) {
				texts[i] = r[i].render()
			}
		}
		tbl.Row(texts...)
	}

	_, err := io.WriteString(w, tbl.Render()+"\n")
	return err
}

// Printer renders entry views with a fixed color choice.
type Printer struct {
	W      io.Writer
	Color  bool
	MaxURL int
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, colored bool, maxURL int) *Printer {
	return &Printer{W: w, Color: colored, MaxURL: maxURL}
}

// Paint returns a color honoring the printer's color switch regardless of
// the terminal detection fatih/color does on its own.
func (p *Printer) Paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// StatusColor picks the color for an HTTP status code: 2xx green,
// 3xx cyan, 4xx yellow, 5xx red.
func (p *Printer) StatusColor(status int) *color.Color {
	switch {
	case status >= 200 && status < 300:
		return p.Paint(color.FgGreen)
	case status >= 300 && status < 400:
		return p.Paint(color.FgCyan)
	case status >= 400 && status < 500:
		return p.Paint(color.FgYellow)
	case status >= 500 && status < 600:
		return p.Paint(color.FgRed, color.Bold)
	}
	return nil
}

// MethodColor picks the color for a request method.
func (p *Printer) MethodColor(method string) *color.Color {
	switch method {
	case "GET":
		return p.Paint(color.FgGreen)
	case "POST":
		return p.Paint(color.FgBlue)
	case "PUT":
		return p.Paint(color.FgYellow)
	case "DELETE":
		return p.Paint(color.FgRed)
	case "PATCH":
		return p.Paint(color.FgMagenta)
	case "HEAD":
		return p.Paint(color.FgCyan)
	}
	return nil
}

// Label renders a bold section label.
func (p *Printer) Label(s string) string {
	return p.Paint(color.Bold).Sprint(s)
}

// Summaries writes rows as a table. Long adds content type and start time.
func (p *Printer) Summaries(rows []Summary, long bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.W, "No entries found.")
		return err
	}

	t := &Table{
		Header: []string{"#", "Method", "Status", "Time", "Size", "URL"},
		Right:  map[int]bool{0: true, 3: true, 4: true},
	}
	if long {
		t.Header = append(t.Header, "Type", "Started")
	}

	for _, r := range rows {
		cells := []Cell{
			{Text: strconv.Itoa(r.Index)},
			{Text: r.Method, Paint: p.MethodColor(r.Method)},
			{Text: strconv.Itoa(r.Status), Paint: p.StatusColor(r.Status)},
			{Text: FormatTime(r.TimeMS)},
			{Text: FormatBytes(r.BodySize)},
			{Text: Truncate(r.URL, p.MaxURL)},
		}
		if long {
			ct := "-"
			if r.ContentType != nil {
				ct = *r.ContentType
			}
			cells = append(cells, Cell{Text: ct}, Cell{Text: r.Started})
		}
		t.AddRow(cells...)
	}
	return t.Render(p.W)
}

// Compact writes one tab-separated line per row:
// index, method, status, time, url.
func (p *Printer) Compact(rows []Summary) error {
	for _, r := range rows {
		if _, err := fmt.Fprintf(p.W, "%d\t%s\t%d\t%.0fms\t%s\n", r.Index, r.Method, r.Status, r.TimeMS, r.URL); err != nil {
			return err
		}
	}
	return nil
}
