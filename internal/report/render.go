// Package report lays a finalized record out as a paginated document.
// The layout is fully deterministic: same record, same layout, same pages.
package report

import (
	"github.com/voterscan/voterscan/internal/entity"
)

// Title is the first line of every report.
const Title = "Voter Details Report"

// Placeholder is printed for an empty field value. A blank rendered line is
// ambiguous with a layout error, so the absence is made explicit.
const Placeholder = "N/A"

// Layout holds the fixed page geometry, in points. Cursor positions are
// measured from the top of the page.
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginTop    float64
	MarginBottom float64
	LineHeight   float64
	FontSize     float64
	MaxLineRunes int
}

// DefaultLayout is A4 with one-inch margins.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:    595,
		PageHeight:   842,
		MarginLeft:   72,
		MarginTop:    72,
		MarginBottom: 72,
		LineHeight:   18,
		FontSize:     12,
		MaxLineRunes: 96,
	}
}

// Line is one rendered text line. Y is the distance from the top of the page
// to the line's baseline slot.
type Line struct {
	Text string
	X    float64
	Y    float64
}

// Page is one output page.
type Page struct {
	Lines []Line
}

// Document is the paginated output of a render.
type Document struct {
	Layout Layout
	Pages  []Page
}

// Render lays out a record with the default layout.
func Render(r entity.Record) *Document {
	return RenderLayout(r, DefaultLayout())
}

// RenderLayout prints the title line, then every canonical field in order as
// "<Display Label>: <value-or-placeholder>", advancing a vertical cursor by
// one fixed line height per line. Before each line the cursor is checked
// against the bottom margin; crossing it starts a new page with the cursor
// reset to the top margin. The check never happens mid-line, so a line is
// never split across a page boundary.
//
// Values longer than MaxLineRunes are hard-cut with an ellipsis. No
// wrapping: one field, one line, one unambiguous truncation point.
func RenderLayout(r entity.Record, layout Layout) *Document {
	doc := &Document{Layout: layout}
	doc.Pages = append(doc.Pages, Page{})

	page := 0
	y := layout.MarginTop

	emit := func(text string) {
		if y+layout.LineHeight > layout.PageHeight-layout.MarginBottom {
			doc.Pages = append(doc.Pages, Page{})
			page++
			y = layout.MarginTop
		}
		doc.Pages[page].Lines = append(doc.Pages[page].Lines, Line{
			Text: clip(text, layout.MaxLineRunes),
			X:    layout.MarginLeft,
			Y:    y,
		})
		y += layout.LineHeight
	}

	emit(Title)
	for _, name := range entity.FieldNames {
		value, _ := r.Field(name)
		if value == "" {
			value = Placeholder
		}
		emit(entity.DisplayLabel(name) + ": " + value)
	}
	return doc
}

func clip(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes-1]) + "…"
}
