package report

import (
	"strings"
	"testing"

	"github.com/voterscan/voterscan/internal/entity"
)

func allLines(doc *Document) []string {
	var out []string
	for _, page := range doc.Pages {
		for _, line := range page.Lines {
			out = append(out, line.Text)
		}
	}
	return out
}

func TestRenderEmptyRecord(t *testing.T) {
	doc := Render(entity.Record{})

	lines := allLines(doc)
	if len(lines) != 1+len(entity.FieldNames) {
		t.Fatalf("got %d lines, want %d", len(lines), 1+len(entity.FieldNames))
	}
	if lines[0] != Title {
		t.Errorf("first line = %q, want %q", lines[0], Title)
	}
	if lines[1] != "Election Number: N/A" {
		t.Errorf("second line = %q, want \"Election Number: N/A\"", lines[1])
	}
	for i, name := range entity.FieldNames {
		want := entity.DisplayLabel(name) + ": " + Placeholder
		if lines[i+1] != want {
			t.Errorf("line %d = %q, want %q", i+1, lines[i+1], want)
		}
	}
	if len(doc.Pages) != 1 {
		t.Errorf("12 lines fit one A4 page, got %d pages", len(doc.Pages))
	}
}

func TestRenderFieldOrderAndValues(t *testing.T) {
	rec := entity.Record{
		ElectionNumber: "WB/12/089/123456",
		Name:           "ASHA RAO",
		Gender:         "Female",
	}
	lines := allLines(Render(rec))

	if lines[1] != "Election Number: WB/12/089/123456" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[2] != "Name: ASHA RAO" {
		t.Errorf("line 2 = %q", lines[2])
	}
	if lines[4] != "Gender: Female" {
		t.Errorf("line 4 = %q", lines[4])
	}
	// Empty fields between populated ones still print.
	if lines[3] != "Relation Name: N/A" {
		t.Errorf("line 3 = %q", lines[3])
	}
}

func TestRenderPageBreak(t *testing.T) {
	// Shrink the page so only 5 lines fit: MarginTop 72, bottom boundary at
	// 180-72=108, lines at y=72 and 90 fit, the third forces a new page.
	layout := DefaultLayout()
	layout.PageHeight = 180

	doc := RenderLayout(entity.Record{}, layout)

	if len(doc.Pages) != 6 {
		t.Fatalf("got %d pages, want 6", len(doc.Pages))
	}
	for i, page := range doc.Pages {
		if len(page.Lines) == 0 {
			t.Fatalf("page %d is empty", i+1)
		}
		if got := page.Lines[0].Y; got != layout.MarginTop {
			t.Errorf("page %d first line Y = %v, want %v", i+1, got, layout.MarginTop)
		}
		if len(page.Lines) > 2 {
			t.Errorf("page %d has %d lines, want at most 2", i+1, len(page.Lines))
		}
	}

	// No line lost or split across the break.
	lines := allLines(doc)
	if len(lines) != 1+len(entity.FieldNames) {
		t.Errorf("got %d lines, want %d", len(lines), 1+len(entity.FieldNames))
	}
	if lines[0] != Title {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestRenderCursorAdvances(t *testing.T) {
	doc := Render(entity.Record{})
	page := doc.Pages[0]
	for i := 1; i < len(page.Lines); i++ {
		prev, cur := page.Lines[i-1], page.Lines[i]
		if cur.Y != prev.Y+doc.Layout.LineHeight {
			t.Fatalf("line %d Y = %v, want %v", i, cur.Y, prev.Y+doc.Layout.LineHeight)
		}
		if cur.X != doc.Layout.MarginLeft {
			t.Fatalf("line %d X = %v, want %v", i, cur.X, doc.Layout.MarginLeft)
		}
	}
}

func TestRenderTruncatesLongValue(t *testing.T) {
	rec := entity.Record{Address: strings.Repeat("x", 300)}
	layout := DefaultLayout()
	lines := allLines(RenderLayout(rec, layout))

	var addressLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "Address: ") {
			addressLine = l
		}
	}
	if addressLine == "" {
		t.Fatal("no address line rendered")
	}
	runes := []rune(addressLine)
	if len(runes) != layout.MaxLineRunes {
		t.Errorf("truncated line has %d runes, want %d", len(runes), layout.MaxLineRunes)
	}
	if runes[len(runes)-1] != '…' {
		t.Errorf("truncated line must end with ellipsis, got %q", string(runes[len(runes)-1]))
	}
}

func TestWriteText(t *testing.T) {
	rec := entity.Record{Name: "ASHA RAO"}
	doc := Render(rec)

	var b strings.Builder
	if err := WriteText(doc, &b); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	got := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if got[0] != Title {
		t.Errorf("first line = %q", got[0])
	}
	if got[2] != "Name: ASHA RAO" {
		t.Errorf("third line = %q", got[2])
	}
	if strings.Contains(b.String(), "\f") {
		t.Error("single page output must not contain a form feed")
	}
}

func TestWriteTextPageSeparator(t *testing.T) {
	layout := DefaultLayout()
	layout.PageHeight = 180

	doc := RenderLayout(entity.Record{}, layout)

	var b strings.Builder
	if err := WriteText(doc, &b); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	if got := strings.Count(b.String(), "\f"); got != len(doc.Pages)-1 {
		t.Errorf("got %d form feeds, want %d", got, len(doc.Pages)-1)
	}
}
