package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// WritePDF writes the document as a PDF via pdfcpu's declarative page
// description. The renderer already decided every line's page and position;
// this writer only translates coordinates (pdfcpu's origin is bottom-left,
// the layout cursor runs top-down).
func WritePDF(doc *Document, w io.Writer) error {
	pages := make(map[string]any, len(doc.Pages))
	for i, page := range doc.Pages {
		texts := make([]map[string]any, 0, len(page.Lines))
		for _, line := range page.Lines {
			texts = append(texts, map[string]any{
				"value":    line.Text,
				"anchor":   "bottomleft",
				"position": []float64{line.X, doc.Layout.PageHeight - line.Y - doc.Layout.LineHeight},
				"font": map[string]any{
					"name": "Helvetica",
					"size": int(doc.Layout.FontSize),
				},
			})
		}
		pages[strconv.Itoa(i+1)] = map[string]any{
			"content": map[string]any{
				"text": texts,
			},
		}
	}

	desc, err := json.Marshal(map[string]any{
		"paper": "A4",
		"pages": pages,
	})
	if err != nil {
		return fmt.Errorf("marshal page description: %w", err)
	}

	if err := api.Create(nil, bytes.NewReader(desc), w, nil); err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	return nil
}
