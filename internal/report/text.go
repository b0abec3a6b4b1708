package report

import (
	"fmt"
	"io"
)

// WriteText writes the document as plain text, one line per rendered line,
// pages separated by a form feed.
func WriteText(doc *Document, w io.Writer) error {
	for i, page := range doc.Pages {
		if i > 0 {
			if _, err := fmt.Fprint(w, "\f"); err != nil {
				return err
			}
		}
		for _, line := range page.Lines {
			if _, err := fmt.Fprintln(w, line.Text); err != nil {
				return err
			}
		}
	}
	return nil
}
