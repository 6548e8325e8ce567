package pdf

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"
)

// RenderArticle lays out an article as an A4 document: centered title, then
// one block per paragraph. Markdown heading and emphasis markers are
// stripped from the content first.
func RenderArticle(title, content string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 24)
	doc.MultiCell(0, 12, title, "", "C", false)
	doc.Ln(10)

	doc.SetFont("Helvetica", "", 12)

	content = strings.NewReplacer("#", "", "*", "").Replace(content)
	for _, paragraph := range strings.Split(content, "\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		doc.MultiCell(0, 6, paragraph, "", "L", false)
		doc.Ln(4)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
