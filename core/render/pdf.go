// Package render — PDF renderer.
// Converts the article into a styled PDF using gofpdf, going through
// Markdown first. Handles headings (variable font sizes), paragraphs,
// and lists; images are intentionally not rendered.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gaurav-prasanna/wikipipe/core"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer renders an article as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the article fragment into PDF bytes.
func (r *PDFRenderer) Render(articleHTML string, meta core.ArticleMetadata) ([]byte, error) {
	markdown, err := htmltomarkdown.ConvertString(articleHTML)
	if err != nil {
		return nil, fmt.Errorf("converting article to markdown: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Headword and source wiki.
	if meta.Term != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, meta.Term, "", "L", false)
		pdf.Ln(4)
	}
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, "Source: "+meta.Wiki+" ("+meta.URL+")", "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	for _, line := range strings.Split(markdown, "\n") {
		// Skip empty lines (add spacing instead).
		if strings.TrimSpace(line) == "" {
			pdf.Ln(3)
			continue
		}

		// Headings.
		if strings.HasPrefix(line, "#") {
			level := 0
			for _, ch := range line {
				if ch == '#' {
					level++
				} else {
					break
				}
			}
			renderHeading(pdf, strings.TrimSpace(strings.TrimLeft(line, "# ")), level)
			continue
		}

		// List items.
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			pdf.SetFont("Helvetica", "", 10)
			text := "• " + strings.TrimSpace(trimmed[2:])
			pdf.MultiCell(0, 5, cleanInlineMarkdown(text), "", "L", false)
			continue
		}
		if matched, _ := regexp.MatchString(`^\d+\.\s`, trimmed); matched {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, cleanInlineMarkdown(trimmed), "", "L", false)
			continue
		}

		// Regular paragraph text.
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, cleanInlineMarkdown(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, cleanInlineMarkdown(text), "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`).ReplaceAllString(text, " $1 ")
	text = regexp.MustCompile("`([^`]+)`").ReplaceAllString(text, "$1")
	// Remove link syntax, keep text.
	text = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`).ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
