package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

type ImageKind string

const (
	KindJPEG ImageKind = "JPG"
	KindPNG  ImageKind = "PNG"
)

// Canvas is the drawing surface the report is laid out on. Coordinates are
// millimetres from the top-left corner; Text places the baseline at y.
type Canvas interface {
	AddPage()
	SetFont(style string, size float64)
	Text(x, y float64, s string)
	SplitText(s string, width float64) []string
	Image(name string, kind ImageKind, data []byte, x, y, w, h float64) error
	Output(w io.Writer) error
}

const fontFamily = "Helvetica"

type pdfCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewPDFCanvas returns an A4 portrait canvas with one page already added.
func NewPDFCanvas() Canvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", 12)
	return &pdfCanvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *pdfCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *pdfCanvas) SetFont(style string, size float64) {
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

// SplitText wraps on spaces using the current font's metrics. Words wider
// than the line are broken between runes.
func (c *pdfCanvas) SplitText(s string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		lines = append(lines, c.wrap(paragraph, width)...)
	}
	return lines
}

func (c *pdfCanvas) wrap(paragraph string, width float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if c.width(candidate) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = ""
		for c.width(word) > width {
			head := c.fit(word, width)
			lines = append(lines, head)
			word = word[len(head):]
		}
		line = word
	}
	return append(lines, line)
}

// fit returns the longest rune prefix of word that fits, at least one rune.
func (c *pdfCanvas) fit(word string, width float64) string {
	end := 0
	for i, r := range word {
		next := i + len(string(r))
		if end > 0 && c.width(word[:next]) > width {
			break
		}
		end = next
	}
	return word[:end]
}

func (c *pdfCanvas) width(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *pdfCanvas) Image(name string, kind ImageKind, data []byte, x, y, w, h float64) error {
	opts := fpdf.ImageOptions{ImageType: string(kind)}
	info := c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := c.pdf.Error(); err != nil || info == nil {
		c.pdf.ClearError()
		return fmt.Errorf("register image %s: %w", name, err)
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

func (c *pdfCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}
