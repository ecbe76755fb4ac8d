package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sofs91/InspectWise3.0/internal/domains"
)

const (
	marginX      = 20.0
	top          = 20.0
	pageBottom   = 270.0
	contentWidth = 170.0
	lineHeight   = 10.0
	lineLeading  = 5.0
	photoWidth   = 170.0
	signWidth    = 100.0

	dateLayout = "Jan 2, 2006"
)

// Generator lays out inspection reports.
type Generator struct {
	newCanvas func() Canvas
}

func NewGenerator() *Generator {
	return &Generator{newCanvas: NewPDFCanvas}
}

// FileName is the attachment name for an inspection's report.
func FileName(inspection domains.Inspection) string {
	return fmt.Sprintf("inspection-%s.pdf", inspection.ID)
}

// Generate writes the report for inspection, which was recorded against template.
// Images that fail to decode are replaced by a line of text.
func (g *Generator) Generate(w io.Writer, inspection domains.Inspection, template domains.Template) error {
	c := g.newCanvas()
	layout(c, inspection, template)
	if err := c.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type cursor struct {
	c Canvas
	y float64
}

func (p *cursor) line(s string) {
	p.c.Text(marginX, p.y, s)
	p.y += lineHeight
}

// block draws wrapped lines and advances by one line height per line.
func (p *cursor) block(s string) {
	lines := p.c.SplitText(s, contentWidth)
	for i, l := range lines {
		p.c.Text(marginX, p.y+float64(i)*lineLeading, l)
	}
	p.y += lineHeight * float64(len(lines))
}

func (p *cursor) image(name string, r raster, width float64) error {
	h := r.aspectHeight(width)
	if err := p.c.Image(name, r.kind, r.data, marginX, p.y, width, h); err != nil {
		return err
	}
	p.y += h + lineHeight
	return nil
}

func layout(c Canvas, inspection domains.Inspection, template domains.Template) {
	p := &cursor{c: c, y: top}

	c.SetFont("", 20)
	c.Text(marginX, p.y, "Inspection Report")
	p.y += 15

	c.SetFont("", 12)
	p.line("Template: " + template.Name)
	p.line("Inspector: " + inspection.InspectorName)
	p.line("Location: " + inspection.Location)
	p.line("Date: " + inspection.Date.Format(dateLayout))
	p.line("Status: " + string(inspection.Status))
	p.y += lineHeight

	c.SetFont("", 16)
	p.line("Responses")

	c.SetFont("", 12)
	for _, q := range template.Questions {
		c.SetFont("B", 12)
		p.block(q.Question)

		c.SetFont("", 12)
		response, ok := inspection.Responses[q.ID]
		if ok && response.Type != q.Type {
			ok = false
		}
		drawResponse(p, q, response, ok)

		p.y += lineHeight
		if p.y > pageBottom {
			c.AddPage()
			p.y = top
		}
	}
}

func drawResponse(p *cursor, q domains.Question, r domains.Response, ok bool) {
	switch q.Type {
	case domains.QuestionText:
		if !ok || r.Text == "" {
			p.block("No response")
			return
		}
		p.block(r.Text)
	case domains.QuestionMultipleChoice:
		if !ok || r.Text == "" {
			p.line("No selection")
			return
		}
		p.line(r.Text)
	case domains.QuestionCheckbox:
		if !ok || len(r.Choices) == 0 {
			p.line("No selections")
			return
		}
		for _, choice := range r.Choices {
			p.line("• " + choice)
		}
	case domains.QuestionPhoto:
		if !ok || len(r.Photo) == 0 {
			p.line("No photo uploaded")
			return
		}
		img, err := rasterizePhoto(r.Photo)
		if err == nil {
			err = p.image("photo-"+q.ID, img, photoWidth)
		}
		if err != nil {
			p.line("Error loading photo")
		}
	case domains.QuestionSignature:
		if !ok || strings.TrimSpace(r.Signature) == "" {
			p.line("No signature provided")
			return
		}
		img, err := rasterizeSignature(r.Signature)
		if err == nil {
			err = p.image("signature-"+q.ID, img, signWidth)
		}
		if err != nil {
			p.line("Error loading signature")
		}
	}
}
