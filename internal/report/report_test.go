package report

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofs91/InspectWise3.0/internal/domains"
)

type drawn struct {
	page  int
	kind  string
	text  string
	style string
	size  float64
	x, y  float64
	w, h  float64
}

type recorder struct {
	page      int
	style     string
	size      float64
	ops       []drawn
	imageErr  error
	outputErr error
}

func (r *recorder) AddPage() { r.page++ }

func (r *recorder) SetFont(style string, size float64) { r.style, r.size = style, size }

func (r *recorder) Text(x, y float64, s string) {
	r.ops = append(r.ops, drawn{page: r.page, kind: "text", text: s, style: r.style, size: r.size, x: x, y: y})
}

func (r *recorder) SplitText(s string, _ float64) []string { return strings.Split(s, "\n") }

func (r *recorder) Image(name string, _ ImageKind, _ []byte, x, y, w, h float64) error {
	if r.imageErr != nil {
		return r.imageErr
	}
	r.ops = append(r.ops, drawn{page: r.page, kind: "image", text: name, x: x, y: y, w: w, h: h})
	return nil
}

func (r *recorder) Output(w io.Writer) error {
	if r.outputErr != nil {
		return r.outputErr
	}
	_, err := fmt.Fprintf(w, "%d pages", r.page)
	return err
}

func render(t *testing.T, rec *recorder, insp domains.Inspection, tmpl domains.Template) []drawn {
	t.Helper()
	rec.page = 1
	g := &Generator{newCanvas: func() Canvas { return rec }}
	require.NoError(t, g.Generate(io.Discard, insp, tmpl))
	return rec.ops
}

func texts(ops []drawn) []string {
	var out []string
	for _, op := range ops {
		if op.kind == "text" {
			out = append(out, op.text)
		}
	}
	return out
}

func find(t *testing.T, ops []drawn, text string) drawn {
	t.Helper()
	for _, op := range ops {
		if op.text == text {
			return op
		}
	}
	t.Fatalf("%q not drawn", text)
	return drawn{}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var inspectedAt = time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)

func sampleInspection(responses map[string]domains.Response) domains.Inspection {
	return domains.Inspection{
		ID:            "i1",
		TemplateID:    "t1",
		InspectorName: "Dana",
		Location:      "Warehouse 4",
		Status:        domains.StatusComplete,
		Date:          inspectedAt,
		Responses:     responses,
	}
}

func TestGenerate_Header(t *testing.T) {
	ops := render(t, &recorder{}, sampleInspection(nil), domains.Template{ID: "t1", Name: "Fire safety"})

	require.Len(t, ops, 7)
	assert.Equal(t, drawn{page: 1, kind: "text", text: "Inspection Report", size: 20, x: 20, y: 20}, ops[0])

	want := []struct {
		text string
		y    float64
	}{
		{"Template: Fire safety", 35},
		{"Inspector: Dana", 45},
		{"Location: Warehouse 4", 55},
		{"Date: Mar 5, 2024", 65},
		{"Status: complete", 75},
	}
	for i, w := range want {
		op := ops[i+1]
		assert.Equal(t, w.text, op.text)
		assert.Equal(t, w.y, op.y)
		assert.Equal(t, 12.0, op.size)
	}
	assert.Equal(t, "Responses", ops[6].text)
	assert.Equal(t, 95.0, ops[6].y)
	assert.Equal(t, 16.0, ops[6].size)
}

func TestGenerate_SingleTextQuestionWithoutResponse(t *testing.T) {
	tmpl := domains.Template{ID: "t1", Questions: []domains.Question{{ID: "q1", Type: domains.QuestionText, Question: "Exits clear?"}}}

	ops := render(t, &recorder{}, sampleInspection(map[string]domains.Response{}), tmpl)

	prompt := find(t, ops, "Exits clear?")
	assert.Equal(t, "B", prompt.style)
	assert.Equal(t, 105.0, prompt.y)
	body := ops[len(ops)-1]
	assert.Equal(t, "No response", body.text)
	assert.Equal(t, "", body.style)
	assert.Equal(t, 115.0, body.y)
}

func TestGenerate_PlaceholdersForEveryType(t *testing.T) {
	tmpl := domains.Template{Questions: []domains.Question{
		{ID: "q1", Type: domains.QuestionText, Question: "Notes"},
		{ID: "q2", Type: domains.QuestionMultipleChoice, Question: "Grade", Options: []string{"A", "B"}},
		{ID: "q3", Type: domains.QuestionCheckbox, Question: "Hazards", Options: []string{"Fire"}},
		{ID: "q4", Type: domains.QuestionPhoto, Question: "Photo"},
		{ID: "q5", Type: domains.QuestionSignature, Question: "Sign"},
	}}

	ops := render(t, &recorder{}, sampleInspection(map[string]domains.Response{}), tmpl)

	body := texts(ops)[7:]
	assert.Equal(t, []string{
		"Notes", "No response",
		"Grade", "No selection",
		"Hazards", "No selections",
		"Photo", "No photo uploaded",
		"Sign", "No signature provided",
	}, body)
}

func TestGenerate_MismatchedResponseRendersPlaceholder(t *testing.T) {
	tmpl := domains.Template{Questions: []domains.Question{
		{ID: "q1", Type: domains.QuestionText, Question: "Notes"},
		{ID: "q2", Type: domains.QuestionCheckbox, Question: "Hazards", Options: []string{"Fire"}},
	}}
	responses := map[string]domains.Response{
		"q1": domains.CheckboxResponse("Fire"),
		"q2": domains.TextResponse("Fire"),
	}

	ops := render(t, &recorder{}, sampleInspection(responses), tmpl)

	assert.Equal(t, []string{"Notes", "No response", "Hazards", "No selections"}, texts(ops)[7:])
}

func TestGenerate_Answers(t *testing.T) {
	tmpl := domains.Template{Questions: []domains.Question{
		{ID: "q1", Type: domains.QuestionText, Question: "Notes"},
		{ID: "q2", Type: domains.QuestionMultipleChoice, Question: "Grade", Options: []string{"A", "B"}},
		{ID: "q3", Type: domains.QuestionCheckbox, Question: "Hazards", Options: []string{"Fire", "Flood"}},
	}}
	responses := map[string]domains.Response{
		"q1": domains.TextResponse("line one\nline two"),
		"q2": domains.ChoiceResponse("B"),
		"q3": domains.CheckboxResponse("Fire", "Flood"),
		"gone": domains.TextResponse("stale answer"),
	}

	ops := render(t, &recorder{}, sampleInspection(responses), tmpl)

	assert.Equal(t, []string{
		"Notes", "line one", "line two",
		"Grade", "B",
		"Hazards", "• Fire", "• Flood",
	}, texts(ops)[7:])

	// prompt 105, two text lines advance 20, gap 10
	assert.Equal(t, 145.0, find(t, ops, "Grade").y)
	assert.Equal(t, 175.0, find(t, ops, "Hazards").y)
	assert.Equal(t, 195.0, find(t, ops, "• Flood").y)
}

func TestGenerate_Images(t *testing.T) {
	signature := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 20, 10))
	tmpl := domains.Template{Questions: []domains.Question{
		{ID: "p", Type: domains.QuestionPhoto, Question: "Photo"},
		{ID: "s", Type: domains.QuestionSignature, Question: "Sign"},
	}}
	responses := map[string]domains.Response{
		"p": domains.PhotoResponse(pngBytes(t, 40, 20)),
		"s": domains.SignatureResponse(signature),
	}

	ops := render(t, &recorder{}, sampleInspection(responses), tmpl)

	photo := find(t, ops, "photo-p")
	assert.Equal(t, 115.0, photo.y)
	assert.Equal(t, 170.0, photo.w)
	assert.InDelta(t, 85.0, photo.h, 0.5)

	sign := find(t, ops, "Sign")
	assert.InDelta(t, 115.0+photo.h+10+10, sign.y, 0.001)

	sig := find(t, ops, "signature-s")
	assert.Equal(t, 100.0, sig.w)
	assert.InDelta(t, 50.0, sig.h, 0.001)
}

func TestGenerate_ImageFailuresBecomeText(t *testing.T) {
	tmpl := domains.Template{Questions: []domains.Question{
		{ID: "p", Type: domains.QuestionPhoto, Question: "Photo"},
		{ID: "s", Type: domains.QuestionSignature, Question: "Sign"},
	}}
	responses := map[string]domains.Response{
		"p": domains.PhotoResponse([]byte("not an image")),
		"s": domains.SignatureResponse("data:image/png;base64,@@@"),
	}

	ops := render(t, &recorder{}, sampleInspection(responses), tmpl)
	assert.Equal(t, []string{"Photo", "Error loading photo", "Sign", "Error loading signature"}, texts(ops)[7:])

	responses["p"] = domains.PhotoResponse(pngBytes(t, 4, 4))
	ops = render(t, &recorder{imageErr: errors.New("bad image")}, sampleInspection(responses), tmpl)
	assert.Contains(t, texts(ops), "Error loading photo")
}

func TestGenerate_PageBreaks(t *testing.T) {
	var questions []domains.Question
	for i := 1; i <= 7; i++ {
		questions = append(questions, domains.Question{ID: fmt.Sprintf("q%d", i), Type: domains.QuestionText, Question: fmt.Sprintf("Question %d", i)})
	}
	rec := &recorder{}

	ops := render(t, rec, sampleInspection(nil), domains.Template{Questions: questions})

	assert.Equal(t, 2, rec.page)
	assert.Equal(t, 1, find(t, ops, "Inspection Report").page)
	assert.Equal(t, 1, find(t, ops, "Status: complete").page)
	assert.Equal(t, 1, find(t, ops, "Question 6").page)
	seventh := find(t, ops, "Question 7")
	assert.Equal(t, 2, seventh.page)
	assert.Equal(t, 20.0, seventh.y)

	count := 0
	for _, s := range texts(ops) {
		if s == "Inspection Report" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestGenerate_OutputError(t *testing.T) {
	g := &Generator{newCanvas: func() Canvas { return &recorder{outputErr: errors.New("disk full")} }}
	err := g.Generate(io.Discard, sampleInspection(nil), domains.Template{})
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "inspection-i1.pdf", FileName(domains.Inspection{ID: "i1"}))
}

func TestGenerate_PDF(t *testing.T) {
	var questions []domains.Question
	responses := map[string]domains.Response{}
	for i := 1; i <= 8; i++ {
		id := fmt.Sprintf("q%d", i)
		questions = append(questions, domains.Question{ID: id, Type: domains.QuestionText, Question: "Is everything in order?"})
		responses[id] = domains.TextResponse(strings.Repeat("All good here. ", 5))
	}
	questions = append(questions, domains.Question{ID: "p", Type: domains.QuestionPhoto, Question: "Photo"})
	responses["p"] = domains.PhotoResponse(pngBytes(t, 30, 20))

	var buf bytes.Buffer
	err := NewGenerator().Generate(&buf, sampleInspection(responses), domains.Template{Name: "Daily", Questions: questions})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "/Count 2")
}

func TestPDFCanvas_SplitText(t *testing.T) {
	c := NewPDFCanvas().(*pdfCanvas)
	c.SetFont("", 12)

	lines := c.SplitText(strings.Repeat("word ", 80), contentWidth)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, c.width(l), contentWidth)
	}

	long := c.SplitText(strings.Repeat("x", 200), 50)
	assert.Greater(t, len(long), 1)
	assert.Equal(t, strings.Repeat("x", 200), strings.Join(long, ""))

	assert.Equal(t, []string{"a", "", "b"}, c.SplitText("a\n\nb", contentWidth))
}

func TestDecodeDataURL(t *testing.T) {
	data, err := decodeDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("abc")))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	data, err = decodeDataURL(base64.StdEncoding.EncodeToString([]byte("raw")))
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), data)

	for _, bad := range []string{"", "data:image/png,abc", "data:text/plain;base64,YWJj", "data:image/png;base64"} {
		_, err := decodeDataURL(bad)
		assert.Error(t, err, bad)
	}
}
