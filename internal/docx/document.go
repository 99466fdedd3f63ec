// Package docx writes Word (Office Open XML) documents containing headings,
// styled text runs and inline pictures.
package docx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
)

// MIMEType is the content type of a .docx file.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Length units used by DrawingML.
const (
	EMUPerInch  int64 = 914400
	EMUPerPoint int64 = 12700
)

// Inches converts a length in inches to EMUs.
func Inches(v float64) int64 {
	return int64(v * float64(EMUPerInch))
}

var ErrEmptyImage = errors.New("image has zero width or height")

// mediaTypes maps decoder format names to part extension and content type.
var mediaTypes = map[string]struct{ ext, contentType string }{
	"png":  {"png", "image/png"},
	"jpeg": {"jpeg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
	"bmp":  {"bmp", "image/bmp"},
}

// Document is an in-memory word-processing document.
// Blocks are rendered in the order they were added.
type Document struct {
	Title      string
	paragraphs []*Paragraph
	media      []*media
}

type media struct {
	relID       string
	partName    string
	ext         string
	contentType string
	data        []byte
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// Paragraphs returns the body paragraphs in document order.
func (d *Document) Paragraphs() []*Paragraph {
	return d.paragraphs
}

// AddParagraph appends an empty paragraph with the default style.
func (d *Document) AddParagraph() *Paragraph {
	p := &Paragraph{}
	d.paragraphs = append(d.paragraphs, p)
	return p
}

// AddText appends a paragraph holding one run of text.
// Newlines in text become line breaks.
func (d *Document) AddText(text string) *Paragraph {
	p := d.AddParagraph()
	p.AddRun(text)
	return p
}

// MaxHeadingLevel is the deepest heading style defined in styles.xml.
const MaxHeadingLevel = 2

// AddHeading appends a heading paragraph. Level 0 uses the Title style,
// levels 1 and 2 use Heading1 and Heading2.
func (d *Document) AddHeading(text string, level int) (*Paragraph, error) {
	if level < 0 || level > MaxHeadingLevel {
		return nil, fmt.Errorf("heading level %d out of range 0-%d", level, MaxHeadingLevel)
	}
	p := d.AddParagraph()
	p.Style = "Title"
	if level > 0 {
		p.Style = fmt.Sprintf("Heading%d", level)
	}
	p.AddRun(text)
	return p, nil
}

// AddPicture appends a paragraph holding data as an inline picture. The picture is
// scaled to width EMUs, keeping the aspect ratio of the source pixels.
func (d *Document) AddPicture(data []byte, name string, width int64) (*Picture, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	mt, ok := mediaTypes[format]
	if !ok {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrEmptyImage
	}
	if width <= 0 {
		width = int64(cfg.Width) * EMUPerPoint
	}

	n := len(d.media) + 1
	m := &media{
		relID:       fmt.Sprintf("rId%d", n+firstMediaRel-1),
		partName:    fmt.Sprintf("media/image%d.%s", n, mt.ext),
		ext:         mt.ext,
		contentType: mt.contentType,
		data:        data,
	}
	d.media = append(d.media, m)

	pic := &Picture{
		ID:          n,
		Name:        name,
		Format:      format,
		RelID:       m.relID,
		PixelWidth:  cfg.Width,
		PixelHeight: cfg.Height,
		Width:       width,
		Height:      width * int64(cfg.Height) / int64(cfg.Width),
	}
	p := d.AddParagraph()
	p.Runs = append(p.Runs, &Run{Picture: pic})
	return pic, nil
}

// Paragraph is a block of runs sharing one paragraph style.
type Paragraph struct {
	Style string
	Runs  []*Run
}

// AddRun appends a text run.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{Text: text}
	p.Runs = append(p.Runs, r)
	return r
}

// Text concatenates the text of every run.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Picture returns the first picture in the paragraph, or nil.
func (p *Paragraph) Picture() *Picture {
	for _, r := range p.Runs {
		if r.Picture != nil {
			return r.Picture
		}
	}
	return nil
}

// Run is a span of text with character formatting, or an inline picture.
type Run struct {
	Text    string
	Font    string
	SizePt  int
	Picture *Picture
}

// SetFont sets the typeface for the run.
func (r *Run) SetFont(name string) *Run {
	r.Font = name
	return r
}

// SetSize sets the font size in points.
func (r *Run) SetSize(pt int) *Run {
	r.SizePt = pt
	return r
}

// Picture describes an embedded image.
type Picture struct {
	ID          int
	Name        string
	Format      string
	RelID       string
	PixelWidth  int
	PixelHeight int
	// Width and Height are the display size in EMUs.
	Width  int64
	Height int64
}
