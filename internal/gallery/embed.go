package gallery

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"foldertoword/internal/docx"
	"foldertoword/internal/model"
)

// Reason classifies why an image could not be embedded.
type Reason string

const (
	ReasonNone   Reason = ""
	ReasonDecode Reason = "decode"
	ReasonEmbed  Reason = "embed"
)

// EmbedResult is the outcome of one embed attempt.
type EmbedResult struct {
	Entry   model.ImageEntry
	Picture *docx.Picture
	Reason  Reason
	Err     error
}

// OK reports whether the image was embedded.
func (r EmbedResult) OK() bool {
	return r.Err == nil
}

// Placeholder is the paragraph text written in place of a failed image.
func (r EmbedResult) Placeholder() string {
	return fmt.Sprintf("[Error inserting %s: %v]", r.Entry.Path, r.Err)
}

// ErrTooManyPixels rejects images whose header declares more than the pixel budget.
var ErrTooManyPixels = errors.New("image exceeds pixel limit")

// Verify checks the declared dimensions against maxPixels before fully decoding
// data, so a forged header cannot force a huge pixel buffer. It returns the
// decoder format name.
func Verify(data []byte, maxPixels int64) (string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > maxPixels {
		return "", fmt.Errorf("%w: %dx%d is %d pixels, limit %d", ErrTooManyPixels, cfg.Width, cfg.Height, px, maxPixels)
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return format, nil
}

// embed verifies an entry and adds it to doc at the given width.
// A decoder panic is reported as a decode failure.
func embed(doc *docx.Document, e model.ImageEntry, width, maxPixels int64) (res EmbedResult) {
	defer func() {
		if p := recover(); p != nil {
			res = EmbedResult{Entry: e, Reason: ReasonDecode, Err: fmt.Errorf("panic decoding image: %v", p)}
		}
	}()

	if _, err := Verify(e.Data, maxPixels); err != nil {
		return EmbedResult{Entry: e, Reason: ReasonDecode, Err: err}
	}
	pic, err := doc.AddPicture(e.Data, Base(e.Path), width)
	if err != nil {
		return EmbedResult{Entry: e, Reason: ReasonEmbed, Err: err}
	}
	return EmbedResult{Entry: e, Picture: pic}
}
