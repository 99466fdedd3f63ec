package gallery

import (
	"sort"

	"foldertoword/internal/docx"
	"foldertoword/internal/model"
)

const (
	// DefaultTitle is the heading written once at the top of every gallery.
	DefaultTitle = "Image Gallery"
	// RootLabel is shown for images that sit at the archive root.
	RootLabel = "Root"
	// Spacer is the text of the paragraph written after each embedded picture.
	Spacer = "\n\n\n"
	// DefaultMaxPixels matches the decompression-bomb threshold of common imaging libraries.
	DefaultMaxPixels int64 = 178956970
)

// Options controls gallery layout.
type Options struct {
	Title       string
	Font        string
	HeadingSize int // points
	CaptionSize int // points
	ImageWidth  int64
	// MaxPixels caps width*height declared by an image header.
	MaxPixels int64
}

// DefaultOptions returns the standard gallery layout: Times New Roman headings
// at 14pt, captions at 12pt and pictures 5.5 inches wide.
func DefaultOptions() Options {
	return Options{
		Title:       DefaultTitle,
		Font:        "Times New Roman",
		HeadingSize: 14,
		CaptionSize: 12,
		ImageWidth:  docx.Inches(5.5),
		MaxPixels:   DefaultMaxPixels,
	}
}

// Failure records an image that was replaced by a placeholder.
type Failure struct {
	Path   string `json:"path"`
	Reason Reason `json:"reason"`
	Error  string `json:"error"`
}

// Report summarizes a build.
type Report struct {
	Folders  int       `json:"folders"`
	Embedded int       `json:"embedded"`
	Failed   []Failure `json:"failed,omitempty"`
}

// Builder lays out grouped images as a word-processing document.
type Builder struct {
	opt Options
}

// NewBuilder returns a Builder; zero fields in opt fall back to DefaultOptions.
func NewBuilder(opt Options) *Builder {
	def := DefaultOptions()
	if opt.Title == "" {
		opt.Title = def.Title
	}
	if opt.Font == "" {
		opt.Font = def.Font
	}
	if opt.HeadingSize <= 0 {
		opt.HeadingSize = def.HeadingSize
	}
	if opt.CaptionSize <= 0 {
		opt.CaptionSize = def.CaptionSize
	}
	if opt.ImageWidth <= 0 {
		opt.ImageWidth = def.ImageWidth
	}
	if opt.MaxPixels <= 0 {
		opt.MaxPixels = def.MaxPixels
	}
	return &Builder{opt: opt}
}

// Build writes the title, then one heading per folder followed by a caption and
// picture (or placeholder) per image. A bad image never stops the build.
func (b *Builder) Build(groups *Groups) (*docx.Document, Report) {
	doc := docx.New()
	doc.Title = b.opt.Title
	// Level 0 is always in range.
	_, _ = doc.AddHeading(b.opt.Title, 0)

	var rep Report
	groups.Each(func(g model.FolderGroup) {
		rep.Folders++
		label := g.Folder
		if label == "" {
			label = RootLabel
		}
		doc.AddParagraph().AddRun(label).SetFont(b.opt.Font).SetSize(b.opt.HeadingSize)

		for _, e := range sortedEntries(g.Entries) {
			doc.AddParagraph().AddRun(Base(e.Path)).SetFont(b.opt.Font).SetSize(b.opt.CaptionSize)

			res := embed(doc, e, b.opt.ImageWidth, b.opt.MaxPixels)
			if res.OK() {
				doc.AddText(Spacer)
				rep.Embedded++
				continue
			}
			doc.AddText(res.Placeholder())
			rep.Failed = append(rep.Failed, Failure{Path: e.Path, Reason: res.Reason, Error: res.Err.Error()})
		}
	})

	return doc, rep
}

// sortedEntries returns a copy of entries ordered by full path.
func sortedEntries(entries []model.ImageEntry) []model.ImageEntry {
	out := make([]model.ImageEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
