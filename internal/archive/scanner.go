// Package archive reads image entries out of uploaded ZIP archives.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"foldertoword/internal/model"
)

// FallbackFolder names the output when no archive entry lives inside a folder.
const FallbackFolder = "images"

var (
	ErrInvalidArchive = errors.New("invalid zip archive")
	ErrEntryTooLarge  = errors.New("archive entry too large")
)

// imageExtensions is matched against the lower-cased entry name.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}

// Options tune a scan. The zero value applies no limits.
type Options struct {
	// MaxEntryBytes rejects any matched entry whose uncompressed size exceeds it.
	MaxEntryBytes int64
}

// Result is the outcome of scanning one archive.
type Result struct {
	// Entries holds image entries in archive enumeration order.
	Entries []model.ImageEntry
	// PrimaryFolder is the first path segment of the first entry containing a separator.
	PrimaryFolder string
}

// Scan is shorthand for ScanWithOptions with no limits.
func Scan(data []byte) (*Result, error) {
	return ScanWithOptions(data, Options{})
}

// ScanWithOptions opens data as a ZIP archive and reads every image entry into memory.
// Entries that are not images are never opened.
func ScanWithOptions(data []byte, opt Options) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	res := &Result{PrimaryFolder: FallbackFolder}
	primaryFound := false
	index := make(map[string]int)

	for _, f := range zr.File {
		name := f.Name
		if !primaryFound && strings.Contains(name, "/") {
			res.PrimaryFolder = strings.SplitN(name, "/", 2)[0]
			primaryFound = true
		}
		if !IsImagePath(name) {
			continue
		}
		if opt.MaxEntryBytes > 0 && f.UncompressedSize64 > uint64(opt.MaxEntryBytes) {
			return nil, fmt.Errorf("%w: %s", ErrEntryTooLarge, name)
		}

		b, err := readEntry(f, opt.MaxEntryBytes)
		if errors.Is(err, ErrEntryTooLarge) {
			return nil, fmt.Errorf("%w: %s", ErrEntryTooLarge, name)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		// Duplicate names keep their first position and the last payload.
		if i, ok := index[name]; ok {
			res.Entries[i].Data = b
			continue
		}
		index[name] = len(res.Entries)
		res.Entries = append(res.Entries, model.ImageEntry{Path: name, Data: b})
	}

	return res, nil
}

// IsImagePath reports whether an archive entry name denotes an image file.
func IsImagePath(name string) bool {
	if strings.HasSuffix(name, "/") {
		return false
	}
	lower := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// readEntry inflates f, stopping one byte past limit so a forged size header
// cannot inflate without bound. A non-positive limit reads everything.
func readEntry(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if limit <= 0 {
		return io.ReadAll(rc)
	}
	b, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrEntryTooLarge
	}
	return b, nil
}
