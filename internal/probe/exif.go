package probe

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"
)

// headerSize is enough for filetype to recognize JPEG and TIFF.
const headerSize = 261

// exifExtensions are decoded even when the content sniff is inconclusive.
var exifExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
}

// EXIF reads capture times from image metadata.
type EXIF struct {
	fs afero.Fs
}

// NewEXIF returns a Source reading through fs.
func NewEXIF(fs afero.Fs) *EXIF {
	return &EXIF{fs: fs}
}

// Timestamp returns DateTimeOriginal (or DateTime) for JPEG and TIFF files.
// Any other file, or an image without a readable date, reports ok=false.
func (e *EXIF) Timestamp(path string) (time.Time, Tag, bool) {
	f, err := e.fs.Open(path)
	if err != nil {
		return time.Time{}, "", false
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return time.Time{}, "", false
	}
	if !hasEXIF(head[:n], path) {
		return time.Time{}, "", false
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return time.Time{}, "", false
	}
	ts, err := DecodeEXIF(f)
	if err != nil {
		return time.Time{}, "", false
	}
	return ts, TagMetadata, true
}

func hasEXIF(head []byte, path string) bool {
	if kind, err := filetype.Match(head); err == nil {
		switch kind.Extension {
		case "jpg", "tif":
			return true
		}
	}
	return exifExtensions[strings.ToLower(filepath.Ext(path))]
}

// DecodeEXIF extracts the capture time from a JPEG or TIFF stream.
// Exported for testing without image files on disk.
func DecodeEXIF(r io.Reader) (time.Time, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode exif: %w", err)
	}
	ts, err := x.DateTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("exif date: %w", err)
	}
	return ts, nil
}
