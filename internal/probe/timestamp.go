package probe

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
)

// Tag names where a timestamp came from.
type Tag string

const (
	TagMetadata Tag = "metadata"            // Read from embedded metadata.
	TagFallback Tag = "filesystem-fallback" // File modification time.
)

// Source returns a timestamp for path when it has one.
type Source interface {
	Timestamp(path string) (time.Time, Tag, bool)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(path string) (time.Time, Tag, bool)

// Timestamp calls f.
func (f SourceFunc) Timestamp(path string) (time.Time, Tag, bool) { return f(path) }

// Resolve asks src for a timestamp and falls back to the modification time
// reported by fs. src may be nil. The error is non-nil only when the file
// cannot be stat'ed.
func Resolve(fs afero.Fs, src Source, path string) (time.Time, Tag, error) {
	if src != nil {
		if ts, tag, ok := src.Timestamp(path); ok {
			return ts, tag, nil
		}
	}
	info, err := fs.Stat(path)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("read modification time: %w", err)
	}
	return info.ModTime(), TagFallback, nil
}
