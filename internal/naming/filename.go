package naming

import (
	"os"
	"strings"
)

// SplitName splits a base name into stem and extension. The extension is the
// last ".suffix" including the dot. A leading dot with no other dot
// (".bashrc") and a trailing dot ("notes.") leave the extension empty.
func SplitName(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}

// ValidName reports whether name can be used as a single path element.
func ValidName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, "/\x00"+string(os.PathSeparator))
}
