package texture

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// extRank orders candidate files sharing a stem. Lower wins: formats with an
// alpha channel come before opaque ones.
var extRank = map[string]int{
	".ozt":  0,
	".tga":  1,
	".png":  2,
	".ozj":  3,
	".jpg":  4,
	".jpeg": 5,
}

// Index maps lowercase texture stems to filesystem paths.
// A nil *Index resolves nothing.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dir recursively and indexes every supported texture file.
func BuildIndex(dir string) (*Index, error) {
	idx := &Index{entries: make(map[string]string)}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())))

		existing, exists := idx.entries[stem]
		if !exists || rank < extRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("texture: index %s: %w", dir, err)
	}
	return idx, nil
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
// Directory prefixes and the extension of texName are ignored.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	if idx == nil {
		return "", false
	}
	// Strip path prefix (e.g., "Monsters\\texture\\foo.jpg" → "foo")
	texName = strings.ReplaceAll(texName, "\\", "/")
	base := filepath.Base(texName)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}
