package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader is the interface for a format-specific pipeline loader.
type Loader interface {
	// Load reads the pipeline at path and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*Pipeline, error)
}

// Loaders dispatches to a Loader by file extension, e.g. ".json". Directories
// and paths without an extension use the "" entry; any other extension
// without a loader is rejected.
type Loaders map[string]Loader

// Load implements Loader.
func (l Loaders) Load(ctx context.Context, path string) (*Pipeline, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := l[ext]
	if !ok && (ext == "" || isDir(path)) {
		loader, ok = l[""]
	}
	if !ok {
		return nil, fmt.Errorf("unsupported pipeline file '%s': expected one of %s", path, strings.Join(l.extensions(), ", "))
	}
	return loader.Load(ctx, path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (l Loaders) extensions() []string {
	exts := make([]string, 0, len(l))
	for ext := range l {
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
