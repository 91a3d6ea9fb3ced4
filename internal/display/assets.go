package display

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"
)

//go:embed assets/*.txt
var embedded embed.FS

// ResourceStore hands out per-screen art, loading each on first use.
type ResourceStore interface {
	Art(s Screen) (string, error)
	ReleaseAll()
}

// Assets is a ResourceStore over a filesystem of <screen>.txt files.
type Assets struct {
	fsys fs.FS

	mu     sync.Mutex
	cache  map[Screen]string
	loads  int
	closed bool
}

// NewAssets returns an Assets reading the built-in art.
func NewAssets() *Assets {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		// embedded always contains the assets directory.
		panic(err)
	}
	return NewAssetsFS(sub)
}

// NewAssetsFS returns an Assets reading from fsys.
func NewAssetsFS(fsys fs.FS) *Assets {
	return &Assets{fsys: fsys, cache: make(map[Screen]string)}
}

// Art returns the art for s, reading it on first request.
func (a *Assets) Art(s Screen) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return "", fmt.Errorf("assets released")
	}
	if art, ok := a.cache[s]; ok {
		return art, nil
	}
	data, err := fs.ReadFile(a.fsys, s.String()+".txt")
	if err != nil {
		return "", fmt.Errorf("load art %s: %w", s, err)
	}
	a.loads++
	art := string(data)
	a.cache[s] = art
	return art, nil
}

// ReleaseAll drops every loaded asset. Later Art calls fail.
func (a *Assets) ReleaseAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = nil
	a.closed = true
}

// cached returns the number of assets currently cached.
func (a *Assets) cached() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cache)
}

// reads returns how many reads have hit the filesystem.
func (a *Assets) reads() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loads
}
