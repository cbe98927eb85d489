package render

import (
	"errors"
	"io/fs"
	"sort"
)

// overlayFS serves files from top, falling back to base. Only the root
// directory is merged, which is all New reads.
type overlayFS struct {
	top  fs.FS
	base fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.top.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.base.Open(name)
}

func (o overlayFS) Glob(pattern string) ([]string, error) {
	seen := make(map[string]bool)
	for _, fsys := range []fs.FS{o.top, o.base} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			seen[m] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (o overlayFS) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(o.top, name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return fs.ReadFile(o.base, name)
}
