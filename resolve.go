package fatdir

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// splitPath trims leading and trailing slashes and splits path at the first
// remaining slash. hasTail is false if there is no further component.
func splitPath(path string) (head, tail string, hasTail bool) {
	return strings.Cut(strings.Trim(path, "/"), "/")
}

// equalFoldASCII compares two names ignoring the case of ASCII letters only.
// All other characters have to match exactly.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if toLowerASCII(a[i]) != toLowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func toLowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Find resolves the slash separated path relative to d and returns its entry.
// Each component is matched case-insensitively (ASCII only) against the long
// name of the entries, or their short name if they have no long name.
// The first matching entry wins.
func (d *Dir) Find(path string) (*DirEntry, error) {
	return d.find(path, 0)
}

func (d *Dir) find(path string, depth int) (*DirEntry, error) {
	if limit := d.shared.opts.maxDepth; limit > 0 && depth >= limit {
		return nil, newError(KindInvalidInput, "path has more than %d components", limit)
	}

	head, tail, hasTail := splitPath(path)
	entry, err := d.lookup(head)
	if err != nil {
		return nil, err
	}
	if !hasTail {
		return entry, nil
	}

	sub, err := entry.ToDir()
	if err != nil {
		return nil, err
	}
	return sub.find(tail, depth+1)
}

// lookup returns the first entry of d named name.
func (d *Dir) lookup(name string) (*DirEntry, error) {
	entries, err := d.List()
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if equalFoldASCII(e.Name(), name) {
			log.Debugf("[DIR] lookup %q → %q (cluster %d)", name, e.Name(), e.FirstCluster())
			return e, nil
		}
	}
	log.Debugf("[DIR] lookup %q → not found in %d entries", name, len(entries))
	return nil, newError(KindNotFound, "%q", name)
}

// OpenDir resolves path relative to d and opens it as a directory.
func (d *Dir) OpenDir(path string) (*Dir, error) {
	entry, err := d.Find(path)
	if err != nil {
		return nil, err
	}
	return entry.ToDir()
}

// OpenFile resolves path relative to d and opens it as a file.
// The name of the returned File is path.
func (d *Dir) OpenFile(path string) (*File, error) {
	entry, err := d.Find(path)
	if err != nil {
		return nil, err
	}

	f, err := entry.ToFile()
	if err != nil {
		return nil, err
	}
	f.name = path
	return f, nil
}
