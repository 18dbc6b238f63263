// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"sort"
)

// DirNames returns the names of the immediate subdirectories of root, sorted
// lexicographically. A missing root yields an empty list rather than an
// error, since an unscaffolded project simply has no units yet.
func DirNames(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
