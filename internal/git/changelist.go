package git

import (
	"maps"
	"slices"
)

// FileChanges is an in-memory Changelist of whole-file writes, keyed by slash-separated repository path
type FileChanges map[string]string

// Set records new content for path, replacing any earlier write
func (fc FileChanges) Set(path string, content string) {
	fc[path] = content
}

// ForEachModified calls fn for each modified file in path order
func (fc FileChanges) ForEachModified(fn func(path string, content string) error) error {
	for _, path := range slices.Sorted(maps.Keys(fc)) {
		if err := fn(path, fc[path]); err != nil {
			return err
		}
	}
	return nil
}

func (fc FileChanges) IsEmpty() bool {
	return len(fc) == 0
}
