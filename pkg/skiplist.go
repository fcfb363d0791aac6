package blockdupes

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// Context recorded against every candidate in the size index
const CandidateContext = "candidate"

// sizeKey orders candidates by byte length first and path second
type sizeKey struct {
	Size int64
	Path string
}

// compareSizeKeys orders by size, then lexicographically by path
func compareSizeKeys(a, b sizeKey) int {
	switch {
	case a.Size < b.Size:
		return -1
	case a.Size > b.Size:
		return 1
	default:
		return strings.Compare(a.Path, b.Path)
	}
}

// skiplistWrapper wraps the generic zerocopyskiplist keyed by (size, path)
type skiplistWrapper struct {
	skiplist *zcsl.ZeroCopySkiplist[FileRef, sizeKey, string]
}

// newSkiplistWrapper creates an empty size index
func newSkiplistWrapper(maxLevels int) *skiplistWrapper {
	if maxLevels < 8 {
		maxLevels = 16 // reasonable default
	}

	getKeyFromItem := func(ref *FileRef) sizeKey {
		return sizeKey{Size: ref.Size, Path: ref.Path}
	}

	// Items live on the heap, not in a serialised buffer
	getItemSize := func(ref *FileRef) int {
		return 0
	}

	skiplist := zcsl.MakeZeroCopySkiplist[FileRef, sizeKey, string](
		maxLevels,
		getKeyFromItem,
		getItemSize,
		compareSizeKeys,
	)

	return &skiplistWrapper{
		skiplist: skiplist,
	}
}

// Insert adds a FileRef; it returns false if the same (size, path) is already present
func (sw *skiplistWrapper) Insert(ref FileRef, context string) bool {
	if node, _ := sw.skiplist.Find(sizeKey{Size: ref.Size, Path: ref.Path}); node != nil {
		return false
	}
	// The skiplist keeps the pointer, so every item gets its own allocation
	item := ref
	return sw.skiplist.Insert(&item, context)
}

// ForEach iterates through all entries in (size, path) order
func (sw *skiplistWrapper) ForEach(callback func(ref *FileRef, context string) bool) {
	for current := sw.skiplist.First(); current != nil; current = current.Next() {
		if !callback(current.Item(), current.Context()) {
			break
		}
	}
}

// Length returns the number of entries in the skiplist
func (sw *skiplistWrapper) Length() int {
	return sw.skiplist.Length()
}

// IsEmpty returns true if the skiplist has no entries
func (sw *skiplistWrapper) IsEmpty() bool {
	return sw.skiplist.IsEmpty()
}
