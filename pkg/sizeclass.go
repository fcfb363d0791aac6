package blockdupes

// FileRef is a candidate file: absolute canonical path plus byte length
type FileRef struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// SizeClass is the set of candidates sharing one byte length
type SizeClass struct {
	Size  int64
	Files []FileRef
}

// SizeClasses groups candidates by exact byte length.
// Files of different length can never be duplicates, so this is the first filter.
type SizeClasses struct {
	index *skiplistWrapper
}

// NewSizeClasses creates an empty size grouping
func NewSizeClasses() *SizeClasses {
	return &SizeClasses{
		index: newSkiplistWrapper(16),
	}
}

// GroupBySize builds the size grouping for refs. Repeated paths are kept once.
func GroupBySize(refs []FileRef) *SizeClasses {
	sc := NewSizeClasses()
	for _, ref := range refs {
		sc.Add(ref)
	}
	return sc
}

// Add inserts a candidate and reports whether it was new
func (sc *SizeClasses) Add(ref FileRef) bool {
	return sc.index.Insert(ref, CandidateContext)
}

// Len returns the number of distinct candidates
func (sc *SizeClasses) Len() int {
	return sc.index.Length()
}

// IsEmpty reports whether no candidate has been added
func (sc *SizeClasses) IsEmpty() bool {
	return sc.index.IsEmpty()
}

// Classes returns the number of distinct sizes
func (sc *SizeClasses) Classes() int {
	count := 0
	sc.ForEachClass(func(size int64, refs []FileRef) bool {
		count++
		return true
	})
	return count
}

// ForEachClass visits every size class in ascending size order.
// Members of a class are ordered by path.
func (sc *SizeClasses) ForEachClass(callback func(size int64, refs []FileRef) bool) {
	var current []FileRef
	stopped := false

	sc.index.ForEach(func(ref *FileRef, context string) bool {
		if len(current) > 0 && current[0].Size != ref.Size {
			if !callback(current[0].Size, current) {
				stopped = true
				return false
			}
			current = nil
		}
		current = append(current, *ref)
		return true
	})

	if !stopped && len(current) > 0 {
		callback(current[0].Size, current)
	}
}

// Candidates returns the size classes with at least two members
func (sc *SizeClasses) Candidates() []SizeClass {
	var classes []SizeClass
	sc.ForEachClass(func(size int64, refs []FileRef) bool {
		if len(refs) >= 2 {
			classes = append(classes, SizeClass{Size: size, Files: refs})
		}
		return true
	})
	return classes
}
