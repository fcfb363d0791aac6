package blockdupes

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrShutdown is returned when a run is interrupted through its shutdown channel
var ErrShutdown = errors.New("interrupted by shutdown")

// DuplicateGroup is a set of files with identical length and identical block digests
type DuplicateGroup struct {
	Size   int64    `json:"size"`
	Blocks int64    `json:"blocks"`
	Files  []string `json:"files"`
	Count  int      `json:"count"`
}

// FileWarning records a file dropped from comparison because it could not be read
type FileWarning struct {
	Path string
	Op   string
	Err  error
}

func (fw FileWarning) Error() string {
	return fmt.Sprintf("%s %s: %v", fw.Op, fw.Path, fw.Err)
}

func (fw FileWarning) Unwrap() error {
	return fw.Err
}

// Stats counts the work done by a run
type Stats struct {
	SizeClasses     int   `json:"size_classes"`
	FilesCompared   int   `json:"files_compared"`
	BlocksRead      int64 `json:"blocks_read"`
	BytesRead       int64 `json:"bytes_read"`
	FilesEliminated int   `json:"files_eliminated"`
	FilesFailed     int   `json:"files_failed"`
	GroupsFound     int   `json:"groups_found"`
	Rounds          int   `json:"rounds"`
}

func (s *Stats) add(other Stats) {
	s.SizeClasses += other.SizeClasses
	s.FilesCompared += other.FilesCompared
	s.BlocksRead += other.BlocksRead
	s.BytesRead += other.BytesRead
	s.FilesEliminated += other.FilesEliminated
	s.FilesFailed += other.FilesFailed
	s.GroupsFound += other.GroupsFound
	s.Rounds += other.Rounds
}

// Result is the outcome of FindDuplicates.
// Groups are ordered by size then first path; no groups is not an error.
type Result struct {
	Groups   []DuplicateGroup
	Warnings []FileWarning
	Stats    Stats
}

// Options configures a Finder
type Options struct {
	BlockSize int      // Bytes compared per round
	Hash      string   // Block digest algorithm name
	Workers   int      // Size classes processed concurrently (0 means DefaultWorkers)
	Metrics   *Metrics // Optional; nil disables metrics
}

// DefaultOptions returns the engine defaults
func DefaultOptions() Options {
	return Options{
		BlockSize: DefaultBlockSize,
		Hash:      DefaultHashName,
		Workers:   DefaultWorkers,
	}
}

// Finder detects duplicate files with a fixed block size and hash algorithm
type Finder struct {
	blockSize int
	algorithm *HashAlgorithm
	workers   int
	metrics   *Metrics
}

// NewFinder validates opts. Nothing is read from disk until FindDuplicates.
func NewFinder(opts Options) (*Finder, error) {
	if err := ValidateBlockSize(opts.BlockSize); err != nil {
		return nil, err
	}

	algorithm, err := GetHashAlgorithm(opts.Hash)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers == 0 {
		workers = DefaultWorkers
	}
	if err := ValidateWorkers(workers); err != nil {
		return nil, err
	}

	return &Finder{
		blockSize: opts.BlockSize,
		algorithm: algorithm,
		workers:   workers,
		metrics:   opts.Metrics,
	}, nil
}

// BlockSize returns the configured block size
func (f *Finder) BlockSize() int {
	return f.blockSize
}

// Algorithm returns the configured hash algorithm
func (f *Finder) Algorithm() *HashAlgorithm {
	return f.algorithm
}

// sizeClassPool processes size classes on a fixed set of workers
type sizeClassPool struct {
	jobChan      chan SizeClass
	shutdownChan <-chan struct{}
	wg           sync.WaitGroup

	mu       sync.Mutex
	result   Result
	canceled bool
}

func (f *Finder) newSizeClassPool(shutdownChan <-chan struct{}) *sizeClassPool {
	pool := &sizeClassPool{
		jobChan:      make(chan SizeClass, f.workers*2),
		shutdownChan: shutdownChan,
	}

	for i := 0; i < f.workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i, newPartitioner(f.blockSize, f.algorithm, f.metrics))
	}

	return pool
}

// worker owns one partitioner, and so one reusable hasher, for its lifetime
func (pool *sizeClassPool) worker(id int, p *partitioner) {
	defer pool.wg.Done()

	for class := range pool.jobChan {
		// Shutdown is honoured between size classes, never inside one
		select {
		case <-pool.shutdownChan:
			pool.markCanceled()
			continue
		default:
		}

		if IsDebugEnabled(DebugPool) {
			VerboseLog(3, "Worker %d: size class %d with %d files", id, class.Size, len(class.Files))
		}

		groups, warnings, stats := p.partition(class)

		pool.mu.Lock()
		pool.result.Groups = append(pool.result.Groups, groups...)
		pool.result.Warnings = append(pool.result.Warnings, warnings...)
		pool.result.Stats.add(stats)
		pool.mu.Unlock()
	}
}

func (pool *sizeClassPool) markCanceled() {
	pool.mu.Lock()
	pool.canceled = true
	pool.mu.Unlock()
}

// FindDuplicates groups refs by size and partitions every size class with two or more members.
// Unreadable files are reported in Result.Warnings and do not fail the run.
// A nil shutdownChan never interrupts.
func (f *Finder) FindDuplicates(shutdownChan <-chan struct{}, refs []FileRef) (*Result, error) {
	defer VerboseEnter()()

	sizes := GroupBySize(refs)
	if sizes.IsEmpty() {
		VerboseLog(1, "No candidate files to compare")
		return &Result{Groups: []DuplicateGroup{}}, nil
	}
	classes := sizes.Candidates()
	VerboseLog(1, "Comparing %d files in %d size classes (block size %d, hash %s)",
		sizes.Len(), len(classes), f.blockSize, f.algorithm.Name)

	pool := f.newSizeClassPool(shutdownChan)

submit:
	for _, class := range classes {
		select {
		case pool.jobChan <- class:
		case <-shutdownChan:
			pool.markCanceled()
			break submit
		}
	}
	close(pool.jobChan)
	pool.wg.Wait()

	if pool.canceled {
		return nil, fmt.Errorf("duplicate detection %w", ErrShutdown)
	}

	result := &pool.result
	sortGroups(result.Groups)
	sort.SliceStable(result.Warnings, func(i, j int) bool {
		return result.Warnings[i].Path < result.Warnings[j].Path
	})
	if result.Groups == nil {
		result.Groups = []DuplicateGroup{}
	}

	VerboseLog(1, "Found %d duplicate groups, read %d blocks (%d bytes), %d files failed",
		len(result.Groups), result.Stats.BlocksRead, result.Stats.BytesRead, result.Stats.FilesFailed)

	return result, nil
}

// sortGroups orders groups by size, then by first path
func sortGroups(groups []DuplicateGroup) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Size != groups[j].Size {
			return groups[i].Size < groups[j].Size
		}
		return groups[i].Files[0] < groups[j].Files[0]
	})
}
