package blockdupes

import (
	"errors"
	"sort"
)

// partitioner splits one size class into duplicate groups, one block index per round.
// It is not safe for concurrent use; each worker owns one.
type partitioner struct {
	blockSize int
	hasher    BlockHasher
	buf       []byte
	metrics   *Metrics
}

func newPartitioner(blockSize int, algorithm *HashAlgorithm, metrics *Metrics) *partitioner {
	return &partitioner{
		blockSize: blockSize,
		hasher:    algorithm.NewHasher(),
		buf:       make([]byte, blockSize),
		metrics:   metrics,
	}
}

// partition runs the bucket rounds for class until no bucket is active.
// Buckets are rebuilt from scratch each round; files that diverge are never read again.
func (p *partitioner) partition(class SizeClass) ([]DuplicateGroup, []FileWarning, Stats) {
	defer VerboseEnter()()

	stats := Stats{
		SizeClasses:   1,
		FilesCompared: len(class.Files),
	}
	if len(class.Files) < 2 {
		return nil, nil, stats
	}

	blocksNeeded := BlocksNeeded(class.Size, p.blockSize)
	active := [][]FileRef{class.Files}

	var groups []DuplicateGroup
	var warnings []FileWarning

	for blockIndex := int64(0); len(active) > 0; blockIndex++ {
		stats.Rounds++
		last := blockIndex+1 >= blocksNeeded

		if IsDebugEnabled(DebugRound) {
			VerboseLog(2, "Round %d for size %d: %d buckets", blockIndex, class.Size, len(active))
		}

		var next [][]FileRef
		for _, bucket := range active {
			subsets := make(map[string][]FileRef, len(bucket))
			var digests []string

			for _, ref := range bucket {
				digest, warning := p.blockDigest(ref, blockIndex, &stats)
				if warning != nil {
					warnings = append(warnings, *warning)
					stats.FilesFailed++
					p.metrics.recordFileError(warning.Op)
					logFileWarning(*warning)
					continue
				}
				if _, seen := subsets[digest]; !seen {
					digests = append(digests, digest)
				}
				subsets[digest] = append(subsets[digest], ref)
			}

			for _, digest := range digests {
				members := subsets[digest]
				switch {
				case len(members) < 2:
					stats.FilesEliminated += len(members)
				case last:
					groups = append(groups, newDuplicateGroup(class.Size, blocksNeeded, members))
				default:
					next = append(next, members)
				}
			}

			if IsDebugEnabled(DebugRound) {
				VerboseLog(3, "Round %d for size %d: bucket of %d split into %d subsets", blockIndex, class.Size, len(bucket), len(digests))
			}
		}
		active = next
	}

	stats.GroupsFound = len(groups)
	p.metrics.recordSizeClass(stats)
	return groups, warnings, stats
}

// blockDigest hashes the block at blockIndex of ref using a fresh reader.
// A file already exhausted hashes as a zero-filled block.
func (p *partitioner) blockDigest(ref FileRef, blockIndex int64, stats *Stats) (string, *FileWarning) {
	reader, err := OpenBlockReaderWithBuffer(ref.Path, p.blockSize, p.buf)
	if err != nil {
		return "", &FileWarning{Path: ref.Path, Op: OpOpen, Err: errors.Unwrap(err)}
	}
	defer reader.Close()
	defer func() {
		stats.BlocksRead += reader.BlocksRead()
		stats.BytesRead += reader.BytesRead()
	}()

	if err := reader.Skip(blockIndex); err != nil {
		return "", &FileWarning{Path: ref.Path, Op: OpRead, Err: errors.Unwrap(err)}
	}
	block, err := reader.Next()
	if err != nil {
		return "", &FileWarning{Path: ref.Path, Op: OpRead, Err: errors.Unwrap(err)}
	}

	p.hasher.Reset()
	p.hasher.Update(block)
	return p.hasher.Digest(), nil
}

func newDuplicateGroup(size, blocks int64, members []FileRef) DuplicateGroup {
	files := make([]string, len(members))
	for i, ref := range members {
		files[i] = ref.Path
	}
	sort.Strings(files)
	return DuplicateGroup{
		Size:   size,
		Blocks: blocks,
		Files:  files,
		Count:  len(files),
	}
}
