package blockdupes

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// CollectOptions controls how caller-supplied paths become candidates
type CollectOptions struct {
	MinSize        int64 // Files smaller than this are dropped
	FollowSymlinks bool  // Compare symlinked files by their target content
}

// DefaultCollectOptions returns the intake defaults
func DefaultCollectOptions() CollectOptions {
	return CollectOptions{
		MinSize:        DefaultMinSize,
		FollowSymlinks: true,
	}
}

// CollectFileRefs turns an already-filtered path list into candidates.
// Paths are stat'ed, never walked: directories and special files are skipped.
// Paths that cannot be stat'ed or resolved come back as warnings.
func CollectFileRefs(paths []string, opts CollectOptions) ([]FileRef, []FileWarning) {
	defer VerboseEnter()()

	refs := make([]FileRef, 0, len(paths))
	var warnings []FileWarning

	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil {
			warnings = append(warnings, FileWarning{Path: path, Op: OpStat, Err: err})
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if !opts.FollowSymlinks {
				VerboseLog(2, "Skipping symlink: %s", path)
				continue
			}
			info, err = os.Stat(path)
			if err != nil {
				warnings = append(warnings, FileWarning{Path: path, Op: OpStat, Err: err})
				continue
			}
		}

		if !info.Mode().IsRegular() {
			VerboseLog(2, "Skipping non-regular file: %s", path)
			continue
		}

		if info.Size() < opts.MinSize {
			VerboseLog(2, "Skipping %s: %d bytes is below minimum size %d", path, info.Size(), opts.MinSize)
			continue
		}

		canonical, err := canonicalPath(path)
		if err != nil {
			warnings = append(warnings, FileWarning{Path: path, Op: OpStat, Err: err})
			continue
		}

		refs = append(refs, FileRef{Path: canonical, Size: info.Size()})
	}

	VerboseLog(1, "Collected %d candidate files from %d paths", len(refs), len(paths))
	return refs, warnings
}

// ReadPathList reads one path per line, or NUL-separated paths when nulSeparated is set
// (the format of find -print0). Blank entries are ignored.
func ReadPathList(r io.Reader, nulSeparated bool) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if nulSeparated {
		scanner.Split(scanNul)
	}

	var paths []string
	for scanner.Scan() {
		path := scanner.Text()
		if !nulSeparated {
			path = strings.TrimRight(path, "\r")
		}
		if strings.TrimSpace(path) == "" {
			continue
		}
		paths = append(paths, path)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading path list: %w", err)
	}

	return paths, nil
}

// scanNul is a bufio.SplitFunc for NUL-terminated records
func scanNul(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
