package blockdupes

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/google/vectorio"
)

// reportIOVMax caps iovecs per writev call (Linux IOV_MAX)
const reportIOVMax = 1024

var newline = []byte{'\n'}

// WriteReport writes groups to f.
// The human format is one path per line with a blank line between groups, and nothing at all
// when there are no groups. The json format is the group array, [] when empty.
func WriteReport(f *os.File, groups []DuplicateGroup, format string) error {
	switch strings.ToLower(format) {
	case FormatHuman, "":
		return writeVectored(f, humanSegments(groups))
	case FormatJSON:
		if groups == nil {
			groups = []DuplicateGroup{}
		}
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal duplicate groups: %w", err)
		}
		data = append(data, '\n')
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json)", format)
	}
}

// humanSegments lays the report out as non-empty byte segments, one iovec each
func humanSegments(groups []DuplicateGroup) [][]byte {
	var segments [][]byte
	for i, group := range groups {
		if i > 0 {
			segments = append(segments, newline)
		}
		for _, path := range group.Files {
			if path == "" {
				continue
			}
			segments = append(segments, []byte(path), newline)
		}
	}
	return segments
}

// writeVectored writes segments with writev, resuming after short writes
func writeVectored(f *os.File, segments [][]byte) error {
	iovecs := make([]syscall.Iovec, 0, min(len(segments), reportIOVMax))

	for len(segments) > 0 {
		chunk := segments[:min(len(segments), reportIOVMax)]
		iovecs = iovecs[:0]
		for _, seg := range chunk {
			iov := syscall.Iovec{Base: &seg[0]}
			iov.SetLen(len(seg))
			iovecs = append(iovecs, iov)
		}

		nw, err := vectorio.WritevRaw(uintptr(f.Fd()), iovecs)
		if err != nil {
			return fmt.Errorf("failed to write report with vectorio: %w", err)
		}
		if nw == 0 {
			return fmt.Errorf("failed to write report: %w", io.ErrShortWrite)
		}

		for nw > 0 {
			if nw >= len(segments[0]) {
				nw -= len(segments[0])
				segments = segments[1:]
				continue
			}
			segments[0] = segments[0][nw:]
			nw = 0
		}
	}

	return nil
}
