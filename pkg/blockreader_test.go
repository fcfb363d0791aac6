package blockdupes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestReader(t *testing.T, content string, blockSize int) *BlockReader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	br, err := OpenBlockReader(path, blockSize)
	if err != nil {
		t.Fatalf("OpenBlockReader() error = %v", err)
	}
	t.Cleanup(func() { br.Close() })
	return br
}

func mustNext(t *testing.T, br *BlockReader) string {
	t.Helper()
	block, err := br.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	return string(block)
}

func TestBlockReader_PadsFinalBlock(t *testing.T) {
	br := openTestReader(t, "ABCDEFGHIJ", 4)

	for i, want := range []string{"ABCD", "EFGH", "IJ\x00\x00"} {
		if !br.HasNext() {
			t.Fatalf("HasNext() = false before block %d", i)
		}
		if got := mustNext(t, br); got != want {
			t.Errorf("block %d = %q, want %q", i, got, want)
		}
	}

	if br.HasNext() {
		t.Error("HasNext() = true after short block")
	}
	if got := mustNext(t, br); got != "\x00\x00\x00\x00" {
		t.Errorf("block after exhaustion = %q, want zeros", got)
	}
	if br.BlocksRead() != 3 || br.BytesRead() != 10 {
		t.Errorf("BlocksRead() = %d, BytesRead() = %d, want 3 and 10", br.BlocksRead(), br.BytesRead())
	}
}

func TestBlockReader_ExactMultiple(t *testing.T) {
	br := openTestReader(t, "ABCDEFGH", 4)

	mustNext(t, br)
	mustNext(t, br)
	if !br.HasNext() {
		t.Fatal("HasNext() = false before EOF has been seen")
	}
	if got := mustNext(t, br); got != "\x00\x00\x00\x00" {
		t.Errorf("block past end = %q, want zeros", got)
	}
	if br.HasNext() {
		t.Error("HasNext() = true after EOF")
	}
	if br.BytesRead() != 8 {
		t.Errorf("BytesRead() = %d, want 8", br.BytesRead())
	}
}

func TestBlockReader_EmptyFile(t *testing.T) {
	br := openTestReader(t, "", 8)

	if got := mustNext(t, br); got != string(make([]byte, 8)) {
		t.Errorf("block = %q, want zeros", got)
	}
	if br.HasNext() {
		t.Error("HasNext() = true for empty file after first read")
	}
	if br.BytesRead() != 0 {
		t.Errorf("BytesRead() = %d, want 0", br.BytesRead())
	}
}

func TestBlockReader_Skip(t *testing.T) {
	br := openTestReader(t, "ABCDEFGHIJ", 4)
	if err := br.Skip(2); err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if got := mustNext(t, br); got != "IJ\x00\x00" {
		t.Errorf("block after Skip(2) = %q, want %q", got, "IJ\x00\x00")
	}

	br = openTestReader(t, "ABCDEFGHIJ", 4)
	if err := br.Skip(100); err != nil {
		t.Fatalf("Skip(100) error = %v", err)
	}
	if br.BlocksRead() != 3 {
		t.Errorf("Skip past end read %d blocks, want 3", br.BlocksRead())
	}
	if got := mustNext(t, br); got != "\x00\x00\x00\x00" {
		t.Errorf("block past end = %q, want zeros", got)
	}
}

func TestOpenBlockReaderWithBuffer_ReusesBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte("ABCDEFGHIJ"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	buf := make([]byte, 8)
	for round := 0; round < 3; round++ {
		br, err := OpenBlockReaderWithBuffer(path, 4, buf)
		if err != nil {
			t.Fatalf("OpenBlockReaderWithBuffer() error = %v", err)
		}
		if err := br.Skip(int64(round)); err != nil {
			t.Fatalf("Skip(%d) error = %v", round, err)
		}
		block, err := br.Next()
		br.Close()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if len(block) != 4 {
			t.Fatalf("len(block) = %d, want 4", len(block))
		}
		if &block[0] != &buf[0] {
			t.Errorf("round %d: block does not share the supplied buffer", round)
		}
	}

	// The final block is padded even when the buffer holds older bytes
	if got := string(buf[:4]); got != "IJ\x00\x00" {
		t.Errorf("final block = %q, want %q", got, "IJ\x00\x00")
	}

	small := make([]byte, 2)
	br, err := OpenBlockReaderWithBuffer(path, 4, small)
	if err != nil {
		t.Fatalf("OpenBlockReaderWithBuffer() error = %v", err)
	}
	defer br.Close()
	block, err := br.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(block) != "ABCD" {
		t.Errorf("block = %q, want %q", block, "ABCD")
	}
	if &block[0] == &small[0] {
		t.Error("undersized buffer was used instead of a fresh one")
	}
}

func TestOpenBlockReader_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, size := range []int{0, -1} {
		if _, err := OpenBlockReader(path, size); !errors.Is(err, ErrInvalidBlockSize) {
			t.Errorf("OpenBlockReader(size=%d) error = %v, want ErrInvalidBlockSize", size, err)
		}
	}

	if _, err := OpenBlockReader(filepath.Join(t.TempDir(), "missing"), 4); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("OpenBlockReader(missing) error = %v, want ErrNotExist", err)
	}
}

func TestBlockReader_CloseTwice(t *testing.T) {
	br := openTestReader(t, "data", 4)
	if err := br.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := br.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestBlocksNeeded(t *testing.T) {
	tests := []struct {
		size      int64
		blockSize int
		want      int64
	}{
		{0, 4, 0},
		{1, 4, 1},
		{4, 4, 1},
		{8, 4, 2},
		{10, 4, 3},
		{4097, 4096, 2},
	}
	for _, tt := range tests {
		if got := BlocksNeeded(tt.size, tt.blockSize); got != tt.want {
			t.Errorf("BlocksNeeded(%d, %d) = %d, want %d", tt.size, tt.blockSize, got, tt.want)
		}
	}
}
