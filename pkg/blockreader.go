package blockdupes

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ErrInvalidBlockSize is returned when a block size is zero or negative
var ErrInvalidBlockSize = errors.New("block size must be greater than zero")

// BlockReader reads a file forward in fixed-size blocks.
// The final short block is zero-padded and every block is read at most once.
type BlockReader struct {
	path       string
	file       *os.File
	buf        []byte
	exhausted  bool
	blocksRead int64
	bytesRead  int64
}

// OpenBlockReader opens filePath for sequential block reads
func OpenBlockReader(filePath string, blockSize int) (*BlockReader, error) {
	return OpenBlockReaderWithBuffer(filePath, blockSize, nil)
}

// OpenBlockReaderWithBuffer is OpenBlockReader reading into buf, which is allocated
// when shorter than blockSize. Readers sharing a buffer must not be used concurrently.
func OpenBlockReaderWithBuffer(filePath string, blockSize int, buf []byte) (*BlockReader, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}

	// Advisory only; a filesystem that rejects it still reads correctly
	_ = unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_SEQUENTIAL)

	if cap(buf) < blockSize {
		buf = make([]byte, blockSize)
	}

	return &BlockReader{
		path: filePath,
		file: file,
		buf:  buf[:blockSize],
	}, nil
}

// HasNext returns false once a short or empty block has been read
func (br *BlockReader) HasNext() bool {
	return !br.exhausted
}

// Next returns the next block, always blockSize bytes long.
// The slice is owned by the reader and only valid until the next call.
// Once the reader is exhausted every call returns a zero-filled block.
func (br *BlockReader) Next() ([]byte, error) {
	if br.exhausted {
		clear(br.buf)
		return br.buf, nil
	}

	n, err := io.ReadFull(br.file, br.buf)
	br.bytesRead += int64(n)

	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		clear(br.buf[n:])
		br.exhausted = true
	default:
		return nil, fmt.Errorf("failed to read block %d of %s: %w", br.blocksRead, br.path, err)
	}
	br.blocksRead++

	if IsDebugEnabled(DebugReader) {
		VerboseLog(3, "BlockReader: %s block %d read %d bytes (exhausted=%t)", br.path, br.blocksRead-1, n, br.exhausted)
	}

	return br.buf, nil
}

// Skip advances past n blocks by reading and discarding them
func (br *BlockReader) Skip(n int64) error {
	for i := int64(0); i < n && !br.exhausted; i++ {
		if _, err := br.Next(); err != nil {
			return err
		}
	}
	return nil
}

// BlocksRead returns the number of blocks actually read from the file
func (br *BlockReader) BlocksRead() int64 {
	return br.blocksRead
}

// BytesRead returns the number of file bytes consumed
func (br *BlockReader) BytesRead() int64 {
	return br.bytesRead
}

// Close releases the underlying file
func (br *BlockReader) Close() error {
	if br.file == nil {
		return nil
	}
	err := br.file.Close()
	br.file = nil
	return err
}

// BlocksNeeded returns how many blocks cover size bytes, i.e. ceil(size / blockSize)
func BlocksNeeded(size int64, blockSize int) int64 {
	bs := int64(blockSize)
	return (size + bs - 1) / bs
}
