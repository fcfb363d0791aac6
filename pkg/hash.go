package blockdupes

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"strings"

	"github.com/zeebo/blake3"
)

// ErrUnsupportedHash is returned for hash algorithm names or type IDs that have no implementation
var ErrUnsupportedHash = errors.New("unsupported hash algorithm")

// BlockHasher digests one block at a time. Reset must be called between blocks.
type BlockHasher interface {
	// Update feeds raw bytes into the digest
	Update(p []byte)
	// Digest returns the lowercase hex digest of everything fed since the last Reset.
	// It does not change the hasher state and may be called repeatedly.
	Digest() string
	// Reset returns the hasher to its just-constructed state
	Reset()
}

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name       string
	TypeID     uint16
	DigestSize int
	NewFunc    func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case HashNameCRC32:
		return &HashAlgorithm{
			Name:       HashNameCRC32,
			TypeID:     HashTypeCRC32,
			DigestSize: HashSizeCRC32,
			NewFunc:    func() hash.Hash { return crc32.NewIEEE() },
		}, nil
	case HashNameMD5:
		return &HashAlgorithm{
			Name:       HashNameMD5,
			TypeID:     HashTypeMD5,
			DigestSize: HashSizeMD5,
			NewFunc:    func() hash.Hash { return md5.New() },
		}, nil
	case HashNameBLAKE3:
		return &HashAlgorithm{
			Name:       HashNameBLAKE3,
			TypeID:     HashTypeBLAKE3,
			DigestSize: HashSizeBLAKE3,
			NewFunc:    func() hash.Hash { return blake3.New() },
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedHash, name, strings.Join(SupportedHashNames(), ", "))
	}
}

// GetHashAlgorithmByType returns the hash algorithm configuration for the given type ID
func GetHashAlgorithmByType(typeID uint16) (*HashAlgorithm, error) {
	switch typeID {
	case HashTypeCRC32, HashTypeMD5, HashTypeBLAKE3:
		return GetHashAlgorithm(HashTypeName(typeID))
	default:
		return nil, fmt.Errorf("%w: type ID %d", ErrUnsupportedHash, typeID)
	}
}

// SupportedHashNames lists the accepted algorithm names
func SupportedHashNames() []string {
	return []string{HashNameCRC32, HashNameMD5, HashNameBLAKE3}
}

// HexDigestLen returns the width of the hex digest produced by this algorithm
func (ha *HashAlgorithm) HexDigestLen() int {
	return ha.DigestSize * 2
}

// NewHasher returns a fresh BlockHasher for this algorithm
func (ha *HashAlgorithm) NewHasher() BlockHasher {
	h := ha.NewFunc()
	return &hexHasher{
		h:   h,
		sum: make([]byte, 0, h.Size()),
	}
}

// hexHasher adapts a hash.Hash to BlockHasher, reusing its sum buffer between blocks
type hexHasher struct {
	h   hash.Hash
	sum []byte
}

func (hh *hexHasher) Update(p []byte) {
	// hash.Hash.Write never returns an error
	hh.h.Write(p)
}

func (hh *hexHasher) Digest() string {
	hh.sum = hh.h.Sum(hh.sum[:0])
	return hex.EncodeToString(hh.sum)
}

func (hh *hexHasher) Reset() {
	hh.h.Reset()
}

// HashBlockToHexString hashes a single block with a fresh hasher
func HashBlockToHexString(block []byte, algorithm *HashAlgorithm) string {
	hasher := algorithm.NewHasher()
	hasher.Update(block)
	return hasher.Digest()
}
