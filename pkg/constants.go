package blockdupes

// Hash type constants
const (
	HashTypeCRC32  uint16 = 1 // CRC-32 IEEE (4 bytes)
	HashTypeMD5    uint16 = 2 // MD5 (16 bytes)
	HashTypeBLAKE3 uint16 = 3 // BLAKE3 (32 bytes)
)

// Hash size constants
const (
	HashSizeCRC32  = 4  // CRC-32 digest size in bytes
	HashSizeMD5    = 16 // MD5 digest size in bytes
	HashSizeBLAKE3 = 32 // BLAKE3 digest size in bytes
)

// Hash algorithm names accepted by GetHashAlgorithm
const (
	HashNameCRC32  = "crc32"
	HashNameMD5    = "md5"
	HashNameBLAKE3 = "blake3"
)

// HashTypeName returns the human-readable name for a hash type
func HashTypeName(hashType uint16) string {
	switch hashType {
	case HashTypeCRC32:
		return HashNameCRC32
	case HashTypeMD5:
		return HashNameMD5
	case HashTypeBLAKE3:
		return HashNameBLAKE3
	default:
		return "unknown"
	}
}

// Engine defaults
const (
	DefaultBlockSize = 4096          // bytes per compared block
	DefaultHashName  = HashNameCRC32 // cheap checksum is enough to split buckets
	DefaultWorkers   = 4             // concurrent size-class workers
	DefaultMinSize   = 2             // files smaller than this never reach the engine
	MaxWorkers       = 64
	MaxVerboseLevel  = 3
)

// Output formats
const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// Debug flag names understood by IsDebugEnabled
const (
	DebugRound  = "round"
	DebugReader = "reader"
	DebugPool   = "pool"
)

// Warning operations recorded in FileWarning.Op
const (
	OpStat = "stat"
	OpOpen = "open"
	OpRead = "read"
)
