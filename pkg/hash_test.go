package blockdupes

import (
	"errors"
	"testing"
)

func TestGetHashAlgorithm(t *testing.T) {
	tests := []struct {
		name       string
		wantName   string
		wantTypeID uint16
		wantHexLen int
	}{
		{"crc32", HashNameCRC32, HashTypeCRC32, 8},
		{"MD5", HashNameMD5, HashTypeMD5, 32},
		{" blake3 ", HashNameBLAKE3, HashTypeBLAKE3, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			algo, err := GetHashAlgorithm(tt.name)
			if err != nil {
				t.Fatalf("GetHashAlgorithm(%q) error = %v", tt.name, err)
			}
			if algo.Name != tt.wantName {
				t.Errorf("Name = %s, want %s", algo.Name, tt.wantName)
			}
			if algo.TypeID != tt.wantTypeID {
				t.Errorf("TypeID = %d, want %d", algo.TypeID, tt.wantTypeID)
			}
			if algo.HexDigestLen() != tt.wantHexLen {
				t.Errorf("HexDigestLen() = %d, want %d", algo.HexDigestLen(), tt.wantHexLen)
			}
			if got := len(algo.NewHasher().Digest()); got != tt.wantHexLen {
				t.Errorf("digest width = %d, want %d", got, tt.wantHexLen)
			}
		})
	}
}

func TestGetHashAlgorithm_Unsupported(t *testing.T) {
	for _, name := range []string{"", "sha1", "sha256", "crc"} {
		if _, err := GetHashAlgorithm(name); !errors.Is(err, ErrUnsupportedHash) {
			t.Errorf("GetHashAlgorithm(%q) error = %v, want ErrUnsupportedHash", name, err)
		}
	}

	if _, err := GetHashAlgorithmByType(99); !errors.Is(err, ErrUnsupportedHash) {
		t.Errorf("GetHashAlgorithmByType(99) error = %v, want ErrUnsupportedHash", err)
	}

	algo, err := GetHashAlgorithmByType(HashTypeMD5)
	if err != nil || algo.Name != HashNameMD5 {
		t.Errorf("GetHashAlgorithmByType(md5) = %v, %v", algo, err)
	}
}

func TestHashBlockToHexString_KnownVectors(t *testing.T) {
	tests := []struct {
		algo  string
		input string
		want  string
	}{
		{HashNameCRC32, "", "00000000"},
		{HashNameCRC32, "123456789", "cbf43926"},
		{HashNameMD5, "", "d41d8cd98f00b204e9800998ecf8427e"},
		{HashNameMD5, "abc", "900150983cd24fb0d6963f7d28e17f72"},
		{HashNameBLAKE3, "", "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
	}

	for _, tt := range tests {
		algo, err := GetHashAlgorithm(tt.algo)
		if err != nil {
			t.Fatalf("GetHashAlgorithm(%s) error = %v", tt.algo, err)
		}
		if got := HashBlockToHexString([]byte(tt.input), algo); got != tt.want {
			t.Errorf("%s(%q) = %s, want %s", tt.algo, tt.input, got, tt.want)
		}
	}
}

func TestBlockHasher_DigestAndReset(t *testing.T) {
	for _, name := range SupportedHashNames() {
		t.Run(name, func(t *testing.T) {
			algo, _ := GetHashAlgorithm(name)
			hasher := algo.NewHasher()

			hasher.Update([]byte("12345"))
			hasher.Update([]byte("6789"))
			first := hasher.Digest()
			if second := hasher.Digest(); second != first {
				t.Errorf("Digest() not repeatable: %s then %s", first, second)
			}
			if whole := HashBlockToHexString([]byte("123456789"), algo); whole != first {
				t.Errorf("split update digest %s differs from single update %s", first, whole)
			}

			hasher.Reset()
			if empty := HashBlockToHexString(nil, algo); hasher.Digest() != empty {
				t.Errorf("Digest() after Reset() = %s, want empty digest %s", hasher.Digest(), empty)
			}
		})
	}
}
