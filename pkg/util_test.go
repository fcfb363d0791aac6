package blockdupes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"4096", 4096, false},
		{"1B", 1, false},
		{"64K", 65536, false},
		{"64kb", 65536, false},
		{"1.5K", 1536, false},
		{" 1M ", 1 << 20, false},
		{"2GB", 2 << 30, false},
		{"", 0, true},
		{"0", 0, true},
		{"-1", 0, true},
		{"K", 0, true},
		{"10X", 0, true},
		{"1.2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHumanSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHumanSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHumanSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalPath(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "target")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	for _, input := range []string{target, link, filepath.Join(dir, ".", "sub", "..", "target")} {
		got, err := canonicalPath(input)
		if err != nil {
			t.Fatalf("canonicalPath(%s) error = %v", input, err)
		}
		if got != target {
			t.Errorf("canonicalPath(%s) = %s, want %s", input, got, target)
		}
	}

	if _, err := canonicalPath(filepath.Join(dir, "missing")); err == nil {
		t.Error("canonicalPath(missing) should fail")
	}
}
