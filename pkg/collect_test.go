package blockdupes

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestCollectFileRefs(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	regular := filepath.Join(dir, "regular")
	tiny := filepath.Join(dir, "tiny")
	subdir := filepath.Join(dir, "subdir")
	link := filepath.Join(dir, "link")
	missing := filepath.Join(dir, "missing")

	if err := os.WriteFile(regular, []byte("0123456789"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tiny, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(regular, link); err != nil {
		t.Fatal(err)
	}

	paths := []string{regular, tiny, subdir, link, missing}

	refs, warnings := CollectFileRefs(paths, DefaultCollectOptions())
	want := []FileRef{{Path: regular, Size: 10}, {Path: regular, Size: 10}}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("refs = %+v, want %+v", refs, want)
	}
	if len(warnings) != 1 || warnings[0].Path != missing || warnings[0].Op != OpStat {
		t.Errorf("warnings = %+v, want one stat warning for %s", warnings, missing)
	}

	refs, _ = CollectFileRefs(paths, CollectOptions{MinSize: 0, FollowSymlinks: false})
	want = []FileRef{{Path: regular, Size: 10}, {Path: tiny, Size: 1}}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("refs without symlinks = %+v, want %+v", refs, want)
	}
}

func TestCollectFileRefs_DanglingSymlink(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	if err := os.Symlink(filepath.Join(dir, "nowhere"), link); err != nil {
		t.Fatal(err)
	}

	refs, warnings := CollectFileRefs([]string{link}, DefaultCollectOptions())
	if len(refs) != 0 {
		t.Errorf("refs = %+v, want none", refs)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %+v, want one", warnings)
	}
	if !os.IsNotExist(warnings[0].Err) {
		t.Errorf("warning error = %v, want not-exist", warnings[0].Err)
	}
}

func TestReadPathList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		nul   bool
		want  []string
	}{
		{"lines", "a\nb\r\n\n   \nc", false, []string{"a", "b", "c"}},
		{"spaces kept", "with space\n", false, []string{"with space"}},
		{"nul", "a\x00b c\x00\x00d", true, []string{"a", "b c", "d"}},
		{"nul keeps newline", "new\nline\x00", true, []string{"new\nline"}},
		{"empty", "", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadPathList(strings.NewReader(tt.input), tt.nul)
			if err != nil {
				t.Fatalf("ReadPathList() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadPathList() = %q, want %q", got, tt.want)
			}
		})
	}
}
