package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
	err   error
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[editor]
pollTimeout = "500ms"

[logging]
level = "debug"
file = "/var/log/pound.log"
`)

	config, err := NewTOMLLoader(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := GetByPath(config, "editor.pollTimeout"); !ok || val != "500ms" {
		t.Errorf("editor.pollTimeout = %v, want '500ms'", val)
	}
	if val, ok := GetByPath(config, "logging.level"); !ok || val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoader(NewMemFS(), "/nonexistent.toml").Load()
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if config != nil {
		t.Errorf("config = %v, want nil for missing file", config)
	}
}

func TestTOMLLoader_LoadEmptyPath(t *testing.T) {
	config, err := NewTOMLLoader(NewMemFS(), "").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestTOMLLoader_ReadError(t *testing.T) {
	memfs := NewMemFS()
	memfs.err = fs.ErrPermission

	_, err := NewTOMLLoader(memfs, "/config.toml").Load()
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("Load error = %v, want wrapped fs.ErrPermission", err)
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", `
[editor
pollTimeout = "1s"
`)

	_, err := NewTOMLLoader(memfs, "/invalid.toml").Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if perr.Path != "/invalid.toml" {
		t.Errorf("ParseError.Path = %q", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("ParseError.Line should be set from the decoder position")
	}
	if !strings.Contains(err.Error(), "/invalid.toml") {
		t.Errorf("error %q should name the file", err)
	}
}

func TestTOMLLoader_IntegerMilliseconds(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", "[editor]\npollTimeout = 250\n")

	config, err := NewTOMLLoader(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if val, ok := GetByPath(config, "editor.pollTimeout"); !ok || val != int64(250) {
		t.Errorf("editor.pollTimeout = %v (%T), want int64 250", val, val)
	}
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "bad"}, "parse error in a.toml at line 3, column 7: bad"},
		{ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "parse error in a.toml at line 3: bad"},
		{ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"editor":  map[string]any{"pollTimeout": "1s"},
		"logging": map[string]any{"level": "info", "file": ""},
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"extra":   int64(1),
	}

	result := DeepMerge(dst, src)

	if val, _ := GetByPath(result, "logging.level"); val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
	if val, ok := GetByPath(result, "logging.file"); !ok || val != "" {
		t.Errorf("logging.file = %v, want preserved empty string", val)
	}
	if val, _ := GetByPath(result, "editor.pollTimeout"); val != "1s" {
		t.Errorf("editor.pollTimeout = %v, want '1s'", val)
	}
	if result["extra"] != int64(1) {
		t.Errorf("extra = %v, want 1", result["extra"])
	}
}

func TestDeepMerge_NilDst(t *testing.T) {
	result := DeepMerge(nil, map[string]any{"a": 1})
	if result["a"] != 1 {
		t.Errorf("a = %v, want 1", result["a"])
	}
}

func TestSetByPath(t *testing.T) {
	data := map[string]any{"a": "scalar"}
	setByPath(data, "a.b.c", 3)
	if val, ok := GetByPath(data, "a.b.c"); !ok || val != 3 {
		t.Errorf("a.b.c = %v, want 3", val)
	}
	if _, ok := GetByPath(data, "a.x"); ok {
		t.Error("missing path should not be found")
	}
}
