package loader

import (
	"testing"
	"time"
)

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("POUND_LOG_LEVEL", "debug")
	t.Setenv("POUND_LOG_FILE", "/tmp/pound.log")
	t.Setenv("POUND_POLL_TIMEOUT", "250ms")

	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := GetByPath(config, "logging.level"); !ok || val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
	if val, ok := GetByPath(config, "logging.file"); !ok || val != "/tmp/pound.log" {
		t.Errorf("logging.file = %v, want '/tmp/pound.log'", val)
	}
	if val, ok := GetByPath(config, "editor.pollTimeout"); !ok || val != 250*time.Millisecond {
		t.Errorf("editor.pollTimeout = %v (%T), want 250ms", val, val)
	}
}

func TestEnvLoader_LoadUnmapped(t *testing.T) {
	t.Setenv("POUND_CUSTOM_SETTING", "value")

	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if val, ok := GetByPath(config, "custom.setting"); !ok || val != "value" {
		t.Errorf("custom.setting = %v, want 'value'", val)
	}
}

func TestEnvLoader_EmptyValueKept(t *testing.T) {
	t.Setenv("POUND_LOG_FILE", "")

	config, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if val, ok := GetByPath(config, "logging.file"); !ok || val != "" {
		t.Errorf("logging.file = %v (present=%v), want empty string", val, ok)
	}
}

func TestEnvLoader_InjectedEnvironment(t *testing.T) {
	l := NewEnvLoaderWithMapping("TEST_", map[string]string{"TEST_X": "a.b"})
	l.environ = func() []string {
		return []string{"TEST_X=1", "TEST_EDITOR_POLL_TIMEOUT=2s", "OTHER=ignored", "TEST_"}
	}
	l.lookup = func(key string) (string, bool) {
		if key == "TEST_X" {
			return "1", true
		}
		return "", false
	}

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if val, _ := GetByPath(config, "a.b"); val != int64(1) {
		t.Errorf("a.b = %v (%T), want 1", val, val)
	}
	if val, _ := GetByPath(config, "editor.pollTimeout"); val != 2*time.Second {
		t.Errorf("editor.pollTimeout = %v, want 2s", val)
	}
	if _, ok := config["other"]; ok {
		t.Error("unprefixed variable should be ignored")
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	loader := NewEnvLoader(EnvPrefix)

	tests := []struct {
		env      string
		expected string
	}{
		{"POUND_EDITOR_POLL_TIMEOUT", "editor.pollTimeout"},
		{"POUND_LOGGING_LEVEL", "logging.level"},
		{"POUND_SIMPLE", "simple"},
		{"POUND_DEEP_NESTED_PATH", "deep.nestedPath"},
		{"POUND_", ""},
	}

	for _, tt := range tests {
		got := loader.envToPath(tt.env)
		if got != tt.expected {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.expected)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"", ""},
		{"true", true},
		{"off", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"-42", int64(-42)},
		{"1.5", 1.5},
		{"500ms", 500 * time.Millisecond},
		{"info", "info"},
	}

	for _, tt := range tests {
		got := ParseValue(tt.input)
		if got != tt.expected {
			t.Errorf("ParseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.expected, tt.expected)
		}
	}
}
