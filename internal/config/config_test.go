package config

import (
	"strings"
	"testing"
)

func TestLoadFromReaderParsesAndDefaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(`
server:
  listen_addr: ":9090"
  log_level: "info"
translate:
  max_recursive_cte_depth: 50
`))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Server.ListenAddr != ":9090" {
		t.Fatalf("got listen addr %q", cfg.Server.ListenAddr)
	}
	tc := cfg.Translate.ToTranslateConfig()
	if tc.MaxRecursiveCTEDepth != 50 {
		t.Fatalf("got depth %d", tc.MaxRecursiveCTEDepth)
	}
}

func TestToTranslateConfigDefaultsZeroDepth(t *testing.T) {
	tc := TranslateConfig{}.ToTranslateConfig()
	if tc.MaxRecursiveCTEDepth != 100 {
		t.Fatalf("expected the documented default of 100, got %d", tc.MaxRecursiveCTEDepth)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader(`
server:
  bogus_field: true
`))
	if err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	err := Validate(&Config{Server: ServerConfig{LogLevel: "verbose"}})
	if err == nil {
		t.Fatal("expected an error for an invalid log level")
	}
}

func TestValidateAcceptsEmptyLogLevel(t *testing.T) {
	if err := Validate(&Config{}); err != nil {
		t.Fatalf("empty log level should be valid (unset), got %v", err)
	}
}
