package config

import (
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

type validated struct {
	Port int `yaml:"port"`
}

func (v *validated) Validate() error {
	if v.Port <= 0 {
		return os.ErrInvalid
	}
	return nil
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("CONFIG_TEST_NAME", "folio")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("name: ${CONFIG_TEST_NAME}\nport: 8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg sample
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "folio" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d", cfg.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeRunsValidation(t *testing.T) {
	var cfg validated
	if err := Decode([]byte("port: 0\n"), &cfg); err == nil {
		t.Fatal("expected validation error")
	}
	if err := Decode([]byte("port: 9090\n"), &cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestDecodeBadYAML(t *testing.T) {
	var cfg sample
	if err := Decode([]byte("{not yaml"), &cfg); err == nil {
		t.Fatal("expected parse error")
	}
}
