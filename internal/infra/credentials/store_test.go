package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"figuregen/internal/domain"
)

func TestOpenAIAPIKey_SecretsFileFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.json")
	if err := os.WriteFile(path, []byte(`{"openai":{"api_key":" sk-from-file "}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvOpenAIKey, "sk-from-env")

	store := NewStore(path)
	key, err := store.OpenAIAPIKey()
	if err != nil {
		t.Fatalf("OpenAIAPIKey error: %v", err)
	}
	if key != "sk-from-file" {
		t.Fatalf("expected secrets file key, got %q", key)
	}
}

func TestOpenAIAPIKey_EnvFallback(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "sk-from-env")

	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	key, err := store.OpenAIAPIKey()
	if err != nil {
		t.Fatalf("OpenAIAPIKey error: %v", err)
	}
	if key != "sk-from-env" {
		t.Fatalf("expected env key, got %q", key)
	}
}

func TestOpenAIAPIKey_Absent(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "")

	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := store.OpenAIAPIKey(); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestValidate_Prefix(t *testing.T) {
	if _, err := Validate("totally-not-a-key"); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for malformed key, got %v", err)
	}
	key, err := Validate("  sk-ok  ")
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if key != "sk-ok" {
		t.Fatalf("expected trimmed key, got %q", key)
	}
}
