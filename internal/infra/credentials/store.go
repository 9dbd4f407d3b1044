package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"figuregen/internal/domain"
)

const (
	// EnvOpenAIKey is the environment fallback consulted when the secrets
	// file does not carry a key.
	EnvOpenAIKey = "OPENAI_API_KEY"

	// openAIKeyPrefix is the provider's well-formedness convention; a key
	// without it is treated as misconfigured, not retried.
	openAIKeyPrefix = "sk-"
)

// Store resolves provider credentials with a layered lookup: a structured
// per-deployment secrets file first, environment variables second. Absence
// of both is a configuration error, never a silent default.
type Store struct {
	secretsPath string
}

type secretsFile struct {
	OpenAI struct {
		APIKey string `json:"api_key"`
	} `json:"openai"`
}

func NewStore(secretsPath string) *Store {
	return &Store{secretsPath: strings.TrimSpace(secretsPath)}
}

// OpenAIAPIKey returns a validated API key or domain.ErrNotConfigured.
func (s *Store) OpenAIAPIKey() (string, error) {
	key, err := s.lookup()
	if err != nil {
		return "", err
	}
	return Validate(key)
}

func (s *Store) lookup() (string, error) {
	if s != nil && s.secretsPath != "" {
		raw, err := os.ReadFile(s.secretsPath)
		switch {
		case err == nil:
			var parsed secretsFile
			if err := json.Unmarshal(raw, &parsed); err != nil {
				return "", fmt.Errorf("%w: secrets file %s is not valid JSON", domain.ErrNotConfigured, s.secretsPath)
			}
			if key := strings.TrimSpace(parsed.OpenAI.APIKey); key != "" {
				return key, nil
			}
		case !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("%w: read secrets file: %v", domain.ErrNotConfigured, err)
		}
	}
	return strings.TrimSpace(os.Getenv(EnvOpenAIKey)), nil
}

// Validate checks the key against the provider prefix convention.
func Validate(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: set openai.api_key in the secrets file or export %s", domain.ErrNotConfigured, EnvOpenAIKey)
	}
	if !strings.HasPrefix(key, openAIKeyPrefix) {
		return "", fmt.Errorf("%w: API key must start with %q", domain.ErrNotConfigured, openAIKeyPrefix)
	}
	return key, nil
}
