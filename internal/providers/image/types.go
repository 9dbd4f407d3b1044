package image

import "context"

// Mode selects which provider endpoint shape is used.
type Mode string

const (
	// ModeEdit attaches the normalized photo and asks the provider to
	// preserve likeness while re-rendering the scene.
	ModeEdit Mode = "edit"
	// ModeText submits only the prompt.
	ModeText Mode = "text"
)

// GenerateRequest describes a single generation attempt.
type GenerateRequest struct {
	Prompt    string
	Mode      Mode
	Photo     []byte // normalized PNG bytes, required for ModeEdit
	RequestID string
}

// ResultKind tags which representation of the generated image is populated.
type ResultKind string

const (
	KindRemoteURL     ResultKind = "remote_url"
	KindInlinePayload ResultKind = "inline_payload"
)

// Result is the tagged outcome of a successful generation: exactly one
// representation per response, decided once at the parse boundary. For
// KindInlinePayload the Ref is a data:image/png;base64 URL.
type Result struct {
	Kind ResultKind
	Ref  string
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Result, error)
}
