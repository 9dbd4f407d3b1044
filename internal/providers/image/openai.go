package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"figuregen/internal/domain"
	"figuregen/internal/infra/credentials"
)

const (
	editSize = "1024x1536" // vertical blister pack
	textSize = "1024x1024"
)

type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	Quality    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// OpenAI talks to the hosted Images API. It supports the two endpoint
// shapes the service exposes: edit-an-attached-image and text-to-image.
type OpenAI struct {
	httpClient *http.Client
	baseURL    string
	model      string
	quality    string
	apiKey     string
}

func NewOpenAI(opts OpenAIOptions) *OpenAI {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-image-1"
	}
	quality := strings.TrimSpace(opts.Quality)
	if quality == "" {
		quality = "high"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &OpenAI{
		httpClient: client,
		baseURL:    base,
		model:      model,
		quality:    quality,
		apiKey:     strings.TrimSpace(opts.APIKey),
	}
}

type imagesResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate performs exactly one attempt against the provider. The
// credential is validated before any transport; no retry on failure.
func (c *OpenAI) Generate(ctx context.Context, req GenerateRequest) (Result, error) {
	key, err := credentials.Validate(c.apiKey)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return Result{}, fmt.Errorf("%w: prompt is empty", domain.ErrInvalidInput)
	}

	var httpReq *http.Request
	switch req.Mode {
	case ModeEdit:
		httpReq, err = c.editRequest(ctx, req)
	case ModeText:
		httpReq, err = c.textRequest(ctx, req)
	default:
		return Result{}, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, req.Mode)
	}
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: read response: %v", domain.ErrProviderFailure, err)
	}

	var out imagesResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return Result{}, fmt.Errorf("%w: http %d", domain.ErrProviderFailure, resp.StatusCode)
		}
		return Result{}, fmt.Errorf("%w: decode response: %v", domain.ErrProviderFailure, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Error != nil && out.Error.Message != "" {
			return Result{}, fmt.Errorf("%w: %s", domain.ErrProviderFailure, out.Error.Message)
		}
		return Result{}, fmt.Errorf("%w: http %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	return extractResult(out)
}

// extractResult decides the result representation once: a remote URL wins,
// an inline payload is wrapped as a data URL, anything else is a hard
// extraction failure even though the provider returned 200.
func extractResult(out imagesResponse) (Result, error) {
	if len(out.Data) == 0 {
		return Result{}, fmt.Errorf("%w: empty data array", domain.ErrExtraction)
	}
	first := out.Data[0]
	if url := strings.TrimSpace(first.URL); url != "" {
		return Result{Kind: KindRemoteURL, Ref: url}, nil
	}
	if b64 := strings.TrimSpace(first.B64JSON); b64 != "" {
		return Result{Kind: KindInlinePayload, Ref: "data:image/png;base64," + b64}, nil
	}
	return Result{}, fmt.Errorf("%w: neither url nor b64_json present", domain.ErrExtraction)
}

func (c *OpenAI) editRequest(ctx context.Context, req GenerateRequest) (*http.Request, error) {
	if len(req.Photo) == 0 {
		return nil, fmt.Errorf("%w: edit mode requires a photo", domain.ErrInvalidInput)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"model":  c.model,
		"prompt": req.Prompt,
		"size":   editSize,
		"n":      "1",
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="uploaded_image.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(req.Photo); err != nil {
		return nil, fmt.Errorf("write image part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	return httpReq, nil
}

func (c *OpenAI) textRequest(ctx context.Context, req GenerateRequest) (*http.Request, error) {
	payload := map[string]any{
		"model":   c.model,
		"prompt":  req.Prompt,
		"size":    textSize,
		"quality": c.quality,
		"n":       1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}

var _ Generator = (*OpenAI)(nil)
