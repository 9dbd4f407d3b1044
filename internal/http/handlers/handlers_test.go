package handlers_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"figuregen/internal/artifact"
	"figuregen/internal/domain"
	"figuregen/internal/http/handlers"
	"figuregen/internal/http/httpapi"
	"figuregen/internal/infra"
	provimage "figuregen/internal/providers/image"
	"figuregen/internal/session"
	"figuregen/internal/storage"
)

type stubGenerator struct {
	result  provimage.Result
	err     error
	calls   int
	lastReq provimage.GenerateRequest
}

func (s *stubGenerator) Generate(_ context.Context, req provimage.GenerateRequest) (provimage.Result, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return provimage.Result{}, s.err
	}
	return s.result, nil
}

func testConfig() *infra.Config {
	return &infra.Config{
		AppEnv:          "test",
		GenerateTimeout: 5 * time.Second,
		SessionTTL:      time.Hour,
		RateLimitPerMin: 100,
	}
}

func newTestServer(t *testing.T, gen *stubGenerator) *httptest.Server {
	t.Helper()
	cfg := testConfig()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	persister := artifact.NewPersister(artifact.Options{
		Store: store,
		Now:   func() time.Time { return time.Date(2025, 10, 18, 19, 4, 5, 0, time.UTC) },
	})
	sessions := session.NewStore(session.Options{TTL: cfg.SessionTTL})
	app := handlers.NewApp(cfg, zerolog.Nop(), sessions, gen, persister)
	srv := httptest.NewServer(httpapi.NewRouter(app))
	t.Cleanup(srv.Close)
	return srv
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d", resp.StatusCode)
	}
	var view map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	id, _ := view["id"].(string)
	if id == "" {
		t.Fatal("session id missing")
	}
	return id
}

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func uploadPhoto(t *testing.T, srv *httptest.Server, id string, photo []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", "me.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(photo); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	resp, err := http.Post(srv.URL+"/v1/sessions/"+id+"/photo", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return resp
}

func postDetails(t *testing.T, srv *httptest.Server, id, first, last, accessory string) *http.Response {
	t.Helper()
	payload := fmt.Sprintf(`{"first_name":%q,"last_name":%q,"accessory":%q}`, first, last, accessory)
	resp, err := http.Post(srv.URL+"/v1/sessions/"+id+"/details", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	return resp
}

func postGenerate(t *testing.T, srv *httptest.Server, id string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/sessions/"+id+"/generate", "application/json", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return resp
}

func TestFullFlowWithPhoto(t *testing.T) {
	figure := samplePNG(t)
	gen := &stubGenerator{result: provimage.Result{
		Kind: provimage.KindInlinePayload,
		Ref:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(figure),
	}}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	resp := uploadPhoto(t, srv, id, samplePNG(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postDetails(t, srv, id, "Sarah", "Johnson", "Golf Club")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("details status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postGenerate(t, srv, id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	var view struct {
		Stage  string `json:"stage"`
		Result *struct {
			Kind string `json:"kind"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode generate response: %v", err)
	}
	resp.Body.Close()
	if view.Stage != "share" {
		t.Fatalf("stage after generate = %q, want share", view.Stage)
	}
	if view.Result == nil || view.Result.Kind != "inline_payload" {
		t.Fatalf("result view = %+v", view.Result)
	}

	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
	if gen.lastReq.Mode != provimage.ModeEdit {
		t.Fatalf("mode = %q, want edit", gen.lastReq.Mode)
	}
	if !strings.Contains(gen.lastReq.Prompt, "SARAH JOHNSON: ACTION FIGURE") {
		t.Fatalf("prompt missing title:\n%s", gen.lastReq.Prompt)
	}
	if !strings.Contains(gen.lastReq.Prompt, "a golf club and a golf ball") {
		t.Fatalf("prompt missing accessory props:\n%s", gen.lastReq.Prompt)
	}

	resp, err := http.Get(srv.URL + "/v1/sessions/" + id + "/artifact")
	if err != nil {
		t.Fatalf("artifact: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("artifact status = %d", resp.StatusCode)
	}
	disposition := resp.Header.Get("Content-Disposition")
	if !strings.Contains(disposition, "Sarah_20251018_190405.png") {
		t.Fatalf("disposition = %q", disposition)
	}
	var got bytes.Buffer
	if _, err := got.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !bytes.Equal(got.Bytes(), figure) {
		t.Fatalf("artifact bytes differ: got %d bytes, want %d", got.Len(), len(figure))
	}
}

func TestBlankLastNameProceeds(t *testing.T) {
	gen := &stubGenerator{result: provimage.Result{
		Kind: provimage.KindRemoteURL,
		Ref:  "https://provider.example/out.png",
	}}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	resp := uploadPhoto(t, srv, id, samplePNG(t))
	resp.Body.Close()

	resp = postDetails(t, srv, id, "Alex", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("details status = %d, want blank last name accepted", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postGenerate(t, srv, id)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	if !strings.Contains(gen.lastReq.Prompt, "ALEX: ACTION FIGURE") {
		t.Fatalf("prompt title should use first name alone:\n%s", gen.lastReq.Prompt)
	}
	if strings.Contains(gen.lastReq.Prompt, "ALEX : ACTION FIGURE") {
		t.Fatalf("prompt title carries a stray space:\n%s", gen.lastReq.Prompt)
	}
}

func TestMissingFirstNameRejectedBeforeGeneration(t *testing.T) {
	gen := &stubGenerator{}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	resp := uploadPhoto(t, srv, id, samplePNG(t))
	resp.Body.Close()

	resp = postDetails(t, srv, id, "  ", "Johnson", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("details status = %d, want 400", resp.StatusCode)
	}
	if gen.calls != 0 {
		t.Fatalf("generator called %d times before valid details", gen.calls)
	}
}

func TestExtractionFailureDropsBackToDetails(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: response carried neither url nor b64_json", domain.ErrExtraction)}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	resp := uploadPhoto(t, srv, id, samplePNG(t))
	resp.Body.Close()
	resp = postDetails(t, srv, id, "Sarah", "Johnson", "")
	resp.Body.Close()

	resp = postGenerate(t, srv, id)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("generate status = %d, want 502", resp.StatusCode)
	}
	var body struct {
		Recovery string `json:"recovery"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	resp.Body.Close()
	if body.Recovery != "retry" {
		t.Fatalf("recovery = %q, want retry", body.Recovery)
	}

	// The session is back at Details, so a retry is allowed.
	gen.err = nil
	gen.result = provimage.Result{Kind: provimage.KindRemoteURL, Ref: "https://provider.example/out.png"}
	resp = postGenerate(t, srv, id)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("retry status = %d, want 200", resp.StatusCode)
	}
}

func TestDuplicateGenerateRejected(t *testing.T) {
	gen := &stubGenerator{result: provimage.Result{
		Kind: provimage.KindRemoteURL,
		Ref:  "https://provider.example/out.png",
	}}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	resp := uploadPhoto(t, srv, id, samplePNG(t))
	resp.Body.Close()
	resp = postDetails(t, srv, id, "Sarah", "Johnson", "")
	resp.Body.Close()
	resp = postGenerate(t, srv, id)
	resp.Body.Close()

	resp = postGenerate(t, srv, id)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second generate status = %d, want 409", resp.StatusCode)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
}

func TestResetAllowsFreshFlow(t *testing.T) {
	gen := &stubGenerator{result: provimage.Result{
		Kind: provimage.KindRemoteURL,
		Ref:  "https://provider.example/out.png",
	}}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	resp := uploadPhoto(t, srv, id, samplePNG(t))
	resp.Body.Close()
	resp = postDetails(t, srv, id, "Sarah", "Johnson", "")
	resp.Body.Close()
	resp = postGenerate(t, srv, id)
	resp.Body.Close()

	resp, err := http.Post(srv.URL+"/v1/sessions/"+id+"/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	var view struct {
		Stage    string `json:"stage"`
		HasPhoto bool   `json:"has_photo"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode reset: %v", err)
	}
	resp.Body.Close()
	if view.Stage != "upload" || view.HasPhoto || view.FullName != "" {
		t.Fatalf("state after reset = %+v", view)
	}

	resp = uploadPhoto(t, srv, id, samplePNG(t))
	resp.Body.Close()
	resp = postDetails(t, srv, id, "Jordan", "", "")
	resp.Body.Close()
	resp = postGenerate(t, srv, id)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate after reset = %d, want 200", resp.StatusCode)
	}
	if gen.calls != 2 {
		t.Fatalf("generator calls = %d, want 2", gen.calls)
	}
}

func TestShareLinksIncludeName(t *testing.T) {
	gen := &stubGenerator{result: provimage.Result{
		Kind: provimage.KindRemoteURL,
		Ref:  "https://provider.example/out.png",
	}}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	resp := uploadPhoto(t, srv, id, samplePNG(t))
	resp.Body.Close()
	resp = postDetails(t, srv, id, "Sarah", "Johnson", "")
	resp.Body.Close()
	resp = postGenerate(t, srv, id)
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/v1/sessions/" + id + "/share")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("share status = %d", resp.StatusCode)
	}
	var links struct {
		LinkedIn string `json:"linkedin"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&links); err != nil {
		t.Fatalf("decode links: %v", err)
	}
	if !strings.HasPrefix(links.LinkedIn, "https://www.linkedin.com/") {
		t.Fatalf("linkedin link = %q", links.LinkedIn)
	}
	if !strings.HasPrefix(links.Email, "mailto:") || !strings.Contains(links.Email, "Sarah%20Johnson") {
		t.Fatalf("email link = %q", links.Email)
	}
}

func TestHealthReportsFormats(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	resp, err := http.Get(srv.URL + "/v1/healthz")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	var body struct {
		Status  string   `json:"status"`
		Formats []string `json:"formats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("status = %q", body.Status)
	}
	found := false
	for _, f := range body.Formats {
		if f == "png" {
			found = true
		}
	}
	if !found {
		t.Fatalf("formats missing png: %v", body.Formats)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	resp, err := http.Get(srv.URL + "/v1/sessions/does-not-exist/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
