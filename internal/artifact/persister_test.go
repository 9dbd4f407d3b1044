package artifact

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"figuregen/internal/domain"
	"figuregen/internal/providers/image"
	"figuregen/internal/storage"
)

var fixedTime = time.Date(2025, 10, 18, 19, 4, 5, 0, time.UTC)

func TestMaterialize_DataURLRoundTrip(t *testing.T) {
	original := []byte{0x89, 'P', 'N', 'G', 0x01, 0x02, 0x03}
	res := image.Result{
		Kind: image.KindInlinePayload,
		Ref:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(original),
	}

	p := NewPersister(Options{Now: func() time.Time { return fixedTime }})
	art, err := p.Materialize(context.Background(), res, "Sarah")
	if err != nil {
		t.Fatalf("Materialize error: %v", err)
	}
	if !bytes.Equal(art.Data, original) {
		t.Fatal("decoded bytes do not match the pre-encoded payload")
	}
	if art.Filename != "Sarah_20251018_190405.png" {
		t.Fatalf("unexpected filename %s", art.Filename)
	}
	if art.MIME != "image/png" {
		t.Fatalf("unexpected mime %s", art.MIME)
	}
}

func TestMaterialize_RemoteURL(t *testing.T) {
	payload := []byte("remote-image-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	p := NewPersister(Options{Now: func() time.Time { return fixedTime }})
	art, err := p.Materialize(context.Background(), image.Result{Kind: image.KindRemoteURL, Ref: srv.URL}, "Alex")
	if err != nil {
		t.Fatalf("Materialize error: %v", err)
	}
	if !bytes.Equal(art.Data, payload) {
		t.Fatal("fetched bytes mismatch")
	}
}

func TestMaterialize_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewPersister(Options{})
	_, err := p.Materialize(context.Background(), image.Result{Kind: image.KindRemoteURL, Ref: srv.URL}, "Alex")
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestMaterialize_MalformedDataURL(t *testing.T) {
	p := NewPersister(Options{})
	_, err := p.Materialize(context.Background(), image.Result{Kind: image.KindInlinePayload, Ref: "data:image/png;base64,!!!"}, "Alex")
	if !errors.Is(err, domain.ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
}

func TestArchive_WritesCopy(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	p := NewPersister(Options{Store: store})
	path, err := p.Archive(context.Background(), Artifact{Data: []byte("x"), Filename: "Sarah_20251018_190405.png"})
	if err != nil {
		t.Fatalf("Archive error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("archived outside store root: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("archived file missing: %v", err)
	}
}

func TestFilename_Sanitizes(t *testing.T) {
	got := Filename("  José / O'Neil ", fixedTime)
	if got != "José_O_Neil_20251018_190405.png" {
		t.Fatalf("unexpected filename %s", got)
	}
	if got := Filename("", fixedTime); got != "figure_20251018_190405.png" {
		t.Fatalf("unexpected fallback filename %s", got)
	}
}
