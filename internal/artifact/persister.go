package artifact

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"figuregen/internal/domain"
	"figuregen/internal/providers/image"
	"figuregen/internal/storage"
)

// Artifact is the materialized generation result, ready for a one-time
// download or share action.
type Artifact struct {
	Data     []byte
	Filename string
	MIME     string
}

type Options struct {
	HTTPClient   *http.Client
	FetchTimeout time.Duration
	Store        *storage.FileStore
	Now          func() time.Time
}

// Persister resolves a generation result to raw PNG bytes and derives the
// download filename from the subject's first name and a timestamp.
type Persister struct {
	httpClient *http.Client
	store      *storage.FileStore
	now        func() time.Time
}

func NewPersister(opts Options) *Persister {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.FetchTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Persister{httpClient: client, store: opts.Store, now: now}
}

// Materialize decodes an inline payload or fetches a remote URL. Fetch
// failures degrade: the caller falls back to presenting the remote URL
// for manual saving, so nothing here blocks viewing the image.
func (p *Persister) Materialize(ctx context.Context, res image.Result, firstName string) (Artifact, error) {
	var data []byte
	var err error
	switch res.Kind {
	case image.KindInlinePayload:
		data, err = decodeDataURL(res.Ref)
	case image.KindRemoteURL:
		data, err = p.fetch(ctx, res.Ref)
	default:
		err = fmt.Errorf("%w: unknown result kind %q", domain.ErrPersist, res.Kind)
	}
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Data:     data,
		Filename: Filename(firstName, p.now()),
		MIME:     "image/png",
	}, nil
}

// Archive writes a best-effort write-once copy through the file store.
func (p *Persister) Archive(ctx context.Context, art Artifact) (string, error) {
	if p.store == nil {
		return "", nil
	}
	path, err := p.store.Write(ctx, art.Filename, art.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPersist, err)
	}
	return path, nil
}

func decodeDataURL(ref string) ([]byte, error) {
	idx := strings.IndexByte(ref, ',')
	if !strings.HasPrefix(ref, "data:") || idx < 0 {
		return nil, fmt.Errorf("%w: malformed data URL", domain.ErrPersist)
	}
	data, err := base64.StdEncoding.DecodeString(ref[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64 payload: %v", domain.ErrPersist, err)
	}
	return data, nil
}

func (p *Persister) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: http %d", domain.ErrFetch, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	return data, nil
}

var unsafeFilenameRunes = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// Filename derives the download name: <firstName>_<YYYYMMDD_HHMMSS>.png.
// The name is NFC-normalized so accented names produce stable filenames
// across platforms; collisions are left to the timestamp's natural
// uniqueness at human-interaction granularity.
func Filename(firstName string, ts time.Time) string {
	first := norm.NFC.String(strings.TrimSpace(firstName))
	first = unsafeFilenameRunes.ReplaceAllString(first, "_")
	if first == "" {
		first = "figure"
	}
	return fmt.Sprintf("%s_%s.png", first, ts.Format("20060102_150405"))
}
