package share

import (
	"net/url"
	"strings"
	"testing"
)

func TestBuild_LinkedIn(t *testing.T) {
	links := Build("Sarah Johnson")
	if !strings.HasPrefix(links.LinkedIn, "https://www.linkedin.com/feed/?shareActive=true&text=") {
		t.Fatalf("unexpected linkedin link %s", links.LinkedIn)
	}
	parsed, err := url.Parse(links.LinkedIn)
	if err != nil {
		t.Fatal(err)
	}
	text := parsed.Query().Get("text")
	if !strings.Contains(text, "#ExpectMiracles") || !strings.Contains(text, "action figure") {
		t.Fatalf("caption not carried through: %q", text)
	}
}

func TestBuild_Email(t *testing.T) {
	links := Build("Alex")
	if !strings.HasPrefix(links.Email, "mailto:?subject=") {
		t.Fatalf("unexpected mailto link %s", links.Email)
	}
	if strings.Contains(links.Email, "+") {
		t.Fatalf("mailto link must use %%20 escaping, got %s", links.Email)
	}
	if !strings.Contains(links.Email, "Alex") {
		t.Fatalf("name missing from mailto link: %s", links.Email)
	}
}
