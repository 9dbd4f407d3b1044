package share

import (
	"fmt"
	"net/url"
	"strings"
)

// Caption is the fixed hashtag-bearing text prefilled into the social
// share composer.
const Caption = "I just became an action figure in the fight against cancer with Expect Miracles Foundation!\n\n" +
	"Join me in taking action against cancer.\n\n" +
	"#ExpectMiracles #CancerResearch #TakeAction #CancerAwareness"

// Links bundles the outbound share affordances for a finished figure.
type Links struct {
	LinkedIn string `json:"linkedin"`
	Email    string `json:"email"`
}

// Build returns the prefilled deep links for the given display name.
func Build(fullName string) Links {
	return Links{
		LinkedIn: linkedInURL(),
		Email:    mailtoURL(fullName),
	}
}

func linkedInURL() string {
	return "https://www.linkedin.com/feed/?shareActive=true&text=" + url.QueryEscape(Caption)
}

func mailtoURL(fullName string) string {
	subject := fmt.Sprintf("%s - Cancer Fighting Action Figure", fullName)
	body := fmt.Sprintf("%s just joined the fight against cancer as an action figure!\n\n%s", fullName, Caption)
	return "mailto:?subject=" + escapeMailto(subject) + "&body=" + escapeMailto(body)
}

// escapeMailto percent-encodes for mailto URLs, which expect %20 for
// spaces rather than the '+' form-encoding convention.
func escapeMailto(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
