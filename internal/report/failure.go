package report

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/seolens/internal/model"
)

// Failure describes a failed crawl. Its JSON form is the error body of the
// HTTP API.
type Failure struct {
	// Error is the human-readable message.
	Error string `json:"error"`

	// URL is the normalized URL for failures that happened after the
	// target was known to exist (domain lookup and upstream status).
	URL string `json:"url,omitempty"`

	// StatusCode is the upstream status of a non-2xx page.
	StatusCode int `json:"statusCode,omitempty"`

	// Input is what the user asked to crawl.
	Input string `json:"-"`

	// Kind classifies the failure.
	Kind model.ErrorKind `json:"-"`

	// HTTPStatus is the status the API responds with.
	HTTPStatus int `json:"-"`
}

// NewFailure builds a Failure from a failed crawl.
func NewFailure(crawl *model.Crawl) *Failure {
	err := crawl.Err
	if err == nil {
		err = errors.New("crawl produced no result")
	}
	f := FailureFromError(err)
	f.Input = crawl.Input
	return f
}

// FailureFromError builds a Failure from a crawl error.
func FailureFromError(err error) *Failure {
	f := &Failure{
		Error:      capitalize(err.Error()),
		Kind:       model.KindInternal,
		HTTPStatus: model.KindInternal.HTTPStatus(),
	}

	var ce *model.CrawlError
	if !errors.As(err, &ce) {
		return f
	}

	f.Kind = ce.Kind
	f.HTTPStatus = ce.HTTPStatus()
	switch ce.Kind {
	case model.KindDomainNotFound:
		f.URL = ce.URL
	case model.KindNonSuccessStatus:
		f.URL = ce.URL
		f.StatusCode = ce.StatusCode
	}
	return f
}

// Category returns a display label for the failure kind, e.g. "Domain Not Found".
func (f *Failure) Category() string {
	return CategoryLabel(f.Kind)
}

// CategoryLabel returns a display label for kind.
func CategoryLabel(kind model.ErrorKind) string {
	label := cases.Title(language.English).String(strings.ReplaceAll(kind.String(), "-", " "))
	return strings.ReplaceAll(label, "Url", "URL")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
