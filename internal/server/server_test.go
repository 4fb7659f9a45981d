package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/seolens/internal/model"
)

// fakeCrawler returns a fixed result or error and records the URL it was asked for.
type fakeCrawler struct {
	result *model.Result
	err    error
	got    chan string
}

func (f *fakeCrawler) CrawlSite(_ context.Context, rawURL string) (*model.Result, error) {
	if f.got != nil {
		f.got <- rawURL
	}
	return f.result, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testResult(t *testing.T) *model.Result {
	t.Helper()
	target, err := model.NormalizeTarget("https://www.example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := model.NewResult(target)
	result.StatusCode = http.StatusOK
	result.Title = model.StringPtr("Example")
	return result
}

func TestHandleCrawl(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		query          string
		crawler        *fakeCrawler
		wantStatus     int
		wantError      string
		wantURL        string
		wantStatusCode int
	}{
		{
			name:       "missing url",
			query:      "",
			crawler:    &fakeCrawler{},
			wantStatus: http.StatusBadRequest,
			wantError:  "URL is required",
		},
		{
			name:       "blank url",
			query:      "?url=%20%20",
			crawler:    &fakeCrawler{},
			wantStatus: http.StatusBadRequest,
			wantError:  "URL is required",
		},
		{
			name:  "invalid url",
			query: "?url=http%3A%2F%2F",
			crawler: &fakeCrawler{err: &model.CrawlError{
				Kind: model.KindInvalidURL,
			}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid URL format",
		},
		{
			name:  "domain not found",
			query: "?url=nope.invalid",
			crawler: &fakeCrawler{err: &model.CrawlError{
				Kind:   model.KindDomainNotFound,
				URL:    "https://nope.invalid",
				Domain: "nope.invalid",
			}},
			wantStatus: http.StatusNotFound,
			wantError:  "Domain nope.invalid does not exist or has no DNS records",
			wantURL:    "https://nope.invalid",
		},
		{
			name:  "timeout",
			query: "?url=slow.example",
			crawler: &fakeCrawler{err: &model.CrawlError{
				Kind: model.KindFetchTimeout,
				Err:  context.DeadlineExceeded,
			}},
			wantStatus: http.StatusRequestTimeout,
			wantError:  "Request timeout: the website took too long to respond",
		},
		{
			name:  "unreachable",
			query: "?url=down.example",
			crawler: &fakeCrawler{err: &model.CrawlError{
				Kind: model.KindUnreachable,
				Err:  errors.New("connection refused"),
			}},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Cannot connect to the website: it may be down or unreachable",
		},
		{
			name:  "upstream status is forwarded",
			query: "?url=example.com%2Fmissing",
			crawler: &fakeCrawler{err: &model.CrawlError{
				Kind:       model.KindNonSuccessStatus,
				URL:        "https://example.com/missing",
				StatusCode: http.StatusGone,
			}},
			wantStatus:     http.StatusGone,
			wantError:      "Website returned status 410",
			wantURL:        "https://example.com/missing",
			wantStatusCode: http.StatusGone,
		},
		{
			name:       "plain error is internal",
			query:      "?url=example.com",
			crawler:    &fakeCrawler{err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := New(tt.crawler, WithLogger(discardLogger()))
			req := httptest.NewRequest(http.MethodGet, "/api/crawl"+tt.query, nil)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %q", ct)
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("expected error %q, got %v", tt.wantError, body["error"])
			}

			gotURL, hasURL := body["url"]
			if tt.wantURL == "" && hasURL {
				t.Errorf("expected no url field, got %v", gotURL)
			}
			if tt.wantURL != "" && gotURL != tt.wantURL {
				t.Errorf("expected url %q, got %v", tt.wantURL, gotURL)
			}

			gotCode, hasCode := body["statusCode"]
			if tt.wantStatusCode == 0 && hasCode {
				t.Errorf("expected no statusCode field, got %v", gotCode)
			}
			if tt.wantStatusCode != 0 && gotCode != float64(tt.wantStatusCode) {
				t.Errorf("expected statusCode %d, got %v", tt.wantStatusCode, gotCode)
			}
		})
	}
}

func TestHandleCrawlSuccess(t *testing.T) {
	t.Parallel()

	crawler := &fakeCrawler{result: testResult(t), got: make(chan string, 1)}
	ts := httptest.NewServer(New(crawler, WithLogger(discardLogger())).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/crawl?url=" + "%20www.example.com%20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if got := <-crawler.got; got != "www.example.com" {
		t.Errorf("expected trimmed url %q, got %q", "www.example.com", got)
	}

	var result model.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if result.Domain != "example.com" {
		t.Errorf("expected domain example.com, got %s", result.Domain)
	}
	if model.Deref(result.Title) != "Example" {
		t.Errorf("expected title Example, got %q", model.Deref(result.Title))
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	s := New(&fakeCrawler{}, WithLogger(discardLogger()))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected body ok, got %q", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	s := New(&fakeCrawler{}, WithLogger(discardLogger()))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/crawl?url=example.com", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestRequestLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(&fakeCrawler{}, WithLogger(logger))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/crawl", nil))

	out := buf.String()
	for _, want := range []string{"method=GET", "path=/api/crawl", "status=400", "duration="} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got %q", want, out)
		}
	}
}

func TestServeListenerShutdown(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	s := New(&fakeCrawler{}, WithLogger(discardLogger()), WithShutdownTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.ServeListener(ctx, ln)
	}()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	for range 50 {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not come up: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	s := New(&fakeCrawler{}, WithAddr(""), WithLogger(nil), WithShutdownTimeout(0))
	if s.Addr() != ":8080" {
		t.Errorf("expected default addr :8080, got %s", s.Addr())
	}
	if s.shutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("expected default shutdown timeout, got %v", s.shutdownTimeout)
	}

	s = New(&fakeCrawler{}, WithAddr("127.0.0.1:9999"))
	if s.Addr() != "127.0.0.1:9999" {
		t.Errorf("expected custom addr, got %s", s.Addr())
	}
}
