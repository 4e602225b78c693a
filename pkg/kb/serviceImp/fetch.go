package serviceImp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"eaadss/pkg/kb/service"
)

// Fetcher downloads allow-listed guidance pages.
type Fetcher struct {
	allow    map[string]bool
	maxBytes int
	httpc    *http.Client
}

func NewFetcher(allowedHosts []string, maxBytes int) *Fetcher {
	allow := map[string]bool{}
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allow[h] = true
		}
	}
	if maxBytes <= 0 {
		maxBytes = 1500000
	}
	f := &Fetcher{allow: allow, maxBytes: maxBytes}
	f.httpc = &http.Client{
		Timeout: 20 * time.Second,
		// every hop must stay on the allow-list
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !f.Allowed(req.URL.String()) {
				return fmt.Errorf("%w: redirect to %s", service.ErrDomainNotAllowed, req.URL.Host)
			}
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
	return f
}

func (f *Fetcher) Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return f.allow[strings.ToLower(u.Host)]
}

// MainText returns the readable text and <title> of the page.
func (f *Fetcher) MainText(ctx context.Context, rawURL string) (string, string, error) {
	if f == nil || !f.Allowed(rawURL) {
		return "", "", service.ErrDomainNotAllowed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", service.ErrFetch, err)
	}
	resp, err := f.httpc.Do(req)
	if errors.Is(err, service.ErrDomainNotAllowed) {
		return "", "", err
	}
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", service.ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", "", fmt.Errorf("%w: status %d", service.ErrFetch, resp.StatusCode)
	}
	if resp.ContentLength > int64(f.maxBytes) {
		return "", "", fmt.Errorf("%w: page too large", service.ErrFetch)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.maxBytes)))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", service.ErrFetch, err)
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "text/plain"):
		return string(b), guessTitleFromText(string(b)), nil
	case strings.Contains(ct, "text/html"):
	default:
		return "", "", fmt.Errorf("%w: unsupported content-type %q", service.ErrFetch, ct)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", service.ErrFetch, err)
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())

	var parts []string
	sel := doc.Find("main, article")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return cleanWhitespace(strings.Join(parts, "\n")), title, nil
}

var wsRX = regexp.MustCompile(`[ \t]+\n`)

func cleanWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return wsRX.ReplaceAllString(s, "\n")
}

func guessTitleFromText(s string) string {
	line := strings.SplitN(strings.TrimSpace(s), "\n", 2)[0]
	if r := []rune(line); len(r) > 120 {
		line = string(r[:120])
	}
	return line
}
