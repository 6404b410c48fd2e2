package provider

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const defaultWebBaseURL = "https://www.google.com"

// A browser-like UA; Google serves a stripped-down page (or a captcha) to
// unknown clients.
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/118.0"

// Web scrapes a Google search results page. Parsing is best-effort: if the
// markup doesn't match, the page comes back empty rather than failing.
type Web struct {
	BaseURL    string // defaults to https://www.google.com
	UserAgent  string
	HTTPClient *http.Client
}

func (w *Web) Name() string { return "google" }

// FetchPage issues a GET against the /search endpoint and extracts result
// anchors. The one-based page number is converted to Google's zero-based
// start offset.
func (w *Web) FetchPage(ctx context.Context, query string, page, pageSize int) ([]Result, error) {
	base := w.BaseURL
	if base == "" {
		base = defaultWebBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("google: invalid base url: %w", err)
	}
	u.Path = "/search"

	q := url.Values{}
	q.Set("q", query)
	q.Set("num", strconv.Itoa(pageSize))
	q.Set("start", strconv.Itoa((page-1)*pageSize))
	q.Set("ie", "UTF-8")
	q.Set("oe", "UTF-8")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("google: build request: %w", err)
	}
	ua := w.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	hc := w.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google: unexpected status %d", resp.StatusCode)
	}

	body := decodeCharset(resp.Body, resp.Header.Get("Content-Type"))
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("google: parse response: %w", err)
	}

	return extractResults(doc), nil
}

// extractResults walks the anchors of a results page. Two shapes are
// handled: legacy "/url?q=<target>" redirect wrappers and modern blocks
// where the anchor carries the target directly and wraps an h3 heading.
func extractResults(doc *goquery.Document) []Result {
	var results []Result
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")

		var target string
		switch {
		case strings.HasPrefix(href, "/url?"):
			vals, err := url.ParseQuery(strings.TrimPrefix(href, "/url?"))
			if err != nil {
				return
			}
			target = vals.Get("q")
		case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
			// Only trust direct anchors that wrap a result heading,
			// otherwise every nav link on the page would match.
			if sel.Find("h3").Length() == 0 {
				return
			}
			target = href
		default:
			return
		}
		if !strings.HasPrefix(target, "http") {
			return
		}

		title := strings.TrimSpace(sel.Find("h3").First().Text())
		if title == "" {
			title = strings.TrimSpace(sel.Text())
		}
		if title == "" || seen[target] {
			return
		}
		seen[target] = true
		results = append(results, Result{Title: title, URL: target})
	})

	return results
}

// decodeCharset wraps the body in a decoding reader when the Content-Type
// declares a non-UTF-8 charset. Unknown charsets fall through undecoded.
func decodeCharset(r io.Reader, contentType string) io.Reader {
	_, params, err := mime.ParseMediaType(contentType)
	charset := ""
	if err == nil {
		charset = strings.ToLower(params["charset"])
	}
	if charset == "" || charset == "utf-8" {
		return r
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}
