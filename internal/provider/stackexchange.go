package provider

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultAPIBaseURL = "https://api.stackexchange.com"

// Sites that live on their own top-level domain; everything else is
// <site>.stackexchange.com.
var dedicatedSiteHosts = map[string]string{
	"stackoverflow": "stackoverflow.com",
	"serverfault":   "serverfault.com",
	"superuser":     "superuser.com",
	"askubuntu":     "askubuntu.com",
}

// StackExchange queries the /2.2/search/excerpts API endpoint. The API always
// compresses responses, so the body is gunzipped by hand after requesting
// gzip explicitly.
type StackExchange struct {
	BaseURL    string // defaults to https://api.stackexchange.com
	Site       string // API site parameter, defaults to stackoverflow
	HTTPClient *http.Client
}

func (s *StackExchange) Name() string { return "stackexchange" }

func (s *StackExchange) site() string {
	if s.Site == "" {
		return "stackoverflow"
	}
	return s.Site
}

// FetchPage runs a relevance-sorted excerpt search and maps each item's
// question id into a canonical question URL on the site's host.
func (s *StackExchange) FetchPage(ctx context.Context, query string, page, pageSize int) ([]Result, error) {
	base := s.BaseURL
	if base == "" {
		base = defaultAPIBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("stackexchange: invalid base url: %w", err)
	}
	u.Path = "/2.2/search/excerpts"

	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("pagesize", strconv.Itoa(pageSize))
	q.Set("sort", "relevance")
	q.Set("site", s.site())
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("stackexchange: build request: %w", err)
	}
	// Setting the header manually disables net/http's transparent
	// decompression, so the gzip reader below is ours to manage.
	req.Header.Set("Accept-Encoding", "gzip")

	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stackexchange: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stackexchange: unexpected status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("stackexchange: decompress response: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	var er excerptsResponse
	if err := json.NewDecoder(body).Decode(&er); err != nil {
		return nil, fmt.Errorf("stackexchange: decode response: %w", err)
	}

	results := make([]Result, 0, len(er.Items))
	for _, item := range er.Items {
		if item.QuestionID == 0 || item.Title == "" {
			continue
		}
		results = append(results, Result{
			Title: html.UnescapeString(item.Title),
			URL:   fmt.Sprintf("https://%s/questions/%d", siteHost(s.site()), item.QuestionID),
		})
	}
	return results, nil
}

type excerptsResponse struct {
	Items []struct {
		Title      string `json:"title"`
		QuestionID int64  `json:"question_id"`
	} `json:"items"`
}

func siteHost(site string) string {
	if host, ok := dedicatedSiteHosts[site]; ok {
		return host
	}
	if strings.Contains(site, ".") {
		return site
	}
	return site + ".stackexchange.com"
}
