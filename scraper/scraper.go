// Package scraper extracts product drafts from public pages, the admin import
// flow feeds its results into the catalog as draft products.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const (
	fetchTimeout = 30 * time.Second
	maxImages    = 5
	maxVideos    = 3
	maxText      = 4000
)

// Result is the best-effort extraction from one product page.
type Result struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Videos      []string `json:"videos"`
	// PriceGuess is the first price-looking number in the page text, if any.
	PriceGuess *decimal.Decimal `json:"price_guess"`
}

type Scraper struct {
	client *http.Client
}

func New() *Scraper {
	return &Scraper{client: &http.Client{Timeout: fetchTimeout}}
}

// Fetch downloads the page and runs the extraction heuristics. Protected or
// unreachable pages come back as an error the caller maps to 400.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("Fetch dështoi: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Fetch dështoi: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("Nuk mund të lexoj faqen (%d)", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Fetch dështoi: %w", err)
	}
	return Extract(doc), nil
}

// Extract applies the heuristics to an already parsed document.
func Extract(doc *goquery.Document) *Result {
	r := &Result{
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
		Images:      extractImages(doc),
		Videos:      extractVideos(doc),
	}
	r.PriceGuess = guessPrice(doc)
	return r
}

func extractTitle(doc *goquery.Document) string {
	if c, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(c) != "" {
		return truncate(strings.TrimSpace(c), 120)
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return truncate(t, 120)
	}
	if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "" {
		return truncate(h, 120)
	}
	return "Produkt"
}

func extractDescription(doc *goquery.Document) string {
	parts := []string{}
	seen := map[string]bool{}
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if c, ok := doc.Find(sel).Attr("content"); ok {
			c = strings.TrimSpace(c)
			if c != "" && !seen[c] {
				seen[c] = true
				parts = append(parts, c)
			}
		}
	}
	if len(parts) == 0 {
		doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			t := strings.TrimSpace(p.Text())
			if len(t) > 20 && !seen[t] {
				seen[t] = true
				parts = append(parts, t)
			}
			return len(parts) < 3
		})
	}
	return truncate(strings.Join(parts, "\n"), maxText)
}

func extractImages(doc *goquery.Document) []string {
	images := []string{}
	seen := map[string]bool{}
	doc.Find(`meta[property="og:image"]`).EachWithBreak(func(_ int, m *goquery.Selection) bool {
		if c, ok := m.Attr("content"); ok && c != "" && !seen[c] {
			seen[c] = true
			images = append(images, c)
		}
		return len(images) < maxImages
	})
	if len(images) > 0 {
		return images
	}
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			src, _ = img.Attr("data-src")
		}
		if strings.HasPrefix(src, "http") && !strings.Contains(src, "data:") && !seen[src] {
			seen[src] = true
			images = append(images, src)
		}
		return len(images) < maxImages
	})
	return images
}

func extractVideos(doc *goquery.Document) []string {
	videos := []string{}
	seen := map[string]bool{}
	add := func(url string) {
		if strings.HasPrefix(url, "http") && !seen[url] && len(videos) < maxVideos {
			seen[url] = true
			videos = append(videos, url)
		}
	}
	for _, sel := range []string{
		`meta[property="og:video"]`,
		`meta[property="og:video:url"]`,
		`meta[property="og:video:secure_url"]`,
	} {
		if c, ok := doc.Find(sel).Attr("content"); ok {
			add(c)
		}
	}
	doc.Find("video").Each(func(_ int, v *goquery.Selection) {
		if src, ok := v.Attr("src"); ok {
			add(src)
		}
		v.Find("source").Each(func(_ int, source *goquery.Selection) {
			if src, ok := source.Attr("src"); ok {
				add(src)
			}
		})
	})
	return videos
}

var priceRe = regexp.MustCompile(`(?:€|EUR)\s*([0-9]+(?:[.,][0-9]{1,2})?)|([0-9]+(?:[.,][0-9]{1,2})?)\s*(?:€|EUR)`)

func guessPrice(doc *goquery.Document) *decimal.Decimal {
	m := priceRe.FindStringSubmatch(doc.Find("body").Text())
	if m == nil {
		return nil
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	raw = strings.ReplaceAll(raw, ",", ".")
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &price
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
