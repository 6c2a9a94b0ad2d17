// Package scraper renders Wallapop search pages in headless Chrome and
// extracts vehicle listings from the card markup, falling back to the
// embedded page state when the markup yields nothing.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/wallasnipe/wallasnipe/internal/config"
	"github.com/wallasnipe/wallasnipe/internal/models"
	"github.com/wallasnipe/wallasnipe/internal/util"
)

const carsCategoryID = "100"

// SearchFilters describe one search request. Zero values mean "not set".
type SearchFilters struct {
	Keywords      string  `json:"keywords" validate:"required"`
	MinPrice      float64 `json:"min_price" validate:"gte=0"`
	MaxPrice      float64 `json:"max_price" validate:"gte=0"`
	MinYear       int     `json:"min_year" validate:"gte=0"`
	MaxYear       int     `json:"max_year" validate:"gte=0"`
	MaxKilometers int     `json:"max_kilometers" validate:"gte=0"`
}

type Searcher interface {
	Search(ctx context.Context, filters SearchFilters) ([]models.Listing, error)
}

type Client struct {
	cfg       config.ScraperConfig
	selectors SelectorConfig
	limiter   *rate.Limiter
}

func New(cfg config.ScraperConfig, selectors SelectorConfig) *Client {
	// Config validation rejects non-positive rates, but a zero here must not
	// divide by zero; clamp to one request per minute.
	rpm := cfg.RequestsPerMin
	if rpm < 1 {
		rpm = 1
	}
	return &Client{
		cfg:       cfg,
		selectors: selectors,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

// BuildSearchURL translates the filters into a Wallapop car-search URL.
func BuildSearchURL(baseURL string, f SearchFilters) string {
	q := url.Values{}
	q.Set("category_ids", carsCategoryID)
	if f.Keywords != "" {
		q.Set("keywords", f.Keywords)
	}
	if f.MinPrice > 0 {
		q.Set("min_sale_price", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("max_sale_price", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.MinYear > 0 {
		q.Set("min_year", strconv.Itoa(f.MinYear))
	}
	if f.MaxYear > 0 {
		q.Set("max_year", strconv.Itoa(f.MaxYear))
	}
	if f.MaxKilometers > 0 {
		q.Set("max_km", strconv.Itoa(f.MaxKilometers))
	}
	return strings.TrimRight(baseURL, "/") + "/app/search?" + q.Encode()
}

// Search renders the search page for the given filters and returns the
// extracted listings, keyword-filtered by title. One shot per call; callers
// own any scheduling.
func (c *Client) Search(ctx context.Context, filters SearchFilters) ([]models.Listing, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	searchURL := BuildSearchURL(c.cfg.BaseURL, filters)
	slog.Info("Scraping search page", "url", searchURL)

	var html string
	err := util.RetryWithBackoff(ctx, c.cfg.MaxRetries, func(attempt int) error {
		if attempt > 0 {
			slog.Warn("Retrying search page render", "attempt", attempt, "url", searchURL)
		}
		var renderErr error
		html, renderErr = c.renderPage(ctx, searchURL)
		return renderErr
	})
	if err != nil {
		return nil, fmt.Errorf("render search page %s: %w", searchURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse search page %s: %w", searchURL, err)
	}

	listings := parseSearchDocument(doc, c.selectors, c.cfg.BaseURL)
	if len(listings) == 0 {
		listings = parseNextData(doc, c.selectors.NextData, c.cfg.BaseURL)
	}

	listings = filterByKeywords(listings, filters.Keywords)
	slog.Info("Search page scraped", "url", searchURL, "listings", len(listings))
	return listings, nil
}

func (c *Client) renderPage(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"),
	)
	if c.cfg.ChromeBin != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ChromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	navCtx, cancelNav := context.WithTimeout(browserCtx, c.cfg.NavTimeout)
	defer cancelNav()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp navigation: %w", err)
	}
	return html, nil
}

var externalIDRegex = regexp.MustCompile(`(\d+)/?$`)

// externalIDFromURL pulls the trailing numeric item id out of a listing URL
// slug, falling back to the full slug when no id is present.
func externalIDFromURL(listingURL string) string {
	u, err := url.Parse(listingURL)
	if err != nil {
		return listingURL
	}
	path := strings.TrimRight(u.Path, "/")
	if m := externalIDRegex.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func parseSearchDocument(doc *goquery.Document, sel SelectorConfig, baseURL string) []models.Listing {
	list := sel.SearchList
	var listings []models.Listing

	doc.Find(list.Container.Item).Each(func(_ int, s *goquery.Selection) {
		if list.Container.IgnoreModifier != "" && s.Is(list.Container.IgnoreModifier) {
			return
		}

		var l models.Listing
		l.Title = strings.TrimSpace(s.Find(list.Elements.Title).Text())
		l.Price = float64(util.SafeAtoi(util.CleanNumericString(s.Find(list.Elements.Price).Text())))
		l.Location = strings.TrimSpace(s.Find(list.Elements.Location).Text())

		if href, ok := s.Attr("href"); ok {
			if strings.HasPrefix(href, "/") {
				l.URL = strings.TrimRight(baseURL, "/") + href
			} else {
				l.URL = href
			}
			l.ExternalID = externalIDFromURL(l.URL)
		}

		s.Find(list.Elements.Image).Each(func(_ int, img *goquery.Selection) {
			if src, ok := img.Attr("src"); ok && src != "" {
				l.ImageURLs = append(l.ImageURLs, src)
			}
		})

		s.Find(list.Elements.Attributes).Each(func(_ int, attr *goquery.Selection) {
			classifyAttribute(strings.TrimSpace(attr.Text()), &l)
		})

		if l.Title == "" && l.URL == "" {
			return
		}
		listings = append(listings, l)
	})

	return listings
}

// classifyAttribute sorts a card attribute chip into the matching listing
// field. Chips carry no labels, so classification goes by shape: "180.000 km"
// is mileage, a plausible model year is the year, "110 CV" is power, known
// gearbox words are the transmission, anything else is the fuel type.
func classifyAttribute(text string, l *models.Listing) {
	if text == "" {
		return
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "km"):
		l.Kilometers = util.SafeAtoi(util.CleanNumericString(text))
	case strings.Contains(lower, "cv") || strings.Contains(lower, "hp"):
		l.PowerHP = util.SafeAtoi(util.CleanNumericString(text))
	case lower == "manual" || lower == "automatic" || lower == "automático" || lower == "automatico":
		l.Transmission = text
	default:
		if n := util.SafeAtoi(util.CleanNumericString(text)); n >= 1900 && n <= 2100 && len(util.CleanNumericString(text)) == 4 {
			l.Year = n
			return
		}
		if l.FuelType == "" {
			l.FuelType = text
		}
	}
}

func parseNextData(doc *goquery.Document, cfg NextDataConfig, baseURL string) []models.Listing {
	raw := doc.Find(cfg.ScriptID).Text()
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var page NextDataPage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		slog.Warn("Failed to parse embedded page state", "error", err)
		return nil
	}

	var listings []models.Listing
	for _, item := range page.Props.PageProps.InitialResults.Items {
		l := models.Listing{
			ExternalID: item.ID,
			Title:      item.Title,
			Price:      item.Price.Amount,
			Location:   item.Location.City,
			DistanceKm: item.Location.Distance,
			Year:       util.SafeAtoi(item.TypeAttributes.Year.Value),
			Kilometers: util.SafeAtoi(util.CleanNumericString(item.TypeAttributes.Km.Value)),
			FuelType:   item.TypeAttributes.Engine.Value,
			PowerHP:    util.SafeAtoi(util.CleanNumericString(item.TypeAttributes.Horsepower.Value)),
		}
		l.Transmission = item.TypeAttributes.Gearbox.Value
		if item.WebSlug != "" {
			l.URL = strings.TrimRight(baseURL, "/") + "/item/" + item.WebSlug
		}
		for _, img := range item.Images {
			if img.Original != "" {
				l.ImageURLs = append(l.ImageURLs, img.Original)
			}
		}
		listings = append(listings, l)
	}
	return listings
}

// filterByKeywords keeps listings whose title contains every keyword,
// case-insensitively. An empty keyword string keeps everything.
func filterByKeywords(listings []models.Listing, keywords string) []models.Listing {
	words := strings.Fields(strings.ToLower(keywords))
	if len(words) == 0 {
		return listings
	}

	var kept []models.Listing
	for _, l := range listings {
		title := strings.ToLower(l.Title)
		match := true
		for _, w := range words {
			if !strings.Contains(title, w) {
				match = false
				break
			}
		}
		if match {
			kept = append(kept, l)
		}
	}
	return kept
}
