package expa

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"

	"expa-scraper/config"
	"expa-scraper/models"
	"expa-scraper/utils"
)

// tableID is the id of the per-country LC statistics table on the
// analytics dashboard.
const tableID = "signups-table"

// Scraper fetches the per-country analytics pages and extracts the raw LC
// funnel tables. By default pages are fetched over plain HTTP with a
// persistent session; EXPA_RENDER_JS switches to a headless browser for
// JS-rendered dashboard variants.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	pool   *utils.WorkerPool
	retry  *utils.RetryConfig
	client *resty.Client
}

// New creates a ready-to-use dashboard Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTPTimeoutSec) * time.Second).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Scraper{
		cfg:    cfg,
		logger: logger,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		client: client,
	}
}

// Scrape fetches every country in the catalog and returns one raw table per
// country that yielded data, in catalog order. A country that fails to fetch
// or parse is logged and skipped; it never aborts the run.
func (s *Scraper) Scrape(catalog []models.Country) ([]models.RawTable, error) {
	s.logger.Info("[expa] Starting scrape — %d countries, concurrency %d",
		len(catalog), s.cfg.MaxConcurrency)

	var allocCtx context.Context
	if s.cfg.RenderJS {
		ctx, cancel := s.newBrowserContext()
		defer cancel()
		allocCtx = ctx
	}

	var mu sync.Mutex
	results := make([]*models.RawTable, len(catalog))

	for i, country := range catalog {
		i, country := i, country
		s.pool.Submit(func() {
			table, err := s.scrapeCountry(allocCtx, country)
			if err != nil {
				s.logger.Error("[expa] %s (ID %d): %v — skipping country",
					country.Name, country.ID, err)
				return
			}
			mu.Lock()
			results[i] = table
			mu.Unlock()
		})
	}
	s.pool.Wait()

	tables := make([]models.RawTable, 0, len(catalog))
	for _, t := range results {
		if t != nil {
			tables = append(tables, *t)
		}
	}

	s.logger.Info("[expa] Scrape complete — %d/%d countries yielded tables",
		len(tables), len(catalog))
	return tables, nil
}

func (s *Scraper) scrapeCountry(allocCtx context.Context, country models.Country) (*models.RawTable, error) {
	url := s.countryURL(country.ID)

	var html string
	err := s.retry.Do(fmt.Sprintf("fetch-country-%d", country.ID), func() error {
		var err error
		if s.cfg.RenderJS {
			html, err = s.fetchRendered(allocCtx, url)
		} else {
			html, err = s.fetchPlain(url)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	table, err := ParseCountryTable(html, country)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[expa] %s: found %d LC rows", country.Name, len(table.Rows))
	return &table, nil
}

func (s *Scraper) countryURL(countryID int) string {
	return fmt.Sprintf("%s/%d/%s",
		strings.TrimRight(s.cfg.BaseURL, "/"),
		countryID,
		strings.TrimLeft(s.cfg.ViewSuffix, "/"))
}

// fetchPlain fetches the page over the persistent HTTP session.
func (s *Scraper) fetchPlain(url string) (string, error) {
	resp, err := s.client.R().Get(url)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("GET %s: status %s", url, resp.Status())
	}
	return resp.String(), nil
}

// fetchRendered loads the page in a headless browser and returns the
// rendered document.
func (s *Scraper) fetchRendered(allocCtx context.Context, url string) (string, error) {
	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, time.Duration(s.cfg.HTTPTimeoutSec)*3*time.Second)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("#"+tableID, chromedp.ByID),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp %s: %w", url, err)
	}
	return html, nil
}

func (s *Scraper) newBrowserContext() (context.Context, context.CancelFunc) {
	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[expa] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(s.cfg.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	return silentCtx, func() {
		cancelSilent()
		cancelAlloc()
	}
}

func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	candidates := []string{
		"google-chrome", "chromium", "chromium-browser", "chrome",
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}

// ParseCountryTable extracts the LC statistics table from a country page and
// joins the country name and region onto every row. Rows without data cells
// (header rows) are skipped; cell-count validation against the fixed schema
// is the normalizer's responsibility.
func ParseCountryTable(html string, country models.Country) (models.RawTable, error) {
	table := models.RawTable{
		CountryName:   country.Name,
		CountryRegion: country.Region,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return table, fmt.Errorf("parse %s: %w", country.Name, err)
	}

	sel := doc.Find("table#" + tableID)
	if sel.Length() == 0 {
		return table, fmt.Errorf("parse %s: no table with id=%q", country.Name, tableID)
	}

	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		row := make([]string, 0, cells.Length()+2)
		row = append(row, country.Name, country.Region)
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		table.Rows = append(table.Rows, row)
	})

	return table, nil
}
