package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/models"
)

const pageQuery = `*[_type == "page" && slug.current == $slug][0]{
  "slug": slug.current,
  title,
  description,
  sections[]{_key, _type, heading, subheading, bodyHtml, items[]{title, description, value}, cta{label, href}}
}`

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

type Options struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	// BaseURL overrides https://{project}.api.sanity.io.
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	CacheTTL   time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ProjectID:  cfg.CMSProjectID,
		Dataset:    cfg.CMSDataset,
		APIVersion: cfg.CMSAPIVersion,
		Token:      cfg.CMSToken,
		Timeout:    cfg.CMSFetchTimeout,
		MaxRetries: cfg.CMSMaxRetries,
		CacheTTL:   cfg.CMSCacheTTL,
	}
}

// Client reads pages from the hosted content API and falls back to built-in copy.
type Client struct {
	opts       Options
	httpClient *http.Client
	cache      *redis.Client
	log        *zap.Logger
}

func NewClient(opts Options, cache *redis.Client, log *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.BaseURL == "" && opts.ProjectID != "" {
		opts.BaseURL = fmt.Sprintf("https://%s.api.sanity.io", opts.ProjectID)
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		cache:      cache,
		log:        log,
	}
}

func (c *Client) Enabled() bool {
	return c.opts.ProjectID != ""
}

// Page resolves a slug: cache, then CMS, then the fallback literal. Unknown slugs are ErrNotFound.
func (c *Client) Page(ctx context.Context, slug string) (*Page, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return nil, models.ErrNotFound
	}

	if cached := c.cached(ctx, slug); cached != nil {
		return cached, nil
	}

	if c.Enabled() {
		page, err := c.fetch(ctx, slug)
		switch {
		case err != nil:
			c.log.Warn("cms fetch failed, using fallback", zap.String("slug", slug), zap.Error(err))
		case page != nil:
			page.Source = SourceCMS
			if page.Slug == "" {
				page.Slug = slug
			}
			prepare(page)
			c.store(ctx, slug, page)
			return page, nil
		}
	}

	fb, ok := fallbackPage(slug)
	if !ok {
		return nil, models.ErrNotFound
	}
	prepare(&fb)
	return &fb, nil
}

func (c *Client) Pages() []PageRef {
	return KnownPages()
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

func (c *Client) fetch(ctx context.Context, slug string) (*Page, error) {
	params := url.Values{}
	params.Set("query", pageQuery)
	params.Set("$slug", fmt.Sprintf("%q", slug))
	endpoint := fmt.Sprintf("%s/v%s/query/%s?%s", c.opts.BaseURL, c.opts.APIVersion, c.opts.Dataset, params.Encode())

	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.opts.RetryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.opts.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.Token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, slug)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				break
			}
			continue
		}

		var body queryResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("decode response: %w", err)
			continue
		}

		if len(body.Result) == 0 || string(body.Result) == "null" {
			return nil, nil
		}
		var page Page
		if err := json.Unmarshal(body.Result, &page); err != nil {
			return nil, fmt.Errorf("decode page: %w", err)
		}
		return &page, nil
	}

	return nil, lastErr
}

func cacheKey(slug string) string {
	return "cms:page:" + slug
}

func (c *Client) cached(ctx context.Context, slug string) *Page {
	if c.cache == nil || c.opts.CacheTTL <= 0 {
		return nil
	}
	data, err := c.cache.Get(ctx, cacheKey(slug)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug("cms cache read failed", zap.Error(err))
		}
		return nil
	}
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil
	}
	return &page
}

func (c *Client) store(ctx context.Context, slug string, page *Page) {
	if c.cache == nil || c.opts.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey(slug), data, c.opts.CacheTTL).Err(); err != nil {
		c.log.Debug("cms cache write failed", zap.Error(err))
	}
}
