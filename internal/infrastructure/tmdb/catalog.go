package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/DRSN-tech/film-indexer/internal/cfg"
	"github.com/DRSN-tech/film-indexer/internal/domain"
	"github.com/DRSN-tech/film-indexer/internal/usecase"
	"github.com/DRSN-tech/film-indexer/pkg/e"
	"github.com/DRSN-tech/film-indexer/pkg/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Catalog клиент discover-эндпоинта TMDB
type Catalog struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  logger.Logger
}

type discoverResponse struct {
	Page    int           `json:"page"`
	Results []domain.Film `json:"results"`
}

// NewCatalog создаёт клиент. Если client == nil, используется http.Client с otelhttp-транспортом.
func NewCatalog(client *http.Client, cfg *cfg.CatalogCfg, logger logger.Logger) *Catalog {
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	return &Catalog{
		client:  client,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.ApiKey,
		logger:  logger,
	}
}

// Discover запрашивает первую страницу самых популярных англоязычных фильмов за год.
func (c *Catalog) Discover(ctx context.Context, year string) (*usecase.DiscoverRes, error) {
	const op = "Catalog.Discover"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.discoverURL(year), nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.NewPublic(e.ErrCatalogUnavailable, ""), err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.NewPublic(e.ErrCatalogUnavailable, ""), err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warnf("catalog responded with status %d for year %s", resp.StatusCode, year)
		return nil, e.Wrap(op, fmt.Errorf("%w: status %d", e.NewPublic(e.ErrCatalogUnavailable, ""), resp.StatusCode))
	}

	var parsed discoverResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, e.Wrap(op, fmt.Errorf("%w: %w", e.NewPublic(e.ErrCatalogUnavailable, ""), err))
	}

	return usecase.NewDiscoverRes(parsed.Results, body), nil
}

func (c *Catalog) discoverURL(year string) string {
	q := url.Values{}
	q.Set("include_adult", "false")
	q.Set("include_video", "false")
	q.Set("language", "en-US")
	q.Set("page", "1")
	q.Set("primary_release_year", year)
	q.Set("region", "US")
	q.Set("sort_by", "popularity.desc")
	q.Set("watch_region", "US")
	q.Set("with_original_language", "en")

	return c.baseURL + "/discover/movie?" + q.Encode()
}
