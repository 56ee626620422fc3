// Package pokeapi is the location for the PokeAPI catalog client
package pokeapi

//go:generate mockgen -destination=mock/mock_client.go -package=pokeapimock github.com/KirkDiggler/pokedex/internal/clients/pokeapi Client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
)

// Client defines the interface for catalog lookups
type Client interface {
	// ListCreatures fetches the first limit creatures with full details.
	// Detail fetches that fail are dropped; the result is sorted by id.
	// Returns errors.Unavailable when the list itself cannot be fetched
	ListCreatures(ctx context.Context, limit int) ([]*entities.Creature, error)

	// GetCreature fetches one creature by dex number or name
	// Returns errors.NotFound for unknown creatures
	GetCreature(ctx context.Context, idOrName string) (*entities.Creature, error)

	// GetSpecies fetches species data from a species URL
	GetSpecies(ctx context.Context, speciesURL string) (*SpeciesData, error)

	// GetEvolutionChain resolves the species and fetches its evolution tree
	GetEvolutionChain(ctx context.Context, speciesURL string) (*entities.EvolutionChain, error)
}

// Config holds the configuration for the catalog client
type Config struct {
	BaseURL       string
	HTTPTimeout   time.Duration
	BatchSize     int
	MaxAttempts   int
	RetryInterval time.Duration
	// HTTPClient overrides the client built from HTTPTimeout
	HTTPClient *http.Client
	// Registerer receives the fetch counters; nil keeps them unregistered
	Registerer prometheus.Registerer
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://pokeapi.co/api/v2/"
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}

	vb := errors.NewValidationBuilder()
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		vb.InvalidField("base_url", err.Error())
	}
	errors.ValidateRange("batch_size", cfg.BatchSize, 1, 200, vb)
	errors.ValidateRange("max_attempts", cfg.MaxAttempts, 1, 10, vb)
	if cfg.HTTPTimeout < 0 {
		vb.InvalidField("http_timeout", "cannot be negative")
	}
	if cfg.RetryInterval < 0 {
		vb.InvalidField("retry_interval", "cannot be negative")
	}
	return vb.Build()
}

type client struct {
	baseURL       string
	http          *http.Client
	batchSize     int
	maxAttempts   int
	retryInterval time.Duration
	metrics       *Metrics
}

// New creates a new catalog client with the given configuration.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	metrics, err := NewMetrics(cfg.Registerer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to register catalog metrics")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &client{
		baseURL:       cfg.BaseURL,
		http:          httpClient,
		batchSize:     cfg.BatchSize,
		maxAttempts:   cfg.MaxAttempts,
		retryInterval: cfg.RetryInterval,
		metrics:       metrics,
	}, nil
}

func (c *client) ListCreatures(ctx context.Context, limit int) ([]*entities.Creature, error) {
	if limit <= 0 {
		return nil, errors.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	// Step 1: Get the reference list (just name/url), retrying transient failures
	slog.InfoContext(ctx, "Calling PokeAPI to list creatures", "limit", limit)
	var list listResponse
	listURL := fmt.Sprintf("%spokemon?limit=%d", c.baseURL, limit)
	if err := c.getWithRetry(ctx, resourceList, listURL, &list); err != nil {
		if errors.IsCanceled(err) || errors.IsDeadlineExceeded(err) {
			return nil, err
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list creatures")
	}
	slog.InfoContext(ctx, "Got creature references", "count", len(list.Results))

	// Step 2: Load details in batches, concurrently within each batch
	var (
		mu      sync.Mutex
		results = make([]*entities.Creature, 0, len(list.Results))
		dropped int
	)
	for start := 0; start < len(list.Results); start += c.batchSize {
		end := min(start+c.batchSize, len(list.Results))

		g, gctx := errgroup.WithContext(ctx)
		for _, ref := range list.Results[start:end] {
			g.Go(func() error {
				creature, err := c.fetchCreature(gctx, ref.URL)
				if err != nil {
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
					slog.WarnContext(gctx, "Failed to get creature details, dropping",
						"creature", ref.Name,
						"error", err)
					mu.Lock()
					dropped++
					mu.Unlock()
					return nil
				}

				mu.Lock()
				results = append(results, creature)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, errors.Wrap(err, "creature listing interrupted")
		}
	}

	if len(results) == 0 && len(list.Results) > 0 {
		return nil, errors.Unavailablef("all %d creature detail fetches failed", len(list.Results))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	slog.InfoContext(ctx, "Loaded creature details",
		"loaded", len(results),
		"dropped", dropped)
	return results, nil
}

func (c *client) GetCreature(ctx context.Context, idOrName string) (*entities.Creature, error) {
	key := strings.ToLower(strings.TrimSpace(idOrName))
	if key == "" {
		return nil, errors.InvalidArgument("creature id or name is required")
	}
	return c.fetchCreature(ctx, c.baseURL+"pokemon/"+url.PathEscape(key))
}

func (c *client) GetSpecies(ctx context.Context, speciesURL string) (*SpeciesData, error) {
	if speciesURL == "" {
		return nil, errors.InvalidArgument("species url is required")
	}

	var resp speciesResponse
	if err := c.getWithRetry(ctx, resourceSpecies, speciesURL, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to get species %s", speciesURL)
	}
	return resp.toData(), nil
}

func (c *client) GetEvolutionChain(ctx context.Context, speciesURL string) (*entities.EvolutionChain, error) {
	species, err := c.GetSpecies(ctx, speciesURL)
	if err != nil {
		return nil, err
	}
	if species.EvolutionChainURL == "" {
		return nil, errors.NotFoundf("species %s has no evolution chain", species.Name)
	}

	var resp evolutionChainResponse
	if err := c.getWithRetry(ctx, resourceEvolution, species.EvolutionChainURL, &resp); err != nil {
		return nil, errors.Wrapf(err, "failed to get evolution chain for %s", species.Name)
	}

	return &entities.EvolutionChain{
		ID:   resp.ID,
		Root: resp.Chain.toNode(),
	}, nil
}

func (c *client) fetchCreature(ctx context.Context, creatureURL string) (*entities.Creature, error) {
	var resp pokemonResponse
	if err := c.getJSON(ctx, resourceCreature, creatureURL, &resp); err != nil {
		c.metrics.observe(resourceCreature, outcomeError)
		return nil, err
	}
	c.metrics.observe(resourceCreature, outcomeSuccess)
	return resp.toEntity(), nil
}

// getWithRetry repeats retryable failures with exponential backoff, up to maxAttempts in total
func (c *client) getWithRetry(ctx context.Context, resource, target string, out any) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		err := c.getJSON(ctx, resource, target, out)
		if err == nil {
			return nil
		}
		if !errors.GetCode(err).Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.metrics.observe(resource, outcomeRetry)
		slog.WarnContext(ctx, "Retrying catalog request",
			"resource", resource,
			"attempt", attempt,
			"wait", wait,
			"error", err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxAttempts-1)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		c.metrics.observe(resource, outcomeError)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrap(ctxErr, "catalog request canceled")
		}
		return err
	}

	c.metrics.observe(resource, outcomeSuccess)
	return nil
}

func (c *client) getJSON(ctx context.Context, resource, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.InvalidArgumentf("invalid %s url %q: %v", resource, target, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "%s request aborted", resource)
		}
		return errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("%s request failed", resource))
	}
	defer func() { _ = resp.Body.Close() }()

	if code := errors.CodeFromHTTPStatus(resp.StatusCode); code != errors.CodeOK {
		return errors.Newf(code, "%s request returned %d", resource, resp.StatusCode).
			WithMeta("url", target).
			WithMeta("status", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.CodeDataLoss, fmt.Sprintf("failed to decode %s response", resource))
	}
	return nil
}
