package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pkordes/travel-journal/internal/domain"
)

const (
	// DefaultNominatimURL is the public Nominatim search endpoint.
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	// DefaultUserAgent identifies the app as Nominatim's usage policy requires.
	DefaultUserAgent = "travel-journal/1.0 (https://github.com/pkordes/travel-journal)"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// Requests are limited client-side; the public instance allows one per second.
type NominatimProvider struct {
	client    HTTPClient
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	log       *slog.Logger
}

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// nominatimResponse is one element of the JSON array Nominatim returns.
type nominatimResponse struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

// NominatimConfig configures a NominatimProvider. Zero fields take defaults.
type NominatimConfig struct {
	Client    HTTPClient // defaults to an *http.Client with a 10s timeout
	BaseURL   string     // defaults to DefaultNominatimURL
	UserAgent string     // defaults to DefaultUserAgent
	Rate      float64    // requests per second, defaults to 1
	Logger    *slog.Logger
}

// NewNominatimProvider creates a new Nominatim geocoding provider.
func NewNominatimProvider(cfg NominatimConfig) *NominatimProvider {
	const timeout = 10 * time.Second
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: timeout}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &NominatimProvider{
		client:    cfg.Client,
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(cfg.Rate), 1),
		log:       cfg.Logger,
	}
}

// Geocode converts a query to coordinates rounded to four decimals.
//
// When the full query finds nothing, progressively shorter comma-separated
// prefixes are tried, down to the first component ("Kyoto, Japan" falls back
// to "Kyoto"). Any other failure stops the search.
func (np *NominatimProvider) Geocode(ctx context.Context, query string) (*domain.Coordinates, error) {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "query", query)

	variations := queryFallbacks(query)
	if len(variations) == 0 {
		return nil, fmt.Errorf("geocoding.NominatimProvider.Geocode: %w: empty query", domain.ErrLookupFailed)
	}

	for idx, v := range variations {
		coords, err := np.geocodeSingle(ctx, v)
		if err == nil {
			if idx > 0 {
				np.log.InfoContext(ctx, "Geocoded using fallback query",
					"original", query,
					"fallback", v,
					"fallback_level", idx)
			}
			return coords, nil
		}
		if !errors.Is(err, ErrNominatimEmptyResponse) {
			return nil, fmt.Errorf("geocoding.NominatimProvider.Geocode: %w: %w", domain.ErrLookupFailed, err)
		}
		np.log.DebugContext(ctx, "Query variation returned no results", "variation", v, "fallback_level", idx)
	}

	np.log.WarnContext(ctx, "All query fallbacks exhausted", "query", query, "variations_tried", len(variations))
	return nil, fmt.Errorf("geocoding.NominatimProvider.Geocode: %w: %w", domain.ErrLookupFailed, ErrNominatimEmptyResponse)
}

// queryFallbacks returns query followed by its shorter comma-separated
// prefixes, without duplicates or empty entries.
func queryFallbacks(query string) []string {
	parts := strings.Split(query, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	seen := make(map[string]bool)
	var out []string
	for n := len(parts); n >= 1; n-- {
		v := strings.Join(parts[:n], ", ")
		v = strings.Trim(v, ", ")
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// geocodeSingle performs one rate-limited request without fallback logic.
func (np *NominatimProvider) geocodeSingle(ctx context.Context, query string) (*domain.Coordinates, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	q := reqURL.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", np.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d", resp.StatusCode)
	}

	var results []nominatimResponse
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNominatimEmptyResponse
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %q", ErrNominatimInvalidCoords, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %q", ErrNominatimInvalidCoords, results[0].Lon)
	}
	c := domain.Coordinates{Latitude: round4(lat), Longitude: round4(lon)}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: out of range: %v", ErrNominatimInvalidCoords, c)
	}
	return &c, nil
}
