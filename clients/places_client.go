package clients

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

	"github.com/snap-point/directory-api/types"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	DefaultTimeout = 10 * time.Second

	// DefaultPhotoMaxWidth is used when PhotoURL is called with a
	// non-positive width.
	DefaultPhotoMaxWidth = 400
)

// DetailFields is the field mask requested from the details endpoint.
var DetailFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"formatted_phone_number",
	"website",
	"url",
	"geometry",
	"opening_hours",
	"photos",
	"rating",
	"user_ratings_total",
	"types",
}

// PlacesClient talks to the Google Places web service. It makes exactly one
// attempt per call.
type PlacesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a PlacesClient.
type Option func(*PlacesClient)

// WithBaseURL points the client at a different Places endpoint root.
func WithBaseURL(baseURL string) Option {
	return func(c *PlacesClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *PlacesClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *PlacesClient) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *PlacesClient) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewPlacesClient creates a new Google Places API client. An empty apiKey is
// accepted; every call then fails with types.ErrMissingProviderKey.
func NewPlacesClient(apiKey string, opts ...Option) *PlacesClient {
	c := &PlacesClient{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TextSearch runs a text search. ZERO_RESULTS is returned as an empty slice
// and a nil error.
func (c *PlacesClient) TextSearch(ctx context.Context, q types.ProviderQuery) ([]types.PlaceResult, error) {
	if c.apiKey == "" {
		return nil, types.ErrMissingProviderKey
	}

	params := url.Values{}
	params.Set("query", q.Text)
	if q.Location != "" {
		params.Set("location", q.Location)
		if q.Radius > 0 {
			params.Set("radius", strconv.Itoa(q.Radius))
		}
	}
	params.Set("key", c.apiKey)

	var result types.GooglePlacesResponse
	if err := c.get(ctx, "/textsearch/json", params, &result); err != nil {
		return nil, err
	}

	switch result.Status {
	case types.StatusOK:
		c.logger.Debug("places text search", "query", q.Text, "results", len(result.Results))
		return result.Results, nil
	case types.StatusZeroResults:
		c.logger.Debug("places text search returned no results", "query", q.Text)
		return []types.PlaceResult{}, nil
	default:
		return nil, statusError(result.Status, result.ErrorMessage)
	}
}

// Details fetches the detail record for a single place.
func (c *PlacesClient) Details(ctx context.Context, placeID string) (*types.PlaceDetails, error) {
	if c.apiKey == "" {
		return nil, types.ErrMissingProviderKey
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", strings.Join(DetailFields, ","))
	params.Set("key", c.apiKey)

	var result types.GooglePlaceDetailsResponse
	if err := c.get(ctx, "/details/json", params, &result); err != nil {
		return nil, err
	}

	switch result.Status {
	case types.StatusOK:
		return &result.Result, nil
	case types.StatusNotFound, types.StatusZeroResults:
		return nil, &types.ProviderError{
			Kind:    types.ErrProviderNotFound,
			Status:  result.Status,
			Message: result.ErrorMessage,
		}
	default:
		return nil, statusError(result.Status, result.ErrorMessage)
	}
}

// PhotoURL builds the photo endpoint URL for a photo reference. It returns an
// empty string when the reference or the API key is missing.
func (c *PlacesClient) PhotoURL(photoReference string, maxWidth int) string {
	if photoReference == "" || c.apiKey == "" {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = DefaultPhotoMaxWidth
	}

	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("photo_reference", photoReference)
	params.Set("key", c.apiKey)
	return c.baseURL + "/photo?" + params.Encode()
}

func (c *PlacesClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build places request: %w", redact(err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("places request failed", "path", path, "err", redact(err))
		return &types.ProviderError{Kind: types.ErrNetwork, Err: redact(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &types.ProviderError{
			Kind:    types.ErrProviderUnknownStatus,
			Status:  fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &types.ProviderError{
			Kind: types.ErrNetwork,
			Err:  fmt.Errorf("failed to parse places response: %w", err),
		}
	}
	return nil
}

func statusError(status, message string) error {
	kind := types.ErrProviderUnknownStatus
	if status == types.StatusRequestDenied {
		kind = types.ErrProviderAuth
	}
	return &types.ProviderError{Kind: kind, Status: status, Message: message}
}

// redact strips the request URL, which carries the API key, from transport
// errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
