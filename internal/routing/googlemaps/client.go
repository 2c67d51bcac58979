// Package googlemaps provides a client for the Google Directions API.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ollav12/DAT251/internal/provider/resilience"
	"github.com/ollav12/DAT251/internal/routing"
)

const (
	// ProviderName identifies this directions provider.
	ProviderName = "googlemaps"

	// DefaultBaseURL is the Google Maps API base URL.
	DefaultBaseURL = "https://maps.googleapis.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// transitModes restricts TRANSIT directions to the vehicle categories
// the emission table can price sensibly.
var transitModes = []string{"bus", "subway", "tram", "rail", "train"}

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Google Maps client.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Directions API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Google Maps client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetRoutes retrieves candidate routes between two addresses for the
// given travel mode. A ZERO_RESULTS answer from the API is returned as
// an empty slice with a nil error.
func (c *Client) GetRoutes(ctx context.Context, origin, destination string, mode routing.TravelMode) ([]routing.Route, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("mode", string(mode))
	params.Set("alternatives", "true")
	params.Set("units", "metric")
	params.Set("key", c.apiKey)
	if mode == routing.ModeTransit {
		params.Set("transit_mode", strings.Join(transitModes, "|"))
	}

	reqURL := fmt.Sprintf("%s/maps/api/directions/json?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Str("mode", string(mode)).
		Msg("requesting directions from Google Maps")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach directions provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("directions provider returned status %d", resp.StatusCode),
			Err:      routing.ErrProviderUnavailable,
		}
	}

	var apiResp directionsResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	routes, err := c.handleStatus(&apiResp, mode)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("mode", string(mode)).
		Int("route_count", len(routes)).
		Msg("received directions from Google Maps")

	return routes, nil
}

// handleStatus maps the API status field to domain routes or errors.
// ZERO_RESULTS and NOT_FOUND are empty results, not failures.
func (c *Client) handleStatus(resp *directionsResponse, mode routing.TravelMode) ([]routing.Route, error) {
	switch resp.Status {
	case statusOK:
		return toRoutes(resp.Routes), nil
	case statusZeroResults, statusNotFound:
		c.logger.Debug().
			Str("mode", string(mode)).
			Str("status", resp.Status).
			Msg("no routes found")
		return nil, nil
	case statusOverQueryLimit:
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     resp.Status,
			Message:  "API quota exceeded, please try again later",
			Err:      routing.ErrQuotaExceeded,
		}
	case statusRequestDenied:
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     resp.Status,
			Message:  "API access denied - check API key configuration",
			Err:      routing.ErrAccessDenied,
		}
	case statusInvalidRequest:
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     resp.Status,
			Message:  firstNonEmpty(resp.ErrorMessage, "invalid directions request"),
			Err:      routing.ErrInvalidRequest,
		}
	default:
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     resp.Status,
			Message:  firstNonEmpty(resp.ErrorMessage, "directions provider is temporarily unavailable"),
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// toRoutes converts API routes to domain routes.
func toRoutes(apiRoutes []apiRoute) []routing.Route {
	routes := make([]routing.Route, 0, len(apiRoutes))

	for i := range apiRoutes {
		route := routing.Route{Summary: apiRoutes[i].Summary}

		for j := range apiRoutes[i].Legs {
			apiLeg := &apiRoutes[i].Legs[j]
			leg := routing.Leg{Steps: make([]routing.Step, 0, len(apiLeg.Steps))}

			for k := range apiLeg.Steps {
				apiStep := &apiLeg.Steps[k]
				step := routing.Step{
					DistanceMeters:  apiStep.Distance.Value,
					DurationSeconds: int64(apiStep.Duration.Value),
					Mode:            routing.TravelMode(strings.ToLower(apiStep.TravelMode)),
				}
				if apiStep.TransitDetails != nil {
					step.TransitVehicle = routing.TransitVehicle(apiStep.TransitDetails.Line.Vehicle.Type)
				}
				leg.Steps = append(leg.Steps, step)
			}

			route.Legs = append(route.Legs, leg)
		}

		routes = append(routes, route)
	}

	return routes
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
