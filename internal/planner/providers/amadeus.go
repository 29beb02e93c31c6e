package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	errx "github.com/stayconcierge/server/internal/core/error"
	"github.com/stayconcierge/server/internal/planner/model"
)

// FlightSearcher is the provider boundary the scheduler depends on.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, origin, destination, departureDate string, limit int) ([]model.FlightOffer, error)
}

// AmadeusClient talks to the Amadeus self-service flight offers API with
// OAuth2 client-credentials auth. The access token is cached until shortly
// before expiry.
type AmadeusClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewAmadeusClient(cfg model.AmadeusConfig) *AmadeusClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AmadeusClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type amadeusTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type amadeusErrorBody struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

type amadeusOffersResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Itineraries []struct {
			Duration string `json:"duration"`
			Segments []struct {
				Departure struct {
					IATACode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IATACode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Currency string `json:"currency"`
			Total    string `json:"total"`
		} `json:"price"`
	} `json:"data"`
	Dictionaries struct {
		Carriers map[string]string `json:"carriers"`
	} `json:"dictionaries"`
}

func (c *AmadeusClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("amadeus token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errx.NewProvider(errx.KindOther, "amadeus auth", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("amadeus token read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyAmadeusError(resp.StatusCode, body)
	}

	var tok amadeusTokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("amadeus token decode: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errx.NewProvider(errx.KindOther, "amadeus auth: empty token", nil)
	}

	c.accessToken = tok.AccessToken
	// Refresh 30s early so in-flight requests never carry a stale token.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - 30*time.Second)
	return c.accessToken, nil
}

// SearchFlights queries one-way offers for a route on a calendar date.
// Offers come back in provider order; callers sort.
func (c *AmadeusClient) SearchFlights(ctx context.Context, origin, destination, departureDate string, limit int) ([]model.FlightOffer, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("originLocationCode", origin)
	q.Set("destinationLocationCode", destination)
	q.Set("departureDate", departureDate)
	q.Set("adults", "1")
	if limit > 0 {
		q.Set("max", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v2/shopping/flight-offers?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("amadeus offers request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errx.NewProvider(errx.KindOther, "amadeus offers", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("amadeus offers read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyAmadeusError(resp.StatusCode, body)
	}

	var offers amadeusOffersResponse
	if err := json.Unmarshal(body, &offers); err != nil {
		return nil, fmt.Errorf("amadeus offers decode: %w", err)
	}

	out := make([]model.FlightOffer, 0, len(offers.Data))
	for _, d := range offers.Data {
		if len(d.Itineraries) == 0 || len(d.Itineraries[0].Segments) == 0 {
			continue
		}
		it := d.Itineraries[0]
		seg := it.Segments[0]
		last := it.Segments[len(it.Segments)-1]

		airline := offers.Dictionaries.Carriers[seg.CarrierCode]
		if airline == "" {
			airline = seg.CarrierCode
		}

		out = append(out, model.FlightOffer{
			ID:           d.ID,
			Airline:      airline,
			FlightNumber: seg.CarrierCode + seg.Number,
			Departure: model.FlightPoint{
				IATACode: seg.Departure.IATACode,
				At:       seg.Departure.At,
			},
			Arrival: model.FlightPoint{
				IATACode: last.Arrival.IATACode,
				At:       last.Arrival.At,
			},
			Duration: it.Duration,
			Price: model.FlightPrice{
				Currency: d.Price.Currency,
				Total:    d.Price.Total,
			},
		})
	}
	return out, nil
}

// Amadeus error codes that matter for scheduling: 38194 is the self-service
// quota limit, 425 is "invalid date" (past or out of range).
const (
	amadeusCodeRateLimit   = 38194
	amadeusCodeInvalidDate = 425
)

func classifyAmadeusError(status int, body []byte) error {
	var parsed amadeusErrorBody
	_ = json.Unmarshal(body, &parsed)

	detail := fmt.Sprintf("amadeus status %d", status)
	kind := errx.KindOther
	if status == http.StatusTooManyRequests {
		kind = errx.KindRateLimit
	}
	for _, e := range parsed.Errors {
		if e.Title != "" {
			detail = fmt.Sprintf("amadeus status %d: %s", status, e.Title)
		}
		switch e.Code {
		case amadeusCodeRateLimit:
			kind = errx.KindRateLimit
		case amadeusCodeInvalidDate:
			kind = errx.KindInvalidDate
		}
	}
	return errx.NewProvider(kind, detail, nil)
}
