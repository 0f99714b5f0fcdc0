package jquants

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"stock-backtest-go/internal/config"
	"stock-backtest-go/internal/models"
)

const (
	defaultBaseURL = "https://api.jquants.com/v1"
	apiDateLayout  = "20060102"
)

// ClientInterface defines the interface for the J-Quants REST API client.
type ClientInterface interface {
	RefreshIDToken(ctx context.Context) error
	DailyQuotes(ctx context.Context, date time.Time) ([]models.PriceBar, error)
	DailyQuotesByCode(ctx context.Context, code string, from, to time.Time) ([]models.PriceBar, error)
	ListedInfo(ctx context.Context) ([]models.ListedInfo, error)
}

// Client is a client for the J-Quants REST API.
// It implements the ClientInterface.
type Client struct {
	client       *resty.Client
	refreshToken string
	idToken      string
	logger       *zap.Logger
	limiter      *rate.Limiter
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new J-Quants REST API client.
func NewClient(cfg *config.JQuants, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().SetBaseURL(baseURL)

	// The API allows <=3 requests per second; the limiter keeps us under.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:       client,
		refreshToken: cfg.RefreshToken,
		logger:       logger,
		limiter:      limiter,
	}
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 { // Server errors
				shouldRetry = true
			}
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		// If we should retry, calculate wait time
		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

// RefreshIDToken exchanges the configured refresh token for a fresh ID
// token. It must be called before any data endpoint.
func (c *Client) RefreshIDToken(ctx context.Context) error {
	type refreshResponse struct {
		IDToken string `json:"idToken"`
	}

	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"refreshToken": c.refreshToken}).
		SetResult(&refreshResponse{})

	resp, err := c.doRequest(ctx, "POST", "/token/auth_refresh", req)
	if err != nil {
		return fmt.Errorf("failed to refresh id token: %w", err)
	}

	result := resp.Result().(*refreshResponse)
	if result.IDToken == "" {
		return fmt.Errorf("idToken not found in auth_refresh response")
	}
	c.idToken = result.IDToken
	c.logger.Info("Refreshed J-Quants id token")
	return nil
}

// dailyQuote mirrors one row of the /prices/daily_quotes response.
// Only the adjusted fields are consumed; the simulation runs on
// adjusted prices throughout.
type dailyQuote struct {
	Code             string  `json:"Code"`
	Date             string  `json:"Date"`
	AdjustmentOpen   float64 `json:"AdjustmentOpen"`
	AdjustmentHigh   float64 `json:"AdjustmentHigh"`
	AdjustmentLow    float64 `json:"AdjustmentLow"`
	AdjustmentClose  float64 `json:"AdjustmentClose"`
	AdjustmentVolume float64 `json:"AdjustmentVolume"`
}

type dailyQuotesResponse struct {
	DailyQuotes   []dailyQuote `json:"daily_quotes"`
	PaginationKey string       `json:"pagination_key"`
}

// DailyQuotes fetches all bars for one trading day, following
// pagination_key until the API returns an empty page.
func (c *Client) DailyQuotes(ctx context.Context, date time.Time) ([]models.PriceBar, error) {
	return c.fetchQuotes(ctx, map[string]string{"date": date.Format(apiDateLayout)})
}

// DailyQuotesByCode fetches the bars for one code over a date range.
func (c *Client) DailyQuotesByCode(ctx context.Context, code string, from, to time.Time) ([]models.PriceBar, error) {
	return c.fetchQuotes(ctx, map[string]string{
		"code": code,
		"from": from.Format(apiDateLayout),
		"to":   to.Format(apiDateLayout),
	})
}

func (c *Client) fetchQuotes(ctx context.Context, params map[string]string) ([]models.PriceBar, error) {
	var bars []models.PriceBar
	paginationKey := ""
	seen := make(map[string]struct{})

	for {
		query := make(map[string]string, len(params)+1)
		for k, v := range params {
			query[k] = v
		}
		if paginationKey != "" {
			query["pagination_key"] = paginationKey
		}

		req := c.client.R().
			SetHeader("Authorization", "Bearer "+c.idToken).
			SetQueryParams(query).
			SetResult(&dailyQuotesResponse{})

		resp, err := c.doRequest(ctx, "GET", "/prices/daily_quotes", req)
		if err != nil {
			return nil, fmt.Errorf("failed to get daily quotes: %w", err)
		}

		result := resp.Result().(*dailyQuotesResponse)
		// Stop on an empty page even if a key came back; the API is
		// documented to occasionally return a key with no rows.
		if len(result.DailyQuotes) == 0 {
			break
		}

		for _, q := range result.DailyQuotes {
			bar, err := q.toPriceBar()
			if err != nil {
				c.logger.Warn("Skipping malformed quote row", zap.String("code", q.Code), zap.Error(err))
				continue
			}
			bars = append(bars, bar)
		}

		if result.PaginationKey == "" {
			break
		}
		if _, ok := seen[result.PaginationKey]; ok {
			c.logger.Warn("Repeated pagination key, stopping", zap.String("key", result.PaginationKey))
			break
		}
		seen[result.PaginationKey] = struct{}{}
		paginationKey = result.PaginationKey
	}

	return bars, nil
}

func (q dailyQuote) toPriceBar() (models.PriceBar, error) {
	date, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("invalid quote date %q: %w", q.Date, err)
	}
	return models.PriceBar{
		Code:   q.Code,
		Date:   date,
		Open:   q.AdjustmentOpen,
		High:   q.AdjustmentHigh,
		Low:    q.AdjustmentLow,
		Close:  q.AdjustmentClose,
		Volume: int64(q.AdjustmentVolume),
	}, nil
}

// listedRow mirrors one row of the /listed/info response.
type listedRow struct {
	Code         string `json:"Code"`
	CompanyName  string `json:"CompanyName"`
	MarketName   string `json:"MarketCodeName"`
	Sector33Name string `json:"Sector33CodeName"`
}

type listedInfoResponse struct {
	Info []listedRow `json:"info"`
}

// ListedInfo fetches the listed-company master.
func (c *Client) ListedInfo(ctx context.Context) ([]models.ListedInfo, error) {
	req := c.client.R().
		SetHeader("Authorization", "Bearer "+c.idToken).
		SetResult(&listedInfoResponse{})

	resp, err := c.doRequest(ctx, "GET", "/listed/info", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get listed info: %w", err)
	}

	result := resp.Result().(*listedInfoResponse)
	rows := make([]models.ListedInfo, 0, len(result.Info))
	for _, r := range result.Info {
		rows = append(rows, models.ListedInfo{
			Code:         r.Code,
			CompanyName:  r.CompanyName,
			MarketName:   r.MarketName,
			Sector33Name: r.Sector33Name,
		})
	}
	return rows, nil
}
