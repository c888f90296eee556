package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"pricewatch/internal/application/port"
	"pricewatch/internal/domain"
)

const (
	DefaultBaseURL  = "https://api.coingecko.com"
	simplePricePath = "/api/v3/simple/price"
	maxBodyBytes    = 1 << 20
)

var (
	ErrUnexpectedStatus = errors.New("coingecko: unexpected status")
	ErrMalformedBody    = errors.New("coingecko: malformed body")
	ErrEmptySnapshot    = errors.New("coingecko: empty snapshot")
)

// Client CoinGecko simple/price REST 客户端。不做重试。
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithAPIKey sets the demo API key header sent with every request.
func (c *Client) WithAPIKey(key string) *Client {
	c.apiKey = strings.TrimSpace(key)
	return c
}

// Fetch 一次请求取回所有 coin/currency 的价格。
// 响应中缺失的组合不会出现在 Snapshot 中；传输错误、非 2xx、无法解析的响应都返回 error。
func (c *Client) Fetch(ctx context.Context, coins []domain.Coin, currencies []domain.Currency) (domain.Snapshot, error) {
	ids := make([]string, 0, len(coins))
	for _, coin := range coins {
		ids = append(ids, coin.ID)
	}
	codes := make([]string, 0, len(currencies))
	for _, cur := range currencies {
		codes = append(codes, cur.Code)
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", strings.Join(codes, ","))
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, simplePricePath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("coingecko read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, truncate(string(body), 200))
	}

	return parseSnapshot(body)
}

func parseSnapshot(body []byte) (domain.Snapshot, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptySnapshot
	}

	snap := make(domain.Snapshot, len(raw))
	for id, byCur := range raw {
		prices := make(map[string]decimal.Decimal, len(byCur))
		for code, v := range byCur {
			p, err := parsePrice(v)
			if err != nil {
				log.Warn().Err(err).Str("coin", id).Str("currency", code).Msg("skip invalid price")
				continue
			}
			prices[domain.NormalizeCode(code)] = p
		}
		snap[id] = prices
	}
	return snap, nil
}

func parsePrice(v json.RawMessage) (decimal.Decimal, error) {
	s := strings.Trim(strings.TrimSpace(string(v)), `"`)
	if s == "" || s == "null" {
		return decimal.Zero, errors.New("empty price")
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if p.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", s)
	}
	return p, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ port.PriceFetcher = (*Client)(nil)
