// Package quote looks up current asset prices from public quote services.
package quote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

// ErrUnavailable is returned when a source has no usable price for a symbol.
var ErrUnavailable = errors.New("price unavailable")

// DefaultTimeout bounds a single request when the context has no deadline.
const DefaultTimeout = 10 * time.Second

// Provider returns the current price of a ticker symbol.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Getter performs an HTTP GET. *fasthttp.Client satisfies it.
type Getter interface {
	GetTimeout(dst []byte, url string, timeout time.Duration) (statusCode int, body []byte, err error)
}

// NewClient returns the HTTP client used for quote lookups.
func NewClient() *fasthttp.Client {
	return &fasthttp.Client{
		Name:                "wtp-quote/1.0",
		ReadTimeout:         DefaultTimeout,
		WriteTimeout:        DefaultTimeout,
		MaxIdleConnDuration: 30 * time.Second,
	}
}

// JSONProvider fetches a JSON document and extracts the price with a
// JSONPath expression. URL may contain {symbol} and {apikey} placeholders.
type JSONProvider struct {
	ID     string
	URL    string
	Path   string
	APIKey string
	Client Getter
}

func (p *JSONProvider) Name() string { return p.ID }

func (p *JSONProvider) endpoint(symbol string) string {
	return strings.NewReplacer(
		"{symbol}", url.QueryEscape(symbol),
		"{apikey}", url.QueryEscape(p.APIKey),
	).Replace(p.URL)
}

func (p *JSONProvider) Lookup(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	timeout := DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return decimal.Zero, context.DeadlineExceeded
		}
	}

	status, body, err := p.Client.GetTimeout(nil, p.endpoint(symbol), timeout)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %s: %w: %v", p.ID, symbol, ErrUnavailable, err)
	}
	if status != fasthttp.StatusOK {
		return decimal.Zero, fmt.Errorf("%s %s: %w: HTTP %d", p.ID, symbol, ErrUnavailable, status)
	}
	price, err := ExtractPrice(body, p.Path)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %s: %w", p.ID, symbol, err)
	}
	return price, nil
}

// ExtractPrice evaluates path against a JSON body and returns a positive
// price. Numbers and numeric strings are both accepted.
func ExtractPrice(body []byte, path string) (decimal.Decimal, error) {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid JSON: %v", ErrUnavailable, err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}
	// a filter expression yields a list; keep the first match
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return decimal.Zero, fmt.Errorf("%w: %s matched nothing", ErrUnavailable, path)
		}
		jval = jlist[0]
	}

	var price decimal.Decimal
	switch v := jval.(type) {
	case float64:
		price = decimal.NewFromFloat(v)
	case string:
		price, err = decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrUnavailable, v)
		}
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected value %v", ErrUnavailable, jval)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive price %s", ErrUnavailable, price)
	}
	return price, nil
}

// Yahoo queries the Yahoo Finance chart endpoint.
func Yahoo(client Getter) *JSONProvider {
	return &JSONProvider{
		ID:     "yahoo",
		URL:    "https://query1.finance.yahoo.com/v8/finance/chart/{symbol}?interval=1d&range=1d",
		Path:   "$.chart.result[0].meta.regularMarketPrice",
		Client: client,
	}
}

// TwelveData queries the Twelve Data price endpoint with its demo key.
func TwelveData(client Getter) *JSONProvider {
	return &JSONProvider{
		ID:     "twelvedata",
		URL:    "https://api.twelvedata.com/price?symbol={symbol}&apikey=demo",
		Path:   "$.price",
		Client: client,
	}
}

// AlphaVantage queries the Alpha Vantage global quote endpoint.
func AlphaVantage(client Getter, apiKey string) *JSONProvider {
	return &JSONProvider{
		ID:     "alphavantage",
		URL:    "https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol={symbol}&apikey={apikey}",
		Path:   `$["Global Quote"]["05. price"]`,
		APIKey: apiKey,
		Client: client,
	}
}

// DefaultProviders returns the fallback order used by the planner. Alpha
// Vantage is only included when an API key was supplied.
func DefaultProviders(client Getter, apiKey string) []Provider {
	providers := []Provider{Yahoo(client), TwelveData(client)}
	if apiKey != "" {
		providers = append(providers, AlphaVantage(client, apiKey))
	}
	return providers
}
