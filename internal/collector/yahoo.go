package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"StockInsight/internal/model"
)

// DefaultYahooEndpoint is the Yahoo Finance chart API base.
const DefaultYahooEndpoint = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Endpoint  string
	Client    *http.Client
	Limiter   *rate.Limiter
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Endpoint: DefaultYahooEndpoint,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency  string `json:"currency"`
				Symbol    string `json:"symbol"`
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// at returns values[i] and whether it holds a number; Yahoo sends null for
// fields it has no data for.
func at(values []interface{}, i int) (float64, bool) {
	if i >= len(values) {
		return 0, false
	}
	switch n := values[i].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// quoteBar builds bar i, or reports false when it has no close. Missing open,
// high or low prices are taken from the close.
func quoteBar(ts int64, opens, highs, lows, closes, volumes []interface{}, i int) (model.Bar, bool) {
	c, ok := at(closes, i)
	if !ok {
		return model.Bar{}, false
	}
	o, ok := at(opens, i)
	if !ok {
		o = c
	}
	h, ok := at(highs, i)
	if !ok {
		h = math.Max(o, c)
	}
	l, ok := at(lows, i)
	if !ok {
		l = math.Min(o, c)
	}
	v, _ := at(volumes, i)
	return model.Bar{
		Time:   time.Unix(ts, 0).UTC(),
		Open:   o,
		High:   h,
		Low:    l,
		Close:  c,
		Volume: v,
	}, true
}

// FetchBars fetches daily bars covering period.
func (f *YahooFetcher) FetchBars(ctx context.Context, symbol, period string) (*model.Series, error) {
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("yahoo rate limit: %w", err)
		}
	}

	u := fmt.Sprintf("%s/%s?interval=1d&range=%s",
		strings.TrimRight(f.Endpoint, "/"), url.PathEscape(f.yahooSymbol(symbol)), period)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		bar, ok := quoteBar(ts, quote.Open, quote.High, quote.Low, quote.Close, quote.Volume, i)
		if !ok {
			continue // holidays etc.
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}
	return &model.Series{
		Symbol:    symbol,
		Name:      name,
		Currency:  result.Meta.Currency,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}
