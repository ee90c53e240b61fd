package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/set-cross/internal/candle"
	"github.com/amirphl/set-cross/internal/tfutils"
	"github.com/amirphl/set-cross/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultYahooBaseURL = "https://query1.finance.yahoo.com"
	// DefaultSuffix is the Yahoo exchange suffix of the Stock Exchange of Thailand.
	DefaultSuffix = ".BK"
)

// YahooSource reads the Yahoo Finance chart endpoint.
type YahooSource struct {
	BaseURL  string
	Suffix   string
	Interval string
	Client   *http.Client
}

func NewYahooSource(suffix, interval string) *YahooSource {
	if interval == "" {
		interval = "1d"
	}
	return &YahooSource{
		BaseURL:  DefaultYahooBaseURL,
		Suffix:   suffix,
		Interval: interval,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (y *YahooSource) Name() string { return "yahoo" }

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *YahooSource) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]candle.Candle, error) {
	interval := tfutils.YahooInterval(y.Interval)
	if interval == "" {
		return nil, fmt.Errorf("unsupported interval: %s", y.Interval)
	}
	bound := until(end)
	if !start.Before(bound) {
		return nil, fmt.Errorf("start %s is not before end %s", start.Format(candle.DateLayout), end.Format(candle.DateLayout))
	}

	ticker := strings.ToUpper(symbol)
	if y.Suffix != "" && !strings.HasSuffix(ticker, strings.ToUpper(y.Suffix)) {
		ticker += strings.ToUpper(y.Suffix)
	}

	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(bound.Unix(), 10))
	q.Set("interval", interval)
	q.Set("events", "history")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", strings.TrimRight(y.BaseURL, "/"), url.PathEscape(ticker), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	utils.GetLogger().Debug("Market | fetching history",
		zap.String("source", y.Name()),
		zap.String("ticker", ticker),
		zap.Time("start", start),
		zap.Time("until", bound))

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	var chart yahooChart
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decoding %s (status %d): %w", ticker, resp.StatusCode, err)
	}
	if e := chart.Chart.Error; e != nil {
		return nil, fmt.Errorf("%w: %s: %s: %s", ErrNoData, ticker, e.Code, e.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", ticker, resp.StatusCode)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	res := chart.Chart.Result[0]
	quote := res.Indicators.Quote[0]
	candles := make([]candle.Candle, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		open, high, low, cl := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if open == nil || high == nil || low == nil || cl == nil {
			continue
		}
		var volume float64
		if v := at(quote.Volume, i); v != nil {
			volume = *v
		}
		// Bars are stamped at the session open; shift to exchange time so the
		// calendar date matches the trading day.
		local := time.Unix(ts+res.Meta.GMTOffset, 0).UTC()
		candles = append(candles, candle.Candle{
			Date:   time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			Open:   *open,
			High:   *high,
			Low:    *low,
			Close:  *cl,
			Volume: volume,
			Symbol: symbol,
			Source: y.Name(),
		})
	}

	candles = finalize(candles, bound)
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}
	return candles, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
