package yahoo

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"StockPulse/internal/domain/models"
	domsvc "StockPulse/internal/domain/service"
)

// Client implements PriceSource backed by the Yahoo Finance chart API.
type Client struct{}

func New() *Client { return &Client{} }

// DailyBars fetches one daily bar per trading day in [from, to]. An empty
// result for a delisted or unknown symbol is returned as-is ("no data", not
// an error).
func (c *Client) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	p := &chart.Params{
		Params:   finance.Params{Context: &ctx},
		Symbol:   symbol,
		Interval: datetime.OneDay,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
	}

	iter := chart.Get(p)
	out := make([]models.PriceBar, 0, 256)
	for iter.Next() {
		b := iter.Bar()
		open, _ := b.Open.Float64()
		high, _ := b.High.Float64()
		low, _ := b.Low.Float64()
		closeP, _ := b.Close.Float64()
		out = append(out, models.PriceBar{
			Ticker: symbol,
			Date:   time.Unix(int64(b.Timestamp), 0).UTC().Truncate(24 * time.Hour),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closeP,
			Volume: float64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: yahoo chart %s: %v", models.ErrUpstreamUnavailable, symbol, err)
	}
	return out, nil
}

var _ domsvc.PriceSource = (*Client)(nil)
