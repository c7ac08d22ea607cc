package backtest

import (
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/features"
)

// Predictor is the slice of a trained model the simulator needs.
type Predictor interface {
	Predict(x []float64) int
}

// Trade is one completed BUY -> SELL round trip.
type Trade struct {
	EntryDate  time.Time `json:"entry_date"`
	ExitDate   time.Time `json:"exit_date"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Quantity   float64   `json:"quantity"`
	PnL        float64   `json:"pnl"`
}

// EquityPoint is one day of the equity curve.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// Report summarizes a simulation run.
type Report struct {
	Ticker      string        `json:"ticker"`
	StartCash   float64       `json:"start_cash"`
	FinalEquity float64       `json:"final_equity"`
	TotalReturn float64       `json:"total_return"`
	TradeCount  int           `json:"trade_count"`
	WinRate     float64       `json:"win_rate"`
	MaxDrawdown float64       `json:"max_drawdown"`
	Commission  float64       `json:"commission"`
	Trades      []Trade       `json:"trades"`
	EquityCurve []EquityPoint `json:"equity_curve"`
}

// Simulator replays a feature matrix day-by-day through a trained model,
// turning predicted labels into position transitions against a cash account.
type Simulator struct {
	Cash       float64
	Commission float64 // per-trade rate, charged on entry and exit
}

// Run executes the replay. Position state machine per ticker:
// FLAT --BUY--> LONG --SELL--> FLAT; BUY while LONG and SELL while FLAT are
// no-ops; there is no short state.
func (s *Simulator) Run(rows []models.FeatureRow, model Predictor, schema []string) (*Report, error) {
	if len(rows) == 0 {
		return nil, models.ErrInsufficientHistory
	}
	if s.Cash <= 0 {
		return nil, fmt.Errorf("backtest: starting cash must be positive")
	}

	report := &Report{
		Ticker:      rows[0].Ticker,
		StartCash:   s.Cash,
		Commission:  s.Commission,
		EquityCurve: make([]EquityPoint, 0, len(rows)),
	}

	cash := s.Cash
	var qty float64 // >0 means LONG
	var entryPrice float64
	var entryDate time.Time
	peak := cash

	for _, row := range rows {
		x, err := features.Vector(row, schema)
		if err != nil {
			return nil, err
		}
		signal := model.Predict(x)
		price := row.Close

		switch {
		case signal == models.LabelBuy && qty == 0 && price > 0:
			// size the position to available cash, commission on entry
			qty = cash / (price * (1 + s.Commission))
			cash -= qty * price * (1 + s.Commission)
			entryPrice = price
			entryDate = row.Date
		case signal == models.LabelSell && qty > 0:
			proceeds := qty * price * (1 - s.Commission)
			cash += proceeds
			report.Trades = append(report.Trades, Trade{
				EntryDate:  entryDate,
				ExitDate:   row.Date,
				EntryPrice: entryPrice,
				ExitPrice:  price,
				Quantity:   qty,
				PnL:        proceeds - qty*entryPrice*(1+s.Commission),
			})
			qty = 0
		}

		equity := cash + qty*price
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			dd := (peak - equity) / peak
			if dd > report.MaxDrawdown {
				report.MaxDrawdown = dd
			}
		}
		report.EquityCurve = append(report.EquityCurve, EquityPoint{Date: row.Date, Equity: equity})
	}

	final := cash
	if qty > 0 {
		// mark open position to the last close, no exit commission since the
		// position was never closed
		final += qty * rows[len(rows)-1].Close
	}
	report.FinalEquity = final
	report.TotalReturn = (final - s.Cash) / s.Cash
	report.TradeCount = len(report.Trades)
	wins := 0
	for _, t := range report.Trades {
		if t.PnL > 0 {
			wins++
		}
	}
	if report.TradeCount > 0 {
		report.WinRate = float64(wins) / float64(report.TradeCount)
	}
	return report, nil
}
