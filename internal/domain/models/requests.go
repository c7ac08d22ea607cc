package models

// Requests for the HTTP endpoints. Defined in domain for consistency and reuse.

type PredictRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,min=1,max=20"`
}

type BacktestRequest struct {
	Ticker     string  `query:"ticker" json:"ticker" validate:"required,min=1,max=20"`
	Cash       float64 `json:"cash" default:"100000" validate:"gt=0"`
	Commission float64 `json:"commission" default:"0.002" validate:"gte=0,lt=0.1"`
}

type RecommendationsRequest struct {
	Tickers []string `json:"tickers" validate:"omitempty,dive,min=1,max=20"`
}
