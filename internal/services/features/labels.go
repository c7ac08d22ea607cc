package features

import "StockPulse/internal/domain/models"

// Label thresholds on the forward 5-day return.
const (
	LabelHorizon  = 5
	BuyThreshold  = 0.02
	SellThreshold = -0.02
)

// Labels assigns the three-way target from the forward 5-day return of the
// row's close price: BUY above +2%, SELL below -2%, HOLD otherwise. The last
// LabelHorizon rows have no defined future and get -1; they are excluded from
// training but are exactly the rows live prediction runs on.
func Labels(rows []models.FeatureRow) []int {
	out := make([]int, len(rows))
	for i := range rows {
		if i+LabelHorizon >= len(rows) || rows[i].Close == 0 {
			out[i] = -1
			continue
		}
		fwd := (rows[i+LabelHorizon].Close - rows[i].Close) / rows[i].Close
		switch {
		case fwd > BuyThreshold:
			out[i] = models.LabelBuy
		case fwd < SellThreshold:
			out[i] = models.LabelSell
		default:
			out[i] = models.LabelHold
		}
	}
	return out
}

// Labeled filters rows and labels down to those with a defined label. This
// drops the unlabeled tail and any interior row whose label is undefined, so
// -1 never reaches training or the class count.
func Labeled(rows []models.FeatureRow, labels []int) ([]models.FeatureRow, []int) {
	outRows := make([]models.FeatureRow, 0, len(rows))
	outLabels := make([]int, 0, len(labels))
	for i := range rows {
		if labels[i] == -1 {
			continue
		}
		outRows = append(outRows, rows[i])
		outLabels = append(outLabels, labels[i])
	}
	return outRows, outLabels
}
