package models

// Bar is one daily price bar for a symbol. AdjClose is the split- and
// dividend-adjusted close, used for total-return valuation.
type Bar struct {
	Date     Date
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}
