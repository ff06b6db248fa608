package model

// PriceChange is the move of the latest close against an earlier close.
type PriceChange struct {
	Period  string  `json:"period" yaml:"period"`
	Base    float64 `json:"base" yaml:"base"`
	Change  float64 `json:"change" yaml:"change"`
	Percent float64 `json:"change_percent" yaml:"change_percent"`
}

// Quote is the latest daily close of a symbol with its trailing changes.
// Periods without enough history are left out of Changes.
type Quote struct {
	Ticker  string        `json:"ticker" yaml:"ticker"`
	Price   float64       `json:"price" yaml:"price"`
	AsOf    string        `json:"as_of" yaml:"as_of"`
	Source  string        `json:"source" yaml:"source"`
	Changes []PriceChange `json:"changes" yaml:"changes"`
}

// ChartPoint is one daily close and volume.
type ChartPoint struct {
	Date   string  `json:"date" yaml:"date"`
	Price  float64 `json:"price" yaml:"price"`
	Volume float64 `json:"volume" yaml:"volume"`
}

// Chart is the close history of a symbol over a named period.
type Chart struct {
	Ticker string       `json:"ticker" yaml:"ticker"`
	Period string       `json:"period" yaml:"period"`
	Source string       `json:"source" yaml:"source"`
	Points []ChartPoint `json:"points" yaml:"points"`
}
