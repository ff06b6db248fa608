package calculator

import (
	"errors"
	"math"
)

// MarketModel is the fitted linear relation subject = Alpha + Beta*benchmark.
type MarketModel struct {
	Alpha float64
	Beta  float64
}

// Expected returns the model's predicted subject return.
func (m MarketModel) Expected(benchmark float64) float64 {
	return m.Alpha + m.Beta*benchmark
}

// FitMarketModel computes the closed-form OLS fit of y on x.
// A constant x gives Beta 0 and Alpha mean(y).
func FitMarketModel(x, y []float64) (MarketModel, error) {
	if len(x) != len(y) {
		return MarketModel{}, errors.New("regression inputs differ in length")
	}
	if len(x) == 0 {
		return MarketModel{}, errors.New("no observations for regression")
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var cov, varX float64
	for i := range x {
		dx := x[i] - meanX
		cov += dx * (y[i] - meanY)
		varX += dx * dx
	}

	if varX == 0 {
		return MarketModel{Alpha: meanY, Beta: 0}, nil
	}

	beta := cov / varX
	alpha := meanY - beta*meanX
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return MarketModel{}, errors.New("regression produced a non-finite coefficient")
	}
	return MarketModel{Alpha: alpha, Beta: beta}, nil
}

// FitEstimationWindow fits the market model over estimation-window rows.
func FitEstimationWindow(rows []AlignedReturn) (MarketModel, error) {
	return FitMarketModel(benchmarkReturns(rows), subjectReturns(rows))
}

// AbnormalReturns returns actual minus expected subject return per row.
func AbnormalReturns(m MarketModel, rows []AlignedReturn) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Subject - m.Expected(r.Benchmark)
	}
	return out
}

// CumulativeAbnormalReturn sums abnormal returns and expresses them in percent.
func CumulativeAbnormalReturn(abnormal []float64) float64 {
	sum := 0.0
	for _, v := range abnormal {
		sum += v
	}
	return sum * 100
}
