package holdings

import (
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

const topN = 10

// Summarize computes size and concentration figures for a holdings list
func Summarize(holdings []Holding) Summary {
	summary := Summary{
		Count:        len(holdings),
		TotalWeight:  decimal.Zero,
		TopTenWeight: decimal.Zero,
	}
	if len(holdings) == 0 {
		return summary
	}

	weights := make([]decimal.Decimal, len(holdings))
	for i, h := range holdings {
		weights[i] = h.Weight
		summary.TotalWeight = summary.TotalWeight.Add(h.Weight)
	}

	sort.Slice(weights, func(i, j int) bool { return weights[i].GreaterThan(weights[j]) })
	for i := 0; i < len(weights) && i < topN; i++ {
		summary.TopTenWeight = summary.TopTenWeight.Add(weights[i])
	}

	total := summary.TotalWeight.InexactFloat64()
	if total <= 0 {
		return summary
	}

	shares := make([]float64, len(weights))
	for i, w := range weights {
		shares[i] = w.InexactFloat64()
	}
	floats.Scale(100/floats.Sum(shares), shares)
	summary.Herfindahl = floats.Dot(shares, shares)

	return summary
}
