package predictor

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes features to zero mean and unit variance. It is fit on
// the training split only and applied to both splits.
type Scaler struct {
	Mean []float64
	Std  []float64
}

func (s *Scaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	p := len(X[0])
	s.Mean = make([]float64, p)
	s.Std = make([]float64, p)

	col := make([]float64, len(X))
	for j := 0; j < p; j++ {
		for i, row := range X {
			col[i] = row[j]
		}
		s.Mean[j] = stat.Mean(col, nil)

		var variance float64
		for _, v := range col {
			d := v - s.Mean[j]
			variance += d * d
		}
		s.Std[j] = math.Sqrt(variance / float64(len(col)))
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
}

func (s *Scaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out
}

func (s *Scaler) FitTransform(X [][]float64) [][]float64 {
	s.Fit(X)
	return s.Transform(X)
}
