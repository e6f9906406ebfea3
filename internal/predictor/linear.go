package predictor

import "gonum.org/v1/gonum/mat"

// Linear is an ordinary least-squares regressor. It expects scaled inputs;
// the predictor applies its scaler on this path only.
type Linear struct {
	Coefficients []float64
	Intercept    float64
}

func (l *Linear) Fit(X [][]float64, y []float64) {
	n := len(X)
	p := len(X[0])

	// Design matrix with a leading intercept column of ones.
	a := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	// The engineered columns are partly collinear (total_bathrooms repeats
	// bathrooms), so the design is rank deficient. An SVD minimum-norm
	// solve stays finite where a plain QR solve would not.
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		l.Coefficients = make([]float64, p)
		return
	}

	values := svd.Values(nil)
	rank := 0
	tol := 1e-10 * values[0]
	for _, v := range values {
		if v > tol {
			rank++
		}
	}

	beta := mat.NewVecDense(p+1, nil)
	svd.SolveVecTo(beta, b, rank)

	l.Intercept = beta.AtVec(0)
	l.Coefficients = make([]float64, p)
	for j := 0; j < p; j++ {
		l.Coefficients[j] = beta.AtVec(j + 1)
	}
}

func (l *Linear) Predict(X [][]float64) []float64 {
	preds := make([]float64, len(X))
	for i, row := range X {
		pred := l.Intercept
		for j, v := range row {
			pred += l.Coefficients[j] * v
		}
		preds[i] = pred
	}
	return preds
}

func (l *Linear) FeatureImportances() []float64 { return nil }
