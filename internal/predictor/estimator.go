package predictor

import (
	"encoding/gob"
	"fmt"
)

// Estimator kinds selectable at construction time.
const (
	KindRandomForest     = "random_forest"
	KindGradientBoosting = "gradient_boosting"
	KindLinear           = "linear"
)

// Estimator is the strategy interface over the three regressor kinds.
// Implementations must be gob-serializable so a fitted estimator can travel
// inside the model artifact.
type Estimator interface {
	Fit(X [][]float64, y []float64)
	Predict(X [][]float64) []float64

	// FeatureImportances returns per-feature importance scores, or nil when
	// the estimator kind does not expose them.
	FeatureImportances() []float64
}

func init() {
	gob.Register(&RandomForest{})
	gob.Register(&GradientBoosting{})
	gob.Register(&Linear{})
}

// newEstimator builds an unfitted estimator of the given kind.
func newEstimator(kind string) (Estimator, error) {
	switch kind {
	case KindRandomForest:
		return NewRandomForest(100, 10, 42), nil
	case KindGradientBoosting:
		return NewGradientBoosting(100, 6, 0.1, 42), nil
	case KindLinear:
		return &Linear{}, nil
	default:
		return nil, fmt.Errorf("unknown model type: %s", kind)
	}
}
