package predictor

import "math"

// Metrics holds the held-out evaluation of a training run.
type Metrics struct {
	MAE             float64 `json:"mae"`
	MSE             float64 `json:"mse"`
	RMSE            float64 `json:"rmse"`
	R2              float64 `json:"r2"`
	MAPE            float64 `json:"mape"`
	TrainingSamples int     `json:"training_samples"`
	TestSamples     int     `json:"test_samples"`
	FeatureCount    int     `json:"feature_count"`
}

// evaluate computes the metric set over actual/predicted pairs. MAPE is not
// guarded against zero actuals; a zero-priced held-out row inflates it.
func evaluate(actual, predicted []float64) Metrics {
	n := float64(len(actual))

	var mae, mse, mape, actualSum float64
	for i := range actual {
		diff := actual[i] - predicted[i]
		mae += math.Abs(diff)
		mse += diff * diff
		mape += math.Abs(diff / actual[i])
		actualSum += actual[i]
	}
	mae /= n
	mse /= n
	mape = mape / n * 100

	mean := actualSum / n
	var ssRes, ssTot float64
	for i := range actual {
		ssRes += (actual[i] - predicted[i]) * (actual[i] - predicted[i])
		ssTot += (actual[i] - mean) * (actual[i] - mean)
	}
	r2 := 1 - ssRes/ssTot

	return Metrics{
		MAE:  mae,
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		R2:   r2,
		MAPE: mape,
	}
}
