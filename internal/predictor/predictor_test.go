package predictor

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housemetrics/server/internal/features"
	"housemetrics/server/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// trainingSet builds a deterministic synthetic set where the price is a
// simple function of square footage.
func trainingSet(t *testing.T, n int) *features.Set {
	t.Helper()

	properties := make([]models.Property, n)
	for i := range properties {
		sqft := 1000 + (i%40)*50
		price := 50000 + 200*sqft
		properties[i] = models.Property{
			SalePrice:     intPtr(price),
			Bedrooms:      intPtr(2 + i%4),
			Bathrooms:     floatPtr(1.5 + float64(i%3)),
			SquareFootage: intPtr(sqft),
			YearBuilt:     intPtr(1960 + i%60),
			LandValue:     intPtr(100000 + (i%10)*5000),
			BldgValue:     intPtr(200000 + (i%10)*10000),
			GarageSqft:    intPtr(200 + (i%5)*100),
		}
	}

	set := features.Engineer(properties, 2025)
	require.Len(t, set.X, n)
	return set
}

func TestTrainRequiresMinimumRows(t *testing.T) {
	p := New(KindRandomForest, logrus.New())

	_, err := p.Train(trainingSet(t, 49))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.False(t, p.Trained())

	metrics, err := p.Train(trainingSet(t, 50))
	require.NoError(t, err)
	assert.True(t, p.Trained())
	assert.Equal(t, 40, metrics.TrainingSamples)
	assert.Equal(t, 10, metrics.TestSamples)
	assert.Equal(t, len(features.Names()), metrics.FeatureCount)
}

func TestTrainUnknownKind(t *testing.T) {
	p := New("neural_net", logrus.New())
	_, err := p.Train(trainingSet(t, 60))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model type")
}

func TestTrainIsDeterministic(t *testing.T) {
	set := trainingSet(t, 80)
	row := set.X[3]

	for _, kind := range []string{KindRandomForest, KindGradientBoosting, KindLinear} {
		first := New(kind, logrus.New())
		second := New(kind, logrus.New())

		_, err := first.Train(set)
		require.NoError(t, err, kind)
		_, err = second.Train(set)
		require.NoError(t, err, kind)

		a, err := first.PredictBatch(set.Columns, [][]float64{row})
		require.NoError(t, err, kind)
		b, err := second.PredictBatch(set.Columns, [][]float64{row})
		require.NoError(t, err, kind)
		assert.Equal(t, a[0], b[0], kind)
		assert.False(t, math.IsNaN(a[0]), kind)
	}
}

func TestForestPredictsWithinTargetRange(t *testing.T) {
	set := trainingSet(t, 80)
	p := New(KindRandomForest, logrus.New())
	_, err := p.Train(set)
	require.NoError(t, err)

	minY, maxY := set.Y[0], set.Y[0]
	for _, y := range set.Y {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	preds, err := p.PredictBatch(set.Columns, set.X)
	require.NoError(t, err)
	for _, pred := range preds {
		assert.GreaterOrEqual(t, pred, minY)
		assert.LessOrEqual(t, pred, maxY)
	}
}

func TestPredictUntrained(t *testing.T) {
	p := New(KindRandomForest, logrus.New())

	_, err := p.PredictBatch(features.Names(), [][]float64{make([]float64, 12)})
	assert.ErrorIs(t, err, ErrNotTrained)

	_, err = p.PredictSingle(models.PropertyPredictionRequest{
		Bedrooms: 3, Bathrooms: 2, SquareFootage: 2000, YearBuilt: 2000,
	}, 2025)
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestPredictBatchMissingColumn(t *testing.T) {
	p := New(KindRandomForest, logrus.New())
	_, err := p.Train(trainingSet(t, 60))
	require.NoError(t, err)

	_, err = p.PredictBatch([]string{"bedrooms"}, [][]float64{{3}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing trained feature")
}

func TestPredictSingle(t *testing.T) {
	p := New(KindRandomForest, logrus.New())
	_, err := p.Train(trainingSet(t, 80))
	require.NoError(t, err)

	resp, err := p.PredictSingle(models.PropertyPredictionRequest{
		Bedrooms:      3,
		Bathrooms:     2.5,
		SquareFootage: 2000,
		YearBuilt:     1995,
		LandValue:     intPtr(120000),
		BldgValue:     intPtr(250000),
		GarageSqft:    intPtr(400),
	}, 2025)
	require.NoError(t, err)

	assert.Greater(t, resp.PredictedPrice, 0)
	assert.Equal(t, KindRandomForest, resp.ModelType)
	assert.Equal(t, features.Names(), resp.FeaturesUsed)
	assert.GreaterOrEqual(t, resp.Confidence, 0.5)
	assert.LessOrEqual(t, resp.Confidence, 0.95)
}

func TestConfidenceClamp(t *testing.T) {
	p := New(KindRandomForest, logrus.New())

	// Before any training there is no held-out evaluation to trust.
	assert.Equal(t, 0.7, p.Confidence())

	p.metrics = Metrics{R2: 0.99, TestSamples: 10}
	assert.Equal(t, 0.95, p.Confidence())

	p.metrics = Metrics{R2: -3.2, TestSamples: 10}
	assert.Equal(t, 0.5, p.Confidence())

	p.metrics = Metrics{R2: 0.82, TestSamples: 10}
	assert.Equal(t, 0.82, p.Confidence())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	set := trainingSet(t, 80)
	path := filepath.Join(t.TempDir(), "models", "model.gob")

	trained := New(KindGradientBoosting, logrus.New())
	_, err := trained.Train(set)
	require.NoError(t, err)
	require.NoError(t, trained.Save(path))

	loaded := New("", logrus.New())
	require.NoError(t, loaded.Load(path))

	assert.Equal(t, KindGradientBoosting, loaded.Kind())
	assert.Equal(t, trained.FeatureNames(), loaded.FeatureNames())
	assert.Equal(t, trained.Metrics(), loaded.Metrics())

	want, err := trained.PredictBatch(set.Columns, [][]float64{set.X[0]})
	require.NoError(t, err)
	got, err := loaded.PredictBatch(set.Columns, [][]float64{set.X[0]})
	require.NoError(t, err)
	assert.Equal(t, want[0], got[0])
}

func TestSaveUntrained(t *testing.T) {
	p := New(KindLinear, logrus.New())
	err := p.Save(filepath.Join(t.TempDir(), "model.gob"))
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestFeatureImportance(t *testing.T) {
	set := trainingSet(t, 80)

	forest := New(KindRandomForest, logrus.New())
	_, err := forest.Train(set)
	require.NoError(t, err)

	importance, err := forest.FeatureImportance()
	require.NoError(t, err)
	require.Len(t, importance, len(features.Names()))
	var sum float64
	for _, v := range importance {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	linear := New(KindLinear, logrus.New())
	_, err = linear.Train(set)
	require.NoError(t, err)
	_, err = linear.FeatureImportance()
	assert.Error(t, err)
}

func TestLinearRecoversTrend(t *testing.T) {
	set := trainingSet(t, 100)
	p := New(KindLinear, logrus.New())

	metrics, err := p.Train(set)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(metrics.R2))

	preds, err := p.PredictBatch(set.Columns, [][]float64{set.X[0]})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(preds[0]))
	assert.False(t, math.IsInf(preds[0], 0))
}
