package predictor

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"housemetrics/server/internal/features"
	"housemetrics/server/internal/models"
)

// minTrainingRows is the smallest usable training set after cleaning.
const minTrainingRows = 50

const (
	splitSeed    = 42
	testFraction = 0.2
)

var (
	ErrInsufficientData = errors.New("insufficient data for training")
	ErrNotTrained       = errors.New("model must be trained before making predictions")
)

// Predictor trains one regression estimator over engineered property
// features and serves price predictions from it. A Predictor moves from
// untrained to trained exactly once; construct a fresh instance to retrain.
// Concurrent reads of a trained instance are safe, concurrent retraining is
// not.
type Predictor struct {
	logger       *logrus.Logger
	kind         string
	estimator    Estimator
	scaler       *Scaler
	featureNames []string
	importance   map[string]float64
	metrics      Metrics
	trainedAt    time.Time
}

func New(kind string, logger *logrus.Logger) *Predictor {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Predictor{logger: logger, kind: kind}
}

func (p *Predictor) Trained() bool { return p.estimator != nil }

func (p *Predictor) Kind() string { return p.kind }

func (p *Predictor) FeatureNames() []string { return p.featureNames }

func (p *Predictor) Metrics() Metrics { return p.metrics }

func (p *Predictor) TrainedAt() time.Time { return p.trainedAt }

// FeatureImportance returns per-feature importance scores, or an error for
// estimator kinds that do not expose them or before training.
func (p *Predictor) FeatureImportance() (map[string]float64, error) {
	if p.importance == nil {
		return nil, errors.New("model must be trained to get feature importance")
	}
	return p.importance, nil
}

// Train fits the configured estimator on the engineered set: an 80/20
// seeded split, a standard scaler fit on the train split (consumed by the
// linear path only), and held-out evaluation metrics.
func (p *Predictor) Train(set *features.Set) (*Metrics, error) {
	n := len(set.X)
	if n < minTrainingRows {
		return nil, fmt.Errorf("%w: %d samples", ErrInsufficientData, n)
	}

	rng := rand.New(rand.NewSource(splitSeed))
	perm := rng.Perm(n)
	testCount := int(math.Ceil(testFraction * float64(n)))

	testIdx := perm[:testCount]
	trainIdx := perm[testCount:]

	XTrain, yTrain := subset(set.X, set.Y, trainIdx)
	XTest, yTest := subset(set.X, set.Y, testIdx)

	// The scaler is always fit for artifact symmetry across kinds, even
	// though the tree ensembles consume unscaled features.
	scaler := &Scaler{}
	XTrainScaled := scaler.FitTransform(XTrain)
	XTestScaled := scaler.Transform(XTest)

	estimator, err := newEstimator(p.kind)
	if err != nil {
		return nil, err
	}

	var predicted []float64
	if p.kind == KindLinear {
		estimator.Fit(XTrainScaled, yTrain)
		predicted = estimator.Predict(XTestScaled)
	} else {
		estimator.Fit(XTrain, yTrain)
		predicted = estimator.Predict(XTest)
	}

	metrics := evaluate(yTest, predicted)
	metrics.TrainingSamples = len(trainIdx)
	metrics.TestSamples = len(testIdx)
	metrics.FeatureCount = len(set.Columns)

	p.estimator = estimator
	p.scaler = scaler
	p.featureNames = append([]string(nil), set.Columns...)
	p.metrics = metrics
	p.trainedAt = time.Now()

	if raw := estimator.FeatureImportances(); raw != nil {
		p.importance = make(map[string]float64, len(raw))
		for i, name := range p.featureNames {
			p.importance[name] = raw[i]
		}
	}

	p.logger.WithFields(logrus.Fields{
		"model_type": p.kind,
		"r2":         metrics.R2,
		"rmse":       metrics.RMSE,
	}).Info("Model training completed")

	return &metrics, nil
}

// PredictBatch predicts one price per row. The table must already carry the
// trained feature columns; missing values are imputed with the current
// input batch's median.
func (p *Predictor) PredictBatch(columns []string, rows [][]float64) ([]float64, error) {
	if !p.Trained() {
		return nil, ErrNotTrained
	}

	colIdx := make(map[string]int, len(columns))
	for i, name := range columns {
		colIdx[name] = i
	}

	X := make([][]float64, len(rows))
	for i, row := range rows {
		ordered := make([]float64, len(p.featureNames))
		for j, name := range p.featureNames {
			idx, ok := colIdx[name]
			if !ok {
				return nil, fmt.Errorf("input is missing trained feature %q", name)
			}
			ordered[j] = row[idx]
		}
		X[i] = ordered
	}

	features.ImputeMedians(X)

	if p.kind == KindLinear {
		X = p.scaler.Transform(X)
	}
	return p.estimator.Predict(X), nil
}

// PredictSingle predicts a price for one property from raw characteristics.
// Absent optional values default to zero; price_per_sqft cannot be derived
// for a new property and is zero by construction.
func (p *Predictor) PredictSingle(req models.PropertyPredictionRequest, year int) (*models.PredictionResponse, error) {
	if !p.Trained() {
		return nil, ErrNotTrained
	}

	values := features.SingleRow(req, year)
	row := make([]float64, len(p.featureNames))
	for j, name := range p.featureNames {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("no value for trained feature %q", name)
		}
		row[j] = v
	}

	preds, err := p.PredictBatch(p.featureNames, [][]float64{row})
	if err != nil {
		return nil, err
	}

	return &models.PredictionResponse{
		PredictedPrice: int(preds[0]),
		Confidence:     p.Confidence(),
		FeaturesUsed:   p.featureNames,
		ModelType:      p.kind,
	}, nil
}

// Confidence clamps the stored coefficient of determination into
// [0.5, 0.95]. It is a heuristic score, not a prediction interval.
func (p *Predictor) Confidence() float64 {
	r2 := p.metrics.R2
	if p.metrics.TestSamples == 0 {
		r2 = 0.7
	}
	return math.Max(0.5, math.Min(0.95, r2))
}

func subset(X [][]float64, y []float64, indices []int) ([][]float64, []float64) {
	subX := make([][]float64, len(indices))
	subY := make([]float64, len(indices))
	for i, idx := range indices {
		subX[i] = X[idx]
		subY[i] = y[idx]
	}
	return subX, subY
}
