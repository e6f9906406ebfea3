package predictor

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Artifact is the serialized form of a trained predictor. Everything the
// serving path needs travels in one blob.
type Artifact struct {
	Kind         string
	Estimator    Estimator
	Scaler       *Scaler
	FeatureNames []string
	Importance   map[string]float64
	Metrics      Metrics
	TrainedAt    time.Time
}

// Save writes the trained state as one atomic artifact file.
func (p *Predictor) Save(path string) error {
	if !p.Trained() {
		return ErrNotTrained
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create artifact file: %w", err)
	}

	artifact := Artifact{
		Kind:         p.kind,
		Estimator:    p.estimator,
		Scaler:       p.scaler,
		FeatureNames: p.featureNames,
		Importance:   p.importance,
		Metrics:      p.metrics,
		TrainedAt:    p.trainedAt,
	}
	if err := gob.NewEncoder(f).Encode(&artifact); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move model artifact into place: %w", err)
	}

	p.logger.WithField("path", path).Info("Model saved")
	return nil
}

// Load replaces the predictor's entire state, estimator kind included, with
// the artifact at path.
func (p *Predictor) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	var artifact Artifact
	if err := gob.NewDecoder(f).Decode(&artifact); err != nil {
		return fmt.Errorf("failed to decode model artifact: %w", err)
	}

	p.kind = artifact.Kind
	p.estimator = artifact.Estimator
	p.scaler = artifact.Scaler
	p.featureNames = artifact.FeatureNames
	p.importance = artifact.Importance
	p.metrics = artifact.Metrics
	p.trainedAt = artifact.TrainedAt

	p.logger.WithFields(logrus.Fields{
		"path":       path,
		"model_type": p.kind,
	}).Info("Model loaded")
	return nil
}
