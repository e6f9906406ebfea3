package predictor

import "math/rand"

// RandomForest is an ensemble of regression trees, each fit on a bootstrap
// sample of the training set. A fixed seed keeps fits reproducible.
type RandomForest struct {
	NumTrees int
	MaxDepth int
	Seed     int64
	Trees    []*Tree
}

func NewRandomForest(numTrees, maxDepth int, seed int64) *RandomForest {
	return &RandomForest{NumTrees: numTrees, MaxDepth: maxDepth, Seed: seed}
}

func (f *RandomForest) Fit(X [][]float64, y []float64) {
	rng := rand.New(rand.NewSource(f.Seed))
	n := len(X)

	f.Trees = make([]*Tree, 0, f.NumTrees)
	for t := 0; t < f.NumTrees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		f.Trees = append(f.Trees, fitTree(X, y, sample, f.MaxDepth))
	}
}

func (f *RandomForest) Predict(X [][]float64) []float64 {
	preds := make([]float64, len(X))
	for i, row := range X {
		var sum float64
		for _, t := range f.Trees {
			sum += t.predictRow(row)
		}
		preds[i] = sum / float64(len(f.Trees))
	}
	return preds
}

func (f *RandomForest) FeatureImportances() []float64 {
	if len(f.Trees) == 0 {
		return nil
	}
	total := make([]float64, len(f.Trees[0].Importances))
	for _, t := range f.Trees {
		for i, v := range t.Importances {
			total[i] += v
		}
	}
	return normalize(total)
}

// normalize scales importances to sum to one.
func normalize(importances []float64) []float64 {
	var sum float64
	for _, v := range importances {
		sum += v
	}
	if sum == 0 {
		return importances
	}
	out := make([]float64, len(importances))
	for i, v := range importances {
		out[i] = v / sum
	}
	return out
}
