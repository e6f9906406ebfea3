package predictor

// GradientBoosting fits a sequence of shallow regression trees, each on the
// residuals of the ensemble so far, shrunk by the learning rate.
type GradientBoosting struct {
	NumStages    int
	MaxDepth     int
	LearningRate float64
	Seed         int64
	InitValue    float64
	Trees        []*Tree
}

func NewGradientBoosting(numStages, maxDepth int, learningRate float64, seed int64) *GradientBoosting {
	return &GradientBoosting{
		NumStages:    numStages,
		MaxDepth:     maxDepth,
		LearningRate: learningRate,
		Seed:         seed,
	}
}

func (g *GradientBoosting) Fit(X [][]float64, y []float64) {
	n := len(X)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	var initSum float64
	for _, v := range y {
		initSum += v
	}
	g.InitValue = initSum / float64(n)

	current := make([]float64, n)
	for i := range current {
		current[i] = g.InitValue
	}

	residuals := make([]float64, n)
	g.Trees = make([]*Tree, 0, g.NumStages)
	for stage := 0; stage < g.NumStages; stage++ {
		for i := range residuals {
			residuals[i] = y[i] - current[i]
		}
		tree := fitTree(X, residuals, indices, g.MaxDepth)
		g.Trees = append(g.Trees, tree)

		for i, row := range X {
			current[i] += g.LearningRate * tree.predictRow(row)
		}
	}
}

func (g *GradientBoosting) Predict(X [][]float64) []float64 {
	preds := make([]float64, len(X))
	for i, row := range X {
		pred := g.InitValue
		for _, t := range g.Trees {
			pred += g.LearningRate * t.predictRow(row)
		}
		preds[i] = pred
	}
	return preds
}

func (g *GradientBoosting) FeatureImportances() []float64 {
	if len(g.Trees) == 0 {
		return nil
	}
	total := make([]float64, len(g.Trees[0].Importances))
	for _, t := range g.Trees {
		for i, v := range t.Importances {
			total[i] += v
		}
	}
	return normalize(total)
}
