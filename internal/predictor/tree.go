package predictor

import "sort"

// Node is one node of a fitted regression tree. Leaves have Feature == -1.
type Node struct {
	Feature   int
	Threshold float64
	Value     float64
	Left      *Node
	Right     *Node
}

// Tree is a CART-style regression tree fit by recursive variance-minimizing
// binary splits.
type Tree struct {
	Root        *Node
	MaxDepth    int
	Importances []float64
}

const minSamplesSplit = 2

func fitTree(X [][]float64, y []float64, indices []int, maxDepth int) *Tree {
	t := &Tree{MaxDepth: maxDepth}
	if len(X) > 0 {
		t.Importances = make([]float64, len(X[0]))
	}
	t.Root = t.build(X, y, indices, 0)
	return t
}

func (t *Tree) build(X [][]float64, y []float64, indices []int, depth int) *Node {
	node := &Node{Feature: -1, Value: meanAt(y, indices)}
	if depth >= t.MaxDepth || len(indices) < minSamplesSplit {
		return node
	}

	feature, threshold, gain, ok := bestSplit(X, y, indices)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range indices {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return node
	}

	t.Importances[feature] += gain

	node.Feature = feature
	node.Threshold = threshold
	node.Left = t.build(X, y, left, depth+1)
	node.Right = t.build(X, y, right, depth+1)
	return node
}

// bestSplit scans every feature for the threshold minimizing the summed
// squared error of the two children. Returns the impurity reduction as gain.
func bestSplit(X [][]float64, y []float64, indices []int) (feature int, threshold, gain float64, ok bool) {
	n := len(indices)
	var totalSum, totalSumSq float64
	for _, i := range indices {
		totalSum += y[i]
		totalSumSq += y[i] * y[i]
	}
	parentSSE := totalSumSq - totalSum*totalSum/float64(n)

	bestSSE := parentSSE
	order := make([]int, n)

	numFeatures := len(X[indices[0]])
	for f := 0; f < numFeatures; f++ {
		copy(order, indices)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		var leftSum, leftSumSq float64
		for pos := 0; pos < n-1; pos++ {
			i := order[pos]
			leftSum += y[i]
			leftSumSq += y[i] * y[i]

			// Only split between distinct feature values.
			if X[order[pos]][f] == X[order[pos+1]][f] {
				continue
			}

			nl := float64(pos + 1)
			nr := float64(n - pos - 1)
			rightSum := totalSum - leftSum
			rightSumSq := totalSumSq - leftSumSq
			sse := (leftSumSq - leftSum*leftSum/nl) + (rightSumSq - rightSum*rightSum/nr)

			if sse < bestSSE {
				bestSSE = sse
				feature = f
				threshold = (X[order[pos]][f] + X[order[pos+1]][f]) / 2
				ok = true
			}
		}
	}

	return feature, threshold, parentSSE - bestSSE, ok
}

func (t *Tree) predictRow(row []float64) float64 {
	node := t.Root
	for node.Feature >= 0 {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

func meanAt(y []float64, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	var sum float64
	for _, i := range indices {
		sum += y[i]
	}
	return sum / float64(len(indices))
}
