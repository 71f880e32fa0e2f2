// Package xgboost evaluates XGBoost gradient-boosted tree models saved in JSON format.
// Only inference is supported; the loaded model is immutable and safe for concurrent use.
package xgboost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/kailas-cloud/soilsense/internal/domain"
)

// Objective is the learning task the model was trained for.
type Objective string

// Supported objectives.
const (
	BinaryLogistic Objective = "binary:logistic"
	BinaryLogitRaw Objective = "binary:logitraw"
	BinaryHinge    Objective = "binary:hinge"
	RegLogistic    Objective = "reg:logistic"
	MultiSoftprob  Objective = "multi:softprob"
	MultiSoftmax   Objective = "multi:softmax"
)

var _ domain.Model = (*Model)(nil)

type node struct {
	left, right int
	feature     int
	value       float64 // leaf value when left < 0
	split       float32 // XGBoost stores and compares splits in float32
	defaultLeft bool
}

type tree struct {
	nodes []node
	group int
}

// Model is a loaded tree ensemble.
type Model struct {
	objective  Objective
	numClass   int
	numFeature int
	baseMargin float64
	trees      []tree
}

// LoadFile reads a model from a .json file written by Booster.save_model.
func LoadFile(path string, numFeature int) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	m, err := Load(f, numFeature)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// Load parses a model. numFeature is the expected input width; a mismatch is an error.
func Load(r io.Reader, numFeature int) (*Model, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	l := doc.Learner
	if name := l.GradientBooster.Name; name != "" && name != "gbtree" {
		return nil, fmt.Errorf("unsupported booster %q", name)
	}

	m := &Model{objective: Objective(l.Objective.Name)}
	if !m.objective.supported() {
		return nil, fmt.Errorf("unsupported objective %q", m.objective)
	}

	nf, err := parseParam(l.LearnerModelParam.NumFeature)
	if err != nil {
		return nil, fmt.Errorf("num_feature: %w", err)
	}
	m.numFeature = int(nf)
	if numFeature > 0 && m.numFeature != numFeature {
		return nil, fmt.Errorf("model expects %d features, have %d", m.numFeature, numFeature)
	}

	nc, err := parseParam(l.LearnerModelParam.NumClass)
	if err != nil {
		return nil, fmt.Errorf("num_class: %w", err)
	}
	m.numClass = int(nc)
	if m.objective.multiclass() && m.numClass < 2 {
		return nil, fmt.Errorf("objective %s needs num_class >= 2, got %d", m.objective, m.numClass)
	}

	base, err := parseParam(l.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, fmt.Errorf("base_score: %w", err)
	}
	m.baseMargin = m.objective.margin(base)

	src := l.GradientBooster.Model
	if len(src.Trees) == 0 {
		return nil, errors.New("model has no trees")
	}
	m.trees = make([]tree, len(src.Trees))
	for i, td := range src.Trees {
		t, err := buildTree(td, m.numFeature)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if i < len(src.TreeInfo) {
			t.group = src.TreeInfo[i]
		}
		if m.objective.multiclass() && (t.group < 0 || t.group >= m.numClass) {
			return nil, fmt.Errorf("tree %d: class group %d out of range", i, t.group)
		}
		if !m.objective.multiclass() && t.group != 0 {
			return nil, fmt.Errorf("tree %d: class group %d for single-output objective %s", i, t.group, m.objective)
		}
		m.trees[i] = t
	}
	return m, nil
}

func buildTree(td treeDoc, numFeature int) (tree, error) {
	n := len(td.LeftChildren)
	if n == 0 {
		return tree{}, errors.New("empty tree")
	}
	if len(td.RightChildren) != n || len(td.SplitIndices) != n || len(td.SplitConditions) != n {
		return tree{}, errors.New("inconsistent node arrays")
	}

	nodes := make([]node, n)
	for i := range n {
		nd := node{
			left:    td.LeftChildren[i],
			right:   td.RightChildren[i],
			feature: td.SplitIndices[i],
			value:   td.SplitConditions[i],
			split:   float32(td.SplitConditions[i]),
		}
		if i < len(td.DefaultLeft) {
			nd.defaultLeft = td.DefaultLeft[i]
		}
		if nd.left >= 0 {
			if nd.left >= n || nd.right < 0 || nd.right >= n {
				return tree{}, fmt.Errorf("node %d: child out of range", i)
			}
			if nd.feature < 0 || (numFeature > 0 && nd.feature >= numFeature) {
				return tree{}, fmt.Errorf("node %d: feature %d out of range", i, nd.feature)
			}
		}
		nodes[i] = nd
	}
	return tree{nodes: nodes}, nil
}

// Predict evaluates the ensemble. Binary and regression objectives yield one value;
// multi:softprob yields one probability per class; multi:softmax yields the class index.
func (m *Model) Predict(_ context.Context, values []float64) (domain.Output, error) {
	if m.numFeature > 0 && len(values) != m.numFeature {
		return domain.Output{}, fmt.Errorf("expected %d features, got %d", m.numFeature, len(values))
	}

	groups := 1
	if m.objective.multiclass() {
		groups = m.numClass
	}
	margins := make([]float64, groups)
	for i := range margins {
		margins[i] = m.baseMargin
	}
	for _, t := range m.trees {
		margins[t.group] += t.eval(values)
	}

	switch m.objective {
	case BinaryLogistic, RegLogistic:
		return domain.Output{Values: []float64{sigmoid(margins[0])}}, nil
	case BinaryHinge:
		if margins[0] > 0 {
			return domain.Output{Values: []float64{1}}, nil
		}
		return domain.Output{Values: []float64{0}}, nil
	case MultiSoftprob:
		return domain.Output{Values: softmax(margins)}, nil
	case MultiSoftmax:
		best := 0
		for i, v := range margins {
			if v > margins[best] {
				best = i
			}
		}
		return domain.Output{Values: []float64{float64(best)}}, nil
	default:
		return domain.Output{Values: margins}, nil
	}
}

// Objective returns the training objective.
func (m *Model) Objective() Objective { return m.objective }

// NumClass returns the number of classes (0 for binary and regression).
func (m *Model) NumClass() int { return m.numClass }

// Probabilistic reports whether Predict yields probabilities rather than classes or raw margins.
func (m *Model) Probabilistic() bool {
	switch m.objective {
	case BinaryLogistic, RegLogistic, MultiSoftprob:
		return true
	}
	return false
}

// NumFeature returns the expected input width.
func (m *Model) NumFeature() int { return m.numFeature }

// eval walks the tree. NaN follows the node's default direction.
func (t tree) eval(x []float64) float64 {
	i := 0
	for {
		nd := t.nodes[i]
		if nd.left < 0 {
			return nd.value
		}
		v := x[nd.feature]
		switch {
		case math.IsNaN(v):
			if nd.defaultLeft {
				i = nd.left
			} else {
				i = nd.right
			}
		case float32(v) < nd.split:
			i = nd.left
		default:
			i = nd.right
		}
	}
}

func (o Objective) supported() bool {
	switch o {
	case BinaryLogistic, BinaryLogitRaw, BinaryHinge, RegLogistic, MultiSoftprob, MultiSoftmax:
		return true
	}
	return len(o) > 4 && o[:4] == "reg:"
}

func (o Objective) multiclass() bool {
	return o == MultiSoftprob || o == MultiSoftmax
}

// margin converts base_score into margin space.
func (o Objective) margin(base float64) float64 {
	switch o {
	case BinaryLogistic, RegLogistic:
		if base <= 0 || base >= 1 {
			return 0
		}
		return math.Log(base / (1 - base))
	}
	return base
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func softmax(x []float64) []float64 {
	maxV := x[0]
	for _, v := range x[1:] {
		maxV = max(maxV, v)
	}
	out := make([]float64, len(x))
	var sum float64
	for i, v := range x {
		out[i] = math.Exp(v - maxV)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
