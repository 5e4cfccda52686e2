package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	LabelNormal = 0
	LabelRisk   = 1
)

// Probabilities is the class distribution; Normal + Risk == 1.
type Probabilities struct {
	Normal float64 `json:"normal"`
	Risk   float64 `json:"risk"`
}

// Classifier is a trained binary model over scaled vectors.
type Classifier interface {
	Predict(x []float64) (int, error)
	PredictProba(x []float64) (Probabilities, error)
}

// NewClassifier builds the classifier an artifact describes.
func NewClassifier(doc ClassifierDoc) (Classifier, error) {
	switch doc.Kind {
	case "gbtree":
		return NewTreeEnsemble(doc)
	case "logistic":
		return NewLogistic(doc)
	default:
		return nil, fmt.Errorf("%w: unknown classifier kind %q", ErrInvalidArtifact, doc.Kind)
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func probabilities(risk float64) Probabilities {
	return Probabilities{Normal: 1 - risk, Risk: risk}
}

func label(p Probabilities) int {
	if p.Risk > 0.5 {
		return LabelRisk
	}
	return LabelNormal
}

// Split conditions are compared at float32, the precision they were trained at.
type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float32
	yes, no   int
	missing   int
}

// TreeEnsemble evaluates a boosted tree dump with a logistic link.
type TreeEnsemble struct {
	width int
	base  float64
	trees [][]treeNode
}

// NewTreeEnsemble flattens each dumped tree into an index-addressed slice.
func NewTreeEnsemble(doc ClassifierDoc) (*TreeEnsemble, error) {
	if doc.Objective != "" && doc.Objective != "binary:logistic" {
		return nil, fmt.Errorf("%w: unsupported objective %q", ErrInvalidArtifact, doc.Objective)
	}
	if len(doc.Trees) == 0 {
		return nil, fmt.Errorf("%w: ensemble has no trees", ErrInvalidArtifact)
	}

	base := 0.5
	if doc.BaseScore != nil {
		base = *doc.BaseScore
	}
	if base <= 0 || base >= 1 {
		return nil, fmt.Errorf("%w: base_score %v outside (0,1)", ErrInvalidArtifact, base)
	}

	index := make(map[string]int, len(doc.FeatureNames))
	for i, n := range doc.FeatureNames {
		index[n] = i
	}

	e := &TreeEnsemble{
		width: len(doc.FeatureNames),
		base:  math.Log(base / (1 - base)),
	}
	for t, root := range doc.Trees {
		nodes, err := flattenTree(root, index, e.width)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", t, err)
		}
		e.trees = append(e.trees, nodes)
	}
	return e, nil
}

func featureIndex(split string, index map[string]int, width int) (int, error) {
	if i, ok := index[split]; ok {
		return i, nil
	}
	if rest, ok := strings.CutPrefix(split, "f"); ok {
		if i, err := strconv.Atoi(rest); err == nil && i >= 0 && i < width {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown split feature %q", ErrInvalidArtifact, split)
}

func flattenTree(root TreeNode, index map[string]int, width int) ([]treeNode, error) {
	byID := map[int]TreeNode{}
	var walk func(n TreeNode) error
	walk = func(n TreeNode) error {
		if _, dup := byID[n.NodeID]; dup {
			return fmt.Errorf("%w: duplicate nodeid %d", ErrInvalidArtifact, n.NodeID)
		}
		byID[n.NodeID] = n
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}

	pos := make(map[int]int, len(byID))
	order := []int{root.NodeID}
	pos[root.NodeID] = 0
	for i := 0; i < len(order); i++ {
		n := byID[order[i]]
		for _, c := range n.Children {
			if _, seen := pos[c.NodeID]; !seen {
				pos[c.NodeID] = len(order)
				order = append(order, c.NodeID)
			}
		}
	}

	nodes := make([]treeNode, len(order))
	for i, id := range order {
		n := byID[id]
		if len(n.Children) == 0 {
			nodes[i] = treeNode{leaf: true, value: n.Leaf}
			continue
		}
		f, err := featureIndex(n.Split, index, width)
		if err != nil {
			return nil, err
		}
		direct := make(map[int]bool, len(n.Children))
		for _, c := range n.Children {
			direct[c.NodeID] = true
		}
		// yes/no/missing must name direct children, which keeps evaluation acyclic.
		child := func(id int) (int, error) {
			if !direct[id] {
				return 0, fmt.Errorf("%w: node %d points at non-child %d", ErrInvalidArtifact, n.NodeID, id)
			}
			return pos[id], nil
		}
		yes, err := child(n.Yes)
		if err != nil {
			return nil, err
		}
		no, err := child(n.No)
		if err != nil {
			return nil, err
		}
		missing := yes
		if n.Missing != nil {
			if missing, err = child(*n.Missing); err != nil {
				return nil, err
			}
		}
		nodes[i] = treeNode{feature: f, threshold: float32(n.SplitCondition), yes: yes, no: no, missing: missing}
	}
	return nodes, nil
}

// Margin is the raw log-odds before the logistic link.
func (e *TreeEnsemble) Margin(x []float64) (float64, error) {
	if len(x) != e.width {
		return 0, fmt.Errorf("%w: classifier expects %d features, got %d", ErrShapeMismatch, e.width, len(x))
	}
	sum := e.base
	for _, tree := range e.trees {
		i := 0
		for !tree[i].leaf {
			n := tree[i]
			v := x[n.feature]
			switch {
			case math.IsNaN(v):
				i = n.missing
			case float32(v) < n.threshold:
				i = n.yes
			default:
				i = n.no
			}
		}
		sum += tree[i].value
	}
	return sum, nil
}

func (e *TreeEnsemble) PredictProba(x []float64) (Probabilities, error) {
	m, err := e.Margin(x)
	if err != nil {
		return Probabilities{}, err
	}
	return probabilities(sigmoid(m)), nil
}

func (e *TreeEnsemble) Predict(x []float64) (int, error) {
	p, err := e.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return label(p), nil
}

// Logistic is a linear model with a logistic link.
type Logistic struct {
	weights   []float64
	intercept float64
}

func NewLogistic(doc ClassifierDoc) (*Logistic, error) {
	if len(doc.Coefficients) != len(doc.FeatureNames) {
		return nil, fmt.Errorf("%w: %d coefficients for %d features",
			ErrShapeMismatch, len(doc.Coefficients), len(doc.FeatureNames))
	}
	return &Logistic{
		weights:   append([]float64(nil), doc.Coefficients...),
		intercept: doc.Intercept,
	}, nil
}

func (l *Logistic) PredictProba(x []float64) (Probabilities, error) {
	if len(x) != len(l.weights) {
		return Probabilities{}, fmt.Errorf("%w: classifier expects %d features, got %d", ErrShapeMismatch, len(l.weights), len(x))
	}
	z := l.intercept
	for i, w := range l.weights {
		z += w * x[i]
	}
	return probabilities(sigmoid(z)), nil
}

func (l *Logistic) Predict(x []float64) (int, error) {
	p, err := l.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return label(p), nil
}
