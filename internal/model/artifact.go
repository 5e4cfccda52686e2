package model

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ScalerDoc is the serialized form of a fitted scaler.
type ScalerDoc struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Center       []float64 `json:"center"`
	Scale        []float64 `json:"scale"`
}

// ClassifierDoc is the serialized form of a trained binary classifier.
type ClassifierDoc struct {
	Kind         string     `json:"kind"`
	Objective    string     `json:"objective,omitempty"`
	FeatureNames []string   `json:"feature_names"`
	BaseScore    *float64   `json:"base_score,omitempty"`
	Trees        []TreeNode `json:"trees,omitempty"`
	Coefficients []float64  `json:"coefficients,omitempty"`
	Intercept    float64    `json:"intercept,omitempty"`
}

// TreeNode follows the XGBoost JSON dump layout. A node with Children is a
// split; a node without is a leaf.
type TreeNode struct {
	NodeID         int        `json:"nodeid"`
	Depth          int        `json:"depth,omitempty"`
	Split          string     `json:"split,omitempty"`
	SplitCondition float64    `json:"split_condition,omitempty"`
	Yes            int        `json:"yes,omitempty"`
	No             int        `json:"no,omitempty"`
	Missing        *int       `json:"missing,omitempty"`
	Leaf           float64    `json:"leaf,omitempty"`
	Children       []TreeNode `json:"children,omitempty"`
}

func validateDoc(schemaFile string, raw []byte) error {
	schemaBytes, err := schemaFS.ReadFile("schemas/" + schemaFile)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", schemaFile, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidArtifact, strings.Join(errs, "; "))
	}
	return nil
}

// DecodeScaler validates and decodes a scaler artifact.
func DecodeScaler(raw []byte) (ScalerDoc, error) {
	var doc ScalerDoc
	if err := validateDoc("scaler.json", raw); err != nil {
		return doc, fmt.Errorf("scaler artifact: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode scaler artifact: %w", err)
	}
	return doc, nil
}

// DecodeClassifier validates and decodes a classifier artifact.
func DecodeClassifier(raw []byte) (ClassifierDoc, error) {
	var doc ClassifierDoc
	if err := validateDoc("classifier.json", raw); err != nil {
		return doc, fmt.Errorf("classifier artifact: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode classifier artifact: %w", err)
	}
	return doc, nil
}
