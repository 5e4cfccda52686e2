// Package model holds the fitted scaler and classifier, how they are read
// from artifact storage, and how they are evaluated.
package model

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrInvalidArtifact = errors.New("invalid artifact")
)

// Scaler maps a raw feature vector onto the range the classifier was
// trained on.
type Scaler interface {
	Scale(x []float64) ([]float64, error)
}

// AffineScaler computes (x - center) / scale per slot. It covers both robust
// (median/IQR) and standard (mean/std) scalers.
type AffineScaler struct {
	kind   string
	center []float64
	scale  []float64
}

// NewScaler builds a scaler from its artifact. Zero scales are replaced by 1,
// matching how fitted scalers treat constant features.
func NewScaler(doc ScalerDoc) (*AffineScaler, error) {
	n := len(doc.FeatureNames)
	if len(doc.Center) != n || len(doc.Scale) != n {
		return nil, fmt.Errorf("%w: scaler has %d names, %d centers, %d scales",
			ErrShapeMismatch, n, len(doc.Center), len(doc.Scale))
	}
	switch doc.Kind {
	case "robust", "standard":
	default:
		return nil, fmt.Errorf("%w: unknown scaler kind %q", ErrInvalidArtifact, doc.Kind)
	}

	s := &AffineScaler{
		kind:   doc.Kind,
		center: append([]float64(nil), doc.Center...),
		scale:  make([]float64, n),
	}
	for i, v := range doc.Scale {
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

func (s *AffineScaler) Kind() string { return s.kind }

func (s *AffineScaler) Scale(x []float64) ([]float64, error) {
	if len(x) != len(s.center) {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", ErrShapeMismatch, len(s.center), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.center[i]) / s.scale[i]
	}
	return out, nil
}
