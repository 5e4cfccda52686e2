package model

import (
	"context"
	"fmt"

	"github.com/Skufu/cardiorisk/internal/schema"
)

// Artifacts is the loaded scaler/classifier pair. It is built once before
// serving and never mutated, so it is safe to share across requests.
type Artifacts struct {
	Scaler         Scaler
	Classifier     Classifier
	ScalerKind     string
	ClassifierKind string
}

// Load fetches both artifacts and checks that each was fitted on exactly
// the registry's feature order.
func Load(ctx context.Context, store Store, reg *schema.Registry, scalerName, classifierName string) (*Artifacts, error) {
	raw, err := store.Fetch(ctx, scalerName)
	if err != nil {
		return nil, fmt.Errorf("load scaler: %w", err)
	}
	sdoc, err := DecodeScaler(raw)
	if err != nil {
		return nil, err
	}
	if err := reg.SameOrder(sdoc.FeatureNames); err != nil {
		return nil, fmt.Errorf("%w: scaler features: %v", ErrShapeMismatch, err)
	}
	scaler, err := NewScaler(sdoc)
	if err != nil {
		return nil, err
	}

	raw, err = store.Fetch(ctx, classifierName)
	if err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}
	cdoc, err := DecodeClassifier(raw)
	if err != nil {
		return nil, err
	}
	if err := reg.SameOrder(cdoc.FeatureNames); err != nil {
		return nil, fmt.Errorf("%w: classifier features: %v", ErrShapeMismatch, err)
	}
	classifier, err := NewClassifier(cdoc)
	if err != nil {
		return nil, err
	}

	return &Artifacts{
		Scaler:         scaler,
		Classifier:     classifier,
		ScalerKind:     sdoc.Kind,
		ClassifierKind: cdoc.Kind,
	}, nil
}
