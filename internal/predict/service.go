// Package predict runs one record through encode, scale and classify.
package predict

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Skufu/cardiorisk/internal/features"
	"github.com/Skufu/cardiorisk/internal/metrics"
	"github.com/Skufu/cardiorisk/internal/model"
)

const (
	StageEncode   = "encode"
	StageScale    = "scale"
	StageClassify = "classify"
)

const (
	MessageRisk   = "ALERTA: Riesgo de ataque cardíaco"
	MessageNormal = "Estado NORMAL del paciente"
)

// StageError tags a failure with the pipeline step that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

type Result struct {
	Label         int                 `json:"label"`
	Risk          bool                `json:"risk"`
	Message       string              `json:"message"`
	Probabilities model.Probabilities `json:"probabilities"`
	RiskPercent   string              `json:"risk_percent"`
	Features      []features.Column   `json:"features"`
}

// Service holds the encoder and the loaded artifacts; none of them change
// after construction.
type Service struct {
	encoder   *features.Encoder
	artifacts *model.Artifacts
	log       *zap.Logger
}

func NewService(encoder *features.Encoder, artifacts *model.Artifacts, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{encoder: encoder, artifacts: artifacts, log: log}
}

// Encode returns the unscaled vector for display.
func (s *Service) Encode(r features.Record) (features.Vector, error) {
	v, err := s.encoder.Encode(r)
	if err != nil {
		metrics.PredictionErrors.WithLabelValues(StageEncode).Inc()
		return features.Vector{}, &StageError{Stage: StageEncode, Err: err}
	}
	return v, nil
}

func (s *Service) Predict(r features.Record) (Result, error) {
	start := time.Now()

	v, err := s.Encode(r)
	if err != nil {
		return Result{}, err
	}

	scaled, err := s.artifacts.Scaler.Scale(v.Values())
	if err != nil {
		return Result{}, s.fail(StageScale, err)
	}

	label, err := s.artifacts.Classifier.Predict(scaled)
	if err != nil {
		return Result{}, s.fail(StageClassify, err)
	}
	proba, err := s.artifacts.Classifier.PredictProba(scaled)
	if err != nil {
		return Result{}, s.fail(StageClassify, err)
	}

	res := Result{
		Label:         label,
		Risk:          label == model.LabelRisk,
		Message:       MessageNormal,
		Probabilities: proba,
		RiskPercent:   FormatPercent(proba.Risk),
		Features:      v.Table(),
	}
	if res.Risk {
		res.Message = MessageRisk
	}

	metrics.Predictions.WithLabelValues(strconv.Itoa(label)).Inc()
	metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	s.log.Debug("prediction",
		zap.Int("label", label),
		zap.Float64("p_risk", proba.Risk),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (s *Service) fail(stage string, err error) error {
	metrics.PredictionErrors.WithLabelValues(stage).Inc()
	s.log.Error("prediction failed", zap.String("stage", stage), zap.Error(err))
	return &StageError{Stage: stage, Err: err}
}

// FormatPercent renders p as a percentage with two decimals, e.g. 0.1234 -> "12.34%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}
