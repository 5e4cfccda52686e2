package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Skufu/cardiorisk/internal/features"
)

// PredictRequest is the form payload. Numeric bounds mirror the form widgets;
// pointers distinguish a missing field from a legitimate zero.
type PredictRequest struct {
	Diabetes           string `json:"diabetes" binding:"required"`
	FamilyHistory      string `json:"family_history" binding:"required"`
	Smoking            string `json:"smoking" binding:"required"`
	Obesity            string `json:"obesity" binding:"required"`
	Alcohol            string `json:"alcohol" binding:"required"`
	PriorHeartProblems string `json:"prior_heart_problems" binding:"required"`
	Medication         string `json:"medication" binding:"required"`

	Gender     string `json:"gender" binding:"required"`
	Diet       string `json:"diet" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Continent  string `json:"continent" binding:"required"`
	Hemisphere string `json:"hemisphere" binding:"required"`

	Age                 *float64 `json:"age" binding:"required,min=0,max=120"`
	Cholesterol         *float64 `json:"cholesterol" binding:"required,min=100,max=400"`
	BloodPressure       *float64 `json:"blood_pressure" binding:"required,min=80,max=200"`
	HeartRate           *float64 `json:"heart_rate" binding:"required,min=40,max=200"`
	ExerciseHours       *float64 `json:"exercise_hours" binding:"required,min=0,max=20"`
	StressLevel         *int     `json:"stress_level" binding:"required,min=1,max=10"`
	SleepHours          *float64 `json:"sleep_hours" binding:"required,min=0,max=12"`
	BMI                 *float64 `json:"bmi" binding:"required,min=10,max=50"`
	ExtraFats           *float64 `json:"extra_fats" binding:"required,min=0,max=100"`
	ActivityDays        *int     `json:"activity_days" binding:"required,min=0,max=7"`
	EffectiveSleepHours *float64 `json:"effective_sleep_hours" binding:"required,min=0,max=12"`
}

// Record converts a bound request. Call only after validation succeeded.
func (r PredictRequest) Record() features.Record {
	return features.Record{
		Diabetes:            r.Diabetes,
		FamilyHistory:       r.FamilyHistory,
		Smoking:             r.Smoking,
		Obesity:             r.Obesity,
		Alcohol:             r.Alcohol,
		PriorHeartProblems:  r.PriorHeartProblems,
		Medication:          r.Medication,
		Gender:              r.Gender,
		Diet:                r.Diet,
		Country:             r.Country,
		Continent:           r.Continent,
		Hemisphere:          r.Hemisphere,
		Age:                 *r.Age,
		Cholesterol:         *r.Cholesterol,
		BloodPressure:       *r.BloodPressure,
		HeartRate:           *r.HeartRate,
		ExerciseHours:       *r.ExerciseHours,
		StressLevel:         *r.StressLevel,
		SleepHours:          *r.SleepHours,
		BMI:                 *r.BMI,
		ExtraFats:           *r.ExtraFats,
		ActivityDays:        *r.ActivityDays,
		EffectiveSleepHours: *r.EffectiveSleepHours,
	}
}

// DecodeRecord reads one JSON payload and applies the same validation as
// the HTTP handlers.
func DecodeRecord(r io.Reader) (features.Record, error) {
	useJSONFieldNames()

	var req PredictRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return features.Record{}, fmt.Errorf("decode payload: %w", err)
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return features.Record{}, err
	}
	return req.Record(), nil
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var tagNameOnce sync.Once

// useJSONFieldNames makes validator report json keys instead of Go names.
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// fieldErrors flattens validator output; ok is false for non-validation errors.
func fieldErrors(err error) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", fe.Field())
		case "min":
			msg = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		default:
			msg = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out, true
}
