package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/cardiorisk/internal/features"
	"github.com/Skufu/cardiorisk/internal/predict"
	"github.com/Skufu/cardiorisk/internal/schema"
)

type handler struct {
	svc *predict.Service
	reg *schema.Registry
}

type binaryOption struct {
	schema.BinaryField
	Options []string `json:"options"`
}

// FormSchema is what a form needs to render every input.
type FormSchema struct {
	Features []string              `json:"features"`
	Binary   []binaryOption        `json:"binary"`
	Groups   []schema.Group        `json:"groups"`
	Numeric  []schema.NumericField `json:"numeric"`
}

func BuildFormSchema(reg *schema.Registry) FormSchema {
	out := FormSchema{
		Features: reg.Names(),
		Groups:   reg.Groups(),
		Numeric:  reg.Numeric(),
	}
	for _, b := range reg.Binary() {
		out.Binary = append(out.Binary, binaryOption{
			BinaryField: b,
			Options:     []string{schema.Negative, schema.Affirmative},
		})
	}
	return out
}

func (h *handler) schema(c *gin.Context) {
	c.JSON(http.StatusOK, BuildFormSchema(h.reg))
}

func (h *handler) encode(c *gin.Context) {
	rec, ok := h.bind(c)
	if !ok {
		return
	}
	v, err := h.svc.Encode(rec)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"features": v.Table()})
}

func (h *handler) predict(c *gin.Context) {
	rec, ok := h.bind(c)
	if !ok {
		return
	}
	res, err := h.svc.Predict(rec)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) bind(c *gin.Context) (features.Record, bool) {
	var req PredictRequest
	err := c.ShouldBindJSON(&req)
	if err == nil {
		return req.Record(), true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload_too_large"})
		return features.Record{}, false
	}
	if details, ok := fieldErrors(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "details": details})
		return features.Record{}, false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
	return features.Record{}, false
}

func (h *handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var ve *features.ValueError
	if errors.As(err, &ve) {
		code := "unrecognized_value"
		if errors.Is(err, features.ErrInvalidAnswer) {
			code = "invalid_answer"
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   code,
			"details": []FieldError{{Field: ve.Field, Message: ve.Error()}},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "inference_failed"})
}
