package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/cardiorisk/internal/features"
	"github.com/Skufu/cardiorisk/internal/predict"
	"github.com/Skufu/cardiorisk/internal/schema"
	"github.com/Skufu/cardiorisk/internal/server"
)

const record = `{
	"diabetes": "Sí", "family_history": "No", "smoking": "No", "obesity": "No",
	"alcohol": "No", "prior_heart_problems": "No", "medication": "No",
	"gender": "Male", "diet": "Unhealthy", "country": "Brazil", "continent": "South America",
	"hemisphere": "Southern Hemisphere",
	"age": 70, "cholesterol": 350, "blood_pressure": 120, "heart_rate": 75,
	"exercise_hours": 3, "stress_level": 5, "sleep_hours": 7, "bmi": 25,
	"extra_fats": 20, "activity_days": 3, "effective_sleep_hours": 7
}`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "", "schema")
	require.NoError(t, err)

	var got server.FormSchema
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, schema.Size, len(got.Features))
	assert.Equal(t, "diabetes", got.Features[0])
}

func TestEncodeCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(record), 0o600))

	out, err := execute(t, "", "encode", "--input", path)
	require.NoError(t, err)

	var got struct {
		Features []features.Column `json:"features"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Features, schema.Size)

	hot := map[string]float64{}
	for _, c := range got.Features {
		hot[c.Name] = c.Value
	}
	assert.Equal(t, 1.0, hot["diabetes"])
	assert.Equal(t, 1.0, hot["pais_Brazil"])
	assert.Equal(t, 1.0, hot["dieta_Unhealthy"])
	assert.Equal(t, 70.0, hot["edad"])
}

func TestEncodeCommandRejectsOutOfRange(t *testing.T) {
	bad := strings.Replace(record, `"age": 70`, `"age": 130`, 1)
	_, err := execute(t, bad, "encode")
	assert.Error(t, err)
}

func TestPredictCommand(t *testing.T) {
	t.Setenv("ARTIFACT_SOURCE", "file")
	t.Setenv("ARTIFACT_DIR", "../../internal/model/testdata")
	t.Setenv("SCALER_ARTIFACT", "scaler.json")
	t.Setenv("CLASSIFIER_ARTIFACT", "classifier.json")

	out, err := execute(t, record, "predict")
	require.NoError(t, err)

	var got predict.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Risk)
	assert.Equal(t, predict.MessageRisk, got.Message)
	assert.Equal(t, "85.81%", got.RiskPercent)
}

func TestPredictCommandMissingArtifacts(t *testing.T) {
	t.Setenv("ARTIFACT_SOURCE", "file")
	t.Setenv("ARTIFACT_DIR", t.TempDir())

	_, err := execute(t, record, "predict")
	assert.Error(t, err)
}
