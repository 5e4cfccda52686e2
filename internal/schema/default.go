package schema

// Binary risk factor slots.
const (
	Diabetes           = "diabetes"
	FamilyHistory      = "historial_familiar"
	Smoking            = "fuma"
	Obesity            = "obesidad"
	Alcohol            = "consumo_alcohol"
	PriorHeartProblems = "problemas_previos_cardiacos"
	Medication         = "uso_medicamentos"
)

// Numeric slots.
const (
	Age                 = "edad"
	Cholesterol         = "colesterol"
	BloodPressure       = "presion_arterial"
	HeartRate           = "frecuencia_cardiaca"
	ExerciseHours       = "horas_ejercicio"
	StressLevel         = "nivel_estres"
	SleepHours          = "horas_dormidas"
	BMI                 = "bmi"
	ExtraFats           = "grasas_extras"
	ActivityDays        = "actividad_fisica_dias_semana"
	EffectiveSleepHours = "horas_sueño"
)

// Categorical group names, which double as slot prefixes.
const (
	Gender     = "genero"
	Diet       = "dieta"
	Country    = "pais"
	Continent  = "continente"
	Hemisphere = "hemisferio"
)

// Diet values the encoder matches explicitly; everything else is Unhealthy.
const (
	DietAverage   = "Average"
	DietHealthy   = "Healthy"
	DietUnhealthy = "Unhealthy"
)

// featureOrder is scaler.feature_names_in_ of the fitted artifacts.
var featureOrder = []string{
	Diabetes, FamilyHistory, Smoking, Obesity, Alcohol,
	PriorHeartProblems, Medication,
	Age, Cholesterol, BloodPressure, HeartRate,
	ExerciseHours, StressLevel, SleepHours, BMI,
	ExtraFats, ActivityDays, EffectiveSleepHours,
	"genero_Female", "genero_Male",
	"dieta_Average", "dieta_Healthy", "dieta_Unhealthy",
	"pais_Argentina", "pais_Australia", "pais_Brazil", "pais_Canada", "pais_China",
	"pais_Colombia", "pais_Germany", "pais_India", "pais_Italy", "pais_Japan",
	"pais_New Zealand", "pais_Nigeria", "pais_South Africa", "pais_South Korea",
	"pais_Spain", "pais_Thailand", "pais_United Kingdom", "pais_United States",
	"continente_Africa", "continente_Asia", "continente_Australia",
	"continente_Europe", "continente_North America", "continente_South America",
	"hemisferio_Northern Hemisphere", "hemisferio_Southern Hemisphere",
}

var binaryFields = []BinaryField{
	{Slot: Diabetes, Input: "diabetes", Label: "Diabetes"},
	{Slot: FamilyHistory, Input: "family_history", Label: "Historial familiar"},
	{Slot: Smoking, Input: "smoking", Label: "Fuma"},
	{Slot: Obesity, Input: "obesity", Label: "Obesidad"},
	{Slot: Alcohol, Input: "alcohol", Label: "Consumo de alcohol"},
	{Slot: PriorHeartProblems, Input: "prior_heart_problems", Label: "Problemas cardíacos previos"},
	{Slot: Medication, Input: "medication", Label: "Uso de medicamentos"},
}

var groups = []Group{
	{Name: Gender, Prefix: Gender, Input: "gender", Label: "Género", Values: []string{"Female", "Male"}},
	{Name: Diet, Prefix: Diet, Input: "diet", Label: "Dieta", Values: []string{DietAverage, DietHealthy, DietUnhealthy}},
	{Name: Country, Prefix: Country, Input: "country", Label: "País", Values: []string{
		"Argentina", "Australia", "Brazil", "Canada", "China", "Colombia",
		"Germany", "India", "Italy", "Japan", "New Zealand", "Nigeria",
		"South Africa", "South Korea", "Spain", "Thailand",
		"United Kingdom", "United States",
	}},
	{Name: Continent, Prefix: Continent, Input: "continent", Label: "Continente", Values: []string{
		"Africa", "Asia", "Australia", "Europe", "North America", "South America",
	}},
	{Name: Hemisphere, Prefix: Hemisphere, Input: "hemisphere", Label: "Hemisferio", Values: []string{
		"Northern Hemisphere", "Southern Hemisphere",
	}},
}

var numericFields = []NumericField{
	{Slot: Age, Input: "age", Label: "Edad", Min: 0, Max: 120, Default: 45},
	{Slot: Cholesterol, Input: "cholesterol", Label: "Colesterol", Min: 100, Max: 400, Default: 200},
	{Slot: BloodPressure, Input: "blood_pressure", Label: "Presión arterial", Min: 80, Max: 200, Default: 120},
	{Slot: HeartRate, Input: "heart_rate", Label: "Frecuencia cardíaca", Min: 40, Max: 200, Default: 75},
	{Slot: ExerciseHours, Input: "exercise_hours", Label: "Horas ejercicio/semana", Min: 0, Max: 20, Default: 3},
	{Slot: StressLevel, Input: "stress_level", Label: "Nivel de estrés (1-10)", Min: 1, Max: 10, Default: 5, Integer: true},
	{Slot: SleepHours, Input: "sleep_hours", Label: "Horas de sueño/noche", Min: 0, Max: 12, Default: 7},
	{Slot: BMI, Input: "bmi", Label: "BMI", Min: 10, Max: 50, Default: 25},
	{Slot: ExtraFats, Input: "extra_fats", Label: "Grasas extra (g/día)", Min: 0, Max: 100, Default: 20},
	{Slot: ActivityDays, Input: "activity_days", Label: "Días actividad/semana", Min: 0, Max: 7, Default: 3, Integer: true},
	{Slot: EffectiveSleepHours, Input: "effective_sleep_hours", Label: "Horas sueño efectivas", Min: 0, Max: 12, Default: 7},
}

var defaultRegistry = MustNew(featureOrder, binaryFields, groups, numericFields)

// Default returns the built-in registry. Its integrity is checked when the
// package loads, so a malformed layout stops the process before serving.
func Default() *Registry {
	return defaultRegistry
}
