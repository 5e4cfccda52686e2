package features

// Record is one form submission. Binary factors carry the raw answer
// ("Sí" or "No"); categoricals carry the selected option label; numerics are
// assumed to be validated against the registry bounds by the caller.
type Record struct {
	Diabetes           string `json:"diabetes"`
	FamilyHistory      string `json:"family_history"`
	Smoking            string `json:"smoking"`
	Obesity            string `json:"obesity"`
	Alcohol            string `json:"alcohol"`
	PriorHeartProblems string `json:"prior_heart_problems"`
	Medication         string `json:"medication"`

	Gender     string `json:"gender"`
	Diet       string `json:"diet"`
	Country    string `json:"country"`
	Continent  string `json:"continent"`
	Hemisphere string `json:"hemisphere"`

	Age                 float64 `json:"age"`
	Cholesterol         float64 `json:"cholesterol"`
	BloodPressure       float64 `json:"blood_pressure"`
	HeartRate           float64 `json:"heart_rate"`
	ExerciseHours       float64 `json:"exercise_hours"`
	StressLevel         int     `json:"stress_level"`
	SleepHours          float64 `json:"sleep_hours"`
	BMI                 float64 `json:"bmi"`
	ExtraFats           float64 `json:"extra_fats"`
	ActivityDays        int     `json:"activity_days"`
	EffectiveSleepHours float64 `json:"effective_sleep_hours"`
}
