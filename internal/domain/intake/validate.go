package intake

import (
	"fmt"
	"strings"
)

// Intake is a new-patient assessment form.
type Intake struct {
	PatientID         string  `json:"patient_id,omitempty"`
	PatientName       string  `json:"patient_name"`
	Age               int     `json:"age"`
	FEV1              float64 `json:"fev1"`
	PEF               float64 `json:"pef"`
	SpO2              float64 `json:"spo2"`
	ZipCode           string  `json:"zip_code"`
	Gender            string  `json:"gender"`
	Smoking           string  `json:"smoking"`
	Wheezing          bool    `json:"wheezing"`
	ShortnessOfBreath bool    `json:"shortness_of_breath"`
	HeightCM          float64 `json:"height,omitempty"`
	WeightKG          float64 `json:"weight,omitempty"`
	MedicationUse     bool    `json:"medication_use"`
}

// FieldError describes one rejected intake field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates every rejected field in a single pass, so the
// form can surface all problems at once.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "invalid intake: " + strings.Join(parts, "; ")
}

var (
	validGenders = map[string]bool{"Male": true, "Female": true}
	validSmoking = map[string]bool{"Non-smoker": true, "Ex-smoker": true, "Current Smoker": true}
)

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Validate checks every field against its clinical range and returns either
// nil or the full list of violations.
func (in Intake) Validate() error {
	var errs ValidationErrors

	if strings.TrimSpace(in.PatientName) == "" {
		errs = append(errs, FieldError{"patient_name", "required"})
	}
	if in.Age < 0 || in.Age > 120 {
		errs = append(errs, FieldError{"age", "must be between 0 and 120"})
	}
	if in.FEV1 < 0.5 || in.FEV1 > 8.0 {
		errs = append(errs, FieldError{"fev1", "must be between 0.5 and 8.0 L"})
	}
	if in.PEF < 50 || in.PEF > 700 {
		errs = append(errs, FieldError{"pef", "must be between 50 and 700 L/min"})
	}
	if in.SpO2 < 70 || in.SpO2 > 100 {
		errs = append(errs, FieldError{"spo2", "must be between 70 and 100 %"})
	}
	if !isSixDigits(in.ZipCode) {
		errs = append(errs, FieldError{"zip_code", "must be exactly 6 digits"})
	}
	if !validGenders[in.Gender] {
		errs = append(errs, FieldError{"gender", "must be Male or Female"})
	}
	if !validSmoking[in.Smoking] {
		errs = append(errs, FieldError{"smoking", "must be Non-smoker, Ex-smoker or Current Smoker"})
	}
	if in.HeightCM != 0 && (in.HeightCM < 50 || in.HeightCM > 300) {
		errs = append(errs, FieldError{"height", "must be between 50 and 300 cm"})
	}
	if in.WeightKG != 0 && (in.WeightKG < 10 || in.WeightKG > 500) {
		errs = append(errs, FieldError{"weight", "must be between 10 and 500 kg"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
