package models

import (
	"github.com/nutrilog/nutrilog/internal/nutrition"
	"github.com/nutrilog/nutrilog/internal/profile"
)

// ProfileInput is the body of PUT /v1/me/profile.
type ProfileInput struct {
	Gender            nutrition.Gender        `json:"gender"`
	Birthdate         string                  `json:"birthdate"`
	HeightCm          float64                 `json:"heightCm"`
	WeightKg          float64                 `json:"weightKg"`
	ActivityLevel     nutrition.ActivityLevel `json:"activityLevel"`
	Goal              nutrition.WeightGoal    `json:"goal"`
	DietType          nutrition.DietType      `json:"dietType"`
	DesiredWeightKg   *float64                `json:"desiredWeightKg,omitempty"`
	GoalDurationWeeks *int                    `json:"goalDurationWeeks,omitempty"`
}

// ToProfile converts the input to a domain profile. Only the birthdate
// format is checked here; range rules belong to the profile service.
func (in *ProfileInput) ToProfile() (*nutrition.Profile, []FieldError) {
	p := &nutrition.Profile{
		Gender:        in.Gender,
		HeightCm:      in.HeightCm,
		WeightKg:      in.WeightKg,
		ActivityLevel: in.ActivityLevel,
		Goal:          in.Goal,
		DietType:      in.DietType,
		DesiredWeight: in.DesiredWeightKg,
		GoalDuration:  in.GoalDurationWeeks,
	}

	if in.Birthdate == "" {
		return p, nil
	}
	birthdate, err := ParseDate(in.Birthdate)
	if err != nil {
		return nil, []FieldError{{
			Field:   "birthdate",
			Message: "must be a date in YYYY-MM-DD format",
			Code:    "INVALID_FORMAT",
		}}
	}
	p.Birthdate = birthdate
	return p, nil
}

// ProfilePatchInput is the body of PATCH /v1/me/profile. Omitted fields
// keep their stored value.
type ProfilePatchInput struct {
	Gender            *nutrition.Gender        `json:"gender,omitempty"`
	Birthdate         *string                  `json:"birthdate,omitempty"`
	HeightCm          *float64                 `json:"heightCm,omitempty"`
	WeightKg          *float64                 `json:"weightKg,omitempty"`
	ActivityLevel     *nutrition.ActivityLevel `json:"activityLevel,omitempty"`
	Goal              *nutrition.WeightGoal    `json:"goal,omitempty"`
	DietType          *nutrition.DietType      `json:"dietType,omitempty"`
	DesiredWeightKg   *float64                 `json:"desiredWeightKg,omitempty"`
	GoalDurationWeeks *int                     `json:"goalDurationWeeks,omitempty"`
}

// ToPatch converts the input to a profile patch, checking only the
// birthdate format.
func (in *ProfilePatchInput) ToPatch() (*profile.Patch, []FieldError) {
	patch := &profile.Patch{
		Gender:        in.Gender,
		HeightCm:      in.HeightCm,
		WeightKg:      in.WeightKg,
		ActivityLevel: in.ActivityLevel,
		Goal:          in.Goal,
		DietType:      in.DietType,
		DesiredWeight: in.DesiredWeightKg,
		GoalDuration:  in.GoalDurationWeeks,
	}

	if in.Birthdate == nil {
		return patch, nil
	}
	birthdate, err := ParseDate(*in.Birthdate)
	if err != nil {
		return nil, []FieldError{{
			Field:   "birthdate",
			Message: "must be a date in YYYY-MM-DD format",
			Code:    "INVALID_FORMAT",
		}}
	}
	patch.Birthdate = &birthdate
	return patch, nil
}

// ProfileResponse is a stored profile with its derived BMI. Complete is
// false while a step-by-step profile still lacks fields.
type ProfileResponse struct {
	*nutrition.Profile

	BMI         float64 `json:"bmi"`
	BMICategory string  `json:"bmiCategory"`
	Complete    bool    `json:"complete"`
}

// NewProfileResponse wraps p with its BMI.
func NewProfileResponse(p *nutrition.Profile) *ProfileResponse {
	bmi := nutrition.BMI(p.WeightKg, p.HeightCm)
	return &ProfileResponse{
		Profile:     p,
		BMI:         bmi,
		BMICategory: nutrition.BMICategory(bmi),
		Complete:    nutrition.ProfileComplete(p),
	}
}
