package profile

import (
	"time"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

// Patch is a partial profile update, one onboarding step at a time. Nil
// fields keep their stored value.
type Patch struct {
	Gender        *nutrition.Gender
	Birthdate     *time.Time
	HeightCm      *float64
	WeightKg      *float64
	ActivityLevel *nutrition.ActivityLevel
	Goal          *nutrition.WeightGoal
	DietType      *nutrition.DietType
	DesiredWeight *float64
	GoalDuration  *int
}

func (pt *Patch) apply(p *nutrition.Profile) {
	if pt.Gender != nil {
		p.Gender = *pt.Gender
	}
	if pt.Birthdate != nil {
		p.Birthdate = pt.Birthdate.UTC()
	}
	if pt.HeightCm != nil {
		p.HeightCm = *pt.HeightCm
	}
	if pt.WeightKg != nil {
		p.WeightKg = *pt.WeightKg
	}
	if pt.ActivityLevel != nil {
		p.ActivityLevel = *pt.ActivityLevel
	}
	if pt.Goal != nil {
		p.Goal = *pt.Goal
	}
	if pt.DietType != nil {
		p.DietType = *pt.DietType
	}
	if pt.DesiredWeight != nil {
		v := *pt.DesiredWeight
		p.DesiredWeight = &v
	}
	if pt.GoalDuration != nil {
		v := *pt.GoalDuration
		p.GoalDuration = &v
	}
}

// fields returns the supplied field names, as used in validation errors.
func (pt *Patch) fields() []string {
	var out []string
	add := func(supplied bool, name string) {
		if supplied {
			out = append(out, name)
		}
	}
	add(pt.Gender != nil, "gender")
	add(pt.Birthdate != nil, "birthdate")
	add(pt.HeightCm != nil, "heightCm")
	add(pt.WeightKg != nil, "weightKg")
	add(pt.ActivityLevel != nil, "activityLevel")
	add(pt.Goal != nil, "goal")
	add(pt.DietType != nil, "dietType")
	add(pt.DesiredWeight != nil, "desiredWeightKg")
	add(pt.GoalDuration != nil, "goalDurationWeeks")
	return out
}

// validate checks the merged profile p. Errors on fields that are neither
// supplied nor stored yet are dropped; they belong to later steps.
func (pt *Patch) validate(p *nutrition.Profile, now time.Time) []nutrition.FieldError {
	check := make(map[string]bool)
	for _, f := range pt.fields() {
		check[f] = true
	}
	missing := make(map[string]bool)
	for _, f := range nutrition.MissingProfileFields(p) {
		missing[f] = true
	}

	var errs []nutrition.FieldError
	for _, fe := range nutrition.ValidateProfile(p, now) {
		if check[fe.Field] || !missing[fe.Field] {
			errs = append(errs, fe)
		}
	}

	// ValidateProfile skips the goal fields until a lose or gain goal is set.
	if p.Goal != nutrition.GoalLose && p.Goal != nutrition.GoalGain && p.Goal != nutrition.GoalMaintain {
		for _, f := range []string{"desiredWeightKg", "goalDurationWeeks"} {
			if check[f] {
				errs = append(errs, nutrition.FieldError{Field: f, Message: "requires a lose or gain goal"})
			}
		}
	}
	return errs
}
