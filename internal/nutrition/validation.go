package nutrition

import (
	"fmt"
	"math"
	"time"
)

// Profile validation limits.
const (
	MaxHeightCm       = 300
	MaxWeightKg       = 500
	MinAge            = 13
	MaxAge            = 100
	MinGoalWeeks      = 1
	MaxGoalWeeks      = 104
	MaxTotalChangeKg  = 100
	MaxWeeklyChangeKg = 1.0
)

var validGenders = map[Gender]bool{GenderMale: true, GenderFemale: true}

var validGoals = map[WeightGoal]bool{GoalLose: true, GoalMaintain: true, GoalGain: true}

// MissingProfileFields lists the fields p lacks for a target calculation,
// named as in ValidateProfile. The goal fields are only needed for lose
// and gain goals.
func MissingProfileFields(p *Profile) []string {
	var missing []string
	if p.Gender == "" {
		missing = append(missing, "gender")
	}
	if p.Birthdate.IsZero() {
		missing = append(missing, "birthdate")
	}
	if p.HeightCm == 0 {
		missing = append(missing, "heightCm")
	}
	if p.WeightKg == 0 {
		missing = append(missing, "weightKg")
	}
	if p.ActivityLevel == "" {
		missing = append(missing, "activityLevel")
	}
	if p.DietType == "" {
		missing = append(missing, "dietType")
	}
	if p.Goal == "" {
		missing = append(missing, "goal")
	}
	if p.Goal == GoalLose || p.Goal == GoalGain {
		if p.DesiredWeight == nil {
			missing = append(missing, "desiredWeightKg")
		}
		if p.GoalDuration == nil {
			missing = append(missing, "goalDurationWeeks")
		}
	}
	return missing
}

// ProfileComplete reports whether p carries every field a target needs.
func ProfileComplete(p *Profile) bool {
	return len(MissingProfileFields(p)) == 0
}

// ValidateProfile returns field errors for an invalid profile.
func ValidateProfile(p *Profile, now time.Time) []FieldError {
	var errs []FieldError

	if !validGenders[p.Gender] {
		errs = append(errs, FieldError{Field: "gender", Message: "must be male or female"})
	}

	if p.Birthdate.IsZero() {
		errs = append(errs, FieldError{Field: "birthdate", Message: "is required"})
	} else if age := Age(p.Birthdate, now); age < MinAge || age > MaxAge {
		errs = append(errs, FieldError{Field: "birthdate", Message: fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge)})
	}

	if p.HeightCm <= 0 || p.HeightCm >= MaxHeightCm {
		errs = append(errs, FieldError{Field: "heightCm", Message: fmt.Sprintf("must be greater than 0 and less than %d", MaxHeightCm)})
	}
	if p.WeightKg <= 0 || p.WeightKg >= MaxWeightKg {
		errs = append(errs, FieldError{Field: "weightKg", Message: fmt.Sprintf("must be greater than 0 and less than %d", MaxWeightKg)})
	}

	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		errs = append(errs, FieldError{Field: "activityLevel", Message: "is not a known activity level"})
	}
	if _, ok := dietRatios[p.DietType]; !ok {
		errs = append(errs, FieldError{Field: "dietType", Message: "is not a known diet type"})
	}

	if !validGoals[p.Goal] {
		errs = append(errs, FieldError{Field: "goal", Message: "must be lose, maintain or gain"})
		return errs
	}

	if p.Goal == GoalMaintain {
		return errs
	}

	if p.DesiredWeight == nil {
		errs = append(errs, FieldError{Field: "desiredWeightKg", Message: "is required for lose and gain goals"})
	}
	if p.GoalDuration == nil {
		errs = append(errs, FieldError{Field: "goalDurationWeeks", Message: "is required for lose and gain goals"})
	} else if *p.GoalDuration < MinGoalWeeks || *p.GoalDuration > MaxGoalWeeks {
		errs = append(errs, FieldError{Field: "goalDurationWeeks", Message: fmt.Sprintf("must be between %d and %d", MinGoalWeeks, MaxGoalWeeks)})
	}
	if p.DesiredWeight == nil || p.GoalDuration == nil || *p.GoalDuration <= 0 {
		return errs
	}

	desired := *p.DesiredWeight
	if desired <= 0 || desired >= MaxWeightKg {
		errs = append(errs, FieldError{Field: "desiredWeightKg", Message: fmt.Sprintf("must be greater than 0 and less than %d", MaxWeightKg)})
		return errs
	}
	if p.Goal == GoalLose && desired >= p.WeightKg {
		errs = append(errs, FieldError{Field: "desiredWeightKg", Message: "must be below the current weight for a lose goal"})
	}
	if p.Goal == GoalGain && desired <= p.WeightKg {
		errs = append(errs, FieldError{Field: "desiredWeightKg", Message: "must be above the current weight for a gain goal"})
	}

	change := math.Abs(desired - p.WeightKg)
	if change > MaxTotalChangeKg {
		errs = append(errs, FieldError{Field: "desiredWeightKg", Message: fmt.Sprintf("total change must not exceed %d kg", MaxTotalChangeKg)})
	}
	if weekly := change / float64(*p.GoalDuration); weekly > MaxWeeklyChangeKg {
		errs = append(errs, FieldError{
			Field:   "goalDurationWeeks",
			Message: fmt.Sprintf("implied change of %.2f kg/week exceeds %.1f kg/week", weekly, MaxWeeklyChangeKg),
		})
	}

	return errs
}
