package nutrition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nutrilog/nutrilog/internal/nutrition"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func fieldsOf(errs []nutrition.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateProfile_Valid(t *testing.T) {
	assert.Empty(t, nutrition.ValidateProfile(referenceProfile(), refNow))

	p := referenceProfile()
	p.Goal = nutrition.GoalLose
	p.DesiredWeight = floatPtr(74)
	p.GoalDuration = intPtr(8)
	assert.Empty(t, nutrition.ValidateProfile(p, refNow))
}

func TestValidateProfile_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *nutrition.Profile)
		fields []string
	}{
		{
			name:   "unknown gender",
			modify: func(p *nutrition.Profile) { p.Gender = "other" },
			fields: []string{"gender"},
		},
		{
			name:   "missing birthdate",
			modify: func(p *nutrition.Profile) { p.Birthdate = time.Time{} },
			fields: []string{"birthdate"},
		},
		{
			name:   "too young",
			modify: func(p *nutrition.Profile) { p.Birthdate = refNow.AddDate(-10, 0, 0) },
			fields: []string{"birthdate"},
		},
		{
			name:   "height out of range",
			modify: func(p *nutrition.Profile) { p.HeightCm = 300 },
			fields: []string{"heightCm"},
		},
		{
			name:   "zero weight",
			modify: func(p *nutrition.Profile) { p.WeightKg = 0 },
			fields: []string{"weightKg"},
		},
		{
			name: "unknown activity and diet",
			modify: func(p *nutrition.Profile) {
				p.ActivityLevel = "couch"
				p.DietType = "carnivore"
			},
			fields: []string{"activityLevel", "dietType"},
		},
		{
			name:   "unknown goal",
			modify: func(p *nutrition.Profile) { p.Goal = "bulk" },
			fields: []string{"goal"},
		},
		{
			name:   "lose without desired weight and duration",
			modify: func(p *nutrition.Profile) { p.Goal = nutrition.GoalLose },
			fields: []string{"desiredWeightKg", "goalDurationWeeks"},
		},
		{
			name: "lose with higher desired weight",
			modify: func(p *nutrition.Profile) {
				p.Goal = nutrition.GoalLose
				p.DesiredWeight = floatPtr(85)
				p.GoalDuration = intPtr(10)
			},
			fields: []string{"desiredWeightKg"},
		},
		{
			name: "gain with lower desired weight",
			modify: func(p *nutrition.Profile) {
				p.Goal = nutrition.GoalGain
				p.DesiredWeight = floatPtr(78)
				p.GoalDuration = intPtr(10)
			},
			fields: []string{"desiredWeightKg"},
		},
		{
			name: "duration out of range",
			modify: func(p *nutrition.Profile) {
				p.Goal = nutrition.GoalGain
				p.DesiredWeight = floatPtr(85)
				p.GoalDuration = intPtr(200)
			},
			fields: []string{"goalDurationWeeks"},
		},
		{
			name: "weekly change too fast",
			modify: func(p *nutrition.Profile) {
				p.Goal = nutrition.GoalLose
				p.DesiredWeight = floatPtr(70)
				p.GoalDuration = intPtr(4)
			},
			fields: []string{"goalDurationWeeks"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := referenceProfile()
			tt.modify(p)
			assert.Equal(t, tt.fields, fieldsOf(nutrition.ValidateProfile(p, refNow)))
		})
	}
}

func TestMissingProfileFields(t *testing.T) {
	assert.Empty(t, nutrition.MissingProfileFields(referenceProfile()))
	assert.True(t, nutrition.ProfileComplete(referenceProfile()))

	assert.Equal(t,
		[]string{"gender", "birthdate", "heightCm", "weightKg", "activityLevel", "dietType", "goal"},
		nutrition.MissingProfileFields(&nutrition.Profile{}),
	)

	p := referenceProfile()
	p.Goal = nutrition.GoalGain
	assert.Equal(t, []string{"desiredWeightKg", "goalDurationWeeks"}, nutrition.MissingProfileFields(p))
	assert.False(t, nutrition.ProfileComplete(p))

	p.DesiredWeight = floatPtr(84)
	p.GoalDuration = intPtr(10)
	assert.True(t, nutrition.ProfileComplete(p))
}
