package profile

import (
	"github.com/2beens/fitdash/internal/forms"
)

// Basics is the body data the coach and the plans are calibrated on.
type Basics struct {
	BirthYear int     `json:"birth_year" validate:"required,gte=1900,lte=2100"`
	Sex       string  `json:"sex" validate:"required,oneof=female male other"`
	HeightCm  float64 `json:"height_cm" validate:"required,gte=80,lte=260"`
	WeightKg  float64 `json:"weight_kg" validate:"required,gte=25,lte=400"`
}

type Goals struct {
	Goals          []string `json:"goals" validate:"required,min=1,max=3,unique,dive,oneof=lose_weight build_muscle endurance strength flexibility general_health"`
	TargetWeightKg *float64 `json:"target_weight_kg,omitempty" validate:"omitempty,gte=25,lte=400"`
}

type Experience struct {
	Level         string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	YearsTraining int    `json:"years_training" validate:"gte=0,lte=80"`
	Injuries      string `json:"injuries,omitempty" validate:"max=500"`
}

type Schedule struct {
	Days           []string `json:"days" validate:"required,min=1,max=7,unique,dive,weekday"`
	SessionMinutes int      `json:"session_minutes" validate:"required,gte=10,lte=240"`
	Equipment      []string `json:"equipment,omitempty" validate:"max=20,dive,min=1,max=50"`
}

// Attributes is the profile as the backend stores it. A section stays nil
// until its setup step was saved.
type Attributes struct {
	Basics         *Basics     `json:"basics,omitempty"`
	Goals          *Goals      `json:"goals,omitempty"`
	Experience     *Experience `json:"experience,omitempty"`
	Schedule       *Schedule   `json:"schedule,omitempty"`
	SetupCompleted bool        `json:"setup_completed"`
}

// Validate checks every section that is present.
func (a *Attributes) Validate() error {
	return forms.Validate(a)
}
