package schema

import (
	"time"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/utils"
)

type pregnantForm struct {
	FirstName     string     `form:"firstName" validate:"required,max=100"`
	LastName      string     `form:"lastName" validate:"required,max=100"`
	BirthDate     *time.Time `form:"birthDate" validate:"required"`
	TakingFerrous bool       `form:"takingFerrous"`
	Weight        *float64   `form:"weight" validate:"required,gt=0"`
	Systolic      *int       `form:"systolic" validate:"required,gt=0"`
	Diastolic     *int       `form:"diastolic" validate:"required,gt=0"`
	Months        *int       `form:"months" validate:"required,min=0,max=9"`
	Weeks         *int       `form:"weeks" validate:"required,min=0,max=3"`
	AssignedStaff string     `form:"assignedStaff" validate:"required,max=150"`
	Purok         string     `form:"purok" validate:"required,max=100"`
}

// Pregnant describes pregnant resident records.
func Pregnant() Schema[*models.Pregnant] {
	return Schema[*models.Pregnant]{
		Kind:   models.KindPregnant,
		New:    func() *models.Pregnant { return &models.Pregnant{} },
		Decode: decodePregnant,
		Unique: true,
	}
}

func decodePregnant(f Fields, _ Op, now time.Time) (*models.Pregnant, utils.FieldErrors) {
	var in pregnantForm
	fe := bind(f, &in)
	checkBirthDate(fe, "birthDate", in.BirthDate, now)
	if len(fe) > 0 {
		return nil, fe
	}
	return &models.Pregnant{
		Person: models.Person{
			FirstName: Capitalize(in.FirstName),
			LastName:  Capitalize(in.LastName),
		},
		BirthDate:     *in.BirthDate,
		Age:           AgeAt(*in.BirthDate, now),
		TakingFerrous: in.TakingFerrous,
		Weight:        *in.Weight,
		Systolic:      *in.Systolic,
		Diastolic:     *in.Diastolic,
		Months:        *in.Months,
		Weeks:         *in.Weeks,
		AssignedStaff: in.AssignedStaff,
		Purok:         in.Purok,
	}, nil
}
