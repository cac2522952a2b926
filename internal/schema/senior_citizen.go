package schema

import (
	"time"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/utils"
)

type seniorCitizenForm struct {
	FirstName     string     `form:"firstName" validate:"required,max=100"`
	LastName      string     `form:"lastName" validate:"required,max=100"`
	BirthDate     *time.Time `form:"birthDate" validate:"required"`
	Weight        *float64   `form:"weight" validate:"required,gt=0"`
	Systolic      *int       `form:"systolic" validate:"required,gt=0"`
	Diastolic     *int       `form:"diastolic" validate:"required,gt=0"`
	AssignedStaff string     `form:"assignedStaff" validate:"required,max=150"`
	Purok         string     `form:"purok" validate:"required,max=100"`
	Medicines     []string   `form:"medicines" validate:"dive,max=100"`
}

// SeniorCitizen describes senior citizen records. Medicines are kept in
// submission order with repeats removed.
func SeniorCitizen() Schema[*models.SeniorCitizen] {
	return Schema[*models.SeniorCitizen]{
		Kind:   models.KindSeniorCitizen,
		New:    func() *models.SeniorCitizen { return &models.SeniorCitizen{} },
		Decode: decodeSeniorCitizen,
		Unique: true,
	}
}

func decodeSeniorCitizen(f Fields, _ Op, now time.Time) (*models.SeniorCitizen, utils.FieldErrors) {
	var in seniorCitizenForm
	fe := bind(f, &in)
	checkBirthDate(fe, "birthDate", in.BirthDate, now)
	if len(fe) > 0 {
		return nil, fe
	}
	return &models.SeniorCitizen{
		Person: models.Person{
			FirstName: Capitalize(in.FirstName),
			LastName:  Capitalize(in.LastName),
		},
		BirthDate:     *in.BirthDate,
		Age:           AgeAt(*in.BirthDate, now),
		Weight:        *in.Weight,
		Systolic:      *in.Systolic,
		Diastolic:     *in.Diastolic,
		AssignedStaff: in.AssignedStaff,
		Purok:         in.Purok,
		Medicines:     uniqueNonBlank(in.Medicines),
	}, nil
}
