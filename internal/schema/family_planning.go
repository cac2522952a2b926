package schema

import (
	"time"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/utils"
)

// Enrollee age bounds, applied on create and update alike.
const (
	MinFamilyPlanningAge = 1
	MaxFamilyPlanningAge = 200
)

type familyPlanningForm struct {
	FirstName     string     `form:"firstName" validate:"required,max=100"`
	LastName      string     `form:"lastName" validate:"required,max=100"`
	BirthDate     *time.Time `form:"birthDate" validate:"required"`
	ControlMethod string     `form:"controlMethod" validate:"required,max=100"`
	AssignedStaff string     `form:"assignedStaff" validate:"required,max=150"`
	Purok         string     `form:"purok" validate:"required,max=100"`
}

// FamilyPlanning describes family-planning enrollee records.
func FamilyPlanning() Schema[*models.FamilyPlanning] {
	return Schema[*models.FamilyPlanning]{
		Kind:   models.KindFamilyPlanning,
		New:    func() *models.FamilyPlanning { return &models.FamilyPlanning{} },
		Decode: decodeFamilyPlanning,
		Unique: true,
	}
}

func decodeFamilyPlanning(f Fields, _ Op, now time.Time) (*models.FamilyPlanning, utils.FieldErrors) {
	var in familyPlanningForm
	fe := bind(f, &in)
	checkBirthDate(fe, "birthDate", in.BirthDate, now)
	var age int
	if in.BirthDate != nil {
		age = AgeAt(*in.BirthDate, now)
		if age < MinFamilyPlanningAge || age > MaxFamilyPlanningAge {
			fe.Add("age", "age must be between 1 and 200")
		}
	}
	if len(fe) > 0 {
		return nil, fe
	}
	return &models.FamilyPlanning{
		Person: models.Person{
			FirstName: Capitalize(in.FirstName),
			LastName:  Capitalize(in.LastName),
		},
		BirthDate:     *in.BirthDate,
		Age:           age,
		ControlMethod: in.ControlMethod,
		AssignedStaff: in.AssignedStaff,
		Purok:         in.Purok,
	}, nil
}
