package schema

import (
	"fmt"
	"strings"
	"time"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/utils"
)

type householdForm struct {
	Name          string       `form:"name" validate:"required,max=150"`
	Type          string       `form:"type" validate:"required,oneof=nuclear extended single-parent other"`
	NHTS          bool         `form:"nhts"`
	ToiletAccess  bool         `form:"toiletAccess"`
	AssignedStaff string       `form:"assignedStaff" validate:"required,max=150"`
	Purok         string       `form:"purok" validate:"required,max=100"`
	Members       []memberForm `form:"members" validate:"dive"`
}

type memberForm struct {
	FirstName  string     `form:"firstName" validate:"required,max=100"`
	LastName   string     `form:"lastName" validate:"required,max=100"`
	BirthDate  *time.Time `form:"birthDate" validate:"required"`
	Gender     string     `form:"gender" validate:"required,oneof=male female"`
	Occupation string     `form:"occupation" validate:"required,max=100"`
}

// Household describes household records. Households carry no duplicate
// guard: two households may share a name.
func Household() Schema[*models.Household] {
	return Schema[*models.Household]{
		Kind:   models.KindHousehold,
		New:    func() *models.Household { return &models.Household{} },
		Decode: decodeHousehold,
	}
}

func decodeHousehold(f Fields, _ Op, now time.Time) (*models.Household, utils.FieldErrors) {
	var in householdForm
	fe := bind(lowerTokens(f, "type", "gender"), &in)
	for i, m := range in.Members {
		checkBirthDate(fe, memberField(i, "birthDate"), m.BirthDate, now)
	}
	if len(fe) > 0 {
		return nil, fe
	}

	h := &models.Household{
		Name:          Capitalize(in.Name),
		Type:          models.HouseholdType(in.Type),
		NHTS:          in.NHTS,
		ToiletAccess:  in.ToiletAccess,
		AssignedStaff: in.AssignedStaff,
		Purok:         in.Purok,
		Members:       make([]models.Member, 0, len(in.Members)),
	}
	for _, m := range in.Members {
		h.Members = append(h.Members, models.Member{
			FirstName:  Capitalize(m.FirstName),
			LastName:   Capitalize(m.LastName),
			BirthDate:  *m.BirthDate,
			Gender:     models.Gender(m.Gender),
			Occupation: m.Occupation,
		})
	}
	return h, nil
}

func memberField(i int, name string) string {
	return fmt.Sprintf("members[%d].%s", i, name)
}

// lowerTokens lower-cases enum values of every field whose last path
// segment is one of names.
func lowerTokens(f Fields, names ...string) Fields {
	out := make(Fields, len(f))
	for k, vals := range f {
		out[k] = vals
		for _, n := range names {
			if label(k) == n {
				lowered := make([]string, len(vals))
				for i, v := range vals {
					lowered[i] = strings.ToLower(v)
				}
				out[k] = lowered
			}
		}
	}
	return out
}
