package pipeline

import (
	"barangay-health-server/internal/models"
	"barangay-health-server/internal/schema"
	"barangay-health-server/internal/store"
)

// Set holds the pipeline of every record kind over one backend.
type Set struct {
	Households     *Pipeline[*models.Household]
	Pregnant       *Pipeline[*models.Pregnant]
	SeniorCitizens *Pipeline[*models.SeniorCitizen]
	FamilyPlanning *Pipeline[*models.FamilyPlanning]
	Users          *Pipeline[*models.User]
}

// NewSet builds the pipelines of every kind over cols.
func NewSet(cols store.Collections, opts Options) *Set {
	return &Set{
		Households:     New(schema.Household(), cols.Households, opts),
		Pregnant:       New(schema.Pregnant(), cols.Pregnant, opts),
		SeniorCitizens: New(schema.SeniorCitizen(), cols.SeniorCitizens, opts),
		FamilyPlanning: New(schema.FamilyPlanning(), cols.FamilyPlanning, opts),
		Users:          New(schema.User(), store.Collection[*models.User](cols.Users), opts),
	}
}
