package models

import (
	"time"

	"gorm.io/gorm"
)

// HouseholdType enum
type HouseholdType string

const (
	HouseholdNuclear      HouseholdType = "nuclear"
	HouseholdExtended     HouseholdType = "extended"
	HouseholdSingleParent HouseholdType = "single-parent"
	HouseholdOther        HouseholdType = "other"
)

// Gender enum
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Household represents a registered household and its members.
type Household struct {
	BaseModel     `bson:",inline"`
	Name          string        `gorm:"size:150;not null" json:"name" bson:"name"`
	Type          HouseholdType `gorm:"size:20" json:"type" bson:"type"`
	NHTS          bool          `gorm:"column:nhts" json:"nhts" bson:"nhts"`
	ToiletAccess  bool          `json:"toiletAccess" bson:"toiletAccess"`
	AssignedStaff string        `gorm:"size:150" json:"assignedStaff" bson:"assignedStaff"`
	Purok         string        `gorm:"size:100" json:"purok" bson:"purok"`
	Members       []Member      `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"members" bson:"members"`
}

// Member is a household member. Members are embedded in the household
// document; relational stores keep them in a child table.
type Member struct {
	ID          uint      `gorm:"primaryKey" json:"-" bson:"-"`
	HouseholdID string    `gorm:"size:36;index" json:"-" bson:"-"`
	Position    int       `json:"-" bson:"-"`
	FirstName   string    `gorm:"size:100" json:"firstName" bson:"firstName"`
	LastName    string    `gorm:"size:100" json:"lastName" bson:"lastName"`
	BirthDate   time.Time `json:"birthDate" bson:"birthDate"`
	Gender      Gender    `gorm:"size:10" json:"gender" bson:"gender"`
	Occupation  string    `gorm:"size:100" json:"occupation" bson:"occupation"`
}

// ReplaceChildren rewrites the member rows of h inside tx so a full replace
// leaves no stale members behind.
func (h *Household) ReplaceChildren(tx *gorm.DB) error {
	if err := tx.Where("household_id = ?", h.ID).Delete(&Member{}).Error; err != nil {
		return err
	}
	if len(h.Members) == 0 {
		return nil
	}
	for i := range h.Members {
		h.Members[i].ID = 0
		h.Members[i].HouseholdID = h.ID
		h.Members[i].Position = i
	}
	return tx.Create(&h.Members).Error
}

// ChildOrder keeps members in submission order when preloaded.
func (h *Household) ChildOrder() map[string]string {
	return map[string]string{"Members": "position"}
}
