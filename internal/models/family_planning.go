package models

import "time"

// FamilyPlanning represents a family-planning enrollee.
type FamilyPlanning struct {
	BaseModel     `bson:",inline"`
	Person        `bson:",inline"`
	BirthDate     time.Time `json:"birthDate" bson:"birthDate"`
	Age           int       `json:"age" bson:"age"`
	ControlMethod string    `gorm:"size:100" json:"controlMethod" bson:"controlMethod"`
	AssignedStaff string    `gorm:"size:150" json:"assignedStaff" bson:"assignedStaff"`
	Purok         string    `gorm:"size:100" json:"purok" bson:"purok"`
}

// TableName keeps the collection name stable across stores.
func (FamilyPlanning) TableName() string { return "family_planning" }
