package models

import "time"

// Pregnant represents a pregnant resident under monitoring.
type Pregnant struct {
	BaseModel     `bson:",inline"`
	Person        `bson:",inline"`
	BirthDate     time.Time `json:"birthDate" bson:"birthDate"`
	Age           int       `json:"age" bson:"age"`
	TakingFerrous bool      `json:"takingFerrous" bson:"takingFerrous"`
	Weight        float64   `json:"weight" bson:"weight"`
	Systolic      int       `json:"systolic" bson:"systolic"`
	Diastolic     int       `json:"diastolic" bson:"diastolic"`
	Months        int       `json:"months" bson:"months"`
	Weeks         int       `json:"weeks" bson:"weeks"`
	AssignedStaff string    `gorm:"size:150" json:"assignedStaff" bson:"assignedStaff"`
	Purok         string    `gorm:"size:100" json:"purok" bson:"purok"`
}

// TableName keeps the collection name stable across stores.
func (Pregnant) TableName() string { return "pregnant" }
