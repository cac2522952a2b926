package models

import "time"

// SeniorCitizen represents a senior resident and their maintenance medicines.
type SeniorCitizen struct {
	BaseModel     `bson:",inline"`
	Person        `bson:",inline"`
	BirthDate     time.Time `json:"birthDate" bson:"birthDate"`
	Age           int       `json:"age" bson:"age"`
	Weight        float64   `json:"weight" bson:"weight"`
	Systolic      int       `json:"systolic" bson:"systolic"`
	Diastolic     int       `json:"diastolic" bson:"diastolic"`
	AssignedStaff string    `gorm:"size:150" json:"assignedStaff" bson:"assignedStaff"`
	Purok         string    `gorm:"size:100" json:"purok" bson:"purok"`
	Medicines     []string  `gorm:"serializer:json;type:text" json:"medicines" bson:"medicines"`
}
