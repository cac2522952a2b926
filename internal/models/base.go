package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel contains the identity and timestamps shared by every record.
// Both are owned by the store: the pipeline never sets them from input.
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Base exposes the embedded BaseModel so generic code can reach it.
func (base *BaseModel) Base() *BaseModel {
	return base
}

// AssignID sets a UUID when the record does not have one yet.
func (base *BaseModel) AssignID() {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	base.AssignID()
	return nil
}

// Record is implemented by every persisted record type through BaseModel.
type Record interface {
	Base() *BaseModel
}

// Named is implemented by records guarded against duplicate names.
type Named interface {
	Record
	FullName() (first, last string)
}

// Person holds the name fields shared by resident records.
type Person struct {
	FirstName string `gorm:"size:100;index:,composite:full_name,priority:1" json:"firstName" bson:"firstName"`
	LastName  string `gorm:"size:100;index:,composite:full_name,priority:2" json:"lastName" bson:"lastName"`
}

// FullName returns the duplicate-guard key.
func (p Person) FullName() (string, string) {
	return p.FirstName, p.LastName
}

// ValidID reports whether s is a well-formed record identity.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
