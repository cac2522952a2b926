package models

// Kind names a record collection.
type Kind string

const (
	KindHousehold      Kind = "households"
	KindPregnant       Kind = "pregnant"
	KindSeniorCitizen  Kind = "senior-citizens"
	KindFamilyPlanning Kind = "family-planning"
	KindUser           Kind = "users"
)

// ResidentKinds are the record kinds staff register and browse.
var ResidentKinds = []Kind{KindHousehold, KindPregnant, KindSeniorCitizen, KindFamilyPlanning}

// Label returns a human readable name used in messages and reports.
func (k Kind) Label() string {
	switch k {
	case KindHousehold:
		return "Household"
	case KindPregnant:
		return "Pregnant record"
	case KindSeniorCitizen:
		return "Senior citizen"
	case KindFamilyPlanning:
		return "Family planning record"
	case KindUser:
		return "User"
	}
	return string(k)
}

// Plural names a list of records of the kind.
func (k Kind) Plural() string {
	switch k {
	case KindHousehold:
		return "Households"
	case KindPregnant:
		return "Pregnant records"
	case KindSeniorCitizen:
		return "Senior citizens"
	case KindFamilyPlanning:
		return "Family planning records"
	case KindUser:
		return "Users"
	}
	return string(k)
}
