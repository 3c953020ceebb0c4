package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

// Status is the coarse hospital-wide lifecycle of a patient record.
// The admission workflow moves a patient to active on admit and to
// discharged on discharge; registration and deactivation are handled
// by the registry itself.
type Status string

const (
	StatusRegistered Status = "registered"
	StatusActive     Status = "active"
	StatusDischarged Status = "discharged"
	StatusInactive   Status = "inactive"
)

type ContactInfo struct {
	Phone   string `gorm:"column:phone;type:varchar(20)"`
	Email   string `gorm:"column:email;type:varchar(255)"`
	Address string `gorm:"column:address;type:text"`
	City    string `gorm:"column:city;type:varchar(100)"`
	State   string `gorm:"column:state;type:varchar(50)"`
	Country string `gorm:"column:country;type:varchar(100)"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft delete

	// MRN is the hospital-assigned medical record number shown on
	// wristbands and paperwork, distinct from the row ID.
	MRN string `gorm:"column:mrn;type:varchar(50);uniqueIndex;not null"`

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null"`
	Gender      Gender    `gorm:"column:gender;type:varchar(20);not null"`

	ContactInfo

	EmergencyContact *EmergencyContact `gorm:"column:emergency_contact;serializer:json"`
	Allergies        []string          `gorm:"column:allergies;serializer:json"`

	Status Status `gorm:"column:status;type:varchar(20);default:'registered';index"`
	Notes  string `gorm:"column:notes;type:text"` // PHI

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

type CreatePatientCommand struct {
	MRN              string
	FirstName        string
	LastName         string
	DateOfBirth      time.Time
	Gender           Gender
	Phone            string
	Email            string
	Address          string
	City             string
	State            string
	Country          string
	EmergencyContact *EmergencyContact
	Allergies        []string
	Notes            string
	CreatedBy        uuid.UUID
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	Search   string // name or MRN
	Status   *Status
	Page     int
	PageSize int
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
