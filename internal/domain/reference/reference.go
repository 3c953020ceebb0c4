// Package reference holds the read-only lookup records the admission
// workflow resolves but never owns: doctors, visits, and room
// categories. They are maintained elsewhere (staff registry, OPD visit
// intake, pricing upload) and consumed here by identifier.
package reference

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid;index" json:"user_id,omitempty"`
	Name      string     `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Specialty string     `gorm:"column:specialty;type:varchar(100)" json:"specialty,omitempty"`
}

func (Doctor) TableName() string {
	return "clinical.doctors"
}

type Visit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	VisitedAt time.Time `gorm:"column:visited_at;not null" json:"visited_at"`
	Reason    string    `gorm:"column:reason;type:text" json:"reason,omitempty"`
}

func (Visit) TableName() string {
	return "clinical.visits"
}

type RoomCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Name        string `gorm:"column:name;type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
	DailyRate   int64  `gorm:"column:daily_rate_cents;not null;default:0" json:"daily_rate_cents"`
}

func (RoomCategory) TableName() string {
	return "clinical.room_categories"
}
