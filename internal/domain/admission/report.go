package admission

import (
	"time"

	"github.com/google/uuid"
)

// DailyProgressReport is an append-only clinical note tied to an
// admission. Reports are never edited or deleted and carry no coupling
// to bed state.
type DailyProgressReport struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ReportedAt time.Time `gorm:"column:reported_at;autoCreateTime;index" json:"reported_at"`

	AdmissionID      uuid.UUID `gorm:"column:admission_id;type:uuid;not null;index" json:"admission_id"`
	RecordedByUserID uuid.UUID `gorm:"column:recorded_by_user_id;type:uuid;not null;index" json:"recorded_by_user_id"`

	Vitals              map[string]string `gorm:"column:vitals;serializer:json" json:"vitals,omitempty"`
	NurseNotes          string            `gorm:"column:nurse_notes;type:text" json:"nurse_notes,omitempty"`
	Treatments          string            `gorm:"column:treatments;type:text" json:"treatments,omitempty"`
	MedicineConsumption string            `gorm:"column:medicine_consumption;type:text" json:"medicine_consumption,omitempty"`
}

func (DailyProgressReport) TableName() string {
	return "clinical.daily_progress_reports"
}

type CreateReportCommand struct {
	AdmissionID         uuid.UUID
	RecordedByUserID    uuid.UUID
	Vitals              map[string]string
	NurseNotes          string
	Treatments          string
	MedicineConsumption string
}
