package admission

import (
	"time"

	"github.com/google/uuid"
)

// Status is the two-state lifecycle of an admission. The transition is
// one-way: a discharged patient coming back gets a new admission record,
// never a reopened one.
type Status string

const (
	StatusAdmitted   Status = "Admitted"
	StatusDischarged Status = "Discharged"
)

// Admission is one inpatient stay linking a patient, ward, bed, and
// admitting doctor.
//
// Consistency contract: for any (ward, bed number) pair at most one
// admission may be Admitted, and the same holds per patient. The bed's
// cached status over in the ward is advisory; these records are the
// source of truth for occupancy.
type Admission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	PatientID         uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`
	VisitID           uuid.UUID `gorm:"column:visit_id;type:uuid;not null;index" json:"visit_id"`
	WardID            uuid.UUID `gorm:"column:ward_id;type:uuid;not null;index" json:"ward_id"`
	BedNumber         string    `gorm:"column:bed_number;type:varchar(20);not null" json:"bed_number"`
	RoomCategoryID    uuid.UUID `gorm:"column:room_category_id;type:uuid;not null" json:"room_category_id"`
	AdmittingDoctorID uuid.UUID `gorm:"column:admitting_doctor_id;type:uuid;not null;index" json:"admitting_doctor_id"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'Admitted';index" json:"status"`

	ExpectedDischargeDate *time.Time `gorm:"column:expected_discharge_date" json:"expected_discharge_date,omitempty"`
	ActualDischargeDate   *time.Time `gorm:"column:actual_discharge_date" json:"actual_discharge_date,omitempty"`
}

func (Admission) TableName() string {
	return "clinical.ipd_admissions"
}

func (a *Admission) IsActive() bool {
	return a.Status == StatusAdmitted
}

// Discharge closes the admission. Returns ErrAlreadyDischarged when the
// record is already closed: re-running the mutation would overwrite the
// discharge date, so the second call is refused instead.
func (a *Admission) Discharge(at time.Time) error {
	if a.Status == StatusDischarged {
		return ErrAlreadyDischarged
	}
	a.Status = StatusDischarged
	a.ActualDischargeDate = &at
	return nil
}

type AdmitCommand struct {
	PatientID             uuid.UUID
	VisitID               uuid.UUID
	WardID                uuid.UUID
	BedNumber             string
	RoomCategoryID        uuid.UUID
	AdmittingDoctorID     uuid.UUID
	ExpectedDischargeDate *time.Time
}

// Detail is an admission expanded with the display fields of its
// references, for listing.
type Detail struct {
	Admission
	PatientMRN       string `json:"patient_mrn"`
	PatientName      string `json:"patient_name"`
	WardName         string `json:"ward_name"`
	RoomCategoryName string `json:"room_category_name"`
	DoctorName       string `json:"doctor_name"`
}
