package ward

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type BedStatus string

const (
	BedAvailable BedStatus = "available"
	BedOccupied  BedStatus = "occupied"
	BedCleaning  BedStatus = "cleaning"
)

func (s BedStatus) IsValid() bool {
	switch s {
	case BedAvailable, BedOccupied, BedCleaning:
		return true
	}
	return false
}

// Bed is one bed belonging to a ward. Its Status column is an advisory
// occupancy cache: the admission workflow keeps it in sync as a
// write-through hint, but availability decisions are always re-derived
// from admission records, never from this flag alone.
//
// Number is stored as text. Historical imports wrote bed numbers in
// whatever shape the spreadsheet carried ("12", " 12", even un-expanded
// ranges like "1 To 15" before bedfix ran), so every lookup goes through
// NormalizeNumber rather than trusting the stored form.
type Bed struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WardID uuid.UUID `gorm:"column:ward_id;type:uuid;not null;uniqueIndex:idx_beds_ward_number" json:"ward_id"`
	Number string    `gorm:"column:bed_number;type:varchar(20);not null;uniqueIndex:idx_beds_ward_number" json:"bed_number"`
	Status BedStatus `gorm:"column:status;type:varchar(20);not null;default:'available'" json:"status"`
}

func (Bed) TableName() string {
	return "clinical.beds"
}

type Ward struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Name           string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	RoomCategoryID uuid.UUID `gorm:"column:room_category_id;type:uuid;not null;index" json:"room_category_id"`

	Beds []Bed `gorm:"foreignKey:WardID" json:"beds"`
}

func (Ward) TableName() string {
	return "clinical.wards"
}

// NormalizeNumber canonicalizes a bed number for comparison. Bed numbers
// arrive from clients and legacy rows with stray whitespace and mixed
// case, so matching is always done on the normalized form.
func NormalizeNumber(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// FindBed locates a bed in the ward by normalized number match.
// Returns nil if no bed matches.
func (w *Ward) FindBed(number string) *Bed {
	want := NormalizeNumber(number)
	for i := range w.Beds {
		if NormalizeNumber(w.Beds[i].Number) == want {
			return &w.Beds[i]
		}
	}
	return nil
}

type CreateWardCommand struct {
	Name           string
	RoomCategoryID uuid.UUID
	// BedSpec is a comma-separated mix of single numbers and
	// "N To M" ranges, e.g. "1 To 15, 20".
	BedSpec string
}

// ImportWardRow is one row of a bulk ward upload. RoomCategory is
// matched against the category's name or description.
type ImportWardRow struct {
	Name         string `json:"name"`
	RoomCategory string `json:"roomCategory"`
	Beds         string `json:"beds"`
}

// WardOccupancy pairs a ward with per-bed availability derived from
// active admissions, for listing. EffectiveStatus overrides the cached
// bed status wherever an Admitted admission exists for the bed.
type WardOccupancy struct {
	Ward            *Ward                `json:"ward"`
	EffectiveStatus map[string]BedStatus `json:"effective_status"` // bed number -> derived status
}
