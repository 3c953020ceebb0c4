package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain/ward"
	"gorm.io/gorm"
)

type WardRepo struct {
	db *gorm.DB
}

func NewWardRepo(db *gorm.DB) *WardRepo {
	return &WardRepo{db: db}
}

func (r *WardRepo) Create(ctx context.Context, w *ward.Ward) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WardRepo) CreateBatch(ctx context.Context, wards []*ward.Ward) error {
	if len(wards) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range wards {
			if err := tx.Create(w).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *WardRepo) GetByID(ctx context.Context, id uuid.UUID) (*ward.Ward, error) {
	var w ward.Ward
	err := r.db.WithContext(ctx).
		Preload("Beds", func(tx *gorm.DB) *gorm.DB {
			// Numeric ordering despite the text column; legacy values
			// that don't parse sort first.
			return tx.Order("length(bed_number), bed_number")
		}).
		First(&w, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ward.ErrWardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WardRepo) List(ctx context.Context) ([]*ward.Ward, error) {
	var wards []*ward.Ward
	err := r.db.WithContext(ctx).
		Preload("Beds", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("length(bed_number), bed_number")
		}).
		Where("deleted_at IS NULL").
		Order("name").
		Find(&wards).Error
	if err != nil {
		return nil, err
	}
	return wards, nil
}

// SetBedStatus flips the cached status of exactly one bed row. The
// single-row UPDATE is deliberate: it cannot clobber concurrent writes
// to other beds of the same ward.
func (r *WardRepo) SetBedStatus(ctx context.Context, wardID uuid.UUID, bedNumber string, status ward.BedStatus) error {
	res := r.db.WithContext(ctx).
		Model(&ward.Bed{}).
		Where("ward_id = ? AND bed_number = ?", wardID, bedNumber).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ward.ErrBedNotFound
	}
	return nil
}

func (r *WardRepo) ReplaceBeds(ctx context.Context, wardID uuid.UUID, beds []ward.Bed) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ward_id = ?", wardID).Delete(&ward.Bed{}).Error; err != nil {
			return err
		}
		for i := range beds {
			beds[i].ID = uuid.Nil // let the database assign fresh IDs
			beds[i].WardID = wardID
		}
		if len(beds) == 0 {
			return nil
		}
		return tx.Create(&beds).Error
	})
}
