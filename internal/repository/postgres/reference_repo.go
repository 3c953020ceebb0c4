package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain/reference"
	"gorm.io/gorm"
)

type ReferenceRepo struct {
	db *gorm.DB
}

func NewReferenceRepo(db *gorm.DB) *ReferenceRepo {
	return &ReferenceRepo{db: db}
}

func (r *ReferenceRepo) GetDoctor(ctx context.Context, id uuid.UUID) (*reference.Doctor, error) {
	var d reference.Doctor
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reference.ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *ReferenceRepo) GetVisit(ctx context.Context, id uuid.UUID) (*reference.Visit, error) {
	var v reference.Visit
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reference.ErrVisitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ReferenceRepo) GetRoomCategory(ctx context.Context, id uuid.UUID) (*reference.RoomCategory, error) {
	var rc reference.RoomCategory
	err := r.db.WithContext(ctx).First(&rc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reference.ErrRoomCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *ReferenceRepo) FindRoomCategoryByName(ctx context.Context, name string) (*reference.RoomCategory, error) {
	var rc reference.RoomCategory
	err := r.db.WithContext(ctx).
		Where("name = ? OR description = ?", name, name).
		First(&rc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reference.ErrRoomCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}
