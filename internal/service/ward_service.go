package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/domain/reference"
	"github.com/medisys-io/ipdflow/internal/domain/ward"
	"go.uber.org/zap"
)

// ImportError reports which upload rows failed validation. Row numbers
// are spreadsheet rows: the first data row is row 2, under the header.
type ImportError struct {
	Rows []int
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("validation failed at rows %v", e.Rows)
}

type WardService struct {
	wards      ward.Repository
	admissions ActiveBedCounter
	refs       reference.Repository
	log        *zap.Logger
}

// ActiveBedCounter is the slice of the admission store the ward side
// needs: deriving true occupancy for listings.
type ActiveBedCounter interface {
	CountActiveForBed(ctx context.Context, wardID uuid.UUID, bedNumber string) (int64, error)
}

func NewWardService(wards ward.Repository, admissions ActiveBedCounter, refs reference.Repository, log *zap.Logger) *WardService {
	return &WardService{wards: wards, admissions: admissions, refs: refs, log: log}
}

func (s *WardService) CreateWard(ctx context.Context, cmd *ward.CreateWardCommand) (*ward.Ward, error) {
	var errs []string
	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cmd.RoomCategoryID == uuid.Nil {
		errs = append(errs, "room_category_id is required")
	}
	if strings.TrimSpace(cmd.BedSpec) == "" {
		errs = append(errs, "beds is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if _, err := s.refs.GetRoomCategory(ctx, cmd.RoomCategoryID); err != nil {
		return nil, err
	}

	beds, err := ward.BedsFromSpec(cmd.BedSpec)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"beds: " + err.Error()}}
	}

	w := &ward.Ward{
		Name:           strings.TrimSpace(cmd.Name),
		RoomCategoryID: cmd.RoomCategoryID,
		Beds:           beds,
	}
	if err := s.wards.Create(ctx, w); err != nil {
		s.log.Error("failed to create ward", zap.String("name", w.Name), zap.Error(err))
		return nil, fmt.Errorf("creating ward: %w", err)
	}
	return w, nil
}

// BulkImport validates every row, expands bed specifications, and
// inserts all wards only when no row failed. Any failing row aborts the
// whole upload and is reported by spreadsheet row number.
func (s *WardService) BulkImport(ctx context.Context, rows []ward.ImportWardRow) ([]*ward.Ward, error) {
	var (
		failed  []int
		toInsert []*ward.Ward
	)

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header

		name := strings.TrimSpace(row.Name)
		categoryName := strings.TrimSpace(row.RoomCategory)
		bedSpec := strings.TrimSpace(row.Beds)

		if name == "" || categoryName == "" || bedSpec == "" {
			failed = append(failed, rowNum)
			continue
		}

		category, err := s.refs.FindRoomCategoryByName(ctx, categoryName)
		if err != nil {
			failed = append(failed, rowNum)
			continue
		}

		beds, err := ward.BedsFromSpec(bedSpec)
		if err != nil {
			failed = append(failed, rowNum)
			continue
		}

		toInsert = append(toInsert, &ward.Ward{
			Name:           name,
			RoomCategoryID: category.ID,
			Beds:           beds,
		})
	}

	if len(failed) > 0 {
		return nil, &ImportError{Rows: failed}
	}

	if err := s.wards.CreateBatch(ctx, toInsert); err != nil {
		s.log.Error("bulk ward insert failed", zap.Int("count", len(toInsert)), zap.Error(err))
		return nil, fmt.Errorf("inserting wards: %w", err)
	}

	s.log.Info("wards imported", zap.Int("count", len(toInsert)))
	return toInsert, nil
}

// ListWards returns all wards with each bed's effective availability
// derived from active admissions. The cached bed status is included
// as-is; the derived map is what listings should trust.
func (s *WardService) ListWards(ctx context.Context) ([]*ward.WardOccupancy, error) {
	wards, err := s.wards.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*ward.WardOccupancy, 0, len(wards))
	for _, w := range wards {
		effective := make(map[string]ward.BedStatus, len(w.Beds))
		for _, b := range w.Beds {
			n, err := s.admissions.CountActiveForBed(ctx, w.ID, b.Number)
			if err != nil {
				return nil, fmt.Errorf("deriving occupancy for ward %s: %w", w.ID, err)
			}
			if n > 0 {
				effective[b.Number] = ward.BedOccupied
			} else if b.Status == ward.BedCleaning {
				effective[b.Number] = ward.BedCleaning
			} else {
				effective[b.Number] = ward.BedAvailable
			}
		}
		result = append(result, &ward.WardOccupancy{Ward: w, EffectiveStatus: effective})
	}
	return result, nil
}

// NormalizeBeds re-expands legacy range-valued bed rows across all
// wards, deduplicates, and sorts. One-shot repair, run by the bedfix
// tool.
func (s *WardService) NormalizeBeds(ctx context.Context) (int, error) {
	wards, err := s.wards.List(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, w := range wards {
		normalized := ward.NormalizeBeds(w.Beds)
		if err := s.wards.ReplaceBeds(ctx, w.ID, normalized); err != nil {
			return migrated, fmt.Errorf("normalizing ward %s: %w", w.Name, err)
		}
		migrated++
		s.log.Info("ward beds normalized",
			zap.String("ward", w.Name),
			zap.Int("before", len(w.Beds)),
			zap.Int("after", len(normalized)),
		)
	}
	return migrated, nil
}
