package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

// ShiftService manages the shift catalog: creation, schedule queries,
// publishing, and the recurring templates the maintenance job stamps
// from. Assignment rules live in RosterService.
type ShiftService struct {
	shiftRepo    repositories.ShiftRepository
	templateRepo repositories.ShiftTemplateRepository
	locRepo      repositories.LocationRepository
}

func NewShiftService(
	shiftRepo repositories.ShiftRepository,
	templateRepo repositories.ShiftTemplateRepository,
	locRepo repositories.LocationRepository,
) *ShiftService {
	return &ShiftService{
		shiftRepo:    shiftRepo,
		templateRepo: templateRepo,
		locRepo:      locRepo,
	}
}

func (s *ShiftService) Create(
	ctx context.Context,
	creatorID uuid.UUID,
	payload dtos.CreateShiftRequest,
) (*models.Shift, models.ValidationErrors, error) {
	loc, err := s.locRepo.GetByID(ctx, payload.LocationID)
	if err != nil {
		return nil, nil, err
	}
	if loc == nil {
		return nil, nil, utils.ErrNotFound
	}

	date, err := time.ParseInLocation("2006-01-02", payload.Date, time.UTC)
	if err != nil {
		return nil, nil, utils.ErrInvalidPayload
	}
	start, err := time.Parse("15:04", payload.StartTime)
	if err != nil {
		return nil, nil, utils.ErrInvalidPayload
	}
	end, err := time.Parse("15:04", payload.EndTime)
	if err != nil {
		return nil, nil, utils.ErrInvalidPayload
	}

	shift := &models.Shift{
		ID:                  uuid.New(),
		LocationID:          payload.LocationID,
		ShiftType:           models.ShiftTypeType(payload.ShiftType),
		Date:                utils.DateOnly(date),
		StartTime:           start,
		EndTime:             end,
		RequiredStaffCount:  payload.RequiredStaffCount,
		RequiredRNCount:     payload.RequiredRNCount,
		RequiredChargeNurse: payload.RequiredChargeNurse,
		Notes:               payload.Notes,
		CreatedByID:         &creatorID,
	}
	if err := shift.Validate(); err != nil {
		return nil, models.ValidationErrors{{
			Field:   "required_rn_count",
			Message: err.Error(),
		}}, nil
	}

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, nil, err
	}
	return shift, nil, nil
}

func (s *ShiftService) GetWithAssignments(ctx context.Context, id uuid.UUID) (*models.Shift, error) {
	return s.shiftRepo.GetByIDWithAssignments(ctx, id)
}

// Schedule returns the shifts at a location for a date range. Employees
// only see published shifts; managers also see drafts.
func (s *ShiftService) Schedule(
	ctx context.Context,
	locationID uuid.UUID,
	start, end time.Time,
	includeDrafts bool,
) ([]*models.Shift, error) {
	return s.shiftRepo.ListByLocationAndDateRange(ctx, locationID, start, end, !includeDrafts)
}

func (s *ShiftService) Publish(ctx context.Context, id uuid.UUID) error {
	return s.shiftRepo.SetPublished(ctx, id, true)
}

func (s *ShiftService) CreateTemplate(
	ctx context.Context,
	creatorID uuid.UUID,
	t *models.ShiftTemplate,
) (models.ValidationErrors, error) {
	loc, err := s.locRepo.GetByID(ctx, t.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, utils.ErrNotFound
	}

	if err := t.Validate(); err != nil {
		return models.ValidationErrors{{
			Field:   "required_rn_count",
			Message: err.Error(),
		}}, nil
	}

	t.ID = uuid.New()
	t.CreatedByID = &creatorID
	t.IsActive = true
	return nil, s.templateRepo.Create(ctx, t)
}

func (s *ShiftService) ListTemplates(ctx context.Context, locationID uuid.UUID) ([]*models.ShiftTemplate, error) {
	return s.templateRepo.ListActiveByLocation(ctx, locationID)
}

func (s *ShiftService) DeactivateTemplate(ctx context.Context, id uuid.UUID) error {
	return s.templateRepo.SetActive(ctx, id, false)
}
