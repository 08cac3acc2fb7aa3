package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/constants"
	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

/*
CertificationService tracks employee certifications against the
qualification catalog. Status is never stored by hand: every write path
recomputes it from the expiry date, the verification state and the
current day, and the nightly sweep re-derives it for the whole table so
EXPIRING_SOON and EXPIRED stay accurate as time passes.
*/
type CertificationService struct {
	qualRepo    repositories.QualificationRepository
	empQualRepo repositories.EmployeeQualificationRepository
	empRepo     repositories.EmployeeRepository
}

func NewCertificationService(
	qualRepo repositories.QualificationRepository,
	empQualRepo repositories.EmployeeQualificationRepository,
	empRepo repositories.EmployeeRepository,
) *CertificationService {
	return &CertificationService{
		qualRepo:    qualRepo,
		empQualRepo: empQualRepo,
		empRepo:     empRepo,
	}
}

// Add records a certification. When no expiry date is given and the
// qualification has a renewal period, the expiry is derived from the
// issue date.
func (s *CertificationService) Add(
	ctx context.Context,
	payload dtos.AddCertificationRequest,
) (*models.EmployeeQualification, models.ValidationErrors, error) {
	emp, err := s.empRepo.GetByID(ctx, payload.EmployeeID)
	if err != nil {
		return nil, nil, err
	}
	if emp == nil {
		return nil, nil, utils.ErrNotFound
	}

	qual, err := s.qualRepo.GetByCode(ctx, payload.QualificationCode)
	if err != nil {
		return nil, nil, err
	}
	if qual == nil {
		return nil, models.ValidationErrors{{
			Field:   "qualification_code",
			Message: "Unknown qualification code",
		}}, nil
	}

	issueDate, err := time.ParseInLocation("2006-01-02", payload.IssueDate, time.UTC)
	if err != nil {
		return nil, nil, utils.ErrInvalidPayload
	}

	var expiryDate *time.Time
	if payload.ExpiryDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", payload.ExpiryDate, time.UTC)
		if err != nil {
			return nil, nil, utils.ErrInvalidPayload
		}
		parsed = utils.DateOnly(parsed)
		expiryDate = &parsed
	} else if qual.RenewalPeriodMonths != nil && *qual.RenewalPeriodMonths > 0 {
		derived := utils.DateOnly(issueDate).AddDate(0, *qual.RenewalPeriodMonths, 0)
		expiryDate = &derived
	}

	if expiryDate != nil && expiryDate.Before(utils.DateOnly(issueDate)) {
		return nil, models.ValidationErrors{{
			Field:   "expiry_date",
			Message: "Expiry date cannot be before the issue date",
		}}, nil
	}

	eq := &models.EmployeeQualification{
		ID:                uuid.New(),
		EmployeeID:        payload.EmployeeID,
		QualificationID:   qual.ID,
		QualificationCode: qual.Code,
		IssueDate:         utils.DateOnly(issueDate),
		ExpiryDate:        expiryDate,
		CertificateNumber: payload.CertificateNumber,
	}
	eq.RecomputeStatus(utils.DateOnly(time.Now().UTC()))

	if err := s.empQualRepo.Create(ctx, eq); err != nil {
		return nil, nil, err
	}
	return eq, nil, nil
}

// Verify marks a certification as checked by an administrator, retrying
// on row-version races.
func (s *CertificationService) Verify(
	ctx context.Context,
	certID, verifierID uuid.UUID,
) (*models.EmployeeQualification, error) {
	err := repositories.WithRetry(
		ctx,
		3,
		certID.String(),
		s.empQualRepo.GetByIDString,
		s.empQualRepo.UpdateIfVersion,
		func(eq *models.EmployeeQualification) error {
			eq.Verify(verifierID, time.Now().UTC())
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return s.empQualRepo.GetByID(ctx, certID)
}

func (s *CertificationService) ListForEmployee(ctx context.Context, employeeID uuid.UUID) ([]*models.EmployeeQualification, error) {
	return s.empQualRepo.ListByEmployee(ctx, employeeID)
}

// ExpiringReport lists certifications expiring within the standard
// 90-day reporting window, soonest first.
func (s *CertificationService) ExpiringReport(ctx context.Context) ([]*models.EmployeeQualification, error) {
	return s.empQualRepo.ListExpiringWithin(
		ctx,
		utils.DateOnly(time.Now().UTC()),
		constants.ExpiringCertificationsReportDays,
	)
}

func (s *CertificationService) ExpiredReport(ctx context.Context) ([]*models.EmployeeQualification, error) {
	return s.empQualRepo.ListByStatus(ctx, models.CertificationStatusExpired)
}

func (s *CertificationService) PendingVerificationReport(ctx context.Context) ([]*models.EmployeeQualification, error) {
	return s.empQualRepo.ListByStatus(ctx, models.CertificationStatusPendingVerification)
}

// SweepStatuses re-derives Status for every certification. Run daily:
// it is how ACTIVE rows decay to EXPIRING_SOON and then EXPIRED without
// any user action.
func (s *CertificationService) SweepStatuses(ctx context.Context) (int, error) {
	all, err := s.empQualRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	today := utils.DateOnly(time.Now().UTC())
	changed := 0
	for _, eq := range all {
		before := eq.Status
		eq.RecomputeStatus(today)
		if eq.Status == before {
			continue
		}

		err := repositories.WithRetry(
			ctx,
			3,
			eq.ID.String(),
			s.empQualRepo.GetByIDString,
			s.empQualRepo.UpdateIfVersion,
			func(current *models.EmployeeQualification) error {
				current.RecomputeStatus(today)
				return nil
			},
		)
		if err != nil {
			utils.Logger.WithError(err).Warnf("Status sweep failed for certification %s", eq.ID)
			continue
		}
		changed++
	}
	return changed, nil
}
