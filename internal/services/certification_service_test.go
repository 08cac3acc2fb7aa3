package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/JuliusDeane-data/careplan/internal/dtos"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

type certFixture struct {
	svc      *CertificationService
	qualRepo *fakeQualificationRepo
	certRepo *fakeEmpQualRepo
	empRepo  *fakeEmployeeRepo
	employee *models.Employee
	blsQual  *models.Qualification
	rnQual   *models.Qualification
}

func newCertFixture(t *testing.T) *certFixture {
	t.Helper()

	qualRepo := newFakeQualificationRepo()
	certRepo := newFakeEmpQualRepo()
	empRepo := newFakeEmployeeRepo()

	renewal := 24
	bls := &models.Qualification{
		ID:                  uuid.New(),
		Code:                "BLS",
		Name:                "Basic Life Support",
		RenewalPeriodMonths: &renewal,
		IsActive:            true,
	}
	rn := &models.Qualification{
		ID:       uuid.New(),
		Code:     "RN",
		Name:     "Registered Nurse License",
		IsActive: true,
	}
	require.NoError(t, qualRepo.Create(context.Background(), bls))
	require.NoError(t, qualRepo.Create(context.Background(), rn))

	emp := &models.Employee{
		ID:               uuid.New(),
		EmployeeID:       "EMP001",
		Role:             models.EmployeeRoleEmployee,
		EmploymentStatus: models.EmploymentStatusActive,
	}
	require.NoError(t, empRepo.Create(context.Background(), emp))

	return &certFixture{
		svc:      NewCertificationService(qualRepo, certRepo, empRepo),
		qualRepo: qualRepo,
		certRepo: certRepo,
		empRepo:  empRepo,
		employee: emp,
		blsQual:  bls,
		rnQual:   rn,
	}
}

func dateStr(t time.Time) string {
	return t.Format("2006-01-02")
}

func TestAddDerivesExpiryFromRenewalPeriod(t *testing.T) {
	f := newCertFixture(t)
	issue := utils.DateOnly(time.Now().UTC()).AddDate(0, -1, 0)

	eq, violations, err := f.svc.Add(context.Background(), dtos.AddCertificationRequest{
		EmployeeID:        f.employee.ID,
		QualificationCode: "BLS",
		IssueDate:         dateStr(issue),
		CertificateNumber: "AHA-1138",
	})
	require.NoError(t, err)
	require.Empty(t, violations)

	require.NotNil(t, eq.ExpiryDate)
	require.Equal(t, issue.AddDate(0, 24, 0), *eq.ExpiryDate)
	require.Equal(t, "AHA-1138", eq.CertificateNumber)

	// Unverified and 23 months from expiry.
	require.Equal(t, models.CertificationStatusPendingVerification, eq.Status)

	stored, err := f.certRepo.GetByID(context.Background(), eq.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, int64(1), stored.RowVersion)
}

func TestAddExplicitExpiryOverridesRenewal(t *testing.T) {
	f := newCertFixture(t)
	issue := utils.DateOnly(time.Now().UTC()).AddDate(0, -1, 0)
	expiry := issue.AddDate(1, 0, 0)

	eq, violations, err := f.svc.Add(context.Background(), dtos.AddCertificationRequest{
		EmployeeID:        f.employee.ID,
		QualificationCode: "BLS",
		IssueDate:         dateStr(issue),
		ExpiryDate:        dateStr(expiry),
	})
	require.NoError(t, err)
	require.Empty(t, violations)
	require.Equal(t, expiry, *eq.ExpiryDate)
}

func TestAddWithoutRenewalHasNoExpiry(t *testing.T) {
	f := newCertFixture(t)
	issue := utils.DateOnly(time.Now().UTC()).AddDate(-2, 0, 0)

	eq, violations, err := f.svc.Add(context.Background(), dtos.AddCertificationRequest{
		EmployeeID:        f.employee.ID,
		QualificationCode: "RN",
		IssueDate:         dateStr(issue),
	})
	require.NoError(t, err)
	require.Empty(t, violations)
	require.Nil(t, eq.ExpiryDate)
	require.Equal(t, models.CertificationStatusPendingVerification, eq.Status)
}

func TestAddUnknownQualificationCode(t *testing.T) {
	f := newCertFixture(t)

	eq, violations, err := f.svc.Add(context.Background(), dtos.AddCertificationRequest{
		EmployeeID:        f.employee.ID,
		QualificationCode: "ACLS",
		IssueDate:         dateStr(time.Now().UTC()),
	})
	require.NoError(t, err)
	require.Nil(t, eq)
	require.Len(t, violations, 1)
	require.Equal(t, "qualification_code", violations[0].Field)
	require.Equal(t, "Unknown qualification code", violations[0].Message)
}

func TestAddUnknownEmployee(t *testing.T) {
	f := newCertFixture(t)

	_, _, err := f.svc.Add(context.Background(), dtos.AddCertificationRequest{
		EmployeeID:        uuid.New(),
		QualificationCode: "BLS",
		IssueDate:         dateStr(time.Now().UTC()),
	})
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestAddExpiryBeforeIssue(t *testing.T) {
	f := newCertFixture(t)
	issue := utils.DateOnly(time.Now().UTC())

	eq, violations, err := f.svc.Add(context.Background(), dtos.AddCertificationRequest{
		EmployeeID:        f.employee.ID,
		QualificationCode: "BLS",
		IssueDate:         dateStr(issue),
		ExpiryDate:        dateStr(issue.AddDate(0, 0, -1)),
	})
	require.NoError(t, err)
	require.Nil(t, eq)
	require.Len(t, violations, 1)
	require.Equal(t, "expiry_date", violations[0].Field)
	require.Equal(t, "Expiry date cannot be before the issue date", violations[0].Message)
}

func TestAddMalformedIssueDate(t *testing.T) {
	f := newCertFixture(t)

	_, _, err := f.svc.Add(context.Background(), dtos.AddCertificationRequest{
		EmployeeID:        f.employee.ID,
		QualificationCode: "BLS",
		IssueDate:         "15.01.2025",
	})
	require.ErrorIs(t, err, utils.ErrInvalidPayload)
}

func (f *certFixture) seedCert(t *testing.T, daysUntilExpiry int) *models.EmployeeQualification {
	t.Helper()
	today := utils.DateOnly(time.Now().UTC())
	expiry := today.AddDate(0, 0, daysUntilExpiry)
	eq := &models.EmployeeQualification{
		ID:                uuid.New(),
		EmployeeID:        f.employee.ID,
		QualificationID:   f.blsQual.ID,
		QualificationCode: "BLS",
		IssueDate:         today.AddDate(-2, 0, 0),
		ExpiryDate:        &expiry,
	}
	eq.RecomputeStatus(today)
	require.NoError(t, f.certRepo.Create(context.Background(), eq))
	return eq
}

func TestVerifyActivatesCertification(t *testing.T) {
	f := newCertFixture(t)
	eq := f.seedCert(t, 365)
	require.Equal(t, models.CertificationStatusPendingVerification, eq.Status)

	verifier := uuid.New()
	verified, err := f.svc.Verify(context.Background(), eq.ID, verifier)
	require.NoError(t, err)

	require.Equal(t, models.CertificationStatusActive, verified.Status)
	require.Equal(t, verifier, *verified.VerifiedByID)
	require.NotNil(t, verified.VerifiedAt)
	require.Equal(t, int64(2), verified.RowVersion)
}

func TestVerifyExpiringCertificationStaysExpiringSoon(t *testing.T) {
	f := newCertFixture(t)
	eq := f.seedCert(t, 10)
	require.Equal(t, models.CertificationStatusExpiringSoon, eq.Status)

	verified, err := f.svc.Verify(context.Background(), eq.ID, uuid.New())
	require.NoError(t, err)
	require.Equal(t, models.CertificationStatusExpiringSoon, verified.Status)
}

func TestVerifyUnknownCertification(t *testing.T) {
	f := newCertFixture(t)
	_, err := f.svc.Verify(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestSweepStatusesDecaysStaleRows(t *testing.T) {
	f := newCertFixture(t)
	today := utils.DateOnly(time.Now().UTC())

	// Stored as ACTIVE but now inside the 30-day warning window.
	decaying := f.seedCert(t, 20)
	decaying.Status = models.CertificationStatusActive

	// Stored as ACTIVE but past its expiry date.
	lapsed := f.seedCert(t, -5)
	lapsed.Status = models.CertificationStatusActive

	// Verified with a distant expiry; nothing to change.
	verifier := uuid.New()
	current := f.seedCert(t, 365)
	current.Verify(verifier, today)
	require.Equal(t, models.CertificationStatusActive, current.Status)

	changed, err := f.svc.SweepStatuses(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, changed)

	got, err := f.certRepo.GetByID(context.Background(), decaying.ID)
	require.NoError(t, err)
	require.Equal(t, models.CertificationStatusExpiringSoon, got.Status)

	got, err = f.certRepo.GetByID(context.Background(), lapsed.ID)
	require.NoError(t, err)
	require.Equal(t, models.CertificationStatusExpired, got.Status)

	got, err = f.certRepo.GetByID(context.Background(), current.ID)
	require.NoError(t, err)
	require.Equal(t, models.CertificationStatusActive, got.Status)
}

func TestExpiringReportWindow(t *testing.T) {
	f := newCertFixture(t)

	inWindow := f.seedCert(t, 45)
	f.seedCert(t, 120)

	noExpiry := &models.EmployeeQualification{
		ID:                uuid.New(),
		EmployeeID:        f.employee.ID,
		QualificationID:   f.rnQual.ID,
		QualificationCode: "RN",
		IssueDate:         utils.DateOnly(time.Now().UTC()).AddDate(-2, 0, 0),
	}
	noExpiry.RecomputeStatus(utils.DateOnly(time.Now().UTC()))
	require.NoError(t, f.certRepo.Create(context.Background(), noExpiry))

	report, err := f.svc.ExpiringReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	require.Equal(t, inWindow.ID, report[0].ID)
}

func TestExpiredAndPendingReports(t *testing.T) {
	f := newCertFixture(t)

	expired := f.seedCert(t, -30)
	pending := f.seedCert(t, 365)

	expiredReport, err := f.svc.ExpiredReport(context.Background())
	require.NoError(t, err)
	require.Len(t, expiredReport, 1)
	require.Equal(t, expired.ID, expiredReport[0].ID)

	pendingReport, err := f.svc.PendingVerificationReport(context.Background())
	require.NoError(t, err)
	require.Len(t, pendingReport, 1)
	require.Equal(t, pending.ID, pendingReport[0].ID)
}
