package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/models"
)

// AddCertificationRequest records a new certification for an employee.
// Dates are "YYYY-MM-DD"; an empty expiry date means it never expires.
type AddCertificationRequest struct {
	EmployeeID        uuid.UUID `json:"employee_id" validate:"required"`
	QualificationCode string    `json:"qualification_code" validate:"required,max=32"`
	IssueDate         string    `json:"issue_date" validate:"required,datetime=2006-01-02"`
	ExpiryDate        string    `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CertificateNumber string    `json:"certificate_number,omitempty" validate:"max=128"`
}

type VerifyCertificationRequest struct {
	CertificationID uuid.UUID `json:"certification_id" validate:"required"`
}

type CertificationDTO struct {
	ID                uuid.UUID `json:"id"`
	EmployeeID        uuid.UUID `json:"employee_id"`
	QualificationID   uuid.UUID `json:"qualification_id"`
	QualificationCode string    `json:"qualification_code"`

	IssueDate         string  `json:"issue_date"`
	ExpiryDate        *string `json:"expiry_date,omitempty"`
	CertificateNumber string  `json:"certificate_number,omitempty"`

	Status             string `json:"status"`
	IsVerified         bool   `json:"is_verified"`
	DaysUntilExpiry    *int   `json:"days_until_expiry,omitempty"`
	ExpiryWarningLevel string `json:"expiry_warning_level,omitempty"`

	RowVersion int64     `json:"row_version"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToCertificationDTO(eq *models.EmployeeQualification, today time.Time) CertificationDTO {
	dto := CertificationDTO{
		ID:                 eq.ID,
		EmployeeID:         eq.EmployeeID,
		QualificationID:    eq.QualificationID,
		QualificationCode:  eq.QualificationCode,
		IssueDate:          eq.IssueDate.Format("2006-01-02"),
		CertificateNumber:  eq.CertificateNumber,
		Status:             string(eq.Status),
		IsVerified:         eq.IsVerified(),
		DaysUntilExpiry:    eq.DaysUntilExpiry(today),
		ExpiryWarningLevel: string(eq.ExpiryWarningLevel(today)),
		RowVersion:         eq.RowVersion,
		CreatedAt:          eq.CreatedAt,
	}
	if eq.ExpiryDate != nil {
		s := eq.ExpiryDate.Format("2006-01-02")
		dto.ExpiryDate = &s
	}
	return dto
}

func ToCertificationDTOs(eqs []*models.EmployeeQualification, today time.Time) []CertificationDTO {
	out := make([]CertificationDTO, 0, len(eqs))
	for _, eq := range eqs {
		out = append(out, ToCertificationDTO(eq, today))
	}
	return out
}

type QualificationDTO struct {
	ID                   uuid.UUID `json:"id"`
	Code                 string    `json:"code"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	Category             string    `json:"category"`
	IsRequired           bool      `json:"is_required"`
	RenewalPeriodMonths  *int      `json:"renewal_period_months,omitempty"`
	RenewalPeriodDisplay string    `json:"renewal_period_display"`
	IssuingOrganization  string    `json:"issuing_organization,omitempty"`
	IsActive             bool      `json:"is_active"`
}

func ToQualificationDTO(q *models.Qualification) QualificationDTO {
	return QualificationDTO{
		ID:                   q.ID,
		Code:                 q.Code,
		Name:                 q.Name,
		Description:          q.Description,
		Category:             string(q.Category),
		IsRequired:           q.IsRequired,
		RenewalPeriodMonths:  q.RenewalPeriodMonths,
		RenewalPeriodDisplay: q.RenewalPeriodDisplay(),
		IssuingOrganization:  q.IssuingOrganization,
		IsActive:             q.IsActive,
	}
}
