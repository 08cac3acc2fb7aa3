package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/constants"
)

type CertificationStatusType string

const (
	CertificationStatusActive              CertificationStatusType = "ACTIVE"
	CertificationStatusExpiringSoon        CertificationStatusType = "EXPIRING_SOON"
	CertificationStatusExpired             CertificationStatusType = "EXPIRED"
	CertificationStatusPendingVerification CertificationStatusType = "PENDING_VERIFICATION"
)

type ExpiryWarningLevelType string

const (
	ExpiryWarningCritical ExpiryWarningLevelType = "CRITICAL"
	ExpiryWarningHigh     ExpiryWarningLevelType = "HIGH"
	ExpiryWarningMedium   ExpiryWarningLevelType = "MEDIUM"
	ExpiryWarningNone     ExpiryWarningLevelType = ""
)

/*
   EmployeeQualification is one certification instance held by one
   employee. Status is always derived from (expiry date, today,
   verification) via RecomputeStatus - persistence code must call it
   before every save, and nothing else may set Status.
*/
type EmployeeQualification struct {
	Versioned

	ID              uuid.UUID `json:"id"`
	EmployeeID      uuid.UUID `json:"employee_id"`
	QualificationID uuid.UUID `json:"qualification_id"`

	// Denormalized for validator lookups; matches Qualification.Code
	QualificationCode string `json:"qualification_code"`

	IssueDate         time.Time  `json:"issue_date"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	CertificateNumber string     `json:"certificate_number,omitempty"`

	VerifiedByID *uuid.UUID `json:"verified_by_id,omitempty"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`

	Status CertificationStatusType `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (eq *EmployeeQualification) GetID() string {
	return eq.ID.String()
}

func (eq *EmployeeQualification) IsVerified() bool {
	return eq.VerifiedByID != nil && eq.VerifiedAt != nil
}

func (eq *EmployeeQualification) IsExpired(today time.Time) bool {
	if eq.ExpiryDate == nil {
		return false
	}
	return eq.ExpiryDate.Before(today)
}

// IsExpiringSoon reports whether the expiry date falls within the next
// `days` days (today inclusive).
func (eq *EmployeeQualification) IsExpiringSoon(today time.Time, days int) bool {
	if eq.ExpiryDate == nil || eq.IsExpired(today) {
		return false
	}
	cutoff := today.AddDate(0, 0, days)
	return !eq.ExpiryDate.After(cutoff)
}

// DaysUntilExpiry returns the days remaining before expiry, or nil when
// the certification never expires. Negative once expired.
func (eq *EmployeeQualification) DaysUntilExpiry(today time.Time) *int {
	if eq.ExpiryDate == nil {
		return nil
	}
	days := int(eq.ExpiryDate.Sub(today).Hours() / 24)
	return &days
}

// ExpiryWarningLevel buckets the remaining validity for dashboards:
// CRITICAL under 14 days, HIGH within 30, MEDIUM within 90.
func (eq *EmployeeQualification) ExpiryWarningLevel(today time.Time) ExpiryWarningLevelType {
	days := eq.DaysUntilExpiry(today)
	if days == nil {
		return ExpiryWarningNone
	}
	switch {
	case *days < constants.ExpiryWarningCriticalDays:
		return ExpiryWarningCritical
	case *days <= constants.ExpiryWarningHighDays:
		return ExpiryWarningHigh
	case *days <= constants.ExpiryWarningMediumDays:
		return ExpiryWarningMedium
	default:
		return ExpiryWarningNone
	}
}

// RecomputeStatus derives Status from current facts. Expired wins over
// everything; expiring-soon over verification state; an unverified,
// still-valid certification is pending verification.
func (eq *EmployeeQualification) RecomputeStatus(today time.Time) {
	switch {
	case eq.IsExpired(today):
		eq.Status = CertificationStatusExpired
	case eq.IsExpiringSoon(today, constants.ExpiringSoonWindowDays):
		eq.Status = CertificationStatusExpiringSoon
	case !eq.IsVerified():
		eq.Status = CertificationStatusPendingVerification
	default:
		eq.Status = CertificationStatusActive
	}
}

// Verify records the verifier and recomputes the derived status.
func (eq *EmployeeQualification) Verify(verifierID uuid.UUID, now time.Time) {
	eq.VerifiedByID = &verifierID
	eq.VerifiedAt = &now
	eq.RecomputeStatus(now)
}

// UsableForAssignment reports whether the certification satisfies a
// shift requirement: only ACTIVE and EXPIRING_SOON count.
func (eq *EmployeeQualification) UsableForAssignment() bool {
	return eq.Status == CertificationStatusActive || eq.Status == CertificationStatusExpiringSoon
}
