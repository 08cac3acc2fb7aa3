package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type QualificationCategoryType string

const (
	QualificationCategoryMustHave    QualificationCategoryType = "MUST_HAVE"
	QualificationCategorySpecialized QualificationCategoryType = "SPECIALIZED"
	QualificationCategoryOptional    QualificationCategoryType = "OPTIONAL"
)

// Qualification is a certification type (e.g. RN, CNA, BLS).
// Immutable reference data.
type Qualification struct {
	Versioned

	ID          uuid.UUID                 `json:"id"`
	Code        string                    `json:"code"` // unique, e.g. BLS
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Category    QualificationCategoryType `json:"category"`
	IsRequired  bool                      `json:"is_required"`

	// nil means the certification never expires
	RenewalPeriodMonths *int `json:"renewal_period_months,omitempty"`

	IssuingOrganization string `json:"issuing_organization,omitempty"`
	IsActive            bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Qualification) GetID() string {
	return q.ID.String()
}

// RenewalPeriodDisplay renders the renewal period for humans:
// "2 year(s)", "6 month(s)", "1 year(s) 6 month(s)", or "No expiration".
func (q *Qualification) RenewalPeriodDisplay() string {
	if q.RenewalPeriodMonths == nil || *q.RenewalPeriodMonths <= 0 {
		return "No expiration"
	}
	months := *q.RenewalPeriodMonths
	years := months / 12
	rem := months % 12

	switch {
	case years > 0 && rem > 0:
		return fmt.Sprintf("%d year(s) %d month(s)", years, rem)
	case years > 0:
		return fmt.Sprintf("%d year(s)", years)
	default:
		return fmt.Sprintf("%d month(s)", months)
	}
}
