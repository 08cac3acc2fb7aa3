package constants

// Vacation request rules
const (
	MinAdvanceNoticeDays       = 14 // Vacation must be requested at least this many days ahead
	DefaultAnnualVacationDays  = 30 // German statutory default for full-time shift staff
)

// Shift assignment rules
const (
	MinRestPeriodHours   = 11.0 // Minimum gap between two assignments, boundary inclusive
	MaxConsecutiveNights = 4    // Longest permitted unbroken run of night shifts
	ConsecutiveNightsWindowDays = 4 // Scan window on each side of the candidate date

	MinChargeNurseYearsOfService = 5

	MinRNRatio  = 0.60 // RN-tier share of SCHEDULED staff must be at least this
	MaxCNARatio = 0.40 // CNA share of SCHEDULED staff must not exceed this
)

// Certification expiry thresholds (days until expiry)
const (
	ExpiringSoonWindowDays      = 30
	ExpiryWarningCriticalDays   = 14
	ExpiryWarningHighDays       = 30
	ExpiryWarningMediumDays     = 90
	ExpiringCertificationsReportDays = 90 // Window for the expiring-certifications report
)

// Qualification codes the assignment validators care about
const (
	QualificationCodeBLS = "BLS"
)

// Shift generation
const (
	DaysToStampAhead            = 7  // Maintenance stamps template shifts for [today..today+7]
	HolidayExpansionLeadDays    = 60 // Expand next year's holidays when within this many days of year end
)

// Common concurrency conflict messages
const (
	ErrMsgNoRowsUpdated             = "No rows updated"
	ErrMsgRowVersionConflictRefresh = "The record has changed, please refresh"
)
