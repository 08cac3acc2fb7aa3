package routes

const (
	// Health
	Health = "/health"

	// Vacation requests
	VacationBase    = "/api/v1/vacation-requests"
	VacationMy      = "/api/v1/vacation-requests/my"
	VacationPending = "/api/v1/vacation-requests/pending"
	VacationBalance = "/api/v1/vacation-requests/balance"
	VacationApprove = "/api/v1/vacation-requests/approve"
	VacationDeny    = "/api/v1/vacation-requests/deny"
	VacationCancel  = "/api/v1/vacation-requests/cancel"
	VacationByID    = "/api/v1/vacation-requests/{id}"

	// Shifts and assignments
	ShiftsBase              = "/api/v1/shifts"
	ShiftsSchedule          = "/api/v1/shifts/schedule"
	ShiftsValidateAssign    = "/api/v1/shifts/assignments/validate"
	ShiftsAssignmentStatus  = "/api/v1/shifts/assignments/{id}/status"
	ShiftsByID              = "/api/v1/shifts/{id}"
	ShiftsPublish           = "/api/v1/shifts/{id}/publish"
	ShiftsAssignments       = "/api/v1/shifts/{id}/assignments"

	// Shift templates
	ShiftTemplatesBase       = "/api/v1/shift-templates"
	ShiftTemplatesDeactivate = "/api/v1/shift-templates/{id}/deactivate"

	// Certifications and the qualification catalog
	CertificationsBase            = "/api/v1/certifications"
	CertificationsVerify          = "/api/v1/certifications/verify"
	CertificationsMy              = "/api/v1/certifications/my"
	CertificationsByEmployee      = "/api/v1/certifications/employee/{id}"
	CertificationsReportExpiring  = "/api/v1/certifications/reports/expiring"
	CertificationsReportExpired   = "/api/v1/certifications/reports/expired"
	CertificationsReportPending   = "/api/v1/certifications/reports/pending-verification"
	QualificationsBase            = "/api/v1/qualifications"

	// Notifications
	NotificationsBase        = "/api/v1/notifications"
	NotificationsReadAll     = "/api/v1/notifications/read-all"
	NotificationsPreferences = "/api/v1/notifications/preferences"
	NotificationsRead        = "/api/v1/notifications/{id}/read"

	// Locations and the holiday registry
	LocationsBase = "/api/v1/locations"
	LocationsByID = "/api/v1/locations/{id}"
	HolidaysBase  = "/api/v1/holidays"
)
