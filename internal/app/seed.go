package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/constants"
	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/services"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

// Sentinel IDs keep seeding idempotent across restarts: the seeder checks
// for the location row and bails out when it already exists.
var (
	seedLocationID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

	seedManagerID = uuid.MustParse("22222222-2222-2222-2222-222222222201")
	seedNurse1ID  = uuid.MustParse("22222222-2222-2222-2222-222222222202")
	seedNurse2ID  = uuid.MustParse("22222222-2222-2222-2222-222222222203")
	seedNurse3ID  = uuid.MustParse("22222222-2222-2222-2222-222222222204")
	seedCNA1ID    = uuid.MustParse("22222222-2222-2222-2222-222222222205")
	seedCNA2ID    = uuid.MustParse("22222222-2222-2222-2222-222222222206")

	seedQualRNID  = uuid.MustParse("33333333-3333-3333-3333-333333333301")
	seedQualCNAID = uuid.MustParse("33333333-3333-3333-3333-333333333302")
	seedQualBLSID = uuid.MustParse("33333333-3333-3333-3333-333333333303")

	seedTemplateDayID   = uuid.MustParse("44444444-4444-4444-4444-444444444401")
	seedTemplateNightID = uuid.MustParse("44444444-4444-4444-4444-444444444402")
)

// SeedTestData provisions a demo care facility with a manager, a small
// nursing team, the qualification catalog, BLS certifications, weekly
// shift templates, and the current year's statutory and regional
// holidays.
func SeedTestData(
	ctx context.Context,
	locRepo repositories.LocationRepository,
	empRepo repositories.EmployeeRepository,
	qualRepo repositories.QualificationRepository,
	empQualRepo repositories.EmployeeQualificationRepository,
	templateRepo repositories.ShiftTemplateRepository,
	holidayService *services.HolidayService,
) error {
	if existing, err := locRepo.GetByID(ctx, seedLocationID); err != nil {
		return fmt.Errorf("check existing seed location: %w", err)
	} else if existing != nil {
		utils.Logger.Info("Seed data already present; skipping seeding")
		return nil
	}

	if err := seedQualifications(ctx, qualRepo); err != nil {
		return fmt.Errorf("seed qualifications: %w", err)
	}
	if err := seedLocation(ctx, locRepo); err != nil {
		return fmt.Errorf("seed location: %w", err)
	}
	if err := seedEmployees(ctx, empRepo); err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}

	// Attach the manager after the employees exist; the location row is
	// created first because employees reference it.
	if loc, err := locRepo.GetByID(ctx, seedLocationID); err != nil {
		return fmt.Errorf("reload seed location: %w", err)
	} else if loc != nil {
		managerID := seedManagerID
		loc.ManagerID = &managerID
		if err := locRepo.Update(ctx, loc); err != nil {
			return fmt.Errorf("set seed location manager: %w", err)
		}
	}

	if err := seedCertifications(ctx, empQualRepo); err != nil {
		return fmt.Errorf("seed certifications: %w", err)
	}
	if err := seedShiftTemplates(ctx, templateRepo); err != nil {
		return fmt.Errorf("seed shift templates: %w", err)
	}

	year := time.Now().UTC().Year()
	if _, err := holidayService.SeedStatutoryHolidays(ctx, year); err != nil {
		return fmt.Errorf("seed statutory holidays for %d: %w", year, err)
	}
	// The demo facility is in Berlin, so it also observes the state-level
	// holidays. These rows are scoped to the location.
	if _, err := holidayService.SeedRegionalHolidays(ctx, year, seedLocationID); err != nil {
		return fmt.Errorf("seed regional holidays for %d: %w", year, err)
	}

	utils.Logger.Info("Seed data created")
	return nil
}

func seedQualifications(ctx context.Context, qualRepo repositories.QualificationRepository) error {
	months := func(m int) *int { return &m }

	quals := []*models.Qualification{
		{
			ID:                  seedQualRNID,
			Code:                "RN",
			Name:                "Registered Nurse License",
			Category:            models.QualificationCategoryMustHave,
			IsRequired:          true,
			RenewalPeriodMonths: nil,
			IssuingOrganization: "State Board of Nursing",
			IsActive:            true,
		},
		{
			ID:                  seedQualCNAID,
			Code:                "CNA",
			Name:                "Certified Nursing Assistant",
			Category:            models.QualificationCategoryMustHave,
			IsRequired:          true,
			RenewalPeriodMonths: months(24),
			IssuingOrganization: "State Nurse Aide Registry",
			IsActive:            true,
		},
		{
			ID:                  seedQualBLSID,
			Code:                constants.QualificationCodeBLS,
			Name:                "Basic Life Support",
			Category:            models.QualificationCategoryMustHave,
			IsRequired:          true,
			RenewalPeriodMonths: months(24),
			IssuingOrganization: "American Heart Association",
			IsActive:            true,
		},
	}

	for _, q := range quals {
		if err := qualRepo.CreateIfNotExists(ctx, q); err != nil {
			return fmt.Errorf("create qualification %s: %w", q.Code, err)
		}
	}
	return nil
}

func seedLocation(ctx context.Context, locRepo repositories.LocationRepository) error {
	loc := &models.Location{
		ID:          seedLocationID,
		Name:        "Sonnenhof Care Center",
		Address:     "Lindenstrasse 12",
		City:        "Berlin",
		PostalCode:  "10115",
		Country:     "DE",
		Phone:       "+49 30 1234567",
		Email:       "sonnenhof@example.com",
		MaxCapacity: 120,
		Latitude:    52.5321,
		Longitude:   13.3849,
		TimeZone:    "Europe/Berlin",
		IsActive:    true,
	}
	return locRepo.Create(ctx, loc)
}

func seedEmployees(ctx context.Context, empRepo repositories.EmployeeRepository) error {
	locID := seedLocationID
	managerID := seedManagerID

	hire := func(yearsAgo int) *time.Time {
		d := utils.DateOnly(time.Now().UTC().AddDate(-yearsAgo, 0, 0))
		return &d
	}

	employees := []*models.Employee{
		{
			ID:         seedManagerID,
			EmployeeID: "EMP001",
			Role:       models.EmployeeRoleManager,
			FirstName:  "Martina",
			LastName:   "Keller",
			Email:      "martina.keller@example.com",
			HireDate:   hire(12),
			JobTitle:   "Nursing Director",
		},
		{
			ID:           seedNurse1ID,
			EmployeeID:   "EMP002",
			Role:         models.EmployeeRoleEmployee,
			FirstName:    "Jonas",
			LastName:     "Brandt",
			Email:        "jonas.brandt@example.com",
			HireDate:     hire(7),
			JobTitle:     "Charge Nurse",
			SupervisorID: &managerID,
		},
		{
			ID:           seedNurse2ID,
			EmployeeID:   "EMP003",
			Role:         models.EmployeeRoleEmployee,
			FirstName:    "Leonie",
			LastName:     "Winter",
			Email:        "leonie.winter@example.com",
			HireDate:     hire(3),
			JobTitle:     "Registered Nurse",
			SupervisorID: &managerID,
		},
		{
			ID:           seedNurse3ID,
			EmployeeID:   "EMP004",
			Role:         models.EmployeeRoleEmployee,
			FirstName:    "Felix",
			LastName:     "Hartmann",
			Email:        "felix.hartmann@example.com",
			HireDate:     hire(1),
			JobTitle:     "Registered Nurse",
			SupervisorID: &managerID,
		},
		{
			ID:           seedCNA1ID,
			EmployeeID:   "EMP005",
			Role:         models.EmployeeRoleEmployee,
			FirstName:    "Aylin",
			LastName:     "Demir",
			Email:        "aylin.demir@example.com",
			HireDate:     hire(2),
			JobTitle:     "Nursing Assistant",
			SupervisorID: &managerID,
		},
		{
			ID:           seedCNA2ID,
			EmployeeID:   "EMP006",
			Role:         models.EmployeeRoleEmployee,
			FirstName:    "Pavel",
			LastName:     "Novak",
			Email:        "pavel.novak@example.com",
			HireDate:     hire(4),
			JobTitle:     "Nursing Assistant",
			SupervisorID: &managerID,
		},
	}

	for _, emp := range employees {
		emp.EmploymentStatus = models.EmploymentStatusActive
		emp.PrimaryLocationID = &locID
		emp.AnnualVacationDays = constants.DefaultAnnualVacationDays
		emp.RemainingVacationDays = constants.DefaultAnnualVacationDays
		if err := empRepo.Create(ctx, emp); err != nil {
			return fmt.Errorf("create employee %s: %w", emp.EmployeeID, err)
		}
	}
	return nil
}

func seedCertifications(ctx context.Context, empQualRepo repositories.EmployeeQualificationRepository) error {
	today := utils.DateOnly(time.Now().UTC())
	managerID := seedManagerID

	cert := func(employeeID uuid.UUID, qualID uuid.UUID, code string, monthsLeft int) *models.EmployeeQualification {
		issue := today.AddDate(-2, monthsLeft, 0)
		expiry := issue.AddDate(2, 0, 0)
		verifiedAt := issue.AddDate(0, 0, 3)
		return &models.EmployeeQualification{
			ID:                uuid.New(),
			EmployeeID:        employeeID,
			QualificationID:   qualID,
			QualificationCode: code,
			IssueDate:         issue,
			ExpiryDate:        &expiry,
			CertificateNumber: fmt.Sprintf("%s-%s", code, employeeID.String()[:8]),
			VerifiedByID:      &managerID,
			VerifiedAt:        &verifiedAt,
			Status:            models.CertificationStatusActive,
		}
	}

	certs := []*models.EmployeeQualification{
		cert(seedNurse1ID, seedQualBLSID, constants.QualificationCodeBLS, 10),
		cert(seedNurse1ID, seedQualRNID, "RN", 10),
		cert(seedNurse2ID, seedQualBLSID, constants.QualificationCodeBLS, 8),
		cert(seedNurse2ID, seedQualRNID, "RN", 8),
		cert(seedNurse3ID, seedQualBLSID, constants.QualificationCodeBLS, 6),
		cert(seedNurse3ID, seedQualRNID, "RN", 6),
		cert(seedCNA1ID, seedQualBLSID, constants.QualificationCodeBLS, 4),
		cert(seedCNA1ID, seedQualCNAID, "CNA", 4),
		// One cert that is about to expire, so warning levels show up in
		// the expiring-certifications report out of the box.
		cert(seedCNA2ID, seedQualBLSID, constants.QualificationCodeBLS, 24),
		cert(seedCNA2ID, seedQualCNAID, "CNA", 12),
	}

	for _, eq := range certs {
		eq.RecomputeStatus(today)
		if err := empQualRepo.Create(ctx, eq); err != nil {
			return fmt.Errorf("create certification %s for %s: %w", eq.QualificationCode, eq.EmployeeID, err)
		}
	}
	return nil
}

func seedShiftTemplates(ctx context.Context, templateRepo repositories.ShiftTemplateRepository) error {
	managerID := seedManagerID
	clock := func(h, m int) time.Time {
		return time.Date(0, time.January, 1, h, m, 0, 0, time.UTC)
	}

	templates := []*models.ShiftTemplate{
		{
			ID:                  seedTemplateDayID,
			Name:                "Weekday Day Shift",
			LocationID:          seedLocationID,
			DayOfWeek:           time.Monday,
			ShiftType:           models.ShiftTypeDay,
			StartTime:           clock(7, 0),
			EndTime:             clock(19, 0),
			RequiredStaffCount:  5,
			RequiredRNCount:     3,
			RequiredChargeNurse: true,
			IsActive:            true,
			CreatedByID:         &managerID,
		},
		{
			ID:                  seedTemplateNightID,
			Name:                "Weekday Night Shift",
			LocationID:          seedLocationID,
			DayOfWeek:           time.Monday,
			ShiftType:           models.ShiftTypeNight,
			StartTime:           clock(19, 0),
			EndTime:             clock(7, 0),
			RequiredStaffCount:  3,
			RequiredRNCount:     2,
			RequiredChargeNurse: false,
			IsActive:            true,
			CreatedByID:         &managerID,
		},
	}

	for _, t := range templates {
		if err := templateRepo.CreateIfNotExists(ctx, t); err != nil {
			return fmt.Errorf("create shift template %s: %w", t.Name, err)
		}
	}
	return nil
}
