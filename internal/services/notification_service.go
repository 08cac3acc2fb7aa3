package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
	"github.com/JuliusDeane-data/careplan/internal/utils"
)

/*
NotificationService fans one domain event out to the channels the
recipient has enabled: an in-app notification row, plus a SendGrid email
when email is on and the recipient is not in quiet hours. Delivery is
best-effort; a failed channel is logged and never fails the calling
operation.
*/
type NotificationService struct {
	notifRepo repositories.NotificationRepository
	empRepo   repositories.EmployeeRepository

	sendgridClient  *sendgrid.Client
	fromEmail       string
	orgName         string
	appURL          string
	sendgridSandbox bool
}

func NewNotificationService(
	notifRepo repositories.NotificationRepository,
	empRepo repositories.EmployeeRepository,
	sendgridClient *sendgrid.Client,
	fromEmail string,
	orgName string,
	appURL string,
	sendgridSandbox bool,
) *NotificationService {
	return &NotificationService{
		notifRepo:       notifRepo,
		empRepo:         empRepo,
		sendgridClient:  sendgridClient,
		fromEmail:       fromEmail,
		orgName:         orgName,
		appURL:          appURL,
		sendgridSandbox: sendgridSandbox,
	}
}

// Dispatch delivers one notification to one recipient, honoring their
// preference row. Returns the stored notification, or nil when the
// recipient opted out of this type entirely.
func (s *NotificationService) Dispatch(
	ctx context.Context,
	recipientID uuid.UUID,
	notifType models.NotificationTypeType,
	title, message string,
	entityKind *models.EntityKindType,
	entityID *uuid.UUID,
	actionURL string,
) (*models.Notification, error) {
	pref, err := s.notifRepo.GetPreference(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = models.DefaultNotificationPreference(recipientID)
	}
	if !pref.ShouldNotify(notifType) {
		return nil, nil
	}

	n := &models.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		EntityKind:  entityKind,
		EntityID:    entityID,
		ActionURL:   actionURL,
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	if pref.EmailEnabled && !pref.IsInQuietHours(time.Now().UTC()) {
		s.sendEmail(ctx, recipientID, title, message, actionURL)
	}
	return n, nil
}

func (s *NotificationService) sendEmail(ctx context.Context, recipientID uuid.UUID, subject, body, actionURL string) {
	if s.sendgridClient == nil {
		utils.Logger.Warnf("SendGrid client is nil, skipping email to employee %s", recipientID)
		return
	}

	emp, err := s.empRepo.GetByID(ctx, recipientID)
	if err != nil || emp == nil || emp.Email == "" {
		utils.Logger.WithError(err).Warnf("No deliverable email address for employee %s", recipientID)
		return
	}

	link := s.appURL
	if actionURL != "" {
		link = s.appURL + actionURL
	}
	htmlBody := fmt.Sprintf(
		"<p>Hi %s,</p><p>%s</p><p><a href=\"%s\">Open CarePlan</a></p>",
		emp.FirstName, body, link,
	)

	from := mail.NewEmail(s.orgName, s.fromEmail)
	to := mail.NewEmail(emp.FullName(), emp.Email)
	msg := mail.NewSingleEmail(from, subject, to, body, htmlBody)
	if s.sendgridSandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}
	if _, sgErr := s.sendgridClient.Send(msg); sgErr != nil {
		utils.Logger.WithError(sgErr).Warnf("Email send failure to employee %s", recipientID)
	}
}

func (s *NotificationService) ListForRecipient(
	ctx context.Context,
	recipientID uuid.UUID,
	unreadOnly bool,
	limit int,
) ([]*models.Notification, int, error) {
	notifications, err := s.notifRepo.ListByRecipient(ctx, recipientID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.notifRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id, recipientID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notifRepo.MarkAllAsRead(ctx, recipientID)
}

// GetPreference returns the stored preference row, or the default when
// the employee never saved one.
func (s *NotificationService) GetPreference(ctx context.Context, employeeID uuid.UUID) (*models.NotificationPreference, error) {
	pref, err := s.notifRepo.GetPreference(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return models.DefaultNotificationPreference(employeeID), nil
	}
	return pref, nil
}

func (s *NotificationService) SavePreference(ctx context.Context, pref *models.NotificationPreference) error {
	return s.notifRepo.UpsertPreference(ctx, pref)
}
