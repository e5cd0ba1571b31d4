package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Riyasingh139/DigitalReviverBackend/internal/models"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils"
	"github.com/Riyasingh139/DigitalReviverBackend/internal/utils/logger"
)

// Mailer sends a single message. utils.EmailHandler implements it.
type Mailer interface {
	Send(ctx context.Context, mail utils.Mail) error
}

const contactSubject = "New Popup Form Submission"

const contactTemplate = `You have a new popup form submission:

Name: {{name}}
Email: {{email}}
Phone: {{phone}}
Message: {{message}}
Submitted At: {{submittedAt}}
`

type ContactInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=40"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ContactOptions struct {
	NotifyTo string
	TimeZone string
	Timeout  time.Duration
}

// ContactService stores contact form submissions and notifies the operator.
type ContactService struct {
	store    BaseService[models.ContactSubmission]
	mailer   Mailer
	notifyTo string
	location *time.Location
	timeout  time.Duration
	log      *logger.Logger
}

func NewContactService(store BaseService[models.ContactSubmission], mailer Mailer, opts ContactOptions) *ContactService {
	log := logger.New("CONTACT")
	loc, err := time.LoadLocation(opts.TimeZone)
	if err != nil || opts.TimeZone == "" {
		log.Warn("Unknown time zone %q, notification times use UTC", opts.TimeZone)
		loc = time.UTC
	}
	return &ContactService{
		store:    store,
		mailer:   mailer,
		notifyTo: opts.NotifyTo,
		location: loc,
		timeout:  opts.Timeout,
		log:      log,
	}
}

// Submit saves the submission and mails the operator. The record is kept
// when the mail fails, but the failure is reported to the caller.
func (s *ContactService) Submit(ctx context.Context, in ContactInput, client utils.ClientInfo) (*models.ContactSubmission, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	submission := &models.ContactSubmission{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		Browser:   client.Browser,
		OS:        client.OS,
		Device:    client.Device,
	}
	if err := s.store.Create(ctx, submission); err != nil {
		return nil, internal("save contact submission", err)
	}
	s.log.Info("Saved contact submission %s from %s", submission.ID, submission.Email)

	if s.mailer == nil || s.notifyTo == "" {
		return nil, internal("notify operator", errors.New("mailer is not configured"))
	}
	err := s.mailer.Send(ctx, utils.Mail{
		To:      []string{s.notifyTo},
		From:    s.notifyTo,
		ReplyTo: submission.Email,
		Subject: contactSubject,
		Body:    s.renderNotification(submission),
	})
	if err != nil {
		return nil, internal("notify operator", err)
	}

	return submission, nil
}

func (s *ContactService) renderNotification(c *models.ContactSubmission) string {
	return utils.ReplaceVariables(contactTemplate, map[string]string{
		"name":        c.Name,
		"email":       c.Email,
		"phone":       c.Phone,
		"message":     c.Message,
		"submittedAt": c.CreatedAt.In(s.location).Format("02 Jan 2006, 03:04:05 PM MST"),
	})
}

func (s *ContactService) List(ctx context.Context, page, limit int) ([]models.ContactSubmission, int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	items, total, err := s.store.List(ctx, page, limit, nil)
	if err != nil {
		return nil, 0, internal("list contact submissions", err)
	}
	if items == nil {
		items = []models.ContactSubmission{}
	}
	return items, total, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Delete(ctx, id); err != nil {
		return internal("delete contact submission", err)
	}
	s.log.Info("Deleted contact submission %s", id)
	return nil
}

var exportColumns = []string{"Name", "Email", "Phone", "Message", "Submitted At", "IP Address", "Browser", "OS", "Device"}

// Export renders every submission, newest first, as an XLSX workbook.
func (s *ContactService) Export(ctx context.Context) ([]byte, error) {
	items, _, err := s.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Submissions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, internal("export", err)
	}

	for col, title := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, internal("export", err)
		}
	}

	for i, c := range items {
		row := []interface{}{
			c.Name, c.Email, c.Phone, c.Message,
			c.CreatedAt.In(s.location).Format(time.DateTime),
			c.IPAddress, c.Browser, c.OS, c.Device,
		}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, internal("export", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, internal("export", fmt.Errorf("write workbook: %w", err))
	}
	return buf.Bytes(), nil
}
