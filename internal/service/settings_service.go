package service

import (
	"fmt"
	"strings"
	"sync"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/pkg/validator"

	"go.uber.org/zap"
)

type UpdateMailSettingsInput struct {
	Sender string `json:"sender" validate:"required,email"`
	// Password left blank keeps the current one.
	Password  string `json:"password"`
	Recipient string `json:"recipient" validate:"required,email"`
}

type MailSettingsView struct {
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	HasPassword bool   `json:"has_password"`
}

type SettingsService interface {
	MailSettingsProvider
	MailView() MailSettingsView
	UpdateMail(in *UpdateMailSettingsInput) (MailSettingsView, error)
}

type settingsService struct {
	mu   sync.RWMutex
	mail model.MailSettings
	log  *zap.Logger
}

func NewSettingsService(initial model.MailSettings, log *zap.Logger) SettingsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &settingsService{mail: initial, log: log}
}

func (s *settingsService) Mail() model.MailSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mail
}

func (s *settingsService) MailView() MailSettingsView {
	return viewOf(s.Mail())
}

func (s *settingsService) UpdateMail(in *UpdateMailSettingsInput) (MailSettingsView, error) {
	in.Sender = strings.TrimSpace(in.Sender)
	in.Password = strings.TrimSpace(in.Password)
	in.Recipient = strings.TrimSpace(in.Recipient)

	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		firstErr := errs[0]
		return MailSettingsView{}, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	s.mu.Lock()
	s.mail.Sender = in.Sender
	s.mail.Recipient = in.Recipient
	if in.Password != "" {
		s.mail.Password = in.Password
	}
	current := s.mail
	s.mu.Unlock()

	s.log.Info("mail settings updated", zap.String("sender", current.Sender), zap.String("recipient", current.Recipient))
	return viewOf(current), nil
}

func viewOf(m model.MailSettings) MailSettingsView {
	return MailSettingsView{Sender: m.Sender, Recipient: m.Recipient, HasPassword: m.Password != ""}
}
