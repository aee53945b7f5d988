package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-inventory-ledger/internal/model"

	"go.uber.org/zap"
)

const (
	LowStockSubject  = "在庫不足通知"
	lowStockHeadline = "以下の商品で在庫が不足しています:"
)

var ErrIncompleteSettings = errors.New("mail sender or recipient is not configured")

// EmailClient delivers one plain-text message using the account in settings.
type EmailClient interface {
	Send(ctx context.Context, settings model.MailSettings, subject, body string) error
}

// LowStockMailer turns a deficient-record list into a single report.
type LowStockMailer struct {
	client EmailClient
	log    *zap.Logger
}

func NewLowStockMailer(client EmailClient, log *zap.Logger) *LowStockMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LowStockMailer{client: client, log: log}
}

func (m *LowStockMailer) NotifyLowStock(ctx context.Context, records []model.InventoryRecord, settings model.MailSettings) error {
	if len(records) == 0 {
		return nil
	}
	if !settings.Complete() {
		return ErrIncompleteSettings
	}

	if err := m.client.Send(ctx, settings, LowStockSubject, LowStockBody(records)); err != nil {
		m.log.Error("low stock report failed", zap.String("recipient", settings.Recipient), zap.Error(err))
		return err
	}
	m.log.Info("low stock report sent", zap.String("recipient", settings.Recipient), zap.Int("records", len(records)))
	return nil
}

// LowStockBody renders the report text.
func LowStockBody(records []model.InventoryRecord) string {
	var b strings.Builder
	b.WriteString(lowStockHeadline)
	b.WriteString("\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s (在庫: %d)\n", r.Name, r.Quantity)
	}
	return b.String()
}

// Discard is the notifier used when MAIL_DRIVER=none.
type Discard struct {
	Log *zap.Logger
}

func (d Discard) NotifyLowStock(_ context.Context, records []model.InventoryRecord, _ model.MailSettings) error {
	if d.Log != nil && len(records) > 0 {
		d.Log.Info("low stock report skipped, mail driver disabled", zap.Int("records", len(records)))
	}
	return nil
}
