package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
)

// Mock Ledger
type mockLedger struct {
	mu    sync.Mutex
	saves [][]model.InventoryRecord
	err   error
}

func (m *mockLedger) Save(ctx context.Context, records []model.InventoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, records)
	return m.err
}

func (m *mockLedger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

// Mock LowStockNotifier
type mockNotifier struct {
	mu       sync.Mutex
	calls    [][]model.InventoryRecord
	settings []model.MailSettings
	err      error
}

func (m *mockNotifier) NotifyLowStock(ctx context.Context, records []model.InventoryRecord, settings model.MailSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, records)
	m.settings = append(m.settings, settings)
	return m.err
}

type staticSettings model.MailSettings

func (s staticSettings) Mail() model.MailSettings { return model.MailSettings(s) }

// Mock Publisher
type mockPublisher struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (m *mockPublisher) Publish(msg []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

type fixture struct {
	svc       InventoryService
	ledger    *mockLedger
	notifier  *mockNotifier
	publisher *mockPublisher
	movements repository.MovementRepository
}

func newFixture(t *testing.T, rows ...model.Row) *fixture {
	t.Helper()
	repo := repository.NewRecordRepo(model.DefaultThreshold)
	repo.Load(rows)

	f := &fixture{
		ledger:    &mockLedger{},
		notifier:  &mockNotifier{},
		publisher: &mockPublisher{},
		movements: repository.NewMemoryMovementRepo(),
	}
	f.svc = NewInventoryService(InventoryDeps{
		Records:          repo,
		Movements:        f.movements,
		Ledger:           f.ledger,
		Policy:           NewLowStockPolicy(5, false),
		Notifier:         f.notifier,
		Settings:         staticSettings{Sender: "stock@example.com", Recipient: "buyer@example.com"},
		Publisher:        f.publisher,
		DefaultThreshold: model.DefaultThreshold,
	})
	return f
}

func widgetRow() model.Row {
	return model.Row{"id": "A1", "name": "Widget", "category": "Parts", "quantity": "3", "threshold": "5", "order_pending": "false"}
}

func boltRow() model.Row {
	return model.Row{"id": "B7", "name": "Bolt", "category": "Parts", "location": "Shelf 1", "quantity": "40"}
}

func TestStockIn_AddsAndClearsOrderPending(t *testing.T) {
	f := newFixture(t, widgetRow())
	ctx := context.Background()

	if _, err := f.svc.SetOrderPending(ctx, "A1", true); err != nil {
		t.Fatal(err)
	}
	out, err := f.svc.StockIn(ctx, "A1", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Record.Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", out.Record.Quantity)
	}
	if out.Record.OrderPending {
		t.Error("expected order_pending to be cleared")
	}
	if f.ledger.count() != 2 {
		t.Errorf("expected 2 saves, got %d", f.ledger.count())
	}
	if len(f.notifier.calls) != 0 {
		t.Error("stock-in must not trigger a low-stock notification")
	}
}

func TestStockIn_RejectsBadQuantity(t *testing.T) {
	f := newFixture(t, widgetRow())

	for _, qty := range []int{0, -2} {
		if _, err := f.svc.StockIn(context.Background(), "A1", qty); !errors.Is(err, ErrValidation) {
			t.Errorf("qty %d: expected ErrValidation, got %v", qty, err)
		}
	}
	if f.ledger.count() != 0 {
		t.Error("expected no save on validation failure")
	}
}

func TestStockIn_RejectsOverflow(t *testing.T) {
	f := newFixture(t, widgetRow())

	if _, err := f.svc.StockIn(context.Background(), "A1", math.MaxInt); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	rec, err := f.svc.GetRecord("A1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Quantity != 3 {
		t.Errorf("expected quantity unchanged at 3, got %d", rec.Quantity)
	}
	if f.ledger.count() != 0 {
		t.Error("expected no save on overflow")
	}

	out, err := f.svc.StockIn(context.Background(), "A1", math.MaxInt-3)
	if err != nil {
		t.Fatalf("expected the exact fit to succeed, got %v", err)
	}
	if out.Record.Quantity != math.MaxInt {
		t.Errorf("expected MaxInt, got %d", out.Record.Quantity)
	}
}

func TestStockIn_NotFound(t *testing.T) {
	f := newFixture(t, widgetRow())

	if _, err := f.svc.StockIn(context.Background(), "ZZ", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStockOut_InsufficientStockLeavesRecord(t *testing.T) {
	f := newFixture(t, widgetRow())

	_, err := f.svc.StockOut(context.Background(), "A1", 5)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	rec, _ := f.svc.GetRecord("A1")
	if rec.Quantity != 3 {
		t.Errorf("expected quantity to remain 3, got %d", rec.Quantity)
	}
	if f.ledger.count() != 0 {
		t.Error("expected no save after a rejected stock-out")
	}
}

func TestStockOut_SubtractsAndNotifiesOnce(t *testing.T) {
	f := newFixture(t, widgetRow(), boltRow(), model.Row{"id": "C3", "name": "Nut", "quantity": "2"})

	out, err := f.svc.StockOut(context.Background(), "B7", 36)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Record.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", out.Record.Quantity)
	}

	if len(f.notifier.calls) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.calls))
	}
	var ids []string
	for _, r := range f.notifier.calls[0] {
		ids = append(ids, r.ID)
	}
	if !reflect.DeepEqual(ids, []string{"A1", "B7", "C3"}) {
		t.Errorf("expected all deficient records in store order, got %v", ids)
	}
	if f.notifier.settings[0].Recipient != "buyer@example.com" {
		t.Errorf("expected settings to be passed through, got %+v", f.notifier.settings[0])
	}
}

func TestStockOut_NoNotificationWhenNothingLow(t *testing.T) {
	f := newFixture(t, boltRow())

	out, err := f.svc.StockOut(context.Background(), "B7", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.LowStock) != 0 || len(f.notifier.calls) != 0 {
		t.Error("expected no low-stock notification")
	}
}

func TestStockOut_NotificationFailureIsWarning(t *testing.T) {
	f := newFixture(t, widgetRow())
	f.notifier.err = errors.New("smtp: connection refused")

	out, err := f.svc.StockOut(context.Background(), "A1", 1)
	if err != nil {
		t.Fatalf("notification failure must not fail the stock-out: %v", err)
	}
	if !errors.Is(out.NotifyErr, ErrNotification) {
		t.Errorf("expected ErrNotification warning, got %v", out.NotifyErr)
	}
	if out.Record.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", out.Record.Quantity)
	}
}

func TestStockOut_SaveFailureKeepsMemory(t *testing.T) {
	f := newFixture(t, boltRow())
	f.ledger.err = errors.New("disk full")

	out, err := f.svc.StockOut(context.Background(), "B7", 5)
	if err != nil {
		t.Fatalf("save failure must not fail the stock-out: %v", err)
	}
	if !errors.Is(out.SaveErr, ErrPersistence) {
		t.Errorf("expected ErrPersistence warning, got %v", out.SaveErr)
	}
	if len(out.Warnings()) != 1 {
		t.Errorf("expected one warning, got %v", out.Warnings())
	}
	rec, _ := f.svc.GetRecord("B7")
	if rec.Quantity != 35 {
		t.Errorf("expected in-memory quantity 35, got %d", rec.Quantity)
	}
}

func TestSetOrderPending_SuppressesLowStock(t *testing.T) {
	f := newFixture(t, widgetRow())
	ctx := context.Background()

	low := f.svc.LowStock(nil)
	if len(low) != 1 || low[0].ID != "A1" {
		t.Fatalf("expected [A1], got %+v", low)
	}

	if _, err := f.svc.SetOrderPending(ctx, "A1", true); err != nil {
		t.Fatal(err)
	}
	if low := f.svc.LowStock(nil); len(low) != 0 {
		t.Errorf("expected no low-stock records, got %+v", low)
	}
}

func TestSetOrderPending_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.SetOrderPending(context.Background(), "A1", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterProduct_NormalizesCategory(t *testing.T) {
	f := newFixture(t, widgetRow())

	out, err := f.svc.RegisterProduct(context.Background(), &RegisterProductInput{
		ID: "B2", Name: "Gadget", Category: "", Quantity: "10", Threshold: "2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Record.Category != model.UnsetLabel {
		t.Errorf("expected category %q, got %q", model.UnsetLabel, out.Record.Category)
	}
	if out.Record.OrderPending {
		t.Error("expected order_pending false")
	}

	all := f.svc.Records()
	if len(all) != 2 || all[1].ID != "B2" {
		t.Errorf("expected B2 appended at the end, got %+v", all)
	}
	if f.ledger.count() != 1 {
		t.Errorf("expected one save, got %d", f.ledger.count())
	}
}

func TestRegisterProduct_RejectsDuplicateAfterTrim(t *testing.T) {
	f := newFixture(t, widgetRow())

	_, err := f.svc.RegisterProduct(context.Background(), &RegisterProductInput{
		ID: "  A1 ", Name: "Copy", Category: "x", Quantity: "1", Threshold: "1",
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if n := len(f.svc.Records()); n != 1 {
		t.Errorf("expected store unchanged, got %d records", n)
	}
}

func TestRegisterProduct_Validation(t *testing.T) {
	cases := map[string]RegisterProductInput{
		"missing id":         {Name: "n", Quantity: "1", Threshold: "1"},
		"blank name":         {ID: "X", Name: "   ", Quantity: "1", Threshold: "1"},
		"missing quantity":   {ID: "X", Name: "n", Threshold: "1"},
		"negative quantity":  {ID: "X", Name: "n", Quantity: "-1", Threshold: "1"},
		"fraction threshold": {ID: "X", Name: "n", Quantity: "1", Threshold: "1.5"},
		"text quantity":      {ID: "X", Name: "n", Quantity: "ten", Threshold: "1"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			in := in
			if _, err := f.svc.RegisterProduct(context.Background(), &in); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if len(f.svc.Records()) != 0 || f.ledger.count() != 0 {
				t.Error("expected no mutation")
			}
		})
	}
}

func TestCountText_AcceptsNumbers(t *testing.T) {
	var in RegisterProductInput
	if err := json.Unmarshal([]byte(`{"id":"X","name":"n","quantity":12,"threshold":"3"}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.Quantity != "12" || in.Threshold != "3" {
		t.Errorf("unexpected input: %+v", in)
	}
	if err := json.Unmarshal([]byte(`{"quantity":true}`), &in); err == nil {
		t.Error("expected boolean quantity to be rejected")
	}
}

func TestImportRows_AllOrNothing(t *testing.T) {
	f := newFixture(t, widgetRow())
	ctx := context.Background()

	_, err := f.svc.ImportRows(ctx, []model.Row{
		{"id": "N1", "name": "New"},
		{"id": "A1", "name": "Clash"},
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if len(f.svc.Records()) != 1 {
		t.Fatal("expected no partial import")
	}

	if _, err := f.svc.ImportRows(ctx, []model.Row{{"id": "N1", "name": "New"}, {"id": "N1", "name": "Again"}}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected duplicate inside file to be rejected, got %v", err)
	}
	if _, err := f.svc.ImportRows(ctx, []model.Row{{"id": "N2"}}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected missing name to be rejected, got %v", err)
	}

	out, err := f.svc.ImportRows(ctx, []model.Row{
		{"id": "N1", "name": "New", "quantity": "7"},
		{"id": "N2", "name": "Newer", "category": "Tools"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Imported) != 2 {
		t.Errorf("expected 2 imported, got %d", len(out.Imported))
	}
	all := f.svc.Records()
	if len(all) != 3 || all[1].Quantity != 7 || all[2].Threshold != model.DefaultThreshold {
		t.Errorf("unexpected store after import: %+v", all)
	}
	if f.ledger.count() != 1 {
		t.Errorf("expected one save for the whole import, got %d", f.ledger.count())
	}
}

func TestMutations_JournalAndPublish(t *testing.T) {
	f := newFixture(t, boltRow())
	ctx := context.Background()

	if _, err := f.svc.StockIn(ctx, "B7", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.StockOut(ctx, "B7", 1); err != nil {
		t.Fatal(err)
	}

	movements, err := f.svc.Movements(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(movements) != 2 || movements[0].Type != model.MovementOut || movements[0].Quantity != -1 || movements[0].QuantityAfter != 41 {
		t.Errorf("unexpected journal: %+v", movements)
	}

	if len(f.publisher.msgs) != 2 {
		t.Fatalf("expected 2 change events, got %d", len(f.publisher.msgs))
	}
	var event map[string]interface{}
	if err := json.Unmarshal(f.publisher.msgs[1], &event); err != nil {
		t.Fatal(err)
	}
	if event["type"] != "inventory_changed" || event["action"] != "stock_out" {
		t.Errorf("unexpected event: %v", event)
	}
}

func TestLowStock_Override(t *testing.T) {
	f := newFixture(t, widgetRow(), boltRow())

	threshold := 50
	if low := f.svc.LowStock(&threshold); len(low) != 2 {
		t.Errorf("expected both records below 50, got %+v", low)
	}
}
