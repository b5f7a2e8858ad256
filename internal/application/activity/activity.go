package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names recorded by the application services
const (
	ActionOrderCreated     = "order.created"
	ActionOrdersInvoiced   = "orders.invoiced"
	ActionBatchReceived    = "inventory.batch_received"
	ActionLoadSheetCreated = "load_sheet.created"
	ActionDeliveryRecorded = "load_sheet.delivery_recorded"
	ActionReturnRecorded   = "load_sheet.return_recorded"
)

// Entry is a single line in the back-office activity trail
type Entry struct {
	ID        uuid.UUID
	Timestamp time.Time
	UserID    uuid.UUID
	UserName  string
	Action    string
	Details   string
}

// NewEntry creates an entry stamped with the current time
func NewEntry(userID uuid.UUID, userName, action, details string) Entry {
	return Entry{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		UserID:    userID,
		UserName:  userName,
		Action:    action,
		Details:   details,
	}
}

// Recorder persists activity entries. Recording is best-effort: services
// log and continue when the recorder fails.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// NopRecorder discards all entries
type NopRecorder struct{}

// Record discards the entry
func (NopRecorder) Record(_ context.Context, _ Entry) error { return nil }

// Recent returns an empty slice
func (NopRecorder) Recent(_ context.Context, _ int) ([]Entry, error) { return []Entry{}, nil }

var _ Recorder = NopRecorder{}
