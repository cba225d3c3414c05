package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names the events published after a successful settlement commit.
type EventType string

const (
	EventSaleCreated      EventType = "SaleCreated"
	EventSalePaid         EventType = "SalePaid"
	EventSaleCancelled    EventType = "SaleCancelled"
	EventInvoiceCreated   EventType = "InvoiceCreated"
	EventInvoicePaid      EventType = "InvoicePaid"
	EventInvoiceCancelled EventType = "InvoiceCancelled"
	EventPaymentCreated   EventType = "PaymentCreated"
	EventPaymentReversed  EventType = "PaymentReversed"
	EventStockLow         EventType = "StockLow"
	EventStockCritical    EventType = "StockCritical"
	EventStockOut         EventType = "StockOut"
)

// Event is the single generic envelope published for every mutation. Payload
// is one of the closed set of variants below; there is no per-event publisher
// type.
type Event struct {
	Type       EventType `json:"type"`
	OwnerID    string    `json:"ownerID"`
	Key        string    `json:"key"` // Entity ID, used as the partition/dedup key
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// DocumentEventPayload carries the resulting document snapshot and the fields
// that changed.
type DocumentEventPayload struct {
	Kind            DocumentKind    `json:"kind"`
	DocumentID      string          `json:"documentID"`
	DocumentNumber  string          `json:"documentNumber"`
	AccountRef      AccountRef      `json:"accountRef"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          DocumentStatus  `json:"status"`
	PreviousStatus  DocumentStatus  `json:"previousStatus,omitempty"`
}

// PaymentEventPayload carries a payment snapshot.
type PaymentEventPayload struct {
	Kind           DocumentKind    `json:"kind"` // Document side the payment settles
	PaymentID      string          `json:"paymentID"`
	PaymentNumber  string          `json:"paymentNumber"`
	DocumentID     string          `json:"documentID,omitempty"`
	AccountRef     AccountRef      `json:"accountRef"`
	Amount         decimal.Decimal `json:"amount"`
	Method         PaymentMethod   `json:"method"`
	DocumentStatus DocumentStatus  `json:"documentStatus,omitempty"`
}

// StockAlertPayload carries the item snapshot that tripped a threshold.
type StockAlertPayload struct {
	ItemID       string          `json:"itemID"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	MinimumStock decimal.Decimal `json:"minimumStock"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
	Level        StockAlertLevel `json:"level"`
}

// AlertEventType maps a stock alert level to its published event type.
func AlertEventType(level StockAlertLevel) (EventType, bool) {
	switch level {
	case AlertReorder:
		return EventStockLow, true
	case AlertLowStock:
		return EventStockCritical, true
	case AlertOutOfStock:
		return EventStockOut, true
	default:
		return "", false
	}
}
