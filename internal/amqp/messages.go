package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spese/internal/core"
)

// LedgerEventMessage is the wire form of a core.LedgerEvent. Consumers treat
// it as a change notification and reload the ledger from storage.
type LedgerEventMessage struct {
	Type       string    `json:"type"`
	Index      int       `json:"index"`
	Amount     string    `json:"amount"`
	Category   string    `json:"category"`
	Date       string    `json:"date"`
	LedgerSize int       `json:"ledger_size"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(ev core.LedgerEvent) *LedgerEventMessage {
	ts := ev.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &LedgerEventMessage{
		Type:       string(ev.Type),
		Index:      ev.Index,
		Amount:     core.FormatAmount(ev.Expense.Amount),
		Category:   ev.Expense.Category,
		Date:       ev.Expense.Date,
		LedgerSize: ev.LedgerSize,
		Timestamp:  ts,
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("ledger event without type")
	}
	return &msg, nil
}

// Event converts the message back to a core.LedgerEvent.
func (m *LedgerEventMessage) Event() (core.LedgerEvent, error) {
	amount := decimal.Zero
	if m.Amount != "" {
		d, err := core.ParseStoredAmount(m.Amount)
		if err != nil {
			return core.LedgerEvent{}, err
		}
		amount = d
	}
	return core.LedgerEvent{
		Type:       core.LedgerEventType(m.Type),
		Index:      m.Index,
		Expense:    core.Expense{Amount: amount, Category: m.Category, Date: m.Date},
		LedgerSize: m.LedgerSize,
		At:         m.Timestamp,
	}, nil
}
