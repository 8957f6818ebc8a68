package ledger

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"max.ks1230/expense-ledger/internal/logger"
)

const (
	EventRegistered      = "account_registered"
	EventExpensesUpdated = "expenses_updated"
	EventDeleted         = "account_deleted"
)

// Event describes a change already persisted to the ledger.
type Event struct {
	Type     string    `json:"type"`
	Username string    `json:"username"`
	Expenses int       `json:"expenses"`
	At       time.Time `json:"at"`
}

func (s *Service) publish(eventType, username string, expenses int) {
	if s.events == nil {
		return
	}
	msg, err := json.Marshal(Event{
		Type:     eventType,
		Username: username,
		Expenses: expenses,
		At:       time.Now().UTC(),
	})
	if err == nil {
		err = s.events.ProduceMessage(username, msg)
	}
	if err != nil {
		logger.Error("failed to publish ledger event", zap.String("type", eventType), zap.Error(err))
	}
}
