package services

import "github.com/SscSPs/dailybalance/internal/core/domain"

// EventsSvc hands out per-user streams of data-changed events.
type EventsSvc interface {
	// Subscribe returns a channel of changes for userID and a cancel func that closes it.
	Subscribe(userID string) (<-chan domain.DataChanged, func())
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Ledger     LedgerSvcFacade
	Reconciler ReconcilerSvc
	Chat       ChatSvc
	Events     EventsSvc
}
