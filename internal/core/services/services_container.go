package services

import (
	"time"

	"github.com/SscSPs/dailybalance/internal/core/airetry"
	"github.com/SscSPs/dailybalance/internal/core/events"
	"github.com/SscSPs/dailybalance/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/dailybalance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// streamer may be nil, in which case the chat advisor is not available.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	streamer clients.ModelStreamer,
	analytics clients.Analytics,
) *portssvc.ServiceContainer {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := func() time.Time { return time.Now().In(loc) }

	broker := events.NewBroker(0)
	container := &portssvc.ServiceContainer{Events: broker}

	ledger := NewLedgerService(repos.LedgerStore,
		WithChangeNotifier(broker),
		WithLedgerClock(now),
	)
	container.Ledger = ledger

	container.Reconciler = NewReconcilerService(ledger,
		WithReconcilerClock(now),
		WithAnalytics(analytics),
	)

	if streamer != nil {
		policy := airetry.DefaultPolicy
		policy.MaxAttempts = cfg.AIMaxAttempts
		policy.BaseDelay = cfg.AIRetryBaseDelay
		container.Chat = NewChatService(ledger, container.Reconciler, streamer,
			WithRetryPolicy(policy),
			WithChatClock(now),
			WithChatCategories(cfg.LedgerCategories),
			WithConversationLimits(cfg.ChatConversationTTL, cfg.ChatMaxConversations),
		)
	}

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade = (*LedgerService)(nil)
	_ portssvc.ReconcilerSvc   = (*ReconcilerService)(nil)
	_ portssvc.ChatSvc         = (*ChatService)(nil)
	_ portssvc.EventsSvc       = (*events.Broker)(nil)
)
