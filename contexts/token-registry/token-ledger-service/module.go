package tokenledger

import (
	"log/slog"

	httpadapter "curio/contexts/token-registry/token-ledger-service/adapters/http"
	"curio/contexts/token-registry/token-ledger-service/adapters/memory"
	application "curio/contexts/token-registry/token-ledger-service/application"
	"curio/contexts/token-registry/token-ledger-service/ports"
)

// Module is the composition surface for the token ledger.
// Runtime wiring should consume Handler; Store is exposed for tests/inspection.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Items       ports.ItemRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires the ledger service against explicit ports.
func NewModule(deps Dependencies) Module {
	service := application.Service{
		Items:       deps.Items,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule wires the ledger against the in-memory adapter.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore(logger)
	module := NewModule(Dependencies{
		Items:       store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
