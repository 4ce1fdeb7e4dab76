package marketservice

import (
	"log/slog"

	httpadapter "curio/contexts/marketplace/market-service/adapters/http"
	"curio/contexts/marketplace/market-service/adapters/memory"
	"curio/contexts/marketplace/market-service/application/commands"
	"curio/contexts/marketplace/market-service/application/queries"
	"curio/contexts/marketplace/market-service/ports"
)

// Module is the composition surface for the marketplace.
// Runtime wiring should consume Handler; Store is exposed for tests/inspection.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Listings        ports.ListingRepository
	Wallets         ports.WalletRepository
	Registries      ports.RegistryResolver
	Factory         ports.RegistryFactory
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	OperatorAccount string
	Logger          *slog.Logger
}

// NewModule wires the marketplace use-cases against explicit ports.
func NewModule(deps Dependencies) Module {
	createCollection := commands.CreateCollectionUseCase{
		Factory:     deps.Factory,
		Listings:    deps.Listings,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	createListing := commands.CreateListingUseCase{
		Listings:    deps.Listings,
		Registries:  deps.Registries,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	buyItem := commands.BuyItemUseCase{
		Listings:        deps.Listings,
		Registries:      deps.Registries,
		Clock:           deps.Clock,
		IDGenerator:     deps.IDGenerator,
		OperatorAccount: deps.OperatorAccount,
		Logger:          deps.Logger,
	}
	depositFunds := commands.DepositFundsUseCase{
		Wallets: deps.Wallets,
		Logger:  deps.Logger,
	}
	getListing := queries.GetListingUseCase{
		Listings: deps.Listings,
		Logger:   deps.Logger,
	}
	listListings := queries.ListListingsUseCase{
		Listings: deps.Listings,
		Logger:   deps.Logger,
	}
	getBalance := queries.GetBalanceUseCase{
		Wallets: deps.Wallets,
		Logger:  deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCollection: createCollection,
			CreateListing:    createListing,
			BuyItem:          buyItem,
			DepositFunds:     depositFunds,
			GetListing:       getListing,
			ListListings:     listListings,
			GetBalance:       getBalance,
			Logger:           deps.Logger,
		},
	}
}

// NewInMemoryModule wires the marketplace against the in-memory adapter.
func NewInMemoryModule(
	registries ports.RegistryResolver,
	factory ports.RegistryFactory,
	operatorAccount string,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(registries, logger)
	module := NewModule(Dependencies{
		Listings:        store,
		Wallets:         store,
		Registries:      registries,
		Factory:         factory,
		Clock:           store,
		IDGenerator:     store,
		OperatorAccount: operatorAccount,
		Logger:          logger,
	})
	module.Store = store
	return module
}
