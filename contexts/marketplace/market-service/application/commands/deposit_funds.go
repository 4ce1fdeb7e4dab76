package commands

import (
	"context"
	"log/slog"
	"strings"

	application "curio/contexts/marketplace/market-service/application"
	domainerrors "curio/contexts/marketplace/market-service/domain/errors"
	"curio/contexts/marketplace/market-service/ports"
)

type DepositFundsCommand struct {
	Account string
	Amount  int64
}

type DepositFundsResult struct {
	Account string
	Balance int64
}

type DepositFundsUseCase struct {
	Wallets ports.WalletRepository
	Logger  *slog.Logger
}

func (u DepositFundsUseCase) Execute(ctx context.Context, cmd DepositFundsCommand) (DepositFundsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.Account) == "" || cmd.Amount <= 0 {
		return DepositFundsResult{}, domainerrors.ErrInvalidDeposit
	}

	balance, err := u.Wallets.Deposit(ctx, cmd.Account, cmd.Amount)
	if err != nil {
		return DepositFundsResult{}, err
	}

	logger.Info("wallet funded",
		"event", "wallet_deposit",
		"module", "marketplace/market-service",
		"layer", "application",
		"account", cmd.Account,
		"amount", cmd.Amount,
	)
	return DepositFundsResult{Account: cmd.Account, Balance: balance}, nil
}
