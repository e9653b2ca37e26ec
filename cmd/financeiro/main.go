package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"financeiro/internal/backend"
	"financeiro/internal/cli"
	"financeiro/internal/config"
	"financeiro/internal/log"
	"financeiro/internal/services"
	"financeiro/internal/session"
	"financeiro/internal/storage"
)

// appContext holds the wired application, passed to every command's Run.
type appContext struct {
	ctx    context.Context
	cfg    *config.Config
	logger *log.Logger

	session      *session.Provider
	transactions *services.TransactionService
	query        *services.QueryService
	summary      *services.SummaryService
	receipts     *storage.ReceiptStore
}

// cliArgs is the command tree.
var cliArgs struct {
	Init     initCmd     `cmd:"" help:"Prepare the data backend and seed the test account."`
	Register registerCmd `cmd:"" help:"Create an account and log in."`
	Login    loginCmd    `cmd:"" help:"Log in with an existing account."`
	Logout   logoutCmd   `cmd:"" help:"Close the current session."`
	Whoami   whoamiCmd   `cmd:"" help:"Show the logged-in user."`

	Add     addCmd     `cmd:"" help:"Record an income or expense."`
	Update  updateCmd  `cmd:"" help:"Change fields of an existing transaction."`
	Delete  deleteCmd  `cmd:"" help:"Remove a transaction."`
	List    listCmd    `cmd:"" help:"List transactions, filtered and paginated."`
	Show    showCmd    `cmd:"" help:"Show one transaction in full."`
	Summary summaryCmd `cmd:"" help:"Totals and per-category breakdown for a period."`

	Receipt receiptCmd `cmd:"" help:"Manage receipts attached to transactions."`
}

func main() {
	kctx := kong.Parse(&cliArgs,
		kong.Name("financeiro"),
		kong.Description("Local personal finance tracker."),
		kong.UsageOnError(),
	)

	cli.LoadEnvFile()

	ctx := context.Background()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	result := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", log.FieldError, err)
			}
		}
	}()

	app := newAppContext(ctx, cfg, logger, result)
	kctx.FatalIfErrorf(kctx.Run(app))
}

func newAppContext(ctx context.Context, cfg *config.Config, logger *log.Logger, result *backend.BackendResult) *appContext {
	store := storage.NewTransactionStoreSized(result.Store, cfg.CacheSize, cfg.CacheTTL)
	receipts := storage.NewReceiptStore(result.Store)

	return &appContext{
		ctx:          ctx,
		cfg:          cfg,
		logger:       logger,
		session:      session.NewProvider(result.Store),
		transactions: services.NewTransactionService(store, receipts),
		query:        services.NewQueryService(store),
		summary:      services.NewSummaryService(store),
		receipts:     receipts,
	}
}
