package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"printify/internal/logging"
	"printify/pkg/config"
	"printify/pkg/printify"
)

const usage = `usage: printify [-shop ID] [-format json|yaml] <group> <command> [flags]

groups:
  shops     list | disconnect
  catalog   blueprints | blueprint | providers | provider | variants | shipping
  products  list | get | create | update | delete | publish | publishing-succeeded | publishing-failed | unpublish
  orders    list | get | create | send | cancel | shipping
  uploads   list | get | upload | archive
  webhooks  list | create | update | delete | ensure
  token     show the claims of PRINTIFY_API_TOKEN
`

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1:], os.Stdout); err != nil {
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

// app carries what every command needs.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	client *printify.Client
	out    printer
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("printify", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	shopID := global.String("shop", cfg.Printify.ShopID, "default shop id (PRINTIFY_SHOP_ID)")
	format := global.String("format", "json", "output format: json or yaml")
	if err := global.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if !validFormat(*format) {
		return usageError(fmt.Sprintf("unknown output format %q (json or yaml)", *format))
	}
	rest := global.Args()
	if len(rest) == 0 {
		return usageError("missing command group")
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		out:    printer{w: stdout, format: *format},
	}

	if rest[0] == "token" {
		return a.token()
	}

	if cfg.Printify.APIToken == "" {
		return errors.New("PRINTIFY_API_TOKEN is not set")
	}
	a.client = printify.New(cfg.Printify.APIToken,
		printify.WithShopID(*shopID),
		printify.WithBaseURL(cfg.Printify.BaseURL),
		printify.WithRateLimit(cfg.Printify.RateLimit, cfg.Printify.RateBurst),
		printify.WithLogger(logger.Named("printify")),
	)

	if len(rest) < 2 {
		return usageError("missing command for " + rest[0])
	}
	group, cmd, cmdArgs := rest[0], rest[1], rest[2:]

	var handlers map[string]func(context.Context, []string) error
	switch group {
	case "shops":
		handlers = a.shopsCommands()
	case "catalog":
		handlers = a.catalogCommands()
	case "products":
		handlers = a.productsCommands()
	case "orders":
		handlers = a.ordersCommands()
	case "uploads":
		handlers = a.uploadsCommands()
	case "webhooks":
		handlers = a.webhooksCommands()
	default:
		return usageError("unknown command group " + group)
	}

	h, ok := handlers[cmd]
	if !ok {
		return usageError(fmt.Sprintf("unknown command %s %s", group, cmd))
	}
	return h(ctx, cmdArgs)
}
