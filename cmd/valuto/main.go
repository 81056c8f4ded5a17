// Command valuto drives rate synchronization from the shell or a scheduler:
//
//	valuto sync -provider yahoo|openexchangerates|cbr [-retries n]
//	valuto cleanup
//
// sync pulls the latest quotes from one provider and updates stored rates;
// cleanup only invalidates the cached currency table. Retries are a wrapper
// concern, so the -retries flag lives here and never inside the core.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/valuto/valuto"
	"github.com/valuto/valuto/cache"
	"github.com/valuto/valuto/internal/config"
	"github.com/valuto/valuto/internal/logging"
	"github.com/valuto/valuto/provider"
	"github.com/valuto/valuto/provider/httputil"
	"github.com/valuto/valuto/storage/postgres"
)

const retryBackoff = 5 * time.Second

var (
	flagSync     = flag.NewFlagSet("sync", flag.ContinueOnError)
	providerName = flagSync.String("provider", string(provider.KindYahoo), "quote provider: yahoo, openexchangerates, cbr")
	retries      = flagSync.Uint64("retries", 0, "number of retries on a failed sync")
)

func main() {
	ctx := logging.WithLogger(context.Background(), logging.NewLogger("valuto: ", log.Lmsgprefix))
	logger := logging.FromContext(ctx)

	if len(os.Args) < 2 {
		logger.Fatal("usage: valuto <sync|cleanup> [flags]")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	switch os.Args[1] {
	case "sync":
		if err := flagSync.Parse(os.Args[2:]); err != nil {
			logger.Fatalf("flag parse: %v", err)
		}

		if err := runSync(ctx, cfg, provider.Kind(*providerName), *retries); err != nil {
			logger.Fatalf("sync: %v", err)
		}

	case "cleanup":
		runCleanup(ctx, cfg)

	default:
		logger.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runSync(ctx context.Context, cfg *config.Config, kind provider.Kind, maxRetries uint64) error {
	logger := logging.FromContext(ctx)

	if kind == provider.KindOXR && cfg.OXRAppID == "" {
		return valuto.ErrMissingAPIKey
	}

	st, slot, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	syncer := valuto.NewSyncer(st, slot, valuto.SyncerConfig{
		Base:   cfg.DefaultCurrency,
		AppID:  cfg.OXRAppID,
		Needed: cfg.NeededCodes,
		Client: httputil.NewBoundedClient(httputil.Options{TotalTimeout: cfg.RequestTimeout}),
	})

	logger.Printf("updating currency exchange rates from %s...", kind)

	var result valuto.SyncResult

	b := retry.WithMaxRetries(maxRetries, retry.NewConstant(retryBackoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		runCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()

		res, err := syncer.Sync(runCtx, kind)
		if err != nil {
			// Configuration problems do not get better on retry.
			if errors.Is(err, valuto.ErrMissingAPIKey) || errors.Is(err, valuto.ErrUnknownProvider) {
				return err
			}

			return retry.RetryableError(err)
		}

		result = res

		return nil
	})
	if err != nil {
		return err
	}

	if result.WriteErr != nil {
		logger.Printf("updated %d rates, %d writes failed: %v", result.Updated, result.Failed, result.WriteErr)
	} else {
		logger.Printf("updated %d rates", result.Updated)
	}

	logger.Print("update!")

	return nil
}

func runCleanup(ctx context.Context, _ *config.Config) {
	logger := logging.FromContext(ctx)

	processSlot().Invalidate(valuto.CacheKey)

	logger.Print("currency cache cleaned.")
}

func open(ctx context.Context, cfg *config.Config) (*postgres.Storage, cache.Slot, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("PGSQL_URL is not set")
	}

	st, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect storage: %w", err)
	}

	return st, processSlot(), nil
}

var slot = cache.NewMemory()

// processSlot returns the slot this process owns. Deployments embedding the
// library in a long-running server share theirs the same way; the CLI's is
// process-local, so cleanup here only confirms the invalidation contract.
func processSlot() cache.Slot {
	return slot
}
