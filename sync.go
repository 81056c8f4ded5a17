package valuto

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/valuto/valuto/cache"
	"github.com/valuto/valuto/currency"
	"github.com/valuto/valuto/internal/logging"
	"github.com/valuto/valuto/provider"
	"github.com/valuto/valuto/provider/cbr"
	"github.com/valuto/valuto/provider/oxr"
	"github.com/valuto/valuto/provider/yahoo"
	"github.com/valuto/valuto/storage"
)

// CacheKey is the slot key the currency table snapshot lives under.
const CacheKey = "currency"

// SyncerConfig carries the provider settings a sync run needs. Base is the
// configured base currency; AppID is the openexchangerates.org credential;
// Needed is the cbr.ru allow-list and must include Base.
type SyncerConfig struct {
	Base   string
	AppID  string
	Needed []string
	Client *http.Client
}

// Syncer pulls a raw quote batch from one provider, normalizes it to the
// base-relative invariant and writes the touched records back, invalidating
// the snapshot slot when anything changed.
//
// There is no retry anywhere in here: a fetch, parse or normalize failure
// aborts the whole run with nothing written. Per-record writes are
// best-effort and independent; one failed write does not roll back its
// siblings.
type Syncer struct {
	storage storage.Storage
	slot    cache.Slot
	cfg     SyncerConfig
	now     func() time.Time
}

// SyncResult reports what one run did. Updated and Failed count per-record
// writes; SkippedRows surfaces the provider's dropped-row diagnostic so
// schema drift is visible without changing success semantics. WriteErr
// aggregates every failed write.
type SyncResult struct {
	Updated     int
	Failed      int
	SkippedRows int
	WriteErr    error
}

func NewSyncer(st storage.Storage, slot cache.Slot, cfg SyncerConfig) *Syncer {
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}

	return &Syncer{storage: st, slot: slot, cfg: cfg, now: time.Now}
}

// Sync runs one synchronization against the provider selected by kind.
func (s *Syncer) Sync(ctx context.Context, kind provider.Kind) (SyncResult, error) {
	list, err := s.storage.List(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list currencies: %w", err)
	}

	known := make(map[string]struct{}, len(list))
	for _, c := range list {
		known[c.Code] = struct{}{}
	}

	src, err := s.sourceFor(kind, list)
	if err != nil {
		return SyncResult{}, err
	}

	return s.SyncSource(ctx, src, known)
}

// SyncSource runs one synchronization against an already built source.
// known limits writes to codes that exist in storage; normalized codes
// outside it are ignored, matching the keyed-update behaviour partial
// provider coverage relies on.
func (s *Syncer) SyncSource(ctx context.Context, src provider.Source, known map[string]struct{}) (SyncResult, error) {
	logger := logging.FromContext(ctx)

	quotes, err := src.FetchLatest(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%s: fetch latest: %w", src.Kind(), err)
	}

	values, err := provider.Normalize(quotes, s.cfg.Base)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%s: normalize: %w", src.Kind(), err)
	}

	updatedAt := quotes.Time
	if updatedAt.IsZero() {
		updatedAt = s.now().UTC()
	}

	result := SyncResult{SkippedRows: quotes.Skipped}
	if quotes.Skipped > 0 {
		logger.Printf("%s: skipped %d rows", src.Kind(), quotes.Skipped)
	}

	var werr *multierror.Error
	for code, value := range values {
		if _, ok := known[code]; !ok {
			continue
		}

		if err := s.storage.UpdateRate(ctx, code, value, updatedAt); err != nil {
			result.Failed++
			werr = multierror.Append(werr, err)
			continue
		}

		result.Updated++
	}

	result.WriteErr = werr.ErrorOrNil()

	if result.Updated > 0 {
		s.slot.Invalidate(CacheKey)
	}

	return result, nil
}

func (s *Syncer) sourceFor(kind provider.Kind, list []currency.Currency) (provider.Source, error) {
	switch kind {
	case provider.KindYahoo:
		codes := make([]string, 0, len(list))
		for _, c := range list {
			if c.Code == s.cfg.Base {
				continue
			}
			codes = append(codes, c.Code)
		}

		return yahoo.NewSource(s.cfg.Client, s.cfg.Base, codes), nil

	case provider.KindOXR:
		if s.cfg.AppID == "" {
			return nil, ErrMissingAPIKey
		}

		return oxr.NewSource(s.cfg.Client, s.cfg.Base, s.cfg.AppID), nil

	case provider.KindCBR:
		return cbr.NewSource(s.cfg.Client, s.cfg.Needed), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, kind)
	}
}
