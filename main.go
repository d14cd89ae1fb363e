package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ollisal/flipstack/config"
	"github.com/ollisal/flipstack/internal/analysis"
	"github.com/ollisal/flipstack/internal/codes"
	"github.com/ollisal/flipstack/internal/inventory"
	"github.com/ollisal/flipstack/internal/market"
	"github.com/ollisal/flipstack/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config.LoadEnvFile()
	cfg := config.Load()
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		log.Fatal().Msgf("missing required config: %s", strings.Join(missing, ", "))
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath, storage.DeriveKey(cfg.CredentialKey))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open record store")
	}
	defer store.Close()
	log.Info().Str("dbPath", cfg.DBPath).Msg("record store opened")

	records, err := store.LoadRecords()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load records")
	}

	// Counters come from two places: the persisted table and a rebuild over
	// the loaded records. Merge takes the max of both so the allocator can
	// never reissue a code, even after partial data loss.
	allocator := codes.NewAllocator()
	persisted, err := store.LoadCounters()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load counters")
	}
	allocator.Merge(persisted)

	inv := inventory.NewStore(allocator)
	inv.Load(records)

	pipeline := analysis.NewPipeline(analysis.Options{
		Sources: buildSources(cfg, store),
		Barcode: market.NewBarcodeClient(market.BarcodeClientOpts{
			BaseURL: cfg.BarcodeBaseURL,
			APIKey:  providerKey(store, "barcode", cfg.BarcodeAPIKey),
		}),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	processed := runPendingAnalyses(ctx, pipeline, inv, store, cfg)

	if err := store.SaveCounters(allocator.Snapshot()); err != nil {
		log.Error().Err(err).Msg("failed to persist counters")
	}
	log.Info().Int("processed", processed).Msg("done")
}

// runPendingAnalyses prices every record still in the analyzed state that
// has no suggested price yet, writing each updated record back one at a
// time.
func runPendingAnalyses(ctx context.Context, pipeline *analysis.Pipeline, inv *inventory.Store, store storage.RecordStore, cfg config.Config) int {
	var pending []inventory.Record
	for _, r := range inv.ByStatus(inventory.StatusAnalyzed) {
		if r.SuggestedPrice == 0 {
			pending = append(pending, r)
		}
	}
	if len(pending) == 0 {
		log.Info().Msg("no records awaiting analysis")
		return 0
	}
	log.Info().Int("pending", len(pending)).Msg("starting analysis batch")

	reqs := make([]analysis.Request, len(pending))
	for i, r := range pending {
		reqs[i] = analysis.Request{
			ID:             r.Code,
			Label:          r.Category,
			Name:           r.Name,
			Brand:          r.Brand,
			Size:           r.Size,
			ConditionScore: r.ConditionScore,
			Vision:         analysis.VisionExtract{Barcodes: barcodeList(r.Barcode)},
		}
	}

	results := pipeline.AnalyzeBatch(ctx, reqs, cfg.BatchDelay)

	processed := 0
	for i, res := range results {
		if res.LowConfidence() {
			log.Warn().
				Str("code", pending[i].Code).
				Float64("confidence", res.Confidence).
				Msg("low confidence result, leaving record unpriced")
			continue
		}
		rec := pending[i]
		rec.SuggestedPrice = res.Quote.Realistic
		rec.Condition = res.Condition.Tier
		if err := inv.Update(rec); err != nil {
			log.Error().Err(err).Str("code", rec.Code).Msg("failed to update record")
			continue
		}
		if err := store.SaveRecord(rec); err != nil {
			log.Error().Err(err).Str("code", rec.Code).Msg("failed to persist record")
			continue
		}
		processed++
	}
	return processed
}

// buildSources assembles the market providers. API keys fall back to the
// encrypted credential store when not in the environment.
func buildSources(cfg config.Config, store storage.RecordStore) []market.Source {
	return []market.Source{
		market.NewCompsClient(market.CompsClientOpts{
			BaseURL: cfg.CompsBaseURL,
			APIKey:  providerKey(store, "comps", cfg.CompsAPIKey),
		}),
	}
}

func providerKey(store storage.RecordStore, provider, envKey string) string {
	if envKey != "" {
		return envKey
	}
	key, err := store.GetCredential(provider)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("failed to read stored credential")
		return ""
	}
	return key
}

func barcodeList(barcode string) []string {
	if barcode == "" {
		return nil
	}
	return []string{barcode}
}
