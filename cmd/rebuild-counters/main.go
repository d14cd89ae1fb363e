// Command rebuild-counters recomputes the per-letter code counters from the
// records in a database and persists the merged result. Useful after
// restoring a backup whose counter table is stale.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/ollisal/flipstack/config"
	"github.com/ollisal/flipstack/internal/codes"
	"github.com/ollisal/flipstack/internal/storage"
)

func main() {
	dbPath := flag.String("db", "", "Database path (defaults to FLIPSTACK_DB_PATH)")
	dryRun := flag.Bool("dry-run", false, "Print the rebuilt table without writing")
	flag.Parse()

	config.LoadEnvFile()
	cfg := config.Load()
	if *dbPath == "" {
		*dbPath = cfg.DBPath
	}

	store, err := storage.NewSQLiteStore(*dbPath, storage.DeriveKey(cfg.CredentialKey))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	records, err := store.LoadRecords()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load records: %v\n", err)
		os.Exit(1)
	}

	var recordCodes []string
	for _, r := range records {
		if r.Code != "" {
			recordCodes = append(recordCodes, r.Code)
		}
	}
	rebuilt := codes.RebuildFromCodes(recordCodes)

	persisted, err := store.LoadCounters()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load counters: %v\n", err)
		os.Exit(1)
	}

	// Merge both directions so neither a stale table nor missing records
	// can lower a counter.
	allocator := codes.NewAllocator()
	allocator.Merge(persisted)
	allocator.Merge(rebuilt)
	merged := allocator.Snapshot()

	letters := make([]string, 0, len(merged))
	for letter := range merged {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	fmt.Printf("%d records, %d letters:\n", len(records), len(letters))
	for _, letter := range letters {
		fmt.Printf("  %s: rebuilt %d, persisted %d -> %d\n",
			letter, rebuilt[letter], persisted[letter], merged[letter])
	}

	if *dryRun {
		fmt.Println("dry run, not writing")
		return
	}
	if err := store.SaveCounters(merged); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save counters: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("counters saved")
}
