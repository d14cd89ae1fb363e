// Command set-credential stores a provider API key, encrypted, in the
// database so it does not have to live in the environment.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ollisal/flipstack/config"
	"github.com/ollisal/flipstack/internal/storage"
)

func main() {
	provider := flag.String("provider", "", "Provider name (comps, barcode)")
	secret := flag.String("secret", "", "API key to store")
	flag.Parse()

	if *provider == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "-provider and -secret are required")
		os.Exit(1)
	}

	config.LoadEnvFile()
	cfg := config.Load()
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "missing required config: %v\n", missing)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath, storage.DeriveKey(cfg.CredentialKey))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.SetCredential(*provider, *secret); err != nil {
		fmt.Fprintf(os.Stderr, "failed to store credential: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("credential for %s stored\n", *provider)
}
