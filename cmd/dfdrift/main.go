// Package main implements the dfdrift registry inspection tool.
// It lists and shows stored schema fingerprints and can validate a CSV file
// against its recorded baseline, which makes it usable as a cron tripwire:
// the exit code is 1 when drift was detected.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/Hi-king/dfdrift"
	"github.com/Hi-king/dfdrift/internal/config"
	"github.com/Hi-king/dfdrift/pkg/frame"
	"github.com/Hi-king/dfdrift/pkg/storage"
)

func main() {
	var (
		configFile  string
		storagePath string
		list        bool
		show        string
		check       string
		showHelp    bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&storagePath, "storage-path", "", "Registry directory for the local backend")
	flag.BoolVar(&list, "list", false, "List all registry keys")
	flag.StringVar(&show, "show", "", "Show the stored fingerprint for a location key")
	flag.StringVar(&check, "check", "", "Validate a CSV file against its recorded baseline")
	flag.BoolVar(&showHelp, "help", false, "Show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dfdrift - schema drift tripwire for tabular datasets\n\n")
		fmt.Fprintf(os.Stderr, "Usage: dfdrift [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  dfdrift --list\n")
		fmt.Fprintf(os.Stderr, "  dfdrift --show 'pipeline.go:42'\n")
		fmt.Fprintf(os.Stderr, "  dfdrift --check daily_export.csv\n")
		fmt.Fprintf(os.Stderr, "  dfdrift --config /etc/dfdrift/config.yaml --list\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DFDRIFT_STORAGE_TYPE        Storage type (local, s3, sqlite)\n")
		fmt.Fprintf(os.Stderr, "  DFDRIFT_STORAGE_PATH        Registry directory for the local backend\n")
		fmt.Fprintf(os.Stderr, "  DFDRIFT_S3_BUCKET           S3 bucket for the s3 backend\n")
		fmt.Fprintf(os.Stderr, "  DFDRIFT_SQLITE_PATH         Database file for the sqlite backend\n")
		fmt.Fprintf(os.Stderr, "  DFDRIFT_SLACK_WEBHOOK_URL   Slack incoming webhook for alerts\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)
	if storagePath != "" {
		cfg.Storage.Type = "local"
		cfg.Storage.Path = storagePath
	}
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	store, err := cfg.BuildStorage(ctx)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	switch {
	case list:
		if err := runList(ctx, store); err != nil {
			log.Fatal(err)
		}
	case show != "":
		if err := runShow(ctx, store, show); err != nil {
			log.Fatal(err)
		}
	case check != "":
		drifted, err := runCheck(ctx, cfg, store, check)
		if err != nil {
			log.Fatal(err)
		}
		if drifted {
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runList(ctx context.Context, store storage.SchemaStorage) error {
	registry, err := store.LoadSchemas(ctx)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if len(registry) == 0 {
		fmt.Println("registry is empty")
		return nil
	}

	keys := make([]string, 0, len(registry))
	for key := range registry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fp := registry[key]
		fmt.Printf("%s\tshape=%s\tcolumns=%d\tdigest=%016x\n",
			key, fp.Shape, fp.Columns.Len(), fp.Digest())
	}
	return nil
}

func runShow(ctx context.Context, store storage.SchemaStorage, key string) error {
	registry, err := store.LoadSchemas(ctx)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	fp, ok := registry[key]
	if !ok {
		return fmt.Errorf("no fingerprint recorded for %q", key)
	}

	data, err := json.MarshalIndent(fp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode fingerprint: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// runCheck validates a CSV file under a key derived from its absolute path,
// so repeated runs against the same file compare against each other.
func runCheck(ctx context.Context, cfg *config.Config, store storage.SchemaStorage, csvPath string) (bool, error) {
	abs, err := filepath.Abs(csvPath)
	if err != nil {
		return false, err
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", csvPath, err)
	}
	defer file.Close()

	f, err := frame.FromCSV(file)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", csvPath, err)
	}

	alerter, err := cfg.BuildAlerter()
	if err != nil {
		return false, fmt.Errorf("failed to initialize alerter: %w", err)
	}

	validator := dfdrift.New(dfdrift.WithStorage(store), dfdrift.WithAlerter(alerter))
	changes, err := validator.ValidateAt(ctx, f, abs+":0")
	if err != nil {
		return false, err
	}

	if changes.Empty() {
		fmt.Printf("%s: no schema drift (shape [%d, %d])\n", csvPath, f.Len(), f.NumCols())
		return false, nil
	}
	fmt.Printf("%s: schema drift detected: %s\n", csvPath, changes.Summary())
	return true, nil
}
