// graft is a toolkit for translating a source graph model into a Dgraph
// schema and data load.
//
// Run without arguments to list the available tools.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/syssam/graft"
	"github.com/syssam/graft/audit"
	"github.com/syssam/graft/compiler/load"
	"github.com/syssam/graft/dialect/dgraph"
	"github.com/syssam/graft/ingest"
	"github.com/syssam/graft/models"
	"github.com/syssam/graft/schema"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 0
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	var err error
	switch args[0] {
	case "schema":
		err = schemaTool(args[1:], log)
	case "ingest":
		err = ingestTool(args[1:], log)
	default:
		fmt.Fprintf(os.Stderr, "graft: unknown tool %q\n\n", args[0])
		usage()
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "graft: %v\n", err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Println("Graft is a toolkit for working with graphs.")
	fmt.Println()
	fmt.Println("Available Graft Tools:")
	fmt.Println("  - graft schema    translate the model and optionally upload the schema")
	fmt.Println("  - graft ingest    translate exported records and upsert them")
}

// loadAll assembles the model from the builtin sources.
func loadAll(ctx context.Context, log *slog.Logger) (*schema.Model, error) {
	registry, err := graft.NewRegistry(models.All()...)
	if err != nil {
		return nil, err
	}
	return load.NewLoader(registry, load.WithLogger(log)).Load(ctx)
}

// schemaTool prints the translated schema and, after confirmation, applies
// it to the configured store.
func schemaTool(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	configPath := fs.String("config", "", "path of the YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	model, err := loadAll(ctx, log)
	if err != nil {
		return err
	}
	translator := dgraph.NewTranslator(model, dgraph.WithTypes(cfg.Types))
	sch, warnings := translator.Schema()
	for _, warn := range warnings {
		log.Warn("schema translation", "warn", warn)
	}
	fmt.Print(sch.Format())

	fmt.Print("upload? (y/n): ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return err
	}
	if strings.TrimSpace(answer) != "y" {
		return nil
	}
	client, err := dgraph.Dial(cfg.Target.Addr)
	if err != nil {
		return err
	}
	defer client.Close()
	if err := client.Alter(ctx, sch.Format()); err != nil {
		return err
	}
	log.Info("schema uploaded", "addr", cfg.Target.Addr)
	return nil
}

// ingestTool streams exported records from a file into the configured store.
func ingestTool(args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", "", "path of the YAML config file")
	input := fs.String("f", "", "path of the exported records file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("ingest: -f is required")
	}
	cfg, err := config(*configPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	model, err := loadAll(ctx, log)
	if err != nil {
		return err
	}
	translator := dgraph.NewTranslator(model, dgraph.WithTypes(cfg.Types))

	client, err := dgraph.Dial(cfg.Target.Addr)
	if err != nil {
		return err
	}
	defer client.Close()

	var recorder audit.Recorder = &audit.MemoryRecorder{}
	if cfg.Journal != "" {
		journal, err := audit.OpenJournal(cfg.Journal)
		if err != nil {
			return err
		}
		defer journal.Close()
		recorder = journal
	}

	f, err := os.Open(*input)
	if err != nil {
		return err
	}
	defer f.Close()

	pipeline := ingest.NewPipeline(translator, client,
		ingest.WithWorkers(cfg.Workers),
		ingest.WithRecorder(recorder),
		ingest.WithLogger(log),
	)
	stats, err := pipeline.Run(ctx, ingest.NewReader(f))
	if err != nil {
		return err
	}
	fmt.Printf("run %s: %d records, %d failed, %d warnings\n",
		stats.Run, stats.Podes, stats.Failed, stats.Warnings)
	return nil
}

func config(path string) (*graft.Config, error) {
	if path == "" {
		return graft.DefaultConfig(), nil
	}
	return graft.LoadConfig(path)
}
