package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-extractor/internal/api"
	"github.com/insightdelivered/statement-extractor/internal/config"
	"github.com/insightdelivered/statement-extractor/internal/csvimport"
	"github.com/insightdelivered/statement-extractor/internal/extractor"
	"github.com/insightdelivered/statement-extractor/internal/models"
	"github.com/insightdelivered/statement-extractor/internal/parser"
	"github.com/insightdelivered/statement-extractor/internal/store"
	"github.com/insightdelivered/statement-extractor/internal/writer"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "statement-extractor",
	Short: "Reconstruct transactions from bank statement PDFs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [flags] <input.pdf>",
	Short: "Extract transactions from a statement PDF and write CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		txs, err := extractPDF(logger, cfg, args[0])
		if err != nil {
			return err
		}
		logger.Info("extracted transactions", "file", args[0], "count", len(txs))

		outPath, _ := cmd.Flags().GetString("output")
		includeHeader, _ := cmd.Flags().GetBool("header")
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		if outPath == "" {
			return w.Write(os.Stdout, txs)
		}
		if err := w.WriteToFile(outPath, txs); err != nil {
			return err
		}
		logger.Info("wrote output", "path", outPath)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		ex := extractor.New(logger, cfg.ColumnGap)
		p := parser.New(logger, parserOptions(cfg))
		app := api.NewApp(api.NewHandler(logger, ex, p))

		logger.Info("listening", "addr", cfg.ListenAddr)
		return app.Listen(cfg.ListenAddr)
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [flags] <input.pdf|input.csv>",
	Short: "Extract transactions and store them in the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("no database configured; set STMX_DATABASE_URL or database_url in the config file")
		}

		path := args[0]
		var txs []models.Transaction
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf":
			txs, err = extractPDF(logger, cfg, path)
		case ".csv":
			txs, err = csvimport.File(path)
		default:
			return fmt.Errorf("unsupported file type %q: expected .pdf or .csv", filepath.Ext(path))
		}
		if err != nil {
			return err
		}

		st, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		stored, skipped := 0, 0
		for i := range txs {
			exists, err := st.Has(ctx, &txs[i])
			if err != nil {
				return err
			}
			if exists {
				skipped++
				continue
			}
			if _, err := st.Save(ctx, &txs[i]); err != nil {
				return err
			}
			stored++
		}
		logger.Info("ingest complete", "file", path, "stored", stored, "skipped", skipped)
		return nil
	},
}

func extractPDF(logger *log.Logger, cfg *config.Config, path string) ([]models.Transaction, error) {
	ex := extractor.New(logger, cfg.ColumnGap)
	fragments, err := ex.Fragments(path)
	if err != nil {
		return nil, err
	}
	return parser.New(logger, parserOptions(cfg)).ExtractAll(fragments)
}

func parserOptions(cfg *config.Config) parser.Options {
	return parser.Options{
		Tolerance:    cfg.Tolerance,
		DateLayout:   cfg.DateLayout,
		HeaderMarker: cfg.HeaderMarker,
	}
}

func newLogger() *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "statement-extractor",
	}
	if verbose {
		opts.Level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, opts)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-row parsing decisions")

	extractCmd.Flags().StringP("output", "o", "", "Output CSV path (default: stdout)")
	extractCmd.Flags().Bool("header", true, "Include the CSV header row")
	extractCmd.Flags().Int("tolerance", 20, "Column matching tolerance in source units")

	serveCmd.Flags().String("listen-addr", ":8080", "API listen address")

	ingestCmd.Flags().String("database-url", "", "Postgres connection string")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
}

func main() {
	// A local .env is optional; ignore its absence.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
