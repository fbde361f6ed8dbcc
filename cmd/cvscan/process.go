package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentwire/cvscan/internal/batch"
	"github.com/talentwire/cvscan/internal/config"
	"github.com/talentwire/cvscan/internal/export"
	"github.com/talentwire/cvscan/internal/extract"
	"github.com/talentwire/cvscan/internal/ingest"
	"github.com/talentwire/cvscan/internal/profile"
	"github.com/talentwire/cvscan/internal/providers"
	"github.com/talentwire/cvscan/internal/schema"
)

var (
	flagSchema    string
	flagSpecialty string
	flagLocale    string
	flagRadius    int
	flagWorkers   int
	flagProvider  string
	flagModel     string
	flagOut       string
	flagFormat    string
)

var processCmd = &cobra.Command{
	Use:   "process <file-or-dir>...",
	Short: "Analyze CVs and export the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		specialty := flagSpecialty
		if specialty == "" {
			specialty = cfg.Defaults.Specialty
		}
		locale := flagLocale
		if locale == "" {
			locale = cfg.Defaults.Locale
		}
		radius := flagRadius
		if radius <= 0 {
			radius = cfg.Defaults.RadiusKm
		}
		workers := flagWorkers
		if workers <= 0 {
			workers = cfg.Defaults.MaxWorkers
		}

		cs, err := loadSchema(specialty)
		if err != nil {
			return err
		}

		client, model, err := buildClient(cfg)
		if err != nil {
			return err
		}

		prof := profile.New(specialty, profile.Options{
			Locale:   locale,
			RadiusKm: radius,
		})

		extractor := extract.New(client, cs, prof, extract.Options{
			Model:       model,
			Temperature: cfg.Defaults.Temperature,
			MaxTokens:   cfg.Defaults.MaxTokens,
			Logger:      logger,
		})

		docs, err := loadDocuments(args)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return fmt.Errorf("no supported documents found (pdf, docx, txt)")
		}

		logger.Info("starting batch",
			"documents", len(docs),
			"specialty", specialty,
			"provider", client.Name(),
			"workers", workers)

		orchestrator := batch.New(extractor, ingest.NewParser(logger), cs, batch.Options{
			Workers: workers,
			Logger:  logger,
		})

		rs, err := orchestrator.Run(cmd.Context(), docs)
		if err != nil {
			return err
		}

		return writeOutput(rs, cfg)
	},
}

func init() {
	processCmd.Flags().StringVar(&flagSchema, "schema", "", "YAML field schema (default: built-in schema for the specialty)")
	processCmd.Flags().StringVar(&flagSpecialty, "specialty", "", "hiring profile: electricista, electromecanico, mecanico, pañolero or personalizado")
	processCmd.Flags().StringVar(&flagLocale, "locale", "", "position locality for residence proximity")
	processCmd.Flags().IntVar(&flagRadius, "radius", 0, "acceptable commute radius in km")
	processCmd.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent documents")
	processCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider name from config")
	processCmd.Flags().StringVar(&flagModel, "model", "", "override the provider's default model")
	processCmd.Flags().StringVarP(&flagOut, "out", "O", "", "output file (default: resultados.<format>)")
	processCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "output format: xlsx, csv or json")
}

func loadSchema(specialty string) (*schema.Compiled, error) {
	source := schema.DefaultSchema(specialty)
	if flagSchema != "" {
		data, err := os.ReadFile(flagSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
		source = data
	}
	cs, err := schema.Compile(source)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func buildClient(cfg *config.Config) (providers.LLMClient, string, error) {
	name := flagProvider
	if name == "" {
		name = cfg.Defaults.Provider
	}

	pc, ok := cfg.ToProviderConfig(name)
	if !ok {
		return nil, "", fmt.Errorf("provider %q not found in config", name)
	}
	if flagModel != "" {
		pc.Model = flagModel
	}

	client, err := providers.NewClient(pc)
	if err != nil {
		return nil, "", err
	}
	return client, pc.Model, nil
}

func loadDocuments(paths []string) ([]ingest.Document, error) {
	var docs []ingest.Document
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			dirDocs, err := ingest.LoadDir(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, dirDocs...)
			continue
		}
		doc, err := ingest.LoadPath(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func writeOutput(rs *batch.ResultSet, cfg *config.Config) error {
	format := strings.ToLower(flagFormat)
	if format == "" {
		format = cfg.Defaults.Format
	}
	if format == "" {
		format = "xlsx"
	}

	out := flagOut
	if out == "" {
		out = fmt.Sprintf("resultados-%s.%s", time.Now().Format("20060102-150405"), format)
	}

	var data []byte
	var err error
	switch format {
	case "xlsx":
		data, err = export.XLSX(rs)
	case "csv":
		data, err = export.CSV(rs)
	case "json":
		data, err = export.JSON(rs)
	default:
		return fmt.Errorf("unknown output format %q (xlsx, csv, json)", format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	summary := rs.Summarize()
	fmt.Printf("Procesados %d CVs: %d ok, %d con error, %d preaprobados\n",
		summary.Total, summary.Succeeded, summary.Failed, summary.Preapproved)
	if summary.MeanScore > 0 {
		fmt.Printf("Score promedio: %.1f\n", summary.MeanScore)
	}
	fmt.Printf("Resultados: %s\n", filepath.Clean(out))
	return nil
}
