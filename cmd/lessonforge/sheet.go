package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lessonforge/lessonforge/internal/dictionary"
	"github.com/lessonforge/lessonforge/internal/review"
)

func newSheetCommand() *cobra.Command {
	var (
		dataset string
		pdf     bool
	)

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Write the vocabulary review sheet for a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			deck, err := dictionary.Load(cfg.DatasetSource(dataset), rng)
			if err != nil {
				return fmt.Errorf("dictionary.Load > %w", err)
			}
			deck.SortBySortKey()

			markdownPath, err := review.WriteSheets(cfg.OutputDir, dataset, cfg.DatasetTitle(dataset), deck)
			if err != nil {
				return fmt.Errorf("review.WriteSheets > %w", err)
			}
			color.Green("Wrote %s", markdownPath)

			if pdf {
				pdfPath, err := review.ConvertMarkdownToPDF(markdownPath)
				if err != nil {
					return fmt.Errorf("review.ConvertMarkdownToPDF > %w", err)
				}
				color.Green("Wrote %s", pdfPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name under the data directory")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "also render the sheet as a PDF")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			color.Green("Configuration is valid.")
			return nil
		},
	}
}
