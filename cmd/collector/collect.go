package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"job-insight/internal/app"
	"job-insight/internal/config"
	"job-insight/internal/domain/offer"
	"job-insight/internal/usecase"

	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect offers from one source and store them",
}

var collectFTCmd = &cobra.Command{
	Use:   "ft",
	Short: "Collect offers from the France Travail API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCollect(cmd.Context(), offer.SourceFranceTravail)
	},
}

var collectWTTJCmd = &cobra.Command{
	Use:   "wttj",
	Short: "Collect offers from Welcome to the Jungle",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCollect(cmd.Context(), offer.SourceWTTJ)
	},
}

var collectFlags struct {
	keywords   []string
	location   string
	contract   string
	maxResults int
	maxPages   int
	locations  []string
	contracts  []string
	minYears   int
	maxYears   int
	out        string
}

func init() {
	pf := collectCmd.PersistentFlags()
	pf.StringSliceVarP(&collectFlags.keywords, "keywords", "k", nil, "search keywords (required)")
	pf.StringVarP(&collectFlags.out, "out", "o", "", "write every stored offer to this JSON file")
	if err := collectCmd.MarkPersistentFlagRequired("keywords"); err != nil {
		panic(fmt.Sprintf("failed to mark keywords flag as required: %v", err))
	}

	collectFTCmd.Flags().StringVar(&collectFlags.location, "location", "", "INSEE commune code")
	collectFTCmd.Flags().StringVar(&collectFlags.contract, "contract", "", "contract type code (CDI, CDD, MIS...)")
	collectFTCmd.Flags().IntVar(&collectFlags.maxResults, "max-results", 0, "maximum offers to fetch")

	collectWTTJCmd.Flags().IntVar(&collectFlags.maxPages, "max-pages", 0, "maximum listing pages per keyword")
	collectWTTJCmd.Flags().StringSliceVar(&collectFlags.locations, "locations", nil, "keep offers whose location contains one of these")
	collectWTTJCmd.Flags().StringSliceVar(&collectFlags.contracts, "contracts", nil, "keep INTERN, TEMPORAIN, FULL_TIME or OTHER contracts")
	collectWTTJCmd.Flags().IntVar(&collectFlags.minYears, "min-years", -1, "minimum years of experience")
	collectWTTJCmd.Flags().IntVar(&collectFlags.maxYears, "max-years", -1, "maximum years of experience")

	collectCmd.AddCommand(collectFTCmd, collectWTTJCmd)
	rootCmd.AddCommand(collectCmd)
}

func runCollect(parent context.Context, src offer.Source) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.Default()
	c, err := app.NewContainer(ctx, cfg, logger, app.ContainerOptions{OffersFile: offersFile})
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	req := usecase.CollectRequest{
		Sources:      []offer.Source{src},
		Keywords:     collectFlags.keywords,
		Location:     collectFlags.location,
		ContractType: collectFlags.contract,
		MaxResults:   collectFlags.maxResults,
		MaxPages:     collectFlags.maxPages,
		Locations:    collectFlags.locations,
		Contracts:    collectFlags.contracts,
		MinYears:     yearsFlag(collectFlags.minYears),
		MaxYears:     yearsFlag(collectFlags.maxYears),
	}
	rep, err := c.Usecases().Collect.Collect(ctx, req)
	if err != nil {
		return err
	}
	for _, r := range rep.Runs {
		if r.Error != "" {
			logger.Printf("[Collect] source=%s failed: %s", r.Source, r.Error)
		}
	}

	if collectFlags.out != "" {
		all, err := c.Offers.ListAll(ctx, "")
		if err != nil {
			return fmt.Errorf("list offers: %w", err)
		}
		if err := writeJSON(collectFlags.out, all); err != nil {
			return err
		}
		logger.Printf("[Collect] wrote offers=%d file=%s", len(all), collectFlags.out)
	}
	return printJSON(rep)
}

func yearsFlag(v int) *int {
	if v < 0 {
		return nil
	}
	return &v
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
