package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"job-insight/internal/app"
	"job-insight/internal/config"
	"job-insight/internal/domain/offer"
	"job-insight/internal/usecase"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank stored offers against a CV",
	Long:  "Scores the CV in --cv against every stored offer and prints the ranked matches as JSON.",
	RunE:  runMatch,
}

var matchFlags struct {
	cv        string
	source    string
	minScore  float64
	limit     int
	exactOnly bool
}

func init() {
	matchCmd.Flags().StringVar(&matchFlags.cv, "cv", "", "path to a CV JSON file (required)")
	matchCmd.Flags().StringVar(&matchFlags.source, "source", "", "restrict to one source (ft or wttj)")
	matchCmd.Flags().Float64Var(&matchFlags.minScore, "min-score", -1, "minimum score, defaults to MATCH_MIN_SCORE")
	matchCmd.Flags().IntVar(&matchFlags.limit, "limit", 20, "number of matches to print, 0 for all")
	matchCmd.Flags().BoolVar(&matchFlags.exactOnly, "exact", false, "disable every embedding-based signal")
	if err := matchCmd.MarkFlagRequired("cv"); err != nil {
		panic(fmt.Sprintf("failed to mark cv flag as required: %v", err))
	}
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	b, err := os.ReadFile(matchFlags.cv)
	if err != nil {
		return fmt.Errorf("read cv %s: %w", matchFlags.cv, err)
	}
	var cv offer.CV
	if err := json.Unmarshal(b, &cv); err != nil {
		return fmt.Errorf("decode cv %s: %w", matchFlags.cv, err)
	}

	var src offer.Source
	if matchFlags.source != "" {
		s, ok := offer.ParseSource(matchFlags.source)
		if !ok {
			return fmt.Errorf("unknown source %q", matchFlags.source)
		}
		src = s
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c, err := app.NewContainer(cmd.Context(), cfg, log.Default(), app.ContainerOptions{OffersFile: offersFile, SkipMigrations: true})
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	opts := c.MatchDefaults()
	if matchFlags.exactOnly {
		opts.UseSemanticSkills = false
		opts.UseDescriptionSemantic = false
	}
	minScore := cfg.Matching.MinScore
	if matchFlags.minScore >= 0 {
		minScore = matchFlags.minScore
	}

	res, err := c.Usecases().Match.MatchMarket(cmd.Context(), cv, usecase.MarketParams{
		Options:  opts,
		MinScore: minScore,
		Source:   src,
		Limit:    matchFlags.limit,
	})
	if err != nil {
		return err
	}
	return printJSON(res)
}
