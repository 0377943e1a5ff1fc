package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"brandmatch-service/internal/app"
	"brandmatch-service/internal/brandmatch/model"
	"brandmatch-service/internal/config"
	"brandmatch-service/internal/fileio"
)

var (
	matchIn        string
	matchOut       string
	matchHeaderRow int
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Обработать лист заказов и записать результат в xlsx",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchIn, "in", "", "order sheet (.xlsx, .xls, .csv)")
	matchCmd.Flags().StringVar(&matchOut, "out", "", "result workbook (.xlsx)")
	matchCmd.Flags().IntVar(&matchHeaderRow, "header-row", 1, "header row, 1-based")
	_ = matchCmd.MarkFlagRequired("in")
	_ = matchCmd.MarkFlagRequired("out")
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := config.SetupLogger(cfg, true)
	start := time.Now()

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	in, err := os.Open(matchIn)
	if err != nil {
		return err
	}
	defer in.Close()
	tbl, err := fileio.ReadTable(in, matchIn, matchHeaderRow)
	if err != nil {
		return fmt.Errorf("read %s: %w", matchIn, err)
	}

	res, err := a.Service.Run(cmd.Context(), tbl)
	if err != nil {
		return err
	}

	out, err := os.Create(matchOut)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	if err := fileio.WriteXLSX(bw, res.Sheets()...); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", matchOut, err)
	}
	if err := bw.Flush(); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	s := res.Stats
	similar := countSimilar(res.Tiers)
	fmt.Fprintf(cmd.OutOrStdout(), "rows %d, matched %d, similar %d, failed %d, skipped %d, unprocessed %d (%s) -> %s\n",
		s.Total, s.Matched, similar, s.Failed-similar, s.Skipped, s.Unprocessed,
		time.Since(start).Round(time.Millisecond), matchOut)
	return nil
}

func countSimilar(tiers []model.MatchTier) int {
	n := 0
	for _, t := range tiers {
		if t == model.TierSimilar {
			n++
		}
	}
	return n
}
