package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"recfolio/internal/chart"
	apperrors "recfolio/internal/errors"
	"recfolio/internal/market"
	"recfolio/internal/models"
	"recfolio/internal/recfile"
	"recfolio/internal/sim"
	"recfolio/internal/store"
)

func newSimulateCmd(app *App) *cobra.Command {
	var (
		csvPath    string
		year       int
		endYear    int
		investment float64
		chartPath  string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay the recommendation CSV and chart portfolio value over time",
		Long: `Simulate replays the extracted recommendations in chronological order,
investing a fixed amount on every buy and liquidating on sells. It walks
the benchmark's trading days from January 1 of the start year, marks the
portfolio to market daily, and writes a PNG chart comparing the strategy
to the benchmark. Missing prices and sells without an open position are
skipped and reported; they never abort the replay.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			if csvPath == "" {
				csvPath = app.Config.Files.CSVPath
			}
			investment, err := resolveInvestment(cmd.Flags().Changed("investment"), investment, app.Config.Simulation.InvestmentPerBuy)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if year == 0 {
				year = now.Year()
			}
			start := models.NewDate(year, time.January, 1)
			end := models.NewDate(now.Year(), now.Month(), now.Day())
			if endYear != 0 {
				end = models.NewDate(endYear, time.December, 31)
			}
			if end.Before(start) {
				return fmt.Errorf("%w: end %s precedes start %s", apperrors.ErrConfigInvalid, end.Key(), start.Key())
			}

			records, err := recfile.Read(csvPath)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("%s: %w", csvPath, apperrors.ErrNoRecommendations)
			}

			var source market.Source = market.NewYahooSource()
			if !noCache && app.Config.Market.CachePath != "" {
				priceStore, err := store.NewPriceStore(app.Config.Market.CachePath)
				if err != nil {
					app.Logger.Warn().Err(err).Msg("price cache unavailable, fetching directly")
				} else {
					defer priceStore.Close()
					maxAge := time.Duration(app.Config.Market.CacheMaxAgeHours) * time.Hour
					source = market.NewCachedSource(source, priceStore, maxAge, app.Logger)
				}
			}

			book := sim.NewBook(source, start, end, app.Logger)
			simulator := &sim.Simulator{
				Investment:    investment,
				Benchmark:     app.Config.Simulation.BenchmarkSymbol,
				AdjustedClose: app.Config.Simulation.AdjustedClose,
				Log:           app.Logger,
			}

			points, report, err := simulator.DailySeries(ctx, records, book, start, end)
			if err != nil {
				return err
			}
			if len(points) == 0 {
				return fmt.Errorf("no trading days between %s and %s", start.Key(), end.Key())
			}

			if chartPath == "" {
				chartPath = chart.Filename(app.Config.Files.ChartDir, strconv.Itoa(year))
			}
			if err := chart.Render(points, simulator.Benchmark, chartPath); err != nil {
				return err
			}

			last := points[len(points)-1]
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"records":           len(records),
					"processed":         report.Processed,
					"skipped":           report.Skipped,
					"final_value":       last.PortfolioValue,
					"benchmark_value":   last.BenchmarkValue,
					"invested":          last.Invested,
					"price_unavailable": len(report.PriceUnavailable),
					"orphan_sells":      len(report.OrphanSells),
					"chart":             chartPath,
				})
			}

			output.Bold("Simulation summary (%s to %s)", start.Key(), last.Date.Key())
			output.Printf("  Records replayed:   %d of %d\n", report.Processed, len(records))
			output.Printf("  Invested:           %s\n", FormatUSD(last.Invested))
			output.Printf("  Final value:        %s\n", FormatUSD(last.PortfolioValue))
			output.Printf("  Benchmark (%s):    %s\n", simulator.Benchmark, FormatUSD(last.BenchmarkValue))
			if last.Invested > 0 {
				output.Printf("  Return vs invested: %s\n", FormatPercent((last.PortfolioValue-last.Invested)/last.Invested*100))
			}
			output.Printf("  Chart:              %s\n", chartPath)

			if len(report.PriceUnavailable) > 0 {
				output.Warning("  Records skipped, no price data: %d", len(report.PriceUnavailable))
				for _, pe := range report.PriceUnavailable {
					output.Dim("    %s", pe.Error())
				}
			}
			if len(report.OrphanSells) > 0 {
				output.Warning("  Sells with no open position: %d", len(report.OrphanSells))
				for _, orphan := range report.OrphanSells {
					output.Dim("    %s %s on %s", orphan.Action, orphan.Symbol, orphan.Date.Key())
				}
			}
			if len(report.MissedValuations) > 0 {
				output.Warning("  Daily valuations missing a price: %d", len(report.MissedValuations))
			}
			if report.Clean() {
				output.Success("  Replay completed without skips")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "recommendations CSV to replay (default from config)")
	cmd.Flags().IntVar(&year, "year", 0, "simulation start year (default: current year)")
	cmd.Flags().IntVar(&endYear, "end-year", 0, "simulation end year (default: today)")
	cmd.Flags().Float64Var(&investment, "investment", 0, "cash invested per buy (default from config)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "chart output path (default: portfolio_simulation_<year>.png)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the local price cache")

	return cmd
}

// resolveInvestment picks the per-buy investment amount. An explicitly
// passed flag must be positive; an omitted flag falls back to the
// configured default.
func resolveInvestment(flagSet bool, flag, configured float64) (float64, error) {
	if !flagSet {
		return configured, nil
	}
	if flag <= 0 {
		return 0, fmt.Errorf("%w: --investment must be positive, got %v", apperrors.ErrConfigInvalid, flag)
	}
	return flag, nil
}
