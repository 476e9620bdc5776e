package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"recfolio/internal/config"
	"recfolio/internal/logging"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies shared by all commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "recfolio",
		Short: "Extract newsletter stock recommendations and simulate the resulting portfolio",
		Long: `recfolio is a two-stage batch pipeline for stock recommendation
newsletters.

The extract stage pulls dated buy/sell/hold/reduce recommendations out of a
PDF, validates the symbols against Yahoo Finance, and writes them to a CSV.
The simulate stage replays those recommendations with a fixed investment
per buy, tracks portfolio value over time against an S&P 500 benchmark, and
renders the result as a PNG chart.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/recfolio)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newExtractCmd(app))
	rootCmd.AddCommand(newSimulateCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("recfolio v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Files")
			output.Printf("  PDF:        %s\n", app.Config.Files.PDFPath)
			output.Printf("  CSV:        %s\n", app.Config.Files.CSVPath)
			output.Printf("  Chart dir:  %s\n", app.Config.Files.ChartDir)
			output.Println()
			output.Bold("Simulation")
			output.Printf("  Investment per buy: %s\n", FormatUSD(app.Config.Simulation.InvestmentPerBuy))
			output.Printf("  Benchmark:          %s\n", app.Config.Simulation.BenchmarkSymbol)
			output.Printf("  Adjusted close:     %v\n", app.Config.Simulation.AdjustedClose)
			output.Println()
			output.Bold("Validator")
			output.Printf("  Enabled:      %v\n", app.Config.Validator.Enabled)
			output.Printf("  Max attempts: %d\n", app.Config.Validator.MaxAttempts)
			output.Println()
			output.Bold("Market")
			output.Printf("  Price cache: %s\n", app.Config.Market.CachePath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}
