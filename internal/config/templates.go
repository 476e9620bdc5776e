package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# recfolio configuration

[files]
# Newsletter PDF to extract recommendations from
pdf_path = "newrecs.pdf"
# Intermediate CSV of validated recommendations
csv_path = "newrecs.csv"
# Directory chart images are written to
chart_dir = "."

[simulation]
# Cash invested on every buy recommendation
investment_per_buy = 10000.0
# Benchmark instrument the strategy is compared against
benchmark_symbol = "SPY"
# Value positions at dividend-adjusted close (total-return valuation)
adjusted_close = true

[validator]
# Validate extracted symbols against the market-data provider
enabled = true
# Bounded retry policy for transient lookup failures
max_attempts = 3
initial_delay_ms = 200
max_delay_ms = 5000
backoff_factor = 2.0

[market]
# SQLite price cache location (empty string disables caching)
# cache_path = "~/.config/recfolio/prices.db"
# Refetch a symbol when its cached history is older than this
cache_max_age_hours = 24

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
# file_path = "~/.config/recfolio/logs/recfolio.log"
max_size = 20
max_backups = 5
max_age = 30
`

// writeTemplateConfig writes a commented starter config.toml so the user has
// something to edit on first run.
func writeTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
