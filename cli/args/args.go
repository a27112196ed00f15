package args

import (
	"time"

	"github.com/spf13/cobra"
)

type GlobalArgs struct {
	ConfigPath string
	LogLevel   string
}

type CheckArgs struct {
	RosterPath    string
	Timeout       time.Duration
	Workers       int
	Color         bool
	GeoDataDbPath string
}

func ProcessArgs(a *GlobalArgs, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config-path", "", "Config file path (optional)")
	cmd.PersistentFlags().StringVarP(&a.LogLevel, "log-level", "l", "warn", "Log level (debug, info, warn, error, fatal)")
}

// ProcessCheckArgs registers the flags of a check run. Defaults are empty so
// that unset flags fall through to the config file and environment.
func ProcessCheckArgs(a *CheckArgs, cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.RosterPath, "roster", "r", "", "Roster file path (default ./nodes.json)")
	cmd.Flags().DurationVar(&a.Timeout, "timeout", 0, "Per node request timeout (default 15s)")
	cmd.Flags().IntVarP(&a.Workers, "workers", "w", 0, "Number of nodes checked at once (default 1)")
	cmd.Flags().BoolVar(&a.Color, "color", false, "Colorize severity tags when writing to a terminal")
	cmd.Flags().StringVar(&a.GeoDataDbPath, "geo-db", "", "MaxMind database used to log node locations")
}
