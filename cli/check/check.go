package check

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stakestar/nodechecker/cli/args"
	"github.com/stakestar/nodechecker/geodata"
	"github.com/stakestar/nodechecker/logger"
	"github.com/stakestar/nodechecker/report"
	"github.com/stakestar/nodechecker/runner"
	"github.com/stakestar/nodechecker/stats"
)

type config struct {
	RosterPath    string        `yaml:"rosterPath" env:"ROSTER_PATH" env-description:"Path to the node roster file" env-default:"./nodes.json"`
	Timeout       time.Duration `yaml:"timeout" env:"REQUEST_TIMEOUT" env-description:"Per node request timeout" env-default:"15s"`
	Workers       int           `yaml:"workers" env:"WORKERS" env-description:"Number of nodes checked at once" env-default:"1"`
	Color         bool          `yaml:"color" env:"COLOR" env-description:"Colorize severity tags" env-default:"false"`
	GeoDataDbPath string        `yaml:"geoDataDbPath" env:"GEO_DATA_DB_PATH" env-description:"Path to geo data database file"`
}

var cfg config

var globalArgs args.GlobalArgs

var checkArgs args.CheckArgs

// CheckCmd checks every node of the roster and prints the findings
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks the audit status of every node in the roster",
	Args:  cobra.NoArgs,
	RunE:  Run,
}

// Register binds the global flags to root, the check flags to both root and
// CheckCmd, and adds CheckCmd under root.
func Register(root *cobra.Command) {
	args.ProcessArgs(&globalArgs, root)
	args.ProcessCheckArgs(&checkArgs, root)
	args.ProcessCheckArgs(&checkArgs, CheckCmd)
	root.AddCommand(CheckCmd)
}

// Run performs a single check over the roster. It fails only when the
// configuration or the roster cannot be loaded, or the run is interrupted.
func Run(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	logger, err := logger.Create(globalArgs.LogLevel)
	if err != nil {
		return errors.Wrap(err, "could not initialize logger")
	}
	defer func() { _ = logger.Sync() }()

	opts := []runner.Option{runner.WithWorkers(cfg.Workers)}
	if cfg.GeoDataDbPath != "" {
		geoDb, err := geodata.NewGeoIP2DB(cfg.GeoDataDbPath)
		if err != nil {
			logger.Warn("Error opening geo database, node locations will not be logged", zap.Error(err))
		} else {
			defer geoDb.Close()
			opts = append(opts, runner.WithLocator(geoDb))
		}
	}

	client := stats.NewClient(logger, cfg.Timeout)
	reporter := report.New(cmd.OutOrStdout(), logger, cfg.Color)

	return runner.New(logger, client, reporter, opts...).Run(cmd.Context(), cfg.RosterPath)
}

// loadConfig reads the config file or environment, then applies the flags
// that were set explicitly.
func loadConfig(cmd *cobra.Command) error {
	cfg = config{}
	if globalArgs.ConfigPath != "" {
		if err := cleanenv.ReadConfig(globalArgs.ConfigPath, &cfg); err != nil {
			return errors.Wrap(err, "error reading config file")
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return errors.Wrap(err, "error reading environment")
	}

	flags := cmd.Flags()
	if flags.Changed("roster") {
		cfg.RosterPath = checkArgs.RosterPath
	}
	if flags.Changed("timeout") {
		cfg.Timeout = checkArgs.Timeout
	}
	if flags.Changed("workers") {
		cfg.Workers = checkArgs.Workers
	}
	if flags.Changed("color") {
		cfg.Color = checkArgs.Color
	}
	if flags.Changed("geo-db") {
		cfg.GeoDataDbPath = checkArgs.GeoDataDbPath
	}

	switch {
	case cfg.RosterPath == "":
		return errors.New("roster path is required")
	case cfg.Timeout <= 0:
		return errors.Errorf("timeout must be positive, got %s", cfg.Timeout)
	case cfg.Workers < 1:
		return errors.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return nil
}
