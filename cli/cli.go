package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stakestar/nodechecker/cli/check"
)

var RootCmd = &cobra.Command{
	Use:           "nodechecker",
	Short:         "nodechecker",
	Long:          `nodechecker polls every node of a roster for its audit stats and prints a status report`,
	Args:          cobra.NoArgs,
	RunE:          check.Run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(appName, version string) {
	RootCmd.Short = appName
	RootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("failed to execute root command: %v", err)
	}
}

func init() {
	check.Register(RootCmd)
}
