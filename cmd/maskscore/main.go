package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tauraamui/maskdaemon/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:           "maskscore",
	Short:         "Score still images for face covering and browse recorded scores",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var dbPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "score history database (default: $MASK_DAEMON_DB or the user cache dir)")
	rootCmd.AddCommand(newScoreCmd(), newHistoryCmd())
}

func main() {
	log.SetLevelFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
