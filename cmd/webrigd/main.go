package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/webrig/webrig/internal/config"
	"github.com/webrig/webrig/internal/daemon"
	"github.com/webrig/webrig/internal/log"
	"github.com/webrig/webrig/internal/platform"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "webrigd",
	Short: "Background installer daemon for webrig",
	Long:  "webrigd detects and installs the automation runtime and its browser,\nserving status and progress to webrig shells over a Unix socket.",
	Run:   runDaemon,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("webrigd v%s\n", Version)
	},
}

func init() {
	rootCmd.Flags().Bool("debug", false, "Enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

func runDaemon(cmd *cobra.Command, args []string) {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		log.SetDebug()
	}

	info, err := platform.Check()
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("webrigd v%s on %s/%s", Version, info.OS, info.Architecture)

	cfg, err := config.Load(afero.NewOsFs())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Debug {
		log.SetDebug()
	}
	log.Infof("browser: %s", cfg.Browser)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := daemon.NewServer(cfg).Start(ctx); err != nil {
		log.Fatal(err)
	}
	log.Info("webrigd stopped")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
