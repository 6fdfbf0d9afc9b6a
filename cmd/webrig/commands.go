package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/webrig/webrig/internal/config"
	"github.com/webrig/webrig/internal/coordinator"
	"github.com/webrig/webrig/internal/ipc"
	"github.com/webrig/webrig/internal/log"
	"github.com/webrig/webrig/internal/platform"
	"github.com/webrig/webrig/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "webrig",
	Short: "Web automation workbench",
	Long:  "webrig terminal workbench\n\nHosts the automation runtime panels: install prompt, session notes\nand the output viewer. Requires a running webrigd daemon.",
	Run:   runInteractiveMode,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("webrig v%s\n", Version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show automation runtime installation status",
	Run: func(cmd *cobra.Command, args []string) {
		runStatus(cmd)
	},
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the automation runtime and browser",
	Long:  "Ask the daemon to install the Playwright runtime and the configured browser,\nstreaming its progress to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		runInstall(cmd)
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the daemon is reachable",
	Run: func(cmd *cobra.Command, args []string) {
		runPing(cmd)
	},
}

func setup(cmd *cobra.Command) *config.Config {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		log.SetDebug()
	}

	if _, err := platform.Check(); err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(afero.NewOsFs())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

func dial(cfg *config.Config) *ipc.Client {
	client, err := ipc.Dial(ipc.SocketPath(cfg.SocketDir))
	if err != nil {
		fmt.Println("Cannot reach webrigd. Is the daemon running?")
		log.Fatal(err)
	}
	return client
}

func runInteractiveMode(cmd *cobra.Command, args []string) {
	cfg := setup(cmd)
	client := dial(cfg)
	defer client.Close()

	coord := coordinator.New(client)
	teardown, err := coord.Activate(context.Background())
	if err != nil {
		log.Fatalf("activate install panel: %v", err)
	}
	defer teardown()

	model := tui.NewModel(Version, coord)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

func runStatus(cmd *cobra.Command) {
	cfg := setup(cmd)
	client := dial(cfg)
	defer client.Close()

	reply, err := client.GetStatus(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	if !reply.Success {
		log.Fatalf("status query rejected: %s", reply.Error)
	}

	fmt.Printf("Playwright driver: %s\n", installedWord(reply.PlaywrightInstalled))
	fmt.Printf("Browser (%s):      %s\n", cfg.Browser, installedWord(reply.BrowserInstalled))
	if reply.NeedsInstall {
		fmt.Println("\nRun 'webrig install' to install the missing components.")
	}
}

func runInstall(cmd *cobra.Command) {
	cfg := setup(cmd)
	client := dial(cfg)
	defer client.Close()

	ctx := context.Background()
	progress, release, err := client.SubscribeProgress(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer release()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for line := range progress {
			fmt.Println(line)
		}
	}()

	reply, err := client.Install(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if !reply.Success {
		log.Fatalf("install failed: %s", reply.Error)
	}

	release()
	<-done
	fmt.Println("Install complete.")
}

func runPing(cmd *cobra.Command) {
	cfg := setup(cmd)
	client := dial(cfg)
	defer client.Close()

	if _, err := client.Call(context.Background(), ipc.MethodPing, nil); err != nil {
		log.Fatal(err)
	}
	fmt.Println("pong")
}

func installedWord(ok bool) string {
	if ok {
		return "installed"
	}
	return "missing"
}
