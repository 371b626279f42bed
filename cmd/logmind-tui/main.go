package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/chimera/logmind/internal/gateway"
	"github.com/chimera/logmind/internal/logging"
	"github.com/chimera/logmind/internal/socketrpc"
	"github.com/chimera/logmind/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := newRootCommand(newViper()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI over v. Flags are bound into v.
func newRootCommand(v *viper.Viper) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "logmind-tui",
		Short: "Terminal dashboard for the Chimera LogMind daemon",
		Long: `Full-screen dashboard for a running Chimera LogMind daemon.

Tabs: Dashboard, Logs, Search, Analytics, Health, Chat, Reports,
Security, Config and Help. Press ? inside the dashboard for key bindings.

The daemon socket defaults to /run/chimera/api.sock and can be set with
--socket or CHIMERA_API_SOCKET.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/chimera/tui.yml)")
	flags.String("socket", "", "daemon socket path (overrides api-socket)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	_ = v.BindPFlag("api-socket", flags.Lookup("socket"))
	_ = v.BindPFlag("log-level", flags.Lookup("log-level"))

	root.AddCommand(newVersionCommand(v, &configPath))
	return root
}

func newVersionCommand(v *viper.Viper, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client build info and the daemon version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			printBuildInfo(out)

			cfg, err := loadConfig(v, *configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			gw := gateway.New(socketrpc.NewClient(cfg.APISocket), zerolog.Nop(), gateway.Options{ChatContext: cfg.ChatContext})
			daemon, err := gw.Version(ctx)
			if err != nil {
				fmt.Fprintf(out, "  Daemon:     unavailable (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "  Daemon:     %s\n", daemon)
			return nil
		},
	}
}

func printBuildInfo(w io.Writer) {
	fmt.Fprintf(w, "Chimera LogMind - Dashboard Client\n")
	fmt.Fprintf(w, "  Version:    %s\n", version)
	fmt.Fprintf(w, "  Commit:     %s\n", commit)
	fmt.Fprintf(w, "  Built:      %s\n", buildTime)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

func runTUI(parent context.Context, cfg cliConfig) error {
	logger, closer, err := logging.Setup(cfg.loggingConfig())
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info().
		Str("socket", cfg.APISocket).
		Str("config", cfg.ConfigPath).
		Str("version", version).
		Msg("dashboard starting")

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := socketrpc.NewClient(cfg.APISocket)
	gw := gateway.New(client, logger, gateway.Options{ChatContext: cfg.ChatContext})
	dashboard := tui.NewDashboardModel(ctx, gw, cfg.dashboardOptions(logger))

	p := tea.NewProgram(dashboard, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("dashboard exited with error")
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info().Msg("dashboard stopped")
	return nil
}
