package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mariusvb/commitfeed/internal/config"
	"github.com/mariusvb/commitfeed/internal/feed"
	"github.com/mariusvb/commitfeed/internal/github"
	"github.com/mariusvb/commitfeed/internal/logging"
	"github.com/mariusvb/commitfeed/internal/tui"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		account    string
		noTUI      bool
		once       bool
	)

	cmd := &cobra.Command{
		Use:           "commitfeed",
		Short:         "Recent commit activity across your repositories, in a floating panel",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, account, noTUI, once)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (optional)")
	cmd.Flags().StringVar(&account, "account", "", "watch this account's public repositories instead of the authenticated user's")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "poll headless instead of showing the panel")
	cmd.Flags().BoolVar(&once, "once", false, "run a single poll cycle, print it, and exit")

	return cmd
}

func run(configPath, account string, noTUI, once bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if account != "" {
		cfg.Account = account
	}

	// Auto-detect TUI capability
	enableTUI := !noTUI && !once && os.Getenv("COMMITFEED_TUI") != "0" &&
		isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	logger, err := logging.Setup(cfg.LogFile, cfg.Log.Level, enableTUI)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer logging.Close()

	client, err := github.NewClient(github.Options{
		Token:          cfg.Token,
		Account:        cfg.Account,
		BaseURL:        cfg.APIURL,
		RepoPageSize:   cfg.RepoPageSize,
		CommitPageSize: cfg.CommitPageSize,
	}, logger)
	if err != nil {
		return err
	}

	svc := feed.NewService(client, cfg.MaxEntries, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case once:
		return runOnce(ctx, svc)
	case enableTUI:
		return runTUI(cfg, svc, logger)
	default:
		return runHeadless(ctx, cfg, svc, logger)
	}
}

func runTUI(cfg *config.Config, svc *feed.Service, logger *slog.Logger) error {
	logger.Info("commitfeed starting", "mode", "tui")

	m := tui.NewModel(svc, tui.Options{
		PollInterval:  cfg.PollInterval,
		BlinkInterval: cfg.BlinkInterval,
		OnClose:       tea.Quit,
		Logger:        logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run panel: %w", err)
	}
	return nil
}

func runHeadless(ctx context.Context, cfg *config.Config, svc *feed.Service, logger *slog.Logger) error {
	logger.Info("commitfeed starting", "mode", "headless")

	p := feed.NewPoller(svc, cfg.PollInterval, logger, func(entries []github.Commit, err error) {
		if err != nil {
			return // the poller already logged it; next attempt is the next tick
		}
		printEntries(os.Stdout, entries)
	})
	return p.Run(ctx)
}

func runOnce(ctx context.Context, svc *feed.Service) error {
	entries, err := svc.Refresh(ctx)
	if err != nil {
		return err
	}
	printEntries(os.Stdout, entries)
	return nil
}

func printEntries(w io.Writer, entries []github.Commit) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no recent commits")
		return
	}
	for _, e := range entries {
		msg, _, _ := strings.Cut(e.Message, "\n")
		fmt.Fprintf(w, "%-7.7s  %s  %-24s  %s\n",
			e.SHA, e.Timestamp.Format("2006-01-02 15:04"), e.Repo, strings.TrimRight(msg, "\r"))
	}
}
