package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/projecttasks/internal/app"
	"github.com/existflow/projecttasks/internal/config"
	"github.com/existflow/projecttasks/internal/logger"
	"github.com/existflow/projecttasks/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	dbPath     string
	noLatency  bool

	// cfg is loaded once per invocation by the root pre-run hook
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ptask",
	Short: "ptask - Terminal project and task manager",
	Long: `ptask organizes tasks into colored projects. Tasks can be filtered,
sorted, searched, completed and moved between projects.

Run 'ptask' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig, logger.F("run", uuid.NewString()[:8])); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("ptask started", logger.F("command", cmd.CommandPath()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		f, ok := cmd.OutOrStdout().(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			// piped output gets the plain list
			return runList(cmd, args)
		}

		// controller messages go to the status bar, not the terminal
		notes := tui.NewNotifier()
		s, err := openSession(cmd, app.WithNotifier(notes))
		if err != nil {
			return err
		}
		defer s.close()

		logger.Info("Launching TUI")
		m := tui.NewModel(s.ctrl, tui.Options{
			Notifier:      notes,
			Save:          s.save,
			AutosaveDelay: cfg.AutosaveDelay(),
			ConfirmDelete: cfg.ConfirmDelete,
		})
		p := tea.NewProgram(m, tea.WithAltScreen())

		final, err := p.Run()
		if err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		if fm, ok := final.(tui.Model); ok {
			if err := fm.SaveError(); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("ptask exiting", logger.F("command", cmd.CommandPath()))
		_ = logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Session flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the session database (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noLatency, "no-latency", false, "Disable the simulated store round-trip")

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)
}
