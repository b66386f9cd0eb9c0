package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hylla/tablero/internal/config"
	"github.com/hylla/tablero/internal/platform"
)

var version = "dev"

// program is the part of a tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

// programFactory is swapped in tests to run the model without a terminal.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes the CLI with args. fang reports errors on stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	rt := newCLI(stdout, stderr)
	defer rt.close()

	root := newRootCommand(rt)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root,
		fang.WithVersion(version),
		fang.WithoutManpage(),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
}

// cli carries the resolved process state shared by every command.
type cli struct {
	stdout     io.Writer
	stderr     io.Writer
	v          *viper.Viper
	appName    string
	devMode    bool
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
}

func newCLI(stdout, stderr io.Writer) *cli {
	v := viper.New()
	v.SetEnvPrefix("TABLERO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &cli{stdout: stdout, stderr: stderr, v: v}
}

func newRootCommand(rt *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "tablero",
		Short: "Manage items, employees and opportunities from the terminal",
		Long: "tablero keeps three record collections (items, employees, opportunities) in a local store\n" +
			"or against a remote records API, and serves that API itself.",
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.runTUI(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to config TOML (env TABLERO_CONFIG)")
	flags.String("db", "", "path to sqlite database (env TABLERO_DB)")
	flags.String("mode", "", "data source: local or remote (env TABLERO_MODE)")
	flags.String("api-url", "", "records API base URL for remote mode (env TABLERO_API_URL)")
	flags.String("app", platform.DefaultAppName, "application name for config/data path resolution")
	flags.Bool("dev", version == "dev", "use dev mode paths (<app>-dev) and the dev log file")
	_ = rt.v.BindPFlags(flags)

	root.AddCommand(
		newTUICommand(rt),
		newServeCommand(rt),
		newListCommand(rt),
		newSeedCommand(rt),
		newInitCommand(rt),
		newPathsCommand(rt),
	)
	return root
}

// resolvePaths resolves the platform paths for the selected app name and dev mode.
func (rt *cli) resolvePaths() error {
	rt.appName = strings.TrimSpace(rt.v.GetString("app"))
	if rt.appName == "" {
		rt.appName = platform.DefaultAppName
	}
	rt.devMode = rt.v.GetBool("dev")
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: rt.appName,
		DevMode: rt.devMode,
	})
	if err != nil {
		return err
	}
	rt.paths = paths
	return nil
}

// setup loads config, applies flag and env overrides and starts the runtime logger.
func (rt *cli) setup(cmd *cobra.Command) error {
	if err := rt.resolvePaths(); err != nil {
		return err
	}

	rt.configPath = rt.configFile()
	dbPath, dbOverridden := rt.dbFile()

	cfg, err := config.Load(rt.configPath, config.Default(dbPath))
	if err != nil {
		return fmt.Errorf("load config %q: %w", rt.configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}
	rt.applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %q: %w", rt.configPath, err)
	}
	rt.cfg = cfg

	logger, err := newRuntimeLogger(rt.stderr, rt.appName, rt.devMode, cfg.Logging, rt.paths.LogDir, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	rt.logger = logger
	if interactive(cmd) {
		// the dashboard owns the terminal; lower-level events stay in the dev-file sink
		logger.QuietConsole(charmLog.ErrorLevel)
	}

	logger.Info("startup configuration resolved", "app", rt.appName, "dev_mode", rt.devMode, "command", cmd.Name())
	logger.Debug("runtime paths resolved", "config_path", rt.configPath, "data_dir", rt.paths.DataDir, "db_path", cfg.Database.Path)
	logger.Info("configuration loaded", "mode", cfg.Mode, "local_storage", cfg.Local.Storage, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
	return nil
}

// configFile returns the --config/TABLERO_CONFIG path, falling back to the platform default.
func (rt *cli) configFile() string {
	if path := strings.TrimSpace(rt.v.GetString("config")); path != "" {
		return path
	}
	return rt.paths.ConfigPath
}

// dbFile returns the sqlite path and whether it came from a flag or env override.
func (rt *cli) dbFile() (string, bool) {
	if path := strings.TrimSpace(rt.v.GetString("db")); path != "" {
		return path, true
	}
	return rt.paths.DBPath, false
}

func (rt *cli) applyOverrides(cfg *config.Config) {
	if mode := strings.TrimSpace(rt.v.GetString("mode")); mode != "" {
		cfg.Mode = config.Mode(strings.ToLower(mode))
	}
	if apiURL := strings.TrimSpace(rt.v.GetString("api-url")); apiURL != "" {
		cfg.Remote.BaseURL = apiURL
	}
}

// interactive reports whether cmd runs the dashboard.
func interactive(cmd *cobra.Command) bool {
	return cmd == cmd.Root() || cmd.Name() == "tui"
}

func (rt *cli) close() {
	if err := rt.logger.Close(); err != nil {
		_, _ = fmt.Fprintf(rt.stderr, "warning: close runtime log sink: %v\n", err)
	}
}
