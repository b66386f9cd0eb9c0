package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/hylla/tablero/internal/adapters/server"
	"github.com/hylla/tablero/internal/adapters/server/common"
	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/config"
	"github.com/hylla/tablero/internal/domain"
	"github.com/hylla/tablero/internal/tui"
)

func newTUICommand(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.runTUI(cmd.Context())
		},
	}
}

// runTUI opens the store and hands the terminal to the dashboard.
func (rt *cli) runTUI(ctx context.Context) error {
	store, release, err := rt.openStore(ctx)
	if err != nil {
		return err
	}
	defer release()

	m := tui.NewModel(store, tui.WithContext(ctx))
	rt.logger.Info("starting tui program loop", "sync", store.Mode())
	if _, err := programFactory(m).Run(); err != nil {
		rt.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "tui")
	return nil
}

func newServeCommand(rt *cli) *cobra.Command {
	var (
		bind        string
		storageName string
		seedEmpty   bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the records API, MCP tools and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if bind != "" {
				rt.cfg.Server.Bind = bind
			}
			if storageName != "" {
				rt.cfg.Server.Storage = config.Storage(strings.ToLower(storageName))
			}
			return rt.runServe(cmd.Context(), seedEmpty)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "listen address (overrides server.bind)")
	cmd.Flags().StringVar(&storageName, "storage", "", "storage backend: memory, sqlite or redis (overrides server.storage)")
	cmd.Flags().BoolVar(&seedEmpty, "seed", false, "load the seed into empty tables before serving")
	return cmd
}

// runServe serves the records API over the configured server storage until ctx is cancelled.
func (rt *cli) runServe(ctx context.Context, seedEmpty bool) error {
	cfg := rt.cfg
	st, err := rt.openStorage(ctx, cfg.Server.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			rt.logger.Warn("storage close failed", "storage", cfg.Server.Storage, "err", err)
		}
	}()
	if seedEmpty || cfg.Server.Storage == config.StorageMemory {
		n, err := rt.seedStorage(ctx, st.repo, rt.seedFile(""))
		if err != nil {
			return err
		}
		rt.logger.Info("seed loaded", "storage", cfg.Server.Storage, "inserted", n)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	svc := app.NewService(st.repo, uuid.NewString, time.Now, app.ServiceConfig{
		Logger:  rt.logger,
		Metrics: app.NewMetrics(reg),
	})

	rt.logger.Info("command flow start", "command", "serve", "bind", cfg.Server.Bind, "storage", cfg.Server.Storage)
	err = server.Run(ctx, server.Config{
		HTTPBind:        cfg.Server.Bind,
		APIEndpoint:     cfg.Server.APIEndpoint,
		MCPEndpoint:     cfg.Server.MCPEndpoint,
		ServerName:      "tablero",
		ServerVersion:   version,
		ShutdownTimeout: cfg.Server.ShutdownGrace(),
	}, server.Dependencies{
		Records:  common.NewAppServiceAdapter(svc),
		Gatherer: reg,
		Ready:    st.ping,
		Logger:   rt.logger,
	})
	if err != nil {
		rt.logger.Error("command flow failed", "command", "serve", "err", err)
		return fmt.Errorf("run server: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "serve")
	return nil
}

func newListCommand(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list <kind>",
		Short:   "Print one record collection",
		Example: "  tablero list employees\n  tablero --mode remote list opportunities",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseKind(args[0])
			if err != nil {
				return err
			}
			return rt.runList(cmd.Context(), kind)
		},
	}
}

// runList fetches every collection and prints kind as a table.
func (rt *cli) runList(ctx context.Context, kind domain.Kind) error {
	store, release, err := rt.openStore(ctx)
	if err != nil {
		return err
	}
	defer release()

	effects, err := store.FetchAll(ctx)
	app.Present(app.LogPresenter{Logger: rt.logger}, effects)
	if err != nil {
		return fmt.Errorf("fetch records: %w", err)
	}
	_, err = fmt.Fprintln(rt.stdout, renderRecords(store, kind))
	return err
}

// renderRecords renders kind as a bordered table followed by a summary line.
func renderRecords(store *app.Store, kind domain.Kind) string {
	headers, rows := recordRows(store, kind)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Rows(rows...)

	stats := store.Stats()
	summary := fmt.Sprintf("%d %s", len(rows), kind.Plural())
	if kind == domain.KindOpportunity {
		summary += fmt.Sprintf(" · pipeline $%s · won $%s", humanize.Commaf(stats.OpenPipeline), humanize.Commaf(stats.WonValue))
	}
	return t.Render() + "\n" + lipgloss.NewStyle().Faint(true).Render(summary)
}

// recordRows returns the headers and id-first cell rows of kind.
func recordRows(store *app.Store, kind domain.Kind) ([]string, [][]string) {
	var rows [][]string
	switch kind {
	case domain.KindItem:
		for _, r := range store.Items().Records() {
			rows = append(rows, []string{r.ID, r.Name, r.Email, string(r.Role), string(r.Status), r.CreatedAt.String()})
		}
		return []string{"ID", "Name", "Email", "Role", "Status", "Created"}, rows
	case domain.KindEmployee:
		for _, r := range store.Employees().Records() {
			rows = append(rows, []string{r.ID, r.Name, r.Email, r.Phone, r.Position, string(r.Department), r.HireDate.String(), string(r.Status)})
		}
		return []string{"ID", "Name", "Email", "Phone", "Position", "Department", "Hired", "Status"}, rows
	default:
		for _, r := range store.Opportunities().Records() {
			rows = append(rows, []string{r.ID, r.Title, r.Client, "$" + humanize.Commaf(r.Value), string(r.Status), string(r.Priority), r.Deadline.String()})
		}
		return []string{"ID", "Title", "Client", "Value", "Stage", "Priority", "Deadline"}, rows
	}
}

func newSeedCommand(rt *cli) *cobra.Command {
	var (
		file        string
		storageName string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load seed records into the empty tables of persistent storage",
		Long: "seed reads a YAML seed file (or the built-in sample records) and inserts it into every\n" +
			"table that holds no records yet. Tables with records are left untouched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := rt.cfg.Server.Storage
			if storageName != "" {
				target = config.Storage(strings.ToLower(storageName))
			}
			return rt.runSeed(cmd.Context(), target, rt.seedFile(file))
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed YAML file (default: seed.path or the built-in records)")
	cmd.Flags().StringVar(&storageName, "storage", "", "target storage: sqlite or redis (default: server.storage)")
	return cmd
}

// runSeed applies the seed at path to the target storage.
func (rt *cli) runSeed(ctx context.Context, target config.Storage, path string) error {
	if target == config.StorageMemory {
		return errors.New("memory storage does not persist; seed sqlite or redis")
	}
	st, err := rt.openStorage(ctx, target)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			rt.logger.Warn("storage close failed", "storage", target, "err", err)
		}
	}()
	n, err := rt.seedStorage(ctx, st.repo, path)
	if err != nil {
		rt.logger.Error("command flow failed", "command", "seed", "err", err)
		return err
	}
	source := path
	if source == "" {
		source = "built-in records"
	}
	_, err = fmt.Fprintf(rt.stdout, "seeded %d records into %s from %s\n", n, target, source)
	return err
}

func newInitCommand(rt *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return rt.resolvePaths()
		},
		RunE: func(*cobra.Command, []string) error {
			return rt.runInit(force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// runInit writes the default config, with flag and env overrides applied, to the config path.
func (rt *cli) runInit(force bool) error {
	path := rt.configFile()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}
	dbPath, _ := rt.dbFile()
	cfg := config.Default(dbPath)
	rt.applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Write(path, cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(rt.stdout, "wrote %s\n  mode: %s\n  db:   %s\n", path, cfg.Mode, cfg.Database.Path)
	return err
}

func newPathsCommand(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		// paths must work before a config file exists, so it skips config loading
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return rt.resolvePaths()
		},
		RunE: func(*cobra.Command, []string) error {
			lines := []struct {
				key   string
				value any
			}{
				{"app", rt.appName},
				{"dev_mode", rt.devMode},
				{"config", rt.paths.ConfigPath},
				{"seed", rt.paths.SeedPath},
				{"data_dir", rt.paths.DataDir},
				{"db", rt.paths.DBPath},
				{"log_dir", rt.paths.LogDir},
			}
			for _, line := range lines {
				if _, err := fmt.Fprintf(rt.stdout, "%s: %v\n", line.key, line.value); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
