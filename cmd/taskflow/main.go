package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskflow/taskflow-api/internal/app"
	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/infrastructure/config"
	"github.com/taskflow/taskflow-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "Taskflow task tracker",
	Long: `Taskflow lets an admin create users and tasks and assign tasks to users.
Users move their tasks through todo, in_progress and done; assignment and
completion leave a notification for the people involved.

Server settings come from the environment (JWT_SECRET, STORAGE_DRIVER, ...).
The flags below override the matching variables for a single run.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("TASKFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("pretty", false, "human-readable console logs")
	rootCmd.PersistentFlags().String("storage", "", "storage driver (mongo, postgres, sqlite)")
	rootCmd.PersistentFlags().String("sqlite-path", "", "sqlite database file")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("pretty", rootCmd.PersistentFlags().Lookup("pretty"))
	_ = viper.BindPFlag("storage", rootCmd.PersistentFlags().Lookup("storage"))
	_ = viper.BindPFlag("sqlite-path", rootCmd.PersistentFlags().Lookup("sqlite-path"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(setupAdminCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(watchCmd())
}

// --- helpers ---

// flagOverrides maps CLI flags onto the environment variables they replace.
func flagOverrides() map[string]string {
	out := map[string]string{}
	if v := viper.GetString("log-level"); v != "" {
		out["LOG_LEVEL"] = v
	}
	if v := viper.GetString("storage"); v != "" {
		out["STORAGE_DRIVER"] = v
	}
	if v := viper.GetString("sqlite-path"); v != "" {
		out["SQLITE_PATH"] = v
	}
	return out
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	return config.LoadFrom(ctx, envconfig.MultiLookuper(
		envconfig.MapLookuper(flagOverrides()),
		envconfig.OsLookuper(),
	))
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  viper.GetBool("pretty") || cfg.IsDevelopment(),
		Output:  os.Stderr,
		Service: "taskflow",
	})
}

// withApp runs fn against a fully wired App and tears it down afterwards.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	a.Start(runCtx)
	defer func() {
		cancel()
		if err := a.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()
	return fn(runCtx, a)
}

// operator is the identity CLI reads run as. It sees every task and user.
var operator = domain.Identity{ID: "cli", Email: "cli@localhost", IsAdmin: true}
