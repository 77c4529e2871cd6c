package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/cramkit/internal/app"
	"github.com/abhisek/cramkit/internal/config"
	"github.com/abhisek/cramkit/internal/logging"
	"github.com/abhisek/cramkit/internal/store"
)

var (
	v   *viper.Viper
	cfg *config.Config
	log logrus.FieldLogger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "cramkit",
	Short: "Spaced-repetition study tracker",
	Long:  "cramkit schedules reviews, surfaces weak items and estimates exam readiness from your answers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite file path (overrides CRAMKIT_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./cramkit.yaml or $XDG_CONFIG_HOME/cramkit/cramkit.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(weakCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig builds a fresh viper instance with the persistent flags bound
// and sets the package-level config and logger.
func loadConfig(cmd *cobra.Command) error {
	v = viper.New()
	flags := cmd.Flags()
	if err := v.BindPFlag("database.dsn", flags.Lookup("db")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.level", flags.Lookup("log-level")); err != nil {
		return err
	}

	configFile, _ := flags.GetString("config")
	c, err := config.Load(v, configFile)
	if err != nil {
		return err
	}

	l, err := logging.New(c.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg, log = c, l
	return nil
}

// resolveDSN returns the configured DSN. For SQLite an empty DSN falls back
// to the default path and the parent directory of a file path is created.
func resolveDSN(c *config.Config) (string, error) {
	if c.Database.Driver != store.DriverSQLite {
		return c.Database.DSN, nil
	}
	if p := c.Database.DSN; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openEngine opens the store and wires an Engine on top of it. The returned
// close function releases the store.
func openEngine() (*app.Engine, func(), error) {
	dsn, err := resolveDSN(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(dsn,
		store.WithDriver(cfg.Database.Driver),
		store.WithLogger(log.WithField("component", "store")),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	eng, err := app.New(app.Options{
		Progress: st.ProgressRepo(),
		Sessions: st.SessionRepo(),
		Items:    st.ItemRepo(),
		Resetter: st,
		Logger:   log,
	})
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	log.WithField("driver", cfg.Database.Driver).Debug("engine ready")
	return eng, func() { st.Close() }, nil
}
