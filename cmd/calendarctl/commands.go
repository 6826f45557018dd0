package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"my-calendar/internal/app"
	"my-calendar/internal/config"
	"my-calendar/internal/database/migrations"
	"my-calendar/internal/events/calendar"
	"my-calendar/internal/kafka"
	"my-calendar/internal/logger"
	"my-calendar/internal/models"
)

type cli struct {
	out      io.Writer
	cfg      *config.Config
	log      *logger.Logger
	dbDriver string
	dbPath   string
	logLevel string
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	rootCmd := &cobra.Command{
		Use:   "calendarctl",
		Short: "Calendar event service and tools",
		Long: `calendarctl runs the calendar REST service and offers maintenance
commands over the same event store.`,
		PersistentPreRunE: c.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&c.dbDriver, "db-driver", "", "store driver: sqlite or postgres (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&c.dbPath, "db-path", "", "sqlite database file (overrides DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(c.serveCommand(), c.migrateCommand(), c.statsCommand(), c.exportCommand(), c.watchCommand())
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	c.cfg = config.Load()
	if c.dbDriver != "" {
		c.cfg.Database.Driver = c.dbDriver
	}
	if c.dbPath != "" {
		c.cfg.Database.Path = c.dbPath
	}

	// Only serve writes a log file; the tools log to stderr.
	if cmd.Name() == "serve" {
		c.log = logger.NewLogger()
	} else {
		c.log = logger.NewLoggerWithWriter(os.Stderr)
	}
	level := c.cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	c.log.SetLevel(level)
	return nil
}

func (c *cli) serveCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calendar HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer c.log.Close()
			if port != "" {
				c.cfg.Server.Port = port
			}
			a, err := app.New(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen address, e.g. :5000 (overrides PORT)")
	return cmd
}

func (c *cli) migrateCommand() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the event schema",
		Example: `  calendarctl migrate
  calendarctl migrate --down`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.NewStoreOnly(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			defer a.Close()

			runner := migrations.NewRunner(a.DB, c.cfg.Database.Driver, c.log)
			if down {
				if err := runner.MigrateDown(); err != nil {
					return err
				}
			}
			version, ok, err := runner.Version()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(c.out, "no schema applied")
				return nil
			}
			fmt.Fprintf(c.out, "schema version %d\n", version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll the schema back")
	return cmd
}

func (c *cli) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print event statistics as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.NewStoreOnly(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.Service.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.out)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
}

func (c *cli) exportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write all events as an iCalendar file",
		Example: `  calendarctl export -o calendar.ics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.NewStoreOnly(cmd.Context(), c.cfg, c.log)
			if err != nil {
				return err
			}
			defer a.Close()

			all, err := a.Service.ListAllEvents(cmd.Context())
			if err != nil {
				return err
			}

			w := c.out
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			skipped, err := calendar.Export(w, all, time.Now())
			if err != nil {
				return err
			}
			if len(skipped) > 0 {
				c.log.Warn("EVENTS", fmt.Sprintf("Skipped malformed events %v", skipped))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func (c *cli) watchCommand() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print event lifecycle notifications from Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			consumer := kafka.NewConsumer(c.cfg.Kafka.Brokers, c.cfg.Kafka.Topics.All(), group, c.log)
			defer consumer.Close()

			enc := json.NewEncoder(c.out)
			return consumer.Start(cmd.Context(), func(n models.EventNotification) {
				enc.Encode(n)
			})
		},
	}
	cmd.Flags().StringVar(&group, "group", "calendarctl-watch", "consumer group id")
	return cmd
}
