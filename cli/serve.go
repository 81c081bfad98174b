package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stsysd/plantcare/api"
	"github.com/stsysd/plantcare/db"
	"github.com/stsysd/plantcare/logging"
	"github.com/stsysd/plantcare/reminder"
	"github.com/stsysd/plantcare/store"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	GroupID: "server",
	Short:   "Start the record store server",
	Long: `Start the HTTP server that stores plants, fertilizers and care logs.

The server also runs the daily reminder at reminder_time (UTC). Reminders go
to Telegram when telegram_token and telegram_chat_id are set and to the log
otherwise.

Example usage:
  plantcare serve                  # Start on the configured port
  plantcare serve --port 9000      # Start on a custom port
  plantcare serve --no-reminder    # Do not schedule the daily reminder`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		noReminder, _ := cmd.Flags().GetBool("no-reminder")

		closer := logging.Setup(cfg.LogFile)
		defer closer.Close()

		// SQLiteストアの初期化（マイグレーション関数を渡す）
		sqliteStore, err := store.NewSQLiteStore(cfg.DatabaseURL, cfg.AuthToken, db.Migrate)
		if err != nil {
			return err
		}
		defer sqliteStore.Close()

		server := api.NewServer(sqliteStore, cfg)

		if !noReminder {
			logger := logging.New("reminder")
			notifier, err := reminder.NewNotifier(cfg, logger)
			if err != nil {
				return err
			}
			scheduler, err := reminder.NewScheduler(cfg.ReminderTime, reminder.NewJob(sqliteStore, notifier, logger))
			if err != nil {
				return err
			}
			scheduler.Start()
			defer scheduler.Stop()
			log.Printf("Next reminder at %s", scheduler.Next().Format("2006-01-02 15:04 MST"))
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		log.Printf("Starting server on :%s", cfg.Port)
		return server.Run(ctx, ":"+cfg.Port)
	},
}

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "server",
	Short:   "Create missing tables on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Init(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database initialized")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "port to listen on (overrides server_port)")
	serveCmd.Flags().Bool("no-reminder", false, "do not schedule the daily reminder")

	rootCmd.AddCommand(serveCmd, initCmd)
}
