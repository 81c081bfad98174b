// Package cli はplantcareのコマンドラインインターフェースを提供します。
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stsysd/plantcare/client"
	"github.com/stsysd/plantcare/config"
)

var (
	configFile string
	serverURL  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "plantcare",
	Short: "Track watering and fertilizing of your plants",
	Long: `plantcare keeps track of when each plant was last watered and fertilized
and tells you which ones need attention today.

Run "plantcare serve" to start the record store server, then use the other
commands to manage plants from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if serverURL != "" {
			c.ServerURL = serverURL
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./plantcare.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides server_url)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "care", Title: "Plant care:"},
		&cobra.Group{ID: "data", Title: "Data:"},
		&cobra.Group{ID: "server", Title: "Server:"},
	)
}

// Execute はルートコマンドを実行します。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient() *client.Client {
	return client.New(cfg.ServerURL, cfg.APIKey)
}

// loadSynchronizer はサーバーから全コレクションを読み込みます。
func loadSynchronizer(ctx context.Context) (*client.Synchronizer, error) {
	s := client.NewSynchronizer(newClient())
	if err := s.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load records from %s: %w", cfg.ServerURL, err)
	}
	return s, nil
}
