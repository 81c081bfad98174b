// Package config はアプリケーション設定を管理します。
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix は環境変数の接頭辞です（例: PLANTCARE_DATABASE_URL）。
const EnvPrefix = "PLANTCARE"

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	// データベースの場所（ローカルのファイルパス、またはlibSQLのURL）
	DatabaseURL string `mapstructure:"database_url"`

	// ホストされたlibSQLデータベースの認証トークン
	AuthToken string `mapstructure:"turso_auth_token"`

	// HTTPサーバーのポート
	Port string `mapstructure:"server_port"`

	// API認証キー。空の場合は認証なし
	APIKey string `mapstructure:"api_key"`

	// ログファイルのパス。空の場合は標準エラー出力
	LogFile string `mapstructure:"log_file"`

	// 毎日のリマインダー時刻（UTC, HH:MM）
	ReminderTime string `mapstructure:"reminder_time"`

	// Telegram通知の設定
	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`

	// CLIが接続するサーバーのURL
	ServerURL string `mapstructure:"server_url"`
}

var keys = []string{
	"database_url",
	"turso_auth_token",
	"server_port",
	"api_key",
	"log_file",
	"reminder_time",
	"telegram_token",
	"telegram_chat_id",
	"server_url",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", filepath.Join(".", "data", "plantcare.db"))
	v.SetDefault("server_port", "8080")
	v.SetDefault("reminder_time", "08:00")
	v.SetDefault("server_url", "http://localhost:8080")
}

// Load は設定ファイル（任意）と環境変数から設定を読み込みます。
// configFile が空の場合はカレントディレクトリの plantcare.yaml を探し、
// 見つからなければ環境変数とデフォルト値だけを使用します。
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// Unmarshal は AutomaticEnv だけでは未設定のキーを拾わないため明示的にバインドする
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("plantcare")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// TelegramEnabled reports whether reminders should be sent to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
