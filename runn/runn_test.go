package runn

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/k1LoW/runn"
	"github.com/stsysd/plantcare/api"
	"github.com/stsysd/plantcare/config"
	"github.com/stsysd/plantcare/db"
	"github.com/stsysd/plantcare/store"
)

func TestRouter(t *testing.T) {
	t.Setenv("PLANTCARE_API_KEY", "test-token")
	t.Setenv("PLANTCARE_DATABASE_URL", filepath.Join(t.TempDir(), "plantcare.db"))

	// 設定の読み込み
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// SQLiteストアの初期化（マイグレーション関数を渡す）
	sqliteStore, err := store.NewSQLiteStore(cfg.DatabaseURL, cfg.AuthToken, db.Migrate)
	if err != nil {
		t.Fatalf("Failed to initialize SQLite store: %v", err)
	}
	defer sqliteStore.Close()

	// サーバーインスタンスの作成
	server := api.NewServer(sqliteStore, cfg)

	ctx := context.Background()
	ts := httptest.NewServer(server)
	t.Cleanup(func() {
		ts.Close()
		server.Close()
	})
	opts := []runn.Option{
		runn.T(t),
		runn.Runner("req", ts.URL),
		runn.Var("api_key", "test-token"),
	}
	o, err := runn.Load("./scenarios/*.yml", opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.RunN(ctx); err != nil {
		t.Fatal(err)
	}
}
