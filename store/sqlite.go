package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stsysd/plantcare/db"
	"github.com/stsysd/plantcare/model"
)

// MigrateFunc はスキーマを作成・更新する関数です。
type MigrateFunc func(*sql.DB) error

// SQLiteStore はSQLite (libSQL) を使用したStoreの実装です。
type SQLiteStore struct {
	conn    *sql.DB
	queries *db.Queries
	migrate MigrateFunc
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore は新しいSQLiteStoreを作成し、マイグレーションを実行します。
// databaseURL はローカルのファイルパス、またはホストされたlibSQLのURLです。
func NewSQLiteStore(databaseURL, authToken string, migrate MigrateFunc) (*SQLiteStore, error) {
	conn, err := openDB(databaseURL, authToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// インメモリDBは接続ごとに別のデータベースになるため一本に絞る
	if isMemory(databaseURL) {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{
		conn:    conn,
		queries: db.New(conn),
		migrate: migrate,
	}

	// テーブルの初期化
	if err := s.Init(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	return s, nil
}

// Init はマイグレーションを実行します。何度呼び出しても安全です。
func (s *SQLiteStore) Init(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.migrate(s.conn)
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// withTx は fn をトランザクション内で実行します。fn がエラーを返した場合はロールバックします。
func (s *SQLiteStore) withTx(ctx context.Context, fn func(q *db.Queries) error) error {
	// トランザクションの開始
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// トランザクションをロールバックするための遅延関数
	defer func() {
		if tx != nil {
			tx.Rollback() // 成功した場合は既にnilになっているためエラーは無視
		}
	}()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}

	// トランザクションのコミット
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil // コミットが成功したのでnilにして遅延関数でのロールバックを防ぐ

	return nil
}

func plantFromRow(row db.Plant) *model.Plant {
	return &model.Plant{
		ID:              row.ID,
		Name:            row.Name,
		Type:            model.PlantType(row.Type),
		WaterCycle:      int(row.WaterCycle),
		FertilizerCycle: int(row.FertilizerCycle),
		LastWatered:     row.LastWatered,
		LastFertilized:  row.LastFertilized,
		Status:          row.Status,
		CreatedAt:       row.CreatedAt,
	}
}

// ListPlants はすべての植物を作成日の新しい順に取得します。
func (s *SQLiteStore) ListPlants(ctx context.Context) ([]*model.Plant, error) {
	rows, err := s.queries.ListPlants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}

	plants := make([]*model.Plant, 0, len(rows))
	for _, row := range rows {
		plants = append(plants, plantFromRow(row))
	}
	return plants, nil
}

// CreatePlant は新しい植物をデータベースに保存します。
func (s *SQLiteStore) CreatePlant(ctx context.Context, plant *model.Plant) error {
	// バリデーション
	if err := plant.Normalize(); err != nil {
		return err
	}
	if err := plant.Validate(); err != nil {
		return err
	}

	err := s.queries.CreatePlant(ctx, db.CreatePlantParams{
		ID:              plant.ID,
		Name:            plant.Name,
		Type:            string(plant.Type),
		WaterCycle:      int64(plant.WaterCycle),
		FertilizerCycle: int64(plant.FertilizerCycle),
		LastWatered:     plant.LastWatered,
		LastFertilized:  plant.LastFertilized,
		Status:          plant.Status,
		CreatedAt:       plant.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create plant: %w", err)
	}
	return nil
}

// UpdatePlantCare は指定されたフィールドだけを個別のUPDATE文で更新します。
// 対象の植物が存在しない場合は何もしません。
func (s *SQLiteStore) UpdatePlantCare(ctx context.Context, update *model.PlantCareUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}

	if update.LastWatered != nil {
		_, err := s.queries.UpdatePlantLastWatered(ctx, db.UpdatePlantLastWateredParams{
			LastWatered: *update.LastWatered,
			ID:          update.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to update last_watered: %w", err)
		}
	}

	if update.LastFertilized != nil {
		_, err := s.queries.UpdatePlantLastFertilized(ctx, db.UpdatePlantLastFertilizedParams{
			LastFertilized: *update.LastFertilized,
			ID:             update.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to update last_fertilized: %w", err)
		}
	}

	return nil
}

// DeletePlant は指定されたIDの植物を削除します。養護記録は削除しません。
func (s *SQLiteStore) DeletePlant(ctx context.Context, id string) error {
	if err := s.queries.DeletePlant(ctx, id); err != nil {
		return fmt.Errorf("failed to delete plant: %w", err)
	}
	return nil
}

// ListFertilizers はすべての肥料を作成日の新しい順に取得します。
func (s *SQLiteStore) ListFertilizers(ctx context.Context) ([]*model.Fertilizer, error) {
	rows, err := s.queries.ListFertilizers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fertilizers: %w", err)
	}

	fertilizers := make([]*model.Fertilizer, 0, len(rows))
	for _, row := range rows {
		fertilizers = append(fertilizers, &model.Fertilizer{
			ID:        row.ID,
			Name:      row.Name,
			Type:      model.FertilizerType(row.Type),
			CreatedAt: row.CreatedAt,
		})
	}
	return fertilizers, nil
}

// CreateFertilizer は新しい肥料をデータベースに保存します。
func (s *SQLiteStore) CreateFertilizer(ctx context.Context, fertilizer *model.Fertilizer) error {
	if err := fertilizer.Normalize(); err != nil {
		return err
	}
	if err := fertilizer.Validate(); err != nil {
		return err
	}

	err := s.queries.CreateFertilizer(ctx, db.CreateFertilizerParams{
		ID:        fertilizer.ID,
		Name:      fertilizer.Name,
		Type:      string(fertilizer.Type),
		CreatedAt: fertilizer.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create fertilizer: %w", err)
	}
	return nil
}

// DeleteFertilizer は指定されたIDの肥料を削除します。
func (s *SQLiteStore) DeleteFertilizer(ctx context.Context, id string) error {
	if err := s.queries.DeleteFertilizer(ctx, id); err != nil {
		return fmt.Errorf("failed to delete fertilizer: %w", err)
	}
	return nil
}

// ListCareLogs は新しい順に最大 limit 件の養護記録を取得します。
// limit は 1 から model.CareLogLimit の範囲に丸められます。
func (s *SQLiteStore) ListCareLogs(ctx context.Context, limit int) ([]*model.CareLog, error) {
	if limit <= 0 || limit > model.CareLogLimit {
		limit = model.CareLogLimit
	}

	rows, err := s.queries.ListCareLogs(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list care logs: %w", err)
	}

	logs := make([]*model.CareLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, &model.CareLog{
			ID:        row.ID,
			PlantID:   row.PlantID,
			PlantName: row.PlantName,
			Action:    model.CareAction(row.Action),
			CreatedAt: row.CreatedAt,
		})
	}
	return logs, nil
}

// CreateCareLog は養護記録を追記します。
func (s *SQLiteStore) CreateCareLog(ctx context.Context, log *model.CareLog) error {
	if err := log.Normalize(); err != nil {
		return err
	}
	if err := log.Validate(); err != nil {
		return err
	}
	return createCareLog(ctx, s.queries, log)
}

func createCareLog(ctx context.Context, q *db.Queries, log *model.CareLog) error {
	err := q.CreateCareLog(ctx, db.CreateCareLogParams{
		ID:        log.ID,
		PlantID:   log.PlantID,
		PlantName: log.PlantName,
		Action:    string(log.Action),
		CreatedAt: log.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create care log: %w", err)
	}
	return nil
}

// RecordCare は植物の最終水やり日（または最終施肥日）の更新と養護記録の追記を
// 一つのトランザクションで行います。どちらかが失敗した場合は両方ともロールバックされます。
func (s *SQLiteStore) RecordCare(ctx context.Context, event *CareEvent) (*model.CareLog, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	action, _ := model.ParseCareAction(string(event.Action))

	var log *model.CareLog
	err := s.withTx(ctx, func(q *db.Queries) error {
		row, err := q.GetPlant(ctx, event.PlantID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrPlantNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get plant: %w", err)
		}

		switch action {
		case model.ActionWatering:
			_, err = q.UpdatePlantLastWatered(ctx, db.UpdatePlantLastWateredParams{
				LastWatered: event.Date,
				ID:          row.ID,
			})
		case model.ActionFertilizing:
			_, err = q.UpdatePlantLastFertilized(ctx, db.UpdatePlantLastFertilizedParams{
				LastFertilized: event.Date,
				ID:             row.ID,
			})
		}
		if err != nil {
			return fmt.Errorf("failed to update plant: %w", err)
		}

		log, err = model.NewCareLog(event.LogID, plantFromRow(row), action, event.At)
		if err != nil {
			return err
		}
		return createCareLog(ctx, q, log)
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// ListCareLogTimestamps は [from, to) の範囲の養護記録の日時を昇順で取得します。
func (s *SQLiteStore) ListCareLogTimestamps(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	// created_at は文字列で保存されているため日付単位で比較する
	rows, err := s.queries.ListCareLogTimestamps(ctx, db.ListCareLogTimestampsParams{
		CreatedAt:   model.FormatDate(from),
		CreatedAt_2: model.FormatDate(to),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list care log timestamps: %w", err)
	}

	timestamps := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		ts, err := model.ParseDate(row)
		if err != nil {
			return nil, fmt.Errorf("failed to parse care log date: %w", err)
		}
		timestamps = append(timestamps, ts)
	}
	return timestamps, nil
}

// ImportBackup はバックアップの植物と肥料を一つのトランザクションで取り込みます。
// 既存のIDとの衝突は policy に従って処理され、ConflictReject の場合は
// model.ErrConflict を返して何も変更しません。
func (s *SQLiteStore) ImportBackup(ctx context.Context, backup *model.Backup, policy model.ConflictPolicy) (*model.ImportResult, error) {
	if err := backup.Validate(); err != nil {
		return nil, err
	}

	result := &model.ImportResult{Policy: policy}
	err := s.withTx(ctx, func(q *db.Queries) error {
		for _, p := range backup.Data.Plants {
			imported, err := importPlant(ctx, q, p, policy)
			if err != nil {
				return err
			}
			if imported {
				result.PlantsImported++
			} else {
				result.PlantsSkipped++
			}
		}
		for _, f := range backup.Data.Fertilizers {
			imported, err := importFertilizer(ctx, q, f, policy)
			if err != nil {
				return err
			}
			if imported {
				result.FertilizersImported++
			} else {
				result.FertilizersSkipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func importPlant(ctx context.Context, q *db.Queries, p *model.Plant, policy model.ConflictPolicy) (bool, error) {
	params := db.CreatePlantParams{
		ID:              p.ID,
		Name:            p.Name,
		Type:            string(p.Type),
		WaterCycle:      int64(p.WaterCycle),
		FertilizerCycle: int64(p.FertilizerCycle),
		LastWatered:     p.LastWatered,
		LastFertilized:  p.LastFertilized,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt,
	}

	switch policy {
	case model.ConflictReplace:
		if err := q.UpsertPlant(ctx, db.UpsertPlantParams(params)); err != nil {
			return false, fmt.Errorf("failed to upsert plant %s: %w", p.ID, err)
		}
		return true, nil
	case model.ConflictReject:
		n, err := q.PlantExists(ctx, p.ID)
		if err != nil {
			return false, fmt.Errorf("failed to check plant %s: %w", p.ID, err)
		}
		if n > 0 {
			return false, fmt.Errorf("plant %s: %w", p.ID, model.ErrConflict)
		}
		if err := q.CreatePlant(ctx, params); err != nil {
			return false, fmt.Errorf("failed to create plant %s: %w", p.ID, err)
		}
		return true, nil
	default:
		n, err := q.CreatePlantIfAbsent(ctx, db.CreatePlantIfAbsentParams(params))
		if err != nil {
			return false, fmt.Errorf("failed to create plant %s: %w", p.ID, err)
		}
		return n > 0, nil
	}
}

func importFertilizer(ctx context.Context, q *db.Queries, f *model.Fertilizer, policy model.ConflictPolicy) (bool, error) {
	params := db.CreateFertilizerParams{
		ID:        f.ID,
		Name:      f.Name,
		Type:      string(f.Type),
		CreatedAt: f.CreatedAt,
	}

	switch policy {
	case model.ConflictReplace:
		if err := q.UpsertFertilizer(ctx, db.UpsertFertilizerParams(params)); err != nil {
			return false, fmt.Errorf("failed to upsert fertilizer %s: %w", f.ID, err)
		}
		return true, nil
	case model.ConflictReject:
		n, err := q.FertilizerExists(ctx, f.ID)
		if err != nil {
			return false, fmt.Errorf("failed to check fertilizer %s: %w", f.ID, err)
		}
		if n > 0 {
			return false, fmt.Errorf("fertilizer %s: %w", f.ID, model.ErrConflict)
		}
		if err := q.CreateFertilizer(ctx, params); err != nil {
			return false, fmt.Errorf("failed to create fertilizer %s: %w", f.ID, err)
		}
		return true, nil
	default:
		n, err := q.CreateFertilizerIfAbsent(ctx, db.CreateFertilizerIfAbsentParams(params))
		if err != nil {
			return false, fmt.Errorf("failed to create fertilizer %s: %w", f.ID, err)
		}
		return n > 0, nil
	}
}
