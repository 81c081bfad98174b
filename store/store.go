// Package store は、データの永続化機能を提供します。
package store

import (
	"context"
	"time"

	"github.com/stsysd/plantcare/model"
)

// PlantStore は植物の保存と取得を行うインターフェースです。
type PlantStore interface {
	// ListPlants はすべての植物を作成日の新しい順に取得します。
	ListPlants(ctx context.Context) ([]*model.Plant, error)
	// CreatePlant は新しい植物を作成します。
	CreatePlant(ctx context.Context, plant *model.Plant) error
	// UpdatePlantCare は最終水やり日・最終施肥日を個別に更新します。
	UpdatePlantCare(ctx context.Context, update *model.PlantCareUpdate) error
	// DeletePlant は指定されたIDの植物を削除します。存在しない場合も成功します。
	DeletePlant(ctx context.Context, id string) error
}

// FertilizerStore は肥料の保存と取得を行うインターフェースです。
type FertilizerStore interface {
	// ListFertilizers はすべての肥料を作成日の新しい順に取得します。
	ListFertilizers(ctx context.Context) ([]*model.Fertilizer, error)
	// CreateFertilizer は新しい肥料を作成します。
	CreateFertilizer(ctx context.Context, fertilizer *model.Fertilizer) error
	// DeleteFertilizer は指定されたIDの肥料を削除します。存在しない場合も成功します。
	DeleteFertilizer(ctx context.Context, id string) error
}

// CareLogStore は養護記録の保存と取得を行うインターフェースです。
type CareLogStore interface {
	// ListCareLogs は新しい順に最大 limit 件の養護記録を取得します。
	ListCareLogs(ctx context.Context, limit int) ([]*model.CareLog, error)
	// CreateCareLog は養護記録を追記します。
	CreateCareLog(ctx context.Context, log *model.CareLog) error
	// RecordCare は植物の日付更新と養護記録の追記を一つのトランザクションで行います。
	RecordCare(ctx context.Context, event *CareEvent) (*model.CareLog, error)
	// ListCareLogTimestamps は [from, to) の範囲の養護記録の日時を昇順で取得します。
	ListCareLogTimestamps(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// Store はアプリケーションが使用する永続化層全体のインターフェースです。
type Store interface {
	PlantStore
	FertilizerStore
	CareLogStore
	// ImportBackup はバックアップを一つのトランザクションで取り込みます。
	ImportBackup(ctx context.Context, backup *model.Backup, policy model.ConflictPolicy) (*model.ImportResult, error)
	// Init はテーブルが存在しなければ作成します。
	Init(ctx context.Context) error
	// Close はストアの接続を閉じます。
	Close() error
}

// CareEvent は一回の水やり・施肥の操作です。
type CareEvent struct {
	LogID   string           // 追記する養護記録のID
	PlantID string           // 対象の植物
	Action  model.CareAction // 水やり or 施肥
	Date    string           // 植物に書き込む日付
	At      time.Time        // 養護記録の作成日時
}

// Validate は操作のバリデーションを行います。
func (e *CareEvent) Validate() error {
	switch {
	case e.LogID == "":
		return model.NewValidationError("log id is required")
	case e.PlantID == "":
		return model.NewValidationError("plantId is required")
	case e.At.IsZero():
		return model.NewValidationError("timestamp is required")
	}
	if _, err := model.ParseCareAction(string(e.Action)); err != nil {
		return model.NewValidationError(err.Error())
	}
	if _, err := model.ParseDate(e.Date); err != nil {
		return model.NewValidationError("invalid date: use YYYY-MM-DD or RFC3339")
	}
	return nil
}
