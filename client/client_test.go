package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stsysd/plantcare/api"
	"github.com/stsysd/plantcare/config"
	"github.com/stsysd/plantcare/db"
	"github.com/stsysd/plantcare/model"
	"github.com/stsysd/plantcare/store"
)

const testAPIKey = "client-test-key"

var testNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

// setupServer starts an API server backed by a fresh SQLite database.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	return setupServerWith(t, nil)
}

// setupServerWith is setupServer with the handler wrapped by wrap.
func setupServerWith(t *testing.T, wrap func(http.Handler) http.Handler) *httptest.Server {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "plantcare.db"), "", db.Migrate)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	srv := api.NewServer(st, &config.Config{APIKey: testAPIKey})
	var handler http.Handler = srv
	if wrap != nil {
		handler = wrap(srv)
	}
	ts := httptest.NewServer(handler)

	t.Cleanup(func() {
		ts.Close()
		srv.Close()
		st.Close()
	})
	return ts
}

func newTestSynchronizer(t *testing.T) (*Synchronizer, *Client) {
	t.Helper()
	ts := setupServer(t)
	c := New(ts.URL, testAPIKey)
	s := NewSynchronizer(c)
	s.now = func() time.Time { return testNow }
	return s, c
}

func TestLoadMarksReady(t *testing.T) {
	s, _ := newTestSynchronizer(t)
	ctx := context.Background()

	if s.Ready() {
		t.Fatal("Expected synchronizer not to be ready before Load")
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !s.Ready() {
		t.Error("Expected synchronizer to be ready after Load")
	}
	if len(s.Plants()) != 0 || len(s.Fertilizers()) != 0 || len(s.Logs()) != 0 {
		t.Error("Expected empty collections")
	}
}

func TestLoadPartialFailure(t *testing.T) {
	// 養護記録の取得だけが失敗するサーバー
	ts := setupServerWith(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/logs" {
				http.Error(w, `{"error":"Failed to list care logs"}`, http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	ctx := context.Background()

	writer := NewSynchronizer(New(ts.URL, testAPIKey))
	if _, err := writer.AddPlant(ctx, "Aloe", model.PlantTypeSummer, 7, 30); err != nil {
		t.Fatalf("AddPlant failed: %v", err)
	}
	if _, err := writer.AddFertilizer(ctx, "Hyponex", model.FertilizerTypeGeneral); err != nil {
		t.Fatalf("AddFertilizer failed: %v", err)
	}

	s := NewSynchronizer(New(ts.URL, testAPIKey))
	err := s.Load(ctx)
	if !IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("Expected 500 APIError, got %v", err)
	}
	if !s.Ready() {
		t.Error("Expected synchronizer to be ready after every fetch finished")
	}
	if len(s.Plants()) != 1 || len(s.Fertilizers()) != 1 {
		t.Errorf("Expected loaded collections to be kept, got %d plants and %d fertilizers",
			len(s.Plants()), len(s.Fertilizers()))
	}
	if logs := s.Logs(); len(logs) != 0 {
		t.Errorf("Expected empty logs, got %v", logs)
	}
}

func TestLoadUnauthorized(t *testing.T) {
	ts := setupServer(t)
	s := NewSynchronizer(New(ts.URL, "wrong-key"))

	err := s.Load(context.Background())
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("Expected 401 APIError, got %v", err)
	}
	if !s.Ready() {
		t.Error("Expected synchronizer to be ready even when every fetch failed")
	}
	if len(s.Plants()) != 0 {
		t.Error("Expected no plants")
	}
}

func TestAddPlantSeedsToday(t *testing.T) {
	s, _ := newTestSynchronizer(t)
	ctx := context.Background()

	plant, err := s.AddPlant(ctx, "Aloe", model.PlantTypeSummer, 7, 30)
	if err != nil {
		t.Fatalf("AddPlant failed: %v", err)
	}
	if plant.LastWatered != "2025-06-15" || plant.LastFertilized != "2025-06-15" {
		t.Errorf("Expected today's date in last-care fields, got %+v", plant)
	}

	plants := s.Plants()
	if len(plants) != 1 || plants[0].ID != plant.ID {
		t.Fatalf("Expected plant to be refetched, got %+v", plants)
	}
}

func TestAddPlantValidationSkipsServer(t *testing.T) {
	s, _ := newTestSynchronizer(t)

	_, err := s.AddPlant(context.Background(), "Aloe", model.PlantTypeSummer, 0, 30)
	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestWaterUpdatesPlantAndLogs(t *testing.T) {
	s, _ := newTestSynchronizer(t)
	ctx := context.Background()

	plant, err := s.AddPlant(ctx, "Aloe", model.PlantTypeSummer, 7, 30)
	if err != nil {
		t.Fatalf("AddPlant failed: %v", err)
	}

	if _, err := s.Water(ctx, plant.ID, "2025-06-20"); err != nil {
		t.Fatalf("Water failed: %v", err)
	}
	if _, err := s.Fertilize(ctx, plant.ID, ""); err != nil {
		t.Fatalf("Fertilize failed: %v", err)
	}

	got, ok := s.Plant(plant.ID)
	if !ok {
		t.Fatal("Plant missing after refetch")
	}
	if got.LastWatered != "2025-06-20" {
		t.Errorf("Expected lastWatered 2025-06-20, got %s", got.LastWatered)
	}
	logs := s.Logs()
	if len(logs) != 2 {
		t.Fatalf("Expected 2 logs, got %d", len(logs))
	}
	for _, l := range logs {
		if l.PlantName != "Aloe" {
			t.Errorf("Expected plant name snapshot, got %s", l.PlantName)
		}
	}
}

func TestWaterUnknownPlant(t *testing.T) {
	s, _ := newTestSynchronizer(t)

	_, err := s.Water(context.Background(), "missing", "")
	if !IsStatus(err, http.StatusNotFound) {
		t.Errorf("Expected 404, got %v", err)
	}
	if len(s.Logs()) != 0 {
		t.Error("Expected no logs")
	}
}

func TestDeletePlantKeepsLogs(t *testing.T) {
	s, _ := newTestSynchronizer(t)
	ctx := context.Background()

	plant, _ := s.AddPlant(ctx, "Aloe", model.PlantTypeSummer, 7, 30)
	if _, err := s.Water(ctx, plant.ID, ""); err != nil {
		t.Fatalf("Water failed: %v", err)
	}
	if err := s.DeletePlant(ctx, plant.ID); err != nil {
		t.Fatalf("DeletePlant failed: %v", err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(s.Plants()) != 0 {
		t.Error("Expected plant to be deleted")
	}
	if logs := s.Logs(); len(logs) != 1 || logs[0].PlantName != "Aloe" {
		t.Errorf("Expected log to survive deletion, got %+v", logs)
	}
}

func TestFertilizers(t *testing.T) {
	s, _ := newTestSynchronizer(t)
	ctx := context.Background()

	f, err := s.AddFertilizer(ctx, "Hyponex", model.FertilizerTypeFlowering)
	if err != nil {
		t.Fatalf("AddFertilizer failed: %v", err)
	}
	if len(s.Fertilizers()) != 1 {
		t.Fatalf("Expected 1 fertilizer")
	}
	if err := s.DeleteFertilizer(ctx, f.ID); err != nil {
		t.Fatalf("DeleteFertilizer failed: %v", err)
	}
	if len(s.Fertilizers()) != 0 {
		t.Error("Expected fertilizer to be deleted")
	}
}

// seedBackup uses legacy labels, RFC3339 dates and distinct care dates so
// that every field has a value worth comparing.
const seedBackup = `{"exportDate":"2024-12-01","version":"2.0","data":{"plants":[
	{"id":"p1","name":"Lithops","type":"冬型种","waterCycle":14,"fertilizerCycle":60,
	 "lastWatered":"2024-11-20T07:30:00Z","lastFertilized":"2024-10-01","status":"dormant","createdAt":"2024-03-01T12:00:00Z"},
	{"id":"p2","name":"Echeveria","type":"中间型","waterCycle":5,"fertilizerCycle":21,
	 "lastWatered":"2024-11-28","lastFertilized":"2024-11-15T18:45:00Z","status":"flowering","createdAt":"2024-05-10"}
],"fertilizers":[
	{"id":"f1","name":"Hyponex","type":"促花","createdAt":"2024-04-01T09:00:00Z"},
	{"id":"f2","name":"Magamp","type":"general","createdAt":"2024-02-02"}
]}}`

func byID[T any](items []T, id func(T) string) []T {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b T) int { return strings.Compare(id(a), id(b)) })
	return sorted
}

func plantID(p *model.Plant) string           { return p.ID }
func fertilizerID(f *model.Fertilizer) string { return f.ID }

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTestSynchronizer(t)
	ctx := context.Background()

	if _, err := src.Import(ctx, strings.NewReader(seedBackup), model.ConflictSkip); err != nil {
		t.Fatalf("Seed import failed: %v", err)
	}
	if _, err := src.AddPlant(ctx, "Aloe", model.PlantTypeSummer, 7, 30); err != nil {
		t.Fatalf("AddPlant failed: %v", err)
	}
	if _, err := src.AddFertilizer(ctx, "Osmocote", model.FertilizerTypeGrowth); err != nil {
		t.Fatalf("AddFertilizer failed: %v", err)
	}

	var buf bytes.Buffer
	backup, err := src.Export(&buf, testNow)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if backup.Version != model.BackupVersion || backup.ExportDate != "2025-06-15" {
		t.Errorf("Unexpected backup header: %+v", backup)
	}
	if !strings.Contains(buf.String(), "\n  \"data\"") {
		t.Errorf("Expected indented JSON, got:\n%s", buf.String())
	}
	data := buf.Bytes()

	dst, _ := newTestSynchronizer(t)
	result, err := dst.Import(ctx, bytes.NewReader(data), model.ConflictSkip)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.PlantsImported != 3 || result.FertilizersImported != 3 {
		t.Errorf("Unexpected result: %+v", result)
	}

	wantPlants, gotPlants := byID(src.Plants(), plantID), byID(dst.Plants(), plantID)
	if !reflect.DeepEqual(wantPlants, gotPlants) {
		t.Errorf("Plants changed in round trip:\nwant %s\ngot  %s", dump(t, wantPlants), dump(t, gotPlants))
	}
	wantFerts, gotFerts := byID(src.Fertilizers(), fertilizerID), byID(dst.Fertilizers(), fertilizerID)
	if !reflect.DeepEqual(wantFerts, gotFerts) {
		t.Errorf("Fertilizers changed in round trip:\nwant %s\ngot  %s", dump(t, wantFerts), dump(t, gotFerts))
	}
	if p, _ := dst.Plant("p1"); p == nil || p.Type != model.PlantTypeWinter || p.LastWatered != "2024-11-20T07:30:00Z" {
		t.Errorf("Expected normalised legacy plant with its original dates, got %+v", p)
	}

	// 同じバックアップを再度取り込んでも重複しない
	result, err = dst.Import(ctx, bytes.NewReader(data), model.ConflictSkip)
	if err != nil {
		t.Fatalf("Second import failed: %v", err)
	}
	if result.PlantsSkipped != 3 || len(dst.Plants()) != 3 {
		t.Errorf("Expected duplicates to be skipped, got %+v", result)
	}

	_, err = dst.Import(ctx, bytes.NewReader(data), model.ConflictReject)
	if !IsStatus(err, http.StatusConflict) {
		t.Errorf("Expected 409 with reject policy, got %v", err)
	}
}

func dump(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	return string(data)
}

func TestImportRejectsMalformedBackup(t *testing.T) {
	s, _ := newTestSynchronizer(t)

	tests := []string{
		`not json`,
		`{"version":"2.0","data":{"fertilizers":[]}}`,
		`{"data":{"plants":[{"id":"p1"}]}}`,
	}
	for _, doc := range tests {
		_, err := s.Import(context.Background(), strings.NewReader(doc), model.ConflictSkip)
		if !errors.Is(err, ErrInvalidBackup) {
			t.Errorf("%s: expected ErrInvalidBackup, got %v", doc, err)
		}
	}
}

func TestImportLegacyLabels(t *testing.T) {
	s, _ := newTestSynchronizer(t)

	doc := `{"exportDate":"2024-01-01","version":"2.0","data":{"plants":[{
		"id":"p1","name":"Lithops","type":"冬型种","waterCycle":14,"fertilizerCycle":60,
		"lastWatered":"2024-01-01","lastFertilized":"2024-01-01","status":"growing","createdAt":"2023-12-01"
	}],"fertilizers":[{"id":"f1","name":"Old","type":"促花","createdAt":"2023-12-01"}]}}`

	if _, err := s.Import(context.Background(), strings.NewReader(doc), ""); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if p := s.Plants()[0]; p.Type != model.PlantTypeWinter {
		t.Errorf("Expected %s, got %s", model.PlantTypeWinter, p.Type)
	}
	if f := s.Fertilizers()[0]; f.Type != model.FertilizerTypeFlowering {
		t.Errorf("Expected %s, got %s", model.FertilizerTypeFlowering, f.Type)
	}
}

func TestDue(t *testing.T) {
	s, c := newTestSynchronizer(t)
	ctx := context.Background()

	plant, _ := s.AddPlant(ctx, "Aloe", model.PlantTypeSummer, 3, 30)

	report, skipped := s.Due(testNow.AddDate(0, 0, 5))
	if len(skipped) != 0 {
		t.Fatalf("Unexpected skipped plants: %v", skipped)
	}
	if len(report.Todo.Water) != 1 || report.Todo.Water[0].PlantID != plant.ID {
		t.Errorf("Expected plant to need water, got %+v", report.Todo.Water)
	}

	// サーバー側の評価も取得できる
	remote, err := c.Due(ctx)
	if err != nil {
		t.Fatalf("Due failed: %v", err)
	}
	if len(remote.Plants) != 1 {
		t.Errorf("Expected 1 evaluated plant, got %d", len(remote.Plants))
	}
}

func TestWatchRefetchesOnChange(t *testing.T) {
	ts := setupServer(t)
	watcher := NewSynchronizer(New(ts.URL, testAPIKey))
	writer := NewSynchronizer(New(ts.URL, testAPIKey))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := watcher.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	watchCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- watcher.Watch(watchCtx) }()

	// 購読が始まるまで書き込みを繰り返す
	deadline := time.Now().Add(5 * time.Second)
	for len(watcher.Plants()) == 0 && time.Now().Before(deadline) {
		if _, err := writer.AddPlant(ctx, "Aloe", model.PlantTypeSummer, 7, 30); err != nil {
			t.Fatalf("AddPlant failed: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	if len(watcher.Plants()) == 0 {
		t.Fatal("Expected watcher to pick up the new plant")
	}

	stop()
	if err := <-done; err != nil {
		t.Errorf("Expected Watch to return nil on cancel, got %v", err)
	}
}
