// Package api はplantcareのAPIサーバー実装を提供します。
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stsysd/plantcare/care"
	"github.com/stsysd/plantcare/config"
	"github.com/stsysd/plantcare/heatmap"
	"github.com/stsysd/plantcare/model"
	"github.com/stsysd/plantcare/store"
)

// maxBodyBytes はリクエストボディの上限です。バックアップの取り込みもこれに収まる必要があります。
const maxBodyBytes = 10 << 20

// Server はAPIサーバーの構造体です。
type Server struct {
	router *http.ServeMux
	store  store.Store
	config *config.Config
	hub    *Hub
	now    func() time.Time
}

// ErrorResponse はエラーレスポンスの構造体です。
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// MessageResponse は更新系エンドポイントの成功レスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// writeJSONError はJSON形式でエラーレスポンスを返却します。
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := ErrorResponse{
		Error: message,
		Code:  statusCode,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding error response: %v", err)
	}
}

// writeJSON はJSON形式でレスポンスを返却します。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeStoreError はストアのエラーをステータスコードに変換して返却します。
// 想定外のエラーは詳細をログにだけ出力し、クライアントには汎用メッセージを返します。
func writeStoreError(w http.ResponseWriter, err error, action string) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrConflict):
		writeJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrPlantNotFound):
		writeJSONError(w, "Plant not found", http.StatusNotFound)
	default:
		log.Printf("Error trying to %s: %v", action, err)
		writeJSONError(w, "Failed to "+action, http.StatusInternalServerError)
	}
}

// decodeBody はリクエストボディをJSONとしてデコードします。
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// NewServer は新しいAPIサーバーインスタンスを生成します。
func NewServer(store store.Store, config *config.Config) *Server {
	s := &Server{
		router: http.NewServeMux(),
		store:  store,
		config: config,
		hub:    NewHub(),
		now:    time.Now,
	}
	s.routes()
	return s
}

// routes はAPIエンドポイントのルーティングを設定します。
func (s *Server) routes() {
	// ヘルスチェックエンドポイントは認証不要
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)

	// すべての保護されたエンドポイントをまずセキュアなルータに登録
	securedHandler := http.NewServeMux()

	securedHandler.HandleFunc("GET /api/init", s.handleInit)

	// Plant endpoints
	securedHandler.HandleFunc("GET /api/plants", s.handleListPlants)
	securedHandler.HandleFunc("POST /api/plants", s.handleCreatePlant)
	securedHandler.HandleFunc("PUT /api/plants", s.handleUpdatePlant)
	securedHandler.HandleFunc("DELETE /api/plants", s.handleDeletePlant)

	// Fertilizer endpoints
	securedHandler.HandleFunc("GET /api/fertilizers", s.handleListFertilizers)
	securedHandler.HandleFunc("POST /api/fertilizers", s.handleCreateFertilizer)
	securedHandler.HandleFunc("DELETE /api/fertilizers", s.handleDeleteFertilizer)

	// Care log endpoints
	securedHandler.HandleFunc("GET /api/logs", s.handleListCareLogs)
	securedHandler.HandleFunc("POST /api/logs", s.handleCreateCareLog)
	securedHandler.HandleFunc("POST /api/care", s.handleRecordCare)

	securedHandler.HandleFunc("POST /api/import", s.handleImport)
	securedHandler.HandleFunc("GET /api/due", s.handleDue)
	securedHandler.Handle("GET /api/events", s.hub)

	// 認証ミドルウェアを適用し、メインルータにマウント
	s.router.Handle("/api/", s.authMiddleware(securedHandler))

	// Graph endpoints - support both with and without .svg extension
	s.router.HandleFunc("GET /logs/graph.svg", s.handleGetGraph)
	s.router.HandleFunc("GET /logs/graph", s.handleGetGraph)
}

// ServeHTTP はServer構造体をhttp.Handlerとして実装します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// routesに設定されたルーティングを使用する
	s.router.ServeHTTP(w, r)
}

// Hub は変更イベントのHubを返します。
func (s *Server) Hub() *Hub {
	return s.hub
}

// Close はイベント配信を停止します。ストアは閉じません。
func (s *Server) Close() {
	s.hub.Close()
}

// handleHealthCheck はヘルスチェックエンドポイントのハンドラーです。
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInit はテーブルを作成するハンドラーです。何度呼び出しても安全です。
func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Init(r.Context()); err != nil {
		writeStoreError(w, err, "initialize database")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Database initialized"})
}

// handleListPlants は植物の一覧を返すハンドラーです。
func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := s.store.ListPlants(r.Context())
	if err != nil {
		writeStoreError(w, err, "list plants")
		return
	}
	writeJSON(w, http.StatusOK, plants)
}

// NewCreatePlantParams creates a plant from the HTTP request body.
func NewCreatePlantParams(w http.ResponseWriter, r *http.Request) (*model.Plant, error) {
	var plant model.Plant
	if err := decodeBody(w, r, &plant); err != nil {
		return nil, err
	}
	if err := plant.Normalize(); err != nil {
		return nil, err
	}
	if err := plant.Validate(); err != nil {
		return nil, err
	}
	return &plant, nil
}

// handleCreatePlant は植物を作成するハンドラーです。
func (s *Server) handleCreatePlant(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	plant, err := NewCreatePlantParams(w, r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.CreatePlant(r.Context(), plant); err != nil {
		writeStoreError(w, err, "create plant")
		return
	}

	s.hub.Publish(model.CollectionPlants)
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Plant created"})
}

// NewUpdatePlantParams creates a partial care-date update from the HTTP request body.
func NewUpdatePlantParams(w http.ResponseWriter, r *http.Request) (*model.PlantCareUpdate, error) {
	var requestBody struct {
		ID             string  `json:"id"`
		LastWatered    *string `json:"lastWatered"`
		LastFertilized *string `json:"lastFertilized"`
	}
	if err := decodeBody(w, r, &requestBody); err != nil {
		return nil, err
	}

	update := &model.PlantCareUpdate{
		ID:             strings.TrimSpace(requestBody.ID),
		LastWatered:    omitEmpty(requestBody.LastWatered),
		LastFertilized: omitEmpty(requestBody.LastFertilized),
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return update, nil
}

// omitEmpty は空文字列を未指定として扱います。
func omitEmpty(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

// handleUpdatePlant は最終水やり日・最終施肥日を更新するハンドラーです。
func (s *Server) handleUpdatePlant(w http.ResponseWriter, r *http.Request) {
	update, err := NewUpdatePlantParams(w, r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.UpdatePlantCare(r.Context(), update); err != nil {
		writeStoreError(w, err, "update plant")
		return
	}

	s.hub.Publish(model.CollectionPlants)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Plant updated"})
}

// NewDeleteParams reads the required id query parameter.
func NewDeleteParams(r *http.Request) (*model.ID, error) {
	return model.NewID(r.URL.Query().Get("id"))
}

// handleDeletePlant は植物を削除するハンドラーです。存在しないIDでも成功します。
func (s *Server) handleDeletePlant(w http.ResponseWriter, r *http.Request) {
	id, err := NewDeleteParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.DeletePlant(r.Context(), id.String()); err != nil {
		writeStoreError(w, err, "delete plant")
		return
	}

	s.hub.Publish(model.CollectionPlants)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Plant deleted"})
}

// handleListFertilizers は肥料の一覧を返すハンドラーです。
func (s *Server) handleListFertilizers(w http.ResponseWriter, r *http.Request) {
	fertilizers, err := s.store.ListFertilizers(r.Context())
	if err != nil {
		writeStoreError(w, err, "list fertilizers")
		return
	}
	writeJSON(w, http.StatusOK, fertilizers)
}

// handleCreateFertilizer は肥料を作成するハンドラーです。
func (s *Server) handleCreateFertilizer(w http.ResponseWriter, r *http.Request) {
	var fertilizer model.Fertilizer
	if err := decodeBody(w, r, &fertilizer); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.CreateFertilizer(r.Context(), &fertilizer); err != nil {
		writeStoreError(w, err, "create fertilizer")
		return
	}

	s.hub.Publish(model.CollectionFertilizers)
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Fertilizer created"})
}

// handleDeleteFertilizer は肥料を削除するハンドラーです。
func (s *Server) handleDeleteFertilizer(w http.ResponseWriter, r *http.Request) {
	id, err := NewDeleteParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteFertilizer(r.Context(), id.String()); err != nil {
		writeStoreError(w, err, "delete fertilizer")
		return
	}

	s.hub.Publish(model.CollectionFertilizers)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Fertilizer deleted"})
}

// NewListCareLogsParams reads the optional limit query parameter.
func NewListCareLogsParams(r *http.Request) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return model.CareLogLimit, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return min(limit, model.CareLogLimit), nil
}

// handleListCareLogs は新しい順に最大50件の養護記録を返すハンドラーです。
func (s *Server) handleListCareLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := NewListCareLogsParams(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logs, err := s.store.ListCareLogs(r.Context(), limit)
	if err != nil {
		writeStoreError(w, err, "list care logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// handleCreateCareLog は養護記録を追記するハンドラーです。
func (s *Server) handleCreateCareLog(w http.ResponseWriter, r *http.Request) {
	var careLog model.CareLog
	if err := decodeBody(w, r, &careLog); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.CreateCareLog(r.Context(), &careLog); err != nil {
		writeStoreError(w, err, "create care log")
		return
	}

	s.hub.Publish(model.CollectionLogs)
	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Care log created"})
}

// NewRecordCareParams creates a care event from the HTTP request body.
// date defaults to today's UTC date.
func NewRecordCareParams(w http.ResponseWriter, r *http.Request, now time.Time) (*store.CareEvent, error) {
	var requestBody struct {
		PlantID string `json:"plantId"`
		Action  string `json:"action"`
		Date    string `json:"date"`
	}
	if err := decodeBody(w, r, &requestBody); err != nil {
		return nil, err
	}

	action, err := model.ParseCareAction(requestBody.Action)
	if err != nil {
		return nil, err
	}

	date := requestBody.Date
	if date == "" {
		date = model.FormatDate(now)
	}

	event := &store.CareEvent{
		LogID:   uuid.NewString(),
		PlantID: strings.TrimSpace(requestBody.PlantID),
		Action:  action,
		Date:    date,
		At:      now,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

// handleRecordCare は水やり・施肥を記録するハンドラーです。
// 植物の日付更新と養護記録の追記は一つのトランザクションで行われます。
func (s *Server) handleRecordCare(w http.ResponseWriter, r *http.Request) {
	event, err := NewRecordCareParams(w, r, s.now())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	careLog, err := s.store.RecordCare(r.Context(), event)
	if err != nil {
		writeStoreError(w, err, "record care")
		return
	}

	s.hub.Publish(model.CollectionPlants, model.CollectionLogs)
	writeJSON(w, http.StatusCreated, careLog)
}

// NewImportParams decodes a backup document and the conflict policy.
func NewImportParams(w http.ResponseWriter, r *http.Request) (*model.Backup, model.ConflictPolicy, error) {
	policy, err := model.NewConflictPolicy(r.URL.Query().Get("policy"))
	if err != nil {
		return nil, "", err
	}

	var backup model.Backup
	if err := decodeBody(w, r, &backup); err != nil {
		return nil, "", err
	}
	if err := backup.Validate(); err != nil {
		return nil, "", err
	}
	return &backup, policy, nil
}

// handleImport はバックアップを一括で取り込むハンドラーです。
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	backup, policy, err := NewImportParams(w, r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.store.ImportBackup(r.Context(), backup, policy)
	if err != nil {
		writeStoreError(w, err, "import backup")
		return
	}

	log.Printf("Imported backup (policy=%s): %d plants, %d fertilizers",
		result.Policy, result.PlantsImported, result.FertilizersImported)
	s.hub.Publish(model.CollectionPlants, model.CollectionFertilizers)
	writeJSON(w, http.StatusOK, result)
}

// handleDue はすべての植物の養護状態と今日のやることリストを返すハンドラーです。
func (s *Server) handleDue(w http.ResponseWriter, r *http.Request) {
	plants, err := s.store.ListPlants(r.Context())
	if err != nil {
		writeStoreError(w, err, "list plants")
		return
	}

	report, skipped := care.BuildReport(plants, s.now())
	for _, err := range skipped {
		log.Printf("Skipping plant in due report: %v", err)
	}
	writeJSON(w, http.StatusOK, report)
}

// maxGraphSpanDays is the longest from/to range a graph may cover.
const maxGraphSpanDays = 366

// GetGraphParams represents parameters for getting a graph.
type GetGraphParams struct {
	From time.Time
	To   time.Time
}

// NewGetGraphParams creates parameters for graph generation from HTTP request.
// from and to default to the year ending today.
func NewGetGraphParams(r *http.Request, now time.Time) (*GetGraphParams, error) {
	query := r.URL.Query()
	from, to := heatmap.LastYear(now)

	if v := query.Get("from"); v != "" {
		t, err := model.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		from = t
	}
	if v := query.Get("to"); v != "" {
		t, err := model.ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
		to = t
	}
	if to.Before(from) {
		return nil, fmt.Errorf("from must not be after to")
	}
	if to.Sub(from) > maxGraphSpanDays*24*time.Hour {
		return nil, fmt.Errorf("range must not exceed %d days", maxGraphSpanDays)
	}

	return &GetGraphParams{From: from, To: to}, nil
}

// handleGetGraph は養護記録のヒートマップを生成・返却するハンドラーです。
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewGetGraphParams(r, s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// to の日を含めるため翌日までを取得する
	timestamps, err := s.store.ListCareLogTimestamps(r.Context(), params.From, params.To.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("Error retrieving care logs: %v", err)
		http.Error(w, "Failed to retrieve care logs", http.StatusInternalServerError)
		return
	}

	data := heatmap.Aggregate(timestamps, params.From, params.To)

	opts := heatmap.DefaultOptions()
	opts.Title = "Care activity"
	opts.From = params.From
	opts.To = params.To
	svg := heatmap.GenerateYearlyHeatmapSVG(data, opts)

	// レスポンスの返却
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(svg))
}

// Run はサーバーを指定されたアドレスで起動します。
// ctx がキャンセルされるとWebSocket接続を閉じてからサーバーを停止します。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Server shutting down")
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
