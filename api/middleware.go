package api

import (
	"crypto/subtle"
	"net/http"
)

// authMiddleware はAPIリクエストの認証を行うミドルウェアです。
// サーバー側でAPIキーが設定されていない場合は認証を行いません。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config == nil || s.config.APIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		// ヘッダーからAPIキーを取得
		apiKey := r.Header.Get("X-API-Key")

		// APIキーが一致するか確認
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.config.APIKey)) != 1 {
			writeJSONError(w, "Unauthorized: Invalid API key", http.StatusUnauthorized)
			return
		}

		// 認証成功：次のハンドラーを呼び出し
		next.ServeHTTP(w, r)
	})
}
