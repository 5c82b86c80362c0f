package middleware

import "net/http"

// corsAllowMethods / corsAllowHeaders はプリフライトで許可するメソッドとヘッダー。
const (
	corsAllowMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, " + csrfHeaderName
	// corsExposeHeaders はダウンロード名とレート制限の待ち時間をフロントエンドから読めるようにする
	corsExposeHeaders = "Content-Disposition, Retry-After"
)

// NewCORSMiddleware はポータルのフロントエンド（allowedOrigin）からのみ
// クロスオリジンアクセスを許可するミドルウェアを返す。
// Originが一致しないリクエストにはCORSヘッダーを付けず、ブラウザ側で遮断させる。
// Originのない同一オリジンやCLIからのリクエストはそのまま通す。
func NewCORSMiddleware(allowedOrigin string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			origin := r.Header.Get("Origin")
			allowed := origin != "" && origin == allowedOrigin
			if allowed {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed {
					h.Set("Access-Control-Allow-Methods", corsAllowMethods)
					h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
					h.Set("Access-Control-Max-Age", "86400")
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
