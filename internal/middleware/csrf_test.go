package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		cookie     string
		header     string
		session    string
		bearer     string
		wantStatus int
	}{
		{name: "GETはトークン不要", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "HEADはトークン不要", method: http.MethodHead, wantStatus: http.StatusOK},
		{name: "OPTIONSはトークン不要", method: http.MethodOptions, wantStatus: http.StatusOK},
		{name: "POSTでCookieなし", method: http.MethodPost, header: "tok", wantStatus: http.StatusForbidden},
		{name: "POSTでヘッダーなし", method: http.MethodPost, cookie: "tok", wantStatus: http.StatusForbidden},
		{name: "POSTでトークン不一致", method: http.MethodPost, cookie: "tok", header: "other", wantStatus: http.StatusForbidden},
		{name: "POSTで一致", method: http.MethodPost, cookie: "tok", header: "tok", wantStatus: http.StatusOK},
		{name: "PATCHで一致", method: http.MethodPatch, cookie: "tok", header: "tok", wantStatus: http.StatusOK},
		{name: "DELETEでトークンなし", method: http.MethodDelete, wantStatus: http.StatusForbidden},
		{name: "Bearerのみは検証しない", method: http.MethodPost, bearer: "jwt", wantStatus: http.StatusOK},
		{name: "セッションCookieがあればBearerでも検証する", method: http.MethodPost, bearer: "jwt", session: "sess", wantStatus: http.StatusForbidden},
	}

	handler := NewCSRFMiddleware(CSRFConfig{})(okHandler())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/test", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeaderName, tt.header)
			}
			if tt.session != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.session})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusForbidden {
				if body := decodeErrorBody(t, w); body.Code != "CSRF_INVALID" {
					t.Errorf("code = %q, want CSRF_INVALID", body.Code)
				}
			}
		})
	}
}

func TestCSRFMiddleware_GETRequest_SetsCSRFCookie(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{CookieDomain: "example.com"})(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	c := findCookie(w.Result(), csrfCookieName)
	if c == nil {
		t.Fatal("expected CSRF cookie to be set on GET request")
	}
	if c.Value == "" {
		t.Error("CSRF cookie value should not be empty")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want %v", c.SameSite, http.SameSiteLaxMode)
	}
	if c.HttpOnly {
		t.Error("CSRF cookie should NOT be HttpOnly (frontend needs to read it)")
	}
	if c.Path != "/" {
		t.Errorf("Path = %q, want %q", c.Path, "/")
	}
}

func TestCSRFMiddleware_GETRequest_ExistingCookie_DoesNotReplace(t *testing.T) {
	handler := NewCSRFMiddleware(CSRFConfig{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing-token"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if findCookie(w.Result(), csrfCookieName) != nil {
		t.Error("CSRF cookie should not be re-set when already present")
	}
}

func TestCSRFTokenHandler(t *testing.T) {
	handler := NewCSRFTokenHandler(CSRFConfig{CookieSecure: true})

	t.Run("新規発行", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))

		var body struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		c := findCookie(w.Result(), csrfCookieName)
		if c == nil || c.Value != body.Token || body.Token == "" {
			t.Errorf("cookie %+v does not match token %q", c, body.Token)
		}
		if !c.Secure {
			t.Error("cookie should be Secure")
		}
		if len(body.Token) != 64 {
			t.Errorf("token length = %d, want 64", len(body.Token))
		}
	})

	t.Run("既存トークンを返す", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "existing-token"})
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		var body map[string]string
		json.NewDecoder(w.Result().Body).Decode(&body)
		if body["token"] != "existing-token" {
			t.Errorf("token = %q, want existing-token", body["token"])
		}
	})
}
