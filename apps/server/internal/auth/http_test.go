package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newAuthMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHTTPHandler(NewMemoryManager()).RegisterRoutes(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body, token string) (*httptest.ResponseRecorder, sessionReply) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var out sessionReply
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return rr, out
}

func TestHTTPRegisterLoginMe(t *testing.T) {
	mux := newAuthMux(t)

	rr, registered := doJSON(t, mux, http.MethodPost, "/api/auth/register",
		`{"username":"erin","password":"sesame7"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("register status = %d: %s", rr.Code, rr.Body)
	}
	if registered.PlayerID == 0 || registered.SessionToken == "" {
		t.Fatalf("register reply = %+v", registered)
	}

	rr, me := doJSON(t, mux, http.MethodGet, "/api/auth/me", "", registered.SessionToken)
	if rr.Code != http.StatusOK {
		t.Fatalf("me status = %d: %s", rr.Code, rr.Body)
	}
	if me.PlayerID != registered.PlayerID || me.Username != "erin" {
		t.Fatalf("me reply = %+v", me)
	}

	rr, login := doJSON(t, mux, http.MethodPost, "/api/auth/login",
		`{"username":"erin","password":"sesame7"}`, "")
	if rr.Code != http.StatusOK || login.SessionToken == "" {
		t.Fatalf("login status = %d reply = %+v", rr.Code, login)
	}
}

func TestHTTPRejections(t *testing.T) {
	mux := newAuthMux(t)
	doJSON(t, mux, http.MethodPost, "/api/auth/register",
		`{"username":"frank","password":"sesame7"}`, "")

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"register GET", http.MethodGet, "/api/auth/register", "", "", http.StatusMethodNotAllowed},
		{"register bad body", http.MethodPost, "/api/auth/register", `{"user`, "", http.StatusBadRequest},
		{"register short password", http.MethodPost, "/api/auth/register", `{"username":"gina","password":"x"}`, "", http.StatusBadRequest},
		{"register taken", http.MethodPost, "/api/auth/register", `{"username":"frank","password":"sesame7"}`, "", http.StatusConflict},
		{"login wrong password", http.MethodPost, "/api/auth/login", `{"username":"frank","password":"wrong66"}`, "", http.StatusUnauthorized},
		{"me without token", http.MethodGet, "/api/auth/me", "", "", http.StatusUnauthorized},
		{"me bad token", http.MethodGet, "/api/auth/me", "", "bogus", http.StatusUnauthorized},
		{"logout without token", http.MethodPost, "/api/auth/logout", "", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		rr, _ := doJSON(t, mux, tc.method, tc.path, tc.body, tc.token)
		if rr.Code != tc.want {
			t.Errorf("%s: status = %d, want %d (%s)", tc.name, rr.Code, tc.want, rr.Body)
		}
	}

	// Login failures must not say which half was wrong.
	rr, _ := doJSON(t, mux, http.MethodPost, "/api/auth/login",
		`{"username":"frank","password":"wrong66"}`, "")
	if !strings.Contains(rr.Body.String(), "invalid username or password") {
		t.Errorf("login error leaks detail: %s", rr.Body)
	}
}

func TestHTTPLogoutDropsSession(t *testing.T) {
	mux := newAuthMux(t)
	_, registered := doJSON(t, mux, http.MethodPost, "/api/auth/register",
		`{"username":"hana","password":"sesame7"}`, "")

	rr, _ := doJSON(t, mux, http.MethodPost, "/api/auth/logout", "", registered.SessionToken)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rr.Code)
	}
	rr, _ = doJSON(t, mux, http.MethodGet, "/api/auth/me", "", registered.SessionToken)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout status = %d", rr.Code)
	}
}
