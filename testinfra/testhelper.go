package testinfra

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// ExecuteRequest serves req with handler and returns status, body and the raw response.
func ExecuteRequest(req *http.Request, handler http.Handler) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode, string(body), resp
}

// SkipWithoutMysql skips database backed tests unless TEST_MYSQL_SERVICE is set.
func SkipWithoutMysql(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_MYSQL_SERVICE") == "" {
		t.Skip("TEST_MYSQL_SERVICE is not set")
	}
}
