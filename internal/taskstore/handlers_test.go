package taskstore

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, Handlers{Repo: NewMemoryRepo()})
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doJSON(newTestRouter(), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCreate_DefaultStatus(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/tasks", `{"title":"buy milk","user_id":7}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"new"`) {
		t.Fatalf("expected default status, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"user_id":7`) {
		t.Fatalf("expected user binding, got %s", w.Body.String())
	}
}

func TestCreate_TitleRequired(t *testing.T) {
	w := doJSON(newTestRouter(), http.MethodPost, "/tasks", `{"description":"no title"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestList_StatusFilter(t *testing.T) {
	r := newTestRouter()
	doJSON(r, http.MethodPost, "/tasks", `{"title":"a"}`)
	doJSON(r, http.MethodPost, "/tasks", `{"title":"b","status":"done"}`)

	w := doJSON(r, http.MethodGet, "/tasks?status=done", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, `"title":"a"`) || !strings.Contains(body, `"title":"b"`) {
		t.Fatalf("filter not applied: %s", body)
	}
}

func TestUpdate(t *testing.T) {
	r := newTestRouter()
	doJSON(r, http.MethodPost, "/tasks", `{"title":"a"}`)

	w := doJSON(r, http.MethodPut, "/tasks", `{"id":1,"title":"a","status":"done"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"done"`) {
		t.Fatalf("update not applied: %s", w.Body.String())
	}
}

func TestUpdate_MissingTask(t *testing.T) {
	w := doJSON(newTestRouter(), http.MethodPut, "/tasks", `{"id":42,"title":"x"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestDelete(t *testing.T) {
	r := newTestRouter()
	doJSON(r, http.MethodPost, "/tasks", `{"title":"a"}`)

	w := doJSON(r, http.MethodDelete, "/tasks/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/tasks", "")
	if !strings.Contains(w.Body.String(), `"tasks":[]`) {
		t.Fatalf("expected empty list, got %s", w.Body.String())
	}
}

func TestDelete_InvalidID(t *testing.T) {
	w := doJSON(newTestRouter(), http.MethodDelete, "/tasks/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}
