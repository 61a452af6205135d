package server_test

import (
	"go/types"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.jpl.nasa.gov/bdube/qcam/server"
)

func encode(hp server.HumanPayload) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	hp.EncodeAndRespond(w, r)
	return w
}

func TestEncodeFloat(t *testing.T) {
	w := encode(server.HumanPayload{T: types.Float64, Float: 3.5})
	if body := strings.TrimSpace(w.Body.String()); body != `{"f64":3.5}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestEncodeInt(t *testing.T) {
	w := encode(server.HumanPayload{T: types.Int, Int: 42})
	if body := strings.TrimSpace(w.Body.String()); body != `{"int":42}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestEncodeString(t *testing.T) {
	w := encode(server.HumanPayload{T: types.String, String: "ok"})
	if body := strings.TrimSpace(w.Body.String()); body != `{"str":"ok"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestEncodeBool(t *testing.T) {
	w := encode(server.HumanPayload{T: types.Bool, Bool: true})
	if body := strings.TrimSpace(w.Body.String()); body != `{"bool":true}` {
		t.Errorf("unexpected body %s", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %s", ct)
	}
}

func TestEncodeUnknownKind(t *testing.T) {
	w := encode(server.HumanPayload{T: types.Complex128})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for unknown payload kind, got %d", w.Code)
	}
}
