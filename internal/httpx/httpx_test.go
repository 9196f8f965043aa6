package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quiz-portal/internal/apperror"
)

type registerBody struct {
	AccountName string `json:"accountName" validate:"required,min=10,max=64,accountname"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestDecodeRejectsShortAccountName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"accountName":"abc"}`))
	var body registerBody
	err := Decode(req, &body)
	if apperror.Status(err) != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
	if !strings.Contains(err.Error(), "at least 10") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestDecodeRejectsCookieUnsafeCharacters(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"accountName":"has spaces; inside"}`))
	var body registerBody
	if err := Decode(req, &body); apperror.Status(err) != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"accountName":`))
	var body registerBody
	err := Decode(req, &body)
	if err == nil || err.Error() != "Invalid request body" {
		t.Fatalf("err = %v", err)
	}
}

func TestWriteErrorShapes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)

	rec := httptest.NewRecorder()
	WriteError(rec, req, apperror.Conflict("Account name already exists"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Account name already exists" {
		t.Fatalf("body = %v", body)
	}

	rec = httptest.NewRecorder()
	WriteError(rec, req, errors.New("dial tcp 10.0.0.4:6379: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Internal server error" {
		t.Fatalf("internal detail leaked: %v", body)
	}
}

func TestWriteMessageMergesData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteMessage(rec, http.StatusCreated, "Created", map[string]interface{}{"groupId": "g1"})
	body := decodeBody(t, rec)
	if body["message"] != "Created" || body["groupId"] != "g1" {
		t.Fatalf("body = %v", body)
	}
}
