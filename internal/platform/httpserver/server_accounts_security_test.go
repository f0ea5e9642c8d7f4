package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	accounttransport "astrade/contexts/identity-access/account-service/transport/http"
)

func TestAccountRegisterRequiresIdempotencyKey(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"email":"pilot@astrade.app","provider":"google"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/accounts/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAccountRegisterRejectsInvalidBody(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/accounts/v1/users", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "idem-sec-acc-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAccountRegisterAndFetchFlow(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"email":"flow@astrade.app","provider":"google","cavos_user_id":"cavos-sec-1"}`)
	registerReq := httptest.NewRequest(http.MethodPost, "/api/accounts/v1/users", bytes.NewReader(body))
	registerReq.Header.Set("Content-Type", "application/json")
	registerReq.Header.Set("Idempotency-Key", "idem-sec-acc-2")

	registerRR := httptest.NewRecorder()
	server.mux.ServeHTTP(registerRR, registerReq)
	if registerRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", registerRR.Code, registerRR.Body.String())
	}
	var registered accounttransport.RegisterUserResponse
	if err := json.Unmarshal(registerRR.Body.Bytes(), &registered); err != nil {
		t.Fatalf("decode register response failed: %v", err)
	}
	if registered.Data.UserID == "" || !registered.Data.Created {
		t.Fatalf("expected created account, got %+v", registered)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/accounts/v1/users/"+registered.Data.UserID, nil)
	getReq.Header.Set("Authorization", "Bearer token")

	getRR := httptest.NewRecorder()
	server.mux.ServeHTTP(getRR, getReq)
	if getRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", getRR.Code, getRR.Body.String())
	}
	var fetched accounttransport.GetAccountResponse
	if err := json.Unmarshal(getRR.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode get response failed: %v", err)
	}
	if fetched.Data.Email != "flow@astrade.app" {
		t.Fatalf("unexpected account payload %+v", fetched.Data)
	}
}

func TestAccountGetRequiresAuthorization(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/v1/users/user_sec_acc_1", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAccountGetUnknownUser(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/accounts/v1/users/user_sec_acc_ghost", nil)
	req.Header.Set("Authorization", "Bearer token")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
