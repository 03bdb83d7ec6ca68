package interfaces

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	application "nhatro-cloud/internal/room/application"
	roommemory "nhatro-cloud/internal/room/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newRoomHandler(t *testing.T) *RoomHandler {
	t.Helper()
	svc, err := application.NewRoomService(roommemory.NewRoomRepository(),
		fixedClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler, err := NewRoomHandler(svc, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func createRoom(t *testing.T, handler *RoomHandler, body string) roomJSON {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", bytes.NewBufferString(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create room: got %d: %s", resp.Code, resp.Body.String())
	}
	var out roomJSON
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestRoomHandler_CreateStartsVacant(t *testing.T) {
	handler := newRoomHandler(t)
	rm := createRoom(t, handler, `{"number":"101","price":3000000,"deposit":1000000}`)
	if rm.Status != "AVAILABLE" || rm.Occupied {
		t.Fatalf("new room must be vacant: %+v", rm)
	}
	if rm.Price != 3000000 {
		t.Fatalf("price: got %d", rm.Price)
	}
}

func TestRoomHandler_DuplicateNumber(t *testing.T) {
	handler := newRoomHandler(t)
	createRoom(t, handler, `{"number":"101","price":3000000}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", bytes.NewBufferString(`{"number":"101","price":2500000}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRoomHandler_AssignAndReleaseTenant(t *testing.T) {
	handler := newRoomHandler(t)
	rm := createRoom(t, handler, `{"number":"101","price":3000000}`)

	body := bytes.NewBufferString(`{"tenantId":"tenant-1","moveInDate":"2026-03-05","headcount":2}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rooms/"+rm.ID+"/assign-tenant", body)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("assign: got %d: %s", resp.Code, resp.Body.String())
	}
	var assigned roomJSON
	if err := json.NewDecoder(resp.Body).Decode(&assigned); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if assigned.Status != "FULL" || !assigned.Occupied || assigned.TenantID != "tenant-1" || assigned.CurrentTenants != 2 {
		t.Fatalf("unexpected room after assign: %+v", assigned)
	}

	body = bytes.NewBufferString(`{"moveOutDate":"2026-06-30"}`)
	req = httptest.NewRequest(http.MethodPut, "/api/v1/rooms/"+rm.ID+"/release-tenant", body)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("release: got %d: %s", resp.Code, resp.Body.String())
	}
	var released roomJSON
	if err := json.NewDecoder(resp.Body).Decode(&released); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if released.Status != "AVAILABLE" || released.Occupied || released.TenantID != "" {
		t.Fatalf("unexpected room after release: %+v", released)
	}
}

func TestRoomHandler_AssignRequiresTenant(t *testing.T) {
	handler := newRoomHandler(t)
	rm := createRoom(t, handler, `{"number":"101","price":3000000}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/rooms/"+rm.ID+"/assign-tenant", bytes.NewBufferString(`{}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("got %d", resp.Code)
	}
}

func TestRoomHandler_RemoveThenNotFound(t *testing.T) {
	handler := newRoomHandler(t)
	rm := createRoom(t, handler, `{"number":"101","price":3000000}`)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/rooms/"+rm.ID, nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("remove: got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/rooms/"+rm.ID, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("get removed: got %d", resp.Code)
	}
}

func TestRoomHandler_RejectsNegativePrice(t *testing.T) {
	handler := newRoomHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", bytes.NewBufferString(`{"number":"101","price":-1}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("got %d", resp.Code)
	}
}
