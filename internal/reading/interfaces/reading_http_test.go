package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	application "nhatro-cloud/internal/reading/application"
	readingmemory "nhatro-cloud/internal/reading/infrastructure/memory"
	room "nhatro-cloud/internal/room/domain"
	roommemory "nhatro-cloud/internal/room/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newHandler(t *testing.T) *ReadingHandler {
	t.Helper()
	rooms := roommemory.NewRoomRepository()
	err := rooms.Create(context.Background(), &room.Room{
		ID:       "room-1",
		Number:   "101",
		Status:   room.StatusFull,
		TenantID: "tenant-1",
		Price:    3000000,
	})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	svc, err := application.NewReadingService(readingmemory.NewReadingRepository(), rooms,
		fixedClock{now: time.Date(2026, time.March, 31, 18, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler, err := NewReadingHandler(svc, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func postReading(t *testing.T, handler *ReadingHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/readings", bytes.NewBufferString(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestReadingHandler_RecordWithRoomID(t *testing.T) {
	handler := newHandler(t)
	resp := postReading(t, handler, `{"room":"room-1","month":"2026-03","electricityStart":100,"electricityEnd":130,"waterStart":10,"waterEnd":13}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		RoomID   string `json:"roomId"`
		Month    string `json:"month"`
		Complete bool   `json:"complete"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.RoomID != "room-1" || out.Month != "2026-03" || !out.Complete {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestReadingHandler_RecordWithRoomObject(t *testing.T) {
	handler := newHandler(t)
	resp := postReading(t, handler, `{"room":{"id":"room-1"},"month":"2026-03","electricityStart":100,"waterStart":10}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Complete bool `json:"complete"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Complete {
		t.Fatalf("reading with unread ends must not be complete")
	}
}

func TestReadingHandler_RejectsRollback(t *testing.T) {
	handler := newHandler(t)
	resp := postReading(t, handler, `{"room":"room-1","month":"2026-03","electricityStart":130,"electricityEnd":100,"waterStart":10,"waterEnd":13}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestReadingHandler_DuplicateIsConflict(t *testing.T) {
	handler := newHandler(t)
	body := `{"room":"room-1","month":"2026-03","electricityStart":100,"waterStart":10}`
	if resp := postReading(t, handler, body); resp.Code != http.StatusCreated {
		t.Fatalf("first write: got %d", resp.Code)
	}
	if resp := postReading(t, handler, body); resp.Code != http.StatusConflict {
		t.Fatalf("duplicate write: got %d", resp.Code)
	}
}

func TestReadingHandler_UnknownRoom(t *testing.T) {
	handler := newHandler(t)
	resp := postReading(t, handler, `{"room":"room-404","month":"2026-03","electricityStart":0,"waterStart":0}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestReadingHandler_AmendAndList(t *testing.T) {
	handler := newHandler(t)
	resp := postReading(t, handler, `{"room":"room-1","month":"2026-03","electricityStart":100,"waterStart":10}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("record: got %d", resp.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	amend := `{"electricityStart":100,"electricityEnd":130,"waterStart":10,"waterEnd":13}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/readings/"+created.ID, bytes.NewBufferString(amend))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("amend: got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/readings?month=2026-03", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("list: got %d", resp.Code)
	}
	var list struct {
		Data []struct {
			Complete bool `json:"complete"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Data) != 1 || !list.Data[0].Complete {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestReadingHandler_Remove(t *testing.T) {
	handler := newHandler(t)
	resp := postReading(t, handler, `{"room":"room-1","month":"2026-03","electricityStart":100,"waterStart":10}`)
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/readings/"+created.ID, nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("remove: got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/readings/"+created.ID, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("get removed: got %d", resp.Code)
	}
}
