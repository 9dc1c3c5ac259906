package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/kaleidoid/internal/database"
)

func TestStatsGet(t *testing.T) {
	engine, store := newTestEngine(t)
	handler := NewStatsHandler(engine)

	ctx := context.Background()
	id := addTestPerson(t, store, "Jan", "Novak")
	if _, err := store.AddPhoto(ctx, id, []byte{0x01}, "jpeg", true); err != nil {
		t.Fatalf("failed to add photo: %v", err)
	}
	if err := store.AddSession(ctx, &database.RecognitionSession{PersonID: id, Score: 0.9}); err != nil {
		t.Fatalf("failed to add session: %v", err)
	}
	if !engine.Pipeline.Enroll(ctx, testFace(50), id, 101, "Novak Jan") {
		t.Fatal("failed to enroll test face")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		People        int     `json:"people"`
		Photos        int     `json:"photos"`
		Sessions      int     `json:"sessions"`
		GallerySize   int     `json:"gallery_size"`
		GalleryPeople int     `json:"gallery_people"`
		Threshold     float64 `json:"threshold"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.People != 1 {
		t.Errorf("expected 1 person, got %d", resp.People)
	}
	if resp.Photos != 1 {
		t.Errorf("expected 1 photo, got %d", resp.Photos)
	}
	if resp.Sessions != 1 {
		t.Errorf("expected 1 session, got %d", resp.Sessions)
	}
	if resp.GallerySize != 1 || resp.GalleryPeople != 1 {
		t.Errorf("expected gallery size 1 with 1 person, got %d/%d", resp.GallerySize, resp.GalleryPeople)
	}
	if resp.Threshold != engine.Pipeline.Threshold() {
		t.Errorf("expected threshold %g, got %g", engine.Pipeline.Threshold(), resp.Threshold)
	}
}

func TestSessionStats(t *testing.T) {
	engine, store := newTestEngine(t)
	handler := NewStatsHandler(engine)

	ctx := context.Background()
	id := addTestPerson(t, store, "Jan", "Novak")
	for i := 0; i < 3; i++ {
		if err := store.AddSession(ctx, &database.RecognitionSession{PersonID: id, Score: 0.8}); err != nil {
			t.Fatalf("failed to add session: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/stats?days=30", nil)
	rec := httptest.NewRecorder()
	handler.Sessions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Days  int                    `json:"days"`
		Stats []sessionStatsResponse `json:"stats"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Days != 30 {
		t.Errorf("expected days 30, got %d", resp.Days)
	}
	if len(resp.Stats) != 1 {
		t.Fatalf("expected stats for 1 person, got %d", len(resp.Stats))
	}
	if resp.Stats[0].Sessions != 3 {
		t.Errorf("expected 3 sessions, got %d", resp.Stats[0].Sessions)
	}
	if resp.Stats[0].AvgScore < 0.79 || resp.Stats[0].AvgScore > 0.81 {
		t.Errorf("expected average score near 0.8, got %g", resp.Stats[0].AvgScore)
	}
}

func TestSessionStatsDefaultWindow(t *testing.T) {
	engine, _ := newTestEngine(t)
	handler := NewStatsHandler(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/stats?days=9000", nil)
	rec := httptest.NewRecorder()
	handler.Sessions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Days int `json:"days"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Days != defaultStatsDays {
		t.Errorf("expected fallback to %d days, got %d", defaultStatsDays, resp.Days)
	}
}
