package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/kaleidoid/internal/recognizer"
)

func TestRecognizeMatchLogsSession(t *testing.T) {
	engine, store := newTestEngine(t)
	handler := NewRecognizeHandler(engine)

	id := addTestPerson(t, store, "Jan", "Novak")
	if !engine.Pipeline.Enroll(context.Background(), testFace(50), id, 101, "Novak Jan") {
		t.Fatal("failed to enroll test face")
	}

	req := imageUploadRequest(t, "/api/v1/recognize", testFace(50), nil)
	rec := httptest.NewRecorder()
	handler.Recognize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Faces []recognizer.FaceOutcome `json:"faces"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(resp.Faces))
	}

	face := resp.Faces[0]
	if !face.Matched {
		t.Fatal("expected the face to match")
	}
	if face.PersonID != id {
		t.Errorf("expected person %d, got %d", id, face.PersonID)
	}
	if face.DisplayName != "Novak Jan" {
		t.Errorf("expected display name 'Novak Jan', got %q", face.DisplayName)
	}
	if face.Score < engine.Pipeline.Threshold() {
		t.Errorf("matched score %f below threshold %f", face.Score, engine.Pipeline.Threshold())
	}

	sessions, err := store.CountSessions(context.Background())
	if err != nil {
		t.Fatalf("failed to count sessions: %v", err)
	}
	if sessions != 1 {
		t.Errorf("expected 1 logged session, got %d", sessions)
	}
}

func TestRecognizeStrangerDoesNotLogSession(t *testing.T) {
	engine, store := newTestEngine(t)
	handler := NewRecognizeHandler(engine)

	id := addTestPerson(t, store, "Jan", "Novak")
	if !engine.Pipeline.Enroll(context.Background(), testFace(50), id, 101, "Novak Jan") {
		t.Fatal("failed to enroll test face")
	}

	// A very different pattern stays below the threshold.
	req := imageUploadRequest(t, "/api/v1/recognize", testFace(10), nil)
	rec := httptest.NewRecorder()
	handler.Recognize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Faces []recognizer.FaceOutcome `json:"faces"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(resp.Faces))
	}
	if resp.Faces[0].Matched {
		t.Error("expected no match for a stranger")
	}

	sessions, err := store.CountSessions(context.Background())
	if err != nil {
		t.Fatalf("failed to count sessions: %v", err)
	}
	if sessions != 0 {
		t.Errorf("expected no logged sessions, got %d", sessions)
	}
}

func TestRecognizeEmptyGallery(t *testing.T) {
	engine, _ := newTestEngine(t)
	handler := NewRecognizeHandler(engine)

	req := imageUploadRequest(t, "/api/v1/recognize", testFace(50), nil)
	rec := httptest.NewRecorder()
	handler.Recognize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Faces []recognizer.FaceOutcome `json:"faces"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Faces) != 1 {
		t.Fatalf("expected 1 face, got %d", len(resp.Faces))
	}
	if resp.Faces[0].Matched {
		t.Error("expected no match against an empty gallery")
	}
}

func TestRecognizeInvalidUpload(t *testing.T) {
	engine, _ := newTestEngine(t)
	handler := NewRecognizeHandler(engine)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recognize", nil)
	rec := httptest.NewRecorder()
	handler.Recognize(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
