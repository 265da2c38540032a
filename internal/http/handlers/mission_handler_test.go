// README: Handler tests for the mission lifecycle endpoints.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"navette/internal/http/handlers"
	httpmiddleware "navette/internal/http/middleware"
	"navette/internal/modules/mission"
	"navette/internal/types"
)

type stubMissionStore struct {
	missions map[types.ID]*mission.Mission
}

func (s *stubMissionStore) Get(_ context.Context, id types.ID) (*mission.Mission, error) {
	m, ok := s.missions[id]
	if !ok {
		return nil, mission.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *stubMissionStore) ListByDriver(_ context.Context, festivalID, driverID types.ID) ([]mission.Mission, error) {
	var out []mission.Mission
	for _, m := range s.missions {
		if m.FestivalID == festivalID && m.DriverID == driverID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *stubMissionStore) Transition(_ context.Context, cmd mission.TransitionCommand) (bool, error) {
	m := s.missions[cmd.MissionID]
	if m == nil || m.Status != cmd.From {
		return false, nil
	}
	m.Status = cmd.To
	m.StatusVersion++
	return true, nil
}

func buildTestRouter(store mission.Storage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := mission.NewService(store, nil, zap.NewNop())
	r := gin.New()
	// Empty secret: the caller comes from X-User-* headers.
	api := r.Group("/api/festivals/:festivalID")
	api.Use(httpmiddleware.Auth(""))
	h := handlers.NewMissionHandler(svc)
	api.POST("/missions/:id/accept", h.Accept)
	api.POST("/missions/:id/decline", h.Decline)
	api.POST("/missions/:id/start", h.Start)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any, userID, role string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	req.Header.Set("X-User-Role", role)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func storeWithProposedMission() *stubMissionStore {
	return &stubMissionStore{missions: map[types.ID]*mission.Mission{
		"m-1": {
			ID:         "m-1",
			FestivalID: "f-1",
			RequestID:  "r-1",
			DriverID:   "d-1",
			Status:     mission.StatusProposed,
			ProposedAt: time.Now(),
		},
	}}
}

func TestAcceptMission(t *testing.T) {
	r := buildTestRouter(storeWithProposedMission())
	w := doRequest(r, http.MethodPost, "/api/festivals/f-1/missions/m-1/accept", nil, "d-1", "driver")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp mission.Mission
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != mission.StatusAccepted {
		t.Fatalf("status = %s, want accepted", resp.Status)
	}
}

func TestAcceptForeignMissionIsForbidden(t *testing.T) {
	r := buildTestRouter(storeWithProposedMission())
	w := doRequest(r, http.MethodPost, "/api/festivals/f-1/missions/m-1/accept", nil, "d-2", "driver")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestDeclineWithoutReason(t *testing.T) {
	r := buildTestRouter(storeWithProposedMission())
	w := doRequest(r, http.MethodPost, "/api/festivals/f-1/missions/m-1/decline", map[string]any{"reason": ""}, "d-1", "driver")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestStartFromProposedIsConflict(t *testing.T) {
	r := buildTestRouter(storeWithProposedMission())
	w := doRequest(r, http.MethodPost, "/api/festivals/f-1/missions/m-1/start", nil, "d-1", "driver")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestUnknownMissionIsNotFound(t *testing.T) {
	r := buildTestRouter(storeWithProposedMission())
	w := doRequest(r, http.MethodPost, "/api/festivals/f-1/missions/ghost/accept", nil, "d-1", "driver")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestMissionScopedToFestival(t *testing.T) {
	r := buildTestRouter(storeWithProposedMission())
	w := doRequest(r, http.MethodPost, "/api/festivals/f-other/missions/m-1/accept", nil, "d-1", "driver")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
