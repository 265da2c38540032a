// README: End-to-end test against a running API: request -> assign -> lifecycle.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Requires a running navette-api with an empty NAVETTE_JWT_SECRET (identity
// from headers) plus the database it is connected to. Skips otherwise.
func TestAssignmentEndToEnd(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("NAVETTE_TEST_DSN"))
	if dsn == "" {
		t.Skip("NAVETTE_TEST_DSN not set; skipping API integration test")
	}
	baseURL := strings.TrimRight(envOrDefault("NAVETTE_API_BASE_URL", "http://localhost:8080"), "/")
	client := &http.Client{Timeout: 10 * time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	waitForAPIReady(t, client, baseURL)

	festival := fmt.Sprintf("f%d", time.Now().UnixNano())
	driverID := festival + "-d1"
	seedDriver(t, ctx, db, festival, driverID)

	requestedAt := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	seedAvailability(t, ctx, db, festival, driverID, requestedAt)

	organizer := headers{"X-User-ID": "org-1", "X-User-Role": "organizer"}
	driver := headers{"X-User-ID": driverID, "X-User-Role": "driver"}

	// Create a transport request.
	status, body := call(t, client, http.MethodPost, baseURL+apiPath(festival, "/requests"), organizer, map[string]any{
		"requester_id":   "vip-1",
		"requested_at":   requestedAt.Format(time.RFC3339),
		"transport_type": "berline",
		"pickup_lat":     48.85,
		"pickup_lng":     2.35,
		"dropoff_lat":    48.87,
		"dropoff_lng":    2.30,
	})
	if status != http.StatusCreated {
		t.Fatalf("create request: %d %s", status, body)
	}
	var created struct {
		ID string `json:"id"`
	}
	mustDecode(t, body, &created)

	// The seeded driver should be suggested as available.
	status, body = call(t, client, http.MethodGet, baseURL+apiPath(festival, "/requests/"+created.ID+"/suggestions"), organizer, nil)
	if status != http.StatusOK {
		t.Fatalf("suggestions: %d %s", status, body)
	}
	var sugg struct {
		Suggestions []struct {
			DriverID  string `json:"driver_id"`
			Available bool   `json:"available"`
			Score     int    `json:"score"`
		} `json:"suggestions"`
	}
	mustDecode(t, body, &sugg)
	if len(sugg.Suggestions) == 0 || !sugg.Suggestions[0].Available {
		t.Fatalf("expected an available suggestion, got %s", body)
	}

	// Auto-assign and walk the mission to completion.
	status, body = call(t, client, http.MethodPost, baseURL+apiPath(festival, "/requests/"+created.ID+"/auto-assign"), organizer, nil)
	if status != http.StatusCreated {
		t.Fatalf("auto-assign: %d %s", status, body)
	}
	var m struct {
		ID       string `json:"ID"`
		DriverID string `json:"DriverID"`
	}
	mustDecode(t, body, &m)
	if m.DriverID != driverID {
		t.Fatalf("assigned driver = %s, want %s", m.DriverID, driverID)
	}

	for _, step := range []string{"accept", "start", "complete"} {
		status, body = call(t, client, http.MethodPost, baseURL+apiPath(festival, "/missions/"+m.ID+"/"+step), driver, nil)
		if status != http.StatusOK {
			t.Fatalf("%s: %d %s", step, status, body)
		}
	}

	// Request status must mirror the completed mission, and the driver's
	// counters must move.
	var reqStatus string
	if err := db.QueryRow(ctx, "SELECT status FROM transport_requests WHERE id = $1", created.ID).Scan(&reqStatus); err != nil {
		t.Fatalf("query request: %v", err)
	}
	if reqStatus != "completed" {
		t.Fatalf("request status = %s, want completed", reqStatus)
	}

	var completed, total int
	if err := db.QueryRow(ctx, "SELECT completed_missions, total_missions FROM drivers WHERE id = $1", driverID).Scan(&completed, &total); err != nil {
		t.Fatalf("query driver: %v", err)
	}
	if completed != 1 || total != 1 {
		t.Fatalf("driver counters = %d/%d, want 1/1", completed, total)
	}
}

func apiPath(festival, suffix string) string {
	return "/api/festivals/" + festival + suffix
}

type headers map[string]string

func call(t *testing.T, client *http.Client, method, url string, h headers, payload any) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("call %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, body
}

func mustDecode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

func seedDriver(t *testing.T, ctx context.Context, db *pgxpool.Pool, festival, driverID string) {
	t.Helper()
	_, err := db.Exec(ctx, `
        INSERT INTO drivers (id, festival_id, full_name, home_lat, home_lng, preferences)
        VALUES ($1, $2, 'Chauffeur Test', 48.87, 2.30, '{berline}')`,
		driverID, festival,
	)
	if err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = db.Exec(cleanupCtx, "DELETE FROM location_samples WHERE driver_id = $1", driverID)
		_, _ = db.Exec(cleanupCtx, "DELETE FROM missions WHERE festival_id = $1", festival)
		_, _ = db.Exec(cleanupCtx, "DELETE FROM transport_requests WHERE festival_id = $1", festival)
		_, _ = db.Exec(cleanupCtx, "DELETE FROM availabilities WHERE festival_id = $1", festival)
		_, _ = db.Exec(cleanupCtx, "DELETE FROM drivers WHERE festival_id = $1", festival)
	})
}

func seedAvailability(t *testing.T, ctx context.Context, db *pgxpool.Pool, festival, driverID string, at time.Time) {
	t.Helper()
	slot := "evening"
	switch h := at.Hour(); {
	case h < 12:
		slot = "morning"
	case h < 18:
		slot = "afternoon"
	}
	_, err := db.Exec(ctx, `
        INSERT INTO availabilities (driver_id, festival_id, day, slot, available)
        VALUES ($1, $2, $3, $4, TRUE)`,
		driverID, festival, at.Format("2006-01-02"), slot,
	)
	if err != nil {
		t.Fatalf("seed availability: %v", err)
	}
}

func waitForAPIReady(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Skipf("API at %s not reachable; skipping", baseURL)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
