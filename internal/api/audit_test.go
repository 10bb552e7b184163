package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/nerrad567/hydroponics-core/internal/audit"
)

// waitForAudit polls the audit endpoint as owner until want entries are
// visible or the deadline passes.
func waitForAudit(t *testing.T, h http.Handler, owner, query string, want int) audit.ListResult {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		w := do(t, h, http.MethodGet, "/api/v1/audit"+query, owner, "")
		if w.Code != http.StatusOK {
			t.Fatalf("audit status = %d; body: %s", w.Code, w.Body.String())
		}
		res := decode[audit.ListResult](t, w)
		if res.Total >= want || time.Now().After(deadline) {
			return res
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAudit_RecordsMutations(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.audit.Run(ctx)

	sys := createSystem(t, router, "alice", `{"name": "Tower", "plant_count": 4}`)
	createReading(t, router, "alice", sys.ID, "6.50")
	do(t, router, http.MethodPatch, systemPath(sys.ID), "alice", `{"plant_count": 5}`)
	do(t, router, http.MethodDelete, systemPath(sys.ID), "alice", "")

	res := waitForAudit(t, router, "alice", "", 4)
	if res.Total != 4 {
		t.Fatalf("total = %d, want 4", res.Total)
	}

	seen := map[string]bool{}
	for _, entry := range res.Logs {
		seen[entry.Action+" "+entry.EntityType] = true
		if entry.OwnerID != "alice" || entry.Source != "api" {
			t.Errorf("entry %+v, want owner alice from api", entry)
		}
	}
	for _, want := range []string{
		"create hydroponic_system",
		"create sensor_reading",
		"update hydroponic_system",
		"delete hydroponic_system",
	} {
		if !seen[want] {
			t.Errorf("missing audit entry %q in %v", want, seen)
		}
	}

	filtered := waitForAudit(t, router, "alice", "?action=create&entity_type=sensor_reading", 1)
	if filtered.Total != 1 {
		t.Errorf("filtered total = %d, want 1", filtered.Total)
	}
}

func TestAudit_ScopedToCaller(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.audit.Run(ctx)

	createSystem(t, router, "alice", `{"plant_count": 4}`)
	waitForAudit(t, router, "alice", "", 1)

	if res := waitForAudit(t, router, "bob", "", 0); res.Total != 0 {
		t.Errorf("bob sees %d entries, want 0", res.Total)
	}
}

func TestAudit_FailedRequestsNotRecorded(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	sys := createSystem(t, router, "alice", `{"plant_count": 4}`)
	do(t, router, http.MethodPost, "/api/v1/readings", "bob", `{"ph": "7.00", "water_temp": "20.00", "tds": "1.00", "hydroponic_system": `+formatID(sys.ID)+`}`)
	do(t, router, http.MethodPost, "/api/v1/systems", "alice", `{"plant_count": -1}`)

	// Run with a cancelled context writes whatever is queued and returns.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv.audit.Run(ctx)

	res, err := srv.auditRepo.List(context.Background(), audit.Filter{OwnerID: "alice"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("alice entries = %d, want 1 (the successful create)", res.Total)
	}
	res, err = srv.auditRepo.List(context.Background(), audit.Filter{OwnerID: "bob"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("bob entries = %d, want 0", res.Total)
	}
}

func TestAudit_NotConfigured(t *testing.T) {
	srv, _ := testServerWith(t, func(d *Deps) {
		d.Audit = nil
		d.AuditRepo = nil
	})
	router := srv.buildRouter()

	// Mutations still succeed without a recorder.
	createSystem(t, router, "alice", `{"plant_count": 1}`)

	w := do(t, router, http.MethodGet, "/api/v1/audit", "alice", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestAudit_MalformedPaging(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	w := do(t, router, http.MethodGet, "/api/v1/audit?limit=ten&offset=-1", "alice", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	e := decodeError(t, w)
	for _, field := range []string{"limit", "offset"} {
		if len(e.Fields[field]) == 0 {
			t.Errorf("fields = %v, want an entry for %q", e.Fields, field)
		}
	}
}
