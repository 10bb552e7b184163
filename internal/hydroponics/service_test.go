package hydroponics

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sync"
	"testing"

	"github.com/nerrad567/hydroponics-core/internal/auth"
	"github.com/nerrad567/hydroponics-core/internal/decimal"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/database"
)

var (
	alice = auth.Caller{OwnerID: "alice"}
	bob   = auth.Caller{OwnerID: "bob"}
	anon  = auth.Caller{}
)

type recordingNotifier struct {
	mu       sync.Mutex
	systems  []SystemEvent
	readings []Reading
	err      error
}

func (n *recordingNotifier) SystemChanged(_ context.Context, event SystemEvent, _ System) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.systems = append(n.systems, event)
	return n.err
}

func (n *recordingNotifier) ReadingCreated(_ context.Context, _ string, rd Reading) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.readings = append(n.readings, rd)
	return n.err
}

func newTestService(t *testing.T) (*Service, *database.DB) {
	t.Helper()
	db := testDB(t)
	return NewService(db), db
}

func mustCreateSystem(t *testing.T, svc *Service, caller auth.Caller, body string) *System {
	t.Helper()
	sys, err := svc.CreateSystem(context.Background(), caller, []byte(body))
	if err != nil {
		t.Fatalf("CreateSystem(%s) error = %v", body, err)
	}
	return sys
}

func mustCreateReading(t *testing.T, svc *Service, caller auth.Caller, systemID int64, ph string) *Reading {
	t.Helper()
	body := fmt.Sprintf(`{"ph":%q,"water_temp":"21.50","tds":"850","hydroponic_system":%d}`, ph, systemID)
	rd, err := svc.CreateReading(context.Background(), caller, []byte(body))
	if err != nil {
		t.Fatalf("CreateReading(%s) error = %v", body, err)
	}
	return rd
}

func countReadings(t *testing.T, db *database.DB, systemID int64) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sensor_readings WHERE hydroponic_system_id = ?", systemID,
	).Scan(&n); err != nil {
		t.Fatalf("counting readings: %v", err)
	}
	return n
}

func setCreatedAt(t *testing.T, db *database.DB, table string, id int64, ts string) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(),
		"UPDATE "+table+" SET created_at = ? WHERE id = ?", ts, id,
	); err != nil {
		t.Fatalf("setting created_at: %v", err)
	}
}

func TestService_AnonymousRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	calls := map[string]func() error{
		"list systems":   func() error { _, err := svc.ListSystems(ctx, anon, nil); return err },
		"get system":     func() error { _, err := svc.GetSystem(ctx, anon, 1); return err },
		"create system":  func() error { _, err := svc.CreateSystem(ctx, anon, []byte(`{"plant_count":1}`)); return err },
		"update system":  func() error { _, err := svc.UpdateSystem(ctx, anon, 1, []byte(`{}`), true); return err },
		"delete system":  func() error { return svc.DeleteSystem(ctx, anon, 1) },
		"list readings":  func() error { _, err := svc.ListReadings(ctx, anon, nil); return err },
		"create reading": func() error { _, err := svc.CreateReading(ctx, anon, []byte(`{}`)); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, auth.ErrUnauthenticated) {
				t.Errorf("error = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestService_CreateSystemForcesOwner(t *testing.T) {
	svc, _ := newTestService(t)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	sys := mustCreateSystem(t, svc, alice, `{"name":"Tower","plant_count":0,"owner":"bob"}`)
	if sys.OwnerID != "alice" {
		t.Errorf("OwnerID = %q, want alice", sys.OwnerID)
	}
	if sys.Description != "" {
		t.Errorf("Description = %q, want empty default", sys.Description)
	}
	if !slices.Equal(notifier.systems, []SystemEvent{SystemCreated}) {
		t.Errorf("notified %v, want [created]", notifier.systems)
	}
}

func TestService_CreateSystemValidation(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.CreateSystem(context.Background(), alice, []byte(`{"name":"Tower","plant_count":-1}`))
	if _, ok := fieldErrors(t, err)["plant_count"]; !ok {
		t.Errorf("error = %v, want plant_count field error", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM hydroponic_systems").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("systems stored = %d, want 0", n)
	}
}

func TestService_ListSystemsIsScopedToCaller(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := range 3 {
		mustCreateSystem(t, svc, alice, fmt.Sprintf(`{"name":"a%d","plant_count":%d}`, i, i))
	}
	mustCreateSystem(t, svc, bob, `{"name":"b0","plant_count":1}`)

	result, err := svc.ListSystems(ctx, alice, url.Values{})
	if err != nil {
		t.Fatalf("ListSystems() error = %v", err)
	}
	if result.Count != 3 || len(result.Items) != 3 {
		t.Fatalf("count = %d, items = %d, want 3", result.Count, len(result.Items))
	}
	for _, s := range result.Items {
		if s.OwnerID != "alice" {
			t.Errorf("alice sees system of %q", s.OwnerID)
		}
	}

	// Filters never widen the scope.
	result, err = svc.ListSystems(ctx, alice, url.Values{"name": {"b0"}})
	if err != nil {
		t.Fatalf("ListSystems() error = %v", err)
	}
	if result.Count != 0 {
		t.Errorf("name=b0 count = %d, want 0", result.Count)
	}

	empty, err := svc.ListSystems(ctx, auth.Caller{OwnerID: "carol"}, url.Values{})
	if err != nil {
		t.Fatalf("ListSystems() error = %v", err)
	}
	if empty.Count != 0 || empty.Items == nil {
		t.Errorf("new owner result = %+v, want empty non-nil items", empty)
	}
}

func TestService_ListSystemsFilters(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	for _, n := range []int{2, 5, 8, 11} {
		s := mustCreateSystem(t, svc, alice, fmt.Sprintf(`{"name":"s%d","plant_count":%d}`, n, n))
		setCreatedAt(t, db, "hydroponic_systems", s.ID, fmt.Sprintf("2024-03-%02dT10:00:00.000000Z", n))
	}

	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{"no filter", url.Values{}, []string{"s2", "s5", "s8", "s11"}},
		{"exact", url.Values{"plant_count": {"5"}}, []string{"s5"}},
		{"range", url.Values{"plant_count__gte": {"5"}, "plant_count__lte": {"8"}}, []string{"s5", "s8"}},
		{"inverted range", url.Values{"plant_count__gte": {"9"}, "plant_count__lte": {"3"}}, nil},
		{"empty value ignored", url.Values{"plant_count": {""}}, []string{"s2", "s5", "s8", "s11"}},
		{"unknown key ignored", url.Values{"colour": {"green"}}, []string{"s2", "s5", "s8", "s11"}},
		{"created_at range", url.Values{"created_at__gte": {"2024-03-05T10:00:00Z"}, "created_at__lte": {"2024-03-08"}}, []string{"s5"}},
		{"created_at exact instant", url.Values{"created_at": {"2024-03-08T12:00:00+02:00"}}, []string{"s8"}},
		{"combined with name", url.Values{"name": {"s11"}, "plant_count__gte": {"10"}}, []string{"s11"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ListSystems(ctx, alice, tt.params)
			if err != nil {
				t.Fatalf("ListSystems() error = %v", err)
			}
			var got []string
			for _, s := range result.Items {
				got = append(got, s.Name)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("names = %v, want %v", got, tt.want)
			}
			if result.Count != len(tt.want) {
				t.Errorf("count = %d, want %d", result.Count, len(tt.want))
			}
		})
	}
}

func TestService_ListSystemsRejectsMalformedParams(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListSystems(context.Background(), alice, url.Values{
		"plant_count__gte": {"many"},
		"created_at":       {"yesterday"},
		"page":             {"0"},
	})
	fields := fieldErrors(t, err)
	for _, f := range []string{"plant_count__gte", "created_at", "page"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing error for %q in %v", f, fields)
		}
	}
}

func TestService_ListSystemsTimestampPrecision(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	s := mustCreateSystem(t, svc, alice, `{"name":"s5","plant_count":5}`)
	setCreatedAt(t, db, "hydroponic_systems", s.ID, "2024-03-05T10:00:00.000000Z")

	_, err := svc.ListSystems(ctx, alice, url.Values{"created_at__gte": {"2024-03-05T10:00:00.0000009Z"}})
	if _, ok := fieldErrors(t, err)["created_at__gte"]; !ok {
		t.Errorf("nanosecond bound error = %v, want created_at__gte field error", err)
	}

	result, err := svc.ListSystems(ctx, alice, url.Values{"created_at__gte": {"2024-03-05T10:00:00.000001Z"}})
	if err != nil {
		t.Fatalf("ListSystems() error = %v", err)
	}
	if result.Count != 0 {
		t.Errorf("a bound one microsecond later matched %d systems, want 0", result.Count)
	}
}

func TestService_ListSystemsOrdering(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustCreateSystem(t, svc, alice, `{"name":"b","plant_count":3}`)
	mustCreateSystem(t, svc, alice, `{"name":"a","plant_count":3}`)
	mustCreateSystem(t, svc, alice, `{"name":"c","plant_count":1}`)

	tests := []struct {
		ordering string
		want     []string
	}{
		{"", []string{"b", "a", "c"}},
		{"name", []string{"a", "b", "c"}},
		{"-name", []string{"c", "b", "a"}},
		{"-plant_count", []string{"b", "a", "c"}},
		{"plant_count,name", []string{"c", "a", "b"}},
		{"owner", []string{"b", "a", "c"}},
		{"password", []string{"b", "a", "c"}},
	}
	for _, tt := range tests {
		t.Run("ordering="+tt.ordering, func(t *testing.T) {
			result, err := svc.ListSystems(ctx, alice, url.Values{"ordering": {tt.ordering}})
			if err != nil {
				t.Fatalf("ListSystems() error = %v", err)
			}
			var got []string
			for _, s := range result.Items {
				got = append(got, s.Name)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("names = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_ListSystemsPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := range 25 {
		mustCreateSystem(t, svc, alice, fmt.Sprintf(`{"name":"s%02d","plant_count":1}`, i))
	}

	seen := map[int64]bool{}
	for page, want := range map[string]int{"1": 10, "2": 10, "3": 5, "4": 0, "last": 5} {
		t.Run("page="+page, func(t *testing.T) {
			result, err := svc.ListSystems(ctx, alice, url.Values{"page": {page}})
			if err != nil {
				t.Fatalf("ListSystems() error = %v", err)
			}
			if result.Count != 25 {
				t.Errorf("count = %d, want 25", result.Count)
			}
			if len(result.Items) != want {
				t.Errorf("items = %d, want %d", len(result.Items), want)
			}
			if page == "last" && result.Page.Number != 3 {
				t.Errorf("last resolved to %d, want 3", result.Page.Number)
			}
			if page != "last" {
				for _, s := range result.Items {
					seen[s.ID] = true
				}
			}
		})
	}
	if len(seen) != 25 {
		t.Errorf("pages covered %d distinct systems, want 25", len(seen))
	}

	_, err := svc.ListSystems(ctx, alice, url.Values{"page": {"two"}})
	if _, ok := fieldErrors(t, err)["page"]; !ok {
		t.Errorf("page=two error = %v, want page field error", err)
	}
}

func TestService_GetSystem(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	mine := mustCreateSystem(t, svc, alice, `{"name":"Tower","plant_count":4}`)
	sibling := mustCreateSystem(t, svc, alice, `{"name":"Rack","plant_count":4}`)
	theirs := mustCreateSystem(t, svc, bob, `{"name":"Bench","plant_count":4}`)

	detail, err := svc.GetSystem(ctx, alice, mine.ID)
	if err != nil {
		t.Fatalf("GetSystem() error = %v", err)
	}
	if detail.RecentSensorReadings == nil || len(detail.RecentSensorReadings) != 0 {
		t.Errorf("recent = %#v, want empty non-nil", detail.RecentSensorReadings)
	}

	for i := range 15 {
		rd := mustCreateReading(t, svc, alice, mine.ID, fmt.Sprintf("6.%02d", i))
		setCreatedAt(t, db, "sensor_readings", rd.ID, fmt.Sprintf("2024-05-01T00:00:%02d.000000Z", i))
	}
	mustCreateReading(t, svc, alice, sibling.ID, "9.99")

	detail, err = svc.GetSystem(ctx, alice, mine.ID)
	if err != nil {
		t.Fatalf("GetSystem() error = %v", err)
	}
	recent := detail.RecentSensorReadings
	if len(recent) != RecentReadingsLimit {
		t.Fatalf("recent readings = %d, want %d", len(recent), RecentReadingsLimit)
	}
	if recent[0].PH != decimal.MustParse("6.14") || recent[9].PH != decimal.MustParse("6.05") {
		t.Errorf("recent range = %s..%s, want 6.14..6.05", recent[0].PH, recent[9].PH)
	}
	for _, rd := range recent {
		if rd.SystemID != mine.ID {
			t.Errorf("recent reading from system %d", rd.SystemID)
		}
	}

	for name, id := range map[string]int64{"foreign": theirs.ID, "missing": 9999} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.GetSystem(ctx, alice, id); !errors.Is(err, auth.ErrNotFound) {
				t.Errorf("GetSystem() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestService_UpdateSystem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	mine := mustCreateSystem(t, svc, alice, `{"name":"Tower","description":"v1","plant_count":4}`)
	theirs := mustCreateSystem(t, svc, bob, `{"name":"Bench","plant_count":4}`)

	patched, err := svc.UpdateSystem(ctx, alice, mine.ID, []byte(`{"plant_count":6,"owner":"bob"}`), true)
	if err != nil {
		t.Fatalf("UpdateSystem(patch) error = %v", err)
	}
	if patched.PlantCount != 6 || patched.Name != "Tower" || patched.OwnerID != "alice" {
		t.Errorf("patched = %+v", patched)
	}
	if !patched.CreatedAt.Equal(mine.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", mine.CreatedAt, patched.CreatedAt)
	}

	if _, err := svc.UpdateSystem(ctx, alice, mine.ID, []byte(`{"name":"Rack"}`), false); err == nil {
		t.Error("UpdateSystem(put) without plant_count succeeded, want validation error")
	}

	replaced, err := svc.UpdateSystem(ctx, alice, mine.ID, []byte(`{"name":"Rack","plant_count":0}`), false)
	if err != nil {
		t.Fatalf("UpdateSystem(put) error = %v", err)
	}
	if replaced.Name != "Rack" || replaced.PlantCount != 0 {
		t.Errorf("replaced = %+v", replaced)
	}

	// Another owner's system is not found, even with an invalid body.
	for _, body := range []string{`{"plant_count":1}`, `{"plant_count":-5}`} {
		if _, err := svc.UpdateSystem(ctx, alice, theirs.ID, []byte(body), true); !errors.Is(err, auth.ErrNotFound) {
			t.Errorf("UpdateSystem(foreign, %s) error = %v, want ErrNotFound", body, err)
		}
	}
	detail, err := svc.GetSystem(ctx, bob, theirs.ID)
	if err != nil {
		t.Fatalf("GetSystem() error = %v", err)
	}
	if detail.PlantCount != 4 {
		t.Errorf("foreign system modified: %+v", detail.System)
	}

	want := []SystemEvent{SystemCreated, SystemCreated, SystemUpdated, SystemUpdated}
	if !slices.Equal(notifier.systems, want) {
		t.Errorf("events = %v, want %v", notifier.systems, want)
	}
}

func TestService_DeleteSystem(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	mine := mustCreateSystem(t, svc, alice, `{"plant_count":1}`)
	theirs := mustCreateSystem(t, svc, bob, `{"plant_count":1}`)
	mustCreateReading(t, svc, alice, mine.ID, "7")
	mustCreateReading(t, svc, bob, theirs.ID, "7")

	if err := svc.DeleteSystem(ctx, alice, theirs.ID); !errors.Is(err, auth.ErrNotFound) {
		t.Errorf("DeleteSystem(foreign) error = %v, want ErrNotFound", err)
	}
	if countReadings(t, db, theirs.ID) != 1 {
		t.Error("foreign readings removed")
	}

	if err := svc.DeleteSystem(ctx, alice, mine.ID); err != nil {
		t.Fatalf("DeleteSystem() error = %v", err)
	}
	if countReadings(t, db, mine.ID) != 0 {
		t.Error("readings survived their system")
	}
	if err := svc.DeleteSystem(ctx, alice, mine.ID); !errors.Is(err, auth.ErrNotFound) {
		t.Errorf("second DeleteSystem() error = %v, want ErrNotFound", err)
	}
}

func TestService_CreateReading(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	mine := mustCreateSystem(t, svc, alice, `{"plant_count":1}`)
	theirs := mustCreateSystem(t, svc, bob, `{"plant_count":1}`)

	rd := mustCreateReading(t, svc, alice, mine.ID, "6.80")
	if rd.ID == 0 || rd.SystemID != mine.ID || rd.PH != decimal.MustParse("6.8") {
		t.Errorf("created = %+v", rd)
	}
	if len(notifier.readings) != 1 || notifier.readings[0].ID != rd.ID {
		t.Errorf("notified readings = %+v", notifier.readings)
	}

	t.Run("foreign system forbidden", func(t *testing.T) {
		body := fmt.Sprintf(`{"ph":"7","water_temp":"20","tds":"500","hydroponic_system":%d}`, theirs.ID)
		if _, err := svc.CreateReading(ctx, alice, []byte(body)); !errors.Is(err, auth.ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
		if n := countReadings(t, db, theirs.ID); n != 0 {
			t.Errorf("foreign system has %d readings, want 0", n)
		}
	})

	t.Run("missing system is a validation error", func(t *testing.T) {
		_, err := svc.CreateReading(ctx, alice, []byte(`{"ph":"7","water_temp":"20","tds":"500","hydroponic_system":999}`))
		msgs := fieldErrors(t, err)["hydroponic_system"]
		if !slices.Contains(msgs, `Invalid pk "999" - object does not exist.`) {
			t.Errorf("hydroponic_system errors = %v", msgs)
		}
	})

	t.Run("malformed body reported before ownership", func(t *testing.T) {
		body := fmt.Sprintf(`{"ph":"seven","water_temp":"20","tds":"500","hydroponic_system":%d}`, theirs.ID)
		_, err := svc.CreateReading(ctx, alice, []byte(body))
		if _, ok := fieldErrors(t, err)["ph"]; !ok {
			t.Errorf("error = %v, want ph field error", err)
		}
	})

	if len(notifier.readings) != 1 {
		t.Errorf("notifier saw %d readings, want 1", len(notifier.readings))
	}
}

func TestService_NotifierFailureDoesNotFailRequest(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SetNotifier(&recordingNotifier{err: errors.New("broker down")})

	sys := mustCreateSystem(t, svc, alice, `{"plant_count":1}`)
	mustCreateReading(t, svc, alice, sys.ID, "7")
}

func TestService_ListReadings(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	a1 := mustCreateSystem(t, svc, alice, `{"plant_count":1}`)
	a2 := mustCreateSystem(t, svc, alice, `{"plant_count":1}`)
	b1 := mustCreateSystem(t, svc, bob, `{"plant_count":1}`)

	for i, ph := range []string{"5.50", "6.00", "6.50", "7.00"} {
		rd := mustCreateReading(t, svc, alice, a1.ID, ph)
		setCreatedAt(t, db, "sensor_readings", rd.ID, fmt.Sprintf("2024-06-0%dT08:00:00.000000Z", i+1))
	}
	mustCreateReading(t, svc, alice, a2.ID, "8.00")
	mustCreateReading(t, svc, bob, b1.ID, "6.00")

	tests := []struct {
		name   string
		params url.Values
		want   []string
	}{
		{"all of mine", url.Values{"ordering": {"ph"}}, []string{"5.50", "6.00", "6.50", "7.00", "8.00"}},
		{"one system", url.Values{"hydroponic_system": {fmt.Sprint(a2.ID)}}, []string{"8.00"}},
		{"foreign system matches nothing", url.Values{"hydroponic_system": {fmt.Sprint(b1.ID)}}, nil},
		{"missing system matches nothing", url.Values{"hydroponic_system": {"4242"}}, nil},
		{"ph range", url.Values{"ph__gte": {"6"}, "ph__lte": {"6.5"}, "ordering": {"-ph"}}, []string{"6.50", "6.00"}},
		{"ph exact", url.Values{"ph": {"6.0"}}, []string{"6.00"}},
		{"created_at upper bound", url.Values{"created_at__lte": {"2024-06-02T08:00:00Z"}}, []string{"5.50", "6.00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ListReadings(ctx, alice, tt.params)
			if err != nil {
				t.Fatalf("ListReadings() error = %v", err)
			}
			var got []string
			for _, rd := range result.Items {
				got = append(got, rd.PH.String())
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ph = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("malformed filters", func(t *testing.T) {
		_, err := svc.ListReadings(ctx, alice, url.Values{
			"tds__gte":          {"lots"},
			"hydroponic_system": {"abc"},
		})
		fields := fieldErrors(t, err)
		for _, f := range []string{"tds__gte", "hydroponic_system"} {
			if _, ok := fields[f]; !ok {
				t.Errorf("missing error for %q in %v", f, fields)
			}
		}
	})
}

func TestService_ReadingPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sys := mustCreateSystem(t, svc, alice, `{"plant_count":1}`)
	for range 45 {
		mustCreateReading(t, svc, alice, sys.ID, "7")
	}

	for page, want := range map[string]int{"1": 20, "2": 20, "3": 5, "9": 0} {
		result, err := svc.ListReadings(ctx, alice, url.Values{"page": {page}})
		if err != nil {
			t.Fatalf("ListReadings(page=%s) error = %v", page, err)
		}
		if len(result.Items) != want || result.Count != 45 {
			t.Errorf("page %s: items = %d count = %d, want %d and 45", page, len(result.Items), result.Count, want)
		}
	}
}
