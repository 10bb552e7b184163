package validation

import (
	"fmt"
	"testing"
)

func TestError_Accumulates(t *testing.T) {
	var v Error
	if v.Err() != nil {
		t.Fatal("Err() on empty accumulator should be nil")
	}

	v.Add("ph", "A valid number is required.")
	v.Addf("plant_count", "Ensure this value is greater than or equal to %d.", 0)
	v.Add("ph", "second")

	err := v.Err()
	if err == nil {
		t.Fatal("Err() = nil after Add")
	}
	if got := len(v.Fields["ph"]); got != 2 {
		t.Errorf("ph messages = %d, want 2", got)
	}

	want := "validation failed: ph: A valid number is required.; second, plant_count: Ensure this value is greater than or equal to 0."
	if err.Error() != want {
		t.Errorf("Error() = %q\nwant %q", err.Error(), want)
	}
}

func TestAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("listing systems: %w", New("page", "Invalid page."))

	ve, ok := As(wrapped)
	if !ok {
		t.Fatal("As() did not find the validation error")
	}
	if ve.Fields["page"][0] != "Invalid page." {
		t.Errorf("Fields = %v", ve.Fields)
	}

	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("As() matched a non-validation error")
	}
}

func TestMerge(t *testing.T) {
	var v Error
	v.Merge(nil)
	v.Merge(New("tds", "bad"))
	v.Merge(New("tds", "worse"))

	if got := v.Fields["tds"]; len(got) != 2 || got[0] != "bad" || got[1] != "worse" {
		t.Errorf("Fields[tds] = %v", got)
	}
}
