package persistence

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	base := Resource{ID: "4", Name: "Badminton Court", Type: "Sports Facility", Capacity: 4, Facilities: []string{"Night Lights"}, Available: true}

	t.Run("overwrites only present fields", func(t *testing.T) {
		merged, err := Merge(base, Patch{
			"capacity":   json.RawMessage(`6`),
			"facilities": json.RawMessage(`["Night Lights","Nets"]`),
		})
		if err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		want := base
		want.Capacity = 6
		want.Facilities = []string{"Night Lights", "Nets"}
		if !reflect.DeepEqual(merged, want) {
			t.Fatalf("unexpected merge\n got: %#v\nwant: %#v", merged, want)
		}
	})

	t.Run("ignores id and unknown keys", func(t *testing.T) {
		merged, err := Merge(base, Patch{
			"id":    json.RawMessage(`"99"`),
			"color": json.RawMessage(`"green"`),
		})
		if err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		if !reflect.DeepEqual(merged, base) {
			t.Fatalf("expected record unchanged, got %#v", merged)
		}
	})

	t.Run("explicit false and zero values apply", func(t *testing.T) {
		merged, err := Merge(base, Patch{"available": json.RawMessage(`false`), "capacity": json.RawMessage(`0`)})
		if err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		if merged.Available || merged.Capacity != 0 {
			t.Fatalf("expected zero values applied, got %#v", merged)
		}
	})

	t.Run("type mismatch fails and leaves record", func(t *testing.T) {
		merged, err := Merge(base, Patch{"capacity": json.RawMessage(`"lots"`)})
		if err == nil {
			t.Fatalf("expected error for mistyped field")
		}
		if !reflect.DeepEqual(merged, base) {
			t.Fatalf("expected original record on failure, got %#v", merged)
		}
	})

	t.Run("numeric id fields in patch", func(t *testing.T) {
		booking := Booking{ID: "b-1", UserID: "1", ResourceID: "4"}
		merged, err := Merge(booking, Patch{"resourceId": json.RawMessage(`5`)})
		if err != nil {
			t.Fatalf("Merge failed: %v", err)
		}
		if merged.ResourceID != "5" || merged.ID != "b-1" {
			t.Fatalf("unexpected merged booking %#v", merged)
		}
	})
}

func TestPatchString(t *testing.T) {
	patch := Patch{"password": json.RawMessage(`"s3cret"`), "capacity": json.RawMessage(`3`), "email": json.RawMessage(` null`)}

	if v, ok := patch.String("password"); !ok || v != "s3cret" {
		t.Fatalf("unexpected password lookup %q %v", v, ok)
	}
	if _, ok := patch.String("capacity"); ok {
		t.Fatalf("expected non-string field to be rejected")
	}
	if _, ok := patch.String("email"); ok {
		t.Fatalf("expected null field to count as absent")
	}
	if !patch.Has("capacity") || patch.Has("name") {
		t.Fatalf("unexpected Has results")
	}
}
