package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestCompletionSetToggle(t *testing.T) {
	var c CompletionSet

	if !c.Toggle("2024-06-10") {
		t.Fatal("first toggle should add the key")
	}
	if !c.Has("2024-06-10") {
		t.Fatal("expected key to be present")
	}
	if c.Toggle("2024-06-10") {
		t.Fatal("second toggle should remove the key")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty set, got %d keys", c.Len())
	}
}

func TestCompletionSetKeysNewestFirst(t *testing.T) {
	c := NewCompletionSet("2024-06-08", "2024-06-10", "2023-12-31", "2024-06-09")
	want := []string{"2024-06-10", "2024-06-09", "2024-06-08", "2023-12-31"}
	if got := c.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestCompletionSetMarshal(t *testing.T) {
	data, err := json.Marshal(NewCompletionSet("2024-06-10"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"2024-06-10":true}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	data, err = json.Marshal(CompletionSet(nil))
	if err != nil {
		t.Fatalf("marshal nil failed: %v", err)
	}
	if string(data) != `{}` {
		t.Errorf("nil set should marshal as {}, got %s", data)
	}
}

func TestCompletionSetUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CompletionSet
		wantErr bool
	}{
		{"true entries", `{"2024-06-10":true,"2024-06-09":true}`, NewCompletionSet("2024-06-10", "2024-06-09"), false},
		{"false dropped", `{"2024-06-10":true,"2024-06-09":false}`, NewCompletionSet("2024-06-10"), false},
		{"empty", `{}`, NewCompletionSet(), false},
		{"bad key", `{"June 10":true}`, nil, true},
		{"unpadded key", `{"2024-6-10":true}`, nil, true},
		{"not an object", `["2024-06-10"]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c CompletionSet
			err := json.Unmarshal([]byte(tt.input), &c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !c.Equal(tt.want) {
				t.Errorf("got %v, want %v", c.Keys(), tt.want.Keys())
			}
		})
	}
}

func TestCompletionSetCloneIsIndependent(t *testing.T) {
	orig := NewCompletionSet("2024-06-10")
	cp := orig.Clone()
	cp.Add("2024-06-11")

	if orig.Has("2024-06-11") {
		t.Error("mutating the clone changed the original")
	}
	if !cp.Equal(NewCompletionSet("2024-06-10", "2024-06-11")) {
		t.Errorf("unexpected clone contents: %v", cp.Keys())
	}
}

func TestHabitValidate(t *testing.T) {
	tests := []struct {
		name    string
		habit   Habit
		wantErr bool
	}{
		{"valid", Habit{ID: "a", Name: "Read"}, false},
		{"empty id", Habit{Name: "Read"}, true},
		{"blank name", Habit{ID: "a", Name: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.habit.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHabitAgeLabel(t *testing.T) {
	created := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	h := Habit{ID: "a", Name: "Read", CreatedAt: created}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"same moment", created, "Started today"},
		{"hours later", created.Add(20 * time.Hour), "Started today"},
		{"one day", created.Add(24 * time.Hour), "Day 2"},
		{"a week", created.Add(6*24*time.Hour + time.Hour), "Day 7"},
		{"clock behind", created.Add(-time.Hour), "Started today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.AgeLabel(tt.now); got != tt.want {
				t.Errorf("AgeLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
