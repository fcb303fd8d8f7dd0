package pattern

import (
	"errors"
	"reflect"
	"testing"
)

func TestNoteOffsets(t *testing.T) {
	tests := []struct {
		method Method
		voices int
		want   []int
	}{
		{MethodUp, 3, []int{0, 12, 24}},
		{MethodUp, 4, []int{0, 12, 24, 36}},
		{MethodDown, 3, []int{0, -12, -24}},
		{MethodDown, 4, []int{0, -12, -24, -36}},
		{MethodUpDown, 3, []int{0, 12, 0}},
		{MethodUpDown, 4, []int{0, 12, 12, 0}},
		{MethodDownUp, 4, []int{0, -12, -12, 0}},
		{MethodUp, 1, []int{0}},
		{MethodDown, 1, []int{0}},
		{MethodUpDown, 1, []int{0}},
		{MethodMajorTriad, 7, []int{0, 4, 7, 12, 16, 19, 24}},
		{MethodMajorSeventh, 5, []int{0, 4, 7, 11, 12}},
		{MethodMinorTriad, 4, []int{0, 3, 7, 12}},
		{MethodMinorSeventh, 6, []int{0, 3, 7, 11, 12, 15}},
		{MethodNone, 3, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		if got := NoteOffsets(tt.method, tt.voices); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%v x%d = %v, want %v", tt.method, tt.voices, got, tt.want)
		}
	}
}

func TestBuildNotesAddsBase(t *testing.T) {
	c, err := BuildNotes(60, MethodUp, 3)
	if err != nil {
		t.Fatal(err)
	}
	var got []int
	for range 6 {
		got = append(got, c.Next())
	}
	if want := []int{60, 72, 84, 60, 72, 84}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBuildNotesRejectsZeroVoices(t *testing.T) {
	if _, err := BuildNotes(60, MethodUp, 0); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
