package pattern

import (
	"errors"
	"reflect"
	"testing"
)

func TestCycleWrapsForever(t *testing.T) {
	items := []int{3, 1, 4}
	c, err := NewCycle(items)
	if err != nil {
		t.Fatal(err)
	}
	items[0] = 99 // the cycle owns a copy

	for k := 0; k < 4; k++ {
		var got []int
		for range items {
			got = append(got, c.Next())
		}
		if want := []int{3, 1, 4}; !reflect.DeepEqual(got, want) {
			t.Fatalf("period %d: got %v, want %v", k, got, want)
		}
	}
}

func TestCycleReset(t *testing.T) {
	c, _ := NewCycle([]string{"a", "b", "c"})
	c.Next()
	c.Next()
	c.Reset()
	if got := c.Next(); got != "a" {
		t.Fatalf("after reset got %q", got)
	}
	if c.Len() != 3 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestNewCycleRejectsEmpty(t *testing.T) {
	if _, err := NewCycle([]int{}); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestCountUpDown(t *testing.T) {
	double := func(i int) int { return i * 2 }
	tests := []struct {
		n    int
		want []int
	}{
		{1, []int{0}},
		{2, []int{0, 0}},
		{3, []int{0, 2, 0}},
		{4, []int{0, 2, 2, 0}},
		{5, []int{0, 2, 4, 2, 0}},
		{6, []int{0, 2, 4, 4, 2, 0}},
	}
	for _, tt := range tests {
		if got := countUpDown(tt.n, double); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("countUpDown(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
