package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestRectDimensions(t *testing.T) {
	r := NewRect(10, 20, 110, 50)
	if r.Width() != 100 {
		t.Errorf("Expected width 100, got %v", r.Width())
	}
	if r.Height() != 30 {
		t.Errorf("Expected height 30, got %v", r.Height())
	}
	if !r.IsValid() {
		t.Error("Expected rect to be valid")
	}
}

func TestRectIsValid(t *testing.T) {
	tests := []struct {
		name  string
		rect  Rect
		valid bool
	}{
		{"normal", NewRect(0, 0, 10, 10), true},
		{"zero", Rect{}, false},
		{"inverted x", NewRect(10, 0, 0, 10), false},
		{"inverted y", NewRect(0, 10, 10, 0), false},
	}

	for _, tt := range tests {
		if got := tt.rect.IsValid(); got != tt.valid {
			t.Errorf("%s: IsValid() = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 100, 100)

	if !r.Contains(50, 50) {
		t.Error("Expected center point to be contained")
	}
	if !r.Contains(0, 0) {
		t.Error("Expected top-left corner to be contained")
	}
	if r.Contains(150, 50) {
		t.Error("Expected outside point not to be contained")
	}
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	b := NewRect(50, 50, 150, 150)
	c := NewRect(200, 200, 300, 300)

	if !a.Intersects(b) {
		t.Error("Expected overlapping rects to intersect")
	}
	if a.Intersects(c) {
		t.Error("Expected disjoint rects not to intersect")
	}
}

func TestRectUnion(t *testing.T) {
	a := NewRect(0, 10, 50, 60)
	b := NewRect(30, 0, 100, 40)

	u := a.Union(b)
	want := NewRect(0, 0, 100, 60)
	if u != want {
		t.Errorf("Union = %v, want %v", u, want)
	}
}

func TestFragmentTrimmedText(t *testing.T) {
	f := Fragment{Text: "  hello world \n"}
	if got := f.TrimmedText(); got != "hello world" {
		t.Errorf("TrimmedText() = %q, want %q", got, "hello world")
	}
}

func TestFragmentString(t *testing.T) {
	f := Fragment{
		Rect: NewRect(1, 2, 3, 4),
		Text: " title \n",
	}
	want := "(1.0,2.0,3.0,4.0) title"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestErrPageOutOfRangeIsMatchable(t *testing.T) {
	wrapped := fmt.Errorf("page 9 of 3: %w", ErrPageOutOfRange)
	if !errors.Is(wrapped, ErrPageOutOfRange) {
		t.Error("Expected wrapped error to match ErrPageOutOfRange")
	}
}
