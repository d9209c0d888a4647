package utils

import (
	"reflect"
	"testing"
)

func TestDedupSorted(t *testing.T) {
	got := DedupSorted([]string{"b", "Sin Región", "a", "b", "c"}, "Sin Región")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDedupSorted_Empty(t *testing.T) {
	got := DedupSorted(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSetLogLevel(t *testing.T) {
	if err := SetLogLevel("WARN"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Log.GetLevel().String() != "warning" {
		t.Fatalf("expected warning level, got %s", Log.GetLevel())
	}
	if err := SetLogLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	_ = SetLogLevel("info")
}
