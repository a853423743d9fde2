package cmdquoted

import (
	"reflect"
	"testing"
)

func TestSplitBasic(t *testing.T) {
	got, err := Split("a b\t c")
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split=%v, want %v", got, want)
	}
}

func TestSplitQuotes(t *testing.T) {
	got, err := Split(`"a b" 'c d' e`)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	want := []string{"a b", "c d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split=%v, want %v", got, want)
	}
}

func TestSplitUnterminated(t *testing.T) {
	_, err := Split(`"a b`)
	if err == nil {
		t.Fatal("expected unterminated quote error")
	}
}
