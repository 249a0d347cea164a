package mentions

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	got := Extract("Hello @bob, have you met @alice_99 and @bob?")
	want := []string{"bob", "alice_99"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %v, want %v", got, want)
	}
}

func TestExtractCaseSensitive(t *testing.T) {
	got := Extract("@Bob and @bob are different handles")
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct tokens, got %v", got)
	}
}

func TestExtractNoMentions(t *testing.T) {
	if got := Extract("just a plain sentence"); len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
}

func TestExtractStopsAtNonWordChars(t *testing.T) {
	got := Extract("ping @dev-ops now")
	want := []string{"dev"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract = %v, want %v", got, want)
	}
}

func TestHashtags(t *testing.T) {
	got := Hashtags("sunset vibes #golang #sunset #golang")
	want := []string{"golang", "sunset"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Hashtags = %v, want %v", got, want)
	}
}
