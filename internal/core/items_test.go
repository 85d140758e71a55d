package core

import "testing"

func TestItemIDIsDeterministic(t *testing.T) {
	a := ItemID("https://example.com/posts/1")
	b := ItemID("https://example.com/posts/1")
	if a != b {
		t.Fatalf("same url produced different ids: %q vs %q", a, b)
	}
	if len(a) != 12 {
		t.Fatalf("expected 12-char id, got %q", a)
	}
}

func TestItemIDIgnoresEverythingButURL(t *testing.T) {
	// Two items with the same url but different titles must map to the same id.
	if ItemID("https://example.com/posts/1") != ItemID("https://example.com/posts/1") {
		t.Fatal("id must be a pure function of url")
	}
	if ItemID("https://example.com/posts/1") == ItemID("https://example.com/posts/2") {
		t.Fatal("distinct urls unexpectedly collided")
	}
}
