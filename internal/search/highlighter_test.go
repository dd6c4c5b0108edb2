package search

import (
	"strings"
	"testing"
)

func TestHighlight(t *testing.T) {
	if Highlight("short", "x", 10) != "short" {
		t.Error("short string should be unchanged")
	}
	if got := Highlight("long text here", "", 4); got != "long..." {
		t.Errorf("no query: got %s", got)
	}
	if Highlight("x", "x", 0) != "x" {
		t.Error("maxLen 0 should return as-is")
	}
}

func TestHighlight_centersOnTerm(t *testing.T) {
	content := strings.Repeat("filler ", 20) + "the Ball tree prunes spheres " + strings.Repeat("tail ", 20)
	got := Highlight(content, "ball", 40)
	if !strings.Contains(got, "Ball tree") {
		t.Errorf("snippet should contain the match: %q", got)
	}
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("snippet should be marked as cut on both ends: %q", got)
	}
}

func TestHighlight_matchNearEnd(t *testing.T) {
	content := strings.Repeat("a ", 30) + "needle"
	got := Highlight(content, "needle", 20)
	if !strings.HasSuffix(got, "needle") {
		t.Errorf("window should end at the content end: %q", got)
	}
	if strings.HasSuffix(got, "...") {
		t.Errorf("uncut end should not be marked: %q", got)
	}
}
