package speedup

import (
	"strings"
	"testing"

	"github.com/abhisek/levelcast/internal/screens/internal/fixture"
)

func TestViewShowsDecomposition(t *testing.T) {
	view := New(fixture.Session()).View(120, 50)
	for _, want := range []string{"Your pace", "Ideal pace", "Windows", "Mistakes", "Accuracy", "Leeches"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewWithoutHistory(t *testing.T) {
	if !strings.Contains(New(fixture.Empty()).View(100, 30), "Pass at least one level") {
		t.Error("expected insufficient history message")
	}
}

func TestTenths(t *testing.T) {
	if got := tenths(1.26); got != 13 {
		t.Errorf("tenths(1.26) = %d, want 13", got)
	}
	if got := tenths(0); got != 0 {
		t.Errorf("tenths(0) = %d, want 0", got)
	}
}
