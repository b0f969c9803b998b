package tracked

import (
	"strings"
	"testing"

	"github.com/Hi-king/dfdrift"
	"github.com/Hi-king/dfdrift/pkg/frame"
	"github.com/Hi-king/dfdrift/pkg/types"
)

type capturedAlert struct {
	message string
	key     string
}

type captureAlerter struct {
	alerts []capturedAlert
}

func (c *captureAlerter) Alert(message, locationKey string, old *types.Fingerprint, current types.Fingerprint) {
	c.alerts = append(c.alerts, capturedAlert{message, locationKey})
}

func configureForTest(t *testing.T) *captureAlerter {
	t.Helper()
	alerter := &captureAlerter{}
	dir := t.TempDir()
	Configure(dfdrift.WithStoragePath(dir), dfdrift.WithAlerter(alerter))
	t.Cleanup(func() { Configure(dfdrift.WithStoragePath(dir)) })
	return alerter
}

// construct builds a frame through the tracked package from a single source
// line, so repeated calls share one location key.
func construct(t *testing.T, cols ...frame.Column) *frame.Frame {
	t.Helper()
	f, err := New(cols...)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	return f
}

func TestTracked_ConstructionReturnsRealFrame(t *testing.T) {
	configureForTest(t)

	f := construct(t, frame.Ints("x", 1, 2, 3))
	if f.Len() != 3 || f.NumCols() != 1 {
		t.Errorf("unexpected frame: (%d, %d)", f.Len(), f.NumCols())
	}
}

func TestTracked_DriftAtSameCallSiteAlerts(t *testing.T) {
	alerter := configureForTest(t)

	construct(t, frame.Ints("x", 1), frame.Strings("y", "a"))
	if len(alerter.alerts) != 0 {
		t.Fatalf("first construction should not alert, got %d", len(alerter.alerts))
	}

	// Same call site (inside construct), different schema
	construct(t, frame.Ints("x", 1), frame.Strings("y", "a"), frame.Bools("flag", true))
	if len(alerter.alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerter.alerts))
	}

	got := alerter.alerts[0]
	if !strings.Contains(got.message, "Added columns: ['flag']") {
		t.Errorf("alert should name the new column: %q", got.message)
	}
	if !strings.Contains(got.key, "tracked_test.go") {
		t.Errorf("location should point at the construction site, got %q", got.key)
	}
}

func TestTracked_ConstructionErrorSkipsValidation(t *testing.T) {
	alerter := configureForTest(t)

	if _, err := New(frame.Ints("x", 1), frame.Ints("x", 2)); err == nil {
		t.Fatal("duplicate columns should fail construction")
	}
	if len(alerter.alerts) != 0 {
		t.Errorf("failed construction should not validate, got %d alerts", len(alerter.alerts))
	}
}

func TestTracked_ReconfigureReplacesValidator(t *testing.T) {
	first := configureForTest(t)
	construct(t, frame.Ints("x", 1))

	second := &captureAlerter{}
	Configure(dfdrift.WithStoragePath(t.TempDir()), dfdrift.WithAlerter(second))

	// Fresh storage means a fresh baseline: no alert, and only the new
	// alerter is in play from here on
	construct(t, frame.Strings("y", "a"))
	if len(second.alerts) != 0 {
		t.Errorf("fresh baseline should not alert, got %d", len(second.alerts))
	}
	if len(first.alerts) != 0 {
		t.Errorf("replaced alerter should no longer receive alerts, got %d", len(first.alerts))
	}
}

func TestTracked_FromRecords(t *testing.T) {
	configureForTest(t)

	f, err := FromRecords([]map[string]any{{"id": 1}, {"id": 2}})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if f.DType("id") != "int64" {
		t.Errorf("unexpected dtype %s", f.DType("id"))
	}
}

func TestTracked_FromCSV(t *testing.T) {
	configureForTest(t)

	f, err := FromCSV(strings.NewReader("a,b\n1,x\n"))
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if f.Len() != 1 || f.NumCols() != 2 {
		t.Errorf("unexpected frame: (%d, %d)", f.Len(), f.NumCols())
	}
}
