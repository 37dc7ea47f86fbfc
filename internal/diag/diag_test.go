package diag

import (
	"testing"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

type recorder struct {
	lines []string
}

func (r *recorder) Print(m string)   { r.lines = append(r.lines, "print:"+m) }
func (r *recorder) Trace(m string)   { r.lines = append(r.lines, "trace:"+m) }
func (r *recorder) Debug(m string)   { r.lines = append(r.lines, "debug:"+m) }
func (r *recorder) Info(m string)    { r.lines = append(r.lines, "info:"+m) }
func (r *recorder) Warning(m string) { r.lines = append(r.lines, "warning:"+m) }
func (r *recorder) Error(m string)   { r.lines = append(r.lines, "error:"+m) }
func (r *recorder) Fatal(m string)   { r.lines = append(r.lines, "fatal:"+m) }

func TestLevelFiltering(t *testing.T) {
	rec := &recorder{}
	l := New(rec, logger.INFO)

	l.Debugf("hidden %d", 1)
	l.Infof("shown %d", 2)
	l.Warnf("warn")
	l.Errorf("boom: %s", "x")

	want := []string{"info:shown 2", "warning:warn", "error:boom: x"}
	if len(rec.lines) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), rec.lines)
	}
	for i := range want {
		if rec.lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, rec.lines[i], want[i])
		}
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	l.Debugf("x")
	l.Infof("x")
	l.Warnf("x")
	l.Errorf("x")
	if New(nil, logger.DEBUG) != nil {
		t.Error("expected nil logger for nil sink")
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("") != logger.INFO {
		t.Error("empty level should default to INFO")
	}
	if ParseLevel("debug") != logger.DEBUG {
		t.Error("expected DEBUG")
	}
	if ParseLevel("nonsense") != logger.INFO {
		t.Error("unknown level should fall back to INFO")
	}
}
