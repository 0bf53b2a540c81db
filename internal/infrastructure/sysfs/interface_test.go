package sysfs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bartrom653/adaptive-sched/pkg/logger"
)

func newTestInterface(t *testing.T) (*Interface, string) {
	t.Helper()
	dir := t.TempDir()
	return New(dir, logger.NewWithWriter("error", io.Discard)), dir
}

func writeValue(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInterface_ReadCurrentLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		write   bool
		want    int
		wantOK  bool
	}{
		{name: "plain value", content: "42", write: true, want: 42, wantOK: true},
		{name: "trailing newline", content: "87\n", write: true, want: 87, wantOK: true},
		{name: "zero", content: "0", write: true, want: 0, wantOK: true},
		{name: "malformed", content: "garbage", write: true, wantOK: false},
		{name: "empty file", content: "", write: true, wantOK: false},
		{name: "missing file", write: false, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iface, dir := newTestInterface(t)
			if tt.write {
				writeValue(t, dir, "current_load", tt.content)
			}

			got, ok := iface.ReadCurrentLoad()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("value = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInterface_ReadMaxLoad(t *testing.T) {
	iface, dir := newTestInterface(t)
	writeValue(t, dir, "max_load", "93\n")

	got, ok := iface.ReadMaxLoad()
	if !ok || got != 93 {
		t.Errorf("ReadMaxLoad() = (%d, %v), want (93, true)", got, ok)
	}
}

func TestInterface_WriteTargetPID(t *testing.T) {
	iface, dir := newTestInterface(t)

	if err := iface.WriteTargetPID(4242); err != nil {
		t.Fatalf("WriteTargetPID() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "target_pid"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "4242" {
		t.Errorf("target_pid content = %q, want 4242", data)
	}
}

func TestInterface_WriteBoostLevel(t *testing.T) {
	iface, dir := newTestInterface(t)

	if err := iface.WriteBoostLevel(3); err != nil {
		t.Fatalf("WriteBoostLevel() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "boost_level"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "3" {
		t.Errorf("boost_level content = %q, want 3", data)
	}
}

func TestInterface_WriteToMissingDirFails(t *testing.T) {
	iface := New("/nonexistent/adaptive_sched", logger.NewWithWriter("error", io.Discard))

	if err := iface.WriteTargetPID(1); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
