package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/airtime/internal/linalg"
	"github.com/san-kum/airtime/internal/sim"
)

func testResult() *sim.Result {
	rot := linalg.FromAxisAngle(linalg.Vector3{Z: 1}, 0.1)
	return &sim.Result{
		Samples: []sim.Sample{
			{Time: 0, Poses: []sim.Pose{
				{Name: "trunk", Orientation: linalg.Identity()},
				{Name: "limb", Position: linalg.Vector3{X: 2.5, Y: -3.5, Z: 4.5}, Orientation: linalg.Identity()},
			}},
			{Time: 0.01, Poses: []sim.Pose{
				{Name: "trunk", Orientation: rot},
				{Name: "limb", Position: linalg.Vector3{X: 2.4, Y: -3.5, Z: 4.5}, Orientation: rot},
			}},
		},
		StepsTaken: 1,
		Metrics:    map[string]float64{"pivot_separation": 1.5e-15},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("gymnast", "pike", 0.01, 0.01, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "gymnast_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scene != "gymnast" || meta.Preset != "pike" {
		t.Errorf("expected gymnast/pike, got %s/%s", meta.Scene, meta.Preset)
	}
	if meta.Steps != 1 {
		t.Errorf("expected 1 step, got %d", meta.Steps)
	}
	if len(meta.Bodies) != 2 || meta.Bodies[1] != "limb" {
		t.Errorf("unexpected bodies %v", meta.Bodies)
	}
	if meta.Metrics["pivot_separation"] != 1.5e-15 {
		t.Errorf("expected metric 1.5e-15, got %g", meta.Metrics["pivot_separation"])
	}

	table, err := st.LoadPoses(runID)
	if err != nil {
		t.Fatalf("load poses failed: %v", err)
	}
	if len(table.Columns) != 1+2*12 {
		t.Errorf("expected 25 columns, got %d", len(table.Columns))
	}
	if len(table.Times) != 2 {
		t.Errorf("expected 2 rows, got %d", len(table.Times))
	}

	xs, err := table.Column("limb.x")
	if err != nil {
		t.Fatalf("column failed: %v", err)
	}
	if xs[0] != 2.5 || xs[1] != 2.4 {
		t.Errorf("limb.x = %v", xs)
	}

	r01, _ := table.Column("trunk.r01")
	want := linalg.FromAxisAngle(linalg.Vector3{Z: 1}, 0.1)[0][1]
	if r01[1] != want {
		t.Errorf("trunk.r01 = %v, want %v exactly", r01[1], want)
	}

	if _, err := table.Column("nose.x"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := st.Save("gymnast", "", 0.01, 0.01, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save("spinner", "", 0.01, 0.01, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "not-a-run"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Scene != "gymnast" || runs[1].Scene != "spinner" {
		t.Errorf("runs out of order: %s, %s", runs[0].Scene, runs[1].Scene)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save("spinner", "", 0.01, 0.01, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "poses.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestWriters_ReportFailedWrites(t *testing.T) {
	const full = "/dev/full"
	if _, err := os.Stat(full); err != nil {
		t.Skip("no /dev/full on this system")
	}

	if err := writeJSON(full, testResult().Metrics); err == nil {
		t.Error("writeJSON to a full device succeeded")
	}
	if err := writePoses(full, []string{"trunk", "limb"}, testResult().Samples); err == nil {
		t.Error("writePoses to a full device succeeded")
	}

	path := filepath.Join(t.TempDir(), "poses.csv")
	if err := writePoses(path, []string{"trunk", "limb"}, testResult().Samples); err != nil {
		t.Fatalf("writePoses failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "\n"); got != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines", got)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save("gymnast", "", 0.01, 0.01, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, _ := st.Load(runID)
	table, err := st.LoadPoses(runID)
	if err != nil {
		t.Fatalf("load poses failed: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, table); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Run.ID != runID || len(decoded.Rows) != 2 {
		t.Errorf("unexpected export: id %s, %d rows", decoded.Run.ID, len(decoded.Rows))
	}

	buf.Reset()
	if err := ExportCSV(&buf, table, "time", "limb.x"); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	want := "time,limb.x\n0,2.5\n0.01,2.4\n"
	if buf.String() != want {
		t.Errorf("ExportCSV = %q, want %q", buf.String(), want)
	}

	if err := ExportCSV(&buf, table, "nose.x"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}
