package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/airtime/internal/sim"
)

const (
	metadataFile = "metadata.json"
	posesFile    = "poses.csv"
)

// ErrUnknownColumn is returned when a pose table has no such column.
var ErrUnknownColumn = errors.New("storage: unknown column")

// poseFields are the per-body column suffixes: position then the
// row-major orientation.
var poseFields = []string{"x", "y", "z", "r00", "r01", "r02", "r10", "r11", "r12", "r20", "r21", "r22"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Bodies    []string           `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes the run's metadata and pose log into a fresh run directory.
// The log is analysis output; it is not enough to resume a simulation.
func (s *Store) Save(scene, preset string, dt, duration float64, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	var bodies []string
	if len(result.Samples) > 0 {
		for _, p := range result.Samples[0].Poses {
			bodies = append(bodies, p.Name)
		}
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     scene,
		Preset:    preset,
		Timestamp: now,
		Dt:        dt,
		Duration:  duration,
		Steps:     result.StepsTaken,
		Bodies:    bodies,
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writePoses(filepath.Join(runDir, posesFile), bodies, result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writePoses(path string, bodies []string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header(bodies)); err != nil {
		return err
	}
	for _, sample := range samples {
		if err := w.Write(poseRow(sample)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// Header returns the pose table columns for the given bodies.
func Header(bodies []string) []string {
	header := make([]string, 0, 1+len(bodies)*len(poseFields))
	header = append(header, "time")
	for _, b := range bodies {
		for _, f := range poseFields {
			header = append(header, b+"."+f)
		}
	}
	return header
}

func poseRow(sample sim.Sample) []string {
	row := make([]string, 0, 1+len(sample.Poses)*len(poseFields))
	row = append(row, formatFloat(sample.Time))
	for _, p := range sample.Poses {
		row = append(row, formatFloat(p.Position.X), formatFloat(p.Position.Y), formatFloat(p.Position.Z))
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				row = append(row, formatFloat(p.Orientation[i][j]))
			}
		}
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// Table is a loaded pose log.
type Table struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Column returns the series for name, for example "limb.x".
func (t *Table) Column(name string) ([]float64, error) {
	for j, c := range t.Columns {
		if c != name {
			continue
		}
		if j == 0 {
			return t.Times, nil
		}
		out := make([]float64, len(t.Rows))
		for i, row := range t.Rows {
			out[i] = row[j-1]
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
}

// LoadPoses reads a run's pose log. Malformed rows are an error.
func (s *Store) LoadPoses(runID string) (*Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, posesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s poses: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("run %s poses: missing header", runID)
	}

	t := &Table{
		Columns: records[0],
		Times:   make([]float64, 0, len(records)-1),
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for i, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s poses row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		t.Times = append(t.Times, vals[0])
		t.Rows = append(t.Rows, vals[1:])
	}
	return t, nil
}
