package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kstrandberg/uncouple/pkg/errors"
	"github.com/kstrandberg/uncouple/pkg/modelio"
)

const testModelJSON = `{
  "segments": [
    {"id": "a", "type": "DN50",
     "start": {"x": 0, "y": 0, "z": 0}, "end": {"x": 5, "y": 0, "z": 0}},
    {"id": "b", "type": "DN50",
     "start": {"x": 5.2, "y": 0, "z": 0}, "end": {"x": 10, "y": 0, "z": 0}}
  ],
  "junctions": [
    {"id": "j1", "type": "Coupling",
     "location": {"x": 5.1, "y": 0, "z": 0},
     "ports": [{"x": 5, "y": 0, "z": 0}, {"x": 5.2, "y": 0, "z": 0}]}
  ],
  "links": [
    {"from": "j1", "from_port": 0, "to": "a", "to_port": 1},
    {"from": "j1", "from_port": 1, "to": "b", "to_port": 0}
  ]
}`

func writeTestModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(testModelJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunProcessWritesProcessedModel(t *testing.T) {
	input := writeTestModel(t)
	output := filepath.Join(filepath.Dir(input), "out.json")

	err := runProcess(context.Background(), input, processParams{
		output: output,
		noTUI:  true,
	})
	if err != nil {
		t.Fatalf("runProcess: %v", err)
	}

	m, err := modelio.ImportJSON(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if m.SegmentCount() != 1 || m.JunctionCount() != 0 {
		t.Errorf("processed model: %d segments, %d junctions, want 1 and 0",
			m.SegmentCount(), m.JunctionCount())
	}
}

func TestRunProcessDryRunWritesNothing(t *testing.T) {
	input := writeTestModel(t)
	output := filepath.Join(filepath.Dir(input), "out.json")

	err := runProcess(context.Background(), input, processParams{
		output: output,
		dryRun: true,
		noTUI:  true,
	})
	if err != nil {
		t.Fatalf("runProcess: %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("dry run must not write the output file")
	}
}

func TestRunProcessUnknownID(t *testing.T) {
	input := writeTestModel(t)
	err := runProcess(context.Background(), input, processParams{
		ids:   "ghost",
		noTUI: true,
	})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want %v", err, errors.ErrCodeNotFound)
	}
}

func TestRunProcessMissingInput(t *testing.T) {
	err := runProcess(context.Background(), filepath.Join(t.TempDir(), "absent.json"),
		processParams{noTUI: true})
	if err == nil {
		t.Error("expected error for missing input")
	}
}
