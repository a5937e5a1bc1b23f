package storage

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/integrators"
	"github.com/san-kum/habersim/internal/reactor"
	"github.com/san-kum/habersim/internal/sim"
)

func simulated(t *testing.T) *reactor.Instance {
	t.Helper()
	inst, err := config.KMIRScenario().Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := sim.New(integrators.NewRK45(), dynamo.DefaultConfig()).Run(context.Background(), inst); err != nil {
		t.Fatalf("simulation failed: %v", err)
	}
	return inst
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	inst := simulated(t)
	runID, err := st.Save("rk45", dynamo.DefaultConfig(), inst)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Catalyst != catalyst.KMIR {
		t.Errorf("expected KMIR, got %s", meta.Catalyst)
	}
	if meta.Pressure != 200 || len(meta.Beds) != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	want, _ := inst.Summary()
	if meta.Summary.Yield != want.Yield {
		t.Errorf("expected yield %g, got %g", want.Yield, meta.Summary.Yield)
	}

	loaded, err := st.LoadInstance(runID)
	if err != nil {
		t.Fatalf("load instance failed: %v", err)
	}
	if !loaded.Complete() {
		t.Fatal("loaded instance should be complete")
	}
	for i := 0; i < inst.BedCount(); i++ {
		a, _ := inst.Result(i)
		b, _ := loaded.Result(i)
		if a.Len() != b.Len() {
			t.Fatalf("bed %d: expected %d samples, got %d", i, a.Len(), b.Len())
		}
		_, ya := a.Last()
		_, yb := b.Last()
		for j := range ya {
			if ya[j] != yb[j] {
				t.Errorf("bed %d component %d: %g != %g", i, j, ya[j], yb[j])
			}
		}
	}
}

func TestStoreSaveRequiresResults(t *testing.T) {
	st := New(t.TempDir())
	inst, _ := config.KMIRScenario().Build()
	if _, err := st.Save("rk45", dynamo.DefaultConfig(), inst); !errors.Is(err, reactor.ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	// NaN cannot be encoded as JSON, so the metadata write fails.
	integration := dynamo.DefaultConfig()
	integration.RelTol = math.NaN()

	if _, err := st.Save("rk45", integration, simulated(t)); err == nil {
		t.Fatal("expected save to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directory after a failed save, found %d entries", len(entries))
	}
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty list, got %d", len(runs))
	}

	inst := simulated(t)
	for i := 0; i < 2; i++ {
		if _, err := st.Save("rk45", dynamo.DefaultConfig(), inst); err != nil {
			t.Fatal(err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	for _, id := range []string{"../etc", "6f1c2d7e-8a4b-4e1f-9c3d-2b5a7e9f0c1d"} {
		if _, err := st.Load(id); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("%s: expected ErrRunNotFound, got %v", id, err)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	inst, _ := reactor.NewBuilder(200, catalyst.KMIR).AddBed(713, 10, 727, -2.691122).Build()
	err := inst.AppendResult(0, []float64{0, 0.5}, []dynamo.State{
		{47.82, 124.6, 8.26, 15.86, 3.44, 713},
		{47.0, 122.1, 9.9, 15.86, 3.44, 718},
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, inst); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "bed,x,n2,h2,nh3,ar,ch4,t" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[2] != "0,0.5,47,122.1,9.9,15.86,3.44,718" {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestReadCSVMalformed(t *testing.T) {
	inst, _ := config.KMIRScenario().Build()
	data := "bed,x,n2,h2,nh3,ar,ch4,t\n0,abc,1,1,1,1,1,700\n"
	if err := ReadCSV(strings.NewReader(data), inst); err == nil {
		t.Error("expected parse error")
	}

	inst, _ = config.KMIRScenario().Build()
	data = "bed,x,n2,h2,nh3,ar,ch4,t\n1,0,1,1,1,1,1,700\n"
	if err := ReadCSV(strings.NewReader(data), inst); !errors.Is(err, reactor.ErrPredecessorMissing) {
		t.Errorf("expected ErrPredecessorMissing, got %v", err)
	}
}
