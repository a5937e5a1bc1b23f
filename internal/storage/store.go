package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/dynamo"
	"github.com/san-kum/habersim/internal/physics"
	"github.com/san-kum/habersim/internal/reactor"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Header is the column layout of trajectory.csv.
var Header = []string{"bed", "x", "n2", "h2", "nh3", "ar", "ch4", "t"}

// Store keeps finished runs as report artifacts, one directory per run.
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
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Catalyst    catalyst.Catalyst  `json:"catalyst"`
	Pressure    float64            `json:"pressure"`
	Integrator  string             `json:"integrator"`
	Integration dynamo.Config      `json:"integration"`
	Beds        []reactor.BedSetup `json:"beds"`
	Summary     reactor.Summary    `json:"summary"`
}

// Save writes the metadata and trajectory of a finished instance and
// returns the new run ID.
func (s *Store) Save(integrator string, integration dynamo.Config, inst *reactor.Instance) (string, error) {
	summary, err := inst.Summary()
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now().UTC(),
		Catalyst:    inst.Catalyst(),
		Pressure:    inst.Pressure(),
		Integrator:  integrator,
		Integration: integration,
		Beds:        inst.Beds(),
		Summary:     summary,
	}

	if err := writeRun(runDir, meta, inst); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, inst *reactor.Instance) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return err
	}
	if err := WriteCSV(csvFile, inst); err != nil {
		csvFile.Close()
		return err
	}
	return csvFile.Close()
}

// WriteCSV writes every stored sample of inst, one row per sample.
func WriteCSV(w io.Writer, inst *reactor.Instance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	row := make([]string, len(Header))
	for bed, r := range inst.Results() {
		for i := range r.X {
			row[0] = strconv.Itoa(bed)
			row[1] = strconv.FormatFloat(r.X[i], 'g', -1, 64)
			for j, v := range r.Y[i] {
				row[2+j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// List returns the metadata of every stored run, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadInstance rebuilds a read-only copy of a stored run so it can be
// plotted or reported again.
func (s *Store) LoadInstance(runID string) (*reactor.Instance, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	inst, err := config.Scenario{Catalyst: meta.Catalyst, Pressure: meta.Pressure, Beds: meta.Beds}.Build()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := ReadCSV(file, inst); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return inst, nil
}

// ReadCSV appends the beds found in r to inst, in file order.
func ReadCSV(r io.Reader, inst *reactor.Instance) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	records, err := cr.ReadAll()
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return nil
	}

	bed := -1
	var xs []float64
	var ys []dynamo.State
	flush := func() error {
		if bed < 0 {
			return nil
		}
		return inst.AppendResult(bed, xs, ys)
	}

	for n, record := range records[1:] {
		idx, err := strconv.Atoi(record[0])
		if err != nil {
			return fmt.Errorf("row %d: %w", n+1, err)
		}
		vals := make([]float64, len(record)-1)
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j+1], 64); err != nil {
				return fmt.Errorf("row %d: %w", n+1, err)
			}
		}

		if idx != bed {
			if err := flush(); err != nil {
				return err
			}
			bed, xs, ys = idx, nil, nil
		}
		xs = append(xs, vals[0])
		ys = append(ys, dynamo.State(vals[1:1+physics.StateDim]))
	}
	return flush()
}
