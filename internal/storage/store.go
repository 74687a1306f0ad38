package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/sim"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
)

type Store struct {
	baseDir string
	log     *log.Logger
}

func New(baseDir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{baseDir: baseDir, log: logger}
}

func (s *Store) Init() error {
	return errors.Wrapf(os.MkdirAll(s.baseDir, 0755), "create store %s", s.baseDir)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Label       string             `json:"label,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Integrator  string             `json:"integrator"`
	Params      dynamo.Params      `json:"params"`
	Frame       float64            `json:"frame"`
	Duration    float64            `json:"duration"`
	Frames      int                `json:"frames"`
	Samples     int                `json:"samples"`
	EnergyDrift float64            `json:"energy_drift"`
	Final       dynamo.State       `json:"final"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run under a fresh id and returns it.
func (s *Store) Save(label, integrator string, frame time.Duration, duration float64, result *sim.Result) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrap(err, "create run dir")
	}

	meta := RunMetadata{
		ID:          runID,
		Label:       label,
		Timestamp:   time.Now(),
		Integrator:  integrator,
		Params:      result.Params,
		Frame:       frame.Seconds(),
		Duration:    duration,
		Frames:      result.Frames,
		Samples:     len(result.History),
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
	if n := len(result.States); n > 0 {
		meta.Final = result.States[n-1]
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", errors.Wrap(err, "write metadata")
	}

	if err := writeFile(filepath.Join(runDir, historyFile), func(w io.Writer) error {
		return WriteCSV(w, result.History)
	}); err != nil {
		return "", errors.Wrap(err, "write history")
	}

	s.log.Infof("saved run %s (%s, %d samples)", runID, integrator, meta.Samples)
	return runID, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first. Unreadable entries are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrap(err, "list runs")
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Debugf("skipping %s: %v", entry.Name(), err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(dynamo.ErrRunNotFound, "%s", runID)
		}
		return nil, errors.Wrapf(err, "read run %s", runID)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decode run %s", runID)
	}
	return &meta, nil
}

func (s *Store) LoadHistory(runID string) ([]dynamo.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(dynamo.ErrRunNotFound, "%s", runID)
		}
		return nil, errors.Wrapf(err, "open history %s", runID)
	}
	defer file.Close()
	return ReadCSV(file)
}

// WriteCSV writes samples as a "t,y" table.
func WriteCSV(w io.Writer, samples []dynamo.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "y"}); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.FormatFloat(smp.T, 'f', 6, 64),
			strconv.FormatFloat(smp.Y, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV. Malformed rows are skipped.
func ReadCSV(r io.Reader) ([]dynamo.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse history csv")
	}
	if len(records) < 2 {
		return []dynamo.Sample{}, nil
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		y, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		samples = append(samples, dynamo.Sample{T: t, Y: y})
	}
	return samples, nil
}
