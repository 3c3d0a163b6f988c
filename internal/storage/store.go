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

	"github.com/san-kum/lorenztrail/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	buffersFile  = "buffers.csv"
)

// ErrNotIndexed marks a run that was written to disk but could not be
// recorded in the catalog.
var ErrNotIndexed = errors.New("run not indexed")

type Store struct {
	baseDir string
	catalog *Catalog
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// WithCatalog indexes every saved run in c as well.
func (s *Store) WithCatalog(c *Catalog) *Store {
	s.catalog = c
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                string        `json:"id"`
	ParameterSet      string        `json:"parameter_set"`
	Params            dynamo.Params `json:"params"`
	Timestamp         time.Time     `json:"timestamp"`
	Dt                float64       `json:"dt"`
	MaxPoints         int           `json:"max_points"`
	Steps             int           `json:"steps"`
	InitialConditions []dynamo.Vec3 `json:"initial_conditions"`
	NonFinite         int           `json:"non_finite"`
}

// SimulatedTime is the time span covered since the run started.
func (m RunMetadata) SimulatedTime() float64 {
	return float64(m.Steps) * m.Dt
}

// Save writes the current buffers of sim as a new run.
func (s *Store) Save(sim *dynamo.Simulator) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", sim.ParameterSet(), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                runID,
		ParameterSet:      sim.ParameterSet(),
		Params:            sim.Params(),
		Timestamp:         now,
		Dt:                sim.Dt(),
		MaxPoints:         sim.MaxPoints(),
		Steps:             sim.Steps(),
		InitialConditions: make([]dynamo.Vec3, sim.NumTrajectories()),
	}

	buffers := make([][]dynamo.Vec3, sim.NumTrajectories())
	for i := range buffers {
		buffers[i] = sim.Buffer(i)
		meta.InitialConditions[i] = sim.Initial(i)
		for _, p := range buffers[i] {
			if !p.IsFinite() {
				meta.NonFinite++
			}
		}
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeBuffers(filepath.Join(runDir, buffersFile), buffers); err != nil {
		return "", err
	}
	if s.catalog != nil {
		if err := s.catalog.Record(meta); err != nil {
			return runID, fmt.Errorf("%w: %s: %w", ErrNotIndexed, runID, err)
		}
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeBuffers(path string, buffers [][]dynamo.Vec3) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"trajectory", "index", "x", "y", "z"}); err != nil {
		return err
	}
	for ti, buf := range buffers {
		for i, p := range buf {
			row := []string{
				strconv.Itoa(ti),
				strconv.Itoa(i),
				formatFloat(p.X),
				formatFloat(p.Y),
				formatFloat(p.Z),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Delete removes the run directory and its catalog entry.
func (s *Store) Delete(runID string) error {
	if runID == "" || runID != filepath.Base(runID) || runID == "." || runID == ".." {
		return fmt.Errorf("invalid run id %q", runID)
	}
	runDir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, metadataFile)); err != nil {
		return err
	}
	if err := os.RemoveAll(runDir); err != nil {
		return err
	}
	if s.catalog != nil {
		return s.catalog.Delete(runID)
	}
	return nil
}

// List returns all readable runs, oldest first.
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
		return nil, err
	}
	return &meta, nil
}

// LoadBuffers reads the saved trajectory buffers, indexed by trajectory.
func (s *Store) LoadBuffers(runID string) ([][]dynamo.Vec3, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, buffersFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	buffers := make([][]dynamo.Vec3, 0)
	for line, record := range records {
		if line == 0 {
			continue
		}
		if len(record) != 5 {
			return nil, fmt.Errorf("%s line %d: expected 5 fields, got %d", buffersFile, line+1, len(record))
		}

		ti, err := strconv.Atoi(record[0])
		if err != nil || ti < 0 {
			return nil, fmt.Errorf("%s line %d: bad trajectory index %q", buffersFile, line+1, record[0])
		}
		var coords [3]float64
		for k := range coords {
			coords[k], err = strconv.ParseFloat(record[2+k], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", buffersFile, line+1, err)
			}
		}

		for len(buffers) <= ti {
			buffers = append(buffers, nil)
		}
		buffers[ti] = append(buffers[ti], dynamo.Vec3{X: coords[0], Y: coords[1], Z: coords[2]})
	}
	return buffers, nil
}
