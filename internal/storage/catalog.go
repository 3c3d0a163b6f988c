package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/san-kum/lorenztrail/internal/dynamo"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const catalogFile = "catalog.db"

// RunRecord is the catalog row for one saved run.
type RunRecord struct {
	ID           string `gorm:"primaryKey"`
	ParameterSet string `gorm:"index"`
	Rho          float64
	Sigma        float64
	Beta         float64
	Dt           float64
	MaxPoints    int
	Steps        int
	Trajectories int
	NonFinite    int
	Initial      datatypes.JSON
	CreatedAt    time.Time `gorm:"index"`
}

// InitialConditions decodes the starting points stored with the row.
func (r RunRecord) InitialConditions() ([]dynamo.Vec3, error) {
	var out []dynamo.Vec3
	if len(r.Initial) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Initial, &out); err != nil {
		return nil, fmt.Errorf("run %s initial conditions: %w", r.ID, err)
	}
	return out, nil
}

// Catalog indexes run metadata in a SQL database so runs can be queried
// without reading every run directory.
type Catalog struct {
	db *gorm.DB
}

// OpenCatalog connects to Postgres when dsn looks like a Postgres DSN,
// otherwise to a SQLite file. An empty dsn uses catalog.db in dataDir.
func OpenCatalog(dsn, dataDir string) (*Catalog, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.HasPrefix(dsn, "host="):
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	case dsn == "":
		dialector = sqlite.Open(filepath.Join(dataDir, catalogFile))
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("migrating catalog: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Dialect reports the backing database ("sqlite" or "postgres").
func (c *Catalog) Dialect() string { return c.db.Dialector.Name() }

func recordFor(meta RunMetadata) (RunRecord, error) {
	initial, err := json.Marshal(meta.InitialConditions)
	if err != nil {
		return RunRecord{}, err
	}
	return RunRecord{
		ID:           meta.ID,
		ParameterSet: meta.ParameterSet,
		Rho:          meta.Params.Rho,
		Sigma:        meta.Params.Sigma,
		Beta:         meta.Params.Beta,
		Dt:           meta.Dt,
		MaxPoints:    meta.MaxPoints,
		Steps:        meta.Steps,
		Trajectories: len(meta.InitialConditions),
		NonFinite:    meta.NonFinite,
		Initial:      datatypes.JSON(initial),
		CreatedAt:    meta.Timestamp,
	}, nil
}

// Record inserts or replaces the row for meta.
func (c *Catalog) Record(meta RunMetadata) error {
	rec, err := recordFor(meta)
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", meta.ID, err)
	}
	return c.db.Save(&rec).Error
}

// Query returns runs oldest first, limited to one parameter set when set
// is non-empty.
func (c *Catalog) Query(set string) ([]RunRecord, error) {
	q := c.db.Order("created_at")
	if set != "" {
		q = q.Where("parameter_set = ?", set)
	}
	var out []RunRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Catalog) Delete(id string) error {
	return c.db.Delete(&RunRecord{}, "id = ?", id).Error
}

// Reindex rebuilds the catalog from the run directories of s.
func (c *Catalog) Reindex(s *Store) (int, error) {
	runs, err := s.List()
	if err != nil {
		return 0, err
	}
	for _, meta := range runs {
		if err := c.Record(meta); err != nil {
			return 0, err
		}
	}
	return len(runs), nil
}

func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
