package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := OpenCatalog("", t.TempDir())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalogRecordsSaves(t *testing.T) {
	cat := openCatalog(t)
	if cat.Dialect() != "sqlite" {
		t.Errorf("expected sqlite dialect, got %s", cat.Dialect())
	}

	st := New(t.TempDir()).WithCatalog(cat)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save(newSim(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	recs, err := cat.Query("Lorenz")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != runID {
		t.Fatalf("expected run %s in catalog, got %+v", runID, recs)
	}
	if recs[0].Trajectories != 2 || recs[0].Steps != 20 || recs[0].Rho != 28 {
		t.Errorf("unexpected record %+v", recs[0])
	}
	initial, err := recs[0].InitialConditions()
	if err != nil || len(initial) != 2 {
		t.Errorf("expected 2 stored initial conditions, got %v, %v", initial, err)
	}

	other, err := cat.Query("Moon")
	if err != nil || len(other) != 0 {
		t.Errorf("expected no Moon runs, got %v, %v", other, err)
	}

	if err := st.Delete(runID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if recs, _ := cat.Query(""); len(recs) != 0 {
		t.Errorf("expected empty catalog after delete, got %d", len(recs))
	}
	if _, err := st.Load(runID); !os.IsNotExist(err) {
		t.Errorf("expected run directory to be gone, got %v", err)
	}
}

func TestSaveWithClosedCatalogKeepsRun(t *testing.T) {
	cat, err := OpenCatalog("", t.TempDir())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	if err := cat.Close(); err != nil {
		t.Fatal(err)
	}

	st := New(t.TempDir()).WithCatalog(cat)
	runID, err := st.Save(newSim(t))
	if !errors.Is(err, ErrNotIndexed) {
		t.Fatalf("expected ErrNotIndexed, got %v", err)
	}
	if runID == "" {
		t.Fatal("expected the run id even when indexing fails")
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("run should be on disk: %v", err)
	}
	if meta.Steps != 20 {
		t.Errorf("expected 20 steps, got %d", meta.Steps)
	}
	if _, err := st.LoadBuffers(runID); err != nil {
		t.Errorf("buffers should be on disk: %v", err)
	}
}

func TestCatalogReindex(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := st.Save(newSim(t)); err != nil {
			t.Fatal(err)
		}
	}

	cat := openCatalog(t)
	n, err := cat.Reindex(st)
	if err != nil || n != 3 {
		t.Fatalf("expected 3 runs reindexed, got %d, %v", n, err)
	}
	// reindexing twice must not duplicate rows
	if _, err := cat.Reindex(st); err != nil {
		t.Fatal(err)
	}
	recs, _ := cat.Query("")
	if len(recs) != 3 {
		t.Errorf("expected 3 rows, got %d", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].CreatedAt.Before(recs[i-1].CreatedAt) {
			t.Error("query should order by creation time")
		}
	}
}

func TestOpenCatalogExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	c, err := OpenCatalog(path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()
	if _, err := c.Query(""); err != nil {
		t.Errorf("query on fresh catalog: %v", err)
	}
}
