package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/aerial.sampling/internal/config"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
	"github.com/banshee-data/aerial.sampling/internal/planning"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(t *testing.T, seed uint64, count int) *planning.Result {
	t.Helper()
	cfg := config.DefaultPlannerConfig()
	cfg.SetSeed(seed)
	cfg.SetSampleCount(count)
	res, err := planning.Run(cfg, []obstacle.Record{
		{North: 0, East: 0, Alt: 5, DNorth: 2, DEast: 3, DAlt: 1},
		{North: 6, East: -4, Alt: 2, DNorth: 1.5, DEast: 0.5, DAlt: 2},
	})
	require.NoError(t, err)
	return res
}

func TestOpen_Migrates(t *testing.T) {
	s := openTestStore(t)
	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	for _, table := range []string{"sampling_runs", "sampling_points", "sampling_obstacles"} {
		var n int
		require.NoError(t, s.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n))
		assert.Equal(t, 1, n, "table %s", table)
	}

	// Re-running is a no-op.
	require.NoError(t, s.MigrateUp())
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.SaveRun(testRun(t, 3, 20))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, 20, got.SampleCount)
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	res := testRun(t, 42, 200)

	id, err := s.SaveRun(res)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	run, err := s.GetRun(id)
	require.NoError(t, err)
	feasible, occupied := res.Counts()
	assert.Equal(t, uint64(42), run.Seed)
	assert.Equal(t, res.Index, run.Index)
	assert.Equal(t, 2, run.Obstacles)
	assert.Equal(t, 200, run.SampleCount)
	assert.Equal(t, feasible, run.Feasible)
	assert.Equal(t, occupied, run.Occupied)
	assert.Equal(t, res.Bounds, run.Bounds)
	assert.Equal(t, res.Started.UnixNano(), run.Started.UnixNano())

	samples, err := s.LoadSamples(id)
	require.NoError(t, err)
	assert.Equal(t, res.Samples, samples)
}

func TestSaveRun_LargeSeed(t *testing.T) {
	s := openTestStore(t)
	res := testRun(t, 1<<63+12345, 5)
	id, err := s.SaveRun(res)
	require.NoError(t, err)

	run, err := s.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63+12345), run.Seed)
}

func TestLoadObstacles_RebuildsSet(t *testing.T) {
	s := openTestStore(t)
	res := testRun(t, 8, 10)
	id, err := s.SaveRun(res)
	require.NoError(t, err)

	records, err := s.LoadObstacles(id)
	require.NoError(t, err)
	require.Len(t, records, 2)

	rebuilt, err := obstacle.NewSet(records)
	require.NoError(t, err)
	for i, want := range res.Obstacles.Obstacles() {
		got := rebuilt.At(i)
		assert.InDelta(t, want.Height, got.Height, 1e-12)
		for j, c := range want.Corners() {
			assert.InDelta(t, c[0], got.Corners()[j][0], 1e-12)
			assert.InDelta(t, c[1], got.Corners()[j][1], 1e-12)
		}
	}
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	runs, err := s.ListRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := s.SaveRun(testRun(t, 1, 10))
	require.NoError(t, err)
	second, err := s.SaveRun(testRun(t, 2, 10))
	require.NoError(t, err)

	runs, err = s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "most recent first")
	assert.Equal(t, first, runs[1].ID)
}

func TestMissingRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetRun("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	_, err = s.LoadSamples("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	_, err = s.LoadObstacles("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	assert.True(t, errors.Is(s.DeleteRun("nope"), ErrRunNotFound))
}

func TestDeleteRun_Cascades(t *testing.T) {
	s := openTestStore(t)
	id, err := s.SaveRun(testRun(t, 5, 30))
	require.NoError(t, err)
	require.NoError(t, s.DeleteRun(id))

	for _, table := range []string{"sampling_points", "sampling_obstacles"} {
		var n int
		require.NoError(t, s.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE run_id = ?`, id).Scan(&n))
		assert.Zero(t, n, "orphaned rows in %s", table)
	}
}

func TestSaveRun_Nil(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SaveRun(nil)
	assert.Error(t, err)
}
