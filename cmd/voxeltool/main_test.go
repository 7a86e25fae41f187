package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/voxelgrid/internal/config"
	"github.com/Faultbox/voxelgrid/internal/metrics"
	"github.com/Faultbox/voxelgrid/pkg/math"
	"github.com/Faultbox/voxelgrid/pkg/voxel"
)

func testGrid(t *testing.T) *voxel.Grid {
	t.Helper()
	g, err := voxel.NewUniformGrid(math.AABB{Max: math.Splat(8)}, 8, false)
	require.NoError(t, err)
	return g
}

func TestRandomRaysDeterministic(t *testing.T) {
	box := math.AABB{Max: math.Splat(4)}
	a := randomRays(box, 100, 3)
	b := randomRays(box, 100, 3)
	require.Len(t, a, 100)
	require.Equal(t, a, b)

	for _, r := range a {
		require.InDelta(t, 1, r.Direction.Length(), 1e-5)
	}
}

func TestRunBenchIndependentOfWorkers(t *testing.T) {
	g := testGrid(t)
	rays := randomRays(g.Box(), 500, 7)

	reg := prometheus.NewRegistry()
	single := runBench(g, rays, 1, metrics.NewTraversal(reg))
	multi := runBench(g, rays, 4, metrics.NewTraversal(prometheus.NewRegistry()))

	require.Equal(t, 500, single.Rays)
	require.Equal(t, 4, multi.Workers)
	require.Equal(t, single.Hits, multi.Hits)
	require.Equal(t, single.Visits, multi.Visits)
	require.Greater(t, single.Hits, 0)

	summary, err := metrics.Gather(reg)
	require.NoError(t, err)
	require.Equal(t, float64(single.Hits), summary[`voxel_rays_marched_total{outcome="hit"}`])
	require.Equal(t, float64(single.Rays-single.Hits), summary[`voxel_rays_marched_total{outcome="miss"}`])
	require.Equal(t, float64(single.Visits), summary["voxel_cells_visited_total"])
}

func TestRunBenchMoreWorkersThanRays(t *testing.T) {
	g := testGrid(t)
	rays := randomRays(g.Box(), 3, 1)

	res := runBench(g, rays, 16, metrics.NewTraversal(prometheus.NewRegistry()))
	require.Equal(t, 3, res.Workers)
	require.Equal(t, 3, res.Rays)
}

func TestBucketPoints(t *testing.T) {
	g, err := voxel.NewUniformGrid(math.AABB{Max: math.Splat(2)}, 2, false)
	require.NoError(t, err)

	points := []math.Vec3{
		{X: 0.5, Y: 0.5, Z: 0.5},
		{X: 0.2, Y: 0.9, Z: 0.1},
		{X: 2, Y: 2, Z: 2},
		{X: -1, Y: 0, Z: 0},
	}
	counts, outside := bucketPoints(g, points)
	require.Equal(t, 1, outside)

	n, err := counts.At(0)
	require.NoError(t, err)
	require.Equal(t, 2, *n)

	last, err := counts.At(g.NumCells() - 1)
	require.NoError(t, err)
	require.Equal(t, 1, *last)

	require.Equal(t, []int{0, 7}, counts.SelectIDs(func(n int) bool { return n > 0 }))
}

func TestCmdMarch(t *testing.T) {
	var out bytes.Buffer
	err := cmdMarch(&out, config.Default(), []string{"0.5", "0.5", "0.5", "1", "0", "0"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, "10 cells", lines[0])
	require.Len(t, lines, 11)
	require.Equal(t, "0\t(0, 0, 0)", lines[1])
	require.Equal(t, "900\t(9, 0, 0)", lines[10])
}

func TestCmdMarchUsage(t *testing.T) {
	err := cmdMarch(&bytes.Buffer{}, config.Default(), []string{"1", "2"})
	require.ErrorIs(t, err, errUsage)

	err = cmdMarch(&bytes.Buffer{}, config.Default(), []string{"a", "0", "0", "1", "0", "0"})
	require.Error(t, err)
}

func TestCmdID(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdID(&out, config.Default(), []string{"123"}))
	require.Contains(t, out.String(), "Cell: (1, 2, 3)")

	err := cmdID(&bytes.Buffer{}, config.Default(), []string{"1000"})
	require.ErrorIs(t, err, voxel.ErrOutOfRange)
}

func TestCmdCell(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdCell(&out, config.Default(), []string{"10", "0.5", "3.5"}))

	s := out.String()
	require.Contains(t, s, "Inside:   true")
	require.Contains(t, s, "Cell:     (10, 0, 3)")
	require.Contains(t, s, "Clamped:  (9, 0, 3)")
	require.Contains(t, s, "ID:       none")
	require.Contains(t, s, "Offset:   0.5")
}

func TestCmdInfoJSON(t *testing.T) {
	*flagJSON = true
	defer func() { *flagJSON = false }()

	cfg := config.Default()
	cfg.Grid.Max = [3]float32{10, 2, 4}
	cfg.Grid.Dims = [3]int{5, 5, 5}
	cfg.Grid.ForceCube = true

	var out bytes.Buffer
	require.NoError(t, cmdInfo(&out, cfg, nil))

	var info gridInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	require.Equal(t, [3]int{5, 1, 2}, info.Dims)
	require.Equal(t, 10, info.Cells)
	require.Equal(t, [3]float32{5, 1, 2}, info.Center)
}

func TestCmdMeshSingleCell(t *testing.T) {
	*flagCell = "1,2,3"
	defer func() { *flagCell = "" }()

	var out bytes.Buffer
	require.NoError(t, cmdMesh(&out, config.Default(), nil))

	vertices := 0
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "v ") {
			vertices++
		}
	}
	require.Equal(t, voxel.CellVertexCount, vertices)
}

func TestCmdMeshInvalidCell(t *testing.T) {
	*flagCell = "10,0,0"
	defer func() { *flagCell = "" }()

	err := cmdMesh(&bytes.Buffer{}, config.Default(), nil)
	require.ErrorIs(t, err, voxel.ErrOutOfRange)
}

func TestCmdBucketWritesMesh(t *testing.T) {
	dir := t.TempDir()
	pointsPath := filepath.Join(dir, "points.xyz")
	require.NoError(t, os.WriteFile(pointsPath, []byte("0 0 0\n0.5 0.5 0.5\n4 4 4\n"), 0644))

	*flagFit = true
	*flagMinCount = 2
	defer func() {
		*flagFit = false
		*flagMinCount = 1
	}()

	cfg := config.Default()
	cfg.Grid.Dims = [3]int{2, 2, 2}
	cfg.Output.Format = config.FormatJSON
	cfg.Output.Path = filepath.Join(dir, "occupied.json")

	var out bytes.Buffer
	require.NoError(t, cmdBucket(&out, cfg, []string{pointsPath}))
	require.Contains(t, out.String(), "3 points, 0 outside, 1 cells with >= 2 points")

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)

	var m struct {
		Vertices  [][3]float32 `json:"vertices"`
		Triangles [][3]uint32  `json:"triangles"`
	}
	require.NoError(t, json.Unmarshal(data, &m))
	require.Len(t, m.Vertices, voxel.CellVertexCount)
	require.Len(t, m.Triangles, 12)
}

func TestBenchResultRate(t *testing.T) {
	require.Zero(t, benchResult{Rays: 100}.Rate())
	require.Equal(t, 50.0, benchResult{Rays: 100, Elapsed: 2 * time.Second}.Rate())
}

func TestCmdConfigSaveTo(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.Dims = [3]int{32, 16, 8}
	cfg.Grid.ForceCube = true

	path := filepath.Join(t.TempDir(), "nested", config.FileName)
	var out bytes.Buffer
	require.NoError(t, cmdConfig(&out, cfg, []string{path}))
	require.Equal(t, "Saved "+path+"\n", out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var saved config.Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	require.Equal(t, *cfg, saved)
}

func TestCmdConfigSaveDefaultDir(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("config dir is not redirected by XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	require.NoError(t, cmdConfig(&out, config.Default(), nil))

	path := filepath.Join(config.ConfigDir(), config.FileName)
	require.FileExists(t, path)
	require.Contains(t, out.String(), path)

	err := cmdConfig(&bytes.Buffer{}, config.Default(), []string{"a", "b"})
	require.ErrorIs(t, err, errUsage)
}
