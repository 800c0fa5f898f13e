package memory_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/recolor/pkg/adapters/memory"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/ports"
	"github.com/aretw0/recolor/pkg/ports/tests"
)

func white() domain.Paint {
	return domain.Paint{Type: domain.PaintSolid, Color: domain.RGB{R: 1, G: 1, B: 1}}
}

func TestLibrary_Contract(t *testing.T) {
	seeded := []domain.Variable{
		{Key: "1f0e6f8e0c2b4d5a9a7c3b1d2e4f6a8b0c2d4e6f", ID: "VariableID:1f0e6f8e0c2b4d5a9a7c3b1d2e4f6a8b0c2d4e6f/12:3", Name: "bg/base"},
		{Key: "9a8b7c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f1a0b", ID: "VariableID:9a8b7c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f1a0b/12:4", Name: "border/subtle"},
	}
	ports.RunVariableImporterContract(t, memory.NewLibrary(seeded...), seeded)
}

func TestLibrary_PublishAndFail(t *testing.T) {
	ctx := context.Background()
	lib := memory.NewLibrary()
	lib.Publish(domain.Variable{Key: "ABCDEF"})

	v, err := lib.ImportByKey(ctx, "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "VariableID:abcdef/0:0", v.ID, "missing ids are derived from the key")

	boom := errors.New("library not enabled")
	lib.Fail("abcdef", boom)
	_, err = lib.ImportByKey(ctx, "abcdef")
	assert.ErrorIs(t, err, boom)

	lib.Publish(domain.Variable{Key: "abcdef"})
	_, err = lib.ImportByKey(ctx, "abcdef")
	assert.NoError(t, err, "publishing again clears the failure")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = lib.ImportByKey(cancelled, "abcdef")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []string{"abcdef"}, lib.Keys())
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
variables:
  - key: 5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a
    name: text/primary
`), 0o644))

	lib, err := memory.LoadLibrary(path)
	require.NoError(t, err)
	v, err := lib.ImportByKey(context.Background(), "5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a5a")
	require.NoError(t, err)
	assert.Equal(t, "text/primary", v.Name)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"variables":[{"name":"nokey"}]}`), 0o644))
	_, err = memory.LoadLibrary(bad)
	assert.ErrorContains(t, err, "has no key")
}

func TestLocker_Contract(t *testing.T) {
	tests.LockerContractTest(t, memory.NewLocker())
}

func TestBinder(t *testing.T) {
	v := domain.Variable{Key: "abc", ID: "VariableID:abc/1:1"}

	out, err := memory.Binder{}.Bind(white(), domain.ChannelColor, v)
	require.NoError(t, err)
	assert.Equal(t, v.ID, out.BoundID(domain.ChannelColor))
	assert.Equal(t, white().Color, out.Color)

	_, err = memory.Binder{}.Bind(domain.Paint{Type: domain.PaintImage}, domain.ChannelColor, v)
	assert.Error(t, err)
	_, err = memory.Binder{}.Bind(white(), "opacity", v)
	assert.Error(t, err)
	_, err = memory.Binder{}.Bind(white(), domain.ChannelColor, domain.Variable{Key: "abc"})
	assert.Error(t, err)
}

func TestScene_Validation(t *testing.T) {
	_, err := memory.NewScene(&memory.Document{Nodes: []*memory.NodeSpec{
		{ID: "a", Type: domain.KindRectangle},
		{ID: "a", Type: domain.KindEllipse},
	}})
	assert.ErrorContains(t, err, "duplicate node id")

	_, err = memory.NewScene(&memory.Document{Nodes: []*memory.NodeSpec{
		{ID: "r", Type: domain.KindRectangle, Children: []*memory.NodeSpec{{ID: "c", Type: domain.KindText}}},
	}})
	assert.ErrorContains(t, err, "cannot have children")

	_, err = memory.NewScene(&memory.Document{
		Selection: []string{"missing"},
		Nodes:     []*memory.NodeSpec{{ID: "r", Type: domain.KindRectangle}},
	})
	assert.ErrorContains(t, err, "not found")
}

func TestScene_Capabilities(t *testing.T) {
	scene, err := memory.NewScene(&memory.Document{Nodes: []*memory.NodeSpec{
		{ID: "shape", Type: domain.KindRectangle, Fills: memory.PaintList(white()), Strokes: memory.PaintList()},
		{ID: "frame", Type: domain.KindFrame, Fills: memory.PaintList(), Strokes: memory.PaintList()},
		{ID: "group", Type: domain.KindGroup},
		{ID: "bare", Type: domain.KindVector},
	}})
	require.NoError(t, err)

	capabilities := func(id string) (paintable, composite bool) {
		n, ok := scene.Node(id)
		require.True(t, ok)
		_, paintable = n.(domain.Paintable)
		_, composite = n.(domain.Composite)
		return
	}

	p, c := capabilities("shape")
	assert.True(t, p)
	assert.False(t, c)
	p, c = capabilities("frame")
	assert.True(t, p)
	assert.True(t, c)
	p, c = capabilities("group")
	assert.False(t, p)
	assert.True(t, c)
	p, c = capabilities("bare")
	assert.False(t, p)
	assert.False(t, c)
}

func TestScene_MutationRoundTrip(t *testing.T) {
	scene, err := memory.NewScene(&memory.Document{Nodes: []*memory.NodeSpec{
		{ID: "r1", Type: domain.KindRectangle, Fills: memory.PaintList(white()), Strokes: memory.PaintList(), FillStyleID: "S:abc,1:1"},
	}})
	require.NoError(t, err)

	n, _ := scene.Node("r1")
	node := n.(domain.Paintable)

	paints := node.Paints(domain.TargetFill)
	paints[0].Color.R = 0
	assert.Equal(t, 1.0, node.Paints(domain.TargetFill)[0].Color.R, "Paints returns a copy")

	require.NoError(t, node.SetPaints(domain.TargetFill, paints))
	require.NoError(t, node.ClearStyle(domain.TargetFill))
	assert.Equal(t, 0.0, node.Paints(domain.TargetFill)[0].Color.R)
	assert.Empty(t, node.StyleID(domain.TargetFill))

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, scene.Save(path))
	reloaded, err := memory.LoadScene(path)
	require.NoError(t, err)
	rn, ok := reloaded.Node("r1")
	require.True(t, ok)
	assert.Equal(t, 0.0, rn.(domain.Paintable).Paints(domain.TargetFill)[0].Color.R)
	assert.NotNil(t, rn.(domain.Paintable).Paints(domain.TargetStroke), "empty lists survive a round trip")
}

func TestScene_Selection(t *testing.T) {
	scene, err := memory.NewScene(&memory.Document{Nodes: []*memory.NodeSpec{
		{ID: "a", Type: domain.KindRectangle},
		{ID: "b", Type: domain.KindFrame, Children: []*memory.NodeSpec{{ID: "c", Type: domain.KindText}}},
	}})
	require.NoError(t, err)

	ids := func() []string {
		roots, err := scene.Selection(context.Background())
		require.NoError(t, err)
		var out []string
		for _, r := range roots {
			out = append(out, r.ID())
		}
		return out
	}

	assert.Equal(t, []string{"a", "b"}, ids(), "nothing selected means every top-level node")
	require.NoError(t, scene.Select("c", "a"))
	assert.Equal(t, []string{"c", "a"}, ids())
}
