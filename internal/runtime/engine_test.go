package runtime_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/recolor/internal/runtime"
	"github.com/aretw0/recolor/internal/testutils"
	"github.com/aretw0/recolor/pkg/adapters/memory"
	"github.com/aretw0/recolor/pkg/domain"
)

var (
	tokenA = strings.Repeat("a", 40)
	tokenB = strings.Repeat("b", 40)
)

func whiteToTokenA() domain.Tables {
	return domain.Tables{
		Colors: []domain.MappingEntry{{Key: "#FFFFFF", MappedKey: tokenA}},
	}
}

func rect(id string, fills ...domain.Paint) *testutils.Node {
	return &testutils.Node{NodeID: id, NodeName: id, NodeKind: domain.KindRectangle, Fills: fills}
}

func progressMessages(em *testutils.RecordingEmitter) []string {
	var out []string
	for _, ev := range em.Events {
		if ev.Type == domain.EventProgress {
			out = append(out, ev.Payload.(domain.MessagePayload).Message)
		}
	}
	return out
}

func TestEngine_Convert_BindsLiteralColor(t *testing.T) {
	node := rect("r1", testutils.Solid(255, 255, 255))
	notifier := &testutils.RecordingNotifier{}
	emitter := &testutils.RecordingEmitter{}

	engine := runtime.NewEngine(
		testutils.Selection{node},
		memory.NewLibrary(domain.Variable{Key: tokenA}),
		memory.Binder{},
		runtime.WithTables(whiteToTokenA()),
		runtime.WithNotifier(notifier),
	)

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, emitter)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusComplete, out.Status)
	assert.Equal(t, domain.PhaseComplete, out.Phase)
	assert.Equal(t, 1, out.Found)
	assert.Equal(t, 1, out.Processed)
	assert.Equal(t, 1, out.Converted)
	assert.Empty(t, out.ImportFailures)

	require.Len(t, node.Fills, 1)
	assert.Equal(t, "VariableID:"+tokenA+"/0:0", node.Fills[0].BoundID(domain.ChannelColor))
	assert.Equal(t, testutils.Solid(255, 255, 255).Color, node.Fills[0].Color)

	assert.Equal(t, []domain.EventType{
		domain.EventNodesFound,
		domain.EventProgress,
		domain.EventProgress,
		domain.EventProgress,
		domain.EventProgress,
		domain.EventNodesConverted,
		domain.EventComplete,
	}, emitter.Types())
	assert.Equal(t, domain.NodesFoundPayload{Total: 1}, emitter.Find(t, domain.EventNodesFound).Payload)
	assert.Equal(t, domain.NodesConvertedPayload{Converted: 1}, emitter.Find(t, domain.EventNodesConverted).Payload)
	assert.Equal(t, []string{
		"Found 1 nodes to process. Importing variables...",
		"Variables imported. Starting node conversion...",
		"Processing node 1/1... (r1)",
		"Conversion complete. Processed 1 nodes.",
	}, progressMessages(emitter))

	assert.Empty(t, notifier.Errors())
	require.Len(t, notifier.Items, 1)
	assert.Equal(t, "Conversion complete. Processed 1 nodes.", notifier.Items[0].Message)
}

func TestEngine_Convert_ImportFailureIsIsolated(t *testing.T) {
	node := rect("r1", testutils.Solid(255, 255, 255))
	lib := memory.NewLibrary(domain.Variable{Key: tokenA})
	lib.Fail(tokenA, errors.New("not published"))
	notifier := &testutils.RecordingNotifier{}
	emitter := &testutils.RecordingEmitter{}

	engine := runtime.NewEngine(testutils.Selection{node}, lib, memory.Binder{},
		runtime.WithTables(whiteToTokenA()),
		runtime.WithNotifier(notifier),
	)

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, emitter)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusComplete, out.Status)
	assert.Equal(t, 0, out.Converted)
	assert.Equal(t, []string{tokenA}, out.ImportFailures)
	assert.Empty(t, node.Fills[0].BoundVariables)
	assert.Zero(t, node.SetPaintsN)

	assert.Equal(t, []string{
		fmt.Sprintf("Error importing variable key %s. Ensure it's published.", tokenA),
	}, notifier.Errors())
	assert.Equal(t, domain.NodesConvertedPayload{Converted: 0}, emitter.Find(t, domain.EventNodesConverted).Payload)
	emitter.Find(t, domain.EventComplete)
}

func TestEngine_Convert_Idempotent(t *testing.T) {
	node := rect("r1", testutils.Solid(255, 255, 255))
	engine := runtime.NewEngine(testutils.Selection{node},
		memory.NewLibrary(domain.Variable{Key: tokenA}),
		memory.Binder{},
		runtime.WithTables(whiteToTokenA()),
	)

	first, err := engine.Convert(context.Background(), domain.ConvertRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Converted)
	writes := node.SetPaintsN

	second, err := engine.Convert(context.Background(), domain.ConvertRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Converted)
	assert.Equal(t, 1, second.Processed)
	assert.Equal(t, writes, node.SetPaintsN, "second run must not write back")
}

func TestEngine_Convert_UnmappedNodeNotCounted(t *testing.T) {
	node := rect("r1", testutils.Solid(255, 0, 0))
	engine := runtime.NewEngine(testutils.Selection{node},
		memory.NewLibrary(domain.Variable{Key: tokenA}),
		memory.Binder{},
		runtime.WithTables(whiteToTokenA()),
	)

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Processed)
	assert.Equal(t, 0, out.Converted)
	assert.Zero(t, node.SetPaintsN)
}

func TestEngine_Convert_NodeLimit(t *testing.T) {
	tests := []struct {
		name       string
		nodes      int
		wantStatus domain.Status
	}{
		{name: "AtLimit", nodes: 2, wantStatus: domain.StatusComplete},
		{name: "OverLimit", nodes: 3, wantStatus: domain.StatusLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sel testutils.Selection
			var nodes []*testutils.Node
			for i := 0; i < tt.nodes; i++ {
				n := rect(fmt.Sprintf("r%d", i), testutils.Solid(255, 255, 255))
				nodes = append(nodes, n)
				sel = append(sel, n)
			}
			notifier := &testutils.RecordingNotifier{}
			emitter := &testutils.RecordingEmitter{}
			engine := runtime.NewEngine(sel,
				memory.NewLibrary(domain.Variable{Key: tokenA}),
				memory.Binder{},
				runtime.WithTables(whiteToTokenA()),
				runtime.WithNodeLimit(2),
				runtime.WithNotifier(notifier),
			)

			out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, emitter)
			assert.Equal(t, tt.wantStatus, out.Status)

			if tt.wantStatus == domain.StatusComplete {
				require.NoError(t, err)
				assert.Equal(t, tt.nodes, out.Converted)
				return
			}

			require.ErrorIs(t, err, domain.ErrNodeLimitExceeded)
			assert.Equal(t, domain.PhaseLimitExceeded, out.Phase)
			assert.Equal(t, []domain.EventType{domain.EventNodesFound, domain.EventLimitExceeded}, emitter.Types())
			assert.Equal(t, domain.LimitExceededPayload{Limit: 2}, emitter.Find(t, domain.EventLimitExceeded).Payload)
			assert.Equal(t, []string{
				"The number of selected nodes exceeds the limit (2). Please reduce your selection and try again.",
			}, notifier.Errors())
			for _, n := range nodes {
				assert.Zero(t, n.SetPaintsN, "no node may be touched over the limit")
			}
		})
	}
}

func TestEngine_Convert_EmptySelection(t *testing.T) {
	notifier := &testutils.RecordingNotifier{}
	emitter := &testutils.RecordingEmitter{}
	engine := runtime.NewEngine(testutils.Selection{}, memory.NewLibrary(), memory.Binder{},
		runtime.WithNotifier(notifier),
	)

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, emitter)
	require.ErrorIs(t, err, domain.ErrEmptySelection)
	assert.Equal(t, domain.StatusError, out.Status)
	assert.Equal(t, domain.PhaseError, out.Phase)
	assert.Equal(t, []domain.EventType{domain.EventError}, emitter.Types())
	assert.Equal(t, []string{"Please select one or more frames or nodes."}, notifier.Errors())
}

func TestEngine_Convert_NoConvertibleNodes(t *testing.T) {
	group := &testutils.Node{NodeID: "g1", NodeName: "Group", NodeKind: domain.KindGroup}
	emitter := &testutils.RecordingEmitter{}
	engine := runtime.NewEngine(testutils.Selection{group}, memory.NewLibrary(), memory.Binder{})

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, emitter)
	require.ErrorIs(t, err, domain.ErrNoConvertibleNodes)
	assert.Equal(t, domain.StatusError, out.Status)
	assert.Equal(t, []domain.EventType{domain.EventNodesFound, domain.EventError}, emitter.Types())
	assert.Equal(t, domain.NodesFoundPayload{Total: 0}, emitter.Find(t, domain.EventNodesFound).Payload)
	assert.Equal(t, domain.MessagePayload{Message: "No convertible nodes found in selection."},
		emitter.Find(t, domain.EventError).Payload)
}

func TestEngine_Convert_HostWriteFailure(t *testing.T) {
	ok := rect("r1", testutils.Solid(255, 255, 255))
	broken := rect("r2", testutils.Solid(255, 255, 255))
	broken.SetPaintsErr = errors.New("node is locked")
	after := rect("r3", testutils.Solid(255, 255, 255))
	notifier := &testutils.RecordingNotifier{}
	emitter := &testutils.RecordingEmitter{}

	engine := runtime.NewEngine(testutils.Selection{ok, broken, after},
		memory.NewLibrary(domain.Variable{Key: tokenA}),
		memory.Binder{},
		runtime.WithTables(whiteToTokenA()),
		runtime.WithNotifier(notifier),
	)

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, emitter)
	require.NoError(t, err, "a rejected write skips the list, not the run")
	assert.Equal(t, domain.StatusComplete, out.Status)
	assert.Equal(t, 3, out.Processed)
	assert.Equal(t, 2, out.Converted)
	assert.Equal(t, 1, out.WriteFailures)

	assert.Empty(t, broken.Fills[0].BoundID(domain.ChannelColor))
	assert.Equal(t, "VariableID:"+tokenA+"/0:0", after.Fills[0].BoundID(domain.ChannelColor))
	assert.Equal(t, 1, after.SetPaintsN)

	assert.Contains(t, emitter.Types(), domain.EventComplete)
	assert.Equal(t, domain.NodesConvertedPayload{Converted: 2}, emitter.Find(t, domain.EventNodesConverted).Payload)
	assert.Empty(t, notifier.Errors())
}

func TestEngine_Convert_ClearStyleFailureFallsBackToPaintTables(t *testing.T) {
	styleKey := strings.Repeat("5", 40)
	node := rect("r1", testutils.Solid(255, 255, 255))
	node.FillStyle = "S:" + styleKey + ",1:1"
	node.ClearStyleErr = errors.New("style is read-only")

	tables := whiteToTokenA()
	tables.Styles = []domain.MappingEntry{{Key: styleKey, MappedKey: tokenB}}

	engine := runtime.NewEngine(testutils.Selection{node},
		memory.NewLibrary(domain.Variable{Key: tokenA}, domain.Variable{Key: tokenB}),
		memory.Binder{},
		runtime.WithTables(tables),
	)

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, out.Status)
	assert.Equal(t, 1, out.Converted)
	assert.Zero(t, out.WriteFailures, "the fallback write succeeded")
	assert.Zero(t, out.StylesCleared)
	assert.Equal(t, "VariableID:"+tokenA+"/0:0", node.Fills[0].BoundID(domain.ChannelColor),
		"the color table binds the paint instead of the style token")
	assert.Equal(t, "S:"+styleKey+",1:1", node.FillStyle)
}

func TestEngine_Convert_StyleOnlyClearIsCounted(t *testing.T) {
	styleKey := strings.Repeat("5", 40)
	node := &testutils.Node{NodeID: "r1", NodeKind: domain.KindRectangle,
		Fills: []domain.Paint{{Type: domain.PaintImage}}, FillStyle: "S:" + styleKey + ",1:1"}
	req := domain.ConvertRequest{AdvancedRules: []domain.AdvancedMappingEntry{
		{ID: "style", Kind: domain.RuleStyle, Key: "S:" + styleKey + ",2:2", MappedKey: tokenA, Target: domain.TargetFill, Enabled: true},
	}}

	engine := runtime.NewEngine(testutils.Selection{node},
		memory.NewLibrary(domain.Variable{Key: tokenA}),
		memory.Binder{},
	)

	out, err := engine.Convert(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Zero(t, out.Converted, "no paint changed")
	assert.Equal(t, 1, out.StylesCleared)
	assert.Empty(t, node.FillStyle)
}

func TestEngine_Convert_RulePartitionByTarget(t *testing.T) {
	tokenC := strings.Repeat("c", 40)
	tokenE := strings.Repeat("e", 40)
	node := rect("r1", testutils.Solid(255, 255, 255))
	node.Strokes = []domain.Paint{testutils.Solid(255, 255, 255)}
	req := domain.ConvertRequest{AdvancedRules: []domain.AdvancedMappingEntry{
		{ID: "fill", Kind: domain.RuleHex, Key: "#FFFFFF", MappedKey: tokenC, Target: domain.TargetFill, Enabled: true},
		{ID: "stroke", Kind: domain.RuleHex, Key: "#ffffff", MappedKey: tokenE, Target: domain.TargetStroke, Enabled: true},
	}}

	engine := runtime.NewEngine(testutils.Selection{node},
		memory.NewLibrary(domain.Variable{Key: tokenC}, domain.Variable{Key: tokenE}),
		memory.Binder{},
	)

	out, err := engine.Convert(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Converted)
	assert.Equal(t, "VariableID:"+tokenC+"/0:0", node.Fills[0].BoundID(domain.ChannelColor))
	assert.Equal(t, "VariableID:"+tokenE+"/0:0", node.Strokes[0].BoundID(domain.ChannelColor))
}

func TestEngine_Convert_HostPanicAborts(t *testing.T) {
	engine := runtime.NewEngine(testutils.Selection{panicNode{rect("r1", testutils.Solid(255, 255, 255))}},
		memory.NewLibrary(domain.Variable{Key: tokenA}),
		memory.Binder{},
		runtime.WithTables(whiteToTokenA()),
	)

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, nil)
	require.Error(t, err)
	assert.Equal(t, domain.StatusError, out.Status)
	assert.Contains(t, out.Message, "host exploded")
}

type panicNode struct{ *testutils.Node }

func (panicNode) SetPaints(domain.PaintTarget, []domain.Paint) error {
	panic("host exploded")
}

func TestEngine_Convert_ProgressCadence(t *testing.T) {
	var sel testutils.Selection
	for i := 1; i <= 25; i++ {
		sel = append(sel, rect(fmt.Sprintf("n%d", i), testutils.Solid(0, 0, 0)))
	}
	emitter := &testutils.RecordingEmitter{}
	engine := runtime.NewEngine(sel, memory.NewLibrary(), memory.Binder{}, runtime.WithProgressEvery(10))

	_, err := engine.Convert(context.Background(), domain.ConvertRequest{}, emitter)
	require.NoError(t, err)

	var processing []string
	for _, m := range progressMessages(emitter) {
		if strings.HasPrefix(m, "Processing node") {
			processing = append(processing, m)
		}
	}
	assert.Equal(t, []string{
		"Processing node 10/25... (n10)",
		"Processing node 20/25... (n20)",
		"Processing node 25/25... (n25)",
	}, processing)
}

func TestEngine_Convert_FillsAndStrokesIndependent(t *testing.T) {
	node := rect("r1", testutils.Solid(255, 255, 255))
	node.Strokes = []domain.Paint{testutils.BoundSolid(0, 0, 0, "VariableID:"+tokenB+"/1:2")}

	tables := whiteToTokenA()
	tables.Variables = []domain.MappingEntry{{Key: tokenB, MappedKey: tokenA}}

	engine := runtime.NewEngine(testutils.Selection{node},
		memory.NewLibrary(domain.Variable{Key: tokenA}),
		memory.Binder{},
		runtime.WithTables(tables),
	)

	out, err := engine.Convert(context.Background(), domain.ConvertRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Converted, "a node counts once even when both lists change")
	assert.Equal(t, "VariableID:"+tokenA+"/0:0", node.Fills[0].BoundID(domain.ChannelColor))
	assert.Equal(t, "VariableID:"+tokenA+"/0:0", node.Strokes[0].BoundID(domain.ChannelColor))
}

func TestEngine_LifecycleHooks(t *testing.T) {
	nodes := testutils.Selection{
		rect("r1", testutils.Solid(255, 255, 255)),
		rect("r2", testutils.Solid(10, 10, 10)),
	}
	lib := memory.NewLibrary()
	tables := whiteToTokenA()
	tables.Colors = append(tables.Colors, domain.MappingEntry{Key: "#0A0A0A", MappedKey: tokenB})
	lib.Publish(domain.Variable{Key: tokenA})

	var (
		started   int
		converted []bool
		failed    []string
		finished  *domain.Outcome
	)
	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			started++
			assert.Equal(t, 1, e.Rules)
		},
		OnNodeConverted: func(_ context.Context, e *domain.NodeEvent) {
			converted = append(converted, e.Changed)
		},
		OnImportFailure: func(_ context.Context, e *domain.ImportFailureEvent) {
			failed = append(failed, e.Key)
			assert.ErrorIs(t, e.Err, domain.ErrVariableNotFound)
		},
		OnRunFinish: func(_ context.Context, o *domain.Outcome) {
			finished = o
		},
	}

	engine := runtime.NewEngine(nodes, lib, memory.Binder{},
		runtime.WithTables(tables),
		runtime.WithLifecycleHooks(hooks),
	)
	req := domain.ConvertRequest{AdvancedRules: []domain.AdvancedMappingEntry{
		{ID: "on", Kind: domain.RuleHex, Key: "#123456", MappedKey: tokenA, Target: domain.TargetFill, Enabled: true},
		{ID: "off", Kind: domain.RuleHex, Key: "#654321", MappedKey: tokenA, Target: domain.TargetFill},
	}}

	out, err := engine.Convert(context.Background(), req, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, started)
	assert.Equal(t, []bool{true, false}, converted)
	assert.Equal(t, []string{tokenB}, failed)
	require.NotNil(t, finished)
	assert.Equal(t, domain.StatusComplete, finished.Status)
	assert.Equal(t, out.Converted, finished.Converted)
}
