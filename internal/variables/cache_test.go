package variables_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/recolor/internal/variables"
	"github.com/aretw0/recolor/pkg/domain"
	"github.com/aretw0/recolor/pkg/ports"
)

type mockImporter struct {
	mock.Mock
}

func (m *mockImporter) ImportByKey(ctx context.Context, key string) (domain.Variable, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.Variable), args.Error(1)
}

func key(c string) string {
	return strings.Repeat(c, 40)
}

func TestKeys(t *testing.T) {
	tables := domain.Tables{
		Styles: []domain.MappingEntry{
			{Key: key("1"), MappedKey: key("a")},
			{Key: key("2")}, // inert
		},
		Variables: []domain.MappingEntry{
			{Key: key("3"), MappedKey: "VariableID:" + strings.ToUpper(key("b")) + "/4:5"},
			{Key: key("4"), MappedKey: key("a")},
		},
		Colors: []domain.MappingEntry{
			{Key: "#FFFFFF", MappedKey: key("c")},
			{Key: "#000000", MappedKey: "not-a-key"},
		},
	}
	rules := []domain.AdvancedMappingEntry{
		{ID: "on", MappedKey: key("d"), Enabled: true},
		{ID: "off", MappedKey: key("e")},
	}

	assert.Equal(t, []string{key("a"), key("b"), key("c"), key("d")}, variables.Keys(tables, rules))
}

func TestImportAll_IsolatesFailures(t *testing.T) {
	ctx := context.Background()
	importer := new(mockImporter)
	importer.On("ImportByKey", ctx, key("a")).Return(domain.Variable{Key: key("a"), ID: "VariableID:" + key("a") + "/1:1"}, nil)
	importer.On("ImportByKey", ctx, key("b")).Return(domain.Variable{}, errors.New("unpublished"))
	importer.On("ImportByKey", ctx, key("c")).Return(domain.Variable{Key: key("c"), ID: "VariableID:" + key("c") + "/1:2"}, nil)

	cache := variables.ImportAll(ctx, importer, []string{key("a"), key("b"), key("c")}, 2, nil)

	importer.AssertExpectations(t)
	importer.AssertNumberOfCalls(t, "ImportByKey", 3)
	assert.Equal(t, 2, cache.Len())

	v, ok := cache.Lookup(key("a"))
	require.True(t, ok)
	assert.Equal(t, "VariableID:"+key("a")+"/1:1", v.ID)

	_, ok = cache.Lookup(key("b"))
	assert.False(t, ok, "failed keys are absent")

	v, ok = cache.Lookup("VariableID:" + strings.ToUpper(key("c")) + "/9:9")
	require.True(t, ok, "lookup accepts any id shape of the key")
	assert.Equal(t, key("c"), v.Key)

	require.Len(t, cache.Failures(), 1)
	assert.Equal(t, key("b"), cache.Failures()[0].Key)
	assert.EqualError(t, cache.Failures()[0].Err, "unpublished")
}

func TestImportAll_RecoversPanics(t *testing.T) {
	importer := ports.ImporterFunc(func(_ context.Context, k string) (domain.Variable, error) {
		if k == key("b") {
			panic("library crashed")
		}
		return domain.Variable{Key: k, ID: "VariableID:" + k + "/1:1"}, nil
	})

	cache := variables.ImportAll(context.Background(), importer, []string{key("a"), key("b")}, 0, nil)

	assert.Equal(t, 1, cache.Len())
	require.Len(t, cache.Failures(), 1)
	assert.ErrorContains(t, cache.Failures()[0].Err, "library crashed")
}

func TestImportAll_RunsInParallel(t *testing.T) {
	var inflight, peak atomic.Int32
	importer := ports.ImporterFunc(func(_ context.Context, k string) (domain.Variable, error) {
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		return domain.Variable{Key: k, ID: "VariableID:" + k + "/1:1"}, nil
	})

	keyList := []string{key("a"), key("b"), key("c"), key("d"), key("e"), key("f")}
	cache := variables.ImportAll(context.Background(), importer, keyList, 3, nil)

	assert.Equal(t, 6, cache.Len())
	assert.LessOrEqual(t, peak.Load(), int32(3), "concurrency limit respected")
	assert.Greater(t, peak.Load(), int32(1), "imports overlap")
}

func TestCache_LookupMisses(t *testing.T) {
	var nilCache *variables.Cache
	_, ok := nilCache.Lookup(key("a"))
	assert.False(t, ok)

	cache := variables.ImportAll(context.Background(), ports.ImporterFunc(func(context.Context, string) (domain.Variable, error) {
		return domain.Variable{}, domain.ErrVariableNotFound
	}), nil, 1, nil)
	_, ok = cache.Lookup("garbage")
	assert.False(t, ok)
	assert.Empty(t, cache.Failures())
}
