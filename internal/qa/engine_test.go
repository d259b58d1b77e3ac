package qa

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjagro/content-engine/internal/types"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	mu        sync.Mutex
	snapshots map[uuid.UUID]*Snapshot
	checks    map[uuid.UUID][]types.Check
	loadErr   error
	saveErr   error
	saveCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		snapshots: make(map[uuid.UUID]*Snapshot),
		checks:    make(map[uuid.UUID][]types.Check),
	}
}

func (f *fakeStore) LoadSnapshot(_ context.Context, projectID uuid.UUID) (*Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snapshots[projectID], nil
}

func (f *fakeStore) SaveRun(_ context.Context, projectID uuid.UUID, checks []types.Check, newStatus *types.ProjectStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.checks[projectID] = append([]types.Check(nil), checks...)
	if newStatus != nil {
		f.snapshots[projectID].Project.Status = *newStatus
	}
	return nil
}

func storeWith(snap *Snapshot) (*fakeStore, uuid.UUID) {
	store := newFakeStore()
	store.snapshots[snap.Project.ID] = snap
	return store, snap.Project.ID
}

func readySnapshot() *Snapshot {
	project := testProject(types.PlatformTikTok)
	return &Snapshot{
		Project:  project,
		Product:  testProduct(),
		Hooks:    []types.Hook{testHook("A calm question about pistachios", true)},
		Scripts:  []types.Script{testScript(types.PlatformTikTok, 20, "A clean script.", true)},
		Captions: []types.Caption{testCaption("A clean caption.")},
	}
}

func TestEngineRun_AllPass(t *testing.T) {
	store, id := storeWith(readySnapshot())
	engine := NewEngine(store, DefaultRuleSet())

	report, err := engine.Run(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, report.ProjectID)
	assert.Equal(t, 0, report.Summary.Fail)
	assert.True(t, report.StatusChanged)
	assert.Equal(t, types.StatusPendingApproval, report.Status)
	assert.Equal(t, types.StatusPendingApproval, store.snapshots[id].Project.Status)
	assert.Equal(t, report.Checks, store.checks[id])
	assert.NotEmpty(t, report.Groups)
}

func TestEngineRun_CriticalFailure(t *testing.T) {
	snap := readySnapshot()
	snap.Scripts[0].FullScript = "This will cure everything"
	store, id := storeWith(snap)
	engine := NewEngine(store, DefaultRuleSet())

	report, err := engine.Run(context.Background(), id)
	require.NoError(t, err)

	assert.Greater(t, report.Summary.CriticalFail, 0)
	assert.Equal(t, types.StatusQAFailed, report.Status)
	assert.Equal(t, types.StatusQAFailed, store.snapshots[id].Project.Status)
}

func TestEngineRun_NonCriticalLeavesStatus(t *testing.T) {
	snap := readySnapshot()
	snap.Hooks[0].IsSelected = false
	store, id := storeWith(snap)
	engine := NewEngine(store, DefaultRuleSet())

	report, err := engine.Run(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.Fail)
	assert.Equal(t, 0, report.Summary.CriticalFail)
	assert.False(t, report.StatusChanged)
	assert.Equal(t, types.StatusDraft, report.Status)
	assert.Equal(t, types.StatusDraft, store.snapshots[id].Project.Status)
}

// Running twice with unchanged inputs persists an identical check set.
func TestEngineRun_IdempotentOverwrite(t *testing.T) {
	store, id := storeWith(readySnapshot())
	engine := NewEngine(store, DefaultRuleSet())

	first, err := engine.Run(context.Background(), id)
	require.NoError(t, err)
	firstChecks := append([]types.Check(nil), store.checks[id]...)

	second, err := engine.Run(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first.Checks, second.Checks)
	assert.Equal(t, firstChecks, store.checks[id])
	assert.Len(t, store.checks[id], len(first.Checks), "no accumulation across runs")
}

func TestEngineRun_ProjectNotFound(t *testing.T) {
	engine := NewEngine(newFakeStore(), DefaultRuleSet())

	_, err := engine.Run(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestEngineRun_LoadFailure(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("connection refused")
	engine := NewEngine(store, DefaultRuleSet())

	_, err := engine.Run(context.Background(), uuid.New())
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "load", stageErr.Stage)
	// No evaluation or persistence happens after a load failure.
	assert.Equal(t, 0, store.saveCalls)
}

func TestEngineRun_PersistFailure(t *testing.T) {
	store, id := storeWith(readySnapshot())
	store.saveErr = errors.New("write timeout")
	engine := NewEngine(store, DefaultRuleSet())

	_, err := engine.Run(context.Background(), id)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "persist", stageErr.Stage)
}

func TestEngineRun_NoPlatforms(t *testing.T) {
	snap := readySnapshot()
	snap.Project.Platforms = nil
	store, id := storeWith(snap)
	engine := NewEngine(store, DefaultRuleSet())

	_, err := engine.Run(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, 0, store.saveCalls)
}

// Concurrent runs for one project coalesce into a single store write.
func TestEngineRun_SingleFlight(t *testing.T) {
	store, id := storeWith(readySnapshot())

	// Hold the in-flight load open until every goroutine has joined it.
	release := make(chan struct{})
	blocking := &blockingStore{fakeStore: store, release: release}
	engine := NewEngine(blocking, DefaultRuleSet())

	const n = 8
	var wg sync.WaitGroup
	reports := make([]*Report, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], errs[i] = engine.Run(context.Background(), id)
		}(i)
	}

	// All goroutines call Run immediately; give them time to park behind
	// the blocked leader before letting it finish.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, reports[0], reports[i])
	}
	assert.Equal(t, 1, store.saveCalls)
}

type blockingStore struct {
	*fakeStore
	release chan struct{}
}

func (b *blockingStore) LoadSnapshot(ctx context.Context, projectID uuid.UUID) (*Snapshot, error) {
	<-b.release
	return b.fakeStore.LoadSnapshot(ctx, projectID)
}
