package toggle

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/videotube/videotube/internal/db"
)

type pair struct {
	actor  uuid.UUID
	target uuid.UUID
}

// fakeStore is an in-memory marker store with hooks to simulate losing
// races against a concurrent writer
type fakeStore struct {
	mu   sync.Mutex
	rows map[pair]uuid.UUID

	// beforeCreate runs inside Create before the insert, simulating a
	// concurrent writer that sneaks in first
	beforeCreate func(s *fakeStore)
	// beforeDelete runs inside Delete before the removal
	beforeDelete func(s *fakeStore)
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[pair]uuid.UUID)}
}

func (s *fakeStore) Find(_ context.Context, actorID, targetID uuid.UUID) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.rows[pair{actorID, targetID}]
	return id, ok, nil
}

func (s *fakeStore) Create(_ context.Context, actorID, targetID uuid.UUID) error {
	if s.beforeCreate != nil {
		hook := s.beforeCreate
		s.beforeCreate = nil
		hook(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := pair{actorID, targetID}
	if _, ok := s.rows[p]; ok {
		return db.ErrDuplicate
	}
	s.rows[p] = uuid.New()
	return nil
}

func (s *fakeStore) Delete(_ context.Context, rowID uuid.UUID) error {
	if s.beforeDelete != nil {
		hook := s.beforeDelete
		s.beforeDelete = nil
		hook(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for p, id := range s.rows {
		if id == rowID {
			delete(s.rows, p)
			return nil
		}
	}
	return db.ErrNotFound
}

func (s *fakeStore) put(actorID, targetID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[pair{actorID, targetID}] = uuid.New()
}

func (s *fakeStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = make(map[pair]uuid.UUID)
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func TestToggle_AbsentToPresent(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator("test", store)

	state, err := coord.Toggle(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, Present, state)
	assert.Equal(t, 1, store.count())
}

func TestToggle_PresentToAbsent(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator("test", store)
	actor, target := uuid.New(), uuid.New()
	store.put(actor, target)

	state, err := coord.Toggle(context.Background(), actor, target)

	require.NoError(t, err)
	assert.Equal(t, Absent, state)
	assert.Equal(t, 0, store.count())
}

func TestToggle_RoundTrip(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator("test", store)
	actor, target := uuid.New(), uuid.New()
	ctx := context.Background()

	state, err := coord.Toggle(ctx, actor, target)
	require.NoError(t, err)
	assert.Equal(t, Present, state)

	state, err = coord.Toggle(ctx, actor, target)
	require.NoError(t, err)
	assert.Equal(t, Absent, state)
	assert.Equal(t, 0, store.count())
}

func TestToggle_LostInsertConverges(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator("test", store)
	actor, target := uuid.New(), uuid.New()

	// a concurrent toggle wins the insert between our read and our create;
	// the retry must observe the winner's row and remove it, never stack a
	// second row
	store.beforeCreate = func(s *fakeStore) {
		s.put(actor, target)
	}

	state, err := coord.Toggle(context.Background(), actor, target)

	require.NoError(t, err)
	assert.Equal(t, Absent, state)
	assert.Equal(t, 0, store.count())
}

func TestToggle_LostDeleteStillAbsent(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator("test", store)
	actor, target := uuid.New(), uuid.New()
	store.put(actor, target)

	// a concurrent toggle removes the row between our read and our delete
	store.beforeDelete = func(s *fakeStore) {
		s.clear()
	}

	state, err := coord.Toggle(context.Background(), actor, target)

	require.NoError(t, err)
	assert.Equal(t, Absent, state)
	assert.Equal(t, 0, store.count())
}

func TestToggle_LostInsertThenLostDelete(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator("test", store)
	actor, target := uuid.New(), uuid.New()

	// our insert loses to a concurrent writer, then the winner's row is
	// toggled away before our delete lands; the pair is absent either way
	store.beforeCreate = func(s *fakeStore) {
		s.put(actor, target)
	}
	store.beforeDelete = func(s *fakeStore) {
		s.clear()
	}

	state, err := coord.Toggle(context.Background(), actor, target)

	require.NoError(t, err)
	assert.Equal(t, Absent, state)
	assert.Equal(t, 0, store.count())
}

func TestToggle_ConcurrentPairSerializes(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator("test", store)
	actor, target := uuid.New(), uuid.New()
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coord.Toggle(ctx, actor, target)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		// a toggle may lose a genuinely contended retry, but it must never
		// corrupt the pair
		if err != nil {
			assert.True(t, IsConflict(err))
		}
	}

	// the pair ends in one of its two valid states: zero rows or one row
	assert.LessOrEqual(t, store.count(), 1)
}
