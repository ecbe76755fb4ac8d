package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofs91/InspectWise3.0/internal/domains"
	"github.com/sofs91/InspectWise3.0/internal/realtime"
)

type fakeConfigurations struct {
	mu     sync.Mutex
	rows   []domains.Configuration
	nextID int
	err    error
}

func (f *fakeConfigurations) List(_ context.Context, organizationID string) ([]domains.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domains.Configuration
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].OrganizationID == organizationID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeConfigurations) Create(_ context.Context, draft domains.ConfigurationCreate) (domains.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domains.Configuration{}, f.err
	}
	f.nextID++
	row := domains.Configuration{
		ID:             fmt.Sprintf("c%d", f.nextID),
		Name:           draft.Name,
		OrganizationID: draft.OrganizationID,
		Options:        draft.Options,
	}
	f.rows = append(f.rows, row)
	return row, nil
}

func (f *fakeConfigurations) Update(_ context.Context, id string, patch domains.ConfigurationUpdate) (domains.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domains.Configuration{}, f.err
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			if patch.Name != nil {
				f.rows[i].Name = *patch.Name
			}
			if patch.Options != nil {
				f.rows[i].Options = patch.Options
			}
			return f.rows[i], nil
		}
	}
	return domains.Configuration{}, errors.New("not found")
}

func (f *fakeConfigurations) Delete(_ context.Context, id, organizationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].OrganizationID == organizationID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeConfigurations) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type configStore = Store[domains.Configuration, domains.ConfigurationCreate, domains.ConfigurationUpdate]

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newConfigStore(t *testing.T, backend *fakeConfigurations, opts ...Option) (*configStore, *realtime.Hub) {
	t.Helper()
	hub := realtime.NewHub(16)
	t.Cleanup(hub.Close)
	s := New[domains.Configuration, domains.ConfigurationCreate, domains.ConfigurationUpdate](
		realtime.TableConfigurations,
		Names{Singular: "configuration", Plural: "configurations"},
		backend, hub, opts...)
	t.Cleanup(s.UnsubscribeFromChanges)
	return s, hub
}

// settle closes the subscription, which returns once every buffered event is applied.
func settle(s *configStore) {
	s.UnsubscribeFromChanges()
}

func ids(items []domains.Configuration) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}

func publish(t *testing.T, hub *realtime.Hub, typ realtime.EventType, c domains.Configuration) {
	t.Helper()
	ev := realtime.Event{Type: typ, Table: realtime.TableConfigurations, OrganizationID: c.OrganizationID, ID: c.ID}
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	if typ == realtime.EventDelete {
		ev.OldRecord = raw
	} else {
		ev.Record = raw
	}
	require.NoError(t, hub.Publish(context.Background(), ev))
}

func TestStore_FetchOrdersNewestFirst(t *testing.T) {
	backend := &fakeConfigurations{rows: []domains.Configuration{
		{ID: "a", OrganizationID: "org"},
		{ID: "b", OrganizationID: "other"},
		{ID: "c", OrganizationID: "org"},
	}}
	s, _ := newConfigStore(t, backend)

	s.Fetch(context.Background(), "org")

	state := s.Snapshot()
	assert.Equal(t, []string{"c", "a"}, ids(state.Items))
	assert.False(t, state.Loading)
	assert.Nil(t, state.Error)
}

func TestStore_FetchFailureKeepsItems(t *testing.T) {
	backend := &fakeConfigurations{rows: []domains.Configuration{{ID: "a", OrganizationID: "org"}}}
	s, _ := newConfigStore(t, backend)
	ctx := context.Background()
	s.Fetch(ctx, "org")

	backend.fail(errors.New("connection refused"))
	s.Fetch(ctx, "org")

	state := s.Snapshot()
	assert.Equal(t, []string{"a"}, ids(state.Items))
	require.NotNil(t, state.Error)
	assert.Equal(t, "Failed to fetch configurations", *state.Error)
	assert.False(t, state.Loading)

	backend.fail(nil)
	s.Fetch(ctx, "org")
	assert.Nil(t, s.Snapshot().Error)
}

func TestStore_AddPrepends(t *testing.T) {
	s, _ := newConfigStore(t, &fakeConfigurations{})
	ctx := context.Background()

	first, err := s.Add(ctx, domains.ConfigurationCreate{Name: "Colors", OrganizationID: "org", Options: []string{"Red", "Blue"}})
	require.NoError(t, err)
	second, err := s.Add(ctx, domains.ConfigurationCreate{Name: "Sizes", OrganizationID: "org"})
	require.NoError(t, err)

	assert.Equal(t, []string{second.ID, first.ID}, ids(s.Snapshot().Items))
	got, ok := s.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"Red", "Blue"}, got.Options)
}

func TestStore_WriteFailuresPropagate(t *testing.T) {
	backend := &fakeConfigurations{}
	s, _ := newConfigStore(t, backend)
	ctx := context.Background()
	created, err := s.Add(ctx, domains.ConfigurationCreate{Name: "Colors", OrganizationID: "org"})
	require.NoError(t, err)

	boom := errors.New("boom")
	backend.fail(boom)

	_, err = s.Add(ctx, domains.ConfigurationCreate{Name: "Sizes", OrganizationID: "org"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "Failed to create configuration", *s.Snapshot().Error)

	name := "Renamed"
	_, err = s.Update(ctx, created.ID, domains.ConfigurationUpdate{Name: &name})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "Failed to update configuration", *s.Snapshot().Error)

	err = s.Delete(ctx, created.ID, "org")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "Failed to delete configuration", *s.Snapshot().Error)

	state := s.Snapshot()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "Colors", state.Items[0].Name)
}

func TestStore_UpdateReplacesInPlace(t *testing.T) {
	s, _ := newConfigStore(t, &fakeConfigurations{})
	ctx := context.Background()
	a, _ := s.Add(ctx, domains.ConfigurationCreate{Name: "A", OrganizationID: "org"})
	b, _ := s.Add(ctx, domains.ConfigurationCreate{Name: "B", OrganizationID: "org"})

	name := "A2"
	_, err := s.Update(ctx, a.ID, domains.ConfigurationUpdate{Name: &name})
	require.NoError(t, err)

	items := s.Snapshot().Items
	assert.Equal(t, []string{b.ID, a.ID}, ids(items))
	assert.Equal(t, "A2", items[1].Name)
}

func TestStore_AddThenDeleteTwice(t *testing.T) {
	s, _ := newConfigStore(t, &fakeConfigurations{})
	ctx := context.Background()

	created, err := s.Add(ctx, domains.ConfigurationCreate{Name: "Colors", OrganizationID: "org", Options: []string{"Red", "Blue"}})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID, "org"))
	require.NoError(t, s.Delete(ctx, created.ID, "org"))

	state := s.Snapshot()
	assert.Empty(t, state.Items)
	assert.Nil(t, state.Error)
}

func TestStore_RealtimeReconciliation(t *testing.T) {
	backend := &fakeConfigurations{rows: []domains.Configuration{{ID: "a", Name: "A", OrganizationID: "org"}}}
	s, hub := newConfigStore(t, backend)
	ctx := context.Background()
	s.Fetch(ctx, "org")
	require.NoError(t, s.SubscribeToChanges(ctx, "org"))

	remote := domains.Configuration{ID: "r", Name: "Remote", OrganizationID: "org"}
	publish(t, hub, realtime.EventInsert, remote)
	publish(t, hub, realtime.EventInsert, remote)
	publish(t, hub, realtime.EventUpdate, domains.Configuration{ID: "a", Name: "A2", OrganizationID: "org"})
	publish(t, hub, realtime.EventUpdate, domains.Configuration{ID: "ghost", Name: "Ghost", OrganizationID: "org"})
	publish(t, hub, realtime.EventDelete, domains.Configuration{ID: "missing", OrganizationID: "org"})
	publish(t, hub, realtime.EventInsert, domains.Configuration{ID: "x", OrganizationID: "other"})
	settle(s)

	items := s.Snapshot().Items
	assert.Equal(t, []string{"r", "a"}, ids(items))
	assert.Equal(t, "A2", items[1].Name)

	require.NoError(t, s.SubscribeToChanges(ctx, "org"))
	publish(t, hub, realtime.EventDelete, remote)
	settle(s)
	assert.Equal(t, []string{"a"}, ids(s.Snapshot().Items))
}

func TestStore_LocalAddEchoIsSuppressed(t *testing.T) {
	s, hub := newConfigStore(t, &fakeConfigurations{})
	ctx := context.Background()
	require.NoError(t, s.SubscribeToChanges(ctx, "org"))

	created, err := s.Add(ctx, domains.ConfigurationCreate{Name: "Colors", OrganizationID: "org"})
	require.NoError(t, err)
	publish(t, hub, realtime.EventInsert, created)
	settle(s)

	assert.Equal(t, []string{created.ID}, ids(s.Snapshot().Items))
}

// stalledList reads the table, then waits for release before returning.
type stalledList struct {
	*fakeConfigurations
	read    chan struct{}
	release chan struct{}
}

func (b *stalledList) List(ctx context.Context, organizationID string) ([]domains.Configuration, error) {
	rows, err := b.fakeConfigurations.List(ctx, organizationID)
	close(b.read)
	<-b.release
	return rows, err
}

func TestStore_InsertEventRestoresRowLostToStaleFetch(t *testing.T) {
	backend := &stalledList{
		fakeConfigurations: &fakeConfigurations{},
		read:               make(chan struct{}),
		release:            make(chan struct{}),
	}
	hub := realtime.NewHub(16)
	t.Cleanup(hub.Close)
	s := New[domains.Configuration, domains.ConfigurationCreate, domains.ConfigurationUpdate](
		realtime.TableConfigurations,
		Names{Singular: "configuration", Plural: "configurations"},
		backend, hub)
	t.Cleanup(s.UnsubscribeFromChanges)
	ctx := context.Background()
	require.NoError(t, s.SubscribeToChanges(ctx, "org"))

	fetched := make(chan struct{})
	go func() {
		defer close(fetched)
		s.Fetch(ctx, "org")
	}()
	<-backend.read

	created, err := s.Add(ctx, domains.ConfigurationCreate{Name: "Colors", OrganizationID: "org"})
	require.NoError(t, err)
	close(backend.release)
	<-fetched
	_, ok := s.Get(created.ID)
	require.False(t, ok, "fetch result predates the add")

	publish(t, hub, realtime.EventInsert, created)
	s.UnsubscribeFromChanges()

	got, ok := s.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Colors", got.Name)
}

func TestStore_InsertEchoAfterDeleteDoesNotResurrect(t *testing.T) {
	s, hub := newConfigStore(t, &fakeConfigurations{})
	ctx := context.Background()
	require.NoError(t, s.SubscribeToChanges(ctx, "org"))

	created, err := s.Add(ctx, domains.ConfigurationCreate{Name: "Colors", OrganizationID: "org"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, created.ID, "org"))

	publish(t, hub, realtime.EventInsert, created)
	publish(t, hub, realtime.EventDelete, created)
	settle(s)

	assert.Empty(t, s.Snapshot().Items)
}

func TestStore_EchoTagExpires(t *testing.T) {
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s, hub := newConfigStore(t, &fakeConfigurations{}, WithClock(c.now), WithEchoWindow(time.Second))
	ctx := context.Background()
	require.NoError(t, s.SubscribeToChanges(ctx, "org"))

	created, err := s.Add(ctx, domains.ConfigurationCreate{Name: "Colors", OrganizationID: "org"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, created.ID, "org"))

	c.t = c.t.Add(2 * time.Second)
	s.Prune()
	publish(t, hub, realtime.EventInsert, created)
	settle(s)

	assert.Equal(t, []string{created.ID}, ids(s.Snapshot().Items))
}

func TestStore_SubscribeTwiceKeepsOneSubscription(t *testing.T) {
	s, hub := newConfigStore(t, &fakeConfigurations{})
	ctx := context.Background()

	require.NoError(t, s.SubscribeToChanges(ctx, "org"))
	require.NoError(t, s.SubscribeToChanges(ctx, "org"))
	assert.Equal(t, 1, hub.Subscribers(realtime.TableConfigurations, "org"))

	require.NoError(t, s.SubscribeToChanges(ctx, "other"))
	assert.Equal(t, 0, hub.Subscribers(realtime.TableConfigurations, "org"))
	assert.Equal(t, 1, hub.Subscribers(realtime.TableConfigurations, "other"))

	s.UnsubscribeFromChanges()
	s.UnsubscribeFromChanges()
	assert.False(t, s.Subscribed())
	assert.Equal(t, 0, hub.Subscribers(realtime.TableConfigurations, "other"))
}

func TestStore_SubscribeFailure(t *testing.T) {
	s, hub := newConfigStore(t, &fakeConfigurations{})
	hub.Close()

	err := s.SubscribeToChanges(context.Background(), "org")
	assert.ErrorIs(t, err, realtime.ErrClosed)
	assert.False(t, s.Subscribed())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s, _ := newConfigStore(t, &fakeConfigurations{})
	_, err := s.Add(context.Background(), domains.ConfigurationCreate{Name: "A", OrganizationID: "org"})
	require.NoError(t, err)

	state := s.Snapshot()
	state.Items[0].Name = "mutated"

	got := s.Snapshot().Items[0]
	assert.Equal(t, "A", got.Name)
}
