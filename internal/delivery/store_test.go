package delivery

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgate/hubgate/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "hubgate.db")
	db, err := storage.OpenSQLite(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestDispatchAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Dispatch(ctx, Request{
		Receiver:       "facebook",
		SubscriptionID: "page-1",
		Hints:          []string{"notify", "feed"},
		Payload:        json.RawMessage(`{"entry":[]}`),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	d, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "facebook", d.Receiver)
	assert.Equal(t, "page-1", d.SubscriptionID)
	assert.Equal(t, []string{"notify", "feed"}, d.Hints)
	assert.JSONEq(t, `{"entry":[]}`, string(d.Payload))
	assert.False(t, d.ReceivedAt.IsZero())
}

func TestDispatchValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, Request{Payload: json.RawMessage(`{}`)})
	assert.Error(t, err, "empty receiver should be rejected")

	_, err = s.Dispatch(ctx, Request{Receiver: "facebook"})
	assert.Error(t, err, "empty payload should be rejected")
}

func TestGetByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrDeliveryNotFound)
}

func TestRecentOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := s.Dispatch(ctx, Request{
			Receiver: "facebook",
			Payload:  json.RawMessage(`{"n":` + string(rune('0'+i)) + `}`),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	recent, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, ids[4], recent[0].ID, "newest delivery first")

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestRecentEmptyHints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Dispatch(ctx, Request{
		Receiver: "facebook",
		Payload:  json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	d, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, d.Hints)
}
