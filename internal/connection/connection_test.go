package connection_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/vconsole/internal/connection"
	"github.com/leapstack-labs/vconsole/internal/connection/connectiontest"
	"github.com/leapstack-labs/vconsole/internal/testutil"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func connect(t *testing.T, fake *connectiontest.Fake, opts ...connection.Option) *connection.Connection {
	t.Helper()
	opts = append(opts, connection.WithLogger(testutil.NewTestLogger(t)))
	conn, err := connection.Connect(context.Background(),
		connection.Args{connection.ParamURL: "http://localhost:8080"}, fake.Dialer(), opts...)
	require.NoError(t, err)
	return conn
}

func TestConnect_NoAuth(t *testing.T) {
	fake := connectiontest.NewFake()
	conn := connect(t, fake)

	assert.Equal(t, "http://localhost:8080", conn.Settings().URL)
	assert.Nil(t, conn.Settings().Auth)
	assert.Same(t, fake, conn.Client())
}

func TestConnect_MissingParameterSkipsDial(t *testing.T) {
	dialed := false
	dial := func(context.Context, connection.Settings) (connection.Client, error) {
		dialed = true
		return connectiontest.NewFake(), nil
	}

	_, err := connection.Connect(context.Background(), connection.Args{
		connection.ParamURL:      "http://localhost:8080",
		connection.ParamAuthType: "API_KEY",
	}, dial)

	require.ErrorIs(t, err, connection.ErrMissingParameter)
	assert.Contains(t, err.Error(), "api_key")
	assert.False(t, dialed, "dialer must not run when parameters are incomplete")
}

func TestConnect_DialError(t *testing.T) {
	boom := errors.New("connection refused")
	dial := func(context.Context, connection.Settings) (connection.Client, error) {
		return nil, boom
	}

	_, err := connection.Connect(context.Background(),
		connection.Args{connection.ParamURL: "http://localhost:8080"}, dial)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "http://localhost:8080")
}

func TestIsReady(t *testing.T) {
	fake := connectiontest.NewFake()
	conn := connect(t, fake)
	ctx := context.Background()

	assert.True(t, conn.IsReady(ctx))

	fake.SetReady(false, nil)
	assert.False(t, conn.IsReady(ctx))

	fake.SetReady(true, errors.New("dial tcp: refused"))
	assert.False(t, conn.IsReady(ctx), "probe errors report not ready")
}

func TestAccessorsDelegate(t *testing.T) {
	fake := connectiontest.NewFake("Article")
	conn := connect(t, fake)
	ctx := context.Background()

	raw, err := conn.Schema().Get(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"classes":[{"class":"Article","properties":[]}]}`, string(raw))

	_, err = conn.Query().Raw(ctx, "{ Get { Article { title } } }")
	require.NoError(t, err)
	assert.Equal(t, []string{"{ Get { Article { title } } }"}, fake.Queries)

	objs, err := conn.DataObject().List(ctx, "Article", 10)
	require.NoError(t, err)
	assert.JSONEq(t, `{"objects":[]}`, string(objs))
}

func TestFetchAll_CachesWithinWindow(t *testing.T) {
	fake := connectiontest.NewFake("Article")
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	conn := connect(t, fake, connection.WithClock(clock.Now))
	ctx := context.Background()

	first, err := conn.FetchAll(ctx, "Article")
	require.NoError(t, err)

	// A new object is invisible until the cached result expires.
	_, err = conn.Create(ctx, map[string]any{"title": "hello"}, "Article")
	require.NoError(t, err)

	clock.Advance(connection.FetchTTL - time.Second)
	second, err := conn.FetchAll(ctx, "Article")
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	_, _, _, lists := fake.Counts()
	assert.Equal(t, 1, lists)

	clock.Advance(time.Second)
	third, err := conn.FetchAll(ctx, "Article")
	require.NoError(t, err)

	_, _, _, lists = fake.Counts()
	assert.Equal(t, 2, lists, "expired entry triggers a new remote call")

	var doc struct {
		Objects []json.RawMessage `json:"objects"`
	}
	require.NoError(t, json.Unmarshal(third, &doc))
	assert.Len(t, doc.Objects, 1)
}

func TestFetchAll_KeysByClass(t *testing.T) {
	fake := connectiontest.NewFake("Article", "Author")
	conn := connect(t, fake)
	ctx := context.Background()

	_, err := conn.FetchAll(ctx, "Article")
	require.NoError(t, err)
	_, err = conn.FetchAll(ctx, "Author")
	require.NoError(t, err)
	_, err = conn.FetchAll(ctx, "Article")
	require.NoError(t, err)

	_, _, _, lists := fake.Counts()
	assert.Equal(t, 2, lists)
}

func TestFetchAll_ErrorsAreNotCached(t *testing.T) {
	fake := connectiontest.NewFake("Article")
	conn := connect(t, fake)
	ctx := context.Background()

	_, err := conn.FetchAll(ctx, "Missing")
	require.ErrorIs(t, err, connectiontest.ErrUnknownClass)

	_, err = conn.FetchAll(ctx, "Missing")
	require.Error(t, err)

	_, _, _, lists := fake.Counts()
	assert.Equal(t, 2, lists)
}

func TestCreate(t *testing.T) {
	fake := connectiontest.NewFake("Article")
	conn := connect(t, fake)
	ctx := context.Background()

	id, err := conn.Create(ctx, map[string]any{"title": "hello"}, "Article")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, []string{connection.ConsistencyAll}, fake.Consistency)

	_, err = conn.Create(ctx, map[string]any{"title": "hello"}, "Unknown")
	require.ErrorIs(t, err, connectiontest.ErrUnknownClass, "remote errors propagate")
}
