// Package connectiontest provides an in-memory remote client for tests.
package connectiontest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/leapstack-labs/vconsole/internal/connection"
)

// ErrUnknownClass is returned for operations on a class the fake does not know.
var ErrUnknownClass = errors.New("class not found in schema")

// Fake is a connection.Client backed by memory. It records call counts so
// tests can assert on remote round trips.
type Fake struct {
	mu       sync.Mutex
	ready    bool
	readyErr error
	classes  []map[string]any
	objects  map[string][]map[string]any

	// Err, when set, is returned by every schema, query and data object call.
	Err error

	SchemaGets    int
	SchemaCreates int
	ObjectCreates int
	ObjectLists   int
	Consistency   []string
	Queries       []string
}

// NewFake returns a ready fake knowing the given classes.
func NewFake(classNames ...string) *Fake {
	f := &Fake{
		ready:   true,
		objects: make(map[string][]map[string]any),
	}
	for _, name := range classNames {
		f.classes = append(f.classes, map[string]any{"class": name, "properties": []any{}})
		f.objects[name] = nil
	}
	return f
}

// Dialer returns a connection.Dialer that always yields f.
func (f *Fake) Dialer() connection.Dialer {
	return func(context.Context, connection.Settings) (connection.Client, error) {
		return f, nil
	}
}

// SetReady controls the readiness probe result.
func (f *Fake) SetReady(ready bool, err error) {
	f.mu.Lock()
	f.ready, f.readyErr = ready, err
	f.mu.Unlock()
}

// SetErr makes every schema and data object call fail with err.
func (f *Fake) SetErr(err error) {
	f.mu.Lock()
	f.Err = err
	f.mu.Unlock()
}

// IsReady implements connection.Client.
func (f *Fake) IsReady(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready, f.readyErr
}

// Schema implements connection.Client.
func (f *Fake) Schema() connection.SchemaAPI { return fakeSchema{f} }

// Query implements connection.Client.
func (f *Fake) Query() connection.QueryAPI { return fakeQuery{f} }

// DataObject implements connection.Client.
func (f *Fake) DataObject() connection.DataObjectAPI { return fakeData{f} }

// Counts returns a snapshot of the call counters.
func (f *Fake) Counts() (schemaGets, schemaCreates, objectCreates, objectLists int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SchemaGets, f.SchemaCreates, f.ObjectCreates, f.ObjectLists
}

func (f *Fake) hasClass(name string) bool {
	_, ok := f.objects[name]
	return ok
}

type fakeSchema struct{ f *Fake }

func (s fakeSchema) Get(context.Context) (json.RawMessage, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.SchemaGets++
	if s.f.Err != nil {
		return nil, s.f.Err
	}
	classes := s.f.classes
	if classes == nil {
		classes = []map[string]any{}
	}
	return json.Marshal(map[string]any{"classes": classes})
}

func (s fakeSchema) Create(_ context.Context, schema json.RawMessage) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.SchemaCreates++
	if s.f.Err != nil {
		return s.f.Err
	}

	var doc struct {
		Class   string           `json:"class"`
		Classes []map[string]any `json:"classes"`
	}
	if err := json.Unmarshal(schema, &doc); err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}

	var classes []map[string]any
	switch {
	case doc.Classes != nil:
		classes = doc.Classes
	case doc.Class != "":
		var one map[string]any
		if err := json.Unmarshal(schema, &one); err != nil {
			return err
		}
		classes = []map[string]any{one}
	default:
		return errors.New("schema has no classes")
	}

	for _, c := range classes {
		name, _ := c["class"].(string)
		if name == "" {
			return errors.New("class name is required")
		}
		if s.f.hasClass(name) {
			return fmt.Errorf("class %q already exists", name)
		}
		s.f.classes = append(s.f.classes, c)
		s.f.objects[name] = nil
	}
	return nil
}

type fakeQuery struct{ f *Fake }

var aggregateClass = regexp.MustCompile(`Aggregate\s*\{\s*(\w+)`)

// Raw answers Aggregate meta count queries from memory; anything else gets
// an empty data document.
func (q fakeQuery) Raw(_ context.Context, query string) (json.RawMessage, error) {
	q.f.mu.Lock()
	defer q.f.mu.Unlock()
	q.f.Queries = append(q.f.Queries, query)
	if q.f.Err != nil {
		return nil, q.f.Err
	}

	m := aggregateClass.FindStringSubmatch(query)
	if m == nil || !q.f.hasClass(m[1]) {
		return json.RawMessage(`{"data":{}}`), nil
	}
	count := len(q.f.objects[m[1]])
	return json.Marshal(map[string]any{
		"data": map[string]any{
			"Aggregate": map[string]any{
				m[1]: []any{map[string]any{"meta": map[string]any{"count": count}}},
			},
		},
	})
}

type fakeData struct{ f *Fake }

func (d fakeData) Create(_ context.Context, properties map[string]any, className, consistency string) (string, error) {
	d.f.mu.Lock()
	defer d.f.mu.Unlock()
	d.f.ObjectCreates++
	d.f.Consistency = append(d.f.Consistency, consistency)
	if d.f.Err != nil {
		return "", d.f.Err
	}
	if !d.f.hasClass(className) {
		return "", fmt.Errorf("%w: %q", ErrUnknownClass, className)
	}

	id := uuid.NewString()
	obj := map[string]any{"id": id, "class": className, "properties": properties}
	d.f.objects[className] = append(d.f.objects[className], obj)
	return id, nil
}

func (d fakeData) List(_ context.Context, className string, limit int) (json.RawMessage, error) {
	d.f.mu.Lock()
	defer d.f.mu.Unlock()
	d.f.ObjectLists++
	if d.f.Err != nil {
		return nil, d.f.Err
	}
	if !d.f.hasClass(className) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, className)
	}

	objs := d.f.objects[className]
	if len(objs) > limit {
		objs = objs[:limit]
	}
	if objs == nil {
		objs = []map[string]any{}
	}
	return json.Marshal(map[string]any{"objects": objs})
}
