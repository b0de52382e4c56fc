package gamedb

import (
	"context"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore"
)

// ------------------------
// Fake KV Store
// ------------------------

// FakeStore delegates to an in-memory store unless a Func field is set.
type FakeStore struct {
	*kvstore.MemoryStore
	trace []string

	ReadRawFunc  func(ctx context.Context, key string) (string, bool, error)
	WriteRawFunc func(ctx context.Context, key, value string) error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{MemoryStore: kvstore.NewMemoryStore()}
}

func (f *FakeStore) ReadRaw(ctx context.Context, key string) (string, bool, error) {
	f.trace = append(f.trace, "ReadRaw:"+key)
	if f.ReadRawFunc != nil {
		return f.ReadRawFunc(ctx, key)
	}
	return f.MemoryStore.ReadRaw(ctx, key)
}

func (f *FakeStore) WriteRaw(ctx context.Context, key, value string) error {
	f.trace = append(f.trace, "WriteRaw:"+key)
	if f.WriteRawFunc != nil {
		return f.WriteRawFunc(ctx, key, value)
	}
	return f.MemoryStore.WriteRaw(ctx, key, value)
}

// Writes returns how many WriteRaw calls were made.
func (f *FakeStore) Writes() int {
	n := 0
	for _, step := range f.trace {
		if len(step) > 9 && step[:9] == "WriteRaw:" {
			n++
		}
	}
	return n
}

var _ kvstore.Store = (*FakeStore)(nil)

// ------------------------
// Deterministic clock and ids
// ------------------------

type stepClock struct {
	now  time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC), step: time.Second}
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
