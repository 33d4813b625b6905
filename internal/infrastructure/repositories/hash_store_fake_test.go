package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

var errRemoteDown = errors.New("remote unavailable")

// fakeHashStore is an in-memory stand-in for the Redis hash commands with
// per-call failure injection. Empty hashes disappear like they do in Redis.
type fakeHashStore struct {
	mu      sync.Mutex
	hashes  map[string]map[string]string
	ttls    map[string]time.Duration
	calls   map[string]int
	log     []string // "op key" per call, in order
	expires []string

	// fail decides whether a call errors. nil means every call succeeds.
	fail func(op, key string) error
}

func newFakeHashStore() *fakeHashStore {
	return &fakeHashStore{
		hashes: make(map[string]map[string]string),
		ttls:   make(map[string]time.Duration),
		calls:  make(map[string]int),
	}
}

func (f *fakeHashStore) failOn(ops ...string) {
	set := make(map[string]bool, len(ops))
	for _, op := range ops {
		set[op] = true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = func(op, key string) error {
		if set[op] || set["*"] {
			return errRemoteDown
		}
		return nil
	}
}

func (f *fakeHashStore) heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = nil
}

func (f *fakeHashStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeHashStore) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// callLog returns every call recorded so far as "op key".
func (f *fakeHashStore) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.log...)
}

func (f *fakeHashStore) ttl(key string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.ttls[key]
	return d, ok
}

func (f *fakeHashStore) expiredKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.expires...)
}

func (f *fakeHashStore) put(key string, fields map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := make(map[string]string, len(fields))
	for k, v := range fields {
		h[k] = v
	}
	f.hashes[key] = h
}

// enter records the call and returns the injected error, if any. Caller holds the lock.
func (f *fakeHashStore) enter(op, key string) error {
	f.calls[op]++
	f.log = append(f.log, op+" "+key)
	if f.fail != nil {
		return f.fail(op, key)
	}
	return nil
}

func (f *fakeHashStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("hgetall", key); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(f.hashes[key]))
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeHashStore) HSet(ctx context.Context, key string, values map[string]any) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("hset", key); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	var added int64
	for k, v := range values {
		if _, exists := h[k]; !exists {
			added++
		}
		h[k] = fmt.Sprint(v)
	}
	return added, nil
}

func (f *fakeHashStore) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("hdel", key); err != nil {
		return 0, err
	}
	h := f.hashes[key]
	var removed int64
	for _, field := range fields {
		if _, ok := h[field]; ok {
			delete(h, field)
			removed++
		}
	}
	if h != nil && len(h) == 0 {
		delete(f.hashes, key)
		delete(f.ttls, key)
	}
	return removed, nil
}

func (f *fakeHashStore) HExists(ctx context.Context, key, field string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("hexists", key); err != nil {
		return false, err
	}
	_, ok := f.hashes[key][field]
	return ok, nil
}

func (f *fakeHashStore) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("hincrby", key); err != nil {
		return 0, err
	}
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	cur, _ := strconv.ParseInt(h[field], 10, 64)
	cur += delta
	h[field] = strconv.FormatInt(cur, 10)
	return cur, nil
}

func (f *fakeHashStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("expire", key); err != nil {
		return false, err
	}
	f.expires = append(f.expires, key)
	if _, ok := f.hashes[key]; !ok {
		return false, nil
	}
	f.ttls[key] = ttl
	return true, nil
}

func (f *fakeHashStore) Del(ctx context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("del", strings.Join(keys, " ")); err != nil {
		return 0, err
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.hashes[k]; ok {
			delete(f.hashes, k)
			n++
		}
		delete(f.ttls, k)
	}
	return n, nil
}
