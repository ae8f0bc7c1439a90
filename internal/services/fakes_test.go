package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeCompleter struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "Are you a magnet? Because I'm attracted to you.", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeCompleter) last() CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeLineCache struct {
	mu     sync.Mutex
	stored map[string]string
	fail   bool
}

func (f *fakeLineCache) Store(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("redis unavailable")
	}
	if f.stored == nil {
		f.stored = map[string]string{}
	}
	f.stored[key] = value
	return nil
}
