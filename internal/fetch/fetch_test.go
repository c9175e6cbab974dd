// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/grantscope/internal/httputil"
	"github.com/pdiddy/grantscope/pkg/types"
)

// stubGetter serves canned bodies and fails for URLs listed in fail.
type stubGetter struct {
	fail map[string]bool

	mu       sync.Mutex
	inFlight int
	peak     int
}

func (s *stubGetter) Get(ctx context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	time.Sleep(5 * time.Millisecond)
	if s.fail[url] {
		return nil, errors.New("simulated network error")
	}
	return []byte("body of " + url), nil
}

func TestFetchAll_FailureIsolation(t *testing.T) {
	var urls []string
	for i := 0; i < 10; i++ {
		urls = append(urls, fmt.Sprintf("https://example.org/%d", i))
	}
	failing := urls[3]
	g := &stubGetter{fail: map[string]bool{failing: true}}

	pages := FetchAll(context.Background(), g, urls, 4)
	require.Len(t, pages, len(urls))

	absent := 0
	for _, u := range urls {
		p, ok := pages[u]
		require.True(t, ok, "missing page for %s", u)
		if p.Absent() {
			absent++
			assert.Equal(t, failing, u)
			assert.Empty(t, p.Body)
			continue
		}
		assert.Equal(t, "body of "+u, string(p.Body))
	}
	assert.Equal(t, 1, absent)
}

func TestFetchAll_RespectsLimit(t *testing.T) {
	var urls []string
	for i := 0; i < 20; i++ {
		urls = append(urls, fmt.Sprintf("https://example.org/%d", i))
	}
	g := &stubGetter{}

	FetchAll(context.Background(), g, urls, 3)
	assert.LessOrEqual(t, g.peak, 3)
	assert.GreaterOrEqual(t, g.peak, 1)
}

func TestFetchAll_Empty(t *testing.T) {
	pages := FetchAll(context.Background(), &stubGetter{}, nil, 0)
	assert.Empty(t, pages)
}

func TestFetchAll_HTTPClient(t *testing.T) {
	httputil.RetryBaseDelay = time.Millisecond
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if strings.HasSuffix(r.URL.Path, "/broken") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, "page %s", r.URL.Path)
	}))
	defer ts.Close()

	client := httputil.NewClient(types.HTTPConfig{Timeout: time.Second})
	urls := []string{ts.URL + "/a", ts.URL + "/broken", ts.URL + "/c"}

	pages := FetchAll(context.Background(), client, urls, 2)
	require.Len(t, pages, 3)
	assert.Equal(t, "page /a", string(pages[ts.URL+"/a"].Body))
	assert.Equal(t, "page /c", string(pages[ts.URL+"/c"].Body))
	assert.True(t, pages[ts.URL+"/broken"].Absent())
	assert.ErrorIs(t, pages[ts.URL+"/broken"].Err, httputil.ErrUnreachable)
}

func TestFetchAll_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := httputil.NewClient(types.HTTPConfig{})
	pages := FetchAll(ctx, client, []string{ts.URL + "/1", ts.URL + "/2"}, 2)
	require.Len(t, pages, 2)
	for _, p := range pages {
		assert.True(t, p.Absent())
		assert.ErrorIs(t, p.Err, context.Canceled)
	}
}
