package hub

import (
	"bufio"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesConnectedClient(t *testing.T) {
	h := New(nil)
	go h.Run()

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	// First line is the connection comment.
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, ": connected"))

	// The registration races the first broadcast; wait until the hub
	// has the client before publishing.
	for h.ClientCount() == 0 {
		select {
		case <-ctx.Done():
			t.Fatal("client never registered")
		case <-time.After(10 * time.Millisecond):
		}
	}

	h.Broadcast(map[string]string{"type": "config_activated"})

	got := make(chan string, 1)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(line, "data: ") {
				got <- line
				return
			}
		}
	}()

	select {
	case line := <-got:
		assert.Contains(t, line, "config_activated")
	case <-ctx.Done():
		t.Fatal("no event received")
	}
}

func TestBroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	h := New(nil)
	go h.Run()

	for i := 0; i < 10; i++ {
		h.Broadcast(map[string]int{"n": i})
	}
	assert.Equal(t, 0, h.ClientCount())
}
