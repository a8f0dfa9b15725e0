package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgrid/internal/executor"
	hub "github.com/zishang520/socket.io/v2/socket"
)

// startHub serves a socket.io hub on an httptest server. onResult receives
// every pipeline:result payload together with its ack callback.
func startHub(t *testing.T, onResult func(payload any, ack hub.Ack)) string {
	t.Helper()
	io := hub.NewServer(nil, nil)
	io.On("connection", func(clients ...any) {
		client := clients[0].(*hub.Socket)
		client.On(DefaultEvent, func(args ...any) {
			if len(args) < 2 {
				return
			}
			ack, ok := args[len(args)-1].(hub.Ack)
			if !ok {
				return
			}
			onResult(args[0], ack)
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io.ServeHandler(nil))
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		io.Close(nil)
		ts.Close()
	})
	return ts.URL + "/socket.io/"
}

func TestNew(t *testing.T) {
	p, err := New("http://localhost:3000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", p.baseURL)
	assert.Equal(t, "/socket.io/", p.path)
	assert.Equal(t, "/", p.namespace)
	assert.Equal(t, DefaultEvent, p.event)
	assert.Equal(t, DefaultTimeout, p.timeout)

	p, err = New("https://hub.example.com/rt/", WithNamespace("/editor"), WithEvent("done"), WithTimeout(time.Second), WithInsecureSkipVerify())
	require.NoError(t, err)
	assert.Equal(t, "https://hub.example.com", p.baseURL)
	assert.Equal(t, "/rt/", p.path)
	assert.Equal(t, "/editor", p.namespace)
	assert.Equal(t, "done", p.event)
	assert.Equal(t, time.Second, p.timeout)
	assert.True(t, p.insecureSkipVerify)

	_, err = New("localhost:3000")
	assert.Error(t, err)
	_, err = New("://bad")
	assert.Error(t, err)
}

func TestPayload(t *testing.T) {
	payload, err := Payload(executor.Success(map[string]any{"y": 4.0}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"outcome": "success", "value": map[string]any{"y": 4.0}}, payload)

	payload, err = Payload(executor.Fail("double", "bad input"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"outcome": "failure", "stage": "double", "message": "bad input"}, payload)
}

func TestPublish_Unreachable(t *testing.T) {
	// Port 1 is reserved and nothing listens on it.
	p, err := New("http://127.0.0.1:1", WithTimeout(500*time.Millisecond))
	require.NoError(t, err)

	err = p.Publish(context.Background(), executor.Success(nil))
	assert.Error(t, err)
}

func TestPublish_WaitsForAck(t *testing.T) {
	received := make(chan any, 1)
	url := startHub(t, func(payload any, ack hub.Ack) {
		received <- payload
		ack([]any{"ok"}, nil)
	})

	p, err := New(url, WithTimeout(5*time.Second))
	require.NoError(t, err)

	err = p.Publish(context.Background(), executor.Success(map[string]any{"y": 4.0}))
	require.NoError(t, err)

	select {
	case payload := <-received:
		assert.Equal(t, map[string]any{"outcome": "success", "value": map[string]any{"y": 4.0}}, payload)
	default:
		t.Fatal("hub never saw the result")
	}
}

func TestPublish_NoAckIsAnError(t *testing.T) {
	url := startHub(t, func(any, hub.Ack) {})

	p, err := New(url, WithTimeout(500*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	err = p.Publish(context.Background(), executor.Fail("double", "bad input"))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
