package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"messenger-core/core/codec"
	"messenger-core/core/remote"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serverFrame struct {
	Token  string           `cbor:"token"`
	Method string           `cbor:"method,omitempty"`
	Params codec.RawMessage `cbor:"params,omitempty"`
	Result codec.RawMessage `cbor:"result,omitempty"`
	Error  *remote.Error    `cbor:"error,omitempty"`
}

type echoParams struct {
	Text string `cbor:"text"`
}

// newServer starts a websocket server answering each frame with handle.
func newServer(t *testing.T, handle func(f serverFrame) *serverFrame) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var f serverFrame
			if err := codec.Unmarshal(data, &f); err != nil {
				return
			}
			reply := handle(f)
			if reply == nil {
				continue
			}
			out, err := codec.Marshal(reply)
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, out); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *remote.WebsocketClient {
	t.Helper()
	client, err := remote.Dial(context.Background(), remote.Config{URL: url}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestWebsocketClient_RoundTrip(t *testing.T) {
	url := newServer(t, func(f serverFrame) *serverFrame {
		var p echoParams
		_ = codec.Unmarshal(f.Params, &p)
		result, _ := codec.Marshal(echoParams{Text: f.Method + ":" + p.Text})
		return &serverFrame{Token: f.Token, Result: result}
	})
	client := dial(t, url)
	defer client.Close()

	resp, err := client.Send(context.Background(), remote.Request{
		Token:  "t-1",
		Method: "echo",
		Params: echoParams{Text: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", resp.Token)

	var got echoParams
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, "echo:hello", got.Text)
}

func TestWebsocketClient_ServerErrorIsVerbatim(t *testing.T) {
	url := newServer(t, func(f serverFrame) *serverFrame {
		return &serverFrame{Token: f.Token, Error: &remote.Error{Code: 400, Message: "CHANNEL_PRIVATE"}}
	})
	client := dial(t, url)
	defer client.Close()

	_, err := client.Send(context.Background(), remote.Request{Token: "t-2", Method: "any"})
	require.Error(t, err)

	var remoteErr *remote.Error
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, 400, remoteErr.Code)
	assert.Equal(t, "CHANNEL_PRIVATE", remoteErr.Error())
}

func TestWebsocketClient_OutOfOrderReplies(t *testing.T) {
	held := make(chan serverFrame, 1)
	url := newServer(t, func(f serverFrame) *serverFrame {
		result, _ := codec.Marshal(echoParams{Text: f.Token})
		if f.Token == "first" {
			held <- serverFrame{Token: f.Token, Result: result}
			return nil
		}
		// Answer the second call, then the held first one.
		first := <-held
		_ = first
		return &serverFrame{Token: f.Token, Result: result}
	})
	client := dial(t, url)
	defer client.Close()

	firstDone := make(chan error, 1)
	go func() {
		_, err := client.Send(context.Background(), remote.Request{Token: "first", Method: "slow"})
		firstDone <- err
	}()

	// Give the first frame time to reach the server.
	time.Sleep(50 * time.Millisecond)

	resp, err := client.Send(context.Background(), remote.Request{Token: "second", Method: "fast"})
	require.NoError(t, err)
	var got echoParams
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, "second", got.Text)

	// The first call is still pending and is failed by Close.
	require.NoError(t, client.Close())
	select {
	case err := <-firstDone:
		assert.ErrorIs(t, err, remote.ErrClientClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call was not failed on close")
	}
}

func TestWebsocketClient_ContextCancel(t *testing.T) {
	url := newServer(t, func(f serverFrame) *serverFrame { return nil })
	client := dial(t, url)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Send(ctx, remote.Request{Token: "t-3", Method: "never"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWebsocketClient_RejectsEmptyToken(t *testing.T) {
	url := newServer(t, func(f serverFrame) *serverFrame { return nil })
	client := dial(t, url)
	defer client.Close()

	_, err := client.Send(context.Background(), remote.Request{Method: "x"})
	assert.Error(t, err)
}

func TestDial_InvalidEndpoint(t *testing.T) {
	_, err := remote.Dial(context.Background(), remote.Config{URL: "ws://127.0.0.1:1/none", HandshakeTimeoutSeconds: 1}, nil)
	assert.Error(t, err)
}

func TestWebsocketClient_Push(t *testing.T) {
	url := newServer(t, func(f serverFrame) *serverFrame {
		payload, _ := codec.Marshal(echoParams{Text: "pushed"})
		return &serverFrame{Method: "updates", Params: payload}
	})
	client := dial(t, url)
	defer client.Close()

	got := make(chan remote.Push, 1)
	client.OnPush(func(p remote.Push) { got <- p })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Send(ctx, remote.Request{Token: "t-push", Method: "subscribe"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case p := <-got:
		assert.Equal(t, "updates", p.Method)
		var decoded echoParams
		require.NoError(t, p.Decode(&decoded))
		assert.Equal(t, "pushed", decoded.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("push was not delivered")
	}
}
