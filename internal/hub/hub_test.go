package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	msgs []*Message
}

func (r *recorder) handle(_ context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	if msg.Type == TypeAction {
		return errors.New("no such action")
	}
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func startHub(t *testing.T, handler Handler) (*Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := New(handler)
	go h.Run(ctx)

	n := 0
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		n++
		id := "client-" + string(rune('0'+n))
		mu.Unlock()
		c := NewClient(h, conn, strings.TrimPrefix(r.URL.Path, "/"), id)
		h.Register(c)
		go c.WritePump(r.Context())
		c.ReadPump(r.Context())
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return &msg
}

func writeMessage(t *testing.T, conn *websocket.Conn, msg *Message) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
}

func TestWelcomeAndFrames(t *testing.T) {
	h, url := startHub(t, nil)
	conn := dial(t, url+"/chart_a")

	welcome := readMessage(t, conn)
	assert.Equal(t, TypeWelcome, welcome.Type)
	assert.Equal(t, "chart_a", welcome.ChartID)
	var wp WelcomePayload
	require.NoError(t, json.Unmarshal(welcome.Payload, &wp))
	assert.Equal(t, 1, wp.Clients)
	assert.Equal(t, 1, h.Clients("chart_a"))

	h.BroadcastFrame("chart_b", []byte(`[]`))
	h.BroadcastFrame("chart_a", []byte(`[{"op":"path"}]`))
	frame := readMessage(t, conn)
	assert.Equal(t, TypeFrame, frame.Type)
	assert.Equal(t, int64(2), frame.Seq)
	assert.JSONEq(t, `[{"op":"path"}]`, string(frame.Payload))
}

func TestJoinIsAnnouncedToOthers(t *testing.T) {
	_, url := startHub(t, nil)
	first := dial(t, url+"/chart_a")
	readMessage(t, first)

	second := dial(t, url+"/chart_a")
	readMessage(t, second)

	join := readMessage(t, first)
	assert.Equal(t, TypeJoin, join.Type)
	var p PresencePayload
	require.NoError(t, json.Unmarshal(join.Payload, &p))
	assert.Equal(t, 2, p.Clients)
}

func TestMessagesReachHandler(t *testing.T) {
	rec := &recorder{}
	_, url := startHub(t, rec.handle)
	conn := dial(t, url+"/chart_a")
	readMessage(t, conn)

	hover, err := NewMessage(TypeHover, "", HoverPayload{X: 3, Y: 4})
	require.NoError(t, err)
	writeMessage(t, conn, hover)
	writeMessage(t, conn, &Message{Type: TypeAction, Payload: json.RawMessage(`{"type":"explode"}`)})

	reply := readMessage(t, conn)
	assert.Equal(t, TypeError, reply.Type)
	assert.Equal(t, 2, rec.count())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "chart_a", rec.msgs[0].ChartID)
	var hp HoverPayload
	require.NoError(t, json.Unmarshal(rec.msgs[0].Payload, &hp))
	assert.Equal(t, HoverPayload{X: 3, Y: 4}, hp)
}

func TestUnknownMessageType(t *testing.T) {
	rec := &recorder{}
	_, url := startHub(t, rec.handle)
	conn := dial(t, url+"/chart_a")
	readMessage(t, conn)

	writeMessage(t, conn, &Message{Type: "dance"})
	reply := readMessage(t, conn)
	assert.Equal(t, TypeError, reply.Type)
	assert.Zero(t, rec.count())
}

func TestCloseRoom(t *testing.T) {
	h, url := startHub(t, nil)
	conn := dial(t, url+"/chart_a")
	readMessage(t, conn)

	h.CloseRoom("chart_a")
	assert.Equal(t, TypeClosed, readMessage(t, conn).Type)
	assert.Zero(t, h.Clients("chart_a"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := conn.Read(ctx)
	assert.Error(t, err)
}
