package http

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vovakirdan/chanserv/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func dial(t *testing.T, ctx context.Context, env *testEnv) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(env.ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPClient: env.ts.Client()})
	require.NoError(t, err, "dial")
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, line string) {
	t.Helper()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(line)), "write %q", line)
}

func readLine(t *testing.T, ctx context.Context, conn *websocket.Conn) string {
	t.Helper()

	typ, data, err := conn.Read(ctx)
	require.NoError(t, err, "read")
	require.Equal(t, websocket.MessageText, typ)
	return string(data)
}

func TestHealthEndpoint(t *testing.T) {
	env := startTestServer(t)

	resp, err := env.ts.Client().Get(env.ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
}

func TestWebSocketChannelConversation(t *testing.T) {
	env := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dial(t, ctx, env)
	defer connA.Close(websocket.StatusNormalClosure, "done")
	assert.Equal(t, ":test CONNECTED User0", readLine(t, ctx, connA))

	connB := dial(t, ctx, env)
	defer connB.Close(websocket.StatusNormalClosure, "done")
	assert.Equal(t, ":test CONNECTED User1", readLine(t, ctx, connB))

	send(t, ctx, connA, "NICK alice")
	assert.Equal(t, ":User0 NICK alice", readLine(t, ctx, connA))
	assert.Equal(t, ":User0 NICK alice", readLine(t, ctx, connB))

	send(t, ctx, connA, "CREATE lounge 0")
	assert.Equal(t, ":alice CREATE lounge 0", readLine(t, ctx, connA))

	send(t, ctx, connB, "join lounge")
	assert.Equal(t, ":test NAMES lounge :@alice User1", readLine(t, ctx, connB))
	assert.Equal(t, ":User1 JOIN lounge", readLine(t, ctx, connA))

	send(t, ctx, connA, "MESG lounge :hi there")
	assert.Equal(t, ":alice MESG lounge :hi there", readLine(t, ctx, connA))
	assert.Equal(t, ":alice MESG lounge :hi there", readLine(t, ctx, connB))

	send(t, ctx, connB, "KICK lounge alice")
	assert.Equal(t, ":test 404 User1 USER_NOT_OWNER ::User1 KICK lounge alice", readLine(t, ctx, connB))
}

func TestWebSocketMalformedLine(t *testing.T) {
	env := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, env)
	defer conn.Close(websocket.StatusNormalClosure, "done")
	readLine(t, ctx, conn)

	send(t, ctx, conn, "JOIN")
	assert.Equal(t, ":test ERROR User0 :JOIN: not enough parameters", readLine(t, ctx, conn))

	send(t, ctx, conn, ":User0 JOIN lounge")
	assert.Equal(t, ":test ERROR User0 :prefix not allowed", readLine(t, ctx, conn))

	send(t, ctx, conn, "NICK bad name")
	assert.Equal(t, ":test ERROR User0 :NICK: too many parameters", readLine(t, ctx, conn))

	send(t, ctx, conn, "NICK :bad name")
	assert.Equal(t, ":test 400 User0 INVALID_NAME ::User0 NICK bad name", readLine(t, ctx, conn))
}

func TestWebSocketSeveralLinesPerFrame(t *testing.T) {
	env := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, env)
	defer conn.Close(websocket.StatusNormalClosure, "done")
	readLine(t, ctx, conn)

	send(t, ctx, conn, "NICK first\r\n\nNICK second\n")
	assert.Equal(t, ":User0 NICK first", readLine(t, ctx, conn))
	assert.Equal(t, ":first NICK second", readLine(t, ctx, conn))
}

func TestWebSocketDisconnectNotifiesPeers(t *testing.T) {
	env := startTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dial(t, ctx, env)
	defer connA.Close(websocket.StatusNormalClosure, "done")
	readLine(t, ctx, connA)
	connB := dial(t, ctx, env)
	readLine(t, ctx, connB)

	send(t, ctx, connA, "CREATE c 0")
	readLine(t, ctx, connA)
	send(t, ctx, connB, "JOIN c")
	readLine(t, ctx, connB)
	readLine(t, ctx, connA)

	connB.Close(websocket.StatusNormalClosure, "bye")
	assert.Equal(t, ":User1 QUIT", readLine(t, ctx, connA))
}

func TestWebSocketFrameLimit(t *testing.T) {
	env := startTestServer(t, func(cfg *config.Config) { cfg.MaxMessageBytes = 64 })
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, env)
	defer conn.Close(websocket.StatusNormalClosure, "done")
	readLine(t, ctx, conn)

	send(t, ctx, conn, "MESG c :"+strings.Repeat("x", 128))
	_, _, err := conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusMessageTooBig, websocket.CloseStatus(err))
}
