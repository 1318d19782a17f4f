package joystick

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
)

func TestStateAccessors(t *testing.T) {
	s := State{Axes: []float64{1, 2, -3}, Buttons: []bool{false, true}}
	assert.Equal(t, -3.0, s.Axis(2))
	assert.Equal(t, 0.0, s.Axis(3))
	assert.Equal(t, 0.0, s.Axis(-1))
	assert.True(t, s.Button(1))
	assert.False(t, s.Button(5))

	assert.Equal(t, s, Fixed(s).State())
}

func TestServerStoresLatestState(t *testing.T) {
	srv := NewServer(customlog.Discard())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/joystick"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	want := State{Axes: []float64{0, 0, -16384, 8000}, Buttons: []bool{false, true}}
	require.NoError(t, conn.WriteJSON(want))

	require.Eventually(t, func() bool {
		got := srv.State()
		return srv.Operators() == 1 && len(got.Axes) == 4 && got.Axes[2] == -16384 && got.Button(1)
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	require.Eventually(t, func() bool {
		return srv.Operators() == 0 && len(srv.State().Axes) == 0
	}, time.Second, 5*time.Millisecond)
}
