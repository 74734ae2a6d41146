package rest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartEvent struct {
	Type string   `json:"type"`
	Data CartView `json:"data"`
}

type themeEvent struct {
	Type string    `json:"type"`
	Data ThemeView `json:"data"`
}

func dial(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func Test_CartEvents(t *testing.T) {
	// given
	f := newFixture(t)
	server := httptest.NewServer(f.router)
	defer server.Close()
	conn := dial(t, server, "/api/v1/cart/events")

	// when
	var initial cartEvent
	require.NoError(t, conn.ReadJSON(&initial))
	// then
	assert.Equal(t, "cart", initial.Type)
	assert.Zero(t, initial.Data.ItemsCount)

	// when
	f.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":2}`)
	// then
	var ev cartEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, 2, ev.Data.ItemsCount)
	assert.Equal(t, "$20.00", ev.Data.FormattedTotal)
	assert.Equal(t, uint64(1), ev.Data.Version)
}

func Test_ThemeEvents(t *testing.T) {
	// given
	f := newFixture(t)
	server := httptest.NewServer(f.router)
	defer server.Close()
	conn := dial(t, server, "/api/v1/theme/events")
	var initial themeEvent
	require.NoError(t, conn.ReadJSON(&initial))
	require.False(t, initial.Data.DarkMode)

	// when
	f.theme.Toggle()
	// then
	var ev themeEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "theme", ev.Type)
	assert.True(t, ev.Data.DarkMode)
}

func Test_Events_UnsubscribeOnClose(t *testing.T) {
	// given
	f := newFixture(t)
	server := httptest.NewServer(f.router)
	defer server.Close()
	conn := dial(t, server, "/api/v1/cart/events")
	var initial cartEvent
	require.NoError(t, conn.ReadJSON(&initial))

	// when
	require.NoError(t, conn.Close())

	// then
	assert.Eventually(t, func() bool {
		return f.cart.ObserverCount() == 0
	}, 5*time.Second, 20*time.Millisecond)
}

func Test_Events_NonWebsocketRequest(t *testing.T) {
	// given
	f := newFixture(t)
	// when
	rr := f.do(http.MethodGet, "/api/v1/cart/events", "")
	// then
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
