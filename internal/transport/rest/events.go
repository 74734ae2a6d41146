package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/storefront/internal/cart"
	"github.com/abgdnv/storefront/internal/theme"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Event is one message of a websocket stream.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// CartEvents streams the current cart followed by every change.
func (h *Handler) CartEvents(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	stream(h, w, r, mLogger, h.cart.Subscribe, h.cart.Snapshot, func(s cart.State) Event {
		return Event{Type: "cart", Data: newCartView(s)}
	})
}

// ThemeEvents streams the current theme followed by every toggle.
func (h *Handler) ThemeEvents(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	stream(h, w, r, mLogger, h.theme.Subscribe, h.theme.Snapshot, func(s theme.State) Event {
		return Event{Type: "theme", Data: newThemeView(s)}
	})
}

// stream upgrades the request and forwards store states to the client.
// Observers run inside store mutations, so states are handed over through a
// one-slot mailbox that keeps only the newest state; a slow client skips
// intermediate states instead of blocking the store.
func stream[T any](h *Handler, w http.ResponseWriter, r *http.Request, logger *slog.Logger,
	subscribe func(func(T)) func(), current func() T, render func(T) Event) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnContext(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	mailbox := make(chan T, 1)
	unsubscribe := subscribe(func(v T) {
		select {
		case mailbox <- v:
		default:
			select {
			case <-mailbox:
			default:
			}
			select {
			case mailbox <- v:
			default:
			}
		}
	})
	defer unsubscribe()
	logger.DebugContext(r.Context(), "Event stream opened")

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(v T) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(render(v)); err != nil {
			logger.DebugContext(r.Context(), "Event stream write failed", "error", err)
			return false
		}
		return true
	}

	if !write(current()) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case v := <-mailbox:
			if !write(v) {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			logger.DebugContext(r.Context(), "Event stream closed by client")
			return
		case <-h.closing:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}
