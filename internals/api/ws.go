package api

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/thebowwman/fleetflow/internals/hub"
)

// handleWS upgrades a dashboard subscriber and registers it with the hub.
// Subscribers are read-only: inbound frames are drained for connection
// liveness and otherwise ignored.
func (a *API) handleWS(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{InsecureSkipVerify: true}) // TODO: use OriginPatterns in prod
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	conn.SetReadLimit(1 << 20)

	client := hub.NewClient(conn)
	a.Hub.AddClient(client)
	defer a.Hub.RemoveClient(client)
	a.Log.Info("subscriber connected", "subscribers", a.Hub.ClientCount())

	// New subscribers get the current state immediately.
	client.SendEvent("connected", a.Store.Snapshot())

	// Keepalive pings.
	pingCtx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go func() {
		t := time.NewTicker(30 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-pingCtx.Done():
				return
			case <-t.C:
				ctx, cancelPing := context.WithTimeout(pingCtx, 5*time.Second)
				_ = conn.Ping(ctx)
				cancelPing()
			}
		}
	}()

	for {
		if _, _, err := conn.Read(c.Request.Context()); err != nil {
			break
		}
	}
	a.Log.Info("subscriber disconnected")
}
