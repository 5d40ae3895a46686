package gateway

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"redlight/internal/protocol"
)

// Client is one websocket session. Intents read from the socket are
// dispatched in arrival order, which together with the per-room lock in
// the engine gives the ordering guarantee within a room. The room field
// is guarded by the gateway mutex.
type Client struct {
	id   string
	room string
	conn *websocket.Conn
	send chan any
	gw   *Gateway
}

// readPump reads intents until the socket dies, then runs the
// disconnect path.
func (c *Client) readPump() {
	defer func() {
		c.gw.dropClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.gw.settings.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.gw.settings.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.gw.settings.PongTimeout))
		return nil
	})

	for {
		var intent protocol.Intent
		if err := c.conn.ReadJSON(&intent); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("conn", c.id).Msg("websocket read error")
			}
			return
		}

		c.conn.SetReadDeadline(time.Now().Add(c.gw.settings.PongTimeout))
		c.gw.dispatch(c, intent)
	}
}

// writePump serializes outbound messages and keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.gw.settings.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.gw.settings.WriteDeadline))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("websocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.gw.settings.WriteDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
