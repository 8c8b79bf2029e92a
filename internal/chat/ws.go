package chat

import (
	"encoding/json"
	"strings"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/auth"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/config"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Client -> server control frames. Everything else flows server -> client.
type controlFrame struct {
	Subscribe   string `json:"subscribe,omitempty"`
	Unsubscribe string `json:"unsubscribe,omitempty"`
}

// UpgradeMiddleware authenticates the websocket handshake. The token rides
// in the query string because browsers cannot set headers on websockets.
func UpgradeMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		claims, err := auth.ParseToken(cfg.JWTSecret, c.Query("token"))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals("ws_emp_id", claims.EmpID)
		c.Locals("ws_dept_id", claims.DeptID)
		return c.Next()
	}
}

// WebsocketHandler runs one connection: a writer draining the hub buffer
// and a read loop handling subscribe/unsubscribe frames.
func WebsocketHandler(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		empID, _ := conn.Locals("ws_emp_id").(uint)
		deptID, _ := conn.Locals("ws_dept_id").(int)

		sub := &subscriber{
			empID:  empID,
			deptID: deptID,
			send:   make(chan []byte, 64),
			topics: make(map[string]struct{}),
		}

		// Everyone gets their own channel; HQ staff also get the globals.
		hub.subscribe(sub, UserTopic(empID))
		hub.subscribe(sub, TopicGlobal)
		hub.subscribe(sub, TopicRoomsUpdate)
		hub.subscribe(sub, DeptTopic(deptID))
		defer hub.drop(sub)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range sub.send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var frame controlFrame
			if err := json.Unmarshal(raw, &frame); err != nil {
				continue
			}
			if topic := strings.TrimSpace(frame.Subscribe); topic != "" && allowedTopic(sub, topic) {
				hub.subscribe(sub, topic)
			}
			if topic := strings.TrimSpace(frame.Unsubscribe); topic != "" {
				hub.unsubscribe(sub, topic)
			}
		}

		hub.drop(sub)
		<-done
	})
}

// allowedTopic stops a client from attaching to another user's private
// channel. Room membership is enforced when messages are sent, matching the
// open STOMP topics of the original system.
func allowedTopic(s *subscriber, topic string) bool {
	if strings.HasPrefix(topic, "user:") {
		return topic == UserTopic(s.empID)
	}
	return true
}
