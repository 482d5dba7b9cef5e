package web

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	pnet "github.com/Arash1381-y/PanicLabSim/internal/net"
)

// handleWebSocket speaks the TCP protocol over a WebSocket: the browser sends
// ClientMessages and receives progress messages followed by a final reply.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	send := func(msg pnet.ServerMessage) error {
		return wsjson.Write(ctx, conn, msg)
	}

	for {
		var msg pnet.ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				s.logger.Debug().Err(err).Msg("websocket read")
			}
			return
		}

		run, err := pnet.Dispatch(ctx, s.runner, msg, send)
		if err != nil {
			s.logger.Warn().Err(err).Msg("websocket write")
			return
		}
		if run != nil {
			s.runs.Put(run)
		}
	}
}
