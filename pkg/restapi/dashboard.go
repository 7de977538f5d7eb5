package restapi

import (
	"net/http"

	"github.com/sentrylog/sentrylog/pkg/broadcast"
	"github.com/sentrylog/sentrylog/pkg/log"
	"github.com/sentrylog/sentrylog/pkg/metrics"
	"github.com/sentrylog/sentrylog/pkg/transport"
)

const dashboardRecentErrors = 50

// handleDashboard upgrades a dashboard client to the push transport,
// subscribes it to the broadcast fan-out, and immediately sends the three
// snapshot frames the spec requires: full agent list, recent-50 errors,
// and current insights.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	conn, err := transport.Accept(w, r)
	if err != nil {
		// The websocket upgrader has already written its own error
		// response to w by this point; just log and bail out.
		log.WithComponent("restapi").Warn().Err(err).Msg("dashboard upgrade failed")
		return
	}

	sub := s.broadcast.Subscribe(conn)
	metrics.BroadcastSubscribersTotal.Set(float64(s.broadcast.SubscriberCount()))

	if f, err := transport.Encode(broadcast.FrameServers, s.hub.Agents()); err == nil {
		sub.Send(f)
	}
	if f, err := transport.Encode(broadcast.FrameErrors, s.hub.Store().Recent(dashboardRecentErrors)); err == nil {
		sub.Send(f)
	}
	if f, err := transport.Encode(broadcast.FrameInsights, s.hub.Store().Insights()); err == nil {
		sub.Send(f)
	}

	// A dashboard never sends frames, but we still read from the
	// connection so a client-initiated close is detected promptly
	// instead of waiting for the write pump's next failed send.
	go func() {
		for {
			if _, err := conn.Recv(); err != nil {
				s.broadcast.Unsubscribe(sub)
				return
			}
		}
	}()

	go func() {
		<-sub.Done()
		s.broadcast.Unsubscribe(sub)
		conn.Close()
		metrics.BroadcastSubscribersTotal.Set(float64(s.broadcast.SubscriberCount()))
		log.WithComponent("restapi").Debug().Msg("dashboard subscriber disconnected")
	}()
}
