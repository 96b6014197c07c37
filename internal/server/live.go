package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rcliao/qalam/internal/assist"
	"github.com/rcliao/qalam/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Frame types exchanged on /v1/live.
const (
	FrameText     = "text"     // client: the current editor text
	FrameCancel   = "cancel"   // client: drop the pending grammar check
	FrameAnalysis = "analysis" // server: immediate rule-based report
	FrameGrammar  = "grammar"  // server: debounced grammar result
	FrameError    = "error"    // server: a failed request
)

// LiveMessage is a frame sent by the client.
type LiveMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// LiveFrame is a frame sent by the server. Seq ties analysis and grammar
// frames to the text submission they answer.
type LiveFrame struct {
	Type    string                `json:"type"`
	Seq     uint64                `json:"seq,omitempty"`
	Report  *assist.Report        `json:"report,omitempty"`
	Grammar *assist.GrammarResult `json:"grammar,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// liveSession is one editor connection.
type liveSession struct {
	conn   *websocket.Conn
	send   chan LiveFrame
	closed chan struct{} // closed when the write pump exits
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.FromContext(r.Context()).Warn("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.cfg.MaxMessageSize)

	// Detach from the request so the access log middleware does not hold
	// the connection's context.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	log := logging.FromContext(ctx)
	log.Info("live session opened", "remote_addr", r.RemoteAddr)

	sess := &liveSession{
		conn:   conn,
		send:   make(chan LiveFrame, 16),
		closed: make(chan struct{}),
	}
	go sess.writePump()

	stream := s.svc.Stream(ctx, s.cfg.Debounce)
	var forward sync.WaitGroup
	forward.Add(1)
	go func() {
		defer forward.Done()
		for res := range stream.Results() {
			if res.Err != nil {
				sess.push(LiveFrame{Type: FrameError, Seq: res.Seq, Error: res.Err.Error()})
				continue
			}
			g := res.Result
			sess.push(LiveFrame{Type: FrameGrammar, Seq: res.Seq, Grammar: &g})
		}
	}()

	s.readLoop(sess, stream)

	cancel()
	stream.Close()
	forward.Wait()
	close(sess.send)
	<-sess.closed
	log.Info("live session closed", "remote_addr", r.RemoteAddr)
}

func (s *Server) readLoop(sess *liveSession, stream *assist.Stream) {
	sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Logger().Warn("websocket unexpected close", "error", err)
			}
			return
		}
		sess.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg LiveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.push(LiveFrame{Type: FrameError, Error: "invalid message: " + err.Error()})
			continue
		}

		switch msg.Type {
		case FrameText:
			report := s.svc.Analyze(msg.Text)
			seq := stream.Submit(msg.Text)
			sess.push(LiveFrame{Type: FrameAnalysis, Seq: seq, Report: &report})
		case FrameCancel:
			stream.Cancel()
		default:
			sess.push(LiveFrame{Type: FrameError, Error: "unknown message type " + msg.Type})
		}
	}
}

// push queues a frame unless the write pump has stopped.
func (sess *liveSession) push(f LiveFrame) {
	select {
	case sess.send <- f:
	case <-sess.closed:
	}
}

func (sess *liveSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sess.conn.Close()
		close(sess.closed)
	}()

	for {
		select {
		case f, ok := <-sess.send:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sess.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			out, err := marshalNoEscape(f)
			if err != nil {
				logging.Logger().Error("encode live frame", "error", err)
				continue
			}
			if err := sess.conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}

		case <-ticker.C:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
