package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kavia-common/tic-tac-toe-classic/internal/session"
	"github.com/kavia-common/tic-tac-toe-classic/internal/validator"
	"github.com/kavia-common/tic-tac-toe-classic/pkg/proto"
)

// handleWebSocket upgrades the connection, attaches the client to its session
// (minting one when no sessionId is presented) and starts the read and write
// pumps. The write pump relays every session transition as an update message;
// the read pump dispatches validated move intents back into the session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", r.URL.String()),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	mode := session.ModeTwoPlayer
	if m := r.URL.Query().Get("mode"); session.IsValidMode(m) {
		mode = session.Mode(m)
	}
	sess := s.manager.GetOrCreate(r.URL.Query().Get("sessionId"), mode)
	span.SetAttributes(attribute.String("session.id", sess.ID))

	updates, unsubscribe := sess.Subscribe()

	// The client learns its session id (and current state) before any update.
	joined := proto.ServerToClientMessage{
		Type:      "joined",
		SessionID: sess.ID,
		Snapshot:  snapshotPtr(sess.Snapshot()),
	}
	if err := writeMessage(conn, &joined); err != nil {
		slog.WarnContext(ctx, "failed to send joined message", "session.id", sess.ID, "error", err)
		unsubscribe()
		conn.Close()
		return
	}

	// The request context dies with this handler; the pumps outlive it.
	pumpCtx := context.WithoutCancel(ctx)
	go s.writePump(pumpCtx, conn, sess, updates)
	go s.readPump(pumpCtx, conn, sess, unsubscribe)
}

func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, sess *session.Session, updates <-chan session.Snapshot) {
	for snap := range updates {
		msg := proto.ServerToClientMessage{Type: "update", Snapshot: snapshotPtr(snap)}
		if err := writeMessage(conn, &msg); err != nil {
			slog.WarnContext(ctx, "failed to push update, dropping client", "session.id", sess.ID, "error", err)
			conn.Close()
			return
		}
	}
	// Subscription closed: the session was evicted or the client left.
	conn.Close()
}

func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, sess *session.Session, unsubscribe func()) {
	defer func() {
		unsubscribe()
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			slog.DebugContext(ctx, "client connection closed", "session.id", sess.ID, "error", err)
			return
		}
		s.dispatch(ctx, sess, raw)
	}
}

// dispatch validates one client intent and applies it to the session.
// Malformed messages are logged and dropped, mirroring the engine's
// silent-no-op contract for invalid moves.
func (s *Server) dispatch(ctx context.Context, sess *session.Session, raw []byte) {
	ctx, span := tracer.Start(ctx, "server.dispatch", trace.WithAttributes(
		attribute.String("session.id", sess.ID),
	))
	defer span.End()

	var msg proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "session.id", sess.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return
	}

	if err := validator.GetValidator().Struct(msg); err != nil {
		slog.WarnContext(ctx, "invalid message from client", "session.id", sess.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return
	}
	span.SetAttributes(attribute.String("message.type", msg.Type))

	switch msg.Type {
	case proto.IntentMove:
		sess.SubmitMove(ctx, *msg.Cell)
	case proto.IntentReset:
		sess.ResetBoard(ctx)
	case proto.IntentResetScores:
		sess.ResetScores(ctx)
	case proto.IntentSetMode:
		sess.SetMode(ctx, session.Mode(msg.Mode))
	}
}

func writeMessage(conn *websocket.Conn, msg *proto.ServerToClientMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func snapshotPtr(snap session.Snapshot) *session.Snapshot {
	return &snap
}
