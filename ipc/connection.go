package ipc

import (
	"log/slog"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single battle client talking to the sidecar.
// Each client gets its own connection, identified after the hello handshake.
type Connection struct {
	framer   Framer
	handlers map[string]Handler
	writeMu  sync.Mutex
	Session  string
	Client   string
}

func NewConnection(framer Framer, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		framer:   framer,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.framer.WriteEnvelope(env)
}

// Close closes the underlying transport, which also ends ReadLoop.
func (c *Connection) Close() error { return c.framer.Close() }

// ReadLoop blocks until the connection closes or errors. It owns the transport
// lifetime so callers don't need to track cleanup.
func (c *Connection) ReadLoop() {
	defer c.framer.Close()

	for {
		env, err := c.framer.ReadEnvelope()
		if err != nil {
			slog.Info("connection read ended", "session", c.Session, "client", c.Client, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			if err := c.write(errorEnvelope(env.Type, "unknown message type")); err != nil {
				slog.Error("failed to send error", "type", env.Type, "error", err)
				return
			}
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			if err := c.write(errorEnvelope(env.Type, err.Error())); err != nil {
				slog.Error("failed to send error", "type", env.Type, "error", err)
				return
			}
			continue
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "session", c.Session)
		}
	}
}

func errorEnvelope(msgType, reason string) Envelope {
	raw, _ := json.Marshal(ErrorMessage{Type: msgType, Error: reason})
	return Envelope{Type: TypeError, Data: raw}
}
