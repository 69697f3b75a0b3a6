package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxMessageSize bounds a single envelope on either transport.
const maxMessageSize = 1 << 20

// Envelope is the wire format shared with battle clients.
// Data is kept as RawMessage so handlers can defer deserialization to the concrete type.
type Envelope struct {
	Type string              `json:"type"`
	Data jsoniter.RawMessage `json:"data,omitempty"`
}

func NewEnvelope(msgType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal data: %w", err)
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// Decode unmarshals the envelope payload into v.
func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%s: empty payload", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", e.Type, err)
	}
	return nil
}

// Framer moves whole envelopes over a transport.
type Framer interface {
	ReadEnvelope() (Envelope, error)
	WriteEnvelope(Envelope) error
	Close() error
}

// ErrFrameSize is returned for frames that are empty or over the size cap.
var ErrFrameSize = errors.New("invalid message length")

// StreamFramer frames envelopes on a byte stream (unix socket, TCP) with a
// 4-byte little-endian length prefix.
type StreamFramer struct {
	rw io.ReadWriteCloser
}

func NewStreamFramer(rw io.ReadWriteCloser) *StreamFramer {
	return &StreamFramer{rw: rw}
}

// ReadEnvelope reads a single length-prefixed JSON envelope.
func (f *StreamFramer) ReadEnvelope() (Envelope, error) {
	var length uint32
	if err := binary.Read(f.rw, binary.LittleEndian, &length); err != nil {
		return Envelope{}, fmt.Errorf("read length: %w", err)
	}

	// Guard against corrupted frames or malicious payloads.
	if length == 0 || length > maxMessageSize {
		return Envelope{}, fmt.Errorf("%w: %d", ErrFrameSize, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(f.rw, payload); err != nil {
		return Envelope{}, fmt.Errorf("read payload: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

func (f *StreamFramer) WriteEnvelope(env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if len(payload) > maxMessageSize {
		return fmt.Errorf("%w: %d", ErrFrameSize, len(payload))
	}

	// Prefix and payload go out in a single write.
	frame := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)
	if _, err := f.rw.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (f *StreamFramer) Close() error { return f.rw.Close() }
