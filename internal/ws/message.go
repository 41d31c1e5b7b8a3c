package ws

import (
	"encoding/json"
	"fmt"

	"github.com/coder/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgMove  uint8 = 0x01
	MsgAngle uint8 = 0x02
	MsgPower uint8 = 0x03
	MsgFire  uint8 = 0x04
	MsgReset uint8 = 0x05
	MsgPing  uint8 = 0x06
)

// Server -> Client message types
const (
	MsgSnapshot   uint8 = 0x81
	MsgMatchStart uint8 = 0x82
	MsgEvents     uint8 = 0x83
	MsgGameOver   uint8 = 0x84
	MsgPong       uint8 = 0x86
)

// Message is an outbound envelope; Payload is encoded by the connection's codec.
type Message struct {
	Type    uint8  `json:"type" msgpack:"type"`
	Tick    uint32 `json:"tick" msgpack:"tick"`
	Payload any    `json:"payload" msgpack:"payload"`
}

// Envelope is a decoded inbound message whose payload is still raw.
type Envelope struct {
	Type uint8
	Tick uint32

	payload   []byte
	unmarshal func([]byte, any) error
}

// Bind decodes the payload into v. An empty payload leaves v untouched.
func (e Envelope) Bind(v any) error {
	if len(e.payload) == 0 || e.unmarshal == nil {
		return nil
	}
	if err := e.unmarshal(e.payload, v); err != nil {
		return fmt.Errorf("decode payload of message 0x%02x: %w", e.Type, err)
	}
	return nil
}

type MovePayload struct {
	Direction int8 `json:"direction" msgpack:"direction"` // -1 left, 1 right
}

type AdjustPayload struct {
	Delta float64 `json:"delta" msgpack:"delta"`
}

type PingPayload struct {
	ClientTime uint64 `json:"clientTime" msgpack:"clientTime"`
}

type PongPayload struct {
	ClientTime uint64 `json:"clientTime" msgpack:"clientTime"`
	ServerTime uint64 `json:"serverTime" msgpack:"serverTime"`
}

// Codec turns envelopes into websocket frames and back.
type Codec interface {
	Name() string
	Frame() websocket.MessageType
	Encode(msg Message) ([]byte, error)
	Decode(data []byte) (Envelope, error)
}

var (
	JSON    Codec = jsonCodec{}
	MsgPack Codec = msgpackCodec{}
)

// CodecByName resolves the ?codec= query value; empty selects JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

type jsonCodec struct{}

func (jsonCodec) Name() string                 { return "json" }
func (jsonCodec) Frame() websocket.MessageType { return websocket.MessageText }

func (jsonCodec) Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Decode(data []byte) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, fmt.Errorf("empty json frame")
	}
	var raw struct {
		Type    uint8           `json:"type"`
		Tick    uint32          `json:"tick"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: raw.Type, Tick: raw.Tick, payload: raw.Payload, unmarshal: json.Unmarshal}, nil
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string                 { return "msgpack" }
func (msgpackCodec) Frame() websocket.MessageType { return websocket.MessageBinary }

func (msgpackCodec) Encode(msg Message) ([]byte, error) {
	return msgpack.Marshal(&msg)
}

func (msgpackCodec) Decode(data []byte) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, fmt.Errorf("empty msgpack frame")
	}
	var raw struct {
		Type    uint8              `msgpack:"type"`
		Tick    uint32             `msgpack:"tick"`
		Payload msgpack.RawMessage `msgpack:"payload"`
	}
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: raw.Type, Tick: raw.Tick, payload: raw.Payload, unmarshal: msgpack.Unmarshal}, nil
}
