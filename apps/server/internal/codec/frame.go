package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Encoding selects the frame format. Text frames carry JSON; binary frames
// carry a protobuf-encoded google.protobuf.Struct of the same object.
type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingProto
)

func (e Encoding) String() string {
	if e == EncodingProto {
		return "proto"
	}
	return "json"
}

var ErrMissingType = errors.New("message type is required")

// DecodeClient parses one inbound frame.
func DecodeClient(data []byte, enc Encoding) (ClientMessage, error) {
	var msg ClientMessage
	if err := Unmarshal(data, enc, &msg); err != nil {
		return ClientMessage{}, err
	}
	msg.Type = strings.TrimSpace(msg.Type)
	msg.RoomCode = strings.ToUpper(strings.TrimSpace(msg.RoomCode))
	if msg.Type == "" {
		return ClientMessage{}, ErrMissingType
	}
	return msg, nil
}

// EncodeServer serializes one outbound message.
func EncodeServer(msg ServerMessage, enc Encoding) ([]byte, error) {
	return Marshal(msg, enc)
}

// Marshal encodes any JSON-tagged value in the given encoding.
func Marshal(v any, enc Encoding) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if enc == EncodingJSON {
		return raw, nil
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("codec: struct conversion: %w", err)
	}
	return proto.Marshal(st)
}

// Unmarshal decodes data produced by Marshal into v.
func Unmarshal(data []byte, enc Encoding, v any) error {
	raw := data
	if enc == EncodingProto {
		st := &structpb.Struct{}
		if err := proto.Unmarshal(data, st); err != nil {
			return fmt.Errorf("codec: invalid binary frame: %w", err)
		}
		b, err := protojson.Marshal(st)
		if err != nil {
			return err
		}
		raw = b
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("codec: invalid message: %w", err)
	}
	return nil
}
