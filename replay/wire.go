package replay

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// WireReplayTape carries each event as a base64 protobuf Struct, the same
// encoding the server uses for binary frames.
type WireReplayTape struct {
	TapeVersion int               `json:"tapeVersion"`
	Seed        int64             `json:"seed"`
	Events      []WireReplayEvent `json:"events"`
}

type WireReplayEvent struct {
	Type        string `json:"type"`
	Seq         uint64 `json:"seq"`
	EnvelopeB64 string `json:"envelopeB64"`
}

var deterministic = proto.MarshalOptions{Deterministic: true}

func ToWireReplayTape(tape *ReplayTape) (*WireReplayTape, error) {
	if tape == nil {
		return nil, nil
	}
	out := &WireReplayTape{
		TapeVersion: tape.TapeVersion,
		Seed:        tape.Seed,
		Events:      make([]WireReplayEvent, 0, len(tape.Events)),
	}
	for _, e := range tape.Events {
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", e.Seq, err)
		}
		st := &structpb.Struct{}
		if err := protojson.Unmarshal(raw, st); err != nil {
			return nil, fmt.Errorf("event %d: %w", e.Seq, err)
		}
		data, err := deterministic.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", e.Seq, err)
		}
		out.Events = append(out.Events, WireReplayEvent{
			Type:        e.Type,
			Seq:         e.Seq,
			EnvelopeB64: base64.StdEncoding.EncodeToString(data),
		})
	}
	return out, nil
}

// DecodeEnvelope reverses one EnvelopeB64 into its event.
func DecodeEnvelope(b64 string) (ReplayEvent, error) {
	var e ReplayEvent
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return e, err
	}
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return e, err
	}
	raw, err := protojson.Marshal(st)
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(raw, &e)
	return e, err
}
