// Command ladisreplay turns a round script (JSON) into a replay tape.
//
//	ladisreplay -script round.json [-wire] [-pretty]
//
// With no -script the script is read from stdin.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"ladis-lite/replay"
)

type initRequest struct {
	Script replay.RoundScript `json:"script"`
}

type initResponse struct {
	OK       bool                   `json:"ok"`
	Tape     *replay.ReplayTape     `json:"tape,omitempty"`
	WireTape *replay.WireReplayTape `json:"wireTape,omitempty"`
	Error    *replay.ReplayError    `json:"error,omitempty"`
}

func main() {
	scriptPath := flag.String("script", "", "path to the round script JSON (default stdin)")
	wire := flag.Bool("wire", false, "emit base64 protobuf events instead of plain JSON")
	pretty := flag.Bool("pretty", false, "indent output")
	flag.Parse()

	log := logrus.WithField("component", "ladisreplay")

	var (
		raw []byte
		err error
	)
	if *scriptPath == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(*scriptPath)
	}
	if err != nil {
		log.WithError(err).Fatal("failed to read script")
	}

	resp := handleInit(raw, *wire)

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(resp); err != nil {
		log.WithError(err).Fatal("failed to write tape")
	}
	if !resp.OK {
		os.Exit(1)
	}
}

// handleInit accepts either a bare RoundScript or {"script": RoundScript}.
func handleInit(raw []byte, wire bool) initResponse {
	var req initRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return initResponse{
			Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_json", Message: err.Error()},
		}
	}
	if req.Script.Players == nil {
		if err := json.Unmarshal(raw, &req.Script); err != nil {
			return initResponse{
				Error: &replay.ReplayError{StepIndex: -1, Reason: "invalid_json", Message: err.Error()},
			}
		}
	}

	tape, err := replay.GenerateReplayTape(req.Script)
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			return initResponse{Error: replayErr}
		}
		return initResponse{
			Error: &replay.ReplayError{StepIndex: -1, Reason: "replay_generation_failed", Message: err.Error()},
		}
	}
	if !wire {
		return initResponse{OK: true, Tape: tape}
	}

	wt, err := replay.ToWireReplayTape(tape)
	if err != nil {
		return initResponse{
			Error: &replay.ReplayError{StepIndex: -1, Reason: "marshal_failed", Message: err.Error()},
		}
	}
	return initResponse{OK: true, WireTape: wt}
}
