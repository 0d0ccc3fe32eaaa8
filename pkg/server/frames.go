package server

import (
	"encoding/json"
	"errors"

	perrors "github.com/vango-dev/patchwork/internal/errors"
	"github.com/vango-dev/patchwork/pkg/live/memdom"
)

// Frame types.
const (
	FrameSnapshot  = "snapshot"
	FrameMutations = "mutations"
	FrameEvent     = "event"
	FrameNavigate  = "navigate"
	FrameError     = "error"
)

// Frame is one websocket message in either direction.
//
// Server to browser:
//
//	{"type":"snapshot","html":"..."}
//	{"type":"mutations","ops":[...],"html":"..."}
//	{"type":"error","code":"E501","message":"..."}
//
// Browser to server:
//
//	{"type":"event","node":12,"event":"click","value":""}
//	{"type":"navigate","hash":"#/1"}
type Frame struct {
	Type string `json:"type"`

	HTML string            `json:"html,omitempty"`
	Ops  []memdom.Mutation `json:"ops,omitempty"`

	Node  int    `json:"node,omitempty"`
	Event string `json:"event,omitempty"`
	Value string `json:"value,omitempty"`
	Hash  string `json:"hash,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// decodeFrame parses a browser frame. Anything that is not a JSON object
// with an accepted type is an E501 error.
func decodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, perrors.New("E501").Wrap(err)
	}
	switch f.Type {
	case FrameEvent:
		if f.Node <= 0 || f.Event == "" {
			return Frame{}, perrors.New("E501").WithDetail("event frames need a node id and an event name")
		}
	case FrameNavigate:
	default:
		return Frame{}, perrors.New("E501").WithDetail("unknown frame type " + f.Type)
	}
	return f, nil
}

// errorFrame converts err into an error frame, keeping the code of
// coded errors.
func errorFrame(err error) Frame {
	f := Frame{Type: FrameError, Message: err.Error()}
	var perr *perrors.PatchworkError
	if errors.As(err, &perr) {
		f.Code = perr.Code
		f.Message = perr.Message
		if perr.Detail != "" {
			f.Message += ": " + perr.Detail
		}
	}
	return f
}
