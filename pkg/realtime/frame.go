package realtime

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server frame events.
const (
	FrameNotification = "notification"
	FrameJoined       = "joined"
	FrameLeft         = "left"
	FrameError        = "error"
)

// Client message events.
const (
	MessageJoinAdmin  = "join-admin"
	MessageLeaveAdmin = "leave-admin"
	MessageJoinRoom   = "join-room"
	MessageLeaveRoom  = "leave-room"
)

type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type ClientMessage struct {
	Event string `json:"event"`
	Room  string `json:"room,omitempty"`
}

func EncodeFrame(event string, data any) ([]byte, error) {
	return json.Marshal(Frame{Event: event, Data: data})
}
