package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandSetEnabled  CommandType = "SET_ENABLED"
	CommandToggle      CommandType = "TOGGLE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Enabled       bool        `json:"enabled"`
	Dragging      bool        `json:"dragging"`
	Zone          string      `json:"zone,omitempty"`
	Overlay       string      `json:"overlay"`
	HalfSnap      bool        `json:"half_snap"`
	Window        *WindowInfo `json:"window,omitempty"`
	Hotkeys       []string    `json:"hotkeys,omitempty"`
	ConfigPath    string      `json:"config_path,omitempty"`
	UptimeSeconds int64       `json:"uptime_seconds"`
}

// WindowInfo is the frame geometry of the snapped window.
type WindowInfo struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MonitorInfo describes one display as the snap engine sees it.
type MonitorInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Primary  bool   `json:"primary"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Reserved int    `json:"reserved"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// SetEnabledPayload is the payload for SET_ENABLED.
type SetEnabledPayload struct {
	Enabled bool `json:"enabled"`
}

// EnabledData is returned by SET_ENABLED and TOGGLE.
type EnabledData struct {
	Enabled bool `json:"enabled"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
