// Package audio provides microphone frame delivery for the capture engine.
// Backends hand raw little-endian PCM frames to a callback; everything above
// this boundary (decoding, downmixing, accumulation) is format-agnostic.
package audio

// FrameFunc receives one raw PCM frame. The backend may reuse the underlying
// buffer as soon as the call returns, so implementations must copy if they
// keep the data.
type FrameFunc func(data []byte)

// StreamInfo describes the format negotiated at stream-open time. The sample
// rate is the device's nominal rate; consumers that care about the true rate
// should measure it instead.
type StreamInfo struct {
	SampleRate int
	Channels   int
}

// Source opens capture streams on a platform audio backend.
type Source interface {
	// Open starts a capture stream on the named device ("" for the default)
	// and begins delivering frames to onFrame.
	Open(deviceID string, onFrame FrameFunc) (Stream, error)
	ListDevices() ([]Device, error)
	Close() error
}

// Stream is one open capture stream.
type Stream interface {
	Info() StreamInfo
	// Stop halts frame delivery. No frames arrive after Stop returns.
	Stop() error
	Close() error
}

// Device represents an audio input device.
type Device struct {
	ID      string
	Name    string
	Default bool
}
