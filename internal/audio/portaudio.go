package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gordonklaus/portaudio"
)

const portAudioFramesPerBuffer = 512

type portAudioSource struct{}

// NewPortAudio creates a PortAudio-backed Source.
func NewPortAudio() (Source, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioSource{}, nil
}

func (p *portAudioSource) Open(deviceID string, onFrame FrameFunc) (Stream, error) {
	device, err := findPortAudioDevice(deviceID)
	if err != nil {
		return nil, err
	}

	channels := device.MaxInputChannels
	if channels > 2 {
		channels = 2
	}
	if channels < 1 {
		channels = 1
	}
	sampleRate := device.DefaultSampleRate

	buffer := make([]float32, portAudioFramesPerBuffer*channels)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: portAudioFramesPerBuffer,
	}, buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}

	ps := &portAudioStream{
		stream: stream,
		info:   StreamInfo{SampleRate: int(sampleRate), Channels: channels},
		done:   make(chan struct{}),
	}
	go ps.readLoop(buffer, onFrame)
	return ps, nil
}

func findPortAudioDevice(deviceID string) (*portaudio.DeviceInfo, error) {
	if deviceID == "" {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("failed to get default input device: %w", err)
		}
		return device, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	for _, d := range devices {
		if d.Name == deviceID {
			return d, nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", deviceID)
}

func (p *portAudioSource) ListDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]Device, 0, len(devices))
	defaultDevice, _ := portaudio.DefaultInputDevice()

	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, Device{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}
	return result, nil
}

func (p *portAudioSource) Close() error {
	return portaudio.Terminate()
}

type portAudioStream struct {
	stream *portaudio.Stream
	info   StreamInfo
	done   chan struct{}
}

// readLoop pulls from the blocking stream and re-encodes each buffer as
// little-endian float32 bytes, matching the frame format the engine decodes.
func (s *portAudioStream) readLoop(buffer []float32, onFrame FrameFunc) {
	frame := make([]byte, len(buffer)*4)
	for {
		select {
		case <-s.done:
			return
		default:
		}

		if err := s.stream.Read(); err != nil {
			return
		}
		for i, sample := range buffer {
			binary.LittleEndian.PutUint32(frame[i*4:], math.Float32bits(sample))
		}
		onFrame(frame)
	}
}

func (s *portAudioStream) Info() StreamInfo {
	return s.info
}

func (s *portAudioStream) Stop() error {
	close(s.done)
	return s.stream.Stop()
}

func (s *portAudioStream) Close() error {
	return s.stream.Close()
}
