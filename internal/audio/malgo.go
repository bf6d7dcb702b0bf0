package audio

import (
	"fmt"

	"github.com/gen2brain/malgo"
)

type malgoSource struct {
	ctx *malgo.AllocatedContext
}

// NewMalgo creates a miniaudio-backed Source. Streams open at the device's
// native rate and channel count, preferring 32-bit float frames.
func NewMalgo() (Source, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	return &malgoSource{ctx: ctx}, nil
}

func (s *malgoSource) Open(deviceID string, onFrame FrameFunc) (Stream, error) {
	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = 0 // device native
	cfg.SampleRate = 0       // device native
	cfg.Alsa.NoMMap = 1

	if deviceID != "" {
		info, err := s.findDevice(deviceID)
		if err != nil {
			return nil, err
		}
		cfg.Capture.DeviceID = info.ID.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			if len(input) > 0 {
				onFrame(input)
			}
		},
	}

	device, err := malgo.InitDevice(s.ctx.Context, cfg, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("failed to start capture device: %w", err)
	}

	return &malgoStream{
		device: device,
		info: StreamInfo{
			SampleRate: int(device.SampleRate()),
			Channels:   int(device.CaptureChannels()),
		},
	}, nil
}

func (s *malgoSource) findDevice(deviceID string) (*malgo.DeviceInfo, error) {
	infos, err := s.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	for i := range infos {
		if infos[i].Name() == deviceID {
			return &infos[i], nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", deviceID)
}

func (s *malgoSource) ListDevices() ([]Device, error) {
	infos, err := s.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]Device, 0, len(infos))
	for _, info := range infos {
		result = append(result, Device{
			ID:      info.Name(),
			Name:    info.Name(),
			Default: info.IsDefault != 0,
		})
	}
	return result, nil
}

func (s *malgoSource) Close() error {
	if s.ctx != nil {
		if err := s.ctx.Uninit(); err != nil {
			return err
		}
		s.ctx.Free()
		s.ctx = nil
	}
	return nil
}

type malgoStream struct {
	device *malgo.Device
	info   StreamInfo
}

func (m *malgoStream) Info() StreamInfo {
	return m.info
}

func (m *malgoStream) Stop() error {
	return m.device.Stop()
}

func (m *malgoStream) Close() error {
	m.device.Uninit()
	return nil
}
