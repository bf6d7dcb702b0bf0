package capture

import (
	"encoding/binary"
	"math"
)

// DecodePCM interprets a raw little-endian byte frame as normalized float32
// samples. Frames whose length is a multiple of four are decoded as 32-bit
// floats; otherwise a multiple of two decodes as signed 16-bit integers
// scaled to [-1.0, 1.0]. Anything else is undecodable and yields nil, which
// callers treat as an empty frame rather than an error.
func DecodePCM(data []byte) []float32 {
	switch {
	case len(data) >= 4 && len(data)%4 == 0:
		samples := make([]float32, len(data)/4)
		for i := range samples {
			bits := binary.LittleEndian.Uint32(data[i*4:])
			samples[i] = math.Float32frombits(bits)
		}
		return samples
	case len(data) >= 2 && len(data)%2 == 0:
		samples := make([]float32, len(data)/2)
		for i := range samples {
			s := int16(binary.LittleEndian.Uint16(data[i*2:]))
			samples[i] = float32(s) / 32767.0
		}
		return samples
	default:
		return nil
	}
}
