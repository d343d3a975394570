// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/binary"
	"fmt"
	"io"
)

// rawSource adapts a headerless PCM stream to audio.Source, the collaborator
// responsibility §6 assigns to the CLI for raw input read from a pipe: the
// caller must supply channel count, sample rate, and bit depth since there
// is no header to sniff them from.
type rawSource struct {
	r              io.Reader
	sampleRate     int
	channels       int
	bitsPerSample  int
	bytesPerSample int
	buf            []byte
}

func newRawSource(r io.Reader, channels, sampleRate, bitsPerSample int) *rawSource {
	return &rawSource{
		r:              r,
		sampleRate:     sampleRate,
		channels:       channels,
		bitsPerSample:  bitsPerSample,
		bytesPerSample: bitsPerSample / 8,
		buf:            make([]byte, 8192),
	}
}

func (s *rawSource) SampleRate() int { return s.sampleRate }
func (s *rawSource) Channels() int   { return s.channels }
func (s *rawSource) Close() error    { return nil }
func (s *rawSource) BufSize() int    { return cap(s.buf) / s.bytesPerSample }

func (s *rawSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	bytesNeeded := len(dst) * s.bytesPerSample
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := io.ReadFull(s.r, s.buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		if n == 0 {
			return 0, io.EOF
		}
		n = (n / s.bytesPerSample) * s.bytesPerSample
	} else if err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	samples := n / s.bytesPerSample
	if samples == 0 {
		return 0, io.EOF
	}

	if convErr := s.convert(dst, samples); convErr != nil {
		return 0, convErr
	}

	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return samples, io.EOF
	}
	return samples, nil
}

func (s *rawSource) convert(dst []float32, samples int) error {
	switch s.bitsPerSample {
	case 8:
		for i := 0; i < samples; i++ {
			dst[i] = (float32(s.buf[i]) - 128.0) / 128.0
		}
	case 16:
		const scale float32 = 32768.0
		for i := 0; i < samples; i++ {
			v := int16(binary.LittleEndian.Uint16(s.buf[2*i : 2*i+2]))
			dst[i] = float32(v) / scale
		}
	case 32:
		const scale float32 = 2147483648.0
		for i := 0; i < samples; i++ {
			v := int32(binary.LittleEndian.Uint32(s.buf[4*i : 4*i+4]))
			dst[i] = float32(v) / scale
		}
	default:
		return fmt.Errorf("unsupported --input-bits %d (supported: 8, 16, 32)", s.bitsPerSample)
	}
	return nil
}
