// SPDX-License-Identifier: EPL-2.0

package engine

// sampleFIFO is a write-then-read buffer holding exactly one frame's worth
// of samples, channel-separated. It is not circular: a full write must be
// drained and then reset before the next write cycle begins. That
// constraint is enforced by the engine's pipeline logic (see run in engine.go),
// not by the FIFO itself.
type sampleFIFO struct {
	buf *frame

	posPut, posGet   int
	leftPut, leftGet int
}

func newSampleFIFO(channels, frameLen int) *sampleFIFO {
	f := &sampleFIFO{buf: newFrame(channels, frameLen)}
	f.reset()
	return f
}

func (s *sampleFIFO) samplesLeftPut() int { return s.leftPut }
func (s *sampleFIFO) samplesLeftGet() int { return s.leftGet }

// peekFrame returns the FIFO's backing frame directly, so analysis and
// amplification can read or mutate the full buffered frame in place
// without consuming it through the normal get-side cursor.
func (s *sampleFIFO) peekFrame() *frame { return s.buf }

func (s *sampleFIFO) putSamples(src [][]float64, srcOffset, length int) error {
	if length > s.leftPut {
		return ErrBufferInsufficient
	}
	if err := s.buf.write(src, srcOffset, s.posPut, length); err != nil {
		return err
	}
	s.posPut += length
	s.leftPut -= length
	s.leftGet += length
	return nil
}

func (s *sampleFIFO) getSamples(dst [][]float64, dstOffset, length int) error {
	if length > s.leftGet {
		return ErrBufferInsufficient
	}
	if err := s.buf.read(dst, dstOffset, s.posGet, length); err != nil {
		return err
	}
	s.posGet += length
	s.leftGet -= length
	return nil
}

// reset returns the read/write cursors to zero without clearing sample
// data; the frame contents get overwritten by the next put before being
// read again.
func (s *sampleFIFO) reset() {
	s.posPut, s.posGet, s.leftGet = 0, 0, 0
	s.leftPut = s.buf.frameLen
}
