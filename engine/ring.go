// SPDX-License-Identifier: EPL-2.0

package engine

// frameRing is the circular buffer of whole frames that provides the
// look-ahead the filter chain needs: W+1 owned frame slots, with putFrame
// consuming one frame's worth of samples from a FIFO's read side and
// getFrame appending one frame's worth to a FIFO's write side.
type frameRing struct {
	channels, frameLen, frameCount int

	framesFree, framesUsed int
	posPut, posGet         int

	frames []*frame
}

func newFrameRing(channels, frameLen, frameCount int) *frameRing {
	r := &frameRing{
		channels:   channels,
		frameLen:   frameLen,
		frameCount: frameCount,
		frames:     make([]*frame, frameCount),
	}
	for i := range r.frames {
		r.frames[i] = newFrame(channels, frameLen)
	}
	r.reset()
	return r
}

func (r *frameRing) used() int { return r.framesUsed }

func (r *frameRing) reset() {
	r.framesFree = r.frameCount
	r.framesUsed = 0
	r.posPut, r.posGet = 0, 0
	for _, f := range r.frames {
		f.clear()
	}
}

// putFrame consumes frameLen samples from src's read side into the next
// free ring slot. It fails if src doesn't have a full frame available.
func (r *frameRing) putFrame(src *sampleFIFO) error {
	if r.framesFree < 1 && src.samplesLeftGet() < r.frameLen {
		return ErrBufferInsufficient
	}
	if err := src.getSamples(r.frames[r.posPut].planes, 0, r.frameLen); err != nil {
		return err
	}
	r.posPut = (r.posPut + 1) % r.frameCount
	r.framesUsed++
	r.framesFree--
	return nil
}

// getFrame appends frameLen samples from the oldest used ring slot onto
// dest's write side. It fails if the ring is empty or dest lacks room.
func (r *frameRing) getFrame(dest *sampleFIFO) error {
	if r.framesUsed < 1 || dest.samplesLeftPut() < r.frameLen {
		return ErrBufferInsufficient
	}
	if err := dest.putSamples(r.frames[r.posGet].planes, 0, r.frameLen); err != nil {
		return err
	}
	r.posGet = (r.posGet + 1) % r.frameCount
	r.framesUsed--
	r.framesFree++
	return nil
}
