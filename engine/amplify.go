// SPDX-License-Identifier: EPL-2.0

package engine

import "math"

// amplifyFrame applies each channel's next smoothed gain to a delayed
// frame, fading sample-by-sample from the previous frame's gain so the
// applied gain never steps discontinuously at a frame boundary. Samples
// that would exceed the configured peak after amplification are clamped,
// and counted towards the clip-rate statistics alongside every sample
// processed, silent or not.
func (e *Engine) amplifyFrame(f *frame) {
	for c := 0; c < e.cfg.Channels; c++ {
		currGain, ok := e.gains[c].popSmoothed()
		if !ok {
			e.logWarn("amplifyFrame: no smoothed gain available for channel %d", c)
			break
		}

		data := f.data(c)
		prevGain := e.prevAmplificationFactor[c]
		for i, v := range data {
			gain := e.fade.fade(prevGain, currGain, i)
			v *= gain
			if math.Abs(v) > e.cfg.PeakValue {
				e.sampleCounterClips++
				v = math.Copysign(e.cfg.PeakValue, v)
			}
			data[i] = v
		}
		e.prevAmplificationFactor[c] = currGain
	}
	e.sampleCounterTotal += uint64(e.frameLen)
}
