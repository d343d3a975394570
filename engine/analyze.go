// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"math"

	"github.com/lordmulder/dynaudnorm-go/utils"
)

const (
	dblEpsilon = 2.220446049250313e-16

	// dcUpdateRate and compressUpdateRate are the fixed exponential-average
	// rates the reference implementation hardcodes for the DC offset
	// estimator and the compression threshold estimator respectively; they
	// are not exposed as configuration.
	dcUpdateRate       = 0.1
	compressUpdateRate = 1.0 / 3.0

	allChannels = -1
)

// updateValue computes an exponentially-weighted update of old towards
// newVal at the given rate: rate*newVal + (1-rate)*old.
func updateValue(newVal, old, rate float64) float64 {
	return rate*newVal + (1-rate)*old
}

// fadeFactorTable holds the two complementary per-sample interpolation
// curves used to cross-fade a per-frame scalar (a gain, a DC offset, a
// compression threshold) smoothly across a frame boundary instead of
// stepping it discontinuously. prev[i] + next[i] == 1 for every i.
type fadeFactorTable struct {
	prev, next []float64
}

func newFadeFactorTable(frameLen int) *fadeFactorTable {
	prev := make([]float64, frameLen)
	next := make([]float64, frameLen)
	step := 1.0 / float64(frameLen)
	for i := 0; i < frameLen; i++ {
		prev[i] = 1.0 - step*float64(i+1)
		next[i] = 1.0 - prev[i]
	}
	return &fadeFactorTable{prev: prev, next: next}
}

func (t *fadeFactorTable) fade(prevVal, nextVal float64, pos int) float64 {
	return t.prev[pos]*prevVal + t.next[pos]*nextVal
}

// findPeakMagnitude returns the largest sample magnitude in f, floored at
// dblEpsilon so downstream divisions never blow up. channel == allChannels
// scans every plane; otherwise only the given channel.
func findPeakMagnitude(f *frame, channel int) float64 {
	peak := dblEpsilon
	scan := func(data []float64) {
		for _, v := range data {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
	}
	if channel == allChannels {
		for c := 0; c < f.channels; c++ {
			scan(f.data(c))
		}
	} else {
		scan(f.data(channel))
	}
	return peak
}

// computeFrameRMS returns the root-mean-square level of f, floored at
// dblEpsilon. channel == allChannels pools every plane into one estimate.
func computeFrameRMS(f *frame, channel int) float64 {
	sum := 0.0
	n := 0
	accum := func(data []float64) {
		for _, v := range data {
			sum += v * v
		}
		n += len(data)
	}
	if channel == allChannels {
		for c := 0; c < f.channels; c++ {
			accum(f.data(c))
		}
	} else {
		accum(f.data(channel))
	}
	rms := math.Sqrt(sum / float64(n))
	if rms < dblEpsilon {
		return dblEpsilon
	}
	return rms
}

// computeFrameStdDev returns the Bessel-corrected standard deviation of f
// assuming zero mean, floored at dblEpsilon. channel == allChannels pools
// every plane into one estimate.
func computeFrameStdDev(f *frame, channel int) float64 {
	sum := 0.0
	n := 0
	accum := func(data []float64) {
		for _, v := range data {
			sum += v * v
		}
		n += len(data)
	}
	if channel == allChannels {
		for c := 0; c < f.channels; c++ {
			accum(f.data(c))
		}
	} else {
		accum(f.data(channel))
	}
	stddev := math.Sqrt(sum / float64(n-1))
	if stddev < dblEpsilon {
		return dblEpsilon
	}
	return stddev
}

// getMaxLocalGain derives the gain factor a frame (or one of its
// channels) tolerates: the smaller of the peak-limited gain and the
// RMS-target gain, capped softly at maxAmplification.
func getMaxLocalGain(f *frame, channel int, peakValue, targetRMS, maxAmplification float64) float64 {
	maximumGain := peakValue / findPeakMagnitude(f, channel)
	rmsGain := maxFloat64
	if targetRMS > dblEpsilon {
		rmsGain = targetRMS / computeFrameRMS(f, channel)
	}
	gain := maximumGain
	if rmsGain < gain {
		gain = rmsGain
	}
	return utils.Bound(maxAmplification, gain)
}

const maxFloat64 = 1.7976931348623157e+308

// correctDC estimates each channel's DC offset as a simple running mean
// and subtracts a fade-interpolated version of it from every sample, so
// the offset steps smoothly across the frame boundary instead of
// producing an audible discontinuity.
func (e *Engine) correctDC(f *frame, isFirstFrame bool) {
	diff := 1.0 / float64(e.frameLen)
	for c := 0; c < e.cfg.Channels; c++ {
		data := f.data(c)
		sum := 0.0
		for _, v := range data {
			sum += v * diff
		}
		currentAverage := sum

		prevValue := e.dcCorrectionValue[c]
		if isFirstFrame {
			prevValue = currentAverage
		}
		if isFirstFrame {
			e.dcCorrectionValue[c] = currentAverage
		} else {
			e.dcCorrectionValue[c] = updateValue(currentAverage, e.dcCorrectionValue[c], dcUpdateRate)
		}

		for i := range data {
			data[i] -= e.fade.fade(prevValue, e.dcCorrectionValue[c], i)
		}
	}
}

// compress applies RMS-driven soft-knee compression ahead of gain
// analysis, either coupled (one threshold derived from every channel's
// pooled standard deviation) or uncoupled (one threshold per channel).
func (e *Engine) compress(f *frame, isFirstFrame bool) {
	if e.cfg.ChannelsCoupled {
		stddev := computeFrameStdDev(f, allChannels)
		currentThreshold := math.Min(1.0, e.cfg.CompressFactor*stddev)

		prevValue := e.compressThreshold[0]
		if isFirstFrame {
			prevValue = currentThreshold
			e.compressThreshold[0] = currentThreshold
		} else {
			e.compressThreshold[0] = updateValue(currentThreshold, e.compressThreshold[0], compressUpdateRate)
		}

		prevActual := utils.InverseBound(prevValue)
		currActual := utils.InverseBound(e.compressThreshold[0])

		for c := 0; c < e.cfg.Channels; c++ {
			data := f.data(c)
			for i := range data {
				localThresh := e.fade.fade(prevActual, currActual, i)
				data[i] = math.Copysign(utils.Bound(localThresh, math.Abs(data[i])), data[i])
			}
		}
		return
	}

	for c := 0; c < e.cfg.Channels; c++ {
		stddev := computeFrameStdDev(f, c)
		currentThreshold := math.Min(1.0, e.cfg.CompressFactor*stddev)

		prevValue := e.compressThreshold[c]
		if isFirstFrame {
			prevValue = currentThreshold
			e.compressThreshold[c] = currentThreshold
		} else {
			e.compressThreshold[c] = updateValue(currentThreshold, e.compressThreshold[c], compressUpdateRate)
		}

		prevActual := utils.InverseBound(prevValue)
		currActual := utils.InverseBound(e.compressThreshold[c])

		data := f.data(c)
		for i := range data {
			localThresh := e.fade.fade(prevActual, currActual, i)
			data[i] = math.Copysign(utils.Bound(localThresh, math.Abs(data[i])), data[i])
		}
	}
}

// analyzeFrame runs DC correction, compression, and gain derivation over
// one fully buffered frame, updating each channel's gain history chain.
func (e *Engine) analyzeFrame(f *frame) {
	isFirstFrame := !e.analyzedFirstFrame
	e.analyzedFirstFrame = true

	if e.cfg.DCCorrection {
		e.correctDC(f, isFirstFrame)
	}
	if e.cfg.CompressFactor > dblEpsilon {
		e.compress(f, isFirstFrame)
	}

	if e.cfg.ChannelsCoupled {
		gain := getMaxLocalGain(f, allChannels, e.cfg.PeakValue, e.cfg.TargetRMS, e.cfg.MaxAmplification)
		for c := 0; c < e.cfg.Channels; c++ {
			e.updateGainHistory(c, gain)
		}
	} else {
		for c := 0; c < e.cfg.Channels; c++ {
			gain := getMaxLocalGain(f, c, e.cfg.PeakValue, e.cfg.TargetRMS, e.cfg.MaxAmplification)
			e.updateGainHistory(c, gain)
		}
	}

	e.writeLogFile()
}

// updateGainHistory pushes gain into channel c's history chain, seeding
// both the history's prefix and this channel's starting fade value on the
// first push for the channel.
func (e *Engine) updateGainHistory(c int, gain float64) {
	seed := 1.0
	if e.cfg.AltBoundaryMode {
		seed = gain
	}
	if e.gains[c].update(gain, seed, e.gauss) {
		e.prevAmplificationFactor[c] = seed
	}
}
