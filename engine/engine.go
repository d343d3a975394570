// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"io"
	"math"
)

// Engine is a single-threaded, stateful dynamic-range normalizer. One
// Engine is owned by one goroutine for the lifetime of a stream: build
// one with New, prepare it with Initialize, feed it with Process as
// samples arrive, and drain the samples still in flight with Flush once
// the input is exhausted. Reset returns an initialized Engine to its
// just-initialized state without re-validating Config, so a caller can
// reuse one Engine across multiple streams that share a configuration.
type Engine struct {
	cfg        Config
	frameLen   int
	filterSize int
	delay      int

	initialized        bool
	flushing           bool
	analyzedFirstFrame bool

	buffSrc *sampleFIFO
	buffOut *sampleFIFO
	ring    *frameRing

	gains []*gainHistory
	gauss *gaussianFilter
	fade  *fadeFactorTable

	dcCorrectionValue       []float64
	prevAmplificationFactor []float64
	compressThreshold       []float64

	delayedSamples int

	sampleCounterTotal uint64
	sampleCounterClips uint64

	logWriter io.Writer
}

// New constructs an Engine from cfg without validating it; validation
// happens in Initialize, where the derived frame size is also known.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// SetLogWriter attaches a diagnostic log sink that receives one row per
// frame of original/minimum/smoothed gain values, in the reference tool's
// tab-separated format. Must be called before Initialize to capture the
// header line; passing nil disables file logging.
func (e *Engine) SetLogWriter(w io.Writer) {
	e.logWriter = w
}

// Initialize validates cfg, derives the frame size and fixed pipeline
// delay, and allocates every internal buffer. Calling Initialize on an
// already-initialized Engine is a no-op that logs a warning rather than
// failing, matching the reference library's idempotent behavior.
func (e *Engine) Initialize() error {
	if e.initialized {
		e.logWarn("Initialize: engine is already initialized")
		return nil
	}

	frameLen := frameSize(e.cfg.SampleRate, e.cfg.FrameLenMsec)
	if err := e.cfg.validate(frameLen); err != nil {
		return err
	}

	e.frameLen = frameLen
	e.filterSize = e.cfg.FilterSize
	e.delay = frameLen * e.filterSize

	e.buffSrc = newSampleFIFO(e.cfg.Channels, frameLen)
	e.buffOut = newSampleFIFO(e.cfg.Channels, frameLen)
	e.ring = newFrameRing(e.cfg.Channels, frameLen, e.filterSize+1)

	sigma := ((float64(e.filterSize)/2.0)-1.0)/3.0 + 1.0/3.0
	e.gauss = newGaussianFilter(e.filterSize, sigma)
	e.fade = newFadeFactorTable(frameLen)

	e.gains = make([]*gainHistory, e.cfg.Channels)
	for c := range e.gains {
		e.gains[c] = newGainHistory(e.filterSize)
	}

	e.dcCorrectionValue = make([]float64, e.cfg.Channels)
	e.prevAmplificationFactor = make([]float64, e.cfg.Channels)
	e.compressThreshold = make([]float64, e.cfg.Channels)

	e.writeLogFileHeader()
	e.initialized = true
	return e.Reset()
}

// Reset clears all buffered state — delayed samples, gain histories,
// DC/compression estimators — without touching Config. It requires the
// Engine to already be initialized.
func (e *Engine) Reset() error {
	if !e.initialized {
		return ErrInvalidState
	}

	e.delayedSamples = 0
	e.flushing = false
	e.analyzedFirstFrame = false

	e.buffSrc.reset()
	e.buffOut.reset()
	e.ring.reset()

	for _, g := range e.gains {
		g.reset()
	}
	for c := range e.dcCorrectionValue {
		e.dcCorrectionValue[c] = 0.0
	}
	for c := range e.prevAmplificationFactor {
		e.prevAmplificationFactor[c] = 1.0
	}
	for c := range e.compressThreshold {
		e.compressThreshold[c] = 0.0
	}

	return nil
}

// GetConfiguration returns the Config the Engine was constructed with.
func (e *Engine) GetConfiguration() Config {
	return e.cfg
}

// GetInternalDelay returns the fixed number of samples, per channel, by
// which output trails input: N*W, the frame size times the filter size.
// It is zero until Initialize has run.
func (e *Engine) GetInternalDelay() int {
	return e.delay
}

// Stats returns the running total of samples amplified and the subset of
// those that had to be clamped to stay within PeakValue.
func (e *Engine) Stats() (total, clipped uint64) {
	return e.sampleCounterTotal, e.sampleCounterClips
}

// Process ingests as many samples from in as the pipeline has room for,
// advances the analyze/amplify/emit phases as far as they can go without
// further input, and writes any samples that are now ready into out. It
// returns how many input samples were consumed and how many output
// samples were produced; both may be less than the slice lengths. Process
// must not be called after Flush without an intervening Reset.
func (e *Engine) Process(in, out [][]float64) (consumed, produced int, err error) {
	if !e.initialized {
		return 0, 0, ErrInvalidState
	}
	if e.flushing {
		return 0, 0, ErrInvalidState
	}

	inLen := sliceLen(in)
	outCap := sliceLen(out)
	return e.run(in, inLen, out, outCap, false)
}

// Flush drains the real samples still held inside the pipeline's fixed
// delay. It feeds boundary-value padding one frame at a time until every
// real sample in flight has been written to out or out is full; padding
// samples themselves are never returned. A buffer of GetInternalDelay
// samples always drains in one call; with a shorter one, Flush may be
// called again with a fresh buffer to receive the rest. After the first
// call to Flush, the Engine refuses further Process calls until Reset.
func (e *Engine) Flush(out [][]float64) (produced int, err error) {
	if !e.initialized {
		return 0, ErrInvalidState
	}
	e.flushing = true

	if e.delayedSamples < 1 {
		return 0, nil
	}

	pending := e.delayedSamples
	silence := e.generateSilence(e.frameLen)
	outCap := minInt(sliceLen(out), pending)

	window := make([][]float64, len(out))
	for i := 0; produced < outCap && i <= pending/e.frameLen+e.filterSize+1; i++ {
		for c := range out {
			window[c] = out[c][produced:outCap]
		}
		_, n, runErr := e.run(silence, e.frameLen, window, outCap-produced, true)
		produced += n
		if runErr != nil {
			return produced, runErr
		}
	}
	e.delayedSamples = pending - produced
	return produced, nil
}

// run drives the four-phase pipeline — ingest, analyze, amplify, emit —
// repeatedly until a full pass makes no further progress. bFlush relaxes
// the emit phase's latency gate so samples can leave as soon as they are
// ready instead of waiting for the full delay to fill.
func (e *Engine) run(srcData [][]float64, srcLen int, out [][]float64, outCap int, bFlush bool) (consumed, produced int, err error) {
	srcOffset, outOffset := 0, 0

	for {
		progressed := false

		for srcOffset < srcLen && e.buffSrc.samplesLeftPut() > 0 {
			n := minInt(e.buffSrc.samplesLeftPut(), srcLen-srcOffset)
			if err := e.buffSrc.putSamples(srcData, srcOffset, n); err != nil {
				return consumed, produced, err
			}
			srcOffset += n
			consumed += n
			e.delayedSamples += n
			progressed = true
		}

		if e.buffSrc.samplesLeftGet() >= e.frameLen {
			e.analyzeFrame(e.buffSrc.peekFrame())
			if err := e.ring.putFrame(e.buffSrc); err != nil {
				return consumed, produced, err
			}
			e.buffSrc.reset()
			progressed = true
		}

		if e.buffOut.samplesLeftPut() >= e.frameLen && e.ring.used() > 0 && !e.gains[0].smoothedEmpty() {
			if err := e.ring.getFrame(e.buffOut); err != nil {
				return consumed, produced, err
			}
			e.amplifyFrame(e.buffOut.peekFrame())
			progressed = true
		}

		for outOffset < outCap && e.buffOut.samplesLeftGet() > 0 {
			pending := math.MaxInt
			if !bFlush {
				pending = e.delayedSamples - e.delay
				if pending <= 0 {
					break
				}
			}
			n := minInt(outCap-outOffset, e.buffOut.samplesLeftGet())
			n = minInt(n, pending)
			if n <= 0 {
				break
			}
			if err := e.buffOut.getSamples(out, outOffset, n); err != nil {
				return consumed, produced, err
			}
			outOffset += n
			produced += n
			e.delayedSamples -= n
			progressed = true
			if e.buffOut.samplesLeftGet() == 0 && e.buffOut.samplesLeftPut() == 0 {
				e.buffOut.reset()
			}
		}

		if !progressed {
			break
		}
	}

	return consumed, produced, nil
}

// generateSilence builds n samples per channel of the boundary value used
// to pad the stream's tail during Flush: the peak or target-RMS level
// (or DBL_EPSILON under alt-boundary mode), sign-alternated sample by
// sample and re-biased by the running DC estimate when DC correction is
// enabled, so the padding blends into whatever the stream was doing.
func (e *Engine) generateSilence(n int) [][]float64 {
	value := e.cfg.PeakValue
	if e.cfg.TargetRMS > dblEpsilon {
		value = math.Min(e.cfg.PeakValue, e.cfg.TargetRMS)
	}
	if e.cfg.AltBoundaryMode {
		value = dblEpsilon
	}

	planes := make([][]float64, e.cfg.Channels)
	for c := range planes {
		plane := make([]float64, n)
		for i := range plane {
			sign := 1.0
			if i%2 == 1 {
				sign = -1.0
			}
			s := value * sign
			if e.cfg.DCCorrection {
				s += e.dcCorrectionValue[c]
			}
			plane[i] = s
		}
		planes[c] = plane
	}
	return planes
}

func sliceLen(planes [][]float64) int {
	if len(planes) == 0 {
		return 0
	}
	return len(planes[0])
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
