// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lordmulder/dynaudnorm-go/internal/engtest"
)

func runToCompletion(e *Engine, input [][]float64) [][]float64 {
	total := len(input[0])
	channels := len(input)
	output := make([][]float64, channels)
	for c := range output {
		output[c] = make([]float64, total+e.GetInternalDelay()+1)
	}

	produced := 0
	consumed := 0
	for consumed < total {
		chunk := 997
		if consumed+chunk > total {
			chunk = total - consumed
		}
		in := sliceWindow(input, consumed, consumed+chunk)
		out := sliceWindow(output, produced, len(output[0]))

		nIn, nOut, err := e.Process(in, out)
		Expect(err).NotTo(HaveOccurred())
		consumed += nIn
		produced += nOut
	}

	more, err := e.Flush(sliceWindow(output, produced, len(output[0])))
	Expect(err).NotTo(HaveOccurred())
	produced += more

	return sliceWindow(output, 0, produced)
}

func rms(samples []float64) float64 {
	var sum float64
	for _, v := range samples {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func whiteNoise(channels, n int, targetRMS float64, seed int64) [][]float64 {
	r := rand.New(rand.NewSource(seed))
	raw := engtest.Generate(channels, n, func(_, _ int) float64 {
		return r.NormFloat64()
	})
	currentRMS := rms(raw[0])
	scale := targetRMS / currentRMS
	for c := range raw {
		for i := range raw[c] {
			raw[c][i] *= scale
		}
	}
	return raw
}

var _ = Describe("Normalizer end-to-end behavior", func() {

	It("amplifies a quiet signal toward peak without ever exceeding it", func() {
		cfg := DefaultConfig()
		cfg.Channels, cfg.SampleRate, cfg.FrameLenMsec, cfg.FilterSize = 2, 16000, 100, 7
		cfg.PeakValue = 0.95

		e := New(cfg)
		Expect(e.Initialize()).To(Succeed())

		input := whiteNoise(cfg.Channels, 20000, 0.1, 1)
		output := runToCompletion(e, input)

		Expect(output[0]).To(HaveLen(20000))

		var peak float64
		for c := range output {
			for _, v := range output[c] {
				if a := math.Abs(v); a > peak {
					peak = a
				}
			}
		}
		Expect(peak).To(BeNumerically("<=", cfg.PeakValue+1e-9))
		Expect(rms(output[0])).To(BeNumerically(">", rms(input[0])))
	})

	It("leaves every non-impulse sample exactly zero and amplifies the impulse toward peak", func() {
		cfg := DefaultConfig()
		cfg.Channels, cfg.SampleRate, cfg.FrameLenMsec, cfg.FilterSize = 1, 16000, 100, 7
		cfg.PeakValue = 0.95

		e := New(cfg)
		Expect(e.Initialize()).To(Succeed())

		total := e.GetInternalDelay() + 3000
		input := engtest.Impulse(cfg.Channels, total, 0, 1.0)
		output := runToCompletion(e, input)

		var peakVal float64
		var peakPos int
		for i, v := range output[0] {
			if a := math.Abs(v); a > math.Abs(peakVal) {
				peakVal = v
				peakPos = i
			}
		}

		Expect(peakPos).To(Equal(e.GetInternalDelay()))
		Expect(peakVal).To(BeNumerically("~", cfg.PeakValue, 0.02))

		for i, v := range output[0] {
			if i != peakPos {
				Expect(v).To(BeZero())
			}
		}
	})

	It("converges a sub-peak sine wave to the target peak without overshoot", func() {
		cfg := DefaultConfig()
		cfg.Channels, cfg.SampleRate, cfg.FrameLenMsec, cfg.FilterSize = 1, 16000, 20, 5
		cfg.PeakValue = 0.95

		e := New(cfg)
		Expect(e.Initialize()).To(Succeed())

		input := engtest.Sine(cfg.Channels, 24000, cfg.SampleRate, 200.0, 0.1)
		output := runToCompletion(e, input)

		for _, v := range output[0] {
			Expect(math.Abs(v)).To(BeNumerically("<=", cfg.PeakValue+1e-9))
		}

		tail := output[0][len(output[0])-cfg.SampleRate/4:]
		var tailPeak float64
		for _, v := range tail {
			if a := math.Abs(v); a > tailPeak {
				tailPeak = a
			}
		}
		Expect(tailPeak).To(BeNumerically(">", 0.5))
	})

	It("drives the running mean of a DC-biased signal toward zero once DC correction is enabled", func() {
		cfg := DefaultConfig()
		cfg.Channels, cfg.SampleRate, cfg.FrameLenMsec, cfg.FilterSize = 2, 16000, 50, 7
		cfg.DCCorrection = true

		e := New(cfg)
		Expect(e.Initialize()).To(Succeed())

		n := e.GetInternalDelay() + 8*e.frameLen
		input := engtest.Sine(cfg.Channels, n, cfg.SampleRate, 300.0, 0.3)
		for c := range input {
			for i := range input[c] {
				input[c][i] += 0.1
			}
		}
		output := runToCompletion(e, input)

		window := output[0][len(output[0])-e.frameLen:]
		var sum float64
		for _, v := range window {
			sum += v
		}
		Expect(math.Abs(sum / float64(len(window)))).To(BeNumerically("<", 0.05))
	})

	It("produces identical output whether fed in one call or many small chunks", func() {
		cfg := DefaultConfig()
		cfg.Channels, cfg.SampleRate, cfg.FrameLenMsec, cfg.FilterSize = 1, 16000, 50, 7

		whole := New(cfg)
		Expect(whole.Initialize()).To(Succeed())
		chunked := New(cfg)
		Expect(chunked.Initialize()).To(Succeed())

		input := engtest.Sine(cfg.Channels, 9000, cfg.SampleRate, 250.0, 0.4)

		wholeOut := runToCompletion(whole, input)

		total := len(input[0])
		output := make([][]float64, cfg.Channels)
		for c := range output {
			output[c] = make([]float64, total+chunked.GetInternalDelay()+1)
		}
		produced, consumed := 0, 0
		sizes := []int{1, 2, 4, 8, 16, 32, 64}
		idx := 0
		for consumed < total {
			chunk := sizes[idx%len(sizes)]
			idx++
			if consumed+chunk > total {
				chunk = total - consumed
			}
			in := sliceWindow(input, consumed, consumed+chunk)
			out := sliceWindow(output, produced, len(output[0]))
			nIn, nOut, err := chunked.Process(in, out)
			Expect(err).NotTo(HaveOccurred())
			consumed += nIn
			produced += nOut
		}
		more, err := chunked.Flush(sliceWindow(output, produced, len(output[0])))
		Expect(err).NotTo(HaveOccurred())
		produced += more
		chunkedOut := sliceWindow(output, 0, produced)

		Expect(chunkedOut[0]).To(HaveLen(len(wholeOut[0])))
		for i := range wholeOut[0] {
			Expect(chunkedOut[0][i]).To(BeNumerically("~", wholeOut[0][i], 1e-9))
		}
	})

	It("rejects a configuration whose derived frame size falls below the minimum", func() {
		cfg := DefaultConfig()
		cfg.Channels, cfg.SampleRate, cfg.FrameLenMsec = 1, 16000, 1

		e := New(cfg)
		Expect(e.Initialize()).To(MatchError(ErrConfigurationInvalid))
	})
})
