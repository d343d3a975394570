// SPDX-License-Identifier: EPL-2.0

package dynaudnorm

import (
	"io"

	"github.com/lordmulder/dynaudnorm-go/audio"
	"github.com/lordmulder/dynaudnorm-go/engine"
	"github.com/lordmulder/dynaudnorm-go/utils"
)

// NormalizeToInt16 is a high-level convenience function that runs an
// audio.Source through the dynamic normalization engine and collects the
// result as interleaved 16-bit PCM, mirroring this module's other
// decode-then-process convenience functions.
//
// cfg.Channels and cfg.SampleRate are overwritten from src before the
// engine is initialized, since those must always match the stream being
// processed. bufferSize controls how many interleaved float32 values are
// read from src per iteration; larger buffers trade memory for fewer
// engine calls.
func NormalizeToInt16(src audio.Source, cfg Config, bufferSize int) ([]int16, int, error) {
	return NormalizeToInt16WithLog(src, cfg, bufferSize, nil)
}

// NormalizeToInt16WithLog behaves exactly like NormalizeToInt16, but also
// directs the engine's per-frame gain history diagnostic rows to logWriter
// (see engine.Engine.SetLogWriter) as the stream is processed. A nil
// logWriter disables logging, same as NormalizeToInt16.
func NormalizeToInt16WithLog(src audio.Source, cfg Config, bufferSize int, logWriter io.Writer) ([]int16, int, error) {
	cfg.Channels = src.Channels()
	cfg.SampleRate = src.SampleRate()

	e := engine.New(cfg)
	if logWriter != nil {
		e.SetLogWriter(logWriter)
	}
	if err := e.Initialize(); err != nil {
		return nil, 0, err
	}

	channels := cfg.Channels
	framesPerRead := bufferSize / channels
	if framesPerRead < 1 {
		framesPerRead = 1
	}

	interleaved := make([]float32, framesPerRead*channels)
	inPlanar := make([][]float64, channels)
	for c := range inPlanar {
		inPlanar[c] = make([]float64, framesPerRead)
	}

	outPlanar := make([][]float64, channels)
	pcm16 := make([]int16, 0, framesPerRead*channels*4)

	grow := func(extra int) {
		for c := range outPlanar {
			outPlanar[c] = append(outPlanar[c], make([]float64, extra)...)
		}
	}
	grow(framesPerRead + e.GetInternalDelay() + 1)

	appendOutput := func(n int) {
		if n == 0 {
			return
		}
		for i := 0; i < n; i++ {
			for c := 0; c < channels; c++ {
				pcm16 = append(pcm16, utils.Float32ToInt16(float32(outPlanar[c][i])))
			}
		}
	}

	for {
		n, readErr := src.ReadSamples(interleaved)
		frames := n / channels
		if frames > 0 {
			for c := 0; c < channels; c++ {
				for i := 0; i < frames; i++ {
					inPlanar[c][i] = float64(interleaved[i*channels+c])
				}
			}

			if len(outPlanar[0]) < frames+e.GetInternalDelay()+1 {
				grow(frames + e.GetInternalDelay() + 1 - len(outPlanar[0]))
			}

			_, produced, err := e.Process(sliceTo(inPlanar, frames), outPlanar)
			if err != nil {
				return nil, cfg.SampleRate, err
			}
			appendOutput(produced)
			outPlanar = shiftLeft(outPlanar, produced)
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, cfg.SampleRate, readErr
		}
	}

	if len(outPlanar[0]) < e.GetInternalDelay()+1 {
		grow(e.GetInternalDelay() + 1 - len(outPlanar[0]))
	}
	produced, err := e.Flush(outPlanar)
	if err != nil {
		return nil, cfg.SampleRate, err
	}
	appendOutput(produced)

	return pcm16, cfg.SampleRate, nil
}

func sliceTo(planes [][]float64, n int) [][]float64 {
	out := make([][]float64, len(planes))
	for c := range planes {
		out[c] = planes[c][:n]
	}
	return out
}

func shiftLeft(planes [][]float64, n int) [][]float64 {
	out := make([][]float64, len(planes))
	for c := range planes {
		out[c] = planes[c][n:]
	}
	return out
}
