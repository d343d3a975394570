// SPDX-License-Identifier: EPL-2.0

// Command dynaudnorm normalizes the loudness of an audio file, the Go
// front-end for the dynaudnorm-go module: decode, run the engine, encode.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/lordmulder/dynaudnorm-go/audio"
	"github.com/lordmulder/dynaudnorm-go/formats/aiff"
	"github.com/lordmulder/dynaudnorm-go/formats/mp3"
	"github.com/lordmulder/dynaudnorm-go/formats/vorbis"
	"github.com/lordmulder/dynaudnorm-go/formats/wav"
	"github.com/lordmulder/dynaudnorm-go/internal/presets"

	dynaudnorm "github.com/lordmulder/dynaudnorm-go"
)

var (
	inputPath    string
	outputPath   string
	inputLib     string
	outputFmt    string
	frameLenMsec int
	gaussSize    int
	peakValue    float64
	maxGain      float64
	targetRMS    float64
	compress     float64
	noCoupling   bool
	correctDC    bool
	altBoundary  bool
	logFilePath  string
	verbose      bool
	presetName   string
	inputChan    int
	inputRate    int
	inputBits    int
	bufferSize   int
	resampleRate int
	toMono       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dynaudnorm",
		Short: "Apply dynamic loudness normalization to an audio file",
		Args:  cobra.NoArgs,
		RunE:  runNormalize,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&inputPath, "input", "i", "-", "input file, or - for standard input")
	flags.StringVarP(&outputPath, "output", "o", "-", "output file, or - for standard output")
	flags.StringVarP(&inputLib, "input-lib", "d", "", "input format: wav, mp3, vorbis, aiff, raw (default: guessed from extension)")
	flags.StringVarP(&outputFmt, "output-fmt", "t", "wav", "output format (only wav is currently supported)")
	flags.IntVarP(&frameLenMsec, "frame-len", "f", 500, "analysis frame length in milliseconds")
	flags.IntVarP(&gaussSize, "gauss-size", "g", 31, "Gaussian/minimum filter window size (odd)")
	flags.Float64VarP(&peakValue, "peak", "p", 0.95, "target peak magnitude")
	flags.Float64VarP(&maxGain, "max-gain", "m", 10.0, "maximum per-frame gain factor")
	flags.Float64VarP(&targetRMS, "target-rms", "r", 0.0, "target RMS level (0 disables RMS-based gain)")
	flags.Float64VarP(&compress, "compress", "s", 0.0, "compression factor (0 disables compression)")
	flags.BoolVarP(&noCoupling, "no-coupling", "n", false, "derive one gain per channel instead of one shared gain")
	flags.BoolVarP(&correctDC, "correct-dc", "c", false, "remove a slowly-varying DC offset before analysis")
	flags.BoolVarP(&altBoundary, "alt-boundary", "b", false, "use the alternative boundary-gain seeding mode")
	flags.StringVarP(&logFilePath, "log-file", "l", "", "write a per-frame gain history log to this path")
	flags.BoolVarP(&verbose, "verbose", "v", false, "print a gain-envelope sparkline to stderr after processing")
	flags.StringVar(&presetName, "preset", "", fmt.Sprintf("start from a named preset (%s)", strings.Join(presets.Names(), ", ")))
	flags.IntVar(&inputChan, "input-chan", 0, "channel count for raw (headerless) input")
	flags.IntVar(&inputRate, "input-rate", 0, "sample rate in Hz for raw (headerless) input")
	flags.IntVar(&inputBits, "input-bits", 16, "bit depth for raw (headerless) input")
	flags.IntVar(&bufferSize, "buffer-size", 4096, "interleaved sample buffer size used while streaming")
	flags.IntVar(&resampleRate, "resample-rate", 0, "resample the input to this rate (Hz) before normalizing (0 disables resampling)")
	flags.BoolVar(&toMono, "mono", false, "mix the input down to mono before normalizing")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dynaudnorm:", err)
		os.Exit(1)
	}
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg := dynaudnorm.DefaultConfig()
	if presetName != "" {
		p, err := presets.Get(presetName)
		if err != nil {
			return err
		}
		cfg = p
	}

	flags := cmd.Flags()
	if flags.Changed("frame-len") {
		cfg.FrameLenMsec = frameLenMsec
	}
	if flags.Changed("gauss-size") {
		cfg.FilterSize = gaussSize
	}
	if flags.Changed("peak") {
		cfg.PeakValue = peakValue
	}
	if flags.Changed("max-gain") {
		cfg.MaxAmplification = maxGain
	}
	if flags.Changed("target-rms") {
		cfg.TargetRMS = targetRMS
	}
	if flags.Changed("compress") {
		cfg.CompressFactor = compress
	}
	if noCoupling {
		cfg.ChannelsCoupled = false
	}
	if correctDC {
		cfg.DCCorrection = true
	}
	if altBoundary {
		cfg.AltBoundaryMode = true
	}

	if outputFmt != "wav" {
		return fmt.Errorf("unsupported output format %q (only wav is supported)", outputFmt)
	}

	src, closeSrc, err := openSource()
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer closeSrc()

	src = applyPreProcessing(src)

	var logBuf bytes.Buffer
	pcm, sampleRate, err := dynaudnorm.NormalizeToInt16WithLog(src, cfg, bufferSize, &logBuf)
	if err != nil {
		return fmt.Errorf("normalizing: %w", err)
	}

	if logFilePath != "" {
		if err := os.WriteFile(logFilePath, logBuf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing log file %s: %w", logFilePath, err)
		}
	}

	out, closeOut, err := openOutput()
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer closeOut()

	if src.Channels() == 1 {
		if err := wav.WriteWAV16(out, sampleRate, pcm); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else if err := wav.WriteWAVMulti(out, sampleRate, src.Channels(), pcm); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if verbose {
		printGainEnvelope(logBuf.Bytes())
	}

	return nil
}

// applyPreProcessing wraps src with --resample-rate and/or --mono, in that
// order, so the engine always sees the stream at its final rate and channel
// count: audio.NewResampler re-rates the still-interleaved stream first,
// then audio.NewMonoMixer collapses it to one channel.
func applyPreProcessing(src audio.Source) audio.Source {
	if resampleRate > 0 && resampleRate != src.SampleRate() {
		src = audio.NewResampler(src, resampleRate)
	}
	if toMono {
		src = audio.NewMonoMixer(src)
	}
	return src
}

// registry builds the decoder registry used to resolve --input-lib (or the
// input file's extension) to an audio.Decoder.
func registry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("vorbis", vorbis.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	return r
}

// openSource resolves -i/--input (or stdin for "-") to an audio.Source,
// dispatching to a raw PCM reader when --input-lib raw is requested since
// headerless input carries no format the registry's decoders can sniff.
func openSource() (audio.Source, func() error, error) {
	var r io.Reader
	var closer func() error = func() error { return nil }

	if inputPath == "-" || inputPath == "" {
		r = os.Stdin
	} else {
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, nil, err
		}
		r = f
		closer = f.Close
	}

	lib := inputLib
	if lib == "" {
		lib = strings.ToLower(strings.TrimPrefix(extension(inputPath), "."))
	}

	if lib == "raw" {
		if inputChan <= 0 || inputRate <= 0 {
			return nil, nil, fmt.Errorf("--input-lib raw requires --input-chan and --input-rate")
		}
		src := newRawSource(r, inputChan, inputRate, inputBits)
		return src, closer, nil
	}

	dec, ok := registry().Get(lib)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported or unrecognized input format %q", lib)
	}

	src, err := dec.Decode(r)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return src, closer, nil
}

func openOutput() (io.Writer, func() error, error) {
	if outputPath == "-" || outputPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func extension(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	return path[idx:]
}

// printGainEnvelope parses channel 0's smoothed-gain column out of a gain
// history log and renders it as a terminal sparkline.
func printGainEnvelope(log []byte) {
	lines := strings.Split(string(log), "\n")
	var smoothed []float64
	for _, line := range lines {
		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			continue
		}
		v, err := strconv.ParseFloat(cols[2], 64)
		if err != nil {
			continue
		}
		smoothed = append(smoothed, v)
	}
	if len(smoothed) == 0 {
		return
	}
	graph := asciigraph.Plot(smoothed,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("smoothed gain (channel 0)"),
	)
	fmt.Fprintln(os.Stderr, graph)
}
