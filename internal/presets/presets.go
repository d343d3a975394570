// SPDX-License-Identifier: EPL-2.0

// Package presets loads named engine.Config presets embedded as YAML,
// the way the reference CLI's companion tools ship tuned starting points
// for common source material instead of making every user rediscover
// good FilterSize/PeakValue/CompressFactor combinations from scratch.
package presets

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lordmulder/dynaudnorm-go/engine"
)

//go:embed data/*.yaml
var presetFS embed.FS

// preset mirrors engine.Config's tunable fields in YAML-friendly form;
// fields left unset in a preset file fall back to engine.DefaultConfig.
type preset struct {
	FrameLenMsec     *int     `yaml:"frame_len_msec"`
	FilterSize       *int     `yaml:"filter_size"`
	PeakValue        *float64 `yaml:"peak_value"`
	MaxAmplification *float64 `yaml:"max_amplification"`
	TargetRMS        *float64 `yaml:"target_rms"`
	CompressFactor   *float64 `yaml:"compress_factor"`
	ChannelsCoupled  *bool    `yaml:"channels_coupled"`
	DCCorrection     *bool    `yaml:"dc_correction"`
	AltBoundaryMode  *bool    `yaml:"alt_boundary_mode"`
}

// Names lists the presets embedded with the binary.
func Names() []string {
	return []string{"voice", "podcast", "music"}
}

// Get loads a named preset and applies it on top of engine.DefaultConfig.
// Channels and SampleRate are never set by a preset; the caller fills
// those in from the stream being processed.
func Get(name string) (engine.Config, error) {
	data, err := presetFS.ReadFile("data/" + name + ".yaml")
	if err != nil {
		return engine.Config{}, fmt.Errorf("unknown preset %q: %w", name, err)
	}

	var p preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return engine.Config{}, fmt.Errorf("parsing preset %q: %w", name, err)
	}

	cfg := engine.DefaultConfig()
	if p.FrameLenMsec != nil {
		cfg.FrameLenMsec = *p.FrameLenMsec
	}
	if p.FilterSize != nil {
		cfg.FilterSize = *p.FilterSize
	}
	if p.PeakValue != nil {
		cfg.PeakValue = *p.PeakValue
	}
	if p.MaxAmplification != nil {
		cfg.MaxAmplification = *p.MaxAmplification
	}
	if p.TargetRMS != nil {
		cfg.TargetRMS = *p.TargetRMS
	}
	if p.CompressFactor != nil {
		cfg.CompressFactor = *p.CompressFactor
	}
	if p.ChannelsCoupled != nil {
		cfg.ChannelsCoupled = *p.ChannelsCoupled
	}
	if p.DCCorrection != nil {
		cfg.DCCorrection = *p.DCCorrection
	}
	if p.AltBoundaryMode != nil {
		cfg.AltBoundaryMode = *p.AltBoundaryMode
	}

	return cfg, nil
}
