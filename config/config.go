// SPDX-License-Identifier: MIT

// Package config loads the TOML run manifest of the rcmstat tool and routes
// stdlib log output to a rotating file.
//
//	[movie]
//	path = "Yr_d1_512_d2_512_d3_1_order_C_frames_3000_.mmap"
//	[estimates]
//	path = "cnmf.json.zst"
//	[reconstruction]
//	chunk_frames = 100
//	components = [0, 2]
//	background = true
//	[logging]
//	logfile = "rcmstat.log"
//	max_log_size = 10
//	max_log_age = 7
//
// Relative paths are resolved against the manifest's directory.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/cnmfrecon/cnmf"
)

// Config is a decoded manifest.
type Config struct {
	Movie          MovieConfig          `toml:"movie"`
	Estimates      EstimatesConfig      `toml:"estimates"`
	Reconstruction ReconstructionConfig `toml:"reconstruction"`
	Logging        LogConfig            `toml:"logging"`

	location string
}

// MovieConfig locates the raw memmap movie. An empty Path means no raw
// movie is available.
type MovieConfig struct {
	Path string `toml:"path"`
}

// EstimatesConfig locates the stored CNMF estimates.
type EstimatesConfig struct {
	Path string `toml:"path"`
}

// ReconstructionConfig selects what is reconstructed.
type ReconstructionConfig struct {
	ChunkFrames int   `toml:"chunk_frames"` // 0: lazy.DefaultChunkFrames
	Components  []int `toml:"components"`   // empty: accepted, else all
	Background  *bool `toml:"background"`   // nil: on
}

// Load decodes and checks the manifest at filename.
// Errors: ErrNoConfig, ErrUnknownKey, ErrInvalid, TOML decode errors.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return nil, configErrorf("Load", ErrNoConfig)
	}
	var c Config
	md, err := toml.DecodeFile(filename, &c)
	if err != nil {
		return nil, configErrorf("Load", fmt.Errorf("could not decode TOML config: %w", err))
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, configErrorf("Load", fmt.Errorf("%s: %w", strings.Join(keys, ", "), ErrUnknownKey))
	}
	if err := c.validate(); err != nil {
		return nil, configErrorf("Load", err)
	}
	c.location = filename
	c.convertPathsToAbsolute(filepath.Dir(filename))

	return &c, nil
}

func (c *Config) validate() error {
	if c.Estimates.Path == "" {
		return fmt.Errorf("estimates.path is required: %w", ErrInvalid)
	}
	if c.Reconstruction.ChunkFrames < 0 {
		return fmt.Errorf("reconstruction.chunk_frames = %d: %w", c.Reconstruction.ChunkFrames, ErrInvalid)
	}
	for _, j := range c.Reconstruction.Components {
		if j < 0 {
			return fmt.Errorf("reconstruction.components has %d: %w", j, ErrInvalid)
		}
	}
	if c.Logging.MaxSize < 0 || c.Logging.MaxAge < 0 {
		return fmt.Errorf("logging limits must be >= 0: %w", ErrInvalid)
	}

	return nil
}

func (c *Config) convertPathsToAbsolute(dir string) {
	for _, p := range []*string{&c.Movie.Path, &c.Estimates.Path, &c.Logging.Logfile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Location returns the manifest file the config was loaded from.
func (c *Config) Location() string { return c.location }

// HasMovie reports whether a raw movie is configured.
func (c *Config) HasMovie() bool { return c.Movie.Path != "" }

// Options translates the [reconstruction] section into cnmf options.
func (c *Config) Options() []cnmf.Option {
	var opts []cnmf.Option
	if len(c.Reconstruction.Components) > 0 {
		opts = append(opts, cnmf.WithComponents(c.Reconstruction.Components...))
	}
	if c.Reconstruction.Background != nil {
		opts = append(opts, cnmf.WithBackground(*c.Reconstruction.Background))
	}

	return opts
}
