package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/pixfx"
	"github.com/soypat/pixfx/filters"
)

type Config struct {
	Mode     string `toml:"mode"`
	LogLevel string `toml:"log_level"`

	// [blur]
	Blur struct {
		Radius int     `toml:"radius"`
		Sigma  float32 `toml:"sigma"`
	} `toml:"blur"`

	// [emboss]
	Emboss struct {
		X float32 `toml:"x"`
		Y float32 `toml:"y"`
	} `toml:"emboss"`

	// [edge]
	Edge struct {
		Operator string `toml:"operator"`
	} `toml:"edge"`
}

var ErrNoConfigFile = errors.New("config file does not exist")

var DefaultConfig = func() Config {
	cf := Config{
		Mode:     pixfx.ExecSIMD.String(),
		LogLevel: "WARN",
	}
	cf.Blur.Radius = filters.DefaultBlurRadius
	cf.Blur.Sigma = filters.DefaultBlurSigma
	cf.Emboss.X, cf.Emboss.Y = 1, 1
	cf.Edge.Operator = filters.OperatorSobel.String()
	return cf
}()

func NewConfig() *Config {
	cf := DefaultConfig
	return &cf
}

// NewConfigFromFile decodes confFile over the defaults. Keys missing from the file keep their default.
func NewConfigFromFile(confFile string) (*Config, error) {
	if _, err := os.Stat(confFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoConfigFile, confFile)
	}
	cf := NewConfig()
	if _, err := toml.DecodeFile(confFile, cf); err != nil {
		return nil, err
	}
	return cf, nil
}

func (cf *Config) ExecMode() (pixfx.ExecMode, error) {
	return pixfx.ParseExecMode(strings.ToLower(cf.Mode))
}

func (cf *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(cf.LogLevel))
	return lvl, err
}

// Filter builds the filter of kind k configured with cf's parameters.
func (cf *Config) Filter(k filters.Kind) (pixfx.Filter, error) {
	switch k {
	case filters.KindBlur:
		return filters.NewBlur(cf.Blur.Radius, cf.Blur.Sigma), nil
	case filters.KindEmboss:
		f := filters.NewEmboss()
		f.Direction = ms2.Vec{X: cf.Emboss.X, Y: cf.Emboss.Y}
		return f, nil
	case filters.KindEdgeDetection:
		op, err := parseOperator(cf.Edge.Operator)
		if err != nil {
			return nil, err
		}
		return filters.NewEdgeDetect(op), nil
	}
	return filters.New(k)
}

// Apply installs the logger at the configured level writing to stderr.
func (cf *Config) Apply() error {
	lvl, err := cf.Level()
	if err != nil {
		return err
	}
	pixfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func parseOperator(s string) (filters.EdgeOperator, error) {
	for _, op := range []filters.EdgeOperator{filters.OperatorSobel, filters.OperatorPrewitt, filters.OperatorScharr} {
		if strings.EqualFold(op.String(), s) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown edge operator %q", pixfx.ErrInvalidParameter, s)
}
