package config

import (
	"fmt"
	"slices"

	"max.ks1230/expense-ledger/internal/model/trend"
)

const (
	defaultLocale     = "it"
	defaultPlotTop    = 240
	defaultPlotBottom = 480
	defaultExportDir  = "data"
)

type AppConfig struct {
	LabelLocale string  `yaml:"locale"`
	Top         float64 `yaml:"plot-top"`
	Bottom      float64 `yaml:"plot-bottom"`
	Dir         string  `yaml:"export-dir"`
}

func (s *AppConfig) Locale() string {
	return s.LabelLocale
}

func (s *AppConfig) PlotTop() float64 {
	return s.Top
}

func (s *AppConfig) PlotBottom() float64 {
	return s.Bottom
}

func (s *AppConfig) ExportDir() string {
	return s.Dir
}

func (s *AppConfig) validate() error {
	if locales := trend.SupportedLocales(); !slices.Contains(locales, s.LabelLocale) {
		return fmt.Errorf("unknown locale %q, expected one of %v", s.LabelLocale, locales)
	}
	return nil
}
