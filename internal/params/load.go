package params

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parameters is the immutable configuration value passed into every component.
type Parameters struct {
	Constants ConversionConstants `json:"constants"`
	Profile   SeasonalProfile     `json:"profile"`
	Market    MarketDefaults      `json:"market"`
}

// Defaults returns the built-in parameter table.
func Defaults() Parameters {
	return Parameters{
		Constants: DefaultConstants(),
		Profile:   DefaultProfile(),
		Market:    DefaultMarket(),
	}
}

// Validate checks the whole parameter set.
func (p Parameters) Validate() error {
	if err := p.Constants.Validate(); err != nil {
		return err
	}
	if err := p.Profile.Validate(); err != nil {
		return err
	}
	return p.Market.Validate()
}

// document mirrors the parameter file. Profile curves are flat lists so the
// file stays readable next to the spreadsheets it is usually copied from.
type document struct {
	ConversionConstants `yaml:",inline"`
	MarketDefaults      `yaml:",inline"`

	PerfilATR       []float64 `yaml:"PERFIL_ATR"`
	PerfilMix       []float64 `yaml:"PERFIL_MIX"`
	PerfilMoagemPct []float64 `yaml:"PERFIL_MOAGEM_PCT"`
}

// LoadFile reads a YAML parameter file on top of the defaults.
func LoadFile(path string) (Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return Parameters{}, fmt.Errorf("open parameter file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML parameters from r. Keys absent from the document keep
// their default value; a profile curve given alone replaces only that curve.
func Decode(r io.Reader) (Parameters, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Parameters{}, fmt.Errorf("read parameters: %w", err)
	}

	def := Defaults()
	doc := document{
		ConversionConstants: def.Constants,
		MarketDefaults:      def.Market,
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return Parameters{}, &ConfigurationError{Field: "yaml", Reason: err.Error()}
		}
	}

	milling, atr, mix := curves(def.Profile)
	if doc.PerfilMoagemPct != nil {
		milling = doc.PerfilMoagemPct
	}
	if doc.PerfilATR != nil {
		atr = doc.PerfilATR
	}
	if doc.PerfilMix != nil {
		mix = doc.PerfilMix
	}

	profile, err := NewProfile(milling, atr, mix)
	if err != nil {
		return Parameters{}, err
	}

	p := Parameters{
		Constants: doc.ConversionConstants,
		Profile:   profile,
		Market:    doc.MarketDefaults,
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

func curves(p SeasonalProfile) (milling, atr, mix []float64) {
	milling = make([]float64, p.Len())
	atr = make([]float64, p.Len())
	mix = make([]float64, p.Len())
	for i, per := range p.Periods {
		milling[i] = per.MillingPct
		atr[i] = per.ATR
		mix[i] = per.Mix
	}
	return milling, atr, mix
}
