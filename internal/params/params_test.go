package params

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultProfile_MillingSumsTo100(t *testing.T) {
	p := DefaultProfile()
	if p.Len() != 24 {
		t.Fatalf("expected 24 quinzenas, got %d", p.Len())
	}
	if sum := p.MillingSum(); math.Abs(sum-100) > MillingTolerance {
		t.Errorf("expected milling sum 100, got %v", sum)
	}
	if p.Periods[0].Label != "abr/1" || p.Periods[23].Label != "mar/2" {
		t.Errorf("unexpected labels %q..%q", p.Periods[0].Label, p.Periods[23].Label)
	}
}

func TestDefaults_Validate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestNewProfile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		milling []float64
		atr     []float64
		mix     []float64
		field   string
	}{
		{"Empty", nil, nil, nil, "PERFIL_MOAGEM_PCT"},
		{"ATRLength", []float64{50, 50}, []float64{120}, []float64{0.5, 0.5}, "PERFIL_ATR"},
		{"MixLength", []float64{50, 50}, []float64{120, 120}, []float64{0.5}, "PERFIL_MIX"},
		{"SumNot100", []float64{50, 40}, []float64{120, 120}, []float64{0.5, 0.5}, "PERFIL_MOAGEM_PCT"},
		{"MixAboveOne", []float64{50, 50}, []float64{120, 120}, []float64{0.5, 1.2}, "PERFIL_MIX"},
		{"ZeroATR", []float64{50, 50}, []float64{0, 120}, []float64{0.5, 0.5}, "PERFIL_ATR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfile(tt.milling, tt.atr, tt.mix)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) || cerr.Field != tt.field {
				t.Errorf("expected field %s, got %v", tt.field, err)
			}
		})
	}
}

func TestConstants_Validate(t *testing.T) {
	c := DefaultConstants()
	c.TaxaPol = -0.1
	if err := c.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("negative TAXA_POL should fail, got %v", err)
	}

	c = DefaultConstants()
	c.ICMSEtanol = 0.6
	c.PISCOFINSEtanol = 0.5
	if err := c.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("combined tax >= 1 should fail, got %v", err)
	}

	c = DefaultConstants()
	c.ATRPerM3Hydrated = 0
	if err := c.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("zero ATR equivalence should fail, got %v", err)
	}
}

func TestDecode_OverridesOnlyGivenKeys(t *testing.T) {
	doc := `
DESCONTO_VHP_FOB: 0.15
FRETE_R_T: 210
NY11_INICIAL: 18.5
VOLATILIDADES: [0.2, 0.2, 0.1]
`
	p, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Constants.DescontoVHPFOB != 0.15 {
		t.Errorf("DESCONTO_VHP_FOB = %v, want 0.15", p.Constants.DescontoVHPFOB)
	}
	if p.Constants.FreteRT != 210 {
		t.Errorf("FRETE_R_T = %v, want 210", p.Constants.FreteRT)
	}
	if p.Constants.TaxaPol != DefaultConstants().TaxaPol {
		t.Errorf("TAXA_POL should keep its default, got %v", p.Constants.TaxaPol)
	}
	if p.Market.NY11 != 18.5 || p.Market.Volatility[2] != 0.1 {
		t.Errorf("market not decoded: %+v", p.Market)
	}
	if p.Market.Correlation != DefaultMarket().Correlation {
		t.Errorf("correlation should keep its default")
	}
	if p.Profile.Len() != 24 {
		t.Errorf("profile should keep the default length, got %d", p.Profile.Len())
	}
}

func TestDecode_ProfileCurves(t *testing.T) {
	doc := `
PERFIL_MOAGEM_PCT: [25, 25, 25, 25]
PERFIL_ATR: [120, 130, 140, 130]
PERFIL_MIX: [0.4, 0.5, 0.5, 0.4]
`
	p, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Profile.Len() != 4 {
		t.Fatalf("expected 4 periods, got %d", p.Profile.Len())
	}
	if p.Profile.Periods[2].ATR != 140 {
		t.Errorf("ATR[2] = %v, want 140", p.Profile.Periods[2].ATR)
	}
}

func TestDecode_PartialCurveLengthMismatch(t *testing.T) {
	// Replacing only the milling curve with a different length cannot be zipped
	// with the default ATR curve.
	_, err := Decode(strings.NewReader("PERFIL_MOAGEM_PCT: [50, 50]\n"))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDecode_UnknownKey(t *testing.T) {
	_, err := Decode(strings.NewReader("DESCONTO_VHP: 0.1\n"))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("unknown key should be a configuration error, got %v", err)
	}
}

func TestDecode_Empty(t *testing.T) {
	p, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty document should yield defaults: %v", err)
	}
	if p.Constants != DefaultConstants() {
		t.Errorf("expected default constants")
	}
}
