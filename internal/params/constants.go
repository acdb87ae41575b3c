package params

import "math"

// ConversionConstants holds the fixed conversion, tax and logistics values.
// The yaml keys are the ones analysts already use in their parameter tables.
type ConversionConstants struct {
	DescontoVHPFOB  float64 `yaml:"DESCONTO_VHP_FOB" json:"desconto_vhp_fob"`   // c/lb
	TaxaPol         float64 `yaml:"TAXA_POL" json:"taxa_pol"`                   // polarization premium, fraction
	ICMSEtanol      float64 `yaml:"ICMS_ETANOL" json:"icms_etanol"`             // fraction of gross
	PISCOFINSEtanol float64 `yaml:"PIS_COFINS_ETANOL" json:"pis_cofins_etanol"` // fraction of gross
	FreteRT         float64 `yaml:"FRETE_R_T" json:"frete_r_t"`                 // BRL/t
	TerminalUSDT    float64 `yaml:"TERMINAL_USD_T" json:"terminal_usd_t"`       // USD/t

	CentsLbToUSDTon float64 `yaml:"CENTS_LB_TO_USD_T" json:"cents_lb_to_usd_t"`

	// ATR equivalences: tonnes of ATR per tonne of VHP sugar and per m³ of ethanol.
	ATRPerTonSugar    float64 `yaml:"ATR_T_ACUCAR" json:"atr_t_acucar"`
	ATRPerM3Hydrated  float64 `yaml:"ATR_M3_HIDRATADO" json:"atr_m3_hidratado"`
	ATRPerM3Anhydrous float64 `yaml:"ATR_M3_ANIDRO" json:"atr_m3_anidro"`

	AnhydrousPremium float64 `yaml:"PREMIO_ANIDRO" json:"premio_anidro"` // anhydrous/hydrated price ratio

	CBIOPriceBRL       float64 `yaml:"CBIO_PRECO" json:"cbio_preco"`
	CBIOPerM3Hydrated  float64 `yaml:"CBIO_M3_HIDRATADO" json:"cbio_m3_hidratado"`
	CBIOPerM3Anhydrous float64 `yaml:"CBIO_M3_ANIDRO" json:"cbio_m3_anidro"`

	// Industrial yields.
	SugarYield         float64 `yaml:"RENDIMENTO_ACUCAR" json:"rendimento_acucar"` // t sugar per t ATR
	EthanolYield       float64 `yaml:"RENDIMENTO_ETANOL" json:"rendimento_etanol"` // m³ per t ATR
	AnhydrousShare     float64 `yaml:"FRACAO_ANIDRO" json:"fracao_anidro"`
	CornEthanolYield   float64 `yaml:"RENDIMENTO_MILHO" json:"rendimento_milho"` // m³ per t corn
	CornAnhydrousShare float64 `yaml:"FRACAO_ANIDRO_MILHO" json:"fracao_anidro_milho"`
}

// DefaultConstants returns the calibration used by the default scenario.
func DefaultConstants() ConversionConstants {
	return ConversionConstants{
		DescontoVHPFOB:     0.10,
		TaxaPol:            0.045,
		ICMSEtanol:         0.12,
		PISCOFINSEtanol:    0.0925,
		FreteRT:            180,
		TerminalUSDT:       12,
		CentsLbToUSDTon:    22.0462,
		ATRPerTonSugar:     1.0471,
		ATRPerM3Hydrated:   1.6913,
		ATRPerM3Anhydrous:  1.7656,
		AnhydrousPremium:   1.06,
		CBIOPriceBRL:       100,
		CBIOPerM3Hydrated:  0.55,
		CBIOPerM3Anhydrous: 0.60,
		SugarYield:         1 / 1.0471,
		EthanolYield:       1 / 1.6913,
		AnhydrousShare:     0.38,
		CornEthanolYield:   0.42,
		CornAnhydrousShare: 0.45,
	}
}

// Validate checks every constant once; the first violation is returned.
func (c ConversionConstants) Validate() error {
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"DESCONTO_VHP_FOB", c.DescontoVHPFOB},
		{"TAXA_POL", c.TaxaPol},
		{"FRETE_R_T", c.FreteRT},
		{"TERMINAL_USD_T", c.TerminalUSDT},
		{"CBIO_PRECO", c.CBIOPriceBRL},
		{"CBIO_M3_HIDRATADO", c.CBIOPerM3Hydrated},
		{"CBIO_M3_ANIDRO", c.CBIOPerM3Anhydrous},
	}
	for _, f := range nonNegative {
		if math.IsNaN(f.v) || f.v < 0 {
			return configErr(f.name, "must be >= 0, got %g", f.v)
		}
	}

	positive := []struct {
		name string
		v    float64
	}{
		{"CENTS_LB_TO_USD_T", c.CentsLbToUSDTon},
		{"ATR_T_ACUCAR", c.ATRPerTonSugar},
		{"ATR_M3_HIDRATADO", c.ATRPerM3Hydrated},
		{"ATR_M3_ANIDRO", c.ATRPerM3Anhydrous},
		{"PREMIO_ANIDRO", c.AnhydrousPremium},
		{"RENDIMENTO_ACUCAR", c.SugarYield},
		{"RENDIMENTO_ETANOL", c.EthanolYield},
		{"RENDIMENTO_MILHO", c.CornEthanolYield},
	}
	for _, f := range positive {
		if math.IsNaN(f.v) || f.v <= 0 {
			return configErr(f.name, "must be > 0, got %g", f.v)
		}
	}

	fractions := []struct {
		name string
		v    float64
	}{
		{"ICMS_ETANOL", c.ICMSEtanol},
		{"PIS_COFINS_ETANOL", c.PISCOFINSEtanol},
		{"FRACAO_ANIDRO", c.AnhydrousShare},
		{"FRACAO_ANIDRO_MILHO", c.CornAnhydrousShare},
	}
	for _, f := range fractions {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return configErr(f.name, "must be within [0, 1], got %g", f.v)
		}
	}
	if c.ICMSEtanol+c.PISCOFINSEtanol >= 1 {
		return configErr("ICMS_ETANOL+PIS_COFINS_ETANOL", "combined tax rate must be < 1")
	}
	return nil
}
