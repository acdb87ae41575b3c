// Package conversion turns raw market quotes into comparable units.
//
// Sugar prices are cents per pound (NY11 / FOB), ethanol prices are BRL per m³
// and the common parity unit is BRL per tonne of VHP-equivalent sugar.
package conversion

import (
	"math"

	"canasim/internal/params"
)

// VHPToFOB removes the VHP discount, grossed up by the polarization premium.
func VHPToFOB(ny11 float64, c params.ConversionConstants) float64 {
	return ny11 - c.DescontoVHPFOB*(1+c.TaxaPol)
}

// FOBToBRLPerTon converts a c/lb price to BRL/t at the given exchange rate.
func FOBToBRLPerTon(fob, usdbrl float64, c params.ConversionConstants) (float64, error) {
	if err := checkRate(usdbrl); err != nil {
		return 0, err
	}
	return fob * c.CentsLbToUSDTon * usdbrl, nil
}

// BRLPerTonToCentsLb is the inverse of FOBToBRLPerTon.
func BRLPerTonToCentsLb(brlPerTon, usdbrl float64, c params.ConversionConstants) (float64, error) {
	if err := checkRate(usdbrl); err != nil {
		return 0, err
	}
	return brlPerTon / (c.CentsLbToUSDTon * usdbrl), nil
}

// EthanolToSugarEquivalent converts BRL/m³ into BRL per tonne of sugar
// equivalent. factor is m³ of ethanol carrying the ATR of one tonne of sugar.
func EthanolToSugarEquivalent(ethanolBRLm3, factor float64) (float64, error) {
	if err := checkFactor(factor); err != nil {
		return 0, err
	}
	return ethanolBRLm3 * factor, nil
}

// SugarEquivalentToEthanol is the inverse of EthanolToSugarEquivalent.
func SugarEquivalentToEthanol(sugarEqBRLt, factor float64) (float64, error) {
	if err := checkFactor(factor); err != nil {
		return 0, err
	}
	return sugarEqBRLt / factor, nil
}

// HydratedFactor is the m³ of hydrated ethanol equivalent to one tonne of VHP.
func HydratedFactor(c params.ConversionConstants) float64 {
	return c.ATRPerTonSugar / c.ATRPerM3Hydrated
}

// AnhydrousFactor is the m³ of anhydrous ethanol equivalent to one tonne of VHP.
func AnhydrousFactor(c params.ConversionConstants) float64 {
	return c.ATRPerTonSugar / c.ATRPerM3Anhydrous
}

// EthanolToCentsLb expresses an ethanol price in sugar c/lb terms.
func EthanolToCentsLb(ethanolBRLm3, factor, usdbrl float64, c params.ConversionConstants) (float64, error) {
	eq, err := EthanolToSugarEquivalent(ethanolBRLm3, factor)
	if err != nil {
		return 0, err
	}
	return BRLPerTonToCentsLb(eq, usdbrl, c)
}

func checkRate(usdbrl float64) error {
	if !(usdbrl > 0) {
		return &params.RangeError{What: "usdbrl", Value: usdbrl, Min: 0, Max: math.MaxFloat64}
	}
	return nil
}

func checkFactor(factor float64) error {
	if !(factor > 0) {
		return &params.RangeError{What: "conversion factor", Value: factor, Min: 0, Max: math.MaxFloat64}
	}
	return nil
}
