package realistic

import "math"

// environmentLoss returns the additive dB loss contributed by terrain,
// vegetation, and urban clutter for a path of length dKm at frequency
// freqMHz through region.
func environmentLoss(region Region, dKm, freqMHz float64) float64 {
	return region.BaseAttenuation +
		pathLossExcess(region.PathLossExponent, dKm) +
		vegetationLoss(region.VegetationFactor, dKm, freqMHz) +
		urbanClutterLoss(region.UrbanDensity, freqMHz) +
		terrainDiffractionLoss(region.TerrainVariation, dKm)
}

func pathLossExcess(n, dKm float64) float64 {
	excess := 10 * (n - 2) * math.Log10(math.Max(dKm, 0.01))
	if excess < 0 {
		return 0
	}
	return excess
}

// vegetationAttenuationPerKm is the piecewise dB/km step used by the
// vegetation loss term.
func vegetationAttenuationPerKm(freqMHz float64) float64 {
	switch {
	case freqMHz < 200:
		return 0.5
	case freqMHz < 1000:
		return 1.5
	case freqMHz < 5000:
		return 3
	case freqMHz < 10000:
		return 5
	default:
		return 8
	}
}

func vegetationLoss(factor, dKm, freqMHz float64) float64 {
	return factor * vegetationAttenuationPerKm(freqMHz) * math.Min(dKm, 10)
}

func urbanClutterLoss(density, freqMHz float64) float64 {
	if density < 0.05 {
		return 0
	}
	scale := math.Min(1+0.5*math.Log10(math.Max(freqMHz, 100)/100), 2.5)
	return density * 15 * scale
}

func terrainDiffractionLoss(variation, dKm float64) float64 {
	if variation < 0.05 {
		return 0
	}
	return variation * 6 * math.Sqrt(math.Max(dKm, 0.1))
}

// atmosphericLoss returns the additive dB loss contributed by rain, fog,
// humidity, and dust for a path of length dKm at frequency freqMHz under
// weather. dustProbability comes from the Region, since dust likelihood
// is a property of the terrain/climate, not a single weather sample.
func atmosphericLoss(weather Weather, dustProbability, dKm, freqMHz float64) float64 {
	return rainLoss(weather.RainRateMmH, dKm, freqMHz) +
		fogLoss(weather.VisibilityM, dKm, freqMHz) +
		humidityLoss(weather.HumidityPct, dKm, freqMHz) +
		dustLoss(weather, dustProbability, dKm, freqMHz)
}

func rainSpecificAttenuation(freqMHz float64) float64 {
	switch {
	case freqMHz < 1000:
		return 0.01
	case freqMHz < 5000:
		return 0.03
	case freqMHz < 10000:
		return 0.05
	case freqMHz < 30000:
		return 0.15
	default:
		return 0.3
	}
}

func rainLoss(rainRateMmH, dKm, freqMHz float64) float64 {
	if rainRateMmH <= 0 {
		return 0
	}
	effectiveLength := dKm / (1 + dKm/35)
	return rainSpecificAttenuation(freqMHz) * rainRateMmH * effectiveLength
}

// atmosphericFreqFactor is the frequency-banding factor shared by the
// fog and dust terms.
func atmosphericFreqFactor(freqMHz float64) float64 {
	switch {
	case freqMHz > 10000:
		return 2.0
	case freqMHz > 3000:
		return 1.0
	default:
		return 0.3
	}
}

func fogLoss(visibilityM, dKm, freqMHz float64) float64 {
	visKm := visibilityM / 1000
	if visKm >= 10 {
		return 0
	}
	return atmosphericFreqFactor(freqMHz) * (1 - visKm/10) * math.Min(dKm, 20)
}

func humidityK(freqMHz float64) float64 {
	switch {
	case freqMHz < 2000:
		return 0.01
	case freqMHz < 10000:
		return 0.03
	case freqMHz < 30000:
		return 0.08
	default:
		return 0.15
	}
}

func humidityLoss(humidityPct, dKm, freqMHz float64) float64 {
	if humidityPct <= 50 {
		return 0
	}
	return (humidityPct - 50) / 100 * humidityK(freqMHz) * dKm * 10
}

func dustLoss(weather Weather, dustProbability, dKm, freqMHz float64) float64 {
	if dustProbability < 0.1 || weather.VisibilityM >= 8000 {
		return 0
	}
	scale := (8000 - weather.VisibilityM) / 8000
	return atmosphericFreqFactor(freqMHz) * scale * math.Min(dKm, 15)
}
