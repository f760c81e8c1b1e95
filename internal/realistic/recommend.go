package realistic

import "github.com/kestrelrf/losengine/internal/friis"

// Recommendation is an opaque key the UI layer translates to user-facing
// text. This package never renders strings — only emits keys.
type Recommendation string

const (
	RecommendRain            Recommendation = "rain"
	RecommendFog              Recommendation = "fog"
	RecommendElevateAntennas Recommendation = "elevateAntennas"
	RecommendLowerFrequency   Recommendation = "lowerFrequency"
	RecommendDust             Recommendation = "dust"
	RecommendTerrain          Recommendation = "terrain"
	RecommendAddMargin        Recommendation = "addMargin"
)

// Recommendations evaluates the small rule engine against the link's
// region and weather, and the realistic-vs-free-space range reduction.
func (l Link) Recommendations() []Recommendation {
	var recs []Recommendation

	if l.Weather.RainRateMmH > 2 {
		recs = append(recs, RecommendRain)
	}
	if l.Weather.VisibilityM < 3000 {
		recs = append(recs, RecommendFog)
	}
	if l.Region.UrbanDensity > 0.5 {
		recs = append(recs, RecommendElevateAntennas)
	}
	if l.Region.VegetationFactor > 0.4 && l.FreqMHz > 2000 {
		recs = append(recs, RecommendLowerFrequency)
	}
	if l.Region.DustProbability > 0.3 && l.Weather.VisibilityM < 8000 {
		recs = append(recs, RecommendDust)
	}
	if l.Region.TerrainVariation > 0.6 {
		recs = append(recs, RecommendTerrain)
	}

	freeSpaceKm := friis.MaxDistance(l.PowerWatts, l.GainTxDBi, l.GainRxDBi, l.FreqMHz, l.SensitivityDBm)
	realisticKm := l.MaxRange()
	if freeSpaceKm > 0 {
		reduction := (freeSpaceKm - realisticKm) / freeSpaceKm
		if reduction > 0.30 {
			recs = append(recs, RecommendAddMargin)
		}
	}

	return recs
}
