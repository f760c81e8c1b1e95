// Package los implements point-to-point optical and Fresnel clearance
// over a terrain profile sampled from a DSM elevation source.
package los

import (
	"math"

	"github.com/kestrelrf/losengine/internal/geodesy"
)

// ElevationSource answers elevation queries for a (lat, lon) pair. The
// dsm.Registry satisfies this interface; the kernel depends only on the
// narrow slice of behaviour it needs, not the whole registry.
type ElevationSource interface {
	ElevationAt(lat, lon float64) (metres float64, ok bool)
}

// Point is an antenna endpoint: a geographic position plus its height
// above ground level.
type Point struct {
	Lat, Lon  float64
	HeightAGL float64
}

// Sample is one point along an LOS profile.
type Sample struct {
	DistanceM        float64
	TerrainElevation float64
	LineElevation    float64
	Clearance        float64
	FresnelRadius    float64 // 0 when no frequency was supplied
	NoData           bool
}

// Result is the outcome of one point-to-point LOS evaluation.
type Result struct {
	Clear         bool
	FresnelClear  bool
	MinClearance  float64
	Bearing       float64
	DistanceM     float64
	Profile       []Sample // nil unless the caller asked for it
	NoData        bool     // true if any sample along the ray had no elevation data
}

const (
	defaultSampleResolutionM = 10.0
	minProfileSamples        = 32
	maxProfileSamples        = 1024
)

// Kernel evaluates line-of-sight between two points using terrain
// sampled from Source.
type Kernel struct {
	Source            ElevationSource
	SampleResolutionM float64 // defaults to 10 m when <= 0
}

func (k Kernel) sampleResolution() float64 {
	if k.SampleResolutionM <= 0 {
		return defaultSampleResolutionM
	}
	return k.SampleResolutionM
}

func clampSampleCount(n int) int {
	if n < minProfileSamples {
		return minProfileSamples
	}
	if n > maxProfileSamples {
		return maxProfileSamples
	}
	return n
}

// Evaluate computes the LOS result between a and b. freqMHz <= 0 skips
// Fresnel-zone evaluation (FresnelClear stays false, FresnelRadius stays
// 0 in every sample). wantProfile controls whether the per-sample
// profile is allocated and returned — sector sweeps never request it.
func (k Kernel) Evaluate(a, b Point, freqMHz float64, wantProfile bool) Result {
	distanceM := geodesy.GreatCircleDistance(a.Lat, a.Lon, b.Lat, b.Lon)
	bearing := geodesy.InitialBearing(a.Lat, a.Lon, b.Lat, b.Lon)

	n := clampSampleCount(int(math.Ceil(distanceM / k.sampleResolution())))

	result := Result{Bearing: bearing, DistanceM: distanceM}
	if wantProfile {
		result.Profile = make([]Sample, 0, n+1)
	}

	terrainAt := make([]float64, n+1)
	noDataAt := make([]bool, n+1)

	for i := 0; i <= n; i++ {
		lat, lon := geodesy.DestinationPoint(a.Lat, a.Lon, bearing, float64(i)*distanceM/float64(n))
		elev, ok := k.Source.ElevationAt(lat, lon)
		terrainAt[i] = elev
		noDataAt[i] = !ok
	}

	if noDataAt[0] || noDataAt[n] {
		// Antenna-end elevation missing: the whole ray is unresolvable.
		result.NoData = true
		return result
	}

	zA := terrainAt[0] + a.HeightAGL
	zB := terrainAt[n] + b.HeightAGL

	minClearance := math.Inf(1)
	fresnelClear := freqMHz > 0
	anyNoData := false
	distanceKm := distanceM / 1000

	for i := 0; i <= n; i++ {
		frac := float64(i) / float64(n)
		lineElev := zA + (zB-zA)*frac

		if noDataAt[i] {
			anyNoData = true
			if wantProfile {
				result.Profile = append(result.Profile, Sample{
					DistanceM:     frac * distanceM,
					LineElevation: lineElev,
					NoData:        true,
				})
			}
			continue
		}

		clearance := lineElev - terrainAt[i]
		if clearance < minClearance {
			minClearance = clearance
		}

		var fresnelRadius float64
		if freqMHz > 0 {
			d1Km := frac * distanceKm
			d2Km := distanceKm - d1Km
			freqGHz := freqMHz / 1000
			if freqGHz > 0 && distanceKm > 0 {
				fresnelRadius = 17.3 * math.Sqrt((d1Km*d2Km)/(freqGHz*distanceKm))
			}
			if clearance < 0.6*fresnelRadius {
				fresnelClear = false
			}
		}

		if wantProfile {
			result.Profile = append(result.Profile, Sample{
				DistanceM:        frac * distanceM,
				TerrainElevation: terrainAt[i],
				LineElevation:    lineElev,
				Clearance:        clearance,
				FresnelRadius:    fresnelRadius,
			})
		}
	}

	if anyNoData {
		result.NoData = true
		return result
	}

	result.MinClearance = minClearance
	result.Clear = minClearance >= 0
	result.FresnelClear = fresnelClear
	return result
}
