package realistic

import (
	"math"

	"github.com/kestrelrf/losengine/internal/friis"
)

// Link bundles the parameters of a realistic link budget calculation.
type Link struct {
	PowerWatts    float64
	GainTxDBi     float64
	GainRxDBi     float64
	FreqMHz       float64
	SensitivityDBm float64
	Region        Region
	Weather       Weather
}

// totalLoss returns the total path loss in dB at distance dKm: the
// free-space loss plus the environment and atmospheric additive terms.
// Each additive component is non-decreasing in dKm, so totalLoss is
// monotone increasing — the precondition the binary-search inversion
// below relies on.
func (l Link) totalLoss(dKm float64) float64 {
	return friis.FSPL(dKm, l.FreqMHz) +
		environmentLoss(l.Region, dKm, l.FreqMHz) +
		atmosphericLoss(l.Weather, l.Region.DustProbability, dKm, l.FreqMHz)
}

// linkBudget is the dB margin the path may consume before the signal
// drops below sensitivity.
func (l Link) linkBudget() float64 {
	return friis.DBm(l.PowerWatts) + l.GainTxDBi + l.GainRxDBi - l.SensitivityDBm
}

const (
	maxRangeIterations = 50
	maxRangeToleranceDB = 0.01
	minSearchDistanceKm = 0.001 // 1 m
)

// MaxRange inverts the realistic total-loss curve by binary search to
// find the maximum range in km at which the link budget is still met.
// The search interval is [1 m, 2*freeSpaceRange]; it always terminates
// within 50 iterations since totalLoss is monotone increasing in
// distance.
func (l Link) MaxRange() float64 {
	budget := l.linkBudget()
	freeSpaceKm := friis.MaxDistance(l.PowerWatts, l.GainTxDBi, l.GainRxDBi, l.FreqMHz, l.SensitivityDBm)

	lo := minSearchDistanceKm
	hi := 2 * math.Max(freeSpaceKm, minSearchDistanceKm)

	mid := lo
	for i := 0; i < maxRangeIterations; i++ {
		mid = (lo + hi) / 2
		loss := l.totalLoss(mid)
		diff := loss - budget
		if math.Abs(diff) < maxRangeToleranceDB {
			break
		}
		if diff > 0 {
			// Loss too high at mid: max range is closer than mid.
			hi = mid
		} else {
			lo = mid
		}
	}
	return mid
}

// ReceivedPower returns the received power in dBm at a fixed distance
// dKm: the free-space result minus the summed environment and
// atmospheric losses at that distance.
func (l Link) ReceivedPower(dKm float64) float64 {
	freeSpace := friis.DBm(l.PowerWatts) + l.GainTxDBi + l.GainRxDBi - friis.FSPL(dKm, l.FreqMHz)
	losses := environmentLoss(l.Region, dKm, l.FreqMHz) + atmosphericLoss(l.Weather, l.Region.DustProbability, dKm, l.FreqMHz)
	return freeSpace - losses
}
