package los

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/kestrelrf/losengine/internal/geodesy"
)

// ExportGPX renders an LOS profile as a single-segment GPX track, one
// point per profile sample, with elevation set to the line-of-sight
// elevation (not the terrain elevation) so the track visualizes the
// straight radio path above the ground. origin/bearing are needed
// because Result stores only distance along the ray, not lat/lon.
func ExportGPX(result Result, origin Point) (*gpx.GPX, error) {
	if len(result.Profile) == 0 {
		return nil, fmt.Errorf("los: cannot export GPX, profile is empty (was WantProfile set?)")
	}

	g := &gpx.GPX{
		Creator:     "losengine",
		Description: "line-of-sight profile",
	}

	segment := gpx.GPXTrackSegment{}
	for _, sample := range result.Profile {
		lat, lon := geodesy.DestinationPoint(origin.Lat, origin.Lon, result.Bearing, sample.DistanceM)
		point := gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  lat,
				Longitude: lon,
			},
		}
		point.Elevation.SetValue(sample.LineElevation)
		segment.Points = append(segment.Points, point)
	}

	track := gpx.GPXTrack{
		Name:     "los-profile",
		Segments: []gpx.GPXTrackSegment{segment},
	}
	g.Tracks = append(g.Tracks, track)

	return g, nil
}

// ToXMLBytes renders g as indented GPX XML.
func ToXMLBytes(g *gpx.GPX) ([]byte, error) {
	return g.ToXml(gpx.ToXmlParams{Indent: true})
}
