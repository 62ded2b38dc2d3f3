package service

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"lingua-globe-service/internal/cluster"
)

// ToFeatureCollection renders clusters as GeoJSON points. Every feature
// gets a fresh id; clusters have no identity across requests.
func ToFeatureCollection(clusters []cluster.Cluster) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range clusters {
		p := ToPointResponse(c)

		f := geojson.NewFeature(orb.Point{c.Lng, c.Lat})
		f.ID = uuid.New().String()
		f.Properties["cluster"] = !c.IsSingle
		f.Properties["point_count"] = c.Count
		f.Properties["dominant_status"] = string(c.DominantStatus)
		f.Properties["dominant_family"] = c.DominantFamily
		f.Properties["color"] = p.Color
		f.Properties["label"] = p.Label
		if c.IsSingle && len(p.Markers) == 1 {
			f.Properties["language_id"] = p.Markers[0].LanguageID
			f.Properties["name"] = p.Markers[0].Name
		}
		fc.Append(f)
	}
	return fc
}
