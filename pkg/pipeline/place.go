package pipeline

import (
	"encoding/json"

	"github.com/paulmach/orb"

	"github.com/openkenya/countymap/pkg/geo"
	"github.com/openkenya/countymap/pkg/placement"
)

// placementArtifact is the cacheable form of a placement run. Points are
// aligned with the load-stage record order (a deterministic order for
// identical inputs); a nil entry marks a dropped record.
type placementArtifact struct {
	Points   []*orb.Point   `json:"points"`
	Placed   int            `json:"placed"`
	Dropped  int            `json:"dropped"`
	ByCounty map[string]int `json:"by_county"`
}

// Place runs the placement stage over loaded datasets.
func Place(ds *Datasets, opts Options) placement.Result {
	opts.SetPlaceDefaults()
	fallback := opts.Fallback
	if fallback == FallbackNone {
		// No catch-all county: unresolved records are dropped and counted.
		fallback = ""
	}
	placer := placement.NewPlacer(ds.Index, geo.NewSampler(opts.Seed), fallback, opts.Logger)
	return placer.Place(ds.Records)
}

func marshalPlacements(ds *Datasets, res placement.Result) ([]byte, error) {
	art := placementArtifact{
		Points:   make([]*orb.Point, len(ds.Records)),
		Placed:   res.Placed,
		Dropped:  res.Dropped,
		ByCounty: res.ByCounty,
	}
	for i, rec := range ds.Records {
		if pt, ok := rec.Placement(); ok {
			p := pt
			art.Points[i] = &p
		}
	}
	return json.Marshal(art)
}

// applyPlacements restores a cached placement artifact onto the loaded
// records. A length mismatch means the artifact belongs to different
// inputs; the caller falls back to recomputing.
func applyPlacements(ds *Datasets, data []byte) (placement.Result, bool) {
	var art placementArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return placement.Result{}, false
	}
	if len(art.Points) != len(ds.Records) {
		return placement.Result{}, false
	}
	for i, pt := range art.Points {
		if pt != nil {
			ds.Records[i].SetPlacement(*pt)
		}
	}
	return placement.Result{
		Placed:   art.Placed,
		Dropped:  art.Dropped,
		ByCounty: art.ByCounty,
	}, true
}
