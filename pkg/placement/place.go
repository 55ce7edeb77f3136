package placement

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/openkenya/countymap/pkg/geo"
)

// Result summarizes a placement run. Placed counts records that ended up
// with a point; Dropped counts records excluded because neither their
// county nor the fallback could be resolved, or because the sampler's
// attempt cap left them without a point. The points themselves live on
// the records.
type Result struct {
	Placed  int
	Dropped int

	// ByCounty counts placed records per canonical county name.
	ByCounty map[string]int
}

// Placer runs the record placement pipeline against a region index.
type Placer struct {
	index    *geo.Index
	sampler  *geo.Sampler
	fallback string
	logger   *log.Logger
}

// NewPlacer builds a placer. fallbackKey names the county used for records
// whose own county cannot be resolved; pass "" to drop such records
// instead. A nil logger discards output.
func NewPlacer(index *geo.Index, sampler *geo.Sampler, fallbackKey string, logger *log.Logger) *Placer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Placer{
		index:    index,
		sampler:  sampler,
		fallback: fallbackKey,
		logger:   logger,
	}
}

// Place assigns one point inside its resolved county to each record.
//
// Records are partitioned by resolved county. Each resolvable partition
// gets a single batch sample request sized to the partition; if the
// sampler comes up short, the excess records stay unplaced and are
// dropped. Unresolvable partitions fall back to the configured fallback
// county, sampled per record; when the fallback itself is missing from
// the index, the whole partition is dropped and counted.
//
// Records are treated as an unordered multiset; output order follows the
// input but carries no meaning.
func (p *Placer) Place(records []*Record) Result {
	res := Result{ByCounty: make(map[string]int)}

	partitions := make(map[string][]*Record)
	var order []string
	for _, rec := range records {
		key := geo.NormalizeKey(ResolveCounty(rec))
		if _, seen := partitions[key]; !seen {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], rec)
	}

	for _, key := range order {
		part := partitions[key]
		region, ok := p.index.Lookup(key)
		if !ok {
			p.placeFallback(part, &res)
			continue
		}

		pts := p.sampler.Sample(region, len(part))
		if len(pts) < len(part) {
			p.logger.Warn("sampler came up short",
				"county", region.Name,
				"requested", len(part),
				"got", len(pts))
		}
		for i, rec := range part {
			if i >= len(pts) {
				res.Dropped++
				continue
			}
			rec.SetPlacement(pts[i])
			res.Placed++
			res.ByCounty[region.Name]++
		}
	}

	p.logger.Info("placement complete",
		"records", len(records),
		"placed", res.Placed,
		"dropped", res.Dropped)
	return res
}

// placeFallback samples the fallback county once per record. Used for
// partitions whose own county never resolved.
func (p *Placer) placeFallback(part []*Record, res *Result) {
	if p.fallback == "" {
		res.Dropped += len(part)
		return
	}
	region, ok := p.index.Lookup(p.fallback)
	if !ok {
		p.logger.Warn("fallback county missing from index",
			"fallback", p.fallback,
			"dropped", len(part))
		res.Dropped += len(part)
		return
	}

	for _, rec := range part {
		pt, ok := p.sampler.SampleOne(region)
		if !ok {
			res.Dropped++
			continue
		}
		rec.SetPlacement(pt)
		res.Placed++
		res.ByCounty[region.Name]++
	}
}
