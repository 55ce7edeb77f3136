package geo

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/openkenya/countymap/pkg/errors"
)

// rtreeMinChildren and rtreeMaxChildren tune the R-tree branching factor.
// 47 counties is tiny; these defaults are fine for anything county-scale.
const (
	rtreeMinChildren = 4
	rtreeMaxChildren = 16
)

// Index maps normalized region keys to regions and supports reverse
// point-to-region lookup through an R-tree over region bounding boxes.
//
// An Index is immutable after BuildIndex returns and safe for concurrent
// readers.
type Index struct {
	regions map[string]*Region
	names   []string // display names in dataset order
	tree    *rtreego.Rtree
	bound   orb.Bound
}

// treeEntry adapts a Region to the rtreego.Spatial interface.
type treeEntry struct {
	rect   rtreego.Rect
	region *Region
}

func (e *treeEntry) Bounds() rtreego.Rect { return e.rect }

var _ rtreego.Spatial = (*treeEntry)(nil)

// NewIndex builds an Index from an already-constructed region list.
// Later duplicates of a key silently replace earlier ones.
func NewIndex(regions []*Region) (*Index, error) {
	if len(regions) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidBoundary, "boundary dataset contains no regions")
	}

	idx := &Index{
		regions: make(map[string]*Region, len(regions)),
		names:   make([]string, 0, len(regions)),
		tree:    rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren),
		bound:   regions[0].Bound(),
	}
	for _, r := range regions {
		if _, dup := idx.regions[r.Key]; !dup {
			idx.names = append(idx.names, r.Name)
		}
		idx.regions[r.Key] = r
		idx.bound = idx.bound.Union(r.Bound())

		rect, err := boundRect(r.Bound())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidBoundary, err, "degenerate bound for region %q", r.Name)
		}
		idx.tree.Insert(&treeEntry{rect: rect, region: r})
	}
	return idx, nil
}

// Lookup returns the region for a (not necessarily normalized) name.
// Unknown names yield ok=false; Lookup never fails hard.
func (i *Index) Lookup(name string) (*Region, bool) {
	r, ok := i.regions[NormalizeKey(name)]
	return r, ok
}

// Names returns the region display names in dataset order. The slice is
// shared; callers must not mutate it.
func (i *Index) Names() []string {
	return i.names
}

// Len returns the number of distinct regions in the index.
func (i *Index) Len() int {
	return len(i.regions)
}

// Bound returns the union bounding box of every region in the index.
func (i *Index) Bound() orb.Bound {
	return i.bound
}

// Locate returns the region whose polygon contains pt, if any. Candidate
// regions come from the R-tree bounding-box search and are confirmed by
// exact containment, so border points near a neighboring county's box do
// not mis-resolve.
func (i *Index) Locate(pt orb.Point) (*Region, bool) {
	probe, err := rtreego.NewRect(rtreego.Point{pt.X(), pt.Y()}, []float64{1e-9, 1e-9})
	if err != nil {
		return nil, false
	}
	for _, hit := range i.tree.SearchIntersect(probe) {
		entry := hit.(*treeEntry)
		if entry.region.Contains(pt) {
			return entry.region, true
		}
	}
	return nil, false
}

func boundRect(b orb.Bound) (rtreego.Rect, error) {
	// rtreego rejects zero-length sides; pad degenerate bounds slightly.
	w := max(b.Max.X()-b.Min.X(), 1e-9)
	h := max(b.Max.Y()-b.Min.Y(), 1e-9)
	return rtreego.NewRect(rtreego.Point{b.Min.X(), b.Min.Y()}, []float64{w, h})
}
