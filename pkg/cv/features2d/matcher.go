package features2d

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// MatcherType selects the DescriptorMatcher::create algorithm.
type MatcherType int32

const (
	MatcherBruteForce        MatcherType = 1
	MatcherBruteForceL1      MatcherType = 2
	MatcherBruteForceHamming MatcherType = 3
	MatcherFlannBased        MatcherType = 4
)

func (t MatcherType) Valid() bool { return t >= MatcherBruteForce && t <= MatcherFlannBased }

func (t MatcherType) String() string {
	switch t {
	case MatcherBruteForce:
		return "BruteForce"
	case MatcherBruteForceL1:
		return "BruteForce-L1"
	case MatcherBruteForceHamming:
		return "BruteForce-Hamming"
	case MatcherFlannBased:
		return "FlannBased"
	}
	return fmt.Sprintf("MatcherType(%d)", int32(t))
}

// DescriptorMatcher owns a cv::DescriptorMatcher.
type DescriptorMatcher struct {
	n backend.Native
	o *ffi.Owned[backend.Matcher]
}

// NewDescriptorMatcher creates a matcher. An unknown type fails with
// ErrEnumConversion before any native call.
func NewDescriptorMatcher(t MatcherType) (*DescriptorMatcher, error) {
	if _, err := ffi.EnumFrom[MatcherType](int32(t)); err != nil {
		return nil, err
	}
	n := backend.Current()
	h, err := n.MatcherNew(int32(t)).Into()
	if err != nil {
		return nil, fmt.Errorf("features2d: create %s matcher: %w", t, err)
	}
	return &DescriptorMatcher{n: n, o: ffi.Own(h, n.MatcherRelease)}, nil
}

// Add appends descriptor sets to the matcher's train collection. The native
// matcher keeps its own copies.
func (d *DescriptorMatcher) Add(descs ...*core.Mat) error {
	h, done, err := d.o.Lend()
	if err != nil {
		return err
	}
	defer done()
	hs := make([]ffi.Handle[backend.Mat], 0, len(descs))
	for _, m := range descs {
		mh, mdone, err := m.Borrow()
		if err != nil {
			return err
		}
		defer mdone()
		hs = append(hs, mh)
	}
	d.n.MatcherAdd(h, hs)
	return nil
}

// Train builds the search index. Flann-based matchers need at least one Add
// first; brute-force matchers accept it as a no-op.
func (d *DescriptorMatcher) Train() error {
	h, done, err := d.o.Lend()
	if err != nil {
		return err
	}
	defer done()
	if _, err := d.n.MatcherTrain(h).Into(); err != nil {
		return fmt.Errorf("features2d: train matcher: %w", err)
	}
	return nil
}

// Match finds the best train row for each query row. A nil train matches
// against the collection built by Add, and ImgIdx names the set.
func (d *DescriptorMatcher) Match(query, train *core.Mat) ([]types.DMatch, error) {
	h, done, err := d.o.Lend()
	if err != nil {
		return nil, err
	}
	defer done()
	qh, qdone, err := query.Borrow()
	if err != nil {
		return nil, err
	}
	defer qdone()
	th, tdone, err := borrowOptional(train)
	if err != nil {
		return nil, err
	}
	defer tdone()
	return d.n.MatcherMatch(h, qh, th).Unpack(), nil
}

// KnnMatch returns up to k matches per query row, closest first.
func (d *DescriptorMatcher) KnnMatch(query, train *core.Mat, k int) ([][]types.DMatch, error) {
	if k <= 0 {
		return nil, fmt.Errorf("features2d: knn match: k must be positive, got %d", k)
	}
	k32, err := ffi.Int32("k", k)
	if err != nil {
		return nil, fmt.Errorf("features2d: knn match: %w", err)
	}
	h, done, err := d.o.Lend()
	if err != nil {
		return nil, err
	}
	defer done()
	qh, qdone, err := query.Borrow()
	if err != nil {
		return nil, err
	}
	defer qdone()
	th, tdone, err := borrowOptional(train)
	if err != nil {
		return nil, err
	}
	defer tdone()
	v := d.n.MatcherKnnMatch(h, qh, th, k32)
	return ffi.UnpackWith(v, ffi.RawVec[types.DMatch].Copy), nil
}

// Close releases the matcher and its train collection.
func (d *DescriptorMatcher) Close() error { return d.o.Close() }
