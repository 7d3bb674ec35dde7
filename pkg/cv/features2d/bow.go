package features2d

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// KMeansFlags select how cluster centers are seeded.
type KMeansFlags int32

const (
	KMeansRandomCenters KMeansFlags = 0
	KMeansUseInitLabels KMeansFlags = 1
	KMeansPPCenters     KMeansFlags = 2
)

// BOWKMeansTrainer owns a cv::BOWKMeansTrainer: it accumulates descriptors
// and clusters them into a visual vocabulary.
type BOWKMeansTrainer struct {
	n backend.Native
	o *ffi.Owned[backend.BOWTrainer]
}

// NewBOWKMeansTrainer creates a trainer for clusterCount words.
func NewBOWKMeansTrainer(clusterCount int, tc types.TermCriteria, attempts int, flags KMeansFlags) (*BOWKMeansTrainer, error) {
	if clusterCount <= 0 || attempts <= 0 {
		return nil, fmt.Errorf("features2d: bow: cluster count %d and attempts %d must be positive", clusterCount, attempts)
	}
	if tc.Type&(types.TermCount|types.TermEps) == 0 {
		return nil, fmt.Errorf("features2d: bow: termination criteria type %d sets neither count nor eps", tc.Type)
	}
	var nr ffi.Narrower
	k := nr.Int32("cluster count", clusterCount)
	tries := nr.Int32("attempts", attempts)
	if err := nr.Err(); err != nil {
		return nil, fmt.Errorf("features2d: bow: %w", err)
	}
	n := backend.Current()
	h := n.BOWNew(k, tc, tries, int32(flags))
	if h.IsNull() {
		return nil, backend.ErrNotBuilt
	}
	return &BOWKMeansTrainer{n: n, o: ffi.Own(h, n.BOWRelease)}, nil
}

// Add appends the rows of descriptors. Every call must use the same column
// count.
func (b *BOWKMeansTrainer) Add(descriptors *core.Mat) error {
	h, done, err := b.o.Lend()
	if err != nil {
		return err
	}
	defer done()
	dh, ddone, err := descriptors.Borrow()
	if err != nil {
		return err
	}
	defer ddone()
	b.n.BOWAdd(h, dh)
	return nil
}

// DescriptorsCount returns the number of rows added so far.
func (b *BOWKMeansTrainer) DescriptorsCount() (int, error) {
	h, done, err := b.o.Lend()
	if err != nil {
		return 0, err
	}
	defer done()
	return int(b.n.BOWDescriptorsCount(h)), nil
}

// Cluster runs k-means over everything added and returns the vocabulary,
// one CV_32F row per cluster center.
func (b *BOWKMeansTrainer) Cluster() (*core.Mat, error) {
	h, done, err := b.o.Lend()
	if err != nil {
		return nil, err
	}
	defer done()
	vh, err := b.n.BOWCluster(h).Into()
	if err != nil {
		return nil, fmt.Errorf("features2d: bow cluster: %w", err)
	}
	return core.NewMatFromBackend(b.n, vh), nil
}

// Close releases the trainer.
func (b *BOWKMeansTrainer) Close() error { return b.o.Close() }
