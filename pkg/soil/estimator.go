package soil

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/patrickmn/go-cache"
	"gonum.org/v1/gonum/stat/distuv"

	"eaadss/pkg/geo"
)

// Estimate is the spatial model output for one coordinate.
type Estimate struct {
	SOM     float64 `json:"som_pct"`
	DepthCM int     `json:"depth_cm"`
}

// Estimator predicts soil attributes at a coordinate.
type Estimator interface {
	Predict(lat, lon float64) Estimate
}

type depthClass struct {
	name     string
	weight   float64
	min, max int // [min, max)
}

var depthClasses = []depthClass{
	{name: "shallow", weight: 0.4, min: 15, max: 30},
	{name: "adequate", weight: 0.5, min: 30, max: 101},
	{name: "deep", weight: 0.1, min: 101, max: 151},
}

const (
	somMin = 25.0
	somMax = 85.0
)

type spatialModel struct{}

// NewSpatialModel returns the coordinate seeded soil model. The same
// coordinate always yields the same estimate.
func NewSpatialModel() Estimator { return spatialModel{} }

func (spatialModel) Predict(lat, lon float64) Estimate {
	src := rand.NewPCG(Seed(lat, lon), 0)

	som := distuv.Uniform{Min: somMin, Max: somMax, Src: src}.Rand()

	weights := make([]float64, len(depthClasses))
	for i, c := range depthClasses {
		weights[i] = c.weight
	}
	cls := depthClasses[int(distuv.NewCategorical(weights, src).Rand())]
	depth := cls.min + rand.New(src).IntN(cls.max-cls.min)

	return Estimate{SOM: geo.RoundTo(som, 1), DepthCM: depth}
}

// Seed is trunc((lat+lon)*10000) reduced to [0, 2^31).
func Seed(lat, lon float64) uint64 {
	const mod = int64(1) << 31
	s := int64((lat + lon) * 10000) % mod
	if s < 0 {
		s += mod
	}
	return uint64(s)
}

// CachedEstimator memoises predictions per coordinate.
type CachedEstimator struct {
	next  Estimator
	cache *cache.Cache
}

func NewCachedEstimator(next Estimator, ttl time.Duration) *CachedEstimator {
	return &CachedEstimator{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (c *CachedEstimator) Predict(lat, lon float64) Estimate {
	key := fmt.Sprintf("%.7f,%.7f", lat, lon)
	if v, ok := c.cache.Get(key); ok {
		return v.(Estimate)
	}
	est := c.next.Predict(lat, lon)
	c.cache.Set(key, est, cache.DefaultExpiration)
	return est
}

func (c *CachedEstimator) Len() int { return c.cache.ItemCount() }

// DepthClass names the class a depth falls in.
func DepthClass(depth int) string {
	for _, c := range depthClasses {
		if depth >= c.min && depth < c.max {
			return c.name
		}
	}
	if depth < depthClasses[0].min {
		return depthClasses[0].name
	}
	return depthClasses[len(depthClasses)-1].name
}
