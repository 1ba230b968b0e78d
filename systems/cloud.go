package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrBufferLength is returned when a target buffer does not match the cloud.
var ErrBufferLength = errors.New("buffer length mismatch")

// Cloud is the animation state: the live positions being drawn, the target
// they ease toward, and the cumulative rotation of the whole set about +Y.
// Live and Target are flat xyz buffers; index i in one always pairs with
// index i in the other.
type Cloud struct {
	live     []float32
	target   []float32
	scratch  []float32 // effective targets for the current frame
	rotation float64
}

// NewCloud creates a cloud easing toward target, with live positions scattered
// uniformly in a cube of edge scatter centred on the origin.
func NewCloud(target []float32, scatter float64, rng *rand.Rand) (*Cloud, error) {
	if len(target) == 0 || len(target)%3 != 0 {
		return nil, fmt.Errorf("%w: target has %d floats", ErrBufferLength, len(target))
	}

	live := make([]float32, len(target))
	for i := range live {
		live[i] = float32((rng.Float64() - 0.5) * scatter)
	}

	return &Cloud{
		live:    live,
		target:  target,
		scratch: make([]float32, len(target)),
	}, nil
}

// Len returns the number of particles.
func (c *Cloud) Len() int {
	return len(c.live) / 3
}

// Live returns the live position buffer (3 floats per particle).
// Callers outside the frame loop must treat it as read-only.
func (c *Cloud) Live() []float32 {
	return c.live
}

// Target returns the current target buffer.
func (c *Cloud) Target() []float32 {
	return c.target
}

// Rotation returns the cumulative rotation about the vertical axis in radians.
func (c *Cloud) Rotation() float64 {
	return c.rotation
}

// Point returns the live position of particle i.
func (c *Cloud) Point(i int) (x, y, z float32) {
	j := i * 3
	return c.live[j], c.live[j+1], c.live[j+2]
}

// Retarget replaces the target buffer wholesale. Live positions are kept so
// the cloud morphs from wherever it is. The buffer is owned by the cloud
// afterwards and must not be modified by the caller.
func (c *Cloud) Retarget(target []float32) error {
	if len(target) != len(c.live) {
		return fmt.Errorf("%w: got %d floats, want %d", ErrBufferLength, len(target), len(c.live))
	}
	c.target = target
	return nil
}

// MeanRadius returns the mean distance of live particles from the origin.
func (c *Cloud) MeanRadius() float64 {
	n := c.Len()
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		x, y, z := c.Point(i)
		sum += math.Sqrt(float64(x*x + y*y + z*z))
	}
	return sum / float64(n)
}
