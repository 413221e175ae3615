package cloud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pointreg/lum/cloud"
)

func TestPoint3Add(t *testing.T) {
	a := cloud.Point3{X: 1, Y: 2, Z: 3}
	b := cloud.Point3{X: 10, Y: 20, Z: 30}
	assert.Equal(t, cloud.Point3{X: 11, Y: 22, Z: 33}, a.Add(b))
}

func TestPoint3Sub(t *testing.T) {
	a := cloud.Point3{X: 10, Y: 20, Z: 30}
	b := cloud.Point3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, cloud.Point3{X: 9, Y: 18, Z: 27}, a.Sub(b))
}

func TestPoint3Scale(t *testing.T) {
	p := cloud.Point3{X: 1, Y: -2, Z: 3}
	assert.Equal(t, cloud.Point3{X: 2, Y: -4, Z: 6}, p.Scale(2))
}

func TestCloudCloneIsIndependentCopy(t *testing.T) {
	c := cloud.Cloud{{X: 1, Y: 1, Z: 1}}
	clone := c.Clone()
	clone[0].X = 99
	assert.Equal(t, 1.0, c[0].X)
	assert.Equal(t, 99.0, clone[0].X)
}

func TestCloudCloneSameLength(t *testing.T) {
	c := cloud.Cloud{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 2}}
	assert.Len(t, c.Clone(), len(c))
}
