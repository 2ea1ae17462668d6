package progression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpgradeBuy_FloorsCostAndAddsValue(t *testing.T) {
	u := Upgrade{Value: 1, Cost: 5, CostGrowth: 1.2}
	u.Buy(2.5)

	assert.Equal(t, 3.5, u.Value)
	assert.Equal(t, int64(6), u.Cost)

	u.Buy(1)
	assert.Equal(t, int64(7), u.Cost) // floor(7.2)
}

func TestUpgradeBuy_CostNeverDecreases(t *testing.T) {
	for _, growth := range []float64{1, 1.01, 1.15, 1.2, 1.5, 2} {
		u := Upgrade{Cost: 1, CostGrowth: growth}
		prev := u.Cost
		for i := 0; i < 200; i++ {
			u.Buy(1)
			assert.GreaterOrEqual(t, u.Cost, prev, "growth %v purchase %d", growth, i)
			prev = u.Cost
		}
	}
}

func TestUpgradeBuy_ExactProductsDoNotLoseACoin(t *testing.T) {
	// 100 * 1.15 is 114.99999999999999 in float64
	u := Upgrade{Cost: 100, CostGrowth: 1.15}
	u.Buy(0)
	assert.Equal(t, int64(115), u.Cost)
}

func TestUpgradeBuy_SaturatesAtMaxPrice(t *testing.T) {
	u := Upgrade{Cost: math.MaxInt64 / 2, CostGrowth: 10}
	u.Buy(1)
	assert.Equal(t, int64(math.MaxInt64), u.Cost)
}

func TestUpgradeScale_NeverBelowOne(t *testing.T) {
	u := Upgrade{Cost: 1, CostGrowth: 1.2}
	u.Scale(0.5)
	assert.Equal(t, int64(1), u.Cost)

	u = Upgrade{Cost: 100, CostGrowth: 1.2}
	u.Scale(0.95)
	assert.Equal(t, int64(95), u.Cost)
}

func TestTruncReward(t *testing.T) {
	assert.Equal(t, int64(3), truncReward(3.99))
	assert.Equal(t, int64(0), truncReward(-1))
	assert.Equal(t, int64(math.MaxInt64), truncReward(1e300))
}
