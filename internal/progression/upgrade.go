package progression

import "math"

// priceEpsilon absorbs float error in cost*growth so 100*1.15 prices at 115, not 114.
const priceEpsilon = 1e-9

// Upgrade is a purchasable numeric track.
type Upgrade struct {
	Value      float64 `json:"value"`
	Cost       int64   `json:"cost"`
	CostGrowth float64 `json:"cost_growth"`
}

// Buy adds amount to the value and grows the price to floor(cost * growth).
func (u *Upgrade) Buy(amount float64) {
	u.Value += amount
	u.Cost = truncPrice(float64(u.Cost) * u.CostGrowth)
}

// Scale multiplies the current price by factor. Prices never drop below 1.
func (u *Upgrade) Scale(factor float64) {
	c := truncPrice(float64(u.Cost) * factor)
	if c < 1 {
		c = 1
	}
	u.Cost = c
}

// truncPrice is the single float -> currency conversion for prices.
func truncPrice(p float64) int64 {
	if p >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(p + priceEpsilon))
}

// truncReward is the float -> currency conversion for kill rewards.
func truncReward(r float64) int64 {
	if r >= math.MaxInt64 {
		return math.MaxInt64
	}
	if r < 0 {
		return 0
	}
	return int64(r)
}
