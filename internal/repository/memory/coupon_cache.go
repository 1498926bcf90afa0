package memory

import (
	"time"

	"learnhub-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const activeCouponsKey = "coupons:active"

// CouponCache keeps the public active coupon list for a short time.
type CouponCache struct {
	cache *cache.Cache
}

func NewCouponCache(ttl time.Duration) *CouponCache {
	return &CouponCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CouponCache) GetActive() ([]*entity.CourseCoupon, bool) {
	if x, found := c.cache.Get(activeCouponsKey); found {
		return x.([]*entity.CourseCoupon), true
	}
	return nil, false
}

func (c *CouponCache) SetActive(coupons []*entity.CourseCoupon) {
	c.cache.Set(activeCouponsKey, coupons, cache.DefaultExpiration)
}

// Invalidate must be called after any coupon write.
func (c *CouponCache) Invalidate() {
	c.cache.Delete(activeCouponsKey)
}
