package service

// PricingPolicy decides tax and shipping for a given subtotal. The deployed
// default charges neither; swap in a real policy per market when one exists.
type PricingPolicy interface {
	Quote(subtotal float64) (tax, shippingFee float64)
}

type ZeroPricing struct{}

func (ZeroPricing) Quote(float64) (float64, float64) { return 0, 0 }
