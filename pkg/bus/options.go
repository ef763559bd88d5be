package bus

// subscribeConfig collects per-subscription settings.
type subscribeConfig struct {
	priority int
	once     bool
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeConfig)

// WithPriority sets the dispatch priority. Higher priorities dispatch first;
// the default is 0. Equal priorities dispatch in subscription order.
func WithPriority(p int) SubscribeOption {
	return func(c *subscribeConfig) {
		c.priority = p
	}
}

// Once marks the subscription for removal after its first invocation.
func Once() SubscribeOption {
	return func(c *subscribeConfig) {
		c.once = true
	}
}
