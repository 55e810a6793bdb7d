package ledger

// ControlExtension forces the next transaction to be rejected
type ControlExtension struct {
	reason *string
}

func NewControlExtension() *ControlExtension {
	return &ControlExtension{}
}

// RejectNext arms a one shot rejection carrying reason
func (c *ControlExtension) RejectNext(reason string) {
	c.reason = &reason
}

// Armed reports whether a rejection is pending
func (c *ControlExtension) Armed() bool {
	return c.reason != nil
}

// Take disarms the pending rejection and returns its reason
func (c *ControlExtension) Take() (string, bool) {
	if c.reason == nil {
		return "", false
	}

	reason := *c.reason
	c.reason = nil

	return reason, true
}
