package subscription

import (
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

func errInvalidTransition(from, to string) error {
	return errors.NewInvalidTransitionError("invalid subscription transition", from+" -> "+to)
}

// ErrNotRenewable is returned when a payment arrives for a cancelled subscription.
var ErrNotRenewable = errors.NewInvalidTransitionError("subscription is cancelled and cannot be renewed")
