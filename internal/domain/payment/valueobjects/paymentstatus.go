package valueobjects

// PaymentStatus moves pending -> success or pending -> failed. A failed
// payment can still be settled by a late success notice; success is final.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

var paymentStatuses = map[PaymentStatus]struct{}{
	PaymentStatusPending: {},
	PaymentStatusSuccess: {},
	PaymentStatusFailed:  {},
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentStatuses[s]
	return ok
}

func (s PaymentStatus) IsSuccess() bool { return s == PaymentStatusSuccess }

func (s PaymentStatus) IsPending() bool { return s == PaymentStatusPending }

// CanSettle reports whether a success notice still changes the payment.
func (s PaymentStatus) CanSettle() bool { return s != PaymentStatusSuccess }

func (s PaymentStatus) String() string { return string(s) }
