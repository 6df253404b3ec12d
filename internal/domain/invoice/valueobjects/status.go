package valueobjects

type InvoiceStatus string

const (
	StatusPending    InvoiceStatus = "PENDING"
	StatusApproved   InvoiceStatus = "APPROVED"
	StatusRejected   InvoiceStatus = "REJECTED"
	StatusProcessing InvoiceStatus = "PROCESSING"
	StatusPaid       InvoiceStatus = "PAID"
	StatusCancelled  InvoiceStatus = "CANCELLED"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	StatusPending:    {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusProcessing, StatusPaid, StatusCancelled},
	StatusProcessing: {StatusPaid},
}

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusProcessing, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, next := range invoiceTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// BlocksResubmission reports whether an active invoice in this status keeps
// the contractor from submitting another one for the same ticket.
func (s InvoiceStatus) BlocksResubmission() bool {
	return s != StatusRejected
}
