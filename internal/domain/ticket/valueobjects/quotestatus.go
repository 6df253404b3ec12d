package valueobjects

type QuoteStatus string

const (
	QuotePending   QuoteStatus = "PENDING"
	QuoteSubmitted QuoteStatus = "SUBMITTED"
	QuoteAwarded   QuoteStatus = "AWARDED"
	QuoteDeclined  QuoteStatus = "DECLINED"
)

func (qs QuoteStatus) String() string {
	return string(qs)
}

func (qs QuoteStatus) IsValid() bool {
	switch qs {
	case QuotePending, QuoteSubmitted, QuoteAwarded, QuoteDeclined:
		return true
	}
	return false
}

// IsOpen reports quote requests a contractor may still answer.
func (qs QuoteStatus) IsOpen() bool {
	return qs == QuotePending || qs == QuoteSubmitted
}
