package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
)

const numberSuffixLength = 6

// NumberGenerator produces the human-facing ticket number.
type NumberGenerator interface {
	Generate(ctx context.Context, now time.Time) (string, error)
}

// RandomNumberGenerator builds "TT-YYYYMMDD-XXXXXX" numbers from the business
// date and a random base62 suffix. Uniqueness is enforced by the store; a
// collision surfaces as a duplicate error and the caller retries.
type RandomNumberGenerator struct{}

func NewRandomNumberGenerator() *RandomNumberGenerator {
	return &RandomNumberGenerator{}
}

func (g *RandomNumberGenerator) Generate(_ context.Context, now time.Time) (string, error) {
	suffix, err := id.Generate(numberSuffixLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TT-%s-%s", biztime.DateKey(now), suffix), nil
}
