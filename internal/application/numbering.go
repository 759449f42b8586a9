package application

import (
	"context"
	"fmt"
	"time"
)

// Number prefixes per entity kind.
const (
	NumberPrefixRequest    = "RRF"
	NumberPrefixCandidate  = "CAN"
	NumberPrefixInterview  = "INT"
	NumberPrefixEvaluation = "EVL"
)

// NumberCounter reports how many persisted identifiers start with a prefix.
type NumberCounter func(ctx context.Context, prefix string) (int, error)

// nextNumber produces the next human-readable identifier for one entity kind:
// {PREFIX}-{YYYYMMDD}-{NNNN}, sequenced per day by counting existing numbers.
// Count-then-insert is not atomic under concurrent writers; the UNIQUE
// constraint on the number column is the store-level backstop.
func nextNumber(ctx context.Context, counter NumberCounter, prefix string, now time.Time) (string, error) {
	dayPrefix := fmt.Sprintf("%s-%s-", prefix, now.UTC().Format("20060102"))
	count, err := counter(ctx, dayPrefix)
	if err != nil {
		return "", fmt.Errorf("count %s numbers: %w", prefix, err)
	}
	return fmt.Sprintf("%s%04d", dayPrefix, count+1), nil
}
