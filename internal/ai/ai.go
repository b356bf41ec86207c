package ai

import "context"

// Enhancer tidies bookmark titles before they become file names. It must
// return one title per input, in order; implementations fall back to the
// input when they cannot do better.
type Enhancer interface {
	NormalizeTitles(ctx context.Context, titles []string) ([]string, error)
}

type Noop struct{}

func (Noop) NormalizeTitles(ctx context.Context, titles []string) ([]string, error) {
	return titles, nil
}
