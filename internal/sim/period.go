package sim

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

type Period struct {
	min uint
	max uint
}

func (p *Period) Sleep(ctx context.Context) {
	val := p.min + uint(rand.Intn(int(p.max-p.min+1)))
	select {
	case <-ctx.Done():
		return
	case <-time.After(time.Duration(val) * time.Second):
	}
}

func parsePeriod(str string) (*Period, error) {
	if str == "" {
		return nil, nil
	}

	var min, max uint

	_, err := fmt.Sscanf(str, "random(%d,%d)", &min, &max)
	if err != nil {
		return nil, fmt.Errorf("failed to parse period: %w", err)
	}

	if min > max {
		return nil, fmt.Errorf("min(%d) > max(%d)", min, max)
	}

	return &Period{
		min: min,
		max: max,
	}, nil
}
