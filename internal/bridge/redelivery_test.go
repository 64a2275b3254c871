package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedeliveryDelay(t *testing.T) {
	tests := []struct {
		deliveries uint64
		want       time.Duration
	}{
		{0, 2 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{5, 32 * time.Second},
		{6, time.Minute},
		{100, time.Minute},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, redeliveryDelay(tt.deliveries), "deliveries=%d", tt.deliveries)
	}
}
