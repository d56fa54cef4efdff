package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionDelta(t *testing.T) {
	tests := []struct {
		name      string
		from      PurchaseStatus
		to        PurchaseStatus
		wantDelta int
		wantErr   bool
	}{
		{"receive pending order credits stock", PurchasePending, PurchaseReceived, 40, false},
		{"cancel pending order leaves stock alone", PurchasePending, PurchaseCancelled, 0, false},
		{"cancel received order debits stock", PurchaseReceived, PurchaseCancelled, -40, false},
		{"received back to pending", PurchaseReceived, PurchasePending, 0, true},
		{"cancelled is terminal", PurchaseCancelled, PurchasePending, 0, true},
		{"cancelled cannot be received", PurchaseCancelled, PurchaseReceived, 0, true},
		{"no self transition", PurchasePending, PurchasePending, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Purchase{Quantity: 40, Status: tt.from}

			delta, err := p.TransitionDelta(tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDelta, delta)
		})
	}
}
