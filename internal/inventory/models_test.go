package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int {
	return &v
}

func TestBucketAvailable(t *testing.T) {
	b := AllocationBucket{Quantity: intPtr(10), Booked: 3, Held: 2}
	assert.Equal(t, 5, b.Available())
}

func TestBucketAvailableFreesale(t *testing.T) {
	b := AllocationBucket{Quantity: nil, Booked: 500, Held: 500}
	assert.Equal(t, UnlimitedAvailable, b.Available())
}

func TestBucketAvailableSellFlags(t *testing.T) {
	stopped := AllocationBucket{Quantity: intPtr(10), StopSell: true}
	assert.Equal(t, 0, stopped.Available())

	blacked := AllocationBucket{Quantity: nil, Blackout: true}
	assert.Equal(t, 0, blacked.Available())
}

func TestBucketAvailableNeverNegative(t *testing.T) {
	b := AllocationBucket{Quantity: intPtr(5), Booked: 4, Held: 3}
	assert.Equal(t, 0, b.Available())
}

func TestBucketAvailableFullyBooked(t *testing.T) {
	b := AllocationBucket{Quantity: intPtr(10), Booked: 10}
	assert.Equal(t, 0, b.Available())
}
