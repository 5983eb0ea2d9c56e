package classify

import "testing"

func TestTokenBucketExhaustion(t *testing.T) {
	tb := NewTokenBucket(3)
	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Fatalf("call %d denied with tokens remaining", i+1)
		}
	}
	// at 3 tokens/hour the lazy refill cannot restore a token this fast
	if tb.Allow() {
		t.Error("call allowed after bucket exhausted")
	}
}
