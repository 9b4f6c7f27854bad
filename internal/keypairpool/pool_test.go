package keypairpool

import "testing"

func TestPregenerateProducesValidKeypairs(t *testing.T) {
	pool := New(500)
	if err := Pregenerate(pool, 500, 4); err != nil {
		t.Fatalf("Pregenerate: %v", err)
	}

	seen := 0
	for i := 0; i < 500; i++ {
		kp, ok := pool.Next()
		if !ok {
			t.Fatalf("Next() returned ok=false before pool exhausted")
		}
		if kp.PubKey[0] != 0x04 {
			t.Fatalf("pubkey[0] = 0x%02x, want 0x04", kp.PubKey[0])
		}
		var zero [32]byte
		if kp.PrivKey == zero {
			t.Fatalf("private key is all-zero")
		}
		seen++
	}
	if seen != 500 {
		t.Fatalf("saw %d keypairs, want 500", seen)
	}
}

func TestNextWrapsAroundCursor(t *testing.T) {
	pool := New(3)
	if err := Pregenerate(pool, 3, 1); err != nil {
		t.Fatalf("Pregenerate: %v", err)
	}

	first, ok := pool.Next()
	if !ok {
		t.Fatalf("Next() ok=false")
	}
	for i := 0; i < 2; i++ {
		if _, ok := pool.Next(); !ok {
			t.Fatalf("Next() ok=false")
		}
	}
	wrapped, ok := pool.Next()
	if !ok {
		t.Fatalf("Next() ok=false on wraparound")
	}
	if wrapped != first {
		t.Fatalf("cursor did not wrap: first=%+v wrapped=%+v", first, wrapped)
	}
}

func TestNextOnEmptyPool(t *testing.T) {
	pool := New(0)
	if _, ok := pool.Next(); ok {
		t.Fatalf("Next() on empty pool returned ok=true")
	}
}

func TestPregenerateClampsToCapacity(t *testing.T) {
	pool := New(10)
	if err := Pregenerate(pool, 1000, 2); err != nil {
		t.Fatalf("Pregenerate: %v", err)
	}
	if pool.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", pool.Len())
	}
}
