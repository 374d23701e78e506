package checksum

import "testing"

func TestSumStable(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	if a != b {
		t.Fatal("digest not deterministic")
	}
	if a == Sum([]byte("world")) {
		t.Fatal("distinct inputs collided")
	}
	if len(a) != 64 {
		t.Fatalf("digest length = %d", len(a))
	}
}

func TestCombineOrderIndependent(t *testing.T) {
	x := Combine([]string{"aa", "bb", "cc"})
	y := Combine([]string{"cc", "aa", "bb"})
	if x != y {
		t.Fatal("combine should ignore input order")
	}
	if x == Combine([]string{"aa", "bb"}) {
		t.Fatal("different sets should differ")
	}
}
