package fractal

import "testing"

func TestLedgerTransferClearsOpposingDebtFirst(t *testing.T) {
	l := newLedger()
	l.transfer(1, 2, 10)
	if got := l.get(1, 2); got != 10 {
		t.Fatalf("expected loan of 10 from 1->2, got %v", got)
	}

	// Transferring back from 2->1 should first clear the opposing debt
	// rather than create a simultaneous loan in both directions.
	l.transfer(2, 1, 4)
	if got := l.get(1, 2); got != 6 {
		t.Errorf("expected remaining 1->2 loan of 6, got %v", got)
	}
	if got := l.get(2, 1); got != 0 {
		t.Errorf("expected no loan the other way while 1->2 still owed, got %v", got)
	}
}

func TestLedgerTransferOverpayingFlipsDirection(t *testing.T) {
	l := newLedger()
	l.transfer(1, 2, 10)
	l.transfer(2, 1, 15)

	if got := l.get(1, 2); got != 0 {
		t.Errorf("expected 1->2 loan cleared, got %v", got)
	}
	if got := l.get(2, 1); got != 5 {
		t.Errorf("expected leftover 2->1 loan of 5, got %v", got)
	}
}

func TestLedgerSettleClears(t *testing.T) {
	l := newLedger()
	l.transfer(1, 2, 10)
	amt := l.settle(1, 2)
	if amt != 10 {
		t.Errorf("settle should return the cleared amount, got %v", amt)
	}
	if got := l.get(1, 2); got != 0 {
		t.Errorf("expected loan cleared after settle, got %v", got)
	}
}

func TestInsertionSortOrdersAscending(t *testing.T) {
	a := []int{5, 3, 4, 1, 2}
	insertionSort(a, func(i, j int) bool { return a[i] < a[j] })
	want := []int{1, 2, 3, 4, 5}
	for i := range want {
		if a[i] != want[i] {
			t.Fatalf("insertionSort: got %v, want %v", a, want)
		}
	}
}

func TestMod4Wraps(t *testing.T) {
	cases := map[int]int{0: 0, 3: 3, 4: 0, -1: 3, -4: 0, 7: 3}
	for in, want := range cases {
		if got := mod4(in); got != want {
			t.Errorf("mod4(%d) = %d, want %d", in, got, want)
		}
	}
}
