package shpsched

import "testing"

func TestIntervalSetPlaceFindsFirstGap(t *testing.T) {
	s := newIntervalSet()
	s.insertFixed(0, 100)   // [0,100)
	s.insertFixed(200, 250) // [200,450)

	start, ok := s.place(0, 1000, 50)
	if !ok {
		t.Fatal("expected placement to succeed")
	}
	if start != 100 {
		t.Fatalf("want 100, got %d", start)
	}
}

func TestIntervalSetPlaceSkipsMultipleObstacles(t *testing.T) {
	s := newIntervalSet()
	s.insertFixed(0, 100)
	s.insertFixed(100, 50) // [100,150), abuts the first interval

	start, ok := s.place(0, 1000, 10)
	if !ok {
		t.Fatal("expected placement to succeed")
	}
	if start != 150 {
		t.Fatalf("want 150, got %d", start)
	}
}

func TestIntervalSetPlaceFailsWhenNoRoom(t *testing.T) {
	s := newIntervalSet()
	s.insertFixed(0, 100)

	_, ok := s.place(0, 50, 60)
	if ok {
		t.Fatal("expected placement to fail: window too narrow")
	}
}

func TestIntervalSetPlaceRespectsMinStart(t *testing.T) {
	s := newIntervalSet()
	start, ok := s.place(500, 1000, 10)
	if !ok || start != 500 {
		t.Fatalf("want 500,true got %d,%v", start, ok)
	}
}
