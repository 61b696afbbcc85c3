package audio

import (
	"errors"
	"testing"
	"time"
)

func TestGateDoesNotBlockWhileOpening(t *testing.T) {
	release := make(chan struct{})
	g := newGate(func() error {
		<-release
		return nil
	})

	done := make(chan bool, 1)
	go func() {
		ok, _ := g.available()
		done <- ok
	}()
	select {
	case ok := <-done:
		if ok {
			t.Error("gate reported ready before open returned")
		}
	case <-time.After(time.Second):
		t.Fatal("available blocked while the device was opening")
	}

	close(release)
	if err := g.wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if ok, err := g.available(); !ok || err != nil {
		t.Errorf("available = %v, %v after open", ok, err)
	}
}

func TestGateReportsOpenFailure(t *testing.T) {
	boom := errors.New("no device")
	g := newGate(func() error { return boom })
	if err := g.wait(); !errors.Is(err, boom) {
		t.Fatalf("wait = %v", err)
	}
	if ok, err := g.available(); ok || !errors.Is(err, boom) {
		t.Errorf("available = %v, %v", ok, err)
	}
}
