package audio

// gate runs a slow device open in the background and reports, without
// blocking, whether it has finished successfully.
type gate struct {
	ready chan struct{}
	err   error
}

func newGate(open func() error) *gate {
	g := &gate{ready: make(chan struct{})}
	go func() {
		g.err = open()
		close(g.ready)
	}()
	return g
}

// available is false while open is running and after it failed.
func (g *gate) available() (ok bool, err error) {
	select {
	case <-g.ready:
		return g.err == nil, g.err
	default:
		return false, nil
	}
}

// wait blocks until open has returned.
func (g *gate) wait() error {
	<-g.ready
	return g.err
}
