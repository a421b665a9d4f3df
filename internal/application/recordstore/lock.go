package recordstore

import (
	"context"
	"time"
)

// requestLock exclusión mutua por petición con espera acotada.
type requestLock struct {
	ch chan struct{}
}

func newRequestLock() *requestLock {
	return &requestLock{ch: make(chan struct{}, 1)}
}

// tryLock espera hasta wait por el lock. Devuelve false si venció la espera
// o se canceló ctx; en ese caso no hay nada que liberar.
func (l *requestLock) tryLock(ctx context.Context, wait time.Duration) bool {
	select {
	case l.ch <- struct{}{}:
		return true
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case l.ch <- struct{}{}:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func (l *requestLock) unlock() { <-l.ch }
