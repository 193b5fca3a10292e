package bridge

import "sync"

type channelLocker struct {
	L chan struct{}
	U chan struct{}
}

func newChannelLocker() *channelLocker {
	return &channelLocker{
		L: make(chan struct{}),
		U: make(chan struct{}),
	}
}

func (cl *channelLocker) Lock() {
	cl.L <- struct{}{}
}

func (cl *channelLocker) Unlock() {
	cl.U <- struct{}{}
}

// RunLockable executes Run() in a separate goroutine and returns a
// sync.Locker, which can be used for mutually exclusive execution with
// Process(). Locking guarantees that Process() is not and will not run
// until unlocked.
//
// The lock guards the bridge's session model and the service's command
// stack, which frontend requests mutate inside Process. Hold it for every
// edit, undo or macro made from another goroutine; the change frames those
// edits produce are written while it is held.
//
// RunLockable also returns a channel, which will receive one error value
// and close when the bridge stops.
func (b *Bridge) RunLockable() (sync.Locker, <-chan error) {
	lock := newChannelLocker()
	errChannel := make(chan error, 1)

	b.ensureHandler()
	go func() {
		defer close(errChannel)
		for {
			select {
			case _, open := <-b.processSignal:
				if !open {
					errChannel <- b.Err()
					return
				} else if err := b.Process(); err != nil {
					errChannel <- err
					return
				}
			case <-lock.L:
				<-lock.U
			}
		}
	}()

	return lock, errChannel
}
