package hotkey

import (
	"sync"

	"golang.design/x/hotkey"

	"github.com/Iron-Ham/shortcuts/internal/logging"
)

// Listener owns one registered hotkey and the goroutine waiting on it.
type Listener struct {
	accel  Accelerator
	hk     *hotkey.Hotkey
	logger *logging.Logger

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// Listen registers accel system-wide and calls onPress on a background
// goroutine each time it is pressed. onPress must hand UI work back to the
// UI thread itself.
func Listen(accel string, onPress func(), logger *logging.Logger) (*Listener, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	a, err := Parse(accel)
	if err != nil {
		return nil, err
	}

	hk := hotkey.New(a.Mods, a.Key)
	if err := hk.Register(); err != nil {
		return nil, err
	}

	l := &Listener{
		accel:  a,
		hk:     hk,
		logger: logger.WithComponent("hotkey"),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	l.logger.Info("hotkey registered", "accelerator", a.Text)
	go l.loop(onPress)
	return l, nil
}

// Accelerator returns the registered combination.
func (l *Listener) Accelerator() Accelerator { return l.accel }

func (l *Listener) loop(onPress func()) {
	defer close(l.doneCh)
	for {
		select {
		case <-l.stopCh:
			return
		case _, ok := <-l.hk.Keydown():
			if !ok {
				return
			}
			l.logger.Debug("hotkey pressed", "accelerator", l.accel.Text)
			if onPress != nil {
				onPress()
			}
		}
	}
}

// Stop unregisters the hotkey and waits for the listener goroutine.
func (l *Listener) Stop() error {
	var err error
	l.stopOnce.Do(func() {
		close(l.stopCh)
		<-l.doneCh
		err = l.hk.Unregister()
		l.logger.Info("hotkey unregistered", "accelerator", l.accel.Text)
	})
	return err
}
