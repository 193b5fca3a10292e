package bridge

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/CrimsonAS/qmvvm/commands"
	"github.com/CrimsonAS/qmvvm/internal/observability"
	"github.com/CrimsonAS/qmvvm/model"
)

// ErrClosed is returned by Run and Process after Close.
var ErrClosed = errors.New("bridge closed")

var errMissingItem = errors.New("request names no item")

type Bridge struct {
	service *commands.Service
	model   *model.SessionModel

	in  io.ReadCloser
	out io.WriteCloser

	errMu sync.Mutex
	err   error

	started       bool
	resetting     bool
	processSignal chan struct{}
	queue         chan []byte
}

// NewBridge creates a bridge from an open stream. Run() or Process() must
// be called to start processing data.
func NewBridge(service *commands.Service, data io.ReadWriteCloser) *Bridge {
	return NewBridgeSplit(service, data, data)
}

// NewBridgeSplit is equivalent to NewBridge, except that it uses separate
// streams for reading and writing. This is useful for certain kinds of pipe
// or when using stdin and stdout.
func NewBridgeSplit(service *commands.Service, in io.ReadCloser, out io.WriteCloser) *Bridge {
	return &Bridge{
		service:       service,
		model:         service.Model(),
		in:            in,
		out:           out,
		processSignal: make(chan struct{}, 2),
		queue:         make(chan []byte, 128),
	}
}

func (b *Bridge) Err() error {
	b.errMu.Lock()
	defer b.errMu.Unlock()
	return b.err
}

func (b *Bridge) fatal(fmsg string, p ...interface{}) {
	err := fmt.Errorf(fmsg, p...)
	if b.stop(err) {
		observability.Component("bridge").Error("FATAL: " + err.Error())
	}
}

// stop records the first error and closes both streams.
func (b *Bridge) stop(err error) bool {
	b.errMu.Lock()
	first := b.err == nil
	if first {
		b.err = err
	}
	b.errMu.Unlock()

	if first {
		b.in.Close()
		b.out.Close()
	}
	return first
}

func (b *Bridge) warn(fmsg string, p ...interface{}) {
	observability.Component("bridge").Warn(fmt.Sprintf(fmsg, p...))
}

func (b *Bridge) sendMessage(msg interface{}) {
	if b.Err() != nil {
		return
	}
	buf, err := json.Marshal(msg)
	if err != nil {
		b.fatal("message encoding failed: %s", err)
		return
	}
	if err := writeFrame(b.out, buf); err != nil {
		b.fatal("write error: %s", err)
	}
}

// handle() runs in an internal goroutine to read from 'in'. Messages are
// posted to the queue and processSignal is triggered.
func (b *Bridge) handle() {
	defer close(b.processSignal)
	defer close(b.queue)

	rd := bufio.NewReader(b.in)
	for b.Err() == nil {
		blob, err := readFrame(rd)
		if err != nil {
			b.fatal("read error: %s", err)
			return
		}

		// Queue and signal
		b.queue <- blob
		b.processSignal <- struct{}{}
	}
}

// ensureHandler subscribes to the model, announces it and starts reading.
// It runs on the caller's goroutine, like every write to 'out'.
func (b *Bridge) ensureHandler() {
	if b.started {
		return
	}
	b.started = true

	b.subscribe()
	b.sendMessage(versionMessage{messageBase{"VERSION"}, ProtocolVersion})
	b.sendModelReset()
	b.sendStackChanged(b.service.Stack())

	go b.handle()
}

func (b *Bridge) Started() bool {
	return b.started
}

// Run processes messages until the connection is closed. Be aware that when
// using Run, the model may be edited by the frontend at any time. For better
// control over concurrency, see Process.
//
// Run is equivalent to a loop of Process and ProcessSignal.
func (b *Bridge) Run() error {
	b.ensureHandler()
	for {
		if _, open := <-b.processSignal; !open {
			return b.Err()
		}
		if err := b.Process(); err != nil {
			return err
		}
	}
}

// Process handles any pending messages, but does not block to wait for new
// messages. ProcessSignal signals when there are messages to process.
//
// The model is never accessed except during calls to Process. Process
// returns nil when no messages are pending. All errors are fatal for the
// connection; failed edits are not errors, they are reported to the
// frontend.
func (b *Bridge) Process() error {
	b.ensureHandler()

	for {
		var data []byte
		select {
		case data = <-b.queue:
		default:
			return b.Err()
		}
		if data == nil {
			// queue closed
			return b.Err()
		}

		var req request
		if err := json.Unmarshal(data, &req); err != nil {
			b.fatal("process invalid message: %s", err)
			// once queue is closed, the error from fatal will be returned
			continue
		}

		if err := b.apply(&req); err != nil {
			if errors.Is(err, errUnknownCommand) {
				b.fatal("unknown command %s", req.Command)
				continue
			}
			b.warn("%s failed: %s", req.Command, err)
			b.sendMessage(errorMessage{messageBase{"ERROR"}, req.ID, req.Command, err.Error()})
		}
	}
}

func (b *Bridge) ProcessSignal() <-chan struct{} {
	b.ensureHandler()
	return b.processSignal
}

// Close stops the connection and detaches from the model. It must be called
// on the goroutine that owns the model.
func (b *Bridge) Close() error {
	b.stop(ErrClosed)
	b.unsubscribe()
	if err := b.Err(); err != ErrClosed {
		return err
	}
	return nil
}
