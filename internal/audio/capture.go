package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// Capture streams fixed-size PCM chunks from one selected Pulse source.
type Capture struct {
	device Device

	client *pulse.Client
	stream *pulse.RecordStream

	chunkBytes int
	chunks     chan []byte

	mu       sync.Mutex
	pending  []byte
	stopped  bool
	inflight sync.WaitGroup

	stopCh chan struct{}
	bytes  atomic.Int64
}

// chunkBytesFor sizes capture chunks to 20ms of mono s16 audio.
func chunkBytesFor(sampleRate int) int {
	return sampleRate * 2 / 50
}

// StartCapture creates and starts a mono s16 record stream at the given
// sample rate.
func StartCapture(ctx context.Context, selected Device, sampleRate int) (*Capture, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate %d is invalid", sampleRate)
	}

	client, err := connectPulse()
	if err != nil {
		return nil, err
	}

	capture := &Capture{
		device:     selected,
		client:     client,
		chunkBytes: chunkBytesFor(sampleRate),
		chunks:     make(chan []byte, 128),
		stopCh:     make(chan struct{}),
	}

	source, err := client.SourceByID(selected.ID)
	if err != nil {
		return nil, capture.abort(fmt.Errorf("resolve source %q: %w", selected.ID, err))
	}

	stream, err := client.NewRecord(
		pulse.NewWriter(writerFunc(capture.onPCM), pulseproto.FormatInt16LE),
		pulse.RecordSource(source),
		pulse.RecordMediaName("serenade dictation"),
		pulse.RecordMono,
		pulse.RecordSampleRate(sampleRate),
		pulse.RecordBufferFragmentSize(uint32(capture.chunkBytes)),
	)
	if err != nil {
		return nil, capture.abort(fmt.Errorf("create pulse record stream: %w", err))
	}
	capture.stream = stream
	stream.Start()
	go capture.stopWhenDone(ctx)

	return capture, nil
}

// abort tears down a partially built capture and passes err through.
func (c *Capture) abort(err error) error {
	c.Close()
	return err
}

// stopWhenDone ends the capture when the listen context is canceled.
func (c *Capture) stopWhenDone(ctx context.Context) {
	<-ctx.Done()
	_ = c.Stop()
}

// Device reports which source this capture is reading.
func (c *Capture) Device() Device { return c.device }

// Chunks is the stream of fixed-size PCM slices.
func (c *Capture) Chunks() <-chan []byte { return c.chunks }

// BytesCaptured is the running count of bytes accepted from Pulse.
func (c *Capture) BytesCaptured() int64 { return c.bytes.Load() }

// Stop halts the stream, flushes residual PCM, and closes Chunks exactly
// once.
func (c *Capture) Stop() error {
	if !c.signalStop() {
		return nil
	}
	c.teardown()

	c.inflight.Wait()
	c.flushPending()
	close(c.chunks)
	return nil
}

// teardown releases the Pulse stream and client, tolerating a capture
// that never finished starting. Runs at most once, guarded by signalStop.
func (c *Capture) teardown() {
	if c.stream != nil {
		c.stream.Stop()
		c.stream.Close()
		c.stream = nil
	}
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// Close makes Capture usable with defer; it discards Stop's error.
func (c *Capture) Close() { _ = c.Stop() }

// signalStop flips the stopped flag and closes stopCh; it reports whether
// this call won the flip.
func (c *Capture) signalStop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return false
	}
	c.stopped = true
	close(c.stopCh)
	return true
}

func (c *Capture) stopRequested() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

// flushPending emits the sub-chunk tail left behind at stop time. The send
// must not block a shutdown, so a full consumer drops the tail.
func (c *Capture) flushPending() {
	c.mu.Lock()
	tail := c.pending
	c.pending = nil
	c.mu.Unlock()

	if len(tail) == 0 {
		return
	}
	select {
	case c.chunks <- tail:
	default:
	}
}

// onPCM receives raw Pulse frames and emits chunkBytes-sized slices to
// c.chunks.
func (c *Capture) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}
	if c.stopRequested() {
		return 0, io.EOF
	}

	ready, err := c.bufferPCM(buffer)
	if err != nil {
		return 0, err
	}
	defer c.inflight.Done()

	for _, chunk := range ready {
		select {
		case c.chunks <- chunk:
		case <-c.stopCh:
			return 0, io.EOF
		}
	}
	return len(buffer), nil
}

// bufferPCM appends a frame to the pending tail, counts it, and cuts full
// chunks. On success it holds an inflight count, taken under the same
// mutex as the stopped flag so Stop cannot race the WaitGroup.
func (c *Capture) bufferPCM(pcm []byte) ([][]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil, io.EOF
	}
	c.inflight.Add(1)
	c.bytes.Add(int64(len(pcm)))

	c.pending = append(c.pending, pcm...)

	ready := make([][]byte, 0, len(c.pending)/c.chunkBytes)
	for len(c.pending) >= c.chunkBytes {
		chunk := make([]byte, c.chunkBytes)
		copy(chunk, c.pending[:c.chunkBytes])
		c.pending = c.pending[c.chunkBytes:]
		ready = append(ready, chunk)
	}
	return ready, nil
}

// writerFunc adapts an ordinary function to the io.Writer pulse.NewWriter
// wants.
type writerFunc func([]byte) (int, error)

func (fn writerFunc) Write(p []byte) (int, error) {
	return fn(p)
}
