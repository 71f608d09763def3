package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

// stageSpinner shows which pipeline stage is running and for how long. It
// draws on one terminal line and goes quiet when its context ends.
type stageSpinner struct {
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	began   time.Time
	started bool

	mu    sync.Mutex
	label string
	drawn int
}

func newStageSpinner(ctx context.Context, label string, w io.Writer) *stageSpinner {
	sctx, cancel := context.WithCancel(ctx)
	return &stageSpinner{
		w:       w,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		label:   label,
	}
}

// startStageSpinner animates label on stderr until stop is called or ctx
// ends.
func startStageSpinner(ctx context.Context, label string) *stageSpinner {
	s := newStageSpinner(ctx, label, os.Stderr)
	s.start()
	return s
}

func (s *stageSpinner) start() {
	s.began = time.Now()
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *stageSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := fmt.Sprintf("%s %.1fs", s.label, time.Since(s.began).Seconds())
	s.drawn = max(s.drawn, len(text)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), styleDim.Render(text))
}

func (s *stageSpinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
	}
}

// setLabel replaces the text next to the spinner, e.g. the batch position.
func (s *stageSpinner) setLabel(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// stop clears the line and returns how long the spinner ran. It is safe to
// call more than once.
func (s *stageSpinner) stop() time.Duration {
	s.cancel()
	if !s.started {
		return 0
	}
	<-s.stopped
	return time.Since(s.began)
}

func (s *stageSpinner) cancelled() bool {
	return s.ctx.Err() != nil
}
