package insight

import (
	"context"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"go.uber.org/zap"
)

// Streamer is satisfied by *Client.
type Streamer interface {
	Stream(ctx context.Context, messages []Message, onChunk func(string)) error
}

// Update is one step of a narration. Text is the whole answer so far.
type Update struct {
	Text     string
	Done     bool
	Fallback bool
}

// Narrator runs at most one completion at a time. A new prompt cancels the
// one in flight. A prompt equal to the one in flight waits for its answer,
// and a prompt equal to the last completed one is answered from memory.
type Narrator struct {
	client Streamer
	logger logger.ZapLogger

	mu         sync.Mutex
	current    *narration
	memoPrompt string
	memoText   string
}

// narration is one dispatched completion. Its result fields are written
// before done is closed.
type narration struct {
	prompt string
	cancel context.CancelFunc
	done   chan struct{}

	text       string
	err        error
	cancelled  bool
	superseded bool
}

func NewNarrator(client Streamer, log logger.ZapLogger) *Narrator {
	return &Narrator{client: client, logger: log}
}

// Narrate streams the answer to prompt through publish. A superseded or
// cancelled narration returns nil without a final update. Any other failure
// publishes fallback and returns the error.
func (n *Narrator) Narrate(ctx context.Context, prompt, fallback string, publish func(Update)) error {
	for {
		n.mu.Lock()
		if prompt != "" && prompt == n.memoPrompt {
			text := n.memoText
			n.mu.Unlock()
			publish(Update{Text: text, Done: true})
			return nil
		}
		cur := n.current
		if cur == nil || prompt == "" || cur.prompt != prompt {
			break
		}
		n.mu.Unlock()

		select {
		case <-cur.done:
		case <-ctx.Done():
			return nil
		}
		switch {
		case cur.superseded:
			return nil
		case cur.cancelled:
			// The caller that dispatched it went away, dispatch again
			continue
		case cur.err != nil:
			publish(Update{Text: fallback, Done: true, Fallback: true})
			return cur.err
		}
		publish(Update{Text: cur.text, Done: true})
		return nil
	}

	if n.current != nil {
		n.current.superseded = true
		n.current.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	run := &narration{prompt: prompt, cancel: cancel, done: make(chan struct{})}
	n.current = run
	n.memoPrompt = ""
	n.memoText = ""
	n.mu.Unlock()

	var acc strings.Builder
	err := n.client.Stream(ctx, Messages(prompt), func(chunk string) {
		acc.WriteString(chunk)
		if n.isCurrent(run) {
			publish(Update{Text: acc.String()})
		}
	})

	n.mu.Lock()
	run.text = acc.String()
	run.err = err
	run.cancelled = ctx.Err() != nil
	if n.current == run {
		n.current = nil
		if err == nil && !run.cancelled {
			n.memoPrompt = prompt
			n.memoText = run.text
		}
	}
	close(run.done)
	n.mu.Unlock()

	if run.cancelled {
		return nil
	}
	if err != nil {
		n.logger.Warn("insight stream failed", zap.Error(err))
		publish(Update{Text: fallback, Done: true, Fallback: true})
		return err
	}
	publish(Update{Text: run.text, Done: true})
	return nil
}

func (n *Narrator) isCurrent(run *narration) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current == run
}

// Pool keeps one Narrator per user.
type Pool struct {
	client Streamer
	logger logger.ZapLogger

	mu        sync.Mutex
	narrators map[string]*Narrator
}

func NewPool(client Streamer, log logger.ZapLogger) *Pool {
	return &Pool{client: client, logger: log, narrators: make(map[string]*Narrator)}
}

func (p *Pool) Get(userID string) *Narrator {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, ok := p.narrators[userID]
	if !ok {
		n = NewNarrator(p.client, p.logger.With(zap.String("user_id", userID)))
		p.narrators[userID] = n
	}
	return n
}
