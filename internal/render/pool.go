package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// renderers holds idle glamour renderers per Options. A TermRenderer must not
// render from two goroutines at once, and the TUI and the spinner-backed ask
// path can both be rendering, so each call borrows its own.
type renderers struct {
	mu   sync.Mutex
	idle map[Options]*sync.Pool
}

var answerRenderers = &renderers{idle: make(map[Options]*sync.Pool)}

func (r *renderers) pool(opts Options) *sync.Pool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.idle[opts]
	if !ok {
		p = &sync.Pool{}
		r.idle[opts] = p
	}
	return p
}

// borrow returns an idle renderer for opts or builds a new one.
func (r *renderers) borrow(opts Options) (*glamour.TermRenderer, error) {
	if tr, ok := r.pool(opts).Get().(*glamour.TermRenderer); ok {
		return tr, nil
	}
	return newRenderer(opts)
}

func (r *renderers) release(opts Options, tr *glamour.TermRenderer) {
	if tr != nil {
		r.pool(opts).Put(tr)
	}
}

// size reports how many distinct option sets have been seen.
func (r *renderers) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.idle)
}

func (r *renderers) reset() {
	r.mu.Lock()
	r.idle = make(map[Options]*sync.Pool)
	r.mu.Unlock()
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{glamour.WithWordWrap(opts.Width)}

	if IsStandardStyle(opts.Style) {
		ropts = append(ropts, glamour.WithStandardStyle(opts.Style))
	} else {
		ropts = append(ropts, glamour.WithStylePath(opts.Style))
	}
	if opts.Emoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.KeepLineBreaks {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(ropts...)
}
