package orderly

import "sync"

// NewCatalogContext returns a CatalogContext whose Done channel closes once Close was called
// and every attached Catalog has detached.
func NewCatalogContext() CatalogContext {
	return &catalogContext{
		open: make(map[Catalog]struct{}),
		done: make(chan struct{}),
	}
}

type catalogContext struct {
	mu      sync.Mutex
	open    map[Catalog]struct{}
	closing bool
	drained bool
	done    chan struct{}
}

// AttachCatalog registers cat; a catalog attached after Close is closed right away.
func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.mu.Lock()
	ctx.open[cat] = struct{}{}
	closing := ctx.closing
	ctx.mu.Unlock()

	if closing {
		go cat.Close()
	}
}

// DetachCatalog is called by a Catalog as it closes.
func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	delete(ctx.open, cat)
	ctx.signalIfDrained()
	ctx.mu.Unlock()
}

// signalIfDrained closes done once closing and nothing remains open.  Caller holds mu.
func (ctx *catalogContext) signalIfDrained() {
	if ctx.closing && !ctx.drained && len(ctx.open) == 0 {
		ctx.drained = true
		close(ctx.done)
	}
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.done
}

func (ctx *catalogContext) Close() {
	ctx.mu.Lock()
	if ctx.closing {
		ctx.mu.Unlock()
		return
	}
	ctx.closing = true
	toClose := make([]Catalog, 0, len(ctx.open))
	for cat := range ctx.open {
		toClose = append(toClose, cat)
	}
	ctx.signalIfDrained()
	ctx.mu.Unlock()

	for _, cat := range toClose {
		go cat.Close()
	}
}
