package dispatch

import "maps"

// Handler receives the decoded data payload and the original error value.
type Handler[T any] func(data T, raw any)

// HandlerSet maps status codes to handlers, with an optional fallback.
//
// A code mapped to a nil Handler still counts as registered: dispatching that
// code calls nothing and skips Default.
type HandlerSet[T any] struct {
	Status  map[int]Handler[T]
	Default Handler[T]
}

// Merge returns a new set holding base's entries overlaid with override's.
// Override wins per status code; its Default replaces base's only when
// non-nil. Neither input is modified.
func Merge[T any](base, override HandlerSet[T]) HandlerSet[T] {
	out := HandlerSet[T]{
		Status:  make(map[int]Handler[T], len(base.Status)+len(override.Status)),
		Default: base.Default,
	}
	maps.Copy(out.Status, base.Status)
	maps.Copy(out.Status, override.Status)
	if override.Default != nil {
		out.Default = override.Default
	}
	return out
}

// Len returns the number of registered status codes.
func (s HandlerSet[T]) Len() int {
	return len(s.Status)
}

func (s HandlerSet[T]) lookup(code int) (Handler[T], bool) {
	h, ok := s.Status[code]
	return h, ok
}

// Builder assembles a HandlerSet fluently.
type Builder[T any] struct {
	set HandlerSet[T]
}

// Handlers starts an empty HandlerSet builder.
func Handlers[T any]() *Builder[T] {
	return &Builder[T]{set: HandlerSet[T]{Status: make(map[int]Handler[T])}}
}

// On registers h for code. A later registration for the same code wins.
func (b *Builder[T]) On(code int, h Handler[T]) *Builder[T] {
	b.set.Status[code] = h
	return b
}

// OnRange registers h for every code in [from, to].
func (b *Builder[T]) OnRange(from, to int, h Handler[T]) *Builder[T] {
	for code := from; code <= to; code++ {
		b.set.Status[code] = h
		if code == to {
			break
		}
	}
	return b
}

// OnDefault sets the fallback handler.
func (b *Builder[T]) OnDefault(h Handler[T]) *Builder[T] {
	b.set.Default = h
	return b
}

// Build returns a copy of the assembled set, so the builder can keep going.
func (b *Builder[T]) Build() HandlerSet[T] {
	return HandlerSet[T]{
		Status:  maps.Clone(b.set.Status),
		Default: b.set.Default,
	}
}
