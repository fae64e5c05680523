package ground

import "github.com/vovakirdan/deepfront/internal/terrain"

// Event is emitted to listeners after a Ground operation completes.
type Event interface {
	groundEvent()
}

// InitEvent is emitted after terrain generation.
type InitEvent struct {
	Seed int64
}

func (InitEvent) groundEvent() {}

// DigEvent is emitted after every DigShape call, including empty ones.
type DigEvent struct {
	Shape  terrain.Shape
	Counts terrain.Counts
}

func (DigEvent) groundEvent() {}

// CollectEvent is emitted after every CollectResource call.
type CollectEvent struct {
	Center terrain.Vec
	Radius float64
	Counts terrain.Counts
}

func (CollectEvent) groundEvent() {}

// AdvanceEvent is emitted after each fog pass.
type AdvanceEvent struct {
	Tick uint64 // Completed passes
}

func (AdvanceEvent) groundEvent() {}

// Listener receives Ground events synchronously, in operation order.
type Listener interface {
	OnGroundEvent(ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event)

// OnGroundEvent implements Listener.
func (f ListenerFunc) OnGroundEvent(ev Event) { f(ev) }

// Subscribe registers a listener. Listeners survive re-initialization.
func (g *Ground) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

func (g *Ground) emit(ev Event) {
	for _, l := range g.listeners {
		l.OnGroundEvent(ev)
	}
}
