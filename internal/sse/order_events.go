package sse

import (
	"context"
	"sync"

	"ms-events/internal/models"
)

const clientBuffer = 10

// OrderEventEmitter fans completed orders out to subscribers of their event.
type OrderEventEmitter struct {
	mu      sync.RWMutex
	clients map[string][]chan models.Order
}

func NewOrderEventEmitter() *OrderEventEmitter {
	return &OrderEventEmitter{clients: make(map[string][]chan models.Order)}
}

// Subscribe registers a client for eventID. The channel is closed once ctx is done.
func (e *OrderEventEmitter) Subscribe(ctx context.Context, eventID string) <-chan models.Order {
	ch := make(chan models.Order, clientBuffer)

	e.mu.Lock()
	e.clients[eventID] = append(e.clients[eventID], ch)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(eventID, ch)
	}()

	return ch
}

// Emit never blocks; a client whose buffer is full misses the order.
func (e *OrderEventEmitter) Emit(order models.Order) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, ch := range e.clients[order.EventID] {
		select {
		case ch <- order:
		default:
		}
	}
}

// EmitOrderCompleted satisfies the order service's notifier.
func (e *OrderEventEmitter) EmitOrderCompleted(order models.Order) {
	e.Emit(order)
}

func (e *OrderEventEmitter) remove(eventID string, target chan models.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[eventID]
	for i, ch := range clients {
		if ch == target {
			e.clients[eventID] = append(clients[:i], clients[i+1:]...)
			close(target)
			break
		}
	}
	if len(e.clients[eventID]) == 0 {
		delete(e.clients, eventID)
	}
}

func (e *OrderEventEmitter) ClientCount(eventID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[eventID])
}
