package eventbus

import (
	"context"
	"sync"
)

// envelope pairs an event with its payload on the internal channel.
type envelope struct {
	event   Event
	payload any
}

// EventBus is a buffered, typed publish/subscribe bus. Publishing never
// blocks: when the buffer is full the event is dropped and the OnDrop
// hooks fire. Subscribers run sequentially on the Start goroutine, so a
// handler observes every prior mutation made by earlier handlers.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu                    sync.RWMutex
	onNotificationPrivate []func(NotificationPrivatePayload)
	onNotificationPublic  []func(NotificationPublicPayload)
	onNotificationPush    []func(NotificationPushPayload)
	onSocketConnected     []func(SocketConnectedPayload)
	onSocketDisconnected  []func(SocketDisconnectedPayload)
}

// New creates an event bus with the given buffer size.
func New(buffer int) *EventBus {
	return &EventBus{
		ch: make(chan envelope, buffer),
	}
}

// Start runs the dispatch loop until the context is cancelled. Subscriber
// panics are recovered and reported through the OnPanic hooks so one bad
// handler cannot take down the loop.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()

	switch env.event {
	case EventNotificationPrivate:
		for _, fn := range bus.subscribersNotificationPrivate() {
			fn(env.payload.(NotificationPrivatePayload))
		}
	case EventNotificationPublic:
		for _, fn := range bus.subscribersNotificationPublic() {
			fn(env.payload.(NotificationPublicPayload))
		}
	case EventNotificationPush:
		for _, fn := range bus.subscribersNotificationPush() {
			fn(env.payload.(NotificationPushPayload))
		}
	case EventSocketConnected:
		for _, fn := range bus.subscribersSocketConnected() {
			fn(env.payload.(SocketConnectedPayload))
		}
	case EventSocketDisconnected:
		for _, fn := range bus.subscribersSocketDisconnected() {
			fn(env.payload.(SocketDisconnectedPayload))
		}
	}
}

// PublishNotificationPrivate publishes a notification.private event.
func (bus *EventBus) PublishNotificationPrivate(p NotificationPrivatePayload) {
	bus.send(EventNotificationPrivate, p)
}

// SubscribeNotificationPrivate registers a handler for notification.private.
func (bus *EventBus) SubscribeNotificationPrivate(fn func(NotificationPrivatePayload)) {
	bus.mu.Lock()
	bus.onNotificationPrivate = append(bus.onNotificationPrivate, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventNotificationPrivate)
}

func (bus *EventBus) subscribersNotificationPrivate() []func(NotificationPrivatePayload) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	out := make([]func(NotificationPrivatePayload), len(bus.onNotificationPrivate))
	copy(out, bus.onNotificationPrivate)
	return out
}

// PublishNotificationPublic publishes a notification.public event.
func (bus *EventBus) PublishNotificationPublic(p NotificationPublicPayload) {
	bus.send(EventNotificationPublic, p)
}

// SubscribeNotificationPublic registers a handler for notification.public.
func (bus *EventBus) SubscribeNotificationPublic(fn func(NotificationPublicPayload)) {
	bus.mu.Lock()
	bus.onNotificationPublic = append(bus.onNotificationPublic, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventNotificationPublic)
}

func (bus *EventBus) subscribersNotificationPublic() []func(NotificationPublicPayload) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	out := make([]func(NotificationPublicPayload), len(bus.onNotificationPublic))
	copy(out, bus.onNotificationPublic)
	return out
}

// PublishNotificationPush publishes a notification.push event.
func (bus *EventBus) PublishNotificationPush(p NotificationPushPayload) {
	bus.send(EventNotificationPush, p)
}

// SubscribeNotificationPush registers a handler for notification.push.
func (bus *EventBus) SubscribeNotificationPush(fn func(NotificationPushPayload)) {
	bus.mu.Lock()
	bus.onNotificationPush = append(bus.onNotificationPush, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventNotificationPush)
}

func (bus *EventBus) subscribersNotificationPush() []func(NotificationPushPayload) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	out := make([]func(NotificationPushPayload), len(bus.onNotificationPush))
	copy(out, bus.onNotificationPush)
	return out
}

// PublishSocketConnected publishes a socket.connected event.
func (bus *EventBus) PublishSocketConnected(p SocketConnectedPayload) {
	bus.send(EventSocketConnected, p)
}

// SubscribeSocketConnected registers a handler for socket.connected.
func (bus *EventBus) SubscribeSocketConnected(fn func(SocketConnectedPayload)) {
	bus.mu.Lock()
	bus.onSocketConnected = append(bus.onSocketConnected, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventSocketConnected)
}

func (bus *EventBus) subscribersSocketConnected() []func(SocketConnectedPayload) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	out := make([]func(SocketConnectedPayload), len(bus.onSocketConnected))
	copy(out, bus.onSocketConnected)
	return out
}

// PublishSocketDisconnected publishes a socket.disconnected event.
func (bus *EventBus) PublishSocketDisconnected(p SocketDisconnectedPayload) {
	bus.send(EventSocketDisconnected, p)
}

// SubscribeSocketDisconnected registers a handler for socket.disconnected.
func (bus *EventBus) SubscribeSocketDisconnected(fn func(SocketDisconnectedPayload)) {
	bus.mu.Lock()
	bus.onSocketDisconnected = append(bus.onSocketDisconnected, fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(EventSocketDisconnected)
}

func (bus *EventBus) subscribersSocketDisconnected() []func(SocketDisconnectedPayload) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	out := make([]func(SocketDisconnectedPayload), len(bus.onSocketDisconnected))
	copy(out, bus.onSocketDisconnected)
	return out
}
