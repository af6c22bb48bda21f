package usecase

import (
	"context"
	"sync"

	"trocagames/internal/domain/entity"
	"trocagames/internal/infrastructure/notification"
	"trocagames/pkg/logger"
)

type subscription struct {
	channel *notification.Channel
	feed    *notification.Feed
}

// NotificationUseCase owns one push subscription and one feed per signed-in session.
type NotificationUseCase struct {
	url   string
	relay NotificationRelay

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	subs map[string]*subscription
}

// NewNotificationUseCase subscribes to url. An empty url keeps feeds local only.
func NewNotificationUseCase(url string) *NotificationUseCase {
	ctx, cancel := context.WithCancel(context.Background())
	return &NotificationUseCase{
		url:    url,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[string]*subscription),
	}
}

// SetRelay forwards every notification to browser connections as well.
func (uc *NotificationUseCase) SetRelay(relay NotificationRelay) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.relay = relay
}

// Start subscribes session to its push channel. It is idempotent per session and attaches
// the channel to a subscription that was created without one.
func (uc *NotificationUseCase) Start(session *entity.Session) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	sub, ok := uc.subs[session.ID]
	if !ok {
		sub = &subscription{feed: notification.NewFeed()}
		uc.subs[session.ID] = sub
	}
	if sub.channel != nil || uc.url == "" {
		return
	}

	sessionID := session.ID
	sub.channel = notification.NewChannel(uc.url, session.User.ID, func(n entity.Notification) {
		sub.feed.Append(n)

		uc.mu.Lock()
		relay := uc.relay
		uc.mu.Unlock()
		if relay != nil {
			relay.NotifySession(sessionID, n)
		}
	})
	sub.channel.Start(uc.ctx)
}

// Resume restarts the subscriptions of hydrated sessions.
func (uc *NotificationUseCase) Resume(sessions []*entity.Session) {
	for _, session := range sessions {
		uc.Start(session)
	}
	if len(sessions) > 0 {
		logger.Info("Resumed notification channels for %d sessions", len(sessions))
	}
}

// Stop closes the subscription of a session and any browser connection relaying it.
func (uc *NotificationUseCase) Stop(sessionID string) {
	uc.mu.Lock()
	sub, ok := uc.subs[sessionID]
	delete(uc.subs, sessionID)
	relay := uc.relay
	uc.mu.Unlock()

	if !ok {
		return
	}
	if sub.channel != nil {
		sub.channel.Close()
	}
	sub.feed.Close()
	if relay != nil {
		relay.CloseSession(sessionID)
	}
}

// Feed returns the feed of sessionID. A session without a subscription gets an empty,
// detached feed; nothing is stored for it.
func (uc *NotificationUseCase) Feed(sessionID string) *notification.Feed {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if sub, ok := uc.subs[sessionID]; ok {
		return sub.feed
	}
	return notification.NewFeed()
}

// Subscribed reports whether sessionID has a subscription and whether it is attached to
// the push server.
func (uc *NotificationUseCase) Subscribed(sessionID string) (subscribed, live bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	sub, ok := uc.subs[sessionID]
	if !ok {
		return false, false
	}
	return true, sub.channel != nil
}

func (uc *NotificationUseCase) List(sessionID string) ([]entity.Notification, int) {
	return uc.Feed(sessionID).Snapshot()
}

func (uc *NotificationUseCase) MarkRead(sessionID string) {
	uc.Feed(sessionID).MarkAllRead()
}

// Shutdown closes every subscription without signing anyone out.
func (uc *NotificationUseCase) Shutdown() {
	uc.mu.Lock()
	subs := uc.subs
	uc.subs = make(map[string]*subscription)
	uc.mu.Unlock()

	for _, sub := range subs {
		if sub.channel != nil {
			sub.channel.Close()
		}
		sub.feed.Close()
	}
	uc.cancel()
}
