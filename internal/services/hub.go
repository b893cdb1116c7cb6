package services

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// ChangeEvent notifies subscribers that a collection changed. Subscribers
// re-fetch the affected collection; events carry no row payloads.
type ChangeEvent struct {
	Collection string `json:"collection"`          // posts, polls, matches, messages
	Action     string `json:"action"`              // insert, update, delete
	RecordID   string `json:"record_id,omitempty"` //
	// Targets limits delivery to specific users (eg. the two participants
	// of a chat). Empty means broadcast to every subscriber of the
	// collection.
	Targets []uint `json:"-"`
}

// SubscriberConn is the connection surface the hub writes events to.
// *websocket.Conn satisfies it.
type SubscriberConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Subscription is one client's registration for change events
type Subscription struct {
	UserID      uint
	conn        SubscriberConn
	collections map[string]struct{}
}

// Watches reports whether the subscription covers a collection. A
// subscription created with no collection filter covers everything.
func (s *Subscription) Watches(collection string) bool {
	if len(s.collections) == 0 {
		return true
	}
	_, ok := s.collections[collection]
	return ok
}

// Hub fans collection-change events out to subscribed websocket clients.
// Callers subscribe on connect and must unsubscribe unconditionally on
// teardown.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a connection for change events on the given
// collections (all collections when empty).
func (h *Hub) Subscribe(userID uint, conn SubscriberConn, collections []string) *Subscription {
	sub := &Subscription{
		UserID: userID,
		conn:   conn,
	}
	if len(collections) > 0 {
		sub.collections = make(map[string]struct{}, len(collections))
		for _, c := range collections {
			sub.collections[c] = struct{}{}
		}
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	log.Info().Uint("user_id", userID).Strs("collections", collections).Msg("Change subscription registered")
	return sub
}

// Unsubscribe removes a subscription and closes its connection. Safe to
// call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
		log.Info().Uint("user_id", sub.UserID).Msg("Change subscription removed")
	}
}

// Broadcast delivers a change event to every matching subscriber. A write
// failure drops that subscriber; everyone else still receives the event.
func (h *Hub) Broadcast(event ChangeEvent) {
	h.mu.RLock()
	targets := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		if !sub.Watches(event.Collection) {
			continue
		}
		if len(event.Targets) > 0 && !containsUser(event.Targets, sub.UserID) {
			continue
		}
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if err := sub.conn.WriteJSON(event); err != nil {
			log.Warn().Err(err).Uint("user_id", sub.UserID).Msg("Dropping unresponsive subscriber")
			h.Unsubscribe(sub)
		}
	}
}

func containsUser(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
