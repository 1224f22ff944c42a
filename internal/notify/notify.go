// Package notify keeps the single transient notification shown to the user.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/slok/tdo/internal/log"
	"github.com/slok/tdo/internal/model"
	"github.com/slok/tdo/internal/timer"
)

// DefaultTTL is how long a notification lives if not replaced or consumed.
const DefaultTTL = 2500 * time.Millisecond

// NotifierConfig is the configuration for the Notifier.
type NotifierConfig struct {
	Scheduler timer.Scheduler
	TTL       time.Duration
	// Now is used to compute the expiry deadline.
	Now func() time.Time
	// OnAction is called with the bound action when a notification is consumed.
	OnAction func(model.Action)
	Logger   log.Logger
}

func (c *NotifierConfig) defaults() error {
	if c.Scheduler == nil {
		c.Scheduler = timer.Real
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl can't be negative")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.OnAction == nil {
		c.OnAction = func(model.Action) {}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "notify.Notifier"})
	return nil
}

// Notifier holds at most one live notification, new ones replace the previous.
type Notifier struct {
	expiry   *timer.Slot
	ttl      time.Duration
	now      func() time.Time
	onAction func(model.Action)
	logger   log.Logger

	mu      sync.Mutex
	current *model.Notification
}

// NewNotifier returns a new notifier.
func NewNotifier(cfg NotifierConfig) (*Notifier, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Notifier{
		expiry:   timer.NewSlot(cfg.Scheduler),
		ttl:      cfg.TTL,
		now:      cfg.Now,
		onAction: cfg.OnAction,
		logger:   cfg.Logger,
	}, nil
}

// Show replaces the live notification and restarts the expiry timer.
// A replaced notification loses its action.
func (n *Notifier) Show(msg string, action *model.Action) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current != nil && n.current.Action != nil {
		n.logger.Debugf("Discarding unconsumed %q action", n.current.Action.Kind)
	}

	n.current = &model.Notification{
		Message:   msg,
		Action:    action,
		ExpiresAt: n.now().Add(n.ttl),
	}
	notif := n.current
	n.expiry.Schedule(n.ttl, func() { n.expire(notif) })
}

// Consume runs the bound action, if any, exactly once and clears the notification.
// Returns false when there was no action to run.
func (n *Notifier) Consume() bool {
	n.mu.Lock()
	cur := n.current
	if cur == nil || cur.Action == nil {
		n.mu.Unlock()
		return false
	}
	n.current = nil
	n.expiry.Cancel()
	n.mu.Unlock()

	// Called unlocked, the action may show a new notification.
	n.onAction(*cur.Action)
	return true
}

// Clear removes the live notification without running its action.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = nil
	n.expiry.Cancel()
}

// Current returns the live notification.
func (n *Notifier) Current() (model.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return model.Notification{}, false
	}
	return *n.current, true
}

func (n *Notifier) expire(notif *model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current != notif {
		return
	}
	n.current = nil
}
