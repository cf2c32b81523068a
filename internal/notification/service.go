package notification

import (
	"sync"
	"time"
)

// DefaultLimit is how many notifications are kept per user.
const DefaultLimit = 50

const streamBuffer = 16

// Notification reports the outcome of one uploaded file.
type Notification struct {
	UserID    string    `json:"user_id"`
	FileName  string    `json:"file_name"`
	ReportID  string    `json:"report_id,omitempty"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationService struct {
	mu            sync.Mutex
	notifications map[string][]Notification
	limit         int
	subscribers   map[string]map[chan Notification]struct{}
}

func NewNotificationService(limit int) *NotificationService {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &NotificationService{
		notifications: make(map[string][]Notification),
		limit:         limit,
		subscribers:   make(map[string]map[chan Notification]struct{}),
	}
}

func (ns *NotificationService) AddNotification(n Notification) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	list := append(ns.notifications[n.UserID], n)
	if len(list) > ns.limit {
		list = list[len(list)-ns.limit:]
	}
	ns.notifications[n.UserID] = list

	for ch := range ns.subscribers[n.UserID] {
		select {
		case ch <- n:
		default:
			// slow subscriber, it can still read the history
		}
	}
}

// Subscribe returns a channel receiving the user's new notifications and a
// cancel func that closes it.
func (ns *NotificationService) Subscribe(userID string) (<-chan Notification, func()) {
	ch := make(chan Notification, streamBuffer)
	ns.mu.Lock()
	if ns.subscribers[userID] == nil {
		ns.subscribers[userID] = make(map[chan Notification]struct{})
	}
	ns.subscribers[userID][ch] = struct{}{}
	ns.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			ns.mu.Lock()
			defer ns.mu.Unlock()
			delete(ns.subscribers[userID], ch)
			if len(ns.subscribers[userID]) == 0 {
				delete(ns.subscribers, userID)
			}
			close(ch)
		})
	}
}

// Subscribers counts open streams across all users.
func (ns *NotificationService) Subscribers() int {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	n := 0
	for _, subs := range ns.subscribers {
		n += len(subs)
	}
	return n
}

// GetNotifications returns a copy of the user's notifications, oldest first.
func (ns *NotificationService) GetNotifications(userID string) []Notification {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	list := ns.notifications[userID]
	out := make([]Notification, len(list))
	copy(out, list)
	return out
}

func (ns *NotificationService) ClearNotifications(userID string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	delete(ns.notifications, userID)
}

func (ns *NotificationService) Name() string { return "notification" }

func (ns *NotificationService) Start() error { return nil }

func (ns *NotificationService) Stop() error { return nil }
