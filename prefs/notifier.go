package prefs

import "sync"

const watchBuffer = 16

// notifier fans out Change events to per-key subscribers. Slow subscribers
// drop events rather than block mutations.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	key string
	ch  chan Change
}

func newNotifier() *notifier {
	return &notifier{subs: map[int]*subscription{}}
}

func (n *notifier) subscribe(key string) (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	sub := &subscription{key: key, ch: make(chan Change, watchBuffer)}
	n.subs[id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if s, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(s.ch)
			}
		})
	}
	return sub.ch, cancel
}

func (n *notifier) publish(change Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, sub := range n.subs {
		if sub.key != "" && sub.key != change.Key {
			continue
		}
		select {
		case sub.ch <- change:
		default:
		}
	}
}

func (n *notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, sub := range n.subs {
		delete(n.subs, id)
		close(sub.ch)
	}
}
