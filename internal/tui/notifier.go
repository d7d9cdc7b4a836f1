package tui

import "sync"

// msgKind classifies a status bar message
type msgKind int

const (
	kindInfo msgKind = iota
	kindSuccess
	kindError
)

// note is one controller message bound for the status bar
type note struct {
	text string
	kind msgKind
}

// Notifier collects controller messages for the status bar. Operations run
// off the UI goroutine; capture runs one at a time so every message is
// carried back with the result of the operation that reported it.
type Notifier struct {
	opMu sync.Mutex // held for the whole of a captured operation

	mu   sync.Mutex
	last note
}

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Success(msg string) { n.set(msg, kindSuccess) }
func (n *Notifier) Error(msg string)   { n.set(msg, kindError) }
func (n *Notifier) Info(msg string)    { n.set(msg, kindInfo) }

func (n *Notifier) set(msg string, kind msgKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = note{text: msg, kind: kind}
}

// capture runs fn and returns the last message reported while it ran
func (n *Notifier) capture(fn func() error) (note, error) {
	n.opMu.Lock()
	defer n.opMu.Unlock()

	n.set("", kindInfo)
	err := fn()

	n.mu.Lock()
	defer n.mu.Unlock()
	got := n.last
	n.last = note{}
	return got, err
}
