package winrelay

import "sync"

// MemBrowser is an in-process Browser. The OnOpen hook stands in for the
// external page loaded into a freshly opened window: e2e tests use it to
// play the identity provider's side of the handshake.
type MemBrowser struct {
	mu      sync.Mutex
	blocked bool
	onOpen  func(w *MemWindow)
	opened  []*MemWindow
}

// NewMemBrowser returns a browser whose opened windows invoke onOpen on a
// separate goroutine, mimicking the popup loading its page independently of
// the opener. onOpen may be nil.
func NewMemBrowser(onOpen func(w *MemWindow)) *MemBrowser {
	return &MemBrowser{onOpen: onOpen}
}

// SetBlocked makes subsequent Open calls fail with ErrBlocked, simulating a
// popup blocker.
func (b *MemBrowser) SetBlocked(blocked bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blocked = blocked
}

// Opened returns every window this browser has opened, in order.
func (b *MemBrowser) Opened() []*MemWindow {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*MemWindow(nil), b.opened...)
}

func (b *MemBrowser) Open(opener Window, url, name, features string) (Window, error) {
	b.mu.Lock()
	if b.blocked {
		b.mu.Unlock()
		return nil, ErrBlocked
	}

	w := &MemWindow{
		url:       url,
		name:      name,
		opener:    opener,
		listeners: make(map[int]func(Message)),
	}
	b.opened = append(b.opened, w)
	onOpen := b.onOpen
	b.mu.Unlock()

	if onOpen != nil {
		go onOpen(w)
	}

	return w, nil
}

// MemWindow is an in-process Window.
type MemWindow struct {
	mu        sync.Mutex
	url       string
	name      string
	closed    bool
	opener    Window
	listeners map[int]func(Message)
	nextID    int
}

// NewMemWindow returns a standalone window with no opener, e.g. the main
// archive tab that initiates a login.
func NewMemWindow(url string) *MemWindow {
	return &MemWindow{url: url, listeners: make(map[int]func(Message))}
}

func (w *MemWindow) URL() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.url
}

func (w *MemWindow) Navigate(url string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.url = url
}

func (w *MemWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *MemWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

func (w *MemWindow) Opener() (Window, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.opener == nil {
		return nil, false
	}
	return w.opener, true
}

func (w *MemWindow) PostMessage(msg Message, senderOrigin string) {
	msg.Origin = senderOrigin

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	fns := make([]func(Message), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	// Deliver outside the lock so listeners may remove themselves or post
	// further messages without deadlocking.
	for _, fn := range fns {
		fn(msg)
	}
}

func (w *MemWindow) Listen(fn func(Message)) (remove func()) {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

// MemStorage is an in-process Storage.
type MemStorage struct {
	mu sync.RWMutex
	kv map[string]string
}

func NewMemStorage() *MemStorage {
	return &MemStorage{kv: make(map[string]string)}
}

func (s *MemStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.kv[key]
	return v, ok
}

func (s *MemStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
}

func (s *MemStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
}
