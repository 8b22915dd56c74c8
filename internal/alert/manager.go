package alert

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"spot-tradebot/internal/config"
)

type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

type Alerter interface {
	Important(event string, fields map[string]string)
}

const (
	defaultAlertQueueSize = 16
	defaultSendTimeout    = 20 * time.Second
)

type ManagerOptions struct {
	QueueSize   int
	SendTimeout time.Duration
	Logger      *zap.Logger
}

// Manager delivers alerts from a background goroutine so that a slow notifier
// never delays an order call. Close flushes whatever is still queued.
type Manager struct {
	mode        string
	notifier    Notifier
	logger      *zap.Logger
	sendTimeout time.Duration
	queue       chan alertEvent
	done        chan struct{}
	dropped     uint64
	mu          sync.RWMutex
	closed      bool
}

type alertEvent struct {
	event  string
	fields map[string]string
}

// FromConfig returns nil when telegram alerts are disabled.
func FromConfig(mode config.Mode, cfg config.TelegramConfig, logger *zap.Logger) *Manager {
	if !cfg.Enabled {
		return nil
	}
	return NewManager(string(mode), NewTelegramNotifier(cfg), ManagerOptions{Logger: logger})
}

// NewManager returns nil when notifier is nil. Zero options take defaults.
func NewManager(mode string, notifier Notifier, opts ManagerOptions) *Manager {
	if notifier == nil {
		return nil
	}
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = defaultAlertQueueSize
	}
	sendTimeout := opts.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		mode:        mode,
		notifier:    notifier,
		logger:      logger,
		sendTimeout: sendTimeout,
		queue:       make(chan alertEvent, queueSize),
		done:        make(chan struct{}),
	}
	go m.loop()
	return m
}

// Important queues an alert without blocking. Events are dropped when the queue is full.
func (m *Manager) Important(event string, fields map[string]string) {
	if m == nil || m.notifier == nil {
		return
	}
	ev := alertEvent{
		event:  event,
		fields: cloneFields(fields),
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	select {
	case m.queue <- ev:
	default:
		dropped := atomic.AddUint64(&m.dropped, 1)
		if dropped == 1 {
			m.logger.Warn("alert queue full, dropping",
				zap.String("event", event),
				zap.Int("queue_cap", cap(m.queue)),
			)
		}
	}
}

func (m *Manager) Close(ctx context.Context) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	select {
	case <-m.done:
		if dropped := atomic.LoadUint64(&m.dropped); dropped > 0 {
			m.logger.Warn("alerts dropped", zap.Uint64("dropped_total", dropped))
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) droppedTotal() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.dropped)
}

func (m *Manager) loop() {
	defer close(m.done)
	for ev := range m.queue {
		m.send(ev)
	}
}

func (m *Manager) send(ev alertEvent) {
	msg := m.buildMessage(ev.event, ev.fields)
	ctx, cancel := context.WithTimeout(context.Background(), m.sendTimeout)
	defer cancel()
	if err := m.notifier.Notify(ctx, msg); err != nil {
		m.logger.Error("alert notify failed", zap.String("event", ev.event), zap.Error(err))
	}
}

func (m *Manager) buildMessage(event string, fields map[string]string) string {
	lines := []string{
		"[spot-tradebot] important",
		"time: " + time.Now().UTC().Format(time.RFC3339),
		"mode: " + m.mode,
		"event: " + event,
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, k+": "+fields[k])
	}
	return strings.Join(lines, "\n")
}

func cloneFields(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
