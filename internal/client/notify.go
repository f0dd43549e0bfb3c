package client

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
	LevelDefault Level = "default"
)

// Notification is a short message meant for the person using the client
type Notification struct {
	ID      uuid.UUID
	Level   Level
	Message string
	At      time.Time
}

func NewNotification(level Level, msg string) Notification {
	return Notification{ID: uuid.New(), Level: level, Message: msg, At: time.Now()}
}

type Notifier interface {
	Notify(n Notification) error
}

// LogNotifier writes notifications as log lines
type LogNotifier struct {
	Log zerolog.Logger
}

func (l LogNotifier) Notify(n Notification) error {
	var ev *zerolog.Event
	switch n.Level {
	case LevelError:
		ev = l.Log.Error()
	case LevelWarn:
		ev = l.Log.Warn()
	default:
		ev = l.Log.Info()
	}
	ev.Str("notification_id", n.ID.String()).Str("level", string(n.Level)).Msg(n.Message)
	return nil
}

// WriterNotifier prints one line per notification, for terminals
type WriterNotifier struct {
	W io.Writer
}

func (w WriterNotifier) Notify(n Notification) error {
	prefix := ""
	switch n.Level {
	case LevelError:
		prefix = "error: "
	case LevelWarn:
		prefix = "warning: "
	}
	_, err := fmt.Fprintf(w.W, "%s%s\n", prefix, n.Message)
	return err
}

// Recorder keeps every notification in memory
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

// Messages returns just the message text, oldest first
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Message)
	}
	return out
}
