package service

import (
	"sync"

	"github.com/rs/zerolog"
)

// LogToaster writes toasts to the log. Used where no user is watching.
type LogToaster struct {
	log zerolog.Logger
}

func NewLogToaster(log zerolog.Logger) LogToaster {
	return LogToaster{log: log}
}

func (t LogToaster) Success(msg string) {
	t.log.Info().Str("toast", "success").Msg(msg)
}

func (t LogToaster) Error(msg string) {
	t.log.Warn().Str("toast", "error").Msg(msg)
}

// Toast is one recorded outcome.
type Toast struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ToastRecorder collects toasts so a transport can return them with its response.
type ToastRecorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func NewToastRecorder() *ToastRecorder {
	return &ToastRecorder{}
}

func (r *ToastRecorder) Success(msg string) {
	r.add(Toast{Kind: "success", Message: msg})
}

func (r *ToastRecorder) Error(msg string) {
	r.add(Toast{Kind: "error", Message: msg})
}

func (r *ToastRecorder) add(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// All returns every recorded toast in order.
func (r *ToastRecorder) All() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

// Last returns the most recent toast message, or "" when none was recorded.
func (r *ToastRecorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return ""
	}
	return r.toasts[len(r.toasts)-1].Message
}
