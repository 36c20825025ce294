package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	momentoredis "github.com/momentohq/momento-redis-go"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	FailureEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	failureCtr atomic.Uint64
}

var _ momentoredis.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if k == "" {
		return ""
	}
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CommandFailed(err *momentoredis.CommandError) {
	if h.l == nil || err == nil || !sample(h.opts.FailureEvery, &h.failureCtr) {
		return
	}
	h.l.Warn("momentoredis.command_failed",
		"cmd", err.Command,
		"key", h.redact(err.Key),
		"err", err.Err)
}

func (h *Hooks) PartialDelete(cache string, requested, deleted int) {
	if h.l == nil {
		return
	}
	h.l.Warn("momentoredis.partial_delete",
		"cache", cache,
		"requested", requested,
		"deleted", deleted)
}

func (h *Hooks) OpenChanged(cache string, open bool) {
	if h.l == nil {
		return
	}
	h.l.Info("momentoredis.open_changed",
		"cache", cache,
		"open", open)
}
