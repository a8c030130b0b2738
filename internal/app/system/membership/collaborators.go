// internal/app/system/membership/collaborators.go
package membership

import "context"

// Notifier shows transient success and error messages to the operator.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// NopNotifier discards every message.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// AlwaysConfirm approves every prompt. Front ends that confirm before
// calling in (a browser dialog, a --yes flag) use it.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

type ctxKey int

const (
	notifierKey ctxKey = iota
	confirmerKey
)

// WithCallNotifier scopes n to one editor call, overriding the editor's
// configured Notifier. The web layer uses it to route toasts to the
// response of the request that triggered the call.
func WithCallNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierKey, n)
}

// WithCallConfirmer scopes c to one editor call.
func WithCallConfirmer(ctx context.Context, c Confirmer) context.Context {
	return context.WithValue(ctx, confirmerKey, c)
}

func notifierFrom(ctx context.Context, fallback Notifier) Notifier {
	if n, ok := ctx.Value(notifierKey).(Notifier); ok && n != nil {
		return n
	}
	return fallback
}

func confirmerFrom(ctx context.Context, fallback Confirmer) Confirmer {
	if c, ok := ctx.Value(confirmerKey).(Confirmer); ok && c != nil {
		return c
	}
	return fallback
}
