// internal/app/system/membership/editor.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dalemusser/syncadmin/internal/app/system/syncapi"
	"github.com/dalemusser/syncadmin/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned by calls on an editor that has been closed.
	ErrClosed = errors.New("membership: editor closed")
	// ErrInvalidRole rejects a role outside viewer, editor and admin.
	ErrInvalidRole = errors.New("membership: invalid role")
	// ErrNotAvailable rejects adding a group the user already belongs to
	// or that is not in the catalog.
	ErrNotAvailable = errors.New("membership: group not available to add")
	// ErrNotMember rejects changing a group the user does not belong to.
	ErrNotMember = errors.New("membership: user is not a member of that group")
)

// API is the part of the sync API client the editor needs.
type API interface {
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListUserGroups(ctx context.Context, userID int) ([]models.Membership, error)
	AddMember(ctx context.Context, groupID, userID int, role models.Role) error
	RemoveMember(ctx context.Context, groupID, userID int) error
	ChangeRole(ctx context.Context, groupID, userID int, role models.Role) error
}

// State is the editor lifecycle position.
type State int

const (
	StateLoading State = iota
	StateReady
	StateMutating
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateMutating:
		return "mutating"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Snapshot is what a front end renders.
type Snapshot struct {
	UserID      int
	State       State
	Memberships []models.Membership
	Available   []models.Group
	CanAdd      bool
	Empty       bool
	Err         error
}

// Option configures an Editor.
type Option func(*Editor)

// WithNotifier sets the default Notifier.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithConfirmer sets the default Confirmer used by Remove.
func WithConfirmer(c Confirmer) Option {
	return func(e *Editor) {
		if c != nil {
			e.confirmer = c
		}
	}
}

// WithSequencer shares s with other editors so writes for one user are
// serialized across the process.
func WithSequencer(s *Sequencer) Option {
	return func(e *Editor) {
		if s != nil {
			e.seq = s
		}
	}
}

// WithRender registers a callback receiving every state change.
func WithRender(fn func(Snapshot)) Option {
	return func(e *Editor) { e.render = fn }
}

// WithBadgeRefresh registers the hook run after each successful write so
// other views showing this user's memberships can reload them.
func WithBadgeRefresh(fn func(ctx context.Context, userID int)) Option {
	return func(e *Editor) { e.badgeRefresh = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// Editor manages one user's group memberships.
//
// Every successful write is followed by a full refetch of the membership
// set; nothing is patched locally. A failed write leaves the displayed state
// as it was.
type Editor struct {
	api          API
	userID       int
	notifier     Notifier
	confirmer    Confirmer
	seq          *Sequencer
	render       func(Snapshot)
	badgeRefresh func(ctx context.Context, userID int)
	log          *zap.Logger

	mu          sync.Mutex
	state       State
	loaded      bool
	catalog     []models.Group
	memberships []models.Membership
	available   []models.Group
	err         error
}

// NewEditor builds an editor for userID. Call Open to load it.
func NewEditor(api API, userID int, opts ...Option) *Editor {
	e := &Editor{
		api:       api,
		userID:    userID,
		notifier:  NopNotifier{},
		confirmer: AlwaysConfirm,
		log:       zap.NewNop(),
		state:     StateLoading,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.seq == nil {
		e.seq = NewSequencer()
	}
	return e
}

// UserID returns the user this editor manages.
func (e *Editor) UserID() int { return e.userID }

// Open loads the group catalog and the user's memberships.
// On failure the editor is Ready with Err set and the error notified.
func (e *Editor) Open(ctx context.Context) error {
	if !e.setState(StateLoading) {
		return ErrClosed
	}
	e.emit()

	catalog, err := e.api.ListGroups(ctx)
	var ms []models.Membership
	if err == nil {
		ms, err = e.api.ListUserGroups(ctx, e.userID)
	}

	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.state = StateReady
	if err != nil {
		e.err = err
	} else {
		e.err = nil
		e.catalog = catalog
		e.applyLocked(ms)
	}
	e.mu.Unlock()

	if err != nil {
		e.log.Warn("open membership editor failed", zap.Int("user_id", e.userID), zap.Error(err))
		notifierFrom(ctx, e.notifier).Error(syncapi.Message(err))
	}
	e.emit()
	return err
}

// Add grants the user role in groupID.
func (e *Editor) Add(ctx context.Context, groupID int, role models.Role) error {
	if !role.Valid() {
		notifierFrom(ctx, e.notifier).Error(fmt.Sprintf("Unknown role %q.", role))
		return ErrInvalidRole
	}
	name, ok := e.availableName(groupID)
	if !ok {
		notifierFrom(ctx, e.notifier).Error("That group cannot be added.")
		return ErrNotAvailable
	}
	return e.mutate(ctx, "add", groupID, func(ctx context.Context) error {
		return e.api.AddMember(ctx, groupID, e.userID, role)
	}, fmt.Sprintf("Added to %s as %s.", name, role))
}

// Remove takes the user out of groupID after the Confirmer approves.
// A declined confirmation returns nil without sending anything.
func (e *Editor) Remove(ctx context.Context, groupID int) error {
	name, ok := e.memberName(groupID)
	if !ok {
		notifierFrom(ctx, e.notifier).Error("The user is not a member of that group.")
		return ErrNotMember
	}
	if !confirmerFrom(ctx, e.confirmer).Confirm(ctx, fmt.Sprintf("Remove this user from %s?", name)) {
		return nil
	}
	return e.mutate(ctx, "remove", groupID, func(ctx context.Context) error {
		return e.api.RemoveMember(ctx, groupID, e.userID)
	}, fmt.Sprintf("Removed from %s.", name))
}

// ChangeRole sets the user's role in groupID.
func (e *Editor) ChangeRole(ctx context.Context, groupID int, role models.Role) error {
	if !role.Valid() {
		notifierFrom(ctx, e.notifier).Error(fmt.Sprintf("Unknown role %q.", role))
		return ErrInvalidRole
	}
	name, ok := e.memberName(groupID)
	if !ok {
		notifierFrom(ctx, e.notifier).Error("The user is not a member of that group.")
		return ErrNotMember
	}
	return e.mutate(ctx, "change_role", groupID, func(ctx context.Context) error {
		return e.api.ChangeRole(ctx, groupID, e.userID, role)
	}, fmt.Sprintf("Role in %s changed to %s.", name, role))
}

func (e *Editor) mutate(ctx context.Context, op string, groupID int, write func(context.Context) error, okMsg string) error {
	unlock, err := e.seq.Lock(ctx, e.userID)
	if err != nil {
		return err
	}
	defer unlock()

	if !e.setState(StateMutating) {
		return ErrClosed
	}
	e.emit()
	notify := notifierFrom(ctx, e.notifier)

	if err := write(ctx); err != nil {
		e.log.Info("membership write failed",
			zap.String("op", op),
			zap.Int("user_id", e.userID),
			zap.Int("group_id", groupID),
			zap.Error(err))
		if e.setState(StateReady) {
			notify.Error(syncapi.Message(err))
			e.emit()
		}
		return err
	}
	if e.badgeRefresh != nil {
		defer e.badgeRefresh(ctx, e.userID)
	}

	if !e.setState(StateLoading) {
		return nil
	}
	notify.Success(okMsg)
	e.emit()

	ms, ferr := e.api.ListUserGroups(ctx, e.userID)
	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()
		return nil
	}
	e.state = StateReady
	if ferr != nil {
		e.err = ferr
	} else {
		e.err = nil
		e.applyLocked(ms)
	}
	e.mu.Unlock()

	if ferr != nil {
		e.log.Warn("membership refetch failed", zap.Int("user_id", e.userID), zap.Error(ferr))
		notify.Error(syncapi.Message(ferr))
	}
	e.emit()
	return nil
}

// Close discards everything the editor holds. Results of calls still in
// flight are ignored.
func (e *Editor) Close() {
	e.mu.Lock()
	e.state = StateClosed
	e.catalog = nil
	e.memberships = nil
	e.available = nil
	e.render = nil
	e.mu.Unlock()
}

// Unmount is Close; it lets an Editor live in a view registry.
func (e *Editor) Unmount() { e.Close() }

// Snapshot returns the current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Editor) snapshotLocked() Snapshot {
	return Snapshot{
		UserID:      e.userID,
		State:       e.state,
		Memberships: slices.Clone(e.memberships),
		Available:   slices.Clone(e.available),
		CanAdd:      len(e.available) > 0,
		Empty:       e.loaded && len(e.memberships) == 0,
		Err:         e.err,
	}
}

// setState moves to s unless the editor is closed.
func (e *Editor) setState(s State) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed {
		return false
	}
	e.state = s
	return true
}

func (e *Editor) applyLocked(ms []models.Membership) {
	e.memberships = ms
	e.available = Complement(e.catalog, ms)
	e.loaded = true
}

func (e *Editor) emit() {
	e.mu.Lock()
	fn := e.render
	if e.state == StateClosed {
		fn = nil
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (e *Editor) availableName(groupID int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, g := range e.available {
		if g.ID == groupID {
			return g.Name, true
		}
	}
	return "", false
}

func (e *Editor) memberName(groupID int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, m := range e.memberships {
		if m.GroupID == groupID {
			return m.GroupName, true
		}
	}
	return "", false
}

// Complement returns the catalog groups the user does not belong to, in
// catalog order.
func Complement(catalog []models.Group, ms []models.Membership) []models.Group {
	member := models.GroupIDs(ms)
	out := make([]models.Group, 0, len(catalog))
	for _, g := range catalog {
		if _, ok := member[g.ID]; !ok {
			out = append(out, g)
		}
	}
	return out
}
