package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"tabvault/internal/model"
	"tabvault/internal/storage"
	"tabvault/pkg/github"
	"tabvault/pkg/log"
)

// Manager is the single source of truth for "is the user signed in". The
// persisted Settings.OAuthToken is the durable half; the in-memory state is
// rebuilt from it via Restore. All state transitions notify registered
// listeners.
type Manager struct {
	l     log.Logger
	store *storage.Store
	gh    ProfileClient
	flow  Exchanger

	mu        sync.RWMutex
	state     model.AuthState
	listeners map[int]func(model.AuthState)
	nextID    int

	restoreGroup singleflight.Group
	stopWatch    func()
}

// New creates an auth session manager in the SignedOut state.
func New(l log.Logger, store *storage.Store, gh ProfileClient, flow Exchanger) *Manager {
	return &Manager{
		l:         l,
		store:     store,
		gh:        gh,
		flow:      flow,
		listeners: make(map[int]func(model.AuthState)),
	}
}

// State returns a copy of the current in-memory auth state.
func (m *Manager) State() model.AuthState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// OnChange registers a listener called after every state transition.
// The returned function unsubscribes it.
func (m *Manager) OnChange(fn func(model.AuthState)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// SignIn drives the interactive credential exchange, fetches the user
// profile with the new token, persists the token into Settings and
// transitions to SignedIn. On any failure the state stays SignedOut.
func (m *Manager) SignIn(ctx context.Context) (model.AuthState, error) {
	settings, err := m.store.GetSettings()
	if err != nil {
		return model.AuthState{}, err
	}
	if settings.GitHubClientID == "" || settings.GitHubClientSecret == "" {
		return model.AuthState{}, ErrMissingClientConfig
	}

	token, err := m.flow.Authorize(ctx, settings.GitHubClientID, settings.GitHubClientSecret)
	if err != nil {
		return model.AuthState{}, err
	}

	user, err := m.gh.GetUser(ctx, token)
	if err != nil {
		return model.AuthState{}, fmt.Errorf("failed to fetch user profile: %w", err)
	}

	// Re-read settings: the exchange is interactive and slow, another
	// surface may have changed unrelated fields meanwhile.
	settings, err = m.store.GetSettings()
	if err != nil {
		return model.AuthState{}, err
	}
	settings.OAuthToken = token
	if err := m.store.SaveSettings(settings); err != nil {
		return model.AuthState{}, fmt.Errorf("failed to persist token: %w", err)
	}

	state := m.setSignedIn(token, user)
	m.l.Infof(ctx, "signed in as %s", user.Login)
	return state, nil
}

// SignOut clears the persisted token and transitions to SignedOut.
// Idempotent.
func (m *Manager) SignOut(ctx context.Context) error {
	settings, err := m.store.GetSettings()
	if err != nil {
		return err
	}
	if settings.OAuthToken != "" {
		settings.OAuthToken = ""
		if err := m.store.SaveSettings(settings); err != nil {
			return err
		}
	}

	m.setSignedOut()
	m.l.Info(ctx, "signed out")
	return nil
}

// EnsureAuthenticated re-validates the current session against the remote
// API. It never starts an interactive sign-in: a missing or invalid session
// fails with ErrAuthRequired (transitioning to SignedOut in the invalid
// case).
func (m *Manager) EnsureAuthenticated(ctx context.Context) error {
	m.mu.RLock()
	signedIn := m.state.IsSignedIn
	token := m.state.Token
	m.mu.RUnlock()

	if !signedIn || token == "" {
		return ErrAuthRequired
	}

	if _, err := m.gh.GetUser(ctx, token); err != nil {
		if github.IsUnauthorized(err) {
			m.setSignedOut()
			return fmt.Errorf("%w: token is no longer valid", ErrAuthRequired)
		}
		return fmt.Errorf("failed to validate token: %w", err)
	}
	return nil
}

// Restore rebuilds the in-memory session from the persisted token. Called
// once per process start; concurrent callers are coalesced into one shared
// in-flight attempt. An invalid persisted token is cleared.
func (m *Manager) Restore(ctx context.Context) error {
	_, err, _ := m.restoreGroup.Do("restore", func() (any, error) {
		return nil, m.restore(ctx)
	})
	return err
}

func (m *Manager) restore(ctx context.Context) error {
	settings, err := m.store.GetSettings()
	if err != nil {
		return err
	}

	if settings.OAuthToken == "" {
		m.setSignedOut()
		return nil
	}

	m.mu.RLock()
	current := m.state
	m.mu.RUnlock()
	if current.IsSignedIn && current.Token == settings.OAuthToken {
		return nil
	}

	user, err := m.gh.GetUser(ctx, settings.OAuthToken)
	if err != nil {
		if github.IsUnauthorized(err) {
			m.l.Warn(ctx, "persisted token is invalid, clearing it")
			settings.OAuthToken = ""
			if saveErr := m.store.SaveSettings(settings); saveErr != nil {
				m.l.Errorf(ctx, "failed to clear invalid token: %v", saveErr)
			}
			m.setSignedOut()
			return nil
		}
		return fmt.Errorf("failed to validate persisted token: %w", err)
	}

	m.setSignedIn(settings.OAuthToken, user)
	m.l.Infof(ctx, "restored session for %s", user.Login)
	return nil
}

// StartWatching reacts to storage changes made by other processes: a new
// persisted token triggers a restore, a cleared token signs the session
// out. Events tagged with this process's own origin are ignored, so the
// manager never reacts to its own writes.
func (m *Manager) StartWatching(ctx context.Context) {
	events, unsubscribe := m.store.Subscribe()
	m.stopWatch = unsubscribe

	go func() {
		for ev := range events {
			if ev.Origin == m.store.Origin() || ev.Key != storage.DataKey {
				continue
			}
			m.handleExternalChange(ctx)
		}
	}()
}

// StopWatching detaches the storage listener.
func (m *Manager) StopWatching() {
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
}

func (m *Manager) handleExternalChange(ctx context.Context) {
	settings, err := m.store.GetSettings()
	if err != nil {
		m.l.Errorf(ctx, "failed to read settings after external change: %v", err)
		return
	}

	m.mu.RLock()
	current := m.state.Token
	m.mu.RUnlock()

	switch {
	case settings.OAuthToken == current:
		// Unrelated change (groups, preferences).
	case settings.OAuthToken == "":
		m.l.Info(ctx, "token cleared externally, signing out")
		m.setSignedOut()
	default:
		m.l.Info(ctx, "token changed externally, restoring session")
		if err := m.Restore(ctx); err != nil {
			m.l.Errorf(ctx, "failed to restore session after external change: %v", err)
		}
	}
}

func (m *Manager) setSignedIn(token string, user *github.User) model.AuthState {
	m.mu.Lock()
	m.state = model.AuthState{
		IsSignedIn: true,
		Login:      user.Login,
		UserInfo: &model.UserInfo{
			Login:     user.Login,
			ID:        user.ID,
			AvatarURL: user.AvatarURL,
			HTMLURL:   user.HTMLURL,
		},
		Token: token,
	}
	state := m.state
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
	return state
}

func (m *Manager) setSignedOut() {
	m.mu.Lock()
	changed := m.state.IsSignedIn || m.state.Token != ""
	m.state = model.AuthState{}
	state := m.state
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(state)
	}
}

// snapshotListeners must be called with m.mu held.
func (m *Manager) snapshotListeners() []func(model.AuthState) {
	out := make([]func(model.AuthState), 0, len(m.listeners))
	for _, fn := range m.listeners {
		out = append(out, fn)
	}
	return out
}
