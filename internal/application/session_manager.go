package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kvasek/betterschedule/internal/domain"
	"github.com/kvasek/betterschedule/internal/ports"
)

const (
	credentialKeyUsername = "username"
	credentialKeyPassword = "password"
)

// ErrRefreshInFlight reports a refresh attempt that was skipped because
// another login or refresh already holds the session.
var ErrRefreshInFlight = errors.New("session operation already in flight")

// SessionManager owns the authentication state machine. It is the only
// writer of the Session entity; everyone else observes copies. Login
// and refresh serialize on one mutex, so a second call queues behind
// the first instead of racing. Logout never blocks: it bumps the
// session generation, and an in-flight completion that lands after a
// logout is discarded instead of resurrecting the superseded state.
//
// Any refresh failure is a full logout, wiping the token and stored
// credentials. A transient network blip gets the same treatment as a
// credential rejection; the session is treated as untrusted either way.
type SessionManager struct {
	tokens      ports.TokenService
	credentials ports.CredentialStore
	sessions    ports.SessionRepository
	decoder     ports.TokenDecoder
	logger      *zap.Logger

	opMu sync.Mutex

	stateMu   sync.Mutex
	session   domain.Session
	gen       uint64
	observers map[string]func(domain.Session)
}

func NewSessionManager(
	tokens ports.TokenService,
	credentials ports.CredentialStore,
	sessions ports.SessionRepository,
	decoder ports.TokenDecoder,
	logger *zap.Logger,
) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &SessionManager{
		tokens:      tokens,
		credentials: credentials,
		sessions:    sessions,
		decoder:     decoder,
		logger:      logger,
		session:     domain.Session{State: domain.StateLoggedOut},
		observers:   map[string]func(domain.Session){},
	}
	m.rehydrate()

	return m
}

func (m *SessionManager) rehydrate() {
	if m.sessions == nil {
		return
	}

	snapshot, err := m.sessions.Load(context.Background())
	if err != nil {
		m.logger.Warn("load persisted session", zap.Error(err))
		return
	}
	if !snapshot.Authenticated || snapshot.Token == "" {
		return
	}

	m.session = domain.Session{
		State:         domain.StateLoggedIn,
		Token:         snapshot.Token,
		Authenticated: true,
	}
}

// Login performs the credential exchange. On success the token and the
// username/password pair are persisted for future silent refresh; a
// failed persistence is logged but does not fail the login. On failure
// the session moves to Failed with nothing persisted.
func (m *SessionManager) Login(ctx context.Context, username string, password string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	gen := m.currentGen()

	token, err := m.tokens.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		m.apply(ctx, gen, domain.Session{
			State:     domain.StateFailed,
			LastError: err.Error(),
		})
		return fmt.Errorf("login: %w", err)
	}

	if !m.apply(ctx, gen, domain.Session{
		State:         domain.StateLoggedIn,
		Token:         token,
		Authenticated: true,
	}) {
		return nil
	}

	if saveErr := m.credentials.Save(ctx, credentialKeyUsername, username); saveErr != nil {
		m.logger.Warn("persist username", zap.Error(saveErr))
	}
	if saveErr := m.credentials.Save(ctx, credentialKeyPassword, password); saveErr != nil {
		m.logger.Warn("persist password", zap.Error(saveErr))
	}

	return nil
}

// Refresh re-runs the login with the stored credential pair. Queues
// behind any in-flight login or refresh.
func (m *SessionManager) Refresh(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	return m.refreshLocked(ctx)
}

// TryRefresh refreshes only when no login or refresh is in flight.
// The expiry monitor uses it so a busy session skips the tick instead
// of racing; the skip is reported as ErrRefreshInFlight.
func (m *SessionManager) TryRefresh(ctx context.Context) error {
	if !m.opMu.TryLock() {
		return ErrRefreshInFlight
	}
	defer m.opMu.Unlock()

	return m.refreshLocked(ctx)
}

func (m *SessionManager) refreshLocked(ctx context.Context) error {
	gen := m.currentGen()

	current := m.Current()
	current.State = domain.StateRefreshing
	m.apply(ctx, gen, current)

	token, err := m.tokens.RefreshWithStoredCredentials(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		// Untrusted session: wipe everything, then surface the reason.
		m.logoutGen(ctx, gen, err.Error())
		return fmt.Errorf("refresh: %w", err)
	}

	m.apply(ctx, gen, domain.Session{
		State:         domain.StateLoggedIn,
		Token:         token,
		Authenticated: true,
	})

	return nil
}

// Logout is idempotent and always safe to call, including while a
// login or refresh is in flight; the stale completion is discarded.
func (m *SessionManager) Logout(ctx context.Context) {
	m.logoutGen(ctx, m.bumpGen(), "")
}

func (m *SessionManager) logoutGen(ctx context.Context, gen uint64, lastError string) {
	m.apply(ctx, gen, domain.Session{
		State:     domain.StateLoggedOut,
		LastError: lastError,
	})

	for _, key := range []string{credentialKeyUsername, credentialKeyPassword} {
		if _, err := m.credentials.Delete(ctx, key); err != nil {
			m.logger.Warn("wipe stored credential", zap.String("key", key), zap.Error(err))
		}
	}
}

// Current returns a read-only snapshot of the session.
func (m *SessionManager) Current() domain.Session {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	return m.session
}

// Claims decodes the current token on demand; nothing is cached.
func (m *SessionManager) Claims() (domain.TokenClaims, error) {
	session := m.Current()
	if session.Token == "" {
		return domain.TokenClaims{}, fmt.Errorf("no active token: %w", domain.ErrTokenDecode)
	}

	return m.decoder.Decode(session.Token)
}

// Subscribe registers an observer for session changes. The observer is
// immediately pushed the current snapshot. The returned function
// cancels the subscription.
func (m *SessionManager) Subscribe(observer func(domain.Session)) func() {
	id := uuid.NewString()

	m.stateMu.Lock()
	m.observers[id] = observer
	current := m.session
	m.stateMu.Unlock()

	observer(current)

	return func() {
		m.stateMu.Lock()
		defer m.stateMu.Unlock()
		delete(m.observers, id)
	}
}

// apply installs the next session state if gen is still current,
// notifies observers with the committed snapshot, and persists it.
// Returns false when the completion was stale and discarded.
func (m *SessionManager) apply(ctx context.Context, gen uint64, next domain.Session) bool {
	m.stateMu.Lock()
	if gen != m.gen {
		m.stateMu.Unlock()
		m.logger.Debug("discarded stale session transition", zap.String("state", string(next.State)))
		return false
	}
	m.session = next
	observers := make([]func(domain.Session), 0, len(m.observers))
	for _, observer := range m.observers {
		observers = append(observers, observer)
	}
	m.stateMu.Unlock()

	for _, observer := range observers {
		observer(next)
	}

	if m.sessions != nil && next.State != domain.StateRefreshing {
		snapshot := ports.SessionSnapshot{Token: next.Token, Authenticated: next.Authenticated}
		if err := m.sessions.Save(ctx, snapshot); err != nil {
			m.logger.Warn("persist session snapshot", zap.Error(err))
		}
	}

	return true
}

func (m *SessionManager) currentGen() uint64 {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	return m.gen
}

func (m *SessionManager) bumpGen() uint64 {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	m.gen++
	return m.gen
}
