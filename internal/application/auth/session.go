// Package auth mantiene la sesión del usuario en memoria del proceso.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/tailorflow/internal/application/ports"
	"github.com/jhoicas/tailorflow/internal/domain"
	"github.com/jhoicas/tailorflow/internal/domain/entity"
	"github.com/jhoicas/tailorflow/pkg/logger"
)

// LoginHook se ejecuta tras un login o signup exitoso (el cache registra su Refresh).
type LoginHook func(ctx context.Context, user entity.User) error

// SessionManager login, signup y usuario actual. No persiste nada fuera del proceso.
type SessionManager struct {
	store ports.RecordStore
	log   *logger.Logger

	mu      sync.RWMutex
	current *entity.User
	hooks   []LoginHook
}

// NewSessionManager construye el manager sobre el record store.
func NewSessionManager(store ports.RecordStore, log *logger.Logger) *SessionManager {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionManager{store: store, log: log.Named("session")}
}

// OnLogin registra un hook.
func (m *SessionManager) OnLogin(hook LoginHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

// Login valida las credenciales contra el store y abre la sesión.
// Devuelve *domain.AuthError si no coinciden.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*entity.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email y password son obligatorios", domain.ErrInvalidInput)
	}
	user, err := m.store.Login(ctx, email, password)
	if err != nil {
		m.log.Warn().Str("email", email).Err(err).Msg("login fallido")
		return nil, err
	}
	m.start(ctx, user)
	return m.Current(), nil
}

// Signup registra al usuario (rol admin) y abre la sesión.
// Devuelve *domain.AuthError si el email ya existe.
func (m *SessionManager) Signup(ctx context.Context, name, email, password string) (*entity.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email y password son obligatorios", domain.ErrInvalidInput)
	}
	user, err := m.store.Signup(ctx, name, email, password)
	if err != nil {
		m.log.Warn().Str("email", email).Err(err).Msg("signup fallido")
		return nil, err
	}
	m.start(ctx, user)
	return m.Current(), nil
}

func (m *SessionManager) start(ctx context.Context, user *entity.User) {
	u := *user
	u.Password = ""

	m.mu.Lock()
	m.current = &u
	hooks := append([]LoginHook(nil), m.hooks...)
	m.mu.Unlock()

	m.log.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("sesión iniciada")
	for _, hook := range hooks {
		if err := hook(ctx, u); err != nil {
			m.log.Error().Err(err).Msg("hook de login")
		}
	}
}

// Current copia del usuario de la sesión; nil si no hay sesión.
func (m *SessionManager) Current() *entity.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// IsAuthenticated indica si hay sesión abierta.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Logout cierra la sesión.
func (m *SessionManager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}
