package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"authpal/internal/domain/entity"
	"authpal/internal/domain/repository"
	"authpal/internal/domain/service"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- fake user repository ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User

	findErr   error
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) clone(u *entity.User) *entity.User {
	copied := *u

	return &copied
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return r.clone(u), nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return r.clone(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByResetTokenHash(_ context.Context, tokenHash string) (*entity.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PasswordResetTokenHash != "" && u.PasswordResetTokenHash == tokenHash {
			return r.clone(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = r.clone(user)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = r.clone(user)

	return nil
}

func (r *fakeUserRepo) get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.users[id]
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.users)
}

func (r *fakeUserRepo) snapshot() map[uuid.UUID]*entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make(map[uuid.UUID]*entity.User, len(r.users))
	for id, u := range r.users {
		copied[id] = r.clone(u)
	}

	return copied
}

func (r *fakeUserRepo) restore(users map[uuid.UUID]*entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = users
}

// --- fake account repository ---

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts []*entity.Account

	createErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *entity.Account) error {
	if r.createErr != nil {
		return r.createErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now()
	copied := *account
	r.accounts = append(r.accounts, &copied)

	return nil
}

func (r *fakeAccountRepo) Find(_ context.Context, provider entity.ProviderType, providerID string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Provider == provider && a.ProviderID == providerID {
			copied := *a

			return &copied, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *fakeAccountRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			copied := *a
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeAccountRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.accounts)
}

func (r *fakeAccountRepo) snapshot() []*entity.Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]*entity.Account, len(r.accounts))
	for i, a := range r.accounts {
		dup := *a
		copied[i] = &dup
	}

	return copied
}

func (r *fakeAccountRepo) restore(accounts []*entity.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = accounts
}

// --- fake transaction manager ---

// fakeTxManager mimics rollback by snapshotting both fake repos before the
// callback and restoring them when it fails.
type fakeTxManager struct {
	userRepo    *fakeUserRepo
	accountRepo *fakeAccountRepo

	beginErr error
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}

	usersBefore := m.userRepo.snapshot()
	accountsBefore := m.accountRepo.snapshot()

	if err := fn(m); err != nil {
		m.userRepo.restore(usersBefore)
		m.accountRepo.restore(accountsBefore)

		return err
	}

	return nil
}

func (m *fakeTxManager) UserRepo() repository.UserRepository { return m.userRepo }

func (m *fakeTxManager) AccountRepo() repository.AccountRepository { return m.accountRepo }

// --- fake session store ---

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	nextID   int

	createErr  error
	destroyErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*entity.Session)}
}

func (s *fakeSessionStore) Create(_ context.Context, userID uuid.UUID) (*entity.Session, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	session := &entity.Session{
		ID:        fmt.Sprintf("session-%04d", s.nextID),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.sessions[session.ID] = session

	return session, nil
}

func (s *fakeSessionStore) Resolve(_ context.Context, sessionID string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		return session, nil
	}

	return nil, service.ErrSessionNotFound
}

func (s *fakeSessionStore) Destroy(_ context.Context, sessionID string) error {
	if s.destroyErr != nil {
		return s.destroyErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)

	return nil
}

func (s *fakeSessionStore) ListByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Session
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, session)
		}
	}

	return out, nil
}

func (s *fakeSessionStore) DestroyAllForUser(_ context.Context, userID uuid.UUID, spare string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	destroyed := 0
	for id, session := range s.sessions {
		if session.UserID == userID && id != spare {
			delete(s.sessions, id)
			destroyed++
		}
	}

	return destroyed, nil
}

func (s *fakeSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// --- fake mailer ---

type sentMail struct {
	to   string
	code string
	url  string
}

type fakeMailer struct {
	mu       sync.Mutex
	otpMails []sentMail
	resets   []sentMail

	sendErr error
}

func (m *fakeMailer) SendOTPEmail(_ context.Context, to, _ string, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.otpMails = append(m.otpMails, sentMail{to: to, code: code})

	return nil
}

func (m *fakeMailer) SendPasswordResetEmail(_ context.Context, to, _ string, resetURL string) error {
	if m.sendErr != nil {
		return m.sendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, sentMail{to: to, url: resetURL})

	return nil
}

// --- fake OTP generator ---

type fakeOTPGenerator struct {
	code      string
	expiresAt time.Time
	err       error
}

func (g *fakeOTPGenerator) Generate() (string, time.Time, error) {
	if g.err != nil {
		return "", time.Time{}, g.err
	}

	return g.code, g.expiresAt, nil
}

// --- fake reset token codec ---

// fakeResetTokenCodec issues predictable tokens raw-1, raw-2, ... and hashes
// with real SHA-256 so lookups behave like production.
type fakeResetTokenCodec struct {
	mu     sync.Mutex
	issued int
	ttl    time.Duration
}

func (c *fakeResetTokenCodec) Generate() (string, string, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	raw := fmt.Sprintf("raw-%d", c.issued)

	return raw, c.HashToken(raw), time.Now().Add(c.ttl), nil
}

func (c *fakeResetTokenCodec) HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}

// --- fake password hasher ---

// fakeHasher marks hashes with a prefix instead of running bcrypt.
type fakeHasher struct {
	hashErr error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}

	return "hashed:" + password, nil
}

func (h *fakeHasher) Check(password, hash string) bool {
	return hash != "" && hash == "hashed:"+password
}

func (h *fakeHasher) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	return nil
}

// --- fake OAuth service ---

type fakeOAuthService struct {
	mu          sync.Mutex
	validStates map[string]bool
	profile     *service.OAuthUser
	exchangeErr error
}

func newFakeOAuthService(profile *service.OAuthUser) *fakeOAuthService {
	return &fakeOAuthService{
		validStates: make(map[string]bool),
		profile:     profile,
	}
}

func (s *fakeOAuthService) GenerateState() string {
	return "state-token"
}

func (s *fakeOAuthService) BuildAuthorizationURL(state string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validStates[state] = true

	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}

func (s *fakeOAuthService) ValidateState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.validStates[state] {
		delete(s.validStates, state)

		return true
	}

	return false
}

func (s *fakeOAuthService) ExchangeCode(_ context.Context, code string) (*service.OAuthUser, error) {
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	if !strings.HasPrefix(code, "code-") {
		return nil, fmt.Errorf("unexpected code %q", code)
	}

	copied := *s.profile

	return &copied, nil
}

func (s *fakeOAuthService) Provider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}
