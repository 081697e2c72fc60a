package auth

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/rtdb/logging"
)

// Options configures a Store.
type Options struct {
	// Secret signs custom tokens. An empty secret disables token creation.
	Secret []byte
	// Issuer is written to the iss claim of custom tokens.
	Issuer string
	// TokenTTL is the lifetime of custom tokens.
	TokenTTL time.Duration
	// Clock returns the current time.
	Clock func() time.Time
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// InMemoryStore is a volatile identity store keeping user records in a
// process local map. It is safe for concurrent access. Records are cloned on
// the way in and out so callers never share state with the store.
type InMemoryStore struct {
	opts Options

	mu    sync.RWMutex
	users map[string]*UserRecord
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{
		Issuer:   "rtdb",
		TokenTTL: time.Hour,
		Clock:    time.Now,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &InMemoryStore{opts: opts, users: make(map[string]*UserRecord)}
}

// CreateUser stores a new record. A missing uid is generated. The uid,
// email and phone number must not be used by another record.
func (s *InMemoryStore) CreateUser(rec UserRecord) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUniqueLocked(&rec, ""); err != nil {
		return nil, err
	}
	if rec.UID == "" {
		rec.UID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.opts.Clock()
	}
	stored := rec.Clone()
	s.users[stored.UID] = stored
	s.opts.Logger.Debug("User created", "uid", stored.UID)
	return stored.Clone(), nil
}

// GetUser returns the record with the given uid.
func (s *InMemoryStore) GetUser(uid string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	return rec.Clone(), nil
}

// GetUserByEmail returns the record with the given email.
func (s *InMemoryStore) GetUserByEmail(email string) (*UserRecord, error) {
	return s.findBy(func(r *UserRecord) bool { return r.Email == email })
}

// GetUserByPhoneNumber returns the record with the given phone number.
func (s *InMemoryStore) GetUserByPhoneNumber(phone string) (*UserRecord, error) {
	return s.findBy(func(r *UserRecord) bool { return r.PhoneNumber == phone })
}

func (s *InMemoryStore) findBy(match func(*UserRecord) bool) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, uid := range s.sortedUIDsLocked() {
		if rec := s.users[uid]; match(rec) {
			return rec.Clone(), nil
		}
	}
	return nil, ErrUserNotFound
}

// UpdateUser applies the non-nil properties of upd to the record.
func (s *InMemoryStore) UpdateUser(uid string, upd UserToUpdate) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	next := rec.Clone()
	upd.apply(next)
	if err := s.checkUniqueLocked(next, uid); err != nil {
		return nil, err
	}
	s.users[uid] = next
	return next.Clone(), nil
}

// DeleteUser removes the record. Deleting an unknown uid is not an error.
func (s *InMemoryStore) DeleteUser(uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, uid)
	return nil
}

// ListUsers returns every record ordered by uid.
func (s *InMemoryStore) ListUsers() []*UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*UserRecord, 0, len(s.users))
	for _, uid := range s.sortedUIDsLocked() {
		out = append(out, s.users[uid].Clone())
	}
	return out
}

// Import replaces every record with users. Uniqueness is checked across the
// imported set; on failure the store is left unchanged.
func (s *InMemoryStore) Import(users []UserRecord) error {
	staged := &InMemoryStore{opts: s.opts, users: make(map[string]*UserRecord, len(users))}
	for _, u := range users {
		if _, err := staged.CreateUser(u); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = staged.users
	s.opts.Logger.Info("Users imported", "count", len(users))
	return nil
}

// Clear drops every record.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*UserRecord)
}

// Len returns the number of records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// checkUniqueLocked rejects rec when one of its unique properties is used by
// a record other than self. Caller must hold the lock.
func (s *InMemoryStore) checkUniqueLocked(rec *UserRecord, self string) error {
	for _, uid := range s.sortedUIDsLocked() {
		if uid == self {
			continue
		}
		other := s.users[uid]
		switch {
		case rec.UID != "" && rec.UID == other.UID:
			return alreadyExists("uid", rec.UID)
		case rec.Email != "" && rec.Email == other.Email:
			return alreadyExists("email", rec.Email)
		case rec.PhoneNumber != "" && rec.PhoneNumber == other.PhoneNumber:
			return alreadyExists("phoneNumber", rec.PhoneNumber)
		}
	}
	return nil
}

func (s *InMemoryStore) sortedUIDsLocked() []string {
	uids := make([]string, 0, len(s.users))
	for uid := range s.users {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}
