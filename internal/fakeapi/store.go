package fakeapi

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"alcyxob/gym-backoffice/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateEmail  = errors.New("Email already registered")
	ErrDuplicateNumber = errors.New("Equipment number already exists")
	ErrBadCredentials  = errors.New("Invalid credentials")
	ErrWrongPassword   = errors.New("Current password is incorrect")
)

// OperatorRole is the role every registered operator is given.
const OperatorRole = "gym_owner"

type operatorAccount struct {
	operator     domain.Operator
	passwordHash string
}

// Store is the backend's in-memory state. Collections keep insertion order.
type Store struct {
	mu        sync.RWMutex
	operators map[string]operatorAccount // by lower-cased email
	members   []domain.Member
	equipment []domain.Equipment
	support   []domain.SupportQuery
	memberSeq int
}

func NewStore() *Store {
	return &Store{operators: map[string]operatorAccount{}}
}

// AddOperator registers a back-office login.
func (s *Store) AddOperator(name, email, password string) (domain.Operator, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return domain.Operator{}, fmt.Errorf("hash password: %w", err)
	}
	op := domain.Operator{ID: uuid.NewString(), Name: name, Email: email, Role: OperatorRole}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators[strings.ToLower(email)] = operatorAccount{operator: op, passwordHash: string(hashed)}
	return op, nil
}

// Authenticate checks an operator's email and password.
func (s *Store) Authenticate(email, password string) (domain.Operator, error) {
	s.mu.RLock()
	acct, ok := s.operators[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return domain.Operator{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(password)); err != nil {
		return domain.Operator{}, ErrBadCredentials
	}
	return acct.operator, nil
}

// Operator returns the operator with id.
func (s *Store) Operator(id string) (domain.Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, acct, ok := s.operatorLocked(id)
	if !ok {
		return domain.Operator{}, ErrNotFound
	}
	return acct.operator, nil
}

// UpdateOperator saves name, email and phone. The profile image is only
// replaced when patch carries one. The login email follows the profile.
func (s *Store) UpdateOperator(id string, patch domain.Operator) (domain.Operator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, acct, ok := s.operatorLocked(id)
	if !ok {
		return domain.Operator{}, ErrNotFound
	}
	newKey := strings.ToLower(strings.TrimSpace(patch.Email))
	if other, taken := s.operators[newKey]; taken && other.operator.ID != id {
		return domain.Operator{}, ErrDuplicateEmail
	}

	op := acct.operator
	op.Name = patch.Name
	op.Email = strings.TrimSpace(patch.Email)
	op.Phone = patch.Phone
	if patch.ProfileImage != "" {
		op.ProfileImage = patch.ProfileImage
	}
	acct.operator = op
	delete(s.operators, key)
	s.operators[newKey] = acct
	return op, nil
}

// ChangePassword replaces the password hash once oldPassword matches.
func (s *Store) ChangePassword(id, oldPassword, newPassword string) error {
	s.mu.RLock()
	key, acct, ok := s.operatorLocked(id)
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.operators[key]; ok && cur.operator.ID == id {
		cur.passwordHash = string(hashed)
		s.operators[key] = cur
	}
	return nil
}

func (s *Store) operatorLocked(id string) (string, operatorAccount, bool) {
	for key, acct := range s.operators {
		if acct.operator.ID == id {
			return key, acct, true
		}
	}
	return "", operatorAccount{}, false
}

// --- Members ---

func (s *Store) Members() []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.members)
}

func (s *Store) Member(id string) (domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexByID(s.members, id); i >= 0 {
		return s.members[i], nil
	}
	return domain.Member{}, ErrNotFound
}

// CreateMember assigns the id and member code.
func (s *Store) CreateMember(m domain.Member) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(m.Email, "") {
		return domain.Member{}, ErrDuplicateEmail
	}
	s.memberSeq++
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.UniqueID == "" {
		m.UniqueID = fmt.Sprintf("MEM%03d", s.memberSeq)
	}
	s.members = append(s.members, m)
	return m, nil
}

// UpdateMember replaces the record; id and member code are kept.
func (s *Store) UpdateMember(id string, m domain.Member) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.members, id)
	if i < 0 {
		return domain.Member{}, ErrNotFound
	}
	if s.emailTaken(m.Email, id) {
		return domain.Member{}, ErrDuplicateEmail
	}
	m.ID = id
	m.UniqueID = s.members[i].UniqueID
	if m.ProfileImage == "" {
		m.ProfileImage = s.members[i].ProfileImage
	}
	s.members[i] = m
	return m, nil
}

func (s *Store) DeleteMember(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.members, id)
	if i < 0 {
		return ErrNotFound
	}
	s.members = slices.Delete(s.members, i, i+1)
	return nil
}

func (s *Store) emailTaken(email, exceptID string) bool {
	for _, m := range s.members {
		if m.ID != exceptID && strings.EqualFold(m.Email, email) {
			return true
		}
	}
	return false
}

// --- Equipment ---

// Equipment returns all equipment, or only category when it is set.
func (s *Store) Equipment(category domain.Category) []domain.Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Equipment, 0, len(s.equipment))
	for _, e := range s.equipment {
		if category == "" || e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) CreateEquipment(e domain.Equipment) (domain.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.numberTaken(e.Number, "") {
		return domain.Equipment{}, ErrDuplicateNumber
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.equipment = append(s.equipment, e)
	return e, nil
}

func (s *Store) UpdateEquipment(id string, e domain.Equipment) (domain.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.equipment, id)
	if i < 0 {
		return domain.Equipment{}, ErrNotFound
	}
	if s.numberTaken(e.Number, id) {
		return domain.Equipment{}, ErrDuplicateNumber
	}
	e.ID = id
	if e.Image == "" {
		e.Image = s.equipment[i].Image
	}
	s.equipment[i] = e
	return e, nil
}

func (s *Store) DeleteEquipment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexByID(s.equipment, id)
	if i < 0 {
		return ErrNotFound
	}
	s.equipment = slices.Delete(s.equipment, i, i+1)
	return nil
}

func (s *Store) numberTaken(number, exceptID string) bool {
	for _, e := range s.equipment {
		if e.ID != exceptID && strings.EqualFold(strings.TrimSpace(e.Number), strings.TrimSpace(number)) {
			return true
		}
	}
	return false
}

// --- Support ---

func (s *Store) AddSupport(q domain.SupportQuery) domain.SupportQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	s.support = append(s.support, q)
	return q
}

func (s *Store) Support() []domain.SupportQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.support)
}

type identified interface {
	RecordID() string
}

func indexByID[T identified](records []T, id string) int {
	return slices.IndexFunc(records, func(r T) bool { return r.RecordID() == id })
}
