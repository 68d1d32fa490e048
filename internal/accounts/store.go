package accounts

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/teller/internal/id"
	"github.com/cleared-dev/teller/internal/model"
)

// Store is the in-memory account roster for one run. All methods take the
// store lock, so a Store may be shared, but only one writer runs at a time.
type Store struct {
	mu       sync.Mutex
	byNumber map[string]*model.Account
	seq      id.Sequence
}

// NewStore creates a Store from a slice of accounts. Later duplicates win.
func NewStore(accounts []model.Account) *Store {
	s := &Store{byNumber: make(map[string]*model.Account, len(accounts))}
	for _, a := range accounts {
		acct := a
		s.byNumber[acct.Number] = &acct
		s.seq.Observe(acct.Number)
	}
	return s
}

// Load reads a roster file and returns a Store.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	return NewStore(accts), nil
}

// Save writes the current roster to path.
func (s *Store) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating roster file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.All()); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}
	return nil
}

// Len returns the number of accounts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byNumber)
}

// All returns copies of every account ordered by account number.
func (s *Store) All() []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Account, 0, len(s.byNumber))
	for _, n := range s.numbers() {
		out = append(out, *s.byNumber[n])
	}
	return out
}

// Get returns a copy of the account with the given number.
func (s *Store) Get(number string) (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byNumber[strings.TrimSpace(number)]
	if !ok {
		return model.Account{}, false
	}
	return *a, true
}

// Exists reports whether an account number exists.
func (s *Store) Exists(number string) bool {
	_, ok := s.Get(number)
	return ok
}

// FindByHolder returns the lowest-numbered account whose holder matches name.
func (s *Store) FindByHolder(name string) (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := model.NormalizeHolder(name)
	if want == "" {
		return model.Account{}, false
	}
	for _, n := range s.numbers() {
		if model.NormalizeHolder(s.byNumber[n].Holder) == want {
			return *s.byNumber[n], true
		}
	}
	return model.Account{}, false
}

// NextNumber returns the number the next Insert will assign.
func (s *Store) NextNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Peek()
}

// Insert creates an active student-plan account with the next free number.
func (s *Store) Insert(holder string, balance decimal.Decimal) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	number, err := s.seq.Next()
	if err != nil {
		return model.Account{}, err
	}
	acct := &model.Account{
		Number:       number,
		Holder:       strings.TrimSpace(holder),
		Balance:      balance,
		Availability: model.Active,
		Plan:         model.StudentPlan,
	}
	s.byNumber[number] = acct
	return *acct, nil
}

// Remove deletes an account and returns its final state.
func (s *Store) Remove(number string) (model.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byNumber[number]
	if !ok {
		return model.Account{}, false
	}
	delete(s.byNumber, number)
	return *a, true
}

// Update applies fn to the stored account and returns the result.
func (s *Store) Update(number string, fn func(*model.Account)) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byNumber[number]
	if !ok {
		return model.Account{}, fmt.Errorf("account %s: %w", number, model.ErrNotFound)
	}
	fn(a)
	return *a, nil
}

// Transfer debits from and credits to in one step.
func (s *Store) Transfer(from, to string, amount decimal.Decimal) (model.Account, model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.byNumber[from]
	if !ok {
		return model.Account{}, model.Account{}, fmt.Errorf("account %s: %w", from, model.ErrNotFound)
	}
	dst, ok := s.byNumber[to]
	if !ok {
		return model.Account{}, model.Account{}, fmt.Errorf("account %s: %w", to, model.ErrNotFound)
	}
	src.Balance = src.Balance.Sub(amount)
	dst.Balance = dst.Balance.Add(amount)
	return *src, *dst, nil
}

// Snapshot is a point-in-time copy of a Store taken by Store.Snapshot.
type Snapshot struct {
	accounts []model.Account
	seq      id.Sequence
}

// Snapshot copies every account and the number sequence.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{accounts: make([]model.Account, 0, len(s.byNumber)), seq: s.seq}
	for _, a := range s.byNumber {
		snap.accounts = append(snap.accounts, *a)
	}
	return snap
}

// Restore puts the store back to snap. Numbers issued since snap are
// released again.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byNumber = make(map[string]*model.Account, len(snap.accounts))
	for _, a := range snap.accounts {
		acct := a
		s.byNumber[acct.Number] = &acct
	}
	s.seq = snap.seq
}

// Total returns the sum of all balances.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, a := range s.byNumber {
		total = total.Add(a.Balance)
	}
	return total
}

// numbers returns account numbers in ascending order. Caller holds mu.
func (s *Store) numbers() []string {
	out := make([]string, 0, len(s.byNumber))
	for n := range s.byNumber {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
