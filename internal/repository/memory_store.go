package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/policy"
)

// MemoryStore 无数据库时的内存实现（GATEWAY=memory 与服务层测试）
// 三个实体共用一把锁，便于做 join
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]domain.Account
	houses   map[int64]domain.House
	guests   map[int64]domain.Guest
	calls    map[string]int
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: map[int64]domain.Account{},
		houses:   map[int64]domain.House{},
		guests:   map[int64]domain.Guest{},
		calls:    map[string]int{},
		now:      time.Now,
	}
}

var (
	_ AccountsRepository = (*MemoryStore)(nil)
	_ HousesRepository   = (*MemoryStore)(nil)
	_ GuestsRepository   = (*MemoryStore)(nil)
)

// Store 包装为 Store
func (m *MemoryStore) Store() *Store {
	return &Store{Accounts: m, Houses: m, Guests: m}
}

// Calls 某个方法被调用的次数
func (m *MemoryStore) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

func (m *MemoryStore) record(method string) {
	m.calls[method]++
}

func (m *MemoryStore) newID() int64 {
	m.nextID++
	return m.nextID
}

// --- Accounts ---

func (m *MemoryStore) ListAccounts(_ context.Context, filter AccountsFilter) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListAccounts")

	out := []domain.Account{}
	for _, a := range m.accounts {
		if filter.Role != nil && a.Role != *filter.Role {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetAccount(_ context.Context, id int64) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetAccount")

	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStore) GetAccountByPhone(_ context.Context, phone string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetAccountByPhone")

	for _, a := range m.accounts {
		if a.PhoneNumber == phone {
			a := a
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateAccount(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if account == nil {
		return nil, fmt.Errorf("account is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateAccount")

	if m.phoneTaken(account.PhoneNumber, 0) {
		return nil, ErrDuplicate
	}
	a := *account
	a.ID = m.newID()
	a.CreatedAt = m.now()
	m.accounts[a.ID] = a
	return &a, nil
}

func (m *MemoryStore) phoneTaken(phone string, exceptID int64) bool {
	for id, a := range m.accounts {
		if id != exceptID && a.PhoneNumber == phone {
			return true
		}
	}
	return false
}

func (m *MemoryStore) UpdateAccount(_ context.Context, id int64, patch domain.AccountPatch) (*domain.Account, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("no fields to update")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateAccount")

	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.PhoneNumber != nil && m.phoneTaken(*patch.PhoneNumber, id) {
		return nil, ErrDuplicate
	}
	if patch.FullName != nil {
		a.FullName = *patch.FullName
	}
	if patch.PhoneNumber != nil {
		a.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Role != nil {
		a.Role = *patch.Role
	}
	m.accounts[id] = a
	return &a, nil
}

func (m *MemoryStore) DeleteAccount(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteAccount")

	if _, ok := m.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(m.accounts, id)
	// 与 ON DELETE SET NULL 一致
	for hid, h := range m.houses {
		if h.ManagerID == id {
			h.ManagerID = 0
			m.houses[hid] = h
		}
	}
	return nil
}

// --- Houses ---

func (m *MemoryStore) withManager(h domain.House) domain.HouseWithManager {
	out := domain.HouseWithManager{House: h}
	if mgr, ok := m.accounts[h.ManagerID]; ok {
		out.ManagerName = mgr.FullName
	}
	return out
}

func (m *MemoryStore) ListHouses(_ context.Context, filter HousesFilter) ([]domain.HouseWithManager, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListHouses")

	out := []domain.HouseWithManager{}
	for _, h := range m.houses {
		if filter.ManagerID != nil && h.ManagerID != *filter.ManagerID {
			continue
		}
		out = append(out, m.withManager(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetHouse(_ context.Context, id int64) (*domain.HouseWithManager, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetHouse")

	h, ok := m.houses[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := m.withManager(h)
	return &out, nil
}

func (m *MemoryStore) CreateHouse(_ context.Context, house *domain.House) (*domain.House, error) {
	if house == nil {
		return nil, fmt.Errorf("house is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateHouse")

	h := *house
	h.ID = m.newID()
	h.CreatedAt = m.now()
	m.houses[h.ID] = h
	return &h, nil
}

func (m *MemoryStore) UpdateHouse(_ context.Context, id int64, patch domain.HousePatch) (*domain.House, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("no fields to update")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateHouse")

	h, ok := m.houses[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Address != nil {
		h.Address = *patch.Address
	}
	if patch.ManagerID != nil {
		h.ManagerID = *patch.ManagerID
	}
	m.houses[id] = h
	return &h, nil
}

func (m *MemoryStore) DeleteHouse(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteHouse")

	if _, ok := m.houses[id]; !ok {
		return ErrNotFound
	}
	for _, g := range m.guests {
		if g.HouseID == id {
			return fmt.Errorf("house %d is referenced by guest %d", id, g.ID)
		}
	}
	delete(m.houses, id)
	return nil
}

// --- Guests ---

func (m *MemoryStore) detail(g domain.Guest) domain.GuestDetail {
	d := domain.GuestDetail{Guest: g}
	if h, ok := m.houses[g.HouseID]; ok {
		d.HouseAddress = h.Address
		d.ManagerID = h.ManagerID
		if mgr, ok := m.accounts[h.ManagerID]; ok {
			d.ManagerName = mgr.FullName
		}
	}
	if mk, ok := m.accounts[g.MarketerID]; ok {
		d.MarketerName = mk.FullName
		d.MarketerPhone = mk.PhoneNumber
	}
	return d
}

func (m *MemoryStore) ListGuests(_ context.Context, filter policy.GuestFilter) ([]domain.GuestDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListGuests")

	out := []domain.GuestDetail{}
	if filter.Empty() {
		return out, nil
	}
	for _, g := range m.guests {
		g := g
		if filter.Match(&g) {
			out = append(out, m.detail(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) GetGuest(_ context.Context, id int64) (*domain.GuestDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetGuest")

	g, ok := m.guests[id]
	if !ok {
		return nil, ErrNotFound
	}
	d := m.detail(g)
	return &d, nil
}

func (m *MemoryStore) CreateGuest(_ context.Context, guest *domain.Guest) (*domain.Guest, error) {
	if guest == nil {
		return nil, fmt.Errorf("guest is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateGuest")

	if _, ok := m.accounts[guest.MarketerID]; !ok {
		return nil, fmt.Errorf("marketer %d does not exist", guest.MarketerID)
	}
	if _, ok := m.houses[guest.HouseID]; !ok {
		return nil, fmt.Errorf("house %d does not exist", guest.HouseID)
	}
	g := *guest
	g.ID = m.newID()
	g.CreatedAt = m.now()
	if g.Status == "" {
		g.Status = domain.GuestStatusNew
	}
	m.guests[g.ID] = g
	return &g, nil
}

func (m *MemoryStore) UpdateGuest(_ context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("no fields to update")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateGuest")

	g, ok := m.guests[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&g)
	m.guests[id] = g
	return &g, nil
}

func (m *MemoryStore) DeleteGuest(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteGuest")

	if _, ok := m.guests[id]; !ok {
		return ErrNotFound
	}
	delete(m.guests, id)
	return nil
}

func (m *MemoryStore) CountByManagerAndStatus(_ context.Context, start, end time.Time) ([]domain.StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CountByManagerAndStatus")

	return groupStatusCounts(m.guestsBetween(start, end), func(d domain.GuestDetail) (int64, string, bool) {
		return d.ManagerID, d.ManagerName, d.ManagerID != 0 && d.ManagerName != ""
	}), nil
}

func (m *MemoryStore) CountByMarketerAndStatus(_ context.Context, start, end time.Time) ([]domain.StatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CountByMarketerAndStatus")

	return groupStatusCounts(m.guestsBetween(start, end), func(d domain.GuestDetail) (int64, string, bool) {
		return d.MarketerID, d.MarketerName, d.MarketerName != ""
	}), nil
}

func (m *MemoryStore) guestsBetween(start, end time.Time) []domain.GuestDetail {
	out := []domain.GuestDetail{}
	for _, g := range m.guests {
		if g.CreatedAt.Before(start) || g.CreatedAt.After(end) {
			continue
		}
		out = append(out, m.detail(g))
	}
	return out
}

// SetClock 测试用：固定 created_at
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}
