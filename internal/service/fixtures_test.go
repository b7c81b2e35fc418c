package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bekind-internal/internal/domain"
	"bekind-internal/internal/repository"
	"bekind-internal/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ict = time.FixedZone("ICT", 7*3600)

type fixture struct {
	mem      *repository.MemoryStore
	events   *recordingPublisher
	sessions *store.SessionStore

	lookups   *LookupService
	guests    *GuestService
	accounts  *AccountService
	houses    *HouseService
	auth      *AuthService
	analytics *AnalyticsService

	admin, hung, mai, lan, other domain.Account
	leLoi, tranPhu             int64
	guestAn                    int64
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []GuestEvent
}

func (p *recordingPublisher) PublishGuestEvent(_ context.Context, e GuestEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []string{}
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	mem := repository.NewMemoryStore()

	f := &fixture{mem: mem, events: &recordingPublisher{}}
	f.sessions = store.NewSessionStore(store.NewMemoryKV(), time.Hour)

	mk := func(name, phone string, role domain.Role) domain.Account {
		a, err := mem.CreateAccount(ctx, &domain.Account{FullName: name, PhoneNumber: phone, Role: role})
		require.NoError(t, err)
		return *a
	}
	f.admin = mk("Quang", "0900", domain.RoleAdmin)
	f.hung = mk("Hùng", "0901", domain.RoleManager)
	f.mai = mk("Mai", "0902", domain.RoleManager)
	f.lan = mk("Lan", "0903", domain.RoleMarketer)
	f.other = mk("Someone Else", "0904", domain.RoleMarketer)

	h1, err := mem.CreateHouse(ctx, &domain.House{Address: "12 Lê Lợi", ManagerID: f.hung.ID})
	require.NoError(t, err)
	f.leLoi = h1.ID
	tu := mk("Tú", "0905", domain.RoleManager)
	h2, err := mem.CreateHouse(ctx, &domain.House{Address: "3 Trần Phú", ManagerID: tu.ID})
	require.NoError(t, err)
	f.tranPhu = h2.ID

	g, err := mem.CreateGuest(ctx, &domain.Guest{
		MarketerID:       f.lan.ID,
		HouseID:          f.leLoi,
		GuestName:        "An",
		GuestPhoneNumber: "0911",
		Status:           domain.GuestStatusNew,
	})
	require.NoError(t, err)
	f.guestAn = g.ID

	f.lookups = NewLookupService(mem, mem, logger)
	f.guests = NewGuestService(mem, f.lookups, f.events, ict, logger)
	f.accounts = NewAccountService(mem, f.sessions, ict, logger)
	f.houses = NewHouseService(mem, f.lookups, ict, logger)
	f.auth = NewAuthService(mem, f.sessions, ict, logger)
	f.analytics = NewAnalyticsService(mem, ict, logger)
	return f
}

func requireKind(t *testing.T, err error, kind ErrorKind, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), err.Error())
	if msg != "" {
		require.Equal(t, msg, MessageOf(err))
	}
}
