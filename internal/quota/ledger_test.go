package quota

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"glow/internal/config"
	"glow/internal/domain"
	"glow/internal/domain/models"
)

// fakeUserRepo serves canned users and counts usage increments.
type fakeUserRepo struct {
	users      map[string]*models.User
	increments int
}

func (r *fakeUserRepo) GetUser(_ context.Context, userID string) (*models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) IncrementUsage(_ context.Context, userID string) error {
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.TotalMessages++
	user.MonthlyMessages++
	r.increments++
	return nil
}

func newTestLedger(users *fakeUserRepo) (*Ledger, *SessionStore, *SessionStore) {
	session := NewSessionStore()
	cache := NewSessionStore()
	ledger := NewLedger(users, session, cache, slog.New(slog.DiscardHandler))
	return ledger, session, cache
}

func TestCheckIdentified(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name        string
		user        models.User
		wantAllowed bool
		wantLimit   int
	}{
		{
			name:        "free user under limit",
			user:        models.User{MonthlyMessages: config.FreeMessageLimit - 1},
			wantAllowed: true,
			wantLimit:   config.FreeMessageLimit,
		},
		{
			name:        "free user at limit",
			user:        models.User{MonthlyMessages: config.FreeMessageLimit},
			wantAllowed: false,
			wantLimit:   config.FreeMessageLimit,
		},
		{
			name:        "premium user past free limit",
			user:        models.User{IsPremium: true, PremiumExpiresAt: &future, MonthlyMessages: config.FreeMessageLimit + 5},
			wantAllowed: true,
			wantLimit:   config.PremiumMessageLimit,
		},
		{
			name:        "premium user at premium limit",
			user:        models.User{IsPremium: true, PremiumExpiresAt: &future, MonthlyMessages: config.PremiumMessageLimit},
			wantAllowed: false,
			wantLimit:   config.PremiumMessageLimit,
		},
		{
			name:        "expired premium falls back to free limit",
			user:        models.User{IsPremium: true, PremiumExpiresAt: &past, MonthlyMessages: config.FreeMessageLimit},
			wantAllowed: false,
			wantLimit:   config.FreeMessageLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			user.ID = "user-1"
			ledger, _, _ := newTestLedger(&fakeUserRepo{users: map[string]*models.User{"user-1": &user}})

			allowed, limit, err := ledger.CheckIdentified(context.Background(), "user-1")
			if err != nil {
				t.Fatalf("CheckIdentified failed: %v", err)
			}
			if allowed != tt.wantAllowed {
				t.Errorf("allowed = %v, want %v", allowed, tt.wantAllowed)
			}
			if limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", limit, tt.wantLimit)
			}
		})
	}
}

func TestCheckIdentified_UnknownUser(t *testing.T) {
	ledger, _, _ := newTestLedger(&fakeUserRepo{users: map[string]*models.User{}})

	_, _, err := ledger.CheckIdentified(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestDebitIdentified(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", MonthlyMessages: 4, TotalMessages: 20},
	}}
	ledger, _, _ := newTestLedger(users)

	if err := ledger.DebitIdentified(context.Background(), "user-1"); err != nil {
		t.Fatalf("DebitIdentified failed: %v", err)
	}

	user := users.users["user-1"]
	if user.MonthlyMessages != 5 {
		t.Errorf("monthly = %d, want 5", user.MonthlyMessages)
	}
	if user.TotalMessages != 21 {
		t.Errorf("total = %d, want 21", user.TotalMessages)
	}
}

func TestCheckGuest_UnknownGuest(t *testing.T) {
	ledger, _, _ := newTestLedger(&fakeUserRepo{})

	remaining, err := ledger.CheckGuest(context.Background(), "guest_new")
	if err != nil {
		t.Fatalf("CheckGuest failed: %v", err)
	}
	if remaining != config.GuestMessageLimit {
		t.Errorf("remaining = %d, want %d", remaining, config.GuestMessageLimit)
	}
}

func TestDebitGuest_WritesBothStores(t *testing.T) {
	ledger, session, cache := newTestLedger(&fakeUserRepo{})
	ctx := context.Background()

	remaining, err := ledger.DebitGuest(ctx, "guest_a")
	if err != nil {
		t.Fatalf("DebitGuest failed: %v", err)
	}
	if remaining != config.GuestMessageLimit-1 {
		t.Errorf("remaining = %d, want %d", remaining, config.GuestMessageLimit-1)
	}

	for name, store := range map[string]*SessionStore{"session": session, "cache": cache} {
		count, ok, err := store.Get(ctx, "guest_a")
		if err != nil || !ok {
			t.Fatalf("%s store read: ok=%v err=%v", name, ok, err)
		}
		if count != 1 {
			t.Errorf("%s store count = %d, want 1", name, count)
		}
	}
}

func TestDebitGuest_Exhaustion(t *testing.T) {
	ledger, _, _ := newTestLedger(&fakeUserRepo{})
	ctx := context.Background()

	var remaining int
	var err error
	for i := 0; i < config.GuestMessageLimit; i++ {
		remaining, err = ledger.DebitGuest(ctx, "guest_b")
		if err != nil {
			t.Fatalf("debit %d failed: %v", i+1, err)
		}
	}
	if remaining != 0 {
		t.Errorf("remaining after exhaustion = %d, want 0", remaining)
	}

	remaining, err = ledger.CheckGuest(ctx, "guest_b")
	if err != nil {
		t.Fatalf("CheckGuest failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("CheckGuest remaining = %d, want 0", remaining)
	}
}

func TestEffectiveGuestCount_MaxMerge(t *testing.T) {
	ledger, session, cache := newTestLedger(&fakeUserRepo{})
	ctx := context.Background()

	// The stores can disagree after a partial write or a restart; the
	// higher count must win so a stale store never refunds quota.
	if err := session.Set(ctx, "guest_c", 1, time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := cache.Set(ctx, "guest_c", 2, time.Hour); err != nil {
		t.Fatal(err)
	}

	remaining, err := ledger.CheckGuest(ctx, "guest_c")
	if err != nil {
		t.Fatalf("CheckGuest failed: %v", err)
	}
	if want := config.GuestMessageLimit - 2; remaining != want {
		t.Errorf("remaining = %d, want %d", remaining, want)
	}
}

func TestEffectiveGuestCount_SessionLossFallsBackToCache(t *testing.T) {
	ledger, session, cache := newTestLedger(&fakeUserRepo{})
	ctx := context.Background()

	if _, err := ledger.DebitGuest(ctx, "guest_d"); err != nil {
		t.Fatalf("DebitGuest failed: %v", err)
	}
	if _, err := ledger.DebitGuest(ctx, "guest_d"); err != nil {
		t.Fatalf("DebitGuest failed: %v", err)
	}

	// Simulate a process restart wiping the in-process store
	session.mu.Lock()
	session.entries = make(map[string]sessionEntry)
	session.mu.Unlock()

	remaining, err := ledger.CheckGuest(ctx, "guest_d")
	if err != nil {
		t.Fatalf("CheckGuest failed: %v", err)
	}
	if want := config.GuestMessageLimit - 2; remaining != want {
		t.Errorf("remaining after session loss = %d, want %d", remaining, want)
	}

	count, ok, err := cache.Get(ctx, "guest_d")
	if err != nil || !ok || count != 2 {
		t.Errorf("cache count = %d ok=%v err=%v, want 2", count, ok, err)
	}
}
