package membership

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirestack/ats-backend-go/internal/domain/company"
	"github.com/hirestack/ats-backend-go/internal/domain/membership"
)

// fakeTx collects the locks a transaction acquires so they are released
// together when it ends, the way the store holds row locks until commit.
type fakeTx struct {
	held []*sync.Mutex
}

type fakeTxKey struct{}

// fakeTxManager deliberately provides no serialization of its own. Two
// transactions only block each other on the locks they explicitly take, the
// same granularity the store gives: disjoint row locks do not conflict.
type fakeTxManager struct{}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &fakeTx{}
	err := fn(context.WithValue(ctx, fakeTxKey{}, tx))
	for i := len(tx.held) - 1; i >= 0; i-- {
		tx.held[i].Unlock()
	}
	return err
}

// lockForTx blocks until the lock is free, then holds it until the enclosing
// transaction ends. Outside a transaction it is a no-op.
func lockForTx(ctx context.Context, mu *sync.Mutex) {
	tx, ok := ctx.Value(fakeTxKey{}).(*fakeTx)
	if !ok {
		return
	}
	mu.Lock()
	tx.held = append(tx.held, mu)
}

// fakeMembershipRepo implements membership.MembershipRepository in memory
// with one lock per row, matching the store's FOR UPDATE granularity.
type fakeMembershipRepo struct {
	mu       sync.Mutex
	byID     map[string]membership.Membership
	rowLocks map[string]*sync.Mutex
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{
		byID:     make(map[string]membership.Membership),
		rowLocks: make(map[string]*sync.Mutex),
	}
}

func (f *fakeMembershipRepo) rowLock(id string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	mu, ok := f.rowLocks[id]
	if !ok {
		mu = &sync.Mutex{}
		f.rowLocks[id] = mu
	}
	return mu
}

func (f *fakeMembershipRepo) Create(ctx context.Context, m membership.Membership) (membership.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.UserID == m.UserID && existing.CompanyID == m.CompanyID {
			return membership.Membership{}, membership.ErrAlreadyMember
		}
	}
	f.byID[m.ID] = m
	return m, nil
}

func (f *fakeMembershipRepo) GetByID(ctx context.Context, id string) (membership.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return membership.Membership{}, membership.ErrMembershipNotFound
	}
	return m, nil
}

func (f *fakeMembershipRepo) GetByIDForUpdate(ctx context.Context, id string) (membership.Membership, error) {
	lockForTx(ctx, f.rowLock(id))
	return f.GetByID(ctx, id)
}

func (f *fakeMembershipRepo) GetByUserAndCompany(ctx context.Context, userID, companyID string) (membership.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.byID {
		if m.UserID == userID && m.CompanyID == companyID {
			return m, nil
		}
	}
	return membership.Membership{}, membership.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) ListByCompany(ctx context.Context, companyID string) ([]membership.MemberWithUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var members []membership.MemberWithUser
	for _, m := range f.byID {
		if m.CompanyID == companyID {
			members = append(members, membership.MemberWithUser{Membership: m})
		}
	}
	return members, nil
}

func (f *fakeMembershipRepo) CountAdmins(ctx context.Context, companyID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, m := range f.byID {
		if m.CompanyID == companyID && m.Role == membership.RoleAdmin {
			count++
		}
	}
	return count, nil
}

func (f *fakeMembershipRepo) UpdateRole(ctx context.Context, id string, role membership.Role) (membership.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return membership.Membership{}, membership.ErrMembershipNotFound
	}
	m.Role = role
	f.byID[id] = m
	return m, nil
}

func (f *fakeMembershipRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return membership.ErrMembershipNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeMembershipRepo) add(id, userID, companyID string, role membership.Role) {
	f.byID[id] = membership.Membership{ID: id, UserID: userID, CompanyID: companyID, Role: role}
}

// fakeCompanyRepo provides the company rows and their locks. Only the lock
// side matters to these tests.
type fakeCompanyRepo struct {
	mu       sync.Mutex
	byID     map[string]company.Company
	rowLocks map[string]*sync.Mutex
}

func newFakeCompanyRepo(ids ...string) *fakeCompanyRepo {
	f := &fakeCompanyRepo{
		byID:     make(map[string]company.Company),
		rowLocks: make(map[string]*sync.Mutex),
	}
	for _, id := range ids {
		f.byID[id] = company.Company{ID: id, Name: id}
	}
	return f
}

func (f *fakeCompanyRepo) rowLock(id string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	mu, ok := f.rowLocks[id]
	if !ok {
		mu = &sync.Mutex{}
		f.rowLocks[id] = mu
	}
	return mu
}

func (f *fakeCompanyRepo) Create(ctx context.Context, c company.Company) (company.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, id string) (company.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (f *fakeCompanyRepo) GetByIDForUpdate(ctx context.Context, id string) (company.Company, error) {
	lockForTx(ctx, f.rowLock(id))
	return f.GetByID(ctx, id)
}

func (f *fakeCompanyRepo) ListByUserID(ctx context.Context, userID string) ([]company.Company, error) {
	return nil, nil
}

func newTestService(repo *fakeMembershipRepo) membership.MembershipService {
	return NewMembershipService(repo, newFakeCompanyRepo("c-1", "c-2"), &fakeTxManager{})
}

func TestChangeRole_PromoteMember(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-admin", "u-admin", "c-1", membership.RoleAdmin)
	repo.add("m-rec", "u-rec", "c-1", membership.RoleRecruiter)
	svc := newTestService(repo)

	updated, err := svc.ChangeRole(context.Background(), "m-rec", membership.RoleAdmin, "u-admin")
	require.NoError(t, err)
	assert.Equal(t, membership.RoleAdmin, updated.Role)

	count, err := repo.CountAdmins(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestChangeRole_ActorNotMember(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-admin", "u-admin", "c-1", membership.RoleAdmin)
	svc := newTestService(repo)

	_, err := svc.ChangeRole(context.Background(), "m-admin", membership.RoleRecruiter, "u-stranger")
	assert.ErrorIs(t, err, membership.ErrNotCompanyAdmin)
}

func TestChangeRole_ActorNotAdmin(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-admin", "u-admin", "c-1", membership.RoleAdmin)
	repo.add("m-rec", "u-rec", "c-1", membership.RoleRecruiter)
	svc := newTestService(repo)

	_, err := svc.ChangeRole(context.Background(), "m-admin", membership.RoleRecruiter, "u-rec")
	assert.ErrorIs(t, err, membership.ErrNotCompanyAdmin)
}

func TestChangeRole_LastAdminDemotion(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-admin", "u-admin", "c-1", membership.RoleAdmin)
	repo.add("m-rec", "u-rec", "c-1", membership.RoleRecruiter)
	svc := newTestService(repo)

	_, err := svc.ChangeRole(context.Background(), "m-admin", membership.RoleRecruiter, "u-admin")
	assert.ErrorIs(t, err, membership.ErrLastAdmin)

	// Role unchanged
	m, err := repo.GetByID(context.Background(), "m-admin")
	require.NoError(t, err)
	assert.Equal(t, membership.RoleAdmin, m.Role)
}

func TestChangeRole_DemoteWithTwoAdmins(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-a1", "u-a1", "c-1", membership.RoleAdmin)
	repo.add("m-a2", "u-a2", "c-1", membership.RoleAdmin)
	svc := newTestService(repo)

	updated, err := svc.ChangeRole(context.Background(), "m-a2", membership.RoleHiringManager, "u-a1")
	require.NoError(t, err)
	assert.Equal(t, membership.RoleHiringManager, updated.Role)
}

func TestChangeRole_SameRoleIsNoop(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-admin", "u-admin", "c-1", membership.RoleAdmin)
	svc := newTestService(repo)

	// Re-assigning admin to the sole admin never counts as a demotion
	updated, err := svc.ChangeRole(context.Background(), "m-admin", membership.RoleAdmin, "u-admin")
	require.NoError(t, err)
	assert.Equal(t, membership.RoleAdmin, updated.Role)
}

func TestChangeRole_InvalidRole(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-admin", "u-admin", "c-1", membership.RoleAdmin)
	svc := newTestService(repo)

	_, err := svc.ChangeRole(context.Background(), "m-admin", membership.Role("owner"), "u-admin")
	assert.ErrorIs(t, err, membership.ErrInvalidRole)
}

func TestChangeRole_MembershipNotFound(t *testing.T) {
	repo := newFakeMembershipRepo()
	svc := newTestService(repo)

	_, err := svc.ChangeRole(context.Background(), "m-missing", membership.RoleAdmin, "u-admin")
	assert.ErrorIs(t, err, membership.ErrMembershipNotFound)
}

func TestRemoveMember_NonAdminTarget(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-admin", "u-admin", "c-1", membership.RoleAdmin)
	repo.add("m-rec", "u-rec", "c-1", membership.RoleRecruiter)
	svc := newTestService(repo)

	err := svc.RemoveMember(context.Background(), "m-rec", "u-admin")
	require.NoError(t, err)

	_, err = repo.GetByID(context.Background(), "m-rec")
	assert.ErrorIs(t, err, membership.ErrMembershipNotFound)
}

func TestRemoveMember_LastAdmin(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-admin", "u-admin", "c-1", membership.RoleAdmin)
	repo.add("m-rec", "u-rec", "c-1", membership.RoleRecruiter)
	svc := newTestService(repo)

	err := svc.RemoveMember(context.Background(), "m-admin", "u-admin")
	assert.ErrorIs(t, err, membership.ErrLastAdmin)

	_, err = repo.GetByID(context.Background(), "m-admin")
	assert.NoError(t, err)
}

func TestRemoveMember_AdminSelfRemovalWithBackup(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-a1", "u-a1", "c-1", membership.RoleAdmin)
	repo.add("m-a2", "u-a2", "c-1", membership.RoleAdmin)
	svc := newTestService(repo)

	err := svc.RemoveMember(context.Background(), "m-a1", "u-a1")
	require.NoError(t, err)

	count, err := repo.CountAdmins(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRemoveMember_ActorNotAdmin(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-admin", "u-admin", "c-1", membership.RoleAdmin)
	repo.add("m-rec", "u-rec", "c-1", membership.RoleRecruiter)
	svc := newTestService(repo)

	err := svc.RemoveMember(context.Background(), "m-admin", "u-rec")
	assert.ErrorIs(t, err, membership.ErrNotCompanyAdmin)
}

// Two admins leaving a 2-admin company at the same time must not empty the
// admin pool: exactly one removal succeeds, the other hits the admin count
// check. The two transactions lock different membership rows, so only the
// shared company lock forces them to serialize.
func TestRemoveMember_ConcurrentSelfRemovals(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-a1", "u-a1", "c-1", membership.RoleAdmin)
	repo.add("m-a2", "u-a2", "c-1", membership.RoleAdmin)
	svc := newTestService(repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []struct {
		membershipID string
		actorUserID  string
	}{
		{"m-a1", "u-a1"},
		{"m-a2", "u-a2"},
	}

	for i, target := range targets {
		wg.Add(1)
		go func(i int, membershipID, actorUserID string) {
			defer wg.Done()
			errs[i] = svc.RemoveMember(context.Background(), membershipID, actorUserID)
		}(i, target.membershipID, target.actorUserID)
	}
	wg.Wait()

	var succeeded, lastAdmin int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case err == membership.ErrLastAdmin:
			lastAdmin++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, lastAdmin)

	count, err := repo.CountAdmins(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// Each admin removing the other also targets two different rows. The loser
// fails its actor check because the winner already deleted its membership,
// and one admin is left either way.
func TestRemoveMember_ConcurrentMutualRemovals(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-a1", "u-a1", "c-1", membership.RoleAdmin)
	repo.add("m-a2", "u-a2", "c-1", membership.RoleAdmin)
	svc := newTestService(repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []struct {
		membershipID string
		actorUserID  string
	}{
		{"m-a2", "u-a1"},
		{"m-a1", "u-a2"},
	}

	for i, target := range targets {
		wg.Add(1)
		go func(i int, membershipID, actorUserID string) {
			defer wg.Done()
			errs[i] = svc.RemoveMember(context.Background(), membershipID, actorUserID)
		}(i, target.membershipID, target.actorUserID)
	}
	wg.Wait()

	var succeeded, notAdmin int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case err == membership.ErrNotCompanyAdmin:
			notAdmin++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, notAdmin)

	count, err := repo.CountAdmins(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// Same interleaving for demotion: both admins stepping down at once leaves
// one of them admin.
func TestChangeRole_ConcurrentSelfDemotions(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-a1", "u-a1", "c-1", membership.RoleAdmin)
	repo.add("m-a2", "u-a2", "c-1", membership.RoleAdmin)
	svc := newTestService(repo)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []struct {
		membershipID string
		actorUserID  string
	}{
		{"m-a1", "u-a1"},
		{"m-a2", "u-a2"},
	}

	for i, target := range targets {
		wg.Add(1)
		go func(i int, membershipID, actorUserID string) {
			defer wg.Done()
			_, errs[i] = svc.ChangeRole(context.Background(), membershipID, membership.RoleRecruiter, actorUserID)
		}(i, target.membershipID, target.actorUserID)
	}
	wg.Wait()

	var succeeded, lastAdmin int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case err == membership.ErrLastAdmin:
			lastAdmin++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, lastAdmin)

	count, err := repo.CountAdmins(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListMembers(t *testing.T) {
	repo := newFakeMembershipRepo()
	repo.add("m-a1", "u-a1", "c-1", membership.RoleAdmin)
	repo.add("m-r1", "u-r1", "c-1", membership.RoleRecruiter)
	repo.add("m-other", "u-x", "c-2", membership.RoleAdmin)
	svc := newTestService(repo)

	members, err := svc.ListMembers(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Len(t, members, 2)
	for _, m := range members {
		assert.Equal(t, "c-1", m.CompanyID)
	}
}
