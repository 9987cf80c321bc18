package accounts

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledger "github.com/balanza-erp/balanza/internal/ledger/shared"
	"github.com/balanza-erp/balanza/internal/shared"
)

type mockRepository struct {
	accounts  map[int64]Account
	byCode    map[string]int64
	nextID    int64
	movements map[int64]bool

	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts:  make(map[int64]Account),
		byCode:    make(map[string]int64),
		movements: make(map[int64]bool),
		nextID:    1,
	}
}

func codeKey(tenantID int64, code string) string {
	return fmt.Sprintf("%d:%s", tenantID, code)
}

func (m *mockRepository) Create(ctx context.Context, a Account) (Account, error) {
	if m.createErr != nil {
		return Account{}, m.createErr
	}
	if _, ok := m.byCode[codeKey(a.TenantID, a.Code)]; ok {
		return Account{}, ledger.ErrDuplicateCode
	}
	a.ID = m.nextID
	a.IsActive = true
	m.nextID++
	m.accounts[a.ID] = a
	m.byCode[codeKey(a.TenantID, a.Code)] = a.ID
	return a, nil
}

func (m *mockRepository) CreateMany(ctx context.Context, accs []Account) error {
	for _, a := range accs {
		if _, err := m.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockRepository) Update(ctx context.Context, a Account) (Account, error) {
	if _, ok := m.accounts[a.ID]; !ok {
		return Account{}, ledger.ErrNotFound
	}
	m.accounts[a.ID] = a
	return a, nil
}

func (m *mockRepository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	a, ok := m.accounts[id]
	if !ok || a.TenantID != tenantID {
		return ledger.ErrNotFound
	}
	a.IsActive = active
	m.accounts[id] = a
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, tenantID, id int64) error {
	a, ok := m.accounts[id]
	if !ok || a.TenantID != tenantID {
		return ledger.ErrNotFound
	}
	delete(m.byCode, codeKey(a.TenantID, a.Code))
	delete(m.accounts, id)
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, tenantID, id int64) (Account, error) {
	a, ok := m.accounts[id]
	if !ok || a.TenantID != tenantID {
		return Account{}, ledger.ErrNotFound
	}
	return a, nil
}

func (m *mockRepository) GetByCode(ctx context.Context, tenantID int64, code string) (Account, error) {
	id, ok := m.byCode[codeKey(tenantID, code)]
	if !ok {
		return Account{}, ledger.ErrNotFound
	}
	return m.accounts[id], nil
}

func (m *mockRepository) List(ctx context.Context, tenantID int64) ([]Account, error) {
	var out []Account
	for _, a := range m.accounts {
		if a.TenantID == tenantID && a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepository) Search(ctx context.Context, tenantID int64, query string, limit int) ([]Account, error) {
	var out []Account
	for _, a := range m.accounts {
		if a.TenantID != tenantID || !a.IsActive {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockRepository) ChildrenOf(ctx context.Context, tenantID int64, parentCode *string) ([]TreeNode, error) {
	var out []TreeNode
	for _, a := range m.accounts {
		if a.TenantID != tenantID || !a.IsActive {
			continue
		}
		match := (a.ParentCode == nil && parentCode == nil) ||
			(a.ParentCode != nil && parentCode != nil && *a.ParentCode == *parentCode)
		if match {
			out = append(out, TreeNode{Account: a})
		}
	}
	return out, nil
}

func (m *mockRepository) HasMovements(ctx context.Context, tenantID, accountID int64) (bool, error) {
	return m.movements[accountID], nil
}

func (m *mockRepository) Count(ctx context.Context, tenantID int64) (int, error) {
	count := 0
	for _, a := range m.accounts {
		if a.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type mockAudit struct {
	logs []shared.AuditLog
}

func (m *mockAudit) Record(ctx context.Context, log shared.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func testIdentity() shared.Identity {
	return shared.Identity{TenantID: 1, UserID: 7, TenantName: "Demo SAS"}
}

func TestDeriveLevel(t *testing.T) {
	cases := []struct {
		code  string
		level int
	}{
		{"1", 1},
		{"11", 2},
		{"110", 3},
		{"1105", 3},
		{"11050", 4},
		{"110505", 4},
		{"11050501", 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, DeriveLevel(tc.code), "code %s", tc.code)
	}
}

func TestDeriveParentCode(t *testing.T) {
	cases := []struct {
		code   string
		parent string
	}{
		{"1", ""},
		{"11", "1"},
		{"1105", "11"},
		{"110505", "1105"},
		{"11050501", "110505"},
	}
	for _, tc := range cases {
		got := DeriveParentCode(tc.code)
		if tc.parent == "" {
			assert.Nil(t, got, "code %s", tc.code)
			continue
		}
		require.NotNil(t, got, "code %s", tc.code)
		assert.Equal(t, tc.parent, *got, "code %s", tc.code)
	}
}

func TestCreateDerivesHierarchy(t *testing.T) {
	repo := newMockRepository()
	audit := &mockAudit{}
	svc := NewService(repo, audit)

	created, err := svc.Create(context.Background(), testIdentity(), CreateInput{
		Code:   "110505",
		Name:   "Caja general",
		Nature: NatureDebit,
		Type:   TypeAsset,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, created.Level)
	require.NotNil(t, created.ParentCode)
	assert.Equal(t, "1105", *created.ParentCode)
	assert.True(t, created.IsAuxiliary)
	assert.True(t, created.AllowsMovement)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, "account.create", audit.logs[0].Action)
}

func TestCreateClassAccountDisallowsMovement(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), testIdentity(), CreateInput{
		Code:   "1",
		Name:   "Activo",
		Nature: NatureDebit,
		Type:   TypeAsset,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)
	assert.Nil(t, created.ParentCode)
	assert.False(t, created.AllowsMovement)
	assert.False(t, created.IsAuxiliary)
}

func TestCreateDuplicateCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), testIdentity(), CreateInput{
		Code: "1105", Name: "Caja", Nature: NatureDebit, Type: TypeAsset,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), testIdentity(), CreateInput{
		Code: "1105", Name: "Caja otra vez", Nature: NatureDebit, Type: TypeAsset,
	})
	assert.ErrorIs(t, err, ledger.ErrDuplicateCode)
}

func TestUpdateKeepsCodeAndRecomputesParent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), testIdentity(), CreateInput{
		Code: "130505", Name: "Clientes nacionales", Nature: NatureDebit, Type: TypeAsset,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), testIdentity(), created.ID, UpdateInput{
		Name: "Clientes", Nature: NatureDebit, Type: TypeAsset,
	})
	require.NoError(t, err)
	assert.Equal(t, "130505", updated.Code)
	require.NotNil(t, updated.ParentCode)
	assert.Equal(t, "1305", *updated.ParentCode)
	assert.Equal(t, "Clientes", updated.Name)
}

func TestRemoveWithMovementsRejected(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), testIdentity(), CreateInput{
		Code: "110505", Name: "Caja general", Nature: NatureDebit, Type: TypeAsset,
	})
	require.NoError(t, err)
	repo.movements[created.ID] = true

	err = svc.Deactivate(context.Background(), testIdentity(), created.ID)
	assert.ErrorIs(t, err, ledger.ErrHasDependentMovements)

	err = svc.Delete(context.Background(), testIdentity(), created.ID)
	assert.ErrorIs(t, err, ledger.ErrHasDependentMovements)

	got, err := repo.GetByID(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestDeactivateSoftDeletes(t *testing.T) {
	repo := newMockRepository()
	audit := &mockAudit{}
	svc := NewService(repo, audit)

	created, err := svc.Create(context.Background(), testIdentity(), CreateInput{
		Code: "110510", Name: "Cajas menores", Nature: NatureDebit, Type: TypeAsset,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), testIdentity(), created.ID))

	got, err := repo.GetByID(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "account.deactivate", audit.logs[len(audit.logs)-1].Action)
}

func TestPostabilityViolations(t *testing.T) {
	costCenter := int64(3)
	base := Account{IsActive: true, AllowsMovement: true}

	cases := []struct {
		name    string
		mutate  func(*Account)
		vctx    ValidationContext
		reasons []string
	}{
		{
			name:   "postable leaf",
			mutate: func(a *Account) {},
		},
		{
			name:    "template",
			mutate:  func(a *Account) { a.IsTemplate = true },
			reasons: []string{ledger.ReasonTemplate},
		},
		{
			name:    "inactive",
			mutate:  func(a *Account) { a.IsActive = false },
			reasons: []string{ledger.ReasonInactive},
		},
		{
			name:    "movement not allowed",
			mutate:  func(a *Account) { a.AllowsMovement = false },
			reasons: []string{ledger.ReasonNoMovement},
		},
		{
			name:    "missing cost center",
			mutate:  func(a *Account) { a.RequiresCostCenter = true },
			reasons: []string{ledger.ReasonRequiresCostCenter},
		},
		{
			name:   "cost center provided",
			mutate: func(a *Account) { a.RequiresCostCenter = true },
			vctx:   ValidationContext{CostCenterID: &costCenter},
		},
		{
			name:    "missing withholding",
			mutate:  func(a *Account) { a.AppliesWithholding = true },
			reasons: []string{ledger.ReasonRequiresWithholding},
		},
		{
			name:    "missing taxes",
			mutate:  func(a *Account) { a.AppliesTaxes = true },
			reasons: []string{ledger.ReasonRequiresTaxes},
		},
		{
			name: "multiple gates",
			mutate: func(a *Account) {
				a.IsTemplate = true
				a.AllowsMovement = false
			},
			reasons: []string{ledger.ReasonTemplate, ledger.ReasonNoMovement},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := base
			tc.mutate(&a)
			got := a.PostabilityViolations(tc.vctx)
			assert.ElementsMatch(t, tc.reasons, got)
		})
	}
}

func TestResolveByIDThenCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), testIdentity(), CreateInput{
		Code: "1105", Name: "Caja", Nature: NatureDebit, Type: TypeAsset,
	})
	require.NoError(t, err)

	byID, err := svc.Resolve(context.Background(), 1, fmt.Sprintf("%d", created.ID))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	byCode, err := svc.Resolve(context.Background(), 1, "1105")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	out, err := svc.Search(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Nil(t, out)
}
