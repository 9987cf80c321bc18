package seed

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balanza-erp/balanza/internal/ledger/accounts"
	ledger "github.com/balanza-erp/balanza/internal/ledger/shared"
	"github.com/balanza-erp/balanza/internal/ledger/vouchers"
	"github.com/balanza-erp/balanza/internal/shared"
)

type mockAccountRepo struct {
	byCode map[string]accounts.Account
	nextID int64
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{byCode: make(map[string]accounts.Account), nextID: 1}
}

func (m *mockAccountRepo) Create(ctx context.Context, a accounts.Account) (accounts.Account, error) {
	if _, ok := m.byCode[a.Code]; ok {
		return accounts.Account{}, ledger.ErrDuplicateCode
	}
	a.ID = m.nextID
	m.nextID++
	m.byCode[a.Code] = a
	return a, nil
}

func (m *mockAccountRepo) CreateMany(ctx context.Context, accs []accounts.Account) error {
	for _, a := range accs {
		if _, err := m.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockAccountRepo) Update(ctx context.Context, a accounts.Account) (accounts.Account, error) {
	return a, nil
}

func (m *mockAccountRepo) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	return nil
}

func (m *mockAccountRepo) Delete(ctx context.Context, tenantID, id int64) error { return nil }

func (m *mockAccountRepo) GetByID(ctx context.Context, tenantID, id int64) (accounts.Account, error) {
	for _, a := range m.byCode {
		if a.ID == id {
			return a, nil
		}
	}
	return accounts.Account{}, ledger.ErrNotFound
}

func (m *mockAccountRepo) GetByCode(ctx context.Context, tenantID int64, code string) (accounts.Account, error) {
	a, ok := m.byCode[code]
	if !ok {
		return accounts.Account{}, ledger.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountRepo) List(ctx context.Context, tenantID int64) ([]accounts.Account, error) {
	var out []accounts.Account
	for _, a := range m.byCode {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAccountRepo) Search(ctx context.Context, tenantID int64, query string, limit int) ([]accounts.Account, error) {
	return nil, nil
}

func (m *mockAccountRepo) ChildrenOf(ctx context.Context, tenantID int64, parentCode *string) ([]accounts.TreeNode, error) {
	return nil, nil
}

func (m *mockAccountRepo) HasMovements(ctx context.Context, tenantID, accountID int64) (bool, error) {
	return false, nil
}

func (m *mockAccountRepo) Count(ctx context.Context, tenantID int64) (int, error) {
	return len(m.byCode), nil
}

type mockVoucherRepo struct {
	byCode map[string]vouchers.VoucherType
	nextID int64
}

func newMockVoucherRepo() *mockVoucherRepo {
	return &mockVoucherRepo{byCode: make(map[string]vouchers.VoucherType), nextID: 1}
}

func (m *mockVoucherRepo) Create(ctx context.Context, vt vouchers.VoucherType) (vouchers.VoucherType, error) {
	if _, ok := m.byCode[vt.Code]; ok {
		return vouchers.VoucherType{}, ledger.ErrDuplicateCode
	}
	vt.ID = m.nextID
	vt.IsActive = true
	m.nextID++
	m.byCode[vt.Code] = vt
	return vt, nil
}

func (m *mockVoucherRepo) CreateMany(ctx context.Context, types []vouchers.VoucherType) error {
	for _, vt := range types {
		if _, err := m.Create(ctx, vt); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockVoucherRepo) Update(ctx context.Context, vt vouchers.VoucherType) (vouchers.VoucherType, error) {
	return vt, nil
}

func (m *mockVoucherRepo) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	return nil
}

func (m *mockVoucherRepo) Delete(ctx context.Context, tenantID, id int64) error { return nil }

func (m *mockVoucherRepo) GetByID(ctx context.Context, tenantID, id int64) (vouchers.VoucherType, error) {
	return vouchers.VoucherType{}, ledger.ErrNotFound
}

func (m *mockVoucherRepo) GetByCode(ctx context.Context, tenantID int64, code string) (vouchers.VoucherType, error) {
	vt, ok := m.byCode[code]
	if !ok {
		return vouchers.VoucherType{}, ledger.ErrNotFound
	}
	return vt, nil
}

func (m *mockVoucherRepo) List(ctx context.Context, tenantID int64, includeInactive bool) ([]vouchers.VoucherType, error) {
	var out []vouchers.VoucherType
	for _, vt := range m.byCode {
		out = append(out, vt)
	}
	return out, nil
}

func (m *mockVoucherRepo) HasTransactions(ctx context.Context, tenantID int64, code string) (bool, error) {
	return false, nil
}

func (m *mockVoucherRepo) Count(ctx context.Context, tenantID int64) (int, error) {
	return len(m.byCode), nil
}

type mockAudit struct {
	logs []shared.AuditLog
}

func (m *mockAudit) Record(ctx context.Context, log shared.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func testIdentity() shared.Identity {
	return shared.Identity{TenantID: 1, UserID: 1, TenantName: "Demo SAS"}
}

func TestInitializeTenant(t *testing.T) {
	accRepo := newMockAccountRepo()
	vtRepo := newMockVoucherRepo()
	audit := &mockAudit{}
	svc := NewService(slog.Default(), accRepo, vtRepo, audit)

	created, err := svc.InitializeTenant(context.Background(), testIdentity())
	require.NoError(t, err)
	assert.True(t, created)

	assert.Len(t, accRepo.byCode, len(pucColombia))
	assert.Len(t, vtRepo.byCode, len(defaultVoucherTypes))

	require.Len(t, audit.logs, 1)
	assert.Equal(t, "tenant.initialize", audit.logs[0].Action)
}

func TestInitializeTenantDerivesHierarchy(t *testing.T) {
	accRepo := newMockAccountRepo()
	svc := NewService(slog.Default(), accRepo, newMockVoucherRepo(), nil)

	_, err := svc.InitializeTenant(context.Background(), testIdentity())
	require.NoError(t, err)

	caja, err := accRepo.GetByCode(context.Background(), 1, "110505")
	require.NoError(t, err)
	assert.Equal(t, 4, caja.Level)
	require.NotNil(t, caja.ParentCode)
	assert.Equal(t, "1105", *caja.ParentCode)
	assert.True(t, caja.IsAuxiliary)
	assert.True(t, caja.AllowsMovement)
	assert.Equal(t, accounts.NatureDebit, caja.Nature)
	assert.Equal(t, accounts.TypeAsset, caja.Type)

	// Class level accounts head the tree and reject direct movements.
	activo, err := accRepo.GetByCode(context.Background(), 1, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, activo.Level)
	assert.Nil(t, activo.ParentCode)
	assert.False(t, activo.AllowsMovement)
}

func TestInitializeTenantDefaultSeries(t *testing.T) {
	vtRepo := newMockVoucherRepo()
	svc := NewService(slog.Default(), newMockAccountRepo(), vtRepo, nil)

	_, err := svc.InitializeTenant(context.Background(), testIdentity())
	require.NoError(t, err)

	rc, err := vtRepo.GetByCode(context.Background(), 1, "INGRESO")
	require.NoError(t, err)
	assert.Equal(t, "RC", rc.Prefix)
	assert.EqualValues(t, 0, rc.CurrentConsecutive)

	for _, code := range []string{"INGRESO", "EGRESO", "TRASLADO", "DIARIO"} {
		_, err := vtRepo.GetByCode(context.Background(), 1, code)
		assert.NoError(t, err, code)
	}
}

func TestInitializeTenantIsIdempotent(t *testing.T) {
	accRepo := newMockAccountRepo()
	vtRepo := newMockVoucherRepo()
	svc := NewService(slog.Default(), accRepo, vtRepo, &mockAudit{})

	created, err := svc.InitializeTenant(context.Background(), testIdentity())
	require.NoError(t, err)
	require.True(t, created)
	accountsBefore := len(accRepo.byCode)

	created, err = svc.InitializeTenant(context.Background(), testIdentity())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, accRepo.byCode, accountsBefore)
}
