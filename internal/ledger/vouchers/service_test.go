package vouchers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledger "github.com/balanza-erp/balanza/internal/ledger/shared"
	"github.com/balanza-erp/balanza/internal/shared"
)

type mockRepository struct {
	types        map[int64]VoucherType
	nextID       int64
	transactions map[string]bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		types:        make(map[int64]VoucherType),
		transactions: make(map[string]bool),
		nextID:       1,
	}
}

func (m *mockRepository) Create(ctx context.Context, vt VoucherType) (VoucherType, error) {
	for _, existing := range m.types {
		if existing.TenantID == vt.TenantID && existing.Code == vt.Code {
			return VoucherType{}, ledger.ErrDuplicateCode
		}
	}
	vt.ID = m.nextID
	vt.IsActive = true
	vt.CurrentConsecutive = 0
	m.nextID++
	m.types[vt.ID] = vt
	return vt, nil
}

func (m *mockRepository) CreateMany(ctx context.Context, types []VoucherType) error {
	for _, vt := range types {
		if _, err := m.Create(ctx, vt); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockRepository) Update(ctx context.Context, vt VoucherType) (VoucherType, error) {
	current, ok := m.types[vt.ID]
	if !ok || current.TenantID != vt.TenantID {
		return VoucherType{}, ledger.ErrNotFound
	}
	current.Name = vt.Name
	current.Prefix = vt.Prefix
	m.types[vt.ID] = current
	return current, nil
}

func (m *mockRepository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	vt, ok := m.types[id]
	if !ok || vt.TenantID != tenantID {
		return ledger.ErrNotFound
	}
	vt.IsActive = active
	m.types[id] = vt
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, tenantID, id int64) error {
	vt, ok := m.types[id]
	if !ok || vt.TenantID != tenantID {
		return ledger.ErrNotFound
	}
	delete(m.types, id)
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, tenantID, id int64) (VoucherType, error) {
	vt, ok := m.types[id]
	if !ok || vt.TenantID != tenantID {
		return VoucherType{}, ledger.ErrNotFound
	}
	return vt, nil
}

func (m *mockRepository) GetByCode(ctx context.Context, tenantID int64, code string) (VoucherType, error) {
	for _, vt := range m.types {
		if vt.TenantID == tenantID && vt.Code == code {
			return vt, nil
		}
	}
	return VoucherType{}, ledger.ErrNotFound
}

func (m *mockRepository) List(ctx context.Context, tenantID int64, includeInactive bool) ([]VoucherType, error) {
	var out []VoucherType
	for _, vt := range m.types {
		if vt.TenantID == tenantID && (vt.IsActive || includeInactive) {
			out = append(out, vt)
		}
	}
	return out, nil
}

func (m *mockRepository) HasTransactions(ctx context.Context, tenantID int64, code string) (bool, error) {
	return m.transactions[code], nil
}

func (m *mockRepository) Count(ctx context.Context, tenantID int64) (int, error) {
	n := 0
	for _, vt := range m.types {
		if vt.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type mockAudit struct {
	logs []shared.AuditLog
}

func (m *mockAudit) Record(ctx context.Context, log shared.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func testIdentity() shared.Identity {
	return shared.Identity{TenantID: 1, UserID: 7}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		prefix      string
		consecutive int64
		want        string
	}{
		{"RC", 1, "RC000001"},
		{"RC", 42, "RC000042"},
		{"CE", 999999, "CE999999"},
		{"CD", 1234567, "CD1234567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.prefix, tt.consecutive))
	}
}

func TestCreateStartsCounterAtZero(t *testing.T) {
	repo := newMockRepository()
	audit := &mockAudit{}
	svc := NewService(repo, audit)

	vt, err := svc.Create(context.Background(), testIdentity(), CreateInput{
		Code: "INGRESO", Name: "Recibo de caja", Prefix: "RC",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, vt.CurrentConsecutive)
	assert.True(t, vt.IsActive)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, "voucher_type.create", audit.logs[0].Action)

	next, err := svc.NextNumber(context.Background(), 1, "INGRESO")
	require.NoError(t, err)
	assert.Equal(t, "RC000001", next)
}

func TestCreateDuplicateCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), testIdentity(), CreateInput{Code: "INGRESO", Name: "Recibo", Prefix: "RC"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), testIdentity(), CreateInput{Code: "INGRESO", Name: "Otro", Prefix: "RX"})
	assert.ErrorIs(t, err, ledger.ErrDuplicateCode)
}

func TestUpdateKeepsCodeAndCounter(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	vt, err := svc.Create(context.Background(), testIdentity(), CreateInput{Code: "INGRESO", Name: "Recibo", Prefix: "RC"})
	require.NoError(t, err)

	stored := repo.types[vt.ID]
	stored.CurrentConsecutive = 17
	repo.types[vt.ID] = stored

	updated, err := svc.Update(context.Background(), testIdentity(), vt.ID, UpdateInput{Name: "Recibo mayor", Prefix: "RM"})
	require.NoError(t, err)
	assert.Equal(t, "INGRESO", updated.Code)
	assert.EqualValues(t, 17, updated.CurrentConsecutive)

	// Issued numbers pick up the new prefix going forward only.
	next, err := svc.NextNumber(context.Background(), 1, "INGRESO")
	require.NoError(t, err)
	assert.Equal(t, "RM000018", next)
}

func TestNextNumberDoesNotAdvance(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	vt, err := svc.Create(context.Background(), testIdentity(), CreateInput{Code: "EGRESO", Name: "Comprobante de egreso", Prefix: "CE"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		next, err := svc.NextNumber(context.Background(), 1, "EGRESO")
		require.NoError(t, err)
		assert.Equal(t, "CE000001", next)
	}
	assert.EqualValues(t, 0, repo.types[vt.ID].CurrentConsecutive)
}

func TestNextNumberInactiveSeries(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	vt, err := svc.Create(context.Background(), testIdentity(), CreateInput{Code: "EGRESO", Name: "Egreso", Prefix: "CE"})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), testIdentity(), vt.ID))

	_, err = svc.NextNumber(context.Background(), 1, "EGRESO")
	assert.ErrorIs(t, err, ledger.ErrVoucherTypeUnavailable)
}

func TestDeleteWithTransactionsRejected(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	vt, err := svc.Create(context.Background(), testIdentity(), CreateInput{Code: "INGRESO", Name: "Recibo", Prefix: "RC"})
	require.NoError(t, err)
	repo.transactions["INGRESO"] = true

	err = svc.Delete(context.Background(), testIdentity(), vt.ID)
	assert.ErrorIs(t, err, ledger.ErrHasTransactions)

	_, err = svc.Get(context.Background(), 1, vt.ID)
	assert.NoError(t, err)

	// Deactivation remains available for used series.
	require.NoError(t, svc.Deactivate(context.Background(), testIdentity(), vt.ID))
	got, err := svc.Get(context.Background(), 1, vt.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
