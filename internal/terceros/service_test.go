package terceros

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	records map[int64]ThirdParty
	nextID  int64

	// Error injection
	listError   error
	getError    error
	createError error
	updateError error
	deleteError error
	txError     error

	txCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		records: make(map[int64]ThirdParty),
		nextID:  1,
	}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	m.txCalls++
	if m.txError != nil {
		return m.txError
	}
	snapshot := make(map[int64]ThirdParty, len(m.records))
	for k, v := range m.records {
		snapshot[k] = v
	}
	nextID := m.nextID
	if err := fn(ctx, m); err != nil {
		m.records = snapshot
		m.nextID = nextID
		return err
	}
	return nil
}

func (m *mockRepository) List(ctx context.Context) ([]ThirdParty, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	out := make([]ThirdParty, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*ThirdParty, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *mockRepository) Create(ctx context.Context, t ThirdParty) (int64, error) {
	if m.createError != nil {
		return 0, m.createError
	}
	t.ID = m.nextID
	m.nextID++
	m.records[t.ID] = t
	return t.ID, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, t ThirdParty) (int64, error) {
	if m.updateError != nil {
		return 0, m.updateError
	}
	if _, ok := m.records[id]; !ok {
		return 0, nil
	}
	t.ID = id
	m.records[id] = t
	return 1, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) (int64, error) {
	if m.deleteError != nil {
		return 0, m.deleteError
	}
	if _, ok := m.records[id]; !ok {
		return 0, nil
	}
	delete(m.records, id)
	return 1, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func anaInput() SaveInput {
	return SaveInput{
		DocumentType:   "CC",
		DocumentNumber: "123",
		GivenNames:     "Ana",
		Surnames:       "Lopez",
		BirthDate:      "1990-05-01",
		Phone:          "555",
		Email:          "a@x.com",
		Address:        "Calle 1",
		PartyType:      "Natural",
		Status:         "Activo",
	}
}

func int64Ptr(v int64) *int64 { return &v }

func assertMatchesInput(t *testing.T, in SaveInput, got *ThirdParty) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, in.DocumentType, got.DocumentType)
	assert.Equal(t, in.DocumentNumber, got.DocumentNumber)
	assert.Equal(t, in.GivenNames, got.GivenNames)
	assert.Equal(t, in.Surnames, got.Surnames)
	assert.Equal(t, in.Phone, got.Phone)
	assert.Equal(t, in.Email, got.Email)
	assert.Equal(t, in.Address, got.Address)
	assert.Equal(t, in.PartyType, got.PartyType)
	assert.Equal(t, in.Status, got.Status)
	if in.BirthDate == "" {
		assert.Nil(t, got.BirthDate)
		return
	}
	want, err := time.Parse(BirthDateLayout, in.BirthDate)
	require.NoError(t, err)
	require.NotNil(t, got.BirthDate)
	assert.True(t, want.Equal(*got.BirthDate), "birth date %s != %s", got.BirthDate, want)
}

// ============================================================================
// TESTS
// ============================================================================

func TestInsertThenFetchRoundTrips(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	inputs := []SaveInput{
		anaInput(),
		{DocumentType: "NIT", DocumentNumber: "900-1", GivenNames: "Acme", Surnames: "SAS", PartyType: "Jurídica", Status: "Activo"},
		{DocumentType: "CE", DocumentNumber: "", GivenNames: "", Surnames: "", BirthDate: "2000-02-29"},
	}
	for _, in := range inputs {
		res, err := svc.Save(ctx, in)
		require.NoError(t, err)
		assert.True(t, res.Created)

		got, err := svc.Get(ctx, int64Ptr(res.ID))
		require.NoError(t, err)
		assertMatchesInput(t, in, got)
		assert.Equal(t, res.ID, got.ID)
	}
}

func TestFirstInsertOnEmptyStoreGetsIDOne(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	ctx := context.Background()

	res, err := svc.Save(ctx, anaInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, "01/05/1990", list[0].BirthDate.Format("02/01/2006"))
}

func TestUpdateReplacesEveryField(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, anaInput())
	require.NoError(t, err)

	updated := SaveInput{
		ID:             "1",
		DocumentType:   "TI",
		DocumentNumber: "999",
		GivenNames:     "Ana Sofía",
		Surnames:       "López",
		BirthDate:      "1991-06-02",
		Phone:          "777",
		Email:          "b@y.com",
		Address:        "Carrera 2",
		PartyType:      "Jurídica",
		Status:         "Inactivo",
	}
	res, err := svc.Save(ctx, updated)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, int64(1), res.Affected)
	assert.Equal(t, created.ID, res.ID)

	got, err := svc.Get(ctx, int64Ptr(created.ID))
	require.NoError(t, err)
	assertMatchesInput(t, updated, got)
}

func TestUpdateStatusKeepsOtherFields(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, anaInput())
	require.NoError(t, err)

	in := anaInput()
	in.ID = "1"
	in.Status = "Inactivo"
	_, err = svc.Save(ctx, in)
	require.NoError(t, err)

	got, err := svc.Get(ctx, int64Ptr(1))
	require.NoError(t, err)
	assert.Equal(t, "Inactivo", got.Status)
	assertMatchesInput(t, in, got)
}

func TestUpdateOfMissingIDSucceedsWithoutChanges(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, anaInput())
	require.NoError(t, err)
	before, err := svc.List(ctx)
	require.NoError(t, err)

	in := anaInput()
	in.ID = "42"
	in.Status = "Inactivo"
	res, err := svc.Save(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Affected)

	after, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	missing, err := svc.Get(ctx, int64Ptr(42))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteThenFetchReturnsNoRecord(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, anaInput())
	require.NoError(t, err)

	affected, err := svc.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.Get(ctx, int64Ptr(1))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteOfMissingIDIsNoOp(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	ctx := context.Background()

	_, err := svc.Save(ctx, anaInput())
	require.NoError(t, err)

	affected, err := svc.Delete(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteRejectsNegativeID(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	_, err := svc.Delete(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDeleteOfIDZeroIsNoOp(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()
	_, err := svc.Save(ctx, anaInput())
	require.NoError(t, err)

	affected, err := svc.Delete(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.Len(t, repo.records, 1)
}

func TestSaveWithIDZeroUpdatesNothing(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)
	ctx := context.Background()
	_, err := svc.Save(ctx, anaInput())
	require.NoError(t, err)

	in := anaInput()
	in.ID = "0"
	in.Status = "Inactivo"
	res, err := svc.Save(ctx, in)
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Zero(t, res.Affected)
	require.Len(t, repo.records, 1)
	assert.Equal(t, "Activo", repo.records[1].Status)
}

func TestListIsOrderedByID(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	ctx := context.Background()

	const n = 7
	for i := 0; i < n; i++ {
		_, err := svc.Save(ctx, anaInput())
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, n)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestGetWithoutIDReturnsNoRecord(t *testing.T) {
	repo := newMockRepository()
	repo.getError = errors.New("must not be called")
	svc := NewService(repo, nil)

	got, err := svc.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetPropagatesStoreFailure(t *testing.T) {
	repo := newMockRepository()
	repo.getError = errors.New("connection reset")
	svc := NewService(repo, nil)

	got, err := svc.Get(context.Background(), int64Ptr(3))
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "connection reset")
}

func TestListPropagatesStoreFailure(t *testing.T) {
	repo := newMockRepository()
	repo.listError = errors.New("relation \"terceros\" does not exist")
	svc := NewService(repo, nil)

	list, err := svc.List(context.Background())
	assert.Nil(t, list)
	assert.ErrorContains(t, err, "does not exist")
}

func TestSaveWithMalformedDateWritesNothing(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	in := anaInput()
	in.BirthDate = "01/05/1990"
	_, err := svc.Save(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidBirthDate)
	assert.Empty(t, repo.records)
	assert.Zero(t, repo.txCalls)
}

func TestSaveWithMalformedIDWritesNothing(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	in := anaInput()
	in.ID = "abc"
	_, err := svc.Save(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Zero(t, repo.txCalls)
}

func TestSaveStoreFailureIsNotCommitted(t *testing.T) {
	repo := newMockRepository()
	repo.createError = errors.New("value too long for type character varying(10)")
	svc := NewService(repo, nil)

	_, err := svc.Save(context.Background(), anaInput())
	assert.ErrorContains(t, err, "value too long")
	assert.Empty(t, repo.records)
}

func TestSaveBlankBirthDateStoresNoDate(t *testing.T) {
	svc := NewService(newMockRepository(), nil)
	ctx := context.Background()

	in := anaInput()
	in.BirthDate = "  "
	res, err := svc.Save(ctx, in)
	require.NoError(t, err)

	got, err := svc.Get(ctx, int64Ptr(res.ID))
	require.NoError(t, err)
	assert.Nil(t, got.BirthDate)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	id, err = ParseID("0")
	require.NoError(t, err)
	assert.Zero(t, id)

	for _, raw := range []string{"", "-3", "1.5", "x"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, "raw %q", raw)
	}
}
