package billing

import (
	"errors"
	"testing"

	"github.com/jomonde/the-ammo-guys-lite/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

type fakeProcessor struct {
	customerID      string
	customerErr     error
	createdCustomer int

	sessionID  string
	sessionErr error
	lastParams CheckoutParams

	portalURL string
	portalErr error
}

func (f *fakeProcessor) CreateCustomer(email, userID string, metadata map[string]string) (string, error) {
	f.createdCustomer++
	if f.customerErr != nil {
		return "", f.customerErr
	}
	return f.customerID, nil
}

func (f *fakeProcessor) CreateCheckoutSession(params CheckoutParams) (string, error) {
	f.lastParams = params
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	return f.sessionID, nil
}

func (f *fakeProcessor) CreatePortalSession(customerID, returnURL string) (string, error) {
	if f.portalErr != nil {
		return "", f.portalErr
	}
	return f.portalURL, nil
}

func profileRows(id, email, customerID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "stripe_customer_id"}).
		AddRow(id, email, customerID)
}

func TestResolve_ReturnsCachedMappingWithoutCallingStripe(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WithArgs("u1", 1).
		WillReturnRows(profileRows("u1", "a@b.test", "cus_cached"))

	processor := &fakeProcessor{customerID: "cus_new"}
	resolver := NewCustomerResolver(gormDB, processor)

	customerID, err := resolver.Resolve("u1", "a@b.test")

	assert.NoError(t, err)
	assert.Equal(t, "cus_cached", customerID)
	assert.Zero(t, processor.createdCustomer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_CreatesCustomerAndProfileOnFirstUse(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WithArgs("u1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "profiles" (.+) ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	processor := &fakeProcessor{customerID: "cus_new"}
	resolver := NewCustomerResolver(gormDB, processor)

	customerID, err := resolver.Resolve("u1", "a@b.test")

	assert.NoError(t, err)
	assert.Equal(t, "cus_new", customerID)
	assert.Equal(t, 1, processor.createdCustomer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_FallsBackToProfileEmail(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WithArgs("u1", 1).
		WillReturnRows(profileRows("u1", "stored@b.test", ""))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	processor := &fakeProcessor{customerID: "cus_new"}
	resolver := NewCustomerResolver(gormDB, processor)

	customerID, err := resolver.Resolve("u1", "")

	assert.NoError(t, err)
	assert.Equal(t, "cus_new", customerID)
	assert.Equal(t, 1, processor.createdCustomer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_MissingIdentity(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WithArgs("u1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	processor := &fakeProcessor{customerID: "cus_new"}
	resolver := NewCustomerResolver(gormDB, processor)

	_, err := resolver.Resolve("u1", "")

	assert.ErrorIs(t, err, ErrMissingCustomerIdentity)
	assert.Zero(t, processor.createdCustomer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_EmptyUserID(t *testing.T) {
	gormDB, _, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	resolver := NewCustomerResolver(gormDB, &fakeProcessor{})

	_, err := resolver.Resolve("", "a@b.test")
	assert.ErrorIs(t, err, ErrMissingCustomerIdentity)
}

func TestResolve_ConcurrentCreationKeepsFirstMapping(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	// The profile appears between the read and the insert; the insert hits
	// the conflict and the winner's mapping is read back.
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WithArgs("u1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "profiles" (.+) ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WithArgs("u1", 1).
		WillReturnRows(profileRows("u1", "a@b.test", "cus_winner"))

	processor := &fakeProcessor{customerID: "cus_loser"}
	resolver := NewCustomerResolver(gormDB, processor)

	customerID, err := resolver.Resolve("u1", "a@b.test")

	assert.NoError(t, err)
	assert.Equal(t, "cus_winner", customerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_StripeFailureSurfaces(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WithArgs("u1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	processor := &fakeProcessor{customerErr: errors.New("stripe unavailable")}
	resolver := NewCustomerResolver(gormDB, processor)

	_, err := resolver.Resolve("u1", "a@b.test")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
