package stripe

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jomonde/the-ammo-guys-lite/billing"
	"github.com/jomonde/the-ammo-guys-lite/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeSessionProcessor struct {
	customerID string

	sessionID  string
	sessionErr error
	lastParams billing.CheckoutParams

	portalURL      string
	portalErr      error
	portalCustomer string
	portalReturn   string
}

func (f *fakeSessionProcessor) CreateCustomer(email, userID string, metadata map[string]string) (string, error) {
	return f.customerID, nil
}

func (f *fakeSessionProcessor) CreateCheckoutSession(params billing.CheckoutParams) (string, error) {
	f.lastParams = params
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	return f.sessionID, nil
}

func (f *fakeSessionProcessor) CreatePortalSession(customerID, returnURL string) (string, error) {
	f.portalCustomer = customerID
	f.portalReturn = returnURL
	if f.portalErr != nil {
		return "", f.portalErr
	}
	return f.portalURL, nil
}

type fakeResolver struct {
	customerID string
	err        error
	calls      int
	lastUser   string
	lastEmail  string
}

func (f *fakeResolver) Resolve(userID, email string) (string, error) {
	f.calls++
	f.lastUser = userID
	f.lastEmail = email
	if f.err != nil {
		return "", f.err
	}
	return f.customerID, nil
}

func sessionHandler(processor *fakeSessionProcessor, resolver *fakeResolver) *Handler {
	return &Handler{
		processor: processor,
		resolver:  resolver,
		baseURL:   "https://app.example.com",
		prices:    map[string]string{"standard": "price_std_123"},
	}
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkoutRouter(h *Handler, userID string) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.POST("/stripe/checkout-session", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		h.CreateCheckoutSession(c)
	})
	return r
}

func portalRouter(h *Handler, userID string) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.POST("/stripe/portal-session", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		h.CreatePortalSession(c)
	})
	return r
}

func TestCreateCheckoutSession_Success(t *testing.T) {
	processor := &fakeSessionProcessor{sessionID: "cs_test_1"}
	resolver := &fakeResolver{customerID: "cus_1"}
	h := sessionHandler(processor, resolver)
	r := checkoutRouter(h, "u1")

	w := postJSON(r, "/stripe/checkout-session", gin.H{
		"priceId":    "standard",
		"successUrl": "/subscribe/success",
		"cancelUrl":  "/subscribe",
		"metadata":   gin.H{"frequency": "monthly"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cs_test_1")
	assert.Equal(t, "price_std_123", processor.lastParams.PriceID)
	assert.Equal(t, "cus_1", processor.lastParams.CustomerID)
	assert.Equal(t, "u1", processor.lastParams.UserID)
	assert.Equal(t, "https://app.example.com/subscribe/success", processor.lastParams.SuccessURL)
	assert.Equal(t, "https://app.example.com/subscribe", processor.lastParams.CancelURL)
	assert.Equal(t, "monthly", processor.lastParams.Metadata["frequency"])
}

func TestCreateCheckoutSession_TokenIdentityOverridesBody(t *testing.T) {
	processor := &fakeSessionProcessor{sessionID: "cs_test_1"}
	resolver := &fakeResolver{customerID: "cus_1"}
	h := sessionHandler(processor, resolver)
	r := checkoutRouter(h, "token-user")

	w := postJSON(r, "/stripe/checkout-session", gin.H{
		"priceId":    "standard",
		"userId":     "body-user",
		"successUrl": "/ok",
		"cancelUrl":  "/ko",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "token-user", resolver.lastUser)
}

func TestCreateCheckoutSession_UnknownTier(t *testing.T) {
	h := sessionHandler(&fakeSessionProcessor{}, &fakeResolver{})
	r := checkoutRouter(h, "u1")

	w := postJSON(r, "/stripe/checkout-session", gin.H{
		"priceId":    "platinum",
		"successUrl": "/ok",
		"cancelUrl":  "/ko",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheckoutSession_RawPriceIDPassesThrough(t *testing.T) {
	processor := &fakeSessionProcessor{sessionID: "cs_test_1"}
	h := sessionHandler(processor, &fakeResolver{customerID: "cus_1"})
	r := checkoutRouter(h, "u1")

	w := postJSON(r, "/stripe/checkout-session", gin.H{
		"priceId":    "price_direct_456",
		"successUrl": "/ok",
		"cancelUrl":  "/ko",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "price_direct_456", processor.lastParams.PriceID)
}

func TestCreateCheckoutSession_MissingIdentity(t *testing.T) {
	resolver := &fakeResolver{err: billing.ErrMissingCustomerIdentity}
	h := sessionHandler(&fakeSessionProcessor{}, resolver)
	r := checkoutRouter(h, "u1")

	w := postJSON(r, "/stripe/checkout-session", gin.H{
		"priceId":    "standard",
		"successUrl": "/ok",
		"cancelUrl":  "/ko",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheckoutSession_EmailOnlyGuestCheckout(t *testing.T) {
	processor := &fakeSessionProcessor{sessionID: "cs_guest"}
	resolver := &fakeResolver{}
	h := sessionHandler(processor, resolver)
	r := checkoutRouter(h, "")

	w := postJSON(r, "/stripe/checkout-session", gin.H{
		"priceId":       "standard",
		"customerEmail": "guest@example.com",
		"successUrl":    "/ok",
		"cancelUrl":     "/ko",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, resolver.calls)
	assert.Equal(t, "guest@example.com", processor.lastParams.CustomerEmail)
}

func TestCreateCheckoutSession_NoUserAndNoEmail(t *testing.T) {
	h := sessionHandler(&fakeSessionProcessor{}, &fakeResolver{})
	r := checkoutRouter(h, "")

	w := postJSON(r, "/stripe/checkout-session", gin.H{
		"priceId":    "standard",
		"successUrl": "/ok",
		"cancelUrl":  "/ko",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheckoutSession_MissingRequiredFields(t *testing.T) {
	h := sessionHandler(&fakeSessionProcessor{}, &fakeResolver{})
	r := checkoutRouter(h, "u1")

	w := postJSON(r, "/stripe/checkout-session", gin.H{"priceId": "standard"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheckoutSession_StripeFailure(t *testing.T) {
	processor := &fakeSessionProcessor{sessionErr: assert.AnError}
	h := sessionHandler(processor, &fakeResolver{customerID: "cus_1"})
	r := checkoutRouter(h, "u1")

	w := postJSON(r, "/stripe/checkout-session", gin.H{
		"priceId":    "standard",
		"successUrl": "/ok",
		"cancelUrl":  "/ko",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreatePortalSession_WithExplicitCustomer(t *testing.T) {
	processor := &fakeSessionProcessor{portalURL: "https://billing.stripe.com/session/xyz"}
	h := sessionHandler(processor, &fakeResolver{})
	r := portalRouter(h, "")

	w := postJSON(r, "/stripe/portal-session", gin.H{"customerId": "cus_1"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "billing.stripe.com")
	assert.Equal(t, "cus_1", processor.portalCustomer)
	assert.Equal(t, "https://app.example.com/dashboard", processor.portalReturn)
}

func TestCreatePortalSession_LooksUpCustomerFromProfile(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
		WithArgs("u1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stripe_customer_id"}).AddRow("u1", "cus_from_db"))

	processor := &fakeSessionProcessor{portalURL: "https://billing.stripe.com/session/xyz"}
	h := sessionHandler(processor, &fakeResolver{})
	h.db = gormDB
	r := portalRouter(h, "u1")

	w := postJSON(r, "/stripe/portal-session", gin.H{"returnUrl": "/account"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cus_from_db", processor.portalCustomer)
	assert.Equal(t, "https://app.example.com/account", processor.portalReturn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePortalSession_NoBillingCustomer(t *testing.T) {
	h := sessionHandler(&fakeSessionProcessor{}, &fakeResolver{})
	r := portalRouter(h, "")

	w := postJSON(r, "/stripe/portal-session", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no billing customer")
}
