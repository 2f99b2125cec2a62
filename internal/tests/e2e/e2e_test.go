package e2e

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DanielPopoola/coursepay/internal/adapters/handler"
	"github.com/DanielPopoola/coursepay/internal/adapters/postgres"
	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const e2eCourse = "e2e-course"

// E2ETestSuite drives a running server configured with Stripe test keys.
// It reads the same COURSEPAY_* environment as the server.
type E2ETestSuite struct {
	suite.Suite
	client *TestClient
	auth   *handler.Authenticator
	db     *postgres.DB
}

func TestE2ESuite(t *testing.T) {
	if os.Getenv("RUN_E2E_TESTS") != "true" {
		t.Skip("Skipping E2E tests (set RUN_E2E_TESTS=true to run)")
	}

	suite.Run(t, new(E2ETestSuite))
}

func (suite *E2ETestSuite) SetupSuite() {
	cfg, err := config.LoadConfig(os.Getenv("COURSEPAY_CONFIG"))
	suite.Require().NoError(err)

	baseURL := os.Getenv("E2E_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}

	suite.client = NewTestClient(baseURL)
	suite.auth = handler.NewAuthenticator(cfg.Auth, testhelpers.Logger())

	suite.db, err = postgres.Connect(context.Background(), &cfg.Database, testhelpers.Logger())
	suite.Require().NoError(err)
	testhelpers.SeedCoursePrice(suite.T(), suite.db, e2eCourse, "USD", 4900, true)

	suite.waitForServer(baseURL)
}

func (suite *E2ETestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *E2ETestSuite) waitForServer(baseURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			suite.T().Fatal("server not ready after 30s")
		case <-ticker.C:
			resp, err := suite.client.httpClient.Get(baseURL + "/healthz")
			if err != nil {
				continue
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
	}
}

func (suite *E2ETestSuite) token(userID, role string) string {
	token, err := suite.auth.Issue(handler.Principal{UserID: userID, Email: userID + "@example.com", Role: role}, time.Hour)
	suite.Require().NoError(err)
	return token
}

func (suite *E2ETestSuite) TestHappyPath_InitializeVerifyAndGet() {
	t := suite.T()
	user := suite.token("e2e-"+uuid.NewString(), "")

	tx, resp := suite.client.Initialize(t, user, handler.InitializeRequest{CourseID: e2eCourse, Currency: "usd"})
	require.NoError(t, resp.Err())
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "pending", tx.Status)
	assert.Equal(t, "stripe", tx.Provider)
	assert.Equal(t, int64(4900), tx.AmountMinor)
	assert.True(t, strings.HasPrefix(tx.ProviderRef, "pi_"))
	assert.NotEmpty(t, tx.ClientSecret)

	again, resp := suite.client.Initialize(t, user, handler.InitializeRequest{CourseID: e2eCourse, Currency: "USD"})
	require.NoError(t, resp.Err())
	assert.Equal(t, tx.ID, again.ID, "an open attempt is resumed")

	verified, resp := suite.client.Verify(t, user, tx.ID)
	require.NoError(t, resp.Err())
	assert.Equal(t, "pending", verified.Status, "no payment method attached yet")

	fetched, resp := suite.client.Get(t, user, tx.ID)
	require.NoError(t, resp.Err())
	assert.Equal(t, tx.ID, fetched.ID)

	list, resp := suite.client.List(t, user, "?limit=5")
	require.NoError(t, resp.Err())
	assert.Equal(t, 1, list.Total)
}

func (suite *E2ETestSuite) TestAccessControl() {
	t := suite.T()
	owner := suite.token("e2e-"+uuid.NewString(), "")
	stranger := suite.token("e2e-"+uuid.NewString(), "")

	tx, resp := suite.client.Initialize(t, owner, handler.InitializeRequest{CourseID: e2eCourse, Currency: "USD"})
	require.NoError(t, resp.Err())

	_, resp = suite.client.Get(t, "", tx.ID)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	_, resp = suite.client.Get(t, stranger, tx.ID)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	_, resp = suite.client.Refund(t, owner, tx.ID, "changed my mind")
	assert.Equal(t, http.StatusForbidden, resp.Status)

	_, resp = suite.client.Refund(t, suite.token("ops", handler.RoleAdmin), tx.ID, "changed my mind")
	assert.Equal(t, http.StatusConflict, resp.Status)
	assert.Equal(t, "INVALID_REFUND_STATE", resp.Error.Code)
}

func (suite *E2ETestSuite) TestRejections() {
	t := suite.T()
	user := suite.token("e2e-"+uuid.NewString(), "")

	_, resp := suite.client.Initialize(t, user, handler.InitializeRequest{CourseID: e2eCourse, Currency: "US"})
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	_, resp = suite.client.Initialize(t, user, handler.InitializeRequest{CourseID: "no-such-course", Currency: "USD"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)

	resp = suite.client.Do(t, http.MethodPost, "/webhooks/stripe", "", map[string]string{"id": "evt_forged"})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}
