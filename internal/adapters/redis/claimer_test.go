package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/coursepay/internal/adapters/redis"
	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ClaimerTestSuite struct {
	suite.Suite
	testRedis *testhelpers.TestRedis
	claimer   *redis.Claimer
}

func TestClaimerSuite(t *testing.T) {
	suite.Run(t, new(ClaimerTestSuite))
}

func (suite *ClaimerTestSuite) SetupSuite() {
	suite.testRedis = testhelpers.SetupTestRedis(suite.T())

	claimer, err := redis.Connect(context.Background(), config.RedisConfig{
		URL:      suite.testRedis.URL,
		ClaimTTL: time.Minute,
	}, testhelpers.Logger())
	suite.Require().NoError(err)
	suite.claimer = claimer
}

func (suite *ClaimerTestSuite) TearDownSuite() {
	suite.NoError(suite.claimer.Close())
	suite.testRedis.Cleanup(suite.T())
}

func (suite *ClaimerTestSuite) Test_Claim_FirstWins() {
	ctx := context.Background()
	key := "webhook:stripe:evt_first"

	first, err := suite.claimer.Claim(ctx, key, time.Minute)
	suite.Require().NoError(err)
	suite.True(first)

	second, err := suite.claimer.Claim(ctx, key, time.Minute)
	suite.Require().NoError(err)
	suite.False(second)
}

func (suite *ClaimerTestSuite) Test_Release_AllowsReclaim() {
	ctx := context.Background()
	key := "webhook:paystack:evt_release"

	ok, err := suite.claimer.Claim(ctx, key, time.Minute)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	suite.Require().NoError(suite.claimer.Release(ctx, key))

	ok, err = suite.claimer.Claim(ctx, key, time.Minute)
	suite.Require().NoError(err)
	suite.True(ok)
}

func (suite *ClaimerTestSuite) Test_Claim_ExpiresAfterTTL() {
	ctx := context.Background()
	key := "webhook:midtrans:evt_ttl"

	ok, err := suite.claimer.Claim(ctx, key, 200*time.Millisecond)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	suite.Eventually(func() bool {
		ok, err := suite.claimer.Claim(ctx, key, time.Minute)
		return err == nil && ok
	}, 3*time.Second, 100*time.Millisecond)
}

func (suite *ClaimerTestSuite) Test_Release_MissingKey() {
	suite.NoError(suite.claimer.Release(context.Background(), "webhook:stripe:never-claimed"))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := redis.Connect(context.Background(), config.RedisConfig{URL: "not a url"}, testhelpers.Logger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}
