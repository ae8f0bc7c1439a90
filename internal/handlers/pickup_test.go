package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/pickup-line-api/internal/constants"
	"github.com/yukikurage/pickup-line-api/internal/models"
	"github.com/yukikurage/pickup-line-api/internal/testutil"
)

// PickupHandlerTestSuite defines the test suite for PickupHandler
type PickupHandlerTestSuite struct {
	suite.Suite
	env   *testEnv
	user  *models.User
	token string
}

// SetupTest runs before each test
func (suite *PickupHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T())
	suite.user, suite.token = suite.env.register(suite.T(), "alice")
}

// Helper function to create authenticated context
func (suite *PickupHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// TestGenerate_Success tests a full generation round trip
func (suite *PickupHandlerTestSuite) TestGenerate_Success() {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/pickup/generate", suite.token, map[string]interface{}{
		"person_description": "loves astronomy",
		"dirtiness_level":    4,
		"style":              "romantic",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), suite.env.llm.reply, response["pickup_line"])
	assert.Equal(suite.T(), "romantic", response["style"])
	assert.Equal(suite.T(), float64(4), response["dirtiness_level"])

	var entry models.HistoryEntry
	suite.Require().NoError(suite.env.db.First(&entry, "id = ?", response["history_id"]).Error)
	assert.Equal(suite.T(), suite.user.ID, entry.UserID)
	assert.Equal(suite.T(), "default/model", entry.ModelUsed)
}

// TestGenerate_InvalidInput tests validation failures
func (suite *PickupHandlerTestSuite) TestGenerate_InvalidInput() {
	cases := []map[string]interface{}{
		{"dirtiness_level": 5},
		{"person_description": "", "dirtiness_level": 5},
		{"person_description": "likes tea"},
		{"person_description": "likes tea", "dirtiness_level": 0},
		{"person_description": "likes tea", "dirtiness_level": 11},
	}

	for _, body := range cases {
		w := suite.env.do(suite.T(), http.MethodPost, "/api/pickup/generate", suite.token, body)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, "body %v", body)
	}

	var count int64
	suite.Require().NoError(suite.env.db.Model(&models.HistoryEntry{}).Count(&count).Error)
	assert.Zero(suite.T(), count)
}

// TestGenerate_ProviderFailure tests the upstream error mapping
func (suite *PickupHandlerTestSuite) TestGenerate_ProviderFailure() {
	suite.env.llm.err = errUpstream

	w := suite.env.do(suite.T(), http.MethodPost, "/api/pickup/generate", suite.token, map[string]interface{}{
		"person_description": "loves astronomy",
		"dirtiness_level":    4,
	})
	suite.Require().Equal(http.StatusInternalServerError, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "GENERATION_FAILED", response["code"])
	assert.Contains(suite.T(), response["details"], "502 bad gateway")

	var count int64
	suite.Require().NoError(suite.env.db.Model(&models.HistoryEntry{}).Count(&count).Error)
	assert.Zero(suite.T(), count)
}

// TestGenerate_UnknownUser tests a valid token whose user no longer exists
func (suite *PickupHandlerTestSuite) TestGenerate_UnknownUser() {
	token, err := suite.env.tokens.Issue(uuid.New())
	suite.Require().NoError(err)

	w := suite.env.do(suite.T(), http.MethodPost, "/api/pickup/generate", token, map[string]interface{}{
		"person_description": "loves astronomy",
		"dirtiness_level":    4,
	})
	suite.Require().Equal(http.StatusUnauthorized, w.Code)

	var count int64
	suite.Require().NoError(suite.env.db.Model(&models.HistoryEntry{}).Count(&count).Error)
	assert.Zero(suite.T(), count)
}

// TestGenerate_ResponseFields tests the exact response shape
func (suite *PickupHandlerTestSuite) TestGenerate_ResponseFields() {
	w := suite.env.do(suite.T(), http.MethodPost, "/api/pickup/generate", suite.token, map[string]interface{}{
		"person_description": "loves astronomy",
		"dirtiness_level":    2,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response, 4)
	for _, key := range []string{"pickup_line", "history_id", "style", "dirtiness_level"} {
		assert.Contains(suite.T(), response, key)
	}
}

// TestGenerate_Unauthorized tests generation without authentication
func (suite *PickupHandlerTestSuite) TestGenerate_Unauthorized() {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/pickup/generate", nil)

	suite.env.pickup.Generate(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestRegenerate_Success tests that regeneration creates a new entry
func (suite *PickupHandlerTestSuite) TestRegenerate_Success() {
	entry := testutil.CreateEntry(suite.T(), suite.env.db, suite.user.ID, testutil.WithStyle("cheesy"), testutil.WithDirtiness(9))

	c, w := suite.createAuthContext(http.MethodPost, "/api/pickup/regenerate/"+entry.ID.String(), nil, suite.user.ID)
	c.Params = gin.Params{{Key: "id", Value: entry.ID.String()}}

	suite.env.pickup.Regenerate(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEqual(suite.T(), entry.ID.String(), response["history_id"])
	assert.Equal(suite.T(), "cheesy", response["style"])
	assert.Equal(suite.T(), float64(9), response["dirtiness_level"])
}

// TestRegenerate_NotFound tests foreign and malformed ids
func (suite *PickupHandlerTestSuite) TestRegenerate_NotFound() {
	other := testutil.CreateUser(suite.T(), suite.env.db, "bob")
	foreign := testutil.CreateEntry(suite.T(), suite.env.db, other.ID)

	for _, id := range []string{foreign.ID.String(), uuid.NewString(), "not-a-uuid"} {
		w := suite.env.do(suite.T(), http.MethodPost, "/api/pickup/regenerate/"+id, suite.token, nil)
		assert.Equal(suite.T(), http.StatusNotFound, w.Code, "id %s", id)
	}
}

// TestRate_Success tests partial feedback updates
func (suite *PickupHandlerTestSuite) TestRate_Success() {
	entry := testutil.CreateEntry(suite.T(), suite.env.db, suite.user.ID, testutil.WithRating(2))

	w := suite.env.do(suite.T(), http.MethodPost, "/api/pickup/rate/"+entry.ID.String(), suite.token, map[string]interface{}{
		"used": true,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var stored models.HistoryEntry
	suite.Require().NoError(suite.env.db.First(&stored, "id = ?", entry.ID).Error)
	assert.True(suite.T(), stored.Used)
	suite.Require().NotNil(stored.Rating)
	assert.Equal(suite.T(), 2, *stored.Rating)
	assert.Nil(suite.T(), stored.Success)
}

// TestRate_InvalidRating tests the rating range
func (suite *PickupHandlerTestSuite) TestRate_InvalidRating() {
	entry := testutil.CreateEntry(suite.T(), suite.env.db, suite.user.ID)

	w := suite.env.do(suite.T(), http.MethodPost, "/api/pickup/rate/"+entry.ID.String(), suite.token, map[string]interface{}{
		"rating": 6,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestPickupHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PickupHandlerTestSuite))
}
