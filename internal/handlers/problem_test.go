package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/saivarshithnaidu/village-connect-backend/internal/constants"
	"github.com/saivarshithnaidu/village-connect-backend/internal/database"
	"github.com/saivarshithnaidu/village-connect-backend/internal/dto"
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/repository"
	"github.com/saivarshithnaidu/village-connect-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// migrateTestModels creates the full schema on the in-memory test database.
func migrateTestModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Problem{},
		&models.ProblemUpvote{},
		&models.Solution{},
		&models.SolutionUpvote{},
		&models.SolutionComment{},
		&models.ForumPost{},
		&models.ForumPostUpvote{},
		&models.ForumComment{},
		&models.ForumCommentUpvote{},
	)
}

// ProblemHandlerTestSuite defines the test suite for ProblemHandler
type ProblemHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ProblemHandler
}

// SetupTest runs before each test
func (suite *ProblemHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = migrateTestModels(suite.db)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	problemRepo := repository.NewProblemRepository(suite.db)
	problemService := services.NewProblemService(problemRepo)

	// No AI service in tests
	suite.handler = NewProblemHandler(problemService, nil)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProblemHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *ProblemHandlerTestSuite) createTestUser(email string, role models.Role) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Village:      "Rampur",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *ProblemHandlerTestSuite) createTestProblem(title string, reporterID uint64) *models.Problem {
	problem := &models.Problem{
		Title:        title,
		Description:  "Test Description",
		Category:     models.CategoryWater,
		Priority:     models.PriorityMedium,
		Status:       models.ProblemStatusOpen,
		ReportedByID: reporterID,
	}
	suite.db.Create(problem)
	return problem
}

// Helper function to create authenticated context
func (suite *ProblemHandlerTestSuite) authContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
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
	if user != nil {
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
	}

	return c, w
}

func idParam(id uint64) gin.Params {
	return gin.Params{{Key: "id", Value: fmt.Sprintf("%d", id)}}
}

func (suite *ProblemHandlerTestSuite) TestCreateProblem_Success() {
	user := suite.createTestUser("villager@example.com", models.RoleVillager)

	body, _ := json.Marshal(map[string]string{
		"title":       "Broken hand pump",
		"description": "The hand pump near the school has been dry for a week",
		"category":    "water",
		"location":    "Near primary school",
	})
	c, w := suite.authContext("POST", "/api/problems", body, user)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.ProblemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Broken hand pump", response.Title)
	assert.Equal(suite.T(), models.ProblemStatusOpen, response.Status)
	assert.Equal(suite.T(), models.PriorityMedium, response.Priority, "priority should default to medium")
	assert.False(suite.T(), response.IsVerified, "new problems start unverified")
	assert.Equal(suite.T(), user.ID, response.ReportedByID)
}

func (suite *ProblemHandlerTestSuite) TestCreateProblem_InvalidCategory() {
	user := suite.createTestUser("villager@example.com", models.RoleVillager)

	body, _ := json.Marshal(map[string]string{
		"title":       "Something",
		"description": "Something else",
		"category":    "weather",
	})
	c, w := suite.authContext("POST", "/api/problems", body, user)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ProblemHandlerTestSuite) TestListProblems_VolunteerSeesOnlyVerified() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	volunteer := suite.createTestUser("volunteer@example.com", models.RoleVolunteer)

	suite.createTestProblem("Unverified problem", reporter.ID)
	verified := suite.createTestProblem("Verified problem", reporter.ID)
	suite.db.Model(verified).Update("is_verified", true)

	c, w := suite.authContext("GET", "/api/problems", nil, volunteer)
	suite.handler.List(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Problems []dto.ProblemDTO `json:"problems"`
		Count    int              `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Equal(1, response.Count)
	assert.Equal(suite.T(), "Verified problem", response.Problems[0].Title)

	// The reporter still sees both
	c, w = suite.authContext("GET", "/api/problems", nil, reporter)
	suite.handler.List(c)

	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), 2, response.Count)
}

func (suite *ProblemHandlerTestSuite) TestListProblems_SortByUpvotes() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	voterA := suite.createTestUser("votera@example.com", models.RoleVillager)
	voterB := suite.createTestUser("voterb@example.com", models.RoleVillager)

	suite.createTestProblem("Quiet problem", reporter.ID)
	popular := suite.createTestProblem("Popular problem", reporter.ID)
	suite.db.Create(&models.ProblemUpvote{ProblemID: popular.ID, UserID: voterA.ID})
	suite.db.Create(&models.ProblemUpvote{ProblemID: popular.ID, UserID: voterB.ID})

	c, w := suite.authContext("GET", "/api/problems?sort=upvotes", nil, nil)
	suite.handler.List(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Problems []dto.ProblemDTO `json:"problems"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Problems, 2)
	assert.Equal(suite.T(), "Popular problem", response.Problems[0].Title)
	assert.Equal(suite.T(), 2, response.Problems[0].UpvoteCount)
}

func (suite *ProblemHandlerTestSuite) TestGetProblem_VolunteerBlockedUntilVerified() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	volunteer := suite.createTestUser("volunteer@example.com", models.RoleVolunteer)
	problem := suite.createTestProblem("Unverified problem", reporter.ID)

	c, w := suite.authContext("GET", "/api/problems/1", nil, volunteer)
	c.Params = idParam(problem.ID)
	suite.handler.Get(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// Verify and try again
	c, w = suite.authContext("PUT", "/api/problems/1/verify", nil, nil)
	c.Params = idParam(problem.ID)
	suite.handler.Verify(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	c, w = suite.authContext("GET", "/api/problems/1", nil, volunteer)
	c.Params = idParam(problem.ID)
	suite.handler.Get(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *ProblemHandlerTestSuite) TestToggleUpvote_Twice() {
	user := suite.createTestUser("voter@example.com", models.RoleVillager)
	problem := suite.createTestProblem("Popular problem", user.ID)

	c, w := suite.authContext("POST", "/api/problems/1/upvote", nil, user)
	c.Params = idParam(problem.ID)
	suite.handler.ToggleUpvote(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Upvoted bool           `json:"upvoted"`
		Problem dto.ProblemDTO `json:"problem"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response.Upvoted)
	assert.Equal(suite.T(), 1, response.Problem.UpvoteCount)
	assert.True(suite.T(), response.Problem.HasUpvoted)

	// Second toggle removes the upvote
	c, w = suite.authContext("POST", "/api/problems/1/upvote", nil, user)
	c.Params = idParam(problem.ID)
	suite.handler.ToggleUpvote(c)

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(suite.T(), response.Upvoted)
	assert.Equal(suite.T(), 0, response.Problem.UpvoteCount)
	assert.False(suite.T(), response.Problem.HasUpvoted)
}

func (suite *ProblemHandlerTestSuite) TestUpdateProblem_OwnerOnly() {
	owner := suite.createTestUser("owner@example.com", models.RoleVillager)
	other := suite.createTestUser("other@example.com", models.RoleVillager)
	problem := suite.createTestProblem("Old title", owner.ID)

	body, _ := json.Marshal(map[string]string{"title": "New title"})
	c, w := suite.authContext("PUT", "/api/problems/1", body, other)
	c.Params = idParam(problem.ID)
	suite.handler.Update(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	c, w = suite.authContext("PUT", "/api/problems/1", body, owner)
	c.Params = idParam(problem.ID)
	suite.handler.Update(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.ProblemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "New title", response.Title)
	assert.Equal(suite.T(), "Test Description", response.Description, "unset fields stay untouched")
}

func (suite *ProblemHandlerTestSuite) TestUpdateProblem_AdminCanEditAny() {
	owner := suite.createTestUser("owner@example.com", models.RoleVillager)
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	problem := suite.createTestProblem("Old title", owner.ID)

	body, _ := json.Marshal(map[string]string{"priority": "urgent"})
	c, w := suite.authContext("PUT", "/api/problems/1", body, admin)
	c.Params = idParam(problem.ID)
	suite.handler.Update(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.ProblemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.PriorityUrgent, response.Priority)
}

func (suite *ProblemHandlerTestSuite) TestSetStatus_ResolvedStampsResolvedAt() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	problem := suite.createTestProblem("Fixable problem", reporter.ID)

	body, _ := json.Marshal(map[string]string{"status": "resolved"})
	c, w := suite.authContext("PUT", "/api/problems/1/status", body, nil)
	c.Params = idParam(problem.ID)
	suite.handler.SetStatus(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.ProblemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.ProblemStatusResolved, response.Status)
	assert.NotNil(suite.T(), response.ResolvedAt)
}

func (suite *ProblemHandlerTestSuite) TestSetStatus_InvalidStatus() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	problem := suite.createTestProblem("Fixable problem", reporter.ID)

	body, _ := json.Marshal(map[string]string{"status": "done"})
	c, w := suite.authContext("PUT", "/api/problems/1/status", body, nil)
	c.Params = idParam(problem.ID)
	suite.handler.SetStatus(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ProblemHandlerTestSuite) TestComplete_OnlyAssignedVillager() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	assignee := suite.createTestUser("assignee@example.com", models.RoleVillager)
	other := suite.createTestUser("other@example.com", models.RoleVillager)

	problem := suite.createTestProblem("Assigned problem", reporter.ID)
	suite.db.Model(problem).Updates(map[string]interface{}{
		"assigned_to_id": assignee.ID,
		"status":         models.ProblemStatusInProgress,
	})

	body, _ := json.Marshal(map[string]string{"message": "Repaired the pump"})

	c, w := suite.authContext("PUT", "/api/problems/1/complete", body, other)
	c.Params = idParam(problem.ID)
	suite.handler.Complete(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	c, w = suite.authContext("PUT", "/api/problems/1/complete", body, assignee)
	c.Params = idParam(problem.ID)
	suite.handler.Complete(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.ProblemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response.IsCompletedByVillager)
	assert.Equal(suite.T(), "Repaired the pump", response.CompletionMessage)
	assert.Equal(suite.T(), models.ProblemStatusResolved, response.Status)
	assert.NotNil(suite.T(), response.ResolvedAt)
}

func (suite *ProblemHandlerTestSuite) TestVerifyCompletion_RequiresClaim() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	problem := suite.createTestProblem("Unclaimed problem", reporter.ID)

	c, w := suite.authContext("PUT", "/api/problems/1/verify-completion", nil, nil)
	c.Params = idParam(problem.ID)
	suite.handler.VerifyCompletion(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// State must not have changed
	var reloaded models.Problem
	suite.db.First(&reloaded, problem.ID)
	assert.False(suite.T(), reloaded.IsVerified)
	assert.Equal(suite.T(), models.ProblemStatusOpen, reloaded.Status)
}

func (suite *ProblemHandlerTestSuite) TestVerifyCompletion_Success() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	problem := suite.createTestProblem("Claimed problem", reporter.ID)
	suite.db.Model(problem).Update("is_completed_by_villager", true)

	c, w := suite.authContext("PUT", "/api/problems/1/verify-completion", nil, nil)
	c.Params = idParam(problem.ID)
	suite.handler.VerifyCompletion(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.ProblemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response.IsVerified)
	assert.Equal(suite.T(), models.ProblemStatusResolved, response.Status)
}

func (suite *ProblemHandlerTestSuite) TestListAssignedToMe() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	assignee := suite.createTestUser("assignee@example.com", models.RoleVillager)

	mine := suite.createTestProblem("Assigned to me", reporter.ID)
	suite.db.Model(mine).Update("assigned_to_id", assignee.ID)
	suite.createTestProblem("Not assigned", reporter.ID)

	c, w := suite.authContext("GET", "/api/problems/assigned/me", nil, assignee)
	suite.handler.ListAssignedToMe(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Problems []dto.ProblemDTO `json:"problems"`
		Count    int              `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Equal(1, response.Count)
	assert.Equal(suite.T(), "Assigned to me", response.Problems[0].Title)
}

func (suite *ProblemHandlerTestSuite) TestDeleteProblem_CascadesSolutions() {
	reporter := suite.createTestUser("reporter@example.com", models.RoleVillager)
	problem := suite.createTestProblem("Doomed problem", reporter.ID)

	solution := &models.Solution{
		ProblemID:    problem.ID,
		Title:        "A solution",
		Description:  "Dig a new well",
		ProposedByID: reporter.ID,
		Status:       models.SolutionStatusPending,
	}
	suite.db.Create(solution)
	suite.db.Create(&models.SolutionComment{SolutionID: solution.ID, UserID: reporter.ID, Text: "Good idea"})

	c, w := suite.authContext("DELETE", "/api/problems/1", nil, nil)
	c.Params = idParam(problem.ID)
	suite.handler.Delete(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var problemCount, solutionCount, commentCount int64
	suite.db.Model(&models.Problem{}).Count(&problemCount)
	suite.db.Model(&models.Solution{}).Count(&solutionCount)
	suite.db.Model(&models.SolutionComment{}).Count(&commentCount)
	assert.Zero(suite.T(), problemCount)
	assert.Zero(suite.T(), solutionCount, "solutions should be deleted with their problem")
	assert.Zero(suite.T(), commentCount)
}

func (suite *ProblemHandlerTestSuite) TestGetProblem_NotFound() {
	c, w := suite.authContext("GET", "/api/problems/999", nil, nil)
	c.Params = idParam(999)
	suite.handler.Get(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *ProblemHandlerTestSuite) TestSuggestTriage_Unconfigured() {
	user := suite.createTestUser("villager@example.com", models.RoleVillager)

	body, _ := json.Marshal(map[string]string{
		"title":       "No streetlights",
		"description": "The main road is dark after sunset",
	})
	c, w := suite.authContext("POST", "/api/problems/suggest-triage", body, user)

	suite.handler.SuggestTriage(c)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func TestProblemHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProblemHandlerTestSuite))
}
