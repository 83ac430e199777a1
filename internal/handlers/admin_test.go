package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/saivarshithnaidu/village-connect-backend/internal/constants"
	"github.com/saivarshithnaidu/village-connect-backend/internal/database"
	"github.com/saivarshithnaidu/village-connect-backend/internal/dto"
	"github.com/saivarshithnaidu/village-connect-backend/internal/middleware"
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/repository"
	"github.com/saivarshithnaidu/village-connect-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AdminHandlerTestSuite defines the test suite for AdminHandler
type AdminHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *AdminHandler
}

// SetupTest runs before each test
func (suite *AdminHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = migrateTestModels(suite.db)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	adminService := services.NewAdminService(
		repository.NewUserRepository(suite.db),
		repository.NewProblemRepository(suite.db),
		repository.NewSolutionRepository(suite.db),
		repository.NewForumRepository(suite.db),
	)
	suite.handler = NewAdminHandler(adminService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *AdminHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AdminHandlerTestSuite) createTestUser(email string, role models.Role) *models.User {
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

func (suite *AdminHandlerTestSuite) createTestProblem(title string, reporterID uint64, status models.ProblemStatus) *models.Problem {
	problem := &models.Problem{
		Title:        title,
		Description:  "Test Description",
		Category:     models.CategoryWater,
		Priority:     models.PriorityMedium,
		Status:       status,
		ReportedByID: reporterID,
	}
	suite.db.Create(problem)
	return problem
}

func (suite *AdminHandlerTestSuite) authContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
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

func (suite *AdminHandlerTestSuite) TestGetStats() {
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	villager := suite.createTestUser("villager@example.com", models.RoleVillager)

	suite.createTestProblem("Open problem", villager.ID, models.ProblemStatusOpen)
	suite.createTestProblem("Another open problem", villager.ID, models.ProblemStatusOpen)
	resolved := suite.createTestProblem("Resolved problem", villager.ID, models.ProblemStatusResolved)

	suite.db.Create(&models.Solution{
		ProblemID:    resolved.ID,
		Title:        "A solution",
		Description:  "Fix it",
		ProposedByID: villager.ID,
		Status:       models.SolutionStatusPending,
	})
	suite.db.Create(&models.ForumPost{Title: "Post", Content: "Content", AuthorID: villager.ID})

	c, w := suite.authContext("GET", "/api/admin/stats", nil, admin)
	suite.handler.GetStats(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.StatsDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(2), response.TotalUsers)
	assert.Equal(suite.T(), int64(3), response.TotalProblems)
	assert.Equal(suite.T(), int64(1), response.TotalSolutions)
	assert.Equal(suite.T(), int64(1), response.TotalForumPosts)
	assert.Equal(suite.T(), int64(1), response.ResolvedProblems)
	assert.Equal(suite.T(), int64(2), response.UnresolvedProblems)
	assert.Equal(suite.T(), int64(2), response.ProblemsByStatus[models.ProblemStatusOpen])
	assert.Equal(suite.T(), int64(3), response.ProblemsByCategory[models.CategoryWater])
	assert.Len(suite.T(), response.RecentProblems, 3)
	assert.Len(suite.T(), response.RecentSolutions, 1)
}

func (suite *AdminHandlerTestSuite) TestListUsers_NeverExposesPasswords() {
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	suite.createTestUser("villager@example.com", models.RoleVillager)

	c, w := suite.authContext("GET", "/api/admin/users", nil, admin)
	suite.handler.ListUsers(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Users []dto.UserDTO `json:"users"`
		Count int           `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), 2, response.Count)
	assert.NotContains(suite.T(), w.Body.String(), "password")
	assert.NotContains(suite.T(), w.Body.String(), "hashedpassword")
}

func (suite *AdminHandlerTestSuite) TestChangeRole() {
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	target := suite.createTestUser("villager@example.com", models.RoleVillager)

	body, _ := json.Marshal(map[string]string{"role": "volunteer"})
	c, w := suite.authContext("PUT", "/api/admin/users/2/role", body, admin)
	c.Params = idParam(target.ID)
	suite.handler.ChangeRole(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.UserDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.RoleVolunteer, response.Role)
}

func (suite *AdminHandlerTestSuite) TestChangeRole_InvalidRole() {
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	target := suite.createTestUser("villager@example.com", models.RoleVillager)

	body, _ := json.Marshal(map[string]string{"role": "mayor"})
	c, w := suite.authContext("PUT", "/api/admin/users/2/role", body, admin)
	c.Params = idParam(target.ID)
	suite.handler.ChangeRole(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AdminHandlerTestSuite) TestDeleteUser_SelfDeletionRejected() {
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)

	c, w := suite.authContext("DELETE", "/api/admin/users/1", nil, admin)
	c.Params = idParam(admin.ID)
	suite.handler.DeleteUser(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *AdminHandlerTestSuite) TestDeleteUser_Success() {
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	target := suite.createTestUser("villager@example.com", models.RoleVillager)

	c, w := suite.authContext("DELETE", "/api/admin/users/2", nil, admin)
	c.Params = idParam(target.ID)
	suite.handler.DeleteUser(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *AdminHandlerTestSuite) TestAssignProblem() {
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	villager := suite.createTestUser("villager@example.com", models.RoleVillager)
	problem := suite.createTestProblem("Assignable", admin.ID, models.ProblemStatusOpen)

	body, _ := json.Marshal(map[string]uint64{"user_id": villager.ID})
	c, w := suite.authContext("PUT", "/api/admin/problems/1/assign", body, admin)
	c.Params = idParam(problem.ID)
	suite.handler.AssignProblem(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.ProblemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().NotNil(response.AssignedToID)
	assert.Equal(suite.T(), villager.ID, *response.AssignedToID)
	assert.Equal(suite.T(), models.ProblemStatusInProgress, response.Status)
}

func (suite *AdminHandlerTestSuite) TestAssignProblem_RejectsNonVillager() {
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	volunteer := suite.createTestUser("volunteer@example.com", models.RoleVolunteer)
	problem := suite.createTestProblem("Assignable", admin.ID, models.ProblemStatusOpen)

	body, _ := json.Marshal(map[string]uint64{"user_id": volunteer.ID})
	c, w := suite.authContext("PUT", "/api/admin/problems/1/assign", body, admin)
	c.Params = idParam(problem.ID)
	suite.handler.AssignProblem(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var reloaded models.Problem
	suite.db.First(&reloaded, problem.ID)
	assert.Nil(suite.T(), reloaded.AssignedToID)
	assert.Equal(suite.T(), models.ProblemStatusOpen, reloaded.Status)
}

func (suite *AdminHandlerTestSuite) TestListProblems_VerifiedFilter() {
	admin := suite.createTestUser("admin@example.com", models.RoleAdmin)
	suite.createTestProblem("Unverified", admin.ID, models.ProblemStatusOpen)
	verified := suite.createTestProblem("Verified", admin.ID, models.ProblemStatusOpen)
	suite.db.Model(verified).Update("is_verified", true)

	c, w := suite.authContext("GET", "/api/admin/problems?verified=true", nil, admin)
	suite.handler.ListProblems(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Problems []dto.ProblemDTO `json:"problems"`
		Count    int              `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Equal(1, response.Count)
	assert.Equal(suite.T(), "Verified", response.Problems[0].Title)
}

func (suite *AdminHandlerTestSuite) TestAdminGroup_RejectsNonAdmins() {
	villager := suite.createTestUser("villager@example.com", models.RoleVillager)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUser, villager)
		c.Set(constants.ContextKeyUserID, villager.ID)
	})
	r.Use(middleware.RequireRole(models.RoleAdmin))
	r.GET("/api/admin/stats", suite.handler.GetStats)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func TestAdminHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}
