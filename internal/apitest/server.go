// Package apitest runs an in-memory DevLog backend for client tests. It
// speaks just enough of the real API — bearer auth, FastAPI-style
// {"detail": ...} errors, duplicate-day rejection — for the client packages
// to be exercised end to end without a live server.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/devlog/devlog-cli/internal/model"
)

// Well-known fixture credentials.
const (
	DeveloperUsername = "dev"
	ManagerUsername   = "boss"
	Password          = "secret"
	DeveloperToken    = "dev-token"
	ManagerToken      = "mgr-token"
)

// FeedbackCall records one POST /feedback payload.
type FeedbackCall struct {
	LogID string `json:"log_id"`
	Text  string `json:"feedback_text"`
}

// Request records one observed request for assertions.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Bearer string
}

// Server is the fake backend. Mutate the exported fields before pointing a
// client at URL; they are guarded by mu because the HTTP handlers run on
// server goroutines.
type Server struct {
	URL string

	mu sync.Mutex

	Developer model.User
	Manager   model.User

	Logs          []model.DailyLog
	TeamLogs      []model.TeamLog
	Notifications []model.Notification
	Productivity  []model.ProductivityPoint
	CSVData       string
	Feedback      []FeedbackCall
	Requests      []Request

	// FailNotifications makes GET /notifications answer 500.
	FailNotifications bool
	// FailProductivity makes GET /analytics/productivity answer 500.
	FailProductivity bool

	nextLogID int
}

// NewServer starts the fake backend and shuts it down with the test.
func NewServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		Developer: model.User{ID: "user-dev-1", Username: DeveloperUsername, Email: "dev@example.com", Role: model.RoleDeveloper},
		Manager:   model.User{ID: "user-mgr-1", Username: ManagerUsername, Email: "boss@example.com", Role: model.RoleManager},
		nextLogID: 1,
	}

	r := gin.New()
	r.Use(s.record)

	r.POST("/api/auth/login", s.login)
	r.POST("/api/auth/register", s.register)
	r.GET("/api/users/managers", s.managers)

	auth := r.Group("/api", s.requireAuth)
	auth.GET("/notifications", s.listNotifications)
	auth.PUT("/notifications/:id/read", s.markRead)
	auth.GET("/logs", s.listLogs)
	auth.POST("/logs", s.createLog)
	auth.PUT("/logs/:id", s.updateLog)
	auth.GET("/analytics/productivity", s.productivity)
	auth.GET("/analytics/export", s.export)
	auth.GET("/team/logs", s.teamLogs)
	auth.GET("/team/developers", s.teamDevelopers)
	auth.POST("/feedback", s.submitFeedback)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	s.URL = srv.URL + "/api"
	return s
}

// CountRequests returns how many observed requests matched method and path.
func (s *Server) CountRequests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.Requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent observed request for method and path.
func (s *Server) LastRequest(method, path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Requests) - 1; i >= 0; i-- {
		if s.Requests[i].Method == method && s.Requests[i].Path == path {
			return s.Requests[i], true
		}
	}
	return Request{}, false
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func (s *Server) record(c *gin.Context) {
	bearer := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	s.mu.Lock()
	s.Requests = append(s.Requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Bearer: bearer,
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) userForToken(token string) (model.User, bool) {
	switch token {
	case DeveloperToken:
		return s.Developer, true
	case ManagerToken:
		return s.Manager, true
	}
	return model.User{}, false
}

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	s.mu.Lock()
	user, known := s.userForToken(token)
	s.mu.Unlock()
	if !known {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	c.Set("user", user)
}

func currentUser(c *gin.Context) model.User {
	return c.MustGet("user").(model.User)
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Password != Password {
		detail(c, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	switch req.Username {
	case DeveloperUsername:
		c.JSON(http.StatusOK, gin.H{"access_token": DeveloperToken, "token_type": "bearer", "user": s.Developer})
	case ManagerUsername:
		c.JSON(http.StatusOK, gin.H{"access_token": ManagerToken, "token_type": "bearer", "user": s.Manager})
	default:
		detail(c, http.StatusUnauthorized, "Incorrect username or password")
	}
}

func (s *Server) register(c *gin.Context) {
	var req struct {
		Username  string  `json:"username"`
		Email     string  `json:"email"`
		Password  string  `json:"password"`
		Role      string  `json:"role"`
		ManagerID *string `json:"manager_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Username == DeveloperUsername || req.Username == ManagerUsername {
		detail(c, http.StatusBadRequest, "Username or email already registered")
		return
	}

	user := model.User{
		ID:        "user-new-1",
		Username:  req.Username,
		Email:     req.Email,
		Role:      req.Role,
		ManagerID: req.ManagerID,
	}
	c.JSON(http.StatusOK, gin.H{"access_token": "new-token", "token_type": "bearer", "user": user})
}

func (s *Server) managers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, []model.User{s.Manager})
}

func (s *Server) listNotifications(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNotifications {
		detail(c, http.StatusInternalServerError, "notification store unavailable")
		return
	}
	items := s.Notifications
	if items == nil {
		items = []model.Notification{}
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) markRead(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Notifications {
		if s.Notifications[i].ID == id {
			s.Notifications[i].Read = true
			c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
			return
		}
	}
	detail(c, http.StatusNotFound, "Notification not found")
}

func (s *Server) listLogs(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := s.Logs
	if logs == nil {
		logs = []model.DailyLog{}
	}
	c.JSON(http.StatusOK, logs)
}

func (s *Server) createLog(c *gin.Context) {
	var req struct {
		Date      string       `json:"date"`
		Tasks     []model.Task `json:"tasks"`
		Mood      int          `json:"mood"`
		Blockers  string       `json:"blockers"`
		TotalTime float64      `json:"total_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, log := range s.Logs {
		if log.Date == req.Date && log.UserID == user.ID {
			detail(c, http.StatusBadRequest, "Log already exists for this date")
			return
		}
	}

	log := model.DailyLog{
		ID:        "log-" + strconv.Itoa(s.nextLogID),
		UserID:    user.ID,
		Date:      req.Date,
		Tasks:     req.Tasks,
		Mood:      req.Mood,
		Blockers:  req.Blockers,
		TotalTime: req.TotalTime,
	}
	s.nextLogID++
	s.Logs = append([]model.DailyLog{log}, s.Logs...)
	c.JSON(http.StatusOK, log)
}

func (s *Server) updateLog(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Date      string       `json:"date"`
		Tasks     []model.Task `json:"tasks"`
		Mood      int          `json:"mood"`
		Blockers  string       `json:"blockers"`
		TotalTime float64      `json:"total_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.Logs {
		if s.Logs[i].ID == id {
			s.Logs[i].Date = req.Date
			s.Logs[i].Tasks = req.Tasks
			s.Logs[i].Mood = req.Mood
			s.Logs[i].Blockers = req.Blockers
			s.Logs[i].TotalTime = req.TotalTime
			c.JSON(http.StatusOK, s.Logs[i])
			return
		}
	}
	detail(c, http.StatusNotFound, "Log not found")
}

func (s *Server) productivity(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailProductivity {
		detail(c, http.StatusInternalServerError, "analytics unavailable")
		return
	}
	points := s.Productivity
	if points == nil {
		points = []model.ProductivityPoint{}
	}
	c.JSON(http.StatusOK, points)
}

func (s *Server) export(c *gin.Context) {
	if c.Query("start_date") == "" || c.Query("end_date") == "" {
		detail(c, http.StatusUnprocessableEntity, "start_date and end_date are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"csv_data": s.CSVData})
}

func (s *Server) teamLogs(c *gin.Context) {
	user := currentUser(c)
	if user.Role != model.RoleManager {
		detail(c, http.StatusForbidden, "Only managers can view team logs")
		return
	}

	devID := c.Query("developer_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.TeamLog{}
	for _, log := range s.TeamLogs {
		if devID != "" && log.UserID != devID {
			continue
		}
		out = append(out, log)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) teamDevelopers(c *gin.Context) {
	user := currentUser(c)
	if user.Role != model.RoleManager {
		detail(c, http.StatusForbidden, "Only managers can view team developers")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, []model.User{s.Developer})
}

func (s *Server) submitFeedback(c *gin.Context) {
	user := currentUser(c)
	if user.Role != model.RoleManager {
		detail(c, http.StatusForbidden, "Only managers can add feedback")
		return
	}

	var call FeedbackCall
	if err := c.ShouldBindJSON(&call); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Feedback = append(s.Feedback, call)
	for i := range s.TeamLogs {
		if s.TeamLogs[i].ID == call.LogID {
			s.TeamLogs[i].Feedback = call.Text
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback submitted"})
}
