package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/balkashynov/punch/internal/clock"
	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
	"github.com/balkashynov/punch/internal/settings"
)

type clockRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Note      string   `json:"note"`
	Address   string   `json:"address"`
}

type statusResponse struct {
	clock.Status
	// minutes despite the name, kept for client compatibility
	TotalHoursThisWeek int `json:"totalHoursThisWeek"`
}

type roleRequest struct {
	UserID string      `json:"userId" binding:"required"`
	Role   models.Role `json:"role" binding:"required"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) clockIn(c *gin.Context) {
	in, ok := bindClock(c)
	if !ok {
		return
	}
	res, err := s.deps.Clock.ClockIn(c.Request.Context(), identity(c), in)
	s.writeClock(c, res, err)
}

func (s *Server) clockOut(c *gin.Context) {
	in, ok := bindClock(c)
	if !ok {
		return
	}
	res, err := s.deps.Clock.ClockOut(c.Request.Context(), identity(c), in)
	s.writeClock(c, res, err)
}

func bindClock(c *gin.Context) (clock.Input, bool) {
	var req clockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return clock.Input{}, false
	}
	return clock.Input{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Note:      req.Note,
		Address:   req.Address,
	}, true
}

// writeClock answers refusals the worker can act on with their message
func (s *Server) writeClock(c *gin.Context, res clock.Result, err error) {
	if errors.Is(err, clock.ErrAlreadyClockedIn) || errors.Is(err, clock.ErrNotClockedIn) {
		c.JSON(http.StatusConflict, res)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) myStatus(c *gin.Context) {
	ctx := c.Request.Context()
	id := identity(c)

	st, err := s.deps.Clock.Status(ctx, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	week, err := s.deps.Reports.WeeklyTotal(ctx, id.WorkerID, s.now())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: st, TotalHoursThisWeek: week})
}

func (s *Server) myHistory(c *gin.Context) {
	loc := s.deps.Reports.Location()
	start, err := parser.ParseDate(c.Query("startDate"), s.now(), loc)
	if err != nil {
		badRequest(c, err)
		return
	}
	end, err := parser.ParseDate(c.Query("endDate"), s.now(), loc)
	if err != nil {
		badRequest(c, err)
		return
	}

	pairs, err := s.deps.Reports.WorkerHistory(c.Request.Context(), identity(c), start, end)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pairs)
}

func (s *Server) listStaff(c *gin.Context) {
	workers, err := s.deps.Staff.AllStaff(c.Request.Context(), identity(c), c.Query("filter"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, workers)
}

func (s *Server) staffHistory(c *gin.Context) {
	id64, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	pairs, err := s.deps.Reports.StaffHistory(c.Request.Context(), identity(c), uint(id64))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pairs)
}

func (s *Server) setRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	w, err := s.deps.Staff.SetRole(c.Request.Context(), identity(c), req.UserID, req.Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (s *Server) dashboard(c *gin.Context) {
	start, end, err := parser.ParseWindow(c.Query("startDate"), c.Query("endDate"), s.now(), s.deps.Reports.Location())
	if err != nil {
		badRequest(c, err)
		return
	}

	dash, err := s.deps.Reports.DashboardStats(c.Request.Context(), identity(c), start, end)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (s *Server) showSettings(c *gin.Context) {
	current, err := s.deps.Settings.Show(c.Request.Context(), identity(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

func (s *Server) updateSettings(c *gin.Context) {
	var in settings.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := s.deps.Settings.Update(c.Request.Context(), identity(c), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
