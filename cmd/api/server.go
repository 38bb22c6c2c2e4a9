package main

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hitalo07/bootcamp-gostack-meetapp/auth"
	"github.com/hitalo07/bootcamp-gostack-meetapp/file"
	"github.com/hitalo07/bootcamp-gostack-meetapp/meetup"
	"github.com/hitalo07/bootcamp-gostack-meetapp/user"
)

type Server struct {
	meetups    *meetup.Service
	users      *user.Service
	files      file.Store
	tokens     *auth.TokenManager
	uploadsDir string
	logger     *zap.Logger
}

// listMeetups serves the shared listing: every authenticated user sees
// every meetup in the requested window, owner included.
func (s *Server) listMeetups(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	meetups, err := s.meetups.List(c.Request.Context(), c.Query("date"), page)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"meetups": meetups,
	}})
}

func (s *Server) findMeetup(c *gin.Context) {
	m, err := s.meetups.Find(c.Request.Context(), c.Param("meetupId"))
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"meetup": m,
	}})
}

func (s *Server) createMeetup(c *gin.Context) {
	var input meetup.CreateMeetupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := s.meetups.Create(c.Request.Context(), callerID(c), input)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"meetup": m,
	}})
}

func (s *Server) updateMeetup(c *gin.Context) {
	var input meetup.UpdateMeetupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := s.meetups.Update(c.Request.Context(), callerID(c), c.Param("meetupId"), input)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"meetup": m,
	}})
}

func (s *Server) deleteMeetup(c *gin.Context) {
	if err := s.meetups.Cancel(c.Request.Context(), callerID(c), c.Param("meetupId")); err != nil {
		s.errorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) createUser(c *gin.Context) {
	var input user.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := s.users.Register(c.Request.Context(), input)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"user": u,
	}})
}

type createSessionInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) createSession(c *gin.Context) {
	var input createSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := s.users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	token, err := s.tokens.Sign(u.ID)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"user":  u,
		"token": token,
	}})
}

func (s *Server) updateUser(c *gin.Context) {
	var input user.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := s.users.Update(c.Request.Context(), callerID(c), input)
	if err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"user": u,
	}})
}

func (s *Server) createFile(c *gin.Context) {
	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path := filepath.Join(s.uploadsDir, uuid.New().String()+filepath.Ext(upload.Filename))
	if err := c.SaveUploadedFile(upload, path); err != nil {
		s.errorResponse(c, err)
		return
	}

	f := &file.File{Name: upload.Filename, Path: path}
	if err := s.files.CreateFile(c.Request.Context(), f); err != nil {
		s.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"file": f,
	}})
}

// errorResponse maps domain errors onto status codes. Anything it does
// not recognise is logged and hidden behind a generic 500.
func (s *Server) errorResponse(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case meetup.IsValidation(err),
		errors.As(err, &validationErrs),
		errors.Is(err, meetup.ErrInvalidDate),
		errors.Is(err, meetup.ErrPastMeetup),
		errors.Is(err, user.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, meetup.ErrNotAuthorized),
		errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrPasswordMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, meetup.ErrNotFound), errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isStoreFailure(err):
		s.logger.Error("store failure", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// isStoreFailure recognises the persistence-failure kind of every store,
// so the 500 mapping is by type rather than default fallthrough.
func isStoreFailure(err error) bool {
	var ue *user.StoreError
	var fe *file.StoreError
	return meetup.IsStoreFailure(err) || errors.As(err, &ue) || errors.As(err, &fe)
}
