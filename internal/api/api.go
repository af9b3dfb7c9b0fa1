// Package api exposes the submission service over HTTP. Response
// bodies follow the portal convention: {"success": true, ...} on
// success, {"success": false, "error": ...} on failure.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"microhub/internal/core"
	"microhub/internal/service"
	"microhub/pkg/schema"
)

// API holds the handler dependencies.
type API struct {
	svc    *service.Service
	logger core.Logger
}

// NewRouter builds the gin engine with all portal routes mounted.
func NewRouter(svc *service.Service, logger core.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	a := &API{svc: svc, logger: logger}
	r.GET("/api/health", a.health)
	r.GET("/api/submissions", a.list)
	r.POST("/api/submissions", a.create)
	r.POST("/api/submissions/join", a.join)
	r.PATCH("/api/submissions/status", a.setStatus)
	return r
}

func (a *API) health(c *gin.Context) {
	if err := a.svc.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) create(c *gin.Context) {
	var sub schema.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request payload", "details": err.Error()})
		return
	}

	filename, err := a.svc.Create(c.Request.Context(), &sub)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": filename,
		"message":  "Submission created successfully",
	})
}

func (a *API) list(c *gin.Context) {
	listings, err := a.svc.List(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "files": listings})
}

type joinRequest struct {
	Filename string `json:"filename"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

func (a *API) join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request payload", "details": err.Error()})
		return
	}

	if err := a.svc.Join(c.Request.Context(), req.Filename, req.Name, req.Email); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Joined"})
}

type statusRequest struct {
	Filename  string `json:"filename"`
	NewStatus string `json:"newStatus"`
}

func (a *API) setStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request payload", "details": err.Error()})
		return
	}

	oldName, newName, err := a.svc.SetStatus(c.Request.Context(), req.Filename, req.NewStatus)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"oldFilename": oldName,
		"newFilename": newName,
		"message":     "Status updated to " + req.NewStatus,
	})
}

// fail maps service errors onto HTTP status codes: validation and
// malformed filenames are the caller's problem (400), missing records
// are 404, lost write races are 409 so clients know to retry, anything
// else is a 500.
func (a *API) fail(c *gin.Context, err error) {
	var fieldErrs schema.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"details": fieldErrs,
		})
	case errors.Is(err, schema.ErrMalformedFilename):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid filename format"})
	case core.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "submission not found"})
	case core.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "submission changed concurrently, please retry"})
	default:
		a.logger.Error("request failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
