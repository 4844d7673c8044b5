package interfaces

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"role-catalog/application"
	"role-catalog/domain"
)

type HTTPHandler struct {
	Store   domain.RoleStore
	Queries *application.QueryService
}

// NewHTTPHandler registers the job role routes on router.
func NewHTTPHandler(router gin.IRouter, store domain.RoleStore, queries *application.QueryService) *HTTPHandler {
	h := &HTTPHandler{Store: store, Queries: queries}

	roles := router.Group("/roles")
	roles.GET("", h.ListRoles)
	roles.POST("", h.CreateRole)
	roles.GET("/search", h.SearchRoles)
	roles.GET("/sorted", h.ListRolesSorted)
	roles.GET("/:id", h.GetRole)
	roles.PUT("/:id", h.UpdateRole)
	roles.DELETE("/:id", h.DeleteRole)
	roles.GET("/education/:value", h.RolesByEducation)
	roles.GET("/education/:value/count", h.CountByEducation)
	roles.GET("/location/:value", h.RolesByLocation)
	roles.GET("/location/:value/exists", h.LocationExists)
	return h
}

func (h *HTTPHandler) ListRoles(c *gin.Context) {
	roles, err := h.Store.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (h *HTTPHandler) GetRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	role, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// CreateRole stores a new role. Any id or timestamps in the body are ignored.
func (h *HTTPHandler) CreateRole(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	role, err := h.Store.Create(c.Request.Context(), fields)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// UpdateRole replaces every mutable field of the role named by the path id.
func (h *HTTPHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	role, err := h.Store.Update(c.Request.Context(), id, fields)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

func (h *HTTPHandler) DeleteRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Store.Delete(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) RolesByEducation(c *gin.Context) {
	roles, err := h.Queries.ByEducationLevel(c.Request.Context(), c.Param("value"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (h *HTTPHandler) RolesByLocation(c *gin.Context) {
	roles, err := h.Queries.ByLocationName(c.Request.Context(), c.Param("value"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// SearchRoles filters on a case-insensitive title fragment.
func (h *HTTPHandler) SearchRoles(c *gin.Context) {
	fragment := strings.TrimSpace(c.Query("title"))
	if fragment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}
	roles, err := h.Queries.ByTitleContains(c.Request.Context(), fragment)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (h *HTTPHandler) ListRolesSorted(c *gin.Context) {
	roles, err := h.Queries.AllSortedByTitle(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (h *HTTPHandler) CountByEducation(c *gin.Context) {
	value := c.Param("value")
	n, err := h.Queries.CountByEducationLevel(c.Request.Context(), value)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"educationLevel": value, "count": n})
}

func (h *HTTPHandler) LocationExists(c *gin.Context) {
	value := c.Param("value")
	ok, err := h.Queries.ExistsByLocationName(c.Request.Context(), value)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locationName": value, "exists": ok})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func bindFields(c *gin.Context) (domain.RoleFields, bool) {
	var fields domain.RoleFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return fields, false
	}
	if err := fields.Validate(); err != nil {
		renderError(c, err)
		return fields, false
	}
	return fields, true
}

// renderError maps store errors onto the response contract: not found is a
// bare 404, validation is a 400 with field details, anything else is a 500.
func renderError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	default:
		requestLogger(c).Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
