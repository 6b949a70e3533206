package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sondea/sondea-backend/internal/middleware"
	"github.com/sondea/sondea-backend/internal/model"
	"github.com/sondea/sondea-backend/internal/response"
	"github.com/sondea/sondea-backend/internal/service"
	"github.com/sondea/sondea-backend/internal/validator"
)

// AuthHandler handles company registration and console authentication.
type AuthHandler struct {
	companyService *service.CompanyService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(companyService *service.CompanyService) *AuthHandler {
	return &AuthHandler{companyService: companyService}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a company together with its first admin account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterCompanyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	company, admin, err := h.companyService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"company": company,
		"admin": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
		},
	})
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password and returns a JWT. A second login replaces
// any session the admin already holds.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, admin, err := h.companyService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":         admin.ID,
			"name":       admin.Name,
			"email":      admin.Email,
			"company_id": admin.CompanyID,
		},
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Invalidates the currently authenticated admin's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.companyService.Logout(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// GetProfile godoc
// GET /api/v1/console/company
// Returns the authenticated admin's company profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	company, admin, err := h.companyService.GetProfile(c.Request.Context(), claims.CompanyID, claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"company": company,
		"admin": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
		},
	})
}

// UpdateProfile godoc
// PUT /api/v1/console/company
// Applies partial updates to the company profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.UpdateCompanyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	company, err := h.companyService.UpdateProfile(c.Request.Context(), claims.CompanyID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"company": company})
}
