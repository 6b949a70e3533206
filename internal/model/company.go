package model

import "time"

// Company represents a tenant company on the platform.
type Company struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	LogoURL   string    `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyAdmin represents a console user belonging to a company.
type CompanyAdmin struct {
	ID           int       `json:"id"`
	CompanyID    int       `json:"company_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterCompanyRequest is the payload for registering a company with its
// first admin account.
type RegisterCompanyRequest struct {
	CompanyName string `json:"company_name" binding:"required,min=2,max=120"`
	Industry    string `json:"industry" binding:"required,min=2,max=60"`
	AdminName   string `json:"admin_name" binding:"required,min=2,max=120"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
}

// AdminLoginRequest is the payload for a console login.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateCompanyRequest is the payload for updating company settings.
type UpdateCompanyRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=120"`
	Industry string `json:"industry" binding:"omitempty,min=2,max=60"`
	LogoURL  string `json:"logo_url" binding:"omitempty,max=500"`
}
