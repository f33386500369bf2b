package dto

import (
	"time"

	"jobhub/internal/domain/company"
	"jobhub/internal/usecase"

	"github.com/google/uuid"
)

type CompanyRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Industry    string `json:"industry" validate:"max=100"`
	Website     string `json:"website" validate:"omitempty,url"`
	Address     string `json:"address"`
	City        string `json:"city" validate:"max=100"`
	LogoURL     string `json:"logoUrl" validate:"omitempty,url"`
}

func (r CompanyRequest) ToInput() usecase.CompanyInput {
	return usecase.CompanyInput{
		Name:        r.Name,
		Description: r.Description,
		Industry:    r.Industry,
		Website:     r.Website,
		Address:     r.Address,
		City:        r.City,
		LogoURL:     r.LogoURL,
	}
}

type VerifyCompanyRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type RejectCompanyRequest struct {
	Reason string `json:"reason" validate:"required,notblank,max=1000"`
}

type CompanyResponse struct {
	ID                uuid.UUID      `json:"id"`
	RecruiterID       uuid.UUID      `json:"recruiterId"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Industry          string         `json:"industry"`
	Website           string         `json:"website"`
	Address           string         `json:"address"`
	City              string         `json:"city"`
	LogoURL           string         `json:"logoUrl"`
	Status            company.Status `json:"status"`
	Verified          bool           `json:"verified"`
	VerifiedAt        *time.Time     `json:"verifiedAt,omitempty"`
	VerificationNotes string         `json:"verificationNotes,omitempty"`
	RejectionReason   string         `json:"rejectionReason,omitempty"`
	RejectedAt        *time.Time     `json:"rejectedAt,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func NewCompanyResponse(c company.Company) CompanyResponse {
	return CompanyResponse{
		ID:                c.ID,
		RecruiterID:       c.RecruiterID,
		Name:              c.Name,
		Description:       c.Description,
		Industry:          c.Industry,
		Website:           c.Website,
		Address:           c.Address,
		City:              c.City,
		LogoURL:           c.LogoURL,
		Status:            c.Status,
		Verified:          c.Verified,
		VerifiedAt:        c.VerifiedAt,
		VerificationNotes: c.VerificationNotes,
		RejectionReason:   c.RejectionReason,
		RejectedAt:        c.RejectedAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func NewCompanyList(items []company.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(items))
	for _, c := range items {
		out = append(out, NewCompanyResponse(c))
	}
	return out
}
