package domains

import (
	"time"

	"lnk_domains/internal/model"
)

// CreateRequest represents create domain request
type CreateRequest struct {
	Domain   string                `json:"domain" binding:"required"`
	Type     model.DomainType      `json:"type"`
	Settings *model.DomainSettings `json:"settings"`
}

// UpdateRequest represents update domain request; omitted fields are unchanged
type UpdateRequest struct {
	Type     *model.DomainType     `json:"type"`
	Settings *model.DomainSettings `json:"settings"`
}

// ListRequest represents list domains query
type ListRequest struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Status    string `form:"status"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// DomainDTO is the API shape of a custom domain
type DomainDTO struct {
	ID                   string               `json:"id"`
	TeamID               string               `json:"teamId"`
	UserID               string               `json:"userId"`
	Domain               string               `json:"domain"`
	Type                 model.DomainType     `json:"type"`
	Status               model.DomainStatus   `json:"status"`
	SSLStatus            model.SSLStatus      `json:"sslStatus"`
	VerificationToken    string               `json:"verificationToken"`
	VerificationMethod   string               `json:"verificationMethod"`
	IsVerified           bool                 `json:"isVerified"`
	VerifiedAt           *time.Time           `json:"verifiedAt"`
	LastCheckAt          *time.Time           `json:"lastCheckAt"`
	LastCheckError       *string              `json:"lastCheckError"`
	VerificationAttempts int                  `json:"verificationAttempts"`
	DNSRecords           []model.DNSRecord    `json:"dnsRecords"`
	Settings             model.DomainSettings `json:"settings"`
	IsDefault            bool                 `json:"isDefault"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

func toDTO(d *model.CustomDomain) DomainDTO {
	records := []model.DNSRecord(d.DNSRecords)
	if records == nil {
		records = []model.DNSRecord{}
	}
	return DomainDTO{
		ID:                   d.ID,
		TeamID:               d.TeamID,
		UserID:               d.UserID,
		Domain:               d.Domain,
		Type:                 d.Type,
		Status:               d.Status,
		SSLStatus:            d.SSLStatus,
		VerificationToken:    d.VerificationToken,
		VerificationMethod:   d.VerificationMethod,
		IsVerified:           d.IsVerified,
		VerifiedAt:           d.VerifiedAt,
		LastCheckAt:          d.LastCheckAt,
		LastCheckError:       d.LastCheckError,
		VerificationAttempts: d.VerificationAttempts,
		DNSRecords:           records,
		Settings:             d.Settings.Data(),
		IsDefault:            d.IsDefault,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

func toDTOs(items []model.CustomDomain) []DomainDTO {
	out := make([]DomainDTO, 0, len(items))
	for i := range items {
		out = append(out, toDTO(&items[i]))
	}
	return out
}
