package model

import (
	"time"

	"gorm.io/datatypes"
)

// DomainType represents how a domain is used downstream
type DomainType string

const (
	DomainTypeRedirect DomainType = "redirect"
	DomainTypePage     DomainType = "page"
	DomainTypeBoth     DomainType = "both"
)

// Valid reports whether t is a known domain type
func (t DomainType) Valid() bool {
	switch t {
	case DomainTypeRedirect, DomainTypePage, DomainTypeBoth:
		return true
	}
	return false
}

// DomainStatus represents the lifecycle state of a custom domain
type DomainStatus string

const (
	DomainStatusPending   DomainStatus = "pending"
	DomainStatusVerifying DomainStatus = "verifying"
	DomainStatusVerified  DomainStatus = "verified"
	DomainStatusFailed    DomainStatus = "failed"
	DomainStatusActive    DomainStatus = "active"
	DomainStatusSuspended DomainStatus = "suspended"
)

// AllDomainStatuses lists every status in lifecycle order
var AllDomainStatuses = []DomainStatus{
	DomainStatusPending,
	DomainStatusVerifying,
	DomainStatusVerified,
	DomainStatusFailed,
	DomainStatusActive,
	DomainStatusSuspended,
}

// ParseDomainStatus parses a status string
func ParseDomainStatus(s string) (DomainStatus, bool) {
	for _, st := range AllDomainStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// SSLStatus tracks certificate state; provisioning itself happens elsewhere
type SSLStatus string

const (
	SSLStatusNone         SSLStatus = "none"
	SSLStatusPending      SSLStatus = "pending"
	SSLStatusProvisioning SSLStatus = "provisioning"
	SSLStatusActive       SSLStatus = "active"
	SSLStatusExpired      SSLStatus = "expired"
	SSLStatusFailed       SSLStatus = "failed"
)

// VerificationMethodTXT is the only verification method in use
const VerificationMethodTXT = "TXT"

// DNS record types published by tenants
const (
	DNSRecordTypeTXT   = "TXT"
	DNSRecordTypeCNAME = "CNAME"
)

// DNSRecord is a record the tenant must publish at their DNS provider
type DNSRecord struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
	TTL   int    `json:"ttl,omitempty"`
}

// DomainSettings is per-domain serving configuration, opaque to verification
type DomainSettings struct {
	FallbackURL        string `json:"fallbackUrl,omitempty"`
	ForceHTTPS         *bool  `json:"forceHttps,omitempty"`
	HSTS               *bool  `json:"hsts,omitempty"`
	CustomNotFoundPage string `json:"customNotFoundPage,omitempty"`
}

// CustomDomain represents a tenant-owned domain attached to the platform
type CustomDomain struct {
	BaseModel
	TeamID               string                              `gorm:"type:varchar(64);not null;index:idx_custom_domains_team" json:"teamId"`
	UserID               string                              `gorm:"type:varchar(64);not null" json:"userId"`
	Domain               string                              `gorm:"type:varchar(255);uniqueIndex;not null" json:"domain"`
	Type                 DomainType                          `gorm:"type:varchar(16);not null;default:'redirect'" json:"type"`
	Status               DomainStatus                        `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	SSLStatus            SSLStatus                           `gorm:"column:ssl_status;type:varchar(16);not null;default:'none'" json:"sslStatus"`
	VerificationToken    string                              `gorm:"type:varchar(64);not null" json:"verificationToken"`
	VerificationMethod   string                              `gorm:"type:varchar(16);not null;default:'TXT'" json:"verificationMethod"`
	IsVerified           bool                                `gorm:"not null;default:false" json:"isVerified"`
	VerifiedAt           *time.Time                          `json:"verifiedAt"`
	LastCheckAt          *time.Time                          `json:"lastCheckAt"`
	LastCheckError       *string                             `gorm:"type:text" json:"lastCheckError"`
	VerificationAttempts int                                 `gorm:"not null;default:0" json:"verificationAttempts"`
	DNSRecords           datatypes.JSONSlice[DNSRecord]      `gorm:"column:dns_records" json:"dnsRecords"`
	Settings             datatypes.JSONType[DomainSettings] `json:"settings"`
	IsDefault            bool                                `gorm:"not null;default:false" json:"isDefault"`
}

// TableName specifies the table name for CustomDomain model
func (CustomDomain) TableName() string {
	return "custom_domains"
}
