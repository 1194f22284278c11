package customdomain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"lnk_domains/internal/domainutil"
	"lnk_domains/internal/model"
)

const (
	// TXTRecordLabel is prepended to the tenant domain for the ownership record
	TXTRecordLabel = "_lnkday-verify"
	// TokenPrefix starts every verification token
	TokenPrefix = "lnkday-verify-"
	// RecordTTL is the TTL suggested to tenants
	RecordTTL = 300
)

// GenerateToken returns lnkday-verify- followed by 16 random bytes in hex
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return TokenPrefix + hex.EncodeToString(b), nil
}

// TXTRecordName returns the ownership record name for domain
func TXTRecordName(domain string) string {
	return TXTRecordLabel + "." + domain
}

// RequiredRecords computes the two records a tenant must publish.
// They are stored on the row at creation and never recomputed.
func RequiredRecords(domain, token, targetCNAME string) []model.DNSRecord {
	return []model.DNSRecord{
		{Type: model.DNSRecordTypeTXT, Name: TXTRecordName(domain), Value: token, TTL: RecordTTL},
		{Type: model.DNSRecordTypeCNAME, Name: domain, Value: targetCNAME, TTL: RecordTTL},
	}
}

// requiredRecord returns the stored record of the given type
func requiredRecord(d *model.CustomDomain, recordType string) (model.DNSRecord, bool) {
	for _, r := range d.DNSRecords {
		if r.Type == recordType {
			return r, true
		}
	}
	return model.DNSRecord{}, false
}

// txtValueValid: TXT values must equal the token exactly
func txtValueValid(value, token string) bool {
	return token != "" && value == token
}

// cnameValueValid ignores case and an optional trailing root dot
func cnameValueValid(value, target string) bool {
	return target != "" && domainutil.EqualHost(value, target)
}

func anyValid(values []string, expected string, valid func(string, string) bool) bool {
	for _, v := range values {
		if valid(v, expected) {
			return true
		}
	}
	return false
}
