package customdomain

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"lnk_domains/internal/model"
	"lnk_domains/internal/resolver"
)

// CheckResult holds the outcome of the two ownership lookups
type CheckResult struct {
	TXTVerified   bool
	CNAMEVerified bool
	// LookupErrors are failed lookups; they never abort the check
	LookupErrors []string
}

// Outcome is the state derived from a CheckResult
type Outcome struct {
	Event          Event
	Success        bool
	Message        string
	LastCheckError *string
}

// ObservedRecord is a live DNS value annotated against the expected one
type ObservedRecord struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

// Verifier resolves the required records of a domain and compares them
type Verifier struct {
	resolver resolver.Resolver
	logger   *logrus.Entry
}

// NewVerifier creates a Verifier
func NewVerifier(r resolver.Resolver, logger *logrus.Entry) *Verifier {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Verifier{
		resolver: r,
		logger:   logger.WithField("component", "domain-verifier"),
	}
}

// Check performs the TXT and CNAME lookups independently
func (v *Verifier) Check(ctx context.Context, d *model.CustomDomain) CheckResult {
	var result CheckResult

	if rec, ok := requiredRecord(d, model.DNSRecordTypeTXT); ok {
		values, err := v.resolver.LookupTXT(ctx, rec.Name)
		if err != nil {
			result.LookupErrors = append(result.LookupErrors, lookupMessage(err))
		}
		result.TXTVerified = anyValid(values, rec.Value, txtValueValid)
	} else {
		result.LookupErrors = append(result.LookupErrors, "TXT record requirement missing")
	}

	if rec, ok := requiredRecord(d, model.DNSRecordTypeCNAME); ok {
		values, err := v.resolver.LookupCNAME(ctx, rec.Name)
		if err != nil {
			result.LookupErrors = append(result.LookupErrors, lookupMessage(err))
		}
		result.CNAMEVerified = anyValid(values, rec.Value, cnameValueValid)
	} else {
		result.LookupErrors = append(result.LookupErrors, "CNAME record requirement missing")
	}

	v.logger.WithFields(logrus.Fields{
		"domain": d.Domain,
		"txt":    result.TXTVerified,
		"cname":  result.CNAMEVerified,
	}).Debug("verification lookups finished")

	return result
}

// Derive maps a CheckResult to the next lifecycle event. First match wins.
func Derive(r CheckResult) Outcome {
	switch {
	case r.TXTVerified && r.CNAMEVerified:
		return Outcome{
			Event:   EventVerifyMatched,
			Success: true,
			Message: "Domain verified successfully",
		}
	case r.TXTVerified || r.CNAMEVerified:
		msg := fmt.Sprintf("Partial verification: TXT=%t, CNAME=%t", r.TXTVerified, r.CNAMEVerified)
		if len(r.LookupErrors) > 0 {
			msg += "; " + strings.Join(r.LookupErrors, "; ")
		}
		return Outcome{
			Event:          EventVerifyPartial,
			Message:        msg,
			LastCheckError: &msg,
		}
	default:
		msg := "DNS records not found"
		if len(r.LookupErrors) > 0 {
			msg = strings.Join(r.LookupErrors, "; ")
		}
		return Outcome{
			Event:          EventVerifyNone,
			Message:        "Verification failed: " + msg,
			LastCheckError: &msg,
		}
	}
}

// Observe re-fetches both required names and annotates every value found
func (v *Verifier) Observe(ctx context.Context, d *model.CustomDomain) []ObservedRecord {
	observed := make([]ObservedRecord, 0, 2)

	if rec, ok := requiredRecord(d, model.DNSRecordTypeTXT); ok {
		values, err := v.resolver.LookupTXT(ctx, rec.Name)
		if err != nil {
			v.logger.WithField("domain", d.Domain).Debug(lookupMessage(err))
		}
		for _, value := range values {
			observed = append(observed, ObservedRecord{
				Type:  model.DNSRecordTypeTXT,
				Name:  rec.Name,
				Value: value,
				Valid: txtValueValid(value, rec.Value),
			})
		}
	}

	if rec, ok := requiredRecord(d, model.DNSRecordTypeCNAME); ok {
		values, err := v.resolver.LookupCNAME(ctx, rec.Name)
		if err != nil {
			v.logger.WithField("domain", d.Domain).Debug(lookupMessage(err))
		}
		for _, value := range values {
			observed = append(observed, ObservedRecord{
				Type:  model.DNSRecordTypeCNAME,
				Name:  rec.Name,
				Value: value,
				Valid: cnameValueValid(value, rec.Value),
			})
		}
	}

	return observed
}

func lookupMessage(err error) string {
	if resolver.IsTimeout(err) {
		return err.Error()
	}
	return "DNS lookup error: " + err.Error()
}
