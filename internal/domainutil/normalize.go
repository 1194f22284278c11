package domainutil

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// MaxDomainLength is the longest hostname DNS allows
const MaxDomainLength = 253

var (
	ErrEmpty          = errors.New("domain must not be empty")
	ErrTooLong        = errors.New("domain must be under 253 characters")
	ErrInvalidFormat  = errors.New("invalid domain format")
	ErrIPAddress      = errors.New("IP address is not allowed as domain")
	ErrPublicSuffix   = errors.New("domain is a public suffix")
	ErrReservedDomain = errors.New("domain is reserved by the platform")
)

// labels of 1-63 chars, alnum at both ends, and an alphabetic TLD
var hostnameRegex = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

// Normalize 对域名进行规范化处理
// 规则：
//   - trim 空格
//   - 小写
//   - 去掉末尾 .
func Normalize(host string) string {
	host = strings.TrimSpace(host)
	host = strings.ToLower(host)
	return strings.TrimSuffix(host, ".")
}

// Validate normalizes host and checks it can be registered as a custom domain.
// brandDomain, when non-empty, reserves itself and every name below it.
func Validate(host, brandDomain string) (string, error) {
	host = Normalize(host)

	if host == "" {
		return "", ErrEmpty
	}
	if len(host) > MaxDomainLength {
		return "", ErrTooLong
	}
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return "", fmt.Errorf("%w: %s", ErrIPAddress, host)
	}
	if !hostnameRegex.MatchString(host) {
		return "", fmt.Errorf("%w: %s", ErrInvalidFormat, host)
	}

	// 使用 PSL 计算 eTLD+1，域名本身是公共后缀时报错
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return "", fmt.Errorf("%w: %s", ErrPublicSuffix, host)
	}

	brandDomain = Normalize(brandDomain)
	if brandDomain != "" && (host == brandDomain || strings.HasSuffix(host, "."+brandDomain)) {
		return "", fmt.Errorf("%w: %s", ErrReservedDomain, host)
	}

	return host, nil
}

// EffectiveApex 使用 PSL 计算 eTLD+1（注册域名/授权根）
// 例如：
//   - go.example.com -> example.com
//   - a.b.example.co.uk -> example.co.uk
func EffectiveApex(domain string) (string, error) {
	apex, err := publicsuffix.EffectiveTLDPlusOne(Normalize(domain))
	if err != nil {
		return "", fmt.Errorf("PSL lookup failed for %s: %w", domain, err)
	}
	return apex, nil
}

// EqualHost compares two hostnames ignoring case and a trailing root dot
func EqualHost(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
