package services

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^0[789][01]\d{8}$`)

// networkPrefixes maps Nigerian MSISDN prefixes to carriers. Used only
// when the caller supplies no explicit network.
var networkPrefixes = map[string]string{
	"0803": "MTN", "0806": "MTN", "0703": "MTN", "0706": "MTN",
	"0813": "MTN", "0816": "MTN", "0810": "MTN", "0814": "MTN",
	"0903": "MTN", "0906": "MTN", "0913": "MTN", "0916": "MTN",
	"0805": "GLO", "0807": "GLO", "0705": "GLO", "0815": "GLO",
	"0811": "GLO", "0905": "GLO", "0915": "GLO",
	"0802": "AIRTEL", "0808": "AIRTEL", "0708": "AIRTEL", "0812": "AIRTEL",
	"0701": "AIRTEL", "0901": "AIRTEL", "0902": "AIRTEL", "0907": "AIRTEL",
	"0912": "AIRTEL",
	"0809": "9MOBILE", "0817": "9MOBILE", "0818": "9MOBILE",
	"0908": "9MOBILE", "0909": "9MOBILE",
}

// NormalizePhone strips spaces and converts +234/234 numbers to local 0-form
func NormalizePhone(phone string) string {
	p := strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	p = strings.ReplaceAll(p, "-", "")
	if strings.HasPrefix(p, "+234") {
		p = "0" + p[4:]
	} else if strings.HasPrefix(p, "234") && len(p) == 13 {
		p = "0" + p[3:]
	}
	return p
}

// IsValidPhone reports whether phone is a valid Nigerian mobile number
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// DetectNetwork derives the carrier from the phone prefix. Returns "" when
// the prefix is unknown; callers treat that as a validation failure, not a
// default network.
func DetectNetwork(phone string) string {
	p := NormalizePhone(phone)
	if len(p) < 4 {
		return ""
	}
	return networkPrefixes[p[:4]]
}

// IsValidNetwork reports whether network is a supported carrier
func IsValidNetwork(network string) bool {
	switch strings.ToUpper(network) {
	case "MTN", "GLO", "AIRTEL", "9MOBILE":
		return true
	}
	return false
}
