package email

import (
	"errors"
	"net"
	"strings"
)

// Diagnosis clasifica una falla SMTP.
type Diagnosis struct {
	Code      string // auth|tls|dial|timeout|rate_limited|invalid_recipient|rejected|network|unknown
	Temporary bool   // conviene reintentar
}

type diagRule struct {
	code      string
	temporary bool
	match     func(s string) bool
}

func containsAny(needles ...string) func(string) bool {
	return func(s string) bool {
		for _, n := range needles {
			if strings.Contains(s, n) {
				return true
			}
		}
		return false
	}
}

// El orden importa: la primera regla que matchea gana.
var diagRules = []diagRule{
	{"timeout", true, containsAny("timeout", "deadline exceeded")},
	{"dial", true, containsAny("connection refused", "connectex:", "no such host", "dial tcp")},
	{"tls", false, func(s string) bool {
		return strings.Contains(s, "x509:") ||
			strings.Contains(s, "tls") && (strings.Contains(s, "handshake") || strings.Contains(s, "certificate"))
	}},
	{"auth", false, func(s string) bool {
		return containsAny("5.7.8", "535", "username and password not accepted", "authentication failed")(s) ||
			strings.Contains(s, "auth") && strings.Contains(s, "failed")
	}},
	{"rate_limited", true, containsAny("4.7.0", "rate limit", "try again later", "temporarily unavailable", "451", "421")},
	{"invalid_recipient", false, containsAny("5.1.1", "user unknown", "mailbox not found")},
	{"rejected", false, containsAny("5.7.1", "message rejected", "policy", "dmarc", "spf")},
}

// DiagnoseSMTP clasifica err. Sólo las fallas Temporary se reintentan.
func DiagnoseSMTP(err error) Diagnosis {
	if err == nil {
		return Diagnosis{Code: "unknown"}
	}

	var ne net.Error
	isNet := errors.As(err, &ne)
	if isNet && ne.Timeout() {
		return Diagnosis{Code: "timeout", Temporary: true}
	}

	s := strings.ToLower(err.Error())
	for _, r := range diagRules {
		if r.match(s) {
			return Diagnosis{Code: r.code, Temporary: r.temporary}
		}
	}

	if isNet {
		return Diagnosis{Code: "network", Temporary: true}
	}
	return Diagnosis{Code: "unknown"}
}
