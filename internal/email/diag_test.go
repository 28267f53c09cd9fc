package email

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "read: deadline" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestDiagnoseSMTP(t *testing.T) {
	tests := []struct {
		err       error
		code      string
		temporary bool
	}{
		{nil, "unknown", false},
		{timeoutErr{}, "timeout", true},
		{errors.New("dial tcp 1.2.3.4:587: i/o timeout"), "timeout", true},
		{errors.New("dial tcp 1.2.3.4:587: connect: connection refused"), "dial", true},
		{errors.New("tls: handshake failure"), "tls", false},
		{errors.New("x509: certificate signed by unknown authority"), "tls", false},
		{errors.New("535 5.7.8 Username and Password not accepted"), "auth", false},
		{errors.New("421 4.7.0 Try again later"), "rate_limited", true},
		{errors.New("550 5.1.1 user unknown"), "invalid_recipient", false},
		{errors.New("550 5.7.1 message rejected due to DMARC policy"), "rejected", false},
		{&net.OpError{Op: "write", Err: errors.New("broken pipe")}, "network", true},
		{errors.New("something odd"), "unknown", false},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			d := DiagnoseSMTP(tt.err)
			assert.Equal(t, tt.code, d.Code)
			assert.Equal(t, tt.temporary, d.Temporary)
		})
	}
}
