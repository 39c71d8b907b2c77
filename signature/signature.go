// Package signature prepares a generated report for an electronic signature
// service. Sending is left to the application through Sender.
package signature

import (
	"context"
	"errors"
	"strings"

	"github.com/wudi/inspectkit/inspection"
)

// ErrNoSigner is returned when no tenant email is known.
var ErrNoSigner = errors.New("signature: no signer email")

const subjectPrefix = "État des lieux"

type Request struct {
	PDF         []byte
	SignerEmail string
	SignerName  string
	Subject     string
}

// Sender delivers a Request to a signature-collection service.
type Sender interface {
	Send(ctx context.Context, req Request) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, req Request) error

func (f SenderFunc) Send(ctx context.Context, req Request) error { return f(ctx, req) }

// NewRequest derives the signer from the record and the tenant context. The
// record's tenant name wins over the context's; the email only exists on the
// tenant context.
func NewRequest(rec inspection.Record, tenant *inspection.Tenant, pdf []byte) (Request, error) {
	var email, name string
	if tenant != nil {
		email = strings.TrimSpace(tenant.Email)
		name = strings.TrimSpace(tenant.Name)
	}
	if email == "" {
		return Request{}, ErrNoSigner
	}
	if n := strings.TrimSpace(rec.General.Tenant); n != "" {
		name = n
	}
	if name == "" {
		name = email
	}
	subject := subjectPrefix
	if ref := strings.TrimSpace(rec.General.Reference); ref != "" {
		subject += " - " + ref
	}
	return Request{PDF: pdf, SignerEmail: email, SignerName: name, Subject: subject}, nil
}
