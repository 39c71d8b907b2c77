package signature

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wudi/inspectkit/inspection"
)

func TestNewRequest(t *testing.T) {
	pdf := []byte("%PDF-1.7")
	tests := []struct {
		name   string
		rec    inspection.Record
		tenant *inspection.Tenant
		want   Request
		err    error
	}{
		{
			name:   "record tenant wins",
			rec:    inspection.Record{General: inspection.General{Tenant: "Jeanne Martin", Reference: "APT-017"}},
			tenant: &inspection.Tenant{Name: "J. Martin", Email: "jeanne@example.com"},
			want:   Request{PDF: pdf, SignerEmail: "jeanne@example.com", SignerName: "Jeanne Martin", Subject: "État des lieux - APT-017"},
		},
		{
			name:   "context name",
			tenant: &inspection.Tenant{Name: "Paul", Email: "paul@example.com"},
			want:   Request{PDF: pdf, SignerEmail: "paul@example.com", SignerName: "Paul", Subject: "État des lieux"},
		},
		{
			name:   "email only",
			tenant: &inspection.Tenant{Email: " x@example.com "},
			want:   Request{PDF: pdf, SignerEmail: "x@example.com", SignerName: "x@example.com", Subject: "État des lieux"},
		},
		{name: "no tenant", err: ErrNoSigner},
		{name: "blank email", tenant: &inspection.Tenant{Name: "Paul", Email: "  "}, err: ErrNoSigner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRequest(tt.rec, tt.tenant, pdf)
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSenderFunc(t *testing.T) {
	var got Request
	var s Sender = SenderFunc(func(_ context.Context, req Request) error {
		got = req
		return nil
	})
	if err := s.Send(context.Background(), Request{Subject: "s"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Subject != "s" {
		t.Fatalf("subject = %q", got.Subject)
	}
}
