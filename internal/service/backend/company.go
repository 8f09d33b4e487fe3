// internal/service/backend/company.go
package backend

import (
	"context"
	"fmt"
	"time"

	"signup-service/internal/domain/signup"
	xerrors "signup-service/internal/pkg/errors"
	"signup-service/internal/pkg/validation"
)

var companies = map[string]signup.CompanyInfo{
	"556012-3456": {
		OrgNr: "556012-3456", CompanyName: "Acme Corp AB",
		Street: "Storgatan 1", Zip: "123 45", City: "Stockholm",
		IsCreditApproved: true, SignatoryType: signup.SignatorySingle,
		PrimarySigner: &signup.Signer{Name: "Anders Andersson", PNR: "19800101-1234"},
	},
	"556999-9999": {
		OrgNr: "556999-9999", CompanyName: "Denied AB",
		Street: "Bakgatan 9", Zip: "999 99", City: "Kiruna",
		IsCreditApproved: false, SignatoryType: signup.SignatorySingle,
	},
	"556111-2222": {
		OrgNr: "556111-2222", CompanyName: "Dual Signers AB",
		Street: "Dubbelvägen 2", Zip: "222 22", City: "Malmö",
		IsCreditApproved: true, SignatoryType: signup.SignatoryDual,
	},
}

type CompanyService struct {
	delay time.Duration
}

func NewCompanyService(latency time.Duration) *CompanyService {
	return &CompanyService{delay: latency}
}

// FormatOrgNr renders ten digits as NNNNNN-NNNN and leaves anything else as is.
func FormatOrgNr(orgNr string) string {
	d := validation.Digits(orgNr)
	if len(d) != 10 {
		return orgNr
	}
	return d[:6] + "-" + d[6:]
}

func (s *CompanyService) Lookup(ctx context.Context, orgNr string) (signup.CompanyInfo, error) {
	key := FormatOrgNr(orgNr)
	if err := wait(ctx, s.delay); err != nil {
		return signup.CompanyInfo{}, err
	}
	info, ok := companies[key]
	if !ok {
		return signup.CompanyInfo{}, fmt.Errorf("Företaget hittades inte: %w", xerrors.ErrNotFound)
	}
	if info.PrimarySigner != nil {
		ps := *info.PrimarySigner
		info.PrimarySigner = &ps
	}
	return info, nil
}
