package scraper

import (
	"fmt"
	"strings"
	"time"
)

// MinFilingYear is the earliest filing year the portal accepts.
const MinFilingYear = 1950

const maxCaseNumberLen = 100

var caseTypes = []string{
	"W.P.(C)",    // Writ Petition (Civil)
	"CRL.A.",     // Criminal Appeal
	"CRL.REV.P.", // Criminal Revision Petition
	"CS(OS)",     // Civil Suit (Original Side)
	"FAO",        // First Appeal from Order
	"CRL.M.C.",   // Criminal Miscellaneous Case
	"W.P.(CRL)",  // Writ Petition (Criminal)
	"CRL.W.",     // Criminal Writ
	"LPA",        // Letters Patent Appeal
	"CM",         // Chamber Matter
}

// CaseTypes returns the case type codes the portal knows.
func CaseTypes() []string {
	out := make([]string, len(caseTypes))
	copy(out, caseTypes)
	return out
}

// IsKnownCaseType reports whether code is one of CaseTypes.
func IsKnownCaseType(code string) bool {
	for _, t := range caseTypes {
		if t == code {
			return true
		}
	}
	return false
}

// Normalize trims surrounding whitespace from the text fields.
func (r CaseRequest) Normalize() CaseRequest {
	r.CaseType = strings.TrimSpace(r.CaseType)
	r.CaseNumber = strings.TrimSpace(r.CaseNumber)
	return r
}

// ValidateRequest checks req against the portal's input rules. now bounds
// the filing year from above.
func ValidateRequest(req CaseRequest, now time.Time) error {
	req = req.Normalize()

	if req.CaseType == "" {
		return fmt.Errorf("%w: case type is required", ErrInvalidInput)
	}
	if !IsKnownCaseType(req.CaseType) {
		return fmt.Errorf("%w: unknown case type %q", ErrInvalidInput, req.CaseType)
	}
	if req.CaseNumber == "" {
		return fmt.Errorf("%w: case number is required", ErrInvalidInput)
	}
	if len(req.CaseNumber) > maxCaseNumberLen {
		return fmt.Errorf("%w: case number longer than %d characters", ErrInvalidInput, maxCaseNumberLen)
	}
	if req.FilingYear < MinFilingYear || req.FilingYear > now.Year() {
		return fmt.Errorf("%w: filing year %d outside %d-%d", ErrInvalidInput, req.FilingYear, MinFilingYear, now.Year())
	}
	return nil
}
