package taxid

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTaxID = errors.New("invalid tax id")

// TaxID is the personal taxpayer identifier (CPF) used as the natural key for
// a worker record. Stored as the bare 11-digit string.
type TaxID struct {
	value string
}

// New strips formatting punctuation and validates length, digit content and
// both mod-11 check digits. Identifiers made of a single repeated digit pass
// the check-digit arithmetic but are not valid and are rejected.
func New(raw string) (TaxID, error) {
	cleaned := strings.NewReplacer(".", "", "-", "", " ", "").Replace(strings.TrimSpace(raw))
	if len(cleaned) != 11 {
		return TaxID{}, fmt.Errorf("%w: expected 11 digits, got %d", ErrInvalidTaxID, len(cleaned))
	}

	digits := make([]int, 11)
	allSame := true
	for i, r := range cleaned {
		if r < '0' || r > '9' {
			return TaxID{}, fmt.Errorf("%w: non-digit character", ErrInvalidTaxID)
		}
		digits[i] = int(r - '0')
		if digits[i] != digits[0] {
			allSame = false
		}
	}
	if allSame {
		return TaxID{}, fmt.Errorf("%w: repeated digit sequence", ErrInvalidTaxID)
	}

	if checkDigit(digits, 9) != digits[9] || checkDigit(digits, 10) != digits[10] {
		return TaxID{}, fmt.Errorf("%w: check digit mismatch", ErrInvalidTaxID)
	}

	return TaxID{value: cleaned}, nil
}

func checkDigit(digits []int, pos int) int {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += digits[i] * (pos + 1 - i)
	}
	rest := sum * 10 % 11
	if rest == 10 {
		return 0
	}
	return rest
}

func (t TaxID) Value() string { return t.value }
func (t TaxID) IsZero() bool  { return t.value == "" }

// Format renders the identifier in the conventional 000.000.000-00 shape.
func (t TaxID) Format() string {
	if t.value == "" {
		return ""
	}
	return fmt.Sprintf("%s.%s.%s-%s", t.value[0:3], t.value[3:6], t.value[6:9], t.value[9:11])
}
