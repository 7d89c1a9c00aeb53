package models

import (
	"cmp"
	"strings"
)

// Question is one row of the trade-in questionnaire. The pricing policy lives
// in these rows: an adverse answer either deducts DeductionPercentage or, for
// blocking questions, rejects the device outright.
type Question struct {
	ID                  string  `gorm:"primaryKey;size:64" json:"id" bson:"id"`
	Text                string  `gorm:"type:text;not null" json:"text" bson:"text"`
	Category            string  `gorm:"size:100;index" json:"category" bson:"category"`
	DeductionPercentage float64 `gorm:"not null;default:0" json:"deduction_percentage" bson:"deduction_percentage"`
	IsBlocking          bool    `gorm:"not null;default:false" json:"is_blocking" bson:"is_blocking"`
	YesDeducts          bool    `gorm:"not null;default:false" json:"yes_deducts" bson:"yes_deducts"`

	// Evaluation order. Assigned by the seeder, never serialized.
	Position int `gorm:"index;not null;default:0" json:"-" bson:"position"`
}

// Adverse reports whether answer describes the bad condition for this
// question: "yes" when YesDeducts is set, "no" otherwise.
func (q Question) Adverse(answer bool) bool {
	return (q.YesDeducts && answer) || (!q.YesDeducts && !answer)
}

// CompareQuestions orders by Position, then by id with digit runs compared
// numerically, so q2 sorts before q10 when positions are equal or unset.
func CompareQuestions(a, b Question) int {
	if a.Position != b.Position {
		return cmp.Compare(a.Position, b.Position)
	}
	return compareNatural(a.ID, b.ID)
}

func compareNatural(a, b string) int {
	for a != "" && b != "" {
		ra, rb := leadingRun(a), leadingRun(b)
		if isDigits(ra) && isDigits(rb) {
			na, nb := strings.TrimLeft(ra, "0"), strings.TrimLeft(rb, "0")
			if c := cmp.Compare(len(na), len(nb)); c != 0 {
				return c
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
		} else if c := strings.Compare(ra, rb); c != 0 {
			return c
		}
		a, b = a[len(ra):], b[len(rb):]
	}
	return cmp.Compare(len(a), len(b))
}

// leadingRun returns the maximal prefix of s that is all digits or all non-digits.
func leadingRun(s string) string {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(s string) bool { return s != "" && isDigit(s[0]) }
