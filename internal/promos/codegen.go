package promos

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{3,31}$`)

// GenerateCode builds a code like VENUE20-OCT25-AB12, taking the month from
// the promo's start date
func GenerateCode(scope Scope, percent int, startDate time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return fmt.Sprintf("%s%d-%s-%s", scope, percent, strings.ToUpper(startDate.Format("Jan06")), suffix)
}

// NormalizeCode upper-cases and trims a user supplied code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validCode(code string) bool {
	return codePattern.MatchString(code)
}
