// Package rewards decides when a student has earned a play break and issues the
// short-lived codes that redeem it.
package rewards

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	CodePrefix = "GAME"
	CodeTTL    = 5 * time.Minute

	minEngagedLength = 50
)

// Policy decides whether a message earns a reward.
type Policy interface {
	Earned(message string) bool
}

// LengthPolicy rewards messages longer than 50 characters that are not an
// "I don't know" deflection.
type LengthPolicy struct{}

func (LengthPolicy) Earned(message string) bool {
	return utf8.RuneCountInString(message) > minEngagedLength && !strings.Contains(strings.ToLower(message), "i don't know")
}

type Issuer struct {
	now    func() time.Time
	random func() string
	ttl    time.Duration
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func WithRandom(fn func() string) Option {
	return func(i *Issuer) {
		if fn != nil {
			i.random = fn
		}
	}
}

func NewIssuer(opts ...Option) *Issuer {
	i := &Issuer{now: time.Now, random: randomSuffix, ttl: CodeTTL}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue returns GAME-<issued epoch millis>-<random>, upper-cased.
func (i *Issuer) Issue() (string, time.Time) {
	issued := i.now()
	code := fmt.Sprintf("%s-%d-%s", CodePrefix, issued.UnixMilli(), i.random())
	return strings.ToUpper(code), issued
}

// Validate accepts a code with exactly three segments and a numeric timestamp
// issued less than five minutes ago.
func (i *Issuer) Validate(code string) bool {
	parts := strings.Split(strings.TrimSpace(code), "-")
	if len(parts) != 3 || !strings.EqualFold(parts[0], CodePrefix) || parts[2] == "" {
		return false
	}
	ms, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return false
	}
	age := i.now().Sub(time.UnixMilli(ms))
	return age >= 0 && age < i.ttl
}

var suffixEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func randomSuffix() string {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano()%1e9, 36)
	}
	return suffixEncoding.EncodeToString(b[:])
}
