package certificate

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"donatewall/internal/domain"
)

const (
	// PreviewName is printed when the donor left the name field empty.
	PreviewName = "Your Name Here"
	// PreviewAmount is used when no amount could be read from the form.
	PreviewAmount = 5

	numberPrefix = "DTN"
	base36       = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	upperCaser = cases.Upper(language.English)
	whitespace = regexp.MustCompile(`\s+`)
)

// Certificate holds everything printed on a donation certificate.
type Certificate struct {
	Number    string
	DonorName string
	Amount    float64
	Tier      domain.Tier
	IssuedAt  time.Time
}

// New fills in preview defaults and derives the tier from amount.
func New(name string, amount float64, number string, issuedAt time.Time) Certificate {
	name = strings.TrimSpace(name)
	if name == "" {
		name = PreviewName
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = PreviewAmount
	}
	return Certificate{
		Number:    number,
		DonorName: name,
		Amount:    amount,
		Tier:      domain.TierForAmount(amount),
		IssuedAt:  issuedAt,
	}
}

// TierLabel is the tier as printed on the badge, e.g. "LEGEND".
func (c Certificate) TierLabel() string {
	return upperCaser.String(string(c.Tier))
}

// DateLabel formats the issue date as "January 2, 2006".
func (c Certificate) DateLabel() string {
	return c.IssuedAt.Format("January 2, 2006")
}

// AmountLabel formats the donation with two decimals.
func (c Certificate) AmountLabel() string {
	return fmt.Sprintf("$%.2f", c.Amount)
}

// Filename is the download name, e.g. donation-certificate-jane-doe.pdf.
func (c Certificate) Filename() string {
	slug := strings.ToLower(whitespace.ReplaceAllString(c.DonorName, "-"))
	return "donation-certificate-" + slug + ".pdf"
}

// NewNumber builds a certificate number from the issue time in base36
// followed by four random base36 characters: DTN-<time>-<rand>.
func NewNumber(now time.Time, rnd io.Reader) (string, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	buf := make([]byte, 4)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return "", fmt.Errorf("certificate: read random: %w", err)
	}
	suffix := make([]byte, len(buf))
	for i, b := range buf {
		suffix[i] = base36[int(b)%len(base36)]
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return numberPrefix + "-" + stamp + "-" + string(suffix), nil
}
