package certificate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"donatewall/internal/infra"
	"donatewall/internal/storage"
)

// Render writes c as a single-page landscape Letter PDF.
func Render(w io.Writer, c Certificate) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetTitle("Certificate of Donation "+c.Number, true)
	pdf.SetCreator("Donate to Nothing", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accented donor names survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	translated := c
	translated.DonorName = tr(c.DonorName)

	width, height := pdf.GetPageSize()
	Draw(pdf, translated, width, height)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("certificate: render pdf: %w", err)
	}
	return nil
}

// Options configures an Issuer.
type Options struct {
	Store  *storage.FileStore
	Logger *infra.Logger
	Now    func() time.Time
	Rand   io.Reader
}

// Issuer numbers, renders and archives certificates.
type Issuer struct {
	store  *storage.FileStore
	logger *infra.Logger
	now    func() time.Time
	rand   io.Reader
}

// Issued is a rendered certificate.
type Issued struct {
	Certificate Certificate
	PDF         []byte
	StorageKey  string
}

func NewIssuer(opts Options) *Issuer {
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{store: opts.Store, logger: logger, now: now, rand: opts.Rand}
}

// Issue renders a certificate for the donor. When a store is configured the
// PDF is archived under certificates/<number>.pdf.
func (i *Issuer) Issue(ctx context.Context, name string, amount float64) (*Issued, error) {
	now := i.now()
	number, err := NewNumber(now, i.rand)
	if err != nil {
		return nil, err
	}
	cert := New(name, amount, number, now)

	var buf bytes.Buffer
	if err := Render(&buf, cert); err != nil {
		return nil, err
	}
	issued := &Issued{Certificate: cert, PDF: buf.Bytes()}

	if i.store != nil {
		key, err := i.store.Write(ctx, "certificates/"+cert.Number+".pdf", issued.PDF)
		if err != nil {
			return nil, fmt.Errorf("certificate: archive: %w", err)
		}
		issued.StorageKey = key
	}

	i.logger.Info().
		Str("number", cert.Number).
		Str("tier", string(cert.Tier)).
		Int("bytes", len(issued.PDF)).
		Msg("certificate: issued")
	return issued, nil
}
