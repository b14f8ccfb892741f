package certificate

// Surface is the subset of the PDF engine the certificate layout draws on.
// *fpdf.Fpdf satisfies it.
type Surface interface {
	SetFillColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetTextColor(r, g, b int)
	SetLineWidth(width float64)
	SetFont(family, style string, size float64)
	Rect(x, y, w, h float64, style string)
	RoundedRect(x, y, w, h, r float64, corners string, style string)
	Circle(x, y, r float64, style string)
	Line(x1, y1, x2, y2 float64)
	Text(x, y float64, txt string)
	GetStringWidth(s string) float64
}

type rgb struct{ r, g, b int }

var (
	white    = rgb{255, 255, 255}
	navyDark = rgb{26, 31, 60}
	gold     = rgb{212, 175, 55}
	goldDark = rgb{184, 150, 12}
	gray     = rgb{108, 117, 125}
	faint    = rgb{150, 150, 150}
)

const (
	disclaimer   = "This certificate has no monetary value, represents no tax deduction, and accomplishes nothing of consequence."
	organization = "Donate to Nothing | The Most Honest Non-Charity"
)

type painter struct {
	s Surface
}

func (p painter) fill(c rgb) { p.s.SetFillColor(c.r, c.g, c.b) }
func (p painter) draw(c rgb) { p.s.SetDrawColor(c.r, c.g, c.b) }
func (p painter) text(c rgb) { p.s.SetTextColor(c.r, c.g, c.b) }
func (p painter) font(family, style string, size float64) {
	p.s.SetFont(family, style, size)
}

func (p painter) centered(txt string, cx, y float64) {
	p.s.Text(cx-p.s.GetStringWidth(txt)/2, y, txt)
}

func (p painter) rightAligned(txt string, right, y float64) {
	p.s.Text(right-p.s.GetStringWidth(txt), y, txt)
}

// corner draws an L-shaped ornament with a dot, opening towards the page.
func (p painter) corner(x, y float64, flipX, flipY bool) {
	const size = 8
	dirX, dirY := 1.0, 1.0
	if flipX {
		dirX = -1
	}
	if flipY {
		dirY = -1
	}
	p.draw(gold)
	p.s.SetLineWidth(1.5)
	p.s.Line(x, y, x+size*dirX, y)
	p.s.Line(x, y, x, y+size*dirY)
	p.fill(gold)
	p.s.Circle(x+3*dirX, y+3*dirY, 1, "F")
}

// Draw lays the certificate out on a landscape Letter page measured in mm.
func Draw(s Surface, c Certificate, pageWidth, pageHeight float64) {
	p := painter{s: s}
	cx := pageWidth / 2

	p.fill(white)
	s.Rect(0, 0, pageWidth, pageHeight, "F")

	p.draw(gold)
	s.SetLineWidth(3)
	s.Rect(10, 10, pageWidth-20, pageHeight-20, "D")
	s.SetLineWidth(1)
	s.Rect(15, 15, pageWidth-30, pageHeight-30, "D")

	p.corner(12, 12, false, false)
	p.corner(pageWidth-12, 12, true, false)
	p.corner(12, pageHeight-12, false, true)
	p.corner(pageWidth-12, pageHeight-12, true, true)

	const sealY = 45
	p.fill(navyDark)
	p.draw(gold)
	s.SetLineWidth(2)
	s.Circle(cx, sealY, 18, "FD")
	p.text(gold)
	p.font("Helvetica", "B", 28)
	p.centered("O", cx, sealY+3)
	s.SetLineWidth(0.8)
	s.Line(cx-8, sealY+8, cx+8, sealY-8)

	p.text(navyDark)
	p.font("Times", "B", 28)
	p.centered("CERTIFICATE OF DONATION", cx, 75)

	p.font("Times", "I", 14)
	p.text(gray)
	p.centered("to Absolutely Nothing", cx, 83)

	p.draw(gold)
	s.SetLineWidth(0.5)
	s.Line(cx-60, 88, cx+60, 88)

	p.font("Times", "", 12)
	p.text(gray)
	p.centered("This certifies that", cx, 100)

	p.font("Times", "BI", 24)
	p.text(navyDark)
	p.centered(c.DonorName, cx, 115)
	nameWidth := s.GetStringWidth(c.DonorName)
	p.draw(gold)
	s.SetLineWidth(0.8)
	s.Line(cx-nameWidth/2-10, 118, cx+nameWidth/2+10, 118)

	p.font("Times", "", 12)
	p.text(gray)
	p.centered("has generously donated", cx, 128)

	p.font("Times", "B", 32)
	p.text(goldDark)
	p.centered(c.AmountLabel(), cx, 145)

	p.font("Times", "", 12)
	p.text(gray)
	p.centered("to absolutely nothing whatsoever", cx, 155)

	const tierWidth, tierHeight, tierY = 60, 10, 162
	p.fill(navyDark)
	s.RoundedRect(cx-tierWidth/2, tierY, tierWidth, tierHeight, 3, "1234", "F")
	p.font("Helvetica", "B", 10)
	p.text(white)
	p.centered("TIER: "+c.TierLabel(), cx, tierY+7)

	p.draw(gray)
	s.SetLineWidth(0.3)
	s.Line(40, 180, pageWidth-40, 180)

	p.font("Helvetica", "", 9)
	p.text(gray)
	s.Text(50, 188, "Date: "+c.DateLabel())
	p.rightAligned("Certificate #: "+c.Number, pageWidth-50, 188)

	p.font("Times", "I", 7)
	p.text(faint)
	p.centered(disclaimer, cx, 197)

	p.font("Times", "I", 8)
	p.centered(organization, cx, 203)
}
