package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
)

type certificateRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// CertificateCreate renders a donation certificate and returns it as a PDF
// attachment.
func (a *App) CertificateCreate(w http.ResponseWriter, r *http.Request) {
	if a.Issuer == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "certificates are not configured")
		return
	}
	var req certificateRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Amount < 0 || math.IsInf(req.Amount, 0) || math.IsNaN(req.Amount) {
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a non-negative number")
		return
	}
	issued, err := a.Issuer.Issue(r.Context(), req.Name, req.Amount)
	if err != nil {
		a.logger().Error().Err(err).Msg("certificate: issue")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create certificate")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", issued.Certificate.Filename()))
	w.Header().Set("Content-Length", strconv.Itoa(len(issued.PDF)))
	w.Header().Set("X-Certificate-Number", issued.Certificate.Number)
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(issued.PDF)
}
