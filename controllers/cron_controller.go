package controllers

import (
	"crypto/subtle"
	"log"
	"net/http"

	"bartr_server/services"
)

// CronController exposes scheduled maintenance jobs to an external
// scheduler. Callers authenticate with a shared secret header instead of
// a user token.
type CronController struct {
	Escrow *services.EscrowService
	Secret string
}

// ExpireMatchesHandler sweeps matches past their project deadline and
// resolves the one-sided ones.
func (c *CronController) ExpireMatchesHandler(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Cron-Secret")
	if c.Secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(c.Secret)) != 1 {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	report, err := c.Escrow.SweepExpiredMatches(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	log.Printf("🧹 Expiry sweep done: %d expired, %d processed, %d failed",
		report.TotalExpired, len(report.Processed), len(report.Failed))
	respondJSON(w, http.StatusOK, report)
}
