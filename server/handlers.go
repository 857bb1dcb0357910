package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
)

// validate checks the request structs; it is stateless and safe for
// concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

type crawlRequest struct {
	Criteria models.SearchCriteria `json:"criteria" validate:"required"`
	Options  models.CrawlOptions   `json:"options"`
}

type crawlResponse struct {
	Message string                 `json:"message"`
	Count   int                    `json:"count"`
	Results []models.ListingRecord `json:"results"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCrawl validates the request and runs the crawl synchronously.
// Validation failures are rejected before any browser session is opened;
// crawl failures come back as a generic error without internal detail.
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid request body",
			Details: []string{"body must be JSON with a criteria object"},
		})
		return
	}

	if err := validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid request body",
			Details: validationDetails(err),
		})
		return
	}
	req.Criteria.ApplyDefaults()

	s.logger.Info("Received crawl request (duration: %s, regions: %d)",
		req.Criteria.Duration, len(req.Criteria.Regions))

	results, err := s.crawl(req.Criteria, req.Options)
	if err != nil {
		s.logger.Error("/crawl error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, crawlResponse{
		Message: "Crawl completed",
		Count:   len(results),
		Results: results,
	})
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fe.Namespace()+": failed "+fe.Tag())
	}
	return details
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
