package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Nasko-Kurtakov/imot-bg-crawler/models"
	"github.com/Nasko-Kurtakov/imot-bg-crawler/utils"
)

// CrawlFunc runs one crawl with validated criteria and options and returns
// the collected records. The server awaits it synchronously: the HTTP
// request takes as long as the crawl runs.
type CrawlFunc func(criteria models.SearchCriteria, opts models.CrawlOptions) ([]models.ListingRecord, error)

// Server is the HTTP trigger boundary around the crawler.
type Server struct {
	crawl      CrawlFunc
	logger     *utils.Logger
	uiDistPath string
}

// New creates the server. uiDistPath may name a directory with a built UI;
// when it exists it is served with an index.html fallback for client-side
// routes.
func New(crawl CrawlFunc, uiDistPath string, logger *utils.Logger) *Server {
	return &Server{crawl: crawl, logger: logger, uiDistPath: uiDistPath}
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/crawl", s.handleCrawl).Methods(http.MethodPost)

	if info, err := os.Stat(s.uiDistPath); err == nil && info.IsDir() {
		s.logger.Info("Serving UI from %s", s.uiDistPath)
		r.PathPrefix("/").Handler(spaHandler{root: s.uiDistPath})
	}

	return cors.AllowAll().Handler(r)
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("Server listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// spaHandler serves files from root, falling back to index.html for paths
// the client-side router owns.
type spaHandler struct {
	root string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.root, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
}
