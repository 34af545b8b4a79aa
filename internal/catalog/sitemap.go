package catalog

import (
	"net/http"
	"regexp"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/ayush/favorites-api/internal/respond"
)

// Route is one sitemap entry.
type Route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

var paramPattern = regexp.MustCompile(`\{([^:}]+):[^}]+\}`)

// ListRoutes walks the router and returns every registered route,
// with parameter regexps stripped, sorted by path then method.
func ListRoutes(routes chi.Routes) ([]Route, error) {
	out := []Route{}
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, Route{Method: method, Path: paramPattern.ReplaceAllString(route, "{$1}")})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}

// Sitemap lists all routes registered on routes at request time.
func Sitemap(routes chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := ListRoutes(routes)
		if err != nil {
			writeError(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, list)
	}
}
