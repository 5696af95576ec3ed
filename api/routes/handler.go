// Package routes serves the route catalog.
package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kilianp07/trafficpredict/api/httputil"
	"github.com/kilianp07/trafficpredict/core/catalog"
	"github.com/kilianp07/trafficpredict/core/model"
	"github.com/kilianp07/trafficpredict/core/prediction"
)

// listing returns the catalog routes. With a live=true query parameter and
// an engine, travel figures are recomputed for the requested hour and
// day_type, which default to the current time. sort=fastest orders the
// result by predicted travel time.
func listing(r *http.Request, c *catalog.Catalog, engine prediction.Engine) []model.Route {
	routes := current(r, c, engine)
	if r.URL.Query().Get("sort") == SortFastest {
		return catalog.Rank(routes)
	}
	return routes
}

// SortFastest is the sort query value ranking routes fastest first.
const SortFastest = "fastest"

func current(r *http.Request, c *catalog.Catalog, engine prediction.Engine) []model.Route {
	q := r.URL.Query()
	if engine == nil || q.Get("live") != "true" {
		return c.List()
	}
	now := time.Now()
	hour := now.Hour()
	if h, err := strconv.Atoi(q.Get("hour")); err == nil {
		hour = h
	}
	day := model.ClassifyDay(now)
	if d := q.Get("day_type"); d != "" {
		day = model.ParseDayType(d)
	}
	return c.Live(engine, hour, day)
}

// NewListHandler returns the GET /api/routes handler.
func NewListHandler(c *catalog.Catalog, engine prediction.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, listing(r, c, engine))
	})
}

// NewStatsHandler returns the GET /api/routes/stats handler.
func NewStatsHandler(c *catalog.Catalog, engine prediction.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, catalog.Summarize(listing(r, c, engine)))
	})
}

// NewGetHandler returns the GET /api/routes/{id} handler.
func NewGetHandler(c *catalog.Catalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		route, ok := c.Get(id)
		if !ok {
			httputil.WriteError(w, http.StatusNotFound, "route "+id+" not found")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, route)
	})
}
