package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"menuboard/internal/config"
	"menuboard/internal/feed"
	"menuboard/internal/ical"
	appLog "menuboard/internal/log"
	"menuboard/internal/menu"
)

// Server renders the menu board page and exposes the menu APIs.
type Server struct {
	cfg    *config.Config
	client *feed.Client
	mux    *http.ServeMux

	// In-memory cache of the assembled board view, so HTTP requests do
	// not refetch and reparse the feed every time. The cron refresh in
	// cmd/menuboard keeps this warm.
	viewMu    sync.RWMutex
	viewCache *viewCache
}

// BoardView is the full view model for the board page and /api/menu.
type BoardView struct {
	// Date is the board's display date, e.g. "Monday, January 2".
	Date string `json:"date"`
	// Breakfast is the breakfast serving time, if the feed has one.
	Breakfast string `json:"breakfast,omitempty"`
	// Today holds today's meals, typically [lunch, dinner].
	Today []menu.Meal `json:"today"`
	// Upcoming holds the next days' meals grouped by date.
	Upcoming []menu.Day `json:"upcoming"`
	// Essies is the snack-bar special line, if one was published.
	Essies *string `json:"essies,omitempty"`
}

// todayResponse is the machine-readable shape of /api/today. It assumes
// the day has both a lunch and a dinner; see handleToday.
type todayResponse struct {
	LunchTime  string   `json:"lunch_time"`
	Lunch      []string `json:"lunch"`
	DinnerTime string   `json:"dinner_time"`
	Dinner     []string `json:"dinner"`
}

type viewCache struct {
	view      BoardView
	updatedAt time.Time
}

const viewCacheTTL = 5 * time.Minute

//go:embed board.html.tmpl
var templateFS embed.FS

var boardTmpl = template.Must(template.New("board.html.tmpl").Funcs(template.FuncMap{
	// Station lines carry pre-built display markup (<b>, <sup>).
	"markup": func(s string) template.HTML { return template.HTML(s) },
}).ParseFS(templateFS, "board.html.tmpl"))

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, client *feed.Client) *Server {
	s := &Server{
		cfg:    cfg,
		client: client,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays reachable without credentials.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="MenuBoard", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/menu", s.handleMenu)
	s.mux.HandleFunc("/api/today", s.handleToday)
	s.mux.HandleFunc("/menu.ics", s.handleICS)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
	s.mux.HandleFunc("/", s.handleIndex)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	view, err := s.cachedView(r.Context())
	if err != nil {
		appLog.Error("board view build failed", err)
		http.Error(w, "menu unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := boardTmpl.Execute(w, view); err != nil {
		appLog.Error("board template render failed", err)
	}
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	view, err := s.cachedView(r.Context())
	if err != nil {
		appLog.Error("api menu: view build failed", err)
		writeError(w, http.StatusBadGateway, "menu unavailable")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleToday serves the machine-readable daily menu. It keeps the
// historical contract that today[0] is lunch and today[1] is dinner; a day
// with only one of the two is a fault surfaced as a 500, not guessed
// around.
func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	view, err := s.cachedView(r.Context())
	if err != nil {
		appLog.Error("api today: view build failed", err)
		writeError(w, http.StatusBadGateway, "menu unavailable")
		return
	}

	if len(view.Today) < 2 {
		writeError(w, http.StatusInternalServerError, "today's menu does not have both lunch and dinner")
		return
	}
	lunch, dinner := view.Today[0], view.Today[1]

	writeJSON(w, http.StatusOK, todayResponse{
		LunchTime:  lunch.ShortTime,
		Lunch:      stripItems(lunch.Items),
		DinnerTime: dinner.ShortTime,
		Dinner:     stripItems(dinner.Items),
	})
}

func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	view, err := s.cachedView(r.Context())
	if err != nil {
		appLog.Error("ics export: view build failed", err)
		writeError(w, http.StatusBadGateway, "menu unavailable")
		return
	}

	meals := make([]menu.Meal, 0, len(view.Today)+2*len(view.Upcoming))
	meals = append(meals, view.Today...)
	for _, d := range view.Upcoming {
		if d.Lunch != nil {
			meals = append(meals, *d.Lunch)
		}
		if d.Dinner != nil {
			meals = append(meals, *d.Dinner)
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="menu.ics"`)
	_, _ = w.Write([]byte(ical.Export(meals)))
}

// handlePreview serves the last captured kiosk screenshot from disk. The
// path matches the capture output in cmd/menuboard.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.CacheDir, "preview.png"))
}

// cachedView returns the cached board view if it is still fresh, building
// and caching a new one otherwise.
func (s *Server) cachedView(ctx context.Context) (BoardView, error) {
	now := time.Now()

	s.viewMu.RLock()
	vc := s.viewCache
	s.viewMu.RUnlock()
	if vc != nil && now.Sub(vc.updatedAt) < viewCacheTTL {
		return vc.view, nil
	}

	return s.RefreshView(ctx)
}

// RefreshView fetches all feed windows, assembles the board view, and
// updates the cache. The cron refresh calls this directly to keep the
// cache warm between requests.
func (s *Server) RefreshView(ctx context.Context) (BoardView, error) {
	loc := resolveLocationOrLocal(s.cfg.Timezone)
	now := time.Now().In(loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	todayRaws, err := s.client.FetchRange(ctx, s.cfg.Feed.MenuURL, dayStart, dayEnd)
	if err != nil {
		return BoardView{}, err
	}

	upcomingRaws, err := s.client.FetchRange(ctx, s.cfg.Feed.MenuURL, dayEnd, dayEnd.AddDate(0, 0, s.cfg.HorizonDays))
	if err != nil {
		// The board is still useful with only today's menu.
		appLog.Error("upcoming window fetch failed", err)
		upcomingRaws = nil
	}

	view := BoardView{
		Date:      now.Format("Monday, January 2"),
		Breakfast: menu.BreakfastTime(todayRaws, loc),
		Today:     menu.AssembleMeals(todayRaws, loc),
		Upcoming:  menu.GroupByDay(menu.AssembleMeals(upcomingRaws, loc)),
	}

	if s.cfg.Feed.SpecialsURL != "" {
		specialRaws, err := s.client.FetchRange(ctx, s.cfg.Feed.SpecialsURL, dayStart, dayEnd)
		if err != nil {
			appLog.Error("specials fetch failed", err)
		} else if line, ok := menu.ExtractSpecial(specialRaws); ok {
			view.Essies = &line
		}
	}

	s.viewMu.Lock()
	s.viewCache = &viewCache{view: view, updatedAt: time.Now()}
	s.viewMu.Unlock()

	return view, nil
}

func stripItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, menu.StripTags(it))
	}
	return out
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
