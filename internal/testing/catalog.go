package testing

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/moviex/internal/models"
)

// FakeCatalog is an in-process stand-in for the movie catalog service.
//
// Fields may be changed between requests; handlers read them under the lock.
type FakeCatalog struct {
	*httptest.Server

	mu             sync.Mutex
	Movies         []models.MovieSummary
	Owned          map[string][]models.MovieSummary
	Thumbnails     map[string][]byte
	FailThumbnails map[string]int
	Delays         map[string]time.Duration
	Users          map[string]string
	ListStatus     int
	LogoutStatus   int
	Uploads        []models.NewMovieDraft
	hits           map[string]int
}

// NewFakeCatalog starts a FakeCatalog that is closed when the test ends.
func NewFakeCatalog(t *testing.T) *FakeCatalog {
	t.Helper()

	f := &FakeCatalog{
		Owned:          make(map[string][]models.MovieSummary),
		Thumbnails:     make(map[string][]byte),
		FailThumbnails: make(map[string]int),
		Delays:         make(map[string]time.Duration),
		Users:          make(map[string]string),
		ListStatus:     http.StatusOK,
		LogoutStatus:   http.StatusOK,
		hits:           make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", f.register)
	mux.HandleFunc("POST /api/login", f.login)
	mux.HandleFunc("POST /logout", f.logout)
	mux.HandleFunc("GET /api/movies", f.listAll)
	mux.HandleFunc("GET /api/movies/{owner}", f.listOwned)
	mux.HandleFunc("POST /api/add-movie", f.addMovie)
	mux.HandleFunc("GET /api/thumbnail/{ref}", f.thumbnail)

	f.Server = httptest.NewServer(f.count(mux))
	t.Cleanup(f.Close)
	return f
}

// Hits returns how many requests reached path.
func (f *FakeCatalog) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// TotalHits returns the number of requests served.
func (f *FakeCatalog) TotalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.hits {
		n += v
	}
	return n
}

// Uploaded returns a copy of the drafts received by add-movie.
func (f *FakeCatalog) Uploaded() []models.NewMovieDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.NewMovieDraft(nil), f.Uploads...)
}

// Set runs fn under the catalog lock.
func (f *FakeCatalog) Set(fn func(f *FakeCatalog)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *FakeCatalog) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeCatalog) register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Error: "Invalid request"})
		return
	}

	f.mu.Lock()
	_, exists := f.Users[creds.Name]
	if !exists {
		f.Users[creds.Name] = creds.Password
	}
	f.mu.Unlock()

	if exists {
		writeJSON(w, http.StatusConflict, models.AuthResponse{Error: "User already exists"})
		return
	}
	setSessionCookies(w, creds.Name)
	writeJSON(w, http.StatusOK, models.AuthResponse{RedirectPath: "/movies"})
}

func (f *FakeCatalog) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Error: "Invalid request"})
		return
	}

	f.mu.Lock()
	password, ok := f.Users[creds.Name]
	f.mu.Unlock()

	if !ok || password != creds.Password {
		writeJSON(w, http.StatusUnauthorized, models.AuthResponse{Error: "bad credentials"})
		return
	}
	setSessionCookies(w, creds.Name)
	writeJSON(w, http.StatusOK, models.AuthResponse{RedirectPath: "/movies"})
}

func (f *FakeCatalog) logout(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	status := f.LogoutStatus
	f.mu.Unlock()
	writeJSON(w, status, map[string]string{})
}

func (f *FakeCatalog) listAll(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	status, movies := f.ListStatus, append([]models.MovieSummary{}, f.Movies...)
	f.mu.Unlock()

	if status != http.StatusOK {
		writeJSON(w, status, map[string]string{"error": "unavailable"})
		return
	}
	writeJSON(w, status, movies)
}

func (f *FakeCatalog) listOwned(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	status, movies := f.ListStatus, append([]models.MovieSummary{}, f.Owned[r.PathValue("owner")]...)
	f.mu.Unlock()

	if status != http.StatusOK {
		writeJSON(w, status, map[string]string{"error": "unavailable"})
		return
	}
	writeJSON(w, status, movies)
}

func (f *FakeCatalog) addMovie(w http.ResponseWriter, r *http.Request) {
	var draft models.NewMovieDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Error: "Invalid movie"})
		return
	}
	if draft.Title == "" {
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Error: "Title is required"})
		return
	}

	f.mu.Lock()
	f.Uploads = append(f.Uploads, draft)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Movie added successfully"})
}

func (f *FakeCatalog) thumbnail(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	f.mu.Lock()
	delay := f.Delays[ref]
	status, failing := f.FailThumbnails[ref]
	data, ok := f.Thumbnails[ref]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if failing {
		w.WriteHeader(status)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, models.ByteArray(data))
}

func setSessionCookies(w http.ResponseWriter, name string) {
	expires := time.Now().Add(time.Hour)
	http.SetCookie(w, &http.Cookie{Name: "username", Value: name, Path: "/", Expires: expires})
	http.SetCookie(w, &http.Cookie{Name: "id", Value: "7f0c2a1e-user-" + name, Path: "/", Expires: expires})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// PNG encodes a w x h test image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 7), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}
