package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shilpsetu/aureum/internal/auth"
	"github.com/shilpsetu/aureum/internal/cache"
	"github.com/shilpsetu/aureum/internal/domain"
	"github.com/shilpsetu/aureum/internal/imaging"
	"github.com/shilpsetu/aureum/internal/middleware"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
	created  int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (f *fakeProductRepo) Create(ctx context.Context, p *domain.Product) (string, error) {
	f.created++
	id := fmt.Sprintf("prod-%d", f.created)
	cp := *p
	cp.ID = id
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.products[id] = &cp
	return id, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) ListByArtist(ctx context.Context, artistID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if p.ArtistID == artistID && p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) Deactivate(ctx context.Context, id string) error {
	p, ok := f.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (f *fakeProductRepo) CountByArtist(ctx context.Context, artistID string) (int, error) {
	n := 0
	for _, p := range f.products {
		if p.ArtistID == artistID && p.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeArtistRepo struct {
	artists map[string]*domain.Artist
}

func (f *fakeArtistRepo) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	a, ok := f.artists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

type recordingRefresher struct {
	triggered []string
}

func (r *recordingRefresher) Trigger(artistID string) {
	r.triggered = append(r.triggered, artistID)
}

func testApp(t *testing.T) (*App, *fakeProductRepo, *recordingRefresher, string) {
	t.Helper()
	mgr, err := auth.NewManager("test-secret", time.Hour, cache.NewMemory())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	token, err := mgr.Issue(auth.Session{ArtistID: "artist-1", ArtistName: "Meera", Locale: "en"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	repo := newFakeProductRepo()
	refresher := &recordingRefresher{}
	app := &App{
		Logger:   zerolog.Nop(),
		Products: repo,
		Artists: &fakeArtistRepo{artists: map[string]*domain.Artist{
			"artist-1": {ID: "artist-1", Name: "Meera", Email: "meera@example.com", Region: "IN"},
		}},
		Sessions:  mgr,
		Guard:     imaging.NewGuard(),
		Refresher: refresher,
	}
	return app, repo, refresher, token
}

func authed(handler http.HandlerFunc, app *App, token string) http.Handler {
	h := middleware.RequireSession(app.Sessions)(handler)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
		h.ServeHTTP(w, r)
	})
}

func tinyGIF() string {
	// 1x1 transparent GIF
	return "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"
}

func TestProductsCreate(t *testing.T) {
	app, repo, refresher, token := testApp(t)
	h := authed(app.ProductsCreate, app, token)

	body, _ := json.Marshal(productPayload{
		Name:     "Terracotta Vase",
		Category: "Pottery & Ceramics",
		Price:    1250,
		Notes:    "Hand-thrown, natural glaze",
		Images:   []string{tinyGIF()},
	})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/products", bytes.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	if repo.created != 1 {
		t.Fatalf("created = %d, want 1", repo.created)
	}
	if len(refresher.triggered) != 1 || refresher.triggered[0] != "artist-1" {
		t.Fatalf("refresher.triggered = %v, want [artist-1]", refresher.triggered)
	}
}

func TestProductsCreateValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload productPayload
	}{
		{name: "missing name", payload: productPayload{Category: "Jewelry", Price: 10, Notes: "n", Images: []string{tinyGIF()}}},
		{name: "unknown category", payload: productPayload{Name: "x", Category: "Spaceships", Price: 10, Notes: "n", Images: []string{tinyGIF()}}},
		{name: "zero price", payload: productPayload{Name: "x", Category: "Jewelry", Price: 0, Notes: "n", Images: []string{tinyGIF()}}},
		{name: "empty notes", payload: productPayload{Name: "x", Category: "Jewelry", Price: 10, Images: []string{tinyGIF()}}},
		{name: "no images", payload: productPayload{Name: "x", Category: "Jewelry", Price: 10, Notes: "n"}},
		{name: "bad image payload", payload: productPayload{Name: "x", Category: "Jewelry", Price: 10, Notes: "n", Images: []string{"ftp://nope"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, repo, refresher, token := testApp(t)
			h := authed(app.ProductsCreate, app, token)

			body, _ := json.Marshal(tc.payload)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/products", bytes.NewReader(body)))

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusUnprocessableEntity, w.Body.String())
			}
			if repo.created != 0 {
				t.Fatal("invalid draft must not reach the store")
			}
			if len(refresher.triggered) != 0 {
				t.Fatal("invalid draft must not trigger a refresh")
			}
		})
	}
}

func TestProductsCreateRequiresSession(t *testing.T) {
	app, _, _, _ := testApp(t)
	h := middleware.RequireSession(app.Sessions)(http.HandlerFunc(app.ProductsCreate))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/products", bytes.NewReader([]byte("{}"))))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestProductGetHidesForeignProducts(t *testing.T) {
	app, repo, _, token := testApp(t)
	repo.products["prod-x"] = &domain.Product{
		ID: "prod-x", ArtistID: "someone-else", Name: "Not Yours", IsActive: true,
	}

	router := chi.NewRouter()
	router.Get("/v1/products/{id}", app.ProductGet)
	h := authed(router.ServeHTTP, app, token)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/products/prod-x", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestProductDeleteDeactivates(t *testing.T) {
	app, repo, refresher, token := testApp(t)
	repo.products["prod-1"] = &domain.Product{
		ID: "prod-1", ArtistID: "artist-1", Name: "Vase", IsActive: true,
	}

	router := chi.NewRouter()
	router.Delete("/v1/products/{id}", app.ProductDelete)
	h := authed(router.ServeHTTP, app, token)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/products/prod-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	if repo.products["prod-1"].IsActive {
		t.Fatal("product should be deactivated, not removed")
	}
	if len(refresher.triggered) != 1 {
		t.Fatalf("refresher.triggered = %v, want one entry", refresher.triggered)
	}
}
