package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/search"
	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/store/sqlite"
)

type testServer struct {
	*Server
	store  store.Store
	tokens *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	idx, err := search.NewSearchIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	tokens, err := auth.NewTokenService(auth.GenerateKeyHex(), time.Hour)
	require.NoError(t, err)

	services := Services{
		Auth:   service.NewAuthService(st, tokens, logger),
		Admin:  service.NewAdminService(st, service.NoopInvalidator{}, idx, nil, logger),
		Borrow: service.NewBorrowService(st, service.NoopInvalidator{}, logger),
		Stats:  service.NewStatsService(st, logger),
		Search: idx,
	}

	return &testServer{
		Server: NewServer(services, logger),
		store:  st,
		tokens: tokens,
	}
}

// seedAdmin creates an admin user and returns a bearer token for them.
func (ts *testServer) seedAdmin(t *testing.T) string {
	t.Helper()

	hash, err := auth.HashPassword("admin password")
	require.NoError(t, err)

	admin := &domain.User{
		Record:       domain.Record{ID: "user-admin", CreatedAt: time.Now()},
		FullName:     "Admin User",
		Email:        "admin@example.com",
		UniversityID: 1,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	require.NoError(t, ts.store.CreateUser(context.Background(), admin))

	token, err := ts.tokens.GenerateAccessToken(admin)
	require.NoError(t, err)
	return "Bearer " + token
}

func (ts *testServer) request(t *testing.T, method, path, bearer string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

// Constructing the server must install middleware before any routes are
// mounted, or chi refuses the mux. The CORS headers prove the middleware
// stack is active in front of the mounted routes.
func TestServerMiddlewareWrapsRoutes(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = ts.request(t, http.MethodGet, "/openapi.json", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.request(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.request(t, http.MethodGet, "/api/v1/admin/books", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	ts := setupTestServer(t)

	member := &domain.User{
		Record:       domain.Record{ID: "user-member", CreatedAt: time.Now()},
		FullName:     "Plain Member",
		Email:        "member@example.com",
		UniversityID: 2,
		Role:         domain.RoleMember,
	}
	require.NoError(t, ts.store.CreateUser(context.Background(), member))
	token, err := ts.tokens.GenerateAccessToken(member)
	require.NoError(t, err)

	rec := ts.request(t, http.MethodGet, "/api/v1/admin/books", "Bearer "+token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedAdmin(t)

	rec := ts.request(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"admin@example.com","password":"admin password"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	rec = ts.request(t, http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"admin@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookTablePaging(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.seedAdmin(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 15; i++ {
		book := &domain.Book{
			Record:          domain.Record{ID: fmt.Sprintf("book-%02d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			Title:           fmt.Sprintf("Book %02d", i),
			Author:          "Author",
			Genre:           "Fiction",
			TotalCopies:     1,
			AvailableCopies: 1,
		}
		require.NoError(t, ts.store.CreateBook(ctx, book))
	}

	var page TablePage[BookResponse]

	rec := ts.request(t, http.MethodGet, "/api/v1/admin/books", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Rows, 7)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 15, page.Total)
	// Newest first by default.
	assert.Equal(t, "book-15", page.Rows[0].ID)

	// Out-of-range pages clamp instead of erroring.
	rec = ts.request(t, http.MethodGet, "/api/v1/admin/books?page=99", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Rows, 1)
}

func TestBookTableSearchAndSort(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.seedAdmin(t)
	ctx := context.Background()

	titles := map[string]string{
		"book-1": "Atomic Habits",
		"book-2": "The Pragmatic Programmer",
		"book-3": "Subatomic Physics",
	}
	for id, title := range titles {
		book := &domain.Book{
			Record:          domain.Record{ID: id, CreatedAt: time.Now()},
			Title:           title,
			Author:          "Author",
			Genre:           "Fiction",
			TotalCopies:     1,
			AvailableCopies: 1,
		}
		require.NoError(t, ts.store.CreateBook(ctx, book))
	}

	var page TablePage[BookResponse]

	rec := ts.request(t, http.MethodGet, "/api/v1/admin/books?search=ATOMIC&sort=title&dir=asc", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "Atomic Habits", page.Rows[0].Title)
	assert.Equal(t, "Subatomic Physics", page.Rows[1].Title)

	rec = ts.request(t, http.MethodGet, "/api/v1/admin/books?search=atomic&sort=title&dir=desc", bearer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "Subatomic Physics", page.Rows[0].Title)
}

func TestUpdateBookValidationError(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.seedAdmin(t)

	book := &domain.Book{
		Record:          domain.Record{ID: "book-1", CreatedAt: time.Now()},
		Title:           "Original",
		Author:          "Author",
		Genre:           "Fiction",
		TotalCopies:     5,
		AvailableCopies: 5,
	}
	require.NoError(t, ts.store.CreateBook(context.Background(), book))

	rec := ts.request(t, http.MethodPatch, "/api/v1/admin/books/book-1", bearer,
		`{"title":"T","author":"A","genre":"G","rating":1,"total_copies":5,"available_copies":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "available copies")
}

func TestSetBorrowStatusEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	bearer := ts.seedAdmin(t)
	ctx := context.Background()

	book := &domain.Book{
		Record:          domain.Record{ID: "book-1", CreatedAt: time.Now()},
		Title:           "Borrowable",
		Author:          "Author",
		Genre:           "Fiction",
		TotalCopies:     1,
		AvailableCopies: 1,
	}
	require.NoError(t, ts.store.CreateBook(ctx, book))
	recDomain := &domain.BorrowRecord{
		Record: domain.Record{ID: "rec-1", CreatedAt: time.Now()},
		BookID: "book-1",
		UserID: "user-admin",
		Status: domain.StatusBorrowed,
	}
	require.NoError(t, ts.store.CreateBorrowRecord(ctx, recDomain))

	rec := ts.request(t, http.MethodPatch, "/api/v1/admin/borrow-records/rec-1/status", bearer,
		`{"status":"RETURNED"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BorrowRecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RETURNED", resp.Status)
	assert.NotNil(t, resp.ReturnDate)
}
