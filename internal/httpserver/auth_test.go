package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"storecart/internal/domain"
	usersvc "storecart/internal/service/user"
)

func TestSignupHandler_Created(t *testing.T) {
	users := &stubUserService{user: &domain.User{ID: uuid.New(), Email: "user@example.com"}}
	router := testRouter(t, Deps{UserSvc: users})

	body := `{"email":"user@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"user@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSignupHandler_DuplicateEmail(t *testing.T) {
	users := &stubUserService{signErr: domain.ErrAlreadyExists}
	router := testRouter(t, Deps{UserSvc: users})

	body := `{"email":"user@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	users := &stubUserService{loginErr: usersvc.ErrInvalidCredentials}
	router := testRouter(t, Deps{UserSvc: users})

	body := `{"email":"user@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginHandler_MergesSessionCart(t *testing.T) {
	userID := uuid.New()
	users := &stubUserService{user: &domain.User{ID: userID, Email: "user@example.com"}}
	merged := &domain.Cart{ID: uuid.New(), UserID: &userID}
	sessions := &stubSessions{cart: cartFixture(), mergedCart: merged}
	router := testRouter(t, Deps{UserSvc: users, Sessions: sessions})

	body := `{"email":"user@example.com","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if sessions.mergedUser != userID {
		t.Fatalf("merge should target the authenticated user")
	}
	out := rec.Body.String()
	if !strings.Contains(out, `"accessToken":"access"`) {
		t.Fatalf("expected access token in body: %s", out)
	}
	if !strings.Contains(out, merged.ID.String()) {
		t.Fatalf("expected merged cart in body: %s", out)
	}
}

func TestMeHandler_UnauthorizedWithoutToken(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMeHandler_ValidToken(t *testing.T) {
	users := &stubUserService{user: &domain.User{ID: uuid.New(), Email: "user@example.com"}}
	router := testRouter(t, Deps{UserSvc: users})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"user@example.com"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
