package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/orgsvc/orgsvc/pkg/access"
	"github.com/orgsvc/orgsvc/pkg/backend"
	"github.com/orgsvc/orgsvc/pkg/config"
	"github.com/orgsvc/orgsvc/pkg/db"
	"github.com/orgsvc/orgsvc/pkg/store/database"
	"github.com/orgsvc/orgsvc/pkg/test"
	"github.com/orgsvc/orgsvc/pkg/token"
)

type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Errors     []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type session struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		UserID    string  `json:"userId"`
		FirstName string  `json:"firstName"`
		LastName  string  `json:"lastName"`
		Email     string  `json:"email"`
		Phone     *string `json:"phone"`
	} `json:"user"`
}

func newTestHandler(tb testing.TB, mutate func(*config.Config)) http.Handler {
	tb.Helper()
	cfg := test.Config(tb)
	if mutate != nil {
		mutate(cfg)
	}
	ctx := test.Context(tb, cfg)
	dbx := test.OpenDB(ctx, tb)
	issuer, err := token.NewIssuer(cfg)
	if err != nil {
		tb.Fatal(err)
	}

	be := backend.New(ctx, cfg, dbx, database.New(ctx, dbx), issuer)
	ctx = backend.WithContext(ctx, be)
	ctx = db.WithContext(ctx, dbx)
	return NewRouter(ctx)
}

func do(tb testing.TB, h http.Handler, method, path, bearer, body string) (*httptest.ResponseRecorder, envelope) {
	tb.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			tb.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return w, env
}

func register(tb testing.TB, h http.Handler, first, email string) session {
	tb.Helper()
	body, _ := json.Marshal(map[string]string{
		"firstName": first,
		"lastName":  "Doe",
		"email":     email,
		"password":  "password",
	})
	w, env := do(tb, h, http.MethodPost, "/auth/register", "", string(body))
	if w.Code != http.StatusCreated {
		tb.Fatalf("register %s => %d %s", email, w.Code, w.Body.String())
	}

	var s session
	if err := json.Unmarshal(env.Data, &s); err != nil {
		tb.Fatal(err)
	}
	return s
}

func firstOrgID(tb testing.TB, h http.Handler, bearer string) string {
	tb.Helper()
	w, env := do(tb, h, http.MethodGet, "/api/organisations", bearer, "")
	if w.Code != http.StatusOK {
		tb.Fatalf("list organisations => %d", w.Code)
	}

	var data struct {
		Organisations []struct {
			OrgID string `json:"orgId"`
		} `json:"organisations"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		tb.Fatal(err)
	}
	if len(data.Organisations) == 0 {
		tb.Fatal("no organisations")
	}
	return data.Organisations[0].OrgID
}

func TestRegisterAndLogin(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)

	s := register(t, h, "Andy", "andy@example.com")
	is.True(s.AccessToken != "")
	is.Equal(s.User.FirstName, "Andy")
	is.True(s.User.Phone == nil)

	w, env := do(t, h, http.MethodPost, "/auth/login", "", `{"email":"andy@example.com","password":"password"}`)
	is.Equal(w.Code, http.StatusOK)
	is.Equal(env.Status, "success")
	is.Equal(env.Message, "Login successful")

	var login session
	is.NoErr(json.Unmarshal(env.Data, &login))
	is.Equal(login.User.UserID, s.User.UserID)
	is.True(!bytes.Contains(w.Body.Bytes(), []byte("password")))
}

func TestRegisterValidation(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)

	w, env := do(t, h, http.MethodPost, "/auth/register", "", `{"firstName":"Andy","email":1,"password":"p"}`)
	is.Equal(w.Code, http.StatusUnprocessableEntity)
	is.Equal(len(env.Errors), 2)
	is.Equal(env.Errors[0].Field, "lastName")
	is.Equal(env.Errors[0].Message, "lastName is required")
	is.Equal(env.Errors[1].Field, "email")
	is.Equal(env.Errors[1].Message, "email must be a string")
}

func TestRegisterTooLong(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)

	body := `{"firstName":"` + strings.Repeat("a", 300) + `","lastName":"B","email":"a@example.com","password":"p"}`
	w, env := do(t, h, http.MethodPost, "/auth/register", "", body)
	is.Equal(w.Code, http.StatusUnprocessableEntity)
	is.Equal(len(env.Errors), 1)
	is.Equal(env.Errors[0].Field, "firstName")
	is.Equal(env.Errors[0].Message, "firstName must be at most 128 characters")
}

func TestRegisterConflict(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)
	register(t, h, "Andy", "andy@example.com")

	w, env := do(t, h, http.MethodPost, "/auth/register", "",
		`{"firstName":"A","lastName":"B","email":"andy@example.com","password":"p"}`)
	is.Equal(w.Code, http.StatusUnprocessableEntity)
	is.Equal(len(env.Errors), 1)
	is.Equal(env.Errors[0].Field, "email")
	is.Equal(env.Errors[0].Message, "Email already exists")
}

func TestBadBody(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)

	w, env := do(t, h, http.MethodPost, "/auth/register", "", `{not json`)
	is.Equal(w.Code, http.StatusBadRequest)
	is.Equal(env.Message, "Client error")
	is.Equal(env.StatusCode, http.StatusBadRequest)
}

func TestLoginFailureShape(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)
	register(t, h, "Andy", "andy@example.com")

	w1, _ := do(t, h, http.MethodPost, "/auth/login", "", `{"email":"andy@example.com","password":"wrong"}`)
	w2, _ := do(t, h, http.MethodPost, "/auth/login", "", `{"email":"nobody@example.com","password":"password"}`)
	w3, _ := do(t, h, http.MethodPost, "/auth/login", "", `{}`)
	is.Equal(w1.Code, http.StatusUnauthorized)
	is.Equal(w1.Body.String(), w2.Body.String())
	is.Equal(w1.Body.String(), w3.Body.String())
	is.True(strings.Contains(w1.Body.String(), "Authentication failed"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestHandler(t, nil)
	for _, tc := range []struct{ method, path, bearer string }{
		{http.MethodGet, "/api/organisations", ""},
		{http.MethodGet, "/api/organisations", "garbage"},
		{http.MethodGet, "/api/users/abc", ""},
		{http.MethodPost, "/api/organisations/abc/users", ""},
	} {
		t.Run(tc.method+tc.path+tc.bearer, func(t *testing.T) {
			w, _ := do(t, h, tc.method, tc.path, tc.bearer, "")
			if w.Code != http.StatusUnauthorized {
				t.Errorf("%s %s => %d, want %d", tc.method, tc.path, w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestUserRecordAccess(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)
	a := register(t, h, "Alice", "alice@example.com")
	b := register(t, h, "Bob", "bob@example.com")

	w, _ := do(t, h, http.MethodGet, "/api/users/"+a.User.UserID, a.AccessToken, "")
	is.Equal(w.Code, http.StatusOK)

	w, env := do(t, h, http.MethodGet, "/api/users/"+b.User.UserID, a.AccessToken, "")
	is.Equal(w.Code, http.StatusForbidden)
	is.Equal(env.Message, "Resource protected")

	orgID := firstOrgID(t, h, a.AccessToken)
	w, env = do(t, h, http.MethodPost, "/api/organisations/"+orgID+"/users", a.AccessToken,
		`{"userId":"`+b.User.UserID+`"}`)
	is.Equal(w.Code, http.StatusOK)
	is.Equal(env.Message, "User added to organisation successfully")

	w, env = do(t, h, http.MethodGet, "/api/users/"+b.User.UserID, a.AccessToken, "")
	is.Equal(w.Code, http.StatusOK)
	is.Equal(env.Message, "User record retrieved successfully")

	w, env = do(t, h, http.MethodGet, "/api/organisations/"+orgID+"/users", b.AccessToken, "")
	is.Equal(w.Code, http.StatusOK)
	is.Equal(env.Message, "Members retrieved successfully")
}

func TestOrganisationRoutes(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)
	a := register(t, h, "Alice", "alice@example.com")
	b := register(t, h, "Bob", "bob@example.com")

	w, env := do(t, h, http.MethodPost, "/api/organisations", a.AccessToken, `{"name":"Acme","description":"Widgets"}`)
	is.Equal(w.Code, http.StatusCreated)
	is.Equal(env.Message, "Organisation created successfully")

	var org struct {
		OrgID       string  `json:"orgId"`
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	is.NoErr(json.Unmarshal(env.Data, &org))
	is.Equal(org.Name, "Acme")

	w, _ = do(t, h, http.MethodGet, "/api/organisations/"+org.OrgID, a.AccessToken, "")
	is.Equal(w.Code, http.StatusOK)

	wNonMember, _ := do(t, h, http.MethodGet, "/api/organisations/"+org.OrgID, b.AccessToken, "")
	wMissing, _ := do(t, h, http.MethodGet, "/api/organisations/missing", b.AccessToken, "")
	is.Equal(wNonMember.Code, http.StatusNotFound)
	is.Equal(wNonMember.Body.String(), wMissing.Body.String())

	w, env = do(t, h, http.MethodPost, "/api/organisations", a.AccessToken, `{"description":5}`)
	is.Equal(w.Code, http.StatusUnprocessableEntity)
	is.Equal(len(env.Errors), 2)
}

func TestAddMemberOpenPolicy(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, func(cfg *config.Config) {
		cfg.Membership.AddMemberPolicy = access.Open
	})
	a := register(t, h, "Alice", "alice@example.com")
	b := register(t, h, "Bob", "bob@example.com")
	orgID := firstOrgID(t, h, a.AccessToken)

	w, _ := do(t, h, http.MethodPost, "/api/organisations/"+orgID+"/users", "", `{"userId":"`+b.User.UserID+`"}`)
	is.Equal(w.Code, http.StatusOK)

	w, env := do(t, h, http.MethodPost, "/api/organisations/"+orgID+"/users", "", `{"userId":"missing"}`)
	is.Equal(w.Code, http.StatusNotFound)
	is.Equal(env.Message, "User does not exist")

	w, env = do(t, h, http.MethodPost, "/api/organisations/"+orgID+"/users", "", `{}`)
	is.Equal(w.Code, http.StatusUnprocessableEntity)
	is.Equal(env.Errors[0].Message, "userId is required")
}

func TestJWKS(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)
	w, _ := do(t, h, http.MethodGet, "/.well-known/jwks.json", "", "")
	is.Equal(w.Code, http.StatusNotFound)

	h = newTestHandler(t, func(cfg *config.Config) {
		cfg.Auth.SigningMethod = config.SigningMethodEdDSA
	})
	w, _ = do(t, h, http.MethodGet, "/.well-known/jwks.json", "", "")
	is.Equal(w.Code, http.StatusOK)

	var ks struct {
		Keys []struct {
			Kty string `json:"kty"`
			Alg string `json:"alg"`
			Kid string `json:"kid"`
		} `json:"keys"`
	}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &ks))
	is.Equal(len(ks.Keys), 1)
	is.Equal(ks.Keys[0].Kty, "OKP")
	is.Equal(ks.Keys[0].Alg, "EdDSA")
}

func TestHealth(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)

	w, env := do(t, h, http.MethodGet, "/livez", "", "")
	is.Equal(w.Code, http.StatusOK)
	is.Equal(env.Status, "success")

	w, env = do(t, h, http.MethodGet, "/readyz", "", "")
	is.Equal(w.Code, http.StatusOK)
	var ready readiness
	is.NoErr(json.Unmarshal(env.Data, &ready))
	is.Equal(ready, readiness{Database: "ok", Signing: "HS256"})
}

func TestReadinessWithoutDatabase(t *testing.T) {
	is := is.New(t)

	r := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	getReadiness(w, r)
	is.Equal(w.Code, http.StatusServiceUnavailable)

	var env envelope
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &env))
	var ready readiness
	is.NoErr(json.Unmarshal(env.Data, &ready))
	is.Equal(ready.Database, "missing")
}

func TestNotFound(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)
	w, env := do(t, h, http.MethodGet, "/nope", "", "")
	is.Equal(w.Code, http.StatusNotFound)
	is.Equal(env.StatusCode, http.StatusNotFound)
}

func TestCORS(t *testing.T) {
	is := is.New(t)
	h := newTestHandler(t, nil)
	r := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	r.Header.Set("Origin", "https://app.example.com")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r.WithContext(context.Background()))
	is.Equal(w.Header().Get("Access-Control-Allow-Origin"), "*")
}

func TestNewHTTPServer(t *testing.T) {
	is := is.New(t)

	_, err := NewHTTPServer(context.Background())
	is.Equal(err, config.ErrNilConfig)

	cfg := test.Config(t)
	ctx := test.Context(t, cfg)
	_, err = NewHTTPServer(ctx)
	is.Equal(err, ErrNoBackend)
}
