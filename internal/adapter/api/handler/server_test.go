package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"trocagames/internal/adapter/api"
	"trocagames/internal/adapter/api/handler"
	"trocagames/internal/adapter/api/middleware"
	"trocagames/internal/adapter/api/router"
	"trocagames/internal/adapter/gateway"
	"trocagames/internal/adapter/repository"
	"trocagames/internal/domain/entity"
	"trocagames/internal/infrastructure/ratelimit"
	ws "trocagames/internal/infrastructure/websocket"
	"trocagames/internal/usecase"
	"trocagames/pkg/response"
)

// fakeAPI plays the marketplace REST API. User 42 owns listing 10, user 7 proposed on it.
type fakeAPI struct {
	mu          sync.Mutex
	expired     bool
	logins      int
	lastQuery   url.Values
	proposal    entity.Proposal
	listing     entity.Listing
	transitions []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		listing:  entity.Listing{ID: 10, Titulo: "God of War", UserID: 42, Status: entity.ListingOpen, Troca: true},
		proposal: entity.Proposal{ID: 5, AnuncioID: 10, UserID: 7, Mensagem: "Troco", Status: entity.ProposalPending},
	}
}

func (f *fakeAPI) query() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func (f *fakeAPI) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.transitions...)
}

func (f *fakeAPI) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeAPI) setExpired(expired bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = expired
}

func (f *fakeAPI) proposalStatus() entity.ProposalStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.proposal.Status
}

var tokens = map[string]int64{"tok-42": 42, "tok-7": 7}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) caller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if f.expired {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token inválido"})
		return 0, false
	}
	id, ok := tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token inválido"})
	}
	return id, ok
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.logins++

		var c entity.Credentials
		json.NewDecoder(r.Body).Decode(&c)
		switch c.Email {
		case "ana@troca.games":
			writeJSON(w, http.StatusOK, map[string]interface{}{"user": entity.User{ID: 42, Nome: "Ana"}, "token": "tok-42"})
		case "bia@troca.games":
			writeJSON(w, http.StatusOK, map[string]interface{}{"user": entity.User{ID: 7, Nome: "Bia"}, "token": "tok-7"})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Email ou senha incorretos"})
		}
	})

	mux.HandleFunc("GET /anuncio", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastQuery = r.URL.Query()

		if r.Header.Get("Authorization") != "" {
			if _, ok := f.caller(w, r); !ok {
				return
			}
		}
		listings := []entity.Listing{}
		q := r.URL.Query()
		if q.Get("userId") == "" || q.Get("userId") == "42" {
			if q.Get("excludeUserId") != "42" {
				listings = append(listings, f.listing)
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"anuncios": map[string]interface{}{"anuncios": listings}})
	})

	proposals := func(sent bool) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			uid, ok := f.caller(w, r)
			if !ok {
				return
			}
			out := []entity.Proposal{}
			if (sent && uid == f.proposal.UserID) || (!sent && uid == f.listing.UserID) {
				out = append(out, f.proposal)
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"propostas": out})
		}
	}
	mux.HandleFunc("GET /proposta/user", proposals(true))
	mux.HandleFunc("GET /proposta/anuncio", proposals(false))

	mux.HandleFunc("POST /proposta/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.caller(w, r); !ok {
			return
		}
		action := r.PathValue("action")
		f.transitions = append(f.transitions, action)
		if action == "aceitar" {
			f.proposal.Status = entity.ProposalNegotiating
			f.listing.Status = entity.ListingNegotiating
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	return mux
}

type testServer struct {
	api    *fakeAPI
	echo   *echo.Echo
	notify *usecase.NotificationUseCase
	relay  *ws.Manager
}

func newTestServer(t *testing.T, loginLimit int) *testServer {
	t.Helper()

	fake := newFakeAPI()
	upstream := httptest.NewServer(fake.handler())
	t.Cleanup(upstream.Close)

	repo, err := repository.NewFileSessionRepository(t.TempDir())
	require.NoError(t, err)

	client := gateway.NewClient(upstream.URL, 5*time.Second)
	listingGateway := gateway.NewListingGateway(client)

	sessions := usecase.NewSessionStore(repo)
	notifications := usecase.NewNotificationUseCase("")
	t.Cleanup(notifications.Shutdown)
	sessions.OnClose(func(s *entity.Session) { notifications.Stop(s.ID) })
	sessions.OnLoad(notifications.Start)

	proposalUseCase := usecase.NewProposalUseCase(gateway.NewProposalGateway(client), listingGateway, sessions)
	sessionMiddleware := middleware.NewSessionMiddleware(sessions, false)

	handler.Setup(
		sessionMiddleware,
		usecase.NewAuthUseCase(gateway.NewAuthGateway(client), sessions, notifications),
		usecase.NewUserUseCase(gateway.NewUserGateway(client), sessions),
		usecase.NewListingUseCase(listingGateway, sessions),
		proposalUseCase,
		usecase.NewRatingUseCase(gateway.NewRatingGateway(client), proposalUseCase, sessions),
		notifications,
	)
	handler.SetupHealthHandler(func() int { return len(sessions.All()) })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	wsManager := ws.NewManager(notifications)
	wsManager.Start(ctx)
	notifications.SetRelay(wsManager)

	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Policy{
		ratelimit.ActionLogin: ratelimit.PerMinute(loginLimit),
	}, ratelimit.PerMinute(60))

	e := echo.New()
	e.Validator = api.NewValidator()
	router.Setup(e, sessionMiddleware, limiter, handler.NewWebSocketHandler(wsManager, nil))

	return &testServer{api: fake, echo: e, notify: notifications, relay: wsManager}
}

func (s *testServer) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

// login signs in and returns the session cookie.
func (s *testServer) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"`+email+`","senha":"Senha@123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}
