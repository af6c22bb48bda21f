package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trocagames/internal/domain/entity"
)

type fakeMarket struct {
	expired atomic.Bool
}

func (f *fakeMarket) handler() http.Handler {
	reply := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	authorized := func(w http.ResponseWriter) bool {
		if f.expired.Load() {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Token inválido"})
			return false
		}
		return true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/login", func(w http.ResponseWriter, r *http.Request) {
		var c entity.Credentials
		json.NewDecoder(r.Body).Decode(&c)
		id := int64(42)
		if c.Email == "bia@troca.games" {
			id = 7
		}
		reply(w, http.StatusOK, map[string]interface{}{
			"user":  entity.User{ID: id, Nome: "Ana", Sobrenome: "Souza"},
			"token": "tok",
		})
	})
	mux.HandleFunc("GET /anuncio", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w) {
			return
		}
		reply(w, http.StatusOK, []entity.Listing{
			{ID: 10, Titulo: "Zelda", ConsoleID: entity.ConsolePS4, Troca: true, Status: entity.ListingOpen, UserID: 42},
		})
	})
	mux.HandleFunc("GET /proposta/user", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w) {
			reply(w, http.StatusOK, []entity.Proposal{})
		}
	})
	mux.HandleFunc("GET /proposta/anuncio", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w) {
			reply(w, http.StatusOK, []entity.Proposal{{ID: 5, AnuncioID: 10, UserID: 7, Status: entity.ProposalPending}})
		}
	})
	return mux
}

type cliEnv struct {
	market     *fakeMarket
	sessionDir string
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()

	market := &fakeMarket{}
	server := httptest.NewServer(market.handler())
	t.Cleanup(server.Close)

	dir := t.TempDir()
	t.Setenv("API_BASE_URL", server.URL)
	t.Setenv("NOTIFICATION_URL", "")
	t.Setenv("CLI_SESSION_DIR", dir)

	return &cliEnv{market: market, sessionDir: dir}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func (e *cliEnv) storedSessions(t *testing.T) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(e.sessionDir, "*.json"))
	require.NoError(t, err)
	return files
}

func TestLoginPersistsSession(t *testing.T) {
	env := setupCLI(t)

	out, _, err := run(t, "login", "--email", "ana@troca.games", "--senha", "Senha@123")
	require.NoError(t, err)
	assert.Contains(t, out, "Bem-vindo, Ana Souza!")
	assert.Len(t, env.storedSessions(t), 1)

	out, _, err = run(t, "anuncios", "--meus")
	require.NoError(t, err)
	assert.Contains(t, out, "Zelda")
	assert.Contains(t, out, "PS4")
	assert.Contains(t, out, "troca")
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	env := setupCLI(t)

	_, _, err := run(t, "login", "--email", "ana@troca.games", "--senha", "Senha@123")
	require.NoError(t, err)
	_, _, err = run(t, "login", "--email", "bia@troca.games", "--senha", "Senha@123")
	require.NoError(t, err)

	assert.Len(t, env.storedSessions(t), 1)
}

func TestCommandsRequireLogin(t *testing.T) {
	setupCLI(t)

	_, errOut, err := run(t, "propostas")

	require.Error(t, err)
	assert.Contains(t, errOut, "Você não está logado")
}

func TestDashboard(t *testing.T) {
	setupCLI(t)
	_, _, err := run(t, "login", "--email", "ana@troca.games", "--senha", "Senha@123")
	require.NoError(t, err)

	out, _, err := run(t, "propostas")

	require.NoError(t, err)
	assert.Contains(t, out, "Zelda")
	assert.Contains(t, out, "received")
	assert.Contains(t, out, "aceitar,recusar")
}

func TestExpiredTokenDropsStoredSession(t *testing.T) {
	env := setupCLI(t)
	_, _, err := run(t, "login", "--email", "ana@troca.games", "--senha", "Senha@123")
	require.NoError(t, err)

	env.market.expired.Store(true)
	_, errOut, err := run(t, "propostas")

	require.Error(t, err)
	assert.Contains(t, errOut, "Sua sessão expirou")
	assert.Empty(t, env.storedSessions(t))
}

func TestLogout(t *testing.T) {
	env := setupCLI(t)
	_, _, err := run(t, "login", "--email", "ana@troca.games", "--senha", "Senha@123")
	require.NoError(t, err)

	out, _, err := run(t, "logout")

	require.NoError(t, err)
	assert.Contains(t, out, "Sessão encerrada.")
	assert.Empty(t, env.storedSessions(t))
}

func TestInvalidID(t *testing.T) {
	setupCLI(t)

	_, errOut, err := run(t, "aceitar", "abc")

	require.Error(t, err)
	assert.Contains(t, errOut, "ID inválido")
}

func TestReadUpload(t *testing.T) {
	upload, err := readUpload("")
	require.NoError(t, err)
	assert.Nil(t, upload)

	path := filepath.Join(t.TempDir(), "capa.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))

	upload, err = readUpload(path)
	require.NoError(t, err)
	assert.Equal(t, "capa.png", upload.Filename)
	assert.Equal(t, []byte("png"), upload.Content)
}

func TestNotificationsNeedsPushURL(t *testing.T) {
	setupCLI(t)
	_, _, err := run(t, "login", "--email", "ana@troca.games", "--senha", "Senha@123")
	require.NoError(t, err)

	_, errOut, err := run(t, "notificacoes")
	require.Error(t, err)
	assert.Contains(t, errOut, "NOTIFICATION_URL")

	_, _, err = run(t, "notificacoes", "--follow")
	assert.Error(t, err, "notificacoes always follows; it takes no flag")
}
