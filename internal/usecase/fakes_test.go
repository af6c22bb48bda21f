package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trocagames/internal/domain/entity"
	"trocagames/internal/domain/service"
	"trocagames/pkg/errors"
)

// fakeMarket is an in-memory marketplace API implementing every gateway.
type fakeMarket struct {
	mu sync.Mutex

	accounts  map[string]entity.User // email -> user
	passwords map[string]string
	tokens    map[string]int64 // token -> user id
	users     map[int64]entity.User
	listings  map[int64]*entity.Listing
	proposals map[int64]*entity.Proposal
	ratings   []entity.RatingInput

	nextID      int64
	echoRatings bool
	failSent    error
	failList    error
	lastFilter  entity.ListingFilter
	calls       map[string]int
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		accounts:    make(map[string]entity.User),
		passwords:   make(map[string]string),
		tokens:      make(map[string]int64),
		users:       make(map[int64]entity.User),
		listings:    make(map[int64]*entity.Listing),
		proposals:   make(map[int64]*entity.Proposal),
		nextID:      100,
		echoRatings: true,
		calls:       make(map[string]int),
	}
}

func (m *fakeMarket) addUser(id int64, email, senha, token string) entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := entity.User{ID: id, Nome: fmt.Sprintf("User%d", id), Email: email}
	m.accounts[email] = user
	m.passwords[email] = senha
	m.users[id] = user
	if token != "" {
		m.tokens[token] = id
	}
	return user
}

func (m *fakeMarket) addListing(l entity.Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listing := l
	m.listings[l.ID] = &listing
}

func (m *fakeMarket) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *fakeMarket) listingStatus(id int64) entity.ListingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listings[id].Status
}

// caller must be called with m.mu held.
func (m *fakeMarket) caller(token string) (int64, error) {
	id, ok := m.tokens[token]
	if !ok {
		return 0, errors.SessionExpired(nil)
	}
	return id, nil
}

func (m *fakeMarket) Login(ctx context.Context, c entity.Credentials) (*entity.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["login"]++

	user, ok := m.accounts[c.Email]
	if !ok || m.passwords[c.Email] != c.Senha {
		return nil, "", errors.Unauthorized("Credenciais inválidas", nil)
	}
	token := fmt.Sprintf("token-%d", user.ID)
	m.tokens[token] = user.ID
	return &user, token, nil
}

func (m *fakeMarket) Register(ctx context.Context, r entity.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["register"]++
	if _, exists := m.accounts[r.Email]; exists {
		return errors.Upstream(409, "Email já cadastrado", nil)
	}
	m.nextID++
	m.accounts[r.Email] = entity.User{ID: m.nextID, Nome: r.Nome, Email: r.Email}
	m.passwords[r.Email] = r.Senha
	return nil
}

func (m *fakeMarket) Get(ctx context.Context, token string, userID int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.caller(token); err != nil {
		return nil, err
	}
	user := m.users[userID]
	return &user, nil
}

func (m *fakeMarket) Update(ctx context.Context, token string, userID int64, patch entity.ProfilePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.caller(token); err != nil {
		return err
	}
	m.calls["update_user"]++
	user := m.users[userID]
	if patch.Nome != nil {
		user.Nome = *patch.Nome
	}
	if patch.Celular != nil {
		user.Celular = *patch.Celular
	}
	m.users[userID] = user
	return nil
}

func (m *fakeMarket) UploadPhoto(ctx context.Context, token string, userID int64, photo entity.Upload, old string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.caller(token); err != nil {
		return "", err
	}
	m.calls["upload_photo"]++
	user := m.users[userID]
	user.FotoURL = "https://cdn.example/" + photo.Filename
	m.users[userID] = user
	return user.FotoURL, nil
}

// listingGateway and proposalGateway share method names with the user gateway, so the
// market exposes them through thin views.

type fakeListings struct{ *fakeMarket }

func (f fakeListings) List(ctx context.Context, token string, filter entity.ListingFilter) ([]entity.Listing, error) {
	m := f.fakeMarket
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["list_listings"]++
	m.lastFilter = filter

	if token != "" {
		if _, err := m.caller(token); err != nil {
			return nil, err
		}
	}
	if m.failList != nil {
		return nil, m.failList
	}

	out := []entity.Listing{}
	for _, l := range m.sortedListings() {
		if filter.UserID != 0 && l.UserID != filter.UserID {
			continue
		}
		if filter.ExcludeUserID != 0 && l.UserID == filter.ExcludeUserID {
			continue
		}
		if filter.ExcludeStatus != "" && l.Status == filter.ExcludeStatus {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f fakeListings) Create(ctx context.Context, token string, in entity.ListingInput) (*entity.Listing, error) {
	m := f.fakeMarket
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, err := m.caller(token)
	if err != nil {
		return nil, err
	}
	m.calls["create_listing"]++
	m.nextID++
	l := &entity.Listing{ID: m.nextID, Titulo: in.Titulo, Descricao: in.Descricao, Valor: in.Valor,
		Venda: in.Venda, Troca: in.Troca, ConsoleID: in.ConsoleID, Status: entity.ListingOpen, UserID: uid}
	m.listings[l.ID] = l
	cp := *l
	return &cp, nil
}

func (f fakeListings) Update(ctx context.Context, token string, id int64, patch entity.ListingPatch) (*entity.Listing, error) {
	m := f.fakeMarket
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.caller(token); err != nil {
		return nil, err
	}
	m.calls["update_listing"]++
	l := m.listings[id]
	if patch.Titulo != nil {
		l.Titulo = *patch.Titulo
	}
	cp := *l
	return &cp, nil
}

func (f fakeListings) Delete(ctx context.Context, token string, id int64) error {
	m := f.fakeMarket
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.caller(token); err != nil {
		return err
	}
	m.calls["delete_listing"]++
	delete(m.listings, id)
	return nil
}

type fakeProposals struct{ *fakeMarket }

func (f fakeProposals) Create(ctx context.Context, token string, in entity.ProposalInput) (*entity.Proposal, error) {
	m := f.fakeMarket
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, err := m.caller(token)
	if err != nil {
		return nil, err
	}
	m.calls["create_proposal"]++
	m.nextID++
	p := &entity.Proposal{ID: m.nextID, AnuncioID: in.AnuncioID, UserID: uid, Valor: in.Valor,
		Mensagem: in.Mensagem, Status: entity.ProposalPending}
	m.proposals[p.ID] = p
	cp := *p
	return &cp, nil
}

func (f fakeProposals) ListSent(ctx context.Context, token string) ([]entity.Proposal, error) {
	m := f.fakeMarket
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, err := m.caller(token)
	if err != nil {
		return nil, err
	}
	if m.failSent != nil {
		return nil, m.failSent
	}
	out := []entity.Proposal{}
	for _, p := range m.sortedProposals() {
		if p.UserID == uid {
			cp := *p
			if l, ok := m.listings[p.AnuncioID]; ok {
				listing := *l
				cp.Anuncio = &listing
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

// ListReceived omits the embedded listing, like the real endpoint sometimes does.
func (f fakeProposals) ListReceived(ctx context.Context, token string) ([]entity.Proposal, error) {
	m := f.fakeMarket
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, err := m.caller(token)
	if err != nil {
		return nil, err
	}
	out := []entity.Proposal{}
	for _, p := range m.sortedProposals() {
		if l, ok := m.listings[p.AnuncioID]; ok && l.UserID == uid {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f fakeProposals) Transition(ctx context.Context, token string, id int64, action entity.ProposalAction) error {
	m := f.fakeMarket
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.caller(token); err != nil {
		return err
	}
	m.calls["transition"]++
	p := m.proposals[id]
	next, ok := service.NextStatus(p.Status, action)
	if !ok {
		return errors.Upstream(400, "Transição inválida", nil)
	}
	if l, ok := m.listings[p.AnuncioID]; ok {
		l.Status = service.ListingAfter(l.Status, p.Status, action)
	}
	p.Status = next
	return nil
}

func (m *fakeMarket) sortedProposals() []*entity.Proposal {
	out := make([]*entity.Proposal, 0, len(m.proposals))
	for _, p := range m.proposals {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *fakeMarket) sortedListings() []*entity.Listing {
	out := make([]*entity.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeRatings struct{ *fakeMarket }

func (f fakeRatings) Create(ctx context.Context, token string, in entity.RatingInput) error {
	m := f.fakeMarket
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.caller(token); err != nil {
		return err
	}
	m.calls["rate"]++
	m.ratings = append(m.ratings, in)
	if m.echoRatings {
		m.proposals[in.PropostaID].Avaliacao = &entity.Rating{Estrelas: in.Estrelas, PropostaID: in.PropostaID}
	}
	return nil
}

// memSessionRepository keeps sessions in a map.
type memSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	seq      int
}

func newMemSessionRepository() *memSessionRepository {
	return &memSessionRepository{sessions: make(map[string]*entity.Session)}
}

func (r *memSessionRepository) Save(ctx context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		r.seq++
		s.ID = fmt.Sprintf("sess-%d", r.seq)
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepository) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.NotFound("Sessão", nil)
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepository) List(ctx context.Context) ([]*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Session{}
	for _, s := range r.sessions {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepository) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

type testApp struct {
	market        *fakeMarket
	repo          *memSessionRepository
	sessions      *SessionStore
	notifications *NotificationUseCase
	auth          *AuthUseCase
	users         *UserUseCase
	listings      *ListingUseCase
	proposals     *ProposalUseCase
	ratings       *RatingUseCase
}

func newTestApp() *testApp {
	market := newFakeMarket()
	repo := newMemSessionRepository()
	sessions := NewSessionStore(repo)
	notifications := NewNotificationUseCase("")
	sessions.OnClose(func(s *entity.Session) { notifications.Stop(s.ID) })

	proposals := NewProposalUseCase(fakeProposals{market}, fakeListings{market}, sessions)
	return &testApp{
		market:        market,
		repo:          repo,
		sessions:      sessions,
		notifications: notifications,
		auth:          NewAuthUseCase(market, sessions, notifications),
		users:         NewUserUseCase(market, sessions),
		listings:      NewListingUseCase(fakeListings{market}, sessions),
		proposals:     proposals,
		ratings:       NewRatingUseCase(fakeRatings{market}, proposals, sessions),
	}
}

// signIn opens a session for a user the market already knows by token.
func (a *testApp) signIn(user entity.User, token string) *entity.Session {
	session, err := a.sessions.Open(context.Background(), user, token)
	if err != nil {
		panic(err)
	}
	a.notifications.Start(session)
	return session
}
