package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"antecipa/internal/model"
	"antecipa/internal/repository"
	"antecipa/internal/websocket"
	"antecipa/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// memStore backs every fake repository. Transactions snapshot it and restore on error.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]model.User
	clients      map[uuid.UUID]model.Client
	contracts    map[uuid.UUID]model.Contract
	installments map[uuid.UUID]model.Installment
	requests     map[uuid.UUID]model.AdvanceRequest
	audit        []model.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]model.User{},
		clients:      map[uuid.UUID]model.Client{},
		contracts:    map[uuid.UUID]model.Contract{},
		installments: map[uuid.UUID]model.Installment{},
		requests:     map[uuid.UUID]model.AdvanceRequest{},
	}
}

type storeSnapshot struct {
	contracts    map[uuid.UUID]model.Contract
	installments map[uuid.UUID]model.Installment
	requests     map[uuid.UUID]model.AdvanceRequest
	audit        []model.AuditLog
}

func (m *memStore) snapshot() storeSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := storeSnapshot{
		contracts:    make(map[uuid.UUID]model.Contract, len(m.contracts)),
		installments: make(map[uuid.UUID]model.Installment, len(m.installments)),
		requests:     make(map[uuid.UUID]model.AdvanceRequest, len(m.requests)),
		audit:        append([]model.AuditLog(nil), m.audit...),
	}
	for k, v := range m.contracts {
		snap.contracts[k] = v
	}
	for k, v := range m.installments {
		snap.installments[k] = v
	}
	for k, v := range m.requests {
		v.Items = append([]model.AdvanceRequestItem(nil), v.Items...)
		snap.requests[k] = v
	}
	return snap
}

func (m *memStore) restore(snap storeSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts = snap.contracts
	m.installments = snap.installments
	m.requests = snap.requests
	m.audit = snap.audit
}

// addClient seeds a client with its login user and returns the client identity.
func (m *memStore) addClient(name string) model.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	client := model.Client{ID: uuid.New(), Name: name, Email: name + "@example.com"}
	m.clients[client.ID] = client
	clientID := client.ID
	user := model.User{ID: uuid.New(), Email: client.Email, Role: model.RoleClient, ClientID: &clientID}
	m.users[user.ID] = user
	return model.Identity{UserID: user.ID, Role: model.RoleClient, ClientID: &clientID}
}

func (m *memStore) addApprover() model.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := model.User{ID: uuid.New(), Email: "approver@example.com", Role: model.RoleApprover}
	m.users[user.ID] = user
	return model.Identity{UserID: user.ID, Role: model.RoleApprover}
}

func (m *memStore) addUser(email, password string, role model.Role, clientID *uuid.UUID) model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.mu.Lock()
	defer m.mu.Unlock()
	user := model.User{ID: uuid.New(), Email: email, Password: string(hash), Role: role, ClientID: clientID, CreatedAt: time.Now()}
	m.users[user.ID] = user
	return user
}

// addContract creates a contract whose installment i is due at now+dueIn[i].
func (m *memStore) addContract(clientID uuid.UUID, code string, now time.Time, dueIn ...time.Duration) model.Contract {
	m.mu.Lock()
	defer m.mu.Unlock()
	contract := model.Contract{
		ID:               uuid.New(),
		Code:             code,
		ClientID:         clientID,
		Status:           model.ContractPending,
		InstallmentCount: len(dueIn),
	}
	for i, d := range dueIn {
		inst := model.Installment{
			ID:         uuid.New(),
			ContractID: contract.ID,
			Number:     i + 1,
			Amount:     decimal.NewFromInt(int64(100 * (i + 1))),
			DueDate:    now.Add(d),
			Status:     model.InstallmentDue,
		}
		m.installments[inst.ID] = inst
		if inst.DueDate.After(contract.LatestDueDate) {
			contract.LatestDueDate = inst.DueDate
		}
	}
	m.contracts[contract.ID] = contract
	return m.contractLocked(contract.ID)
}

func (m *memStore) setInstallmentStatus(id uuid.UUID, status model.InstallmentStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst := m.installments[id]
	inst.Status = status
	m.installments[id] = inst
}

func (m *memStore) installment(id uuid.UUID) model.Installment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installments[id]
}

func (m *memStore) contract(id uuid.UUID) model.Contract {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contractLocked(id)
}

func (m *memStore) contractLocked(id uuid.UUID) model.Contract {
	c := m.contracts[id]
	c.Installments = nil
	for _, inst := range m.installments {
		if inst.ContractID == id {
			c.Installments = append(c.Installments, inst)
		}
	}
	sort.Slice(c.Installments, func(i, j int) bool { return c.Installments[i].Number < c.Installments[j].Number })
	if client, ok := m.clients[c.ClientID]; ok {
		c.Client = &client
	}
	return c
}

func (m *memStore) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *memStore) auditActions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	actions := make([]string, 0, len(m.audit))
	for _, a := range m.audit {
		actions = append(actions, a.Action)
	}
	return actions
}

// --- Transaction manager ---

type fakeTxManager struct {
	store *memStore
}

type txKey struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	snap := f.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

// --- Repositories ---

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeClientRepo struct{ store *memStore }

func (r *fakeClientRepo) Create(ctx context.Context, client *model.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeClientRepo) GetByEmail(ctx context.Context, email string) (*model.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.clients {
		if c.Email == email {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeClientRepo) List(ctx context.Context) ([]model.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]model.Client, 0, len(r.store.clients))
	for _, c := range r.store.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeContractRepo struct{ store *memStore }

func (r *fakeContractRepo) Create(ctx context.Context, contract *model.Contract) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.contracts[contract.ID] = *contract
	return nil
}

func (r *fakeContractRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.contracts[id]; !ok {
		return nil, repository.ErrNotFound
	}
	c := r.store.contractLocked(id)
	return &c, nil
}

func (r *fakeContractRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeContractRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Contract, error) {
	all, _ := r.ListAll(ctx)
	out := make([]model.Contract, 0, len(all))
	for _, c := range all {
		if c.ClientID == clientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContractRepo) ListAll(ctx context.Context) ([]model.Contract, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]model.Contract, 0, len(r.store.contracts))
	for id := range r.store.contracts {
		out = append(out, r.store.contractLocked(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeContractRepo) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	list, _ := r.ListByClient(ctx, clientID)
	return int64(len(list)), nil
}

func (r *fakeContractRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContractStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.contracts[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = status
	r.store.contracts[id] = c
	return nil
}

type fakeInstallmentRepo struct {
	store *memStore
	// skip makes Transition ignore the given id, simulating a concurrent change.
	skip uuid.UUID
}

func (r *fakeInstallmentRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]model.Installment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.contractLocked(contractID).Installments, nil
}

func (r *fakeInstallmentRepo) Transition(ctx context.Context, ids []uuid.UUID, from, to model.InstallmentStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, id := range ids {
		inst, ok := r.store.installments[id]
		if !ok || inst.Status != from || id == r.skip {
			continue
		}
		inst.Status = to
		r.store.installments[id] = inst
		n++
	}
	return n, nil
}

type fakeRequestRepo struct {
	store   *memStore
	listErr error
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *model.AdvanceRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.requests {
		if existing.ContractID == req.ContractID && existing.Status == model.AdvancePending {
			return repository.ErrDuplicate
		}
	}
	req.ID = uuid.New()
	for i := range req.Items {
		req.Items[i].ID = uuid.New()
		req.Items[i].AdvanceRequestID = req.ID
	}
	stored := *req
	stored.Items = append([]model.AdvanceRequestItem(nil), req.Items...)
	r.store.requests[req.ID] = stored
	return nil
}

func (r *fakeRequestRepo) hydrate(req model.AdvanceRequest) model.AdvanceRequest {
	items := make([]model.AdvanceRequestItem, len(req.Items))
	for i, item := range req.Items {
		inst := r.store.installments[item.InstallmentID]
		item.Installment = &inst
		items[i] = item
	}
	req.Items = items
	if client, ok := r.store.clients[req.ClientID]; ok {
		req.Client = &client
	}
	if contract, ok := r.store.contracts[req.ContractID]; ok {
		req.Contract = &contract
	}
	return req
}

func (r *fakeRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AdvanceRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.hydrate(req)
	return &out, nil
}

func (r *fakeRequestRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AdvanceRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	req.Items = append([]model.AdvanceRequestItem(nil), req.Items...)
	return &req, nil
}

func (r *fakeRequestRepo) List(ctx context.Context, filter repository.AdvanceRequestFilter) ([]model.AdvanceRequest, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var matched []model.AdvanceRequest
	for _, req := range r.store.requests {
		if filter.ClientID != nil && req.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.From != nil && req.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && req.CreatedAt.After(*filter.To) {
			continue
		}
		matched = append(matched, r.hydrate(req))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []model.AdvanceRequest{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], total, nil
}

func (r *fakeRequestRepo) SaveDecision(ctx context.Context, req *model.AdvanceRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.requests[req.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = req.Status
	stored.ApprovedAt = req.ApprovedAt
	stored.DecidedAt = req.DecidedAt
	stored.DecidedBy = req.DecidedBy
	stored.RejectionReason = req.RejectionReason
	r.store.requests[req.ID] = stored
	return nil
}

type fakeAuditRepo struct {
	store *memStore
	err   error
}

func (r *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry.ID = uuid.New()
	r.store.audit = append(r.store.audit, *entry)
	return nil
}

func (r *fakeAuditRepo) List(ctx context.Context, page pagination.Params) ([]model.AuditLog, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	total := int64(len(r.store.audit))
	offset := page.Offset
	if offset >= len(r.store.audit) {
		return []model.AuditLog{}, total, nil
	}
	end := offset + page.Limit
	if end > len(r.store.audit) {
		end = len(r.store.audit)
	}
	return append([]model.AuditLog(nil), r.store.audit[offset:end]...), total, nil
}

// --- Publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(evt websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBoom = errors.New("boom")
