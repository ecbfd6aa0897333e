package http_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/export"
	"github.com/MrJamesThe3rd/billed/internal/gateway"
	apihttp "github.com/MrJamesThe3rd/billed/internal/http"
	"github.com/MrJamesThe3rd/billed/internal/http/auth"
	billhttp "github.com/MrJamesThe3rd/billed/internal/http/bill"
	exporthttp "github.com/MrJamesThe3rd/billed/internal/http/export"
	proofhttp "github.com/MrJamesThe3rd/billed/internal/http/proof"
	"github.com/MrJamesThe3rd/billed/internal/listing"
	"github.com/MrJamesThe3rd/billed/internal/login"
	"github.com/MrJamesThe3rd/billed/internal/proof"
	"github.com/MrJamesThe3rd/billed/internal/review"
	"github.com/MrJamesThe3rd/billed/internal/route"
	"github.com/MrJamesThe3rd/billed/internal/session"
	"github.com/MrJamesThe3rd/billed/internal/submission"
	"github.com/MrJamesThe3rd/billed/internal/user"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]user.User
}

func (m *memUsers) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.Email]; ok {
		return user.ErrAlreadyExists
	}

	m.users[u.Email] = *u

	return nil
}

func (m *memUsers) GetUser(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}

	return &u, nil
}

type memBills struct {
	mu    sync.Mutex
	order []string
	bills map[string]bill.Bill
}

func (m *memBills) CreateBill(_ context.Context, b *bill.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bills[b.ID] = *b
	m.order = append(m.order, b.ID)

	return nil
}

func (m *memBills) GetBill(_ context.Context, id string) (*bill.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bills[id]
	if !ok {
		return nil, bill.ErrNotFound
	}

	return &b, nil
}

func (m *memBills) ListBills(_ context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*bill.Bill

	for _, id := range m.order {
		b := m.bills[id]
		if filter.Email != nil && b.Email != *filter.Email {
			continue
		}

		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}

		out = append(out, &b)
	}

	return out, nil
}

func (m *memBills) UpdateBill(_ context.Context, b *bill.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bills[b.ID]; !ok {
		return bill.ErrNotFound
	}

	m.bills[b.ID] = *b

	return nil
}

type env struct {
	url string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	var handler http.Handler

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	tokens := user.NewTokens("test-secret", time.Hour)
	users := user.NewService(&memUsers{users: map[string]user.User{}}, tokens)
	store := &memBills{bills: map[string]bill.Bill{}}
	bills := bill.NewService(store)
	proofs := proof.NewStorage(t.TempDir(), srv.URL+"/public")

	ctx := context.Background()

	for _, p := range []user.CreateParams{
		{Email: "employee@test.tld", Password: "employee", Type: user.TypeEmployee},
		{Email: "other@test.tld", Password: "other", Type: user.TypeEmployee},
		{Email: "admin@test.tld", Password: "admin", Type: user.TypeAdmin},
	} {
		_, err := users.Create(ctx, p)
		require.NoError(t, err)
	}

	handler = apihttp.New(
		auth.NewHandler(users),
		billhttp.NewHandler(bills, proofs),
		exporthttp.NewHandler(export.NewService(store, proofs)),
		proofhttp.NewHandler(proofs),
		tokens,
		[]string{"*"},
	)

	return &env{url: srv.URL}
}

type client struct {
	session *session.Context
	gateway *gateway.Client
	paths   []route.Path
}

func (c *client) navigate(p route.Path) {
	c.paths = append(c.paths, p)
}

func (e *env) login(t *testing.T, email, password string) *client {
	t.Helper()

	c := &client{session: session.New(session.NewMemoryStore())}
	c.gateway = gateway.NewClient(e.url, 5*time.Second, c.session)

	_, err := login.NewService(c.gateway, c.session, c.navigate).Login(context.Background(), email, password)
	require.NoError(t, err)

	return c
}

var jpeg = submission.File{
	Name:    "facture-free-201903.jpg",
	Content: append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}, []byte("JFIF\x00")...),
}

func TestAPI_SubmitListReview(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	employee := e.login(t, "employee@test.tld", "employee")
	assert.Equal(t, []route.Path{route.Bills}, employee.paths)

	sub := submission.NewService(employee.gateway.Bills(), employee.session, employee.navigate)
	require.NoError(t, sub.HandleFileSelection(ctx, jpeg))

	snap := sub.Snapshot()
	require.Equal(t, submission.FileReady, snap.State)
	assert.NotEmpty(t, snap.BillID)

	require.NoError(t, sub.HandleSubmit(ctx, submission.Form{
		Type:   "Hôtel et logement",
		Name:   "encore",
		Date:   "2004-04-04",
		Amount: "400",
		VAT:    "80",
		Pct:    "20",
	}))
	assert.Equal(t, []route.Path{route.Bills, route.Bills}, employee.paths)

	bills, err := listing.NewService(employee.gateway.Bills()).GetBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Equal(t, snap.BillID, bills[0].ID)
	assert.Equal(t, "employee@test.tld", bills[0].Email)
	assert.Equal(t, "4 Avr. 04", bills[0].DisplayDate)
	assert.Equal(t, "En attente", bills[0].DisplayStatus)
	assert.Equal(t, bill.VAT("80"), bills[0].VAT)

	resp, err := http.Get(bills[0].FileURL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	other := e.login(t, "other@test.tld", "other")
	_, err = other.gateway.Bills().Get(ctx, snap.BillID)
	assert.ErrorIs(t, err, bill.ErrNotFound)

	otherBills, err := other.gateway.Bills().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, otherBills)

	admin := e.login(t, "admin@test.tld", "admin")
	assert.Equal(t, []route.Path{route.Dashboard}, admin.paths)

	reviews := review.NewService(admin.gateway.Bills(), admin.session, admin.navigate)

	pending, err := reviews.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	accepted, err := reviews.Accept(ctx, snap.BillID, "ok")
	require.NoError(t, err)
	assert.Equal(t, bill.StatusAccepted, accepted.Status)
	assert.Equal(t, "ok", accepted.CommentAdmin)

	_, err = reviews.Refuse(ctx, snap.BillID, "too late")
	assert.ErrorIs(t, err, bill.ErrInvalidTransition)

	bills, err = listing.NewService(employee.gateway.Bills()).GetBills(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Accepté", bills[0].DisplayStatus)

	b := bills[0].Bill
	b.Status = bill.StatusPending
	_, err = employee.gateway.Bills().Update(ctx, gateway.UpdatePayload{Bill: b, Selector: b.ID})
	assert.ErrorIs(t, err, bill.ErrInvalidTransition)
}

func TestAPI_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	employee := e.login(t, "employee@test.tld", "employee")
	bills := employee.gateway.Bills()

	var remote *gateway.RemoteError

	_, err := bills.Create(ctx, gateway.CreatePayload{
		File:  gateway.Upload{Name: "test.pdf", MIMEType: "application/pdf", Content: []byte("%PDF-1.4")},
		Email: "employee@test.tld",
	})
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnsupportedMediaType, remote.StatusCode)

	_, err = bills.Create(ctx, gateway.CreatePayload{
		File:  gateway.Upload{Name: jpeg.Name, MIMEType: "image/jpeg", Content: jpeg.Content},
		Email: "other@test.tld",
	})
	assert.ErrorIs(t, err, bill.ErrForbidden)

	created, err := bills.Create(ctx, gateway.CreatePayload{
		File:  gateway.Upload{Name: jpeg.Name, MIMEType: "image/jpeg", Content: jpeg.Content},
		Email: "employee@test.tld",
	})
	require.NoError(t, err)

	_, err = bills.Update(ctx, gateway.UpdatePayload{
		Bill:     bill.Bill{Email: "employee@test.tld", Date: "2004-04-04", Status: bill.StatusAccepted},
		Selector: created.Key,
	})
	assert.ErrorIs(t, err, bill.ErrForbidden)

	_, err = bills.Update(ctx, gateway.UpdatePayload{
		Bill:     bill.Bill{Email: "other@test.tld", Status: bill.StatusPending},
		Selector: created.Key,
	})
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnprocessableEntity, remote.StatusCode)

	anonymous := gateway.NewClient(e.url, 5*time.Second, session.New(session.NewMemoryStore()))
	_, err = anonymous.Bills().List(ctx)
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)

	_, err = anonymous.Login(ctx, "employee@test.tld", "wrong")
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
}

func TestAPI_PublicProofNotFound(t *testing.T) {
	e := newEnv(t)

	for _, key := range []string{"missing.jpg", ".upload-1"} {
		resp, err := http.Get(e.url + "/public/" + key)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, key)
	}
}

func TestAPI_CORS(t *testing.T) {
	e := newEnv(t)

	req, err := http.NewRequest(http.MethodOptions, e.url+"/api/v1/bills", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, resp.StatusCode)
}

func (e *env) get(t *testing.T, c *client, path string) *http.Response {
	t.Helper()

	token, err := c.session.Token(context.Background())
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, e.url+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestAPI_Export(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	employee := e.login(t, "employee@test.tld", "employee")

	sub := submission.NewService(employee.gateway.Bills(), employee.session, employee.navigate)
	require.NoError(t, sub.HandleFileSelection(ctx, jpeg))
	require.NoError(t, sub.HandleSubmit(ctx, submission.Form{
		Type:   "Transports",
		Name:   "Vol Paris Londres",
		Date:   "2004-04-04",
		Amount: "348",
	}))

	resp := e.get(t, employee, "/api/v1/export/")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := e.login(t, "admin@test.tld", "admin")

	resp = e.get(t, admin, "/api/v1/export/?status=unknown")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.get(t, admin, "/api/v1/export/?status=pending")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var meta struct {
		Bills   []bill.Bill `json:"bills"`
		Summary string      `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&meta))
	require.Len(t, meta.Bills, 1)
	assert.Equal(t, "Vol Paris Londres", meta.Bills[0].Name)
	assert.Contains(t, meta.Summary, "* 2004-04-04 | employee@test.tld | Vol Paris Londres | 348 € | En attente | 20040404_Vol_Paris_Londres_")

	resp = e.get(t, admin, "/api/v1/export/download?status=accepted")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "summary.txt", zr.File[0].Name)

	resp = e.get(t, admin, "/api/v1/export/download?email=employee@test.tld")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)

	zr, err = zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	assert.Len(t, zr.File, 2)
}
