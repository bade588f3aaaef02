package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/services"
	"github.com/julioamancio/capone-orders/internal/store"
)

// stubSyncer stands in for the GitHub-backed catalog syncer.
type stubSyncer struct {
	calls int
	err   error
}

func (s *stubSyncer) Sync(_ context.Context, _ []models.Product) error {
	s.calls++
	return s.err
}

func newTestServer(t *testing.T, syncer services.CatalogSyncer) *httptest.Server {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&store.KVEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := store.New(db)
	cart := services.NewCartService(st)
	deps := Deps{
		DB:       db,
		Store:    st,
		Catalog:  services.NewCatalogService(st, syncer),
		Cart:     cart,
		Orders:   services.NewOrderService(st, cart),
		Backup:   services.NewBackupService(st),
		Settings: services.NewSettingsService(st),
		Profiles: services.NewProfileService(st),
		Syncer:   syncer,
	}
	srv := httptest.NewServer(New(deps))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, cookies []*http.Cookie) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func login(t *testing.T, srv *httptest.Server, email, password string) []*http.Cookie {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/login", map[string]any{"email": email, "password": password}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, resp.StatusCode, body)
	}
	return resp.Cookies()
}

func adminLogin(t *testing.T, srv *httptest.Server) []*http.Cookie {
	return login(t, srv, "admin@capone.com", "admin123")
}

func clientLogin(t *testing.T, srv *httptest.Server) []*http.Cookie {
	return login(t, srv, "cliente@example.com", "secret123")
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, path := range []string{"/health", "/healthz"} {
		resp, _ := do(t, srv, http.MethodGet, path, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: %d", path, resp.StatusCode)
		}
	}
}

func TestLoginRules(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodPost, "/login", map[string]any{"email": "admin@capone.com", "password": "admin123"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login: %d %s", resp.StatusCode, body)
	}
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Role != "admin" {
		t.Fatalf("role = %q", user.Role)
	}

	resp, _ = do(t, srv, http.MethodPost, "/login", map[string]any{"email": "admin@capone.com", "password": "wrong"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad admin password: %d", resp.StatusCode)
	}

	resp, body = do(t, srv, http.MethodPost, "/login", map[string]any{"email": "cliente@example.com", "password": "secret123"}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("client login: %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Role != "client" {
		t.Fatalf("role = %q", user.Role)
	}

	resp, _ = do(t, srv, http.MethodPost, "/login", map[string]any{"email": "cliente@example.com", "password": "short"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("short password: %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodPost, "/login", map[string]any{"email": "no-at-sign", "password": "secret123"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("email without @: %d", resp.StatusCode)
	}
}

func TestRememberMeNeverForAdmin(t *testing.T) {
	srv := newTestServer(t, nil)

	do(t, srv, http.MethodPost, "/login", map[string]any{"email": "admin@capone.com", "password": "admin123", "rememberMe": true}, nil)
	_, body := do(t, srv, http.MethodGet, "/login/remembered", nil, nil)
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["remembered"] != false {
		t.Fatalf("admin credentials must never be remembered: %s", body)
	}

	do(t, srv, http.MethodPost, "/login", map[string]any{"email": "cliente@example.com", "password": "secret123", "rememberMe": true}, nil)
	_, body = do(t, srv, http.MethodGet, "/login/remembered", nil, nil)
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["remembered"] != true || out["email"] != "cliente@example.com" {
		t.Fatalf("client remember-me: %s", body)
	}
}

func TestMenuIsPublicAndFilterable(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodGet, "/products", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("menu: %d", resp.StatusCode)
	}
	var out struct {
		Items []models.Product `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != len(models.DefaultProducts()) {
		t.Fatalf("expected seeded menu, got %d", out.Total)
	}

	_, body = do(t, srv, http.MethodGet, "/products?q=fries", nil, nil)
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != 1 || !strings.Contains(out.Items[0].Name, "Fries") {
		t.Fatalf("q filter: %s", body)
	}
}

func TestProductMutationsRequireAdmin(t *testing.T) {
	srv := newTestServer(t, nil)
	draft := map[string]any{"name": "Consigliere Club", "price": 35.0, "category": "Burgers"}

	resp, _ := do(t, srv, http.MethodPost, "/products", draft, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create: %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodPost, "/products", draft, clientLogin(t, srv))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("client create: %d", resp.StatusCode)
	}

	admin := adminLogin(t, srv)
	resp, body := do(t, srv, http.MethodPost, "/products", draft, admin)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin create: %d %s", resp.StatusCode, body)
	}
	var created models.Product
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}

	created.Price = 36.0
	resp, _ = do(t, srv, http.MethodPut, "/products/update", created, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: %d", resp.StatusCode)
	}

	resp, _ = do(t, srv, http.MethodDelete, "/products/delete?id="+created.ID, nil, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodDelete, "/products/delete?id="+created.ID, nil, admin)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete missing: %d", resp.StatusCode)
	}

	resp, body = do(t, srv, http.MethodPost, "/products/reset", nil, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset: %d %s", resp.StatusCode, body)
	}
}

func TestCartAndCheckoutFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	client := clientLogin(t, srv)
	productID := models.DefaultProducts()[0].ID

	resp, _ := do(t, srv, http.MethodGet, "/cart", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous cart: %d", resp.StatusCode)
	}

	for i := 0; i < 2; i++ {
		resp, body := do(t, srv, http.MethodPost, "/cart/items", map[string]string{"productId": productID}, client)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add item: %d %s", resp.StatusCode, body)
		}
	}

	_, body := do(t, srv, http.MethodGet, "/cart", nil, client)
	var cart struct {
		Items      []models.CartLine `json:"items"`
		Total      float64           `json:"total"`
		Count      int               `json:"count"`
		GrandTotal float64           `json:"grandTotal"`
	}
	if err := json.Unmarshal(body, &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 || cart.Count != 2 {
		t.Fatalf("merge on add failed: %s", body)
	}
	if cart.GrandTotal != cart.Total+5.00 {
		t.Fatalf("grand total must add the flat delivery fee: %s", body)
	}

	resp, body = do(t, srv, http.MethodPost, "/orders", map[string]string{"address": "Rua A, 1", "paymentMethod": "Pix"}, client)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: %d %s", resp.StatusCode, body)
	}
	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if !strings.HasPrefix(order.ID, "ORD-") || order.Status != models.StatusPending {
		t.Fatalf("order = %+v", order)
	}
	if order.Total != cart.Total {
		t.Fatalf("order total must exclude the delivery fee: %v vs %v", order.Total, cart.Total)
	}

	_, body = do(t, srv, http.MethodGet, "/cart", nil, client)
	if err := json.Unmarshal(body, &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart must be empty after checkout: %s", body)
	}

	resp, _ = do(t, srv, http.MethodPost, "/orders", nil, client)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty cart checkout: %d", resp.StatusCode)
	}
}

func TestOrderBoardLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)
	client := clientLogin(t, srv)
	admin := adminLogin(t, srv)
	productID := models.DefaultProducts()[0].ID

	do(t, srv, http.MethodPost, "/cart/items", map[string]string{"productId": productID}, client)
	_, body := do(t, srv, http.MethodPost, "/orders", map[string]string{}, client)
	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.Address != "Endereço Padrão do Cliente" || order.PaymentMethod != "Cartão de Crédito" {
		t.Fatalf("checkout defaults: %+v", order)
	}

	resp, _ := do(t, srv, http.MethodGet, "/orders/board", nil, client)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("client board: %d", resp.StatusCode)
	}

	move := func(direction string) models.Order {
		resp, body := do(t, srv, http.MethodPost, "/orders/move", map[string]string{"id": order.ID, "direction": direction}, admin)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("move %s: %d %s", direction, resp.StatusCode, body)
		}
		var moved models.Order
		if err := json.Unmarshal(body, &moved); err != nil {
			t.Fatalf("decode moved: %v", err)
		}
		return moved
	}
	if got := move("next"); got.Status != models.StatusPreparing {
		t.Fatalf("after next: %s", got.Status)
	}
	if got := move("prev"); got.Status != models.StatusPending {
		t.Fatalf("after prev: %s", got.Status)
	}
	if got := move("prev"); got.Status != models.StatusPending {
		t.Fatalf("prev must clamp at pending: %s", got.Status)
	}

	for i := 0; i < 5; i++ {
		if got := move("next"); i >= 3 && got.Status != models.StatusCompleted {
			t.Fatalf("next must clamp at completed: %s", got.Status)
		}
	}

	resp, body = do(t, srv, http.MethodPost, "/orders/archive", nil, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("archive: %d", resp.StatusCode)
	}
	var archived map[string]int
	if err := json.Unmarshal(body, &archived); err != nil {
		t.Fatalf("decode archive: %v", err)
	}
	if archived["archived"] != 1 {
		t.Fatalf("archived = %d", archived["archived"])
	}

	_, body = do(t, srv, http.MethodGet, "/orders/history?filter=today", nil, admin)
	var history struct {
		Count   int     `json:"count"`
		Revenue float64 `json:"revenue"`
	}
	if err := json.Unmarshal(body, &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if history.Count != 1 || history.Revenue != order.Total {
		t.Fatalf("history: %s", body)
	}

	resp, _ = do(t, srv, http.MethodGet, "/orders/history?filter=bogus", nil, admin)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad filter: %d", resp.StatusCode)
	}
}

func TestCancelIsExplicitAndTerminal(t *testing.T) {
	srv := newTestServer(t, nil)
	client := clientLogin(t, srv)
	admin := adminLogin(t, srv)

	do(t, srv, http.MethodPost, "/cart/items", map[string]string{"productId": models.DefaultProducts()[0].ID}, client)
	_, body := do(t, srv, http.MethodPost, "/orders", map[string]string{}, client)
	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}

	resp, body := do(t, srv, http.MethodPost, "/orders/cancel", map[string]string{"id": order.ID}, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: %d", resp.StatusCode)
	}
	var cancelled models.Order
	if err := json.Unmarshal(body, &cancelled); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("status = %s", cancelled.Status)
	}

	_, body = do(t, srv, http.MethodPost, "/orders/move", map[string]string{"id": order.ID, "direction": "next"}, admin)
	var after models.Order
	if err := json.Unmarshal(body, &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Status != models.StatusCancelled {
		t.Fatalf("stepping a cancelled order must be a no-op, got %s", after.Status)
	}
}

func TestBackupEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	admin := adminLogin(t, srv)

	resp, body := do(t, srv, http.MethodGet, "/backup/export", nil, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "capone_backup_") {
		t.Fatalf("content disposition = %q", cd)
	}
	var doc models.BackupDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if doc.Version != models.BackupVersion {
		t.Fatalf("version = %q", doc.Version)
	}

	resp, _ = do(t, srv, http.MethodPost, "/backup/import", map[string]any{"data": map[string]any{"products": "nope"}}, admin)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid import: %d", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/backup/import", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for _, c := range admin {
		req.AddCookie(c)
	}
	restoreResp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	defer restoreResp.Body.Close()
	if restoreResp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(restoreResp.Body)
		t.Fatalf("round-trip import: %d %s", restoreResp.StatusCode, out)
	}
}

func TestBrandingEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	admin := adminLogin(t, srv)

	resp, body := do(t, srv, http.MethodGet, "/settings/logo", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public logo: %d", resp.StatusCode)
	}
	var logo map[string]string
	if err := json.Unmarshal(body, &logo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if logo["logo"] == "" {
		t.Fatalf("expected default logo: %s", body)
	}

	resp, _ = do(t, srv, http.MethodPut, "/settings/logo", map[string]string{"url": "https://example.com/new.png"}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous logo update: %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodPut, "/settings/logo", map[string]string{"url": "https://example.com/new.png"}, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logo update: %d", resp.StatusCode)
	}

	_, body = do(t, srv, http.MethodGet, "/settings/banners", nil, nil)
	var banners struct {
		Items []struct {
			URL   string `json:"url"`
			Video bool   `json:"video"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &banners); err != nil {
		t.Fatalf("decode banners: %v", err)
	}
	if len(banners.Items) != len(models.DefaultHeroImages()) {
		t.Fatalf("banners: %s", body)
	}

	resp, body = do(t, srv, http.MethodPost, "/settings/banners", map[string]string{"url": "https://example.com/clip.mp4"}, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add banner: %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &banners); err != nil {
		t.Fatalf("decode banners: %v", err)
	}
	last := banners.Items[len(banners.Items)-1]
	if last.URL != "https://example.com/clip.mp4" || !last.Video {
		t.Fatalf("expected video banner last: %s", body)
	}
	resp, _ = do(t, srv, http.MethodDelete, "/settings/banners?index=0", nil, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove banner: %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodDelete, fmt.Sprintf("/settings/banners?index=%d", 99), nil, admin)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("remove out of range: %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodPost, "/settings/banners/reset", nil, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset banners: %d", resp.StatusCode)
	}
}

func TestSyncProxyEndpoint(t *testing.T) {
	syncer := &stubSyncer{}
	srv := newTestServer(t, syncer)
	admin := adminLogin(t, srv)

	resp, _ := do(t, srv, http.MethodPost, "/api/products", map[string]any{"products": []map[string]any{{"id": "1", "name": "X", "price": 1.0}}}, admin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sync proxy: %d", resp.StatusCode)
	}
	if syncer.calls == 0 {
		t.Fatalf("expected the syncer to be called")
	}

	resp, _ = do(t, srv, http.MethodPost, "/api/products", map[string]any{"products": "not-an-array"}, admin)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid payload: %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodGet, "/api/products", nil, admin)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET: %d", resp.StatusCode)
	}
}

func TestProfileEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	client := clientLogin(t, srv)

	resp, _ := do(t, srv, http.MethodGet, "/profile", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous profile: %d", resp.StatusCode)
	}

	update := map[string]any{
		"name":  "Luca Brasi",
		"phone": "+55 11 99999-0000",
		"addresses": []map[string]string{{
			"id": "a1", "label": "Casa", "zipCode": "01000-000",
			"street": "Rua das Laranjeiras", "number": "120",
			"neighborhood": "Centro", "city": "São Paulo", "state": "SP",
		}},
	}
	resp, body := do(t, srv, http.MethodPut, "/profile", update, client)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save profile: %d %s", resp.StatusCode, body)
	}

	_, body = do(t, srv, http.MethodGet, "/profile", nil, client)
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if user.Name != "Luca Brasi" || len(user.Addresses) != 1 {
		t.Fatalf("profile: %s", body)
	}
}

func TestLogoutClearsCart(t *testing.T) {
	srv := newTestServer(t, nil)
	client := clientLogin(t, srv)

	do(t, srv, http.MethodPost, "/cart/items", map[string]string{"productId": models.DefaultProducts()[0].ID}, client)
	resp, _ := do(t, srv, http.MethodPost, "/logout", nil, client)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: %d", resp.StatusCode)
	}

	again := clientLogin(t, srv)
	_, body := do(t, srv, http.MethodGet, "/cart", nil, again)
	var cart struct {
		Items []models.CartLine `json:"items"`
	}
	if err := json.Unmarshal(body, &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("logout must clear the cart: %s", body)
	}
}

func TestUnknownPath(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, _ := do(t, srv, http.MethodGet, "/nope", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path: %d", resp.StatusCode)
	}
}
