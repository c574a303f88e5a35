package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/storefront-api/internal/api/validation"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/service"
	"github.com/storefront/storefront-api/internal/infrastructure/db/memory"
	"github.com/storefront/storefront-api/internal/infrastructure/security"
)

// newTestServer wires the full router over in-memory stores.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()

	tokens, err := security.NewJWTIssuer("test-secret", time.Hour, log)
	if err != nil {
		t.Fatalf("NewJWTIssuer: %v", err)
	}

	users := memory.NewStore[domain.User]("email")
	categories := memory.NewStore[domain.Category]()
	products := memory.NewStore[domain.Product]()
	orders := memory.NewStore[domain.Order]()
	events := memory.NewStore[domain.AuditEvent]("eventId")

	userSvc := service.NewUserService(users, nil, log)
	authSvc := service.NewAuthService(users, security.NewBcryptHasher(bcrypt.MinCost), tokens, service.AuthConfig{
		AllowAdminRegistration: true,
		DefaultResetPassword:   "reset-me",
	}, log)

	return NewRouter(Deps{
		Log: log,
		Services: Services{
			Auth:       authSvc,
			Users:      userSvc,
			Categories: service.NewCategoryService(categories, log),
			Products:   service.NewProductService(products, categories, log),
			Orders:     service.NewOrderService(orders, users, products, log),
			Audit:      service.NewAuditService(events),
		},
		Tokens:    tokens,
		Validator: validation.New(validation.Storefront()...),
		Lookup:    userSvc.CurrentIdentity,
	})
}

type result struct {
	code int
	body map[string]any
	raw  string
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) result {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	res := result{code: rec.Code, raw: rec.Body.String()}
	if strings.HasPrefix(strings.TrimSpace(res.raw), "{") {
		if err := json.Unmarshal(rec.Body.Bytes(), &res.body); err != nil {
			t.Fatalf("invalid json %q: %v", res.raw, err)
		}
	}
	return res
}

// signUp registers an account and logs it in, returning its id and token.
func signUp(t *testing.T, e *echo.Echo, email, role string) (string, string) {
	t.Helper()
	body := `{"firstname":"Ana","lastname":"Ruiz","email":"` + email + `","password":"123"`
	if role != "" {
		body += `,"role":"` + role + `"`
	}
	body += `}`

	reg := do(t, e, http.MethodPost, "/api/v1/users", "", body)
	if reg.code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, reg.code, reg.raw)
	}
	login := do(t, e, http.MethodPost, "/api/v1/users/login", "", `{"email":"`+email+`","password":"123"}`)
	if login.code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, login.code, login.raw)
	}
	return reg.body["_id"].(string), login.body["token"].(string)
}

func TestRouter_CategoryLifecycle(t *testing.T) {
	e := newTestServer(t)
	_, adminToken := signUp(t, e, "admin@gmail.com", "admin")

	created := do(t, e, http.MethodPost, "/api/v1/categories", adminToken, `{"name":"category1","image":"https://picsum.photos/800"}`)
	if created.code != http.StatusCreated {
		t.Fatalf("create: %d %s", created.code, created.raw)
	}
	id, _ := created.body["_id"].(string)
	if id == "" || created.body["name"] != "category1" {
		t.Fatalf("unexpected category: %s", created.raw)
	}

	list := do(t, e, http.MethodGet, "/api/v1/categories", "", "")
	var items []map[string]any
	if err := json.Unmarshal([]byte(list.raw), &items); err != nil || len(items) != 1 {
		t.Fatalf("list: %s (%v)", list.raw, err)
	}

	if res := do(t, e, http.MethodDelete, "/api/v1/categories/"+id, adminToken, ""); res.code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", res.code, res.raw)
	}
	if res := do(t, e, http.MethodGet, "/api/v1/categories/"+id, "", ""); res.code != http.StatusNotFound {
		t.Fatalf("get after delete: %d %s", res.code, res.raw)
	}
}

func TestRouter_LoginFlow(t *testing.T) {
	e := newTestServer(t)
	signUp(t, e, "user1@gmail.com", "")

	res := do(t, e, http.MethodPost, "/api/v1/users/login", "", `{"email":"user1@gmail.com","password":"wrong"}`)
	if res.code != http.StatusBadRequest || res.body["message"] != "Wrong password, please try again!" {
		t.Fatalf("wrong password: %d %s", res.code, res.raw)
	}

	res = do(t, e, http.MethodPost, "/api/v1/users/login", "", `{"email":"nobody@gmail.com","password":"123"}`)
	if res.code != http.StatusNotFound {
		t.Fatalf("unknown email: %d %s", res.code, res.raw)
	}

	res = do(t, e, http.MethodPost, "/api/v1/users/login", "", `{"email":"user1@gmail.com","password":"123"}`)
	if res.code != http.StatusOK {
		t.Fatalf("login: %d %s", res.code, res.raw)
	}
	user, _ := res.body["userData"].(map[string]any)
	if user["email"] != "user1@gmail.com" || user["role"] != "customer" {
		t.Fatalf("unexpected userData: %s", res.raw)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password hash leaked in login response")
	}
}

func TestRouter_Validation(t *testing.T) {
	e := newTestServer(t)

	res := do(t, e, http.MethodPost, "/api/v1/users", "", `{"firstname":"   ","lastname":"Ruiz","email":"bad","password":"123"}`)
	if res.code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", res.code, res.raw)
	}
	msg, _ := res.body["message"].(string)
	if !strings.Contains(msg, "firstname is required") || !strings.Contains(msg, "email") {
		t.Fatalf("expected every violation reported, got %q", msg)
	}
}

func TestRouter_AccessControl(t *testing.T) {
	e := newTestServer(t)
	_, adminToken := signUp(t, e, "admin@gmail.com", "admin")
	customerID, customerToken := signUp(t, e, "user1@gmail.com", "")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"missing token", http.MethodPost, "/api/v1/categories", "", `{"name":"x","image":"y"}`, http.StatusUnauthorized},
		{"garbage token", http.MethodPost, "/api/v1/categories", "not-a-jwt", `{"name":"x","image":"y"}`, http.StatusUnauthorized},
		{"wrong role", http.MethodPost, "/api/v1/categories", customerToken, `{"name":"x","image":"y"}`, http.StatusForbidden},
		// The gate runs before validation, so an invalid body still yields 403.
		{"wrong role with bad body", http.MethodPost, "/api/v1/categories", customerToken, `{}`, http.StatusForbidden},
		{"admin listing users", http.MethodGet, "/api/v1/users", adminToken, "", http.StatusOK},
		{"customer listing users", http.MethodGet, "/api/v1/users", customerToken, "", http.StatusForbidden},
		{"profile", http.MethodGet, "/api/v1/users/profile", customerToken, "", http.StatusOK},
		{"own orders", http.MethodGet, "/api/v1/orders/" + customerID, customerToken, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, e, tt.method, tt.path, tt.token, tt.body)
			if res.code != tt.want {
				t.Fatalf("expected %d, got %d %s", tt.want, res.code, res.raw)
			}
		})
	}
}

func TestRouter_BannedUserIsDenied(t *testing.T) {
	e := newTestServer(t)
	_, adminToken := signUp(t, e, "admin@gmail.com", "admin")
	customerID, customerToken := signUp(t, e, "user1@gmail.com", "")

	res := do(t, e, http.MethodPost, "/api/v1/users/"+customerID+"/ban", adminToken, "")
	if res.code != http.StatusOK || res.body["message"] != "User banned successfully!" {
		t.Fatalf("ban: %d %s", res.code, res.raw)
	}

	// The token was issued before the ban; the stored record still denies it.
	if res := do(t, e, http.MethodGet, "/api/v1/users/profile", customerToken, ""); res.code != http.StatusForbidden {
		t.Fatalf("expected 403 for banned user, got %d %s", res.code, res.raw)
	}

	do(t, e, http.MethodPost, "/api/v1/users/"+customerID+"/unban", adminToken, "")
	if res := do(t, e, http.MethodGet, "/api/v1/users/profile", customerToken, ""); res.code != http.StatusOK {
		t.Fatalf("expected 200 after unban, got %d %s", res.code, res.raw)
	}
}

func TestRouter_DeletedUserTokenIsRejected(t *testing.T) {
	e := newTestServer(t)
	customerID, customerToken := signUp(t, e, "user1@gmail.com", "")

	if res := do(t, e, http.MethodDelete, "/api/v1/users/"+customerID, customerToken, ""); res.code != http.StatusNoContent {
		t.Fatalf("delete: %d %s", res.code, res.raw)
	}
	if res := do(t, e, http.MethodGet, "/api/v1/users/profile", customerToken, ""); res.code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d %s", res.code, res.raw)
	}
}

func TestRouter_ProductsAndOrders(t *testing.T) {
	e := newTestServer(t)
	_, adminToken := signUp(t, e, "admin@gmail.com", "admin")
	customerID, customerToken := signUp(t, e, "user1@gmail.com", "")
	otherID, _ := signUp(t, e, "user2@gmail.com", "")

	cat := do(t, e, http.MethodPost, "/api/v1/categories", adminToken, `{"name":"shirts","image":"img"}`)
	catID := cat.body["_id"].(string)

	prod := do(t, e, http.MethodPost, "/api/v1/products", adminToken, `{"title":"Blue Shirt","price":"25","description":"cotton","image":"img","categoryId":"`+catID+`"}`)
	if prod.code != http.StatusCreated || prod.body["price"] != float64(25) {
		t.Fatalf("create product: %d %s", prod.code, prod.raw)
	}
	prodID := prod.body["_id"].(string)

	list := do(t, e, http.MethodGet, "/api/v1/products?searchQuery=blue&minPrice=20", "", "")
	if list.code != http.StatusOK || list.body["totalProduct"] != float64(1) {
		t.Fatalf("list products: %d %s", list.code, list.raw)
	}

	got := do(t, e, http.MethodGet, "/api/v1/products/"+prodID, "", "")
	category, _ := got.body["categoryId"].(map[string]any)
	if category["name"] != "shirts" {
		t.Fatalf("expected populated category, got %s", got.raw)
	}

	order := do(t, e, http.MethodPost, "/api/v1/orders/"+customerID, customerToken, `{"productId":"`+prodID+`","quantity":2}`)
	if order.code != http.StatusCreated {
		t.Fatalf("create order: %d %s", order.code, order.raw)
	}

	if res := do(t, e, http.MethodPost, "/api/v1/orders/"+otherID, customerToken, `{"productId":"`+prodID+`","quantity":1}`); res.code != http.StatusForbidden {
		t.Fatalf("order for another user: %d %s", res.code, res.raw)
	}
	if res := do(t, e, http.MethodPost, "/api/v1/orders/"+customerID, customerToken, `{"productId":"`+prodID+`","quantity":0}`); res.code != http.StatusBadRequest {
		t.Fatalf("zero quantity: %d %s", res.code, res.raw)
	}
	if res := do(t, e, http.MethodPost, "/api/v1/orders/"+customerID, customerToken, `{"productId":"`+prodID+`","quantity":2.9}`); res.code != http.StatusBadRequest {
		t.Fatalf("fractional quantity: %d %s", res.code, res.raw)
	}

	orderID := order.body["_id"].(string)
	updated := do(t, e, http.MethodPut, "/api/v1/orders/"+orderID, customerToken, `{"quantity":3}`)
	if updated.code != http.StatusOK {
		t.Fatalf("quantity-only update: %d %s", updated.code, updated.raw)
	}
	lines, _ := updated.body["products"].([]any)
	line, _ := lines[0].(map[string]any)
	if line["quantity"] != float64(3) || line["productId"] != prodID {
		t.Fatalf("unexpected line after update: %s", updated.raw)
	}
	if res := do(t, e, http.MethodPut, "/api/v1/orders/"+orderID, customerToken, `{}`); res.code != http.StatusBadRequest {
		t.Fatalf("empty update: %d %s", res.code, res.raw)
	}
}

func TestRouter_NonFinitePriceIsRejected(t *testing.T) {
	e := newTestServer(t)
	_, adminToken := signUp(t, e, "admin@gmail.com", "admin")
	cat := do(t, e, http.MethodPost, "/api/v1/categories", adminToken, `{"name":"shirts","image":"img"}`)
	catID := cat.body["_id"].(string)

	for _, price := range []string{"Infinity", "-Inf", "NaN"} {
		res := do(t, e, http.MethodPost, "/api/v1/products", adminToken,
			`{"title":"Shirt","price":"`+price+`","description":"cotton","image":"img","categoryId":"`+catID+`"}`)
		if res.code != http.StatusBadRequest || res.body["message"] != "price must be a number" {
			t.Fatalf("price %s: %d %s", price, res.code, res.raw)
		}
	}

	if res := do(t, e, http.MethodGet, "/api/v1/products", "", ""); res.code != http.StatusOK || res.body["totalProduct"] != float64(0) {
		t.Fatalf("list after rejected creates: %d %s", res.code, res.raw)
	}
}

func TestRouter_MalformedBodyHidesDecoderDetails(t *testing.T) {
	e := newTestServer(t)
	for _, body := range []string{`["not","an","object"]`, `{"email":`} {
		res := do(t, e, http.MethodPost, "/api/v1/users/login", "", body)
		if res.code != http.StatusBadRequest || res.body["message"] != "invalid request body" {
			t.Fatalf("body %s: %d %s", body, res.code, res.raw)
		}
	}
}

func TestRouter_UnknownRouteKeepsEchoStatus(t *testing.T) {
	e := newTestServer(t)
	res := do(t, e, http.MethodGet, "/api/v1/nothing-here", "", "")
	if res.code != http.StatusNotFound || res.body["message"] == nil {
		t.Fatalf("expected 404 envelope, got %d %s", res.code, res.raw)
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestServer(t)
	if res := do(t, e, http.MethodGet, "/health", "", ""); res.code != http.StatusOK {
		t.Fatalf("liveness: %d", res.code)
	}
	if res := do(t, e, http.MethodGet, "/health/ready", "", ""); res.code != http.StatusOK {
		t.Fatalf("readiness: %d %s", res.code, res.raw)
	}
}
