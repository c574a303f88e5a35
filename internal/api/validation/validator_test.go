package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/storefront/storefront-api/internal/core/domain"
)

func newValidator() *Validator { return New(Storefront()...) }

func violations(t *testing.T, err error) []string {
	t.Helper()
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error, got %v", err)
	}
	if de.Kind != domain.KindBadRequest {
		t.Fatalf("expected bad request, got %v", de.Kind)
	}
	return de.Violations
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if strings.Contains(s, want) {
			return true
		}
	}
	return false
}

func TestValidate_CreateUserMissingEmail(t *testing.T) {
	_, err := newValidator().Validate(CreateUser, map[string]any{
		"firstname": "Ann",
		"lastname":  "Lee",
		"password":  "123",
	})

	v := violations(t, err)
	if !contains(v, "email is required") {
		t.Fatalf("expected email is required, got %v", v)
	}
}

func TestValidate_CreateUserBadEmail(t *testing.T) {
	_, err := newValidator().Validate(CreateUser, map[string]any{
		"firstname": "Ann",
		"lastname":  "Lee",
		"email":     "not-an-email",
		"password":  "123",
	})

	v := violations(t, err)
	if len(v) != 1 || !contains(v, "email must be a valid email") {
		t.Fatalf("unexpected violations %v", v)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	_, err := newValidator().Validate(CreateUser, map[string]any{
		"firstname": "   ",
		"email":     "x",
		"password":  "12",
		"role":      "root",
	})

	v := violations(t, err)
	for _, want := range []string{
		"firstname is required",
		"lastname is required",
		"email must be a valid email",
		"password must be at least 3 characters",
		"role must be one of: customer admin",
	} {
		if !contains(v, want) {
			t.Errorf("missing %q in %v", want, v)
		}
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Fatalf("expected violations joined in message, got %q", err.Error())
	}
}

func TestValidate_TrimsAndDropsUnknown(t *testing.T) {
	p, err := newValidator().Validate(CreateCategory, map[string]any{
		"name":    "  category1  ",
		"image":   "img.png",
		"isAdmin": true,
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := p.String("name"); got != "category1" {
		t.Fatalf("expected trimmed name, got %q", got)
	}
	if p.Has("isAdmin") {
		t.Fatalf("unknown field kept in payload")
	}
}

func TestValidate_LengthCheckedAfterTrim(t *testing.T) {
	_, err := newValidator().Validate(CreateCategory, map[string]any{
		"name":  " " + strings.Repeat("a", 50) + " ",
		"image": "img.png",
	})
	if err != nil {
		t.Fatalf("expected 50 chars after trim to pass, got %v", err)
	}

	_, err = newValidator().Validate(CreateCategory, map[string]any{
		"name":  strings.Repeat("a", 51),
		"image": "img.png",
	})
	if v := violations(t, err); !contains(v, "name must be at most 50 characters") {
		t.Fatalf("unexpected violations %v", v)
	}
}

func TestValidate_NumberCoercion(t *testing.T) {
	base := func(price any) map[string]any {
		return map[string]any{
			"title":       "shirt",
			"price":       price,
			"description": "cotton",
			"image":       "img.png",
			"categoryId":  "661e6c3f3f4e5c0bbff1b033",
		}
	}

	p, err := newValidator().Validate(CreateProduct, base("12.5"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Float("price") != 12.5 {
		t.Fatalf("expected coerced 12.5, got %v", p["price"])
	}

	_, err = newValidator().Validate(CreateProduct, base("cheap"))
	if v := violations(t, err); !contains(v, "price must be a number") {
		t.Fatalf("unexpected violations %v", v)
	}

	_, err = newValidator().Validate(CreateProduct, base(float64(-1)))
	if v := violations(t, err); !contains(v, "price must be greater than or equal to 0") {
		t.Fatalf("unexpected violations %v", v)
	}
}

func TestValidate_RejectsNonFiniteNumbers(t *testing.T) {
	for _, price := range []any{"Infinity", "-Inf", "NaN", "+inf"} {
		_, err := newValidator().Validate(UpdateProduct, map[string]any{"price": price})
		if v := violations(t, err); !contains(v, "price must be a number") {
			t.Errorf("price %v: unexpected violations %v", price, v)
		}
	}
}

func TestValidate_QuantityMustBeWhole(t *testing.T) {
	tests := []struct {
		quantity any
		want     string
	}{
		{2.9, "quantity must be a whole number"},
		{"1.5", "quantity must be a whole number"},
		{1e300, "quantity must be a whole number"},
		{float64(0), "quantity must be greater than or equal to 1"},
		{float64(10001), "quantity must be less than or equal to 10000"},
	}
	for _, tt := range tests {
		_, err := newValidator().Validate(CreateOrder, map[string]any{
			"productId": "661e6c3f3f4e5c0bbff1b033",
			"quantity":  tt.quantity,
		})
		if v := violations(t, err); !contains(v, tt.want) {
			t.Errorf("quantity %v: expected %q, got %v", tt.quantity, tt.want, v)
		}
	}

	p, err := newValidator().Validate(CreateOrder, map[string]any{
		"productId": "661e6c3f3f4e5c0bbff1b033",
		"quantity":  "3",
	})
	if err != nil || p.Float("quantity") != 3 {
		t.Fatalf("expected quantity 3, got %v err=%v", p, err)
	}
}

func TestValidate_UpdateOrderFieldsOptional(t *testing.T) {
	p, err := newValidator().Validate(UpdateOrder, map[string]any{"quantity": float64(3)})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Has("productId") || p.Float("quantity") != 3 {
		t.Fatalf("unexpected payload %v", p)
	}
}

func TestValidate_WrongType(t *testing.T) {
	_, err := newValidator().Validate(Login, map[string]any{
		"email":    "a@b.co",
		"password": 123.0,
	})
	if v := violations(t, err); !contains(v, "password must be a string") {
		t.Fatalf("unexpected violations %v", v)
	}
}

func TestValidate_PasswordByteLimit(t *testing.T) {
	// 36 two-byte runes: 36 characters, 72 bytes.
	ok := strings.Repeat("é", 36)
	tooLong := strings.Repeat("é", 37)

	if _, err := newValidator().Validate(ChangePassword, map[string]any{
		"email": "a@b.co", "password": "old", "newPassword": ok,
	}); err != nil {
		t.Fatalf("expected 72 bytes to pass, got %v", err)
	}

	_, err := newValidator().Validate(ChangePassword, map[string]any{
		"email": "a@b.co", "password": "old", "newPassword": tooLong,
	})
	if v := violations(t, err); !contains(v, "newPassword must be at most 72 bytes") {
		t.Fatalf("unexpected violations %v", v)
	}
}

func TestValidate_OptionalFieldsMayBeAbsent(t *testing.T) {
	p, err := newValidator().Validate(UpdateProduct, map[string]any{"price": 3.0})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.StringPtr("title") != nil {
		t.Fatalf("absent title should be nil")
	}
	if f := p.FloatPtr("price"); f == nil || *f != 3 {
		t.Fatalf("expected price 3, got %v", f)
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	_, err := newValidator().Validate("nope", nil)
	if domain.KindOf(err) != domain.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestStorefront_AllSchemasRegistered(t *testing.T) {
	v := newValidator()
	for _, name := range []string{
		CreateUser, UpdateUser, Login, ChangePassword, RequestPassword,
		CreateCategory, UpdateCategory, CreateProduct, UpdateProduct,
		CreateOrder, UpdateOrder,
	} {
		if !v.Has(name) {
			t.Errorf("schema %q not registered", name)
		}
	}
}
