package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"billing-backend/internal/apperr"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Post("/company/create", CreateCompanyHandler())
	app.Get("/company/get-all", ListCompaniesHandler())
	app.Patch("/company/update", UpdateCompanyHandler())
	app.Delete("/company/delete", DeleteCompanyHandler())
	app.Post("/item/create", CreateItemHandler())
	app.Get("/item/get", GetItemHandler())
	app.Get("/item/get-by-company", ListItemsByCompanyHandler())
	app.Delete("/item/delete", DeleteItemHandler())
	app.Post("/party/create", CreatePartyHandler())
	app.Get("/party/get-by-type", ListPartiesByTypeHandler())
	app.Delete("/party/delete", DeletePartyHandler())
	app.Post("/shop-profile/create", CreateShopProfileHandler())
	app.Get("/shop-profile/get-by-id", GetShopProfileHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func testDate() time.Time {
	return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestCompanyCRUD(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/company/create?name=Acme", nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decode[CompanyResponse](t, resp)
	if created.Name != "Acme" {
		t.Errorf("created = %+v", created)
	}

	resp = doJSON(t, app, "POST", "/company/create", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, app, "PATCH", "/company/update?com_id=1&name=Acme+Ltd", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/company/get-all", nil)
	list := decode[[]CompanyResponse](t, resp)
	if len(list) != 1 || list[0].Name != "Acme Ltd" {
		t.Errorf("list = %+v", list)
	}
}

func TestCompanyDeleteBlockedByItems(t *testing.T) {
	app := setupApp(t)
	doJSON(t, app, "POST", "/company/create?name=Acme", nil)

	resp := doJSON(t, app, "POST", "/item/create", ItemRequest{
		Name: "Charger", Unit: "pcs", SalePrice: 250, StockQuantity: 5, GSTRate: 18, CompanyID: 1,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("item create status = %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "DELETE", "/company/delete?id=1", nil)
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("delete status = %d, want 409", resp.StatusCode)
	}

	doJSON(t, app, "DELETE", "/item/delete?id=1", nil)
	resp = doJSON(t, app, "DELETE", "/company/delete?id=1", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("delete after items gone = %d, want 200", resp.StatusCode)
	}
}

func TestItemValidation(t *testing.T) {
	app := setupApp(t)
	doJSON(t, app, "POST", "/company/create?name=Acme", nil)

	tests := []struct {
		name string
		body ItemRequest
	}{
		{"missing name", ItemRequest{Unit: "pcs", CompanyID: 1}},
		{"missing unit", ItemRequest{Name: "X", CompanyID: 1}},
		{"negative sale price", ItemRequest{Name: "X", Unit: "pcs", CompanyID: 1, SalePrice: -1}},
		{"negative stock", ItemRequest{Name: "X", Unit: "pcs", CompanyID: 1, StockQuantity: -1}},
		{"gst above 100", ItemRequest{Name: "X", Unit: "pcs", CompanyID: 1, GSTRate: 120}},
		{"missing company", ItemRequest{Name: "X", Unit: "pcs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, "POST", "/item/create", tt.body)
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}

	resp := doJSON(t, app, "POST", "/item/create", ItemRequest{
		Name: "X", Unit: "pcs", CompanyID: 99,
	})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("unknown company status = %d, want 404", resp.StatusCode)
	}
}

func TestItemsByCompany(t *testing.T) {
	app := setupApp(t)
	doJSON(t, app, "POST", "/company/create?name=Acme", nil)
	doJSON(t, app, "POST", "/company/create?name=Other", nil)
	doJSON(t, app, "POST", "/item/create", ItemRequest{Name: "A", Unit: "pcs", CompanyID: 1})
	doJSON(t, app, "POST", "/item/create", ItemRequest{Name: "B", Unit: "pcs", CompanyID: 2})

	resp := doJSON(t, app, "GET", "/item/get-by-company?company_name=Acme", nil)
	list := decode[[]ItemResponse](t, resp)
	if len(list) != 1 || list[0].Name != "A" || list[0].CompanyName != "Acme" {
		t.Errorf("list = %+v", list)
	}
}

func TestPartyTypeFilter(t *testing.T) {
	app := setupApp(t)

	for _, p := range []PartyRequest{
		{Name: "Cust", Type: "customer"},
		{Name: "Supp", Type: "supplier"},
		{Name: "Dual", Type: "both"},
	} {
		resp := doJSON(t, app, "POST", "/party/create", p)
		if resp.StatusCode != fiber.StatusCreated {
			t.Fatalf("create %s status = %d", p.Name, resp.StatusCode)
		}
	}

	resp := doJSON(t, app, "POST", "/party/create", PartyRequest{Name: "Bad", Type: "vendor"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("invalid type status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/party/get-by-type?type=customer", nil)
	list := decode[[]PartyResponse](t, resp)
	if len(list) != 2 { // customer + both
		t.Errorf("customer filter = %+v, want Cust and Dual", list)
	}
}

func TestPartyDeleteBlockedByInvoices(t *testing.T) {
	app := setupApp(t)
	resp := doJSON(t, app, "POST", "/party/create", PartyRequest{Name: "Cust", Type: "customer"})
	created := decode[PartyResponse](t, resp)

	inv := models.Invoice{
		InvoiceNumber: 1, PartyID: created.ID, ShopID: 1,
		InvoiceDate: testDate(), NetAmount: 100, Status: models.InvoiceStatusUnpaid,
	}
	if err := database.DB.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	resp = doJSON(t, app, "DELETE", "/party/delete?id=1", nil)
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("delete status = %d, want 409", resp.StatusCode)
	}
}

func TestShopProfileRoundTrip(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, "POST", "/shop-profile/create", ShopProfileRequest{
		ShopName: "City Mobiles", GSTIN: "27AAAAA0000A1Z5", BankName: "SBI",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decode[ShopProfileResponse](t, resp)

	resp = doJSON(t, app, "GET", "/shop-profile/get-by-id?shop_id=1", nil)
	fetched := decode[ShopProfileResponse](t, resp)
	if fetched.ShopName != created.ShopName || fetched.GSTIN != created.GSTIN {
		t.Errorf("fetched = %+v, created = %+v", fetched, created)
	}
}
