package httpserver

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	return &repo.GormRepo{DB: db}
}

func seedProduct(t *testing.T, r *repo.GormRepo, sellerID uint, name string, price float64, stock uint) *models.Product {
	t.Helper()
	p := models.Product{SellerID: sellerID, Name: name, Price: price, Currency: "INR", Stock: stock}
	require.NoError(t, r.DB.Create(&p).Error)
	return &p
}

func seedCartItem(t *testing.T, r *repo.GormRepo, userID, productID, quantity uint) {
	t.Helper()
	require.NoError(t, r.DB.Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}).Error)
}

// newJSONContext builds an echo context the way RequireLogin would have left
// it: userID and role already resolved.
func newJSONContext(t *testing.T, method, target, body string, userID uint, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
		c.Set("role", role)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
