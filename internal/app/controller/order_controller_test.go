package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/urbanoshop/urbano-backend/internal/app/model"
	"github.com/urbanoshop/urbano-backend/internal/app/repository"
	"github.com/urbanoshop/urbano-backend/internal/app/service"
	"github.com/urbanoshop/urbano-backend/internal/db"
)

func setupOrderControllerTest(t *testing.T) (*OrderController, *gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderService := service.NewOrderService(testDB, orderRepo, cartRepo, false)
	paymentService := service.NewPaymentService(nil, "", "", "INR", orderRepo, cartRepo)
	orderController := NewOrderController(orderService, paymentService)

	user := &model.User{
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Name:         "Test Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	category := &model.Category{Name: "Accessories", Slug: "accessories"}
	testDB.Create(category)

	product := &model.Product{
		CategoryID: &category.ID,
		Title:      "Leather Belt",
		Slug:       "leather-belt",
		Brand:      "Urbano",
		Price:      799,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return orderController, router, testDB, user, product
}

func orderRequestBody() CreateOrderRequest {
	return CreateOrderRequest{
		Fullname:      "Test Buyer",
		Phone:         "9999999999",
		Address:       "12 Market Road",
		City:          "Pune",
		State:         "Maharashtra",
		Pincode:       "411001",
		PaymentMethod: model.PaymentMethodCOD,
	}
}

func TestOrderController_CreateOrder_COD(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	require.NoError(t, cartRepo.Upsert(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}))

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	jsonBody, _ := json.Marshal(orderRequestBody())
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Order model.Order `json:"order"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPlaced, response.Order.Status)
	assert.Equal(t, float64(1598), response.Order.TotalPrice) // 799 * 2
	assert.Equal(t, 5, response.Order.DeliveryDays)

	// COD orders consume the cart immediately.
	items, err := cartRepo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 0)
}

func TestOrderController_CreateOrder_ExpressDelivery(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	require.NoError(t, cartRepo.Upsert(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	body := orderRequestBody()
	body.DeliveryMethod = model.DeliveryExpress
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Order model.Order `json:"order"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, 2, response.Order.DeliveryDays)
}

func TestOrderController_CreateOrder_EmptyCart(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	jsonBody, _ := json.Marshal(orderRequestBody())
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ORDER_EMPTY_CART", response["error"])
}

func TestOrderController_CreateOrder_UnknownDeliveryMethod(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	require.NoError(t, cartRepo.Upsert(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	body := orderRequestBody()
	body.DeliveryMethod = "overnight"
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ORDER_INVALID_DELIVERY", response["error"])
}

func TestOrderController_CreateOrder_GatewayUnavailable(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	require.NoError(t, cartRepo.Upsert(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}))

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	// No gateway client is configured in this fixture; a razorpay order must
	// come back as a gateway error, not a panic.
	body := orderRequestBody()
	body.PaymentMethod = model.PaymentMethodRazorpay
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "PAYMENT_GATEWAY_ERROR", response["error"])
}

func TestOrderController_CreateOrder_Unauthorized(t *testing.T) {
	controller, router, _, _, _ := setupOrderControllerTest(t)

	router.POST("/orders", controller.CreateOrder)

	jsonBody, _ := json.Marshal(orderRequestBody())
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderController_CreateOrder_MissingAddress(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.POST("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CreateOrder(c)
	})

	body := orderRequestBody()
	body.Address = ""
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])
}

func TestOrderController_Checkout_Summary(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	cartRepo := repository.NewCartRepository(testDB)
	require.NoError(t, cartRepo.Upsert(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 3}))

	router.GET("/checkout", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var summary service.CheckoutSummary
	err := json.Unmarshal(w.Body.Bytes(), &summary)
	require.NoError(t, err)

	assert.Equal(t, float64(2397), summary.Total) // 799 * 3
	assert.Equal(t, 3, summary.TotalItems)
	assert.Len(t, summary.Items, 1)
}

func TestOrderController_Checkout_EmptyCart(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.GET("/checkout", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.Checkout(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "CART_EMPTY", response["error"])
}

func TestOrderController_ListOrders(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	require.NoError(t, orderRepo.Create(&model.Order{
		UserID:        user.ID,
		Fullname:      user.Name,
		Phone:         "9999999999",
		Address:       "12 Market Road",
		City:          "Pune",
		TotalPrice:    799,
		PaymentMethod: model.PaymentMethodCOD,
		Status:        model.OrderStatusPlaced,
		DeliveryDays:  5,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, Price: product.Price},
		},
	}))

	router.GET("/orders", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ListOrders(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])
}

func TestOrderController_GetOrder_OtherUsersOrderHidden(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other Buyer",
		Role:         model.RoleUser,
	}
	testDB.Create(other)

	orderRepo := repository.NewOrderRepository(testDB)
	order := &model.Order{
		UserID:        other.ID,
		Fullname:      other.Name,
		Phone:         "8888888888",
		Address:       "9 Hill Street",
		City:          "Pune",
		TotalPrice:    799,
		PaymentMethod: model.PaymentMethodCOD,
		Status:        model.OrderStatusPlaced,
		DeliveryDays:  5,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, Price: product.Price},
		},
	}
	require.NoError(t, orderRepo.Create(order))

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ORDER_NOT_FOUND", response["error"])
}

func TestOrderController_GetOrder_InvalidID(t *testing.T) {
	controller, router, _, user, _ := setupOrderControllerTest(t)

	router.GET("/orders/:id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetOrder(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/orders/invalid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_CancelOrder(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	order := &model.Order{
		UserID:        user.ID,
		Fullname:      user.Name,
		Phone:         "9999999999",
		Address:       "12 Market Road",
		City:          "Pune",
		TotalPrice:    799,
		PaymentMethod: model.PaymentMethodCOD,
		Status:        model.OrderStatusPlaced,
		DeliveryDays:  5,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, Price: product.Price},
		},
	}
	require.NoError(t, orderRepo.Create(order))

	router.POST("/orders/:id/cancel", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CancelOrder(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Order model.Order `json:"order"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusCancelled, response.Order.Status)
	assert.NotNil(t, response.Order.CancelledAt)
}

func TestOrderController_CancelOrder_PaidConflict(t *testing.T) {
	controller, router, testDB, user, product := setupOrderControllerTest(t)

	orderRepo := repository.NewOrderRepository(testDB)
	order := &model.Order{
		UserID:        user.ID,
		Fullname:      user.Name,
		Phone:         "9999999999",
		Address:       "12 Market Road",
		City:          "Pune",
		TotalPrice:    799,
		PaymentMethod: model.PaymentMethodRazorpay,
		Status:        model.OrderStatusPaid,
		IsPaid:        true,
		DeliveryDays:  5,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, Price: product.Price},
		},
	}
	require.NoError(t, orderRepo.Create(order))

	router.POST("/orders/:id/cancel", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.CancelOrder(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ORDER_NOT_CANCELLABLE", response["error"])
}
