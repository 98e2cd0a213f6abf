package handler

import (
	"context"
	"net/http"

	"gomarketplace/internal/domain/model"
	"gomarketplace/internal/money"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// handlerが使うカート操作
type CartStore interface {
	Ready() <-chan struct{}
	Products(ctx context.Context) (model.Cart, error)
	AddToCart(ctx context.Context, in model.ProductInput) (model.Cart, error)
	Increment(ctx context.Context, id string) (model.Cart, error)
	Decrement(ctx context.Context, id string) (model.Cart, error)
}

// /cartのHTTP
type CartHandler struct {
	store CartStore
}

// DI
func NewCartHandler(store CartStore) *CartHandler {
	return &CartHandler{store: store}
}

type AddCartRequest struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	ImageURL string          `json:"image_url"`
	Price    decimal.Decimal `json:"price"`
}

type CartItemResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	ImageURL       string          `json:"image_url"`
	Price          decimal.Decimal `json:"price"`
	PriceFormatted string          `json:"price_formatted"`
	Quantity       int             `json:"quantity"`
}

type CartResponse struct {
	Items          []CartItemResponse `json:"items"`
	Total          decimal.Decimal    `json:"total"`
	TotalFormatted string             `json:"total_formatted"`
	Quantity       int                `json:"quantity"`
}

// /cart, /healthz を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.health)

	g := e.Group("/cart")
	g.GET("", h.getCart)
	g.POST("", h.addToCart)
	g.POST("/:id/increment", h.increment)
	g.POST("/:id/decrement", h.decrement)
}

func (h *CartHandler) health(c echo.Context) error {
	select {
	case <-h.store.Ready():
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	default:
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	}
}

func (h *CartHandler) getCart(c echo.Context) error {
	items, err := h.store.Products(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, buildCartResponse(items))
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items, err := h.store.AddToCart(c.Request().Context(), model.ProductInput{
		ID:       req.ID,
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Price:    req.Price,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, buildCartResponse(items))
}

func (h *CartHandler) increment(c echo.Context) error {
	items, err := h.store.Increment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, buildCartResponse(items))
}

func (h *CartHandler) decrement(c echo.Context) error {
	items, err := h.store.Decrement(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, buildCartResponse(items))
}

// 明細と合計をレスポンスにまとめる。
func buildCartResponse(items model.Cart) CartResponse {
	respItems := make([]CartItemResponse, 0, len(items))
	for _, it := range items {
		respItems = append(respItems, CartItemResponse{
			ID:             it.ID,
			Title:          it.Title,
			ImageURL:       it.ImageURL,
			Price:          it.Price,
			PriceFormatted: money.FormatValue(it.Price),
			Quantity:       it.Quantity,
		})
	}

	total := items.Total()
	return CartResponse{
		Items:          respItems,
		Total:          total,
		TotalFormatted: money.FormatValue(total),
		Quantity:       items.Quantity(),
	}
}
