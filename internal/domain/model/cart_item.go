package model

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItemID    = errors.New("invalid id")
	ErrInvalidItemPrice = errors.New("invalid price")
)

// カートの明細
// JSONのキーはストアに保存されている形式に合わせる。
type CartItem struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	ImageURL string          `json:"image_url"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// MarshalJSON は price を数値で書く。
// 既存の保存データ（price が number）と同じ形にするため。
func (i CartItem) MarshalJSON() ([]byte, error) {
	type plain CartItem
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{
		plain: plain(i),
		Price: json.Number(i.Price.String()),
	})
}

// 追加時の入力（数量なし）
type ProductInput struct {
	ID       string
	Title    string
	ImageURL string
	Price    decimal.Decimal
}

// Subtotal は単価×数量。
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.ID) == "" {
		return ErrInvalidItemID
	}
	if in.Price.IsNegative() {
		return ErrInvalidItemPrice
	}
	return nil
}

func (in ProductInput) toItem() CartItem {
	return CartItem{
		ID:       in.ID,
		Title:    in.Title,
		ImageURL: in.ImageURL,
		Price:    in.Price,
		Quantity: 1,
	}
}
