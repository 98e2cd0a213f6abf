package model

import "github.com/shopspring/decimal"

// Cart はIDが重複しない明細の並び。
// 数量は常に1以上で、0になった明細は残さない。
type Cart []CartItem

// Index は id の位置を返す。無ければ -1。
func (c Cart) Index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Add は同一商品なら Increment と同じ結果、無ければ末尾に数量1で追加。
func (c Cart) Add(in ProductInput) Cart {
	if next, ok := c.Increment(in.ID); ok {
		return next
	}
	out := make(Cart, 0, len(c)+1)
	out = append(out, c...)
	return append(out, in.toItem())
}

// Increment は該当明細の数量を1増やす。該当なしは false（元のまま）。
func (c Cart) Increment(id string) (Cart, bool) {
	idx := c.Index(id)
	if idx < 0 {
		return c, false
	}
	out := c.Clone()
	out[idx].Quantity++
	return out, true
}

// Decrement は数量を1減らし、1だった明細は削除する。
func (c Cart) Decrement(id string) (Cart, bool) {
	idx := c.Index(id)
	if idx < 0 {
		return c, false
	}
	if c[idx].Quantity > 1 {
		out := c.Clone()
		out[idx].Quantity--
		return out, true
	}
	out := make(Cart, 0, len(c)-1)
	out = append(out, c[:idx]...)
	return append(out, c[idx+1:]...), true
}

// Normalize は保存データ由来の不整合を直す。
// 重複IDは先頭の位置に数量を合算し、数量1未満は捨てる。
func (c Cart) Normalize() Cart {
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if it.Quantity < 1 || it.ID == "" {
			continue
		}
		if idx := out.Index(it.ID); idx >= 0 {
			out[idx].Quantity += it.Quantity
			continue
		}
		out = append(out, it)
	}
	return out
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Quantity は全明細の数量合計。
func (c Cart) Quantity() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}
