package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"brandmatch-service/internal/brandmatch/model"
	"brandmatch-service/internal/utils"
)

// Позиции колонок загруженного листа заказов (0-based).
const (
	colOrderDate = iota
	colOrderID
	colOrderer
	colConsignor
	colBrandProduct
	colOptions
	colQuantity
	colOptionPrice
	colRecipient
	colPhone
	colAddress
	colDeliveryMessage
)

// Canonicalizer: позиционная раскладка сырых строк в 23-польную OrderRow.
type Canonicalizer struct {
	norm *Normalizer
	log  zerolog.Logger
}

func NewCanonicalizer(norm *Normalizer, logger zerolog.Logger) *Canonicalizer {
	return &Canonicalizer{norm: norm, log: logger}
}

// Convert раскладывает строки листа шириной width. Колонки за пределами
// ширины пропускаются. При отмене ctx возвращает уже готовые строки и ошибку.
func (c *Canonicalizer) Convert(ctx context.Context, rows [][]string, width int) ([]model.OrderRow, error) {
	start := time.Now()
	out := make([]model.OrderRow, 0, len(rows))
	for i, rec := range rows {
		if i%1000 == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				c.log.Error().Err(err).Int("row", i).Int("total", len(rows)).Msg("conversion stopped")
				return out, err
			}
			c.log.Info().Int("row", i).Int("total", len(rows)).Dur("elapsed", time.Since(start)).Msg("conversion progress")
		}
		out = append(out, c.ConvertRow(rec, width))
	}
	c.log.Info().Int("rows", len(out)).Dur("elapsed", time.Since(start)).Msg("conversion done")
	return out, nil
}

// ConvertRow: одна строка. Все 23 поля присутствуют всегда.
func (c *Canonicalizer) ConvertRow(rec []string, width int) model.OrderRow {
	has := func(col int) bool { return col < width }
	cell := func(col int) string {
		if col < width && col < len(rec) {
			return strings.TrimSpace(rec[col])
		}
		return ""
	}

	var o model.OrderRow
	o.OrderDate = cell(colOrderDate)
	o.OrderID = cell(colOrderID)
	o.OrdererName = cell(colOrderer)

	token := ""
	if has(colAddress) {
		token = addressToken(cell(colAddress))
	}
	o.ConsignorName = withToken(cell(colConsignor), token)

	if has(colBrandProduct) {
		brand, product := splitBrandProduct(cell(colBrandProduct))
		o.Brand = brand
		if product != "" {
			o.Product = c.cleanProduct(product)
		}
	}
	if has(colOptions) {
		o.Color, o.Size = ParseOptions(cell(colOptions))
	}
	if has(colQuantity) {
		o.Quantity = 1
		if q, ok := utils.ParseQuantity(cell(colQuantity)); ok {
			o.Quantity = q
		}
	}
	o.OptionPrice = cell(colOptionPrice)
	o.RecipientName = withToken(cell(colRecipient), token)
	o.Phone = cell(colPhone)
	o.Address = cell(colAddress)
	o.DeliveryMessage = cell(colDeliveryMessage)
	return o
}

// cleanProduct: нормализация; если от названия осталось меньше 2 символов,
// используется щадящая очистка исходника.
func (c *Canonicalizer) cleanProduct(product string) string {
	n := c.norm.Normalize(product)
	if utf8.RuneCountInString(n) >= 2 {
		return n
	}
	return collapseSpaces(c.norm.LightClean(product))
}

// splitBrandProduct: "클라레오(기린) 상품명" → бренд со скобками; иначе по первому
// пробелу; без пробела всё поле, бренд.
func splitBrandProduct(v string) (string, string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ""
	}
	if m := reBrandParen.FindStringSubmatch(v); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if i := strings.IndexByte(v, ' '); i >= 0 {
		return strings.TrimSpace(v[:i]), strings.TrimSpace(v[i+1:])
	}
	return v, ""
}

// addressToken: третье слово адреса (обычно район).
func addressToken(addr string) string {
	f := strings.Fields(addr)
	if len(f) >= 3 {
		return f[2]
	}
	return ""
}

func withToken(name, token string) string {
	if name != "" && token != "" {
		return name + "(" + token + ")"
	}
	return name
}
