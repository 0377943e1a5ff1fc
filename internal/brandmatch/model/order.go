package model

import "strconv"

// OrderColumns: 23 колонки канонической строки (Sheet2), порядок фиксирован.
var OrderColumns = []string{
	"A열(ㅇ)", "B열(미등록주문)", "C열(주문일)", "D열(아이디주문번호)", "E열(ㅇ)",
	"F열(주문자명)", "G열(위탁자명)", "H열(브랜드)", "I열(상품명)", "J열(색상)",
	"K열(사이즈)", "L열(수량)", "M열(옵션가)", "N열(중도매명)", "O열(도매가격)",
	"P열(미송)", "Q열(비고)", "R열(이름)", "S열(전화번호)", "T열(주소)",
	"U열(아이디)", "V열(배송메세지)", "W열(금액)",
}

// OrderRow: каноническая строка заказа. Все 23 поля присутствуют всегда.
type OrderRow struct {
	Check           string  `json:"check"`           // A
	Unregistered    string  `json:"unregistered"`    // B
	OrderDate       string  `json:"orderDate"`       // C
	OrderID         string  `json:"orderId"`         // D
	Check2          string  `json:"check2"`          // E
	OrdererName     string  `json:"ordererName"`     // F
	ConsignorName   string  `json:"consignorName"`   // G (+ токен адреса)
	Brand           string  `json:"brand"`           // H
	Product         string  `json:"product"`         // I
	Color           string  `json:"color"`           // J
	Size            string  `json:"size"`            // K
	Quantity        int     `json:"quantity"`        // L
	OptionPrice     string  `json:"optionPrice"`     // M
	Distributor     string  `json:"distributor"`     // N
	WholesalePrice  float64 `json:"wholesalePrice"`  // O
	Pending         string  `json:"pending"`         // P
	Note            string  `json:"note"`            // Q
	RecipientName   string  `json:"recipientName"`   // R (+ токен адреса)
	Phone           string  `json:"phone"`           // S
	Address         string  `json:"address"`         // T
	AccountID       string  `json:"accountId"`       // U
	DeliveryMessage string  `json:"deliveryMessage"` // V
	Amount          float64 `json:"amount"`          // W
}

// Values: значения в порядке OrderColumns, всегда ровно 23.
func (o OrderRow) Values() []string {
	qty := ""
	if o.Quantity != 0 {
		qty = strconv.Itoa(o.Quantity)
	}
	return []string{
		o.Check, o.Unregistered, o.OrderDate, o.OrderID, o.Check2,
		o.OrdererName, o.ConsignorName, o.Brand, o.Product, o.Color,
		o.Size, qty, o.OptionPrice, o.Distributor, formatNumber(o.WholesalePrice),
		o.Pending, o.Note, o.RecipientName, o.Phone, o.Address,
		o.AccountID, o.DeliveryMessage, formatNumber(o.Amount),
	}
}

// ClearMatch: сбрасывает поля результата матчинга.
func (o *OrderRow) ClearMatch() {
	o.Distributor = ""
	o.WholesalePrice = 0
	o.Amount = 0
}

// ApplyMatch: заполняет поставщика, цену и сумму строки.
func (o *OrderRow) ApplyMatch(m Match) {
	o.Distributor = m.Distributor
	o.WholesalePrice = m.Price
	o.Amount = m.Price * float64(o.Quantity)
}

// Snapshot: снимок полей, нужных fallback-проходу.
func (o OrderRow) Snapshot(rowIndex int, reason string) FailedProduct {
	return FailedProduct{
		RowIndex: rowIndex,
		Brand:    o.Brand,
		Product:  o.Product,
		Color:    o.Color,
		Size:     o.Size,
		Quantity: o.Quantity,
		Reason:   reason,
	}
}
