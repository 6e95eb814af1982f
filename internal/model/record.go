package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordMeta carries the fields every protected record shares. Version backs
// the optimistic-concurrency check in the record store: updates carry the
// version they were based on and fail with a conflict when it moved on.
type RecordMeta struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Version   int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Buying represents a purchase entry (vehicles, machinery, parts).
type Buying struct {
	RecordMeta
	Date        string          `gorm:"type:varchar(10);not null;index" json:"date"`
	ObjectType  string          `gorm:"type:varchar(50);not null" json:"object_type"`
	Identifier  string          `gorm:"type:varchar(255);not null" json:"identifier"`
	Supplier    string          `gorm:"type:varchar(255)" json:"supplier"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
}

func (Buying) TableName() string { return "buying" }

// Selling represents a sale, optionally referencing the buying entry it
// originated from so profit can be derived.
type Selling struct {
	RecordMeta
	Assist       string          `gorm:"type:varchar(100)" json:"assist"`
	Scope        string          `gorm:"type:varchar(20);not null;default:'Domestic'" json:"scope"`
	ObjectType   string          `gorm:"type:varchar(50);not null" json:"object_type"`
	Identifier   string          `gorm:"type:varchar(255);not null" json:"identifier"`
	BuyingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"buying_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"selling_price"`
	Profit       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"profit"`
	CustomerName string          `gorm:"type:varchar(255)" json:"customer_name"`
	Address      string          `gorm:"type:text" json:"address"`
	Email        string          `gorm:"type:varchar(255)" json:"email"`
	Date         string          `gorm:"type:varchar(10);not null;index" json:"date"`
	BuyingSource string          `gorm:"type:varchar(255)" json:"buying_source"`
}

func (Selling) TableName() string { return "selling" }

// Revenue represents income received from abroad or locally.
type Revenue struct {
	RecordMeta
	Country       string          `gorm:"type:varchar(100);not null" json:"country"`
	Assist        string          `gorm:"type:varchar(100)" json:"assist"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,4)" json:"rate"`
	Date          string          `gorm:"type:varchar(10);not null;index" json:"date"`
	InvoiceNumber string          `gorm:"type:varchar(100)" json:"invoice_number"`
}

func (Revenue) TableName() string { return "revenue" }

// Expense represents an operational cost entry.
type Expense struct {
	RecordMeta
	Assist     string          `gorm:"type:varchar(100)" json:"assist"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Date       string          `gorm:"type:varchar(10);not null;index" json:"date"`
	BillNumber string          `gorm:"type:varchar(100)" json:"bill_number"`
}

func (Expense) TableName() string { return "expenses" }

// Customer is managed by customer managers. Deleting a customer does not
// cascade to its scoped transaction records.
type Customer struct {
	RecordMeta
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	CreatedBy   string `gorm:"type:varchar(255);not null;index" json:"created_by"`
	CreatorName string `gorm:"type:varchar(255)" json:"creator_name"`
}

func (Customer) TableName() string { return "customers" }

// Customer-scoped variants of the transaction ledgers.

type CustomerBuying struct {
	Buying
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
}

func (CustomerBuying) TableName() string { return "customer_buying" }

type CustomerSelling struct {
	Selling
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
}

func (CustomerSelling) TableName() string { return "customer_selling" }

type CustomerExpense struct {
	Expense
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
}

func (CustomerExpense) TableName() string { return "customer_expenses" }
