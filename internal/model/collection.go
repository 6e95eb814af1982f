package model

// FieldKind drives payload validation for dynamic record mutations.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldDecimal
	FieldDate
	FieldUUID
)

// Collection describes one mutation-guarded record collection. Name doubles
// as the table name; Fields is the closed set of mutable domain fields.
type Collection struct {
	Name     string
	Fields   map[string]FieldKind
	Required []string
}

var buyingFields = map[string]FieldKind{
	"date":        FieldDate,
	"object_type": FieldString,
	"identifier":  FieldString,
	"supplier":    FieldString,
	"price":       FieldDecimal,
	"description": FieldString,
}

var sellingFields = map[string]FieldKind{
	"assist":        FieldString,
	"scope":         FieldString,
	"object_type":   FieldString,
	"identifier":    FieldString,
	"buying_price":  FieldDecimal,
	"selling_price": FieldDecimal,
	"profit":        FieldDecimal,
	"customer_name": FieldString,
	"address":       FieldString,
	"email":         FieldString,
	"date":          FieldDate,
	"buying_source": FieldString,
}

var revenueFields = map[string]FieldKind{
	"country":        FieldString,
	"assist":         FieldString,
	"amount":         FieldDecimal,
	"rate":           FieldDecimal,
	"date":           FieldDate,
	"invoice_number": FieldString,
}

var expenseFields = map[string]FieldKind{
	"assist":      FieldString,
	"amount":      FieldDecimal,
	"date":        FieldDate,
	"bill_number": FieldString,
}

func withCustomerID(fields map[string]FieldKind) map[string]FieldKind {
	scoped := make(map[string]FieldKind, len(fields)+1)
	for k, v := range fields {
		scoped[k] = v
	}
	scoped["customer_id"] = FieldUUID
	return scoped
}

var collections = map[string]Collection{
	"buying": {
		Name:     "buying",
		Fields:   buyingFields,
		Required: []string{"date", "object_type", "identifier", "price"},
	},
	"selling": {
		Name:     "selling",
		Fields:   sellingFields,
		Required: []string{"date", "object_type", "identifier", "buying_price", "selling_price"},
	},
	"revenue": {
		Name:     "revenue",
		Fields:   revenueFields,
		Required: []string{"date", "country", "amount"},
	},
	"expenses": {
		Name:     "expenses",
		Fields:   expenseFields,
		Required: []string{"date", "amount"},
	},
	"customers": {
		Name: "customers",
		Fields: map[string]FieldKind{
			"name":         FieldString,
			"created_by":   FieldString,
			"creator_name": FieldString,
		},
		Required: []string{"name"},
	},
	"customer_buying": {
		Name:     "customer_buying",
		Fields:   withCustomerID(buyingFields),
		Required: []string{"date", "object_type", "identifier", "price", "customer_id"},
	},
	"customer_selling": {
		Name:     "customer_selling",
		Fields:   withCustomerID(sellingFields),
		Required: []string{"date", "object_type", "identifier", "buying_price", "selling_price", "customer_id"},
	},
	"customer_expenses": {
		Name:     "customer_expenses",
		Fields:   withCustomerID(expenseFields),
		Required: []string{"date", "amount", "customer_id"},
	},
}

// LookupCollection resolves a collection by name.
func LookupCollection(name string) (Collection, bool) {
	c, ok := collections[name]
	return c, ok
}

// CollectionNames lists the registered protected collections.
func CollectionNames() []string {
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	return names
}
