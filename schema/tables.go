package schema

import (
	"github.com/fulldump/vismadk/adk"
)

// Vendor table codes (ADK_DB_*).
const (
	TableSupplier            = 1
	TableCustomer            = 2
	TableArticle             = 3
	TableAccount             = 4
	TableProject             = 5
	TableSupplierInvoiceHead = 6
	TableSupplierInvoiceRow  = 7
)

// Default returns the builtin registry: the subset of the vendor schema this
// module ships with. Field codes are the vendor ones from Adk.h, per table.
func Default() *Registry {

	supplierInvoiceRow := NewTable("supplier_invoice_row", TableSupplierInvoiceRow,
		Field{Name: "account_number", Code: 0, Type: adk.TypeString},
		Field{Name: "text", Code: 1, Type: adk.TypeString},
		Field{Name: "quantity", Code: 2, Type: adk.TypeFloat},
		Field{Name: "amount", Code: 3, Type: adk.TypeFloat},
		Field{Name: "project_number", Code: 4, Type: adk.TypeString},
	)

	supplierInvoiceHead := NewTable("supplier_invoice_head", TableSupplierInvoiceHead,
		Field{Name: "invoice_number", Code: 0, Type: adk.TypeString},
		Field{Name: "supplier_number", Code: 1, Type: adk.TypeString},
		Field{Name: "invoice_date", Code: 2, Type: adk.TypeDate},
		Field{Name: "due_date", Code: 3, Type: adk.TypeDate},
		Field{Name: "total", Code: 4, Type: adk.TypeFloat},
		Field{Name: "currency", Code: 5, Type: adk.TypeString},
		Field{Name: "paid", Code: 6, Type: adk.TypeBool},
	)
	supplierInvoiceHead.RowTable = supplierInvoiceRow

	return NewRegistry(
		NewTable("supplier", TableSupplier,
			Field{Name: "number", Code: 0, Type: adk.TypeString},
			Field{Name: "name", Code: 1, Type: adk.TypeString},
			Field{Name: "short_name", Code: 2, Type: adk.TypeString},
			Field{Name: "org_number", Code: 3, Type: adk.TypeString},
			Field{Name: "phone", Code: 4, Type: adk.TypeString},
			Field{Name: "email", Code: 5, Type: adk.TypeString},
			Field{Name: "bank_account", Code: 6, Type: adk.TypeString},
			Field{Name: "currency", Code: 7, Type: adk.TypeString},
			Field{Name: "payment_days", Code: 8, Type: adk.TypeInt},
			Field{Name: "balance", Code: 9, Type: adk.TypeFloat},
			Field{Name: "blocked", Code: 10, Type: adk.TypeBool},
			Field{Name: "created", Code: 11, Type: adk.TypeDate},
		),
		NewTable("customer", TableCustomer,
			Field{Name: "number", Code: 0, Type: adk.TypeString},
			Field{Name: "name", Code: 1, Type: adk.TypeString},
			Field{Name: "short_name", Code: 2, Type: adk.TypeString},
			Field{Name: "org_number", Code: 3, Type: adk.TypeString},
			Field{Name: "phone", Code: 4, Type: adk.TypeString},
			Field{Name: "email", Code: 5, Type: adk.TypeString},
			Field{Name: "delivery_address", Code: 6, Type: adk.TypeString},
			Field{Name: "currency", Code: 7, Type: adk.TypeString},
			Field{Name: "payment_days", Code: 8, Type: adk.TypeInt},
			Field{Name: "credit_limit", Code: 9, Type: adk.TypeFloat},
			Field{Name: "blocked", Code: 10, Type: adk.TypeBool},
		),
		NewTable("article", TableArticle,
			Field{Name: "number", Code: 0, Type: adk.TypeString},
			Field{Name: "name", Code: 1, Type: adk.TypeString},
			Field{Name: "unit", Code: 2, Type: adk.TypeString},
			Field{Name: "price", Code: 3, Type: adk.TypeFloat},
			Field{Name: "purchase_price", Code: 4, Type: adk.TypeFloat},
			Field{Name: "stock_balance", Code: 5, Type: adk.TypeFloat},
			Field{Name: "active", Code: 6, Type: adk.TypeBool},
		),
		NewTable("account", TableAccount,
			Field{Name: "number", Code: 0, Type: adk.TypeString},
			Field{Name: "name", Code: 1, Type: adk.TypeString},
			Field{Name: "balance", Code: 2, Type: adk.TypeFloat},
			Field{Name: "active", Code: 3, Type: adk.TypeBool},
		),
		NewTable("project", TableProject,
			Field{Name: "number", Code: 0, Type: adk.TypeString},
			Field{Name: "name", Code: 1, Type: adk.TypeString},
			Field{Name: "leader", Code: 2, Type: adk.TypeString},
			Field{Name: "start_date", Code: 3, Type: adk.TypeDate},
			Field{Name: "end_date", Code: 4, Type: adk.TypeDate},
			Field{Name: "finished", Code: 5, Type: adk.TypeBool},
		),
		supplierInvoiceHead,
	)
}
