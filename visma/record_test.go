package visma

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/fulldump/biff"

	"github.com/fulldump/vismadk/adk"
	"github.com/fulldump/vismadk/memdriver"
)

func openTestSession(driver adk.Driver) *Session {
	registry := NewRegistry(driver, nil)
	registry.AddCompany(&Config{Name: "acme"})
	session, err := registry.Open(context.Background(), "acme")
	if err != nil {
		panic(err)
	}
	return session
}

func createSupplier(suppliers *Entity, number, name string) {
	record, err := suppliers.New()
	if err != nil {
		panic(err)
	}
	record.Set("number", number)
	record.Set("name", name)
	err = record.Create()
	if err != nil {
		panic(err)
	}
}

func TestRecord_CreateAndGet(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")

	created := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)

	record, err := suppliers.New()
	AssertNil(err)
	AssertEqual(record.Persisted(), false)

	AssertNil(record.Set("number", "100"))
	AssertNil(record.Set("name", "Acme Supplies"))
	AssertNil(record.Set("payment_days", 45))
	AssertNil(record.Set("balance", 99.5))
	AssertNil(record.Set("blocked", true))
	AssertNil(record.Set("created", created))

	// staged values are readable before anything is persisted
	name, err := record.GetString("name")
	AssertNil(err)
	AssertEqual(name, "Acme Supplies")

	AssertNil(record.Create())
	AssertEqual(record.Persisted(), true)

	stored, err := suppliers.Get(Filter{"number": "100"})
	AssertNil(err)
	defer stored.Free()

	name, _ = stored.GetString("name")
	AssertEqual(name, "Acme Supplies")

	paymentDays, _ := stored.GetInt("payment_days")
	AssertEqual(paymentDays, int64(45))

	balance, _ := stored.GetFloat("balance")
	AssertEqual(balance, 99.5)

	blocked, _ := stored.GetBool("blocked")
	AssertEqual(blocked, true)

	date, _ := stored.GetDate("created")
	AssertEqual(date.Equal(created), true)
}

func TestRecord_SaveRequiresPersisted(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")

	record, _ := suppliers.New()
	defer record.Free()
	record.Set("number", "100")

	err := record.Save()
	AssertEqual(errors.Is(err, ErrorNotPersisted), true)
}

func TestRecord_CreateTwice(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")

	record, _ := suppliers.New()
	defer record.Free()
	record.Set("number", "100")
	AssertNil(record.Create())

	err := record.Create()
	AssertEqual(errors.Is(err, ErrorAlreadyPersisted), true)
}

func TestRecord_SaveUpdates(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")
	createSupplier(suppliers, "100", "Acme Supplies")

	record, err := suppliers.Get(Filter{"number": "100"})
	AssertNil(err)
	AssertNil(record.Set("name", "Acme Industries"))
	AssertNil(record.Save())
	record.Free()

	stored, err := suppliers.Get(Filter{"number": "100"})
	AssertNil(err)
	defer stored.Free()

	name, _ := stored.GetString("name")
	AssertEqual(name, "Acme Industries")
}

func TestRecord_SetErrors(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")

	record, _ := suppliers.New()
	defer record.Free()

	err := record.Set("payment_days", "soon")
	AssertEqual(errors.Is(err, ErrorFieldType), true)

	err = record.Set("color", "red")
	AssertEqual(errors.Is(err, ErrorFieldNotFound), true)
}

func TestRecord_GetTypedMismatch(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")
	createSupplier(suppliers, "100", "Acme Supplies")

	record, _ := suppliers.Get(Filter{"number": "100"})
	defer record.Free()

	_, err := record.GetInt("name")
	AssertEqual(errors.Is(err, ErrorFieldType), true)
}

func TestRecord_Delete(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")
	createSupplier(suppliers, "100", "Acme Supplies")

	record, err := suppliers.Get(Filter{"number": "100"})
	AssertNil(err)
	AssertNil(record.Delete())
	AssertEqual(record.Persisted(), false)
	record.Free()

	_, err = suppliers.Get(Filter{"number": "100"})
	AssertEqual(errors.Is(err, ErrorRecordNotFound), true)
}

func TestEntity_GetNotFound(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")

	_, err := suppliers.Get(Filter{"number": "999"})
	AssertEqual(errors.Is(err, ErrorRecordNotFound), true)
}

func TestEntity_GetUnknownFilterField(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")

	_, err := suppliers.Get(Filter{"color": "red"})
	AssertEqual(errors.Is(err, ErrorFieldNotFound), true)
}

func TestRecord_Rows(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	invoices, _ := session.Table("supplier_invoice_head")

	head, err := invoices.New()
	AssertNil(err)
	head.Set("invoice_number", "F-1")

	rows, err := head.CreateRows(2)
	AssertNil(err)
	AssertEqual(len(rows), 2)

	AssertNil(rows[0].Set("text", "consulting"))
	AssertNil(rows[0].Save())
	AssertNil(rows[1].Set("text", "travel"))
	AssertNil(rows[1].Save())

	AssertNil(head.Create())

	stored, err := invoices.Get(Filter{"invoice_number": "F-1"})
	AssertNil(err)

	rows, err = stored.Rows()
	AssertNil(err)
	AssertEqual(len(rows), 2)

	text, _ := rows[0].GetString("text")
	AssertEqual(text, "consulting")

	// deleting a row renumbers the remaining siblings
	AssertNil(rows[0].Delete())

	rows, err = stored.Rows()
	AssertNil(err)
	AssertEqual(len(rows), 1)

	text, _ = rows[0].GetString("text")
	AssertEqual(text, "travel")
}

func TestRecord_RowsOnPlainTable(t *testing.T) {

	session := openTestSession(memdriver.New(nil))
	defer session.Close()

	suppliers, _ := session.Table("supplier")
	createSupplier(suppliers, "100", "Acme Supplies")

	record, _ := suppliers.Get(Filter{"number": "100"})
	defer record.Free()

	_, err := record.Rows()
	AssertEqual(errors.Is(err, ErrorNoRows), true)
}
