package memdriver

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/fulldump/biff"

	"github.com/fulldump/vismadk/adk"
	"github.com/fulldump/vismadk/schema"
)

// Supplier field codes used across the tests.
const (
	supplierNumber      = 0
	supplierName        = 1
	supplierPaymentDays = 8
	supplierBalance     = 9
	supplierBlocked     = 10
	supplierCreated     = 11
)

func addSupplier(d *Driver, number, name string) adk.Data {
	data, _ := d.CreateData(schema.TableSupplier)
	d.SetString(data, supplierNumber, number)
	d.SetString(data, supplierName, name)
	d.Add(data)
	return data
}

func TestAddAndFirst(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	addSupplier(d, "100", "Acme Supplies")

	data, err := d.CreateData(schema.TableSupplier)
	AssertNil(err)
	AssertNil(d.First(data))

	name, err := d.GetString(data, supplierName)
	AssertNil(err)
	AssertEqual(name, "Acme Supplies")
}

func TestFirst_Empty(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	data, _ := d.CreateData(schema.TableSupplier)
	err := d.First(data)
	AssertEqual(adk.IsNotFound(err), true)
}

func TestWildcardFilter(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	addSupplier(d, "1", "Alfonso SL")
	addSupplier(d, "2", "Gerardo Ltd")
	addSupplier(d, "3", "Alfonso e Hijos")

	data, _ := d.CreateData(schema.TableSupplier)
	AssertNil(d.SetFilter(data, supplierName, "alfonso*"))

	numbers := []string{}
	err := d.First(data)
	for err == nil {
		number, _ := d.GetString(data, supplierNumber)
		numbers = append(numbers, number)
		err = d.Next(data)
	}

	AssertEqual(adk.IsNotFound(err), true)
	AssertEqual(numbers, []string{"1", "3"})
}

func TestNext_WalksInKeyOrder(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	addSupplier(d, "3", "Third")
	addSupplier(d, "1", "First")
	addSupplier(d, "2", "Second")

	data, _ := d.CreateData(schema.TableSupplier)

	numbers := []string{}
	err := d.First(data)
	for err == nil {
		number, _ := d.GetString(data, supplierNumber)
		numbers = append(numbers, number)
		err = d.Next(data)
	}

	AssertEqual(numbers, []string{"1", "2", "3"})
}

func TestTypeMismatch(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	data, _ := d.CreateData(schema.TableSupplier)

	_, err := d.GetInt(data, supplierName)
	e := &adk.Error{}
	AssertEqual(errors.As(err, &e), true)
	AssertEqual(e.Code, adk.CodeTypeMismatch)
}

func TestCreateData_UnknownTable(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	_, err := d.CreateData(99)
	e := &adk.Error{}
	AssertEqual(errors.As(err, &e), true)
	AssertEqual(e.Code, adk.CodeUnknownTable)

	// row tables are reached through their header
	_, err = d.CreateData(schema.TableSupplierInvoiceRow)
	AssertEqual(errors.As(err, &e), true)
	AssertEqual(e.Code, adk.CodeUnknownTable)
}

func TestUpdate_ReindexesPrimaryKey(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	addSupplier(d, "1", "First")
	addSupplier(d, "2", "Second")

	data, _ := d.CreateData(schema.TableSupplier)
	AssertNil(d.First(data))
	AssertNil(d.SetString(data, supplierNumber, "9"))
	AssertNil(d.Update(data))

	scan, _ := d.CreateData(schema.TableSupplier)
	numbers := []string{}
	err := d.First(scan)
	for err == nil {
		number, _ := d.GetString(scan, supplierNumber)
		numbers = append(numbers, number)
		err = d.Next(scan)
	}

	AssertEqual(numbers, []string{"2", "9"})
}

func TestDeleteRecord(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	addSupplier(d, "1", "First")

	data, _ := d.CreateData(schema.TableSupplier)
	AssertNil(d.First(data))
	AssertNil(d.DeleteRecord(data))

	scan, _ := d.CreateData(schema.TableSupplier)
	AssertEqual(adk.IsNotFound(d.First(scan)), true)
}

func TestDeleteRecord_ThenNextResumes(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	addSupplier(d, "1", "First")
	addSupplier(d, "2", "Second")
	addSupplier(d, "3", "Third")

	data, _ := d.CreateData(schema.TableSupplier)
	AssertNil(d.First(data))
	AssertNil(d.DeleteRecord(data))

	// the deleted record is a tombstone pivot, Next moves on from it
	AssertNil(d.Next(data))
	number, _ := d.GetString(data, supplierNumber)
	AssertEqual(number, "2")

	AssertNil(d.DeleteRecord(data))
	AssertNil(d.Next(data))
	number, _ = d.GetString(data, supplierNumber)
	AssertEqual(number, "3")
}

func TestDeleteRecord_Twice(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	addSupplier(d, "1", "First")

	data, _ := d.CreateData(schema.TableSupplier)
	AssertNil(d.First(data))
	AssertNil(d.DeleteRecord(data))

	err := d.DeleteRecord(data)
	e := &adk.Error{}
	AssertEqual(errors.As(err, &e), true)
	AssertEqual(e.Code, adk.CodeNotFound)
}

func TestJournalReload(t *testing.T) {
	Environment(func(dir string) {

		created := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)

		d := New(nil)
		AssertNil(d.Open("", dir, "", ""))

		data, _ := d.CreateData(schema.TableSupplier)
		d.SetString(data, supplierNumber, "100")
		d.SetString(data, supplierName, "Acme Supplies")
		d.SetInt(data, supplierPaymentDays, 30)
		d.SetFloat(data, supplierBalance, 1250.5)
		d.SetBool(data, supplierBlocked, true)
		d.SetDate(data, supplierCreated, created)
		AssertNil(d.Add(data))

		AssertNil(d.Close())
		AssertNil(d.Shutdown())

		// a fresh driver replays the journal from disk
		d = New(nil)
		AssertNil(d.Open("", dir, "", ""))

		data, _ = d.CreateData(schema.TableSupplier)
		AssertNil(d.First(data))

		name, _ := d.GetString(data, supplierName)
		AssertEqual(name, "Acme Supplies")

		paymentDays, _ := d.GetInt(data, supplierPaymentDays)
		AssertEqual(paymentDays, int64(30))

		balance, _ := d.GetFloat(data, supplierBalance)
		AssertEqual(balance, 1250.5)

		blocked, _ := d.GetBool(data, supplierBlocked)
		AssertEqual(blocked, true)

		date, _ := d.GetDate(data, supplierCreated)
		AssertEqual(date.Equal(created), true)

		AssertNil(d.Shutdown())
	})
}

func TestJournalReload_Rows(t *testing.T) {
	Environment(func(dir string) {

		d := New(nil)
		AssertNil(d.Open("", dir, "", ""))

		head, _ := d.CreateData(schema.TableSupplierInvoiceHead)
		d.SetString(head, 0, "F-1")
		AssertNil(d.AddRows(head, 2))

		row, _ := d.DataRow(head, 0)
		d.SetString(row, 1, "consulting")
		row, _ = d.DataRow(head, 1)
		d.SetString(row, 1, "travel")

		AssertNil(d.Add(head))

		AssertNil(d.Close())
		AssertNil(d.Shutdown())

		d = New(nil)
		AssertNil(d.Open("", dir, "", ""))

		head, _ = d.CreateData(schema.TableSupplierInvoiceHead)
		AssertNil(d.First(head))

		n, _ := d.NRows(head)
		AssertEqual(n, 2)

		row, _ = d.DataRow(head, 1)
		text, _ := d.GetString(row, 1)
		AssertEqual(text, "travel")

		AssertNil(d.Shutdown())
	})
}

func TestRows_DeleteRenumbers(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	head, _ := d.CreateData(schema.TableSupplierInvoiceHead)
	d.SetString(head, 0, "F-1")
	AssertNil(d.Add(head))

	AssertNil(d.AddRows(head, 3))
	for i, text := range []string{"first", "second", "third"} {
		row, _ := d.DataRow(head, i)
		d.SetString(row, 1, text)
	}

	first, _ := d.DataRow(head, 0)
	AssertNil(d.DeleteRecord(first))

	n, _ := d.NRows(head)
	AssertEqual(n, 2)

	row, _ := d.DataRow(head, 0)
	text, _ := d.GetString(row, 1)
	AssertEqual(text, "second")
}

func TestReleasedHandle(t *testing.T) {

	d := New(nil)
	AssertNil(d.Open("", "", "", ""))

	data, _ := d.CreateData(schema.TableSupplier)
	AssertNil(d.DeleteStruct(data))

	err := d.First(data)
	e := &adk.Error{}
	AssertEqual(errors.As(err, &e), true)
	AssertEqual(e.Code, adk.CodeNoPosition)
}

func TestOpen_SingleCompany(t *testing.T) {
	Environment(func(dir string) {

		d := New(nil)
		AssertNil(d.Open("", filepath.Join(dir, "acme"), "", ""))

		err := d.Open("", filepath.Join(dir, "beta"), "", "")
		e := &adk.Error{}
		AssertEqual(errors.As(err, &e), true)
		AssertEqual(e.Code, adk.CodeOpenFailed)

		AssertNil(d.Close())
		AssertNil(d.Open("", filepath.Join(dir, "beta"), "", ""))

		AssertNil(d.Shutdown())
	})
}
