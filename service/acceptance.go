package service

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

// Acceptance exercises the whole HTTP surface against a gateway with two
// empty companies registered, "acme" and "beta".
func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("List companies", func(a *biff.A) {
		resp := apiRequest("GET", "/companies").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []string{"acme", "beta"})
	})

	a.Alternative("List tables", func(a *biff.A) {
		resp := apiRequest("GET", "/tables").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []string{
			"account",
			"article",
			"customer",
			"project",
			"supplier",
			"supplier_invoice_head",
		})
	})

	a.Alternative("Insert one supplier", func(a *biff.A) {
		resp := apiRequest("POST", "/companies/acme/tables/supplier:insert").
			WithBodyJson(JSON{
				"number":       "100",
				"name":         "Acme Supplies",
				"payment_days": 30,
				"balance":      1250.5,
			}).Do()

		expectedDocument := supplierDocument(JSON{
			"number":       "100",
			"name":         "Acme Supplies",
			"payment_days": 30,
			"balance":      1250.5,
		})

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), expectedDocument)

		a.Alternative("Get by number", func(a *biff.A) {
			resp := apiRequest("POST", "/companies/acme/tables/supplier:get").
				WithBodyJson(JSON{
					"filter": JSON{"number": "100"},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), expectedDocument)
		})

		a.Alternative("Get missing record", func(a *biff.A) {
			resp := apiRequest("POST", "/companies/acme/tables/supplier:get").
				WithBodyJson(JSON{
					"filter": JSON{"number": "999"},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Other company is empty", func(a *biff.A) {
			resp := apiRequest("POST", "/companies/beta/tables/supplier:get").
				WithBodyJson(JSON{
					"filter": JSON{"number": "100"},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Update payment days", func(a *biff.A) {
			resp := apiRequest("POST", "/companies/acme/tables/supplier:update").
				WithBodyJson(JSON{
					"filter": JSON{"number": "100"},
					"values": JSON{"payment_days": 45},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"updated": 1})

			resp = apiRequest("POST", "/companies/acme/tables/supplier:get").
				WithBodyJson(JSON{
					"filter": JSON{"number": "100"},
				}).Do()

			document := resp.BodyJson().(JSON)
			biff.AssertEqualJson(document["payment_days"], 45)
		})

		a.Alternative("Remove", func(a *biff.A) {
			resp := apiRequest("POST", "/companies/acme/tables/supplier:remove").
				WithBodyJson(JSON{
					"filter": JSON{"number": "100"},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"removed": 1})

			resp = apiRequest("POST", "/companies/acme/tables/supplier:get").
				WithBodyJson(JSON{
					"filter": JSON{"number": "100"},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})
	})

	a.Alternative("Insert many suppliers", func(a *biff.A) {

		mySuppliers := []JSON{
			{"number": "1", "name": "Alfonso SL", "payment_days": 30},
			{"number": "2", "name": "Gerardo Ltd", "payment_days": 60},
			{"number": "3", "name": "Alfonso e Hijos", "payment_days": 30},
		}

		body := ""
		for _, mySupplier := range mySuppliers {
			line, _ := json.Marshal(mySupplier)
			body += string(line) + "\n"
		}
		resp := apiRequest("POST", "/companies/acme/tables/supplier:insert").
			WithBodyString(body).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)

		a.Alternative("Find with wildcard filter", func(a *biff.A) {
			resp := apiRequest("POST", "/companies/acme/tables/supplier:find").
				WithBodyJson(JSON{
					"filter": JSON{"name": "Alfonso*"},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			assertNumbers(resp.BodyString(), []string{"1", "3"})
		})

		a.Alternative("Find with match", func(a *biff.A) {
			resp := apiRequest("POST", "/companies/acme/tables/supplier:find").
				WithBodyJson(JSON{
					"match": JSON{"name": "Gerardo Ltd"},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			assertNumbers(resp.BodyString(), []string{"2"})
		})

		a.Alternative("Find with skip and limit", func(a *biff.A) {
			resp := apiRequest("POST", "/companies/acme/tables/supplier:find").
				WithBodyJson(JSON{
					"skip":  1,
					"limit": 1,
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			assertNumbers(resp.BodyString(), []string{"2"})
		})

		a.Alternative("Remove with wildcard", func(a *biff.A) {
			resp := apiRequest("POST", "/companies/acme/tables/supplier:remove").
				WithBodyJson(JSON{
					"filter": JSON{"name": "Alfonso*"},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"removed": 2})

			resp = apiRequest("POST", "/companies/acme/tables/supplier:find").
				WithBodyJson(JSON{}).Do()

			assertNumbers(resp.BodyString(), []string{"2"})
		})
	})

	a.Alternative("Insert with empty body", func(a *biff.A) {
		resp := apiRequest("POST", "/companies/acme/tables/supplier:insert").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
		biff.AssertEqual(resp.BodyString(), "")
	})

	a.Alternative("Table not found", func(a *biff.A) {
		resp := apiRequest("POST", "/companies/acme/tables/unicorns:find").
			WithBodyJson(JSON{}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("Company not found", func(a *biff.A) {
		resp := apiRequest("POST", "/companies/wrong/tables/supplier:get").
			WithBodyJson(JSON{
				"filter": JSON{"number": "100"},
			}).Do()

		errorMessage := resp.BodyJson().(JSON)["error"].(JSON)["message"].(string)
		biff.AssertEqual(strings.Contains(errorMessage, "company not found"), true)
		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("Filter on unknown field", func(a *biff.A) {
		resp := apiRequest("POST", "/companies/acme/tables/supplier:get").
			WithBodyJson(JSON{
				"filter": JSON{"color": "red"},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Insert with wrong value type", func(a *biff.A) {
		resp := apiRequest("POST", "/companies/acme/tables/supplier:insert").
			WithBodyJson(JSON{
				"number":       "100",
				"payment_days": "soon",
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})
}

// supplierDocument is a full supplier document with zero values, overridden
// by the given fields. Documents always carry every schema field.
func supplierDocument(overrides JSON) JSON {
	document := JSON{
		"number":       "",
		"name":         "",
		"short_name":   "",
		"org_number":   "",
		"phone":        "",
		"email":        "",
		"bank_account": "",
		"currency":     "",
		"payment_days": 0,
		"balance":      0,
		"blocked":      false,
		"created":      "0001-01-01T00:00:00Z",
	}
	for k, v := range overrides {
		document[k] = v
	}
	return document
}

// assertNumbers decodes a result stream and compares the 'number' field of
// each document, in order.
func assertNumbers(body string, expectedNumbers []string) {
	dec := json.NewDecoder(strings.NewReader(body))
	numbers := []string{}
	for dec.More() {
		document := JSON{}
		err := dec.Decode(&document)
		biff.AssertNil(err)
		numbers = append(numbers, document["number"].(string))
	}
	biff.AssertEqualJson(numbers, expectedNumbers)
}
