package memdriver

import (
	"testing"

	. "github.com/fulldump/biff"
)

func TestMatch(t *testing.T) {

	AssertEqual(Match("Acme", "Acme"), true)
	AssertEqual(Match("acme", "ACME"), true)
	AssertEqual(Match("Acme", "Acme Inc"), false)

	AssertEqual(Match("Acme*", "Acme Inc"), true)
	AssertEqual(Match("*Inc", "Acme Inc"), true)
	AssertEqual(Match("*me*", "Acme Inc"), true)
	AssertEqual(Match("A*c", "Acme Inc"), true)
	AssertEqual(Match("*", ""), true)
	AssertEqual(Match("*", "anything"), true)

	AssertEqual(Match("?cme", "Acme"), true)
	AssertEqual(Match("?cme", "cme"), false)
	AssertEqual(Match("A?me", "Acme"), true)

	AssertEqual(Match("", ""), true)
	AssertEqual(Match("", "x"), false)
}
