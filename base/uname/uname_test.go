package uname_test

import (
	"testing"

	"github.com/cinn-go/cinn/base/uname"
)

func TestName(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{name: "a", want: "a"},
		{name: "a", want: "a1"},
		{name: "a", want: "a2"},
		{name: "b", want: "b"},
		{name: "b", want: "b1"},
		{name: "b", want: "b2"},
		{name: "c", want: "c"},
	}
	unames := uname.New()
	for i, test := range tests {
		got := unames.Name(test.name)
		if got != test.want {
			t.Errorf("test %d: for name %s, got %s but want %s", i, test.name, got, test.want)
		}
	}
}

func TestReset(t *testing.T) {
	unames := uname.New()
	first := []string{unames.Name("i"), unames.Name("i"), unames.Name("stage")}
	unames.Reset()
	second := []string{unames.Name("i"), unames.Name("i"), unames.Name("stage")}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("index %d: got %s after reset, want %s (the pre-reset sequence)", i, second[i], first[i])
		}
	}
}
