package cleaner

import (
	"slices"
	"testing"
)

func TestSplitSelectors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{".foo", []string{".foo"}},
		{".foo, .bar", []string{".foo", " .bar"}},
		{".foo,\n.bar,\r\n.baz", []string{".foo", ".bar", ".baz"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		if got := SplitSelectors(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("SplitSelectors(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFragments(t *testing.T) {
	tests := []struct {
		selector string
		want     []string
	}{
		{".foo", []string{"foo"}},
		{".foo .bar", []string{"foo", "bar"}},
		{"#main > p", []string{"main", "p"}},
		{"ul li + li ~ span", []string{"ul", "li", "li", "span"}},
		{".foo[data-x=1]", []string{"foo"}},
		{`input[type="text"]`, []string{"input", "text"}},
		{"a[target]", []string{"a", "target"}},
		{"a:hover", []string{"a"}},
		{"a::before", []string{"a"}},
		{".foo::after .bar", []string{"foo", "bar"}},
		{"a:hover.active", []string{"a", "active"}},
		{"li:not(.x)", []string{"li"}},
		{"*", nil},
		{"*.foo", []string{"foo"}},
		{"50%", nil},
		{" tr  td ", []string{"tr", "td"}},
		{"h1.2col", []string{"h1"}},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			if got := Fragments(tt.selector); !slices.Equal(got, tt.want) {
				t.Errorf("Fragments(%q) = %q, want %q", tt.selector, got, tt.want)
			}
		})
	}
}

func TestFragmentExpr(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		corpus   string
		want     bool
	}{
		{"class attribute", "foo", `<div class="foo">`, true},
		{"several classes", "bar", `<div class="foo bar baz">`, true},
		{"single quotes", "main", `<div id='main'>`, true},
		{"tag", "tr", "<table><tr><td>", true},
		{"selector in script", "bar", `document.querySelector(".bar")`, true},
		{"id in script", "app", `$("#app")`, true},
		{"slim", "foo", "div.foo\n  p", true},
		{"attribute selector in script", "disabled", `el.querySelector("[disabled]")`, true},
		{"prefix of longer name", "foo", `<div class="foobar">`, true},
		{"suffix of longer name", "bar", `<div class="foobar">`, false},
		{"dashed name", "foo", `<div class="md-foo">`, false},
		{"case sensitive", "Foo", `<div class="foo">`, false},
		{"no trailing delimiter", "foo", "x.foo", false},
		{"no leading delimiter", "foo", "foo bar", false},
		{"special characters", "a.b", `<i class="a.b">`, true},
		{"special characters literal", "a+b", `<i class="axb">`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fragmentExpr(tt.fragment).MatchString(tt.corpus); got != tt.want {
				t.Errorf("fragment %q in %q = %v, want %v", tt.fragment, tt.corpus, got, tt.want)
			}
		})
	}
}
