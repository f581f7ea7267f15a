// file: internals/helpers/name_test.go
package helper

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  مينا  ", "مينا"},
		{"Mina", "mina"},
		{"  MINA ", "mina"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameName(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"مينا", "  مينا ", true},
		{"Mina", "mina", true},
		{"مينا", "مريم", false},
		// interior whitespace is significant for names
		{"مينا جرجس", "ميناجرجس", false},
	}
	for _, tt := range tests {
		if got := SameName(tt.a, tt.b); got != tt.want {
			t.Errorf("SameName(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSquashHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"رقم  التلفون ", "رقمالتلفون"},
		{"رقم التلفون", "رقمالتلفون"},
		{" Name ", "name"},
		{"اسم الطفل", "اسمالطفل"},
	}
	for _, tt := range tests {
		if got := SquashHeader(tt.in); got != tt.want {
			t.Errorf("SquashHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
