package cryptoutil

import "testing"

func TestSHA256Hex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, tt := range tests {
		if got := SHA256Hex([]byte(tt.in)); got != tt.want {
			t.Errorf("SHA256Hex(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestHashEqual(t *testing.T) {
	h := SHA256Hex([]byte("article"))
	if !HashEqual(h, h) {
		t.Fatal("identical hashes should be equal")
	}
	if HashEqual(h, SHA256Hex([]byte("other"))) {
		t.Fatal("different hashes should not be equal")
	}
	if HashEqual(h, h[:12]) {
		t.Fatal("prefix should not be equal")
	}
	if !HashEqual("", "") {
		t.Fatal("empty strings are equal")
	}
}
