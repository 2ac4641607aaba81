package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("Hash() returned the plaintext")
	}

	if !Verify("correct horse battery", hash) {
		t.Error("Verify() rejected the right password")
	}
	if Verify("wrong password", hash) {
		t.Error("Verify() accepted a wrong password")
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"empty", "", false},
		{"too short", "1234567", false},
		{"minimum length", "12345678", true},
		{"longer", "a much longer passphrase", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.password); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("some.refresh.token")
	b := HashToken("some.refresh.token")
	c := HashToken("another.token")

	if a != b {
		t.Error("HashToken() is not deterministic")
	}
	if a == c {
		t.Error("HashToken() collided on different tokens")
	}
	if len(a) != 64 {
		t.Errorf("HashToken() length = %d, want 64 hex chars", len(a))
	}
}
