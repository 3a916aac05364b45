package hash

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		id   uint64
	}{
		{"empty", []byte(""), 0xef46db3751d8e999},
		{"short", []byte("test"), 0x4fdcca5ddb678139},
		{"long", []byte("this is a longer test string to hash"), 0x69275f7f7ee59dbd},
		{"another", []byte("another test string"), 0x212a22f593810bec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, Fingerprint(tt.data))
		})
	}
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	a := Fingerprint([]byte("descriptor-v1"))
	b := Fingerprint([]byte("descriptor-v2"))
	assert.NotEqual(t, a, b)
}

func randBytes(n int) []byte {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, n)
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range b {
		b[i] = letters[seededRand.Intn(len(letters))]
	}

	return b
}

func BenchmarkFingerprint(b *testing.B) {
	data := randBytes(20)
	b.ResetTimer()
	for b.Loop() {
		Fingerprint(data)
	}
}
