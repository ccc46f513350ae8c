package authdb

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashTokenHashesOrdinaryKeys(t *testing.T) {
	sum := sha256.Sum256([]byte("my-secret-key"))
	want := hex.EncodeToString(sum[:])
	assert.Equal(t, want, HashToken("my-secret-key"))
}

func TestHashTokenPassesThroughMlpiPrefixedKeys(t *testing.T) {
	assert.Equal(t, "mlpi_already_hashed", HashToken("mlpi_already_hashed"))
}
