package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	s := Statement{PrimaryKind: KindSelect, Body: "SELECT * FROM t"}

	first, err := Fingerprint(s)
	require.NoError(t, err)
	second, err := Fingerprint(s)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	base, err := Fingerprint(Statement{PrimaryKind: KindSelect, Body: "SELECT * FROM t"})
	require.NoError(t, err)

	otherBody, err := Fingerprint(Statement{PrimaryKind: KindSelect, Body: "SELECT * FROM u"})
	require.NoError(t, err)
	otherKind, err := Fingerprint(Statement{PrimaryKind: KindWhere, Body: "SELECT * FROM t"})
	require.NoError(t, err)

	assert.NotEqual(t, base, otherBody)
	assert.NotEqual(t, base, otherKind)
}

func TestFingerprintNormalizesUnicode(t *testing.T) {
	a, err := Fingerprint(Statement{PrimaryKind: KindSelect, Body: "WHERE name = 'cafe\u0301'"})
	require.NoError(t, err)
	b, err := Fingerprint(Statement{PrimaryKind: KindSelect, Body: "WHERE name = 'caf\u00e9'"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + "c" and "a" + "bc" must not collide.
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))

	sum := sha256.Sum256([]byte("d\x00x"))
	assert.Equal(t, hex.EncodeToString(sum[:]), hashWithDomain("d", []byte("x")))
}

func TestDomainConstants(t *testing.T) {
	assert.Equal(t, "sqlchain/statement/v1", DomainStatement)
}
