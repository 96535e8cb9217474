package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"   ":                  "",
		"anson thomas":         "ANSON THOMAS",
		"  Soujanya\tM   Bhat ": "SOUJANYA M BHAT",
		"r01":                  "R01",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"a  b", " Maria Boby ", "X"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"Anson Thomas", "anson thomas", "JAIBY JOSEPH"}, SplitNames("Anson Thomas, anson thomas,JAIBY JOSEPH ,"))
	assert.Nil(t, SplitNames("  "))
}

func TestTokens(t *testing.T) {
	assert.Len(t, Tokens("soujanya m bhat"), 3)
	assert.Len(t, Tokens("bhat BHAT"), 1)
	assert.Empty(t, Tokens(""))
}
