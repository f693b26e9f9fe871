package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "ahmed khan", "ahmed khan", true},
		{"substring", "ahmed", "ahmed khan", true},
		{"swapped order", "sana malik", "malik sana", true},
		{"prefix first token", "christopher smith", "chris smith", true},
		{"short first token is not a prefix", "jonathan smith", "jon smith", false},
		{"different last name", "ahmed khan", "ahmed raza", false},
		{"middle name tolerated", "ahmed khan", "ahmed bilal khan", true},
		{"last token found among others", "ahmed khan", "ahmed khan raza", true},
		{"middle tokens do not rescue", "ahmed khan", "ahmed bilal raza", false},
		{"fully reversed with prefix", "sana malik", "malik sanaa", true},
		{"contained in longer name", "maria lopez", "carmen maria lopez", true},
		{"reordered long name", "maria del carmen lopez", "carmen maria lopez", true},
		{"single token prefix", "sanaa", "sana malik", true},
		{"short single token caught by substring", "sa", "sana malik", true},
		{"single token no relation", "zoe", "ahmed khan", false},
		{"two single tokens differ", "bob", "rob", false},
		{"empty never matches", "", "ahmed", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.a, tt.b))
		})
	}
}

func TestMatchIsSymmetric(t *testing.T) {
	samples := []string{
		"", "ahmed", "ahmed khan", "khan ahmed", "ahmed bilal khan", "ahmed raza",
		"sana malik", "malik sanaa", "sanaa", "christopher smith", "chris smith",
		"maria del carmen lopez", "carmen maria lopez", "maria lopez", "zoe",
		"muhammad ali", "ali", "m ali", "khalid rahman", "bob", "rob",
	}
	for _, a := range samples {
		for _, b := range samples {
			assert.Equal(t, Match(a, b), Match(b, a), "Match(%q, %q) is not symmetric", a, b)
		}
	}
}

func TestNamesMatchNormalizesInputs(t *testing.T) {
	n := NewDefault()

	assert.True(t, n.NamesMatch("Ahmed Khan", "Ahmed Khan's iPhone"))
	assert.True(t, n.NamesMatch("Sana Malik", "Malik Sana"))
	assert.True(t, n.NamesMatch("Mike Jones", "Michael Jones (Laptop)"))
	assert.False(t, n.NamesMatch("Ahmed Khan", "iPhone"))
	assert.False(t, n.NamesMatch("15145551111", "Ahmed Khan"))
}
