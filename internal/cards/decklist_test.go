package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseDecklist(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	text := `# ramp
4 Forest

2 Black Lotus
3 Forest
1 Explore
`
	deck, err := ParseDecklist(text, zap.New(core))
	require.NoError(t, err)

	require.Len(t, deck, 2)
	assert.Equal(t, "Forest", deck[0].Name)
	assert.Equal(t, 7, deck[0].Quantity)
	assert.Equal(t, "Explore", deck[1].Name)
	assert.Equal(t, 8, deck.Size())
	assert.Equal(t, "7 Forest\n1 Explore\n", deck.String())

	warnings := logs.FilterMessage("card not found, skipping")
	require.Equal(t, 1, warnings.Len())
	assert.Equal(t, "Black Lotus", warnings.All()[0].ContextMap()["card"])
}

func TestParseDecklist_Malformed(t *testing.T) {
	for _, text := range []string{
		"Forest",
		"x Forest",
		"0 Forest",
		"-2 Forest",
	} {
		_, err := ParseDecklist(text, nil)
		assert.Error(t, err, text)
	}
}

func TestDecklist_DefinitionsShareCopies(t *testing.T) {
	deck, err := ParseDecklist("3 Forest\n2 Lotus Petal", nil)
	require.NoError(t, err)

	defs := deck.Definitions()
	require.Len(t, defs, 5)
	assert.Same(t, defs[0], defs[2])
	assert.Equal(t, "Lotus Petal", defs[4].Name)
}
