package ops

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"idlerpg/internal/config"
	"idlerpg/internal/progression"
	"idlerpg/internal/save"
)

func TestInspect(t *testing.T) {
	ctx := context.Background()
	st, err := save.NewFileStore(t.TempDir())
	require.NoError(t, err)

	s := progression.NewGameState(progression.NewBaseStats(config.Default()))
	s.Gold = 12345
	s.Rebirth.Value = 2
	s.Perks[progression.PerkRebirth] = 1
	s.Stats.TimePlayed = 3661
	require.NoError(t, st.Save(ctx, s))

	sum, err := Inspect(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), sum.Gold)
	assert.Equal(t, 2, sum.Rebirths)
	assert.Equal(t, 1, sum.Perks[progression.PerkRebirth])

	var buf bytes.Buffer
	require.NoError(t, sum.Write(&buf, message.NewPrinter(language.English)))
	out := buf.String()
	assert.Contains(t, out, "gold:           12,345 (x1.00)")
	assert.Contains(t, out, "played:         1h1m1s")
	assert.Contains(t, out, "perk:           can-rebirth rank 1")
}

func TestInspect_NoSave(t *testing.T) {
	_, err := Inspect(context.Background(), save.NewMemoryStore())
	assert.ErrorIs(t, err, save.ErrNoSave)
}

func TestWipe(t *testing.T) {
	ctx := context.Background()
	st := save.NewMemoryStore()
	require.NoError(t, st.Save(ctx, progression.NewGameState(progression.NewBaseStats(config.Default()))))

	_, err := Wipe(ctx, st)
	require.NoError(t, err)

	_, err = st.Load(ctx)
	assert.ErrorIs(t, err, save.ErrNoSave)
}
