package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/page"
)

func TestAutoplayMinesRequestedCount(t *testing.T) {
	r, _ := openTestRuntime(t, "")
	r.Navigate(page.Synthetic(12, 3), "synthetic.local")

	rep, err := r.Autoplay(3)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Mined)
	assert.Equal(t, 3, r.Engine.Profile().TotalMined)
	assert.Greater(t, rep.XP, 0)
	assert.Greater(t, rep.Elapsed, autoplayStep)
	assert.True(t, r.Controller.MiningEnabled())
}

func TestAutoplayStopsWhenPageExhausted(t *testing.T) {
	r, _ := openTestRuntime(t, "")
	doc, err := page.ParseString(testPage)
	require.NoError(t, err)
	r.Navigate(doc, "example.com")

	rep, err := r.Autoplay(10)
	require.NoError(t, err)
	assert.LessOrEqual(t, rep.Mined, 2)
	assert.GreaterOrEqual(t, rep.Mined, 1)
}

func TestAutoplayRefusesBlockedHost(t *testing.T) {
	r, _ := openTestRuntime(t, "")
	require.NoError(t, r.Blocklist.Add("example.com"))
	doc, err := page.ParseString(testPage)
	require.NoError(t, err)
	require.True(t, r.Navigate(doc, "example.com"))

	_, err = r.Autoplay(1)
	assert.ErrorIs(t, err, game.ErrDisabled)
}

func TestAutoplayWithoutPage(t *testing.T) {
	r, _ := openTestRuntime(t, "")
	_, err := r.Autoplay(1)
	assert.Error(t, err)
}

func TestAutoplayChoice(t *testing.T) {
	p := game.NewProfile()
	assert.Equal(t, -1, autoplayChoice(Encounter{Kind: game.SpawnVillager}, p))
	assert.Equal(t, 1, autoplayChoice(Encounter{Kind: game.SpawnWarden}, p))
	p.DiamondSword = 1
	assert.Equal(t, 0, autoplayChoice(Encounter{Kind: game.SpawnWarden}, p))
	assert.Equal(t, 0, autoplayChoice(Encounter{Kind: game.SpawnChest}, p))
}
