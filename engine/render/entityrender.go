package render

import (
	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/hajimehoshi/ebiten/v2"
)

// DrawBuildingSprite draws a building using its sprite if available.
// Returns true if a sprite was drawn, false to fall back to default
// rendering.
func (r *IsoRenderer) DrawBuildingSprite(screen *ebiten.Image, types *components.Types, e *ecs.Entity, sx, sy int) bool {
	bn, ok := ecs.GetComponent(e, types.BuildName)
	if !ok {
		return false
	}
	sprite, ok := r.Sprites.BuildingSprites[bn.Key]
	if !ok {
		return false
	}

	sw := sprite.Bounds().Dx()
	sh := sprite.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(sx-sw/2), float64(sy-sh/2))
	screen.DrawImage(sprite, op)
	return true
}

// DrawUnitSprite draws a unit using its sprite if available.
func (r *IsoRenderer) DrawUnitSprite(screen *ebiten.Image, types *components.Types, e *ecs.Entity, sx, sy int, playerID int) bool {
	sprite, ok := r.Sprites.UnitSpriteFor(e, types)
	if !ok {
		return false
	}

	sw := sprite.Bounds().Dx()
	sh := sprite.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(sx-sw/2), float64(sy-sh/2))

	if playerID != 0 {
		op.ColorScale.Scale(1.5, 0.6, 0.6, 1.0)
	}

	screen.DrawImage(sprite, op)
	return true
}
