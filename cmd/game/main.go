package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/ai"
	"github.com/1siamBot/ecsim/engine/audio"
	"github.com/1siamBot/ecsim/engine/core"
	"github.com/1siamBot/ecsim/engine/input"
	"github.com/1siamBot/ecsim/engine/maplib"
	"github.com/1siamBot/ecsim/engine/pathfind"
	"github.com/1siamBot/ecsim/engine/render"
	"github.com/1siamBot/ecsim/engine/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
	TickRate     = 20.0 // 20 ticks per second (RTS standard)
	MapSize      = 64
)

// Game implements ebiten.Game, driving an ecs.World tick alongside the
// isometric renderer and input layer.
type Game struct {
	world   *ecs.World
	types   *components.Types
	bus     *ecs.EventBus
	renderer *render.IsoRenderer
	tileMap  *maplib.TileMap
	navGrid  *pathfind.NavGrid
	input    *input.InputState
	players  *core.PlayerManager
	audio    *audio.AudioManager

	accumulator float64
	simTime     int64

	showGrid    bool
	showMinimap bool
	hoverTileX  int
	hoverTileY  int
}

func NewGame() *Game {
	g := &Game{
		renderer:    render.NewIsoRenderer(ScreenWidth, ScreenHeight),
		tileMap:     generateDemoMap(),
		input:       input.NewInputState(),
		players:     core.NewPlayerManager(),
		bus:         ecs.NewEventBus(),
		audio:       audio.NewAudioManager(),
		showMinimap: true,
	}

	g.navGrid = pathfind.NewNavGrid(g.tileMap)
	g.world = ecs.NewWorld(ecs.WorldConfig{InitialEntityCapacity: 256})
	g.types = components.Register(g.world)
	g.audio.Wire(g.bus, g.types)

	g.players.AddPlayer(&core.Player{
		ID: 0, Name: "Player 1", TeamID: 0, Faction: "Allied",
		Color: 0x0066FFFF, Credits: 10000,
	})
	g.players.AddPlayer(&core.Player{
		ID: 1, Name: "AI Enemy", TeamID: 1, Faction: "Soviet",
		Color: 0xFF0000FF, Credits: 10000, IsAI: true,
	})

	g.renderer.Camera.CenterOn(float64(MapSize)/2, float64(MapSize)/2)

	g.registerSystems()
	g.spawnDemoUnits()

	g.world.Play()

	return g
}

func (g *Game) registerSystems() {
	w := g.world
	w.RegisterSystem(&systems.MovementSystem{Types: g.types, NavGrid: g.navGrid}, ecs.SystemAttributes{Priority: 10})
	w.RegisterSystem(&systems.HarvesterSystem{Types: g.types, NavGrid: g.navGrid, TileMap: g.tileMap, Players: g.players, EventBus: g.bus}, ecs.SystemAttributes{Priority: 15})
	w.RegisterSystem(&systems.CombatSystem{Types: g.types, Players: g.players, EventBus: g.bus, World: w}, ecs.SystemAttributes{Priority: 20})
	w.RegisterSystem(&systems.ProjectileSystem{Types: g.types, EventBus: g.bus, World: w}, ecs.SystemAttributes{Priority: 25})
	w.RegisterSystem(&systems.ProductionSystem{Types: g.types, TechTree: systems.NewTechTree(), Players: g.players, EventBus: g.bus, World: w}, ecs.SystemAttributes{Priority: 35})
	w.RegisterSystem(&systems.AnimationSystem{Types: g.types}, ecs.SystemAttributes{Priority: 60})
	w.RegisterSystem(&systems.VeterancySystem{EventBus: g.bus}, ecs.SystemAttributes{Priority: 55})
	w.RegisterSystem(&systems.GameOverSystem{Types: g.types, Players: g.players}, ecs.SystemAttributes{Priority: 100})
	w.RegisterSystem(&systems.PowerSystem{Types: g.types, Players: g.players}, ecs.SystemAttributes{Priority: 5})
	fog := systems.NewFogSystem(MapSize, MapSize, g.players)
	fog.Types = g.types
	w.RegisterSystem(fog, ecs.SystemAttributes{Priority: 2})

	aiSys := &ai.AISystem{Types: g.types, World: w, Players: g.players}
	aiSys.Controllers = append(aiSys.Controllers, ai.NewAIController(1, ai.DiffMedium, systems.NewTechTree(), g.navGrid))
	w.RegisterSystem(aiSys, ecs.SystemAttributes{Priority: 50})
}

func (g *Game) spawnDemoUnits() {
	positions := [][2]float64{
		{10, 10}, {11, 10}, {12, 10},
		{10, 11}, {11, 11},
	}
	for _, pos := range positions {
		e := g.world.CreateEntity()
		ecs.AddComponent(e, g.types.Position, ecs.Props{"X": pos[0], "Y": pos[1]})
		ecs.AddComponent(e, g.types.Sprite, ecs.Props{"Width": 24, "Height": 24, "Visible": true, "ScaleX": 1.0, "ScaleY": 1.0})
		ecs.AddComponent(e, g.types.Health, ecs.Props{"Current": 100, "Max": 100})
		ecs.AddComponent(e, g.types.Movable, ecs.Props{"Speed": 3.0, "MoveType": components.MoveVehicle})
		ecs.AddComponent(e, g.types.Selectable, ecs.Props{"Radius": 0.5})
		ecs.AddComponent(e, g.types.Owner, ecs.Props{"PlayerID": 0})
		ecs.AddComponent(e, g.types.FogVision, ecs.Props{"Range": 5})
	}
}

func (g *Game) selectableEntities() []*ecs.Entity {
	q, err := g.world.GetQuery(g.types.Position.El(), g.types.Selectable.El())
	if err != nil {
		return nil
	}
	return q.Entities()
}

func (g *Game) Update() error {
	g.input.Update()

	g.handleCamera()
	g.audio.SetCameraPos(g.renderer.Camera.ScreenToWorld(ScreenWidth/2, ScreenHeight/2))

	if g.input.IsKeyJustPressed(ebiten.KeyG) {
		g.showGrid = !g.showGrid
	}
	if g.input.IsKeyJustPressed(ebiten.KeyM) {
		g.showMinimap = !g.showMinimap
	}

	wx, wy := g.renderer.Camera.ScreenToWorld(g.input.MouseX, g.input.MouseY)
	g.hoverTileX = int(math.Floor(wx))
	g.hoverTileY = int(math.Floor(wy))

	units := g.selectableEntities()

	if g.input.IsKeyJustPressed(ebiten.KeyF) {
		for _, e := range units {
			if sel, _ := ecs.GetComponent(e, g.types.Selectable); sel.Selected {
				g.renderer.Camera.FollowEntity(e, g.types)
				break
			}
		}
	}

	if g.input.RightJustPressed {
		gx, gy := int(math.Floor(wx)), int(math.Floor(wy))
		var selected []*ecs.Entity
		for _, e := range units {
			sel, _ := ecs.GetComponent(e, g.types.Selectable)
			if sel.Selected {
				selected = append(selected, e)
			}
		}
		if len(selected) > 1 {
			systems.OrderGroupMove(selected, g.types, g.navGrid, gx, gy)
		} else {
			for _, e := range selected {
				systems.OrderMove(e, g.types, g.navGrid, gx, gy)
			}
		}
	}

	if g.input.LeftJustReleased {
		shift := ebiten.IsKeyPressed(ebiten.KeyShift)
		if hit, dragged := g.input.SelectInRect(units, g.types, g.renderer.Camera.WorldToScreen); dragged {
			if !shift {
				for _, e := range units {
					sel, _ := ecs.GetMutableComponent(e, g.types.Selectable)
					sel.Selected = false
				}
			}
			for _, e := range hit {
				sel, _ := ecs.GetMutableComponent(e, g.types.Selectable)
				sel.Selected = true
			}
		} else {
			if !shift {
				for _, e := range units {
					sel, _ := ecs.GetMutableComponent(e, g.types.Selectable)
					sel.Selected = false
				}
			}
			for _, e := range units {
				pos, _ := ecs.GetComponent(e, g.types.Position)
				sx, sy := g.renderer.Camera.WorldToScreen(pos.X, pos.Y)
				dx := float64(g.input.MouseX - sx)
				dy := float64(g.input.MouseY - sy)
				if math.Sqrt(dx*dx+dy*dy) < 20 {
					sel, _ := ecs.GetMutableComponent(e, g.types.Selectable)
					sel.Selected = !sel.Selected
					break
				}
			}
		}
	}

	g.accumulator += 1.0 / 60.0
	step := 1.0 / TickRate
	for g.accumulator >= step {
		g.simTime++
		dt := step
		t := g.simTime
		g.world.Execute(&dt, &t)
		g.accumulator -= step

		if g.simTime%int64(TickRate) == 0 { // once a second: buildings placed/destroyed change what's passable
			g.navGrid.RefreshWithBuildings(g.tileMap, g.buildingEntities(), g.types)
		}
	}

	return nil
}

func (g *Game) buildingEntities() []*ecs.Entity {
	q, err := g.world.GetQuery(g.types.Position.El(), g.types.Building.El())
	if err != nil {
		return nil
	}
	return q.Entities()
}

func (g *Game) handleCamera() {
	speed := g.renderer.Camera.Speed / 60.0

	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		g.renderer.Camera.Pan(0, -speed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		g.renderer.Camera.Pan(0, speed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		g.renderer.Camera.Pan(-speed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		g.renderer.Camera.Pan(speed, 0)
	}

	if g.renderer.Camera.EdgeScroll {
		edge := g.renderer.Camera.EdgeSize
		if g.input.MouseX < edge {
			g.renderer.Camera.Pan(-speed, 0)
		}
		if g.input.MouseX > ScreenWidth-edge {
			g.renderer.Camera.Pan(speed, 0)
		}
		if g.input.MouseY < edge {
			g.renderer.Camera.Pan(0, -speed)
		}
		if g.input.MouseY > ScreenHeight-edge {
			g.renderer.Camera.Pan(0, speed)
		}
	}

	if g.input.ScrollY != 0 {
		g.renderer.Camera.ZoomAt(g.input.ScrollY*0.1, g.input.MouseX, g.input.MouseY)
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		g.renderer.Camera.Pan(float64(-g.input.MouseDX), float64(-g.input.MouseDY))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	g.renderer.DrawMap(screen, g.tileMap)

	if g.showGrid {
		g.renderer.DrawGrid(screen, g.tileMap)
	}

	if g.tileMap.InBounds(g.hoverTileX, g.hoverTileY) {
		sx, sy := g.renderer.Camera.WorldToScreen(float64(g.hoverTileX), float64(g.hoverTileY))
		tw := float32(g.tileMap.TileWidth)
		th := float32(g.tileMap.TileHeight)
		hw := tw / 2
		hh := th / 2
		cx := float32(sx)
		cy := float32(sy) + hh
		hoverColor := color.RGBA{255, 255, 0, 100}
		vector.StrokeLine(screen, cx, cy-hh, cx+hw, cy, 2, hoverColor, false)
		vector.StrokeLine(screen, cx+hw, cy, cx, cy+hh, 2, hoverColor, false)
		vector.StrokeLine(screen, cx, cy+hh, cx-hw, cy, 2, hoverColor, false)
		vector.StrokeLine(screen, cx-hw, cy, cx, cy-hh, 2, hoverColor, false)
	}

	for _, e := range g.selectableEntities() {
		pos, _ := ecs.GetComponent(e, g.types.Position)
		sel, _ := ecs.GetComponent(e, g.types.Selectable)
		own, hasOwner := ecs.GetComponent(e, g.types.Owner)
		sx, sy := g.renderer.Camera.WorldToScreen(pos.X, pos.Y)

		if sel.Selected {
			vector.DrawFilledCircle(screen, float32(sx), float32(sy), 16, color.RGBA{0, 255, 0, 60}, false)
			vector.StrokeCircle(screen, float32(sx), float32(sy), 16, 2, color.RGBA{0, 255, 0, 200}, false)
		}

		playerID := 0
		if hasOwner {
			playerID = own.PlayerID
		}
		if !g.renderer.DrawUnitSprite(screen, g.types, e, sx, sy, playerID) {
			unitColor := color.RGBA{60, 120, 255, 255}
			if playerID != 0 {
				unitColor = color.RGBA{255, 80, 80, 255}
			}
			vector.DrawFilledCircle(screen, float32(sx), float32(sy), 10, unitColor, false)
			vector.StrokeCircle(screen, float32(sx), float32(sy), 10, 1, color.RGBA{255, 255, 255, 180}, false)
		}

		if sel.Selected {
			if hp, ok := ecs.GetComponent(e, g.types.Health); ok {
				barW := float32(24)
				barH := float32(3)
				barX := float32(sx) - barW/2
				barY := float32(sy) - 22
				vector.DrawFilledRect(screen, barX, barY, barW, barH, color.RGBA{40, 40, 40, 200}, false)
				vector.DrawFilledRect(screen, barX, barY, barW*float32(hp.Ratio()), barH, color.RGBA{0, 200, 0, 255}, false)
			}
		}
	}

	if x1, y1, x2, y2, active := g.input.DragRect(); active {
		g.renderer.DrawSelectionBox(screen, x1, y1, x2, y2)
	}

	if g.showMinimap {
		g.renderer.DrawMinimap(screen, g.tileMap, ScreenWidth-170, ScreenHeight-170, 160)
	}

	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	tile := g.tileMap.At(g.hoverTileX, g.hoverTileY)
	terrainName := "Out of Bounds"
	if tile != nil {
		terrainName = terrainTypeName(tile.Terrain)
	}

	stats := g.world.Stats()

	info := fmt.Sprintf(
		"ecsim v0.1.0 | FPS: %.0f | Tick: %d\n"+
			"Tile: (%d, %d) %s | Entities: %d\n"+
			"Zoom: %.1fx | [WASD] Pan [Scroll] Zoom [G] Grid [M] Minimap\n"+
			"[LClick] Select [RClick] Move | Credits: $%d",
		ebiten.ActualFPS(),
		g.simTime,
		g.hoverTileX, g.hoverTileY, terrainName,
		stats.EntityCount,
		g.renderer.Camera.Zoom,
		g.players.GetPlayer(0).Credits,
	)

	ebitenutil.DebugPrint(screen, info)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// generateDemoMap creates a demo map with varied terrain.
func generateDemoMap() *maplib.TileMap {
	tm := maplib.NewTileMap("Demo Battlefield", MapSize, MapSize)

	tm.SetTerrain(0, 0, MapSize-1, MapSize-1, maplib.TerrainGrass)

	for x := 0; x < MapSize; x++ {
		y := MapSize/2 + int(3*math.Sin(float64(x)*0.15))
		tm.SetTerrain(x, y-1, x, y+1, maplib.TerrainWater)
	}

	tm.SetTerrain(MapSize/2-1, MapSize/2-2, MapSize/2+1, MapSize/2+2, maplib.TerrainBridge)
	for x := MapSize/2 - 1; x <= MapSize/2+1; x++ {
		for y := MapSize/2 - 2; y <= MapSize/2+2; y++ {
			if t := tm.At(x, y); t != nil {
				t.Passable = maplib.PassAll
			}
		}
	}

	forests := [][4]int{
		{5, 5, 12, 10}, {45, 8, 55, 15}, {20, 45, 30, 52},
	}
	for _, f := range forests {
		tm.SetTerrain(f[0], f[1], f[2], f[3], maplib.TerrainForest)
	}

	orePositions := [][2]int{
		{15, 15}, {16, 15}, {15, 16}, {16, 16}, {17, 15},
		{45, 45}, {46, 45}, {45, 46}, {46, 46}, {47, 45},
	}
	for _, pos := range orePositions {
		tm.PlaceOre(pos[0], pos[1], 1000)
	}

	tm.SetTerrain(30, 10, 35, 12, maplib.TerrainCliff)
	tm.SetTerrain(25, 50, 28, 55, maplib.TerrainRock)

	for x := 0; x < MapSize; x++ {
		tm.SetTerrain(x, MapSize/4, x, MapSize/4, maplib.TerrainRoad)
	}
	for y := 0; y < MapSize; y++ {
		tm.SetTerrain(MapSize/4, y, MapSize/4, y, maplib.TerrainRoad)
	}

	tm.SetTerrain(50, 50, 60, 60, maplib.TerrainSand)

	tm.StartPositions = []maplib.StartPos{
		{PlayerSlot: 0, X: 5, Y: 5},
		{PlayerSlot: 1, X: MapSize - 10, Y: MapSize - 10},
	}

	return tm
}

func terrainTypeName(t maplib.TerrainType) string {
	names := map[maplib.TerrainType]string{
		maplib.TerrainGrass:     "Grass",
		maplib.TerrainDirt:      "Dirt",
		maplib.TerrainSand:      "Sand",
		maplib.TerrainWater:     "Water",
		maplib.TerrainDeepWater: "Deep Water",
		maplib.TerrainRock:      "Rock",
		maplib.TerrainCliff:     "Cliff",
		maplib.TerrainRoad:      "Road",
		maplib.TerrainBridge:    "Bridge",
		maplib.TerrainOre:       "Ore Field",
		maplib.TerrainGem:       "Gem Field",
		maplib.TerrainSnow:      "Snow",
		maplib.TerrainUrban:     "Urban",
		maplib.TerrainForest:    "Forest",
	}
	if name, ok := names[t]; ok {
		return name
	}
	return "Unknown"
}

func main() {
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("ecsim — RTS demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	game := NewGame()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
