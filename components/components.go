// Package components holds the game-data structs registered as ecs
// component types by the demo layer. Each struct corresponds 1:1 to a
// component the original flat core.ComponentType enum enumerated; the
// schema (field defaults, clone/copy behavior) is now inferred by
// ecs.RegisterComponent via reflection instead of a hand-written switch.
package components

import "github.com/1siamBot/ecsim/ecs"

// Position is a world position in isometric space.
type Position struct {
	X, Y   float64
	Z      float64
	Facing float64
}

// Sprite carries rendering info for an entity.
type Sprite struct {
	SheetID string
	FrameX  int
	FrameY  int
	Width   int
	Height  int
	OffsetX int
	OffsetY int
	ScaleX  float64
	ScaleY  float64
	Visible bool
	ZOrder  int
}

// AnimState is the current animation playback state.
type AnimState struct {
	CurrentAnim string
	Frame       int
	Timer       float64
	Speed       float64
	Loop        bool
	Finished    bool
}

// Health is hit points.
type Health struct {
	Current int
	Max     int
}

// Ratio returns Current/Max, or 0 if Max is non-positive.
func (h Health) Ratio() float64 {
	if h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

type DamageType uint8

const (
	DmgKinetic DamageType = iota
	DmgExplosive
	DmgFire
	DmgElectric
	DmgRadiation
)

type TargetMask uint8

const (
	TargetGround TargetMask = 1 << iota
	TargetAir
	TargetNaval
	TargetBuilding
	TargetAll TargetMask = 0xFF
)

// Weapon is an entity's attack capability.
type Weapon struct {
	Name        string
	Damage      int
	Range       float64
	Cooldown    float64
	CooldownNow float64
	Projectile  string
	Splash      float64
	DamageType  DamageType
	TargetType  TargetMask
}

type ArmorType uint8

const (
	ArmorNone ArmorType = iota
	ArmorLight
	ArmorMedium
	ArmorHeavy
	ArmorBuilding
)

// Armor is defensive stats.
type Armor struct {
	ArmorType ArmorType
	Value     int
}

type MoveType uint8

const (
	MoveInfantry MoveType = iota
	MoveVehicle
	MoveNaval
	MoveAmphibious
	MoveAir
)

// TilePos is an integer tile coordinate.
type TilePos struct {
	X, Y int
}

// Movable is movement capability, including the current path.
type Movable struct {
	Speed    float64
	TurnRate float64
	Path     []TilePos
	PathIdx  int
	MoveType MoveType
}

// Selectable marks an entity as selectable by a player.
type Selectable struct {
	Selected bool
	Radius   float64
	Group    int
}

// Owner identifies which player and team own an entity.
type Owner struct {
	PlayerID int
	TeamID   int
	Faction  string
}

// Production is a building's unit production queue.
type Production struct {
	Queue    []string
	Progress float64
	Rate     float64
	Rally    TilePos
}

// Building is a structure's static stats.
type Building struct {
	SizeX, SizeY int
	BuildTime    float64
	Powered      bool
	PowerDraw    int
	PowerGen     int
	TechLevel    int
	Prereqs      []string
	IsConYard    bool
	Sellable     bool
}

// BuildingName stores the tech-tree key for a building, letting systems
// look up its BuildingDef without a central EntityID registry.
type BuildingName struct {
	Key string
}

// MCV marks a unit as deployable into a Construction Yard.
type MCV struct {
	CanDeploy bool
}

// BuildingConstruction tracks construction animation progress.
type BuildingConstruction struct {
	Progress float64
	Rate     float64
	Complete bool
}

type HarvesterState uint8

const (
	HarvIdle HarvesterState = iota
	HarvMovingToOre
	HarvHarvesting
	HarvReturning
	HarvUnloading
)

// Harvester is a resource-gathering unit's state.
type Harvester struct {
	Capacity int
	Current  int
	Rate     float64
	Resource string
	State    HarvesterState
}

// Projectile is a moving bullet/missile. Source and Target reference the
// live entities directly; a dead target leaves Target nil and the
// projectile continues toward its last known TargetX/TargetY.
type Projectile struct {
	Source   *ecs.Entity
	Target   *ecs.Entity
	TargetX  float64
	TargetY  float64
	Speed    float64
	Damage   int
	Splash   float64
	DmgType  DamageType
	TrailFX  string
	HitFX    string
}

// FogVision is an entity's sight range for fog-of-war.
type FogVision struct {
	Range   int
	Stealth bool
	Detect  bool
}

// Types bundles every registered component-type handle for the demo world,
// the Go realization of the source's static ComponentType enum.
type Types struct {
	Position   ecs.ComponentType[Position]
	Sprite     ecs.ComponentType[Sprite]
	Anim       ecs.ComponentType[AnimState]
	Health     ecs.ComponentType[Health]
	Weapon     ecs.ComponentType[Weapon]
	Armor      ecs.ComponentType[Armor]
	Movable    ecs.ComponentType[Movable]
	Selectable ecs.ComponentType[Selectable]
	Owner      ecs.ComponentType[Owner]
	Production ecs.ComponentType[Production]
	Building   ecs.ComponentType[Building]
	BuildName  ecs.ComponentType[BuildingName]
	MCV        ecs.ComponentType[MCV]
	Construct  ecs.ComponentType[BuildingConstruction]
	Harvester  ecs.ComponentType[Harvester]
	Projectile ecs.ComponentType[Projectile]
	FogVision  ecs.ComponentType[FogVision]
}

// Register attaches every demo component type to w and returns the
// resulting handle bundle.
func Register(w *ecs.World) *Types {
	return &Types{
		Position:   ecs.RegisterComponent[Position](w, "position"),
		Sprite:     ecs.RegisterComponent[Sprite](w, "sprite"),
		Anim:       ecs.RegisterComponent[AnimState](w, "anim"),
		Health:     ecs.RegisterComponent[Health](w, "health"),
		Weapon:     ecs.RegisterComponent[Weapon](w, "weapon"),
		Armor:      ecs.RegisterComponent[Armor](w, "armor"),
		Movable:    ecs.RegisterComponent[Movable](w, "movable"),
		Selectable: ecs.RegisterComponent[Selectable](w, "selectable"),
		Owner:      ecs.RegisterComponent[Owner](w, "owner"),
		Production: ecs.RegisterComponent[Production](w, "production"),
		Building:   ecs.RegisterComponent[Building](w, "building"),
		BuildName:  ecs.RegisterComponent[BuildingName](w, "building-name"),
		MCV:        ecs.RegisterComponent[MCV](w, "mcv"),
		Construct:  ecs.RegisterComponent[BuildingConstruction](w, "building-construction"),
		Harvester:  ecs.RegisterComponent[Harvester](w, "harvester", ecs.WithPool()),
		Projectile: ecs.RegisterComponent[Projectile](w, "projectile", ecs.WithPool()),
		FogVision:  ecs.RegisterComponent[FogVision](w, "fog-vision"),
	}
}
