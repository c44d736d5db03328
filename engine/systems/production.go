package systems

import (
	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
)

// UnitDef defines a unit type that can be produced.
type UnitDef struct {
	Name      string
	Cost      int
	BuildTime float64
	HP        int
	Speed     float64
	Damage    int
	Range     float64
	ArmorType components.ArmorType
	DmgType   components.DamageType
	MoveType  components.MoveType
	Vision    int
	Prereqs   []string
	Faction   string
}

// BuildingDef defines a building type.
type BuildingDef struct {
	Name       string
	Cost       int
	BuildTime  float64
	HP         int
	SizeX      int
	SizeY      int
	PowerGen   int
	PowerDraw  int
	TechLevel  int
	Prereqs    []string
	CanProduce []string
	Faction    string
}

// TechTree holds every unit and building definition.
type TechTree struct {
	Units     map[string]*UnitDef
	Buildings map[string]*BuildingDef
}

// NewTechTree creates a default RA2-style tech tree.
func NewTechTree() *TechTree {
	tt := &TechTree{
		Units:     make(map[string]*UnitDef),
		Buildings: make(map[string]*BuildingDef),
	}

	// Allied units
	tt.Units["gi"] = &UnitDef{Name: "GI", Cost: 200, BuildTime: 3, HP: 125, Speed: 3.0, Damage: 15, Range: 5, ArmorType: components.ArmorLight, DmgType: components.DmgKinetic, MoveType: components.MoveInfantry, Vision: 5, Faction: "Allied"}
	tt.Units["grizzly"] = &UnitDef{Name: "Grizzly Tank", Cost: 700, BuildTime: 8, HP: 400, Speed: 2.5, Damage: 75, Range: 5.5, ArmorType: components.ArmorHeavy, DmgType: components.DmgExplosive, MoveType: components.MoveVehicle, Vision: 6, Faction: "Allied", Prereqs: []string{"war_factory"}}
	tt.Units["harvester_a"] = &UnitDef{Name: "Chrono Miner", Cost: 1400, BuildTime: 12, HP: 600, Speed: 1.5, MoveType: components.MoveVehicle, Vision: 4, Faction: "Allied"}

	// Soviet units
	tt.Units["conscript"] = &UnitDef{Name: "Conscript", Cost: 100, BuildTime: 2, HP: 100, Speed: 3.0, Damage: 12, Range: 4.5, ArmorType: components.ArmorNone, DmgType: components.DmgKinetic, MoveType: components.MoveInfantry, Vision: 5, Faction: "Soviet"}
	tt.Units["rhino"] = &UnitDef{Name: "Rhino Tank", Cost: 900, BuildTime: 10, HP: 500, Speed: 2.0, Damage: 90, Range: 5.5, ArmorType: components.ArmorHeavy, DmgType: components.DmgExplosive, MoveType: components.MoveVehicle, Vision: 6, Faction: "Soviet", Prereqs: []string{"war_factory"}}
	tt.Units["harvester_s"] = &UnitDef{Name: "War Miner", Cost: 1400, BuildTime: 12, HP: 800, Speed: 1.2, Damage: 20, Range: 3, ArmorType: components.ArmorHeavy, DmgType: components.DmgKinetic, MoveType: components.MoveVehicle, Vision: 4, Faction: "Soviet"}

	// Buildings (shared names, faction handled by Faction field)
	tt.Buildings["construction_yard"] = &BuildingDef{Name: "Construction Yard", Cost: 0, BuildTime: 0, HP: 1000, SizeX: 3, SizeY: 3}
	tt.Buildings["power_plant"] = &BuildingDef{Name: "Power Plant", Cost: 800, BuildTime: 10, HP: 750, SizeX: 2, SizeY: 2, PowerGen: 100, Prereqs: []string{"construction_yard"}}
	tt.Buildings["barracks"] = &BuildingDef{Name: "Barracks", Cost: 500, BuildTime: 8, HP: 500, SizeX: 2, SizeY: 2, PowerDraw: 20, CanProduce: []string{"gi", "conscript"}, Prereqs: []string{"power_plant"}}
	tt.Buildings["refinery"] = &BuildingDef{Name: "Ore Refinery", Cost: 2000, BuildTime: 15, HP: 900, SizeX: 3, SizeY: 3, PowerDraw: 30, Prereqs: []string{"power_plant"}}
	tt.Buildings["war_factory"] = &BuildingDef{Name: "War Factory", Cost: 2000, BuildTime: 15, HP: 1000, SizeX: 3, SizeY: 3, PowerDraw: 50, TechLevel: 1, CanProduce: []string{"grizzly", "rhino", "harvester_a", "harvester_s"}, Prereqs: []string{"refinery"}}

	return tt
}

// HasPrereqs checks whether playerID owns a building carrying every key in
// prereqs, using each building's BuildingName component.
func (tt *TechTree) HasPrereqs(buildings []*ecs.Entity, types *components.Types, playerID int, prereqs []string) bool {
	if len(prereqs) == 0 {
		return true
	}
	owned := make(map[string]bool)
	for _, b := range buildings {
		own, ok := ecs.GetComponent(b, types.Owner)
		if !ok || own.PlayerID != playerID {
			continue
		}
		if name, ok := ecs.GetComponent(b, types.BuildName); ok {
			owned[name.Key] = true
		}
	}
	for _, p := range prereqs {
		if !owned[p] {
			return false
		}
	}
	return true
}

// ProductionSystem handles building production queues. Grounded on
// ProductionSystem.Update.
type ProductionSystem struct {
	ecs.Base
	Types    *components.Types
	TechTree *TechTree
	Players  *core.PlayerManager
	EventBus *ecs.EventBus
	World    *ecs.World
}

func (s *ProductionSystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "producers", Elements: []ecs.QueryElement{s.Types.Production.El(), s.Types.Owner.El(), s.Types.Position.El()}},
	}
}

func (s *ProductionSystem) Execute(dt, t float64) {
	for _, e := range s.Results("producers") {
		prod, _ := ecs.GetMutableComponent(e, s.Types.Production)
		own, _ := ecs.GetComponent(e, s.Types.Owner)
		pos, _ := ecs.GetComponent(e, s.Types.Position)

		if len(prod.Queue) == 0 {
			continue
		}

		unitName := prod.Queue[0]
		udef, ok := s.TechTree.Units[unitName]
		if !ok {
			prod.Queue = prod.Queue[1:]
			continue
		}

		player := s.Players.GetPlayer(own.PlayerID)
		rate := prod.Rate
		if player != nil && !player.HasPower() {
			rate *= 0.5 // half speed without power
		}

		prod.Progress += (dt / udef.BuildTime) * rate
		if prod.Progress >= 1.0 {
			spawnX := float64(prod.Rally.X) + 0.5
			spawnY := float64(prod.Rally.Y) + 0.5
			if prod.Rally.X == 0 && prod.Rally.Y == 0 {
				spawnX = pos.X + 2
				spawnY = pos.Y + 2
			}

			unit := s.World.CreateEntity()
			ecs.AddComponent(unit, s.Types.Position, ecs.Props{"X": spawnX, "Y": spawnY})
			ecs.AddComponent(unit, s.Types.Sprite, ecs.Props{"Width": 24, "Height": 24, "Visible": true, "ScaleX": 1.0, "ScaleY": 1.0})
			ecs.AddComponent(unit, s.Types.Health, ecs.Props{"Current": udef.HP, "Max": udef.HP})
			ecs.AddComponent(unit, s.Types.Movable, ecs.Props{"Speed": udef.Speed, "MoveType": udef.MoveType})
			ecs.AddComponent(unit, s.Types.Selectable, ecs.Props{"Radius": 0.5})
			ecs.AddComponent(unit, s.Types.Owner, ecs.Props{"PlayerID": own.PlayerID, "Faction": own.Faction})
			ecs.AddComponent(unit, s.Types.FogVision, ecs.Props{"Range": udef.Vision})
			if udef.Damage > 0 {
				ecs.AddComponent(unit, s.Types.Weapon, ecs.Props{
					"Name": udef.Name, "Damage": udef.Damage, "Range": udef.Range,
					"Cooldown": 1.5, "DamageType": udef.DmgType, "TargetType": components.TargetAll,
				})
			}
			ecs.AddComponent(unit, s.Types.Armor, ecs.Props{"ArmorType": udef.ArmorType})

			if s.EventBus != nil {
				s.EventBus.Emit(components.EvtUnitCreated, components.TickEvent{Entity: unit, Time: t})
			}

			prod.Progress = 0
			prod.Queue = prod.Queue[1:]
		}
	}
}

// PowerSystem recalculates power generation/draw for all players each tick.
// Grounded on PowerSystem.Update.
type PowerSystem struct {
	ecs.Base
	Types   *components.Types
	Players *core.PlayerManager
}

func (s *PowerSystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "buildings", Elements: []ecs.QueryElement{s.Types.Building.El(), s.Types.Owner.El()}},
	}
}

func (s *PowerSystem) Execute(_, _ float64) {
	for _, p := range s.Players.Players {
		p.Power = 0
		p.PowerUse = 0
	}
	for _, b := range s.Results("buildings") {
		bld, _ := ecs.GetComponent(b, s.Types.Building)
		own, _ := ecs.GetComponent(b, s.Types.Owner)
		player := s.Players.GetPlayer(own.PlayerID)
		if player == nil {
			continue
		}
		player.Power += bld.PowerGen
		player.PowerUse += bld.PowerDraw
	}
}
