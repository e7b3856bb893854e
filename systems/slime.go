package systems

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/slimes/components"
	"github.com/pthm-cable/slimes/config"
)

// SlimeView is the read-only state of a slime.
type SlimeView struct {
	Entity        ecs.Entity
	ID            uint32
	X, Y          float32
	VelX, VelY    float32
	Energy        float32
	Size          float32
	VisionRadius  float32 // size + effective vision range
	State         components.State
	Skills        components.Skills
	Path          components.SkillKind
	NextEvolution float32
	Generation    int32
	LastJump      int64
	LastBreed     int64
}

// SlimeSeed describes a slime to insert with Add.
type SlimeSeed struct {
	X, Y       float32
	Heading    float32 // radians
	Energy     float32
	Skills     components.Skills
	Path       components.SkillKind
	Generation int32
	LastJump   int64
	LastBreed  int64
}

// TickReport summarizes what happened during one slime update.
type TickReport struct {
	TimeCost    bool // upkeep was charged this tick
	Deaths      int
	Births      int
	Breedings   int
	Jumps       int
	FoodEaten   int
	EnergyEaten float32
	Evolutions  int
}

// slimeState is the working copy of one slime for the duration of a tick.
type slimeState struct {
	entity ecs.Entity
	pos    components.Position
	vel    components.Velocity
	energy float32
	slime  components.Slime
}

// SlimeController owns the slime population and runs the per-tick rules.
type SlimeController struct {
	cfg    *config.Config
	bounds Bounds
	rng    *rand.Rand

	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Energy, components.Slime]
	filter *ecs.Filter4[components.Position, components.Velocity, components.Energy, components.Slime]

	lastTimeCost int64
	lastTick     int64
	nextID       uint32
	count        int

	// Per-tick buffers, reused
	snapshot []slimeState
	work     []slimeState
	births   []SlimeSeed
	dead     []ecs.Entity
}

// NewSlimeController creates a slime controller reading its tuning from cfg.
// cfg is read at the start of every Update, so callers may mutate it between ticks.
func NewSlimeController(cfg *config.Config, bounds Bounds, rng *rand.Rand) (*SlimeController, error) {
	if cfg == nil {
		return nil, fmt.Errorf("slime controller: nil config: %w", config.ErrInvalidRange)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, fmt.Errorf("slime bounds %vx%v: %w", bounds.Width, bounds.Height, config.ErrInvalidRange)
	}

	world := ecs.NewWorld()
	return &SlimeController{
		cfg:    cfg,
		bounds: bounds,
		rng:    rng,
		world:  world,
		mapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Energy,
			components.Slime,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Energy,
			components.Slime,
		](world),
	}, nil
}

// size returns the body radius for an energy level.
func (sc *SlimeController) size(energy float32) float32 {
	s := &sc.cfg.Slime
	return components.Size(energy, float32(s.SizeDivisor), float32(s.SizeMin), float32(s.SizeMax))
}

// Spawn creates a slime at a random point with the initial energy.
func (sc *SlimeController) Spawn(tick int64) ecs.Entity {
	x, y := sc.bounds.RandomPoint(sc.rng)
	return sc.Add(SlimeSeed{
		X:         x,
		Y:         y,
		Heading:   RandomAngle(sc.rng),
		Energy:    float32(sc.cfg.Slime.InitialEnergy),
		Path:      RandomSkillKind(sc.rng),
		LastJump:  tick,
		LastBreed: tick,
	})
}

// SpawnN creates n random slimes.
func (sc *SlimeController) SpawnN(n int, tick int64) {
	for i := 0; i < n; i++ {
		sc.Spawn(tick)
	}
}

// Add inserts an explicit slime. An invalid Path is replaced by a random one.
// Must not be called while the controller is updating.
func (sc *SlimeController) Add(seed SlimeSeed) ecs.Entity {
	if !seed.Path.Valid() {
		seed.Path = RandomSkillKind(sc.rng)
	}
	sc.nextID++

	x, y := sc.bounds.Wrap(seed.X, seed.Y)
	mods := ComputeModifiers(seed.Skills, sc.cfg)
	vx, vy := PolarToCartesian(mods.SpeedFactor, seed.Heading)

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{X: vx, Y: vy}
	energy := components.Energy{Value: seed.Energy}
	slime := components.Slime{
		ID:            sc.nextID,
		State:         components.StateNormal,
		Skills:        seed.Skills,
		Path:          seed.Path,
		NextEvolution: EvolutionThreshold(seed.Skills.Total(), sc.cfg.Skills),
		Generation:    seed.Generation,
		LastJump:      seed.LastJump,
		LastBreed:     seed.LastBreed,
	}
	sc.count++
	return sc.mapper.NewEntity(&pos, &vel, &energy, &slime)
}

// Update runs one tick of the slime rules against the food population.
//
// Every slime is evaluated against a snapshot taken after upkeep. Food claims
// are visible to later slimes immediately. Each slime's result is written back
// once, and children join the population after the pass.
func (sc *SlimeController) Update(tick int64, food *FoodController) TickReport {
	var report TickReport
	sc.lastTick = tick

	sc.applyTimeCost(tick, &report)

	sc.work = append(sc.work[:0], sc.snapshot...)
	sc.births = sc.births[:0]

	for i := range sc.work {
		sc.stepSlime(i, tick, food, &report)
	}

	sc.writeBack()

	for _, seed := range sc.births {
		sc.Add(seed)
	}
	report.Births = len(sc.births)

	return report
}

// applyTimeCost charges upkeep when the cadence elapses, removes slimes that
// run out of energy, resets every survivor to Normal and fills the snapshot.
func (sc *SlimeController) applyTimeCost(tick int64, report *TickReport) {
	charge := tick-sc.lastTimeCost >= sc.cfg.Slime.TimeCostInterval
	if charge {
		sc.lastTimeCost = tick
		report.TimeCost = true
	}

	sc.dead = sc.dead[:0]
	sc.snapshot = sc.snapshot[:0]

	query := sc.filter.Query()
	for query.Next() {
		pos, vel, energy, slime := query.Get()
		if charge {
			energy.Value--
			if energy.Value <= 0 {
				sc.dead = append(sc.dead, query.Entity())
				continue
			}
		}
		slime.State = components.StateNormal
		sc.snapshot = append(sc.snapshot, slimeState{
			entity: query.Entity(),
			pos:    *pos,
			vel:    *vel,
			energy: energy.Value,
			slime:  *slime,
		})
	}

	// Remove after the query completes
	for _, e := range sc.dead {
		sc.world.RemoveEntity(e)
	}
	sc.count -= len(sc.dead)
	report.Deaths = len(sc.dead)
}

// breedReady reports whether s may look for a partner this tick.
func (sc *SlimeController) breedReady(s *slimeState, tick int64) bool {
	return s.energy >= float32(sc.cfg.Breeding.Threshold) &&
		s.slime.State != components.StateBreeding &&
		tick-s.slime.LastBreed >= sc.cfg.Breeding.Cooldown
}

// stepSlime targets, moves, eats, mates, jumps and evolves the working copy at index i.
func (sc *SlimeController) stepSlime(i int, tick int64, food *FoodController, report *TickReport) {
	s := &sc.work[i]
	mods := ComputeModifiers(s.slime.Skills, sc.cfg)
	reach := sc.size(s.energy) + mods.VisionRange

	// Pick a target: partner first, then food, else keep heading
	ready := sc.breedReady(s, tick)
	partner := -1
	var tx, ty float32
	hasTarget := false
	if ready {
		partner = sc.nearestPartner(i, reach, tick)
		if partner >= 0 {
			tx, ty = sc.snapshot[partner].pos.X, sc.snapshot[partner].pos.Y
			hasTarget = true
		}
	}
	if !hasTarget {
		if idx, _, ok := food.Nearest(s.pos.X, s.pos.Y, reach); ok {
			tx, ty = food.Population[idx].X, food.Population[idx].Y
			hasTarget = true
		}
	}

	// Move toward the target
	sc.move(s, mods, hasTarget, tx, ty)

	// Eat touching food
	ate := sc.eat(s, food, report)

	// Mate with the partner if still in contact
	if ready && partner >= 0 {
		sc.breed(i, partner, tick, report)
	}

	// Jump when nothing was eaten or bred
	if !ate && s.slime.State != components.StateBreeding {
		sc.jump(s, mods, tick, food, report)
	}

	// Evolve
	sc.evolve(s, report)
}

// nearestPartner returns the snapshot index of the closest other breed-ready
// slime within reach of slime i, or -1.
func (sc *SlimeController) nearestPartner(i int, reach float32, tick int64) int {
	self := &sc.work[i]
	best := -1
	bestDistSq := reach * reach
	for j := range sc.snapshot {
		if j == i {
			continue
		}
		other := &sc.snapshot[j]
		if !sc.breedReady(other, tick) {
			continue
		}
		d := distanceSq(self.pos.X, self.pos.Y, other.pos.X, other.pos.Y)
		if d < bestDistSq || (best < 0 && d == bestDistSq) {
			best = j
			bestDistSq = d
		}
	}
	return best
}

// move steps toward the target, or along the persisted heading without one,
// and charges the movement cost.
func (sc *SlimeController) move(s *slimeState, mods SkillModifiers, hasTarget bool, tx, ty float32) {
	speed := mods.SpeedFactor
	var dx, dy float32

	if hasTarget {
		dist := Distance(s.pos.X, s.pos.Y, tx, ty)
		if dist > 0 {
			dir := AngleBetween(s.pos.X, s.pos.Y, tx, ty)
			dx, dy = PolarToCartesian(min(speed, dist), dir)
			s.vel.X, s.vel.Y = PolarToCartesian(speed, dir)
		}
	} else {
		// Keep direction, follow the current effective speed
		if mag := velocityMagnitude(s.vel.X, s.vel.Y); mag > 0 {
			scale := speed / mag
			s.vel.X *= scale
			s.vel.Y *= scale
		}
		dx, dy = s.vel.X, s.vel.Y
	}

	if dx == 0 && dy == 0 {
		return
	}
	s.pos.X, s.pos.Y = sc.bounds.Wrap(s.pos.X+dx, s.pos.Y+dy)

	if s.energy < float32(sc.cfg.Slime.FreeMovementThreshold) {
		return
	}
	scale := max(1, s.energy/float32(sc.cfg.Slime.CostScaleEnergy))
	s.energy -= mods.StepCost * scale
}

// eat claims every food item touching the body. Size grows between items, so
// a later item in the population may come into reach.
func (sc *SlimeController) eat(s *slimeState, food *FoodController, report *TickReport) bool {
	ate := false
	size := sc.size(s.energy)
	for idx := range food.Population {
		f := &food.Population[idx]
		if f.Eaten || distanceSq(s.pos.X, s.pos.Y, f.X, f.Y) > size*size {
			continue
		}
		e, ok := food.Eat(idx)
		if !ok {
			continue
		}
		s.energy += e
		size = sc.size(s.energy)
		ate = true
		report.FoodEaten++
		report.EnergyEaten += e
	}
	return ate
}

// breed mates slime i with partner j when they touch. Both were breed-ready
// at target selection; the movement cost paid since then does not disqualify
// them, but a slime already mated this tick cannot mate again.
func (sc *SlimeController) breed(i, j int, tick int64, report *TickReport) {
	s := &sc.work[i]
	p := &sc.work[j]
	if s.slime.State == components.StateBreeding || p.slime.State == components.StateBreeding {
		return
	}
	contact := sc.size(s.energy) + sc.size(p.energy)
	if distanceSq(s.pos.X, s.pos.Y, p.pos.X, p.pos.Y) > contact*contact {
		return
	}

	cost := float32(sc.cfg.Slime.InitialEnergy)
	for _, parent := range [2]*slimeState{s, p} {
		parent.energy -= cost
		parent.slime.State = components.StateBreeding
		parent.slime.LastBreed = tick
	}

	sc.births = append(sc.births, SlimeSeed{
		X:          s.pos.X,
		Y:          s.pos.Y,
		Heading:    RandomAngle(sc.rng),
		Energy:     cost,
		Skills:     InheritSkills(s.slime.Skills, p.slime.Skills, sc.cfg.Skills.Cap, sc.rng),
		Path:       RandomSkillKind(sc.rng),
		Generation: max(s.slime.Generation, p.slime.Generation) + 1,
		LastJump:   tick,
		LastBreed:  tick,
	})
	report.Breedings++
}

// jump teleports onto the nearest food within jump range when energy and
// cooldown allow.
func (sc *SlimeController) jump(s *slimeState, mods SkillModifiers, tick int64, food *FoodController, report *TickReport) {
	if s.energy < float32(sc.cfg.Jump.Requirement) {
		return
	}
	if float32(tick-s.slime.LastJump) < mods.JumpCooldown {
		return
	}
	idx, _, ok := food.Nearest(s.pos.X, s.pos.Y, mods.JumpDistance)
	if !ok {
		return
	}
	fx, fy := food.Population[idx].X, food.Population[idx].Y
	e, ok := food.Eat(idx)
	if !ok {
		return
	}

	s.pos.X, s.pos.Y = fx, fy
	s.energy += e - float32(sc.cfg.Jump.Cost)
	s.slime.LastJump = tick
	s.slime.State = components.StateJumping

	report.Jumps++
	report.FoodEaten++
	report.EnergyEaten += e
}

// evolve gains one level on the slime's path when energy reaches the threshold.
func (sc *SlimeController) evolve(s *slimeState, report *TickReport) {
	sl := &s.slime
	if sl.Capped() || s.energy < sl.NextEvolution {
		return
	}
	capTotal := sc.cfg.Skills.Cap
	if sl.Skills.Total() >= capTotal {
		sl.NextEvolution = EvolutionThreshold(capTotal, sc.cfg.Skills)
		return
	}

	sl.Skills.Add(sl.Path, 1)
	report.Evolutions++

	if sl.Skills.Total() >= capTotal {
		sl.NextEvolution = EvolutionThreshold(capTotal, sc.cfg.Skills)
	} else {
		sl.NextEvolution += float32(sc.cfg.Skills.EvolveIncrement)
	}
}

// writeBack stores every working copy in its components.
func (sc *SlimeController) writeBack() {
	for i := range sc.work {
		s := &sc.work[i]
		if !sc.world.Alive(s.entity) {
			continue
		}
		pos, vel, energy, slime := sc.mapper.Get(s.entity)
		*pos = s.pos
		*vel = s.vel
		energy.Value = s.energy
		*slime = s.slime
	}
}

// view builds the read-only state of a slime.
func (sc *SlimeController) view(e ecs.Entity, pos *components.Position, vel *components.Velocity, energy *components.Energy, slime *components.Slime) SlimeView {
	size := sc.size(energy.Value)
	mods := ComputeModifiers(slime.Skills, sc.cfg)
	return SlimeView{
		Entity:        e,
		ID:            slime.ID,
		X:             pos.X,
		Y:             pos.Y,
		VelX:          vel.X,
		VelY:          vel.Y,
		Energy:        energy.Value,
		Size:          size,
		VisionRadius:  size + mods.VisionRange,
		State:         slime.State,
		Skills:        slime.Skills,
		Path:          slime.Path,
		NextEvolution: slime.NextEvolution,
		Generation:    slime.Generation,
		LastJump:      slime.LastJump,
		LastBreed:     slime.LastBreed,
	}
}

// Get returns the view of a live slime.
func (sc *SlimeController) Get(e ecs.Entity) (SlimeView, bool) {
	if !sc.world.Alive(e) {
		return SlimeView{}, false
	}
	pos, vel, energy, slime := sc.mapper.Get(e)
	return sc.view(e, pos, vel, energy, slime), true
}

// Snapshot returns the views of all slimes.
func (sc *SlimeController) Snapshot() []SlimeView {
	views := make([]SlimeView, 0, sc.count)
	query := sc.filter.Query()
	for query.Next() {
		pos, vel, energy, slime := query.Get()
		views = append(views, sc.view(query.Entity(), pos, vel, energy, slime))
	}
	return views
}

// Nearest returns the slime closest to (x, y) whose vision radius covers the point.
func (sc *SlimeController) Nearest(x, y float32) (SlimeView, bool) {
	var best SlimeView
	found := false
	bestDistSq := float32(0)
	for _, v := range sc.Snapshot() {
		d := distanceSq(x, y, v.X, v.Y)
		if d > v.VisionRadius*v.VisionRadius {
			continue
		}
		if !found || d < bestDistSq {
			best, bestDistSq, found = v, d, true
		}
	}
	return best, found
}

// Count returns the number of live slimes.
func (sc *SlimeController) Count() int {
	return sc.count
}

// LastTick returns the tick of the most recent Update.
func (sc *SlimeController) LastTick() int64 {
	return sc.lastTick
}

// SkillTotals returns the summed level of each skill across the population.
func (sc *SlimeController) SkillTotals() [3]int {
	var totals [3]int
	query := sc.filter.Query()
	for query.Next() {
		_, _, _, slime := query.Get()
		for _, k := range components.SkillKinds() {
			totals[k] += slime.Skills.Level(k)
		}
	}
	return totals
}

// Extremes returns the highest per-slime skill total and the highest generation.
func (sc *SlimeController) Extremes() (maxSkill int, maxGen int32) {
	query := sc.filter.Query()
	for query.Next() {
		_, _, _, slime := query.Get()
		maxSkill = max(maxSkill, slime.Skills.Total())
		maxGen = max(maxGen, slime.Generation)
	}
	return maxSkill, maxGen
}

// TotalEnergy returns the energy held by all slimes.
func (sc *SlimeController) TotalEnergy() float32 {
	var total float32
	query := sc.filter.Query()
	for query.Next() {
		_, _, energy, _ := query.Get()
		total += energy.Value
	}
	return total
}

// Energies appends every slime's energy to buf.
func (sc *SlimeController) Energies(buf []float64) []float64 {
	query := sc.filter.Query()
	for query.Next() {
		_, _, energy, _ := query.Get()
		buf = append(buf, float64(energy.Value))
	}
	return buf
}

// Reset removes every slime and restarts the upkeep cadence at tick 0.
func (sc *SlimeController) Reset() {
	sc.dead = sc.dead[:0]
	query := sc.filter.Query()
	for query.Next() {
		sc.dead = append(sc.dead, query.Entity())
	}
	for _, e := range sc.dead {
		sc.world.RemoveEntity(e)
	}
	sc.dead = sc.dead[:0]
	sc.count = 0
	sc.nextID = 0
	sc.lastTimeCost = 0
	sc.lastTick = 0
}
