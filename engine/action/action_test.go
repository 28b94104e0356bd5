package action

import (
	"reflect"
	"testing"

	"github.com/chaimleib/antares/engine/admiral"
	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/types"
)

type recorder struct {
	started []int32
	status  string
	checks  int
	trueYet map[types.ConditionID]bool
	sounds  []int32
	beep    struct {
		volume, priority int32
		persistence      types.Ticks
	}
}

func (r *recorder) Start(first, last int32) { r.started = append(r.started, first) }
func (r *recorder) SetStatus(text string)   { r.status = text }
func (r *recorder) Check()                  { r.checks++ }
func (r *recorder) SetTrueYet(id types.ConditionID, v bool) {
	if r.trueYet == nil {
		r.trueYet = map[types.ConditionID]bool{}
	}
	r.trueYet[id] = v
}
func (r *recorder) Play(id, volume int32, persistence types.Ticks, priority int32, _ *object.SpaceObject) {
	r.sounds = append(r.sounds, id)
	r.beep.volume, r.beep.persistence, r.beep.priority = volume, persistence, priority
}

const (
	baseShip types.BaseID = iota
	baseFlare
	baseMine
	baseBody
	baseGun
)

func testContext(t *testing.T) (*Context, *recorder) {
	t.Helper()
	s := &types.Scenario{
		Info: types.Info{WarpInFlare: baseFlare, PlayerBody: baseBody},
		Bases: []types.BaseObject{
			baseShip:  {Name: "Cruiser", Health: 100, Energy: 50, Attributes: types.CanTurn | types.CanBeEngaged, LevelTag: "capital"},
			baseFlare: {Name: "Flare", InitialAge: types.Range[types.Ticks]{Begin: 30, End: 30}},
			baseMine: {
				Name:      "Mine",
				Health:    1,
				OnDestroy: []types.Action{act(types.ChangeScore{Player: 0, Which: 2, Amount: 1})},
			},
			baseBody: {Name: "Body", Health: 10},
			baseGun:  {Name: "Gun", Frame: types.DeviceFrame{Usage: usageAttacking, Range: 300, Ammo: 5}},
		},
		Level: types.Level{
			Players: []types.Player{
				{Name: "Hera", EarningPower: types.FixedOne},
				{Name: "Ozy", EarningPower: types.FixedOne},
			},
			Initials: []types.Initial{
				{Name: "home", Base: baseShip, Owner: 0, Target: types.NoInitial},
				{Name: "away", Base: baseShip, Owner: 1, Target: types.NoInitial},
			},
		},
	}
	c := New(s, object.NewPool(QueueLength*2), admiral.New(s.Level.Players))
	r := &recorder{}
	c.Messages = r
	c.Conditions = r
	c.Sound = r
	return c, r
}

func act(args types.ActionArgs) types.Action {
	return types.Action{
		SubjectOverride: types.NoInitial,
		DirectOverride:  types.NoInitial,
		Args:            args,
	}
}

func delayed(d types.Ticks, args types.ActionArgs) types.Action {
	a := act(args)
	a.Delay = d
	return a
}

func msg(id int32) types.DisplayMessage { return types.DisplayMessage{ID: id, Pages: 1} }

func spawn(t *testing.T, c *Context, base types.BaseID, owner types.AdmiralID) *object.SpaceObject {
	t.Helper()
	o := c.CreateObject(base, types.FixedPoint{}, types.Point{}, 0, owner)
	if o == nil {
		t.Fatalf("CreateObject(%d) = nil", base)
	}
	return o
}

func TestExecuteStopsAtNone(t *testing.T) {
	c, r := testContext(t)
	c.Execute([]types.Action{act(msg(1)), {}, act(msg(2))}, nil, nil, nil, true)
	if want := []int32{1}; !reflect.DeepEqual(r.started, want) {
		t.Errorf("started = %v, want %v", r.started, want)
	}
}

func TestExecuteDefersTail(t *testing.T) {
	c, r := testContext(t)
	actions := []types.Action{act(msg(1)), delayed(10, msg(2)), act(msg(3))}
	c.Execute(actions, nil, nil, nil, true)

	if want := []int32{1}; !reflect.DeepEqual(r.started, want) {
		t.Fatalf("started = %v, want %v", r.started, want)
	}
	if c.Queue.Len() != 1 {
		t.Fatalf("Queue.Len = %d, want 1", c.Queue.Len())
	}
	c.ExecuteQueue(9)
	if len(r.started) != 1 {
		t.Fatalf("batch fired early: started = %v", r.started)
	}
	c.ExecuteQueue(1)
	if want := []int32{1, 2, 3}; !reflect.DeepEqual(r.started, want) {
		t.Errorf("started = %v, want %v", r.started, want)
	}
	if c.Queue.Len() != 0 {
		t.Errorf("Queue.Len = %d, want 0", c.Queue.Len())
	}
}

func TestDeferredBatchDoesNotDeferAgain(t *testing.T) {
	c, r := testContext(t)
	actions := []types.Action{delayed(5, msg(1)), delayed(10, msg(2))}
	c.Execute(actions, nil, nil, nil, true)
	c.ExecuteQueue(5)
	if want := []int32{1, 2}; !reflect.DeepEqual(r.started, want) {
		t.Errorf("started = %v, want %v", r.started, want)
	}
	if c.Queue.Len() != 0 {
		t.Errorf("Queue.Len = %d, want 0", c.Queue.Len())
	}
}

func TestLaterDelayAfterImmediateRecordRunsNow(t *testing.T) {
	c, r := testContext(t)
	c.Execute([]types.Action{act(msg(1)), delayed(4, msg(2))}, nil, nil, nil, false)
	if want := []int32{1, 2}; !reflect.DeepEqual(r.started, want) {
		t.Errorf("started = %v, want %v", r.started, want)
	}
}

func TestQueueFiresInCountdownOrder(t *testing.T) {
	c, r := testContext(t)
	for _, d := range []types.Ticks{5, 1, 3} {
		c.Execute([]types.Action{delayed(d, msg(int32(d)))}, nil, nil, nil, true)
	}
	pending := c.Queue.Pending()
	var countdowns []types.Ticks
	for _, p := range pending {
		countdowns = append(countdowns, p.Countdown)
	}
	if want := []types.Ticks{1, 3, 5}; !reflect.DeepEqual(countdowns, want) {
		t.Errorf("pending countdowns = %v, want %v", countdowns, want)
	}

	c.ExecuteQueue(5)
	if want := []int32{1, 3, 5}; !reflect.DeepEqual(r.started, want) {
		t.Errorf("started = %v, want %v", r.started, want)
	}
}

func TestQueueTiesFireInScheduleOrder(t *testing.T) {
	c, r := testContext(t)
	for _, id := range []int32{10, 11, 12} {
		c.Execute([]types.Action{delayed(2, msg(id))}, nil, nil, nil, true)
	}
	c.ExecuteQueue(2)
	if want := []int32{10, 11, 12}; !reflect.DeepEqual(r.started, want) {
		t.Errorf("started = %v, want %v", r.started, want)
	}
}

func TestQueueCountsDownAcrossTicks(t *testing.T) {
	c, r := testContext(t)
	c.Execute([]types.Action{delayed(3, msg(1))}, nil, nil, nil, true)
	c.ExecuteQueue(1)
	c.Execute([]types.Action{delayed(1, msg(2))}, nil, nil, nil, true)
	c.ExecuteQueue(1)
	c.ExecuteQueue(1)
	if want := []int32{2, 1}; !reflect.DeepEqual(r.started, want) {
		t.Errorf("started = %v, want %v", r.started, want)
	}
}

func TestQueueCapacity(t *testing.T) {
	c, r := testContext(t)
	for i := 0; i < QueueLength+1; i++ {
		c.Execute([]types.Action{delayed(1, msg(int32(i)))}, nil, nil, nil, true)
	}
	if c.Queue.Len() != QueueLength {
		t.Errorf("Queue.Len = %d, want %d", c.Queue.Len(), QueueLength)
	}
	if c.Queue.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", c.Queue.Dropped())
	}
	c.ExecuteQueue(1)
	if len(r.started) != QueueLength {
		t.Errorf("fired %d batches, want %d", len(r.started), QueueLength)
	}
	if r.started[QueueLength-1] != QueueLength-1 {
		t.Errorf("last fired = %d, want %d", r.started[QueueLength-1], QueueLength-1)
	}
}

func TestQueueReset(t *testing.T) {
	c, _ := testContext(t)
	c.Execute([]types.Action{delayed(1, msg(1))}, nil, nil, nil, true)
	c.Queue.Reset()
	if c.Queue.Len() != 0 || len(c.Queue.Pending()) != 0 {
		t.Error("Reset should empty the queue")
	}
}

func TestStaleSubjectIsNotTouched(t *testing.T) {
	c, _ := testContext(t)
	damage := types.Action{
		Reflexive:       true,
		Delay:           5,
		SubjectOverride: types.NoInitial,
		DirectOverride:  types.NoInitial,
		Args:            types.Alter{Kind: types.AlterDamage, Minimum: -10},
	}

	o := spawn(t, c, baseShip, 0)
	for o.ID < 7 {
		c.Pool.Free(o)
		o = spawn(t, c, baseShip, 0)
	}
	index := o.Index
	c.Execute([]types.Action{damage}, o, nil, nil, true)

	c.Pool.Free(o)
	reused := spawn(t, c, baseShip, 1)
	if reused.Index != index || reused.ID != 8 {
		t.Fatalf("reused slot = (%d, %d), want (%d, 8)", reused.Index, reused.ID, index)
	}

	c.ExecuteQueue(5)
	if reused.Health != 100 {
		t.Errorf("reused.Health = %d, want 100", reused.Health)
	}
}

func TestLiveSubjectIsResolved(t *testing.T) {
	c, _ := testContext(t)
	o := spawn(t, c, baseShip, 0)
	damage := types.Action{
		Reflexive:       true,
		Delay:           5,
		SubjectOverride: types.NoInitial,
		DirectOverride:  types.NoInitial,
		Args:            types.Alter{Kind: types.AlterDamage, Minimum: -10},
	}
	c.Execute([]types.Action{damage}, o, nil, nil, true)
	c.ExecuteQueue(5)
	if o.Health != 90 {
		t.Errorf("Health = %d, want 90", o.Health)
	}
}

func TestOwnerRelation(t *testing.T) {
	tests := []struct {
		name  string
		owner int8
		want  bool
	}{
		{"any", types.OwnerAny, true},
		{"same", types.OwnerSame, false},
		{"different", types.OwnerDifferent, true},
		{"invalid", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t)
			subject := spawn(t, c, baseShip, 0)
			obj := spawn(t, c, baseShip, 1)
			obj.Target = subject.Handle()

			a := act(types.NilTarget{})
			a.Owner = tt.owner
			c.Execute([]types.Action{a}, subject, obj, nil, true)

			if got := obj.Target == object.NoHandle; got != tt.want {
				t.Errorf("target cleared = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInclusiveFilterChecksObject(t *testing.T) {
	c, _ := testContext(t)
	subject := spawn(t, c, baseShip, 0)
	subject.Target = subject.Handle()

	a := act(types.NilTarget{})
	a.InclusiveFilter = types.CanTurn
	c.Execute([]types.Action{a}, subject, nil, nil, true)
	if subject.Target == object.NoHandle {
		t.Error("filter should be checked against the missing object and reject")
	}

	flare := spawn(t, c, baseFlare, 0)
	c.Execute([]types.Action{a}, subject, flare, nil, true)
	if flare.Target != object.NoHandle {
		t.Error("flare target should be untouched")
	}

	target := spawn(t, c, baseShip, 1)
	target.Target = subject.Handle()
	c.Execute([]types.Action{a}, subject, target, nil, true)
	if target.Target != object.NoHandle {
		t.Error("filter should accept an object with can_turn")
	}
}

func TestTagFilter(t *testing.T) {
	c, _ := testContext(t)
	ship := spawn(t, c, baseShip, 0)
	flare := spawn(t, c, baseFlare, 0)

	a := types.Action{ExclusiveFilter: types.TagFilter, LevelTag: "capital"}
	if !AppliesTo(&a, ship) {
		t.Error("tag filter should match capital ship")
	}
	if AppliesTo(&a, flare) {
		t.Error("tag filter should not match untagged flare")
	}
}

func TestFocus(t *testing.T) {
	tests := []struct {
		name        string
		reflexive   bool
		withObject  bool
		wantSubject int64
		wantObject  int64
	}{
		{"object", false, true, 100, 90},
		{"reflexive", true, true, 90, 100},
		{"no object", false, false, 90, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t)
			subject := spawn(t, c, baseShip, 0)
			obj := spawn(t, c, baseShip, 1)
			a := act(types.Alter{Kind: types.AlterDamage, Minimum: -10})
			a.Reflexive = tt.reflexive
			direct := obj
			if !tt.withObject {
				direct = nil
			}
			c.Execute([]types.Action{a}, subject, direct, nil, true)
			if subject.Health != tt.wantSubject || obj.Health != tt.wantObject {
				t.Errorf("health = (%d, %d), want (%d, %d)",
					subject.Health, obj.Health, tt.wantSubject, tt.wantObject)
			}
		})
	}
}

func TestNoSubjectOrObjectUsesZeroObject(t *testing.T) {
	c, _ := testContext(t)
	c.Execute([]types.Action{
		act(types.Alter{Kind: types.AlterDamage, Minimum: -10}),
		act(types.Die{}),
		act(types.NilTarget{}),
	}, nil, nil, nil, true)
	if c.Pool.Len() != 0 {
		t.Errorf("Pool.Len = %d, want 0", c.Pool.Len())
	}
}

func TestOverrides(t *testing.T) {
	c, _ := testContext(t)
	home := c.CreateInitial(0)
	away := c.CreateInitial(1)
	if home == nil || away == nil {
		t.Fatal("CreateInitial returned nil")
	}

	a := act(types.Alter{Kind: types.AlterDamage, Minimum: -25})
	a.DirectOverride = 1
	c.Execute([]types.Action{a}, home, nil, nil, true)
	if away.Health != 75 || home.Health != 100 {
		t.Errorf("health = (home %d, away %d), want (100, 75)", home.Health, away.Health)
	}

	a = act(types.Alter{Kind: types.AlterDamage, Minimum: -25})
	a.Reflexive = true
	a.SubjectOverride = 0
	c.Execute([]types.Action{a}, away, nil, nil, true)
	if home.Health != 75 {
		t.Errorf("home.Health = %d, want 75", home.Health)
	}
}

func TestConditionsCheckedOnce(t *testing.T) {
	c, r := testContext(t)
	c.Execute([]types.Action{
		act(types.ChangeScore{Player: 0, Which: 0, Amount: 1}),
		act(types.ChangeScore{Player: 0, Which: 0, Amount: 1}),
		act(msg(7)),
	}, nil, nil, nil, true)
	if r.checks != 1 {
		t.Errorf("checks = %d, want 1", r.checks)
	}
	if got := c.Admirals.Score(0, 0); got != 2 {
		t.Errorf("score = %d, want 2", got)
	}

	c.Execute([]types.Action{act(types.NilTarget{})}, nil, nil, nil, true)
	if r.checks != 1 {
		t.Errorf("checks = %d after nil_target, want 1", r.checks)
	}
}

func TestScoreForFocusOwner(t *testing.T) {
	c, _ := testContext(t)
	subject := spawn(t, c, baseShip, 1)
	c.Execute([]types.Action{act(types.ChangeScore{Player: types.NoAdmiral, Which: 1, Amount: 3})}, subject, nil, nil, true)
	if got := c.Admirals.Score(1, 1); got != 3 {
		t.Errorf("Score(1, 1) = %d, want 3", got)
	}
}

func TestCreateObject(t *testing.T) {
	c, _ := testContext(t)
	subject := spawn(t, c, baseShip, 1)
	subject.Location = types.Point{X: 100, Y: -50}
	c.Execute([]types.Action{act(types.CreateObject{Base: baseFlare, CountMin: 3})}, subject, nil, nil, true)

	if c.Pool.Len() != 4 {
		t.Fatalf("Pool.Len = %d, want 4", c.Pool.Len())
	}
	c.Pool.Each(func(o *object.SpaceObject) {
		if o == subject {
			return
		}
		if o.Owner != 1 || o.Location != subject.Location || o.Age != 30 {
			t.Errorf("product = owner %d at %v age %d, want owner 1 at %v age 30",
				o.Owner, o.Location, o.Age, subject.Location)
		}
	})
}

func TestDestroyRunsOnDestroy(t *testing.T) {
	c, r := testContext(t)
	mine := spawn(t, c, baseMine, 0)
	c.Execute([]types.Action{act(types.Die{Kind: types.DieDestroy})}, mine, nil, nil, true)

	if mine.State != object.ToBeFreed {
		t.Errorf("State = %v, want ToBeFreed", mine.State)
	}
	if got := c.Admirals.Score(0, 2); got != 1 {
		t.Errorf("score = %d, want 1 from on_destroy", got)
	}
	if r.checks != 1 {
		t.Errorf("checks = %d, want 1", r.checks)
	}
	if n := c.Reap(); n != 1 {
		t.Errorf("Reap = %d, want 1", n)
	}
	if c.Pool.Len() != 0 {
		t.Errorf("Pool.Len = %d, want 0", c.Pool.Len())
	}
}

func TestPlayerShipLeavesBody(t *testing.T) {
	c, _ := testContext(t)
	ship := c.CreateInitial(0)
	ship.Attributes |= types.IsHumanControlled
	c.Globals.ControlObject = ship.Handle()

	c.Execute([]types.Action{act(types.Die{})}, ship, nil, nil, true)

	body := c.Pool.Get(c.Globals.ControlObject)
	if body == nil || body.BaseID != baseBody {
		t.Fatalf("control object = %v, want floating body", body)
	}
	if body.Attributes&types.IsHumanControlled == 0 || ship.Attributes&types.IsHumanControlled != 0 {
		t.Error("human control should move to the body")
	}
}

func TestKeys(t *testing.T) {
	c, _ := testContext(t)
	c.Execute([]types.Action{act(types.DisableKeys{Mask: 0b1011})}, nil, nil, nil, true)
	c.Execute([]types.Action{act(types.EnableKeys{Mask: 0b0010})}, nil, nil, nil, true)
	if c.Globals.KeyMask != 0b1001 {
		t.Errorf("KeyMask = %04b, want 1001", c.Globals.KeyMask)
	}
}

func TestZoom(t *testing.T) {
	c, r := testContext(t)
	c.Execute([]types.Action{act(types.SetZoom{Zoom: types.ZoomQuarter})}, nil, nil, nil, true)
	if c.Globals.Zoom != types.ZoomQuarter || r.status != "Zoom: 1:4" {
		t.Errorf("zoom = %v status %q, want 1:4", c.Globals.Zoom, r.status)
	}
	c.Execute([]types.Action{act(types.SetZoom{Zoom: types.ZoomQuarter})}, nil, nil, nil, true)
	if len(r.sounds) != 1 {
		t.Errorf("beeps = %d, want 1", len(r.sounds))
	}
	if r.beep.volume != mediumVolume || r.beep.persistence != mediumPersistence || r.beep.priority != lowPriority {
		t.Errorf("beep = %+v, want medium volume, medium persistence, low priority", r.beep)
	}
}

func TestSoundRange(t *testing.T) {
	c, r := testContext(t)
	for i := 0; i < 20; i++ {
		c.Execute([]types.Action{act(types.PlaySound{IDMin: 500, IDRange: 2})}, nil, nil, nil, true)
	}
	for _, id := range r.sounds {
		if id < 500 || id > 502 {
			t.Errorf("sound id = %d, want in [500, 502]", id)
		}
	}
}

func TestComputerSelectAndWinner(t *testing.T) {
	c, _ := testContext(t)
	subject := spawn(t, c, baseShip, 1)
	c.Execute([]types.Action{
		act(types.ComputerSelect{Screen: types.ScreenBuild, Line: 2}),
		act(types.DeclareWinner{Player: types.NoAdmiral, NextLevel: 4, Text: "done"}),
	}, subject, nil, nil, true)

	if c.Globals.Screen != types.ScreenBuild || c.Globals.Line != 2 {
		t.Errorf("computer = (%v, %d), want (build, 2)", c.Globals.Screen, c.Globals.Line)
	}
	w := c.Globals.Winner
	if w == nil || w.Admiral != 1 || w.NextLevel != 4 {
		t.Errorf("Winner = %+v, want admiral 1 next 4", w)
	}
}

func TestAssumeInitial(t *testing.T) {
	c, _ := testContext(t)
	c.CreateInitial(0)
	o := spawn(t, c, baseShip, 0)
	c.Admirals.AlterScore(0, 0, 1)
	c.Execute([]types.Action{act(types.AssumeInitial{Which: 0})}, o, nil, nil, true)
	if c.InitialObject(1) != o {
		t.Error("initial 1 should now refer to o")
	}
}

func TestAlter(t *testing.T) {
	tests := []struct {
		name  string
		alter types.Alter
		check func(t *testing.T, c *Context, r *recorder, o *object.SpaceObject)
	}{
		{"energy clamps", types.Alter{Kind: types.AlterEnergy, Minimum: 500}, func(t *testing.T, _ *Context, _ *recorder, o *object.SpaceObject) {
			if o.Energy != 50 {
				t.Errorf("Energy = %d, want 50", o.Energy)
			}
		}},
		{"heal caps", types.Alter{Kind: types.AlterDamage, Minimum: 40}, func(t *testing.T, _ *Context, _ *recorder, o *object.SpaceObject) {
			if o.Health != 100 {
				t.Errorf("Health = %d, want 100", o.Health)
			}
		}},
		{"max velocity", types.Alter{Kind: types.AlterMaxVelocity, Minimum: int32(types.FixedFromInt(3))}, func(t *testing.T, _ *Context, _ *recorder, o *object.SpaceObject) {
			if o.MaxVelocity != types.FixedFromInt(3) {
				t.Errorf("MaxVelocity = %v, want 3", o.MaxVelocity)
			}
		}},
		{"absolute age", types.Alter{Kind: types.AlterAge, Minimum: 90}, func(t *testing.T, _ *Context, _ *recorder, o *object.SpaceObject) {
			if o.Age != 90 {
				t.Errorf("Age = %v, want 90", o.Age)
			}
		}},
		{"relative age clamps", types.Alter{Kind: types.AlterAge, Minimum: -500, Relative: true}, func(t *testing.T, _ *Context, _ *recorder, o *object.SpaceObject) {
			if o.Age != -1-500 {
				t.Errorf("Age = %v, want -501 for a non-expiring object", o.Age)
			}
		}},
		{"absolute owner", types.Alter{Kind: types.AlterOwner, Minimum: 1}, func(t *testing.T, _ *Context, _ *recorder, o *object.SpaceObject) {
			if o.Owner != 1 {
				t.Errorf("Owner = %d, want 1", o.Owner)
			}
		}},
		{"relative cash", types.Alter{Kind: types.AlterAbsoluteCash, Minimum: int32(types.FixedFromInt(200)), Relative: true}, func(t *testing.T, c *Context, _ *recorder, _ *object.SpaceObject) {
			if got := c.Admirals.Get(0).Cash; got != types.FixedFromInt(200) {
				t.Errorf("Cash = %v, want 200", got)
			}
		}},
		{"cash to admiral", types.Alter{Kind: types.AlterAbsoluteCash, Minimum: int32(types.FixedFromInt(5)), Range: 1}, func(t *testing.T, c *Context, _ *recorder, _ *object.SpaceObject) {
			if got := c.Admirals.Get(1).Cash; got != types.FixedFromInt(5) {
				t.Errorf("Cash = %v, want 5", got)
			}
		}},
		{"one condition", types.Alter{Kind: types.AlterConditionTrueYet, Minimum: 3, Relative: true}, func(t *testing.T, _ *Context, r *recorder, _ *object.SpaceObject) {
			if want := map[types.ConditionID]bool{3: true}; !reflect.DeepEqual(r.trueYet, want) {
				t.Errorf("trueYet = %v, want %v", r.trueYet, want)
			}
		}},
		{"condition range", types.Alter{Kind: types.AlterConditionTrueYet, Minimum: 1, Range: 2}, func(t *testing.T, _ *Context, r *recorder, _ *object.SpaceObject) {
			if want := map[types.ConditionID]bool{1: false, 2: false, 3: false}; !reflect.DeepEqual(r.trueYet, want) {
				t.Errorf("trueYet = %v, want %v", r.trueYet, want)
			}
		}},
		{"absolute location", types.Alter{Kind: types.AlterAbsoluteLocation, Minimum: 7, Range: -3}, func(t *testing.T, _ *Context, _ *recorder, o *object.SpaceObject) {
			if want := (types.Point{X: 7, Y: -3}); o.Location != want {
				t.Errorf("Location = %v, want %v", o.Location, want)
			}
		}},
		{"cloak", types.Alter{Kind: types.AlterCloak}, func(t *testing.T, _ *Context, _ *recorder, o *object.SpaceObject) {
			if !o.Cloaked {
				t.Error("Cloaked = false, want true")
			}
		}},
		{"hidden", types.Alter{Kind: types.AlterHidden, Minimum: 0, Range: 1}, func(t *testing.T, c *Context, _ *recorder, _ *object.SpaceObject) {
			if c.InitialObject(0) == nil || c.InitialObject(1) == nil {
				t.Error("both initials should be unhidden")
			}
		}},
		{"base type", types.Alter{Kind: types.AlterBaseType, Minimum: int32(baseMine)}, func(t *testing.T, _ *Context, _ *recorder, o *object.SpaceObject) {
			if o.BaseID != baseMine || o.Health != 1 {
				t.Errorf("base = %d health %d, want mine with 1", o.BaseID, o.Health)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r := testContext(t)
			o := spawn(t, c, baseShip, 0)
			o.Health = 80
			o.Age = -1
			a := act(tt.alter)
			a.Reflexive = true
			c.Execute([]types.Action{a}, o, nil, nil, true)
			tt.check(t, c, r, o)
		})
	}
}

func TestAlterMotion(t *testing.T) {
	heavy := func(mass types.Fixed) *types.BaseObject {
		return &types.BaseObject{Name: "Hulk", Mass: mass, Attributes: types.CanTurn}
	}
	tests := []struct {
		name      string
		alter     types.Alter
		reflexive bool
		setup     func(subject, obj *object.SpaceObject)
		check     func(t *testing.T, subject, obj *object.SpaceObject)
	}{
		{"spin default rate", types.Alter{Kind: types.AlterSpin, Minimum: int32(types.FixedOne)}, true,
			func(s, _ *object.SpaceObject) { s.Base = heavy(types.FixedOne) },
			func(t *testing.T, s, _ *object.SpaceObject) {
				if s.TurnVelocity != 2 {
					t.Errorf("TurnVelocity raw = %d, want 2", s.TurnVelocity)
				}
			}},
		{"spin rotation frame", types.Alter{Kind: types.AlterSpin, Minimum: int32(types.FixedOne)}, true,
			func(s, _ *object.SpaceObject) {
				s.Base = heavy(types.FixedFromInt(2))
				s.Base.Frame = types.RotationFrame{TurnRate: types.FixedFromInt(3)}
				s.Attributes |= types.ShapeFromDirection
			},
			func(t *testing.T, s, _ *object.SpaceObject) {
				if want := types.FixedFromFloat(1.5); s.TurnVelocity != want {
					t.Errorf("TurnVelocity = %v, want %v", s.TurnVelocity, want)
				}
			}},
		{"spin massless", types.Alter{Kind: types.AlterSpin, Minimum: int32(types.FixedOne)}, true,
			func(s, _ *object.SpaceObject) { s.Base = heavy(0) },
			func(t *testing.T, s, _ *object.SpaceObject) {
				if s.TurnVelocity != -1 {
					t.Errorf("TurnVelocity = %d, want -1", s.TurnVelocity)
				}
			}},
		{"spin needs can turn", types.Alter{Kind: types.AlterSpin, Minimum: int32(types.FixedOne)}, true,
			func(s, _ *object.SpaceObject) {
				s.Base = heavy(types.FixedOne)
				s.Attributes &^= types.CanTurn
			},
			func(t *testing.T, s, _ *object.SpaceObject) {
				if s.TurnVelocity != 0 {
					t.Errorf("TurnVelocity = %d, want 0", s.TurnVelocity)
				}
			}},
		{"offline", types.Alter{Kind: types.AlterOffline, Minimum: int32(types.FixedFromInt(10))}, true,
			func(s, _ *object.SpaceObject) { s.Base = heavy(types.FixedFromInt(2)) },
			func(t *testing.T, s, _ *object.SpaceObject) {
				if s.OfflineTime != 5 {
					t.Errorf("OfflineTime = %d, want 5", s.OfflineTime)
				}
			}},
		{"absolute thrust", types.Alter{Kind: types.AlterThrust, Minimum: int32(types.FixedFromInt(4))}, true,
			func(s, _ *object.SpaceObject) { s.Thrust = types.FixedOne },
			func(t *testing.T, s, _ *object.SpaceObject) {
				if s.Thrust != types.FixedFromInt(4) {
					t.Errorf("Thrust = %v, want 4", s.Thrust)
				}
			}},
		{"relative thrust", types.Alter{Kind: types.AlterThrust, Minimum: int32(types.FixedFromInt(4)), Relative: true}, true,
			func(s, _ *object.SpaceObject) { s.Thrust = types.FixedOne },
			func(t *testing.T, s, _ *object.SpaceObject) {
				if s.Thrust != types.FixedFromInt(5) {
					t.Errorf("Thrust = %v, want 5", s.Thrust)
				}
			}},
		{"reflexive burst", types.Alter{Kind: types.AlterVelocity, Minimum: int32(types.FixedFromInt(2)), Relative: true}, true,
			func(s, _ *object.SpaceObject) { s.Velocity = types.FixedPoint{X: types.FixedOne} },
			func(t *testing.T, s, _ *object.SpaceObject) {
				if want := (types.FixedPoint{X: types.FixedFromInt(3)}); s.Velocity != want {
					t.Errorf("Velocity = %v, want %v", s.Velocity, want)
				}
			}},
		{"set along subject heading", types.Alter{Kind: types.AlterVelocity, Minimum: int32(types.FixedFromInt(3))}, false,
			nil,
			func(t *testing.T, _, o *object.SpaceObject) {
				if want := (types.FixedPoint{X: types.FixedFromInt(3)}); o.Velocity != want {
					t.Errorf("Velocity = %v, want %v", o.Velocity, want)
				}
			}},
		{"push divides by object mass", types.Alter{Kind: types.AlterVelocity, Relative: true}, false,
			func(s, o *object.SpaceObject) {
				s.Base = heavy(0)
				s.Velocity = types.FixedPoint{X: types.FixedOne}
				o.Base = heavy(types.FixedOne)
				o.MaxVelocity = types.FixedFromInt(10)
			},
			func(t *testing.T, _, o *object.SpaceObject) {
				if want := (types.FixedPoint{X: 64}); o.Velocity != want {
					t.Errorf("Velocity = %v, want %v", o.Velocity, want)
				}
			}},
		{"push skips massless object", types.Alter{Kind: types.AlterVelocity, Relative: true}, false,
			func(s, o *object.SpaceObject) {
				s.Base = heavy(types.FixedOne)
				s.Velocity = types.FixedPoint{X: types.FixedOne}
				o.Base = heavy(0)
				o.MaxVelocity = types.FixedFromInt(10)
			},
			func(t *testing.T, _, o *object.SpaceObject) {
				if o.Velocity != (types.FixedPoint{}) {
					t.Errorf("Velocity = %v, want unchanged", o.Velocity)
				}
			}},
		{"push skips object without max velocity", types.Alter{Kind: types.AlterVelocity, Relative: true}, false,
			func(s, o *object.SpaceObject) {
				s.Velocity = types.FixedPoint{X: types.FixedOne}
				o.Base = heavy(types.FixedOne)
				o.MaxVelocity = 0
			},
			func(t *testing.T, _, o *object.SpaceObject) {
				if o.Velocity != (types.FixedPoint{}) {
					t.Errorf("Velocity = %v, want unchanged", o.Velocity)
				}
			}},
		{"push clamps to max velocity", types.Alter{Kind: types.AlterVelocity, Relative: true}, false,
			func(s, o *object.SpaceObject) {
				s.Velocity = types.FixedPoint{X: types.FixedFromInt(4096)}
				o.Base = heavy(types.FixedOne)
				o.MaxVelocity = types.FixedFromInt(1)
			},
			func(t *testing.T, _, o *object.SpaceObject) {
				if want := (types.FixedPoint{X: types.FixedOne}); o.Velocity != want {
					t.Errorf("Velocity = %v, want %v", o.Velocity, want)
				}
			}},
		{"brake", types.Alter{Kind: types.AlterVelocity, Minimum: -int32(types.FixedOne) / 2, Relative: true}, false,
			func(_, o *object.SpaceObject) {
				o.Base = heavy(types.FixedOne)
				o.MaxVelocity = types.FixedFromInt(10)
				o.Velocity = types.FixedPoint{X: types.FixedFromInt(2)}
			},
			func(t *testing.T, _, o *object.SpaceObject) {
				if want := (types.FixedPoint{X: types.FixedOne}); o.Velocity != want {
					t.Errorf("Velocity = %v, want %v", o.Velocity, want)
				}
			}},
		{"location around subject", types.Alter{Kind: types.AlterLocation, Relative: true}, false,
			func(s, _ *object.SpaceObject) { s.Location = types.Point{X: 50, Y: -20} },
			func(t *testing.T, _, o *object.SpaceObject) {
				if want := (types.Point{X: 50, Y: -20}); o.Location != want {
					t.Errorf("Location = %v, want %v", o.Location, want)
				}
			}},
		{"location scatter", types.Alter{Kind: types.AlterLocation, Minimum: 10}, false,
			nil,
			func(t *testing.T, _, o *object.SpaceObject) {
				if o.Location.X < -10 || o.Location.X >= 10 || o.Location.Y < -10 || o.Location.Y >= 10 {
					t.Errorf("Location = %v, want within 10 of the origin", o.Location)
				}
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t)
			subject := spawn(t, c, baseShip, 0)
			obj := spawn(t, c, baseShip, 1)
			if tt.setup != nil {
				tt.setup(subject, obj)
			}
			a := act(tt.alter)
			a.Reflexive = tt.reflexive
			direct := obj
			if tt.reflexive {
				direct = nil
			}
			c.Execute([]types.Action{a}, subject, direct, nil, true)
			tt.check(t, subject, obj)
		})
	}
}

func TestAlterWeapons(t *testing.T) {
	tests := []struct {
		name string
		kind types.AlterKind
		slot func(o *object.SpaceObject) *object.Weapon
	}{
		{"pulse", types.AlterWeapon1, func(o *object.SpaceObject) *object.Weapon { return &o.Pulse }},
		{"beam", types.AlterWeapon2, func(o *object.SpaceObject) *object.Weapon { return &o.Beam }},
		{"special", types.AlterSpecial, func(o *object.SpaceObject) *object.Weapon { return &o.Special }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t)
			o := spawn(t, c, baseShip, 0)
			a := act(types.Alter{Kind: tt.kind, Minimum: int32(baseGun)})
			a.Reflexive = true
			c.Execute([]types.Action{a}, o, nil, nil, true)

			w := tt.slot(o)
			if w.Base != baseGun || w.Ammo != 5 {
				t.Errorf("weapon = %+v, want gun with 5 ammo", *w)
			}
			if o.LongestWeaponRange != 300 || o.ShortestWeaponRange != 300 {
				t.Errorf("ranges = %d, %d; want 300, 300", o.LongestWeaponRange, o.ShortestWeaponRange)
			}

			a = act(types.Alter{Kind: tt.kind, Minimum: int32(types.NoBase)})
			a.Reflexive = true
			c.Execute([]types.Action{a}, o, nil, nil, true)
			if w.Base != types.NoBase || o.LongestWeaponRange != 0 {
				t.Errorf("after removal weapon = %+v, longest %d", *w, o.LongestWeaponRange)
			}
		})
	}
}

func TestAlterOccupation(t *testing.T) {
	c, r := testContext(t)
	subject := spawn(t, c, baseShip, 1)
	outpost := spawn(t, c, baseShip, 0)
	outpost.Base = &types.BaseObject{Name: "Outpost", OccupyCount: 3}

	occupy := func(n int32) {
		c.Execute([]types.Action{act(types.Alter{Kind: types.AlterOccupation, Minimum: n})}, subject, outpost, nil, true)
	}
	occupy(2)
	if outpost.Occupier != 1 || outpost.Occupation != 2 || outpost.Owner != 0 {
		t.Fatalf("occupier %d occupation %d owner %d, want 1, 2, 0", outpost.Occupier, outpost.Occupation, outpost.Owner)
	}
	occupy(1)
	if outpost.Owner != 1 || outpost.Occupation != 0 {
		t.Errorf("owner %d occupation %d, want captured by 1", outpost.Owner, outpost.Occupation)
	}
	if r.status != "Cruiser captured by Ozy" {
		t.Errorf("status = %q", r.status)
	}
}

func TestLandAt(t *testing.T) {
	c, _ := testContext(t)
	ship := spawn(t, c, baseShip, 0)
	ship.Attributes |= types.IsPlayerShip
	planet := spawn(t, c, baseShip, 1)

	c.Execute([]types.Action{act(types.LandAt{Speed: 3})}, ship, planet, nil, true)
	if ship.Presence != object.PresenceLanding {
		t.Errorf("Presence = %v, want landing", ship.Presence)
	}
	if want := int64(types.ScaleOne) | 3<<16; ship.PresenceData != want {
		t.Errorf("PresenceData = %#x, want %#x", ship.PresenceData, want)
	}
	if ship.Attributes&types.IsPlayerShip != 0 {
		t.Error("player control should pass to the floating body")
	}
	if c.Pool.Len() != 3 {
		t.Errorf("Pool.Len = %d, want 3 with the body", c.Pool.Len())
	}
}

func TestEnterWarp(t *testing.T) {
	c, _ := testContext(t)
	ship := spawn(t, c, baseShip, 0)
	ship.Base = &types.BaseObject{Name: "Cruiser", WarpSpeed: types.FixedFromInt(5)}
	ship.Attributes |= types.OccupiesSpace
	ship.Location = types.Point{X: 9, Y: 9}

	c.Execute([]types.Action{act(types.EnterWarp{})}, ship, nil, nil, true)
	if ship.Presence != object.PresenceWarpIn || ship.PresenceData != int64(types.FixedFromInt(5)) {
		t.Errorf("presence = %v data %d, want warp-in at speed 5", ship.Presence, ship.PresenceData)
	}
	if ship.Attributes&types.OccupiesSpace != 0 {
		t.Error("OccupiesSpace should be cleared")
	}
	var flares int
	c.Pool.Each(func(o *object.SpaceObject) {
		if o.BaseID == baseFlare && o.Location == ship.Location {
			flares++
		}
	})
	if flares != 1 {
		t.Errorf("flares = %d, want 1", flares)
	}
}

func TestOwnerRelationMissingObject(t *testing.T) {
	tests := []struct {
		name  string
		owner int8
		want  int64
	}{
		{"same", types.OwnerSame, 90},
		{"different", types.OwnerDifferent, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t)
			subject := spawn(t, c, baseShip, 0)
			a := act(types.Alter{Kind: types.AlterDamage, Minimum: -10})
			a.Owner = tt.owner
			c.Execute([]types.Action{a}, subject, nil, nil, true)
			if subject.Health != tt.want {
				t.Errorf("Health = %d, want %d", subject.Health, tt.want)
			}
		})
	}
}
