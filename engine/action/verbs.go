package action

import (
	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/types"
)

// Sound resources used by actions themselves.
const (
	SoundComputerBeep = 502
)

// Playback settings for interface beeps.
const (
	mediumVolume      = 128
	mediumPersistence = types.Ticks(20)
	lowPriority       = 2
)

var zoomNames = [...]string{"2:1", "1:1", "1:2", "1:4", "1:16", "foe", "object", "all"}

// ZoomName returns the display name of z.
func ZoomName(z types.Zoom) string {
	if z < 0 || int(z) >= len(zoomNames) {
		return "unknown"
	}
	return zoomNames[z]
}

func (c *Context) dispatch(a *types.Action, focus, subject, obj *object.SpaceObject, offset *types.Point) {
	switch args := a.Args.(type) {
	case types.CreateObject:
		// Products spawn around the subject and aim where the focus aims.
		c.createObjects(a, args, subject, focus, offset)
	case types.PlaySound:
		c.playSound(args, focus)
	case types.MakeSparks:
		c.Screen.Sparks(args.Count, args.Speed, args.VelocityRange, args.Hue, focus.Location)
	case types.Die:
		c.die(args, focus, subject)
	case types.NilTarget:
		focus.Target = object.NoHandle
		focus.LastTarget = object.NoHandle
	case types.Alter:
		c.alter(a, args, focus, subject, obj)
	case types.LandAt:
		c.landAt(args, subject)
	case types.EnterWarp:
		c.enterWarp(subject)
	case types.ChangeScore:
		c.Admirals.AlterScore(c.scoringAdmiral(args.Player, focus), args.Which, args.Amount)
	case types.DeclareWinner:
		c.declareWinner(args, focus)
	case types.DisplayMessage:
		c.Messages.Start(args.ID, args.ID+args.Pages-1)
		c.Globals.MessageID = args.ID
		c.Globals.MessagePage = 1
	case types.SetDestination:
		c.SetDestination(subject, focus)
	case types.ActivateSpecial:
		c.ActivateSpecial(subject)
	case types.ColorFlash:
		c.Screen.Flash(args.Length, args.Hue, args.Shade)
	case types.EnableKeys:
		c.Globals.KeyMask &^= args.Mask
	case types.DisableKeys:
		c.Globals.KeyMask |= args.Mask
	case types.SetZoom:
		if args.Zoom != c.Globals.Zoom {
			c.Globals.Zoom = args.Zoom
			c.Sound.Play(SoundComputerBeep, mediumVolume, mediumPersistence, lowPriority, nil)
			c.setStatus("Zoom: " + ZoomName(args.Zoom))
		}
	case types.ComputerSelect:
		c.Globals.Screen = args.Screen
		c.Globals.Line = args.Line
	case types.AssumeInitial:
		i := args.Which + c.Admirals.Score(0, 0)
		if i >= 0 && int(i) < len(c.Initials) {
			c.Initials[i] = focus.Handle()
		}
	}
}

func (c *Context) createObjects(a *types.Action, args types.CreateObject, origin, aim *object.SpaceObject, offset *types.Point) {
	base := c.Base(args.Base)
	if base == nil {
		return
	}
	count := args.CountMin + origin.Random.Next(args.CountRange)
	for i := int32(0); i < count; i++ {
		var velocity types.FixedPoint
		if args.VelocityRelative {
			velocity = origin.Velocity
		}
		var direction int32
		switch {
		case base.Attributes&types.AutoTarget != 0:
			direction = aim.TargetAngle
		case args.DirectionRelative:
			direction = origin.Direction
		}
		at := origin.Location
		if offset != nil {
			at.X += offset.X
			at.Y += offset.Y
		}
		if d := args.RandomDistance; d > 0 {
			at.X += origin.Random.Next(d*2) - d
			at.Y += origin.Random.Next(d*2) - d
		}

		product := c.CreateObject(args.Base, velocity, at, direction, origin.Owner)
		if product == nil {
			continue
		}
		if product.Attributes&types.CanAcceptDestination != 0 && a.Reflexive {
			switch {
			case product.Owner < 0:
				product.Dest = origin.Handle()
				product.Arrived = false
			case !args.SetDest:
				c.SetDestination(product, origin)
			default:
				if dest := c.Pool.Get(origin.Dest); dest != nil {
					c.SetDestination(product, dest)
				}
			}
		}
		product.Target = origin.Target
	}
}

func (c *Context) playSound(args types.PlaySound, focus *object.SpaceObject) {
	id := args.IDMin
	if args.IDRange > 0 {
		id += focus.Random.Next(args.IDRange + 1)
	}
	at := focus
	if args.Absolute {
		at = nil
	}
	c.Sound.Play(id, args.Volume, args.Persistence, args.Priority, at)
}

func (c *Context) die(args types.Die, focus, subject *object.SpaceObject) {
	destroy := false
	switch args.Kind {
	case types.DieExpire:
		focus = subject
	case types.DieDestroy:
		focus = subject
		destroy = true
	}
	if focus.Attributes&(types.IsPlayerShip|types.RemoteOrHuman) != 0 && !focus.Base.DestroyDontDie {
		c.CreateFloatingBody(focus)
	}
	if destroy {
		c.DestroyObject(focus)
		return
	}
	focus.State = object.ToBeFreed
}

func (c *Context) landAt(args types.LandAt, subject *object.SpaceObject) {
	if subject.Attributes&(types.IsPlayerShip|types.RemoteOrHuman) != 0 {
		c.CreateFloatingBody(subject)
	}
	subject.Presence = object.PresenceLanding
	subject.PresenceData = int64(subject.Base.NaturalScale()) | int64(args.Speed)<<16
}

func (c *Context) enterWarp(subject *object.SpaceObject) {
	subject.Presence = object.PresenceWarpIn
	subject.PresenceData = int64(subject.Base.WarpSpeed)
	subject.Attributes &^= types.OccupiesSpace
	c.CreateObject(c.Scenario.Info.WarpInFlare, types.FixedPoint{}, subject.Location, subject.Direction, types.NoAdmiral)
}

// scoringAdmiral resolves player -1 to the focus's owner.
func (c *Context) scoringAdmiral(player types.AdmiralID, focus *object.SpaceObject) types.AdmiralID {
	if player == types.NoAdmiral && !c.isZero(focus) {
		return focus.Owner
	}
	return player
}

func (c *Context) declareWinner(args types.DeclareWinner, focus *object.SpaceObject) {
	w := &Winner{
		Admiral:   c.scoringAdmiral(args.Player, focus),
		NextLevel: args.NextLevel,
		Text:      args.Text,
	}
	c.Globals.Winner = w
	c.Logger.Info("winner declared", "admiral", w.Admiral, "next", w.NextLevel)
}
