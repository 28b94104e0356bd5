package loader

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/chaimleib/antares/loader/field"
	"github.com/chaimleib/antares/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks that every handle the scenario references names a
// definition. Warnings go to logger; errors are returned together.
func validate(s *types.Scenario, names *field.Names, logger *log.Logger) error {
	ve := &ValidationError{}

	dangling := func(t *field.NameTable, defined int) {
		for _, name := range t.Dangling(defined) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("undefined %s %q", t.Kind(), name))
		}
	}
	dangling(names.Bases, len(s.Bases))
	dangling(names.Admirals, len(s.Level.Players))
	dangling(names.Initials, len(s.Level.Initials))
	dangling(names.Conditions, len(s.Level.Conditions))
	dangling(names.Races, len(s.Races))

	lvl := &s.Level
	if lvl.Title == "" {
		ve.Warnings = append(ve.Warnings, "level has no title")
	}
	if len(lvl.Players) == 0 {
		ve.Errors = append(ve.Errors, "level has no players")
	}
	for i, c := range lvl.Conditions {
		if len(c.Action) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("conditions[%d] has no actions", i))
		}
	}
	for i, in := range lvl.Initials {
		if in.Attributes&types.InitialIsPlayerShip != 0 && in.Owner == types.NoAdmiral {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("initials[%d] is a player ship with no owner", i))
		}
	}

	used := make([]bool, len(s.Bases))
	markBases(s, used)
	for i, u := range used {
		if !u {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("object %q is never referenced", s.BaseNames[i]))
		}
	}

	for _, w := range ve.Warnings {
		logger.Warn(w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// markBases sets used[i] for every base the level or another base can
// reach: initials, build lists, weapons and actions that name a base.
func markBases(s *types.Scenario, used []bool) {
	mark := func(id types.BaseID) {
		if id >= 0 && int(id) < len(used) {
			used[id] = true
		}
	}
	markActions := func(actions []types.Action) {
		for _, a := range actions {
			switch args := a.Args.(type) {
			case types.CreateObject:
				mark(args.Base)
			case types.Alter:
				switch args.Kind {
				case types.AlterBaseType, types.AlterWeapon1, types.AlterWeapon2, types.AlterSpecial:
					mark(types.BaseID(args.Minimum))
				}
			}
		}
	}

	for _, id := range []types.BaseID{s.Info.WarpInFlare, s.Info.WarpOutFlare, s.Info.PlayerBody, s.Info.EnergyBlob} {
		mark(id)
	}
	for _, in := range s.Level.Initials {
		mark(in.Base)
		for _, b := range in.Build {
			mark(b)
		}
	}
	for _, c := range s.Level.Conditions {
		markActions(c.Action)
	}
	for _, o := range s.Bases {
		for _, w := range []*types.Weapon{o.Weapons.Pulse, o.Weapons.Beam, o.Weapons.Special} {
			if w != nil {
				mark(w.Base)
			}
		}
		for _, actions := range [][]types.Action{o.OnCreate, o.OnDestroy, o.OnExpire, o.OnCollide, o.OnActivate, o.OnArrive} {
			markActions(actions)
		}
	}
}
