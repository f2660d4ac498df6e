package cmd

import (
	"fmt"

	"copartwatch/internal/config"
	"copartwatch/internal/seen"
)

type SeenCmd struct {
	List  SeenListCmd  `cmd:"" help:"Print remembered lot numbers."`
	Count SeenCountCmd `cmd:"" help:"Print how many lots are remembered."`
	Add   SeenAddCmd   `cmd:"" help:"Mark lot numbers as already seen."`
	Prune SeenPruneCmd `cmd:"" help:"Forget lot numbers, or everything with --all."`
}

type SeenListCmd struct {
	State string `help:"Path to the seen lots JSON file."`
}

type SeenCountCmd struct {
	State string `help:"Path to the seen lots JSON file."`
}

type SeenAddCmd struct {
	Lots  []string `arg:"" help:"Lot numbers to remember."`
	State string   `help:"Path to the seen lots JSON file."`
}

type SeenPruneCmd struct {
	Lots  []string `arg:"" optional:"" help:"Lot numbers to forget."`
	All   bool     `help:"Forget every remembered lot."`
	State string   `help:"Path to the seen lots JSON file."`
}

func (c *SeenListCmd) Run(ctx *Context) error {
	set, err := seen.Load(config.ResolveStatePath(c.State, ctx.Config))
	if err != nil {
		return err
	}
	for _, id := range set.IDs() {
		if _, err := fmt.Fprintln(ctx.Out, id); err != nil {
			return err
		}
	}
	return nil
}

func (c *SeenCountCmd) Run(ctx *Context) error {
	set, err := seen.Load(config.ResolveStatePath(c.State, ctx.Config))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.Out, set.Len())
	return err
}

func (c *SeenAddCmd) Run(ctx *Context) error {
	path := config.ResolveStatePath(c.State, ctx.Config)
	set, err := seen.Load(path)
	if err != nil {
		return err
	}

	before := set.Len()
	updated := set.Union(c.Lots)
	if err := seen.Save(path, updated); err != nil {
		return err
	}

	ctx.UI.Successf("Added %d lots, %d remembered.", updated.Len()-before, updated.Len())
	return nil
}

func (c *SeenPruneCmd) Run(ctx *Context) error {
	if !c.All && len(c.Lots) == 0 {
		return fmt.Errorf("nothing to prune: pass lot numbers or --all")
	}

	path := config.ResolveStatePath(c.State, ctx.Config)
	set, err := seen.Load(path)
	if err != nil {
		return err
	}

	before := set.Len()
	if c.All {
		set = seen.NewSet()
	} else {
		for _, lot := range c.Lots {
			set.Remove(lot)
		}
	}
	if err := seen.Save(path, set); err != nil {
		return err
	}

	ctx.UI.Successf("Forgot %d lots, %d remembered.", before-set.Len(), set.Len())
	return nil
}
