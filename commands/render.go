package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"kshim/assets"
	"kshim/fonts"
	"kshim/render"
)

// Render runs single render cycle and outputs resulting page head fragment
// (or just compiled CSS).
func Render(ctx context.Context, cmd *cli.Command) (err error) {
	env, err := prepare(ctx)
	if err != nil {
		return err
	}
	log := env.Log.Named("render")
	tooManyArgs(env, cmd, 1)

	client := &http.Client{Timeout: env.Cfg.Fonts.Timeout}
	f := fonts.New(client, env.DB.Transients(), env.Cfg.Fonts.Options(), env.Log)
	r := render.New(env.Plugin(), env.NewLocal(), f, render.Options{
		ThemeName:     env.Cfg.Theme.Name,
		StylesheetURI: env.Cfg.Theme.StylesheetURI,
	}, env.Log)

	page := assets.New(env.Log)
	res, err := r.Render(ctx, register(env), page)
	if err != nil {
		return err
	}

	var head bytes.Buffer
	if err := page.Render(&head); err != nil {
		return err
	}
	if reg := r.Registry(); reg != nil {
		env.Rpt.StoreData("registry.txt", []byte(reg.String()))
	}
	env.Rpt.StoreData("styles.css", []byte(res.CSS))
	env.Rpt.StoreData("head.html", head.Bytes())

	log.Debug("Render cycle completed",
		zap.Bool("inert", res.Inert), zap.Int("css", len(res.CSS)), zap.Int("fonts", len(res.Fonts)))

	out, done, err := output(cmd, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	defer func() {
		if er := done(); er != nil && err == nil {
			err = er
		}
	}()

	data := head.Bytes()
	if cmd.Bool("css") {
		data = []byte(res.CSS)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("unable to write render results: %w", err)
	}
	return nil
}
