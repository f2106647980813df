package commands

import (
	"context"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"kshim/installer"
	"kshim/state"
)

// Installer outputs notice recommending installation or activation of the
// customization plugin. Nothing is produced when plugin is active.
func Installer(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("installer")
	tooManyArgs(env, cmd, 1)

	if env.Cfg.Plugin.Present {
		log.Info("Customization plugin is active, no notice necessary")
		return nil
	}

	n := installer.Notice{
		Installed: installer.Installed(env.Cfg.Plugin.Installed),
		AdminURL:  env.Cfg.Plugin.AdminURL,
		Nonce:     env.Cfg.Plugin.Nonce.Reveal(),
	}
	log.Debug("Rendering installer notice", zap.Bool("installed", n.Installed), zap.Stringer("nonce", env.Cfg.Plugin.Nonce))

	out, done, err := output(cmd, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	defer func() {
		if er := done(); er != nil && err == nil {
			err = er
		}
	}()
	return installer.Render(out, n)
}
