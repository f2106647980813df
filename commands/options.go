package commands

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"kshim/provider"
	"kshim/values"
)

// Get outputs current value of the field.
func Get(ctx context.Context, cmd *cli.Command) error {
	env, err := prepare(ctx)
	if err != nil {
		return err
	}
	tooManyArgs(env, cmd, 2)

	configID, fieldID := cmd.Args().Get(0), cmd.Args().Get(1)
	if len(configID) == 0 || len(fieldID) == 0 {
		return errors.New("both config and field must be specified")
	}

	p := provider.Select(env.Plugin(), env.NewLocal(), env.Log)
	registerAll(env, p)
	v, err := p.GetOption(configID, fieldID)
	if err != nil {
		return fmt.Errorf("unable to get value of '%s': %w", fieldID, err)
	}

	out, _, _ := output(cmd, "")
	if values.IsStructured(v) {
		data, err := values.Encode(v)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	_, err = fmt.Fprintln(out, values.String(v))
	return err
}

// Set stores value of the field. Values looking like serialized maps or
// lists are stored structured.
func Set(ctx context.Context, cmd *cli.Command) error {
	env, err := prepare(ctx)
	if err != nil {
		return err
	}
	log := env.Log.Named("set")
	tooManyArgs(env, cmd, 2)

	if cmd.Args().Len() < 2 {
		return errors.New("both field and value must be specified")
	}
	fieldID, value := cmd.Args().Get(0), values.MaybeDecode(cmd.Args().Get(1))

	local := env.NewLocal()
	registerAll(env, local)

	configID := cmd.String("config-id")
	if len(configID) == 0 {
		if f, ok := local.Registry().Field(fieldID); ok {
			configID = f.ConfigID
		}
	}
	if len(configID) == 0 {
		log.Debug("Field has no config, storing as theme setting", zap.String("field", fieldID))
		return env.DB.Settings().Set(fieldID, value)
	}
	if err := local.SetOption(configID, fieldID, value); err != nil {
		return fmt.Errorf("unable to set value of '%s': %w", fieldID, err)
	}
	log.Info("Value stored", zap.String("config", configID), zap.String("field", fieldID))
	return nil
}
