package commands

import (
	"fmt"

	"git.home.luguber.info/inful/adocbuild/internal/config"
	ferrors "git.home.luguber.info/inful/adocbuild/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	return RunInit(g, root.Config, i.Force)
}

func RunInit(g *Global, configPath string, force bool) error {
	if err := config.Init(configPath, force); err != nil {
		return ferrors.ConfigError("initialize configuration failed").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	_, _ = fmt.Fprintf(g.out(), "Wrote configuration to %s\n", configPath)
	return nil
}
