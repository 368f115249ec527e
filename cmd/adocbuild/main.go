package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/adocbuild/cmd/adocbuild/commands"
	ferrors "git.home.luguber.info/inful/adocbuild/internal/foundation/errors"
)

func main() {
	var cli commands.CLI
	parser, err := commands.NewParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&commands.Global{Out: os.Stdout}, &cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
