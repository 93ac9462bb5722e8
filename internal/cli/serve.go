package cli

import (
	"github.com/urfave/cli/v2"
)

// ServeCommand starts the HTTP service, optionally overriding the listen address.
type ServeCommand struct {
	opts Options
}

func (cmd *ServeCommand) Command() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server (default if no command given)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on",
				Value: cmd.opts.Config.HTTP.Host,
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
				Value: int(cmd.opts.Config.HTTP.Port),
			},
		},
		Action: cmd.Run,
	}
}

func (cmd *ServeCommand) Run(c *cli.Context) error {
	cfg := *cmd.opts.Config
	if c.IsSet("host") {
		cfg.HTTP.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.HTTP.Port = int32(c.Int("port"))
	}
	return cmd.opts.Serve(&cfg, cmd.opts.Logger, cmd.opts.Version)
}
