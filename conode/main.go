// Conode runs an onet server with the lottery service.
package main

import (
	"os"
	"path/filepath"

	_ "github.com/dedis/blocklot/lottery"
	"go.dedis.ch/cothority/v3"
	"go.dedis.ch/onet/v3/app"
	"go.dedis.ch/onet/v3/cfgpath"
	"go.dedis.ch/onet/v3/log"
	"gopkg.in/urfave/cli.v1"
)

const binaryName = "conode"

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = binaryName
	cliApp.Usage = "run a conode with the lottery service"
	cliApp.Version = "0.1"
	cliApp.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "debug, d",
			Value: 0,
			Usage: "debug-level: 1 for terse, 5 for maximal",
		},
		cli.StringFlag{
			Name:  "config, c",
			Value: filepath.Join(cfgpath.GetConfigPath(binaryName), app.DefaultServerConfig),
			Usage: "configuration file of the server",
		},
	}
	cliApp.Before = func(c *cli.Context) error {
		log.SetDebugVisible(c.Int("debug"))
		return nil
	}
	cliApp.Commands = []cli.Command{
		{
			Name:  "setup",
			Usage: "interactively create the server configuration",
			Action: func(c *cli.Context) error {
				app.InteractiveConfig(cothority.Suite, binaryName)
				return nil
			},
		},
		{
			Name:  "server",
			Usage: "run the server",
			Action: func(c *cli.Context) error {
				app.RunServer(c.GlobalString("config"))
				return nil
			},
		},
	}
	cliApp.Action = func(c *cli.Context) error {
		app.RunServer(c.GlobalString("config"))
		return nil
	}
	log.ErrFatal(cliApp.Run(os.Args))
}
