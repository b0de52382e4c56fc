package main

import (
	"fmt"
	"os"

	statsservice "github.com/Black-And-White-Club/belote-tracker/app/modules/stats/application"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/urfave/cli/v2"
)

func (r *runner) roundCommand() *cli.Command {
	return &cli.Command{
		Name:  "round",
		Usage: "record, import and delete rounds",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "score a round from raw trick points",
				ArgsUsage: "<game-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "bidder", Usage: "us or them", Required: true},
					&cli.StringFlag{Name: "contract", Usage: "80..160 or capot", Required: true},
					&cli.StringFlag{Name: "trump", Usage: "hearts, diamonds, clubs, spades, no-trump or all-trump", Required: true},
					&cli.IntFlag{Name: "us", Usage: "raw trick points won by us"},
					&cli.IntFlag{Name: "them", Usage: "raw trick points won by them"},
					&cli.StringFlag{Name: "belote", Usage: "team holding Belote and Rebelote"},
					&cli.BoolFlag{Name: "success", Usage: "record the bid as made or failed regardless of points"},
					&cli.StringFlag{Name: "notes"},
				},
				Action: func(c *cli.Context) error {
					gameID, err := requireArg(c, 0, "game-id")
					if err != nil {
						return err
					}
					a, err := r.application(c)
					if err != nil {
						return err
					}

					entry := belotetypes.RoundEntry{
						BidTeam:       belotetypes.Team(c.String("bidder")),
						BidContract:   belotetypes.BeloteContract(c.String("contract")),
						TrumpCard:     belotetypes.TrumpCard(c.String("trump")),
						UsRawPoints:   c.Int("us"),
						ThemRawPoints: c.Int("them"),
						BeloteTeam:    belotetypes.Team(c.String("belote")),
						Notes:         c.String("notes"),
					}
					if c.IsSet("success") {
						success := c.Bool("success")
						entry.BidSuccess = &success
					}

					record, err := a.Service.RecordRound(contextOf(c), gameID, entry)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return r.printJSON(record)
					}
					fmt.Fprintf(r.stdout, "%s: %d - %d\n", record.Round.Summary(), record.Round.UsPoints, record.Round.ThemPoints)
					fmt.Fprintf(r.stdout, "%s %d - %d %s [%s]\n",
						record.Game.UsTeamName, record.Game.UsScore, record.Game.ThemScore, record.Game.ThemTeamName, record.Game.Status)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a round and subtract its points",
				ArgsUsage: "<game-id> <round-id>",
				Action: func(c *cli.Context) error {
					gameID, err := requireArg(c, 0, "game-id")
					if err != nil {
						return err
					}
					roundID, err := requireArg(c, 1, "round-id")
					if err != nil {
						return err
					}
					a, err := r.application(c)
					if err != nil {
						return err
					}
					game, err := a.Service.DeleteRound(contextOf(c), gameID, roundID)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return r.printJSON(game)
					}
					fmt.Fprintf(r.stdout, "Deleted round %s; %s %d - %d %s\n",
						roundID, game.UsTeamName, game.UsScore, game.ThemScore, game.ThemTeamName)
					return nil
				},
			},
			{
				Name:      "import",
				Usage:     "append the rounds of an exported workbook",
				ArgsUsage: "<game-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					gameID, err := requireArg(c, 0, "game-id")
					if err != nil {
						return err
					}
					data, err := os.ReadFile(c.String("file"))
					if err != nil {
						return err
					}
					a, err := r.application(c)
					if err != nil {
						return err
					}
					game, err := a.Service.ImportRounds(contextOf(c), gameID, data)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return r.printJSON(game)
					}
					fmt.Fprintf(r.stdout, "Imported rounds; %s now has %d rounds\n", game.Title, len(game.Rounds))
					return nil
				},
			},
		},
	}
}

func (r *runner) chartCommand() *cli.Command {
	return &cli.Command{
		Name:      "chart",
		Usage:     "render a PNG chart of a game",
		ArgsUsage: "<game-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Value: string(statsservice.ChartRunningScore), Usage: "running-score or trumps"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "-", Usage: "output file, - for stdout"},
		},
		Action: func(c *cli.Context) error {
			gameID, err := requireArg(c, 0, "game-id")
			if err != nil {
				return err
			}
			a, err := r.application(c)
			if err != nil {
				return err
			}
			png, err := a.Service.Chart(contextOf(c), gameID, statsservice.ChartKind(c.String("kind")))
			if err != nil {
				return err
			}
			return r.writeOutput(c.String("out"), png)
		},
	}
}

func (r *runner) exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "export a game as an XLSX workbook",
		ArgsUsage: "<game-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default belote-<game-id>.xlsx)"},
		},
		Action: func(c *cli.Context) error {
			gameID, err := requireArg(c, 0, "game-id")
			if err != nil {
				return err
			}
			a, err := r.application(c)
			if err != nil {
				return err
			}
			data, err := a.Service.Export(contextOf(c), gameID)
			if err != nil {
				return err
			}
			out := c.String("out")
			if out == "" {
				out = "belote-" + gameID + ".xlsx"
			}
			return r.writeOutput(out, data)
		},
	}
}

func (r *runner) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the local HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides http.addr"},
		},
		Action: func(c *cli.Context) error {
			a, err := r.application(c)
			if err != nil {
				return err
			}
			if addr := c.String("addr"); addr != "" {
				a.Config.HTTP.Addr = addr
			}
			return a.Start(contextOf(c))
		},
	}
}
