package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	gameservice "github.com/Black-And-White-Club/belote-tracker/app/modules/game/application"
	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/urfave/cli/v2"
)

func (r *runner) gameCommand() *cli.Command {
	return &cli.Command{
		Name:  "game",
		Usage: "create, list, show and delete games",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "start a new game",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true},
					&cli.StringFlag{Name: "us", Usage: "name of our team", Value: belotetypes.DefaultUsTeamName},
					&cli.StringFlag{Name: "them", Usage: "name of their team", Value: belotetypes.DefaultThemTeamName},
					&cli.IntFlag{Name: "target", Usage: "score that ends the game", Value: belotetypes.DefaultTargetScore},
				},
				Action: func(c *cli.Context) error {
					a, err := r.application(c)
					if err != nil {
						return err
					}
					game, err := a.Service.CreateGame(contextOf(c), belotetypes.GameDraft{
						Title:        c.String("title"),
						UsTeamName:   c.String("us"),
						ThemTeamName: c.String("them"),
						TargetScore:  c.Int("target"),
					})
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return r.printJSON(game)
					}
					fmt.Fprintf(r.stdout, "Created game %s (%s)\n", game.ID, game.Title)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list games, most recently updated first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "since", Usage: `only games updated since, e.g. "3 days ago" or 2026-10-01`},
					&cli.StringFlag{Name: "status", Usage: "not-started, in-progress or finished"},
				},
				Action: func(c *cli.Context) error {
					a, err := r.application(c)
					if err != nil {
						return err
					}
					var opts gameservice.ListOptions
					if since := c.String("since"); since != "" {
						opts.Since, err = gameservice.NewSinceParser(nil).Parse(since)
						if err != nil {
							return err
						}
					}
					if status := c.String("status"); status != "" {
						opts.Status = belotetypes.GameStatus(status)
						if !opts.Status.Valid() {
							return fmt.Errorf("unknown status %q", status)
						}
					}

					games, err := a.Service.ListGames(contextOf(c), opts)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return r.printJSON(games)
					}
					if len(games) == 0 {
						fmt.Fprintln(r.stdout, "No games yet.")
						return nil
					}
					tw := tabwriter.NewWriter(r.stdout, 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tTITLE\tSCORE\tSTATUS\tUPDATED")
					for _, g := range games {
						fmt.Fprintf(tw, "%s\t%s\t%s %d - %d %s\t%s\t%s\n",
							g.ID, g.Title, g.UsTeamName, g.UsScore, g.ThemScore, g.ThemTeamName,
							g.Status, time.UnixMilli(g.LastUpdated).Format("2006-01-02 15:04"))
					}
					return tw.Flush()
				},
			},
			{
				Name:      "show",
				Usage:     "show a game with its rounds",
				ArgsUsage: "<game-id>",
				Action: func(c *cli.Context) error {
					gameID, err := requireArg(c, 0, "game-id")
					if err != nil {
						return err
					}
					a, err := r.application(c)
					if err != nil {
						return err
					}
					game, err := a.Service.GetGame(contextOf(c), gameID)
					if err != nil {
						return err
					}
					if c.Bool("json") {
						return r.printJSON(game)
					}
					r.printGame(*game)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a game",
				ArgsUsage: "<game-id>",
				Action: func(c *cli.Context) error {
					gameID, err := requireArg(c, 0, "game-id")
					if err != nil {
						return err
					}
					a, err := r.application(c)
					if err != nil {
						return err
					}
					removed, err := a.Service.DeleteGame(contextOf(c), gameID)
					if err != nil {
						return err
					}
					if !removed {
						fmt.Fprintf(r.stdout, "No game %s\n", gameID)
						return nil
					}
					fmt.Fprintf(r.stdout, "Deleted game %s\n", gameID)
					return nil
				},
			},
		},
	}
}

func (r *runner) printGame(g belotetypes.Game) {
	fmt.Fprintf(r.stdout, "%s [%s]\n", g.Title, g.Status)
	fmt.Fprintf(r.stdout, "%s %d - %d %s (target %d)\n", g.UsTeamName, g.UsScore, g.ThemScore, g.ThemTeamName, g.TargetScore)
	if winner := g.Winner(); winner != belotetypes.NoTeam {
		fmt.Fprintf(r.stdout, "Winner: %s\n", g.TeamName(winner))
	}
	if len(g.Rounds) == 0 {
		fmt.Fprintln(r.stdout, "No rounds yet.")
		return
	}

	tw := tabwriter.NewWriter(r.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tROUND\tSUMMARY\tUS\tTHEM\tNOTES")
	for i, round := range g.Rounds {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			i+1, round.ID, round.Summary(), round.UsPoints, round.ThemPoints, strings.ReplaceAll(round.Notes, "\n", " "))
	}
	_ = tw.Flush()
}

func requireArg(c *cli.Context, idx int, name string) (string, error) {
	v := strings.TrimSpace(c.Args().Get(idx))
	if v == "" {
		return "", fmt.Errorf("missing <%s> argument", name)
	}
	return v, nil
}
