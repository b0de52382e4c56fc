package gameexport

import (
	"bytes"
	"fmt"
	"time"

	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	RoundsSheet  = "Rounds"
)

// RoundsHeader is the header row of the Rounds sheet.
var RoundsHeader = []string{
	"#", "Played at", "Bid team", "Contract", "Trump", "Belote", "Success", "Us points", "Them points", "Notes",
}

// ExportXLSX renders game as a workbook with a Summary and a Rounds sheet.
func ExportXLSX(game belotetypes.Game) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummary(f, game); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(RoundsSheet); err != nil {
		return nil, fmt.Errorf("failed to create rounds sheet: %w", err)
	}
	if err := writeRounds(f, game); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeSummary(f *excelize.File, game belotetypes.Game) error {
	winner := "-"
	if team := game.Winner(); team != belotetypes.NoTeam {
		winner = game.TeamName(team)
	}

	rows := [][]interface{}{
		{"Title", game.Title},
		{"Status", string(game.Status)},
		{"Target score", game.TargetScore},
		{game.UsTeamName, game.UsScore},
		{game.ThemTeamName, game.ThemScore},
		{"Winner", winner},
		{"Rounds", len(game.Rounds)},
		{"Created", time.UnixMilli(game.CreatedAt).UTC().Format(time.RFC3339)},
		{"Last updated", time.UnixMilli(game.LastUpdated).UTC().Format(time.RFC3339)},
	}
	return setRows(f, SummarySheet, 1, rows)
}

func writeRounds(f *excelize.File, game belotetypes.Game) error {
	header := make([]interface{}, len(RoundsHeader))
	for i, h := range RoundsHeader {
		header[i] = h
	}
	rows := [][]interface{}{header}

	for i, r := range game.Rounds {
		success := "no"
		if r.BidSuccess {
			success = "yes"
		}
		rows = append(rows, []interface{}{
			i + 1,
			r.Time().UTC().Format(time.RFC3339),
			game.TeamName(r.BidTeam),
			string(r.BidContract),
			string(r.TrumpCard),
			beloteCell(game, r.BeloteTeam),
			success,
			r.UsPoints,
			r.ThemPoints,
			r.Notes,
		})
	}

	us, them := belotetypes.Totals(game.Rounds)
	rows = append(rows, []interface{}{"Total", "", "", "", "", "", "", us, them, ""})

	if err := setRows(f, RoundsSheet, 1, rows); err != nil {
		return err
	}
	return f.SetPanes(RoundsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func beloteCell(game belotetypes.Game, team belotetypes.Team) string {
	if team == belotetypes.NoTeam {
		return ""
	}
	return game.TeamName(team)
}

func setRows(f *excelize.File, sheet string, startRow int, rows [][]interface{}) error {
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, startRow+idx)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, startRow+idx, err)
		}
	}
	return nil
}
