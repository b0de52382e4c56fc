package gameexport

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/xuri/excelize/v2"
)

// ErrNoRounds is returned when a workbook has no recognizable rounds table.
var ErrNoRounds = errors.New("no rounds table found")

// ImportRounds reads the rounds table of a workbook written by ExportXLSX.
// Team cells may hold "us"/"them" or the team names given.
func ImportRounds(data []byte, usName, themName string) ([]belotetypes.RoundInput, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheet := RoundsSheet
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoRounds
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	headerIdx, cols := findHeaderRow(rows)
	if headerIdx == -1 {
		return nil, ErrNoRounds
	}

	teams := teamResolver(usName, themName)
	var rounds []belotetypes.RoundInput
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(cell(row, 0)) == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(cell(row, 0)), "Total") {
			break
		}

		in, err := parseRoundRow(row, cols, teams)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rounds = append(rounds, in)
	}
	return rounds, nil
}

// findHeaderRow locates the header by its "Bid team" column and maps each
// known header to its column index.
func findHeaderRow(rows [][]string) (int, map[string]int) {
	for i, row := range rows {
		cols := make(map[string]int)
		for j, v := range row {
			cols[strings.ToLower(strings.TrimSpace(v))] = j
		}
		if _, ok := cols["bid team"]; ok {
			return i, cols
		}
	}
	return -1, nil
}

func parseRoundRow(row []string, cols map[string]int, teams func(string) (belotetypes.Team, bool)) (belotetypes.RoundInput, error) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(cell(row, idx))
	}

	var in belotetypes.RoundInput
	bidTeam, ok := teams(get("bid team"))
	if !ok || bidTeam == belotetypes.NoTeam {
		return in, fmt.Errorf("unknown bid team %q", get("bid team"))
	}
	beloteTeam, ok := teams(get("belote"))
	if !ok {
		return in, fmt.Errorf("unknown belote team %q", get("belote"))
	}

	us, err := parsePoints(get("us points"))
	if err != nil {
		return in, err
	}
	them, err := parsePoints(get("them points"))
	if err != nil {
		return in, err
	}

	success := strings.ToLower(get("success"))
	in = belotetypes.RoundInput{
		BidTeam:     bidTeam,
		BidContract: belotetypes.BeloteContract(strings.ToLower(get("contract"))),
		TrumpCard:   belotetypes.TrumpCard(strings.ToLower(get("trump"))),
		BidSuccess:  success == "yes" || success == "true",
		UsPoints:    us,
		ThemPoints:  them,
		BeloteTeam:  beloteTeam,
		Notes:       get("notes"),
	}
	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}

func teamResolver(usName, themName string) func(string) (belotetypes.Team, bool) {
	return func(v string) (belotetypes.Team, bool) {
		switch {
		case v == "":
			return belotetypes.NoTeam, true
		case strings.EqualFold(v, string(belotetypes.TeamUs)), usName != "" && strings.EqualFold(v, usName):
			return belotetypes.TeamUs, true
		case strings.EqualFold(v, string(belotetypes.TeamThem)), themName != "" && strings.EqualFold(v, themName):
			return belotetypes.TeamThem, true
		}
		return belotetypes.NoTeam, false
	}
}

func parsePoints(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("non-numeric points value: %q", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative points value: %d", n)
	}
	return n, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
