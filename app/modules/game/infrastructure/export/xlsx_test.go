package gameexport

import (
	"bytes"
	"testing"

	belotetypes "github.com/Black-And-White-Club/belote-tracker/app/types/belote"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func finishedGame() belotetypes.Game {
	rounds := []belotetypes.Round{
		{ID: "r1", BidTeam: belotetypes.TeamUs, BidContract: belotetypes.Contract80, TrumpCard: belotetypes.TrumpHearts,
			BidSuccess: true, UsPoints: 105, ThemPoints: 77, BeloteTeam: belotetypes.TeamUs, Notes: "opening", Timestamp: 1760558400000},
		{ID: "r2", BidTeam: belotetypes.TeamThem, BidContract: belotetypes.ContractCapot, TrumpCard: belotetypes.TrumpNone,
			BidSuccess: false, UsPoints: 152, ThemPoints: 0, Timestamp: 1760558460000},
	}
	return belotetypes.Game{
		ID:           "g1",
		Title:        "Club night",
		UsTeamName:   "Anna & Marc",
		ThemTeamName: "Lea & Tom",
		UsScore:      257,
		ThemScore:    77,
		Rounds:       rounds,
		Status:       belotetypes.StatusFinished,
		TargetScore:  250,
		CreatedAt:    1760558000000,
		LastUpdated:  1760558460000,
	}
}

func TestExportXLSX(t *testing.T) {
	data, err := ExportXLSX(finishedGame())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, RoundsSheet}, f.GetSheetList())

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "Club night"}, summary[0])
	assert.Equal(t, []string{"Anna & Marc", "257"}, summary[3])
	assert.Equal(t, []string{"Winner", "Anna & Marc"}, summary[5])

	rounds, err := f.GetRows(RoundsSheet)
	require.NoError(t, err)
	require.Len(t, rounds, 4)
	assert.Equal(t, RoundsHeader, rounds[0])
	assert.Equal(t, []string{"1", "2025-10-15T20:00:00Z", "Anna & Marc", "80", "hearts", "Anna & Marc", "yes", "105", "77", "opening"}, rounds[1])
	assert.Equal(t, "Lea & Tom", rounds[2][2])
	assert.Equal(t, "capot", rounds[2][3])
	assert.Equal(t, "", rounds[2][5])
	assert.Equal(t, []string{"Total", "", "", "", "", "", "", "257", "77"}, rounds[3])
}

func TestExportXLSX_NoRoundsNoWinner(t *testing.T) {
	game := belotetypes.Game{Title: "fresh", UsTeamName: "Us", ThemTeamName: "Them", TargetScore: 1000, Status: belotetypes.StatusNotStarted}
	data, err := ExportXLSX(game)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	winner, err := f.GetCellValue(SummarySheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "-", winner)

	rounds, err := f.GetRows(RoundsSheet)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "Total", rounds[1][0])
}

func TestImportRounds_RoundTrip(t *testing.T) {
	game := finishedGame()
	data, err := ExportXLSX(game)
	require.NoError(t, err)

	got, err := ImportRounds(data, game.UsTeamName, game.ThemTeamName)
	require.NoError(t, err)

	want := []belotetypes.RoundInput{
		{BidTeam: belotetypes.TeamUs, BidContract: belotetypes.Contract80, TrumpCard: belotetypes.TrumpHearts,
			BidSuccess: true, UsPoints: 105, ThemPoints: 77, BeloteTeam: belotetypes.TeamUs, Notes: "opening"},
		{BidTeam: belotetypes.TeamThem, BidContract: belotetypes.ContractCapot, TrumpCard: belotetypes.TrumpNone,
			BidSuccess: false, UsPoints: 152, ThemPoints: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("imported rounds mismatch (-want +got):\n%s", diff)
	}
}

func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		cells := make([]interface{}, len(row))
		for i, val := range row {
			cells[i] = val
		}
		require.NoError(t, f.SetSheetRow(sheet, axis, &cells))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImportRounds_HandWritten(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		wantLen int
		wantErr bool
	}{
		{
			name: "enum team codes on first sheet",
			rows: [][]string{
				{"Scores"},
				{"#", "Bid team", "Contract", "Trump", "Belote", "Success", "Us points", "Them points"},
				{"1", "us", "90", "Spades", "them", "yes", "92", "90"},
				{"2", "THEM", "100", "no-trump", "", "no", "152", "0"},
			},
			wantLen: 2,
		},
		{
			name:    "no header",
			rows:    [][]string{{"just", "numbers"}, {"1", "2"}},
			wantErr: true,
		},
		{
			name: "unknown team",
			rows: [][]string{
				{"#", "Bid team", "Contract", "Trump", "Us points", "Them points"},
				{"1", "nobody", "80", "hearts", "80", "82"},
			},
			wantErr: true,
		},
		{
			name: "bad contract",
			rows: [][]string{
				{"#", "Bid team", "Contract", "Trump", "Us points", "Them points"},
				{"1", "us", "85", "hearts", "80", "82"},
			},
			wantErr: true,
		},
		{
			name: "negative points",
			rows: [][]string{
				{"#", "Bid team", "Contract", "Trump", "Us points", "Them points"},
				{"1", "us", "80", "hearts", "-5", "82"},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rounds, err := ImportRounds(buildWorkbook(t, tt.rows), "", "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rounds, tt.wantLen)
		})
	}
}

func TestImportRounds_NotAWorkbook(t *testing.T) {
	_, err := ImportRounds([]byte("not a zip"), "", "")
	assert.Error(t, err)
}
