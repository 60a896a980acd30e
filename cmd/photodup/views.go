package main

import (
	"time"

	"photodup/internal/scanner"
	"photodup/internal/store"
)

const timeRounding = time.Millisecond

type groupView struct {
	Group   string   `json:"group"`
	Members []string `json:"members"`
}

type scanView struct {
	ScanID        string      `json:"scan_id"`
	Tier          string      `json:"tier"`
	AssetCount    int         `json:"asset_count"`
	FailedFetches int         `json:"failed_fetches"`
	StartedAt     time.Time   `json:"started_at"`
	FinishedAt    time.Time   `json:"finished_at"`
	Groups        []groupView `json:"groups"`
}

func scanResultView(result *scanner.Result) scanView {
	view := scanView{
		ScanID:        result.ScanID,
		Tier:          string(result.Tier),
		AssetCount:    result.AssetCount,
		FailedFetches: result.FailedFetches,
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
		Groups:        []groupView{},
	}
	for _, group := range result.Groups {
		gv := groupView{Group: group.ID()}
		for _, member := range group.Members {
			gv.Members = append(gv.Members, member.ID)
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}

func storedScanView(scan *store.Scan) scanView {
	view := scanView{
		ScanID:        scan.UUID,
		Tier:          scan.Tier,
		AssetCount:    scan.AssetCount,
		FailedFetches: scan.FailedFetches,
		StartedAt:     scan.StartedAt,
		FinishedAt:    scan.FinishedAt,
		Groups:        []groupView{},
	}
	for _, group := range scan.Groups {
		gv := groupView{Group: group.Digest}
		for _, member := range group.Members {
			gv.Members = append(gv.Members, member.AssetID)
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}

type groupRow struct {
	digest  string
	members []string
}

func groupRowsFromResult(result *scanner.Result) []groupRow {
	rows := make([]groupRow, 0, len(result.Groups))
	for _, group := range result.Groups {
		row := groupRow{digest: group.ID()}
		for _, member := range group.Members {
			row.members = append(row.members, member.ID)
		}
		rows = append(rows, row)
	}
	return rows
}

func groupRowsFromScan(scan *store.Scan) []groupRow {
	rows := make([]groupRow, 0, len(scan.Groups))
	for _, group := range scan.Groups {
		row := groupRow{digest: group.Digest}
		for _, member := range group.Members {
			row.members = append(row.members, member.AssetID)
		}
		rows = append(rows, row)
	}
	return rows
}

func renderGroupsTable(rows []groupRow) string {
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		for i, member := range row.members {
			label := ""
			if i == 0 {
				label = shortDigest(row.digest)
			}
			tableRows = append(tableRows, []string{label, member})
		}
	}
	return renderTable(
		[]string{"Group", "Asset"},
		tableRows,
		[]columnAlignment{alignLeft, alignLeft},
	)
}
