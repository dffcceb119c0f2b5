package ingest

import (
	"context"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bto-enrich/internal/fetcher"
	"github.com/sells-group/bto-enrich/internal/listing"
)

func readJSONRows(ctx context.Context, path string) ([]listing.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open file")
	}
	defer f.Close() //nolint:errcheck

	rows, err := fetcher.Drain[listing.Row](fetcher.DecodeJSONArray[listing.Row](ctx, f))
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func readCSVRows(ctx context.Context, path string) ([]listing.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open file")
	}
	defer f.Close() //nolint:errcheck

	headerCh := make(chan []string, 1)
	records, err := fetcher.Drain[[]string](fetcher.StreamCSV(ctx, f, fetcher.CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	}))
	if err != nil {
		return nil, err
	}

	var headers []string
	select {
	case headers = <-headerCh:
	default:
	}
	return pairRows(headers, records), nil
}

func readXLSXRows(path string) ([]listing.Row, error) {
	records, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return pairRows(records[0], records[1:]), nil
}

// pairRows keys each record by the header row.
func pairRows(headers []string, records [][]string) []listing.Row {
	rows := make([]listing.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, listing.RowFromPairs(headers, rec))
	}
	return rows
}
