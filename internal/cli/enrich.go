package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openkenya/countymap/pkg/placement"
)

// enrichOpts holds the command-line flags for the enrich command.
type enrichOpts struct {
	input  string // input CSV path
	output string // output JSON array path
	jsonl  string // optional JSONL output path
}

// newEnrichCmd creates the enrich command. It converts a raw CSV export
// into the record JSON schema, inferring County from free text and
// extracting Year and Month from the date fields.
func newEnrichCmd() *cobra.Command {
	var opts enrichOpts

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Convert a raw CSV export into the enriched record schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.input == "" {
				return fmt.Errorf("--in is required")
			}
			return runEnrich(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "in", "", "input CSV file")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "records.json", "output JSON array file")
	cmd.Flags().StringVar(&opts.jsonl, "jsonl", "", "also write JSONL (one record per line)")

	return cmd
}

func runEnrich(ctx context.Context, opts *enrichOpts) error {
	logger := loggerFromContext(ctx)

	f, err := os.Open(opts.input)
	if err != nil {
		return err
	}
	defer f.Close()

	prog := newProgress(logger)
	records, err := EnrichCSV(f)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Enriched %d records", len(records)))

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := writeOutput(opts.output, data); err != nil {
		return err
	}
	printFile(opts.output)

	if opts.jsonl != "" {
		var b strings.Builder
		for _, rec := range records {
			line, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			b.Write(line)
			b.WriteByte('\n')
		}
		if err := writeOutput(opts.jsonl, []byte(b.String())); err != nil {
			return err
		}
		printFile(opts.jsonl)
	}

	known := 0
	for _, rec := range records {
		if rec.County != "Unknown" {
			known++
		}
	}
	printSuccess("Enriched %d records (%d with a resolved county)", len(records), known)
	return nil
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// normalizeText collapses runs of whitespace and trims the result.
func normalizeText(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// EnrichCSV reads a raw CSV export and converts each row into the record
// schema. Column names are matched case-insensitively and both the
// scraper's snake_case headers and the schema's display headers are
// accepted.
func EnrichCSV(r io.Reader) ([]*placement.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	col := func(row []string, names ...string) string {
		for _, name := range names {
			if i, ok := cols[name]; ok && i < len(row) {
				return normalizeText(row[i])
			}
		}
		return ""
	}

	var records []*placement.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		dateISO := col(row, "date_of_incident_iso")
		dateText := col(row, "date_of_incident_text", "date of incident")
		date := dateText
		if date == "" && len(dateISO) >= 10 {
			date = dateISO[:10]
		}

		rec := &placement.Record{
			Name:           orUnknown(col(row, "name")),
			Sex:            orUnknown(col(row, "sex")),
			Location:       orUnknown(col(row, "location")),
			DateOfIncident: orUnknown(date),
			MannerOfDeath:  orUnknown(col(row, "manner_of_death", "manner of death")),
			Perpetrator:    orUnknown(col(row, "perpetrator")),
			Status:         orUnknown(col(row, "status of case", "status")),
			Occupation:     orUnknown(col(row, "occupation")),
			Description:    col(row, "detail_description", "description"),
		}

		county := placement.InferCounty(rec.Location, rec.Description)
		rec.County = orUnknown(county)

		rec.Year = placement.ExtractYear(dateISO)
		if rec.Year == placement.YearUnknown {
			rec.Year = placement.ExtractYear(dateText)
		}
		rec.Month = placement.ExtractMonth(dateText)
		if rec.Month == "Unknown" && dateISO != "" {
			rec.Month = placement.ExtractMonth(dateISO)
		}

		records = append(records, rec)
	}
	return records, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
