// Package analyser validates a csv dataset against a topology and proposes
// class breaks for colouring it.
package analyser

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ONSdigital/go-ns/log"
	"github.com/kbeame/ihme-ui/choropleth"
	"github.com/kbeame/ihme-ui/models"
	"github.com/rubenv/topojson"
	"gonum.org/v1/gonum/stat"
)

// class counts covered by the proposed break sets, and the bounds applied to
// the best-fit suggestion (palettes rarely work beyond 9 classes)
const (
	minProposedClasses = 2
	maxProposedClasses = 11
	minBestFitClasses  = 3
	maxBestFitClasses  = 9
)

// AnalyseData parses the csv, checks its ids against the topology and
// returns the rows along with proposed class breaks. Rows that cannot be
// matched or parsed are reported as messages rather than failing the whole
// request, unless nothing at all is usable.
func AnalyseData(request *models.AnalyseRequest) (*models.AnalyseResponse, error) {
	parsed, err := parseCSV(request)
	if err != nil {
		return nil, err
	}

	ids := topologyIDs(request.Geography.Topojson, request.Geography.IDProperty)
	var unmatched []string
	for _, row := range parsed.rows {
		if _, ok := ids[row.ID]; !ok {
			unmatched = append(unmatched, row.ID)
		}
	}
	if len(unmatched) == len(parsed.rows) {
		return nil, fmt.Errorf("Data does not match Topology - IDs in the data do not match any IDs in the topology (using property '%s' to identify features in the topology)", request.Geography.IDProperty)
	}

	messages := parsed.messages
	if len(unmatched) > 0 {
		messages = append(messages, &models.Message{Level: "error", Text: fmt.Sprintf("IDs of %d rows could not be found in the topology. Row IDs: [%v]", len(unmatched), strings.Join(unmatched, ", "))})
	}
	matched := len(parsed.rows) - len(unmatched)
	messages = append(messages, &models.Message{Level: "info", Text: fmt.Sprintf("Successfully processed %d of %d rows", matched, parsed.read)})

	response := &models.AnalyseResponse{Data: parsed.rows, Messages: messages}
	proposeBreaks(request, response)
	return response, nil
}

// parsedCSV is what parseCSV salvaged from the request's csv.
type parsedCSV struct {
	rows     []*models.DataRow
	messages []*models.Message
	read     int
}

// parseCSV reads the request's csv into DataRows. Rows with too few columns
// or a non-numeric value are skipped and summarised as warning messages,
// unless that leaves no rows at all.
func parseCSV(request *models.AnalyseRequest) (*parsedCSV, error) {
	r := csv.NewReader(strings.NewReader(request.CSV))
	r.FieldsPerRecord = -1 // row lengths may legitimately vary

	if request.HasHeaderRow {
		r.Read()
	}

	idIndex, valueIndex := request.IDIndex, request.ValueIndex
	columns := int(math.Max(float64(idIndex), float64(valueIndex))) + 1

	parsed := &parsedCSV{}
	var short []int
	var badValues []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		parsed.read++
		if err != nil {
			log.ErrorC("reading csv", err, nil)
			return nil, fmt.Errorf("Error reading CSV: %v", err.Error())
		}
		if len(record) < columns {
			short = append(short, parsed.read)
			continue
		}
		value, err := strconv.ParseFloat(record[valueIndex], 64)
		if err != nil {
			badValues = append(badValues, record[idIndex])
			continue
		}
		parsed.rows = append(parsed.rows, &models.DataRow{ID: record[idIndex], Value: value})
	}

	if len(short) == parsed.read {
		return nil, fmt.Errorf("All CSV rows had fewer than %d columns - could not read data", columns)
	}
	if len(badValues) == parsed.read {
		return nil, fmt.Errorf("No CSV rows had a numeric value - could not read data")
	}

	if len(short) > 0 {
		parsed.messages = append(parsed.messages, &models.Message{Level: "warn", Text: fmt.Sprintf("%d rows have missing columns and could not be parsed. Row numbers: %v", len(short), rowNumberList(short))})
	}
	if len(badValues) > 0 {
		parsed.messages = append(parsed.messages, &models.Message{Level: "warn", Text: fmt.Sprintf("%d rows have missing (or non-numeric) values and could not be parsed. Row IDs: [%v]", len(badValues), strings.Join(badValues, ", "))})
	}
	return parsed, nil
}

// rowNumberList formats row numbers as "[2, 3]".
func rowNumberList(rows []int) string {
	parts := make([]string, len(rows))
	for i, n := range rows {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// proposeBreaks fills in the min/max values, the quantile break proposals
// and the best-fit class count for the parsed rows.
func proposeBreaks(request *models.AnalyseRequest, response *models.AnalyseResponse) {
	values := make([]float64, 0, len(response.Data))
	for _, row := range response.Data {
		values = append(values, row.Value)
	}
	if len(values) == 0 {
		return
	}
	sort.Float64s(values)
	response.MinValue = values[0]
	response.MaxValue = values[len(values)-1]
	response.BestFitClassCount = bestFitClassCount(len(values))

	if request.ClassCount > 0 {
		response.Breaks = [][]float64{quantileBreaks(values, request.ClassCount)}
		return
	}
	for k := minProposedClasses; k <= maxProposedClasses; k++ {
		response.Breaks = append(response.Breaks, quantileBreaks(values, k))
	}
}

// quantileBreaks returns k lower bounds dividing the values into k classes of
// roughly equal population: the minimum value followed by the empirical
// quantiles at 1/k .. (k-1)/k.
func quantileBreaks(sorted []float64, k int) []float64 {
	breaks := make([]float64, k)
	breaks[0] = sorted[0]
	for i := 1; i < k; i++ {
		breaks[i] = stat.Quantile(float64(i)/float64(k), stat.Empirical, sorted, nil)
	}
	return breaks
}

// bestFitClassCount suggests a class count for n values using Sturges' rule.
func bestFitClassCount(n int) int {
	k := int(math.Ceil(math.Log2(float64(n)))) + 1
	if k < minBestFitClasses {
		return minBestFitClasses
	}
	if k > maxBestFitClasses {
		return maxBestFitClasses
	}
	return k
}

// topologyIDs collects the normalized join key of every geometry in the
// topology. The id property is read first, falling back to the geometry id,
// mirroring how features are keyed when the map is rendered.
func topologyIDs(topology *topojson.Topology, idProperty string) map[string]struct{} {
	m := make(map[string]struct{})
	if topology == nil {
		return m
	}
	for _, o := range topology.Objects {
		collectGeometryIDs(m, o, idProperty)
	}
	return m
}

func collectGeometryIDs(m map[string]struct{}, g *topojson.Geometry, idProperty string) {
	if g == nil {
		return
	}
	if g.Type == "GeometryCollection" {
		for _, child := range g.Geometries {
			collectGeometryIDs(m, child, idProperty)
		}
		return
	}
	if key, ok := choropleth.NormalizeKey(g.Properties[idProperty]); ok && key != "" {
		m[key] = struct{}{}
		return
	}
	if g.ID != "" {
		m[g.ID] = struct{}{}
	}
}
