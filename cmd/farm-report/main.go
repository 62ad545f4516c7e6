package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/mr1hm/go-farm-analytics/internal/analytics"
	"github.com/mr1hm/go-farm-analytics/internal/geometry"
	"github.com/mr1hm/go-farm-analytics/internal/logging"
	"github.com/mr1hm/go-farm-analytics/internal/spectral"
	"github.com/mr1hm/go-farm-analytics/internal/timeseries"
)

// input is the report file. Series points carry precomputed index values;
// scenes carry raw band reflectances that are converted first.
type input struct {
	Boundary json.RawMessage   `json:"boundary"`
	Series   timeseries.Series `json:"series"`
	Scenes   []scene           `json:"scenes"`
}

type scene struct {
	Date  string             `json:"date"`
	Bands map[string]float64 `json:"bands"`
}

type options struct {
	in      string
	format  string
	indices []spectral.Name
	params  spectral.Params
}

func main() {
	logging.Setup("warn", "text")

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		logging.Fatalf("farm-report: %v", err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	r := stdin
	if opts.in != "-" {
		f, err := os.Open(opts.in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var in input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return fmt.Errorf("error decoding input: %w", err)
	}

	report, err := buildReport(in, opts)
	if err != nil {
		return err
	}

	if opts.format == "text" {
		return writeText(stdout, report)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func parseFlags(args []string) (options, error) {
	set := flag.NewFlagSet("farm-report", flag.ContinueOnError)

	in := set.String("in", "-", "Path to the JSON input file, - for stdin")
	format := set.String("format", "json", "Output format: json or text")
	indices := set.String("indices", "", "Comma separated indices to summarize (default: all present)")
	soil := set.Float64("soil", spectral.DefaultSoilFactor, "SAVI soil adjustment factor used for scenes")

	if err := set.Parse(args); err != nil {
		return options{}, err
	}
	if *format != "json" && *format != "text" {
		return options{}, fmt.Errorf("unknown format %q", *format)
	}
	if *soil < 0 {
		return options{}, fmt.Errorf("soil factor must be non-negative, got %g", *soil)
	}

	names, err := spectral.ParseNames(*indices)
	if err != nil {
		return options{}, err
	}

	return options{
		in:      *in,
		format:  *format,
		indices: names,
		params:  spectral.Params{SoilFactor: *soil},
	}, nil
}

func buildReport(in input, opts options) (analytics.Report, error) {
	series := in.Series
	for i, s := range in.Scenes {
		p, err := scenePoint(s, opts)
		if err != nil {
			return analytics.Report{}, fmt.Errorf("scene %d: %w", i, err)
		}
		series = append(series, p)
	}

	b, err := geometry.Decode(in.Boundary)
	if err != nil && !errors.Is(err, geometry.ErrNoBoundary) {
		slog.Warn("boundary ignored", "error", err)
	}

	return analytics.Analyze(analytics.Input{
		Boundary:    b,
		BoundaryErr: err,
		Series:      series,
		Indices:     opts.indices,
	}), nil
}

// scenePoint computes the requested indices, or every single-sample index
// the scene's bands allow.
func scenePoint(s scene, opts options) (timeseries.Point, error) {
	date, err := timeseries.ParseDate(s.Date)
	if err != nil {
		return timeseries.Point{}, err
	}
	sample, err := spectral.ParseSample(s.Bands)
	if err != nil {
		return timeseries.Point{}, err
	}

	names := opts.indices
	if len(names) == 0 {
		names = spectral.Names()
	}
	values, errs := spectral.ComputeMany(names, sample, opts.params)
	for n, err := range errs {
		if len(opts.indices) > 0 {
			slog.Warn("index not computed", "date", s.Date, "index", n, "error", err)
		} else {
			slog.Debug("index not computed", "date", s.Date, "index", n, "error", err)
		}
	}
	return timeseries.Point{Date: date, Values: values}, nil
}

func writeText(w io.Writer, r analytics.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if r.Farm != nil {
		fmt.Fprintf(tw, "Area\t%.4f ha\n", r.Farm.AreaHectares)
		fmt.Fprintf(tw, "Perimeter\t%.4f km\n", r.Farm.PerimeterKm)
		fmt.Fprintf(tw, "Center\t%.6f, %.6f\n", r.Farm.Center.Lat, r.Farm.Center.Lng)
		if r.Simple != nil && !*r.Simple {
			fmt.Fprintln(tw, "Warning\tboundary intersects itself")
		}
		fmt.Fprintln(tw)
	} else if r.FarmOmitted != "" {
		fmt.Fprintf(tw, "Boundary\tignored: %s\n\n", r.FarmOmitted)
	}

	fmt.Fprintln(tw, "INDEX\tCOUNT\tMEAN\tMEDIAN\tMIN\tMAX\tSTDDEV\tTREND\tVARIABILITY")
	for _, n := range sortedNames(r.Analysis) {
		s := r.Analysis[n]
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%s\t%s\n",
			n, s.Count, s.Mean, s.Median, s.Min, s.Max, s.StdDev, s.Trend, s.Variability)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Omitted) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "OMITTED\tREASON")
		for _, n := range sortedNames(r.Omitted) {
			fmt.Fprintf(tw, "%s\t%s\n", n, r.Omitted[n])
		}
	}
	return tw.Flush()
}

func sortedNames[V any](m map[spectral.Name]V) []spectral.Name {
	names := make([]spectral.Name, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
