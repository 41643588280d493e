// Command sanitizer converts scraped hotel exports into catalog JSON and
// post-processes catalog files.
//
//	sanitizer sanitize -i hotels.csv [-o out.json] [-c Country] [--ref-lat 41.69 --ref-lon 44.80] [--fill-services=false]
//	sanitizer enrich -j catalog.json [-o out.json]
//	sanitizer merge -o all.json a.json b.json ...
//	sanitizer stats catalog.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_catalog/internal/adapters/observability"
	"hotel_catalog/internal/adapters/sink"
	"hotel_catalog/internal/adapters/source"
	"hotel_catalog/internal/app"
	"hotel_catalog/internal/domain"
	"hotel_catalog/internal/shared"
)

const usage = `usage: sanitizer <command> [flags]

commands:
  sanitize  convert a CSV/JSON export into catalog JSON
  enrich    fill empty room service lists in a catalog
  merge     concatenate catalogs
  stats     report city and room-name counts`

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "sanitize":
		err = runSanitize(cfg, args)
	case "enrich":
		err = runEnrich(cfg, args)
	case "merge":
		err = runMerge(args)
	case "stats":
		err = runStats(args)
	case "-h", "--help", "help":
		fmt.Fprintln(os.Stdout, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("command failed")
	}
}

// optFloat is a float flag that remembers whether it was given.
type optFloat struct{ v *float64 }

func (o *optFloat) String() string {
	if o.v == nil {
		return ""
	}
	return strconv.FormatFloat(*o.v, 'f', -1, 64)
}

func (o *optFloat) Set(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return err
	}
	o.v = &f
	return nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// defaultOutput swaps the input extension for .json without clobbering a JSON input.
func defaultOutput(in string) string {
	out := strings.TrimSuffix(in, filepath.Ext(in)) + ".json"
	if out == in {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".sanitized.json"
	}
	return out
}

func runSanitize(cfg shared.Config, args []string) error {
	fs := flag.NewFlagSet("sanitize", flag.ContinueOnError)
	in := fs.String("i", "", "input CSV or JSON export")
	out := fs.String("o", "", "output catalog (default: input with .json extension)")
	country := fs.String("c", "", "country label (default CATALOG_COUNTRY)")
	conf := fs.String("config", cfg.SanitizerFile, "sanitizer YAML config")
	fill := fs.Bool("fill-services", true, "fill empty room service lists (--fill-services=false to skip)")
	seed := fs.Uint64("seed", 0, "random seed for --fill-services (0 = random)")
	var refLat, refLon optFloat
	fs.Var(&refLat, "ref-lat", "reference latitude for distance")
	fs.Var(&refLon, "ref-lon", "reference longitude for distance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return errors.New("-i is required")
	}
	if (refLat.v == nil) != (refLon.v == nil) {
		return errors.New("--ref-lat and --ref-lon must be given together")
	}

	cfg.SanitizerFile = *conf
	opts, pool, err := cfg.Sanitizer()
	if err != nil {
		return err
	}
	if *country != "" {
		opts.Country = *country
	}
	if refLat.v != nil {
		opts.Reference = &domain.Coords{Lat: *refLat.v, Lon: *refLon.v}
	}

	raws, err := source.ReadFile(*in)
	if err != nil {
		return err
	}
	cat := app.NewSanitizer(opts).SanitizeAll(raws)

	filled := 0
	if *fill {
		filled = app.NewServiceFiller(pool, newRand(*seed)).Fill(&cat)
	}

	dst := *out
	if dst == "" {
		dst = defaultOutput(*in)
	}
	if err := sink.WriteFile(dst, cat); err != nil {
		return err
	}
	log.Info().
		Str("input", *in).
		Str("output", dst).
		Int("hotels", len(cat.Hotels)).
		Int("rooms_filled", filled).
		Msg("catalog written")
	return nil
}

func runEnrich(cfg shared.Config, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ContinueOnError)
	in := fs.String("j", "", "catalog JSON")
	out := fs.String("o", "", "output catalog (default: overwrite input)")
	conf := fs.String("config", cfg.SanitizerFile, "sanitizer YAML config (room_services pool)")
	seed := fs.Uint64("seed", 0, "random seed (0 = random)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return errors.New("-j is required")
	}

	cfg.SanitizerFile = *conf
	_, pool, err := cfg.Sanitizer()
	if err != nil {
		return err
	}

	cat, err := source.ReadCatalog(*in)
	if err != nil {
		return err
	}
	filled := app.NewServiceFiller(pool, newRand(*seed)).Fill(&cat)

	dst := *out
	if dst == "" {
		dst = *in
	}
	if err := sink.WriteFile(dst, cat); err != nil {
		return err
	}
	log.Info().Str("output", dst).Int("rooms_filled", filled).Msg("catalog enriched")
	return nil
}

func runMerge(args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	out := fs.String("o", "", "output catalog")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" || fs.NArg() == 0 {
		fs.Usage()
		return errors.New("-o and at least one input are required")
	}

	cats := make([]domain.Catalog, 0, fs.NArg())
	for _, path := range fs.Args() {
		c, err := source.ReadCatalog(path)
		if err != nil {
			return err
		}
		log.Debug().Str("file", path).Int("hotels", len(c.Hotels)).Msg("catalog read")
		cats = append(cats, c)
	}
	merged := app.MergeCatalogs(cats...)
	if err := sink.WriteFile(*out, merged); err != nil {
		return err
	}
	log.Info().Str("output", *out).Int("files", len(cats)).Int("hotels", len(merged.Hotels)).Msg("catalogs merged")
	return nil
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	top := fs.Int("top", 0, "only report the N most common room names (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one catalog is required")
	}

	cat, err := source.ReadCatalog(fs.Arg(0))
	if err != nil {
		return err
	}
	st := app.Stats(cat)

	log.Info().
		Int("hotels", st.TotalHotels).
		Int("with_city", st.HotelsWithCity).
		Int("without_city", st.HotelsWithoutCity).
		Int("unique_cities", len(st.Cities)).
		Int("with_rooms", st.HotelsWithRooms).
		Int("without_rooms", st.HotelsWithoutRooms).
		Int("rooms", st.TotalRooms).
		Int("unique_room_names", len(st.RoomNames)).
		Msg("catalog stats")
	for _, c := range st.Cities {
		log.Info().Str("city", c.Name).Int("hotels", c.Count).Msg("city")
	}
	names := st.RoomNames
	if *top > 0 && *top < len(names) {
		names = names[:*top]
	}
	for _, n := range names {
		log.Info().Str("room", n.Name).Int("count", n.Count).Msg("room name")
	}
	return nil
}
