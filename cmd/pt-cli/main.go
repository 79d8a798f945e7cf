package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/theoremus-urban-solutions/pt-client/config"
	"github.com/theoremus-urban-solutions/pt-client/efa"
	"github.com/theoremus-urban-solutions/pt-client/geo"
	"github.com/theoremus-urban-solutions/pt-client/hci"
	"github.com/theoremus-urban-solutions/pt-client/internal"
	"github.com/theoremus-urban-solutions/pt-client/pt"
)

const timeFormat = "15:04"

// provider is what both protocol families offer.
type provider interface {
	Capabilities() []pt.Capability
	SuggestLocations(ctx context.Context, constraint string, types map[pt.LocationType]bool, maxLocations int) (*pt.SuggestLocationsResult, error)
	NearbyLocations(ctx context.Context, types map[pt.LocationType]bool, location pt.Location, maxDistance, maxLocations int) (*pt.NearbyLocationsResult, error)
	QueryDepartures(ctx context.Context, stationID string, when time.Time, maxDepartures int, equivs bool) (*pt.QueryDeparturesResult, error)
	QueryTrips(ctx context.Context, from pt.Location, via *pt.Location, to pt.Location, when time.Time, departure bool, opts *pt.TripOptions) (*pt.QueryTripsResult, error)
	QueryMoreTrips(ctx context.Context, tripsContext pt.QueryTripsContext, later bool) (*pt.QueryTripsResult, error)
}

func main() {
	command := flag.String("cmd", "departures", "suggest|nearby|departures|trip")
	networkName := flag.String("network", "", "network name from networks.yml")
	query := flag.String("query", "", "search text for suggest")
	stationID := flag.String("station", "", "station id for departures and nearby")
	from := flag.String("from", "", "trip origin: station id or free text")
	via := flag.String("via", "", "trip via: station id or free text")
	to := flag.String("to", "", "trip destination: station id or free text")
	at := flag.String("time", "", "query time in RFC 3339, default now")
	arrival := flag.Bool("arrival", false, "treat the query time as arrival time")
	products := flag.String("products", "", "product code filter, e.g. SUB for suburban+subway+bus")
	max := flag.Int("max", 10, "result limit")
	flag.Parse()

	internal.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		fatal(err)
	}
	network, err := config.SelectNetwork(*networkName)
	if err != nil {
		fatal(err)
	}

	var p provider
	switch network.Kind {
	case "efa":
		p, err = efa.New(network, config.Config.Client)
	case "hci":
		p, err = hci.New(network, config.Config.Client)
	default:
		err = fmt.Errorf("unsupported network kind %q", network.Kind)
	}
	if err != nil {
		fatal(err)
	}

	when := time.Now()
	if *at != "" {
		if when, err = time.Parse(time.RFC3339, *at); err != nil {
			fatal(err)
		}
	}

	ctx := context.Background()
	switch *command {
	case "suggest":
		err = runSuggest(ctx, p, *query, *max)
	case "nearby":
		err = runNearby(ctx, p, *stationID, *max)
	case "departures":
		err = runDepartures(ctx, p, *stationID, when, *max)
	case "trip":
		err = runTrip(ctx, p, *from, *via, *to, when, !*arrival, *products)
	default:
		err = fmt.Errorf("unknown command %q", *command)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func runSuggest(ctx context.Context, p provider, query string, max int) error {
	if query == "" {
		return fmt.Errorf("suggest needs -query")
	}
	result, err := p.SuggestLocations(ctx, query, nil, max)
	if err != nil {
		return err
	}
	if result.Status != pt.StatusOK {
		return fmt.Errorf("suggest: %s", result.Status)
	}

	w := tabwriter.NewWriter(os.Stdout, 5, 3, 3, ' ', 0)
	fmt.Fprintln(w, "# type \t id \t place \t name")
	for i, s := range result.Locations {
		fmt.Fprintf(w, "%d %s \t %s \t %s \t %s\n", i, s.Location.Type, s.Location.ID, s.Location.Place, s.Location.Name)
	}
	return w.Flush()
}

func runNearby(ctx context.Context, p provider, stationID string, max int) error {
	if stationID == "" {
		return fmt.Errorf("nearby needs -station")
	}
	reference := pt.Location{Type: pt.LocationStation, ID: stationID}
	if point, err := geo.ParsePoint(stationID); err == nil {
		reference = pt.CoordLocation(point)
	}
	result, err := p.NearbyLocations(ctx, map[pt.LocationType]bool{pt.LocationStation: true}, reference, 0, max)
	if err != nil {
		return err
	}
	if result.Status != pt.StatusOK {
		return fmt.Errorf("nearby: %s", result.Status)
	}

	w := tabwriter.NewWriter(os.Stdout, 5, 3, 3, ' ', 0)
	fmt.Fprintln(w, "# id \t place \t name \t coord")
	for i, loc := range result.Locations {
		coord := ""
		if loc.HasCoords() {
			coord = loc.Coord.String()
		}
		fmt.Fprintf(w, "%d %s \t %s \t %s \t %s\n", i, loc.ID, loc.Place, loc.Name, coord)
	}
	return w.Flush()
}

func runDepartures(ctx context.Context, p provider, stationID string, when time.Time, max int) error {
	if stationID == "" {
		return fmt.Errorf("departures needs -station")
	}
	result, err := p.QueryDepartures(ctx, stationID, when, max, false)
	if err != nil {
		return err
	}
	if result.Status != pt.StatusOK {
		return fmt.Errorf("departures: %s %s", result.Status, result.StatusHint)
	}

	w := tabwriter.NewWriter(os.Stdout, 5, 3, 3, ' ', 0)
	for _, group := range result.StationDepartures {
		fmt.Fprintf(w, "%s %s\n", group.Location.Place, group.Location.Name)
		fmt.Fprintln(w, "# time \t line \t platform \t destination")
		for i, dep := range group.Departures {
			destination := ""
			if dep.Destination != nil {
				destination = dep.Destination.Name
			}
			platform := ""
			if dep.Position != nil {
				platform = dep.Position.Name
			}
			fmt.Fprintf(w, "%d %s \t %s \t %s \t %s\n", i, dep.Time().Format(timeFormat), dep.Line, platform, destination)
		}
	}
	return w.Flush()
}

func runTrip(ctx context.Context, p provider, from, via, to string, when time.Time, departure bool, products string) error {
	if from == "" || to == "" {
		return fmt.Errorf("trip needs -from and -to")
	}
	opts := &pt.TripOptions{}
	if products != "" {
		set, err := pt.ProductsFromCodes(strings.ToUpper(products))
		if err != nil {
			return err
		}
		opts.Products = set
	}

	var viaLoc *pt.Location
	if via != "" {
		loc := tripEndpoint(via)
		viaLoc = &loc
	}
	result, err := p.QueryTrips(ctx, tripEndpoint(from), viaLoc, tripEndpoint(to), when, departure, opts)
	if err != nil {
		return err
	}
	if result.Status != pt.StatusOK {
		return fmt.Errorf("trip: %s %s", result.Status, result.StatusHint)
	}

	w := tabwriter.NewWriter(os.Stdout, 5, 3, 3, ' ', 0)
	for i, trip := range result.Trips {
		fmt.Fprintf(w, "trip %d \t %s -> %s \t %s, %d changes\n",
			i, trip.FirstDepartureTime().Format(timeFormat), trip.LastArrivalTime().Format(timeFormat),
			trip.Duration().Round(time.Minute), trip.NumChanges())
		for _, leg := range trip.Legs {
			switch l := leg.(type) {
			case *pt.PublicLeg:
				destination := ""
				if l.Destination != nil {
					destination = "-> " + l.Destination.Name
				}
				fmt.Fprintf(w, "  %s \t %s \t %s %s\n",
					l.DepartureTime().Format(timeFormat), l.Departure().Name, l.Line, destination)
				fmt.Fprintf(w, "  %s \t %s \t\n", l.ArrivalTime().Format(timeFormat), l.Arrival().Name)
			case *pt.IndividualLeg:
				fmt.Fprintf(w, "  %s \t %s \t %s %dm\n",
					l.DepartureTime().Format(timeFormat), l.Departure().Name, l.Type, l.DistanceM)
			}
		}
		for _, fare := range trip.Fares {
			fmt.Fprintf(w, "  fare \t %s \t %.2f %s\n", fare.Type, fare.Amount, fare.Currency)
		}
	}
	return w.Flush()
}

// tripEndpoint reads a station id or falls back to free text the
// backend resolves itself.
func tripEndpoint(s string) pt.Location {
	for _, r := range s {
		if r < '0' || r > '9' {
			return pt.Location{Type: pt.LocationAny, Name: s}
		}
	}
	return pt.Location{Type: pt.LocationStation, ID: s}
}
