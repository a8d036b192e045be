// Command mnetctl is a thin demonstration harness over pkg/session: it
// opens one transport, runs a single operation named on the command
// line, and prints the result. It is bootstrap glue, not part of the
// driver itself — the MQTT bridge and web dashboard that would
// normally sit on top of pkg/session are out of scope here.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/beezly/turbine/internal/metrics"
	"github.com/beezly/turbine/internal/transport"
	"github.com/beezly/turbine/pkg/datadict"
	"github.com/beezly/turbine/pkg/session"
)

var (
	link        = flag.String("link", "serial", "transport to use: serial or tcp")
	device      = flag.String("device", "/dev/ttyUSB0", "serial device path (link=serial)")
	baud        = flag.Int("baud", 38400, "serial baud rate (link=serial)")
	addr        = flag.String("addr", "127.0.0.1:2000", "TCP tunnel address (link=tcp)")
	destination = flag.Int("destination", 0x02, "Mnet destination node address")
	opTimeout   = flag.Duration("timeout", 2*time.Second, "per-request timeout")
	metricsAddr = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
)

func main() {
	flag.Parse()
	zerolog.TimeFieldFormat = time.RFC3339
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	args := flag.Args()
	if len(args) < 1 {
		logger.Fatal().Msg("usage: mnetctl [flags] <serial-number|login|data|multi|events|alarms|command|time-get|time-set> ...")
	}
	op := args[0]
	opArgs := args[1:]

	stream, err := openTransport(logger)
	if err != nil {
		logger.Fatal().Err(err).Str("link", *link).Msg("failed to open transport")
	}
	defer stream.Close()

	m := metrics.New()
	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := m.Register(reg); err != nil {
			logger.Fatal().Err(err).Msg("failed to register metrics")
		}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			logger.Info().Str("addr", *metricsAddr).Msg("serving Prometheus metrics")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("metrics server exited")
			}
		}()
	}

	sess := session.New(stream,
		session.WithOperationTimeout(*opTimeout),
		session.WithMetrics(m),
	)
	defer sess.Close()

	dst := byte(*destination)
	if err := runOperation(logger, sess, dst, op, opArgs); err != nil {
		logger.Fatal().Err(err).Str("op", op).Msg("operation failed")
	}
}

func openTransport(logger zerolog.Logger) (transport.ByteStream, error) {
	switch *link {
	case "serial":
		logger.Info().Str("device", *device).Int("baud", *baud).Msg("opening serial link")
		return transport.NewSerial(*device, *baud, *opTimeout)
	case "tcp":
		logger.Info().Str("addr", *addr).Msg("opening TCP tunnel")
		return transport.NewTCP(*addr, *opTimeout)
	default:
		return nil, fmt.Errorf("unknown link type %q", *link)
	}
}

func runOperation(logger zerolog.Logger, sess *session.Session, dst byte, op string, args []string) error {
	switch op {
	case "serial-number":
		serial, err := sess.SerialNumber(dst)
		if err != nil {
			return err
		}
		fmt.Printf("%x\n", serial)
		return nil

	case "login":
		return sess.Login(dst)

	case "data":
		if len(args) != 2 {
			return fmt.Errorf("usage: data <main-id> <sub-id>")
		}
		mainID, subID, err := parseIDPair(args[0], args[1])
		if err != nil {
			return err
		}
		val, err := sess.RequestData(dst, mainID, subID)
		if err != nil {
			return err
		}
		fmt.Println(val.String())
		return nil

	case "multi":
		if len(args)%2 != 0 || len(args) == 0 {
			return fmt.Errorf("usage: multi <main-id> <sub-id> [<main-id> <sub-id> ...]")
		}
		var ids []session.IDPair
		for i := 0; i < len(args); i += 2 {
			mainID, subID, err := parseIDPair(args[i], args[i+1])
			if err != nil {
				return err
			}
			ids = append(ids, session.IDPair{MainID: mainID, SubID: subID})
		}
		elements, err := sess.RequestMultiple(dst, ids)
		if err != nil {
			return err
		}
		for _, el := range elements {
			fmt.Printf("%#04x/%#04x = %s\n", el.MainID, el.SubID, el.Value.String())
		}
		return nil

	case "events":
		limit := datadict.EventStackSize
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			limit = n
		}
		events, err := sess.Events(dst, limit)
		if err != nil {
			return err
		}
		for _, e := range events {
			fmt.Printf("[%d] code=%s time=%s text=%s\n", e.Index, e.Code, e.Timestamp, e.Text)
		}
		return nil

	case "alarms":
		onlyOccurred := len(args) == 1 && args[0] == "occurred"
		records, err := sess.AlarmHistory(dst, onlyOccurred)
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Printf("%#04x %-32s last=%s occurred=%v\n", r.SubID, r.Description, r.LastOccurred, r.HasOccurred)
		}
		return nil

	case "command":
		if len(args) != 1 {
			return fmt.Errorf("usage: command <start|stop|reset|manual-start>")
		}
		cmd, err := parseCommand(args[0])
		if err != nil {
			return err
		}
		return sess.SendCommand(dst, cmd)

	case "time-get":
		t, err := sess.GetControllerTime(dst)
		if err != nil {
			return err
		}
		fmt.Println(t.Format(time.RFC3339))
		return nil

	case "time-set":
		return sess.SetControllerTime(dst, time.Time{})

	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func parseIDPair(mainIDArg, subIDArg string) (uint16, uint16, error) {
	mainID, err := strconv.ParseUint(mainIDArg, 0, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("main-id: %w", err)
	}
	subID, err := strconv.ParseUint(subIDArg, 0, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("sub-id: %w", err)
	}
	return uint16(mainID), uint16(subID), nil
}

func parseCommand(name string) (datadict.CommandID, error) {
	switch name {
	case "start":
		return datadict.CommandStart, nil
	case "stop":
		return datadict.CommandStop, nil
	case "reset":
		return datadict.CommandReset, nil
	case "manual-start":
		return datadict.CommandManualStart, nil
	default:
		return 0, fmt.Errorf("unknown command %q", name)
	}
}
